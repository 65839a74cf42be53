package plan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attus74/devutil"
	"github.com/attus74/devutil/compiler/filestore"
	"github.com/attus74/devutil/compiler/registry"
)

const kitchenPlan = `author: Jane Doe
steps:
  - kind: content-entity
    name: document
    label: Document
    bundles: true
    bundle_classes: true
  - kind: bundle
    entity_type: document
    bundle: memo
    label: Memo
  - kind: config-entity
    name: cooking_style
    label: Cooking Style
    module: document
  - kind: plugin
    name: Image Source
    module: document
    author: John Roe
`

func TestParse(t *testing.T) {
	p, err := Parse([]byte(kitchenPlan))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", p.Author)
	require.Len(t, p.Steps, 4)
	assert.Equal(t, Step{Kind: KindContentEntity, Name: "document", Label: "Document", Bundles: true, BundleClasses: true}, p.Steps[0])
	assert.Equal(t, "bundle document.memo", p.Steps[1].String())
	assert.Equal(t, "plugin Image Source", p.Steps[3].String())
}

func TestParseInvalid(t *testing.T) {
	tests := map[string]string{
		"Empty":           "",
		"NoSteps":         "steps: []\n",
		"UnknownKind":     "steps:\n  - kind: view\n    name: x\n",
		"UnknownField":    "steps:\n  - kind: plugin\n    name: x\n    color: red\n",
		"MissingLabel":    "steps:\n  - kind: content-entity\n    name: recipe\n",
		"BadMachineName":  "steps:\n  - kind: content-entity\n    name: Recipe\n    label: Recipe\n",
		"ConfigBundles":   "steps:\n  - kind: config-entity\n    name: flavor\n    label: Flavor\n    bundles: true\n",
		"BundleNoOwner":   "steps:\n  - kind: bundle\n    bundle: memo\n    label: Memo\n",
		"NotYAML":         "steps: [\n",
		"BundlesNotABool": "steps:\n  - kind: content-entity\n    name: recipe\n    label: Recipe\n    bundles: 3\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(src))
			assert.ErrorIs(t, err, ErrInvalidPlan)
		})
	}
}

func TestLoad(t *testing.T) {
	fs := filestore.Memory()
	_, err := Load(fs, "plan.yml")
	assert.Error(t, err)

	require.NoError(t, fs.WriteText("plan.yml", kitchenPlan))
	p, err := Load(fs, "plan.yml")
	require.NoError(t, err)
	assert.Len(t, p.Steps, 4)
}

func TestRun(t *testing.T) {
	fs := filestore.Memory()
	r, err := NewRunner(fs, registry.NewModules(fs), registry.NewEntityTypes(fs, ""))
	require.NoError(t, err)
	p, err := Parse([]byte(kitchenPlan))
	require.NoError(t, err)

	results, err := r.Run(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.False(t, results[0].Module.Exists)
	for _, res := range results[1:] {
		assert.True(t, res.Module.Exists)
	}

	text, ok, err := fs.ReadText("modules/custom/document/src/Entity/Bundles/DocumentMemo.php")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, text, "@author Jane Doe")

	text, _, _ = fs.ReadText("modules/custom/document/src/ImageSourceManager.php")
	assert.Contains(t, text, "@author John Roe")
	assert.True(t, fs.Exists("modules/custom/document/src/Entity/CookingStyle.php"))
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	fs := filestore.Memory()
	r, err := NewRunner(fs, registry.NewModules(fs), registry.NewEntityTypes(fs, ""))
	require.NoError(t, err)
	p := &Plan{Steps: []Step{
		{Kind: KindPlugin, Name: "Image Source"},
		{Kind: KindBundle, EntityType: "ghost", Bundle: "memo", Label: "Memo"},
		{Kind: KindPlugin, Name: "Text Filter"},
	}}

	results, err := r.Run(context.Background(), p)
	assert.Len(t, results, 1)
	assert.True(t, devutil.IsPreconditionError(err))
	assert.Contains(t, err.Error(), "step 2 (bundle ghost.memo)")
	assert.False(t, fs.Exists("modules/custom/text_filter"))
}
