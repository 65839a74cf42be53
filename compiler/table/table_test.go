package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attus74/devutil/compiler/filestore"
	"github.com/attus74/devutil/compiler/omap"
)

func TestTableSet(t *testing.T) {
	tb := New("kitchen.permissions.yml")
	require.NoError(t, tb.Set("administer recipe", omap.Of(
		"title", "Administer Recipe",
		"description", "Configure Recipe",
		"restrict access", true,
	)))
	require.NoError(t, tb.Set("view recipe", omap.Of("title", "View Recipe", "weight", 3)))
	require.NoError(t, tb.Set("administer recipe", omap.Of("title", "Administer recipes")))

	assert.Equal(t, []string{"administer recipe", "view recipe"}, tb.Keys())
	data, err := tb.Bytes()
	require.NoError(t, err)
	assert.Equal(t, `administer recipe:
  title: Administer recipes
view recipe:
  title: View Recipe
  weight: 3
`, string(data))
}

func TestTableLists(t *testing.T) {
	tb := New("kitchen.links.action.yml")
	require.NoError(t, tb.Set("entity.recipe.add_form", omap.Of(
		"route_name", "entity.recipe.add_form",
		"appears_on", []string{"entity.recipe.collection"},
		"options", omap.List{omap.Of("a", 1)},
	)))
	data, err := tb.Bytes()
	require.NoError(t, err)
	assert.Equal(t, `entity.recipe.add_form:
  route_name: entity.recipe.add_form
  appears_on:
    - entity.recipe.collection
  options:
    - a: 1
`, string(data))
}

func TestTableMergeKeepsUnrelatedEntries(t *testing.T) {
	src := `# Hand written routes.
custom.page:
  path: /custom # keep me
  defaults:
    _title: Custom
entity.recipe.canonical:
  path: old
`
	tb, err := Parse("kitchen.routing.yml", []byte(src))
	require.NoError(t, err)

	update := New("update")
	require.NoError(t, update.Set("entity.recipe.canonical", omap.Of("path", "recipe/{recipe}")))
	require.NoError(t, update.Set("entity.recipe.collection", omap.Of("path", "recipe")))
	tb.Merge(update)

	assert.Equal(t, []string{"custom.page", "entity.recipe.canonical", "entity.recipe.collection"}, tb.Keys())
	data, err := tb.Bytes()
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "# Hand written routes.")
	assert.Contains(t, out, "# keep me")
	assert.Contains(t, out, "_title: Custom")
	assert.Contains(t, out, "path: recipe/{recipe}")
	assert.NotContains(t, out, "old")

	var route struct {
		Path string `yaml:"path"`
	}
	require.NoError(t, tb.Decode("entity.recipe.canonical", &route))
	assert.Equal(t, "recipe/{recipe}", route.Path)
	assert.Error(t, tb.Decode("missing", &route))
}

func TestTableStableOutput(t *testing.T) {
	tb := New("kitchen.routing.yml")
	value := omap.Of(
		"path", "recipe/{recipe}",
		"defaults", omap.Of("_title_callback", `\Drupal\Core\Entity\Controller\EntityController::title`),
		"options", omap.Of("_admin_route", "TRUE", "weight", "10"),
	)
	require.NoError(t, tb.Set("entity.recipe.canonical", value))
	first, err := tb.Bytes()
	require.NoError(t, err)

	again, err := Parse("kitchen.routing.yml", first)
	require.NoError(t, err)
	require.NoError(t, again.Set("entity.recipe.canonical", value))
	second, err := again.Bytes()
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	var opts map[string]any
	require.NoError(t, again.Decode("entity.recipe.canonical", &map[string]any{}))
	n, ok := again.Node("entity.recipe.canonical")
	require.True(t, ok)
	options, ok := lookup(n, "options")
	require.True(t, ok)
	require.NoError(t, options.Decode(&opts))
	assert.Equal(t, "TRUE", opts["_admin_route"])
	assert.Equal(t, "10", opts["weight"])
}

func TestTableSetIn(t *testing.T) {
	tb, err := Parse("kitchen.services.yml", []byte("services:\n  kitchen.timer:\n    class: Drupal\\kitchen\\Timer\n"))
	require.NoError(t, err)
	require.NoError(t, tb.SetIn([]string{"services", "plugin.manager.image_source"}, omap.Of(
		"class", `Drupal\kitchen\ImageSourceManager`,
		"parent", "default_plugin_manager",
	)))

	var services map[string]map[string]string
	require.NoError(t, tb.Decode("services", &services))
	assert.Equal(t, `Drupal\kitchen\Timer`, services["kitchen.timer"]["class"])
	assert.Equal(t, "default_plugin_manager", services["plugin.manager.image_source"]["parent"])
	assert.Error(t, tb.SetIn(nil, "x"))
}

func TestParse(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		tb, err := Parse("x.yml", nil)
		require.NoError(t, err)
		assert.Equal(t, 0, tb.Len())
		data, err := tb.Bytes()
		require.NoError(t, err)
		assert.Equal(t, "{}\n", string(data))
	})

	t.Run("Null", func(t *testing.T) {
		tb, err := Parse("x.yml", []byte("~\n"))
		require.NoError(t, err)
		assert.Equal(t, 0, tb.Len())
	})

	t.Run("NotAMapping", func(t *testing.T) {
		_, err := Parse("x.yml", []byte("- a\n- b\n"))
		assert.Error(t, err)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := Parse("x.yml", []byte("a: [b\n"))
		assert.Error(t, err)
	})
}

func TestStore(t *testing.T) {
	fs := filestore.Memory()
	s := NewStore(fs)
	path := ModulePath("modules/custom/kitchen", "kitchen", "permissions")
	assert.Equal(t, "modules/custom/kitchen/kitchen.permissions.yml", path)

	tb, err := s.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, tb.Len())
	require.NoError(t, tb.Set("view recipe", omap.Of("title", "View Recipe")))
	require.NoError(t, s.Save(tb))
	assert.ErrorIs(t, s.Save(tb), ErrTableSaved)

	text, ok, err := fs.ReadText(path)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "view recipe:\n  title: View Recipe\n", text)

	next := NewStore(fs)
	loaded, err := next.Load(path)
	require.NoError(t, err)
	assert.True(t, loaded.Has("view recipe"))
	assert.Equal(t, path, loaded.Path())
}
