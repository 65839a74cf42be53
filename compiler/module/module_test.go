package module

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attus74/devutil"
	"github.com/attus74/devutil/compiler/filestore"
)

type fakeRegistry map[string]string

func (r fakeRegistry) ModuleExists(name string) bool {
	_, ok := r[name]
	return ok
}

func (r fakeRegistry) ModulePath(name string) (string, error) {
	if p, ok := r[name]; ok && p != "" {
		return p, nil
	}
	return "", errors.New("unknown module")
}

func TestEnsureExisting(t *testing.T) {
	fs := filestore.Memory()
	s := NewScaffolder(fs, fakeRegistry{"kitchen": "modules/contrib/kitchen"}, "", "")

	m, err := s.Ensure(Ref{Name: "kitchen"})
	require.NoError(t, err)
	assert.Equal(t, &Module{Name: "kitchen", Root: "modules/contrib/kitchen", Exists: true}, m)
	assert.False(t, fs.Exists("modules/contrib/kitchen/kitchen.info.yml"))
	assert.Equal(t, "modules/contrib/kitchen/kitchen.routing.yml", m.Table("routing"))
	assert.Equal(t, "modules/contrib/kitchen/kitchen.module", m.HookFile())
	assert.Equal(t, "modules/contrib/kitchen/src/Form/RecipeForm.php", m.File("src", "Form", "RecipeForm.php"))
}

func TestEnsureCreates(t *testing.T) {
	fs := filestore.Memory()
	s := NewScaffolder(fs, fakeRegistry{}, "", "")

	m, err := s.Ensure(Ref{Name: "recipe", Label: "Recipe", Description: "Entity Type Recipe"})
	require.NoError(t, err)
	assert.Equal(t, "modules/custom/recipe", m.Root)
	assert.False(t, m.Exists)

	text, ok, err := fs.ReadText("modules/custom/recipe/recipe.info.yml")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "name: Recipe\ndescription: Entity Type Recipe\ntype: module\ncore_version_requirement: ^9.1 || ^10\n", text)

	again, err := s.Ensure(Ref{Name: "recipe", Label: "Other"})
	require.NoError(t, err)
	assert.True(t, again.Exists)
	text, _, _ = fs.ReadText("modules/custom/recipe/recipe.info.yml")
	assert.Contains(t, text, "name: Recipe")
}

func TestEnsureExplicitPath(t *testing.T) {
	fs := filestore.Memory()
	s := NewScaffolder(fs, fakeRegistry{"recipe": "modules/custom/recipe"}, "modules/custom", "^10")

	m, err := s.Ensure(Ref{Name: "recipe", Path: "/profiles/site/modules", Label: "Recipe"})
	require.NoError(t, err)
	assert.Equal(t, "profiles/site/modules/recipe", m.Root)
	text, _, err := fs.ReadText("profiles/site/modules/recipe/recipe.info.yml")
	require.NoError(t, err)
	assert.Contains(t, text, "core_version_requirement: ^10\n")
}

func TestEnsureFailures(t *testing.T) {
	t.Run("FileInTheWay", func(t *testing.T) {
		fs := filestore.Memory()
		require.NoError(t, fs.WriteText("modules/custom/recipe", "not a directory"))
		_, err := NewScaffolder(fs, nil, "", "").Ensure(Ref{Name: "recipe"})
		require.Error(t, err)
		assert.ErrorIs(t, err, devutil.ErrModuleCreation)
		assert.ErrorIs(t, err, filestore.ErrNotDir)
	})

	t.Run("UnresolvablePath", func(t *testing.T) {
		_, err := NewScaffolder(filestore.Memory(), fakeRegistry{"recipe": ""}, "", "").Ensure(Ref{Name: "recipe"})
		assert.True(t, devutil.IsModuleError(err))
	})

	t.Run("MissingName", func(t *testing.T) {
		_, err := NewScaffolder(filestore.Memory(), nil, "", "").Ensure(Ref{})
		assert.True(t, devutil.IsModuleError(err))
	})
}
