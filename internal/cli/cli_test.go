package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func execute(t *testing.T, cfg *Config, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd(cfg, &out, &errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, defaultConfig(), cfg)
	})
	t.Run("Environment", func(t *testing.T) {
		t.Setenv("DEVUTIL_ROOT", "/srv/site")
		t.Setenv("DEVUTIL_AUTHOR", "Jane Doe")
		t.Setenv("DEVUTIL_DATE", "true")
		t.Setenv("DEVUTIL_MODULES_DIR", "web/modules/custom")
		t.Setenv("DEVUTIL_LOG_LEVEL", "debug")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "/srv/site", cfg.Root)
		assert.Equal(t, "Jane Doe", cfg.Author)
		assert.True(t, cfg.Date)
		assert.Equal(t, "web/modules/custom", cfg.ModulesDir)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "^9.1 || ^10", cfg.CoreVersion)
	})
	t.Run("Invalid", func(t *testing.T) {
		t.Setenv("DEVUTIL_DATE", "often")
		_, err := LoadConfig()
		require.Error(t, err)
	})
}

func TestLevel(t *testing.T) {
	for name, want := range map[string]string{"debug": "DEBUG", "INFO": "INFO", " warn ": "WARN", "error": "ERROR"} {
		l, err := level(name)
		require.NoError(t, err)
		assert.Equal(t, want, l.String())
	}
	_, err := level("loud")
	require.Error(t, err)
}

func TestContentEntity(t *testing.T) {
	root := t.TempDir()
	out, _, err := execute(t, nil, "--root", root, "--name", "Jane Doe", "content-entity", "recipe", "Recipe")
	require.NoError(t, err)

	assert.Contains(t, out, "Content entity type recipe")
	assert.Contains(t, out, "module recipe (new, modules/custom/recipe)")
	assert.Contains(t, out, "WRITE modules/custom/recipe/src/Entity/Recipe.php")
	src := readFile(t, filepath.Join(root, "modules/custom/recipe/src/Entity/Recipe.php"))
	assert.Contains(t, src, "@author Jane Doe")
	assert.NotContains(t, src, "@date")
	assert.FileExists(t, filepath.Join(root, "devutil.entity_types.yml"))
}

func TestAliases(t *testing.T) {
	root := t.TempDir()
	_, _, err := execute(t, nil, "--root", root, "devu-nt-ent", "document", "Document", "--bundles", "--bundle-classes")
	require.NoError(t, err)
	out, _, err := execute(t, nil, "--root", root, "devu-bundle", "document", "memo", "Memo")
	require.NoError(t, err)
	assert.Contains(t, out, "Bundle document.memo")
	assert.FileExists(t, filepath.Join(root, "modules/custom/document/src/Entity/Bundles/DocumentMemo.php"))

	_, _, err = execute(t, nil, "--root", root, "devu-nf-ent", "cooking_style", "Cooking Style", "--module", "document")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "modules/custom/document/src/Entity/CookingStyle.php"))

	_, _, err = execute(t, nil, "--root", root, "devu-plugin", "Image Source", "--module", "document")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "modules/custom/document/src/Annotation/ImageSource.php"))
}

func TestDate(t *testing.T) {
	root := t.TempDir()
	var out, errOut bytes.Buffer
	a := &app{cfg: &Config{
		Root:        root,
		Date:        true,
		ModulesDir:  "modules/custom",
		CoreVersion: "^10",
		Manifest:    "devutil.entity_types.yml",
		LogLevel:    "info",
	}, out: &out, err: &errOut, now: func() time.Time {
		return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	}}
	opts, err := a.options()
	require.NoError(t, err)
	assert.Len(t, opts, 6)

	sub := a.pluginCmd()
	sub.SetArgs([]string{"queue_worker", "--module", "tools"})
	sub.SetOut(&out)
	require.NoError(t, sub.ExecuteContext(context.Background()))
	src := readFile(t, filepath.Join(root, "modules/custom/tools/src/QueueWorkerBase.php"))
	assert.Contains(t, src, "@date 19.10.2026")
	assert.Contains(t, readFile(t, filepath.Join(root, "modules/custom/tools/tools.info.yml")), "^10")
	assert.Contains(t, errOut.String(), "level=INFO")
}

func TestApply(t *testing.T) {
	root := t.TempDir()
	plan := `author: Jane Doe
steps:
  - kind: content-entity
    name: recipe
    label: Recipe
  - kind: plugin
    name: Image Source
    module: recipe
`
	require.NoError(t, os.WriteFile(filepath.Join(root, "plan.yml"), []byte(plan), 0o644))
	out, _, err := execute(t, nil, "--root", root, "apply", "plan.yml")
	require.NoError(t, err)
	assert.Contains(t, out, "content-entity recipe")
	assert.Contains(t, out, "plugin Image Source")
	assert.FileExists(t, filepath.Join(root, "modules/custom/recipe/src/ImageSourceManager.php"))
}

func TestModules(t *testing.T) {
	root := t.TempDir()
	_, _, err := execute(t, nil, "--root", root, "content-entity", "recipe", "Recipe")
	require.NoError(t, err)
	_, _, err = execute(t, nil, "--root", root, "plugin", "Image Source", "--module", "media_kit")
	require.NoError(t, err)

	out, _, err := execute(t, nil, "--root", root, "modules")
	require.NoError(t, err)
	assert.Equal(t, "media_kit\nrecipe\n", out)
}

func TestErrors(t *testing.T) {
	root := t.TempDir()
	tests := map[string][]string{
		"MissingArgs":     {"content-entity", "recipe"},
		"BadMachineName":  {"content-entity", "Recipe", "Recipe"},
		"ClassesNoBundle": {"content-entity", "recipe", "Recipe", "--bundle-classes"},
		"UnknownType":     {"bundle", "article", "memo", "Memo"},
		"BadLogLevel":     {"--log-level", "loud", "plugin", "x"},
		"MissingPlan":     {"apply", "nope.yml"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := execute(t, nil, append([]string{"--root", root}, args...)...)
			require.Error(t, err)
		})
	}
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPrintError(t *testing.T) {
	var b bytes.Buffer
	PrintError(&b, assert.AnError)
	assert.Equal(t, "error: "+assert.AnError.Error()+"\n", b.String())
}
