package filestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	s := Memory()

	_, ok, err := s.ReadText("modules/kitchen/kitchen.info.yml")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, s.Exists("modules/kitchen"))

	require.NoError(t, s.WriteText("modules/kitchen/kitchen.info.yml", "name: Kitchen\n"))
	assert.True(t, s.Exists("modules/kitchen"))
	assert.True(t, s.IsDir("modules/kitchen"))

	text, ok, err := s.ReadText("modules/kitchen/kitchen.info.yml")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "name: Kitchen\n", text)

	require.NoError(t, s.WriteText("modules/kitchen/kitchen.info.yml", "x"))
	text, _, err = s.ReadText("modules/kitchen/kitchen.info.yml")
	require.NoError(t, err)
	assert.Equal(t, "x", text)

	names, err := s.List("modules/kitchen")
	require.NoError(t, err)
	assert.Equal(t, []string{"kitchen.info.yml"}, names)

	names, err = s.List("modules/missing")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestEnsureDir(t *testing.T) {
	s := Memory()
	require.NoError(t, s.EnsureDir("modules/kitchen/src/Entity/Bundles"))
	assert.True(t, s.IsDir("modules/kitchen/src/Entity"))
	require.NoError(t, s.EnsureDir("modules/kitchen/src"))

	require.NoError(t, s.WriteText("modules/file", "plain"))
	err := s.EnsureDir("modules/file")
	assert.ErrorIs(t, err, ErrNotDir)
}

func TestOSStore(t *testing.T) {
	root := t.TempDir()
	s := OS(root)

	require.NoError(t, s.WriteText("modules/custom/kitchen/kitchen.module", "<?php\n"))
	data, err := os.ReadFile(filepath.Join(root, "modules", "custom", "kitchen", "kitchen.module"))
	require.NoError(t, err)
	assert.Equal(t, "<?php\n", string(data))

	text, ok, err := s.ReadText("modules/custom/kitchen/kitchen.module")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "<?php\n", text)
}
