package gen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/attus74/devutil/compiler/filestore"
	"github.com/attus74/devutil/compiler/registry"
	"github.com/attus74/devutil/compiler/table"
)

var today = func() time.Time { return time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC) }

// spyStore counts every call reaching the wrapped store.
type spyStore struct {
	filestore.FileStore
	calls, writes int
}

func (s *spyStore) EnsureDir(path string) error {
	s.calls++
	s.writes++
	return s.FileStore.EnsureDir(path)
}

func (s *spyStore) Exists(path string) bool {
	s.calls++
	return s.FileStore.Exists(path)
}

func (s *spyStore) ReadText(path string) (string, bool, error) {
	s.calls++
	return s.FileStore.ReadText(path)
}

func (s *spyStore) WriteText(path, content string) error {
	s.calls++
	s.writes++
	return s.FileStore.WriteText(path, content)
}

func read(t *testing.T, fs filestore.FileStore, path string) string {
	t.Helper()
	text, ok, err := fs.ReadText(path)
	require.NoError(t, err)
	require.True(t, ok, "missing %s", path)
	return text
}

// decode reads one entry of a YAML table into a generic value.
func decode(t *testing.T, fs filestore.FileStore, path, key string) map[string]any {
	t.Helper()
	tbl, err := table.Parse(path, []byte(read(t, fs, path)))
	require.NoError(t, err)
	var v map[string]any
	require.NoError(t, tbl.Decode(key, &v))
	return v
}

func keys(t *testing.T, fs filestore.FileStore, path string) []string {
	t.Helper()
	tbl, err := table.Parse(path, []byte(read(t, fs, path)))
	require.NoError(t, err)
	return tbl.Keys()
}

func newContent(t *testing.T, fs filestore.FileStore, opts ...Option) *EntityTypeGenerator {
	t.Helper()
	g, err := NewEntityTypeGenerator(fs, registry.NewModules(fs), opts...)
	require.NoError(t, err)
	return g
}

// snapshot returns the content of every file a run wrote.
func snapshot(t *testing.T, fs filestore.FileStore, res *Result) map[string]string {
	t.Helper()
	out := make(map[string]string, len(res.Files))
	for _, f := range res.Files {
		out[f] = read(t, fs, f)
	}
	return out
}
