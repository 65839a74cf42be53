package gen

import (
	"log/slog"
	"slices"
	"time"

	"github.com/attus74/devutil/compiler/filestore"
)

// WriterMetrics tracks what a run wrote.
type WriterMetrics struct {
	FilesGenerated int
	TotalBytes     int64
	WriteTime      time.Duration
}

// writer is the FileStore handed to every component of a run. It forwards
// to the project store and records each written path.
type writer struct {
	fs      filestore.FileStore
	log     *slog.Logger
	files   []string
	metrics WriterMetrics
}

var _ filestore.FileStore = (*writer)(nil)

func newWriter(fs filestore.FileStore, log *slog.Logger) *writer {
	return &writer{fs: fs, log: log}
}

func (w *writer) EnsureDir(path string) error { return w.fs.EnsureDir(path) }

func (w *writer) Exists(path string) bool { return w.fs.Exists(path) }

func (w *writer) ReadText(path string) (string, bool, error) { return w.fs.ReadText(path) }

func (w *writer) WriteText(path, content string) error {
	start := time.Now()
	if err := w.fs.WriteText(path, content); err != nil {
		return err
	}
	w.metrics.WriteTime += time.Since(start)
	w.metrics.TotalBytes += int64(len(content))
	if !slices.Contains(w.files, path) {
		w.files = append(w.files, path)
		w.metrics.FilesGenerated++
	}
	w.log.Debug("file written", "path", path, "bytes", len(content))
	return nil
}

// List forwards directory listings when the project store supports them.
func (w *writer) List(dir string) ([]string, error) {
	if l, ok := w.fs.(interface {
		List(string) ([]string, error)
	}); ok {
		return l.List(dir)
	}
	return nil, nil
}
