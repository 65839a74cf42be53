// Package filestore is the file system boundary of the generators. Every
// artifact is written through a FileStore so runs can target a project
// directory or an in-memory tree.
package filestore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
)

// ErrNotDir is returned when a directory is expected but a file exists.
var ErrNotDir = errors.New("filestore: not a directory")

// FileStore is the file access the generators need.
type FileStore interface {
	// EnsureDir creates path and its parents when missing.
	EnsureDir(path string) error
	// Exists reports whether a file or directory exists at path.
	Exists(path string) bool
	// ReadText returns the file content, or false when the file is absent.
	ReadText(path string) (string, bool, error)
	// WriteText replaces the file content, creating parent directories.
	WriteText(path, content string) error
}

// Store implements FileStore on a billy file system.
type Store struct {
	fs billy.Filesystem
}

var _ FileStore = (*Store)(nil)

// New returns a Store on the given file system.
func New(fs billy.Filesystem) *Store {
	return &Store{fs: fs}
}

// OS returns a Store rooted at a directory of the host file system.
func OS(root string) *Store {
	return New(osfs.New(root))
}

// Memory returns a Store on an empty in-memory file system.
func Memory() *Store {
	return New(memfs.New())
}

// EnsureDir implements FileStore.
func (s *Store) EnsureDir(path string) error {
	fi, err := s.fs.Stat(path)
	switch {
	case err == nil && !fi.IsDir():
		return fmt.Errorf("ensure %s: %w", path, ErrNotDir)
	case err == nil:
		return nil
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := s.fs.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}
	return nil
}

// Exists implements FileStore.
func (s *Store) Exists(path string) bool {
	_, err := s.fs.Stat(path)
	return err == nil
}

// IsDir reports whether path is an existing directory.
func (s *Store) IsDir(path string) bool {
	fi, err := s.fs.Stat(path)
	return err == nil && fi.IsDir()
}

// ReadText implements FileStore.
func (s *Store) ReadText(path string) (string, bool, error) {
	f, err := s.fs.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), true, nil
}

// WriteText implements FileStore.
func (s *Store) WriteText(path, content string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "/" {
		if err := s.EnsureDir(dir); err != nil {
			return err
		}
	}
	f, err := s.fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := io.WriteString(f, content); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// List returns the names of the entries of a directory in lexical order. A
// missing directory has no entries.
func (s *Store) List(dir string) ([]string, error) {
	infos, err := s.fs.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	names := make([]string, len(infos))
	for i, fi := range infos {
		names[i] = fi.Name()
	}
	sort.Strings(names)
	return names, nil
}
