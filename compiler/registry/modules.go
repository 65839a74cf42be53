// Package registry answers questions about the project a generator runs in:
// which modules exist and which entity types were generated before.
package registry

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/attus74/devutil/compiler/filestore"
	"github.com/attus74/devutil/compiler/module"
	"github.com/attus74/devutil/compiler/table"
)

// ErrUnknownModule is returned by ModulePath for modules that do not exist.
var ErrUnknownModule = errors.New("registry: unknown module")

// DefaultModuleDirs are the directories searched for modules.
var DefaultModuleDirs = []string{module.DefaultDir, "modules/contrib", "modules"}

// Modules finds modules by their info descriptor. A module named n exists
// when one of the search directories contains n/n.info.yml.
type Modules struct {
	fs   filestore.FileStore
	dirs []string
}

var _ module.Registry = (*Modules)(nil)

// NewModules returns a registry searching dirs, or DefaultModuleDirs.
func NewModules(fs filestore.FileStore, dirs ...string) *Modules {
	if len(dirs) == 0 {
		dirs = DefaultModuleDirs
	}
	return &Modules{fs: fs, dirs: slices.Clone(dirs)}
}

// ModuleExists reports whether a module is installed in one of the
// search directories.
func (m *Modules) ModuleExists(name string) bool {
	_, err := m.ModulePath(name)
	return err == nil
}

// ModulePath returns the root directory of a module.
func (m *Modules) ModulePath(name string) (string, error) {
	for _, dir := range m.dirs {
		root := filepath.Join(dir, name)
		if m.fs.Exists(table.ModulePath(root, name, "info")) {
			return root, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownModule, name)
}

// Lister is implemented by file stores that can enumerate a directory.
type Lister interface {
	List(dir string) ([]string, error)
}

// List returns the names of all modules found in the search directories,
// sorted and without duplicates. It needs a store implementing Lister.
func (m *Modules) List() ([]string, error) {
	l, ok := m.fs.(Lister)
	if !ok {
		return nil, errors.New("registry: file store cannot list directories")
	}
	var names []string
	for _, dir := range m.dirs {
		entries, err := l.List(dir)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", dir, err)
		}
		for _, e := range entries {
			if m.fs.Exists(table.ModulePath(filepath.Join(dir, e), e, "info")) && !slices.Contains(names, e) {
				names = append(names, e)
			}
		}
	}
	slices.Sort(names)
	return names, nil
}
