// Package module resolves the module that receives generated artifacts and
// creates it when it does not exist yet.
package module

import (
	"path/filepath"
	"strings"

	"github.com/attus74/devutil"
	"github.com/attus74/devutil/compiler/filestore"
	"github.com/attus74/devutil/compiler/omap"
	"github.com/attus74/devutil/compiler/table"
)

// DefaultDir is the directory new modules are created in.
const DefaultDir = "modules/custom"

// DefaultCoreVersion is the core_version_requirement of new modules.
const DefaultCoreVersion = "^9.1 || ^10"

// Registry answers which modules exist in the project.
type Registry interface {
	ModuleExists(name string) bool
	ModulePath(name string) (string, error)
}

// Ref names the module a run targets.
type Ref struct {
	Name        string
	Path        string // parent directory for a new module
	Label       string
	Description string
}

// Module is a resolved module.
type Module struct {
	Name   string
	Root   string
	Exists bool // false when the run created the module
}

// File returns a path inside the module.
func (m *Module) File(elem ...string) string {
	return filepath.Join(append([]string{m.Root}, elem...)...)
}

// Table returns the path of a module level table such as <name>.routing.yml.
func (m *Module) Table(key string) string {
	return table.ModulePath(m.Root, m.Name, key)
}

// HookFile returns the path of the module's procedural hook file.
func (m *Module) HookFile() string {
	return filepath.Join(m.Root, m.Name+".module")
}

// Scaffolder ensures modules exist.
type Scaffolder struct {
	fs          filestore.FileStore
	registry    Registry
	dir         string
	coreVersion string
}

// NewScaffolder returns a Scaffolder creating new modules below dir.
func NewScaffolder(fs filestore.FileStore, registry Registry, dir, coreVersion string) *Scaffolder {
	if dir == "" {
		dir = DefaultDir
	}
	if coreVersion == "" {
		coreVersion = DefaultCoreVersion
	}
	return &Scaffolder{fs: fs, registry: registry, dir: dir, coreVersion: coreVersion}
}

// Ensure resolves ref to an existing module or creates it with its info
// descriptor. Failures are reported as *devutil.ModuleError.
func (s *Scaffolder) Ensure(ref Ref) (*Module, error) {
	if ref.Name == "" {
		return nil, devutil.NewModuleError(ref.Name, ref.Path, "missing module name", nil)
	}
	if ref.Path == "" && s.registry != nil && s.registry.ModuleExists(ref.Name) {
		root, err := s.registry.ModulePath(ref.Name)
		if err != nil {
			return nil, devutil.NewModuleError(ref.Name, "", "cannot resolve module path", err)
		}
		return &Module{Name: ref.Name, Root: root, Exists: true}, nil
	}
	parent := s.dir
	if ref.Path != "" {
		parent = strings.TrimPrefix(filepath.Clean(ref.Path), "/")
	}
	m := &Module{Name: ref.Name, Root: filepath.Join(parent, ref.Name)}
	info := table.ModulePath(m.Root, m.Name, "info")
	if s.fs.Exists(info) {
		m.Exists = true
		return m, nil
	}
	if err := s.fs.EnsureDir(m.Root); err != nil {
		return nil, devutil.NewModuleError(ref.Name, m.Root, "cannot create module directory", err)
	}
	store := table.NewStore(s.fs)
	descriptor, err := store.Load(info)
	if err != nil {
		return nil, devutil.NewModuleError(ref.Name, m.Root, "cannot read descriptor", err)
	}
	label := ref.Label
	if label == "" {
		label = ref.Name
	}
	for _, p := range omap.Of(
		"name", label,
		"description", ref.Description,
		"type", "module",
		"core_version_requirement", s.coreVersion,
	) {
		if err := descriptor.Set(p.Key, p.Value); err != nil {
			return nil, devutil.NewModuleError(ref.Name, m.Root, "cannot build descriptor", err)
		}
	}
	if err := store.Save(descriptor); err != nil {
		return nil, devutil.NewModuleError(ref.Name, m.Root, "cannot write descriptor", err)
	}
	return m, nil
}
