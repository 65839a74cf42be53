package gen

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/attus74/devutil"
	"github.com/attus74/devutil/compiler/filestore"
	"github.com/attus74/devutil/compiler/hook"
	"github.com/attus74/devutil/compiler/module"
	"github.com/attus74/devutil/compiler/omap"
	"github.com/attus74/devutil/compiler/php"
	"github.com/attus74/devutil/compiler/registry"
	"github.com/attus74/devutil/compiler/table"
	"github.com/attus74/devutil/naming"
)

// EntityTypeRegistry answers questions about entity types that already exist.
type EntityTypeRegistry interface {
	BundleInfo(id string) (map[string]registry.Bundle, error)
	Definition(id string) (*registry.Definition, error)
}

// BundleGenerator adds a bundle with its own bundle class to an entity type
// generated with bundle classes.
type BundleGenerator struct {
	fs      filestore.FileStore
	modules module.Registry
	types   EntityTypeRegistry
	cfg     *Config
}

// NewBundleGenerator returns a generator writing through fs.
func NewBundleGenerator(fs filestore.FileStore, modules module.Registry, types EntityTypeRegistry, opts ...Option) (*BundleGenerator, error) {
	if types == nil {
		return nil, NewConfigError("types", nil, "entity type registry is required")
	}
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &BundleGenerator{fs: fs, modules: modules, types: types, cfg: cfg}, nil
}

// Generate writes the bundle interface and class, registers the bundle in
// the module's bundle info hook and installs its configuration. Every
// precondition is checked before the first write and reported as
// *devutil.PreconditionError.
func (g *BundleGenerator) Generate(ctx context.Context, spec BundleSpec) (*Result, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	def, moduleName, err := g.check(spec)
	if err != nil {
		return nil, err
	}
	r, err := start(ctx, g.cfg, g.fs, "bundle", spec.EntityType+"."+spec.BundleID, spec.Author)
	if err != nil {
		return nil, err
	}
	ref := module.Ref{Name: moduleName, Label: def.Label}
	if g.modules == nil || !g.modules.ModuleExists(moduleName) {
		ref.Path = filepath.Dir(def.Path)
	}
	if err := r.ensureModule(g.modules, ref); err != nil {
		return nil, err
	}
	b := &bundleRun{
		run:       r,
		spec:      spec,
		def:       def,
		className: naming.ClassName(spec.EntityType) + naming.ClassName(spec.BundleID),
	}
	if err := r.steps(
		step{"interface", b.iface},
		step{"class", b.bundleClass},
		step{"bundle info", b.bundleInfo},
		step{"config", b.config},
		step{"schema", b.schema},
		step{"manifest", b.register},
	); err != nil {
		return nil, err
	}
	return r.finish(), nil
}

// check verifies the owner entity type can receive a bundle class and
// returns its definition and module.
func (g *BundleGenerator) check(spec BundleSpec) (*registry.Definition, string, error) {
	owner, id := spec.EntityType, spec.BundleID
	def, err := g.types.Definition(owner)
	if errors.Is(err, registry.ErrUnknownEntityType) {
		return nil, "", devutil.NewPreconditionError(owner, id, "entity type does not exist")
	}
	if err != nil {
		return nil, "", err
	}
	info, err := g.types.BundleInfo(owner)
	if err != nil {
		return nil, "", err
	}
	if _, self := info[owner]; def.BundleEntityType == "" || (len(info) == 1 && self) {
		return nil, "", devutil.NewPreconditionError(owner, id, "entity type has no bundles")
	}
	if _, ok := info[id]; ok {
		return nil, "", devutil.NewPreconditionError(owner, id, "bundle already exists")
	}
	for name, b := range info {
		if b.Class == "" {
			return nil, "", devutil.NewPreconditionError(owner, id, "entity type does not use bundle classes: bundle "+name+" has no class")
		}
	}
	moduleName, ok := naming.ModuleFromClass(def.Class)
	if !ok {
		return nil, "", devutil.NewPreconditionError(owner, id, "cannot derive module from class "+def.Class)
	}
	return def, moduleName, nil
}

type bundleRun struct {
	*run
	spec      BundleSpec
	def       *registry.Definition
	className string
}

// title reads like "Document Type Memo".
func (b *bundleRun) title() string {
	parts := []string{b.def.Label}
	if b.def.BundleKey != "" {
		parts = append(parts, naming.Ucfirst(b.def.BundleKey))
	}
	return strings.Join(append(parts, b.spec.Label), " ")
}

func (b *bundleRun) iface() error {
	base := naming.ShortClass(b.def.Class) + "BundleBaseInterface"
	doc := b.newDocument(php.Interface, b.className+"Interface", "Entity", "Bundles").
		AddImport(b.class("Entity", base)).
		SetDocComment(b.comment(b.title() + " Interface"))
	doc.Extends = []string{base}
	return b.write(doc)
}

func (b *bundleRun) bundleClass() error {
	owner := naming.ShortClass(b.def.Class)
	doc := b.newDocument(php.Class, b.className, "Entity", "Bundles").
		AddImport(b.def.Class).
		SetDocComment(b.comment(b.title()))
	doc.Extends = []string{owner}
	doc.Implements = []string{b.className + "Interface"}
	return b.write(doc)
}

func (b *bundleRun) bundleInfo() error {
	return b.patch(hook.Request{
		File:   b.module.HookFile(),
		Header: b.fileHeader(b.def.Label + " Module"),
		Hook:   b.module.Name + "_entity_bundle_info",
		Doc:    []string{"Implements hook_entity_bundle_info()."},
		Var:    "bundles",
		Keys:   []string{b.spec.EntityType, b.spec.BundleID},
		Value: php.Assoc(
			"label", php.Translate(b.spec.Label),
			"class", php.Const(`\`+b.fqcn()+"::class"),
		),
	})
}

func (b *bundleRun) fqcn() string {
	return b.class("Entity", "Bundles", b.className)
}

func (b *bundleRun) config() error {
	name := b.module.Name + "." + b.def.BundleEntityType + "." + b.spec.BundleID
	return b.mergePath(b.module.File("config", "install", name+".yml"), omap.Of(
		"status", true,
		"id", b.spec.BundleID,
		"label", b.spec.Label,
	))
}

func (b *bundleRun) schema() error {
	field := func(typ, label string) omap.Map { return omap.Of("type", typ, "label", label) }
	return b.mergePath(b.module.File("config", "schema", b.module.Name+".schema.yml"), omap.Of(
		b.module.Name+"."+b.def.BundleEntityType+".*", omap.Of(
			"type", "config_object",
			"label", b.def.Label+" "+naming.Ucfirst(b.def.BundleKey),
			"mapping", omap.Of(
				"uuid", field("uuid", "UUID"),
				"langcode", field("langcode", "Language code"),
				"status", field("boolean", "Status"),
				"id", field("string", "ID"),
				"label", field("label", "Label"),
				"dependencies", field("config_dependencies", "Dependencies"),
			),
		),
	))
}

// register adds the bundle to the owner's manifest entry.
func (b *bundleRun) register() error {
	return b.update(b.cfg.Manifest, func(t *table.Table) error {
		def, ok, err := registry.Lookup(t, b.spec.EntityType)
		if err != nil {
			return err
		}
		if !ok {
			def = b.def
		}
		if def.Bundles == nil {
			def.Bundles = make(map[string]registry.Bundle)
		}
		def.Bundles[b.spec.BundleID] = registry.Bundle{Label: b.spec.Label, Class: b.fqcn()}
		return t.Set(def.ID, def.Entry())
	})
}
