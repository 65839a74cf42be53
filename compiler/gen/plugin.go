package gen

import (
	"context"

	"github.com/attus74/devutil/compiler/filestore"
	"github.com/attus74/devutil/compiler/module"
	"github.com/attus74/devutil/compiler/omap"
	"github.com/attus74/devutil/compiler/php"
	"github.com/attus74/devutil/compiler/table"
)

const (
	pluginBase             = `Drupal\Component\Plugin\PluginBase`
	pluginAnnotation       = `Drupal\Component\Annotation\Plugin`
	defaultPluginManager   = `Drupal\Core\Plugin\DefaultPluginManager`
	cacheBackendInterface  = `Drupal\Core\Cache\CacheBackendInterface`
	moduleHandlerInterface = `Drupal\Core\Extension\ModuleHandlerInterface`
)

// PluginKitGenerator generates an annotation based plugin type: manager
// service, base class, interface and annotation.
type PluginKitGenerator struct {
	fs      filestore.FileStore
	modules module.Registry
	cfg     *Config
}

// NewPluginKitGenerator returns a generator writing through fs.
func NewPluginKitGenerator(fs filestore.FileStore, modules module.Registry, opts ...Option) (*PluginKitGenerator, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &PluginKitGenerator{fs: fs, modules: modules, cfg: cfg}, nil
}

// Generate writes the plugin kit described by spec.
func (g *PluginKitGenerator) Generate(ctx context.Context, spec PluginKitSpec) (*Result, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	u, cls, label := spec.Names()
	r, err := start(ctx, g.cfg, g.fs, "plugin", u, spec.Author)
	if err != nil {
		return nil, err
	}
	if err := r.ensureModule(g.modules, module.Ref{
		Name:        spec.ModuleName(),
		Label:       cls,
		Description: "Plugin " + cls,
	}); err != nil {
		return nil, err
	}
	p := &pluginRun{run: r, u: u, cls: cls, label: label}
	if err := r.steps(
		step{"services", p.services},
		step{"base", p.base},
		step{"interface", p.iface},
		step{"manager", p.manager},
		step{"annotation", p.annotation},
	); err != nil {
		return nil, err
	}
	return r.finish(), nil
}

type pluginRun struct {
	*run
	u, cls, label string
}

// services registers the plugin manager without touching other services.
func (p *pluginRun) services() error {
	return p.update(p.module.Table("services"), func(t *table.Table) error {
		return t.SetIn([]string{"services", "plugin.manager." + p.u}, omap.Of(
			"class", p.class(p.cls+"Manager"),
			"parent", "default_plugin_manager",
		))
	})
}

func (p *pluginRun) base() error {
	doc := p.newDocument(php.Class, p.cls+"Base").
		AddImport(pluginBase).
		SetDocComment(p.comment("Base class for " + p.label + " plugins."))
	doc.Abstract = true
	doc.Extends = []string{"PluginBase"}
	doc.Implements = []string{p.cls + "Interface"}
	return p.write(doc)
}

func (p *pluginRun) iface() error {
	doc := p.newDocument(php.Interface, p.cls+"Interface").
		SetDocComment(p.comment("Interface for " + p.label + " plugins."))
	return p.write(doc)
}

func (p *pluginRun) manager() error {
	doc := p.newDocument(php.Class, p.cls+"Manager").
		AddImport(defaultPluginManager, cacheBackendInterface, moduleHandlerInterface).
		SetDocComment(p.comment(p.label + " plugin manager."))
	doc.Extends = []string{"DefaultPluginManager"}
	doc.AddMember(&php.Method{
		Name: "__construct",
		Doc: []string{
			"Constructs a " + p.cls + "Manager object.",
			"",
			`@param \Traversable $namespaces`,
			"  An object that implements \\Traversable which contains the root paths",
			"  keyed by the corresponding namespace to look for plugin implementations.",
			`@param \Drupal\Core\Cache\CacheBackendInterface $cache_backend`,
			"  Cache backend instance to use.",
			`@param \Drupal\Core\Extension\ModuleHandlerInterface $module_handler`,
			"  The module handler to invoke the alter hook with.",
		},
		Params: []php.Param{
			param(`\Traversable`, "namespaces"),
			param("CacheBackendInterface", "cache_backend"),
			param("ModuleHandlerInterface", "module_handler"),
		},
		Body: []php.Stmt{
			do(static("parent", "__construct",
				"Plugin/"+p.cls,
				php.Var("namespaces"),
				php.Var("module_handler"),
				p.class(p.cls+"Interface"),
				p.class("Annotation", p.cls),
			)),
			&php.Blank{},
			do(call(php.This, "alterInfo", p.u+"_info")),
			do(call(php.This, "setCacheBackend", php.Var("cache_backend"), p.u+"_plugins")),
		},
	})
	return p.write(doc)
}

func (p *pluginRun) annotation() error {
	doc := p.newDocument(php.Class, p.cls, "Annotation").
		AddImport(pluginAnnotation)
	doc.SetDocComment(&php.DocComment{
		Title:  "Defines a " + p.label + " annotation object.",
		Author: p.author,
		Date:   p.date,
		Tags:   []string{"@Annotation"},
	})
	doc.Extends = []string{"Plugin"}
	doc.AddMember(&php.Property{
		Name: "id",
		Doc:  []string{"The plugin ID.", "", "@var string"},
	})
	return p.write(doc)
}
