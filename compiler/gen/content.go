package gen

import (
	"context"

	"github.com/attus74/devutil/compiler/filestore"
	"github.com/attus74/devutil/compiler/module"
	"github.com/attus74/devutil/compiler/omap"
	"github.com/attus74/devutil/compiler/registry"
	"github.com/attus74/devutil/compiler/table"
	"github.com/attus74/devutil/naming"
)

// EntityTypeGenerator generates a content entity type with its routes,
// permissions, links, handlers, forms, template and optional bundles.
type EntityTypeGenerator struct {
	fs      filestore.FileStore
	modules module.Registry
	cfg     *Config
}

// NewEntityTypeGenerator returns a generator writing through fs.
func NewEntityTypeGenerator(fs filestore.FileStore, modules module.Registry, opts ...Option) (*EntityTypeGenerator, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &EntityTypeGenerator{fs: fs, modules: modules, cfg: cfg}, nil
}

// Generate writes every artifact of the entity type described by spec.
// Invalid specs fail with *devutil.SpecError before the first file system
// access. Configuration tables and the hook file are merged, all other
// files are overwritten.
func (g *EntityTypeGenerator) Generate(ctx context.Context, spec EntitySpec) (*Result, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	r, err := start(ctx, g.cfg, g.fs, "content-entity", spec.MachineName, spec.Author)
	if err != nil {
		return nil, err
	}
	if err := r.ensureModule(g.modules, module.Ref{
		Name:        spec.ModuleName(),
		Path:        spec.Path,
		Label:       spec.Label,
		Description: "Entity Type " + spec.Label,
	}); err != nil {
		return nil, err
	}
	c := &contentRun{run: r, spec: spec, n: naming.Derive(spec.MachineName)}
	steps := []step{
		{"permissions", c.permissions},
		{"routing", c.routing},
	}
	if spec.HasBundles {
		steps = append(steps, step{"bundles", c.bundles})
	}
	steps = append(steps,
		step{"links", c.links},
		step{"entity", c.entity},
		step{"forms", c.forms},
		step{"access", c.access},
		step{"theme", c.theme},
		step{"manifest", c.register},
	)
	if err := r.steps(steps...); err != nil {
		return nil, err
	}
	return r.finish(), nil
}

type contentRun struct {
	*run
	spec EntitySpec
	n    naming.Names
}

func (c *contentRun) permissions() error {
	n, l := c.n.Machine, c.spec.Label
	return c.merge("permissions", omap.Of(
		"administer "+n, permission("Administer "+l, "Configure "+l, true),
		"create "+n, permission("Create "+l, "Create "+l, false),
		"edit "+n, permission("Edit "+l, "Update "+l, false),
		"delete "+n, permission("Delete "+l, "Delete "+l, false),
		"view "+n, permission("View "+l, "View "+l, false),
	))
}

// routing writes the entity routes and, with bundles, the bundle type
// routes, so the routing table is saved once.
func (c *contentRun) routing() error {
	n, p, bt, l := c.n.Machine, c.n.Path, c.n.Bundle, c.spec.Label
	admin := omap.Of("_permission", "administer "+n)
	routes := omap.Of(
		"entity."+n+".canonical", route(p+"/{"+n+"}",
			omap.Of("_entity_view", n, "_title_callback", `\Drupal\Core\Entity\Controller\EntityController::title`),
			omap.Of("_entity_access", n+".view"),
			nil),
		"entity."+n+".collection", route(p,
			omap.Of("_entity_list", n, "_title", l),
			admin,
			adminRoute()),
	)
	if c.spec.HasBundles {
		routes = routes.Set(n+".add.select", route(p+"/add",
			omap.Of("_controller", c.class("Controller", c.n.Class+"Controller")+"::addSelect", "_title", "Add "+l),
			omap.Of("_entity_create_access", n),
			adminRoute()))
		routes = routes.Set("entity."+n+".add_form", route(p+"/add/{"+bt+"}",
			omap.Of("_entity_form", n+".add", "_title", "Add "+l),
			omap.Of("_entity_create_access", n+":{"+bt+"}"),
			adminRoute().Set("parameters", omap.Of(bt, omap.Of("type", "entity:"+bt)))))
	} else {
		routes = routes.Set("entity."+n+".add_form", route(p+"/add",
			omap.Of("_entity_form", n+".add", "_title", "Add "+l),
			omap.Of("_entity_create_access", n),
			adminRoute()))
	}
	routes = routes.Set("entity."+n+".edit_form", route(p+"/{"+n+"}/edit",
		omap.Of("_entity_form", n+".edit", "_title", "Edit"),
		omap.Of("_entity_access", n+".edit"),
		adminRoute()))
	routes = routes.Set("entity."+n+".delete_form", route(p+"/{"+n+"}/delete",
		omap.Of("_entity_form", n+".delete", "_title", "Delete"),
		omap.Of("_entity_access", n+".delete"),
		adminRoute()))
	settings := omap.Of("_form", c.class("Form", c.n.Class+"SettingsForm"), "_title", "Settings")
	if c.spec.HasBundles {
		settings = omap.Of("_entity_list", bt, "_title", "Settings")
	}
	routes = routes.Set(n+".settings", route("admin/structure/"+p, settings, admin, nil))
	if c.spec.HasBundles {
		for _, e := range c.bundleRoutes() {
			routes = routes.Set(e.Key, e.Value)
		}
	}
	return c.merge("routing", routes)
}

func (c *contentRun) bundleRoutes() omap.Map {
	n, p, bt, l := c.n.Machine, c.n.Path, c.n.Bundle, c.spec.Label
	base := "admin/structure/" + p + "/type"
	admin := omap.Of("_permission", "administer "+n)
	routes := omap.Of(
		"entity."+bt+".collection", route(base,
			omap.Of("_entity_list", bt, "_title", l+" Type"),
			admin, nil),
	)
	// Bundles with classes are defined in code and cannot be added in the UI.
	if !c.spec.HasBundleClasses {
		routes = routes.Set(bt+".add", route(base+"/add",
			omap.Of("_entity_form", bt+".add", "_title", "Add "+l+" Type"),
			admin, nil))
	}
	return routes.Set("entity."+bt+".edit_form", route(base+"/{"+bt+"}/edit",
		omap.Of("_entity_form", bt+".edit", "_title", "Edit"),
		admin, nil))
}

// links writes links.menu, links.action and links.task.
func (c *contentRun) links() error {
	n, bt, l := c.n.Machine, c.n.Bundle, c.spec.Label
	collection := "entity." + n + ".collection"
	if err := c.merge("links.menu", omap.Of(
		collection, omap.Of("title", l, "route_name", collection, "parent", "system.admin_content"),
		n+".settings", omap.Of("title", l, "route_name", n+".settings", "parent", "system.admin_structure"),
	)); err != nil {
		return err
	}
	var actions omap.Map
	if c.spec.HasBundles {
		actions = actions.Set(n+".add.select", omap.Of(
			"route_name", n+".add.select",
			"title", "Add "+l,
			"appears_on", []string{collection},
		))
		if !c.spec.HasBundleClasses {
			actions = actions.Set(bt+".add", omap.Of(
				"route_name", bt+".add",
				"title", "Create a new type",
				"appears_on", []string{n + ".settings", "entity." + bt + ".collection"},
			))
		}
	} else {
		actions = actions.Set("entity."+n+".add_form", omap.Of(
			"route_name", "entity."+n+".add_form",
			"title", "Add "+l,
			"appears_on", []string{collection},
		))
	}
	if err := c.merge("links.action", actions); err != nil {
		return err
	}
	canonical := "entity." + n + ".canonical"
	tasks := omap.Of(
		canonical, task(canonical, canonical, -9, "View"),
		"entity."+n+".edit_form", task("entity."+n+".edit_form", canonical, 8, "Edit"),
		"entity."+n+".delete_form", task("entity."+n+".delete_form", canonical, 9, "Delete"),
		n+".settings", task(n+".settings", n+".settings", -9, "Settings"),
	)
	if c.spec.HasBundles {
		edit := "entity." + bt + ".edit_form"
		tasks = tasks.Set(edit, task(edit, edit, -9, "Edit"))
	}
	return c.merge("links.task", tasks)
}

func task(routeName, baseRoute string, weight int, title string) omap.Map {
	return omap.Of("route_name", routeName, "base_route", baseRoute, "weight", weight, "title", title)
}

// register records the entity type in the project manifest. Bundles known
// from earlier runs are kept.
func (c *contentRun) register() error {
	def := &registry.Definition{
		ID:     c.n.Machine,
		Class:  c.class("Entity", c.n.Class),
		Label:  c.spec.Label,
		Module: c.module.Name,
		Path:   c.module.Root,
	}
	if c.spec.HasBundles {
		def.BundleKey = "type"
		def.BundleEntityType = c.n.Bundle
	}
	return registerDefinition(c.run, def)
}

func registerDefinition(r *run, def *registry.Definition) error {
	return r.update(r.cfg.Manifest, func(t *table.Table) error {
		prev, ok, err := registry.Lookup(t, def.ID)
		if err != nil {
			return err
		}
		if ok && def.BundleEntityType != "" {
			def.Bundles = prev.Bundles
		}
		return t.Set(def.ID, def.Entry())
	})
}
