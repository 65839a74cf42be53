package gen

import (
	"context"

	"github.com/attus74/devutil"
	"github.com/attus74/devutil/compiler/filestore"
	"github.com/attus74/devutil/compiler/module"
	"github.com/attus74/devutil/compiler/omap"
	"github.com/attus74/devutil/compiler/php"
	"github.com/attus74/devutil/compiler/registry"
	"github.com/attus74/devutil/naming"
)

const (
	configEntityBase      = `Drupal\Core\Config\Entity\ConfigEntityBase`
	entityForm            = `Drupal\Core\Entity\EntityForm`
	entityConfirmFormBase = `Drupal\Core\Entity\EntityConfirmFormBase`
	url                   = `Drupal\Core\Url`
)

// ConfigEntityTypeGenerator generates a config entity type: schema, entity
// class, forms, list builder, routes, permissions and links.
type ConfigEntityTypeGenerator struct {
	fs      filestore.FileStore
	modules module.Registry
	cfg     *Config
}

// NewConfigEntityTypeGenerator returns a generator writing through fs.
func NewConfigEntityTypeGenerator(fs filestore.FileStore, modules module.Registry, opts ...Option) (*ConfigEntityTypeGenerator, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &ConfigEntityTypeGenerator{fs: fs, modules: modules, cfg: cfg}, nil
}

// Generate writes every artifact of the config entity type described by
// spec. Bundle options do not apply to config entities and are rejected.
func (g *ConfigEntityTypeGenerator) Generate(ctx context.Context, spec EntitySpec) (*Result, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if spec.HasBundles {
		return nil, devutil.NewSpecError("HasBundles", true, "config entities have no bundles")
	}
	r, err := start(ctx, g.cfg, g.fs, "config-entity", spec.MachineName, spec.Author)
	if err != nil {
		return nil, err
	}
	if err := r.ensureModule(g.modules, module.Ref{
		Name:        spec.ModuleName(),
		Path:        spec.Path,
		Label:       spec.Label,
		Description: "Config Entity Type " + spec.Label,
	}); err != nil {
		return nil, err
	}
	c := &configRun{run: r, spec: spec, n: naming.Derive(spec.MachineName)}
	if err := r.steps(
		step{"permissions", c.permissions},
		step{"routing", c.routing},
		step{"links", c.links},
		step{"schema", c.schema},
		step{"entity", c.entity},
		step{"forms", c.forms},
		step{"manifest", c.register},
	); err != nil {
		return nil, err
	}
	return r.finish(), nil
}

type configRun struct {
	*run
	spec EntitySpec
	n    naming.Names
}

func (c *configRun) permissions() error {
	n, l := c.n.Machine, c.spec.Label
	return c.merge("permissions", omap.Of(
		"administer "+n, permission("Administer "+l, "Configure "+l, true),
		"edit "+n, permission("Edit "+l, "Create and update "+l, true),
	))
}

func (c *configRun) base() string {
	return "admin/structure/" + c.n.Path
}

func (c *configRun) routing() error {
	n, l := c.n.Machine, c.spec.Label
	edit := omap.Of("_permission", "edit "+n)
	return c.merge("routing", omap.Of(
		"entity."+n+".collection", route(c.base(),
			omap.Of("_entity_list", n, "_title", l),
			omap.Of("_permission", "administer "+n),
			nil),
		"entity."+n+".add_form", route(c.base()+"/add",
			omap.Of("_entity_form", n+".add", "_title", "Add "+l),
			edit, nil),
		"entity."+n+".edit_form", route(c.base()+"/{"+n+"}",
			omap.Of("_entity_form", n+".edit", "_title", "Edit "+l),
			edit, nil),
		"entity."+n+".delete_form", route(c.base()+"/{"+n+"}/delete",
			omap.Of("_entity_form", n+".delete", "_title", "Delete "+l),
			edit, nil),
	))
}

func (c *configRun) links() error {
	n, l := c.n.Machine, c.spec.Label
	collection := "entity." + n + ".collection"
	if err := c.merge("links.menu", omap.Of(
		collection, omap.Of(
			"title", l,
			"description", "Configure "+l,
			"parent", "system.admin_structure",
			"route_name", collection,
		),
	)); err != nil {
		return err
	}
	return c.merge("links.action", omap.Of(
		"entity."+n+".add_form", omap.Of(
			"route_name", "entity."+n+".add_form",
			"title", "Add "+l,
			"appears_on", []string{collection},
		),
	))
}

func (c *configRun) schema() error {
	return c.mergePath(c.module.File("config", "schema", c.module.Name+".schema.yml"), omap.Of(
		c.module.Name+"."+c.n.Machine+".*", omap.Of(
			"type", "config_entity",
			"label", c.spec.Label,
			"mapping", omap.Of(
				"id", omap.Of("type", "string", "label", "ID"),
				"label", omap.Of("type", "label", "label", "Label"),
			),
		),
	))
}

func (c *configRun) entity() error {
	n, cls, l := c.n.Machine, c.n.Class, c.spec.Label
	iface := c.newDocument(php.Interface, cls+"Interface").
		AddImport(configEntityInterface).
		SetDocComment(c.comment("Provides an interface defining a " + l + " entity."))
	iface.Extends = []string{"ConfigEntityInterface"}
	if err := c.write(iface); err != nil {
		return err
	}

	base := "/" + c.base()
	form := c.class("Form", cls+"Form")
	annotation := php.Annotation{Name: "ConfigEntityType", Args: omap.Of(
		"id", n,
		"label", php.Translation(l),
		"handlers", omap.Of(
			"list_builder", c.class("Controller", cls+"List"),
			"form", omap.Of(
				"add", form,
				"edit", form,
				"delete", c.class("Form", cls+"DeleteForm"),
			),
		),
		"config_prefix", n,
		"admin_permission", "administer "+n,
		"entity_keys", omap.Of("id", "id", "label", "label"),
		"config_export", []string{"id", "label"},
		"links", omap.Of(
			"edit-form", base+"/{"+n+"}",
			"delete-form", base+"/{"+n+"}/delete",
			"collection", base,
		),
	)}
	doc := c.newDocument(php.Class, cls, "Entity").
		AddImport(configEntityBase, iface.FQCN()).
		SetDocComment(c.comment("Defines the "+l+" entity.", annotation))
	doc.Extends = []string{"ConfigEntityBase"}
	doc.Implements = []string{iface.Name}
	doc.AddMember(
		&php.Property{Name: "id", Doc: []string{"The " + l + " ID.", "", "@var string"}},
		&php.Property{Name: "label", Doc: []string{"The " + l + " label.", "", "@var string"}},
	)
	if err := c.write(doc); err != nil {
		return err
	}

	list := c.newDocument(php.Class, cls+"List", "Controller").
		AddImport(configEntityListBuilder, entityInterface).
		SetDocComment(c.comment("Provides a listing of " + l + " entities."))
	list.Extends = []string{"ConfigEntityListBuilder"}
	list.AddMember(
		inherited("buildHeader", nil,
			assign(index(php.Var("header"), "label"), php.Translate(l)),
			assign(index(php.Var("header"), "operations"), php.Translate("Operations")),
			ret(php.Var("header")),
		),
		inherited("buildRow", []php.Param{param("EntityInterface", "entity")},
			assign(index(php.Var("row"), "label"), call(php.Var("entity"), "toLink",
				call(php.Var("entity"), "label"), "edit-form")),
			ret(&php.Binary{Op: "+", L: php.Var("row"), R: static("parent", "buildRow", php.Var("entity"))}),
		),
	)
	return c.write(list)
}

func (c *configRun) forms() error {
	cls, l := c.n.Class, c.spec.Label
	collection := "entity." + c.n.Machine + ".collection"
	form := c.newDocument(php.Class, cls+"Form", "Form").
		AddImport(entityForm, formStateInterface, entityTypeManagerInterface, containerInterface).
		SetDocComment(c.comment("Form handler for the " + l + " add and edit forms."))
	form.Extends = []string{"EntityForm"}
	status := php.Var("status")
	label := inline("%label", call(thisEntity, "label"))
	message := func(text string) []php.Stmt {
		return []php.Stmt{
			do(call(call(php.This, "messenger"), "addMessage", call(php.This, "t", text, label))),
			&php.Break{},
		}
	}
	exists := php.List(php.This, "exist")
	exists.Inline = true
	form.AddMember(
		&php.Method{
			Name:   "__construct",
			Doc:    []string{"Constructs the form.", "", `@param \Drupal\Core\Entity\EntityTypeManagerInterface $entity_type_manager`, "  The entity type manager."},
			Params: []php.Param{param("EntityTypeManagerInterface", "entity_type_manager")},
			Body:   []php.Stmt{assign(prop(php.This, "entityTypeManager"), php.Var("entity_type_manager"))},
		},
		&php.Method{
			Name:   "create",
			Static: true,
			Doc:    php.InheritDoc,
			Params: []php.Param{param("ContainerInterface", "container")},
			Body: []php.Stmt{ret(&php.NewExpr{Class: "static", Args: exprs(
				call(php.Var("container"), "get", "entity_type.manager"),
			)})},
		},
		inherited("form", formParams(),
			assign(php.Var("form"), static("parent", "form", php.Var("form"), php.Var("form_state"))),
			&php.Blank{},
			assign(index(php.Var("form"), "label"), labelElement()),
			assign(index(php.Var("form"), "id"), machineNameElement(exists)),
			&php.Blank{},
			ret(php.Var("form")),
		),
		inherited("save", formParams(),
			assign(status, call(thisEntity, "save")),
			&php.Blank{},
			&php.Switch{Subject: status, Cases: []php.Case{
				{Match: php.Const("SAVED_NEW"), Body: message("The %label " + l + " created.")},
				{Body: message("The %label " + l + " updated.")},
			}},
			&php.Blank{},
			do(call(php.Var("form_state"), "setRedirect", collection)),
			ret(status),
		),
		&php.Method{
			Name:   "exist",
			Doc:    []string{"Checks whether a " + l + " entity with the given ID exists.", "", "@param string $id", "", "@return bool"},
			Params: []php.Param{{Name: "id"}},
			Body: []php.Stmt{
				assign(php.Var("entity"), php.Fluent(
					call(prop(php.This, "entityTypeManager"), "getStorage", c.n.Machine),
					php.Invoke("getQuery"),
					php.Invoke("accessCheck", false),
					php.Invoke("condition", "id", php.Var("id")),
					php.Invoke("execute"),
				)),
				ret(php.RawExpr("(bool) $entity")),
			},
		},
	)
	if err := c.write(form); err != nil {
		return err
	}

	del := c.newDocument(php.Class, cls+"DeleteForm", "Form").
		AddImport(entityConfirmFormBase, formStateInterface, url).
		SetDocComment(c.comment("Builds the form to delete " + l + " entities."))
	del.Extends = []string{"EntityConfirmFormBase"}
	del.AddMember(
		inherited("getQuestion", nil,
			ret(call(php.This, "t", "Are you sure you want to delete %name?", inline("%name", call(thisEntity, "label"))))),
		inherited("getCancelUrl", nil,
			ret(&php.NewExpr{Class: "Url", Args: exprs(collection)})),
		inherited("getConfirmText", nil,
			ret(thisT("Delete"))),
		inherited("submitForm", []php.Param{{Name: "form", Type: "array", ByRef: true}, param("FormStateInterface", "form_state")},
			do(call(thisEntity, "delete")),
			do(call(call(php.This, "messenger"), "addMessage", call(php.This, "t", "@label deleted.", inline("@label", call(thisEntity, "label"))))),
			do(call(php.Var("form_state"), "setRedirectUrl", call(php.This, "getCancelUrl"))),
		),
	)
	return c.write(del)
}

func (c *configRun) register() error {
	return registerDefinition(c.run, &registry.Definition{
		ID:     c.n.Machine,
		Class:  c.class("Entity", c.n.Class),
		Label:  c.spec.Label,
		Module: c.module.Name,
		Path:   c.module.Root,
		Config: true,
	})
}
