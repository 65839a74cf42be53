package gen

import (
	"github.com/attus74/devutil/compiler/omap"
	"github.com/attus74/devutil/compiler/php"
)

const (
	configEntityInterface      = `Drupal\Core\Config\Entity\ConfigEntityInterface`
	configEntityBundleBase     = `Drupal\Core\Config\Entity\ConfigEntityBundleBase`
	configEntityListBuilder    = `Drupal\Core\Config\Entity\ConfigEntityListBuilder`
	controllerBase             = `Drupal\Core\Controller\ControllerBase`
	entityTypeManagerInterface = `Drupal\Core\Entity\EntityTypeManagerInterface`
	containerInterface         = `Symfony\Component\DependencyInjection\ContainerInterface`
	bundleEntityFormBase       = `Drupal\Core\Entity\BundleEntityFormBase`
	formStateInterface         = `Drupal\Core\Form\FormStateInterface`
)

// bundles writes the bundle type of a bundled content entity: interface,
// config entity class, list builder, add-select controller and form.
func (c *contentRun) bundles() error {
	cls, l := c.n.Class, c.spec.Label
	iface := c.newDocument(php.Interface, cls+"TypeInterface").
		AddImport(configEntityInterface).
		SetDocComment(c.comment("Provides an interface defining a " + l + " Type entity."))
	iface.Extends = []string{"ConfigEntityInterface"}
	if err := c.write(iface); err != nil {
		return err
	}

	doc := c.newDocument(php.Class, c.n.BundleClass(), "Entity").
		AddImport(configEntityBundleBase, iface.FQCN()).
		SetDocComment(c.comment("Defines the "+l+" Type entity.", c.bundleAnnotation()))
	doc.Extends = []string{"ConfigEntityBundleBase"}
	doc.Implements = []string{iface.Name}
	doc.AddMember(
		&php.Property{Name: "id", Visibility: php.Protected, Doc: []string{"The machine name of this type.", "", "@var string"}},
		&php.Property{Name: "label", Visibility: php.Protected, Doc: []string{"The human-readable name of this type.", "", "@var string"}},
	)
	if err := c.write(doc); err != nil {
		return err
	}

	list := c.newDocument(php.Class, cls+"TypeList", "Controller").
		AddImport(configEntityListBuilder, entityInterface).
		SetDocComment(c.comment("Provides a list of " + l + " types."))
	list.Extends = []string{"ConfigEntityListBuilder"}
	list.AddMember(listBuilder(php.Translate("Name"), "bundle_entity", call(php.Var("bundle_entity"), "label"))...)
	if err := c.write(list); err != nil {
		return err
	}
	if err := c.write(c.controller()); err != nil {
		return err
	}
	if err := c.write(c.bundleForm()); err != nil {
		return err
	}
	if !c.spec.HasBundleClasses {
		return nil
	}
	base := c.newDocument(php.Interface, cls+"BundleBaseInterface", "Entity").
		AddImport(c.class(cls + "Interface")).
		SetDocComment(c.comment("Common interface of all " + l + " bundle classes."))
	base.Extends = []string{cls + "Interface"}
	if err := c.write(base); err != nil {
		return err
	}
	return c.ensureDir("src", "Entity", "Bundles")
}

func (c *contentRun) bundleAnnotation() php.Annotation {
	n, bt, l := c.n.Machine, c.n.Bundle, c.spec.Label
	base := "/admin/structure/" + c.n.Path + "/type"
	form := c.class("Form", c.n.Class+"TypeForm")
	links := omap.Of()
	if !c.spec.HasBundleClasses {
		links = links.Set("add-form", base+"/add")
	}
	links = links.Set("edit-form", base+"/{"+bt+"}/edit")
	links = links.Set("collection", base)
	return php.Annotation{Name: "ConfigEntityType", Args: omap.Of(
		"id", bt,
		"label", php.Translation(l+" Type"),
		"bundle_of", n,
		"handlers", omap.Of(
			"list_builder", c.class("Controller", c.n.Class+"TypeList"),
			"form", omap.Of("default", form, "add", form, "edit", form),
		),
		"config_prefix", bt,
		"admin_permission", "administer "+n,
		"entity_keys", omap.Of("id", "id", "label", "label", "uuid", "uuid"),
		"config_export", []string{"id", "label"},
		"links", links,
	)}
}

// controller returns the controller behind the add-select route.
func (c *contentRun) controller() *php.Document {
	doc := c.newDocument(php.Class, c.n.Class+"Controller", "Controller").
		AddImport(controllerBase, entityTypeManagerInterface, containerInterface).
		SetDocComment(c.comment("Controller for " + c.spec.Label + " routes."))
	doc.Extends = []string{"ControllerBase"}
	bundles := php.Var("bundles")
	bundle := php.Var("bundle")
	doc.AddMember(
		&php.Method{
			Name:   "__construct",
			Doc:    []string{"Constructs the controller.", "", `@param \Drupal\Core\Entity\EntityTypeManagerInterface $entity_type_manager`, "  The entity type manager."},
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
		&php.Method{
			Name: "addSelect",
			Doc: []string{
				"Redirects to the add form of the first " + c.spec.Label + " type.",
				"",
				"Replace with a bundle selection page when more than one type exists.",
			},
			Body: []php.Stmt{
				assign(bundles, call(call(prop(php.This, "entityTypeManager"), "getStorage", c.n.Bundle), "loadMultiple")),
				&php.If{
					Cond: fn("empty", bundles),
					Then: []php.Stmt{ret(call(php.This, "redirect", "entity."+c.n.Bundle+".collection"))},
				},
				assign(bundle, fn("reset", bundles)),
				ret(call(php.This, "redirect", "entity."+c.n.Machine+".add_form", inline(
					c.n.Bundle, call(bundle, "id"),
				))),
			},
		},
	)
	return doc
}

// bundleForm returns the add and edit form of the bundle type.
func (c *contentRun) bundleForm() *php.Document {
	l := c.spec.Label
	doc := c.newDocument(php.Class, c.n.Class+"TypeForm", "Form").
		AddImport(bundleEntityFormBase, formStateInterface).
		SetDocComment(c.comment("Form handler for " + l + " type forms."))
	doc.Extends = []string{"BundleEntityFormBase"}
	form := php.Var("form")
	status := php.Var("status")
	label := inline("%label", call(thisEntity, "label"))
	message := func(text string) []php.Stmt {
		return []php.Stmt{
			do(call(call(php.This, "messenger"), "addStatus", call(php.This, "t", text, label))),
			&php.Break{},
		}
	}
	doc.AddMember(
		inherited("form", formParams(),
			assign(form, static("parent", "form", form, php.Var("form_state"))),
			&php.Blank{},
			assign(index(form, "label"), labelElement()),
			&php.Blank{},
			assign(index(form, "id"), machineNameElement(php.Str(`\`+c.class("Entity", c.n.BundleClass())+"::load"))),
			&php.Blank{},
			ret(call(php.This, "protectBundleIdElement", form)),
		),
		inherited("save", formParams(),
			assign(status, call(thisEntity, "save")),
			&php.Blank{},
			&php.Switch{Subject: status, Cases: []php.Case{
				{Match: php.Const("SAVED_NEW"), Body: message("%label " + l + " type is created.")},
				{Body: message("%label " + l + " type is updated.")},
			}},
			&php.Blank{},
			do(call(php.Var("form_state"), "setRedirectUrl", call(thisEntity, "toUrl", "collection"))),
			ret(status),
		),
	)
	return doc
}

func formParams() []php.Param {
	return []php.Param{{Name: "form", Type: "array"}, param("FormStateInterface", "form_state")}
}

// labelElement is the label textfield of config entity forms.
func labelElement() *php.Array {
	return php.Assoc(
		"#type", "textfield",
		"#title", thisT("Label"),
		"#maxlength", 255,
		"#default_value", call(thisEntity, "label"),
		"#required", true,
	)
}

// machineNameElement is the machine name field of config entity forms. exists
// is the callback checking whether an id is taken.
func machineNameElement(exists php.Expr) *php.Array {
	return php.Assoc(
		"#type", "machine_name",
		"#default_value", call(thisEntity, "id"),
		"#machine_name", inline("exists", exists),
		"#disabled", &php.Not{X: call(thisEntity, "isNew")},
	)
}
