package gen

import (
	"github.com/attus74/devutil/compiler/omap"
	"github.com/attus74/devutil/compiler/php"
	"github.com/attus74/devutil/naming"
)

// Host framework classes referenced by content entity artifacts.
const (
	contentEntityInterface = `Drupal\Core\Entity\ContentEntityInterface`
	entityChangedInterface = `Drupal\Core\Entity\EntityChangedInterface`
	entityOwnerInterface   = `Drupal\user\EntityOwnerInterface`
	entityStorageInterface = `Drupal\Core\Entity\EntityStorageInterface`
	baseFieldDefinition    = `Drupal\Core\Field\BaseFieldDefinition`
	contentEntityBase      = `Drupal\Core\Entity\ContentEntityBase`
	entityTypeInterface    = `Drupal\Core\Entity\EntityTypeInterface`
	entityChangedTrait     = `Drupal\Core\Entity\EntityChangedTrait`
	userInterface          = `Drupal\user\UserInterface`
	entityInterface        = `Drupal\Core\Entity\EntityInterface`
	entityListBuilder      = `Drupal\Core\Entity\EntityListBuilder`
)

// entity writes the entity interface, the entity class and its list builder.
func (c *contentRun) entity() error {
	cls, l := c.n.Class, c.spec.Label
	iface := c.newDocument(php.Interface, cls+"Interface").
		AddImport(contentEntityInterface, entityChangedInterface, entityOwnerInterface).
		SetDocComment(c.comment("Provides an interface defining a " + l + " entity."))
	iface.Extends = []string{"ContentEntityInterface", "EntityChangedInterface", "EntityOwnerInterface"}
	iface.AddMember(&php.Method{
		Name: "getCreatedTime",
		Doc:  []string{"Gets the creation timestamp.", "", "@return int"},
	})
	if err := c.write(iface); err != nil {
		return err
	}

	doc := c.newDocument(php.Class, cls, "Entity").
		AddImport(entityStorageInterface, baseFieldDefinition, contentEntityBase,
			entityTypeInterface, entityChangedTrait, userInterface, iface.FQCN()).
		SetDocComment(c.comment("Defines the "+l+" entity.", c.annotation()))
	doc.Extends = []string{"ContentEntityBase"}
	doc.Implements = []string{iface.Name}
	doc.AddMember(
		&php.TraitUse{Names: []string{"EntityChangedTrait"}},
		&php.Method{
			Name:   "preCreate",
			Static: true,
			Doc:    php.InheritDoc,
			Params: []php.Param{param("EntityStorageInterface", "storage_controller"), {Name: "values", Type: "array", ByRef: true}},
			Body: []php.Stmt{
				do(static("parent", "preCreate", php.Var("storage_controller"), php.Var("values"))),
				&php.Assign{Target: php.Var("values"), Op: "+=", Value: inline(
					"user_id", call(static(`\Drupal`, "currentUser"), "id"),
				)},
			},
		},
		inherited("getCreatedTime", nil,
			ret(prop(call(php.This, "get", "created"), "value"))),
		inherited("getOwner", nil,
			ret(prop(call(php.This, "get", "user_id"), "entity"))),
		inherited("getOwnerId", nil,
			ret(prop(call(php.This, "get", "user_id"), "target_id"))),
		inherited("setOwnerId", []php.Param{{Name: "uid"}},
			do(call(php.This, "set", "user_id", php.Var("uid"))),
			ret(php.This)),
		inherited("setOwner", []php.Param{param("UserInterface", "account")},
			do(call(php.This, "set", "user_id", call(php.Var("account"), "id"))),
			ret(php.This)),
		&php.Method{
			Name:   "baseFieldDefinitions",
			Static: true,
			Doc:    php.InheritDoc,
			Params: []php.Param{param("EntityTypeInterface", "entity_type")},
			Body:   c.baseFields(),
		},
	)
	if err := c.write(doc); err != nil {
		return err
	}

	list := c.newDocument(php.Class, cls+"List", "Controller").
		AddImport(entityInterface, entityListBuilder).
		SetDocComment(c.comment("Provides a list controller for the " + l + " entity."))
	list.Extends = []string{"EntityListBuilder"}
	list.AddMember(listBuilder(
		php.Translate("Title"), "entity",
		call(call(php.Var("entity"), "toLink"), "toString"),
	)...)
	return c.write(list)
}

// annotation returns the @ContentEntityType annotation of the entity class.
func (c *contentRun) annotation() php.Annotation {
	n, cls, p, l := c.n.Machine, c.n.Class, c.n.Path, c.spec.Label
	form := c.class("Form", cls+"Form")
	handlers := omap.Of(
		"view_builder", `Drupal\Core\Entity\EntityViewBuilder`,
		"list_builder", c.class("Controller", cls+"List"),
		"views_data", `Drupal\views\EntityViewsData`,
		"form", omap.Of(
			"add", form,
			"edit", form,
			"delete", c.class("Form", cls+"DeleteForm"),
		),
		"access", c.class("Access", cls+"Access"),
	)
	keys := omap.Of("id", "id", "uuid", "uuid", "label", "title")
	if c.spec.HasBundles {
		keys = keys.Set("bundle", "type")
	}
	args := omap.Of(
		"id", n,
		"label", php.Translation(l),
		"label_collection", php.Translation(l),
		"label_singular", php.Translation(l),
		"label_plural", php.Translation(naming.Plural(l)),
		"handlers", handlers,
		"base_table", n,
		"admin_permission", "administer "+n,
		"fieldable", true,
		"entity_keys", keys,
	)
	fieldUI := n + ".settings"
	if c.spec.HasBundles {
		args = args.Set("bundle_entity_type", c.n.Bundle)
		fieldUI = "entity." + c.n.Bundle + ".edit_form"
	}
	args = args.Set("field_ui_base_route", fieldUI)
	add := "/" + p + "/add"
	if c.spec.HasBundles {
		add += "/{" + c.n.Bundle + "}"
	}
	args = args.Set("links", omap.Of(
		"canonical", "/"+p+"/{"+n+"}",
		"collection", "/"+p,
		"add-form", add,
		"edit-form", "/"+p+"/{"+n+"}/edit",
		"delete-form", "/"+p+"/{"+n+"}/delete",
	))
	return php.Annotation{Name: "ContentEntityType", Args: args}
}

// baseFields returns the body of baseFieldDefinitions.
func (c *contentRun) baseFields() []php.Stmt {
	define := func(name string, chain *php.Chain) php.Stmt {
		return assign(index(php.Var("fields"), name), chain)
	}
	create := func(typ string) php.Expr {
		return static("BaseFieldDefinition", "create", typ)
	}
	t := func(s string) php.Expr { return php.Translate(s) }
	body := []php.Stmt{
		define("id", php.Fluent(create("integer"),
			php.Invoke("setLabel", t("ID")),
			php.Invoke("setDescription", t("The ID of the "+c.spec.Label+" entity.")),
			php.Invoke("setReadOnly", true),
		)),
		&php.Blank{},
		define("uuid", php.Fluent(create("uuid"),
			php.Invoke("setLabel", t("UUID")),
			php.Invoke("setDescription", t("The UUID of the "+c.spec.Label+" entity.")),
			php.Invoke("setReadOnly", true),
		)),
		&php.Blank{},
		define("title", php.Fluent(create("string"),
			php.Invoke("setLabel", t("Title")),
			php.Invoke("setRequired", true),
			php.Invoke("setSettings", php.Assoc(
				"default_value", "",
				"max_length", 255,
				"text_processing", 0,
			)),
			php.Invoke("setDisplayOptions", "view", php.Assoc(
				"label", "above",
				"type", "string",
				"weight", -6,
			)),
			php.Invoke("setDisplayOptions", "form", php.Assoc(
				"type", "string_textfield",
				"weight", -6,
			)),
			php.Invoke("setDisplayConfigurable", "form", true),
			php.Invoke("setDisplayConfigurable", "view", true),
		)),
		&php.Blank{},
	}
	if c.spec.HasBundles {
		body = append(body,
			define("type", php.Fluent(create("entity_reference"),
				php.Invoke("setLabel", t("Type")),
				php.Invoke("setDescription", t("The "+c.spec.Label+" type.")),
				php.Invoke("setSetting", "target_type", c.n.Bundle),
				php.Invoke("setReadOnly", true),
			)),
			&php.Blank{},
		)
	}
	body = append(body,
		define("user_id", php.Fluent(create("entity_reference"),
			php.Invoke("setLabel", t("Authored by")),
			php.Invoke("setDescription", t("The user ID of the author.")),
			php.Invoke("setSetting", "target_type", "user"),
			php.Invoke("setSetting", "handler", "default"),
			php.Invoke("setDisplayOptions", "form", php.Assoc(
				"type", "entity_reference_autocomplete",
				"weight", 5,
			)),
			php.Invoke("setDisplayConfigurable", "form", true),
		)),
		&php.Blank{},
		define("created", php.Fluent(create("created"),
			php.Invoke("setLabel", t("Created")),
			php.Invoke("setDescription", t("The time that the entity was created.")),
		)),
		&php.Blank{},
		define("changed", php.Fluent(create("changed"),
			php.Invoke("setLabel", t("Changed")),
			php.Invoke("setDescription", t("The time that the entity was last edited.")),
		)),
		&php.Blank{},
		&php.Comment{Text: "Custom fields"},
		&php.Blank{},
		ret(php.Var("fields")),
	)
	return body
}
