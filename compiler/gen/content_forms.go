package gen

import (
	"github.com/attus74/devutil/compiler/hook"
	"github.com/attus74/devutil/compiler/php"
	"github.com/attus74/devutil/naming"
)

const (
	contentEntityForm          = `Drupal\Core\Entity\ContentEntityForm`
	contentEntityDeleteForm    = `Drupal\Core\Entity\ContentEntityDeleteForm`
	formBase                   = `Drupal\Core\Form\FormBase`
	entityAccessControlHandler = `Drupal\Core\Entity\EntityAccessControlHandler`
	accessResult               = `Drupal\Core\Access\AccessResult`
	accountInterface           = `Drupal\Core\Session\AccountInterface`
)

// forms writes the entity form, the delete form and, without bundles, the
// settings form that anchors the field UI.
func (c *contentRun) forms() error {
	cls, l := c.n.Class, c.spec.Label
	form := c.newDocument(php.Class, cls+"Form", "Form").
		AddImport(contentEntityForm).
		SetDocComment(c.comment("Form controller for " + l + " edit forms."))
	form.Extends = []string{"ContentEntityForm"}
	if err := c.write(form); err != nil {
		return err
	}
	del := c.newDocument(php.Class, cls+"DeleteForm", "Form").
		AddImport(contentEntityDeleteForm).
		SetDocComment(c.comment("Provides a form for deleting " + l + " entities."))
	del.Extends = []string{"ContentEntityDeleteForm"}
	if err := c.write(del); err != nil {
		return err
	}
	if c.spec.HasBundles {
		return nil
	}
	settings := c.newDocument(php.Class, cls+"SettingsForm", "Form").
		AddImport(formBase, formStateInterface).
		SetDocComment(c.comment(l + " settings form."))
	settings.Extends = []string{"FormBase"}
	settings.AddMember(
		inherited("getFormId", nil, ret(c.n.Machine+"_settings_form")),
		inherited("buildForm", formParams(),
			assign(index(php.Var("form"), "settings"), inline("#markup", thisT(l+" Settings"))),
			ret(php.Var("form")),
		),
		inherited("submitForm", []php.Param{{Name: "form", Type: "array", ByRef: true}, param("FormStateInterface", "form_state")},
			&php.Comment{Text: "Empty implementation of the abstract submit class."},
		),
	)
	return c.write(settings)
}

// access writes the access control handler.
func (c *contentRun) access() error {
	n, l := c.n.Machine, c.spec.Label
	doc := c.newDocument(php.Class, c.n.Class+"Access", "Access").
		AddImport(entityAccessControlHandler, entityInterface, accessResult, accountInterface).
		SetDocComment(c.comment("Access controller for the " + l + " entity."))
	doc.Extends = []string{"EntityAccessControlHandler"}
	account := php.Var("account")
	allowed := func(perm string) []php.Stmt {
		return []php.Stmt{ret(static("AccessResult", "allowedIfHasPermission", account, perm))}
	}
	doc.AddMember(
		&php.Method{
			Name:       "checkAccess",
			Visibility: php.Protected,
			Doc:        php.InheritDoc,
			Params: []php.Param{
				param("EntityInterface", "entity"),
				{Name: "operation"},
				param("AccountInterface", "account"),
			},
			Body: []php.Stmt{&php.Switch{Subject: php.Var("operation"), Cases: []php.Case{
				{Match: php.Str("view"), Body: allowed("view " + n)},
				{Match: php.Str("edit")},
				{Match: php.Str("update"), Body: allowed("edit " + n)},
				{Match: php.Str("delete"), Body: allowed("delete " + n)},
				{Body: []php.Stmt{&php.Throw{X: &php.NewExpr{Class: `\Exception`, Args: exprs(
					php.Translate("Unknown Operation: @op", inline("@op", php.Var("operation"))),
				)}}}},
			}}},
		},
		&php.Method{
			Name:       "checkCreateAccess",
			Visibility: php.Protected,
			Doc:        php.InheritDoc,
			Params: []php.Param{
				param("AccountInterface", "account"),
				{Name: "context", Type: "array"},
				{Name: "entity_bundle", Default: php.Const("NULL")},
			},
			Body: allowed("create " + n),
		},
	)
	return c.write(doc)
}

// theme writes the Twig template and registers it in the module's theme
// hook together with its preprocess function.
func (c *contentRun) theme() error {
	n, l := c.n.Machine, c.spec.Label
	tpl := "{# " + l + " #}\n\n{{ content }}\n\n{#\nYou can change this template according to your goals\n#}\n"
	if err := c.writeText(c.module.File("templates", naming.TemplateFile(c.n.Machine)), tpl); err != nil {
		return err
	}
	variables := php.Var("variables")
	return c.patch(hook.Request{
		File:   c.module.HookFile(),
		Header: c.fileHeader(c.module.Name + " module hooks."),
		Hook:   c.module.Name + "_theme",
		Doc:    []string{"Implements hook_theme()."},
		Var:    "hooks",
		Keys:   []string{n},
		Value:  php.Assoc("render element", "elements", "template", c.n.Template),
		Ensure: []*php.Func{{
			Doc:       php.DocBlock("Prepares variables for "+l+" templates.", "", "Default template: "+naming.TemplateFile(c.n.Machine)+"."),
			Name:      "template_preprocess_" + n,
			Signature: "(array &$variables)",
			Body:      []php.Stmt{assign(index(variables, "content"), index(variables, "elements"))},
		}},
	})
}
