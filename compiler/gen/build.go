package gen

import (
	"github.com/attus74/devutil/compiler/omap"
	"github.com/attus74/devutil/compiler/php"
)

// Shorthands for the statements and expressions generated classes are
// built from.

func exprs(args ...any) []php.Expr {
	out := make([]php.Expr, len(args))
	for i, a := range args {
		out[i] = php.ValueOf(a)
	}
	return out
}

func call(x php.Expr, name string, args ...any) *php.MethodCall {
	return &php.MethodCall{X: x, Name: name, Args: exprs(args...)}
}

func static(class, name string, args ...any) *php.StaticCall {
	return &php.StaticCall{Class: class, Name: name, Args: exprs(args...)}
}

func fn(name string, args ...any) *php.Call {
	return &php.Call{Func: name, Args: exprs(args...)}
}

func prop(x php.Expr, name string) *php.PropFetch {
	return &php.PropFetch{X: x, Name: name}
}

func index(x php.Expr, key string) *php.Index {
	return &php.Index{X: x, Key: php.Str(key)}
}

func assign(target php.Expr, value any) *php.Assign {
	return &php.Assign{Target: target, Value: php.ValueOf(value)}
}

func ret(value any) *php.Return {
	return &php.Return{Value: php.ValueOf(value)}
}

func do(x php.Expr) *php.ExprStmt {
	return &php.ExprStmt{X: x}
}

// inline builds a one-line associative array.
func inline(kv ...any) *php.Array {
	a := php.Assoc(kv...)
	a.Inline = true
	return a
}

// thisT is $this->t(s), the translation helper of forms and controllers.
func thisT(s string) *php.MethodCall {
	return call(php.This, "t", s)
}

// thisEntity is $this->entity inside entity forms.
var thisEntity = prop(php.This, "entity")

func param(typ, name string) php.Param {
	return php.Param{Type: typ, Name: name}
}

// inherited returns a public method documented with {@inheritdoc}.
func inherited(name string, params []php.Param, body ...php.Stmt) *php.Method {
	return &php.Method{Name: name, Doc: php.InheritDoc, Params: params, Body: body}
}

// route builds a routing table entry. Nil options are left out.
func route(path string, defaults, requirements, options omap.Map) omap.Map {
	r := omap.Of("path", path, "defaults", defaults, "requirements", requirements)
	if options != nil {
		r = r.Set("options", options)
	}
	return r
}

func adminRoute() omap.Map {
	return omap.Of("_admin_route", true)
}

func permission(title, description string, restricted bool) omap.Map {
	p := omap.Of("title", title, "description", description)
	if restricted {
		p = p.Set("restrict access", true)
	}
	return p
}

// listBuilder returns the buildHeader and buildRow methods of a list
// builder with a single label column.
func listBuilder(header php.Expr, rowVar string, cell php.Expr) []php.Member {
	return []php.Member{
		inherited("buildHeader", nil,
			assign(php.Var("header"), php.List(header)),
			ret(&php.Binary{Op: "+", L: php.Var("header"), R: static("parent", "buildHeader")}),
		),
		inherited("buildRow", []php.Param{param("EntityInterface", rowVar)},
			assign(php.Var("row"), php.List(cell)),
			ret(&php.Binary{Op: "+", L: php.Var("row"), R: static("parent", "buildRow", php.Var(rowVar))}),
		),
	}
}
