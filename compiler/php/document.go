package php

import (
	"slices"
	"strings"

	"github.com/attus74/devutil"
)

// Kind is the kind of type a Document declares.
type Kind int

// Declaration kinds.
const (
	Class Kind = iota
	Interface
)

func (k Kind) String() string {
	if k == Interface {
		return "interface"
	}
	return "class"
}

// Document is one PHP source file declaring a single class or interface.
type Document struct {
	Namespace  []string
	Kind       Kind
	Name       string
	Abstract   bool
	Extends    []string
	Implements []string
	Doc        *DocComment
	Members    []Member

	imports []string
}

// New creates a document declaring name in the given namespace segments.
func New(kind Kind, name string, namespace ...string) *Document {
	return &Document{Kind: kind, Name: name, Namespace: namespace}
}

// AddImport adds fully qualified names to the use list. Duplicates are ignored.
func (d *Document) AddImport(names ...string) *Document {
	for _, n := range names {
		n = strings.TrimPrefix(n, `\`)
		if n != "" && !slices.Contains(d.imports, n) {
			d.imports = append(d.imports, n)
		}
	}
	return d
}

// Imports returns the sorted use list.
func (d *Document) Imports() []string {
	out := slices.Clone(d.imports)
	slices.Sort(out)
	return out
}

// AddMember appends members in declaration order.
func (d *Document) AddMember(members ...Member) *Document {
	d.Members = append(d.Members, members...)
	return d
}

// SetDocComment sets the comment rendered above the declaration.
func (d *Document) SetDocComment(c *DocComment) *Document {
	d.Doc = c
	return d
}

// FQCN returns the fully qualified name of the declared type.
func (d *Document) FQCN() string {
	return strings.Join(append(slices.Clone(d.Namespace), d.Name), `\`)
}

// Render prints the document.
func (d *Document) Render() (string, error) {
	if err := d.validate(); err != nil {
		return "", err
	}
	p := &printer{}
	p.line("<?php")
	p.blank()
	if len(d.Namespace) > 0 {
		p.line("namespace " + strings.Join(d.Namespace, `\`) + ";")
		p.blank()
	}
	if imports := d.Imports(); len(imports) > 0 {
		for _, n := range imports {
			p.line("use " + n + ";")
		}
		p.blank()
	}
	if d.Doc != nil {
		p.comment(d.Doc.lines())
	}
	p.line(d.declaration() + " {")
	for _, m := range d.Members {
		p.blank()
		p.depth++
		m.print(p, d.Kind)
		p.depth--
	}
	if len(d.Members) > 0 {
		p.blank()
	}
	p.line("}")
	return p.String(), nil
}

func (d *Document) declaration() string {
	var b strings.Builder
	if d.Abstract && d.Kind == Class {
		b.WriteString("abstract ")
	}
	b.WriteString(d.Kind.String())
	b.WriteString(" ")
	b.WriteString(d.Name)
	if len(d.Extends) > 0 {
		b.WriteString(" extends ")
		b.WriteString(strings.Join(d.Extends, ", "))
	}
	if len(d.Implements) > 0 && d.Kind == Class {
		b.WriteString(" implements ")
		b.WriteString(strings.Join(d.Implements, ", "))
	}
	return b.String()
}

func (d *Document) validate() error {
	if d.Name == "" {
		return devutil.NewDocumentError("", "missing type name")
	}
	if d.Kind == Class && len(d.Extends) > 1 {
		return devutil.NewDocumentError(d.Name, "a class extends at most one parent")
	}
	if d.Kind == Interface && len(d.Implements) > 0 {
		return devutil.NewDocumentError(d.Name, "an interface cannot implement interfaces")
	}
	seen := make(map[string]bool, len(d.Members))
	for _, m := range d.Members {
		name := m.name()
		switch {
		case name == "":
			return devutil.NewDocumentError(d.Name, "member without name")
		case seen[name]:
			return devutil.NewDocumentError(d.Name, "duplicate member "+name)
		}
		seen[name] = true
	}
	return nil
}

// Member is a class or interface member.
type Member interface {
	name() string
	print(p *printer, kind Kind)
}

// Visibility of a member.
type Visibility string

// Visibilities.
const (
	Public    Visibility = "public"
	Protected Visibility = "protected"
	Private   Visibility = "private"
)

// TraitUse imports traits into a class body.
type TraitUse struct {
	Names []string
}

func (t *TraitUse) name() string { return "use " + strings.Join(t.Names, ",") }

func (t *TraitUse) print(p *printer, _ Kind) {
	p.line("use " + strings.Join(t.Names, ", ") + ";")
}

// Property is a class property.
type Property struct {
	Name       string
	Visibility Visibility
	Static     bool
	Doc        []string
	Comment    string
	Default    Expr
}

func (m *Property) name() string {
	if m.Name == "" {
		return ""
	}
	return "$" + m.Name
}

func (m *Property) print(p *printer, _ Kind) {
	p.comment(m.Doc)
	if m.Comment != "" {
		p.line("// " + m.Comment)
	}
	decl := string(visibility(m.Visibility)) + " "
	if m.Static {
		decl += "static "
	}
	decl += "$" + m.Name
	if m.Default != nil {
		decl += " = " + m.Default.php(p.depth)
	}
	p.line(decl + ";")
}

// Param is a method or function parameter.
type Param struct {
	Name    string
	Type    string
	ByRef   bool
	Default Expr
}

func (pa Param) String() string {
	var b strings.Builder
	if pa.Type != "" {
		b.WriteString(pa.Type)
		b.WriteString(" ")
	}
	if pa.ByRef {
		b.WriteString("&")
	}
	b.WriteString("$")
	b.WriteString(pa.Name)
	if pa.Default != nil {
		b.WriteString(" = ")
		b.WriteString(pa.Default.php(0))
	}
	return b.String()
}

// Method is a class or interface method. Interface and abstract methods are
// rendered without a body.
type Method struct {
	Name       string
	Visibility Visibility
	Static     bool
	Abstract   bool
	Params     []Param
	ReturnType string
	Doc        []string
	Body       []Stmt
}

// InheritDoc is the doc comment of an overriding method.
var InheritDoc = []string{"{@inheritdoc}"}

func (m *Method) name() string {
	if m.Name == "" {
		return ""
	}
	return m.Name + "()"
}

func (m *Method) print(p *printer, kind Kind) {
	p.comment(m.Doc)
	var b strings.Builder
	if m.Abstract && kind == Class {
		b.WriteString("abstract ")
	}
	b.WriteString(string(visibility(m.Visibility)))
	if m.Static {
		b.WriteString(" static")
	}
	b.WriteString(" function ")
	b.WriteString(m.Name)
	b.WriteString("(")
	for i, pa := range m.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(pa.String())
	}
	b.WriteString(")")
	if m.ReturnType != "" {
		b.WriteString(": ")
		b.WriteString(m.ReturnType)
	}
	if kind == Interface || m.Abstract {
		p.line(b.String() + ";")
		return
	}
	p.line(b.String() + " {")
	p.block(m.Body)
	p.line("}")
}

func visibility(v Visibility) Visibility {
	if v == "" {
		return Public
	}
	return v
}
