package php

import "strings"

// File is a procedural PHP file such as a module's hook file. Top-level
// functions are parsed into Func nodes; everything else is kept verbatim.
type File struct {
	Nodes []Node
}

// Node is a top-level element of a File.
type Node interface {
	node()
}

// RawNode is top-level source text kept exactly as found.
type RawNode struct {
	Text string
}

// Func is a top-level function declaration.
type Func struct {
	Doc       string // full /** */ block, may be empty
	Name      string
	Signature string // parameter list and return type, e.g. "(array &$variables)"
	Body      []Stmt

	// orig is the parsed source from "function" to the closing brace and
	// parsed its rendering at parse time. An unmodified function prints orig.
	orig, parsed string
}

func (*RawNode) node() {}
func (*Func) node()    {}

// NewFile creates a file whose only content is a file level doc comment.
func NewFile(doc ...string) *File {
	f := &File{}
	if len(doc) > 0 {
		f.Nodes = append(f.Nodes, &RawNode{Text: DocBlock(doc...)})
	}
	return f
}

// Func returns the top-level function with the given name.
func (f *File) Func(name string) *Func {
	for _, n := range f.Nodes {
		if fn, ok := n.(*Func); ok && strings.EqualFold(fn.Name, name) {
			return fn
		}
	}
	return nil
}

// Append adds nodes at the end of the file.
func (f *File) Append(nodes ...Node) {
	f.Nodes = append(f.Nodes, nodes...)
}

// Print renders the file. Top-level nodes are separated by one blank line.
func (f *File) Print() string {
	p := &printer{}
	p.line("<?php")
	for _, n := range f.Nodes {
		p.blank()
		switch n := n.(type) {
		case *RawNode:
			p.raw(n.Text + "\n")
		case *Func:
			n.print(p)
		}
	}
	return p.String()
}

func (fn *Func) print(p *printer) {
	if fn.Doc != "" {
		p.raw(fn.Doc + "\n")
	}
	decl := fn.decl()
	if fn.orig != "" && decl == fn.parsed {
		p.raw(fn.orig + "\n")
		return
	}
	p.raw(decl)
}

// decl renders the declaration and body of fn at top level.
func (fn *Func) decl() string {
	sig := fn.Signature
	if sig == "" {
		sig = "()"
	}
	p := &printer{}
	p.line("function " + fn.Name + sig + " {")
	p.block(fn.Body)
	p.line("}")
	return p.String()
}

// DocBlock renders a top-level /** */ comment.
func DocBlock(lines ...string) string {
	p := &printer{}
	p.comment(lines)
	return strings.TrimSuffix(p.String(), "\n")
}
