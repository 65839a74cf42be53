// Package php models the PHP source files the generators emit.
//
// A Document describes one file declaring a single class or interface:
// namespace, use list, doc comment with Doctrine style annotations and an
// ordered member list. Method bodies are built from a small statement and
// expression tree, or from Raw snippets where a tree would only obscure the
// emitted code.
//
// A File describes a procedural file such as <module>.module. ParseFile reads
// such a file back; functions are split into statements and array literals
// are parsed so hook registries can be edited and printed again:
//
//	f, err := php.ParseFile(src)
//	if err != nil {
//		return err
//	}
//	fn := f.Func("kitchen_theme")
//	...
//	out := f.Print()
//
// Printing is deterministic: printing a parsed printout yields the same bytes.
package php
