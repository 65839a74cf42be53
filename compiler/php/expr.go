package php

import (
	"slices"
	"strconv"
	"strings"
)

// Expr is a PHP expression. Expressions render themselves at a nesting depth
// so that multi-line arrays line up with the statement that holds them.
type Expr interface {
	php(depth int) string
}

type (
	// Var is a variable reference; Var("entity") renders as $entity.
	Var string

	// Str is a string literal, always rendered single quoted.
	Str string

	// Int is an integer literal.
	Int int

	// Bool renders as TRUE or FALSE.
	Bool bool

	// Const is a bare name: a constant, a class constant or a keyword.
	Const string

	// RawExpr is an expression kept as source text.
	RawExpr string

	// Array is an array literal. Inline arrays render on one line; all other
	// non-empty arrays render one item per line with a trailing comma.
	Array struct {
		Items  []ArrayItem
		Inline bool
	}

	// ArrayItem is an array entry. A nil Key marks a list entry and a
	// non-empty Comment marks a comment line kept between entries.
	ArrayItem struct {
		Key     Expr
		Value   Expr
		Comment string
	}

	// Call is a function call.
	Call struct {
		Func string
		Args []Expr
	}

	// MethodCall is $x->name(args).
	MethodCall struct {
		X    Expr
		Name string
		Args []Expr
	}

	// StaticCall is Class::name(args).
	StaticCall struct {
		Class string
		Name  string
		Args  []Expr
	}

	// NewExpr is an object instantiation.
	NewExpr struct {
		Class string
		Args  []Expr
	}

	// PropFetch is $x->name.
	PropFetch struct {
		X    Expr
		Name string
	}

	// Index is $x[key].
	Index struct {
		X   Expr
		Key Expr
	}

	// Not is a boolean negation.
	Not struct {
		X Expr
	}

	// Binary is a binary operation such as + or ===.
	Binary struct {
		Op   string
		L, R Expr
	}

	// Chain is a fluent method chain rendered with one call per line.
	Chain struct {
		X     Expr
		Calls []*Call
	}
)

func (v Var) php(int) string     { return "$" + string(v) }
func (s Str) php(int) string     { return quote(string(s)) }
func (i Int) php(int) string     { return strconv.Itoa(int(i)) }
func (c Const) php(int) string   { return string(c) }
func (r RawExpr) php(int) string { return string(r) }

func (b Bool) php(int) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func (a *Array) php(depth int) string {
	if len(a.Items) == 0 {
		return "[]"
	}
	if a.Inline {
		parts := make([]string, 0, len(a.Items))
		for _, it := range a.Items {
			if it.Comment != "" {
				continue
			}
			parts = append(parts, it.entry(depth))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	var b strings.Builder
	b.WriteString("[\n")
	for _, it := range a.Items {
		b.WriteString(indent(depth + 1))
		if it.Comment != "" {
			b.WriteString(it.Comment)
		} else {
			b.WriteString(it.entry(depth + 1))
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(indent(depth))
	b.WriteString("]")
	return b.String()
}

func (it ArrayItem) entry(depth int) string {
	if it.Key == nil {
		return it.Value.php(depth)
	}
	return it.Key.php(depth) + " => " + it.Value.php(depth)
}

func (c *Call) php(depth int) string {
	return c.Func + "(" + args(c.Args, depth) + ")"
}

func (m *MethodCall) php(depth int) string {
	return m.X.php(depth) + "->" + m.Name + "(" + args(m.Args, depth) + ")"
}

func (s *StaticCall) php(depth int) string {
	return s.Class + "::" + s.Name + "(" + args(s.Args, depth) + ")"
}

func (n *NewExpr) php(depth int) string {
	return "new " + n.Class + "(" + args(n.Args, depth) + ")"
}

func (p *PropFetch) php(depth int) string { return p.X.php(depth) + "->" + p.Name }
func (i *Index) php(depth int) string     { return i.X.php(depth) + "[" + i.Key.php(depth) + "]" }
func (n *Not) php(depth int) string       { return "!" + n.X.php(depth) }

func (b *Binary) php(depth int) string {
	return b.L.php(depth) + " " + b.Op + " " + b.R.php(depth)
}

func (c *Chain) php(depth int) string {
	var b strings.Builder
	b.WriteString(c.X.php(depth))
	for _, call := range c.Calls {
		b.WriteString("\n")
		b.WriteString(indent(depth + 1))
		b.WriteString("->")
		b.WriteString(call.php(depth + 1))
	}
	return b.String()
}

// Fluent starts a method chain on x.
func Fluent(x Expr, calls ...*Call) *Chain {
	return &Chain{X: x, Calls: calls}
}

// Invoke builds one call of a Chain. Plain Go values become expressions.
func Invoke(name string, args ...any) *Call {
	c := &Call{Func: name}
	for _, a := range args {
		c.Args = append(c.Args, ValueOf(a))
	}
	return c
}

func args(list []Expr, depth int) string {
	parts := make([]string, len(list))
	for i, a := range list {
		parts[i] = a.php(depth)
	}
	return strings.Join(parts, ", ")
}

// Assoc builds a multi-line associative array from alternating keys and
// values. String values become string literals.
func Assoc(kv ...any) *Array {
	a := &Array{}
	for i := 0; i+1 < len(kv); i += 2 {
		a.Set(kv[i].(string), ValueOf(kv[i+1]))
	}
	return a
}

// List builds a multi-line list array.
func List(values ...any) *Array {
	a := &Array{}
	for _, v := range values {
		a.Items = append(a.Items, ArrayItem{Value: ValueOf(v)})
	}
	return a
}

// ValueOf converts plain Go values into expressions.
func ValueOf(v any) Expr {
	switch v := v.(type) {
	case Expr:
		return v
	case string:
		return Str(v)
	case int:
		return Int(v)
	case bool:
		return Bool(v)
	case nil:
		return Const("NULL")
	default:
		panic("php: unsupported value type")
	}
}

// Get returns the value stored under a string key.
func (a *Array) Get(key string) (Expr, bool) {
	if i := a.index(key); i >= 0 {
		return a.Items[i].Value, true
	}
	return nil, false
}

// Set overwrites the value of an existing string key in place or appends a
// new entry.
func (a *Array) Set(key string, value Expr) {
	if i := a.index(key); i >= 0 {
		a.Items[i].Value = value
		return
	}
	a.Items = append(a.Items, ArrayItem{Key: Str(key), Value: value})
}

// Keys returns the string keys of the array in order.
func (a *Array) Keys() []string {
	var keys []string
	for _, it := range a.Items {
		if k, ok := it.Key.(Str); ok {
			keys = append(keys, string(k))
		}
	}
	return keys
}

// Clone returns a copy of a in which nested array literals are copied too.
func (a *Array) Clone() *Array {
	out := &Array{Inline: a.Inline, Items: make([]ArrayItem, len(a.Items))}
	for i, it := range a.Items {
		if v, ok := it.Value.(*Array); ok {
			it.Value = v.Clone()
		}
		out.Items[i] = it
	}
	return out
}

// IndexPath splits $name['k1']['k2'] into the variable name and its string
// keys. A bare variable has no keys; other expressions report false.
func IndexPath(x Expr) (string, []string, bool) {
	var keys []string
	for {
		switch e := x.(type) {
		case Var:
			slices.Reverse(keys)
			return string(e), keys, true
		case *Index:
			k, ok := e.Key.(Str)
			if !ok {
				return "", nil, false
			}
			keys = append(keys, string(k))
			x = e.X
		default:
			return "", nil, false
		}
	}
}

func (a *Array) index(key string) int {
	for i, it := range a.Items {
		if k, ok := it.Key.(Str); ok && string(k) == key {
			return i
		}
	}
	return -1
}

// Translate wraps a string in the t() translation function.
func Translate(s string, args ...Expr) *Call {
	return &Call{Func: "t", Args: append([]Expr{Str(s)}, args...)}
}

// This is the $this variable.
const This = Var("this")

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}

// quote renders s as a single quoted literal. Backslashes are only escaped
// where PHP would otherwise read them as an escape sequence.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			if i+1 == len(s) || s[i+1] == '\\' || s[i+1] == '\'' {
				b.WriteString(`\\`)
			} else {
				b.WriteByte(c)
			}
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// unquote decodes a single quoted literal including its quotes.
func unquote(lit string) string {
	body := lit[1 : len(lit)-1]
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) && (body[i+1] == '\\' || body[i+1] == '\'') {
			i++
		}
		b.WriteByte(body[i])
	}
	return b.String()
}
