package php

import (
	"errors"
	"strconv"
	"strings"
)

// ParseFile parses a procedural PHP file. Top-level functions become Func
// nodes whose bodies are split into statements; array assignments and
// returns are parsed into expressions so they can be edited, every other
// statement is kept as source text. Printing the parsed file reproduces the
// input up to the spacing between top-level nodes.
func ParseFile(src string) (*File, error) {
	body := strings.TrimPrefix(src, "\ufeff")
	if !strings.HasPrefix(body, "<?php") {
		return nil, errors.New("missing <?php open tag")
	}
	toks, err := lex(src, len(src)-len(body)+len("<?php"))
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, toks: toks}
	return p.file()
}

type parser struct {
	src  string
	toks []token
	i    int
}

func (p *parser) eof() bool { return p.i >= len(p.toks) }

func (p *parser) errAt(pos int, format string, args ...any) error {
	return syntaxError(p.src, pos, format, args...)
}

// skipSpace advances over whitespace and returns the number of newlines seen.
func (p *parser) skipSpace() int {
	n := 0
	for !p.eof() && p.toks[p.i].kind == tSpace {
		n += strings.Count(p.toks[p.i].text, "\n")
		p.i++
	}
	return n
}

// nextSpace returns the index of the first non-space token at or after k.
func (p *parser) nextSpace(k int) int {
	for k < len(p.toks) && p.toks[k].kind == tSpace {
		k++
	}
	return k
}

// nextSig returns the index of the first significant token at or after k.
func (p *parser) nextSig(k int) int {
	for k < len(p.toks) && !p.toks[k].significant() {
		k++
	}
	return k
}

func (p *parser) tok(k int) token {
	if k < len(p.toks) {
		return p.toks[k]
	}
	return token{kind: tSpace, pos: len(p.src), end: len(p.src)}
}

func (p *parser) span(from, to int) string {
	return p.src[p.toks[from].pos:p.toks[to-1].end]
}

func (p *parser) file() (*File, error) {
	f := &File{}
	for {
		p.skipSpace()
		if p.eof() {
			return f, nil
		}
		t := p.toks[p.i]
		switch {
		case t.kind == tCloseTag:
			f.Append(&RawNode{Text: strings.TrimRight(p.src[t.pos:], " \t\r\n")})
			return f, nil
		case t.kind == tComment:
			f.Append(&RawNode{Text: strings.TrimRight(t.text, " \t\r\n")})
			p.i++
		case t.kind == tDocComment:
			if k := p.nextSpace(p.i + 1); p.isFunc(k) {
				fn, err := p.function(k, t.text)
				if err != nil {
					return nil, err
				}
				f.Append(fn)
				continue
			}
			f.Append(&RawNode{Text: t.text})
			p.i++
		case p.isFunc(p.i):
			fn, err := p.function(p.i, "")
			if err != nil {
				return nil, err
			}
			f.Append(fn)
		default:
			end, err := p.statement(p.i)
			if err != nil {
				return nil, err
			}
			f.Append(&RawNode{Text: p.span(p.i, end)})
			p.i = end
		}
	}
}

// isFunc reports whether a named function declaration starts at k.
func (p *parser) isFunc(k int) bool {
	t := p.tok(k)
	if t.kind != tWord || !strings.EqualFold(t.text, "function") {
		return false
	}
	name := p.tok(p.nextSpace(k + 1))
	if name.kind != tWord || strings.HasPrefix(name.text, "$") {
		return false
	}
	return p.tok(p.nextSpace(p.nextSpace(k+1)+1)).is(tPunct, "(")
}

func (p *parser) function(k int, doc string) (*Func, error) {
	nameIdx := p.nextSpace(k + 1)
	fn := &Func{Doc: doc, Name: p.toks[nameIdx].text}
	depth := 0
	brace := -1
	for i := nameIdx + 1; i < len(p.toks) && brace < 0; i++ {
		t := p.toks[i]
		switch {
		case t.is(tPunct, "("):
			depth++
		case t.is(tPunct, ")"):
			depth--
		case t.is(tPunct, "{") && depth == 0:
			brace = i
		case t.is(tPunct, ";") && depth == 0:
			return nil, p.errAt(t.pos, "function %s has no body", fn.Name)
		}
	}
	if brace < 0 {
		return nil, p.errAt(p.toks[k].pos, "function %s has no body", fn.Name)
	}
	fn.Signature = strings.TrimSpace(p.src[p.toks[nameIdx].end:p.toks[brace].pos])
	p.i = brace + 1
	body, err := p.body()
	if err != nil {
		return nil, err
	}
	fn.Body = body
	fn.orig = p.src[p.toks[k].pos:p.toks[p.i-1].end]
	fn.parsed = fn.decl()
	return fn, nil
}

func (p *parser) body() ([]Stmt, error) {
	var stmts []Stmt
	for {
		nl := p.skipSpace()
		if p.eof() {
			return nil, p.errAt(len(p.src), "unexpected end of file in function body")
		}
		t := p.toks[p.i]
		if t.is(tPunct, "}") {
			p.i++
			return stmts, nil
		}
		if nl >= 2 && len(stmts) > 0 {
			stmts = append(stmts, &Blank{})
		}
		switch t.kind {
		case tCloseTag:
			return nil, p.errAt(t.pos, "inline HTML in function body")
		case tComment, tDocComment:
			stmts = append(stmts, p.raw(p.i, p.i+1))
			p.i++
			continue
		}
		end, err := p.statement(p.i)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, p.stmt(p.i, end))
		p.i = end
	}
}

// statement returns the index after the statement starting at k. A statement
// ends at a semicolon outside brackets, or at a closing brace that is not
// followed by a continuation such as else or a method call.
func (p *parser) statement(k int) (int, error) {
	var stack []byte
	for i := k; i < len(p.toks); i++ {
		t := p.toks[i]
		if t.kind == tCloseTag && len(stack) == 0 {
			if i == k {
				return 0, p.errAt(t.pos, "unexpected closing tag")
			}
			return i, nil
		}
		if t.kind != tPunct {
			continue
		}
		switch t.text {
		case "(", "[", "{":
			stack = append(stack, t.text[0])
		case ")", "]", "}":
			if len(stack) == 0 {
				return 0, p.errAt(t.pos, "unexpected %s", t.text)
			}
			if open := stack[len(stack)-1]; closer(open) != t.text[0] {
				return 0, p.errAt(t.pos, "mismatched %s", t.text)
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 && t.text == "}" && !p.continues(i+1) {
				return i + 1, nil
			}
		case ";":
			if len(stack) == 0 {
				return i + 1, nil
			}
		}
	}
	return 0, p.errAt(len(p.src), "unexpected end of file")
}

func closer(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	default:
		return '}'
	}
}

var continuations = map[string]bool{
	";": true, ",": true, ")": true, "]": true, "->": true, "?->": true, "::": true,
	"(": true, ".": true, "?": true, ":": true, "??": true, "==": true, "!=": true,
	"=": true, "+": true, "-": true, "*": true, "/": true, "|": true, "&": true,
	"<": true, ">": true, "<=": true, ">=": true,
	"else": true, "elseif": true, "catch": true, "finally": true, "while": true,
	"instanceof": true, "and": true, "or": true, "xor": true,
}

func (p *parser) continues(k int) bool {
	t := p.tok(p.nextSig(k))
	switch t.kind {
	case tPunct:
		return continuations[t.text]
	case tWord:
		return continuations[strings.ToLower(t.text)]
	}
	return false
}

// match returns the index of the bracket closing the one at k.
func (p *parser) match(k, limit int) int {
	depth := 0
	for i := k; i < limit; i++ {
		t := p.toks[i]
		if t.kind != tPunct {
			continue
		}
		switch t.text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// stmt builds a statement from the tokens in [k, end).
func (p *parser) stmt(k, end int) Stmt {
	last := end - 1
	if !p.toks[last].is(tPunct, ";") {
		return p.raw(k, end)
	}
	first := p.toks[k]
	switch {
	case first.kind == tWord && strings.HasPrefix(first.text, "$"):
		target, eq, ok := p.target(k, last)
		if !ok || !p.tok(eq).is(tPunct, "=") {
			break
		}
		if a, ok := p.arrayAt(p.nextSpace(eq+1), last); ok {
			return &Assign{Target: target, Value: a}
		}
	case first.kind == tWord && strings.EqualFold(first.text, "return"):
		v := p.nextSpace(k + 1)
		switch t := p.tok(v); {
		case v == last:
			return &Return{}
		case t.kind == tWord && strings.HasPrefix(t.text, "$") && p.nextSpace(v+1) == last:
			return &Return{Value: Var(t.text[1:])}
		}
		if a, ok := p.arrayAt(v, last); ok {
			return &Return{Value: a}
		}
	}
	return p.raw(k, end)
}

// target parses $name followed by any number of literal [key] suffixes and
// returns the index of the token after it.
func (p *parser) target(k, limit int) (Expr, int, bool) {
	var x Expr = Var(p.toks[k].text[1:])
	j := p.nextSpace(k + 1)
	for p.tok(j).is(tPunct, "[") {
		closeIdx := p.match(j, limit)
		if closeIdx < 0 {
			return nil, 0, false
		}
		key, ok := p.literal(j+1, closeIdx)
		if !ok {
			return nil, 0, false
		}
		x = &Index{X: x, Key: key}
		j = p.nextSpace(closeIdx + 1)
	}
	return x, j, true
}

// literal parses a lone string or integer literal in [from, to).
func (p *parser) literal(from, to int) (Expr, bool) {
	v, err := p.value(from, to)
	if err != nil {
		return nil, false
	}
	switch v.(type) {
	case Str, Int:
		return v, true
	}
	return nil, false
}

// arrayAt parses an array literal starting at k that must end right before
// the token at limit, ignoring whitespace.
func (p *parser) arrayAt(k, limit int) (*Array, bool) {
	open := k
	t := p.tok(k)
	if t.kind == tWord && strings.EqualFold(t.text, "array") {
		open = p.nextSpace(k + 1)
	} else if !t.is(tPunct, "[") {
		return nil, false
	}
	if ot := p.tok(open); !ot.is(tPunct, "[") && !ot.is(tPunct, "(") {
		return nil, false
	}
	closeIdx := p.match(open, limit)
	if closeIdx < 0 || p.nextSpace(closeIdx+1) != limit {
		return nil, false
	}
	a, err := p.array(open, closeIdx)
	if err != nil {
		return nil, false
	}
	return a, true
}

func (p *parser) array(open, closeIdx int) (*Array, error) {
	a := &Array{}
	i := open + 1
	for i < closeIdx {
		for i < closeIdx && !p.toks[i].significant() {
			if t := p.toks[i]; t.kind != tSpace {
				a.Items = append(a.Items, ArrayItem{Comment: strings.TrimRight(t.text, " \t\r\n")})
			}
			i++
		}
		if i >= closeIdx {
			break
		}
		j, arrow, depth := i, -1, 0
	scan:
		for ; j < closeIdx; j++ {
			t := p.toks[j]
			if t.kind != tPunct {
				continue
			}
			switch t.text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				depth--
			case ",":
				if depth == 0 {
					break scan
				}
			case "=>":
				if depth == 0 && arrow < 0 {
					arrow = j
				}
			}
		}
		if depth != 0 {
			return nil, p.errAt(p.toks[i].pos, "unbalanced array entry")
		}
		var it ArrayItem
		var err error
		if arrow >= 0 {
			if it.Key, err = p.value(i, arrow); err != nil {
				return nil, err
			}
			if it.Value, err = p.value(arrow+1, j); err != nil {
				return nil, err
			}
		} else if it.Value, err = p.value(i, j); err != nil {
			return nil, err
		}
		a.Items = append(a.Items, it)
		i = j + 1
	}
	return a, nil
}

// value parses the expression in [from, to).
func (p *parser) value(from, to int) (Expr, error) {
	for from < to && p.toks[from].kind == tSpace {
		from++
	}
	for to > from && p.toks[to-1].kind == tSpace {
		to--
	}
	if from >= to {
		return nil, p.errAt(p.tok(from).pos, "empty array entry")
	}
	var sig []int
	comments := false
	for i := from; i < to; i++ {
		switch {
		case p.toks[i].significant():
			sig = append(sig, i)
		case p.toks[i].kind != tSpace:
			comments = true
		}
	}
	if !comments {
		if len(sig) == 1 {
			t := p.toks[sig[0]]
			switch {
			case t.kind == tString && t.text[0] == '\'':
				return Str(unquote(t.text)), nil
			case t.kind == tString && t.text[0] == '"' && !strings.ContainsAny(t.text[1:len(t.text)-1], `\$`):
				return Str(t.text[1 : len(t.text)-1]), nil
			case t.kind == tWord:
				if n, err := strconv.Atoi(t.text); err == nil && strconv.Itoa(n) == t.text {
					return Int(n), nil
				}
			}
		}
		if a, ok := p.arrayAt(from, to); ok {
			return a, nil
		}
	}
	return RawExpr(p.span(from, to)), nil
}

// raw keeps the statement in [k, end) as source text. Continuation lines are
// re-based on the statement's own indentation when they all share it.
func (p *parser) raw(k, end int) Stmt {
	text := p.span(k, end)
	pos := p.toks[k].pos
	lineStart := strings.LastIndexByte(p.src[:pos], '\n') + 1
	prefix := p.src[lineStart:pos]
	if !strings.Contains(text, "\n") {
		return &Raw{Code: text}
	}
	if strings.TrimLeft(prefix, " \t") != "" {
		return &Raw{Code: text, Verbatim: true}
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines[1:] {
		switch {
		case strings.TrimSpace(l) == "":
			lines[i+1] = ""
		case strings.HasPrefix(l, prefix):
			lines[i+1] = l[len(prefix):]
		default:
			return &Raw{Code: text, Verbatim: true}
		}
	}
	return &Raw{Code: strings.Join(lines, "\n")}
}
