package php

import "strings"

// Stmt is a statement inside a function or method body.
type Stmt interface {
	print(p *printer)
}

type (
	// Assign is target = value, or another assignment operator such as +=.
	Assign struct {
		Target Expr
		Op     string
		Value  Expr
	}

	// Return returns Value, or nothing when Value is nil.
	Return struct {
		Value Expr
	}

	// ExprStmt evaluates an expression for its side effects.
	ExprStmt struct {
		X Expr
	}

	// Throw raises an exception.
	Throw struct {
		X Expr
	}

	// Break leaves the enclosing switch.
	Break struct{}

	// Blank is an empty line between statements.
	Blank struct{}

	// Comment is a // line comment. Multi-line text renders as several lines.
	Comment struct {
		Text string
	}

	// If is a conditional with an optional else branch.
	If struct {
		Cond Expr
		Then []Stmt
		Else []Stmt
	}

	// Switch is a switch statement. Cases with an empty body fall through to
	// the next case.
	Switch struct {
		Subject Expr
		Cases   []Case
	}

	// Case is one switch branch; a nil Match is the default branch.
	Case struct {
		Match Expr
		Body  []Stmt
	}

	// Raw is a statement kept as source text. Lines after the first are
	// indented relative to the first one unless Verbatim is set, in which case
	// they are written exactly as stored.
	Raw struct {
		Code     string
		Verbatim bool
	}
)

func (s *Assign) print(p *printer) {
	op := s.Op
	if op == "" {
		op = "="
	}
	p.line(s.Target.php(p.depth) + " " + op + " " + s.Value.php(p.depth) + ";")
}

func (s *Return) print(p *printer) {
	if s.Value == nil {
		p.line("return;")
		return
	}
	p.line("return " + s.Value.php(p.depth) + ";")
}

func (s *ExprStmt) print(p *printer) { p.line(s.X.php(p.depth) + ";") }
func (s *Throw) print(p *printer)    { p.line("throw " + s.X.php(p.depth) + ";") }
func (*Break) print(p *printer)      { p.line("break;") }
func (*Blank) print(p *printer)      { p.blank() }

func (s *Comment) print(p *printer) {
	for _, l := range strings.Split(s.Text, "\n") {
		p.line(strings.TrimRight("// "+l, " "))
	}
}

func (s *If) print(p *printer) {
	p.line("if (" + s.Cond.php(p.depth) + ") {")
	p.block(s.Then)
	if len(s.Else) > 0 {
		p.line("}")
		p.line("else {")
		p.block(s.Else)
	}
	p.line("}")
}

func (s *Switch) print(p *printer) {
	p.line("switch (" + s.Subject.php(p.depth) + ") {")
	p.depth++
	for i, c := range s.Cases {
		if c.Match == nil {
			p.line("default:")
		} else {
			p.line("case " + c.Match.php(p.depth) + ":")
		}
		if len(c.Body) == 0 {
			continue
		}
		p.block(c.Body)
		if i < len(s.Cases)-1 {
			p.blank()
		}
	}
	p.depth--
	p.line("}")
}

func (s *Raw) print(p *printer) {
	lines := strings.Split(s.Code, "\n")
	p.line(lines[0])
	for _, l := range lines[1:] {
		switch {
		case s.Verbatim:
			p.raw(l + "\n")
		case strings.TrimSpace(l) == "":
			p.blank()
		default:
			p.line(l)
		}
	}
}
