package php

import "strings"

// printer accumulates rendered source at a statement depth.
type printer struct {
	b     strings.Builder
	depth int
}

func (p *printer) line(s string) {
	if s == "" {
		p.b.WriteByte('\n')
		return
	}
	p.b.WriteString(indent(p.depth))
	p.b.WriteString(s)
	p.b.WriteByte('\n')
}

func (p *printer) blank() { p.b.WriteByte('\n') }

func (p *printer) raw(s string) { p.b.WriteString(s) }

func (p *printer) block(stmts []Stmt) {
	p.depth++
	for _, s := range stmts {
		s.print(p)
	}
	p.depth--
}

// comment writes a /** */ block at the current depth.
func (p *printer) comment(lines []string) {
	if len(lines) == 0 {
		return
	}
	p.line("/**")
	for _, l := range lines {
		p.line(strings.TrimRight(" * "+l, " "))
	}
	p.line(" */")
}

func (p *printer) String() string { return p.b.String() }
