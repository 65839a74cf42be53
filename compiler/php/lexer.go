package php

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tSpace tokenKind = iota
	tComment
	tDocComment
	tString
	tHeredoc
	tWord
	tPunct
	tCloseTag
)

type token struct {
	kind     tokenKind
	text     string
	pos, end int
}

func (t token) is(kind tokenKind, text string) bool {
	return t.kind == kind && t.text == text
}

// significant reports whether the token carries code.
func (t token) significant() bool {
	return t.kind != tSpace && t.kind != tComment && t.kind != tDocComment
}

// SyntaxError reports a position the parser could not handle.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func syntaxError(src string, pos int, format string, args ...any) error {
	return &SyntaxError{Line: strings.Count(src[:pos], "\n") + 1, Msg: fmt.Sprintf(format, args...)}
}

// lex splits PHP code into tokens. It understands just enough of the language
// to find statement and block boundaries: comments, every string flavour and
// bracket punctuation.
func lex(src string, start int) ([]token, error) {
	var toks []token
	i := start
	for i < len(src) {
		c := src[i]
		begin := i
		var kind tokenKind
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			for i < len(src) && strings.IndexByte(" \t\r\n", src[i]) >= 0 {
				i++
			}
			kind = tSpace
		case c == '#' && !strings.HasPrefix(src[i:], "#["), strings.HasPrefix(src[i:], "//"):
			i = lineCommentEnd(src, i)
			kind = tComment
		case strings.HasPrefix(src[i:], "/*"):
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return nil, syntaxError(src, i, "unterminated comment")
			}
			kind = tComment
			if strings.HasPrefix(src[i:], "/**") && !strings.HasPrefix(src[i:], "/**/") {
				kind = tDocComment
			}
			i += end + 4
		case c == '\'' || c == '"' || c == '`':
			end, ok := stringEnd(src, i)
			if !ok {
				return nil, syntaxError(src, i, "unterminated string")
			}
			i = end
			kind = tString
		case strings.HasPrefix(src[i:], "<<<"):
			end, err := heredocEnd(src, i)
			if err != nil {
				return nil, err
			}
			i = end
			kind = tHeredoc
		case strings.HasPrefix(src[i:], "?>"):
			i += 2
			kind = tCloseTag
		case c == '$' && i+1 < len(src) && isWordByte(src[i+1]):
			i++
			for i < len(src) && isWordByte(src[i]) {
				i++
			}
			kind = tWord
		case isWordByte(c) || c == '\\':
			for i < len(src) && (isWordByte(src[i]) || src[i] == '\\') {
				i++
			}
			kind = tWord
		default:
			i += punctLen(src[i:])
			kind = tPunct
		}
		toks = append(toks, token{kind: kind, text: src[begin:i], pos: begin, end: i})
	}
	return toks, nil
}

func isWordByte(c byte) bool {
	return c == '_' || c >= 0x80 || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

func punctLen(s string) int {
	for _, op := range []string{"?->", "=>", "->", "::", "==", "!=", "<=", ">=", "+=", "-=", ".=", "??"} {
		if strings.HasPrefix(s, op) {
			return len(op)
		}
	}
	return 1
}

// lineCommentEnd returns the end of a // or # comment, which stops before the
// newline or a closing tag.
func lineCommentEnd(src string, i int) int {
	for i < len(src) && src[i] != '\n' {
		if strings.HasPrefix(src[i:], "?>") {
			return i
		}
		i++
	}
	return i
}

func stringEnd(src string, i int) (int, bool) {
	q := src[i]
	for i++; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case q:
			return i + 1, true
		}
	}
	return 0, false
}

// heredocEnd returns the end of a heredoc or nowdoc starting at i.
func heredocEnd(src string, i int) (int, error) {
	start := i
	i += 3
	for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	quoted := i < len(src) && (src[i] == '\'' || src[i] == '"')
	if quoted {
		i++
	}
	idStart := i
	for i < len(src) && isWordByte(src[i]) {
		i++
	}
	id := src[idStart:i]
	if id == "" {
		return 0, syntaxError(src, start, "invalid heredoc")
	}
	if quoted {
		i++
	}
	nl := strings.IndexByte(src[i:], '\n')
	if nl < 0 {
		return 0, syntaxError(src, start, "unterminated heredoc")
	}
	for i += nl + 1; i <= len(src); {
		line := src[i:]
		if j := strings.IndexByte(line, '\n'); j >= 0 {
			line = line[:j]
		}
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, id) && (len(trimmed) == len(id) || !isWordByte(trimmed[len(id)])) {
			return i + (len(line) - len(trimmed)) + len(id), nil
		}
		if i+len(line) >= len(src) {
			break
		}
		i += len(line) + 1
	}
	return 0, syntaxError(src, start, "unterminated heredoc %s", id)
}
