package php

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/attus74/devutil/compiler/omap"
)

// DocComment is the /** */ block above a class or interface declaration.
type DocComment struct {
	Title       string
	Lines       []string // further description paragraphs
	Author      string
	Date        string
	Tags        []string // free-form tags such as "@Annotation"
	Annotations []Annotation
}

// Annotation is a Doctrine style annotation such as @ContentEntityType(...).
type Annotation struct {
	Name string
	Args omap.Map
}

// Translation renders a @Translation metadata reference. Values starting with
// "@" are never quoted by the annotation renderer.
func Translation(s string) string {
	return `@Translation("` + strings.ReplaceAll(s, `"`, `""`) + `")`
}

// lines renders the comment body without the /** */ delimiters.
func (c *DocComment) lines() []string {
	var sections [][]string
	if c.Title != "" {
		sections = append(sections, strings.Split(c.Title, "\n"))
	}
	if len(c.Lines) > 0 {
		sections = append(sections, c.Lines)
	}
	var meta []string
	if c.Author != "" {
		meta = append(meta, "@author "+c.Author)
	}
	if c.Date != "" {
		meta = append(meta, "@date "+c.Date)
	}
	if len(meta) > 0 {
		sections = append(sections, meta)
	}
	if len(c.Tags) > 0 {
		sections = append(sections, c.Tags)
	}
	for _, a := range c.Annotations {
		sections = append(sections, a.lines())
	}
	var out []string
	for i, s := range sections {
		if i > 0 {
			out = append(out, "")
		}
		out = append(out, s...)
	}
	return out
}

func (a Annotation) lines() []string {
	out := []string{"@" + a.Name + "("}
	out = appendArgs(out, a.Args, 0)
	return append(out, ")")
}

func appendArgs(out []string, args omap.Map, level int) []string {
	for _, p := range args {
		key := p.Key + " = "
		if level > 0 {
			key = `"` + p.Key + `" = `
		}
		out = appendValue(out, key, p.Value, level)
	}
	return out
}

func appendValue(out []string, key string, v any, level int) []string {
	pad := "  " + strings.Repeat("  ", level)
	switch v := v.(type) {
	case omap.Map:
		out = append(out, pad+key+"{")
		out = appendArgs(out, v, level+1)
		return append(out, pad+"},")
	case omap.List:
		out = append(out, pad+key+"{")
		for _, item := range v {
			out = appendValue(out, "", item, level+1)
		}
		return append(out, pad+"},")
	case []string:
		list := make(omap.List, len(v))
		for i, s := range v {
			list[i] = s
		}
		return appendValue(out, key, list, level)
	default:
		return append(out, pad+key+annotationScalar(v)+",")
	}
}

func annotationScalar(v any) string {
	switch v := v.(type) {
	case string:
		if strings.HasPrefix(v, "@") {
			return v
		}
		return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
	case int:
		return strconv.Itoa(v)
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprintf(`"%v"`, v)
	}
}
