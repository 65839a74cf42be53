// Package table reads and writes the YAML configuration tables of a module
// (permissions, routing, links, services, schema and install config).
//
// A Table keeps the parsed yaml.Node tree so entries the generators do not
// touch keep their order, style and comments. Writes are shallow: Set replaces
// the whole value of a top-level key.
package table

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/attus74/devutil/compiler/filestore"
	"github.com/attus74/devutil/compiler/omap"
)

// ErrTableSaved is returned when a table is saved twice by one Store.
var ErrTableSaved = errors.New("table: table already saved in this run")

// Table is an ordered YAML mapping identified by its file path.
type Table struct {
	path string
	doc  *yaml.Node
}

// New returns an empty table for path.
func New(path string) *Table {
	return &Table{
		path: path,
		doc: &yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}},
		},
	}
}

// Parse decodes a table from YAML source. Empty documents yield an empty
// table; any top-level value other than a mapping is an error.
func Parse(path string, data []byte) (*Table, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	t := New(path)
	if doc.Kind == 0 {
		return t, nil
	}
	if doc.Kind != yaml.DocumentNode {
		return nil, fmt.Errorf("parse %s: unexpected node kind %d", path, doc.Kind)
	}
	if len(doc.Content) == 0 || doc.Content[0].Tag == "!!null" {
		t.doc.HeadComment = doc.HeadComment
		return t, nil
	}
	if doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse %s: top-level value is not a mapping", path)
	}
	t.doc = &doc
	return t, nil
}

// Path returns the file path of the table.
func (t *Table) Path() string { return t.path }

func (t *Table) root() *yaml.Node { return t.doc.Content[0] }

// Len returns the number of top-level entries.
func (t *Table) Len() int { return len(t.root().Content) / 2 }

// Keys returns the top-level keys in order.
func (t *Table) Keys() []string {
	content := t.root().Content
	keys := make([]string, 0, len(content)/2)
	for i := 0; i+1 < len(content); i += 2 {
		keys = append(keys, content[i].Value)
	}
	return keys
}

// Has reports whether key is present.
func (t *Table) Has(key string) bool {
	_, ok := t.Node(key)
	return ok
}

// Node returns the value node of a top-level key.
func (t *Table) Node(key string) (*yaml.Node, bool) {
	return lookup(t.root(), key)
}

// Decode decodes the value of key into v.
func (t *Table) Decode(key string, v any) error {
	n, ok := t.Node(key)
	if !ok {
		return fmt.Errorf("%s: no entry %q", t.path, key)
	}
	return n.Decode(v)
}

// Set stores value under key, replacing any previous value in place. Values
// may be omap.Map, omap.List, []string, scalars, *yaml.Node or anything
// yaml.v3 can encode.
func (t *Table) Set(key string, value any) error {
	n, err := toNode(value)
	if err != nil {
		return fmt.Errorf("%s: encode %q: %w", t.path, key, err)
	}
	set(t.root(), key, n)
	return nil
}

// SetIn stores value under a nested key path, creating intermediate mappings.
// Siblings along the path are kept.
func (t *Table) SetIn(path []string, value any) error {
	if len(path) == 0 {
		return errors.New("table: empty key path")
	}
	m := t.root()
	for _, k := range path[:len(path)-1] {
		next, ok := lookup(m, k)
		if !ok || next.Kind != yaml.MappingNode {
			next = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			set(m, k, next)
		}
		m = next
	}
	n, err := toNode(value)
	if err != nil {
		return fmt.Errorf("%s: encode %v: %w", t.path, path, err)
	}
	set(m, path[len(path)-1], n)
	return nil
}

// Merge copies every top-level entry of other into t with Set semantics.
func (t *Table) Merge(other *Table) {
	content := other.root().Content
	for i := 0; i+1 < len(content); i += 2 {
		set(t.root(), content[i].Value, content[i+1])
	}
}

// Bytes encodes the table with two-space indentation.
func (t *Table) Bytes() ([]byte, error) {
	if t.Len() == 0 {
		return []byte("{}\n"), nil
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(t.doc); err != nil {
		return nil, fmt.Errorf("encode %s: %w", t.path, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode %s: %w", t.path, err)
	}
	return buf.Bytes(), nil
}

func lookup(m *yaml.Node, key string) (*yaml.Node, bool) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1], true
		}
	}
	return nil, false
}

func set(m *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = value
			return
		}
	}
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, value)
}

func toNode(v any) (*yaml.Node, error) {
	switch v := v.(type) {
	case *yaml.Node:
		return v, nil
	case omap.Map:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, p := range v {
			vn, err := toNode(p.Value)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Key}, vn)
		}
		return n, nil
	case omap.List:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v {
			in, err := toNode(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, in)
		}
		return n, nil
	case []string:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, s := range v {
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s})
		}
		return n, nil
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}, nil
	case int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(v)}, nil
	default:
		n := &yaml.Node{}
		if err := n.Encode(v); err != nil {
			return nil, err
		}
		return n, nil
	}
}

// Store loads tables from a FileStore and saves each of them at most once.
// One Store serves one generation run.
type Store struct {
	fs    filestore.FileStore
	saved map[string]bool
}

// NewStore returns a Store writing through fs.
func NewStore(fs filestore.FileStore) *Store {
	return &Store{fs: fs, saved: make(map[string]bool)}
}

// Load returns the table stored at path, or an empty table when the file does
// not exist.
func (s *Store) Load(path string) (*Table, error) {
	text, ok, err := s.fs.ReadText(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return New(path), nil
	}
	return Parse(path, []byte(text))
}

// Save writes the table back to its path.
func (s *Store) Save(t *Table) error {
	if s.saved[t.path] {
		return fmt.Errorf("%s: %w", t.path, ErrTableSaved)
	}
	data, err := t.Bytes()
	if err != nil {
		return err
	}
	if err := s.fs.WriteText(t.path, string(data)); err != nil {
		return err
	}
	s.saved[t.path] = true
	return nil
}

// ModulePath returns the path of a module level table such as
// kitchen.routing.yml.
func ModulePath(moduleRoot, module, key string) string {
	return filepath.Join(moduleRoot, module+"."+key+".yml")
}
