// Package omap provides the insertion-ordered mapping used for annotation
// arguments and configuration tables.
package omap

import "fmt"

// Pair is a single entry of a Map.
type Pair struct {
	Key   string
	Value any
}

// Map is an ordered list of key/value pairs. Keys are unique when the map is
// built through Set.
type Map []Pair

// Of builds a Map from alternating keys and values. It panics when given an
// odd number of arguments or a non-string key.
func Of(kv ...any) Map {
	if len(kv)%2 != 0 {
		panic("omap: odd number of arguments")
	}
	m := make(Map, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("omap: key %v is not a string", kv[i]))
		}
		m = m.Set(k, kv[i+1])
	}
	return m
}

// Get returns the value stored under key.
func (m Map) Get(key string) (any, bool) {
	if i := m.Index(key); i >= 0 {
		return m[i].Value, true
	}
	return nil, false
}

// Index returns the position of key, or -1.
func (m Map) Index(key string) int {
	for i, p := range m {
		if p.Key == key {
			return i
		}
	}
	return -1
}

// Set overwrites the value of an existing key in place or appends a new pair.
func (m Map) Set(key string, value any) Map {
	if i := m.Index(key); i >= 0 {
		m[i].Value = value
		return m
	}
	return append(m, Pair{Key: key, Value: value})
}

// Keys returns the keys in order.
func (m Map) Keys() []string {
	keys := make([]string, len(m))
	for i, p := range m {
		keys[i] = p.Key
	}
	return keys
}

// List is an ordered sequence of values. Annotation lists are rendered without
// keys and YAML lists as sequences.
type List []any
