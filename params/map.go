package params

import (
	"bytes"
	"encoding/json"
	"iter"
	"log/slog"
	"slices"
	"strings"

	"braces.dev/errtrace"
	"gopkg.in/yaml.v3"
)

// Map is an insertion-ordered mapping from parameter names to values.
// The zero value is an empty map ready to use.
type Map struct {
	keys []string
	vals map[string]Value
}

// NewMap creates an empty map.
func NewMap() *Map {
	return &Map{}
}

func (*Map) param() {}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns parameter names in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

// Get returns the value stored under name.
func (m *Map) Get(name string) (Value, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.vals[name]
	return v, ok
}

// Has reports whether the map holds name.
func (m *Map) Has(name string) bool {
	_, ok := m.Get(name)
	return ok
}

// Lookup returns the scalar value stored under name or def
// when the name is missing or holds a nested value.
func (m *Map) Lookup(name, def string) string {
	if v, ok := m.Get(name); ok {
		if s, ok := v.(String); ok {
			return string(s)
		}
	}
	return def
}

// Set stores v under name. An existing entry keeps its position.
// Nil v is stored as an empty [String].
func (m *Map) Set(name string, v Value) *Map {
	if v == nil {
		v = String("")
	}
	if m.vals == nil {
		m.vals = make(map[string]Value)
	}
	if _, ok := m.vals[name]; !ok {
		m.keys = append(m.keys, name)
	}
	m.vals[name] = v
	return m
}

// Delete removes name from the map.
func (m *Map) Delete(name string) *Map {
	if m == nil {
		return m
	}
	if _, ok := m.vals[name]; !ok {
		return m
	}
	delete(m.vals, name)
	if i := slices.Index(m.keys, name); i >= 0 {
		m.keys = slices.Delete(m.keys, i, i+1)
	}
	return m
}

// All returns an iterator over entries in insertion order.
func (m *Map) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.vals[k]) {
				return
			}
		}
	}
}

// Clone returns a deep copy of the map.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	m2 := &Map{
		keys: slices.Clone(m.keys),
		vals: make(map[string]Value, len(m.vals)),
	}
	for k, v := range m.vals {
		m2.vals[k] = cloneValue(v)
	}
	return m2
}

// CloneValue implements [Value].
func (m *Map) CloneValue() Value { return m.Clone() }

// Equal reports whether m and val hold the same entries in the same order.
// val can be a [Map] or [*Map].
func (m *Map) Equal(val any) bool {
	var other *Map
	switch v := val.(type) {
	case Map:
		other = &v
	case *Map:
		other = v
	default:
		return false
	}
	if m == nil || other == nil {
		return m == other
	}
	if !slices.Equal(m.keys, other.keys) {
		return false
	}
	for _, k := range m.keys {
		if !equalValue(m.vals[k], other.vals[k]) {
			return false
		}
	}
	return true
}

// EqualValue implements [Value].
func (m *Map) EqualValue(v Value) bool {
	o, ok := v.(*Map)
	return ok && m.Equal(o)
}

// Compare orders maps by their encoded form.
func (m *Map) Compare(other *Map) int {
	return strings.Compare(Encode(m), Encode(other))
}

// String returns the map encoded as a query string.
func (m *Map) String() string { return Encode(m) }

// MarshalJSON implements [json.Marshaler], keeping insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		vb, err := json.Marshal(m.vals[k])
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML implements [yaml.Marshaler], keeping insertion order.
func (m *Map) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for k, v := range m.All() {
		var kn, vn yaml.Node
		if err := kn.Encode(k); err != nil {
			return nil, errtrace.Wrap(err)
		}
		if err := vn.Encode(v); err != nil {
			return nil, errtrace.Wrap(err)
		}
		node.Content = append(node.Content, &kn, &vn)
	}
	return node, nil
}

// LogValue implements [slog.LogValuer].
func (m *Map) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, m.Len())
	for k, v := range m.All() {
		attrs = append(attrs, slog.Any(k, logValue(v)))
	}
	return slog.GroupValue(attrs...)
}
