// Package params decodes and encodes query strings with nested bracket notation,
// e.g. "a[b][]=v", into insertion-ordered value trees.
package params

//go:generate go tool errtrace -w .

import (
	"log/slog"
	"strconv"
)

// Value is a node of a decoded parameter tree.
// It is implemented by [String], [List] and [*Map].
type Value interface {
	// CloneValue returns a deep copy of the value.
	CloneValue() Value
	// EqualValue reports whether the value is equal to v.
	EqualValue(v Value) bool

	param()
}

// String is a scalar parameter value.
type String string

func (String) param() {}

// CloneValue implements [Value].
func (s String) CloneValue() Value { return s }

// EqualValue implements [Value].
func (s String) EqualValue(v Value) bool {
	o, ok := v.(String)
	return ok && s == o
}

func (s String) String() string { return string(s) }

// List is a positional parameter value, produced by "a[]=x" notation.
type List []Value

func (List) param() {}

// CloneValue implements [Value].
func (l List) CloneValue() Value { return l.Clone() }

// Clone returns a deep copy of the list.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	l2 := make(List, len(l))
	for i, v := range l {
		l2[i] = cloneValue(v)
	}
	return l2
}

// EqualValue implements [Value].
func (l List) EqualValue(v Value) bool {
	o, ok := v.(List)
	if !ok || len(l) != len(o) {
		return false
	}
	for i := range l {
		if !equalValue(l[i], o[i]) {
			return false
		}
	}
	return true
}

// LogValue implements [slog.LogValuer].
func (l List) LogValue() slog.Value {
	attrs := make([]slog.Attr, len(l))
	for i, v := range l {
		attrs[i] = slog.Any(strconv.Itoa(i), logValue(v))
	}
	return slog.GroupValue(attrs...)
}

func cloneValue(v Value) Value {
	if v == nil {
		return nil
	}
	return v.CloneValue()
}

func equalValue(v1, v2 Value) bool {
	if v1 == nil || v2 == nil {
		return v1 == v2
	}
	return v1.EqualValue(v2)
}

func logValue(v Value) any {
	switch v := v.(type) {
	case String:
		return string(v)
	case nil:
		return ""
	default:
		return v
	}
}
