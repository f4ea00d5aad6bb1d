package params

import (
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/rfc3986/internal/errorutil"
	"github.com/ghettovoice/rfc3986/internal/grammar"
	"github.com/ghettovoice/rfc3986/internal/util"
)

// DefaultMaxNesting is the bracket nesting depth allowed by [Decode] when no limit is set.
const DefaultMaxNesting = 64

// DecodeOptions configures [Decode].
type DecodeOptions struct {
	// MaxNesting limits the number of bracket groups in a single key.
	// Zero means [DefaultMaxNesting].
	MaxNesting int `json:"max_nesting,omitempty"`
}

func (opts *DecodeOptions) maxNesting() int {
	if opts == nil || opts.MaxNesting <= 0 {
		return DefaultMaxNesting
	}
	return opts.MaxNesting
}

// Decode parses a query string into a parameter tree.
//
// Pairs are separated by "&" and split on the first "=". Empty pairs and pairs
// with an empty name are skipped, a missing value decodes to an empty string.
// Names and values are form-decoded ("+" is a space). A name followed by bracket
// groups builds nested values: "a[]" appends to a list, "a[b]" sets a keyed entry.
//
// Decode returns [ErrUnbalancedBrackets] for broken groups and
// [ErrNestingExceeded] when a name has more groups than allowed.
func Decode(query string, opts *DecodeOptions) (*Map, error) {
	maxLvl := opts.maxNesting()
	m := NewMap()
	for pair := range strings.SplitSeq(query, "&") {
		if pair == "" {
			continue
		}
		rawName, rawVal, _ := strings.Cut(pair, "=")
		name := grammar.UnescapeForm(rawName)
		if name == "" {
			continue
		}
		name, path, err := parseName(name, maxLvl)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		val := grammar.UnescapeForm(rawVal)
		if len(path) == 0 {
			m.Set(name, String(val))
			continue
		}
		cur, _ := m.Get(name)
		m.Set(name, assign(cur, path, val))
	}
	return m, nil
}

// parseName splits name like "a[b][]" into the base "a" and sub-keys ["b", ""].
func parseName(name string, maxLvl int) (string, []string, error) {
	if strings.Count(name, "[") != strings.Count(name, "]") {
		return "", nil, errtrace.Wrap(errorutil.NewWrapperError(ErrUnbalancedBrackets, "name %q", name))
	}
	i := strings.IndexByte(name, '[')
	if i <= 0 {
		return name, nil, nil
	}

	base, rest := name[:i], name[i:]
	var path []string
	for rest != "" {
		end := groupEnd(rest)
		if end < 0 {
			return "", nil, errtrace.Wrap(errorutil.NewWrapperError(ErrUnbalancedBrackets, "name %q", name))
		}
		if len(path) == maxLvl {
			return "", nil, errtrace.Wrap(errorutil.NewWrapperError(ErrNestingExceeded, "name %q deeper than %d", name, maxLvl))
		}
		path = append(path, rest[1:end])
		rest = rest[end+1:]
	}
	return base, path, nil
}

// groupEnd returns the index of the bracket closing the group that s starts with or -1.
func groupEnd(s string) int {
	if s == "" || s[0] != '[' {
		return -1
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// assign writes val at path below cur and returns the resulting value.
// Scalars on the way are replaced with containers.
func assign(cur Value, path []string, val string) Value {
	if len(path) == 0 {
		return String(val)
	}

	key, path := path[0], path[1:]
	switch c := cur.(type) {
	case List:
		if key == "" {
			return append(c, assign(nil, path, val))
		}
		if idx, ok := listIndex(key, len(c)); ok {
			if idx == len(c) {
				return append(c, assign(nil, path, val))
			}
			c[idx] = assign(c[idx], path, val)
			return c
		}
		m := listToMap(c)
		return m.Set(key, assign(nil, path, val))
	case *Map:
		if key == "" {
			key = nextIndex(c)
		}
		v, _ := c.Get(key)
		return c.Set(key, assign(v, path, val))
	default:
		if key == "" {
			return List{assign(nil, path, val)}
		}
		return NewMap().Set(key, assign(nil, path, val))
	}
}

// listIndex parses key as a position in a list of size n, allowing n for appending.
func listIndex(key string, n int) (int, bool) {
	idx, err := strconv.Atoi(key)
	if err != nil || idx < 0 || idx > n || strconv.Itoa(idx) != key {
		return 0, false
	}
	return idx, true
}

func listToMap(l List) *Map {
	m := NewMap()
	for i, v := range l {
		m.Set(strconv.Itoa(i), v)
	}
	return m
}

// nextIndex returns the key used to append to a keyed map: one past the largest integer key.
func nextIndex(m *Map) string {
	next := 0
	for k := range m.All() {
		if idx, err := strconv.Atoi(k); err == nil && idx >= next && strconv.Itoa(idx) == k {
			next = idx + 1
		}
	}
	return strconv.Itoa(next)
}

// Encode serializes the parameter tree as a query string.
// Empty values are written without "=", lists as "a[]=x", nested maps as "a[b]=x".
// A nil or empty map encodes to an empty string.
func Encode(m *Map) string {
	if m.Len() == 0 {
		return ""
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	for k, v := range m.All() {
		encodePair(sb, escape(k), v, "")
	}
	return strings.TrimPrefix(sb.String(), "&")
}

func encodePair(sb *strings.Builder, name string, v Value, offset string) {
	switch v := v.(type) {
	case List:
		for _, e := range v {
			encodePair(sb, name, e, offset+"[]")
		}
	case *Map:
		for k, e := range v.All() {
			encodePair(sb, name, e, offset+"["+escape(k)+"]")
		}
	case String:
		sb.WriteByte('&')
		sb.WriteString(name)
		sb.WriteString(offset)
		if v != "" {
			sb.WriteByte('=')
			sb.WriteString(escape(string(v)))
		}
	case nil:
		sb.WriteByte('&')
		sb.WriteString(name)
		sb.WriteString(offset)
	}
}

func escape(s string) string {
	return grammar.EscapeForm(s, shouldEscape)
}

func shouldEscape(c byte) bool {
	return !grammar.IsAlphanumChar(c) && c != '-' && c != '_' && c != '.'
}
