package uri

//go:generate go tool errtrace -w .

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"

	"braces.dev/errtrace"

	"github.com/ghettovoice/rfc3986/internal/constraints"
	"github.com/ghettovoice/rfc3986/internal/errorutil"
	"github.com/ghettovoice/rfc3986/internal/grammar"
	"github.com/ghettovoice/rfc3986/internal/ioutil"
	"github.com/ghettovoice/rfc3986/internal/types"
	"github.com/ghettovoice/rfc3986/internal/util"
	"github.com/ghettovoice/rfc3986/params"
)

// RenderOptions contains options for rendering URIs and authorities.
type RenderOptions = types.RenderOptions

var maskOpts = &RenderOptions{MaskSecrets: true}

// URI is an immutable RFC 3986 URI reference.
// Components are stored in the encoded form, decoded views are computed on read.
//
// URI values must not be copied, use [URI.Clone] or [URI.Builder] to derive new ones.
type URI struct {
	scheme    string
	authority *Authority
	path      string
	query     string
	hasQuery  bool
	fragment  string
	hasFrag   bool

	params atomic.Pointer[params.Map]
}

// Parse parses a URI reference from the given input s (string or []byte).
//
// A colon before any of "/", "?" and "#" separates the scheme, which must match
// ALPHA *( ALPHA / DIGIT / "+" / "-" / "." ). The rest is split into
// "//authority", path, "?query" and "#fragment". Bytes outside printable ASCII
// in path, query and fragment are percent-encoded. Authority bytes are never escaped,
// the host must already match the host rule, so "http://héllo/" is rejected
// while "http://h%C3%A9llo/" is accepted.
//
// A scheme followed by nothing, as in "http:", is rejected with [ErrMalformedInput].
func Parse[T constraints.Byteseq](s T) (*URI, error) {
	str := string(s)
	if str == "" {
		return nil, errtrace.Wrap(errEmptyInput)
	}

	u := &URI{}
	rest := str
	if i := util.IndexAny(str, ":/?#"); i < len(str) && str[i] == ':' {
		if !grammar.IsScheme(str[:i]) {
			return nil, errtrace.Wrap(newMalformedError("scheme %q malformed", str[:i]))
		}
		rest = str[i+1:]
		if rest == "" {
			return nil, errtrace.Wrap(newMalformedError("scheme-specific part missing in %q", str))
		}
		u.scheme = str[:i]
	}

	if strings.HasPrefix(rest, "//") {
		rest = rest[2:]
		end := util.IndexAny(rest, "/?#")
		if end == 0 {
			u.authority = EmptyAuthority
		} else {
			a, err := ParseAuthority(rest[:end])
			if err != nil {
				return nil, errtrace.Wrap(err)
			}
			u.authority = a
		}
		rest = rest[end:]
	}

	end := util.IndexAny(rest, "?#")
	u.path = escapeNonPrint(rest[:end])
	rest = rest[end:]
	if strings.HasPrefix(rest, "?") {
		end = strings.IndexByte(rest, '#')
		if end < 0 {
			end = len(rest)
		}
		u.query, u.hasQuery = escapeNonPrint(rest[1:end]), true
		rest = rest[end:]
	}
	if strings.HasPrefix(rest, "#") {
		u.fragment, u.hasFrag = escapeNonPrint(rest[1:]), true
	}
	return u, nil
}

// ParseRelative parses base and resolves ref against it.
func ParseRelative(base, ref string) (*URI, error) {
	u, err := Parse(base)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return errtrace.Wrap2(u.ResolveString(ref))
}

func shouldEscapeNonPrint(c byte) bool { return !grammar.IsPrintASCII(c) }

func escapeNonPrint(s string) string { return grammar.Escape(s, shouldEscapeNonPrint) }

// Scheme returns the scheme or an empty string for relative references.
func (u *URI) Scheme() string {
	if u == nil {
		return ""
	}
	return u.scheme
}

// IsRelative reports whether the URI is a relative reference, i.e. has no scheme.
func (u *URI) IsRelative() bool { return u.Scheme() == "" }

// IsOpaque reports whether the URI has no authority, e.g. "mailto:user@example.com".
func (u *URI) IsOpaque() bool { return u.Authority() == nil }

// Authority returns the authority or nil.
func (u *URI) Authority() *Authority {
	if u == nil {
		return nil
	}
	return u.authority
}

// Host returns the authority host.
func (u *URI) Host() string { return u.Authority().Host() }

// Port returns the authority port, in case it is set, and a bool flag indicating whether it is set.
func (u *URI) Port() (uint16, bool) { return u.Authority().Port() }

// User returns the authority user info.
func (u *URI) User() UserInfo { return u.Authority().User() }

// Password returns the authority password, in case it is set, and a bool flag indicating whether it is set.
func (u *URI) Password() (Secret, bool) { return u.User().Password() }

// Path returns the percent-decoded path. "+" is kept as is.
func (u *URI) Path() string { return grammar.Unescape(u.RawPath()) }

// RawPath returns the path in the encoded form.
func (u *URI) RawPath() string {
	if u == nil {
		return ""
	}
	return u.path
}

// HasQuery reports whether the URI has a query, possibly empty.
func (u *URI) HasQuery() bool { return u != nil && u.hasQuery }

// Query returns the form-decoded query. "+" is decoded as space.
func (u *URI) Query() string { return grammar.UnescapeForm(u.RawQuery()) }

// RawQuery returns the query in the encoded form without leading "?".
func (u *URI) RawQuery() string {
	if u == nil {
		return ""
	}
	return u.query
}

// HasFragment reports whether the URI has a fragment, possibly empty.
func (u *URI) HasFragment() bool { return u != nil && u.hasFrag }

// Fragment returns the form-decoded fragment. "+" is decoded as space.
func (u *URI) Fragment() string { return grammar.UnescapeForm(u.RawFragment()) }

// RawFragment returns the fragment in the encoded form without leading "#".
func (u *URI) RawFragment() string {
	if u == nil {
		return ""
	}
	return u.fragment
}

func (u *URI) paramMap() (*params.Map, error) {
	if m := u.params.Load(); m != nil {
		return m, nil
	}
	m, err := params.Decode(u.query, nil)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	u.params.Store(m)
	return m, nil
}

// Params decodes the raw query into a parameter map.
// The result is cached, callers always receive a copy they are free to modify.
func (u *URI) Params() (*params.Map, error) {
	if u == nil {
		return params.NewMap(), nil
	}
	m, err := u.paramMap()
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return m.Clone(), nil
}

// Param returns a copy of the query parameter value stored under name.
// It returns false when the parameter is missing or the query can not be decoded.
func (u *URI) Param(name string) (params.Value, bool) {
	if u == nil {
		return nil, false
	}
	m, err := u.paramMap()
	if err != nil {
		return nil, false
	}
	v, ok := m.Get(name)
	if !ok {
		return nil, false
	}
	return v.CloneValue(), true
}

// clone copies components without the params cache.
func (u *URI) clone() *URI {
	return &URI{
		scheme:    u.scheme,
		authority: u.authority,
		path:      u.path,
		query:     u.query,
		hasQuery:  u.hasQuery,
		fragment:  u.fragment,
		hasFrag:   u.hasFrag,
	}
}

// Clone returns a copy of the URI.
func (u *URI) Clone() *URI {
	if u == nil {
		return nil
	}
	u2 := u.clone()
	u2.params.Store(u.params.Load())
	return u2
}

// Base returns the scheme and authority of a hierarchical URI
// or the scheme and path of an opaque one.
func (u *URI) Base() (*URI, error) {
	if u.IsRelative() {
		return nil, errtrace.Wrap(errorutil.NewInvalidStateError("relative reference %q has no base", u.Render(maskOpts)))
	}
	if u.authority != nil {
		return &URI{scheme: u.scheme, authority: u.authority}, nil
	}
	return &URI{scheme: u.scheme, path: u.path}, nil
}

// Anonymous returns a copy of the URI without user info.
func (u *URI) Anonymous() *URI {
	if u == nil {
		return nil
	}
	u2 := u.Clone()
	if u.authority != nil && !u.authority.user.IsZero() {
		u2.authority = u.authority.WithoutUser()
	}
	return u2
}

// WithUser returns a copy of the URI with the user name set and no password.
// Opaque URIs are returned unchanged.
func (u *URI) WithUser(name string) *URI {
	return u.withUser(User(name))
}

// WithUserPassword returns a copy of the URI with the user name and password set.
// Opaque URIs are returned unchanged.
func (u *URI) WithUserPassword(name, passwd string) *URI {
	return u.withUser(UserPassword(name, passwd))
}

func (u *URI) withUser(ui UserInfo) *URI {
	if u == nil {
		return nil
	}
	u2 := u.Clone()
	if u.authority != nil {
		u2.authority = u.authority.WithUser(ui)
	}
	return u2
}

// IsValid reports whether the URI authority, if any, is valid.
func (u *URI) IsValid() bool {
	return u != nil && (u.authority == nil || u.authority.IsValid())
}

// RenderTo writes the URI to w. The password is masked when opts.MaskSecrets is set.
func (u *URI) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if u == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	if u.scheme != "" {
		cw.Fprint(u.scheme, ":")
	}
	if u.authority != nil {
		cw.Fprint("//")
		cw.Call(func(w io.Writer) (int, error) { return u.authority.RenderTo(w, opts) })
	}
	cw.Fprint(u.path)
	if u.hasQuery {
		cw.Fprint("?", u.query)
	}
	if u.hasFrag {
		cw.Fprint("#", u.fragment)
	}
	return errtrace.Wrap2(cw.Result())
}

// Render returns the string representation of the URI.
func (u *URI) Render(opts *RenderOptions) string {
	if u == nil {
		return ""
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	u.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

// String returns the URI with the password revealed.
func (u *URI) String() string {
	if u == nil {
		return ""
	}
	return u.Render(nil)
}

// Format implements [fmt.Formatter].
// Verbs "%s" and "%q" reveal the password, "%+v" and "%#v" mask it.
func (u *URI) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, u.String())
	case 'q':
		fmt.Fprint(f, strconv.Quote(u.String()))
	case 'v':
		switch {
		case f.Flag('#'):
			fmt.Fprintf(f, "uri.URI(%q)", u.Render(maskOpts))
		case f.Flag('+'):
			fmt.Fprint(f, u.Render(maskOpts))
		default:
			fmt.Fprint(f, u.String())
		}
	default:
		fmt.Fprintf(f, "%%!%c(uri.URI=%s)", verb, u.Render(maskOpts))
	}
}

// LogValue implements [slog.LogValuer], the password is masked.
func (u *URI) LogValue() slog.Value {
	return slog.StringValue(u.Render(maskOpts))
}

// Equal reports whether val is a URI with the same revealed string form.
func (u *URI) Equal(val any) bool {
	other, ok := val.(*URI)
	if !ok {
		return false
	}
	if u == other {
		return true
	} else if u == nil || other == nil {
		return false
	}
	return u.String() == other.String()
}

// Compare orders URIs by their revealed string form.
func (u *URI) Compare(other *URI) int {
	return strings.Compare(u.String(), other.String())
}

// MarshalText implements [encoding.TextMarshaler].
func (u *URI) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (u *URI) UnmarshalText(text []byte) error {
	u1, err := Parse(text)
	if err != nil {
		u.set(&URI{})
		return errtrace.Wrap(err)
	}
	u.set(u1)
	return nil
}

func (u *URI) set(src *URI) {
	u.scheme = src.scheme
	u.authority = src.authority
	u.path = src.path
	u.query, u.hasQuery = src.query, src.hasQuery
	u.fragment, u.hasFrag = src.fragment, src.hasFrag
	u.params.Store(nil)
}
