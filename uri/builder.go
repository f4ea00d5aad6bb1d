package uri

import (
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/rfc3986/internal/errorutil"
	"github.com/ghettovoice/rfc3986/internal/grammar"
	"github.com/ghettovoice/rfc3986/params"
)

type override[T any] struct {
	val T
	set bool
	del bool
}

func (o *override[T]) put(v T) {
	*o = override[T]{val: v, set: true}
}

func (o *override[T]) remove() {
	*o = override[T]{del: true}
}

// Builder accumulates URI components and produces a new [URI].
// Pending host, port, user and password are merged over the authority on [Builder.Build].
// A Builder must not be used concurrently.
type Builder struct {
	scheme    string
	authority *Authority
	authErr   error

	host   override[string]
	port   override[uint16]
	user   override[string]
	passwd override[Secret]

	path     string
	query    string
	hasQuery bool
	fragment string
	hasFrag  bool

	params    *params.Map
	paramsSet bool
	paramsErr error
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Builder returns a builder holding the raw components of the URI.
func (u *URI) Builder() *Builder {
	if u == nil {
		return NewBuilder()
	}
	return &Builder{
		scheme:    u.scheme,
		authority: u.authority,
		path:      u.path,
		query:     u.query,
		hasQuery:  u.hasQuery,
		fragment:  u.fragment,
		hasFrag:   u.hasFrag,
	}
}

// FromBuilder builds a URI from b. It is the same as b.Build().
func FromBuilder(b *Builder) (*URI, error) {
	return errtrace.Wrap2(b.Build())
}

func (b *Builder) SetScheme(scheme string) *Builder {
	b.scheme = scheme

	return b
}

// SetAuthority replaces the authority and drops pending host, port, user and password.
// Nil removes the authority.
func (b *Builder) SetAuthority(a *Authority) *Builder {
	b.authority = a
	b.authErr = nil
	b.host, b.port, b.user, b.passwd = override[string]{}, override[uint16]{}, override[string]{}, override[Secret]{}

	return b
}

// SetAuthorityString is like [Builder.SetAuthority] but parses s first.
// A parse error is returned by [Builder.Build].
func (b *Builder) SetAuthorityString(s string) *Builder {
	if s == "" {
		return b.SetAuthority(EmptyAuthority)
	}
	a, err := ParseAuthority(s)
	b.SetAuthority(a)
	b.authErr = err

	return b
}

func (b *Builder) SetHost(host string) *Builder {
	b.host.put(host)

	return b
}

func (b *Builder) SetPort(port uint16) *Builder {
	b.port.put(port)

	return b
}

func (b *Builder) RemovePort() *Builder {
	b.port.remove()

	return b
}

func (b *Builder) SetUser(name string) *Builder {
	b.user.put(name)

	return b
}

// RemoveUser removes the user name together with the password.
func (b *Builder) RemoveUser() *Builder {
	b.user.remove()
	b.passwd.remove()

	return b
}

func (b *Builder) SetPassword(passwd string) *Builder {
	return b.SetPasswordSecret(NewSecret(passwd))
}

func (b *Builder) SetPasswordSecret(passwd Secret) *Builder {
	b.passwd.put(passwd)

	return b
}

func (b *Builder) RemovePassword() *Builder {
	b.passwd.remove()

	return b
}

func shouldEscapePathChar(c byte) bool {
	return !grammar.IsUnreserved(c) && c != '@' && c != '+' && c != '/' && c != ':'
}

func shouldEscapeQueryChar(c byte) bool {
	return !grammar.IsUnreserved(c) && c != '&' && c != '='
}

// SetPath sets the decoded path, everything but unreserved characters and "@+/:" is percent-encoded.
func (b *Builder) SetPath(path string) *Builder {
	b.path = grammar.EscapeAll(path, shouldEscapePathChar)

	return b
}

// SetRawPath sets the path as is.
func (b *Builder) SetRawPath(path string) *Builder {
	b.path = path

	return b
}

// SetPathSegments joins segments with exactly one "/" between them
// regardless of slashes the segments start or end with. Each segment is encoded as in [Builder.SetPath].
// No segments remove the path.
func (b *Builder) SetPathSegments(segs ...string) *Builder {
	var path string
	for _, seg := range segs {
		path = strings.TrimRight(path, "/") + "/" + grammar.EscapeAll(strings.TrimLeft(seg, "/"), shouldEscapePathChar)
	}
	b.path = path

	return b
}

func (b *Builder) RemovePath() *Builder {
	b.path = ""

	return b
}

// SetQuery sets the decoded query, everything but unreserved characters and "&=" is percent-encoded,
// spaces are written as "+".
func (b *Builder) SetQuery(query string) *Builder {
	return b.SetRawQuery(grammar.EscapeForm(query, shouldEscapeQueryChar))
}

// SetRawQuery sets the query as is.
func (b *Builder) SetRawQuery(query string) *Builder {
	b.query, b.hasQuery = query, true
	b.resetParams()

	return b
}

func (b *Builder) RemoveQuery() *Builder {
	b.query, b.hasQuery = "", false
	b.resetParams()

	return b
}

// SetFragment sets the decoded fragment, encoded as in [Builder.SetQuery].
func (b *Builder) SetFragment(fragment string) *Builder {
	return b.SetRawFragment(grammar.EscapeForm(fragment, shouldEscapeQueryChar))
}

// SetRawFragment sets the fragment as is.
func (b *Builder) SetRawFragment(fragment string) *Builder {
	b.fragment, b.hasFrag = fragment, true

	return b
}

func (b *Builder) RemoveFragment() *Builder {
	b.fragment, b.hasFrag = "", false

	return b
}

// SetParams replaces the query with encoded m. Nil or empty m removes the query.
func (b *Builder) SetParams(m *params.Map) *Builder {
	if m == nil {
		m = params.NewMap()
	}
	b.params = m.Clone()
	b.paramsSet = true
	b.paramsErr = nil

	return b
}

// SetParam sets a single query parameter. The current query is decoded first.
func (b *Builder) SetParam(name string, v params.Value) *Builder {
	b.loadParams().Set(name, v)

	return b
}

// RemoveParam removes a single query parameter. The current query is decoded first.
func (b *Builder) RemoveParam(name string) *Builder {
	b.loadParams().Delete(name)

	return b
}

func (b *Builder) loadParams() *params.Map {
	if !b.paramsSet {
		b.params = params.NewMap()
		b.paramsSet = true
		if b.hasQuery {
			m, err := params.Decode(b.query, nil)
			if err != nil {
				b.paramsErr = err
			} else {
				b.params = m
			}
		}
	}
	return b.params
}

func (b *Builder) resetParams() {
	b.params, b.paramsSet, b.paramsErr = nil, false, nil
}

func (b *Builder) hasAuthorityChanges() bool {
	return b.host.set || b.port.set || b.port.del ||
		b.user.set || b.user.del || b.passwd.set || b.passwd.del
}

func (b *Builder) buildAuthority() (*Authority, error) {
	if !b.hasAuthorityChanges() {
		if err := checkHost(b.authority); err != nil {
			return nil, errtrace.Wrap(err)
		}
		return b.authority, nil
	}

	a := b.authority.Clone()
	if b.host.set {
		a.host = b.host.val
	}
	switch {
	case b.port.set:
		a.port, a.hasPort = b.port.val, true
	case b.port.del:
		a.port, a.hasPort = 0, false
	}
	switch {
	case b.user.set:
		a.user.name = b.user.val
	case b.user.del:
		a.user = UserInfo{}
	}
	switch {
	case b.passwd.set:
		a.user.passwd = b.passwd.val
	case b.passwd.del:
		a.user.passwd = nil
	}

	if a.user.name == "" && a.user.passwd != nil {
		return nil, errtrace.Wrap(errorutil.NewInvalidStateError("password is set without user"))
	}
	if a.host == "" && !a.IsEmpty() {
		return nil, errtrace.Wrap(errorutil.NewInvalidStateError("authority %q has no host", a.Render(maskOpts)))
	}
	if err := checkHost(a); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return a, nil
}

func checkHost(a *Authority) error {
	if a == nil || a.host == "" || grammar.IsHost(a.host) {
		return nil
	}
	return errtrace.Wrap(newMalformedError("host %q malformed", a.host))
}

// Build produces the URI.
//
// Pending host, port, user and password override the fields of the authority set before.
// Parameters set with [Builder.SetParams], [Builder.SetParam] or [Builder.RemoveParam]
// replace the query, an empty parameter map removes it.
//
// Build returns [ErrInvalidState] when no scheme is set or neither authority nor path is set,
// and [ErrMalformedInput] when the scheme or the host does not match the URI grammar.
func (b *Builder) Build() (*URI, error) {
	if b == nil {
		return nil, errtrace.Wrap(errorutil.NewInvalidStateError("nil builder"))
	}
	if b.authErr != nil {
		return nil, errtrace.Wrap(b.authErr)
	}
	if b.paramsErr != nil {
		return nil, errtrace.Wrap(b.paramsErr)
	}
	if b.scheme == "" {
		return nil, errtrace.Wrap(errorutil.NewInvalidStateError("scheme is not set"))
	}
	if !grammar.IsScheme(b.scheme) {
		return nil, errtrace.Wrap(newMalformedError("scheme %q malformed", b.scheme))
	}

	a, err := b.buildAuthority()
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	if a == nil && b.path == "" {
		return nil, errtrace.Wrap(errorutil.NewInvalidStateError("neither authority nor path is set"))
	}

	u := &URI{
		scheme:    b.scheme,
		authority: a,
		path:      b.path,
		query:     b.query,
		hasQuery:  b.hasQuery,
		fragment:  b.fragment,
		hasFrag:   b.hasFrag,
	}
	if a != nil && u.path != "" && u.path[0] != '/' {
		u.path = "/" + u.path
	}
	if b.paramsSet {
		u.query = params.Encode(b.params)
		u.hasQuery = u.query != ""
	}
	return u, nil
}
