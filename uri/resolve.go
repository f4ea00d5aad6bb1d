package uri

import (
	"strings"

	"braces.dev/errtrace"
)

// Resolve resolves the reference ref against the URI as RFC 3986 Section 5.2.2 describes.
//
// A reference with a scheme is returned as is. The resulting path always has
// dot segments removed, so an absent path becomes "/".
func (u *URI) Resolve(ref *URI) *URI {
	if ref == nil {
		return u.Clone()
	}
	if ref.scheme != "" || u == nil {
		return ref
	}

	r := &URI{
		scheme:   u.scheme,
		fragment: ref.fragment,
		hasFrag:  ref.hasFrag,
	}
	if ref.authority != nil {
		r.authority = ref.authority
		r.path = ref.path
		r.query, r.hasQuery = ref.query, ref.hasQuery
	} else {
		r.authority = u.authority
		switch {
		case ref.path == "":
			r.path = u.path
			if ref.hasQuery {
				r.query, r.hasQuery = ref.query, true
			} else {
				r.query, r.hasQuery = u.query, u.hasQuery
			}
		case ref.path[0] == '/':
			r.path = ref.path
		case u.path == "":
			r.path = "/" + ref.path
		case strings.HasSuffix(u.path, "/"):
			r.path = u.path + ref.path
		default:
			r.path = u.path[:strings.LastIndexByte(u.path, '/')+1] + ref.path
		}
		if ref.path != "" {
			r.query, r.hasQuery = ref.query, ref.hasQuery
		}
	}
	r.path = RemoveDotSegments(r.path)
	return r
}

// ResolveString parses ref and resolves it against the URI.
// An empty ref is the same document reference.
func (u *URI) ResolveString(ref string) (*URI, error) {
	if ref == "" {
		return u.Resolve(&URI{}), nil
	}
	r, err := Parse(ref)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return u.Resolve(r), nil
}
