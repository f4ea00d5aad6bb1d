package uri

import (
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/rfc3986/internal/errorutil"
	"github.com/ghettovoice/rfc3986/internal/grammar"
	"github.com/ghettovoice/rfc3986/internal/util"
)

func shouldEscapeFileChar(c byte) bool {
	return !grammar.IsUnreserved(c) && !grammar.IsSubDelim(c) && c != ':' && c != '@' && c != '/'
}

// isDrivePath reports whether p starts with a drive letter like "C:/" or is exactly "C:".
func isDrivePath(p string) bool {
	if len(p) < 2 || p[1] != ':' || len(p) > 2 && p[2] != '/' {
		return false
	}
	c := p[0] | 0x20
	return 'a' <= c && c <= 'z'
}

// File returns a "file" URI for the local path.
//
// Backslashes are treated as separators. UNC paths "//host/share" keep the host in the authority,
// absolute paths and drive paths ("C:/dir" becomes "/C:/dir") get an empty authority,
// relative paths produce an opaque URI like "file:dir/name".
func File(path string) *URI {
	p := strings.ReplaceAll(path, `\`, "/")
	u := &URI{scheme: "file"}
	switch {
	case strings.HasPrefix(p, "//"):
		rest := p[2:]
		end := strings.IndexByte(rest, '/')
		if end < 0 {
			end = len(rest)
		}
		u.authority = NewAuthority(rest[:end])
		u.path = grammar.EscapeAll(rest[end:], shouldEscapeFileChar)
	case strings.HasPrefix(p, "/"):
		u.authority = EmptyAuthority
		u.path = grammar.EscapeAll(p, shouldEscapeFileChar)
	case isDrivePath(p):
		u.authority = EmptyAuthority
		u.path = "/" + grammar.EscapeAll(p, shouldEscapeFileChar)
	case p == "":
		u.path = "."
	default:
		u.path = grammar.EscapeAll(p, shouldEscapeFileChar)
	}
	return u
}

// FilePath returns the local path of a "file" URI or a relative reference.
// Hosts other than "localhost" are returned as UNC paths "//host/path".
// Forward slashes are used as separators.
func (u *URI) FilePath() (string, error) {
	if u == nil {
		return "", errtrace.Wrap(errorutil.NewInvalidStateError("nil URI"))
	}
	if u.scheme != "" && !util.EqFold(u.scheme, "file") {
		return "", errtrace.Wrap(errorutil.NewInvalidStateError("%q is not a file URI", u.Render(maskOpts)))
	}

	path := grammar.Unescape(u.path)
	if host := u.Host(); host != "" && !util.EqFold(host, "localhost") {
		return "//" + host + path, nil
	}
	if u.authority != nil && strings.HasPrefix(path, "/") && isDrivePath(path[1:]) {
		return path[1:], nil
	}
	if u.authority != nil && path == "" {
		return "/", nil
	}
	return path, nil
}
