package uri

import (
	"bytes"
	"strings"

	"github.com/ghettovoice/rfc3986/internal/grammar"
	"github.com/ghettovoice/rfc3986/internal/syncutil"
	"github.com/ghettovoice/rfc3986/internal/util"
)

var defPorts = syncutil.NewRWMap(map[string]uint16{
	"http":  80,
	"https": 443,
	"ws":    80,
	"wss":   443,
	"ftp":   21,
})

// RegisterDefaultPort registers the well-known port of scheme,
// [URI.Canonicalize] drops it from authorities.
func RegisterDefaultPort(scheme string, port uint16) {
	defPorts.Set(util.LCase(scheme), port)
}

// DefaultPort returns the well-known port of scheme.
func DefaultPort(scheme string) (uint16, bool) {
	return defPorts.Get(util.LCase(scheme))
}

// NormalizeEscapes upper-cases percent-encoded sequences
// and decodes those that encode unreserved characters.
func NormalizeEscapes(s string) string {
	if strings.IndexByte(s, '%') < 0 {
		return s
	}

	var b bytes.Buffer
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && grammar.IsHex(s[i+1]) && grammar.IsHex(s[i+2]) {
			c := grammar.Unhex(s[i+1])<<4 | grammar.Unhex(s[i+2])
			if grammar.IsUnreserved(c) {
				b.WriteByte(c)
			} else {
				b.WriteByte('%')
				b.WriteByte(grammar.UpperHex[c>>4])
				b.WriteByte(grammar.UpperHex[c&15])
			}
			i += 2
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// RemoveDotSegments normalizes escapes of path, collapses runs of "/"
// and removes "." and ".." segments as RFC 3986 Section 5.2.4 describes.
// An empty path, and a path made only of dot segments, becomes "/".
func RemoveDotSegments(path string) string {
	if path == "" {
		return "/"
	}

	in := collapseSlashes(NormalizeEscapes(path))
	out := make([]byte, 0, len(in))
	for in != "" {
		switch {
		case strings.HasPrefix(in, "../"):
			in = in[3:]
		case strings.HasPrefix(in, "./"):
			in = in[2:]
		case strings.HasPrefix(in, "/./"):
			in = in[2:]
		case in == "/.":
			in = "/"
		case strings.HasPrefix(in, "/../"):
			in = in[3:]
			out = trimLastSegment(out)
		case in == "/..":
			in = "/"
			out = trimLastSegment(out)
		case in == "." || in == "..":
			in = ""
		default:
			end := strings.IndexByte(in[1:], '/') + 1
			if end == 0 {
				end = len(in)
			}
			out = append(out, in[:end]...)
			in = in[end:]
		}
	}
	if len(out) == 0 {
		return "/"
	}
	return string(out)
}

func collapseSlashes(s string) string {
	if !strings.Contains(s, "//") {
		return s
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	for i := 0; i < len(s); i++ {
		if s[i] == '/' && i > 0 && s[i-1] == '/' {
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

func trimLastSegment(out []byte) []byte {
	if i := bytes.LastIndexByte(out, '/'); i >= 0 {
		return out[:i]
	}
	return out[:0]
}

// Canonicalize returns a canonical copy of the URI.
//
// The scheme is lower-cased and stripped of a "+" qualifier ("https+v3" becomes "https"),
// the host is lower-cased, the default port of the scheme is dropped.
// The path escapes are normalized and dot segments removed, an absent path becomes "/".
// Query and fragment escapes are normalized.
func (u *URI) Canonicalize() *URI {
	if u == nil {
		return nil
	}

	c := u.clone()
	if c.scheme != "" {
		c.scheme = util.LCase(c.scheme)
		if i := strings.IndexByte(c.scheme, '+'); i >= 0 {
			c.scheme = c.scheme[:i]
		}
	}
	if a := c.authority; a != nil {
		a = a.Clone()
		a.host = util.LCase(a.host)
		if port, ok := a.Port(); ok {
			if def, ok := DefaultPort(c.scheme); ok && def == port {
				a.port, a.hasPort = 0, false
			}
		}
		c.authority = a
	}
	c.path = RemoveDotSegments(c.path)
	if c.hasQuery {
		c.query = NormalizeEscapes(c.query)
	}
	if c.hasFrag {
		c.fragment = NormalizeEscapes(c.fragment)
	}
	return c
}
