package uri

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"

	"braces.dev/errtrace"
	"github.com/miekg/dns"

	"github.com/ghettovoice/rfc3986/internal/constraints"
	"github.com/ghettovoice/rfc3986/internal/grammar"
	"github.com/ghettovoice/rfc3986/internal/ioutil"
	"github.com/ghettovoice/rfc3986/internal/util"
)

// UserInfo is the user name and optional password of an [Authority].
type UserInfo struct {
	name   string
	passwd Secret
}

// User returns a [UserInfo] containing the provided name and no password.
func User(name string) UserInfo {
	return UserInfo{name: name}
}

// UserPassword returns a [UserInfo] containing the provided name and password.
func UserPassword(name, passwd string) UserInfo {
	return UserInfo{name: name, passwd: NewSecret(passwd)}
}

// UserSecret is like [UserPassword] but takes the password as a [Secret].
func UserSecret(name string, passwd Secret) UserInfo {
	return UserInfo{name: name, passwd: passwd}
}

// Username returns the user name.
func (ui UserInfo) Username() string { return ui.name }

// Password returns the password, in case it is set, and a bool flag indicating whether it is set.
func (ui UserInfo) Password() (Secret, bool) { return ui.passwd, ui.passwd != nil }

// IsZero checks whether the UserInfo is empty.
func (ui UserInfo) IsZero() bool { return ui.name == "" && ui.passwd == nil }

// Equal compares user names and revealed passwords.
func (ui UserInfo) Equal(val any) bool {
	var other UserInfo
	switch v := val.(type) {
	case UserInfo:
		other = v
	case *UserInfo:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return ui.name == other.name &&
		(ui.passwd == nil) == (other.passwd == nil) &&
		reveal(ui.passwd) == reveal(other.passwd)
}

func shouldEscapeUserChar(c byte) bool {
	return !grammar.IsUnreserved(c) && !grammar.IsSubDelim(c)
}

func (ui UserInfo) renderTo(w io.Writer, mask bool) (int, error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Fprint(grammar.EscapeAll(ui.name, shouldEscapeUserChar))
	if ui.passwd != nil {
		if mask {
			cw.Fprint(":", SecretMask)
		} else {
			cw.Fprint(":", grammar.EscapeAll(ui.passwd.Reveal(), shouldEscapeUserChar))
		}
	}
	return errtrace.Wrap2(cw.Result())
}

// Authority is an immutable "[user[:password]@]host[:port]" component of a hierarchical URI.
type Authority struct {
	host    string
	port    uint16
	hasPort bool
	user    UserInfo
}

// EmptyAuthority is the zero-length authority of URIs like "file:///etc/hosts".
var EmptyAuthority = &Authority{}

// NewAuthority returns an authority with the given host and no port or user.
// IP-literal hosts are expected with brackets, e.g. "[::1]".
func NewAuthority(host string) *Authority {
	return &Authority{host: host}
}

// ParseAuthority parses an authority from the given input s (string or []byte).
//
// The last "@" separates the user info, which is split on the first ":" into user name and password.
// Both are percent-decoded. The host is either a bracketed IP literal kept verbatim or a reg-name.
// The port must be a number in range 1-65535.
func ParseAuthority[T constraints.Byteseq](s T) (*Authority, error) {
	str := string(s)
	if str == "" {
		return nil, errtrace.Wrap(errEmptyInput)
	}

	a := &Authority{}
	hostport := str
	if i := strings.LastIndexByte(str, '@'); i >= 0 {
		name, passwd, hasPasswd := strings.Cut(str[:i], ":")
		if name == "" {
			return nil, errtrace.Wrap(newMalformedError("authority %q malformed", str))
		}
		a.user.name = grammar.Unescape(name)
		if hasPasswd {
			a.user.passwd = NewSecret(grammar.Unescape(passwd))
		}
		hostport = str[i+1:]
	}

	var (
		portStr string
		hasPort bool
	)
	if strings.HasPrefix(hostport, "[") {
		end := strings.IndexByte(hostport, ']')
		if end < 0 || !grammar.IsIPLiteral(hostport[:end+1]) {
			return nil, errtrace.Wrap(newMalformedError("authority %q malformed", str))
		}
		a.host = hostport[:end+1]
		switch rest := hostport[end+1:]; {
		case rest == "":
		case rest[0] == ':':
			portStr, hasPort = rest[1:], true
		default:
			return nil, errtrace.Wrap(newMalformedError("authority %q malformed", str))
		}
	} else {
		a.host = hostport
		if i := strings.LastIndexByte(hostport, ':'); i >= 0 {
			a.host, portStr, hasPort = hostport[:i], hostport[i+1:], true
		}
		if !grammar.IsRegName(a.host) {
			return nil, errtrace.Wrap(newMalformedError("authority %q malformed", str))
		}
	}

	if hasPort {
		if !grammar.IsPort(portStr) {
			return nil, errtrace.Wrap(newMalformedError("authority %q malformed", str))
		}
		port, err := strconv.ParseUint(portStr, 10, 16)
		if err != nil || port == 0 {
			return nil, errtrace.Wrap(newMalformedError("authority %q malformed: port out of range", str))
		}
		a.port, a.hasPort = uint16(port), true
	}
	return a, nil
}

// Host returns the host as parsed or constructed, IP literals keep their brackets.
func (a *Authority) Host() string {
	if a == nil {
		return ""
	}
	return a.host
}

// Port returns the port, in case it is set, and a bool flag indicating whether it is set.
func (a *Authority) Port() (uint16, bool) {
	if a == nil {
		return 0, false
	}
	return a.port, a.hasPort
}

// User returns the user info.
func (a *Authority) User() UserInfo {
	if a == nil {
		return UserInfo{}
	}
	return a.user
}

// IsEmpty reports whether the authority has no host, port and user.
func (a *Authority) IsEmpty() bool {
	return a == nil || a.host == "" && !a.hasPort && a.user.IsZero()
}

// WithPort returns a copy of the authority with the port set.
func (a *Authority) WithPort(port uint16) *Authority {
	a2 := a.Clone()
	a2.port, a2.hasPort = port, true
	return a2
}

// WithoutPort returns a copy of the authority without port.
func (a *Authority) WithoutPort() *Authority {
	a2 := a.Clone()
	a2.port, a2.hasPort = 0, false
	return a2
}

// WithUser returns a copy of the authority with the user info set.
func (a *Authority) WithUser(ui UserInfo) *Authority {
	a2 := a.Clone()
	a2.user = ui
	return a2
}

// WithoutUser returns a copy of the authority without user info.
func (a *Authority) WithoutUser() *Authority {
	a2 := a.Clone()
	a2.user = UserInfo{}
	return a2
}

// Clone returns a copy of the authority. Nil authority is cloned into an empty one.
func (a *Authority) Clone() *Authority {
	if a == nil {
		return &Authority{}
	}
	a2 := *a
	return &a2
}

// IsValid reports whether the authority has a syntactically valid host and port.
// Reg-name hosts must also be valid domain names.
func (a *Authority) IsValid() bool {
	if a == nil {
		return false
	}
	if a.hasPort && a.port == 0 {
		return false
	}
	if a.host == "" {
		return a.user.IsZero() && !a.hasPort
	}
	if !grammar.IsHost(a.host) {
		return false
	}
	if a.host[0] == '[' || net.ParseIP(a.host) != nil {
		return true
	}
	_, ok := dns.IsDomainName(grammar.Unescape(a.host))
	return ok
}

// Equal compares the authority with another one.
// Hosts are compared case-insensitively, passwords by revealed value.
func (a *Authority) Equal(val any) bool {
	var other *Authority
	switch v := val.(type) {
	case Authority:
		other = &v
	case *Authority:
		other = v
	default:
		return false
	}

	if a == other {
		return true
	} else if a == nil || other == nil {
		return false
	}

	return util.EqFold(a.host, other.host) &&
		a.port == other.port &&
		a.hasPort == other.hasPort &&
		a.user.Equal(other.user)
}

// Compare orders authorities by their revealed string form.
func (a *Authority) Compare(other *Authority) int {
	return strings.Compare(a.String(), other.String())
}

// RenderTo writes the authority to w. The password is masked when opts.MaskSecrets is set.
func (a *Authority) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if a == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	if !a.user.IsZero() {
		mask := opts.ShouldMask()
		cw.Call(func(w io.Writer) (int, error) { return a.user.renderTo(w, mask) })
		cw.Fprint("@")
	}
	cw.Fprint(a.host)
	if a.hasPort {
		cw.Fprint(":", strconv.FormatUint(uint64(a.port), 10))
	}
	return errtrace.Wrap2(cw.Result())
}

// Render returns the string representation of the authority.
func (a *Authority) Render(opts *RenderOptions) string {
	if a == nil {
		return ""
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	a.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

// String returns the authority with the password revealed.
func (a *Authority) String() string {
	if a == nil {
		return ""
	}
	return a.Render(nil)
}

// Format implements [fmt.Formatter].
// Verbs "%s" and "%q" reveal the password, "%+v" and "%#v" mask it.
func (a *Authority) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, a.String())
	case 'q':
		fmt.Fprint(f, strconv.Quote(a.String()))
	case 'v':
		switch {
		case f.Flag('#'):
			fmt.Fprintf(f, "uri.Authority(%q)", a.Render(maskOpts))
		case f.Flag('+'):
			fmt.Fprint(f, a.Render(maskOpts))
		default:
			fmt.Fprint(f, a.String())
		}
	default:
		fmt.Fprintf(f, "%%!%c(uri.Authority=%s)", verb, a.Render(maskOpts))
	}
}

// LogValue implements [slog.LogValuer], the password is masked.
func (a *Authority) LogValue() slog.Value {
	return slog.StringValue(a.Render(maskOpts))
}

// MarshalText implements [encoding.TextMarshaler].
func (a *Authority) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
// Empty text is decoded into an empty authority.
func (a *Authority) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*a = Authority{}
		return nil
	}
	a1, err := ParseAuthority(text)
	if err != nil {
		*a = Authority{}
		return errtrace.Wrap(err)
	}
	*a = *a1
	return nil
}
