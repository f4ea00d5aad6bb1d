package uri_test

import (
	"testing"

	fredburi "github.com/fredbi/uri"

	"github.com/ghettovoice/rfc3986/uri"
)

// Inputs are cross-checked against an independent RFC 3986 validator.

func TestParse_Conformance(t *testing.T) {
	t.Parallel()

	valid := []string{
		"ftp://ftp.is.co.za/rfc/rfc1808.txt",
		"http://www.ietf.org/rfc/rfc2396.txt",
		"ldap://[2001:db8::7]/c=GB?objectClass?one",
		"mailto:John.Doe@example.com",
		"news:comp.infosystems.www.servers.unix",
		"tel:+1-816-555-1212",
		"telnet://192.0.2.16:80/",
		"urn:oasis:names:specification:docbook:dtd:xml:4.1.2",
		"http://example.com/over/there?name=ferret#nose",
		"https://user@example.com:8443/a/b;c=d?e=f&g=h#i",
	}
	for _, in := range valid {
		t.Run(in, func(t *testing.T) {
			t.Parallel()

			ref, err := fredburi.Parse(in)
			if err != nil {
				t.Fatalf("reference validator rejects %q: %v", in, err)
			}
			u, err := uri.Parse(in)
			if err != nil {
				t.Fatalf("uri.Parse(%q) error = %v, want nil", in, err)
			}
			if got, want := u.Scheme(), ref.Scheme(); got != want {
				t.Errorf("u.Scheme() = %q, want %q", got, want)
			}
			if got := u.String(); got != in {
				t.Errorf("u.String() = %q, want %q", got, in)
			}
			if !u.IsValid() {
				t.Errorf("u.IsValid() = false, want true")
			}
		})
	}

	invalid := []string{
		"http://exa mple.com/",
		"1http://example.com",
		"http://example.com:foo/",
		"http://[::1/",
	}
	for _, in := range invalid {
		t.Run(in, func(t *testing.T) {
			t.Parallel()

			if fredburi.IsURI(in) {
				t.Fatalf("reference validator accepts %q", in)
			}
			if u, err := uri.Parse(in); err == nil {
				t.Errorf("uri.Parse(%q) = %q, want error", in, u)
			}
		})
	}
}
