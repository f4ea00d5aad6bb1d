package grammar_test

import (
	"testing"

	"github.com/ghettovoice/rfc3986/internal/grammar"
)

func TestEscape(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		str  string
		cb   func(byte) bool
		want string
	}{
		{"empty", "", nil, ""},
		{"no escape", "abc-%2Bqwe~", nil, "abc-%2Bqwe~"},
		{"escape all", "abc++qwe!", nil, "abc%2B%2Bqwe%21"},
		{"escape some", "abc+?qwe!", func(c byte) bool { return c == '?' }, "abc+%3Fqwe!"},
		{"non ascii", "über", func(c byte) bool { return !grammar.IsPrintASCII(c) }, "%C3%BCber"},
		{"trailing percent", "abc%4", func(c byte) bool { return false }, "abc%4"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got, want := grammar.Escape(c.str, c.cb), c.want; got != want {
				t.Errorf("grammar.Escape(%q, %p) = %q, want %q", c.str, c.cb, got, want)
			}
		})
	}
}

func TestEscapeAll(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		str  string
		want string
	}{
		{"empty", "", ""},
		{"unreserved", "a-b.c_d~e", "a-b.c_d~e"},
		{"escaped percent", "%21ncoded", "%2521ncoded"},
		{"space", "a b", "a%20b"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got, want := grammar.EscapeAll(c.str, nil), c.want; got != want {
				t.Errorf("grammar.EscapeAll(%q, nil) = %q, want %q", c.str, got, want)
			}
		})
	}
}

func TestEscapeForm(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		str  string
		want string
	}{
		{"empty", "", ""},
		{"space", "Hello World", "Hello+World"},
		{"plus", "1+2", "1%2B2"},
		{"unicode", "Über", "%C3%9Cber"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got, want := grammar.EscapeForm(c.str, nil), c.want; got != want {
				t.Errorf("grammar.EscapeForm(%q, nil) = %q, want %q", c.str, got, want)
			}
		})
	}
}

func TestUnescape(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		str  string
		want string
	}{
		{"empty", "", ""},
		{"no unescape", "abc%ax%", "abc%ax%"},
		{"unescape all", "abc%E4%b8%96", "abc世"}, //nolint:gosmopolitan
		{"plus kept", "a+b", "a+b"},
		{"escape at end", "a%2F", "a/"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got, want := grammar.Unescape(c.str), c.want; got != want {
				t.Errorf("grammar.Unescape(%q) = %q, want %q", c.str, got, want)
			}
		})
	}
}

func TestUnescapeForm(t *testing.T) {
	t.Parallel()

	if got, want := grammar.UnescapeForm("a=%2F&c=d+e"), "a=/&c=d e"; got != want {
		t.Errorf("grammar.UnescapeForm(%q) = %q, want %q", "a=%2F&c=d+e", got, want)
	}
	if got, want := grammar.UnescapeForm([]byte("1+2")), []byte("1 2"); string(got) != string(want) {
		t.Errorf("grammar.UnescapeForm(%q) = %q, want %q", "1+2", got, want)
	}
}

func BenchmarkEscape(b *testing.B) {
	for b.Loop() {
		grammar.Escape("http://example.com/über/straße?q=ä", func(c byte) bool { return !grammar.IsPrintASCII(c) })
	}
}
