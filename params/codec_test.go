package params_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ghettovoice/rfc3986/params"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		query string
		want  *params.Map
	}{
		{"empty", "", params.NewMap()},
		{"flat", "a=b&c=d", params.NewMap().Set("a", params.String("b")).Set("c", params.String("d"))},
		{"empty pair", "a=b&&c=d", params.NewMap().Set("a", params.String("b")).Set("c", params.String("d"))},
		{"empty name", "=&=x&a=b", params.NewMap().Set("a", params.String("b"))},
		{"bare name", "a", params.NewMap().Set("a", params.String(""))},
		{"bare name with equals", "a=", params.NewMap().Set("a", params.String(""))},
		{"bare list", "a[]", params.NewMap().Set("a", params.List{params.String("")})},
		{"bare list with equals", "a[]=", params.NewMap().Set("a", params.List{params.String("")})},
		{"plus as space", "a[]=1+2", params.NewMap().Set("a", params.List{params.String("1 2")})},
		{"escaped value", "ue=%C3%BC", params.NewMap().Set("ue", params.String("ü"))},
		{"lower case escape", "ue=%c3%bc", params.NewMap().Set("ue", params.String("ü"))},
		{"escaped sub-key", "a[%C3%BC]=ue", params.NewMap().Set("a", params.NewMap().Set("ü", params.String("ue")))},
		{"escaped brackets", "a%5Bb%5D=c", params.NewMap().Set("a", params.NewMap().Set("b", params.String("c")))},
		{"repeated name overwrites", "a=1&b=2&a=3", params.NewMap().Set("a", params.String("3")).Set("b", params.String("2"))},
		{
			"list accumulates",
			"a[]=1&a[]=2&a[]=3",
			params.NewMap().Set("a", params.List{params.String("1"), params.String("2"), params.String("3")}),
		},
		{
			"nested map",
			"a[b][c]=d&a[b][e]=f",
			params.NewMap().Set("a", params.NewMap().Set("b", params.NewMap().
				Set("c", params.String("d")).
				Set("e", params.String("f")))),
		},
		{
			"list of maps",
			"a[][b]=c&a[][b]=d",
			params.NewMap().Set("a", params.List{
				params.NewMap().Set("b", params.String("c")),
				params.NewMap().Set("b", params.String("d")),
			}),
		},
		{
			"nested brackets in sub-key",
			"a[[b]]=c",
			params.NewMap().Set("a", params.NewMap().Set("[b]", params.String("c"))),
		},
		{"leading bracket is plain name", "[]=x", params.NewMap().Set("[]", params.String("x"))},
		{
			"scalar replaced by list",
			"a=1&a[]=2",
			params.NewMap().Set("a", params.List{params.String("2")}),
		},
		{
			"list index",
			"a[]=1&a[0]=2&a[1]=3",
			params.NewMap().Set("a", params.List{params.String("2"), params.String("3")}),
		},
		{
			"list turns into map",
			"a[]=1&a[x]=2",
			params.NewMap().Set("a", params.NewMap().Set("0", params.String("1")).Set("x", params.String("2"))),
		},
		{
			"append to map",
			"a[x]=1&a[5]=2&a[]=3",
			params.NewMap().Set("a", params.NewMap().
				Set("x", params.String("1")).
				Set("5", params.String("2")).
				Set("6", params.String("3"))),
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := params.Decode(c.query, nil)
			if err != nil {
				t.Fatalf("params.Decode(%q, nil) error = %v, want nil", c.query, err)
			}
			if diff := cmp.Diff(got, c.want); diff != "" {
				t.Errorf("params.Decode(%q, nil) = %v, want %v\ndiff (-got +want):\n%v", c.query, got, c.want, diff)
			}
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		query   string
		opts    *params.DecodeOptions
		wantErr error
	}{
		{"open bracket", "[", nil, params.ErrUnbalancedBrackets},
		{"close bracket", "]", nil, params.ErrUnbalancedBrackets},
		{"extra open", "[][", nil, params.ErrUnbalancedBrackets},
		{"extra close", "[]]", nil, params.ErrUnbalancedBrackets},
		{"unclosed group", "a[=b", nil, params.ErrUnbalancedBrackets},
		{"unclosed nested group", "a[[]=b", nil, params.ErrUnbalancedBrackets},
		{"stray close", "a]=b", nil, params.ErrUnbalancedBrackets},
		{"stray close after group", "a[]]=b", nil, params.ErrUnbalancedBrackets},
		{"unclosed second group", "a[b][=c", nil, params.ErrUnbalancedBrackets},
		{"unclosed nested second group", "a[b][[=c", nil, params.ErrUnbalancedBrackets},
		{"junk after group", "a[b]c[d]=e", nil, params.ErrUnbalancedBrackets},
		{"default nesting", "a" + strings.Repeat("[]", 65) + "=b", nil, params.ErrNestingExceeded},
		{"explicit nesting", "a" + strings.Repeat("[]", 65), &params.DecodeOptions{MaxNesting: 64}, params.ErrNestingExceeded},
		{"custom nesting", "a[b][c][d]=e", &params.DecodeOptions{MaxNesting: 2}, params.ErrNestingExceeded},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := params.Decode(c.query, c.opts)
			if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
				t.Errorf("params.Decode(%q) error = %v, want %v\ndiff (-got +want):\n%v", c.query, err, c.wantErr, diff)
			}
			if got != nil {
				t.Errorf("params.Decode(%q) = %v, want nil", c.query, got)
			}
		})
	}
}

func TestDecode_NestingLimit(t *testing.T) {
	t.Parallel()

	query := "a" + strings.Repeat("[]", 64) + "=b"
	m, err := params.Decode(query, nil)
	if err != nil {
		t.Fatalf("params.Decode(64 groups) error = %v, want nil", err)
	}

	v, _ := m.Get("a")
	depth := 0
	for {
		l, ok := v.(params.List)
		if !ok {
			break
		}
		depth++
		v = l[0]
	}
	if depth != 64 {
		t.Errorf("params.Decode(64 groups) depth = %d, want 64", depth)
	}
	if v != params.String("b") {
		t.Errorf("params.Decode(64 groups) leaf = %v, want %q", v, "b")
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		m    *params.Map
		want string
	}{
		{"nil", nil, ""},
		{"empty", params.NewMap(), ""},
		{"flat", params.NewMap().Set("a", params.String("b")).Set("c", params.String("d")), "a=b&c=d"},
		{"empty value", params.NewMap().Set("a", params.String("")), "a"},
		{"empty list value", params.NewMap().Set("a", params.List{params.String("")}), "a[]"},
		{"space", params.NewMap().Set("Subject", params.String("Hello World")), "Subject=Hello+World"},
		{"unicode", params.NewMap().Set("Subject", params.String("Über")), "Subject=%C3%9Cber"},
		{"unicode key", params.NewMap().Set("ü", params.String("ue")), "%C3%BC=ue"},
		{"reserved", params.NewMap().Set("service", params.String("http://localhost")), "service=http%3A%2F%2Flocalhost"},
		{"kept chars", params.NewMap().Set("a-b_c.d", params.String("~x")), "a-b_c.d=%7Ex"},
		{
			"list",
			params.NewMap().Set("a", params.List{params.String("1"), params.String("2")}),
			"a[]=1&a[]=2",
		},
		{
			"nested",
			params.NewMap().Set("a", params.NewMap().Set("b", params.List{params.String("c")}).Set("d", params.String("e f"))),
			"a[b][]=c&a[d]=e+f",
		},
		{"empty nested", params.NewMap().Set("a", params.List{}).Set("b", params.NewMap()), ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := params.Encode(c.m); got != c.want {
				t.Errorf("params.Encode(%v) = %q, want %q", c.m, got, c.want)
			}
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	t.Parallel()

	queries := []string{
		"a=b",
		"a=b&c=d",
		"a[]=1&a[]=2",
		"a[b][c]=d&a[b][e]=f",
		"a[][b]=c&a[][b]=d",
		"a&b[]",
		"Subject=Hello+World",
		"ue=%C3%BC",
		"a[%C3%BC]=ue",
	}
	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			t.Parallel()

			m, err := params.Decode(q, nil)
			if err != nil {
				t.Fatalf("params.Decode(%q, nil) error = %v, want nil", q, err)
			}
			if got := params.Encode(m); got != q {
				t.Errorf("params.Encode(params.Decode(%q)) = %q, want %q", q, got, q)
			}
		})
	}
}

func BenchmarkDecode(b *testing.B) {
	query := "a[b][c]=d&a[b][e]=f&list[]=1&list[]=2&name=Hello+World&ue=%C3%BC"
	for b.Loop() {
		if _, err := params.Decode(query, nil); err != nil {
			b.Fatal(err)
		}
	}
}
