package grammar

import "github.com/ghettovoice/abnf"

// Rules below follow RFC 3986 Appendix A. Only the parts needed to validate
// the scheme and authority components are implemented, the remaining components
// are split by delimiters and kept as is.

func lit(s string) abnf.Operator { return abnf.Literal(`"`+s+`"`, []byte(s)) }

var (
	alpha = abnf.Alt(
		"ALPHA",
		abnf.Range("%x41-5A", []byte{0x41}, []byte{0x5A}),
		abnf.Range("%x61-7A", []byte{0x61}, []byte{0x7A}),
	)
	digit  = abnf.Range("DIGIT", []byte{0x30}, []byte{0x39})
	hexdig = abnf.Alt(
		"HEXDIG",
		digit,
		abnf.Range("%x41-46", []byte{0x41}, []byte{0x46}),
		abnf.Range("%x61-66", []byte{0x61}, []byte{0x66}),
	)

	unreserved = abnf.Alt("unreserved", alpha, digit, lit("-"), lit("."), lit("_"), lit("~"))
	subDelims  = abnf.Alt(
		"sub-delims",
		lit("!"), lit("$"), lit("&"), lit("'"), lit("("), lit(")"),
		lit("*"), lit("+"), lit(","), lit(";"), lit("="),
	)
	pctEncoded = abnf.Concat("pct-encoded", lit("%"), hexdig, hexdig)
)

// scheme = ALPHA *( ALPHA / DIGIT / "+" / "-" / "." )
var scheme = abnf.Concat(
	"scheme",
	alpha,
	abnf.Repeat0Inf(
		`*( ALPHA / DIGIT / "+" / "-" / "." )`,
		abnf.Alt(`ALPHA / DIGIT / "+" / "-" / "."`, alpha, digit, lit("+"), lit("-"), lit(".")),
	),
)

// port = 1*DIGIT
//
// RFC 3986 allows an empty port, but an authority with a dangling colon is rejected here.
var port = abnf.Repeat1Inf("port", digit)

// reg-name = 1*( unreserved / pct-encoded )
//
// Sub-delims are not accepted in host names.
var regName = abnf.Repeat1Inf("reg-name", abnf.Alt("unreserved / pct-encoded", unreserved, pctEncoded))

// IPvFuture = "v" 1*HEXDIG "." 1*( unreserved / sub-delims / ":" )
var ipvFuture = abnf.Concat(
	"IPvFuture",
	lit("v"),
	abnf.Repeat1Inf("1*HEXDIG", hexdig),
	lit("."),
	abnf.Repeat1Inf(
		`1*( unreserved / sub-delims / ":" )`,
		abnf.Alt(`unreserved / sub-delims / ":"`, unreserved, subDelims, lit(":")),
	),
)

// ipv6Chars matches the alphabet of IPv6address, the address itself is verified with net.ParseIP.
var ipv6Chars = abnf.Repeat1Inf("IPv6address", abnf.Alt(`HEXDIG / ":" / "."`, hexdig, lit(":"), lit(".")))

// IP-literal = "[" ( IPv6address / IPvFuture  ) "]"
var ipLiteral = abnf.Concat(
	"IP-literal",
	lit("["),
	abnf.Alt("IPv6address / IPvFuture", ipv6Chars, ipvFuture),
	lit("]"),
)

// host = IP-literal / reg-name
//
// IPv4address is a subset of reg-name.
var host = abnf.Alt("host", ipLiteral, regName)
