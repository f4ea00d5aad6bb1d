package grammar

import (
	"bytes"

	"github.com/ghettovoice/rfc3986/internal/constraints"
)

// Unescape unescapes s by converting each 3-byte encoded substring of the form "% HEXDIG HEXDIG" into the hex-decoded byte.
// Malformed escape sequences are kept as is.
func Unescape[T constraints.Byteseq](s T) T { return unescape(s, false) }

// UnescapeForm is like [Unescape] but also converts each '+' into a space,
// as application/x-www-form-urlencoded decoding does.
func UnescapeForm[T constraints.Byteseq](s T) T { return unescape(s, true) }

func unescape[T constraints.Byteseq](s T, plusAsSpace bool) T {
	if len(s) == 0 {
		return s
	}

	var b bytes.Buffer
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '%' && i+2 < len(s) && IsHex(s[i+1]) && IsHex(s[i+2]):
			b.WriteByte(Unhex(s[i+1])<<4 | Unhex(s[i+2]))
			i += 2
		case s[i] == '+' && plusAsSpace:
			b.WriteByte(' ')
		default:
			b.WriteByte(s[i])
		}
	}
	return T(b.Bytes())
}

// Escape escapes s by replacing each char matched by shouldEscape callback to the hex form "% HEXDIG HEXDIG".
// Already escaped sequences are left untouched.
func Escape[T constraints.Byteseq](s T, shouldEscape func(c byte) bool) T {
	if len(s) == 0 {
		return s
	}

	if shouldEscape == nil {
		shouldEscape = func(c byte) bool { return !IsUnreserved(c) }
	}

	var b bytes.Buffer
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '%' && i+2 < len(s) && IsHex(s[i+1]) && IsHex(s[i+2]):
			b.WriteByte(s[i])
			b.WriteByte(s[i+1])
			b.WriteByte(s[i+2])
			i += 2
		case shouldEscape(s[i]):
			writeEscaped(&b, s[i])
		default:
			b.WriteByte(s[i])
		}
	}
	return T(b.Bytes())
}

// EscapeAll escapes each char of s matched by shouldEscape, including '%' of already escaped sequences.
func EscapeAll[T constraints.Byteseq](s T, shouldEscape func(c byte) bool) T {
	return escapeAll(s, shouldEscape, false)
}

// EscapeForm is like [EscapeAll] but writes spaces as '+'.
func EscapeForm[T constraints.Byteseq](s T, shouldEscape func(c byte) bool) T {
	return escapeAll(s, shouldEscape, true)
}

func escapeAll[T constraints.Byteseq](s T, shouldEscape func(c byte) bool, spaceAsPlus bool) T {
	if len(s) == 0 {
		return s
	}

	if shouldEscape == nil {
		shouldEscape = func(c byte) bool { return !IsUnreserved(c) }
	}

	var b bytes.Buffer
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == ' ' && spaceAsPlus:
			b.WriteByte('+')
		case s[i] == '%' || shouldEscape(s[i]):
			writeEscaped(&b, s[i])
		default:
			b.WriteByte(s[i])
		}
	}
	return T(b.Bytes())
}

func writeEscaped(b *bytes.Buffer, c byte) {
	b.WriteByte('%')
	b.WriteByte(UpperHex[c>>4])
	b.WriteByte(UpperHex[c&15])
}

const UpperHex = "0123456789ABCDEF"

// IsHex checks on HEXDIG rule.
func IsHex(c byte) bool {
	switch {
	case '0' <= c && c <= '9':
		return true
	case 'a' <= c && c <= 'f':
		return true
	case 'A' <= c && c <= 'F':
		return true
	}
	return false
}

// Unhex returns the value of the hex digit c.
func Unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

// IsAlphanumChar checks alphanum rule.
func IsAlphanumChar(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

// IsUnreserved checks on unreserved rule.
func IsUnreserved(c byte) bool {
	return IsAlphanumChar(c) || c == '-' || c == '.' || c == '_' || c == '~'
}

var subDelimChars = map[byte]bool{
	'!':  true,
	'$':  true,
	'&':  true,
	'\'': true,
	'(':  true,
	')':  true,
	'*':  true,
	'+':  true,
	',':  true,
	';':  true,
	'=':  true,
}

// IsSubDelim checks on sub-delims rule.
func IsSubDelim(c byte) bool { return subDelimChars[c] }

// IsPrintASCII reports whether c is a printable US-ASCII char (0x20-0x7E).
func IsPrintASCII(c byte) bool { return 0x20 <= c && c < 0x7F }
