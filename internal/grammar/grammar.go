// Package grammar implements RFC 3986 syntax checks and percent-encoding helpers.
package grammar

//go:generate go tool errtrace -w .

import (
	"net"
	"strings"

	"github.com/ghettovoice/abnf"

	"github.com/ghettovoice/rfc3986/internal/constraints"
)

type Error string

func (e Error) Error() string { return string(e) }

func (Error) Grammar() bool { return true }

const (
	ErrEmptyInput     Error = "empty input"
	ErrMalformedInput Error = "malformed input"

	ErrUnbalancedBrackets Error = "unbalanced brackets"
	ErrNestingExceeded    Error = "maximum nesting level exceeded"
)

// matchAll reports whether the rule op consumes the whole input s.
func matchAll[T constraints.Byteseq](op abnf.Operator, s T) bool {
	if len(s) == 0 {
		return false
	}

	ns := abnf.NewNodes()
	defer ns.Free()

	if err := op([]byte(s), 0, ns); err != nil {
		return false
	}
	return ns.Best().Len() == len(s)
}

// IsScheme checks s on the scheme rule.
func IsScheme[T constraints.Byteseq](s T) bool { return matchAll(scheme, s) }

// IsPort checks s on the port rule, empty port is not allowed.
func IsPort[T constraints.Byteseq](s T) bool { return matchAll(port, s) }

// IsRegName checks s on the reg-name rule.
func IsRegName[T constraints.Byteseq](s T) bool { return matchAll(regName, s) }

// IsIPLiteral checks s on the IP-literal rule.
// A literal that is not IPvFuture must hold a valid IPv6 address.
func IsIPLiteral[T constraints.Byteseq](s T) bool {
	if !matchAll(ipLiteral, s) {
		return false
	}
	inner := string(s[1 : len(s)-1])
	if inner[0] == 'v' || inner[0] == 'V' {
		return matchAll(ipvFuture, inner)
	}
	return strings.Contains(inner, ":") && net.ParseIP(inner) != nil
}

// IsHost checks s on the host rule.
// IP literals are verified as [IsIPLiteral] does.
func IsHost[T constraints.Byteseq](s T) bool {
	if !matchAll(host, s) {
		return false
	}
	if s[0] == '[' {
		return IsIPLiteral(s)
	}
	return true
}
