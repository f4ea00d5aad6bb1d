package uri

//go:generate go tool mockgen -package urimock -destination ../internal/testutil/urimock/secret.go . Secret

import (
	"fmt"
	"log/slog"
)

// SecretMask is written in place of passwords in masked output.
const SecretMask = "********"

// Secret holds a password opaquely.
type Secret interface {
	// Reveal returns the plain password.
	Reveal() string
}

type secret struct{ val string }

// NewSecret returns a [Secret] holding s.
// Its String, Format and LogValue methods never expose the value.
func NewSecret(s string) Secret { return secret{s} }

func (s secret) Reveal() string { return s.val }

func (secret) String() string { return SecretMask }

func (secret) Format(f fmt.State, _ rune) { fmt.Fprint(f, SecretMask) }

func (secret) LogValue() slog.Value { return slog.StringValue(SecretMask) }

func reveal(s Secret) string {
	if s == nil {
		return ""
	}
	return s.Reveal()
}
