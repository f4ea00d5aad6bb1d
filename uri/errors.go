package uri

import (
	"github.com/ghettovoice/rfc3986/internal/errorutil"
	"github.com/ghettovoice/rfc3986/internal/grammar"
)

type Error = errorutil.Error

const (
	// ErrEmptyInput is returned when an empty string is parsed.
	// Errors of this kind also match [ErrMalformedInput].
	ErrEmptyInput = grammar.ErrEmptyInput
	// ErrMalformedInput is returned when the input does not match the URI grammar.
	ErrMalformedInput = grammar.ErrMalformedInput
	// ErrInvalidState is returned when an operation is not applicable to the value,
	// e.g. building a URI without a scheme.
	ErrInvalidState = errorutil.ErrInvalidState
)

var errEmptyInput = errorutil.NewWrapperError(ErrMalformedInput, ErrEmptyInput)

func newMalformedError(format string, args ...any) error {
	return errorutil.NewWrapperError(ErrMalformedInput, append([]any{format}, args...)...) //errtrace:skip
}
