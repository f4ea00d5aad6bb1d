package params

import (
	"github.com/ghettovoice/rfc3986/internal/errorutil"
	"github.com/ghettovoice/rfc3986/internal/grammar"
)

type Error = errorutil.Error

const (
	// ErrUnbalancedBrackets is returned when a query key has mismatched or broken bracket groups.
	ErrUnbalancedBrackets = grammar.ErrUnbalancedBrackets
	// ErrNestingExceeded is returned when a query key nests deeper than allowed.
	ErrNestingExceeded = grammar.ErrNestingExceeded
)
