package fingerprint

import (
	"errors"
	"fmt"

	"github.com/mdobak/go-xerrors"
)

// Errors returned by the codec and the matcher. Returned errors wrap one of
// these, so callers should test with errors.Is.
var (
	ErrInvalidInput       = xerrors.Message("acousticprint: invalid input")
	ErrTruncatedInput     = xerrors.Message("acousticprint: truncated input")
	ErrInvalidAlgorithm   = xerrors.Message("acousticprint: invalid algorithm")
	ErrMalformedException = xerrors.Message("acousticprint: malformed exception")
)

// ErrorKind classifies an error into the taxonomy above.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindInvalidInput
	KindTruncatedInput
	KindInvalidAlgorithm
	KindMalformedException
	KindUnknown
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInvalidInput:
		return "invalid_input"
	case KindTruncatedInput:
		return "truncated_input"
	case KindInvalidAlgorithm:
		return "invalid_algorithm"
	case KindMalformedException:
		return "malformed_exception"
	default:
		return "unknown"
	}
}

// KindOf returns the taxonomy kind wrapped by err.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrTruncatedInput):
		return KindTruncatedInput
	case errors.Is(err, ErrInvalidAlgorithm):
		return KindInvalidAlgorithm
	case errors.Is(err, ErrMalformedException):
		return KindMalformedException
	default:
		return KindUnknown
	}
}

// newErrorf wraps kind with a formatted detail and a stack trace.
func newErrorf(kind error, format string, args ...any) error {
	return xerrors.New(kind, fmt.Sprintf(format, args...))
}
