// Package dberr widens the core's minimal None/Some error surface into a
// small, typed taxonomy callers can switch on, while still wrapping the
// underlying cause with github.com/pkg/errors for stack context.
package dberr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies why an operation failed.
type Kind int

const (
	// Unknown is never returned by this package; it guards against a
	// zero-value Kind being mistaken for a real classification.
	Unknown Kind = iota
	PoolFull
	PageNotPresent
	RecordTooLarge
	SlotOutOfRange
	InvalidArgument
	ProviderIOError
)

func (k Kind) String() string {
	switch k {
	case PoolFull:
		return "pool_full"
	case PageNotPresent:
		return "page_not_present"
	case RecordTooLarge:
		return "record_too_large"
	case SlotOutOfRange:
		return "slot_out_of_range"
	case InvalidArgument:
		return "invalid_argument"
	case ProviderIOError:
		return "provider_io_error"
	default:
		return "unknown"
	}
}

// Error pairs a Kind with the underlying cause, if any.
type Error struct {
	Kind  Kind
	Msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap lets errors.Is / errors.As see through to the cause.
func (e *Error) Unwrap() error { return e.cause }

// New builds an Error with no underlying cause.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap attaches kind and msg to cause, annotating cause with a stack
// trace via github.com/pkg/errors.
func Wrap(cause error, kind Kind, msg string) error {
	if cause == nil {
		return New(kind, msg)
	}
	return &Error{Kind: kind, Msg: msg, cause: errors.WithStack(cause)}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
