// Package serrors attaches semantic categories (Kinds) to errors so transports
// can map failures to status codes and user-facing messages without knowing
// where they came from.
package serrors

import (
	"errors"
	"fmt"
)

// Error pairs a Kind with an optional cause and an optional message meant for
// the caller. errors.Is and errors.As see both the kind and the cause.
//
// The text is "<msg>: <cause>", or whichever of the two is set, falling back
// to the kind name.
type Error struct {
	kind  Kind
	cause error
	msg   string
}

// With returns an error of kind k carrying a formatted message.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap returns an error of kind k wrapping cause with a formatted message.
func Wrap(k Kind, cause error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, cause: cause, msg: fmt.Sprintf(msgFmt, args...)}
}

// KindOnly returns a bare error of kind k.
func KindOnly(k Kind) *Error { return &Error{kind: k} }

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	switch {
	case e.cause == nil && e.msg == "":
		if e.kind == nil {
			return "unknown error"
		}

		return e.kind.Error()
	case e.cause == nil:
		return e.msg
	case e.msg == "":
		return e.cause.Error()
	default:
		return e.msg + ": " + e.cause.Error()
	}
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches target against the kind first, then against the cause chain.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}

	return (e.kind != nil && errors.Is(e.kind, target)) ||
		(e.cause != nil && errors.Is(e.cause, target))
}

// As assigns the kind or, failing that, an error from the cause chain to target.
func (e *Error) As(target any) bool {
	if e == nil || target == nil {
		return false
	}

	return (e.kind != nil && errors.As(e.kind, target)) ||
		(e.cause != nil && errors.As(e.cause, target))
}

func (e *Error) Kind() Kind { return e.kind }

// Message returns the caller-facing message, without the cause.
func (e *Error) Message() string { return e.msg }

func (e *Error) Cause() error { return e.cause }
