// Package errx provides application error kinds that map cleanly to HTTP status codes.
// An error may also carry a Reason, a stable machine-readable marker that clients
// can branch on (for example "USER_NOT_FOUND").

package errx

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	Unknown Kind = iota
	NotFound
	Conflict
	Invalid
	Unauthorized
	Forbidden
	Unavailable
	Internal
)

type Error struct {
	Op     string
	Kind   Kind
	Reason string
	Err    error
}

// E wraps err with an operation and kind. It returns nil when err is nil.
func E(op string, kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{
		Op:   op,
		Kind: kind,
		Err:  err,
	}
}

// R is like E but also attaches a reason marker.
func R(op string, kind Kind, reason string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{
		Op:     op,
		Kind:   kind,
		Reason: reason,
		Err:    err,
	}
}

// String returns the string representation of the error kind.
func (k Kind) String() string {
	switch k {
	case Unknown:
		return "Unknown"
	case NotFound:
		return "NotFound"
	case Conflict:
		return "Conflict"
	case Invalid:
		return "Invalid"
	case Unauthorized:
		return "Unauthorized"
	case Forbidden:
		return "Forbidden"
	case Unavailable:
		return "Unavailable"
	case Internal:
		return "Internal"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op
	}
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

func OpOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Op
	}
	return ""
}

// ReasonOf returns the first non-empty reason found in the chain.
// Outer layers usually re-wrap with E, which leaves Reason empty, so the
// whole chain is searched rather than just the outermost *Error.
func ReasonOf(err error) string {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return ""
		}
		if e.Reason != "" {
			return e.Reason
		}
		err = e.Err
	}
	return ""
}

// MessageOf returns the text of the innermost non-*Error cause, without the
// op prefixes added by each layer. It is meant for client-facing messages of
// Invalid and Conflict errors.
func MessageOf(err error) string {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return err.Error()
		}
		if e.Err == nil {
			return e.Op
		}
		err = e.Err
	}
	return ""
}
