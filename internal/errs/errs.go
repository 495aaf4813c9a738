// Package errs holds the error kinds shared by repositories, services and
// handlers, plus helpers that keep the chain intact for errors.Is/As.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrForbidden   = errors.New("forbidden")
	ErrInvalid     = errors.New("invalid input")
	ErrUnavailable = errors.New("unavailable")

	ErrUnauthorized = errors.New("unauthorized")
)

// Wrap adds context and preserves the error chain.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf adds formatted context and preserves the error chain.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	args = append(args, err)
	return fmt.Errorf(format+": %w", args...)
}

// NotFound reports that the named record does not exist.
func NotFound(what string) error {
	return &kindError{kind: ErrNotFound, msg: what + " not found"}
}

// Conflict wraps ErrConflict with a client-facing message.
func Conflict(msg string) error {
	return &kindError{kind: ErrConflict, msg: msg}
}

// Forbidden wraps ErrForbidden with a client-facing message.
func Forbidden(msg string) error {
	return &kindError{kind: ErrForbidden, msg: msg}
}

// Invalid wraps ErrInvalid with a client-facing message.
func Invalid(msg string) error {
	return &kindError{kind: ErrInvalid, msg: msg}
}

// Invalidf is Invalid with formatting.
func Invalidf(format string, args ...any) error {
	return &kindError{kind: ErrInvalid, msg: fmt.Sprintf(format, args...)}
}

// Unavailable wraps ErrUnavailable with a client-facing message.
func Unavailable(msg string) error {
	return &kindError{kind: ErrUnavailable, msg: msg}
}

// Unauthorized wraps ErrUnauthorized with a client-facing message.
func Unauthorized(msg string) error {
	return &kindError{kind: ErrUnauthorized, msg: msg}
}

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// Message returns the outermost client-facing message for a kind error, or
// the plain error text when the chain holds none.
func Message(err error) string {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.msg
	}
	return err.Error()
}
