package oxidb

import (
	"errors"
	"fmt"
	"strings"
)

// Error is returned when the OxiDB server returns an error response.
type Error struct {
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("oxidb: %s", e.Msg)
}

func newServerError(msg string) error {
	if msg == "" {
		msg = "unknown error"
	}
	return &Error{Msg: msg}
}

// IsNotFound reports whether the server said the object or bucket is missing.
func IsNotFound(err error) bool {
	return serverMessageContains(err, "not found")
}

// IsAlreadyExists reports whether the server refused to create a duplicate.
func IsAlreadyExists(err error) bool {
	return serverMessageContains(err, "already exists")
}

func serverMessageContains(err error, needle string) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return strings.Contains(strings.ToLower(e.Msg), needle)
}
