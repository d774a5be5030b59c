// Package validate marks input errors the caller can correct, so handlers
// can tell a bad request apart from an internal failure when a service call
// fails.
package validate

import (
	"errors"
	"fmt"
)

// Error is a client-correctable input error.
type Error struct {
	msg string
}

func (e *Error) Error() string { return e.msg }

// Errorf builds a validation Error the way fmt.Errorf builds a plain one.
func Errorf(format string, args ...interface{}) *Error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// Is reports whether err is (or wraps) a validation Error.
func Is(err error) bool {
	var v *Error
	return errors.As(err, &v)
}
