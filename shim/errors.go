package shim

import (
	"errors"
	"strings"
)

// ErrorType categorizes wrapper-internal failures. Categories drive the
// diagnostic wording and exit-code mapping (see ExitCodes).
type ErrorType string

const (
	ErrorTypeConstruction ErrorType = "construction"
	ErrorTypeLaunch       ErrorType = "launch"
	ErrorTypePipe         ErrorType = "pipe"
	ErrorTypeRelay        ErrorType = "relay"
	ErrorTypeExitStatus   ErrorType = "exit_status"
)

var (
	// ErrCommandLineTooLong is returned by the builder when the rebuilt command
	// line would exceed the configured ceiling. Nothing is truncated.
	ErrCommandLineTooLong = errors.New("command line exceeds maximum length")

	// ErrEmptyPattern is returned by a rewrite rule with nothing to search for.
	ErrEmptyPattern = errors.New("rewrite rule has an empty search string")
)

// Error is a typed wrapper failure with an optional underlying cause.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
}

// NewError creates a new Error with the given type and message
func NewError(typ ErrorType, message string) *Error {
	return &Error{Type: typ, Message: message}
}

// WithCause attaches the underlying platform or I/O error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	var b strings.Builder
	b.WriteString(e.Message)
	b.WriteString(": ")
	b.WriteString(e.Cause.Error())
	return b.String()
}

// Unwrap exposes the cause to errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.Cause }

// IsType reports whether err is an *Error of the given category.
func IsType(err error, typ ErrorType) bool {
	var se *Error
	return errors.As(err, &se) && se.Type == typ
}
