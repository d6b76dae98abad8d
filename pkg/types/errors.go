package types

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a class of parse or conversion failure.
type ErrorCode string

// Error codes.
const (
	// B0xxx: binding-expression syntax errors
	ErrCodeNoExpression       ErrorCode = "B0101"
	ErrCodeUnexpectedToken    ErrorCode = "B0102"
	ErrCodeMissingOperand     ErrorCode = "B0201"
	ErrCodeOperandCount       ErrorCode = "B0202"
	ErrCodeMalformedMarker    ErrorCode = "B0203"
	ErrCodeDuplicateParameter ErrorCode = "B0301"
	ErrCodeUnterminatedString ErrorCode = "B0401"
	ErrCodeInvalidNumber      ErrorCode = "B0402"
	ErrCodeUnterminatedFormat ErrorCode = "B0403"
	ErrCodeMaxDepth           ErrorCode = "B0501"

	// C0xxx: host expression-tree conversion errors
	ErrCodeUnsupportedNode  ErrorCode = "C0101"
	ErrCodeUnboundParameter ErrorCode = "C0102"
	ErrCodeCoercion         ErrorCode = "C0103"
)

// Error is a structured parse or conversion error.
type Error struct {
	Code     ErrorCode
	Message  string
	Position int
	Token    string
	Err      error
}

// NewError creates a new error. A negative position means "no position".
func NewError(code ErrorCode, message string, position int) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Position: position,
	}
}

// Errorf creates a new error with a formatted message.
func Errorf(code ErrorCode, position int, format string, args ...any) *Error {
	return NewError(code, fmt.Sprintf(format, args...), position)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s at position %d: %s", e.Code, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithToken adds token information to the error.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// HasCode reports whether err, or any error it wraps, is an *Error with code.
func HasCode(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) && e.Code == code {
		return true
	}
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range u.Unwrap() {
			if HasCode(inner, code) {
				return true
			}
		}
	case interface{ Unwrap() error }:
		return HasCode(u.Unwrap(), code)
	}
	return false
}

// ErrorSink receives non-fatal diagnostics.
type ErrorSink interface {
	AddError(err error)
}

// Diagnostics is the default ErrorSink: an ordered list of errors.
// It is not safe for concurrent use.
type Diagnostics struct {
	errs []error
}

// AddError appends a diagnostic.
func (d *Diagnostics) AddError(err error) {
	if err != nil {
		d.errs = append(d.errs, err)
	}
}

// Errors returns the collected diagnostics.
func (d *Diagnostics) Errors() []error {
	return d.errs
}

// Len returns the number of collected diagnostics.
func (d *Diagnostics) Len() int {
	return len(d.errs)
}

// Err joins the collected diagnostics, or returns nil if there are none.
func (d *Diagnostics) Err() error {
	return errors.Join(d.errs...)
}
