// Package errors provides structured error types for barchart.
//
// Every failure that crosses a package boundary carries a machine-readable
// [Code], so the CLI and tests can branch on the category of a failure without
// matching message text.
//
// # Error Codes
//
// The chart engine reports three fatal input errors:
//   - EMPTY_DATASET: there are no records to scale or draw
//   - INVALID_DOMAIN: a measure value does not coerce to a finite number
//   - MISSING_KEY: the category or measure key is absent from a record
//
// The record aggregator reports LOAD_ERROR for every I/O or parse failure.
// Those never reach the engine.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingKey, "record %d has no %q", i, key)
//	if errors.Is(err, errors.ErrCodeMissingKey) {
//	    // caller misconfiguration
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeLoad, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Chart input errors
	ErrCodeEmptyDataset  Code = "EMPTY_DATASET"
	ErrCodeInvalidDomain Code = "INVALID_DOMAIN"
	ErrCodeMissingKey    Code = "MISSING_KEY"

	// Aggregation errors
	ErrCodeLoad Code = "LOAD_ERROR"

	// Caller errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeNotMounted    Code = "NOT_MOUNTED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It walks the whole chain, so a LOAD_ERROR wrapping an INVALID_FORMAT
// matches both codes.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Fatal reports whether err is one of the chart input errors that abort a
// render cycle. The prior scene is left untouched after any of them.
func Fatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeEmptyDataset, ErrCodeInvalidDomain, ErrCodeMissingKey:
		return true
	}
	return false
}
