// Package parsable defines the contract shared by the value types in this module.
// Every value package exposes Parse(string) (T, error) and TryParse(string) (T, bool),
// so any of them can be used where a ParseFunc is expected.
package parsable

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFormat is matched by every error returned when text does not describe a valid value.
var ErrFormat = errors.New("invalid format")

// ParseFunc parses text into a value of type T, failing on invalid input.
type ParseFunc[T any] func(string) (T, error)

// FormatError reports text that could not be parsed into a value.
type FormatError struct {
	Type  string // Value type name, e.g. "duration"
	Input string // Offending input
	Err   error  // Optional underlying cause
}

// NewFormatError creates a FormatError for the given type and input.
func NewFormatError(typ, input string, cause error) *FormatError {
	return &FormatError{Type: typ, Input: input, Err: cause}
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %q is not valid: %v", e.Type, e.Input, e.Err)
	}
	return fmt.Sprintf("%s: %q is not valid", e.Type, e.Input)
}

// Is reports true for ErrFormat.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Try runs parse and converts any failure, including blank input, into (zero, false).
func Try[T any](parse ParseFunc[T], s string) (T, bool) {
	var zero T
	if IsBlank(s) {
		return zero, false
	}
	v, err := parse(s)
	if err != nil {
		return zero, false
	}
	return v, true
}

// Must returns v or panics if err is non-nil. Intended for package-level
// variables and tests.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// IsBlank reports whether s is empty or only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
