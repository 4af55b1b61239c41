// Package apperror carries the HTTP status, client message and offending
// field of a failed request alongside the error that caused it.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/wealthpath/cadence/pkg/parsable"
)

// Sentinel errors for common cases
var (
	ErrNotFound   = errors.New("resource not found")
	ErrBadRequest = errors.New("bad request")
	ErrValidation = errors.New("validation error")
	ErrInternal   = errors.New("internal server error")
)

// AppError is an error with the response it should produce.
type AppError struct {
	Err        error  // Cause, kept for logging and errors.Is
	Message    string // Safe to show to the client
	StatusCode int
	Field      string // Request field at fault, if any
}

func (e *AppError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource string) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
	}
}

func BadRequest(message string) *AppError {
	return &AppError{
		Err:        ErrBadRequest,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// ValidationError reports a field that failed a check made by the handler itself.
func ValidationError(field, message string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Field:      field,
	}
}

// Invalid reports a field rejected by a lower layer. The message is err's text
// and both err and ErrValidation stay reachable through errors.Is.
func Invalid(field string, err error) *AppError {
	return &AppError{
		Err:        fmt.Errorf("%w: %w", ErrValidation, err),
		Message:    err.Error(),
		StatusCode: http.StatusBadRequest,
		Field:      field,
	}
}

// FromFormat turns a value parse failure into a 400 naming the offending field.
// The message quotes the rejected input; other errors become Internal.
func FromFormat(field string, err error) *AppError {
	var fe *parsable.FormatError
	if !errors.As(err, &fe) {
		return Internal(err)
	}
	return &AppError{
		Err:        err,
		Message:    fmt.Sprintf("%q is not a valid %s", fe.Input, fe.Type),
		StatusCode: http.StatusBadRequest,
		Field:      field,
	}
}

// Internal hides err from the client.
func Internal(err error) *AppError {
	return &AppError{
		Err:        fmt.Errorf("%w: %w", ErrInternal, err),
		Message:    "an internal error occurred",
		StatusCode: http.StatusInternalServerError,
	}
}

// StatusCode returns the status err should produce. Errors that are not an
// AppError are classified by sentinel and default to 500.
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrValidation), errors.Is(err, parsable.ErrFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
