package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wealthpath/cadence/pkg/parsable"
)

func TestAppError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without field",
			appErr: &AppError{
				Message: "something went wrong",
			},
			expected: "something went wrong",
		},
		{
			name: "with field",
			appErr: &AppError{
				Message: "is required",
				Field:   "name",
			},
			expected: "name: is required",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	t.Parallel()

	originalErr := errors.New("original error")
	appErr := &AppError{
		Err:     originalErr,
		Message: "wrapped error",
	}

	assert.Equal(t, originalErr, appErr.Unwrap())
	assert.True(t, errors.Is(appErr, originalErr))
}

func TestNotFound(t *testing.T) {
	t.Parallel()

	err := NotFound("schedule")

	assert.Equal(t, "schedule not found", err.Message)
	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestBadRequest(t *testing.T) {
	t.Parallel()

	err := BadRequest("invalid input")

	assert.Equal(t, "invalid input", err.Message)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.True(t, errors.Is(err, ErrBadRequest))
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	err := ValidationError("name", "is required")

	assert.Equal(t, "is required", err.Message)
	assert.Equal(t, "name", err.Field)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestFromFormat(t *testing.T) {
	t.Parallel()

	t.Run("format error", func(t *testing.T) {
		t.Parallel()
		cause := parsable.NewFormatError("duration", "P", nil)
		err := FromFormat("interval", fmt.Errorf("decode body: %w", cause))

		assert.Equal(t, http.StatusBadRequest, err.StatusCode)
		assert.Equal(t, "interval", err.Field)
		assert.Equal(t, `"P" is not a valid duration`, err.Message)
		assert.True(t, errors.Is(err, parsable.ErrFormat))
	})

	t.Run("other error", func(t *testing.T) {
		t.Parallel()
		err := FromFormat("interval", errors.New("boom"))

		assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
		assert.Empty(t, err.Field)
	})
}

func TestInvalid(t *testing.T) {
	t.Parallel()

	cause := errors.New("interval must move time forward")
	err := Invalid("interval", fmt.Errorf("create: %w", cause))

	assert.Equal(t, "create: interval must move time forward", err.Message)
	assert.Equal(t, "interval", err.Field)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, cause)
}

func TestInternal(t *testing.T) {
	t.Parallel()

	originalErr := errors.New("database connection failed")
	err := Internal(originalErr)

	assert.Equal(t, "an internal error occurred", err.Message)
	assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
	assert.ErrorIs(t, err, originalErr)
	assert.ErrorIs(t, err, ErrInternal)
	assert.NotContains(t, err.Error(), "database")
}

func TestStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "AppError",
			err:      &AppError{StatusCode: http.StatusTeapot},
			expected: http.StatusTeapot,
		},
		{
			name:     "wrapped AppError",
			err:      fmt.Errorf("handler: %w", NotFound("schedule")),
			expected: http.StatusNotFound,
		},
		{
			name:     "ErrNotFound",
			err:      ErrNotFound,
			expected: http.StatusNotFound,
		},
		{
			name:     "ErrBadRequest",
			err:      ErrBadRequest,
			expected: http.StatusBadRequest,
		},
		{
			name:     "ErrValidation",
			err:      ErrValidation,
			expected: http.StatusBadRequest,
		},
		{
			name:     "wrapped format error",
			err:      fmt.Errorf("scan: %w", parsable.NewFormatError("duration", "x", nil)),
			expected: http.StatusBadRequest,
		},
		{
			name:     "unknown error",
			err:      errors.New("unknown"),
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, StatusCode(tt.err))
		})
	}
}
