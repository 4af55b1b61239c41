package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wealthpath/cadence/internal/apperror"
	"github.com/wealthpath/cadence/internal/logger"
	"github.com/wealthpath/cadence/internal/service"
	"github.com/wealthpath/cadence/pkg/parsable"
)

// ErrorResponse represents a JSON error response body.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// respondJSON writes a JSON response with the given status code.
// It sets the Content-Type header to application/json.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondError writes a JSON error response with the given status code and message.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondAppError writes a JSON error response from an AppError.
// It extracts the status code and message from the error.
func respondAppError(w http.ResponseWriter, err *apperror.AppError) {
	resp := ErrorResponse{
		Error: err.Message,
		Field: err.Field,
	}
	respondJSON(w, err.StatusCode, resp)
}

// respondServiceError maps schedule service errors onto HTTP responses.
// Unexpected errors are logged with the request's context and hidden from the client.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperror.AppError
	switch {
	case errors.As(err, &appErr):
	case errors.Is(err, service.ErrScheduleNotFound):
		appErr = apperror.NotFound("schedule")
	case errors.Is(err, service.ErrInvalidName):
		appErr = apperror.Invalid("name", err)
	case errors.Is(err, service.ErrInvalidAmount):
		appErr = apperror.Invalid("amount", err)
	case errors.Is(err, service.ErrInvalidCurrency):
		appErr = apperror.Invalid("currency", err)
	case errors.Is(err, service.ErrNonAdvancingInterval):
		appErr = apperror.Invalid("interval", err)
	case errors.Is(err, service.ErrInvalidEnd):
		appErr = apperror.Invalid("endAt", err)
	case errors.Is(err, parsable.ErrFormat):
		appErr = apperror.FromFormat("", err)
	default:
		appErr = apperror.Internal(err)
	}
	if apperror.StatusCode(appErr) >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	respondAppError(w, appErr)
}

// decodeBody decodes a JSON request body. Values that fail their own parsing
// are reported as a 400 naming the bad input.
func decodeBody(r *http.Request, v any) *apperror.AppError {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, parsable.ErrFormat) {
			return apperror.FromFormat("", err)
		}
		return apperror.BadRequest("invalid request body")
	}
	return nil
}

// idParam parses the {id} URL parameter.
func idParam(r *http.Request) (uuid.UUID, *apperror.AppError) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperror.ValidationError("id", "invalid id")
	}
	return id, nil
}

// queryInt reads a non-negative integer query parameter, returning def when absent.
func queryInt(r *http.Request, name string, def int) (int, *apperror.AppError) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperror.ValidationError(name, "must be a non-negative integer")
	}
	return n, nil
}

// queryBool reads a boolean query parameter, returning def when absent.
func queryBool(r *http.Request, name string, def bool) (bool, *apperror.AppError) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperror.ValidationError(name, "must be true or false")
	}
	return b, nil
}
