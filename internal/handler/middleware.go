package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/wealthpath/cadence/internal/logger"
)

// RequestContext copies chi's request ID into the logging context so
// logger.FromContext tags every line written while serving the request.
// It must run after middleware.RequestID.
func RequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			w.Header().Set(middleware.RequestIDHeader, id)
			r = r.WithContext(logger.WithRequestID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}
