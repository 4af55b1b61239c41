package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterDeps wires the services behind the HTTP API.
type RouterDeps struct {
	Schedules      ScheduleServiceInterface
	Scheduler      SchedulerStatus // nil when background processing is disabled
	AllowedOrigins []string
}

// NewRouter builds the chi router serving /api.
func NewRouter(deps RouterDeps) http.Handler {
	durationHandler := NewDurationHandler()
	percentageHandler := NewPercentageHandler()
	scheduleHandler := NewScheduleHandler(deps.Schedules)
	schedulerHandler := NewSchedulerHandler(deps.Scheduler)

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(RequestContext)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Value types
	r.Post("/api/durations/parse", durationHandler.Parse)
	r.Post("/api/durations/apply", durationHandler.Apply)
	r.Get("/api/durations/compare", durationHandler.Compare)
	r.Post("/api/percentages/parse", percentageHandler.Parse)

	// Schedules
	r.Get("/api/schedules", scheduleHandler.List)
	r.Post("/api/schedules", scheduleHandler.Create)
	r.Get("/api/schedules/{id}", scheduleHandler.Get)
	r.Put("/api/schedules/{id}", scheduleHandler.Update)
	r.Delete("/api/schedules/{id}", scheduleHandler.Delete)
	r.Post("/api/schedules/{id}/pause", scheduleHandler.Pause)
	r.Post("/api/schedules/{id}/resume", scheduleHandler.Resume)
	r.Get("/api/schedules/{id}/preview", scheduleHandler.Preview)
	r.Get("/api/schedules/{id}/occurrences", scheduleHandler.Occurrences)

	// Background processing
	r.Get("/api/scheduler", schedulerHandler.Status)
	r.Post("/api/scheduler/run", schedulerHandler.Run)

	return r
}
