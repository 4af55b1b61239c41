package handler

import (
	"net/http"
	"time"

	"github.com/wealthpath/cadence/pkg/datetime"
)

type SchedulerHandler struct {
	scheduler SchedulerStatus
}

func NewSchedulerHandler(scheduler SchedulerStatus) *SchedulerHandler {
	return &SchedulerHandler{scheduler: scheduler}
}

type SchedulerStatusResponse struct {
	Running bool   `json:"running"`
	NextRun string `json:"nextRun,omitempty"`
	LastRun string `json:"lastRun,omitempty"`
}

func formatOptional(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return datetime.Format(t)
}

// Status godoc
// @Summary Scheduler status
// @Description Report whether due schedules are being processed and when the job runs next
// @Tags scheduler
// @Produce json
// @Success 200 {object} SchedulerStatusResponse
// @Router /scheduler [get]
func (h *SchedulerHandler) Status(w http.ResponseWriter, r *http.Request) {
	if h.scheduler == nil {
		respondJSON(w, http.StatusOK, SchedulerStatusResponse{})
		return
	}
	respondJSON(w, http.StatusOK, SchedulerStatusResponse{
		Running: h.scheduler.IsRunning(),
		NextRun: formatOptional(h.scheduler.NextRunTime()),
		LastRun: formatOptional(h.scheduler.LastRunTime()),
	})
}

// Run godoc
// @Summary Process due schedules now
// @Tags scheduler
// @Success 202
// @Failure 503 {object} ErrorResponse
// @Router /scheduler/run [post]
func (h *SchedulerHandler) Run(w http.ResponseWriter, r *http.Request) {
	if h.scheduler == nil {
		respondError(w, http.StatusServiceUnavailable, "scheduler is disabled")
		return
	}
	h.scheduler.RunNow()
	w.WriteHeader(http.StatusAccepted)
}
