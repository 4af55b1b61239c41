package handler

import (
	"net/http"

	"github.com/wealthpath/cadence/internal/service"
)

type ScheduleHandler struct {
	scheduleService ScheduleServiceInterface
}

func NewScheduleHandler(scheduleService ScheduleServiceInterface) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// Create godoc
// @Summary Create a schedule
// @Description Create a recurring schedule. interval is ISO 8601 text such as "P1M"; escalation is a fraction applied after each run.
// @Tags schedules
// @Accept json
// @Produce json
// @Param input body service.CreateScheduleInput true "Schedule data"
// @Success 201 {object} model.Schedule
// @Failure 400 {object} ErrorResponse
// @Router /schedules [post]
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateScheduleInput
	if appErr := decodeBody(r, &input); appErr != nil {
		respondAppError(w, appErr)
		return
	}

	sched, err := h.scheduleService.Create(r.Context(), input)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, sched)
}

// List godoc
// @Summary List schedules
// @Description List schedules ordered by their next run
// @Tags schedules
// @Produce json
// @Param active query bool false "Only active schedules"
// @Success 200 {array} model.Schedule
// @Failure 500 {object} ErrorResponse
// @Router /schedules [get]
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly, appErr := queryBool(r, "active", false)
	if appErr != nil {
		respondAppError(w, appErr)
		return
	}

	items, err := h.scheduleService.List(r.Context(), activeOnly)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, items)
}

// Get godoc
// @Summary Get a schedule
// @Tags schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} model.Schedule
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /schedules/{id} [get]
func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, appErr := idParam(r)
	if appErr != nil {
		respondAppError(w, appErr)
		return
	}

	sched, err := h.scheduleService.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, sched)
}

// Update godoc
// @Summary Update a schedule
// @Description Update fields of a schedule. Changing interval or startAt re-derives the next run.
// @Tags schedules
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param input body service.UpdateScheduleInput true "Fields to change"
// @Success 200 {object} model.Schedule
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /schedules/{id} [put]
func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, appErr := idParam(r)
	if appErr != nil {
		respondAppError(w, appErr)
		return
	}

	var input service.UpdateScheduleInput
	if appErr := decodeBody(r, &input); appErr != nil {
		respondAppError(w, appErr)
		return
	}

	sched, err := h.scheduleService.Update(r.Context(), id, input)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, sched)
}

// Delete godoc
// @Summary Delete a schedule
// @Tags schedules
// @Param id path string true "Schedule ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, appErr := idParam(r)
	if appErr != nil {
		respondAppError(w, appErr)
		return
	}

	if err := h.scheduleService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Pause godoc
// @Summary Pause a schedule
// @Tags schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} model.Schedule
// @Failure 404 {object} ErrorResponse
// @Router /schedules/{id}/pause [post]
func (h *ScheduleHandler) Pause(w http.ResponseWriter, r *http.Request) {
	id, appErr := idParam(r)
	if appErr != nil {
		respondAppError(w, appErr)
		return
	}

	sched, err := h.scheduleService.Pause(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, sched)
}

// Resume godoc
// @Summary Resume a schedule
// @Tags schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} model.Schedule
// @Failure 404 {object} ErrorResponse
// @Router /schedules/{id}/resume [post]
func (h *ScheduleHandler) Resume(w http.ResponseWriter, r *http.Request) {
	id, appErr := idParam(r)
	if appErr != nil {
		respondAppError(w, appErr)
		return
	}

	sched, err := h.scheduleService.Resume(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, sched)
}

// Preview godoc
// @Summary Preview upcoming runs
// @Description Compute the next runs of a schedule with escalated amounts, without storing them
// @Tags schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Param count query int false "Number of runs"
// @Success 200 {array} model.PlannedRun
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /schedules/{id}/preview [get]
func (h *ScheduleHandler) Preview(w http.ResponseWriter, r *http.Request) {
	id, appErr := idParam(r)
	if appErr != nil {
		respondAppError(w, appErr)
		return
	}
	count, appErr := queryInt(r, "count", 0)
	if appErr != nil {
		respondAppError(w, appErr)
		return
	}

	runs, err := h.scheduleService.Preview(r.Context(), id, count)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, runs)
}

// Occurrences godoc
// @Summary List recorded runs
// @Tags schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Param limit query int false "Maximum number of runs"
// @Success 200 {array} model.Occurrence
// @Failure 404 {object} ErrorResponse
// @Router /schedules/{id}/occurrences [get]
func (h *ScheduleHandler) Occurrences(w http.ResponseWriter, r *http.Request) {
	id, appErr := idParam(r)
	if appErr != nil {
		respondAppError(w, appErr)
		return
	}
	limit, appErr := queryInt(r, "limit", 0)
	if appErr != nil {
		respondAppError(w, appErr)
		return
	}

	occs, err := h.scheduleService.Occurrences(r.Context(), id, limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, occs)
}
