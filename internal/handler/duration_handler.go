package handler

import (
	"net/http"
	"time"

	"github.com/wealthpath/cadence/internal/apperror"
	"github.com/wealthpath/cadence/pkg/datetime"
	"github.com/wealthpath/cadence/pkg/duration"
)

// DurationHandler exposes ISO 8601 duration parsing and calendar arithmetic.
type DurationHandler struct {
	now func() time.Time
}

func NewDurationHandler() *DurationHandler {
	return &DurationHandler{now: time.Now}
}

type ParseDurationRequest struct {
	Value string `json:"value"`
}

type DurationResponse struct {
	Canonical string   `json:"canonical"`
	Empty     bool     `json:"empty"`
	Years     *float64 `json:"years,omitempty"`
	Months    *float64 `json:"months,omitempty"`
	Weeks     *float64 `json:"weeks,omitempty"`
	Days      *float64 `json:"days,omitempty"`
	Hours     *float64 `json:"hours,omitempty"`
	Minutes   *float64 `json:"minutes,omitempty"`
	Seconds   *float64 `json:"seconds,omitempty"`
}

func newDurationResponse(d duration.Duration) DurationResponse {
	f := d.Fields()
	return DurationResponse{
		Canonical: d.String(),
		Empty:     d.IsEmpty(),
		Years:     f.Years,
		Months:    f.Months,
		Weeks:     f.Weeks,
		Days:      f.Days,
		Hours:     f.Hours,
		Minutes:   f.Minutes,
		Seconds:   f.Seconds,
	}
}

// Parse godoc
// @Summary Parse a duration
// @Description Parse ISO 8601 duration text into its components and canonical form
// @Tags durations
// @Accept json
// @Produce json
// @Param input body ParseDurationRequest true "Duration text"
// @Success 200 {object} DurationResponse
// @Failure 400 {object} ErrorResponse
// @Router /durations/parse [post]
func (h *DurationHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var req ParseDurationRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		respondAppError(w, appErr)
		return
	}

	d, err := duration.Parse(req.Value)
	if err != nil {
		respondAppError(w, apperror.FromFormat("value", err))
		return
	}

	respondJSON(w, http.StatusOK, newDurationResponse(d))
}

type ApplyDurationRequest struct {
	Duration string `json:"duration"`
	Start    string `json:"start"`
}

type ApplyDurationResponse struct {
	Start          string  `json:"start"`
	End            string  `json:"end"`
	Elapsed        string  `json:"elapsed"`
	ElapsedSeconds float64 `json:"elapsedSeconds"`
}

// Apply godoc
// @Summary Apply a duration to an instant
// @Description Add a duration to a start time using calendar arithmetic in the start's offset. An empty start means now.
// @Tags durations
// @Accept json
// @Produce json
// @Param input body ApplyDurationRequest true "Duration and start"
// @Success 200 {object} ApplyDurationResponse
// @Failure 400 {object} ErrorResponse
// @Router /durations/apply [post]
func (h *DurationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req ApplyDurationRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		respondAppError(w, appErr)
		return
	}

	d, err := duration.Parse(req.Duration)
	if err != nil {
		respondAppError(w, apperror.FromFormat("duration", err))
		return
	}

	start := h.now()
	if req.Start != "" {
		start, err = datetime.Parse(req.Start)
		if err != nil {
			respondAppError(w, apperror.FromFormat("start", err))
			return
		}
	}

	end := d.Apply(start)
	elapsed := end.Sub(start)
	respondJSON(w, http.StatusOK, ApplyDurationResponse{
		Start:          datetime.Format(start),
		End:            datetime.Format(end),
		Elapsed:        elapsed.String(),
		ElapsedSeconds: elapsed.Seconds(),
	})
}

type CompareDurationsResponse struct {
	A      string `json:"a"`
	B      string `json:"b"`
	Result int    `json:"result"`
	Equal  bool   `json:"equal"`
}

// Compare godoc
// @Summary Compare two durations
// @Description Order two durations by their canonical text
// @Tags durations
// @Produce json
// @Param a query string true "First duration"
// @Param b query string true "Second duration"
// @Success 200 {object} CompareDurationsResponse
// @Failure 400 {object} ErrorResponse
// @Router /durations/compare [get]
func (h *DurationHandler) Compare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	a, err := duration.Parse(q.Get("a"))
	if err != nil {
		respondAppError(w, apperror.FromFormat("a", err))
		return
	}
	b, err := duration.Parse(q.Get("b"))
	if err != nil {
		respondAppError(w, apperror.FromFormat("b", err))
		return
	}

	respondJSON(w, http.StatusOK, CompareDurationsResponse{
		A:      a.String(),
		B:      b.String(),
		Result: a.Compare(b),
		Equal:  a.Equal(b),
	})
}
