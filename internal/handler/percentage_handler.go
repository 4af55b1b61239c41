package handler

import (
	"net/http"

	"github.com/wealthpath/cadence/internal/apperror"
	"github.com/wealthpath/cadence/pkg/percentage"
)

type PercentageHandler struct{}

func NewPercentageHandler() *PercentageHandler {
	return &PercentageHandler{}
}

// ParsePercentageRequest carries percentage text. With Scaled set the value is
// read as "12.5" or "12.5%" rather than the fraction "0.125".
type ParsePercentageRequest struct {
	Value  string `json:"value"`
	Scaled bool   `json:"scaled"`
}

type PercentageResponse struct {
	Value     percentage.Percentage `json:"value"`
	Scaled    string                `json:"scaled"`
	Formatted string                `json:"formatted"`
	Raw       string                `json:"raw"`
}

// Parse godoc
// @Summary Parse a percentage
// @Description Parse a fraction or a scaled percentage and render it
// @Tags percentages
// @Accept json
// @Produce json
// @Param input body ParsePercentageRequest true "Percentage text"
// @Success 200 {object} PercentageResponse
// @Failure 400 {object} ErrorResponse
// @Router /percentages/parse [post]
func (h *PercentageHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var req ParsePercentageRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		respondAppError(w, appErr)
		return
	}

	parse := percentage.Parse
	if req.Scaled {
		parse = percentage.ParseScaled
	}
	p, err := parse(req.Value)
	if err != nil {
		respondAppError(w, apperror.FromFormat("value", err))
		return
	}

	respondJSON(w, http.StatusOK, PercentageResponse{
		Value:     p,
		Scaled:    p.Scaled().String(),
		Formatted: p.String(),
		Raw:       p.Raw(),
	})
}
