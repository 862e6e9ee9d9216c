// Package api declares HTTP contracts and route registration helpers.
package api

import "net/http"

// ProgressHandler serves the weekly load report.
type ProgressHandler struct {
	deps Dependencies
}

// NewProgressHandler creates a new progress handler.
func NewProgressHandler(deps Dependencies) *ProgressHandler {
	return &ProgressHandler{deps: deps}
}

type progressResponse struct {
	Week             string             `json:"week"`
	RawByCategory    map[string]float64 `json:"raw_by_category"`
	CappedByCategory map[string]float64 `json:"capped_by_category"`
	CappedTotal      float64            `json:"capped_total"`
}

// HandleGetProgress handles GET /v1/progress/{user} requests.
func (h *ProgressHandler) HandleGetProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	user, ok := userFromPath(r, "/v1/progress/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	weekly, err := h.deps.GetWeeklyProgress(r.Context(), user)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progressResponse{
		Week:             weekly.Week,
		RawByCategory:    weekly.RawByCategory,
		CappedByCategory: weekly.CappedByCategory,
		CappedTotal:      weekly.CappedTotal,
	})
}
