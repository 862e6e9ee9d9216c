// Package api declares HTTP contracts and route registration helpers.
package api

import "net/http"

// SkillsHandler serves the current skill vector.
type SkillsHandler struct {
	deps Dependencies
}

// NewSkillsHandler creates a new skills handler.
func NewSkillsHandler(deps Dependencies) *SkillsHandler {
	return &SkillsHandler{deps: deps}
}

type skillsResponse struct {
	AE float64 `json:"ae"`
	RA float64 `json:"ra"`
	CT float64 `json:"ct"`
	IN float64 `json:"in"`
}

// HandleGetSkills handles GET /v1/skills/{user} requests.
func (h *SkillsHandler) HandleGetSkills(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	user, ok := userFromPath(r, "/v1/skills/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	v, err := h.deps.GetSkillVector(r.Context(), user)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, skillsResponse{AE: v.AE, RA: v.RA, CT: v.CT, IN: v.IN})
}
