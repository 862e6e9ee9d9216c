// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
)

// ScoresHandler serves the composite scores.
type ScoresHandler struct {
	deps Dependencies
}

// NewScoresHandler creates a new scores handler.
func NewScoresHandler(deps Dependencies) *ScoresHandler {
	return &ScoresHandler{deps: deps}
}

type scoresResponse struct {
	S1             float64 `json:"s1"`
	S2             float64 `json:"s2"`
	Sharpness      float64 `json:"sharpness"`
	Readiness      float64 `json:"readiness"`
	SCI            float64 `json:"sci"`
	CognitiveAge   float64 `json:"cognitive_age"`
	RQ             float64 `json:"rq"`
	REC            float64 `json:"rec"`
	PerformanceAvg float64 `json:"performance_avg"`
	RQState        string  `json:"rq_state"`
}

// HandleGetScores handles GET /v1/scores/{user} requests. An optional
// physio query parameter supplies an external physiological score for
// the readiness blend.
func (h *ScoresHandler) HandleGetScores(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	user, ok := userFromPath(r, "/v1/scores/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	var physio *float64
	if raw := r.URL.Query().Get("physio"); raw != "" {
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil || val < 0 || val > 100 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		physio = &val
	}

	scores, err := h.deps.GetCompositeScores(r.Context(), user, physio)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scoresResponse{
		S1:             scores.S1,
		S2:             scores.S2,
		Sharpness:      scores.Sharpness,
		Readiness:      scores.Readiness,
		SCI:            scores.SCI,
		CognitiveAge:   scores.CognitiveAge,
		RQ:             scores.RQ,
		REC:            scores.REC,
		PerformanceAvg: scores.PerformanceAvg,
		RQState:        string(scores.RQState),
	})
}
