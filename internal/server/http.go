package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alfredjeanlab/archscore/internal/engine"
	"github.com/alfredjeanlab/archscore/internal/library"
	"github.com/alfredjeanlab/archscore/internal/model"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health) must include
// a valid Authorization: Bearer <token> header.
func (s *ScoreServer) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	s.route(mux, "GET /v1/health", s.handleHealth)
	s.route(mux, "GET /v1/library", s.handleLibrary)
	s.route(mux, "GET /v1/components", s.handleListComponents)
	s.route(mux, "GET /v1/components/{id}", s.handleGetComponent)
	s.route(mux, "GET /v1/tiers", s.handleListTiers)
	s.route(mux, "POST /v1/recalculate", s.handleRecalculate)
	s.route(mux, "POST /v1/propagation", s.handlePropagation)
	s.route(mux, "POST /v1/score", s.handleScore)
	s.route(mux, "POST /v1/compatibility", s.handleCompatibility)
	mux.HandleFunc("GET /v1/events/stream", s.handleEventStream)
	mux.Handle("GET /metrics", s.metrics.Handler())
	return AuthMiddleware(authToken, RecoveryMiddleware(s.logger, mux))
}

// route registers h under pattern with request duration instrumentation.
func (s *ScoreServer) route(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.Handle(pattern, s.metrics.instrument(pattern, h))
}

// handleHealth handles GET /v1/health.
func (s *ScoreServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	lib := "loading"
	if s.lib.Loaded() {
		lib = "loaded"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "library": lib})
}

// handleLibrary handles GET /v1/library.
func (s *ScoreServer) handleLibrary(w http.ResponseWriter, _ *http.Request) {
	if !s.lib.Loaded() {
		writeError(w, http.StatusServiceUnavailable, library.ErrNotLoaded.Error())
		return
	}
	cat := s.lib.Catalog()
	writeJSON(w, http.StatusOK, map[string]any{
		"source":         s.lib.Source().String(),
		"schema_version": cat.SchemaVersion,
		"components":     len(cat.Components),
		"tiers":          len(cat.Tiers),
	})
}

// handleListComponents handles GET /v1/components.
// An optional ?category= filter restricts the list to one component category.
func (s *ScoreServer) handleListComponents(w http.ResponseWriter, r *http.Request) {
	if !s.lib.Loaded() {
		writeError(w, http.StatusServiceUnavailable, library.ErrNotLoaded.Error())
		return
	}

	var comps []*model.Component
	if v := r.URL.Query().Get("category"); v != "" {
		cat := model.ComponentCategory(v)
		if !cat.IsValid() {
			writeError(w, http.StatusBadRequest, "invalid category "+v)
			return
		}
		comps = s.lib.ComponentsByCategory(cat)
	} else {
		comps = s.lib.Components()
	}
	if comps == nil {
		comps = []*model.Component{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"components": comps, "total": len(comps)})
}

// handleGetComponent handles GET /v1/components/{id}.
func (s *ScoreServer) handleGetComponent(w http.ResponseWriter, r *http.Request) {
	if !s.lib.Loaded() {
		writeError(w, http.StatusServiceUnavailable, library.ErrNotLoaded.Error())
		return
	}
	id := r.PathValue("id")
	c, ok := s.lib.GetComponent(id)
	if !ok {
		writeError(w, http.StatusNotFound, notFoundError(id).Error())
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// handleListTiers handles GET /v1/tiers.
func (s *ScoreServer) handleListTiers(w http.ResponseWriter, _ *http.Request) {
	if !s.lib.Loaded() {
		writeError(w, http.StatusServiceUnavailable, library.ErrNotLoaded.Error())
		return
	}
	tiers := s.lib.Tiers()
	if tiers == nil {
		tiers = []model.TierDefinition{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tiers": tiers})
}

// handleRecalculate handles POST /v1/recalculate.
func (s *ScoreServer) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	var in recalculateRequest
	if err := decodeRequest(w, r, &in); err != nil {
		writeServiceError(w, err)
		return
	}
	arch := in.architecture()
	if err := model.ValidateArchitecture(arch); err != nil {
		writeServiceError(w, err)
		return
	}

	ev, err := s.recalculate(r.Context(), arch, in.ChangedNodeID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// propagationResponse is the breadth-first wave for one edit.
type propagationResponse struct {
	ChangedNodeID   string                 `json:"changed_node_id"`
	PropagationHops []model.PropagationHop `json:"propagation_hops"`
	TotalDelayMs    int64                  `json:"total_delay_ms"`
}

// handlePropagation handles POST /v1/propagation.
// It needs only the edge list and so works before the library has loaded.
func (s *ScoreServer) handlePropagation(w http.ResponseWriter, r *http.Request) {
	var in propagationRequest
	if err := decodeRequest(w, r, &in); err != nil {
		writeServiceError(w, err)
		return
	}

	hops := engine.PropagationHops(in.ChangedNodeID, in.Edges)
	resp := propagationResponse{
		ChangedNodeID:   in.ChangedNodeID,
		PropagationHops: hops,
	}
	if n := len(hops); n > 0 {
		resp.TotalDelayMs = hops[n-1].DelayMs
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleScore handles POST /v1/score.
func (s *ScoreServer) handleScore(w http.ResponseWriter, r *http.Request) {
	var in architectureRequest
	if err := decodeRequest(w, r, &in); err != nil {
		writeServiceError(w, err)
		return
	}
	arch := in.architecture()
	if err := model.ValidateArchitecture(arch); err != nil {
		writeServiceError(w, err)
		return
	}

	resp, err := s.score(r.Context(), arch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCompatibility handles POST /v1/compatibility.
func (s *ScoreServer) handleCompatibility(w http.ResponseWriter, r *http.Request) {
	var in compatibilityRequest
	if err := decodeRequest(w, r, &in); err != nil {
		writeServiceError(w, err)
		return
	}

	res, err := s.compatibility(in.SourceComponentID, in.TargetComponentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// writeServiceError maps a service error to its HTTP status.
func writeServiceError(w http.ResponseWriter, err error) {
	var (
		ie inputError
		nf notFoundError
		ve *model.ValidationError
	)
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  ve.Error(),
			"fields": fieldErrors(ve),
		})
	case errors.As(err, &ie):
		writeError(w, http.StatusBadRequest, ie.Error())
	case errors.As(err, &nf):
		writeError(w, http.StatusNotFound, nf.Error())
	case errors.Is(err, library.ErrNotLoaded):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
