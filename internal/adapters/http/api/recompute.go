// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/baseline/internal/domain/recompute"
)

// RecomputeDependencies defines the interface for triggering runs.
type RecomputeDependencies interface {
	Run(ctx context.Context, mode recompute.Mode) (recompute.Report, error)
}

// RecomputeHandler handles run trigger requests.
type RecomputeHandler struct {
	deps RecomputeDependencies
}

// NewRecomputeHandler creates a new recompute handler.
func NewRecomputeHandler(deps RecomputeDependencies) *RecomputeHandler {
	return &RecomputeHandler{deps: deps}
}

type runResponse struct {
	Status string           `json:"status"`
	Report recompute.Report `json:"report"`
}

// HandleRecompute handles POST /api/recompute?mode={incremental|full}
// requests. The run is synchronous: the external scheduler owns any
// timeout.
func (h *RecomputeHandler) HandleRecompute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	mode := recompute.ModeIncremental
	switch r.URL.Query().Get("mode") {
	case "", "incremental":
	case "full":
		mode = recompute.ModeFull
	default:
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	report, err := h.deps.Run(r.Context(), mode)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, runResponse{Status: "failed", Report: report})
		return
	}
	writeJSON(w, http.StatusOK, runResponse{Status: "ok", Report: report})
}
