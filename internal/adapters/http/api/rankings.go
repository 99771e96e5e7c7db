// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/baseline/internal/domain/surface"
	"github.com/okian/baseline/internal/domain/types"
)

// defaultRankingLimit applies when the limit query parameter is absent.
const defaultRankingLimit = 100

// RankingDependencies defines the interface for ranking operations.
type RankingDependencies interface {
	Ranking(ctx context.Context, surf surface.Surface, limit int) ([]types.RankingEntry, error)
}

// RankingsHandler handles surface ranking requests.
type RankingsHandler struct {
	deps     RankingDependencies
	maxLimit int
}

// NewRankingsHandler creates a new rankings handler.
func NewRankingsHandler(deps RankingDependencies, maxLimit int) *RankingsHandler {
	return &RankingsHandler{deps: deps, maxLimit: maxLimit}
}

type rankingResponse struct {
	Surface  string               `json:"surface"`
	Rankings []types.RankingEntry `json:"rankings"`
	Count    int                  `json:"count"`
}

// HandleGetRanking handles GET /api/rankings/{surface}?limit=N requests.
func (h *RankingsHandler) HandleGetRanking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	raw := strings.TrimPrefix(r.URL.Path, "/api/rankings/")
	if raw == "" || strings.Contains(raw, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	surf, ok := surface.Parse(raw)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown_surface", ErrUnknownSurface)
		return
	}

	limit := defaultRankingLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		limit = n
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}

	entries, err := h.deps.Ranking(r.Context(), surf, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, rankingResponse{
		Surface:  string(surf),
		Rankings: entries,
		Count:    len(entries),
	})
}
