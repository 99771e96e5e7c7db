// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/baseline/internal/domain/model"
	"github.com/okian/baseline/internal/domain/types"
)

// Search query bounds.
const (
	minSearchQueryLen  = 2
	defaultSearchLimit = 20
)

// PlayerDependencies defines the interface for player operations.
type PlayerDependencies interface {
	PlayerProfile(ctx context.Context, playerID string) (types.PlayerProfile, error)
	SearchPlayers(ctx context.Context, query string, limit int) []model.PlayerRef
}

// PlayersHandler handles player profile and search requests.
type PlayersHandler struct {
	deps PlayerDependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayerDependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandleGetPlayer handles GET /api/players/{player_id} requests.
func (h *PlayersHandler) HandleGetPlayer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/players/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	profile, err := h.deps.PlayerProfile(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type searchResponse struct {
	Query   string            `json:"query"`
	Results []model.PlayerRef `json:"results"`
	Count   int               `json:"count"`
}

// HandleSearchPlayers handles GET /api/players?q=&limit= requests.
func (h *PlayersHandler) HandleSearchPlayers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(query) < minSearchQueryLen {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	limit := defaultSearchLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		limit = n
	}
	results := h.deps.SearchPlayers(r.Context(), query, limit)
	if results == nil {
		results = []model.PlayerRef{}
	}
	writeJSON(w, http.StatusOK, searchResponse{
		Query:   query,
		Results: results,
		Count:   len(results),
	})
}
