// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/baseline/internal/adapters/repository"
	"github.com/okian/baseline/internal/domain/model"
	"github.com/okian/baseline/internal/domain/recompute"
	"github.com/okian/baseline/internal/domain/surface"
	"github.com/okian/baseline/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Read operations over the published snapshot.
	Ranking(ctx context.Context, surf surface.Surface, limit int) ([]types.RankingEntry, error)
	PlayerProfile(ctx context.Context, playerID string) (types.PlayerProfile, error)
	SearchPlayers(ctx context.Context, query string, limit int) []model.PlayerRef
	Metadata(ctx context.Context) types.Metadata

	// Run triggers a recompute against the configured source.
	Run(ctx context.Context, mode recompute.Mode) (recompute.Report, error)

	// MaxRankingLimit caps ranking query sizes.
	MaxRankingLimit() int
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	surfacesHandler  *SurfacesHandler
	rankingsHandler  *RankingsHandler
	playersHandler   *PlayersHandler
	metadataHandler  *MetadataHandler
	recomputeHandler *RecomputeHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		surfacesHandler:  NewSurfacesHandler(),
		rankingsHandler:  NewRankingsHandler(deps, deps.MaxRankingLimit()),
		playersHandler:   NewPlayersHandler(deps),
		metadataHandler:  NewMetadataHandler(deps),
		recomputeHandler: NewRecomputeHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/surfaces", MetricsMiddleware(s.surfacesHandler.HandleGetSurfaces, "surfaces"))
	mux.HandleFunc("/api/rankings/", MetricsMiddleware(s.rankingsHandler.HandleGetRanking, "rankings"))
	mux.HandleFunc("/api/players", MetricsMiddleware(s.playersHandler.HandleSearchPlayers, "players_search"))
	mux.HandleFunc("/api/players/", MetricsMiddleware(s.playersHandler.HandleGetPlayer, "players"))
	mux.HandleFunc("/api/metadata", MetricsMiddleware(s.metadataHandler.HandleGetMetadata, "metadata"))
	mux.HandleFunc("/api/recompute", MetricsMiddleware(s.recomputeHandler.HandleRecompute, "recompute"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
