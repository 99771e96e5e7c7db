// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/baseline/internal/adapters/repository"
	"github.com/okian/baseline/internal/adapters/source"
	"github.com/okian/baseline/internal/domain/aggregate"
	"github.com/okian/baseline/internal/domain/model"
	"github.com/okian/baseline/internal/domain/recompute"
	"github.com/okian/baseline/internal/domain/surface"
	"github.com/okian/baseline/internal/domain/types"
	"github.com/okian/baseline/pkg/logger"
)

// Service wires the match source, the recompute controller and the
// snapshot store, and implements the read API consumed by HTTP
// handlers.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      *repository.SnapshotStore
	controller *recompute.Controller
	src        source.Source

	// Configuration
	historySize      int
	minRankedMatches int
	maxRankingLimit  int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSource sets the match source used by Run.
func WithSource(src source.Source) Option {
	return func(s *Service) {
		s.src = src
	}
}

// WithHistorySize sets the per-player recent-match window.
func WithHistorySize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.historySize = n
		}
	}
}

// WithMinRankedMatches sets the ranking eligibility threshold.
func WithMinRankedMatches(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minRankedMatches = n
		}
	}
}

// WithMaxRankingLimit caps ranking query sizes.
func WithMaxRankingLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRankingLimit = n
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		historySize:      20,
		minRankedMatches: 5,
		maxRankingLimit:  500,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.store = repository.NewSnapshotStore(
		repository.WithMinRankedMatches(s.minRankedMatches),
	)
	s.controller = recompute.New(s.store,
		recompute.WithAggregator(aggregate.New(aggregate.WithHistorySize(s.historySize))),
		recompute.WithLogger(s.logger.Named("recompute")),
	)

	s.started = true
	s.logger.Info(ctx, "rating service started",
		logger.Int("historySize", s.historySize),
		logger.Int("minRankedMatches", s.minRankedMatches),
	)
	return nil
}

// Stop shuts the service down. Published state is in-memory only, so
// there is nothing to flush.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "rating service stopped")
}

// ready reports whether Start has completed.
func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Run fetches the configured source and performs a recompute run.
func (s *Service) Run(ctx context.Context, mode recompute.Mode) (recompute.Report, error) {
	if err := s.ready(); err != nil {
		return recompute.Report{Mode: mode}, err
	}
	if s.src == nil {
		return recompute.Report{Mode: mode}, fmt.Errorf("%w: no source configured", recompute.ErrSource)
	}
	records, err := s.src.Fetch(ctx)
	if err != nil {
		return recompute.Report{Mode: mode}, fmt.Errorf("%w: %v", recompute.ErrSource, err)
	}
	return s.controller.Run(ctx, mode, records)
}

// RunRecords performs a recompute run over an explicit batch, bypassing
// the configured source.
func (s *Service) RunRecords(ctx context.Context, mode recompute.Mode, records []model.Record) (recompute.Report, error) {
	if err := s.ready(); err != nil {
		return recompute.Report{Mode: mode}, err
	}
	return s.controller.Run(ctx, mode, records)
}

// Ranking returns the ranked list for the surface.
func (s *Service) Ranking(ctx context.Context, surf surface.Surface, limit int) ([]types.RankingEntry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.store.Ranking(ctx, surf, limit)
}

// PlayerProfile resolves a player with all surface ratings and recent
// matches. Players below the ranking threshold still get a profile.
func (s *Service) PlayerProfile(ctx context.Context, playerID string) (types.PlayerProfile, error) {
	if err := s.ready(); err != nil {
		return types.PlayerProfile{}, err
	}
	player, err := s.store.Player(ctx, playerID)
	if err != nil {
		return types.PlayerProfile{}, err
	}
	profile := types.PlayerProfile{
		Player:  player,
		Ratings: make(map[string]model.SurfaceRating),
	}
	for _, surf := range surface.All() {
		if r, err := s.store.SurfaceRating(ctx, playerID, surf); err == nil {
			profile.Ratings[string(surf)] = r
		}
	}
	recent, err := s.store.RecentMatches(ctx, playerID)
	if err != nil {
		return types.PlayerProfile{}, err
	}
	profile.RecentMatches = recent
	return profile, nil
}

// SearchPlayers returns players whose name contains the query.
func (s *Service) SearchPlayers(ctx context.Context, query string, limit int) []model.PlayerRef {
	if err := s.ready(); err != nil {
		return nil
	}
	return s.store.SearchPlayers(ctx, query, limit)
}

// Metadata describes the published snapshot.
func (s *Service) Metadata(ctx context.Context) types.Metadata {
	if err := s.ready(); err != nil {
		return types.Metadata{}
	}
	meta := types.Metadata{LastUpdate: s.store.LastUpdate(ctx)}
	if snap := s.store.Published(); snap != nil {
		meta.TotalMatches = snap.TotalMatches()
		meta.TotalPlayers = len(snap.Players)
		meta.Version = snap.Version
	}
	return meta
}

// MaxRankingLimit exposes the configured ranking cap for the API layer.
func (s *Service) MaxRankingLimit() int {
	return s.maxRankingLimit
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":          s.started,
		"historySize":      s.historySize,
		"minRankedMatches": s.minRankedMatches,
	}
	if s.started {
		stats["players"] = s.store.Count(ctx)
		stats["runState"] = string(s.controller.State())
		if snap := s.store.Published(); snap != nil {
			stats["snapshotVersion"] = snap.Version
			stats["totalMatches"] = snap.TotalMatches()
		}
	}
	return stats
}
