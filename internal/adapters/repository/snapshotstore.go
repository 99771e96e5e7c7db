package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/baseline/internal/domain/model"
	"github.com/okian/baseline/internal/domain/surface"
	"github.com/okian/baseline/internal/domain/types"
	"github.com/okian/baseline/pkg/metrics"
)

// Default store configuration constants.
const (
	defaultMinRankedMatches = 5
	defaultSearchLimit      = 20
)

// published pairs a snapshot with the ranking views derived from it.
// Both are immutable once installed, so readers work lock-free off a
// single atomic pointer and always observe a consistent pair.
type published struct {
	snap     *model.Snapshot
	rankings map[surface.Surface][]types.RankingEntry
}

// SnapshotStore is the in-memory Store implementation. Writes replace
// the whole published state in one pointer swap; nothing is ever
// mutated in place.
type SnapshotStore struct {
	minRankedMatches int

	mu      sync.Mutex // serializes Publish
	current atomic.Pointer[published]
}

// Option applies a configuration option to the SnapshotStore.
type Option func(*SnapshotStore)

// WithMinRankedMatches sets the minimum matches played for a player to
// appear in rankings.
func WithMinRankedMatches(n int) Option {
	return func(s *SnapshotStore) {
		if n > 0 {
			s.minRankedMatches = n
		}
	}
}

// NewSnapshotStore constructs an empty snapshot store.
func NewSnapshotStore(opts ...Option) *SnapshotStore {
	s := &SnapshotStore{minRankedMatches: defaultMinRankedMatches}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Published returns the last published snapshot, or nil.
func (s *SnapshotStore) Published() *model.Snapshot {
	if cur := s.current.Load(); cur != nil {
		return cur.snap
	}
	return nil
}

// Publish derives the ranking views for the snapshot and installs both
// with a single pointer swap. If the version does not advance the call
// fails and the previous snapshot stays authoritative.
func (s *SnapshotStore) Publish(ctx context.Context, snap *model.Snapshot) error {
	if snap == nil {
		return ErrNilSnapshot
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cur := s.current.Load(); cur != nil && snap.Version <= cur.snap.Version {
		return ErrStaleSnapshot
	}

	rankings := make(map[surface.Surface][]types.RankingEntry, len(snap.Surfaces))
	for surf, st := range snap.Surfaces {
		rankings[surf] = buildRanking(st, snap.Players, s.minRankedMatches)
	}

	s.current.Store(&published{snap: snap, rankings: rankings})

	metrics.RecordSnapshotPublish()
	metrics.UpdateSnapshotLastUnix(float64(snap.LastUpdate.Unix()))
	metrics.UpdateTotalPlayers(len(snap.Players))
	metrics.UpdateTotalMatches(snap.TotalMatches())
	return nil
}

// buildRanking derives the ranked view of one surface: players with
// enough matches, best rating first, ties broken by ascending player id
// so the order is reproducible, contiguous ranks from 1.
func buildRanking(st *model.SurfaceState, players map[string]model.PlayerRef, minMatches int) []types.RankingEntry {
	entries := make([]types.RankingEntry, 0, len(st.Ratings))
	for id, r := range st.Ratings {
		if r.MatchesPlayed < minMatches {
			continue
		}
		p := players[id]
		entries = append(entries, types.RankingEntry{
			PlayerID:      id,
			Name:          p.Name,
			Country:       p.Country,
			Rating:        r.Rating,
			Peak:          r.Peak,
			Wins:          r.Wins,
			Losses:        r.Losses,
			MatchesPlayed: r.MatchesPlayed,
			LastMatchDate: r.LastMatchDate,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Rating != entries[j].Rating {
			return entries[i].Rating > entries[j].Rating
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// Ranking implements Store.Ranking.
func (s *SnapshotStore) Ranking(ctx context.Context, surf surface.Surface, limit int) ([]types.RankingEntry, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	cur := s.current.Load()
	if cur == nil {
		return []types.RankingEntry{}, nil
	}
	ranking := cur.rankings[surf]
	if limit > len(ranking) {
		limit = len(ranking)
	}
	out := make([]types.RankingEntry, limit)
	copy(out, ranking[:limit])
	return out, nil
}

// SurfaceRating implements Store.SurfaceRating.
func (s *SnapshotStore) SurfaceRating(ctx context.Context, playerID string, surf surface.Surface) (model.SurfaceRating, error) {
	cur := s.current.Load()
	if cur == nil {
		return model.SurfaceRating{}, ErrNotFound
	}
	st := cur.snap.Surface(surf)
	if st == nil {
		return model.SurfaceRating{}, ErrNotFound
	}
	r, ok := st.Ratings[playerID]
	if !ok {
		return model.SurfaceRating{}, ErrNotFound
	}
	return *r, nil
}

// RecentMatches implements Store.RecentMatches. Entries from all
// surfaces are merged newest first; each surface contributes at most
// its bounded window.
func (s *SnapshotStore) RecentMatches(ctx context.Context, playerID string) ([]model.HistoryEntry, error) {
	cur := s.current.Load()
	if cur == nil {
		return nil, ErrNotFound
	}
	if _, ok := cur.snap.Players[playerID]; !ok {
		return nil, ErrNotFound
	}
	var merged []model.HistoryEntry
	for _, st := range cur.snap.Surfaces {
		merged = append(merged, st.History[playerID]...)
	}
	sort.Slice(merged, func(i, j int) bool {
		if !merged[i].Date.Equal(merged[j].Date) {
			return merged[i].Date.After(merged[j].Date)
		}
		return merged[i].MatchKey < merged[j].MatchKey
	})
	return merged, nil
}

// Player implements Store.Player.
func (s *SnapshotStore) Player(ctx context.Context, playerID string) (model.PlayerRef, error) {
	cur := s.current.Load()
	if cur == nil {
		return model.PlayerRef{}, ErrNotFound
	}
	p, ok := cur.snap.Players[playerID]
	if !ok {
		return model.PlayerRef{}, ErrNotFound
	}
	return p, nil
}

// SearchPlayers implements Store.SearchPlayers.
func (s *SnapshotStore) SearchPlayers(ctx context.Context, query string, limit int) []model.PlayerRef {
	if limit < 1 {
		limit = defaultSearchLimit
	}
	cur := s.current.Load()
	if cur == nil {
		return nil
	}
	q := strings.ToLower(strings.TrimSpace(query))
	var out []model.PlayerRef
	for _, p := range cur.snap.Players {
		if q == "" || strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// LastUpdate implements Store.LastUpdate.
func (s *SnapshotStore) LastUpdate(ctx context.Context) time.Time {
	if cur := s.current.Load(); cur != nil {
		return cur.snap.LastUpdate
	}
	return time.Time{}
}

// Count implements Store.Count.
func (s *SnapshotStore) Count(ctx context.Context) int {
	if cur := s.current.Load(); cur != nil {
		return len(cur.snap.Players)
	}
	return 0
}
