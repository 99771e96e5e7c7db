// Package repository defines the published-state store interface and errors.
package repository

import (
	"context"
	"time"

	"github.com/okian/baseline/internal/domain/model"
	"github.com/okian/baseline/internal/domain/surface"
	"github.com/okian/baseline/internal/domain/types"
)

// Store provides read access to the last published snapshot and the
// atomic publish operation used by the recompute controller. Reads are
// pure and never wait on an in-progress run.
type Store interface {
	// Published returns the last published snapshot, or nil before the
	// first successful run.
	Published() *model.Snapshot

	// Publish installs a new snapshot as a unit. Versions must be
	// strictly increasing; a violation leaves the previous snapshot
	// authoritative.
	Publish(ctx context.Context, snap *model.Snapshot) error

	// Ranking returns the ranked list for a surface, limited to at most
	// limit rows. Surfaces with no qualifying players yield an empty
	// list, not an error.
	Ranking(ctx context.Context, surf surface.Surface, limit int) ([]types.RankingEntry, error)

	// SurfaceRating returns a single player's rating on one surface.
	// Returns ErrNotFound for players never seen there.
	SurfaceRating(ctx context.Context, playerID string, surf surface.Surface) (model.SurfaceRating, error)

	// RecentMatches returns a player's recent matches across all
	// surfaces, newest first.
	RecentMatches(ctx context.Context, playerID string) ([]model.HistoryEntry, error)

	// Player resolves a player by id. Returns ErrNotFound when unknown.
	Player(ctx context.Context, playerID string) (model.PlayerRef, error)

	// SearchPlayers returns players whose name contains the query,
	// case-insensitively, ordered by id for determinism.
	SearchPlayers(ctx context.Context, query string, limit int) []model.PlayerRef

	// LastUpdate returns the publish time of the current snapshot.
	LastUpdate(ctx context.Context) time.Time

	// Count returns the number of players tracked.
	Count(ctx context.Context) int
}
