package model

import (
	"time"

	"github.com/okian/baseline/internal/domain/surface"
)

// SurfaceRating is a player's rating state on one surface. Created
// lazily on the first processed match, mutated only by the aggregator,
// never deleted.
type SurfaceRating struct {
	PlayerID      string    `json:"player_id"`
	Surface       string    `json:"surface"`
	Rating        float64   `json:"rating"`
	Peak          float64   `json:"peak_rating"`
	Wins          int       `json:"wins"`
	Losses        int       `json:"losses"`
	MatchesPlayed int       `json:"matches_played"`
	LastMatchDate time.Time `json:"last_match_date"`
}

// HistoryEntry is one match as seen from a single player's side,
// retained in a bounded recent window for profile display.
type HistoryEntry struct {
	MatchKey     string    `json:"match_id"`
	Date         time.Time `json:"date"`
	Tournament   string    `json:"tournament"`
	Round        string    `json:"round"`
	Surface      string    `json:"surface"`
	OpponentID   string    `json:"opponent_id"`
	OpponentName string    `json:"opponent"`
	Score        string    `json:"score"`
	Won          bool      `json:"won"`
	EloChange    float64   `json:"elo_change"`
}

// Watermark marks the replay position of the most recently processed
// match on a surface. The zero value means nothing was processed yet.
type Watermark struct {
	SortKey
}

// Set reports whether any match has been processed on the surface.
func (w Watermark) Set() bool {
	return !w.Date.IsZero()
}

// SurfaceState is the complete rating state of one surface: the full
// known match set (the replay archive), per-player ratings and bounded
// histories, and the processing watermark. One run owns the state it is
// building exclusively; published states are never mutated.
type SurfaceState struct {
	Matches   []Record // full known set in replay order
	Ratings   map[string]*SurfaceRating
	History   map[string][]HistoryEntry
	Watermark Watermark
}

// NewSurfaceState returns an empty surface state.
func NewSurfaceState() *SurfaceState {
	return &SurfaceState{
		Ratings: make(map[string]*SurfaceRating),
		History: make(map[string][]HistoryEntry),
	}
}

// Clone deep-copies the state so an incremental fold can extend it
// without touching the published original.
func (s *SurfaceState) Clone() *SurfaceState {
	c := &SurfaceState{
		Matches:   append([]Record(nil), s.Matches...),
		Ratings:   make(map[string]*SurfaceRating, len(s.Ratings)),
		History:   make(map[string][]HistoryEntry, len(s.History)),
		Watermark: s.Watermark,
	}
	for id, r := range s.Ratings {
		cp := *r
		c.Ratings[id] = &cp
	}
	for id, h := range s.History {
		c.History[id] = append([]HistoryEntry(nil), h...)
	}
	return c
}

// Snapshot is the versioned, immutable unit of published state. A run
// builds a new snapshot and installs it as a whole; readers always see
// either the previous or the next one, never a mix.
type Snapshot struct {
	Version    uint64
	Surfaces   map[surface.Surface]*SurfaceState
	Players    map[string]PlayerRef
	LastUpdate time.Time
}

// NewSnapshot returns an empty snapshot at version zero.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Surfaces: make(map[surface.Surface]*SurfaceState),
		Players:  make(map[string]PlayerRef),
	}
}

// Surface returns the state for a surface, or nil if none was ever
// processed.
func (s *Snapshot) Surface(surf surface.Surface) *SurfaceState {
	if s == nil {
		return nil
	}
	return s.Surfaces[surf]
}

// TotalMatches counts matches across all surface archives.
func (s *Snapshot) TotalMatches() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, st := range s.Surfaces {
		n += len(st.Matches)
	}
	return n
}
