// Package aggregate folds ordered match sequences into per-player,
// per-surface rating state.
package aggregate

import (
	"time"

	"github.com/okian/baseline/internal/domain/model"
	"github.com/okian/baseline/internal/domain/rating"
	"github.com/okian/baseline/internal/domain/surface"
)

// defaultHistorySize bounds the recent-match window kept per player.
const defaultHistorySize = 20

// Aggregator applies the Elo update rule over a sequence of matches.
// Folding is strictly sequential: each match's inputs are the previous
// match's outputs. The aggregator itself is stateless and safe to share
// across surfaces running in parallel.
type Aggregator struct {
	historySize int
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithHistorySize sets the per-player recent-match window capacity.
func WithHistorySize(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.historySize = n
		}
	}
}

// New constructs an Aggregator.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{historySize: defaultHistorySize}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Apply folds ordered matches into state, mutating it in place. The
// caller owns state exclusively: pass a fresh state for a full replay
// or a clone of the published one for an incremental fold. Applying the
// same ordered suffix onto a cloned prior state yields the same result
// as folding the whole sequence from empty.
func (a *Aggregator) Apply(state *model.SurfaceState, surf surface.Surface, ordered []model.Record) {
	for _, rec := range ordered {
		a.applyOne(state, surf, rec)
	}
}

func (a *Aggregator) applyOne(state *model.SurfaceState, surf surface.Surface, rec model.Record) {
	ra := a.ensure(state, rec.PlayerA.ID, surf)
	rb := a.ensure(state, rec.PlayerB.ID, surf)

	aWon := rec.WinnerID == rec.PlayerA.ID
	res := rating.Update(ra.Rating, rb.Rating, aWon)

	applySide(ra, res.NewA, aWon, rec.Date)
	applySide(rb, res.NewB, !aWon, rec.Date)

	key := rec.Key()
	a.logSide(state, rec, surf, key, rec.PlayerA.ID, rec.PlayerB, aWon, res.DeltaA)
	a.logSide(state, rec, surf, key, rec.PlayerB.ID, rec.PlayerA, !aWon, res.DeltaB)

	state.Watermark = model.Watermark{SortKey: model.SortKey{Date: rec.Date, Key: key}}
}

// ensure fetches a player's rating on the surface, creating it at the
// initial rating on first sight.
func (a *Aggregator) ensure(state *model.SurfaceState, playerID string, surf surface.Surface) *model.SurfaceRating {
	if r, ok := state.Ratings[playerID]; ok {
		return r
	}
	r := &model.SurfaceRating{
		PlayerID: playerID,
		Surface:  string(surf),
		Rating:   rating.Initial,
		Peak:     rating.Initial,
	}
	state.Ratings[playerID] = r
	return r
}

func applySide(r *model.SurfaceRating, newRating float64, won bool, date time.Time) {
	r.Rating = newRating
	if newRating > r.Peak {
		r.Peak = newRating
	}
	if won {
		r.Wins++
	} else {
		r.Losses++
	}
	r.MatchesPlayed++
	if date.After(r.LastMatchDate) {
		r.LastMatchDate = date
	}
}

// logSide prepends a history entry for one side of the match, evicting
// the oldest entry when the window is over capacity. Matches arrive in
// replay order, so newest-first is maintained by inserting at the head.
func (a *Aggregator) logSide(state *model.SurfaceState, rec model.Record, surf surface.Surface, key, playerID string, opponent model.PlayerRef, won bool, delta float64) {
	entry := model.HistoryEntry{
		MatchKey:     key,
		Date:         rec.Date,
		Tournament:   rec.Tournament,
		Round:        rec.Round,
		Surface:      string(surf),
		OpponentID:   opponent.ID,
		OpponentName: opponent.Name,
		Score:        rec.Score,
		Won:          won,
		EloChange:    delta,
	}
	h := state.History[playerID]
	h = append([]model.HistoryEntry{entry}, h...)
	if len(h) > a.historySize {
		h = h[:a.historySize]
	}
	state.History[playerID] = h
}
