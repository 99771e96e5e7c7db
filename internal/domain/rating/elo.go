// Package rating implements the Elo update rule applied to every
// processed match.
package rating

import "math"

// Elo parameters. Fixed for the whole pipeline: ratings are
// path-dependent, so changing either invalidates every published
// number.
const (
	// K scales how much a single match moves a rating.
	K = 32.0
	// Initial is the rating assigned to a player's first match on a
	// surface.
	Initial = 1500.0
)

// Result carries both players' new ratings and the signed deltas
// applied to them. DeltaB is exactly -DeltaA.
type Result struct {
	NewA   float64
	NewB   float64
	DeltaA float64
	DeltaB float64
}

// Expected returns the expected score of a player rated ra against an
// opponent rated rb: the probability of a win, in (0, 1).
func Expected(ra, rb float64) float64 {
	return 1 / (1 + math.Pow(10, (rb-ra)/400))
}

// Update applies one match outcome to a pair of ratings. It is pure:
// callers supply the current ratings and receive the new ones plus the
// deltas for history logging. Draws do not occur in this domain, so the
// outcome is a plain win/loss flag.
func Update(ra, rb float64, aWon bool) Result {
	outcome := 0.0
	if aWon {
		outcome = 1.0
	}
	delta := K * (outcome - Expected(ra, rb))
	return Result{
		NewA:   ra + delta,
		NewB:   rb - delta,
		DeltaA: delta,
		DeltaB: -delta,
	}
}
