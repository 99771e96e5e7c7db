// Package source defines the contract for fetching raw match records.
//
// The engine makes no assumption about where records come from; it only
// relies on the record shape and on dates being resolvable. A fetch
// failure is fatal to the run that requested it, never to the published
// state.
package source

import (
	"context"

	"github.com/okian/baseline/internal/domain/model"
)

// Source yields a batch of raw match records for a recompute run.
type Source interface {
	// Fetch returns every record the source currently knows about.
	// Individual records may still be malformed; the recompute
	// controller excludes and counts those.
	Fetch(ctx context.Context) ([]model.Record, error)
}
