// Package sequence imposes the total, deterministic replay order over
// match records within a surface.
package sequence

import (
	"sort"

	"github.com/okian/baseline/internal/domain/model"
)

// Order returns the records sorted by (date ascending, key ascending).
// The input slice is not modified. The result is independent of the
// input ordering: Elo ratings are path-dependent, so this order is what
// makes replays reproducible.
func Order(records []model.Record) []model.Record {
	type keyed struct {
		rec model.Record
		key model.SortKey
	}
	ks := make([]keyed, len(records))
	for i, r := range records {
		ks[i] = keyed{rec: r, key: r.SortKey()}
	}
	sort.Slice(ks, func(i, j int) bool {
		return ks[i].key.Compare(ks[j].key) < 0
	})
	out := make([]model.Record, len(records))
	for i, k := range ks {
		out[i] = k.rec
	}
	return out
}

// Earliest returns the smallest sort key in the batch. ok is false for
// an empty batch.
func Earliest(records []model.Record) (model.SortKey, bool) {
	if len(records) == 0 {
		return model.SortKey{}, false
	}
	min := records[0].SortKey()
	for _, r := range records[1:] {
		if k := r.SortKey(); k.Compare(min) < 0 {
			min = k
		}
	}
	return min, true
}
