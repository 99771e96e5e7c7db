// Package recompute decides whether a batch of match records can be
// folded incrementally onto the published state or must trigger a full
// replay, and publishes the result atomically.
package recompute

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/okian/baseline/internal/domain/aggregate"
	"github.com/okian/baseline/internal/domain/model"
	"github.com/okian/baseline/internal/domain/sequence"
	"github.com/okian/baseline/internal/domain/surface"
	"github.com/okian/baseline/pkg/logger"
	"github.com/okian/baseline/pkg/metrics"
)

// Mode selects how a run treats the existing published state.
type Mode string

// Run modes. Incremental escalates to full per surface when history is
// invalidated; full always replays every surface from empty state.
const (
	ModeIncremental Mode = "incremental"
	ModeFull        Mode = "full"
)

// State is the controller's position in its run cycle, exposed for
// monitoring only.
type State string

// Controller states. A run moves Idle -> Evaluating -> folding
// (incremental and/or full per surface) -> Publishing -> Idle.
const (
	StateIdle       State = "idle"
	StateEvaluating State = "evaluating"
	StateFolding    State = "folding"
	StatePublishing State = "publishing"
)

// Publisher is the controller's view of the snapshot store: read the
// last published snapshot, install a new one atomically.
type Publisher interface {
	Published() *model.Snapshot
	Publish(ctx context.Context, snap *model.Snapshot) error
}

// Report summarizes one run.
type Report struct {
	Mode         Mode              `json:"mode"`
	Processed    int               `json:"matches_processed"`
	Excluded     int               `json:"matches_excluded"`
	Unclassified int               `json:"matches_unclassified"`
	Malformed    int               `json:"matches_malformed"`
	Duplicates   int               `json:"matches_duplicate"`
	FullSurfaces []surface.Surface `json:"surfaces_fully_recomputed"`
	Version      uint64            `json:"snapshot_version"`
	Duration     time.Duration     `json:"-"`
}

// Controller serializes runs over a snapshot store. Reads of the
// published state are never blocked by a run in progress.
type Controller struct {
	mu    sync.Mutex // one run at a time
	store Publisher
	agg   *aggregate.Aggregator

	stateMu sync.RWMutex
	state   State

	logger logger.Logger
}

// Option applies a configuration option to the Controller.
type Option func(*Controller)

// WithLogger sets a custom logger for the controller.
func WithLogger(l logger.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithAggregator overrides the default aggregator, e.g. to change the
// history window.
func WithAggregator(a *aggregate.Aggregator) Option {
	return func(c *Controller) {
		if a != nil {
			c.agg = a
		}
	}
}

// New constructs a Controller over the given store.
func New(store Publisher, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		agg:    aggregate.New(),
		state:  StateIdle,
		logger: logger.Get().Named("recompute"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the controller's current run-cycle position.
func (c *Controller) State() State {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

func (c *Controller) setState(s State) {
	c.stateMu.Lock()
	c.state = s
	c.stateMu.Unlock()
}

// surfacePlan is the per-surface outcome of the evaluating phase.
type surfacePlan struct {
	surf  surface.Surface
	fresh []model.Record      // new or corrected records to fold
	drop  map[string]struct{} // archived keys evicted by reclassification
	full  bool                // replay the whole archive from empty
}

// Run ingests a batch of raw records and publishes the resulting
// snapshot. On any error the previously published snapshot remains
// authoritative and the run can safely be retried with the same batch.
func (c *Controller) Run(ctx context.Context, mode Mode, batch []model.Record) (Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.setState(StateIdle)

	start := time.Now()
	report := Report{Mode: mode}

	c.setState(StateEvaluating)
	prev := c.store.Published()
	if prev == nil {
		prev = model.NewSnapshot()
	}

	perSurface, players := c.evaluate(batch, &report)
	plans := c.plan(prev, perSurface, mode, &report)

	if len(plans) == 0 {
		// Nothing to fold; the published snapshot already covers the batch.
		report.Version = prev.Version
		report.Duration = time.Since(start)
		c.logger.Info(ctx, "run had no effect",
			logger.String("mode", string(mode)),
			logger.Int("excluded", report.Excluded),
		)
		return report, nil
	}

	c.setState(StateFolding)
	states := c.fold(plans, prev, &report)

	c.setState(StatePublishing)
	next := c.assemble(prev, states, players)
	if err := c.store.Publish(ctx, next); err != nil {
		metrics.RecordRun(string(mode), "failure")
		return report, fmt.Errorf("%w: %v", ErrPublish, err)
	}

	report.Version = next.Version
	report.Duration = time.Since(start)

	metrics.RecordRun(string(mode), "success")
	metrics.RecordRunDuration(report.Duration.Seconds())
	metrics.AddMatchesProcessed(report.Processed)
	metrics.AddMatchesExcluded(report.Excluded)
	metrics.AddSurfacesRecomputed(len(report.FullSurfaces))
	metrics.UpdateSnapshotVersion(float64(next.Version))

	c.logger.Info(ctx, "run published",
		logger.String("mode", string(mode)),
		logger.Int("processed", report.Processed),
		logger.Int("excluded", report.Excluded),
		logger.Int("full_surfaces", len(report.FullSurfaces)),
		logger.Any("version", next.Version),
	)
	return report, nil
}

// evaluate classifies and validates the batch, grouping ratable records
// by canonical surface. Unclassifiable and malformed records are
// excluded and counted, never fatal.
func (c *Controller) evaluate(batch []model.Record, report *Report) (map[surface.Surface][]model.Record, map[string]model.PlayerRef) {
	perSurface := make(map[surface.Surface][]model.Record)
	players := make(map[string]model.PlayerRef)
	for _, rec := range batch {
		if err := rec.Validate(); err != nil {
			report.Malformed++
			report.Excluded++
			continue
		}
		surf, ok := surface.Classify(rec.Surface, rec.Court, rec.Tournament)
		if !ok {
			report.Unclassified++
			report.Excluded++
			continue
		}
		perSurface[surf] = append(perSurface[surf], rec)
		players[rec.PlayerA.ID] = rec.PlayerA
		players[rec.PlayerB.ID] = rec.PlayerB
	}
	return perSurface, players
}

// plan decides incremental vs full per surface. A surface goes full
// when the caller asked for it, when a fresh record lands at or before
// the watermark (backfill), or when a fresh record replaces an already
// folded one (correction). A correction may also reclassify a match to
// a different surface; the stale copy is evicted from its old archive
// and both surfaces replay. Surfaces with nothing fresh or evicted are
// replanned only on an explicit full run.
func (c *Controller) plan(prev *model.Snapshot, perSurface map[surface.Surface][]model.Record, mode Mode, report *Report) []surfacePlan {
	// Index every archived key so a record arriving under a new surface
	// can be recognized as a moved match rather than a brand-new one.
	archiveOf := make(map[string]surface.Surface)
	for _, surf := range surface.All() {
		if st := prev.Surface(surf); st != nil {
			for _, r := range st.Matches {
				archiveOf[r.Key()] = surf
			}
		}
	}

	fresh := make(map[surface.Surface][]model.Record)
	full := make(map[surface.Surface]bool)
	drop := make(map[surface.Surface]map[string]struct{})

	for _, surf := range surface.All() {
		incoming := perSurface[surf]
		if len(incoming) == 0 {
			continue
		}
		prevState := prev.Surface(surf)

		var archive map[string]model.Record
		if prevState != nil {
			archive = make(map[string]model.Record, len(prevState.Matches))
			for _, r := range prevState.Matches {
				archive[r.Key()] = r
			}
		}

		// Last write wins for duplicate keys within one batch.
		byKey := make(map[string]model.Record, len(incoming))
		var order []string
		for _, rec := range incoming {
			key := rec.Key()
			if _, seen := byKey[key]; !seen {
				order = append(order, key)
			}
			byKey[key] = rec
		}

		watermark := model.Watermark{}
		if prevState != nil {
			watermark = prevState.Watermark
		}

		for _, key := range order {
			rec := byKey[key]
			if old, exists := archive[key]; exists {
				if old.Equal(rec) {
					report.Duplicates++
					continue // already folded, nothing changed
				}
				// Correction of a folded match invalidates everything
				// after it on this surface.
				full[surf] = true
			} else if home, moved := archiveOf[key]; moved && home != surf {
				// The match was folded under another surface and the
				// correction reclassified it: evict the stale copy and
				// replay the old surface too.
				if drop[home] == nil {
					drop[home] = make(map[string]struct{})
				}
				drop[home][key] = struct{}{}
				full[home] = true
				full[surf] = true
			} else if watermark.Set() && !rec.SortKey().After(watermark.SortKey) {
				// Backfill at or before the watermark.
				full[surf] = true
			}
			fresh[surf] = append(fresh[surf], rec)
		}
	}

	var plans []surfacePlan
	for _, surf := range surface.All() {
		prevState := prev.Surface(surf)
		hasArchive := prevState != nil && len(prevState.Matches) > 0
		switch {
		case len(fresh[surf]) > 0 || len(drop[surf]) > 0:
			plans = append(plans, surfacePlan{
				surf:  surf,
				fresh: fresh[surf],
				drop:  drop[surf],
				full:  full[surf] || mode == ModeFull,
			})
		case mode == ModeFull && hasArchive:
			plans = append(plans, surfacePlan{surf: surf, full: true})
		}
	}
	return plans
}

// fold executes the plans. Surfaces are mutually independent and run in
// parallel; within one surface folding is strictly sequential.
func (c *Controller) fold(plans []surfacePlan, prev *model.Snapshot, report *Report) map[surface.Surface]*model.SurfaceState {
	type result struct {
		surf      surface.Surface
		state     *model.SurfaceState
		processed int
		full      bool
	}

	results := make([]result, len(plans))
	var wg sync.WaitGroup
	for i, plan := range plans {
		wg.Add(1)
		go func(i int, plan surfacePlan) {
			defer wg.Done()
			prevState := prev.Surface(plan.surf)

			if plan.full {
				merged := mergeArchive(prevState, plan.fresh, plan.drop)
				ordered := sequence.Order(merged)
				st := model.NewSurfaceState()
				c.agg.Apply(st, plan.surf, ordered)
				st.Matches = ordered
				results[i] = result{surf: plan.surf, state: st, processed: len(ordered), full: true}
				return
			}

			// Incremental: every fresh record is strictly after the
			// watermark, so folding the ordered suffix onto a clone of
			// the published state is equivalent to a full replay.
			st := model.NewSurfaceState()
			if prevState != nil {
				st = prevState.Clone()
			}
			orderedNew := sequence.Order(plan.fresh)
			c.agg.Apply(st, plan.surf, orderedNew)
			st.Matches = sequence.Order(append(st.Matches, orderedNew...))
			results[i] = result{surf: plan.surf, state: st, processed: len(orderedNew)}
		}(i, plan)
	}
	wg.Wait()

	states := make(map[surface.Surface]*model.SurfaceState, len(results))
	for _, res := range results {
		states[res.surf] = res.state
		report.Processed += res.processed
		if res.full {
			report.FullSurfaces = append(report.FullSurfaces, res.surf)
		}
	}
	sort.Slice(report.FullSurfaces, func(i, j int) bool {
		return report.FullSurfaces[i] < report.FullSurfaces[j]
	})
	return states
}

// mergeArchive combines the known match set with fresh records,
// replacing corrected matches by key and excluding keys evicted because
// a correction moved them to another surface.
func mergeArchive(prevState *model.SurfaceState, fresh []model.Record, drop map[string]struct{}) []model.Record {
	replaced := make(map[string]struct{}, len(fresh))
	for _, r := range fresh {
		replaced[r.Key()] = struct{}{}
	}
	var merged []model.Record
	if prevState != nil {
		for _, r := range prevState.Matches {
			key := r.Key()
			if _, ok := replaced[key]; ok {
				continue
			}
			if _, ok := drop[key]; ok {
				continue
			}
			merged = append(merged, r)
		}
	}
	return append(merged, fresh...)
}

// assemble builds the next snapshot: recomputed surfaces replace their
// predecessors, untouched surfaces carry over unchanged, and the player
// registry absorbs name or country corrections.
func (c *Controller) assemble(prev *model.Snapshot, states map[surface.Surface]*model.SurfaceState, players map[string]model.PlayerRef) *model.Snapshot {
	next := model.NewSnapshot()
	next.Version = prev.Version + 1
	next.LastUpdate = time.Now().UTC()

	for surf, st := range prev.Surfaces {
		next.Surfaces[surf] = st
	}
	for surf, st := range states {
		next.Surfaces[surf] = st
	}
	for id, p := range prev.Players {
		next.Players[id] = p
	}
	for id, p := range players {
		next.Players[id] = p
	}
	return next
}
