package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/okian/baseline/internal/adapters/repository"
	"github.com/okian/baseline/internal/domain/model"
	"github.com/okian/baseline/internal/domain/surface"
	. "github.com/smartystreets/goconvey/convey"
)

func snapshotWithClayPlayers(version uint64, ratings map[string]*model.SurfaceRating) *model.Snapshot {
	snap := model.NewSnapshot()
	snap.Version = version
	snap.LastUpdate = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

	st := model.NewSurfaceState()
	for id, r := range ratings {
		st.Ratings[id] = r
		snap.Players[id] = model.PlayerRef{ID: id, Name: "Player " + id}
	}
	snap.Surfaces[surface.Clay] = st
	return snap
}

func clayRating(id string, rating float64, played int) *model.SurfaceRating {
	wins := played / 2
	return &model.SurfaceRating{
		PlayerID:      id,
		Surface:       string(surface.Clay),
		Rating:        rating,
		Peak:          rating,
		Wins:          wins,
		Losses:        played - wins,
		MatchesPlayed: played,
		LastMatchDate: time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
	}
}

func TestPublish(t *testing.T) {
	Convey("Given an empty store", t, func() {
		store := repository.NewSnapshotStore()
		ctx := context.Background()

		Convey("Then nothing is published initially", func() {
			So(store.Published(), ShouldBeNil)
			So(store.Count(ctx), ShouldEqual, 0)
			So(store.LastUpdate(ctx).IsZero(), ShouldBeTrue)
		})

		Convey("When a nil snapshot is offered", func() {
			err := store.Publish(ctx, nil)

			Convey("Then it is rejected", func() {
				So(errors.Is(err, repository.ErrNilSnapshot), ShouldBeTrue)
			})
		})

		Convey("When versions do not advance", func() {
			So(store.Publish(ctx, snapshotWithClayPlayers(2, nil)), ShouldBeNil)

			Convey("Then a stale version is rejected and the current snapshot survives", func() {
				err := store.Publish(ctx, snapshotWithClayPlayers(2, nil))
				So(errors.Is(err, repository.ErrStaleSnapshot), ShouldBeTrue)

				err = store.Publish(ctx, snapshotWithClayPlayers(1, nil))
				So(errors.Is(err, repository.ErrStaleSnapshot), ShouldBeTrue)

				So(store.Published().Version, ShouldEqual, 2)
			})

			Convey("And a higher version replaces it", func() {
				So(store.Publish(ctx, snapshotWithClayPlayers(3, nil)), ShouldBeNil)
				So(store.Published().Version, ShouldEqual, 3)
			})
		})
	})
}

func TestRanking(t *testing.T) {
	Convey("Given a published snapshot with mixed activity levels", t, func() {
		store := repository.NewSnapshotStore()
		ctx := context.Background()

		snap := snapshotWithClayPlayers(1, map[string]*model.SurfaceRating{
			"veteran":    clayRating("veteran", 1612.0, 40),
			"challenger": clayRating("challenger", 1655.0, 7),
			"rookie":     clayRating("rookie", 1700.0, 4),
			"borderline": clayRating("borderline", 1540.0, 5),
		})
		So(store.Publish(ctx, snap), ShouldBeNil)

		Convey("When the clay ranking is read", func() {
			ranking, err := store.Ranking(ctx, surface.Clay, 100)
			So(err, ShouldBeNil)

			Convey("Then players under the activity threshold are absent", func() {
				for _, e := range ranking {
					So(e.PlayerID, ShouldNotEqual, "rookie")
				}
				So(ranking, ShouldHaveLength, 3)
			})

			Convey("And exactly five matches is enough", func() {
				So(ranking[2].PlayerID, ShouldEqual, "borderline")
			})

			Convey("And order is best rating first with contiguous ranks", func() {
				So(ranking[0].PlayerID, ShouldEqual, "challenger")
				So(ranking[1].PlayerID, ShouldEqual, "veteran")
				for i, e := range ranking {
					So(e.Rank, ShouldEqual, i+1)
				}
			})

			Convey("And entries carry registry names", func() {
				So(ranking[0].Name, ShouldEqual, "Player challenger")
			})
		})

		Convey("When a limit is applied", func() {
			ranking, err := store.Ranking(ctx, surface.Clay, 2)
			So(err, ShouldBeNil)

			Convey("Then only the top entries are returned", func() {
				So(ranking, ShouldHaveLength, 2)
				So(ranking[1].PlayerID, ShouldEqual, "veteran")
			})
		})

		Convey("When the limit is invalid", func() {
			_, err := store.Ranking(ctx, surface.Clay, 0)

			Convey("Then the read fails", func() {
				So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
			})
		})

		Convey("When a surface has no state", func() {
			ranking, err := store.Ranking(ctx, surface.Grass, 10)

			Convey("Then the ranking is empty, not an error", func() {
				So(err, ShouldBeNil)
				So(ranking, ShouldBeEmpty)
			})
		})
	})

	Convey("Given players tied on rating", t, func() {
		store := repository.NewSnapshotStore()
		ctx := context.Background()
		snap := snapshotWithClayPlayers(1, map[string]*model.SurfaceRating{
			"zeta":  clayRating("zeta", 1600.0, 10),
			"alpha": clayRating("alpha", 1600.0, 10),
		})
		So(store.Publish(ctx, snap), ShouldBeNil)

		Convey("Then ties break by ascending player id", func() {
			ranking, err := store.Ranking(ctx, surface.Clay, 10)
			So(err, ShouldBeNil)
			So(ranking[0].PlayerID, ShouldEqual, "alpha")
			So(ranking[1].PlayerID, ShouldEqual, "zeta")
		})
	})

	Convey("Given a custom activity threshold", t, func() {
		store := repository.NewSnapshotStore(repository.WithMinRankedMatches(10))
		ctx := context.Background()
		snap := snapshotWithClayPlayers(1, map[string]*model.SurfaceRating{
			"busy": clayRating("busy", 1580.0, 12),
			"idle": clayRating("idle", 1620.0, 9),
		})
		So(store.Publish(ctx, snap), ShouldBeNil)

		Convey("Then the configured threshold applies", func() {
			ranking, err := store.Ranking(ctx, surface.Clay, 10)
			So(err, ShouldBeNil)
			So(ranking, ShouldHaveLength, 1)
			So(ranking[0].PlayerID, ShouldEqual, "busy")
		})
	})
}

func TestPlayerReads(t *testing.T) {
	Convey("Given a published snapshot", t, func() {
		store := repository.NewSnapshotStore()
		ctx := context.Background()

		snap := snapshotWithClayPlayers(1, map[string]*model.SurfaceRating{
			"nadal": clayRating("nadal", 1702.5, 30),
		})
		st := snap.Surfaces[surface.Clay]
		st.History["nadal"] = []model.HistoryEntry{
			{MatchKey: "m2", Date: time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), Won: true},
			{MatchKey: "m1", Date: time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC), Won: false},
		}
		hard := model.NewSurfaceState()
		hard.History["nadal"] = []model.HistoryEntry{
			{MatchKey: "h1", Date: time.Date(2024, 6, 25, 0, 0, 0, 0, time.UTC), Won: true},
		}
		snap.Surfaces[surface.OutdoorHard] = hard
		So(store.Publish(ctx, snap), ShouldBeNil)

		Convey("When a known player is fetched", func() {
			p, err := store.Player(ctx, "nadal")

			Convey("Then the registry entry comes back", func() {
				So(err, ShouldBeNil)
				So(p.Name, ShouldEqual, "Player nadal")
			})
		})

		Convey("When an unknown player is fetched", func() {
			_, err := store.Player(ctx, "ghost")

			Convey("Then the read reports not found", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When a surface rating is fetched", func() {
			r, err := store.SurfaceRating(ctx, "nadal", surface.Clay)
			So(err, ShouldBeNil)
			So(r.Rating, ShouldEqual, 1702.5)

			Convey("And the returned value is a copy", func() {
				r.Rating = 0
				again, err := store.SurfaceRating(ctx, "nadal", surface.Clay)
				So(err, ShouldBeNil)
				So(again.Rating, ShouldEqual, 1702.5)
			})
		})

		Convey("When a rating is fetched on a surface the player never played", func() {
			_, err := store.SurfaceRating(ctx, "nadal", surface.Grass)

			Convey("Then the read reports not found", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When recent matches are fetched", func() {
			entries, err := store.RecentMatches(ctx, "nadal")

			Convey("Then surfaces merge newest first", func() {
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 3)
				So(entries[0].MatchKey, ShouldEqual, "m2")
				So(entries[1].MatchKey, ShouldEqual, "h1")
				So(entries[2].MatchKey, ShouldEqual, "m1")
			})
		})
	})
}

func TestSearchPlayers(t *testing.T) {
	Convey("Given a registry of players", t, func() {
		store := repository.NewSnapshotStore()
		ctx := context.Background()

		snap := model.NewSnapshot()
		snap.Version = 1
		names := []string{"Rafael Nadal", "Joao Sousa", "Pedro Sousa", "Roger Federer"}
		for i, n := range names {
			id := fmt.Sprintf("p%d", i)
			snap.Players[id] = model.PlayerRef{ID: id, Name: n}
		}
		So(store.Publish(ctx, snap), ShouldBeNil)

		Convey("When searching by partial name", func() {
			got := store.SearchPlayers(ctx, "sousa", 10)

			Convey("Then matching is case-insensitive and ordered by id", func() {
				So(got, ShouldHaveLength, 2)
				So(got[0].Name, ShouldEqual, "Joao Sousa")
				So(got[1].Name, ShouldEqual, "Pedro Sousa")
			})
		})

		Convey("When the limit truncates results", func() {
			got := store.SearchPlayers(ctx, "", 2)

			Convey("Then at most limit entries come back", func() {
				So(got, ShouldHaveLength, 2)
			})
		})

		Convey("When nothing matches", func() {
			So(store.SearchPlayers(ctx, "djokovic", 10), ShouldBeEmpty)
		})
	})
}

func TestReadersSeeConsistentState(t *testing.T) {
	Convey("Given concurrent readers during publishes", t, func() {
		store := repository.NewSnapshotStore()
		ctx := context.Background()

		So(store.Publish(ctx, snapshotWithClayPlayers(1, map[string]*model.SurfaceRating{
			"a": clayRating("a", 1501.0, 10),
		})), ShouldBeNil)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for v := uint64(2); v <= 50; v++ {
				_ = store.Publish(ctx, snapshotWithClayPlayers(v, map[string]*model.SurfaceRating{
					"a": clayRating("a", 1500.0+float64(v), 10),
				}))
			}
		}()

		Convey("Then every read observes a complete snapshot", func() {
			for i := 0; i < 200; i++ {
				snap := store.Published()
				So(snap, ShouldNotBeNil)
				So(snap.Surface(surface.Clay).Ratings["a"].Rating, ShouldAlmostEqual,
					1500.0+float64(snap.Version), 1e-9)
			}
			<-done
		})
	})
}
