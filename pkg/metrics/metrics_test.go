package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating with default options", func() {
			m := NewManager(WithPrometheusRegistry(registry))

			Convey("Then the manager is usable", func() {
				So(m, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			m := NewManager(
				WithNamespace("test"),
				WithSubsystem("engine"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithMetricPrefix("p"),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the manager is usable", func() {
				So(m, ShouldNotBeNil)
			})
		})

		Convey("When options carry empty values", func() {
			m := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithCustomLabels(nil),
				WithRefreshInterval(0),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults are kept and creation succeeds", func() {
				So(m, ShouldNotBeNil)
			})
		})
	})
}

func TestRecordingHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording run metrics", func() {
			So(func() {
				RecordRun("incremental", "success")
				RecordRun("full", "failure")
				RecordRunDuration(0.25)
				RecordRunDuration(12.5)
			}, ShouldNotPanic)
		})

		Convey("When recording match accounting", func() {
			So(func() {
				AddMatchesProcessed(100)
				AddMatchesProcessed(0)
				AddMatchesExcluded(3)
				AddSurfacesRecomputed(2)
			}, ShouldNotPanic)
		})

		Convey("When updating snapshot gauges", func() {
			So(func() {
				RecordSnapshotPublish()
				UpdateSnapshotLastUnix(1717000000)
				UpdateSnapshotVersion(7)
				UpdateTotalPlayers(1500)
				UpdateTotalMatches(60000)
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP metrics", func() {
			So(func() {
				RecordHTTPRequest("rankings", "GET", "200")
				RecordHTTPRequest("recompute", "POST", "500")
				RecordHTTPRequestDuration("rankings", "GET", "200", 4.2)
				RecordHTTPRequestDuration("", "", "200", 0.0)
			}, ShouldNotPanic)
		})
	})
}

func TestRegistryExposure(t *testing.T) {
	Convey("Given the custom registry", t, func() {
		RecordRun("incremental", "success")

		Convey("Then engine metrics gather from it", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)

			found := false
			for _, f := range families {
				if f.GetName() == "baseline_ratings_runs_total" {
					found = true
				}
			}
			So(found, ShouldBeTrue)
		})
	})
}

func TestConcurrentRecording(t *testing.T) {
	Convey("Given concurrent writers", t, func() {
		done := make(chan struct{}, 8)
		for i := 0; i < 8; i++ {
			go func() {
				for j := 0; j < 100; j++ {
					AddMatchesProcessed(1)
					UpdateSnapshotVersion(float64(j))
					RecordHTTPRequest("rankings", "GET", "200")
				}
				done <- struct{}{}
			}()
		}
		for i := 0; i < 8; i++ {
			<-done
		}

		Convey("Then recording never panics under contention", func() {
			So(true, ShouldBeTrue)
		})
	})
}
