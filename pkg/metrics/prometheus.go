// Package metrics provides Prometheus metrics for the baseline rating engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the rating engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Run metrics - one observation per recompute invocation
	runsTotal   *prometheus.CounterVec
	runDuration prometheus.Histogram

	// Match accounting
	matchesProcessed prometheus.Counter
	matchesExcluded  prometheus.Counter

	// Recompute behavior
	surfacesRecomputed prometheus.Counter

	// Published snapshot state
	snapshotPublishes prometheus.Counter
	snapshotLastUnix  prometheus.Gauge
	snapshotVersion   prometheus.Gauge
	totalPlayers      prometheus.Gauge
	totalMatches      prometheus.Gauge

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "baseline",
		subsystem:        "ratings",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	m.runsTotal = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "runs_total",
			Help:      "Total recompute runs by mode and result",
		},
		[]string{"mode", "result"},
	)

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_seconds",
		Help:      "Histogram of recompute run duration in seconds",
		Buckets:   m.histogramBuckets,
	})

	m.matchesProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_processed_total",
		Help:      "Total matches folded into ratings, including full-replay refolds",
	})

	m.matchesExcluded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_excluded_total",
		Help:      "Total matches excluded as unclassifiable or malformed",
	})

	m.surfacesRecomputed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "surfaces_fully_recomputed_total",
		Help:      "Total per-surface full replays, explicit or escalated",
	})

	m.snapshotPublishes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_publishes_total",
		Help:      "Total successfully published snapshots",
	})

	m.snapshotLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_last_unix",
		Help:      "Publish time of the current snapshot as a Unix timestamp",
	})

	m.snapshotVersion = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_version",
		Help:      "Version of the current published snapshot",
	})

	m.totalPlayers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "players_total",
		Help:      "Players tracked in the published snapshot",
	})

	m.totalMatches = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_total",
		Help:      "Matches in the published replay archives across surfaces",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by endpoint, method and status code",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// RecordRun increments the run counter for a mode/result pair.
func RecordRun(mode, result string) {
	globalManager.runsTotal.WithLabelValues(mode, result).Inc()
}

// RecordRunDuration observes a run duration in seconds.
func RecordRunDuration(seconds float64) {
	globalManager.runDuration.Observe(seconds)
}

// AddMatchesProcessed adds to the processed-match counter.
func AddMatchesProcessed(n int) {
	globalManager.matchesProcessed.Add(float64(n))
}

// AddMatchesExcluded adds to the excluded-match counter.
func AddMatchesExcluded(n int) {
	globalManager.matchesExcluded.Add(float64(n))
}

// AddSurfacesRecomputed adds to the full-replay counter.
func AddSurfacesRecomputed(n int) {
	globalManager.surfacesRecomputed.Add(float64(n))
}

// RecordSnapshotPublish increments the publish counter.
func RecordSnapshotPublish() {
	globalManager.snapshotPublishes.Inc()
}

// UpdateSnapshotLastUnix sets the publish timestamp gauge.
func UpdateSnapshotLastUnix(unix float64) {
	globalManager.snapshotLastUnix.Set(unix)
}

// UpdateSnapshotVersion sets the snapshot version gauge.
func UpdateSnapshotVersion(version float64) {
	globalManager.snapshotVersion.Set(version)
}

// UpdateTotalPlayers sets the tracked-players gauge.
func UpdateTotalPlayers(count int) {
	globalManager.totalPlayers.Set(float64(count))
}

// UpdateTotalMatches sets the archived-matches gauge.
func UpdateTotalMatches(count int) {
	globalManager.totalMatches.Set(float64(count))
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes an HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the custom registry served from /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
