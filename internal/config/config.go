// Package config defines service configuration and its loading order:
// defaults, then an optional YAML file, then BASELINE_-prefixed
// environment variables.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// SourcePath points at the match CSV consumed by recompute runs.
	// Empty means no source is wired and runs must carry records.
	SourcePath string `koanf:"source_path"`

	// HistorySize bounds the per-player recent-match window.
	HistorySize int `koanf:"history_size"`

	// MinRankedMatches is the minimum matches played on a surface
	// before a player appears in its ranking.
	MinRankedMatches int `koanf:"min_ranked_matches"`

	// MaxRankingLimit caps GET /api/rankings/{surface}?limit.
	MaxRankingLimit int `koanf:"max_ranking_limit"`

	// InitialRunOnStart triggers an incremental run against the source
	// when the process starts.
	InitialRunOnStart bool `koanf:"initial_run_on_start"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		SourcePath:        "",
		HistorySize:       20,
		MinRankedMatches:  5,
		MaxRankingLimit:   500,
		InitialRunOnStart: false,
	}
}
