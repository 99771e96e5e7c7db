package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if BASELINE_CONFIG is set
//  3. env (prefix BASELINE_), with a .env file loaded first if present
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	// Populate the process env from a .env file when present. Missing
	// files are fine; real env vars still win below.
	_ = godotenv.Load()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("BASELINE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: BASELINE_ADDR, BASELINE_SOURCE_PATH, ...
	// Map env keys like BASELINE_SOURCE_PATH -> source_path (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("BASELINE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "baseline_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Basic validation
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.HistorySize < 1:
		return fmt.Errorf("%w: history_size must be positive", ErrInvalidConfig)
	case c.MinRankedMatches < 1:
		return fmt.Errorf("%w: min_ranked_matches must be positive", ErrInvalidConfig)
	case c.MaxRankingLimit < 1:
		return fmt.Errorf("%w: max_ranking_limit must be positive", ErrInvalidConfig)
	}
	return nil
}
