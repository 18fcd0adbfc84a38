package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, e.g. FUTSAL_SEASON_ID.
const EnvPrefix = "FUTSAL_"

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. YAML file at path, or at FUTSAL_CONFIG when path is empty
//  3. env (prefix FUTSAL_)
func Load(ctx context.Context, path string) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// FUTSAL_TTL_EVENTS_SEC -> ttl_events_sec; underscores are kept so the
	// flat keys match the koanf tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.BaseURL) == "":
		return fmt.Errorf("%w: base_url must not be empty", ErrInvalidConfig)
	case c.MaxMinute < c.MinMinute:
		return fmt.Errorf("%w: max_minute (%d) < min_minute (%d)", ErrInvalidConfig, c.MaxMinute, c.MinMinute)
	case c.SmoothTauMin <= 0:
		return fmt.Errorf("%w: smooth_tau_min must be positive", ErrInvalidConfig)
	case c.SmoothDtMin <= 0:
		return fmt.Errorf("%w: smooth_dt_min must be positive", ErrInvalidConfig)
	case c.TopNPlayers < 0:
		return fmt.Errorf("%w: top_n_players must not be negative", ErrInvalidConfig)
	case c.ColorThreshold <= 0 || c.ColorThreshold > 50:
		return fmt.Errorf("%w: color_threshold must be in (0, 50]", ErrInvalidConfig)
	case c.ColorDarken <= 0 || c.ColorDarken >= 1:
		return fmt.Errorf("%w: color_darken must be in (0, 1)", ErrInvalidConfig)
	}
	return nil
}
