// Package config defines the futsalmetrics configuration and its loader.
package config

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pable/go-futsal-metrics/internal/aggregator"
	"github.com/pable/go-futsal-metrics/internal/colors"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr is the listen address of `serve`, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath locates the SQLite file with team colors and the API cache.
	DBPath string `koanf:"db_path"`

	// Upstream API.
	BaseURL        string `koanf:"base_url"`
	Language       string `koanf:"language"`
	UserAgent      string `koanf:"user_agent"`
	CompetitionID  string `koanf:"competition_id"`
	SeasonID       string `koanf:"season_id"`
	StageID        string `koanf:"stage_id"`
	MatchCount     int    `koanf:"match_count"`
	HTTPTimeoutSec int    `koanf:"http_timeout_sec"`

	// Cache freshness per endpoint, in seconds.
	TTLMatchesSec int `koanf:"ttl_matches_sec"`
	TTLEventsSec  int `koanf:"ttl_events_sec"`
	TTLSquadsSec  int `koanf:"ttl_squads_sec"`
	TTLTeamsSec   int `koanf:"ttl_teams_sec"`

	// Match clock.
	MinMinute      int `koanf:"min_minute"`
	MaxMinute      int `koanf:"max_minute"`
	HalftimeMinute int `koanf:"halftime_minute"`

	// Weighting and smoothing.
	GoalWeight    float64 `koanf:"goal_weight"`
	AttemptWeight float64 `koanf:"attempt_weight"`
	SmoothTauMin  float64 `koanf:"smooth_tau_min"`
	SmoothDtMin   float64 `koanf:"smooth_dt_min"`
	TopNPlayers   int     `koanf:"top_n_players"`

	// Palette.
	ColorThreshold float64 `koanf:"color_threshold"`
	ColorDarken    float64 `koanf:"color_darken"`
}

// New returns the compiled defaults: the FIFA Futsal World Cup 2024 season.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":8080",
		DBPath:         filepath.Join(userHome(), ".futsalmetrics", "futsal.db"),
		BaseURL:        "https://api.fifa.com/api/v3",
		Language:       "en",
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/135.0.0.0 Safari/537.36",
		CompetitionID:  "106",
		SeasonID:       "288439",
		StageID:        "288440",
		MatchCount:     500,
		HTTPTimeoutSec: 30,
		TTLMatchesSec:  3600,
		TTLEventsSec:   1800,
		TTLSquadsSec:   86400,
		TTLTeamsSec:    86400,
		MinMinute:      0,
		MaxMinute:      40,
		HalftimeMinute: 20,
		GoalWeight:     2.0,
		AttemptWeight:  1.0,
		SmoothTauMin:   3.0,
		SmoothDtMin:    1.0,
		TopNPlayers:    8,
		ColorThreshold: colors.DefaultThreshold,
		ColorDarken:    colors.DefaultDarken,
	}
}

// Aggregation projects the aggregator settings.
func (c *Config) Aggregation() aggregator.Config {
	ac := aggregator.DefaultConfig()
	ac.GoalWeight = c.GoalWeight
	ac.AttemptWeight = c.AttemptWeight
	ac.MinMinute = c.MinMinute
	ac.MaxMinute = c.MaxMinute
	return ac
}

// Palette projects the color resolver options.
func (c *Config) Palette() []colors.Option {
	return []colors.Option{
		colors.WithThreshold(c.ColorThreshold),
		colors.WithDarken(c.ColorDarken),
	}
}

// HTTPTimeout is the upstream request timeout.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSec) * time.Second
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

// TTLs returns the cache freshness windows in endpoint order: matches,
// events, squads, teams.
func (c *Config) TTLs() (matches, events, squads, teams time.Duration) {
	return seconds(c.TTLMatchesSec), seconds(c.TTLEventsSec), seconds(c.TTLSquadsSec), seconds(c.TTLTeamsSec)
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
