package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pable/go-futsal-metrics/internal/analysis"
	"github.com/pable/go-futsal-metrics/internal/cache"
	"github.com/pable/go-futsal-metrics/internal/colors"
	"github.com/pable/go-futsal-metrics/internal/fifa"
	"github.com/pable/go-futsal-metrics/internal/metrics"
	"github.com/pable/go-futsal-metrics/internal/model"
	"github.com/pable/go-futsal-metrics/internal/storage"
)

// app is the wired pipeline shared by every command that talks to the API.
type app struct {
	db       *storage.DB
	client   *fifa.Client
	resolver *colors.Resolver
	svc      *analysis.Service
	metrics  *metrics.Manager
}

func openDB() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// openApp connects storage, the cached FIFA client, the palette resolver and
// the analysis service.
func openApp() (*app, error) {
	db, err := openDB()
	if err != nil {
		return nil, err
	}

	m := metrics.NewManager()
	matches, events, squads, teams := cfg.TTLs()
	client := fifa.NewClient(
		fifa.WithBaseURL(cfg.BaseURL),
		fifa.WithLanguage(cfg.Language),
		fifa.WithUserAgent(cfg.UserAgent),
		fifa.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout()}),
		fifa.WithCache(cache.New(db, cache.WithMetrics(m))),
		fifa.WithTTLs(fifa.TTLs{Matches: matches, Events: events, Squads: squads, Teams: teams}),
		fifa.WithMetrics(m),
	)
	dir := client.Directory(cfg.SeasonID)
	resolver := colors.NewResolver(db, append(cfg.Palette(), colors.WithAbbreviations(dir))...)

	svc := analysis.NewService(client, dir, resolver, analysis.Settings{
		CompetitionID:  cfg.CompetitionID,
		SeasonID:       cfg.SeasonID,
		StageID:        cfg.StageID,
		MatchCount:     cfg.MatchCount,
		Aggregation:    cfg.Aggregation(),
		HalftimeMinute: cfg.HalftimeMinute,
		SmoothDtMin:    cfg.SmoothDtMin,
		SmoothTauMin:   cfg.SmoothTauMin,
		TopN:           cfg.TopNPlayers,
	})
	return &app{db: db, client: client, resolver: resolver, svc: svc, metrics: m}, nil
}

func (a *app) Close() error { return a.db.Close() }

// loadReport opens the app and builds the report of one match.
func loadReport(ctx context.Context, matchID string) (*app, *analysis.Report, error) {
	a, err := openApp()
	if err != nil {
		return nil, nil, err
	}
	r, err := a.svc.Load(ctx, matchID)
	if err != nil {
		a.Close()
		return nil, nil, err
	}
	return a, r, nil
}

// lookupMatch finds a match by id for commands that do not need the timeline.
func (a *app) lookupMatch(ctx context.Context, matchID string) (model.Match, error) {
	return a.svc.FindMatch(ctx, matchID)
}
