// Package analysis runs the per-match pipeline: fetch the timeline and
// rosters, build the attack table and minute matrix, resolve the palette and
// tally the statistics.
package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/pable/go-futsal-metrics/internal/aggregator"
	"github.com/pable/go-futsal-metrics/internal/matchlist"
	"github.com/pable/go-futsal-metrics/internal/model"
	"github.com/pable/go-futsal-metrics/internal/momentum"
)

// ErrMatchNotFound is returned when a match id is not in the season calendar.
var ErrMatchNotFound = errors.New("match not found")

// Upstream is the subset of the FIFA client the pipeline reads.
type Upstream interface {
	GetMatches(ctx context.Context, seasonID string, count int) ([]model.Match, error)
	GetTimeline(ctx context.Context, competitionID, seasonID, stageID, matchID string) ([]model.RawEvent, error)
	GetSquad(ctx context.Context, teamID, competitionID, seasonID string) ([]model.SquadPlayer, error)
}

// Flags maps team ids to flag URLs.
type Flags interface {
	Flags(ctx context.Context) (map[string]string, error)
}

// PaletteResolver picks the two match colors.
type PaletteResolver interface {
	Pick(ctx context.Context, homeName, awayName, homeID, awayID string) model.Palette
}

// Settings are the competition coordinates and chart parameters.
type Settings struct {
	CompetitionID  string
	SeasonID       string
	StageID        string
	MatchCount     int
	Aggregation    aggregator.Config
	HalftimeMinute int
	SmoothDtMin    float64
	SmoothTauMin   float64
	TopN           int
}

// Report is everything the dashboard shows for one match.
type Report struct {
	Match        model.Match
	Events       []model.RawEvent
	Attacks      []model.AttackRow
	Minutes      []model.MinuteRow
	Goals        []model.AttackRow
	Palette      model.Palette
	Totals       []model.TeamEventCount
	Distribution []model.TeamDistribution
	Score        model.Score
	Flags        map[string]string
}

// Service wires the upstream sources into the pure builders.
type Service struct {
	api      Upstream
	flags    Flags
	palettes PaletteResolver
	settings Settings
}

// NewService returns a Service. flags may be nil; matches then have no flags.
func NewService(api Upstream, flags Flags, palettes PaletteResolver, s Settings) *Service {
	return &Service{api: api, flags: flags, palettes: palettes, settings: s}
}

// Settings returns the configured parameters.
func (s *Service) Settings() Settings { return s.settings }

// Matches returns the season calendar in selector order.
func (s *Service) Matches(ctx context.Context) ([]model.Match, error) {
	matches, err := s.api.GetMatches(ctx, s.settings.SeasonID, s.settings.MatchCount)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	matchlist.Sort(matches)
	return matches, nil
}

// FindMatch looks a match up in the calendar.
func (s *Service) FindMatch(ctx context.Context, matchID string) (model.Match, error) {
	matches, err := s.api.GetMatches(ctx, s.settings.SeasonID, s.settings.MatchCount)
	if err != nil {
		return model.Match{}, fmt.Errorf("list matches: %w", err)
	}
	for _, m := range matches {
		if m.MatchID == matchID {
			return m, nil
		}
	}
	return model.Match{}, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
}

// Load builds the report of a match. Only the calendar and the timeline are
// required; missing squads or flags leave player names and flag URLs empty.
func (s *Service) Load(ctx context.Context, matchID string) (*Report, error) {
	m, err := s.FindMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	events, err := s.api.GetTimeline(ctx, s.settings.CompetitionID, s.settings.SeasonID, s.settings.StageID, m.MatchID)
	if err != nil {
		return nil, fmt.Errorf("timeline for match %s: %w", m.MatchID, err)
	}

	squad := aggregator.NewSquadLookup(s.squads(ctx, m))
	flags := s.teamFlags(ctx)
	cfg := s.settings.Aggregation

	attacks := aggregator.BuildAttackTable(events, m, squad, cfg)
	totals, dist := aggregator.EventStats(events, m, flags)

	r := &Report{
		Match:        m,
		Events:       events,
		Attacks:      attacks,
		Minutes:      aggregator.BuildMinuteMatrix(attacks, cfg),
		Goals:        aggregator.GoalsOnly(attacks),
		Totals:       totals,
		Distribution: dist,
		Score:        aggregator.Score(events, m),
		Flags:        flags,
	}
	if s.palettes != nil {
		r.Palette = s.palettes.Pick(ctx, m.HomeName, m.AwayName, m.HomeID, m.AwayID)
	}

	log.Debug().
		Str("match", m.MatchID).
		Int("events", len(events)).
		Int("attacks", len(attacks)).
		Int("goals", len(r.Goals)).
		Msg("match report built")
	return r, nil
}

// Smoothed is the EWMA view of a report's matrix.
func (s *Service) Smoothed(r *Report) momentum.Smoothed {
	return momentum.Smooth(r.Minutes, s.settings.SmoothDtMin, s.settings.SmoothTauMin)
}

// TopPlayers ranks a report's players. n <= 0 uses the configured default.
func (s *Service) TopPlayers(r *Report, n int) []momentum.PlayerScore {
	if n <= 0 {
		n = s.settings.TopN
	}
	return momentum.TopPlayers(r.Attacks, n)
}

func (s *Service) squads(ctx context.Context, m model.Match) []model.SquadPlayer {
	var all []model.SquadPlayer
	for _, tid := range []string{m.HomeID, m.AwayID} {
		if tid == "" {
			continue
		}
		players, err := s.api.GetSquad(ctx, tid, s.settings.CompetitionID, s.settings.SeasonID)
		if err != nil {
			log.Warn().Err(err).Str("team_id", tid).Msg("squad fetch failed, player names left empty")
			continue
		}
		all = append(all, players...)
	}
	return all
}

func (s *Service) teamFlags(ctx context.Context) map[string]string {
	if s.flags == nil {
		return nil
	}
	flags, err := s.flags.Flags(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("team directory fetch failed, flags left empty")
		return nil
	}
	return flags
}
