package aggregator

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pable/go-futsal-metrics/internal/model"
	"github.com/pable/go-futsal-metrics/internal/timeparse"
)

// Event descriptions as they appear in the English timeline feed.
const (
	DescAttempt = "Attempt at Goal"
	DescGoal    = "Goal!"
	DescFoul    = "Foul"
	DescAssist  = "Assist"
	DescCorner  = "Corner"
)

// StatCategories is the fixed, ordered event-type distribution.
var StatCategories = []string{DescAttempt, DescFoul, DescGoal, DescAssist, DescCorner}

// Config holds the competition-specific constants of the pipeline.
type Config struct {
	// AttackWhitelist lists the descriptions counted as attacking actions.
	// Matching is exact.
	AttackWhitelist []string
	GoalWeight      float64
	AttemptWeight   float64
	// MinMinute and MaxMinute bound the minute matrix, both inclusive.
	MinMinute int
	MaxMinute int
}

// DefaultConfig returns the futsal defaults: two 20-minute halves plus
// stoppage, goals counting double.
func DefaultConfig() Config {
	return Config{
		AttackWhitelist: []string{DescAttempt, DescGoal},
		GoalWeight:      2.0,
		AttemptWeight:   1.0,
		MinMinute:       0,
		MaxMinute:       40,
	}
}

// SquadLookup maps a player id to a display name.
type SquadLookup map[string]string

// NewSquadLookup indexes a roster. The first entry for a player id wins.
func NewSquadLookup(players []model.SquadPlayer) SquadLookup {
	out := make(SquadLookup, len(players))
	for _, p := range players {
		if p.PlayerID == "" {
			continue
		}
		if _, dup := out[p.PlayerID]; dup {
			continue
		}
		out[p.PlayerID] = p.PlayerName
	}
	return out
}

// IsGoal reports whether a description denotes a goal, ignoring case and
// surrounding space.
func IsGoal(desc string) bool {
	d := strings.ToLower(strings.TrimSpace(desc))
	return d == "goal" || d == "goal!"
}

// MinuteLabel renders whole elapsed minutes as "mm'".
func MinuteLabel(seconds float64) string {
	return fmt.Sprintf("%02d'", int(math.Floor(seconds/60)))
}

// BuildAttackTable keeps the attacking events and derives names, timing and
// weight for each. squad may be nil. Input order is preserved; unknown team
// ids yield SideUnknown with an empty TeamName.
func BuildAttackTable(events []model.RawEvent, match model.Match, squad SquadLookup, cfg Config) []model.AttackRow {
	allowed := make(map[string]struct{}, len(cfg.AttackWhitelist))
	for _, d := range cfg.AttackWhitelist {
		allowed[d] = struct{}{}
	}

	rows := make([]model.AttackRow, 0, len(events))
	for _, e := range events {
		if _, ok := allowed[e.Description]; !ok {
			continue
		}
		side := match.SideOf(e.TeamID)
		sec := timeparse.Seconds(e.RawTime)
		w := cfg.AttemptWeight
		if IsGoal(e.Description) {
			w = cfg.GoalWeight
		}
		rows = append(rows, model.AttackRow{
			TeamID:      e.TeamID,
			Side:        side,
			TeamName:    match.TeamName(side),
			PlayerID:    e.PlayerID,
			PlayerName:  squad[e.PlayerID],
			Description: e.Description,
			RawTime:     e.RawTime,
			Seconds:     sec,
			Minute:      int(math.RoundToEven(sec / 60)),
			Label:       MinuteLabel(sec),
			Weight:      w,
		})
	}
	return rows
}

// BuildMinuteMatrix sums row weights per minute and side over the closed
// range [cfg.MinMinute, cfg.MaxMinute]. Every minute of the range is present;
// rows outside it or without a side are dropped. TeamA is home, TeamB away.
func BuildMinuteMatrix(rows []model.AttackRow, cfg Config) []model.MinuteRow {
	if cfg.MaxMinute < cfg.MinMinute {
		return []model.MinuteRow{}
	}
	out := make([]model.MinuteRow, cfg.MaxMinute-cfg.MinMinute+1)
	for i := range out {
		out[i].Minute = cfg.MinMinute + i
	}
	for _, r := range rows {
		if r.Minute < cfg.MinMinute || r.Minute > cfg.MaxMinute {
			continue
		}
		slot := &out[r.Minute-cfg.MinMinute]
		switch r.Side {
		case model.SideHome:
			slot.TeamA += r.Weight
		case model.SideAway:
			slot.TeamB += r.Weight
		}
	}
	return out
}

// GoalsOnly returns the rows whose description denotes a goal.
func GoalsOnly(rows []model.AttackRow) []model.AttackRow {
	out := make([]model.AttackRow, 0)
	for _, r := range rows {
		if IsGoal(r.Description) {
			out = append(out, r)
		}
	}
	return out
}

// Timeline returns a copy of rows ordered by match time, ties kept in feed order.
func Timeline(rows []model.AttackRow) []model.AttackRow {
	out := make([]model.AttackRow, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Seconds < out[j].Seconds
	})
	return out
}

// Score counts goals per side over the full event list.
func Score(events []model.RawEvent, match model.Match) model.Score {
	var s model.Score
	for _, e := range events {
		if !IsGoal(e.Description) {
			continue
		}
		switch match.SideOf(e.TeamID) {
		case model.SideHome:
			s.Home++
		case model.SideAway:
			s.Away++
		}
	}
	return s
}

// EventStats counts every event per team, home first, and the distribution of
// each team's events over StatCategories. Events whose team id matches neither
// side are excluded. flags maps team id to flag URL and may be nil.
func EventStats(events []model.RawEvent, match model.Match, flags map[string]string) ([]model.TeamEventCount, []model.TeamDistribution) {
	catIndex := make(map[string]int, len(StatCategories))
	for i, c := range StatCategories {
		catIndex[c] = i
	}

	sides := []model.Side{model.SideHome, model.SideAway}
	ids := map[model.Side]string{model.SideHome: match.HomeID, model.SideAway: match.AwayID}

	totals := make([]model.TeamEventCount, len(sides))
	dists := make([]model.TeamDistribution, len(sides))
	for i, s := range sides {
		totals[i] = model.TeamEventCount{Side: s, TeamName: match.TeamName(s), FlagURL: flags[ids[s]]}
		dists[i] = model.TeamDistribution{
			Side:     s,
			TeamName: match.TeamName(s),
			FlagURL:  flags[ids[s]],
			Counts:   make([]int, len(StatCategories)),
		}
	}

	for _, e := range events {
		var i int
		switch match.SideOf(e.TeamID) {
		case model.SideHome:
			i = 0
		case model.SideAway:
			i = 1
		default:
			continue
		}
		totals[i].TotalEvents++
		if c, ok := catIndex[e.Description]; ok {
			dists[i].Counts[c]++
		}
	}
	return totals, dists
}
