// Package infographic assembles the one-page match summary: header, the
// four chart panels and their styling, as a JSON document a renderer can draw.
package infographic

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pable/go-futsal-metrics/internal/momentum"
	"github.com/pable/go-futsal-metrics/internal/model"
)

// Title is the fixed document title.
const Title = "Infographic — FIFA Futsal World Cup"

// Team is one side of the header.
type Team struct {
	Name    string `json:"name"`
	Color   string `json:"color"`
	FlagURL string `json:"flag_url,omitempty"`
	Goals   int    `json:"goals"`
}

// GoalNote labels a goal on the momentum bars. Y is the signed bar height of
// the minute the goal falls in.
type GoalNote struct {
	Side   string  `json:"side"`
	Minute int     `json:"minute"`
	Y      float64 `json:"y"`
	Text   string  `json:"text"`
}

// Document is the exported infographic.
type Document struct {
	Title          string                 `json:"title"`
	Subtitle       string                 `json:"subtitle"`
	ScoreLine      string                 `json:"score_line"`
	Home           Team                   `json:"home"`
	Away           Team                   `json:"away"`
	HalftimeMinute int                    `json:"halftime_minute"`
	Momentum       momentum.Mirrored      `json:"momentum"`
	Goals          []GoalNote             `json:"goals"`
	Smoothed       momentum.Smoothed      `json:"smoothed"`
	TopPlayers     []momentum.PlayerScore `json:"top_players"`
	Cumulative     []momentum.Curve       `json:"cumulative"`
	GeneratedAt    time.Time              `json:"generated_at"`
}

// Input is what Build needs from a loaded match.
type Input struct {
	Match          model.Match
	Minutes        []model.MinuteRow
	Attacks        []model.AttackRow
	Goals          []model.AttackRow
	Palette        model.Palette
	Score          model.Score
	Flags          map[string]string
	HalftimeMinute int
	SmoothDtMin    float64
	SmoothTauMin   float64
	TopN           int
	Now            time.Time
}

// Build assembles the document.
func Build(in Input) Document {
	m := in.Match
	return Document{
		Title:          Title,
		Subtitle:       Subtitle(m),
		ScoreLine:      fmt.Sprintf("Score: %s %d - %d %s", m.HomeName, in.Score.Home, in.Score.Away, m.AwayName),
		Home:           Team{Name: m.HomeName, Color: in.Palette.HomeColor, FlagURL: in.Flags[m.HomeID], Goals: in.Score.Home},
		Away:           Team{Name: m.AwayName, Color: in.Palette.AwayColor, FlagURL: in.Flags[m.AwayID], Goals: in.Score.Away},
		HalftimeMinute: in.HalftimeMinute,
		Momentum:       momentum.Mirror(in.Minutes),
		Goals:          GoalNotes(in.Goals, in.Minutes),
		Smoothed:       momentum.Smooth(in.Minutes, in.SmoothDtMin, in.SmoothTauMin),
		TopPlayers:     momentum.TopPlayers(in.Attacks, in.TopN),
		Cumulative:     momentum.Cumulative(in.Attacks, m),
		GeneratedAt:    in.Now.UTC(),
	}
}

// Subtitle is "stage • group • date".
func Subtitle(m model.Match) string {
	return strings.Join([]string{m.StageName, m.GroupName, m.KickoffDate()}, " • ")
}

// GoalNotes labels every goal "mm' (G)", home first, each side in minute order.
// Goals outside the matrix keep a zero height.
func GoalNotes(goals []model.AttackRow, minutes []model.MinuteRow) []GoalNote {
	height := make(map[int]model.MinuteRow, len(minutes))
	for _, r := range minutes {
		height[r.Minute] = r
	}

	out := make([]GoalNote, 0, len(goals))
	for _, side := range []model.Side{model.SideHome, model.SideAway} {
		rows := make([]model.AttackRow, 0)
		for _, g := range goals {
			if g.Side == side {
				rows = append(rows, g)
			}
		}
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Minute < rows[j].Minute })

		for _, g := range rows {
			y := height[g.Minute].TeamA
			if side == model.SideAway {
				y = -height[g.Minute].TeamB
			}
			out = append(out, GoalNote{
				Side:   strings.ToLower(side.String()),
				Minute: g.Minute,
				Y:      y,
				Text:   strings.TrimSpace(g.Label) + " (G)",
			})
		}
	}
	return out
}

// FileName is the suggested export name: "infographic_<home>_vs_<away>.json".
func FileName(m model.Match) string {
	clean := strings.NewReplacer(" ", "_", "/", "-")
	return fmt.Sprintf("infographic_%s_vs_%s.json", clean.Replace(m.HomeName), clean.Replace(m.AwayName))
}

// Write encodes doc as indented JSON.
func Write(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
