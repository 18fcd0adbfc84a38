package infographic

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-futsal-metrics/internal/aggregator"
	"github.com/pable/go-futsal-metrics/internal/model"
)

func input() Input {
	m := model.Match{
		MatchID: "400", StageName: "First stage", GroupName: "Group A",
		HomeID: "1", HomeName: "Spain", AwayID: "2", AwayName: "Brazil",
		Kickoff: time.Date(2024, 9, 14, 18, 0, 0, 0, time.UTC),
	}
	events := []model.RawEvent{
		{TeamID: "2", Description: "Goal!", RawTime: "30:10"},
		{TeamID: "1", Description: "Goal!", RawTime: "12:00"},
		{TeamID: "2", Description: "Goal!", RawTime: "3:40"},
		{TeamID: "1", Description: "Attempt at Goal", RawTime: "12:20"},
	}
	cfg := aggregator.DefaultConfig()
	attacks := aggregator.BuildAttackTable(events, m, nil, cfg)
	return Input{
		Match:          m,
		Minutes:        aggregator.BuildMinuteMatrix(attacks, cfg),
		Attacks:        attacks,
		Goals:          aggregator.GoalsOnly(attacks),
		Palette:        model.Palette{HomeColor: "#C60B1E", AwayColor: "#002776"},
		Score:          aggregator.Score(events, m),
		Flags:          map[string]string{"1": "https://flags/ESP"},
		HalftimeMinute: 20,
		SmoothDtMin:    1,
		SmoothTauMin:   3,
		TopN:           8,
		Now:            time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestBuild_Header(t *testing.T) {
	doc := Build(input())

	assert.Equal(t, "Infographic — FIFA Futsal World Cup", doc.Title)
	assert.Equal(t, "First stage • Group A • 2024-09-14", doc.Subtitle)
	assert.Equal(t, "Score: Spain 1 - 2 Brazil", doc.ScoreLine)
	assert.Equal(t, "#C60B1E", doc.Home.Color)
	assert.Equal(t, "https://flags/ESP", doc.Home.FlagURL)
	assert.Equal(t, "", doc.Away.FlagURL)
	assert.Equal(t, 20, doc.HalftimeMinute)
}

func TestBuild_Panels(t *testing.T) {
	doc := Build(input())

	assert.Len(t, doc.Momentum.Home, 41)
	assert.Len(t, doc.Smoothed.Net, 41)
	require.Len(t, doc.Cumulative, 2)
	assert.Len(t, doc.Cumulative[0].Points, 2)
	assert.Len(t, doc.Cumulative[1].Points, 2)
	assert.NotEmpty(t, doc.TopPlayers)
}

func TestGoalNotes(t *testing.T) {
	doc := Build(input())
	require.Len(t, doc.Goals, 3)

	assert.Equal(t, GoalNote{Side: "home", Minute: 12, Y: 3, Text: "12' (G)"}, doc.Goals[0])
	assert.Equal(t, GoalNote{Side: "away", Minute: 4, Y: -2, Text: "03' (G)"}, doc.Goals[1])
	assert.Equal(t, GoalNote{Side: "away", Minute: 30, Y: -2, Text: "30' (G)"}, doc.Goals[2])
}

func TestWriteAndFileName(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Build(input())))

	var back map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, "Score: Spain 1 - 2 Brazil", back["score_line"])
	assert.Contains(t, back, "cumulative")

	assert.Equal(t, "infographic_Costa_Rica_vs_Brazil.json",
		FileName(model.Match{HomeName: "Costa Rica", AwayName: "Brazil"}))
}
