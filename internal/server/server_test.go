package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-futsal-metrics/internal/aggregator"
	"github.com/pable/go-futsal-metrics/internal/analysis"
	"github.com/pable/go-futsal-metrics/internal/colors"
	"github.com/pable/go-futsal-metrics/internal/metrics"
	"github.com/pable/go-futsal-metrics/internal/model"
)

type fakeUpstream struct {
	timelineErr error
}

func (f *fakeUpstream) GetMatches(context.Context, string, int) ([]model.Match, error) {
	return []model.Match{
		{MatchID: "400", StageName: "First stage", GroupName: "Group A",
			HomeID: "1", HomeName: "Spain", AwayID: "2", AwayName: "Brazil",
			Kickoff: time.Date(2024, 9, 14, 18, 0, 0, 0, time.UTC)},
		{MatchID: "500", StageName: "Final", HomeID: "1", HomeName: "Spain", AwayID: "2", AwayName: "Brazil"},
	}, nil
}

func (f *fakeUpstream) GetTimeline(_ context.Context, _, _, _, matchID string) ([]model.RawEvent, error) {
	if f.timelineErr != nil {
		return nil, f.timelineErr
	}
	return []model.RawEvent{
		{TeamID: "1", PlayerID: "p1", Description: "Goal!", RawTime: "5'"},
		{TeamID: "2", PlayerID: "p2", Description: "Attempt at Goal", RawTime: "6'"},
		{TeamID: "2", PlayerID: "p2", Description: "Foul", RawTime: "7'"},
	}, nil
}

func (f *fakeUpstream) GetSquad(_ context.Context, teamID, _, _ string) ([]model.SquadPlayer, error) {
	names := map[string]string{"1": "Ana", "2": "Bia"}
	return []model.SquadPlayer{{TeamID: teamID, PlayerID: "p" + teamID, PlayerName: names[teamID]}}, nil
}

type testEnv struct {
	api     *fakeUpstream
	handler http.Handler
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	api := &fakeUpstream{}
	svc := analysis.NewService(api, nil, colors.NewResolver(nil), analysis.Settings{
		CompetitionID:  "106",
		SeasonID:       "288439",
		StageID:        "288440",
		MatchCount:     500,
		Aggregation:    aggregator.DefaultConfig(),
		HalftimeMinute: 20,
		SmoothDtMin:    1,
		SmoothTauMin:   3,
		TopN:           8,
	})
	reg := prometheus.NewRegistry()
	srv := New(svc,
		WithMetrics(metrics.NewManager(metrics.WithPrometheusRegistry(reg))),
		WithGatherer(reg),
		WithClock(func() time.Time { return time.Unix(1726300000, 0) }),
	)
	return &testEnv{api: api, handler: srv.Handler()}
}

func (e *testEnv) get(t *testing.T, path string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestHealth(t *testing.T) {
	env := newEnv(t)
	rec := env.get(t, "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var body map[string]any
	decode(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(1726300000), body["time"])
}

func TestRequestID(t *testing.T) {
	env := newEnv(t)

	rec := env.get(t, "/api/health")
	assert.Len(t, rec.Header().Get(headerRequestID), 36)

	rec = env.get(t, "/api/health", headerRequestID, "abc-123")
	assert.Equal(t, "abc-123", rec.Header().Get(headerRequestID))
}

func TestMatches(t *testing.T) {
	env := newEnv(t)
	rec := env.get(t, "/api/matches")
	require.Equal(t, http.StatusOK, rec.Code)

	var items []matchItem
	decode(t, rec, &items)
	require.Len(t, items, 2)
	assert.Equal(t, "400", items[0].ID)
	assert.Equal(t, "First stage | Group A | Spain vs Brazil | 2024-09-14", items[0].Label)
	assert.Equal(t, "Final |  | Spain vs Brazil | ", items[1].Label)
}

func TestTimelineAndMinutes(t *testing.T) {
	env := newEnv(t)

	rec := env.get(t, "/api/matches/400/timeline")
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []attackItem
	decode(t, rec, &rows)
	require.Len(t, rows, 2)
	assert.Equal(t, attackItem{
		Team: "Spain", Side: "home", Player: "Ana", Description: "Goal!",
		Seconds: 300, Minute: 5, Label: "05'", Weight: 2,
	}, rows[0])

	rec = env.get(t, "/api/matches/400/minutes")
	require.Equal(t, http.StatusOK, rec.Code)
	var minutes []model.MinuteRow
	decode(t, rec, &minutes)
	require.Len(t, minutes, 41)
	assert.Equal(t, model.MinuteRow{Minute: 6, TeamB: 1}, minutes[6])
}

func TestMomentum(t *testing.T) {
	env := newEnv(t)
	rec := env.get(t, "/api/matches/400/momentum")
	require.Equal(t, http.StatusOK, rec.Code)

	var body momentumResponse
	decode(t, rec, &body)
	assert.Len(t, body.Mirrored.Home, 41)
	assert.Equal(t, -1.0, body.Mirrored.Away[6])
	assert.Len(t, body.Smoothed.Net, 41)
	assert.Equal(t, 3.0, body.Smoothed.TauMin)
	assert.Len(t, body.Cumulative, 2)
	require.Len(t, body.Goals, 1)
	assert.Equal(t, "05' (G)", body.Goals[0].Text)
	assert.Equal(t, 20, body.Halftime)
}

func TestPlayers(t *testing.T) {
	env := newEnv(t)

	rec := env.get(t, "/api/matches/400/players?top=1")
	require.Equal(t, http.StatusOK, rec.Code)
	var players []map[string]any
	decode(t, rec, &players)
	require.Len(t, players, 1)
	assert.Equal(t, "Ana", players[0]["player"])

	rec = env.get(t, "/api/matches/400/players?top=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var errBody errorResponse
	decode(t, rec, &errBody)
	assert.Equal(t, codeBadRequest, errBody.Code)
}

func TestStatsAndPalette(t *testing.T) {
	env := newEnv(t)

	rec := env.get(t, "/api/matches/400/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats statsResponse
	decode(t, rec, &stats)
	assert.Equal(t, model.Score{Home: 1, Away: 0}, stats.Score)
	require.Len(t, stats.Totals, 2)
	assert.Equal(t, 2, stats.Totals[1].TotalEvents)
	assert.Equal(t, aggregator.StatCategories, stats.Categories)
	require.Len(t, stats.Distribution, 2)
	assert.Equal(t, 1, stats.Distribution[1].Counts["Foul"])

	rec = env.get(t, "/api/matches/400/palette")
	require.Equal(t, http.StatusOK, rec.Code)
	var p model.Palette
	decode(t, rec, &p)
	d, err := colors.DeltaE76(p.HomeColor, p.AwayColor)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, d, colors.DefaultThreshold)
}

func TestInfographic(t *testing.T) {
	env := newEnv(t)
	rec := env.get(t, "/api/matches/400/infographic")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "infographic_Spain_vs_Brazil.json")

	var doc map[string]any
	decode(t, rec, &doc)
	assert.Equal(t, "Score: Spain 1 - 0 Brazil", doc["score_line"])
}

func TestErrors(t *testing.T) {
	env := newEnv(t)

	rec := env.get(t, "/api/matches/999/stats")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body errorResponse
	decode(t, rec, &body)
	assert.Equal(t, codeNotFound, body.Code)
	assert.Contains(t, body.Message, "999")

	env.api.timelineErr = errors.New("GET /timelines: HTTP 503")
	rec = env.get(t, "/api/matches/400/timeline")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	decode(t, rec, &body)
	assert.Equal(t, codeUpstreamError, body.Code)

	rec = env.get(t, "/api/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newEnv(t)
	env.get(t, "/api/matches/400/palette")
	env.get(t, "/api/matches/401/palette")

	rec := env.get(t, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "futsal_http_requests_total"), body)
	assert.Contains(t, body, `route="/api/matches/{id}/palette"`)
}

func TestMetricsEndpoint_CountsUnknownRoutes(t *testing.T) {
	env := newEnv(t)
	rec := env.get(t, "/api/nope", headerRequestID, "req-404")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "req-404", rec.Header().Get(headerRequestID))

	rec = env.get(t, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="unmatched"`)
}

func TestCORS(t *testing.T) {
	env := newEnv(t)
	rec := env.get(t, "/api/health", "Origin", "http://example.com")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
