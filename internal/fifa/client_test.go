package fifa

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-futsal-metrics/internal/cache"
)

const calendarJSON = `{"Results":[
  {"IdMatch":"400","StageName":[{"Locale":"en-GB","Description":"First stage"}],
   "GroupName":[{"Locale":"en-GB","Description":"Group A"}],
   "Home":{"IdTeam":"43963","TeamName":[{"Description":"Uzbekistan"}],"ShortClubName":"Uzbekistan"},
   "Away":{"IdTeam":43948,"TeamName":[{"Description":"Netherlands"}],"ShortClubName":""},
   "LocalDate":"2024-09-14T18:00:00Z"},
  {"IdMatch":"401","StageName":"Final","GroupName":[],"Home":null,"Away":null,"LocalDate":""}
]}`

const timelineJSON = `{"Event":[
  {"IdTeam":"43963","IdPlayer":"p1","TypeLocalized":[{"Description":"Goal!"}],"MatchMinute":"5'"},
  {"IdTeam":"43948","IdPlayer":null,"TypeLocalized":[{"Description":"Attempt at Goal"}],"MatchMinute":12},
  {"IdTeam":"","TypeLocalized":[],"MatchMinute":null}
]}`

const squadJSON = `{"Players":[
  {"IdTeam":"43963","IdPlayer":"p1","ShortName":[{"Description":"Ikhtiyor"}]},
  {"IdPlayer":"p2","ShortName":[],"PlayerName":[{"Description":"Fallback Name"}]}
]}`

const teamsJSON = `{"Results":[
  {"IdTeam":"43963","TeamName":[{"Description":"Uzbekistan"}],"Abbreviation":"UZB","IdConfederation":"AFC"},
  {"IdTeam":"43948","TeamName":[{"Description":"Netherlands"}],"ShortClubName":"Netherlands","Abbreviation":""}
]}`

type fakeAPI struct {
	*httptest.Server
	hits      atomic.Int32
	lastQuery atomic.Value
	lastUA    atomic.Value
	status    atomic.Int32
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{}
	f.status.Store(http.StatusOK)
	mux := http.NewServeMux()
	serve := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			f.hits.Add(1)
			f.lastQuery.Store(r.URL.RawQuery)
			f.lastUA.Store(r.UserAgent())
			if code := int(f.status.Load()); code != http.StatusOK {
				w.WriteHeader(code)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		}
	}
	mux.HandleFunc("/calendar/matches", serve(calendarJSON))
	mux.HandleFunc("/timelines/106/288439/288440/400", serve(timelineJSON))
	mux.HandleFunc("/teams/43963/squad", serve(squadJSON))
	mux.HandleFunc("/competitions/teams/288439", serve(teamsJSON))
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func TestGetMatches(t *testing.T) {
	api := newFakeAPI(t)
	c := NewClient(WithBaseURL(api.URL), WithUserAgent("test-agent"))

	matches, err := c.GetMatches(context.Background(), "288439", 500)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	m := matches[0]
	assert.Equal(t, "400", m.MatchID)
	assert.Equal(t, "First stage", m.StageName)
	assert.Equal(t, "Group A", m.GroupName)
	assert.Equal(t, "43963", m.HomeID)
	assert.Equal(t, "Uzbekistan", m.HomeName)
	assert.Equal(t, "43948", m.AwayID)
	assert.Equal(t, "Netherlands", m.AwayName, "falls back to TeamName")
	assert.Equal(t, "2024-09-14", m.KickoffDate())

	assert.Equal(t, "", matches[1].GroupName)
	assert.Equal(t, " vs ", matches[1].Name())
	assert.True(t, matches[1].Kickoff.IsZero())

	q := api.lastQuery.Load().(string)
	assert.Contains(t, q, "language=en")
	assert.Contains(t, q, "idSeason=288439")
	assert.Contains(t, q, "count=500")
	assert.Equal(t, "test-agent", api.lastUA.Load())
}

func TestGetTimeline_KeepsRawMinute(t *testing.T) {
	api := newFakeAPI(t)
	c := NewClient(WithBaseURL(api.URL))

	events, err := c.GetTimeline(context.Background(), "106", "288439", "288440", "400")
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, "Goal!", events[0].Description)
	assert.Equal(t, "5'", events[0].RawTime)
	assert.Equal(t, json.Number("12"), events[1].RawTime)
	assert.Equal(t, "", events[1].PlayerID)
	assert.Nil(t, events[2].RawTime)
	assert.Equal(t, "", events[2].Description)
}

func TestGetSquad(t *testing.T) {
	api := newFakeAPI(t)
	c := NewClient(WithBaseURL(api.URL))

	players, err := c.GetSquad(context.Background(), "43963", "106", "288439")
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "Ikhtiyor", players[0].PlayerName)
	assert.Equal(t, "43963", players[1].TeamID, "missing team id defaults to the requested team")
	assert.Equal(t, "Fallback Name", players[1].PlayerName)

	q := api.lastQuery.Load().(string)
	assert.Contains(t, q, "idCompetition=106")
	assert.Contains(t, q, "idSeason=288439")
}

func TestTeamDirectory(t *testing.T) {
	api := newFakeAPI(t)
	c := NewClient(WithBaseURL(api.URL))
	dir := c.Directory("288439")
	ctx := context.Background()

	abbr, ok, err := dir.Abbreviation(ctx, "43963")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "UZB", abbr)

	_, ok, err = dir.Abbreviation(ctx, "43948")
	require.NoError(t, err)
	assert.False(t, ok, "empty abbreviation is a miss")

	flags, err := dir.Flags(ctx)
	require.NoError(t, err)
	assert.Equal(t, api.URL+"/picture/flags-sq-4/UZB", flags["43963"])
	assert.Equal(t, "", flags["43948"])
}

func TestHTTPError(t *testing.T) {
	api := newFakeAPI(t)
	api.status.Store(http.StatusServiceUnavailable)
	c := NewClient(WithBaseURL(api.URL))

	_, err := c.GetMatches(context.Background(), "288439", 10)
	require.Error(t, err)
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
	assert.Equal(t, "GET /calendar/matches: HTTP 503", err.Error())
}

func TestCachedClient(t *testing.T) {
	api := newFakeAPI(t)
	now := time.Date(2024, 9, 14, 12, 0, 0, 0, time.UTC)
	rt := cache.New(cache.NewMemoryStore(), cache.WithClock(func() time.Time { return now }))
	c := NewClient(WithBaseURL(api.URL), WithCache(rt))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := c.GetTimeline(ctx, "106", "288439", "288440", "400")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), api.hits.Load())

	// Past the events TTL the API answers 503; the stale copy is served.
	now = now.Add(DefaultTTLs.Events + time.Second)
	api.status.Store(http.StatusServiceUnavailable)
	events, err := c.GetTimeline(ctx, "106", "288439", "288440", "400")
	require.NoError(t, err)
	assert.Len(t, events, 3)
	assert.Equal(t, int32(2), api.hits.Load())
}

func TestFlagURL(t *testing.T) {
	c := NewClient()
	assert.Equal(t, "https://api.fifa.com/api/v3/picture/flags-sq-4/ARG", c.FlagURL("ARG"))
	assert.Equal(t, "", c.FlagURL(" "))
}

func TestEndpointLabel(t *testing.T) {
	assert.Equal(t, "timelines", endpointLabel("/timelines/106/1/2/3"))
	assert.Equal(t, "calendar", endpointLabel("/calendar/matches"))
	assert.Equal(t, "root", endpointLabel("/"))
}
