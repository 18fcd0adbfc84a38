package fifa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pable/go-futsal-metrics/internal/model"
)

// Text is a field the API sends either as a plain string or as a localized
// list [{"Locale": "en-GB", "Description": "..."}]. The first description
// wins; null and empty lists decode to "".
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*t = ""
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	case b[0] == '[':
		var items []struct {
			Description string `json:"Description"`
		}
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*t = ""
		if len(items) > 0 {
			*t = Text(items[0].Description)
		}
		return nil
	}
	return fmt.Errorf("fifa: unexpected localized text %s", b)
}

// ID is an identifier the API sends as a string or a number.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("fifa: unexpected id %s", b)
	}
	*id = ID(n.String())
	return nil
}

type teamRef struct {
	IdTeam        ID   `json:"IdTeam"`
	TeamName      Text `json:"TeamName"`
	ShortClubName Text `json:"ShortClubName"`
}

// displayName prefers the short club name, as the match centre does.
func (t *teamRef) displayName() string {
	if t == nil {
		return ""
	}
	if t.ShortClubName != "" {
		return string(t.ShortClubName)
	}
	return string(t.TeamName)
}

func (t *teamRef) id() string {
	if t == nil {
		return ""
	}
	return string(t.IdTeam)
}

type calendarMatch struct {
	IdMatch   ID       `json:"IdMatch"`
	StageName Text     `json:"StageName"`
	GroupName Text     `json:"GroupName"`
	Home      *teamRef `json:"Home"`
	Away      *teamRef `json:"Away"`
	LocalDate string   `json:"LocalDate"`
	Date      string   `json:"Date"`
}

type timelineEvent struct {
	IdTeam        ID              `json:"IdTeam"`
	IdPlayer      ID              `json:"IdPlayer"`
	TypeLocalized Text            `json:"TypeLocalized"`
	MatchMinute   json.RawMessage `json:"MatchMinute"`
}

type squadPlayer struct {
	IdTeam    ID   `json:"IdTeam"`
	IdPlayer  ID   `json:"IdPlayer"`
	ShortName Text `json:"ShortName"`
	Name      Text `json:"PlayerName"`
}

type competitionTeam struct {
	IdTeam          ID     `json:"IdTeam"`
	TeamName        Text   `json:"TeamName"`
	ShortClubName   Text   `json:"ShortClubName"`
	Abbreviation    string `json:"Abbreviation"`
	IdConfederation ID     `json:"IdConfederation"`
}

var kickoffLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseKickoff returns the zero time for empty or unrecognized dates.
func parseKickoff(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range kickoffLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// rawMinute turns the MatchMinute JSON into the value the time parser takes:
// a string, a json.Number or nil.
func rawMinute(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	return v
}

// GetMatches returns up to count fixtures of the season calendar, in API order.
func (c *Client) GetMatches(ctx context.Context, seasonID string, count int) ([]model.Match, error) {
	var resp struct {
		Results []calendarMatch `json:"Results"`
	}
	params := url.Values{
		"idSeason": {seasonID},
		"count":    {strconv.Itoa(count)},
	}
	if err := c.get(ctx, "/calendar/matches", params, c.ttls.Matches, &resp); err != nil {
		return nil, err
	}

	out := make([]model.Match, 0, len(resp.Results))
	for _, m := range resp.Results {
		date := m.LocalDate
		if date == "" {
			date = m.Date
		}
		out = append(out, model.Match{
			MatchID:   string(m.IdMatch),
			StageName: string(m.StageName),
			GroupName: string(m.GroupName),
			HomeID:    m.Home.id(),
			HomeName:  m.Home.displayName(),
			AwayID:    m.Away.id(),
			AwayName:  m.Away.displayName(),
			Kickoff:   parseKickoff(date),
		})
	}
	return out, nil
}

// GetTimeline returns every event of a match, in feed order.
func (c *Client) GetTimeline(ctx context.Context, competitionID, seasonID, stageID, matchID string) ([]model.RawEvent, error) {
	var resp struct {
		Event []timelineEvent `json:"Event"`
	}
	path := fmt.Sprintf("/timelines/%s/%s/%s/%s",
		url.PathEscape(competitionID), url.PathEscape(seasonID), url.PathEscape(stageID), url.PathEscape(matchID))
	if err := c.get(ctx, path, nil, c.ttls.Events, &resp); err != nil {
		return nil, err
	}

	out := make([]model.RawEvent, 0, len(resp.Event))
	for _, e := range resp.Event {
		out = append(out, model.RawEvent{
			TeamID:      string(e.IdTeam),
			PlayerID:    string(e.IdPlayer),
			Description: string(e.TypeLocalized),
			RawTime:     rawMinute(e.MatchMinute),
		})
	}
	return out, nil
}

// GetSquad returns the roster of a team for a competition season.
func (c *Client) GetSquad(ctx context.Context, teamID, competitionID, seasonID string) ([]model.SquadPlayer, error) {
	var resp struct {
		Players []squadPlayer `json:"Players"`
	}
	params := url.Values{
		"idCompetition": {competitionID},
		"idSeason":      {seasonID},
	}
	path := "/teams/" + url.PathEscape(teamID) + "/squad"
	if err := c.get(ctx, path, params, c.ttls.Squads, &resp); err != nil {
		return nil, err
	}

	out := make([]model.SquadPlayer, 0, len(resp.Players))
	for _, p := range resp.Players {
		tid := string(p.IdTeam)
		if tid == "" {
			tid = teamID
		}
		name := p.ShortName
		if name == "" {
			name = p.Name
		}
		out = append(out, model.SquadPlayer{TeamID: tid, PlayerID: string(p.IdPlayer), PlayerName: string(name)})
	}
	return out, nil
}

// GetTeams returns the competition team directory of a season.
func (c *Client) GetTeams(ctx context.Context, seasonID string) ([]model.TeamInfo, error) {
	var resp struct {
		Results []competitionTeam `json:"Results"`
	}
	if err := c.get(ctx, "/competitions/teams/"+url.PathEscape(seasonID), nil, c.ttls.Teams, &resp); err != nil {
		return nil, err
	}

	out := make([]model.TeamInfo, 0, len(resp.Results))
	for _, t := range resp.Results {
		name := t.ShortClubName
		if name == "" {
			name = t.TeamName
		}
		out = append(out, model.TeamInfo{
			TeamID:        string(t.IdTeam),
			TeamName:      string(name),
			Abbreviation:  t.Abbreviation,
			Confederation: string(t.IdConfederation),
			FlagURL:       c.FlagURL(t.Abbreviation),
		})
	}
	return out, nil
}

// TeamDirectory resolves team ids against the season team list. It
// implements the colors abbreviation source.
type TeamDirectory struct {
	client   *Client
	seasonID string
}

// Directory returns the team directory of a season. Lookups go through the
// client's cache, so repeated calls are cheap.
func (c *Client) Directory(seasonID string) *TeamDirectory {
	return &TeamDirectory{client: c, seasonID: seasonID}
}

// Teams indexes the directory by team id.
func (d *TeamDirectory) Teams(ctx context.Context) (map[string]model.TeamInfo, error) {
	teams, err := d.client.GetTeams(ctx, d.seasonID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]model.TeamInfo, len(teams))
	for _, t := range teams {
		out[t.TeamID] = t
	}
	return out, nil
}

// Flags maps team id to flag URL.
func (d *TeamDirectory) Flags(ctx context.Context) (map[string]string, error) {
	teams, err := d.Teams(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(teams))
	for id, t := range teams {
		out[id] = t.FlagURL
	}
	return out, nil
}

// Abbreviation returns the FIFA code of a team ("ESP"). ok is false when the
// team is unknown or has no code.
func (d *TeamDirectory) Abbreviation(ctx context.Context, teamID string) (string, bool, error) {
	teams, err := d.Teams(ctx)
	if err != nil {
		return "", false, err
	}
	t, ok := teams[teamID]
	if !ok || t.Abbreviation == "" {
		return "", false, nil
	}
	return t.Abbreviation, true, nil
}
