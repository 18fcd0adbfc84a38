package model

import "time"

// Side identifies which team of a match an event belongs to.
type Side int

const (
	SideUnknown Side = 0
	SideHome    Side = 1
	SideAway    Side = 2
)

func (s Side) String() string {
	switch s {
	case SideHome:
		return "HOME"
	case SideAway:
		return "AWAY"
	default:
		return "?"
	}
}

// ---- Upstream records ----

// Match is one fixture from the season calendar.
type Match struct {
	MatchID   string
	StageName string
	GroupName string
	HomeID    string
	HomeName  string
	AwayID    string
	AwayName  string
	Kickoff   time.Time // zero when the calendar had no parseable date
}

// Name is the "Home vs Away" label used by selectors and headers.
func (m Match) Name() string {
	return m.HomeName + " vs " + m.AwayName
}

// KickoffDate returns the kickoff as YYYY-MM-DD, or "" when unknown.
func (m Match) KickoffDate() string {
	if m.Kickoff.IsZero() {
		return ""
	}
	return m.Kickoff.Format("2006-01-02")
}

// SideOf maps a team id to the match side. Unknown ids map to SideUnknown.
func (m Match) SideOf(teamID string) Side {
	switch teamID {
	case "":
		return SideUnknown
	case m.HomeID:
		return SideHome
	case m.AwayID:
		return SideAway
	default:
		return SideUnknown
	}
}

// TeamName returns the display name for a side, "" for SideUnknown.
func (m Match) TeamName(s Side) string {
	switch s {
	case SideHome:
		return m.HomeName
	case SideAway:
		return m.AwayName
	default:
		return ""
	}
}

// RawEvent is a single timeline action as delivered by the API. RawTime keeps
// whatever JSON value the feed used: a string, a number or nil.
type RawEvent struct {
	TeamID      string
	PlayerID    string
	Description string
	RawTime     any
}

// SquadPlayer is one roster entry.
type SquadPlayer struct {
	TeamID     string
	PlayerID   string
	PlayerName string
}

// TeamInfo is one entry of the competition team directory.
type TeamInfo struct {
	TeamID        string
	TeamName      string
	Abbreviation  string
	Confederation string
	FlagURL       string
}

// ---- Derived rows ----

// AttackRow is an attacking event with resolved names and timing fields.
// PlayerName is "" when the player is not in the squad lookup; TeamName is ""
// when the team id matched neither side.
type AttackRow struct {
	TeamID      string
	Side        Side
	TeamName    string
	PlayerID    string
	PlayerName  string
	Description string
	RawTime     any
	Seconds     float64
	Minute      int
	Label       string
	Weight      float64
}

// MinuteRow holds the weighted sums of one minute for both teams.
type MinuteRow struct {
	Minute int     `json:"minute"`
	TeamA  float64 `json:"team_a"`
	TeamB  float64 `json:"team_b"`
}

// Palette is the two display colors of a match as #RRGGBB strings.
type Palette struct {
	HomeColor string `json:"home_color"`
	AwayColor string `json:"away_color"`
}

// TeamColors is an authoritative home/away pair for a single team.
type TeamColors struct {
	Name      string
	Abbr      string
	HomeColor string
	AwayColor string
}

// ---- Statistics ----

// TeamEventCount is the total number of events a team produced.
type TeamEventCount struct {
	Side        Side
	TeamName    string
	FlagURL     string
	TotalEvents int
}

// TeamDistribution counts events per fixed category for one team.
// Counts is aligned with the category list it was built from.
type TeamDistribution struct {
	Side     Side
	TeamName string
	FlagURL  string
	Counts   []int
}

// Score is the goal tally of a match.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}
