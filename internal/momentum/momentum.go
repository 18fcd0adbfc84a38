// Package momentum turns the per-minute matrix and the attack table into the
// series drawn by the dashboard charts.
package momentum

import (
	"sort"

	"github.com/pable/go-futsal-metrics/internal/model"
	"github.com/pable/go-futsal-metrics/internal/smooth"
)

// Mirrored is the bar-chart form of the matrix: home positive, away negated.
type Mirrored struct {
	Minutes []int     `json:"minutes"`
	Home    []float64 `json:"home"`
	Away    []float64 `json:"away"`
}

// Smoothed holds EWMA curves of home, negated away and net (home - away).
type Smoothed struct {
	Minutes []int     `json:"minutes"`
	Home    []float64 `json:"home"`
	Away    []float64 `json:"away"`
	Net     []float64 `json:"net"`
	TauMin  float64   `json:"tau_min"`
}

// Point is one step of a cumulative curve. Minute is fractional.
type Point struct {
	Minute float64 `json:"minute"`
	Total  float64 `json:"total"`
}

// Curve is one team's cumulative participation.
type Curve struct {
	Side     model.Side `json:"-"`
	TeamName string     `json:"team"`
	Points   []Point    `json:"points"`
}

// PlayerScore is a player's summed attacking weight.
type PlayerScore struct {
	PlayerName string     `json:"player"`
	TeamName   string     `json:"team"`
	Side       model.Side `json:"-"`
	Score      float64    `json:"score"`
}

// Mirror splits the matrix into the two signed bar series.
func Mirror(matrix []model.MinuteRow) Mirrored {
	m := Mirrored{
		Minutes: make([]int, len(matrix)),
		Home:    make([]float64, len(matrix)),
		Away:    make([]float64, len(matrix)),
	}
	for i, r := range matrix {
		m.Minutes[i] = r.Minute
		m.Home[i] = r.TeamA
		m.Away[i] = -r.TeamB
	}
	return m
}

// Smooth runs the EWMA over the mirrored series and their difference. dt is
// the matrix spacing and tau the time constant, both in minutes.
func Smooth(matrix []model.MinuteRow, dt, tau float64) Smoothed {
	mir := Mirror(matrix)
	net := make([]float64, len(matrix))
	for i, r := range matrix {
		net[i] = r.TeamA - r.TeamB
	}
	return Smoothed{
		Minutes: mir.Minutes,
		Home:    smooth.EWMA(mir.Home, dt, tau),
		Away:    smooth.EWMA(mir.Away, dt, tau),
		Net:     smooth.EWMA(net, dt, tau),
		TauMin:  tau,
	}
}

// Cumulative builds a running weight sum per side over event time, home
// first. Rows of unknown teams are ignored; a side with no rows gets an empty
// curve.
func Cumulative(rows []model.AttackRow, match model.Match) []Curve {
	out := []Curve{
		{Side: model.SideHome, TeamName: match.HomeName, Points: []Point{}},
		{Side: model.SideAway, TeamName: match.AwayName, Points: []Point{}},
	}
	for i := range out {
		side := make([]model.AttackRow, 0)
		for _, r := range rows {
			if r.Side == out[i].Side {
				side = append(side, r)
			}
		}
		sort.SliceStable(side, func(a, b int) bool { return side[a].Seconds < side[b].Seconds })

		total := 0.0
		for _, r := range side {
			total += r.Weight
			out[i].Points = append(out[i].Points, Point{Minute: r.Seconds / 60, Total: total})
		}
	}
	return out
}

// TopPlayers ranks (player, team) pairs by summed weight and keeps the first
// n. Ties keep the order in which the pair first appeared. Rows without a
// player name are grouped under "". n <= 0 returns an empty slice.
func TopPlayers(rows []model.AttackRow, n int) []PlayerScore {
	type key struct{ player, team string }

	index := make(map[key]int)
	ranked := make([]PlayerScore, 0)
	for _, r := range rows {
		k := key{r.PlayerName, r.TeamName}
		i, ok := index[k]
		if !ok {
			i = len(ranked)
			index[k] = i
			ranked = append(ranked, PlayerScore{PlayerName: r.PlayerName, TeamName: r.TeamName, Side: r.Side})
		}
		ranked[i].Score += r.Weight
	}

	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].Score > ranked[b].Score })
	if n <= 0 {
		return []PlayerScore{}
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
