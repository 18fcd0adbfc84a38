// Package report renders match data as terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-futsal-metrics/internal/colors"
	"github.com/pable/go-futsal-metrics/internal/model"
	"github.com/pable/go-futsal-metrics/internal/momentum"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintMatchHeader prints a one-line summary of the match.
func PrintMatchHeader(w io.Writer, m model.Match, score model.Score) {
	date := m.KickoffDate()
	if date == "" {
		date = "—"
	}
	fmt.Fprintf(w, "\n%s  |  %s %d – %d %s  |  Stage: %s  |  Group: %s  |  Date: %s\n\n",
		m.MatchID, m.HomeName, score.Home, score.Away, m.AwayName, orDash(m.StageName), orDash(m.GroupName), date)
}

// PrintMatches lists the calendar in selector order.
func PrintMatches(w io.Writer, matches []model.Match) {
	table := newTable(w)
	table.Header("#", "ID", "STAGE", "GROUP", "MATCH", "DATE")
	for i, m := range matches {
		table.Append(strconv.Itoa(i+1), m.MatchID, orDash(m.StageName), orDash(m.GroupName), m.Name(), orDash(m.KickoffDate()))
	}
	table.Render()
}

// PrintTimeline prints attack rows in time order; goals are marked.
func PrintTimeline(w io.Writer, rows []model.AttackRow) {
	table := newTable(w)
	table.Header("MIN", "SIDE", "TEAM", "PLAYER", "EVENT", "WEIGHT")
	for _, r := range rows {
		event := r.Description
		if r.Weight > 1 {
			event = color.New(color.Bold).Sprint(event)
		}
		table.Append(
			r.Label,
			r.Side.String(),
			r.TeamName,
			orDash(r.PlayerName),
			event,
			formatWeight(r.Weight),
		)
	}
	table.Render()
}

// PrintMomentum prints the per-minute matrix next to its smoothed curves.
// halftime marks the first minute of the second half.
func PrintMomentum(w io.Writer, minutes []model.MinuteRow, sm momentum.Smoothed, halftime int) {
	table := newTable(w)
	table.Header("MIN", "HOME", "AWAY", "EWMA_H", "EWMA_A", "NET", " ")
	for i, r := range minutes {
		mark := " "
		if r.Minute == halftime {
			mark = "HT"
		}
		var eh, ea, net float64
		if i < len(sm.Net) {
			eh, ea, net = sm.Home[i], sm.Away[i], sm.Net[i]
		}
		table.Append(
			strconv.Itoa(r.Minute),
			formatWeight(r.TeamA),
			formatWeight(r.TeamB),
			fmt.Sprintf("%.2f", eh),
			fmt.Sprintf("%.2f", ea),
			fmt.Sprintf("%+.2f", net),
			mark,
		)
	}
	table.Render()
	fmt.Fprintf(w, "EWMA tau = %.1f min\n", sm.TauMin)
}

// PrintTopPlayers prints the player ranking.
func PrintTopPlayers(w io.Writer, players []momentum.PlayerScore) {
	table := newTable(w)
	table.Header("#", "PLAYER", "TEAM", "SCORE")
	for i, p := range players {
		table.Append(strconv.Itoa(i+1), p.PlayerName, p.TeamName, formatWeight(p.Score))
	}
	table.Render()
}

// PrintStats prints total events per team and the per-category breakdown.
func PrintStats(w io.Writer, totals []model.TeamEventCount, dist []model.TeamDistribution, categories []string) {
	table := newTable(w)
	table.Header("TEAM", "SIDE", "EVENTS")
	for _, t := range totals {
		table.Append(t.TeamName, t.Side.String(), strconv.Itoa(t.TotalEvents))
	}
	table.Render()
	fmt.Fprintln(w)

	header := make([]any, 0, len(categories)+1)
	header = append(header, "TEAM")
	for _, c := range categories {
		header = append(header, strings.ToUpper(c))
	}
	dt := newTable(w)
	dt.Header(header...)
	for _, d := range dist {
		row := make([]any, 0, len(categories)+1)
		row = append(row, d.TeamName)
		for i := range categories {
			n := 0
			if i < len(d.Counts) {
				n = d.Counts[i]
			}
			row = append(row, strconv.Itoa(n))
		}
		dt.Append(row...)
	}
	dt.Render()
}

// PrintPalette prints the two picked colors with swatches.
func PrintPalette(w io.Writer, m model.Match, p model.Palette) {
	fmt.Fprintf(w, "%-24s %s %s\n", m.HomeName, Swatch(p.HomeColor), p.HomeColor)
	fmt.Fprintf(w, "%-24s %s %s\n", m.AwayName, Swatch(p.AwayColor), p.AwayColor)
	if d, err := colors.DeltaE76(p.HomeColor, p.AwayColor); err == nil {
		fmt.Fprintf(w, "ΔE76 = %.1f\n", d)
	}
}

// PrintTeamColors lists the stored authoritative pairs.
func PrintTeamColors(w io.Writer, rows []model.TeamColors) {
	table := newTable(w)
	table.Header("NAME", "ABBR", "HOME", " ", "AWAY", " ")
	for _, r := range rows {
		table.Append(r.Name, orDash(r.Abbr), r.HomeColor, Swatch(r.HomeColor), r.AwayColor, Swatch(r.AwayColor))
	}
	table.Render()
}

// PrintRows prints an arbitrary result set.
func PrintRows(w io.Writer, cols []string, rows [][]string) {
	table := newTable(w)
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	table.Header(header...)
	for _, row := range rows {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v
		}
		table.Append(cells...)
	}
	table.Render()
}

// Swatch paints a small block in hex. Unparseable colors print as "?".
func Swatch(hex string) string {
	c, err := colors.ParseHex(hex)
	if err != nil {
		return " ? "
	}
	r, g, b := c.RGB255()
	return color.BgRGB(int(r), int(g), int(b)).Sprint("   ")
}

func formatWeight(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}
