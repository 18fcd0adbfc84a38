package momentum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-futsal-metrics/internal/model"
)

var match = model.Match{HomeID: "1", HomeName: "Spain", AwayID: "2", AwayName: "Brazil"}

func row(side model.Side, player string, sec, w float64) model.AttackRow {
	return model.AttackRow{
		Side:       side,
		TeamName:   match.TeamName(side),
		PlayerName: player,
		Seconds:    sec,
		Weight:     w,
	}
}

func TestMirror(t *testing.T) {
	m := Mirror([]model.MinuteRow{{Minute: 0}, {Minute: 1, TeamA: 2, TeamB: 1}})
	assert.Equal(t, []int{0, 1}, m.Minutes)
	assert.Equal(t, []float64{0, 2}, m.Home)
	assert.Equal(t, []float64{0, -1}, m.Away)
}

func TestSmooth(t *testing.T) {
	matrix := []model.MinuteRow{
		{Minute: 0, TeamA: 2, TeamB: 0},
		{Minute: 1, TeamA: 0, TeamB: 1},
		{Minute: 2, TeamA: 0, TeamB: 0},
	}
	s := Smooth(matrix, 1, 3)
	require.Len(t, s.Home, 3)
	require.Len(t, s.Away, 3)
	require.Len(t, s.Net, 3)

	assert.Equal(t, 2.0, s.Home[0])
	assert.Equal(t, 0.0, s.Away[0])
	assert.Equal(t, 2.0, s.Net[0])
	for i := range s.Away {
		assert.LessOrEqual(t, s.Away[i], 0.0)
	}
	for i := range s.Net {
		assert.InDelta(t, s.Home[i]+s.Away[i], s.Net[i], 1e-12)
	}
	assert.Equal(t, 3.0, s.TauMin)
}

func TestSmooth_Empty(t *testing.T) {
	s := Smooth(nil, 1, 3)
	assert.NotNil(t, s.Home)
	assert.Empty(t, s.Net)
}

func TestCumulative(t *testing.T) {
	rows := []model.AttackRow{
		row(model.SideAway, "x", 600, 1),
		row(model.SideHome, "a", 300, 2),
		row(model.SideHome, "b", 120, 1),
		row(model.SideUnknown, "c", 60, 1),
	}
	curves := Cumulative(rows, match)
	require.Len(t, curves, 2)

	assert.Equal(t, "Spain", curves[0].TeamName)
	assert.Equal(t, []Point{{Minute: 2, Total: 1}, {Minute: 5, Total: 3}}, curves[0].Points)
	assert.Equal(t, "Brazil", curves[1].TeamName)
	assert.Equal(t, []Point{{Minute: 10, Total: 1}}, curves[1].Points)
}

func TestCumulative_NoRows(t *testing.T) {
	curves := Cumulative(nil, match)
	require.Len(t, curves, 2)
	assert.Empty(t, curves[0].Points)
	assert.NotNil(t, curves[1].Points)
}

func TestTopPlayers(t *testing.T) {
	tests := []struct {
		name string
		rows []model.AttackRow
		n    int
		want []string
	}{
		{
			name: "ties keep first appearance",
			rows: []model.AttackRow{
				row(model.SideHome, "P", 0, 3),
				row(model.SideAway, "Q", 0, 3),
				row(model.SideHome, "R", 0, 1),
			},
			n:    2,
			want: []string{"P", "Q"},
		},
		{
			name: "sums repeated players",
			rows: []model.AttackRow{
				row(model.SideHome, "P", 0, 1),
				row(model.SideAway, "Q", 0, 2),
				row(model.SideHome, "P", 0, 2),
			},
			n:    5,
			want: []string{"P", "Q"},
		},
		{
			name: "same name on both teams stays separate",
			rows: []model.AttackRow{
				row(model.SideHome, "Joao", 0, 1),
				row(model.SideAway, "Joao", 0, 2),
			},
			n:    5,
			want: []string{"Joao", "Joao"},
		},
		{
			name: "zero n",
			rows: []model.AttackRow{row(model.SideHome, "P", 0, 1)},
			n:    0,
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TopPlayers(tt.rows, tt.n)
			names := make([]string, 0, len(got))
			for _, p := range got {
				names = append(names, p.PlayerName)
			}
			assert.Equal(t, tt.want, names)
		})
	}

	top := TopPlayers([]model.AttackRow{
		row(model.SideHome, "P", 0, 1),
		row(model.SideHome, "P", 0, 2),
	}, 1)
	require.Len(t, top, 1)
	assert.Equal(t, 3.0, top[0].Score)
	assert.Equal(t, "Spain", top[0].TeamName)
}
