package smooth

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEWMA_Empty(t *testing.T) {
	got := EWMA(nil, 1, 3)
	require.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, EWMA([]float64{}, 1, 3))
}

func TestEWMA_FirstElementAndLength(t *testing.T) {
	inputs := [][]float64{
		{5},
		{2, 0, 0, 0},
		{0, 1, 2, 3, 4, 5, 6},
		{-1.5, 3, -2},
	}
	for _, tau := range []float64{0.1, 1, 3, 50} {
		for _, x := range inputs {
			y := EWMA(x, 1, tau)
			require.Len(t, y, len(x))
			assert.Equal(t, x[0], y[0], "tau=%v x=%v", tau, x)
		}
	}
}

func TestEWMA_Recurrence(t *testing.T) {
	x := []float64{0, 3, 0, 0}
	alpha := 1 - math.Exp(-1.0/3.0)
	y := EWMA(x, 1, 3)

	assert.InDelta(t, 0.0, y[0], 1e-12)
	assert.InDelta(t, 3*alpha, y[1], 1e-12)
	assert.InDelta(t, 3*alpha*(1-alpha), y[2], 1e-12)
	assert.InDelta(t, 3*alpha*(1-alpha)*(1-alpha), y[3], 1e-12)
}

func TestEWMA_IsCausal(t *testing.T) {
	// Changing a later sample must not affect earlier outputs.
	a := EWMA([]float64{1, 2, 3, 4}, 1, 3)
	b := EWMA([]float64{1, 2, 3, 100}, 1, 3)
	assert.Equal(t, a[:3], b[:3])
	assert.NotEqual(t, a[3], b[3])
}

func TestEWMA_ZeroTauTracksInput(t *testing.T) {
	x := []float64{1, 4, 2, 8}
	y := EWMA(x, 1, 0)
	for i := range x {
		assert.InDelta(t, x[i], y[i], 1e-9)
	}
}

func TestAlpha_Range(t *testing.T) {
	for _, tau := range []float64{-1, 0, 1e-12, 0.5, 3, 1e6} {
		a := Alpha(1, tau)
		assert.GreaterOrEqual(t, a, 0.0)
		assert.LessOrEqual(t, a, 1.0)
	}
}
