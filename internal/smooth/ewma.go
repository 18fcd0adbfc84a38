// Package smooth implements the causal filters used for momentum curves.
package smooth

import "math"

// minTau keeps the decay constant away from zero.
const minTau = 1e-9

// Alpha returns the EWMA gain for sample spacing dt and time constant tau,
// both in the same unit. The result lies in [0, 1].
func Alpha(dt, tau float64) float64 {
	return 1 - math.Exp(-dt/math.Max(tau, minTau))
}

// EWMA returns the first-order causal exponential moving average of x:
//
//	y[0] = x[0]
//	y[i] = alpha*x[i] + (1-alpha)*y[i-1]
//
// The output has the same length as x; an empty input yields an empty slice.
func EWMA(x []float64, dt, tau float64) []float64 {
	y := make([]float64, len(x))
	if len(x) == 0 {
		return y
	}
	alpha := Alpha(dt, tau)
	y[0] = x[0]
	for i := 1; i < len(x); i++ {
		y[i] = alpha*x[i] + (1-alpha)*y[i-1]
	}
	return y
}
