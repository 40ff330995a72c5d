// Package smoothing holds the small stateful accumulators shared by the
// importers, the statistics engine and the correction tasks.
package smoothing

import "math"

const (
	// GlitchThreshold is the altitude jump in meters treated as sensor noise.
	GlitchThreshold = 5.0
	// CommitThreshold is the climb or descent in meters that must build up
	// before it is credited.
	CommitThreshold = 0.5
)

// GainLoss turns a stream of altitudes into elevation gain and loss while
// ignoring glitches and sub-threshold jitter.
type GainLoss struct {
	last    *float64
	gainAcc float64
	lossAcc float64

	gain float64
	loss float64

	pendingGain float64
	pendingLoss float64
}

// NewGainLoss returns an accumulator without a baseline altitude.
func NewGainLoss() *GainLoss {
	return &GainLoss{}
}

// Add feeds the next altitude sample.
func (g *GainLoss) Add(altitude float64) {
	if g.last == nil {
		g.last = &altitude
		return
	}

	last := *g.last
	diff := math.Abs(last - altitude)
	*g.last = altitude

	if diff > GlitchThreshold {
		g.gainAcc = 0
		g.lossAcc = 0
		return
	}

	switch {
	case altitude > last:
		g.gainAcc += diff
		g.lossAcc = 0
		if g.gainAcc > CommitThreshold {
			g.gain += g.gainAcc
			g.pendingGain += g.gainAcc
			g.gainAcc = 0
		}
	case altitude < last:
		g.lossAcc += diff
		g.gainAcc = 0
		if g.lossAcc > CommitThreshold {
			g.loss += g.lossAcc
			g.pendingLoss += g.lossAcc
			g.lossAcc = 0
		}
	default:
		g.gainAcc = 0
		g.lossAcc = 0
	}
}

// GetAndReset returns the gain and loss committed since the previous call.
// The running totals are not affected.
func (g *GainLoss) GetAndReset() (gain, loss float64) {
	gain, loss = g.pendingGain, g.pendingLoss
	g.pendingGain, g.pendingLoss = 0, 0
	return gain, loss
}

// Totals returns the gain and loss committed since construction.
func (g *GainLoss) Totals() (gain, loss float64) {
	return g.gain, g.loss
}

// HasBaseline reports whether at least one altitude has been added.
func (g *GainLoss) HasBaseline() bool {
	return g.last != nil
}
