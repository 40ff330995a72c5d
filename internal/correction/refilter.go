// Package correction re-processes stored points to fix elevation errors.
package correction

import (
	"github.com/jengzang/trackcore-go/internal/models"
	"github.com/jengzang/trackcore-go/internal/spatial"
)

// WindowDistance is the distance in meters over which elevation deltas are
// pooled before they are classified.
const WindowDistance = 50.0

// ElevationState is the trend of the terrain as seen by the re-filter.
type ElevationState int

// Elevation states
const (
	StateFlat ElevationState = iota
	StateClimbing
	StateDescending
)

func (s ElevationState) String() string {
	switch s {
	case StateClimbing:
		return "climbing"
	case StateDescending:
		return "descending"
	}
	return "flat"
}

// Transition classifies one closed window. A window with only gain moves a
// flat or climbing state to climbing and credits the gain; seen while
// descending it only resets to flat. Loss is symmetric. A window with both
// or neither resets to flat and credits nothing.
func Transition(state ElevationState, windowGain, windowLoss float64) (next ElevationState, creditGain, creditLoss bool) {
	switch {
	case windowGain > 0 && windowLoss == 0:
		if state == StateDescending {
			return StateFlat, false, false
		}
		return StateClimbing, true, false
	case windowLoss > 0 && windowGain == 0:
		if state == StateClimbing {
			return StateFlat, false, false
		}
		return StateDescending, false, true
	}
	return StateFlat, false, false
}

// RefilterResult holds the re-filtered totals of an activity.
type RefilterResult struct {
	Gain float64
	Loss float64
}

// RefilterGainLoss recomputes the elevation gain and loss of time-ordered
// points from their per-point deltas. Deltas are pooled in windows of
// WindowDistance meters and credited according to Transition. A trailing
// window shorter than WindowDistance is not credited.
func RefilterGainLoss(points []models.TrackPoint) RefilterResult {
	var (
		res              RefilterResult
		state            = StateFlat
		dist, gain, loss float64
	)

	for i := 1; i < len(points); i++ {
		prev, p := &points[i-1], &points[i]
		dist += spatial.HaversineDistance(prev.Latitude, prev.Longitude, p.Latitude, p.Longitude)
		if p.ElevationGain != nil {
			gain += *p.ElevationGain
		}
		if p.ElevationLoss != nil {
			loss += *p.ElevationLoss
		}

		if dist <= WindowDistance {
			continue
		}

		next, creditGain, creditLoss := Transition(state, gain, loss)
		if creditGain {
			res.Gain += gain
		}
		if creditLoss {
			res.Loss += loss
		}
		state = next
		dist, gain, loss = 0, 0, 0
	}
	return res
}
