package stats

import (
	"github.com/jengzang/trackcore-go/internal/models"
	"github.com/jengzang/trackcore-go/internal/smoothing"
	"github.com/jengzang/trackcore-go/internal/spatial"
)

const (
	// MinTrailingInterval is the shortest trailing interval, in meters, that
	// is still reported.
	MinTrailingInterval = 10.0
	// PaceWindow is the minimum distance, in meters, over which the maximum
	// speed of pace-oriented activities is averaged.
	PaceWindow = 50.0
)

type intervalAcc struct {
	distance float64
	time     float64 // seconds

	maxSpeed *float64
	gain     *float64
	loss     *float64

	heartRate, cadence, power smoothing.Sensor

	// pace window
	windowDistance float64
	windowTime     float64
}

func newIntervalAcc(distance, time float64, baseline int64) *intervalAcc {
	acc := &intervalAcc{distance: distance, time: time}
	acc.heartRate.Add(nil, baseline)
	acc.cadence.Add(nil, baseline)
	acc.power.Add(nil, baseline)
	return acc
}

func (a *intervalAcc) breakSensors() {
	a.heartRate.Break()
	a.cadence.Break()
	a.power.Break()
	a.windowDistance, a.windowTime = 0, 0
}

func (a *intervalAcc) interval(index int, distance, time float64) models.Interval {
	iv := models.Interval{
		Index:         index,
		Distance:      distance,
		Time:          time,
		MaxSpeed:      a.maxSpeed,
		ElevationGain: a.gain,
		ElevationLoss: a.loss,
		AvgHeartRate:  a.heartRate.Avg(),
		AvgCadence:    a.cadence.Avg(),
		AvgPower:      a.power.Avg(),
	}
	if time > 0 {
		iv.AvgSpeed = models.Float(distance / time)
	}
	return iv
}

// ComputeIntervals splits points into consecutive intervals of the given
// length in meters.
//
// When a pair of points crosses an interval boundary the accumulated
// distance and time are prorated so the closed interval is exactly meters
// long; the remainder opens the next interval. Pairs crossing a temporal
// segment boundary contribute nothing. A trailing interval shorter than
// MinTrailingInterval is dropped.
func ComputeIntervals(points []models.TrackPoint, meters float64, category models.Category) []models.Interval {
	if meters <= 0 || len(points) < 2 {
		return nil
	}
	paced := category.PaceOriented()

	var out []models.Interval
	acc := newIntervalAcc(0, 0, points[0].Time)

	for i := 1; i < len(points); i++ {
		prev, p := &points[i-1], &points[i]
		if p.Segment != prev.Segment {
			acc.breakSensors()
			acc.heartRate.Add(nil, p.Time)
			acc.cadence.Add(nil, p.Time)
			acc.power.Add(nil, p.Time)
			continue
		}

		d := spatial.HaversineDistance(prev.Latitude, prev.Longitude, p.Latitude, p.Longitude)
		dt := float64(p.Time-prev.Time) / 1000

		acc.distance += d
		acc.time += dt
		acc.gain = sumOf(acc.gain, p.ElevationGain)
		acc.loss = sumOf(acc.loss, p.ElevationLoss)
		acc.heartRate.Add(p.HeartRate, p.Time)
		acc.cadence.Add(p.Cadence, p.Time)
		acc.power.Add(p.Power, p.Time)

		if paced {
			acc.windowDistance += d
			acc.windowTime += dt
			if acc.windowDistance >= PaceWindow {
				if acc.windowTime > 0 {
					acc.maxSpeed = maxOf(acc.maxSpeed, models.Float(acc.windowDistance/acc.windowTime))
				}
				acc.windowDistance, acc.windowTime = 0, 0
			}
		} else if dt > 0 {
			acc.maxSpeed = maxOf(acc.maxSpeed, models.Float(d/dt))
		}

		for acc.distance >= meters {
			adjust := meters / acc.distance
			closedTime := acc.time * adjust
			out = append(out, acc.interval(len(out)+1, meters, closedTime))
			acc = newIntervalAcc(acc.distance-meters, acc.time-closedTime, p.Time)
		}
	}

	if acc.distance >= MinTrailingInterval {
		out = append(out, acc.interval(len(out)+1, acc.distance, acc.time))
	}
	return out
}
