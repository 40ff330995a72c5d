// Package stats derives aggregate metrics from segmented track points.
package stats

import (
	"github.com/jengzang/trackcore-go/internal/models"
	"github.com/jengzang/trackcore-go/internal/smoothing"
	"github.com/jengzang/trackcore-go/internal/spatial"
)

// Compute aggregates points, which must be ordered by time and numbered by
// temporal segment.
//
// Total time spans every gap between consecutive points; moving time only
// the gaps inside one segment. Sensor averages are time weighted and never
// bridge a segment boundary.
func Compute(points []models.TrackPoint) models.Stats {
	var s models.Stats
	if len(points) == 0 {
		return s
	}

	start, end := points[0].Time, points[len(points)-1].Time
	s.StartTime, s.EndTime = &start, &end

	var (
		heartRate, cadence, power, temperature smoothing.Sensor
		gain, loss                             *float64
	)

	for i := range points {
		p := &points[i]

		if i > 0 {
			prev := &points[i-1]
			dt := p.Time - prev.Time
			s.TotalTime += dt
			s.Distance += spatial.HaversineDistance(prev.Latitude, prev.Longitude, p.Latitude, p.Longitude)

			if p.Segment == prev.Segment {
				s.MovingTime += dt
			} else {
				heartRate.Break()
				cadence.Break()
				power.Break()
				temperature.Break()
			}
		}

		s.MaxSpeed = maxOf(s.MaxSpeed, p.Speed)
		s.MinAltitude = minOf(s.MinAltitude, p.Altitude)
		s.MaxAltitude = maxOf(s.MaxAltitude, p.Altitude)
		gain = sumOf(gain, p.ElevationGain)
		loss = sumOf(loss, p.ElevationLoss)

		heartRate.Add(p.HeartRate, p.Time)
		cadence.Add(p.Cadence, p.Time)
		power.Add(p.Power, p.Time)
		temperature.Add(p.Temperature, p.Time)
	}

	s.ElevationGain, s.ElevationLoss = gain, loss
	s.AvgSpeed = ratio(s.Distance, s.TotalTime)
	s.AvgMovingSpeed = ratio(s.Distance, s.MovingTime)

	s.AvgHeartRate, s.MaxHeartRate = heartRate.Avg(), heartRate.Max()
	s.AvgCadence, s.MaxCadence = cadence.Avg(), cadence.Max()
	s.AvgPower, s.MaxPower = power.Avg(), power.Max()
	s.AvgTemperature = temperature.Avg()
	s.MinTemperature, s.MaxTemperature = temperature.Min(), temperature.Max()

	return s
}

// ratio returns meters per second, nil when no time elapsed.
func ratio(distance float64, millis int64) *float64 {
	if millis <= 0 {
		return nil
	}
	return models.Float(distance / (float64(millis) / 1000))
}

func maxOf(cur, v *float64) *float64 {
	if v == nil {
		return cur
	}
	if cur == nil || *v > *cur {
		return models.Float(*v)
	}
	return cur
}

func minOf(cur, v *float64) *float64 {
	if v == nil {
		return cur
	}
	if cur == nil || *v < *cur {
		return models.Float(*v)
	}
	return cur
}

// sumOf adds v to cur, staying nil until a value is present.
func sumOf(cur, v *float64) *float64 {
	if v == nil {
		return cur
	}
	if cur == nil {
		return models.Float(*v)
	}
	return models.Float(*cur + *v)
}
