package correction

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/jengzang/trackcore-go/internal/elevation"
	"github.com/jengzang/trackcore-go/internal/models"
	"github.com/jengzang/trackcore-go/internal/smoothing"
	"github.com/jengzang/trackcore-go/internal/spatial"
)

// BaselineSize is the number of recent corrected altitudes averaged into
// the baseline that gain and loss are measured against.
const BaselineSize = 20

// ElevationLookup resolves the elevation of locations, in request order.
type ElevationLookup interface {
	Lookup(ctx context.Context, locations []elevation.Location) ([]float64, error)
}

// AltitudeResult is an activity after altitude correction.
type AltitudeResult struct {
	Points      []models.TrackPoint
	Gain        float64
	Loss        float64
	MinAltitude *float64
	MaxAltitude *float64
}

// CorrectAltitude replaces the altitude of every point with the one
// reported by lookup and recomputes per-point gain and loss.
//
// All elevations are fetched before anything is recomputed; a failed lookup
// aborts the run. Gain and loss are measured on the mean of the last
// BaselineSize altitudes, sampled every WindowDistance meters, with the
// glitch and commit thresholds of smoothing.GainLoss. The input slice is not
// modified.
func CorrectAltitude(ctx context.Context, points []models.TrackPoint, lookup ElevationLookup) (*AltitudeResult, error) {
	locations := lo.Map(points, func(p models.TrackPoint, _ int) elevation.Location {
		return elevation.Location{Latitude: p.Latitude, Longitude: p.Longitude}
	})

	altitudes, err := lookup.Lookup(ctx, locations)
	if err != nil {
		return nil, fmt.Errorf("failed to look up elevations: %w", err)
	}
	if len(altitudes) != len(points) {
		return nil, fmt.Errorf("%w: got %d elevations for %d points", elevation.ErrService, len(altitudes), len(points))
	}

	res := &AltitudeResult{Points: make([]models.TrackPoint, len(points))}
	baseline := smoothing.NewRing(BaselineSize)
	gainLoss := smoothing.NewGainLoss()
	var dist float64

	for i, p := range points {
		alt := altitudes[i]
		p.Altitude = models.Float(alt)
		baseline.Add(alt)

		if res.MinAltitude == nil || alt < *res.MinAltitude {
			res.MinAltitude = models.Float(alt)
		}
		if res.MaxAltitude == nil || alt > *res.MaxAltitude {
			res.MaxAltitude = models.Float(alt)
		}

		if i == 0 {
			gainLoss.Add(baseline.Mean())
		} else {
			prev := &points[i-1]
			dist += spatial.HaversineDistance(prev.Latitude, prev.Longitude, p.Latitude, p.Longitude)
			if dist >= WindowDistance {
				gainLoss.Add(baseline.Mean())
				dist = 0
			}
		}

		gain, loss := gainLoss.GetAndReset()
		p.ElevationGain = models.Float(gain)
		p.ElevationLoss = models.Float(loss)
		res.Points[i] = p
	}

	res.Gain, res.Loss = gainLoss.Totals()
	return res, nil
}
