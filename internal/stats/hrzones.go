package stats

import (
	"sort"

	"github.com/jengzang/trackcore-go/internal/models"
)

// ComputeHrZones attributes the time between consecutive points to the zone
// of the later point's heart rate. The zone index is the number of
// thresholds at or below the heart rate. A pair without a later heart rate
// counts as unknown; a pair crossing a segment boundary is not counted at
// all.
func ComputeHrZones(points []models.TrackPoint, thresholds []float64) models.HrZones {
	sorted := append([]float64(nil), thresholds...)
	sort.Float64s(sorted)

	z := models.HrZones{
		Thresholds: sorted,
		Zones:      make([]int64, len(sorted)+1),
	}

	for i := 1; i < len(points); i++ {
		prev, p := &points[i-1], &points[i]
		if p.Segment != prev.Segment {
			continue
		}

		dt := p.Time - prev.Time
		z.Total += dt
		if p.HeartRate == nil {
			z.Unknown += dt
			continue
		}
		z.Zones[zoneIndex(sorted, *p.HeartRate)] += dt
	}
	return z
}

func zoneIndex(thresholds []float64, hr float64) int {
	return sort.Search(len(thresholds), func(i int) bool { return thresholds[i] > hr })
}
