package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/trackcore-go/internal/models"
	"github.com/jengzang/trackcore-go/internal/spatial"
)

const t0 = int64(1714550400000)

// line builds n points heading north, step degrees and stepMillis apart, all
// in segment 1.
func line(n int, step float64, stepMillis int64) []models.TrackPoint {
	points := make([]models.TrackPoint, n)
	for i := range points {
		points[i] = models.TrackPoint{
			Segment:   1,
			Latitude:  46.5 + float64(i)*step,
			Longitude: 7.1,
			Time:      t0 + int64(i)*stepMillis,
		}
	}
	return points
}

func TestComputeConstantSpeed(t *testing.T) {
	const n = 11
	points := line(n, 0.0001, 10000)
	for i := range points {
		points[i].Speed = models.Float(1.1)
	}

	s := Compute(points)

	d := spatial.HaversineDistance(points[0].Latitude, 7.1, points[n-1].Latitude, 7.1)
	assert.InDelta(t, d, s.Distance, 1e-6)
	assert.Equal(t, int64((n-1)*10000), s.TotalTime)
	assert.Equal(t, s.TotalTime, s.MovingTime)

	want := d / float64((n-1)*10)
	require.NotNil(t, s.AvgSpeed)
	require.NotNil(t, s.AvgMovingSpeed)
	assert.InDelta(t, want, *s.AvgSpeed, 1e-9)
	assert.InDelta(t, want, *s.AvgMovingSpeed, 1e-9)

	require.NotNil(t, s.StartTime)
	require.NotNil(t, s.EndTime)
	assert.Equal(t, t0, *s.StartTime)
	assert.Equal(t, t0+int64((n-1)*10000), *s.EndTime)
	require.NotNil(t, s.MaxSpeed)
	assert.Equal(t, 1.1, *s.MaxSpeed)
}

func TestComputeSegments(t *testing.T) {
	points := line(10, 0.0001, 10000)
	for i := 5; i < 10; i++ {
		points[i].Segment = 2
		points[i].Time += 60000 // one minute pause before the second segment
	}

	s := Compute(points)

	assert.Equal(t, int64(9*10000+60000), s.TotalTime)
	assert.Equal(t, int64(8*10000), s.MovingTime)
	require.NotNil(t, s.AvgSpeed)
	require.NotNil(t, s.AvgMovingSpeed)
	assert.Greater(t, *s.AvgMovingSpeed, *s.AvgSpeed)
}

func TestComputeOptionalFields(t *testing.T) {
	points := line(3, 0.0001, 10000)
	points[2].Time = t0 + 40000

	points[0].HeartRate = models.Float(100)
	points[1].HeartRate = models.Float(100)
	points[2].HeartRate = models.Float(160)

	points[0].Altitude = models.Float(420)
	points[2].Altitude = models.Float(415)
	points[1].ElevationGain = models.Float(1.5)
	points[2].ElevationGain = models.Float(0.5)

	points[1].Temperature = models.Float(-2)
	points[2].Temperature = models.Float(4)

	s := Compute(points)

	require.NotNil(t, s.AvgHeartRate)
	assert.InDelta(t, 145.0, *s.AvgHeartRate, 1e-9)
	require.NotNil(t, s.MaxHeartRate)
	assert.Equal(t, 160.0, *s.MaxHeartRate)

	require.NotNil(t, s.MinAltitude)
	require.NotNil(t, s.MaxAltitude)
	assert.Equal(t, 415.0, *s.MinAltitude)
	assert.Equal(t, 420.0, *s.MaxAltitude)

	require.NotNil(t, s.ElevationGain)
	assert.Equal(t, 2.0, *s.ElevationGain)
	assert.Nil(t, s.ElevationLoss, "absent deltas must not sum to zero")

	require.NotNil(t, s.MinTemperature)
	require.NotNil(t, s.MaxTemperature)
	assert.Equal(t, -2.0, *s.MinTemperature)
	assert.Equal(t, 4.0, *s.MaxTemperature)

	assert.Nil(t, s.AvgCadence)
	assert.Nil(t, s.MaxPower)
	assert.Nil(t, s.MaxSpeed)
}

func TestComputeDegenerate(t *testing.T) {
	assert.Equal(t, models.Stats{}, Compute(nil))

	s := Compute(line(1, 0, 0))
	assert.Zero(t, s.TotalTime)
	assert.Nil(t, s.AvgSpeed)
	assert.Nil(t, s.AvgMovingSpeed)
}

func TestComputeHrZones(t *testing.T) {
	hr := []*float64{
		models.Float(5), models.Float(10), models.Float(15), models.Float(20),
		models.Float(25), models.Float(30), models.Float(35), models.Float(40),
		nil,
		models.Float(45), models.Float(50), models.Float(55), models.Float(9),
		models.Float(19), models.Float(29), models.Float(39), models.Float(49),
	}
	points := line(len(hr), 0.0001, 1000)
	for i := range points {
		points[i].HeartRate = hr[i]
		if i >= 9 {
			points[i].Segment = 2
		}
	}

	z := ComputeHrZones(points, []float64{10, 20, 30, 40, 50})

	// per pair, by the later sample:
	// 10,15 -> 1; 20,25 -> 2; 30,35 -> 3; 40 -> 4; nil -> unknown;
	// 40|45 crosses the segment boundary and is not counted;
	// 50,55 -> 5; 9 -> 0; 19 -> 1; 29 -> 2; 39 -> 3; 49 -> 4
	assert.Equal(t, []int64{1000, 3000, 3000, 3000, 2000, 2000}, z.Zones)
	assert.Equal(t, int64(1000), z.Unknown)
	assert.Equal(t, int64(15000), z.Total)
	assert.Equal(t, []float64{10, 20, 30, 40, 50}, z.Thresholds)
}

func TestComputeHrZonesUnsortedThresholds(t *testing.T) {
	points := line(2, 0.0001, 5000)
	points[1].HeartRate = models.Float(150)

	z := ComputeHrZones(points, []float64{160, 120, 140})
	assert.Equal(t, []float64{120, 140, 160}, z.Thresholds)
	assert.Equal(t, []int64{0, 0, 5000, 0}, z.Zones)
}

func TestComputeIntervals(t *testing.T) {
	points := line(21, 0.0009, 10000)
	step := spatial.HaversineDistance(46.5, 7.1, 46.5009, 7.1)
	speed := step / 10

	t.Run("exact boundaries", func(t *testing.T) {
		intervals := ComputeIntervals(points, 500, models.CategoryCycling)

		// 20 * ~100.08 m leaves a trailing ~1.5 m which is dropped
		require.Len(t, intervals, 4)
		for i, iv := range intervals {
			assert.Equal(t, i+1, iv.Index)
			assert.InDelta(t, 500.0, iv.Distance, 1e-9)
			assert.InDelta(t, 500/speed, iv.Time, 1e-6)
			require.NotNil(t, iv.AvgSpeed)
			assert.InDelta(t, speed, *iv.AvgSpeed, 1e-6)
			require.NotNil(t, iv.MaxSpeed)
			assert.InDelta(t, speed, *iv.MaxSpeed, 1e-6)
		}
	})

	t.Run("trailing interval kept", func(t *testing.T) {
		intervals := ComputeIntervals(points, 300, models.CategoryCycling)

		require.Len(t, intervals, 7)
		last := intervals[6]
		assert.InDelta(t, 20*step-6*300, last.Distance, 1e-6)

		var total float64
		for _, iv := range intervals {
			total += iv.Distance
		}
		assert.InDelta(t, 20*step, total, 1e-6)
	})

	t.Run("pace window", func(t *testing.T) {
		short := line(21, 0.0001, 10000)
		intervals := ComputeIntervals(short, 100, models.CategoryRunning)
		require.NotEmpty(t, intervals)
		// each 11.1 m pair is too short on its own; the window still yields
		// the constant speed once 50 m are covered
		require.NotNil(t, intervals[0].MaxSpeed)
		assert.InDelta(t, spatial.HaversineDistance(46.5, 7.1, 46.5001, 7.1)/10, *intervals[0].MaxSpeed, 1e-6)
	})

	t.Run("segment boundary skipped", func(t *testing.T) {
		split := line(21, 0.0009, 10000)
		for i := 10; i < 21; i++ {
			split[i].Segment = 2
		}
		intervals := ComputeIntervals(split, 500, models.CategoryCycling)

		var total float64
		for _, iv := range intervals {
			total += iv.Distance
		}
		assert.InDelta(t, 19*step, total, 1e-6)
	})

	t.Run("degenerate", func(t *testing.T) {
		assert.Nil(t, ComputeIntervals(points, 0, models.CategoryCycling))
		assert.Nil(t, ComputeIntervals(points[:1], 100, models.CategoryCycling))
	})
}
