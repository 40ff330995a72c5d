package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/trackcore-go/internal/models"
)

var baseTime = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func sample(i int, speed *float64) Sample {
	ts := baseTime.Add(time.Duration(i) * 10 * time.Second)
	return Sample{
		Latitude:  models.Float(46.5 + float64(i)*0.0001),
		Longitude: models.Float(7.1),
		Time:      &ts,
		Speed:     speed,
	}
}

func segmentsOf(points []models.TrackPoint) []int {
	var out []int
	for _, p := range points {
		out = append(out, p.Segment)
	}
	return out
}

func TestSegmenterSplitsAtStop(t *testing.T) {
	seg := NewSegmenter()
	moving := models.Float(3)

	i := 0
	for ; i < 6; i++ {
		seg.AddPoint(sample(i, moving))
	}
	// standing still: each stopped sample flushes the run before it, and the
	// last stopped sample opens the next run
	for ; i < 9; i++ {
		seg.AddPoint(sample(i, models.Float(0)))
	}
	for ; i < 15; i++ {
		seg.AddPoint(sample(i, moving))
	}

	points := seg.Close()
	require.Len(t, points, 13)

	segs := segmentsOf(points)
	assert.Equal(t, []int{1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 2, 2, 2}, segs)
}

func TestSegmenterDiscardsShortRuns(t *testing.T) {
	seg := NewSegmenter()
	moving := models.Float(3)

	for i := 0; i < 4; i++ {
		seg.AddPoint(sample(i, moving))
	}
	seg.AddPoint(sample(4, nil)) // absent speed counts as stopped
	for i := 5; i < 11; i++ {
		seg.AddPoint(sample(i, moving))
	}

	points := seg.Close()
	require.Len(t, points, 7)
	for _, p := range points {
		assert.Equal(t, 1, p.Segment, "the discarded run must not consume a segment number")
	}
	assert.Equal(t, baseTime.Add(40*time.Second).UnixMilli(), points[0].Time)
}

func TestSegmenterNewSegmentMarker(t *testing.T) {
	seg := NewSegmenter()
	moving := models.Float(3)

	seg.NewSegment()
	for i := 0; i < 5; i++ {
		seg.AddPoint(sample(i, moving))
	}
	seg.NewSegment()
	for i := 5; i < 10; i++ {
		seg.AddPoint(sample(i, moving))
	}

	assert.Equal(t, []int{1, 1, 1, 1, 1, 2, 2, 2, 2, 2}, segmentsOf(seg.Close()))
}

func TestSegmenterRejectsInvalidPoints(t *testing.T) {
	moving := models.Float(3)
	tests := []struct {
		name   string
		mutate func(s *Sample)
	}{
		{name: "missing latitude", mutate: func(s *Sample) { s.Latitude = nil }},
		{name: "missing longitude", mutate: func(s *Sample) { s.Longitude = nil }},
		{name: "latitude out of range", mutate: func(s *Sample) { s.Latitude = models.Float(91) }},
		{name: "longitude out of range", mutate: func(s *Sample) { s.Longitude = models.Float(-181) }},
		{name: "missing time", mutate: func(s *Sample) { s.Time = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seg := NewSegmenter()
			for i := 0; i < 5; i++ {
				seg.AddPoint(sample(i, moving))
			}
			bad := sample(5, moving)
			tt.mutate(&bad)
			seg.AddPoint(bad)

			assert.Len(t, seg.Close(), 5)
		})
	}
}

func TestSegmenterEmpty(t *testing.T) {
	seg := NewSegmenter()
	for i := 0; i < 3; i++ {
		seg.AddPoint(sample(i, models.Float(2)))
	}
	assert.Empty(t, seg.Close())
}
