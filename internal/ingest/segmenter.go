package ingest

import (
	"math"

	"github.com/jengzang/trackcore-go/internal/models"
)

const (
	// MinMovingSpeed is the speed in m/s below which a sample counts as stopped.
	MinMovingSpeed = 0.1
	// MinSegmentPoints is the largest run of points discarded as noise.
	MinSegmentPoints = 4
)

// Segmenter splits a stream of samples into temporal segments at pauses.
//
// A sample without a valid position or time is dropped. A stopped sample
// (speed below MinMovingSpeed, or no speed at all) flushes the buffered run,
// as does an explicit NewSegment marker. Runs of MinSegmentPoints or fewer
// points are discarded; longer runs are committed under the next segment
// number.
type Segmenter struct {
	buffer     []models.TrackPoint
	committed  []models.TrackPoint
	segment    int
	newSegment bool
}

// NewSegmenter returns an empty Segmenter.
func NewSegmenter() *Segmenter {
	return &Segmenter{}
}

// NewSegment forces a flush before the next accepted sample.
func (s *Segmenter) NewSegment() {
	s.newSegment = true
}

// AddPoint buffers one sample.
func (s *Segmenter) AddPoint(sample Sample) {
	p, ok := toTrackPoint(sample)
	if !ok {
		return
	}

	stopped := p.Speed == nil || *p.Speed < MinMovingSpeed
	if (stopped && len(s.buffer) > 0) || s.newSegment {
		s.flush()
		s.newSegment = false
	}
	s.buffer = append(s.buffer, p)
}

// Close flushes the trailing run and returns every committed point.
func (s *Segmenter) Close() []models.TrackPoint {
	s.flush()
	return s.committed
}

func (s *Segmenter) flush() {
	if len(s.buffer) > MinSegmentPoints {
		s.segment++
		for i := range s.buffer {
			s.buffer[i].Segment = s.segment
		}
		s.committed = append(s.committed, s.buffer...)
	}
	s.buffer = nil
}

func toTrackPoint(sample Sample) (models.TrackPoint, bool) {
	if sample.Latitude == nil || sample.Longitude == nil || sample.Time == nil || sample.Time.IsZero() {
		return models.TrackPoint{}, false
	}
	lat, lon := *sample.Latitude, *sample.Longitude
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return models.TrackPoint{}, false
	}

	return models.TrackPoint{
		Latitude:      lat,
		Longitude:     lon,
		Time:          sample.Time.UnixMilli(),
		Speed:         sample.Speed,
		Altitude:      sample.Altitude,
		ElevationGain: sample.ElevationGain,
		ElevationLoss: sample.ElevationLoss,
		HeartRate:     sample.HeartRate,
		Cadence:       sample.Cadence,
		Power:         sample.Power,
		Temperature:   sample.Temperature,
	}, true
}
