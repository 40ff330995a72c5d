package ingest

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/tormoder/fit"

	"github.com/jengzang/trackcore-go/internal/models"
	"github.com/jengzang/trackcore-go/internal/smoothing"
)

// semicirclesPerDegree converts FIT fixed-point positions: 2^31 / 180.
const semicirclesPerDegree = 2147483648.0 / 180.0

// FIT invalid markers for the record fields we read.
const (
	invalidUint8  = 0xFF
	invalidSint8  = 0x7F
	invalidUint16 = 0xFFFF
	invalidUint32 = 0xFFFFFFFF
)

// FITAdapter decodes FIT activity files.
type FITAdapter struct{}

// Format implements Adapter.
func (FITAdapter) Format() string { return FormatFIT }

// Parse implements Adapter.
func (a FITAdapter) Parse(r io.Reader) (*Result, error) {
	file, err := fit.Decode(r)
	if err != nil {
		return nil, &ParseError{Format: FormatFIT, Err: err}
	}

	activity, err := file.Activity()
	if err != nil {
		return nil, &ParseError{Format: FormatFIT, Err: fmt.Errorf("not an activity file: %w", err)}
	}

	meta := fitMetadata(file, activity)
	seg := NewSegmenter()
	decodeFITActivity(activity, seg)

	return finish(FormatFIT, meta, seg)
}

// fitMetadata derives the activity metadata. The category comes from the
// first session's sport, since fit.ActivityFile does not expose sport messages.
func fitMetadata(file *fit.File, activity *fit.ActivityFile) Metadata {
	meta := Metadata{
		Category: models.CategoryUnknown,
		Source:   fmt.Sprintf("%v %d", file.FileId.Manufacturer, file.FileId.Product),
	}
	if file.FileId.Manufacturer == fit.ManufacturerGarmin {
		meta.RecordedWith = models.RecordedWithGarmin
	}
	if len(activity.Sessions) > 0 {
		meta.Category = sportCategory(activity.Sessions[0].Sport)
	}
	if !file.FileId.TimeCreated.IsZero() {
		meta.Name = file.FileId.TimeCreated.UTC().Format("2006-01-02 15:04")
	}
	return meta
}

func sportCategory(sport fit.Sport) models.Category {
	switch sport {
	case fit.SportRunning:
		return models.CategoryRunning
	case fit.SportWalking:
		return models.CategoryWalking
	case fit.SportHiking:
		return models.CategoryHiking
	case fit.SportCycling:
		return models.CategoryCycling
	case fit.SportSwimming:
		return models.CategorySwimming
	}
	return models.CategoryUnknown
}

// fitEvent is a timer transition placed on the record timeline.
type fitEvent struct {
	at   time.Time
	stop bool
}

// decodeFITActivity replays records and timer start/stop events in time order.
// Records logged while stopped are ignored. At equal timestamps a start is
// applied before the record and a stop after it.
func decodeFITActivity(activity *fit.ActivityFile, seg *Segmenter) {
	var events []fitEvent
	for _, ev := range activity.Events {
		if ev.Event != fit.EventTimer {
			continue
		}
		switch ev.EventType {
		case fit.EventTypeStart:
			events = append(events, fitEvent{at: ev.Timestamp})
		case fit.EventTypeStopAll:
			events = append(events, fitEvent{at: ev.Timestamp, stop: true})
		}
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].at.Before(events[j].at) })

	gainLoss := smoothing.NewGainLoss()
	stopped := false
	next := 0

	apply := func(ev fitEvent) {
		if ev.stop {
			stopped = true
			seg.NewSegment()
		} else {
			stopped = false
		}
	}

	for _, rec := range activity.Records {
		for next < len(events) {
			ev := events[next]
			due := ev.at.Before(rec.Timestamp) || (ev.at.Equal(rec.Timestamp) && !ev.stop)
			if !due {
				break
			}
			apply(ev)
			next++
		}
		if stopped {
			continue
		}

		sample := recordSample(rec)
		if sample.Altitude != nil {
			gainLoss.Add(*sample.Altitude)
			gain, loss := gainLoss.GetAndReset()
			sample.ElevationGain = &gain
			sample.ElevationLoss = &loss
		}
		seg.AddPoint(sample)
	}
}

func recordSample(rec *fit.RecordMsg) Sample {
	var s Sample

	if !rec.Timestamp.IsZero() {
		ts := rec.Timestamp
		s.Time = &ts
	}
	if !rec.PositionLat.Invalid() && !rec.PositionLong.Invalid() {
		s.Latitude = models.Float(float64(rec.PositionLat.Semicircles()) / semicirclesPerDegree)
		s.Longitude = models.Float(float64(rec.PositionLong.Semicircles()) / semicirclesPerDegree)
	}

	switch {
	case rec.EnhancedSpeed != invalidUint32:
		s.Speed = models.Float(float64(rec.EnhancedSpeed) / 1000)
	case rec.Speed != invalidUint16:
		s.Speed = models.Float(float64(rec.Speed) / 1000)
	}

	switch {
	case rec.EnhancedAltitude != invalidUint32:
		s.Altitude = models.Float(float64(rec.EnhancedAltitude)/5 - 500)
	case rec.Altitude != invalidUint16:
		s.Altitude = models.Float(float64(rec.Altitude)/5 - 500)
	}

	if rec.HeartRate != invalidUint8 {
		s.HeartRate = models.Float(float64(rec.HeartRate))
	}
	if rec.Cadence != invalidUint8 {
		s.Cadence = models.Float(float64(rec.Cadence))
	}
	if rec.Power != invalidUint16 {
		s.Power = models.Float(float64(rec.Power))
	}
	if rec.Temperature != invalidSint8 {
		s.Temperature = models.Float(float64(rec.Temperature))
	}
	return s
}
