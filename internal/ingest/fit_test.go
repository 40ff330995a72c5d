package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tormoder/fit"

	"github.com/jengzang/trackcore-go/internal/models"
)

func fitRecord(i int) *fit.RecordMsg {
	rec := fit.NewRecordMsg()
	rec.Timestamp = baseTime.Add(time.Duration(i) * time.Second)
	rec.PositionLat = fit.NewLatitudeDegrees(46.5 + float64(i)*0.00003)
	rec.PositionLong = fit.NewLongitudeDegrees(7.1)
	rec.EnhancedSpeed = 3000
	rec.EnhancedAltitude = uint32((100 + i + 500) * 5)
	rec.HeartRate = 140
	return rec
}

func fitEventMsg(i int, typ fit.EventType) *fit.EventMsg {
	ev := fit.NewEventMsg()
	ev.Timestamp = baseTime.Add(time.Duration(i) * time.Second)
	ev.Event = fit.EventTimer
	ev.EventType = typ
	return ev
}

func TestDecodeFITActivityIgnoresNonTimerEvents(t *testing.T) {
	activity := &fit.ActivityFile{}
	for i := 0; i < 12; i++ {
		activity.Records = append(activity.Records, fitRecord(i))
	}
	lapStart := fitEventMsg(8, fit.EventTypeStart)
	lapStart.Event = fit.EventLap
	sessionStop := fitEventMsg(10, fit.EventTypeStopAll)
	sessionStop.Event = fit.EventSession
	activity.Events = []*fit.EventMsg{
		fitEventMsg(0, fit.EventTypeStart),
		fitEventMsg(6, fit.EventTypeStopAll),
		lapStart,
		sessionStop,
	}

	seg := NewSegmenter()
	decodeFITActivity(activity, seg)
	points := seg.Close()

	// the timer stays stopped after record 6; the lap start does not
	// resume recording
	require.Len(t, points, 7)
	assert.Equal(t, baseTime.Add(6*time.Second).UnixMilli(), points[6].Time)
}

func TestDecodeFITActivityStopStart(t *testing.T) {
	activity := &fit.ActivityFile{}
	for i := 0; i < 12; i++ {
		activity.Records = append(activity.Records, fitRecord(i))
	}
	activity.Events = []*fit.EventMsg{
		fitEventMsg(0, fit.EventTypeStart),
		fitEventMsg(5, fit.EventTypeStopAll),
		fitEventMsg(7, fit.EventTypeStart),
	}

	seg := NewSegmenter()
	decodeFITActivity(activity, seg)
	points := seg.Close()

	// record 5 is kept (stop applies after it), record 6 is dropped while
	// stopped, record 7 is kept (start applies before it)
	require.Len(t, points, 11)
	assert.Equal(t, []int{1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 2}, segmentsOf(points))
	assert.Equal(t, baseTime.Add(7*time.Second).UnixMilli(), points[6].Time)

	first := points[0]
	assert.InDelta(t, 46.5, first.Latitude, 1e-6)
	assert.InDelta(t, 7.1, first.Longitude, 1e-6)
	require.NotNil(t, first.Speed)
	assert.Equal(t, 3.0, *first.Speed)
	require.NotNil(t, first.Altitude)
	assert.InDelta(t, 100.0, *first.Altitude, 1e-9)
	require.NotNil(t, first.HeartRate)
	assert.Equal(t, 140.0, *first.HeartRate)
	assert.Nil(t, first.Cadence)
	assert.Nil(t, first.Power)
	assert.Nil(t, first.Temperature)

	require.NotNil(t, first.ElevationGain)
	assert.Equal(t, 0.0, *first.ElevationGain)
	require.NotNil(t, points[1].ElevationGain)
	assert.InDelta(t, 1.0, *points[1].ElevationGain, 1e-9)
	// the skipped record never reaches the accumulator
	require.NotNil(t, points[6].ElevationGain)
	assert.InDelta(t, 2.0, *points[6].ElevationGain, 1e-9)
}

func TestRecordSampleFallbacks(t *testing.T) {
	rec := fit.NewRecordMsg()
	rec.Timestamp = baseTime
	rec.Speed = 2500
	rec.Altitude = 2600
	rec.Temperature = -3

	s := recordSample(rec)
	assert.Nil(t, s.Latitude)
	assert.Nil(t, s.Longitude)
	require.NotNil(t, s.Speed)
	assert.Equal(t, 2.5, *s.Speed)
	require.NotNil(t, s.Altitude)
	assert.InDelta(t, 20.0, *s.Altitude, 1e-9)
	require.NotNil(t, s.Temperature)
	assert.Equal(t, -3.0, *s.Temperature)
}

func TestSportCategory(t *testing.T) {
	assert.Equal(t, models.CategoryRunning, sportCategory(fit.SportRunning))
	assert.Equal(t, models.CategoryCycling, sportCategory(fit.SportCycling))
	assert.Equal(t, models.CategoryUnknown, sportCategory(fit.SportGeneric))
}

func TestFITMetadataCategoryFromSession(t *testing.T) {
	file := &fit.File{}
	file.FileId.Manufacturer = fit.ManufacturerGarmin

	meta := fitMetadata(file, &fit.ActivityFile{})
	assert.Equal(t, models.CategoryUnknown, meta.Category)
	assert.Equal(t, models.RecordedWithGarmin, meta.RecordedWith)

	session := fit.NewSessionMsg()
	session.Sport = fit.SportHiking
	meta = fitMetadata(file, &fit.ActivityFile{Sessions: []*fit.SessionMsg{session}})
	assert.Equal(t, models.CategoryHiking, meta.Category)
}
