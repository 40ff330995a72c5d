package smoothing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestGainLossSteadyClimb(t *testing.T) {
	g := NewGainLoss()
	for i := 0; i < 10; i++ {
		g.Add(100 + float64(i))
	}

	gain, loss := g.Totals()
	assert.InDelta(t, 9, gain, 1e-9)
	assert.Equal(t, 0.0, loss)
}

func TestGainLossCommitsInChunks(t *testing.T) {
	g := NewGainLoss()
	g.Add(100)

	g.Add(100.3)
	gain, _ := g.GetAndReset()
	assert.Equal(t, 0.0, gain, "0.3 m is below the commit threshold")

	g.Add(100.6)
	gain, _ = g.GetAndReset()
	assert.InDelta(t, 0.6, gain, 1e-9)

	g.Add(100.8)
	gain, _ = g.GetAndReset()
	assert.Equal(t, 0.0, gain)

	total, _ := g.Totals()
	assert.InDelta(t, 0.6, total, 1e-9)
}

func TestGainLossGlitchResets(t *testing.T) {
	g := NewGainLoss()
	g.Add(100)
	g.Add(100.4)
	g.Add(94)

	gain, loss := g.Totals()
	assert.Equal(t, 0.0, gain)
	assert.Equal(t, 0.0, loss, "a drop above the glitch threshold credits nothing")

	// The glitch value becomes the new baseline.
	g.Add(93)
	_, loss = g.Totals()
	assert.InDelta(t, 1, loss, 1e-9)
}

func TestGainLossDirectionChangeClearsAccumulator(t *testing.T) {
	g := NewGainLoss()
	g.Add(100)
	g.Add(100.4) // gain acc 0.4
	g.Add(100.1) // loss acc 0.3, gain acc cleared
	g.Add(100.5) // gain acc 0.4

	gain, loss := g.Totals()
	assert.Equal(t, 0.0, gain)
	assert.Equal(t, 0.0, loss)

	g.Add(100.5) // flat clears both
	g.Add(100.9)
	gain, _ = g.Totals()
	assert.Equal(t, 0.0, gain)
}

func TestGainLossGetAndResetKeepsTotals(t *testing.T) {
	g := NewGainLoss()
	assert.False(t, g.HasBaseline())
	g.Add(10)
	assert.True(t, g.HasBaseline())
	g.Add(12)
	g.Add(11)

	gain, loss := g.GetAndReset()
	assert.InDelta(t, 2, gain, 1e-9)
	assert.InDelta(t, 1, loss, 1e-9)

	gain, loss = g.GetAndReset()
	assert.Equal(t, 0.0, gain)
	assert.Equal(t, 0.0, loss)

	gain, loss = g.Totals()
	assert.InDelta(t, 2, gain, 1e-9)
	assert.InDelta(t, 1, loss, 1e-9)
}

func TestSensorTimeWeightedAverage(t *testing.T) {
	var s Sensor
	s.Add(ptr(100), 0)
	s.Add(ptr(100), 10_000)
	s.Add(ptr(160), 40_000) // 30 s at 160

	require.NotNil(t, s.Avg())
	assert.InDelta(t, (100*10+160*30)/40.0, *s.Avg(), 1e-9)
	assert.Equal(t, 100.0, *s.Min())
	assert.Equal(t, 160.0, *s.Max())
}

func TestSensorBreakSkipsPause(t *testing.T) {
	var s Sensor
	s.Add(ptr(100), 0)
	s.Add(ptr(100), 10_000)
	s.Break()
	s.Add(ptr(200), 600_000) // no credit for the pause
	s.Add(ptr(200), 610_000)

	assert.InDelta(t, 150, *s.Avg(), 1e-9)
}

func TestSensorNilValues(t *testing.T) {
	var s Sensor
	assert.Nil(t, s.Avg())
	assert.Nil(t, s.Min())

	s.Add(nil, 0)
	s.Add(ptr(90), 5_000)
	s.Add(nil, 10_000)

	assert.InDelta(t, 90, *s.Avg(), 1e-9)
}

func TestSensorSingleSample(t *testing.T) {
	var s Sensor
	s.Add(ptr(42), 1_000)
	assert.Equal(t, 42.0, *s.Avg())
}

func TestRing(t *testing.T) {
	r := NewRing(3)
	assert.Equal(t, 0.0, r.Mean())

	r.Add(1)
	r.Add(2)
	assert.Equal(t, 2, r.Len())
	assert.InDelta(t, 1.5, r.Mean(), 1e-9)

	r.Add(3)
	r.Add(10) // evicts 1
	assert.Equal(t, 3, r.Len())
	assert.InDelta(t, 5, r.Mean(), 1e-9)
}
