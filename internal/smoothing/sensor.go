package smoothing

// Sensor keeps min, max and the time-weighted average of one sensor channel
// (heart rate, cadence, power, temperature).
//
// Each value is weighted by the time elapsed since the previous sample of the
// same temporal segment. Break must be called at a segment boundary so that a
// pause is never credited to the value recorded after it.
type Sensor struct {
	min, max *float64

	weighted float64
	duration float64

	// unweighted fallback for runs where no time elapsed
	sum   float64
	count int

	lastTime *int64
}

// Add records value observed at timeMillis. A nil value still advances the
// time baseline.
func (s *Sensor) Add(value *float64, timeMillis int64) {
	var dt float64
	if s.lastTime != nil {
		dt = float64(timeMillis-*s.lastTime) / 1000
	}
	s.lastTime = &timeMillis

	if value == nil {
		return
	}
	v := *value

	if s.min == nil || v < *s.min {
		s.min = &v
	}
	if s.max == nil || v > *s.max {
		m := v
		s.max = &m
	}

	s.sum += v
	s.count++
	if dt > 0 {
		s.weighted += v * dt
		s.duration += dt
	}
}

// Break drops the time baseline, typically at a temporal segment boundary.
func (s *Sensor) Break() {
	s.lastTime = nil
}

// Avg returns the time-weighted average, or nil if no value was recorded.
func (s *Sensor) Avg() *float64 {
	if s.count == 0 {
		return nil
	}
	var avg float64
	if s.duration > 0 {
		avg = s.weighted / s.duration
	} else {
		avg = s.sum / float64(s.count)
	}
	return &avg
}

// Min returns the smallest value seen, or nil.
func (s *Sensor) Min() *float64 { return s.min }

// Max returns the largest value seen, or nil.
func (s *Sensor) Max() *float64 { return s.max }
