package smoothing

// Ring is a fixed-size circular buffer that reports the mean of the values it
// currently holds.
type Ring struct {
	values []float64
	next   int
	full   bool
	sum    float64
}

// NewRing creates a buffer holding at most size values.
func NewRing(size int) *Ring {
	if size < 1 {
		size = 1
	}
	return &Ring{values: make([]float64, size)}
}

// Add stores v, evicting the oldest value when the buffer is full.
func (r *Ring) Add(v float64) {
	if r.full {
		r.sum -= r.values[r.next]
	}
	r.values[r.next] = v
	r.sum += v

	r.next++
	if r.next == len(r.values) {
		r.next = 0
		r.full = true
	}
}

// Len is the number of values held.
func (r *Ring) Len() int {
	if r.full {
		return len(r.values)
	}
	return r.next
}

// Mean returns the average of the held values, 0 when empty.
func (r *Ring) Mean() float64 {
	n := r.Len()
	if n == 0 {
		return 0
	}
	return r.sum / float64(n)
}
