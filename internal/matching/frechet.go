// Package matching finds occurrences of routes inside recorded activities.
package matching

import (
	"math"

	"github.com/jengzang/trackcore-go/internal/spatial"
)

// Frechet returns the discrete Fréchet distance in meters between two
// polylines, or +Inf when either is empty.
//
// Only two rows of the coupling matrix are kept, so memory is O(len(q)).
func Frechet(p, q []spatial.Point) float64 {
	if len(p) == 0 || len(q) == 0 {
		return math.Inf(1)
	}

	prev := make([]float64, len(q))
	cur := make([]float64, len(q))

	for i := range p {
		for j := range q {
			d := spatial.Distance(p[i], q[j])
			switch {
			case i == 0 && j == 0:
				cur[j] = d
			case i == 0:
				cur[j] = max(cur[j-1], d)
			case j == 0:
				cur[j] = max(prev[0], d)
			default:
				cur[j] = max(min(prev[j], prev[j-1], cur[j-1]), d)
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(q)-1]
}
