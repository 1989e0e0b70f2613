// Package passagedb provides passage store adapters.
// Clean Architecture: Adapters implementing ports.PassageStore.
package passagedb

import "math"

// l2Distance computes the Euclidean distance between two vectors.
// Used by the backends that rank in-process; the Postgres backend ranks
// with the same metric inside the database.
func l2Distance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
