// internal/telemetry/stats.go
package telemetry

import "math"

// mean returns the arithmetic mean of vals. Callers guarantee vals is
// non-empty.
func mean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// geoMean returns the geometric mean of vals, the n-th root of the
// product of the n values. Callers guarantee vals is non-empty; a
// zero-length product has no defined geometric mean.
func geoMean(vals []float64) float64 {
	product := 1.0
	for _, v := range vals {
		product *= v
	}
	return math.Pow(product, 1.0/float64(len(vals)))
}
