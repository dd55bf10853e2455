package metrics

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean, or nil for empty input.
func Mean(xs []float64) *float64 {
	if len(xs) == 0 {
		return nil
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	m := sum / float64(len(xs))
	return &m
}

// Median sorts a copy of xs ascending and returns the middle element, or
// the mean of the two middle elements for even counts. Nil for empty input.
func Median(xs []float64) *float64 {
	if len(xs) == 0 {
		return nil
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	n := len(sorted)
	var m float64
	if n%2 == 1 {
		m = sorted[n/2]
	} else {
		m = (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return &m
}

// StdDev returns the population standard deviation (squared deviations
// divided by n, not n-1). Nil when fewer than 2 samples: a single
// observation has no spread worth reporting.
func StdDev(xs []float64) *float64 {
	if len(xs) < 2 {
		return nil
	}
	mean := *Mean(xs)
	sumSq := 0.0
	for _, x := range xs {
		d := x - mean
		sumSq += d * d
	}
	sd := math.Sqrt(sumSq / float64(len(xs)))
	return &sd
}

// CoefficientOfVariation returns stddev/mean*100. Nil when the standard
// deviation is undefined or the mean is zero.
func CoefficientOfVariation(xs []float64) *float64 {
	sd := StdDev(xs)
	if sd == nil {
		return nil
	}
	mean := *Mean(xs)
	if mean == 0 {
		return nil
	}
	cv := *sd / mean * 100
	return &cv
}
