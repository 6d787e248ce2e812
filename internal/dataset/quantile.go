package dataset

import (
	"math"
	"slices"
)

// Quantile returns the p-quantile of values using linear interpolation
// between closest ranks (h = (n-1)p). values need not be sorted. It
// returns NaN for an empty slice.
func Quantile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return quantileSorted(sorted, p)
}

func quantileSorted(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := math.Floor(h)
	hi := math.Ceil(h)
	if lo == hi {
		return sorted[int(lo)]
	}
	return sorted[int(lo)] + (h-lo)*(sorted[int(hi)]-sorted[int(lo)])
}

// Median is Quantile(values, 0.5).
func Median(values []float64) float64 {
	return Quantile(values, 0.5)
}
