package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantile_LinearInterpolation(t *testing.T) {
	vals := []float64{4, 1, 3, 2}

	assert.InDelta(t, 1.75, Quantile(vals, 0.25), 1e-9)
	assert.InDelta(t, 2.5, Quantile(vals, 0.5), 1e-9)
	assert.InDelta(t, 3.25, Quantile(vals, 0.75), 1e-9)
	assert.Equal(t, 1.0, Quantile(vals, 0))
	assert.Equal(t, 4.0, Quantile(vals, 1))
	assert.Equal(t, []float64{4, 1, 3, 2}, vals, "input is not reordered")
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 3.0, Median([]float64{5, 1, 3}))
	assert.True(t, math.IsNaN(Median(nil)))
}
