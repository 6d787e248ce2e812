package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOneHotEncoder_DropsFirstSortedCategory(t *testing.T) {
	enc := NewOneHotEncoder([]string{"app", "day"})
	require.NoError(t, enc.Fit([][]string{
		{"b", "x"},
		{"a", "y"},
		{"c", "x"},
	}))

	assert.Equal(t, [][]string{{"a", "b", "c"}, {"x", "y"}}, enc.Categories)
	assert.Equal(t, 3, enc.Width())
	assert.Equal(t, []string{"app_b", "app_c", "day_y"}, enc.FeatureNames())

	X, err := enc.Transform([][]string{
		{"a", "x"},
		{"c", "y"},
		{"b", "x"},
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0}, X.RawRowView(0))
	assert.Equal(t, []float64{0, 1, 1}, X.RawRowView(1))
	assert.Equal(t, []float64{1, 0, 0}, X.RawRowView(2))
}

func TestOneHotEncoder_UnknownCategoryEncodesAsZeros(t *testing.T) {
	enc := NewOneHotEncoder([]string{"app"})
	require.NoError(t, enc.Fit([][]string{{"Instagram"}, {"TikTok"}, {"YouTube"}}))

	X, err := enc.Transform([][]string{{"Myspace"}})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, X.RawRowView(0))
}

func TestOneHotEncoder_Errors(t *testing.T) {
	enc := NewOneHotEncoder([]string{"app"})
	_, err := enc.Transform([][]string{{"x"}})
	assert.ErrorIs(t, err, ErrNotFitted)

	assert.Error(t, enc.Fit(nil))
	assert.Error(t, enc.Fit([][]string{{"a", "b"}}), "row width mismatch")

	require.NoError(t, enc.Fit([][]string{{"only"}}))
	_, err = enc.Transform([][]string{{"only"}})
	assert.Error(t, err, "single category leaves nothing to encode")
}

func TestOneHotEncoder_RefitReplacesCategories(t *testing.T) {
	enc := NewOneHotEncoder([]string{"app"})
	require.NoError(t, enc.Fit([][]string{{"a"}, {"b"}}))
	_, err := enc.Transform([][]string{{"b"}})
	require.NoError(t, err)

	require.NoError(t, enc.Fit([][]string{{"a"}, {"c"}}))
	X, err := enc.Transform([][]string{{"c"}, {"b"}})
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, X.RawRowView(0))
	assert.Equal(t, []float64{0}, X.RawRowView(1))
}
