package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCategorizeUsage_Boundaries(t *testing.T) {
	tests := []struct {
		minutes float64
		want    UsageCategory
	}{
		{0, UsageLight},
		{30, UsageLight},
		{30.5, UsageModerate},
		{120, UsageModerate},
		{121, UsageHeavy},
		{180, UsageHeavy},
		{300, UsageHeavy},
		{301, UsageExtreme},
		{1440, UsageExtreme},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CategorizeUsage(tt.minutes), "minutes=%v", tt.minutes)
	}
}

func TestIntensityWeight(t *testing.T) {
	assert.Equal(t, 1.0, IntensityLight.Weight())
	assert.Equal(t, 2.0, IntensityMedium.Weight())
	assert.Equal(t, 3.0, IntensityBrutal.Weight())
	assert.Equal(t, 1.0, Intensity("").Weight())
	assert.Equal(t, 1.0, Intensity("extreme").Weight())
}

func TestIsWeekend(t *testing.T) {
	assert.True(t, IsWeekend(time.Saturday))
	assert.True(t, IsWeekend(time.Sunday))
	assert.False(t, IsWeekend(time.Tuesday))
}

func TestStageError_UnwrapAndMessage(t *testing.T) {
	err := &StageError{Stage: "cleaner", Line: 4, UserID: "u1", Err: ErrSchema}
	assert.True(t, errors.Is(err, ErrSchema))
	assert.Equal(t, "cleaner: line 4 (user u1): schema error", err.Error())

	noRow := &StageError{Stage: "predictor", Err: ErrModelState}
	assert.Equal(t, "predictor: untrained model", noRow.Error())
}

func TestFeatureRecord_Value(t *testing.T) {
	r := FeatureRecord{
		CleanedRecord: CleanedRecord{AppName: "Instagram", RoastIntensity: IntensityMedium},
		DayOfWeek:     "Tuesday",
		Month:         7,
	}
	v, ok := r.Value("app_name")
	assert.True(t, ok)
	assert.Equal(t, "Instagram", v)

	v, _ = r.Value("month")
	assert.Equal(t, "July", v)

	_, ok = r.Value("nope")
	assert.False(t, ok)
}
