package domain

import "time"

type Intensity string

const (
	IntensityLight  Intensity = "light"
	IntensityMedium Intensity = "medium"
	IntensityBrutal Intensity = "brutal"
)

// ValidIntensities is the canonical set of accepted roast intensity strings.
var ValidIntensities = map[string]bool{
	"light": true, "medium": true, "brutal": true,
}

// Weight is the engagement multiplier for the intensity. Anything outside
// the enum, including the empty string, weighs 1.
func (i Intensity) Weight() float64 {
	switch i {
	case IntensityMedium:
		return 2
	case IntensityBrutal:
		return 3
	default:
		return 1
	}
}

type UsageCategory string

const (
	UsageLight    UsageCategory = "Light"
	UsageModerate UsageCategory = "Moderate"
	UsageHeavy    UsageCategory = "Heavy"
	UsageExtreme  UsageCategory = "Extreme"
)

// Usage bucket upper bounds in minutes. Each bound is inclusive and the
// lowest bucket also includes zero.
const (
	LightMaxMinutes    = 30
	ModerateMaxMinutes = 120
	HeavyMaxMinutes    = 300
)

// CategorizeUsage places minutes into one of the four usage buckets.
func CategorizeUsage(minutes float64) UsageCategory {
	switch {
	case minutes <= LightMaxMinutes:
		return UsageLight
	case minutes <= ModerateMaxMinutes:
		return UsageModerate
	case minutes <= HeavyMaxMinutes:
		return UsageHeavy
	default:
		return UsageExtreme
	}
}

// UsageCategories lists the buckets in ascending order.
var UsageCategories = []UsageCategory{UsageLight, UsageModerate, UsageHeavy, UsageExtreme}

// IsWeekend reports whether d is a Saturday or Sunday.
func IsWeekend(d time.Weekday) bool {
	return d == time.Saturday || d == time.Sunday
}

// Sentinel values written by the cleaner.
const (
	NoneCategory = "None"
	Unknown      = "Unknown"
)

type ModelKind string

const (
	ModelTree   ModelKind = "tree"
	ModelForest ModelKind = "forest"
)

// ValidModelKinds is the canonical set of accepted regressor kinds.
var ValidModelKinds = map[string]bool{
	"tree": true, "forest": true,
}
