package domain

import "time"

// UsageRecord is one parsed input row. Missing numeric or optional values
// are nil; strings are kept as read.
type UsageRecord struct {
	Line              int
	UserID            string
	AppName           string
	UsageMinutes      *float64
	RoastIntensity    string
	RoastCategory     string
	SecondaryCategory *string
	Date              string
}

// CleanedRecord is a UsageRecord with trimmed strings, defaults filled,
// a parsed date and capped usage.
type CleanedRecord struct {
	Line              int
	UserID            string
	AppName           string
	UsageMinutes      float64
	RoastIntensity    Intensity
	RoastCategory     string
	SecondaryCategory string
	Date              time.Time
}

// HasDate reports whether the record carries a parsed calendar date.
func (r CleanedRecord) HasDate() bool {
	return !r.Date.IsZero()
}

// FeatureRecord is the unit fed to modeling and reporting.
type FeatureRecord struct {
	CleanedRecord
	DayOfWeek       string
	IsWeekend       bool
	Month           int
	DayOfMonth      int
	UsageCategory   UsageCategory
	EngagementScore float64

	// Synthetic is set when DayOfWeek was drawn at random because the
	// record had no date. Only demo data may carry it.
	Synthetic bool
}

// Value returns the named column as a string, for categorical encoding.
func (r FeatureRecord) Value(column string) (string, bool) {
	switch column {
	case "userId", "user_id":
		return r.UserID, true
	case "app_name":
		return r.AppName, true
	case "roast_intensity":
		return string(r.RoastIntensity), true
	case "roast_category_1", "roast_category":
		return r.RoastCategory, true
	case "roast_category_2":
		return r.SecondaryCategory, true
	case "day_of_week":
		return r.DayOfWeek, true
	case "usage_category":
		return string(r.UsageCategory), true
	case "is_weekend":
		if r.IsWeekend {
			return "true", true
		}
		return "false", true
	case "month":
		if r.Month == 0 {
			return Unknown, true
		}
		return time.Month(r.Month).String(), true
	default:
		return "", false
	}
}

// Target returns the named numeric column.
func (r FeatureRecord) Target(column string) (float64, bool) {
	switch column {
	case "usage_minutes":
		return r.UsageMinutes, true
	case "engagement_score":
		return r.EngagementScore, true
	case "day_of_month":
		return float64(r.DayOfMonth), true
	default:
		return 0, false
	}
}
