package testutil

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/alexanderramin/roaster/internal/domain"
	"github.com/alexanderramin/roaster/internal/importer"
)

// RecordOption customizes a test UsageRecord.
type RecordOption func(*domain.UsageRecord)

func WithUser(id string) RecordOption {
	return func(r *domain.UsageRecord) { r.UserID = id }
}

func WithApp(app string) RecordOption {
	return func(r *domain.UsageRecord) { r.AppName = app }
}

func WithUsage(m float64) RecordOption {
	return func(r *domain.UsageRecord) { r.UsageMinutes = &m }
}

func WithoutUsage() RecordOption {
	return func(r *domain.UsageRecord) { r.UsageMinutes = nil }
}

func WithIntensity(i string) RecordOption {
	return func(r *domain.UsageRecord) { r.RoastIntensity = i }
}

func WithCategory(c string) RecordOption {
	return func(r *domain.UsageRecord) { r.RoastCategory = c }
}

func WithSecondary(c string) RecordOption {
	return func(r *domain.UsageRecord) { r.SecondaryCategory = &c }
}

func WithDate(d string) RecordOption {
	return func(r *domain.UsageRecord) { r.Date = d }
}

func WithLine(n int) RecordOption {
	return func(r *domain.UsageRecord) { r.Line = n }
}

// NewTestRecord returns the canonical Instagram/180/medium/health row on
// 2025-07-15 (a Tuesday), modified by opts.
func NewTestRecord(opts ...RecordOption) domain.UsageRecord {
	m := 180.0
	r := domain.UsageRecord{
		Line:           1,
		UserID:         "user_001",
		AppName:        "Instagram",
		UsageMinutes:   &m,
		RoastIntensity: "medium",
		RoastCategory:  "health",
		Date:           "2025-07-15",
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

var (
	fixtureApps        = []string{"Instagram", "TikTok", "YouTube", "Twitter", "Reddit"}
	fixtureIntensities = []domain.Intensity{domain.IntensityLight, domain.IntensityMedium, domain.IntensityBrutal}
	fixtureCategories  = []string{"health", "career", "social_life", "finance", "productivity"}
	fixtureBase        = map[string]float64{"Instagram": 190, "TikTok": 160, "YouTube": 140, "Twitter": 90, "Reddit": 130}
)

// NewFeatureTable returns n deterministic feature records whose usage
// depends on app, intensity and weekend, plus seeded noise.
func NewFeatureTable(n int, seed uint64) []domain.FeatureRecord {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	out := make([]domain.FeatureRecord, n)
	for i := 0; i < n; i++ {
		app := fixtureApps[i%len(fixtureApps)]
		in := fixtureIntensities[(i/len(fixtureApps))%len(fixtureIntensities)]
		date := start.AddDate(0, 0, i%30)
		wd := date.Weekday()

		usage := fixtureBase[app] + 15*in.Weight() + rng.NormFloat64()*5
		if domain.IsWeekend(wd) {
			usage += 40
		}

		out[i] = domain.FeatureRecord{
			CleanedRecord: domain.CleanedRecord{
				Line:              i + 1,
				UserID:            fmt.Sprintf("user_%03d", i%40),
				AppName:           app,
				UsageMinutes:      usage,
				RoastIntensity:    in,
				RoastCategory:     fixtureCategories[i%len(fixtureCategories)],
				SecondaryCategory: domain.NoneCategory,
				Date:              date,
			},
			DayOfWeek:       wd.String(),
			IsWeekend:       domain.IsWeekend(wd),
			Month:           int(date.Month()),
			DayOfMonth:      date.Day(),
			UsageCategory:   domain.CategorizeUsage(usage),
			EngagementScore: usage * in.Weight(),
		}
	}
	return out
}

// TableHeader is the full input header in file order.
var TableHeader = []string{"userId", "roast_category_1", "roast_category_2", "roast_intensity", "date", "app_name", "usage_minutes"}

// NewTestTable renders records as a raw input table.
func NewTestTable(records ...domain.UsageRecord) *importer.Table {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		usage := ""
		if r.UsageMinutes != nil {
			usage = fmt.Sprintf("%g", *r.UsageMinutes)
		}
		secondary := ""
		if r.SecondaryCategory != nil {
			secondary = *r.SecondaryCategory
		}
		rows = append(rows, []string{r.UserID, r.RoastCategory, secondary, r.RoastIntensity, r.Date, r.AppName, usage})
	}
	return importer.NewTable(TableHeader, rows)
}

// NewValidTable returns n records over consecutive days cycling apps and
// intensities, as a raw table.
func NewValidTable(n int, seed uint64) *importer.Table {
	features := NewFeatureTable(n, seed)
	records := make([]domain.UsageRecord, n)
	for i, f := range features {
		records[i] = NewTestRecord(
			WithLine(i+1),
			WithUser(f.UserID),
			WithApp(f.AppName),
			WithUsage(float64(int(f.UsageMinutes))),
			WithIntensity(string(f.RoastIntensity)),
			WithCategory(f.RoastCategory),
			WithDate(f.Date.Format(time.DateOnly)),
		)
	}
	return NewTestTable(records...)
}
