// Package dataset turns parsed usage records into cleaned, feature-rich
// records and summarizes them.
package dataset

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/roaster/internal/domain"
	"github.com/alexanderramin/roaster/internal/logger"
)

// IQRMultiplier scales the interquartile range when computing cap bounds.
const IQRMultiplier = 1.5

// maxCapPasses bounds the fixed-point loop in CapOutliers.
const maxCapPasses = 256

// Bounds is the closed interval values were capped to.
type Bounds struct {
	Q1    float64 `json:"q1"`
	Q3    float64 `json:"q3"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// CleanOptions configures Clean.
type CleanOptions struct {
	DateLayout string
	Log        *logger.Logger
}

// CleanReport summarizes what Clean changed.
type CleanReport struct {
	Rows               int            `json:"rows"`
	FilledUsage        int            `json:"filled_usage"`
	UsageFillValue     float64        `json:"usage_fill_value"`
	FilledCategorical  map[string]int `json:"filled_categorical,omitempty"`
	DefaultedSecondary int            `json:"defaulted_secondary"`
	Capped             int            `json:"capped"`
	Bounds             Bounds         `json:"bounds"`
}

// Clean trims strings, fills missing values, parses dates and caps usage
// outliers. It never drops a row. A missing or unparseable date fails the
// whole call with a StageError wrapping domain.ErrSchema.
func Clean(records []domain.UsageRecord, opts CleanOptions) ([]domain.CleanedRecord, CleanReport, error) {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	layout := domain.CoalesceStr(opts.DateLayout, time.DateOnly)

	report := CleanReport{Rows: len(records), FilledCategorical: map[string]int{}}
	if len(records) == 0 {
		return nil, report, nil
	}

	observed := make([]float64, 0, len(records))
	for _, r := range records {
		if r.UsageMinutes != nil && !math.IsNaN(*r.UsageMinutes) {
			observed = append(observed, *r.UsageMinutes)
		}
	}
	if len(observed) == 0 {
		return nil, report, &domain.StageError{
			Stage: "cleaner",
			Err:   fmt.Errorf("%w: no usage_minutes values to derive a fill from", domain.ErrInsufficientData),
		}
	}
	fill := Median(observed)
	report.UsageFillValue = fill

	filled := func(col, v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			report.FilledCategorical[col]++
			return domain.Unknown
		}
		return v
	}

	out := make([]domain.CleanedRecord, len(records))
	usage := make([]float64, len(records))
	for i, r := range records {
		c := domain.CleanedRecord{
			Line:           r.Line,
			UserID:         filled("userId", r.UserID),
			AppName:        filled("app_name", r.AppName),
			RoastIntensity: domain.Intensity(filled("roast_intensity", r.RoastIntensity)),
			RoastCategory:  filled("roast_category_1", r.RoastCategory),
		}

		c.SecondaryCategory = strings.TrimSpace(domain.StrFromPtrWithDefault("", r.SecondaryCategory))
		if c.SecondaryCategory == "" {
			c.SecondaryCategory = domain.NoneCategory
			report.DefaultedSecondary++
		}

		if r.UsageMinutes == nil || math.IsNaN(*r.UsageMinutes) {
			usage[i] = fill
			report.FilledUsage++
			log.Debug().Int("line", r.Line).Str("user_id", c.UserID).Float64("fill", fill).Msg("filled missing usage_minutes")
		} else {
			usage[i] = *r.UsageMinutes
		}

		d, err := time.Parse(layout, strings.TrimSpace(r.Date))
		if err != nil {
			return nil, report, &domain.StageError{
				Stage:  "cleaner",
				Line:   r.Line,
				UserID: c.UserID,
				Err:    fmt.Errorf("%w: date %q does not match layout %s", domain.ErrSchema, r.Date, layout),
			}
		}
		c.Date = d
		out[i] = c
	}

	capped, bounds, n := capOutliers(usage)
	report.Capped = n
	report.Bounds = bounds
	for i := range out {
		out[i].UsageMinutes = capped[i]
	}
	if len(report.FilledCategorical) == 0 {
		report.FilledCategorical = nil
	}

	log.Info().
		Int("rows", report.Rows).
		Int("filled_usage", report.FilledUsage).
		Int("defaulted_secondary", report.DefaultedSecondary).
		Int("capped", report.Capped).
		Float64("lower", bounds.Lower).
		Float64("upper", bounds.Upper).
		Msg("cleaned records")
	return out, report, nil
}

// CapOutliers clips values to [Q1-1.5·IQR, Q3+1.5·IQR]. Capping moves the
// quartiles in rare tie-heavy samples, so bounds are recomputed until no
// value lies outside them; a second call on the result is a no-op.
func CapOutliers(values []float64) ([]float64, Bounds) {
	out, b, _ := capOutliers(values)
	return out, b
}

func capOutliers(values []float64) ([]float64, Bounds, int) {
	out := make([]float64, len(values))
	copy(out, values)
	if len(out) == 0 {
		return out, Bounds{}, 0
	}

	changed := make([]bool, len(out))
	var b Bounds
	for pass := 0; pass < maxCapPasses; pass++ {
		b = iqrBounds(out)
		clipped := false
		for i, v := range out {
			switch {
			case v < b.Lower:
				out[i] = b.Lower
			case v > b.Upper:
				out[i] = b.Upper
			default:
				continue
			}
			changed[i] = true
			clipped = true
		}
		if !clipped {
			break
		}
	}

	n := 0
	for _, c := range changed {
		if c {
			n++
		}
	}
	return out, b, n
}

func iqrBounds(values []float64) Bounds {
	q1 := Quantile(values, 0.25)
	q3 := Quantile(values, 0.75)
	iqr := q3 - q1
	return Bounds{
		Q1:    q1,
		Q3:    q3,
		Lower: q1 - IQRMultiplier*iqr,
		Upper: q3 + IQRMultiplier*iqr,
	}
}
