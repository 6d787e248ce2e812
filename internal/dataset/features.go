package dataset

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/alexanderramin/roaster/internal/domain"
	"github.com/alexanderramin/roaster/internal/logger"
)

// FeatureOptions configures Engineer.
type FeatureOptions struct {
	// SyntheticWeekdays, when set, supplies a random weekday for records
	// without a date. Only synthetic demo tables may enable it; real data
	// with a missing date is an error.
	SyntheticWeekdays *rand.Rand
	Log               *logger.Logger
}

// Engineer derives calendar, usage-bucket and engagement features. The
// input slice is not modified.
func Engineer(cleaned []domain.CleanedRecord, opts FeatureOptions) ([]domain.FeatureRecord, error) {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}

	out := make([]domain.FeatureRecord, len(cleaned))
	synthetic := 0
	for i, c := range cleaned {
		f := domain.FeatureRecord{
			CleanedRecord:   c,
			UsageCategory:   domain.CategorizeUsage(c.UsageMinutes),
			EngagementScore: c.UsageMinutes * c.RoastIntensity.Weight(),
		}

		switch {
		case c.HasDate():
			wd := c.Date.Weekday()
			f.DayOfWeek = wd.String()
			f.IsWeekend = domain.IsWeekend(wd)
			f.Month = int(c.Date.Month())
			f.DayOfMonth = c.Date.Day()
		case opts.SyntheticWeekdays != nil:
			wd := time.Weekday(opts.SyntheticWeekdays.IntN(7))
			f.DayOfWeek = wd.String()
			f.IsWeekend = domain.IsWeekend(wd)
			f.Synthetic = true
			synthetic++
			log.Warn().Int("line", c.Line).Str("user_id", c.UserID).Str("day_of_week", f.DayOfWeek).
				Msg("no date on record; drew a synthetic weekday")
		default:
			return nil, &domain.StageError{
				Stage:  "features",
				Line:   c.Line,
				UserID: c.UserID,
				Err:    fmt.Errorf("%w: record has no date to derive day_of_week from", domain.ErrSchema),
			}
		}
		out[i] = f
	}

	log.Info().Int("rows", len(out)).Int("synthetic_weekdays", synthetic).Msg("engineered features")
	return out, nil
}
