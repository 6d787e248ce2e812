package roast

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/roaster/internal/domain"
	"github.com/alexanderramin/roaster/internal/logger"
)

// BatchRow pairs a feature record with its prediction.
type BatchRow struct {
	Record    domain.FeatureRecord
	Predicted float64
}

// Skipped records a row that failed validation.
type Skipped struct {
	Line   int      `json:"line"`
	UserID string   `json:"user_id"`
	Errors []string `json:"errors"`
}

// ComposeBatch validates and composes every row on up to workers
// goroutines. Invalid rows are logged and left out. Directives keep the
// input order.
func (c *Composer) ComposeBatch(ctx context.Context, rows []BatchRow, workers int) ([]domain.RoastDirective, []Skipped, error) {
	log := logger.C(ctx, c.log)
	type slot struct {
		directive domain.RoastDirective
		skipped   *Skipped
	}
	slots := make([]slot, len(rows))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, row := range rows {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r := row.Record
			intensity := string(r.RoastIntensity)
			if ok, errs := c.Validate(r.AppName, row.Predicted, r.RoastCategory, intensity); !ok {
				slots[i].skipped = &Skipped{Line: r.Line, UserID: r.UserID, Errors: errs}
				return nil
			}
			weekend := r.IsWeekend
			text := c.Compose(Request{
				App:       r.AppName,
				Minutes:   row.Predicted,
				Category:  r.RoastCategory,
				Intensity: intensity,
				Context:   &Context{DayOfWeek: r.DayOfWeek, IsWeekend: &weekend},
			})
			slots[i].directive = domain.RoastDirective{
				UserID:                r.UserID,
				AppName:               r.AppName,
				PredictedUsageMinutes: row.Predicted,
				ActualUsageMinutes:    r.UsageMinutes,
				RoastCategory:         r.RoastCategory,
				RoastIntensity:        intensity,
				DayOfWeek:             r.DayOfWeek,
				ComposedText:          text,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("composing batch: %w", err)
	}

	directives := make([]domain.RoastDirective, 0, len(rows))
	var skipped []Skipped
	for _, s := range slots {
		if s.skipped != nil {
			log.Warn().
				Int("line", s.skipped.Line).
				Str("user_id", s.skipped.UserID).
				Strs("errors", s.skipped.Errors).
				Msg("skipping invalid roast input")
			skipped = append(skipped, *s.skipped)
			continue
		}
		directives = append(directives, s.directive)
	}
	log.Info().Int("composed", len(directives)).Int("skipped", len(skipped)).Msg("roast directives composed")
	return directives, skipped, nil
}
