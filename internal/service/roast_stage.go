package service

import (
	"context"
	"fmt"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/roaster/internal/domain"
	"github.com/alexanderramin/roaster/internal/importer"
	"github.com/alexanderramin/roaster/internal/llm"
	"github.com/alexanderramin/roaster/internal/logger"
	"github.com/alexanderramin/roaster/internal/model"
	"github.com/alexanderramin/roaster/internal/roast"
)

// roast predicts usage for the demo sample, composes a directive per row
// and generates the roast text.
func (s *pipelineService) roast(ctx context.Context, m *model.TrainedModel, features []domain.FeatureRecord, rep *RunReport) error {
	log := logger.C(ctx, s.log)

	demo := pickDemo(features, s.cfg.Thresholds.DemoUsers, s.cfg.Model.Seed)
	preds, err := m.PredictRecords(ctx, demo, s.cfg.Workers)
	if err != nil {
		return fmt.Errorf("predicting demo users: %w", err)
	}

	rows := make([]roast.BatchRow, len(demo))
	for i, r := range demo {
		rows[i] = roast.BatchRow{Record: r, Predicted: predictedMinutes(m.Target, r, preds[i])}
	}

	composer := roast.NewComposer(s.cfg.Roast, log)
	directives, skipped, err := composer.ComposeBatch(ctx, rows, s.cfg.Workers)
	if err != nil {
		return err
	}
	rep.Skipped = skipped

	texts, err := s.generate(ctx, directives)
	if err != nil {
		return err
	}

	rep.Results = make([]domain.RoastResult, len(directives))
	for i, d := range directives {
		rep.Results[i] = domain.RoastResult{
			UserID:         d.UserID,
			AppName:        d.AppName,
			ActualUsage:    d.ActualUsageMinutes,
			PredictedUsage: d.PredictedUsageMinutes,
			RoastIntensity: d.RoastIntensity,
			RoastCategory:  d.RoastCategory,
			DayOfWeek:      d.DayOfWeek,
			RoastPrompt:    d.ComposedText,
			GeneratedText:  texts[i],
		}
	}
	log.Info().
		Int("results", len(rep.Results)).
		Int("skipped", len(skipped)).
		Str("provider", s.generator.Name()).
		Msg("roasts generated")
	return nil
}

// generate runs the generator for every directive on up to Workers
// goroutines. A failing generator yields the apology text for that row.
func (s *pipelineService) generate(ctx context.Context, directives []domain.RoastDirective) ([]string, error) {
	log := logger.C(ctx, s.log)
	texts := make([]string, len(directives))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.cfg.Workers, 1))
	for i, d := range directives {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			text, err := s.generator.Generate(gctx, d.ComposedText)
			if err != nil {
				log.Error().
					Err(fmt.Errorf("%w: %w", domain.ErrGeneration, err)).
					Str("user_id", d.UserID).
					Str("error_code", llm.ErrorCode(err)).
					Msg("roast generation failed")
				text = llm.ApologyText
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("generating roasts: %w", err)
	}
	return texts, nil
}

// pickDemo draws up to n records without replacement from a PCG seeded
// with seed. The draw order is kept.
func pickDemo(records []domain.FeatureRecord, n int, seed uint64) []domain.FeatureRecord {
	n = min(max(n, 0), len(records))
	rng := rand.New(rand.NewPCG(seed, seed^0x5eed))
	perm := rng.Perm(len(records))
	out := make([]domain.FeatureRecord, n)
	for i := range n {
		out[i] = records[perm[i]]
	}
	return out
}

// predictedMinutes converts a model output into minutes. Engagement is
// usage times the intensity weight, so it is divided back out.
func predictedMinutes(target string, r domain.FeatureRecord, pred float64) float64 {
	if target == importer.ColUsageMinutes {
		return pred
	}
	return pred / r.RoastIntensity.Weight()
}
