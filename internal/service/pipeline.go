// Package service orchestrates the roast pipeline and exposes run history.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/roaster/internal/config"
	"github.com/alexanderramin/roaster/internal/dataset"
	"github.com/alexanderramin/roaster/internal/db"
	"github.com/alexanderramin/roaster/internal/domain"
	"github.com/alexanderramin/roaster/internal/evaluate"
	"github.com/alexanderramin/roaster/internal/importer"
	"github.com/alexanderramin/roaster/internal/llm"
	"github.com/alexanderramin/roaster/internal/logger"
	"github.com/alexanderramin/roaster/internal/model"
	"github.com/alexanderramin/roaster/internal/report"
	"github.com/alexanderramin/roaster/internal/repository"
	"github.com/alexanderramin/roaster/internal/roast"
	"github.com/alexanderramin/roaster/internal/synth"
)

// DefaultDemoRows is the synthetic table size when no input file is given.
const DefaultDemoRows = 200

// RunRequest holds the per-run inputs that are not part of Config.
type RunRequest struct {
	// Input is a CSV path. Empty means a synthetic table of DemoRows rows.
	Input    string
	DemoRows int
	// ModelPath, when set, receives the trained model.
	ModelPath string
}

// RunReport is everything a pipeline run produced. It is also the JSON
// document written to the output directory.
type RunReport struct {
	RunID       string               `json:"run_id"`
	GeneratedAt time.Time            `json:"generated_at"`
	Input       string               `json:"input"`
	Rows        int                  `json:"rows"`
	ModelKind   domain.ModelKind     `json:"model_kind"`
	Provider    string               `json:"provider"`
	Validation  importer.Result      `json:"validation"`
	Clean       dataset.CleanReport  `json:"cleaning"`
	Insights    dataset.Insights     `json:"insights"`
	Metrics     *evaluate.Metrics    `json:"metrics,omitempty"`
	CV          *evaluate.CVResult   `json:"cross_validation,omitempty"`
	Notes       []string             `json:"notes,omitempty"`
	Importances []model.Importance   `json:"feature_importance"`
	Results     []domain.RoastResult `json:"results"`
	Skipped     []roast.Skipped      `json:"skipped,omitempty"`

	ReportPath string `json:"-"`
	ModelPath  string `json:"-"`
}

// ValidationFailedError is returned by Run when the input table does not
// pass validation. No model work has been done.
type ValidationFailedError struct {
	Input  string
	Rows   int
	Result importer.Result
}

func (e *ValidationFailedError) Error() string {
	if len(e.Result.Errors) == 0 {
		return "input validation failed"
	}
	return fmt.Sprintf("input validation failed: %s (and %d more)", e.Result.Errors[0], len(e.Result.Errors)-1)
}

func (e *ValidationFailedError) Unwrap() error { return domain.ErrSchema }

// PipelineService runs the full validate, clean, train, evaluate and roast
// pipeline.
type PipelineService interface {
	Run(ctx context.Context, req RunRequest) (*RunReport, error)
}

type pipelineService struct {
	cfg       config.Config
	generator llm.Generator
	uow       db.UnitOfWork
	log       *logger.Logger
	observer  UseCaseObserver
	now       func() time.Time
}

// NewPipelineService builds the pipeline. A nil uow disables run history.
func NewPipelineService(
	cfg config.Config,
	generator llm.Generator,
	uow db.UnitOfWork,
	log *logger.Logger,
	observers ...UseCaseObserver,
) PipelineService {
	if log == nil {
		log = logger.Nop()
	}
	if generator == nil {
		generator = llm.NewSimulator()
	}
	return &pipelineService{
		cfg:       cfg,
		generator: generator,
		uow:       uow,
		log:       log,
		observer:  useCaseObserverOrNoop(observers),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *pipelineService) Run(ctx context.Context, req RunRequest) (rep *RunReport, err error) {
	startedAt := time.Now()
	runID := uuid.NewString()
	ctx = logger.WithRun(ctx, runID)
	log := logger.C(ctx, s.log)

	fields := map[string]any{"input": inputLabel(req)}
	defer func() {
		if rep != nil {
			fields["results"] = len(rep.Results)
			fields["skipped"] = len(rep.Skipped)
		}
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			UseCase:   "run",
			RunID:     runID,
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	table, synthetic, err := s.load(req)
	if err != nil {
		return nil, err
	}

	rep = &RunReport{
		RunID:       runID,
		GeneratedAt: s.now(),
		Input:       inputLabel(req),
		Rows:        table.Len(),
		ModelKind:   domain.ModelKind(domain.CoalesceStr(s.cfg.Model.Kind, string(domain.ModelTree))),
		Provider:    s.generator.Name(),
	}

	rep.Validation = importer.Validate(table, importer.SchemaFromConfig(s.cfg))
	for _, w := range rep.Validation.Warnings {
		log.Warn().Str("code", w.Code).Int("count", w.Count).Msg(w.Message)
	}
	if !rep.Validation.Valid {
		return nil, &ValidationFailedError{Input: rep.Input, Rows: rep.Rows, Result: rep.Validation}
	}

	features, err := s.prepare(ctx, table, synthetic, rep)
	if err != nil {
		return nil, err
	}

	trained, err := s.train(ctx, features, rep)
	if err != nil {
		return nil, err
	}
	if req.ModelPath != "" {
		if err := model.SaveFile(req.ModelPath, trained); err != nil {
			return nil, fmt.Errorf("saving model: %w", err)
		}
		rep.ModelPath = req.ModelPath
		log.Info().Str("path", req.ModelPath).Msg("model saved")
	}

	if err := s.roast(ctx, trained, features, rep); err != nil {
		return nil, err
	}

	if s.cfg.Output.SaveResults {
		path, err := report.Write(s.cfg.Output.Dir, rep.GeneratedAt, rep)
		if err != nil {
			return nil, fmt.Errorf("writing report: %w", err)
		}
		rep.ReportPath = path
		log.Info().Str("path", path).Msg("report written")
	}

	if s.uow != nil {
		if err := s.store(ctx, rep); err != nil {
			return nil, err
		}
	}
	return rep, nil
}

func inputLabel(req RunRequest) string {
	if req.Input != "" {
		return req.Input
	}
	return "synthetic"
}

// load reads the input CSV, or generates a seeded synthetic table.
func (s *pipelineService) load(req RunRequest) (*importer.Table, bool, error) {
	if req.Input != "" {
		t, err := importer.LoadCSV(req.Input)
		if err != nil {
			return nil, false, err
		}
		return t, false, nil
	}
	rows := req.DemoRows
	if rows <= 0 {
		rows = DefaultDemoRows
	}
	t, err := synth.Generate(synth.OptionsFromConfig(s.cfg, rows, s.cfg.Model.Seed))
	if err != nil {
		return nil, false, fmt.Errorf("generating sample data: %w", err)
	}
	return t, true, nil
}

// prepare converts, cleans and engineers the table and fills the clean
// report and insights.
func (s *pipelineService) prepare(ctx context.Context, table *importer.Table, synthetic bool, rep *RunReport) ([]domain.FeatureRecord, error) {
	log := logger.C(ctx, s.log)

	records := importer.Convert(table)
	cleaned, cleanReport, err := dataset.Clean(records, dataset.CleanOptions{
		DateLayout: s.cfg.Data.DateLayout,
		Log:        log,
	})
	if err != nil {
		return nil, err
	}
	rep.Clean = cleanReport

	opts := dataset.FeatureOptions{Log: log}
	if synthetic {
		opts.SyntheticWeekdays = rand.New(rand.NewPCG(s.cfg.Model.Seed, s.cfg.Model.Seed))
	}
	features, err := dataset.Engineer(cleaned, opts)
	if err != nil {
		return nil, err
	}
	rep.Insights = dataset.Summarize(features)
	return features, nil
}

// train fits the model and fills metrics, cross-validation, notes and
// importances. Too little data for a metric is recorded, not fatal.
func (s *pipelineService) train(ctx context.Context, features []domain.FeatureRecord, rep *RunReport) (*model.TrainedModel, error) {
	log := logger.C(ctx, s.log)

	predictor := model.NewPredictor(s.cfg.Model, s.cfg.Workers, log)
	tr, err := predictor.Train(features)
	if err != nil {
		return nil, fmt.Errorf("training: %w", err)
	}

	metrics, err := evaluate.Evaluate(tr.YTest, tr.PredTest)
	switch {
	case errors.Is(err, domain.ErrInsufficientData):
		log.Warn().Err(err).Msg("holdout evaluation skipped")
		rep.Notes = append(rep.Notes, "holdout evaluation skipped: "+err.Error())
	case err != nil:
		return nil, err
	default:
		rep.Metrics = &metrics
		rep.Notes = append(rep.Notes, evaluate.Check(metrics, s.cfg.Thresholds)...)
		log.Info().
			Float64("mae", metrics.MAE).
			Float64("rmse", metrics.RMSE).
			Float64("r2", metrics.R2).
			Msg("model evaluated")
	}

	build, err := predictor.Builder()
	if err != nil {
		return nil, err
	}
	cv, err := evaluate.CrossValidate(build, tr.XTrain, tr.YTrain, s.cfg.Model.CVFolds)
	switch {
	case errors.Is(err, domain.ErrInsufficientData):
		log.Warn().Err(err).Msg("cross-validation skipped")
		rep.Notes = append(rep.Notes, "cross-validation skipped: "+err.Error())
	case err != nil:
		return nil, err
	default:
		rep.CV = &cv
	}

	rep.Importances = model.RankImportances(tr.Model.FeatureImportances())
	return tr.Model, nil
}

// store persists the run and its results in one transaction.
func (s *pipelineService) store(ctx context.Context, rep *RunReport) error {
	run := &domain.Run{
		ID:        rep.RunID,
		CreatedAt: rep.GeneratedAt,
		Input:     rep.Input,
		Rows:      rep.Rows,
		ModelKind: rep.ModelKind,
		Provider:  rep.Provider,
		Valid:     rep.Validation.Valid,
	}
	if rep.Metrics != nil {
		run.MAE, run.RMSE, run.R2 = rep.Metrics.MAE, rep.Metrics.RMSE, rep.Metrics.R2
	}
	if rep.CV != nil {
		mean, std := rep.CV.Mean, rep.CV.Std
		run.CVMean, run.CVStd = &mean, &std
	}

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		runs := repository.NewSQLiteRunRepo(tx)
		if err := runs.Create(ctx, run); err != nil {
			return err
		}
		return runs.AddResults(ctx, run.ID, rep.Results)
	})
	if err != nil {
		return fmt.Errorf("storing run: %w", err)
	}
	return nil
}
