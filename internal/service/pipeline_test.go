package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/roaster/internal/config"
	"github.com/alexanderramin/roaster/internal/domain"
	"github.com/alexanderramin/roaster/internal/importer"
	"github.com/alexanderramin/roaster/internal/llm"
	"github.com/alexanderramin/roaster/internal/report"
	"github.com/alexanderramin/roaster/internal/repository"
	"github.com/alexanderramin/roaster/internal/testutil"
)

type captureObserver struct {
	events []UseCaseEvent
}

func (c *captureObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	c.events = append(c.events, e)
}

type failingGenerator struct{}

func (failingGenerator) Name() string { return "broken" }

func (failingGenerator) Generate(context.Context, string) (string, error) {
	return "", llm.ErrUnavailable
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.Workers = 2
	cfg.Model.Trees = 10
	cfg.Output.Dir = filepath.Join(t.TempDir(), "output")
	cfg.Store.Enabled = false
	return cfg
}

func TestRun_SyntheticEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.SaveResults = true

	database := testutil.NewTestDB(t)
	obs := &captureObserver{}
	svc := NewPipelineService(cfg, llm.NewSimulator(), testutil.NewTestUoW(database), nil, obs)

	rep, err := svc.Run(context.Background(), RunRequest{DemoRows: 120})
	require.NoError(t, err)

	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, "synthetic", rep.Input)
	assert.Equal(t, 120, rep.Rows)
	assert.Equal(t, domain.ModelTree, rep.ModelKind)
	assert.Equal(t, "simulator", rep.Provider)
	assert.True(t, rep.Validation.Valid)
	require.NotNil(t, rep.Metrics)
	assert.Positive(t, rep.Metrics.N)
	assert.NotEmpty(t, rep.Importances)
	require.Len(t, rep.Results, cfg.Thresholds.DemoUsers)
	for _, r := range rep.Results {
		assert.Contains(t, r.RoastPrompt, r.AppName)
		assert.NotEmpty(t, r.GeneratedText)
		assert.GreaterOrEqual(t, r.PredictedUsage, 0.0)
	}

	// report on disk
	require.NotEmpty(t, rep.ReportPath)
	var saved RunReport
	require.NoError(t, report.Read(rep.ReportPath, &saved))
	assert.Equal(t, rep.RunID, saved.RunID)
	assert.Len(t, saved.Results, len(rep.Results))

	// stored run
	runs := repository.NewSQLiteRunRepo(database)
	stored, err := runs.GetByID(context.Background(), rep.RunID)
	require.NoError(t, err)
	assert.InDelta(t, rep.Metrics.MAE, stored.MAE, 1e-9)
	results, err := runs.Results(context.Background(), rep.RunID)
	require.NoError(t, err)
	assert.Equal(t, rep.Results, results)

	require.Len(t, obs.events, 1)
	assert.Equal(t, "run", obs.events[0].UseCase)
	assert.Equal(t, rep.RunID, obs.events[0].RunID)
	assert.True(t, obs.events[0].Success)
}

func TestRun_DeterministicForSeed(t *testing.T) {
	cfg := testConfig(t)

	a, err := NewPipelineService(cfg, llm.NewSimulator(), nil, nil).Run(context.Background(), RunRequest{DemoRows: 80})
	require.NoError(t, err)
	b, err := NewPipelineService(cfg, llm.NewSimulator(), nil, nil).Run(context.Background(), RunRequest{DemoRows: 80})
	require.NoError(t, err)

	assert.NotEqual(t, a.RunID, b.RunID)
	assert.Equal(t, a.Importances, b.Importances)
	assert.Equal(t, a.Results, b.Results)
}

func TestRun_ForestFromCSV(t *testing.T) {
	cfg := testConfig(t)
	cfg.Model.Kind = string(domain.ModelForest)

	path := filepath.Join(t.TempDir(), "usage.csv")
	require.NoError(t, importer.SaveCSV(path, testutil.NewValidTable(90, 3)))
	modelPath := filepath.Join(t.TempDir(), "model.json")

	rep, err := NewPipelineService(cfg, llm.NewSimulator(), nil, nil).Run(context.Background(), RunRequest{Input: path, ModelPath: modelPath})
	require.NoError(t, err)

	assert.Equal(t, path, rep.Input)
	assert.Equal(t, domain.ModelForest, rep.ModelKind)
	assert.Empty(t, rep.ReportPath, "save results is off")
	assert.Equal(t, modelPath, rep.ModelPath)
	_, err = os.Stat(modelPath)
	assert.NoError(t, err)
}

func TestRun_InvalidInputStopsBeforeTraining(t *testing.T) {
	cfg := testConfig(t)
	obs := &captureObserver{}

	table := testutil.NewTestTable(
		testutil.NewTestRecord(testutil.WithIntensity("extreme")),
		testutil.NewTestRecord(testutil.WithLine(2)),
	)
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, importer.SaveCSV(path, table))

	_, err := NewPipelineService(cfg, nil, nil, nil, obs).Run(context.Background(), RunRequest{Input: path})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSchema)

	var vf *ValidationFailedError
	require.ErrorAs(t, err, &vf)
	assert.False(t, vf.Result.Valid)
	assert.NotEmpty(t, vf.Result.Errors)

	require.Len(t, obs.events, 1)
	assert.False(t, obs.events[0].Success)
}

func TestRun_MissingInputFile(t *testing.T) {
	cfg := testConfig(t)
	_, err := NewPipelineService(cfg, nil, nil, nil).Run(context.Background(), RunRequest{Input: filepath.Join(t.TempDir(), "none.csv")})
	assert.Error(t, err)
}

func TestRun_FailingGeneratorApologizes(t *testing.T) {
	cfg := testConfig(t)

	rep, err := NewPipelineService(cfg, failingGenerator{}, nil, nil).Run(context.Background(), RunRequest{DemoRows: 60})
	require.NoError(t, err)
	require.NotEmpty(t, rep.Results)
	for _, r := range rep.Results {
		assert.Equal(t, llm.ApologyText, r.GeneratedText)
	}
}

func TestRun_FallbackGeneratorUsesSimulator(t *testing.T) {
	cfg := testConfig(t)
	gen := llm.WithFallback(failingGenerator{}, llm.NewSimulator(), nil)

	rep, err := NewPipelineService(cfg, gen, nil, nil).Run(context.Background(), RunRequest{DemoRows: 60})
	require.NoError(t, err)
	for _, r := range rep.Results {
		assert.NotEqual(t, llm.ApologyText, r.GeneratedText)
	}
}

func TestRun_Cancelled(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPipelineService(cfg, nil, nil, nil).Run(ctx, RunRequest{DemoRows: 60})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestPickDemo(t *testing.T) {
	records := testutil.NewFeatureTable(30, 1)

	a := pickDemo(records, 5, 42)
	b := pickDemo(records, 5, 42)
	require.Len(t, a, 5)
	assert.Equal(t, a, b)

	seen := map[int]bool{}
	for _, r := range a {
		assert.False(t, seen[r.Line], "drawn without replacement")
		seen[r.Line] = true
	}

	assert.Len(t, pickDemo(records, 100, 42), 30)
	assert.Empty(t, pickDemo(records, -1, 42))
	assert.Empty(t, pickDemo(nil, 5, 42))
}

func TestPredictedMinutes(t *testing.T) {
	r := testutil.NewFeatureTable(1, 1)[0]
	r.RoastIntensity = domain.IntensityBrutal

	assert.InDelta(t, 90.0, predictedMinutes(importer.ColUsageMinutes, r, 90), 1e-12)
	assert.InDelta(t, 30.0, predictedMinutes("engagement_score", r, 90), 1e-12)
}

func TestValidationFailedError_Message(t *testing.T) {
	err := &ValidationFailedError{Result: importer.Result{Errors: []string{"first", "second"}}}
	assert.Equal(t, "input validation failed: first (and 1 more)", err.Error())
	assert.Equal(t, "input validation failed", (&ValidationFailedError{}).Error())
}
