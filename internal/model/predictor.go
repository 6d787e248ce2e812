package model

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/alexanderramin/roaster/internal/config"
	"github.com/alexanderramin/roaster/internal/domain"
	"github.com/alexanderramin/roaster/internal/logger"
)

// minSplitRows is the smallest train or test partition Train accepts.
const minSplitRows = 2

// TrainedModel is a fitted encoder and regressor pair.
type TrainedModel struct {
	Kind      domain.ModelKind
	Features  []string
	Target    string
	Encoder   *OneHotEncoder
	Regressor Regressor
	TrainedAt time.Time
}

// Predict encodes rows and returns one prediction each, in input order.
// Rows are split into chunks predicted on up to workers goroutines.
func (m *TrainedModel) Predict(ctx context.Context, rows [][]string, workers int) ([]float64, error) {
	if m == nil || m.Regressor == nil {
		return nil, domain.ErrModelState
	}
	out := make([]float64, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	workers = max(workers, 1)
	chunk := (len(rows) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(rows); start += chunk {
		end := min(start+chunk, len(rows))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			X, err := m.Encoder.Transform(rows[start:end])
			if err != nil {
				return fmt.Errorf("rows %d-%d: %w", start, end-1, err)
			}
			copy(out[start:end], m.Regressor.Predict(X))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("predicting: %w", err)
	}
	return out, nil
}

// PredictRecords extracts the model's features from records and predicts.
func (m *TrainedModel) PredictRecords(ctx context.Context, records []domain.FeatureRecord, workers int) ([]float64, error) {
	if m == nil {
		return nil, domain.ErrModelState
	}
	rows := make([][]string, len(records))
	for i, r := range records {
		row, err := featureRow(r, m.Features)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", r.Line, err)
		}
		rows[i] = row
	}
	return m.Predict(ctx, rows, workers)
}

// PredictSingle predicts from a feature name to value mapping. Every model
// feature must be present; unseen values encode as all zeros.
func (m *TrainedModel) PredictSingle(features map[string]string) (float64, error) {
	if m == nil || m.Regressor == nil {
		return 0, domain.ErrModelState
	}
	row := make([]string, len(m.Features))
	for j, f := range m.Features {
		v, ok := features[f]
		if !ok {
			return 0, fmt.Errorf("missing feature %q", f)
		}
		row[j] = v
	}
	X, err := m.Encoder.Transform([][]string{row})
	if err != nil {
		return 0, err
	}
	return m.Regressor.Predict(X)[0], nil
}

// FeatureImportances maps each encoded feature name to its weight.
func (m *TrainedModel) FeatureImportances() map[string]float64 {
	if m == nil || m.Regressor == nil {
		return nil
	}
	names := m.Encoder.FeatureNames()
	imp := m.Regressor.Importances()
	out := make(map[string]float64, len(names))
	for i, n := range names {
		if i < len(imp) {
			out[n] = imp[i]
		} else {
			out[n] = 0
		}
	}
	return out
}

// Importance is one named feature weight.
type Importance struct {
	Feature string  `json:"feature"`
	Weight  float64 `json:"weight"`
}

// RankImportances sorts importances by descending weight, then name.
func RankImportances(m map[string]float64) []Importance {
	out := make([]Importance, 0, len(m))
	for k, v := range m {
		out = append(out, Importance{Feature: k, Weight: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Feature < out[j].Feature
	})
	return out
}

// TrainResult carries the fitted model and the encoded partitions the
// evaluator needs.
type TrainResult struct {
	Model      *TrainedModel
	TrainIndex []int
	TestIndex  []int
	XTrain     *mat.Dense
	XTest      *mat.Dense
	YTrain     []float64
	YTest      []float64
	PredTest   []float64
}

// Predictor trains and serves a single model.
type Predictor struct {
	cfg     config.ModelConfig
	params  Params
	workers int
	log     *logger.Logger
	model   *TrainedModel
}

// NewPredictor returns an untrained predictor.
func NewPredictor(cfg config.ModelConfig, workers int, log *logger.Logger) *Predictor {
	if log == nil {
		log = logger.Nop()
	}
	return &Predictor{
		cfg:     cfg,
		params:  ParamsFromConfig(cfg, workers),
		workers: max(workers, 1),
		log:     log,
	}
}

// Builder returns a builder for fresh, unfitted regressors of the
// configured kind.
func (p *Predictor) Builder() (Builder, error) {
	return NewBuilder(p.params)
}

// Train splits records, fits the encoder and regressor on the training
// partition and predicts the test partition.
func (p *Predictor) Train(records []domain.FeatureRecord) (*TrainResult, error) {
	build, err := p.Builder()
	if err != nil {
		return nil, err
	}
	ds, err := BuildDataset(records, p.cfg.Features, p.cfg.Target)
	if err != nil {
		return nil, err
	}
	if len(ds.Rows) < 2*minSplitRows {
		return nil, fmt.Errorf("training on %d rows: %w", len(ds.Rows), domain.ErrInsufficientData)
	}

	trainIdx, testIdx, err := TrainTestSplit(len(ds.Rows), p.cfg.TestSize, p.cfg.Seed)
	if err != nil {
		return nil, err
	}
	if len(trainIdx) < minSplitRows || len(testIdx) < minSplitRows {
		return nil, fmt.Errorf("split %d/%d rows: %w", len(trainIdx), len(testIdx), domain.ErrInsufficientData)
	}

	trainRows, yTrain := ds.Subset(trainIdx)
	testRows, yTest := ds.Subset(testIdx)

	enc := NewOneHotEncoder(ds.Features)
	if err := enc.Fit(trainRows); err != nil {
		return nil, err
	}
	if enc.Width() == 0 {
		return nil, fmt.Errorf("every feature has a single category: %w", domain.ErrInsufficientData)
	}
	XTrain, err := enc.Transform(trainRows)
	if err != nil {
		return nil, err
	}
	XTest, err := enc.Transform(testRows)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	reg := build()
	if err := reg.Fit(XTrain, yTrain); err != nil {
		return nil, fmt.Errorf("fitting %s: %w", p.params.Kind, err)
	}

	m := &TrainedModel{
		Kind:      domain.ModelKind(domain.CoalesceStr(string(p.params.Kind), string(domain.ModelTree))),
		Features:  ds.Features,
		Target:    ds.Target,
		Encoder:   enc,
		Regressor: reg,
		TrainedAt: time.Now().UTC(),
	}
	p.model = m

	p.log.Info().
		Str("kind", string(m.Kind)).
		Int("train_rows", len(trainIdx)).
		Int("test_rows", len(testIdx)).
		Int("encoded_features", enc.Width()).
		Dur("fit_time", time.Since(start)).
		Msg("model trained")

	return &TrainResult{
		Model:      m,
		TrainIndex: trainIdx,
		TestIndex:  testIdx,
		XTrain:     XTrain,
		XTest:      XTest,
		YTrain:     yTrain,
		YTest:      yTest,
		PredTest:   reg.Predict(XTest),
	}, nil
}

// Model returns the trained model or nil.
func (p *Predictor) Model() *TrainedModel { return p.model }

// Trained reports whether Train or Load has succeeded.
func (p *Predictor) Trained() bool { return p.model != nil }

// Use installs an already trained model, such as one read by LoadModel.
func (p *Predictor) Use(m *TrainedModel) error {
	if m == nil || m.Regressor == nil || !m.Encoder.Fitted() {
		return errors.New("model is not trained")
	}
	p.model = m
	return nil
}

// Predict runs batch prediction over records.
func (p *Predictor) Predict(ctx context.Context, records []domain.FeatureRecord) ([]float64, error) {
	if p.model == nil {
		return nil, domain.ErrModelState
	}
	return p.model.PredictRecords(ctx, records, p.workers)
}

// PredictSingle predicts one feature mapping.
func (p *Predictor) PredictSingle(features map[string]string) (float64, error) {
	if p.model == nil {
		return 0, fmt.Errorf("predict single: %w", domain.ErrModelState)
	}
	return p.model.PredictSingle(features)
}

// FeatureImportances returns the trained model's importances.
func (p *Predictor) FeatureImportances() (map[string]float64, error) {
	if p.model == nil {
		return nil, domain.ErrModelState
	}
	return p.model.FeatureImportances(), nil
}
