package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/alexanderramin/roaster/internal/config"
	"github.com/alexanderramin/roaster/internal/domain"
)

// Regressor is a fitted-in-place regression model.
type Regressor interface {
	Fit(X *mat.Dense, y []float64) error
	Predict(X *mat.Dense) []float64
	Importances() []float64
}

// Builder returns a fresh, unfitted regressor on every call.
type Builder func() Regressor

// Params selects and configures a regressor.
type Params struct {
	Kind    domain.ModelKind
	Tree    TreeParams
	Trees   int
	Seed    uint64
	Workers int
}

// ParamsFromConfig maps model config onto regressor params.
func ParamsFromConfig(cfg config.ModelConfig, workers int) Params {
	return Params{
		Kind: domain.ModelKind(cfg.Kind),
		Tree: TreeParams{
			MaxDepth:        cfg.MaxDepth,
			MinSamplesSplit: cfg.MinSamplesSplit,
			MinSamplesLeaf:  cfg.MinSamplesLeaf,
		},
		Trees:   cfg.Trees,
		Seed:    cfg.Seed,
		Workers: workers,
	}
}

// NewBuilder validates p and returns a builder for it.
func NewBuilder(p Params) (Builder, error) {
	if p.Tree.MaxDepth <= 0 {
		return nil, fmt.Errorf("max depth must be positive, got %d", p.Tree.MaxDepth)
	}
	switch p.Kind {
	case domain.ModelTree, "":
		return func() Regressor { return NewDecisionTree(p.Tree) }, nil
	case domain.ModelForest:
		if p.Trees <= 0 {
			return nil, fmt.Errorf("forest needs a positive tree count, got %d", p.Trees)
		}
		return func() Regressor { return NewRandomForest(p.Tree, p.Trees, p.Seed, p.Workers) }, nil
	default:
		return nil, fmt.Errorf("unknown model kind %q", p.Kind)
	}
}
