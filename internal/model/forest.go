package model

import (
	"fmt"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// RandomForest averages bootstrap-trained decision trees.
type RandomForest struct {
	Params  TreeParams      `json:"params"`
	NTrees  int             `json:"n_trees"`
	Seed    uint64          `json:"seed"`
	Workers int             `json:"-"`
	Trees   []*DecisionTree `json:"trees"`
}

// NewRandomForest returns an unfitted forest of n trees.
func NewRandomForest(p TreeParams, n int, seed uint64, workers int) *RandomForest {
	return &RandomForest{Params: p, NTrees: n, Seed: seed, Workers: workers}
}

// Fit draws every bootstrap sample from one seeded source, then fits the
// trees in parallel. The result depends only on the seed and the data.
func (f *RandomForest) Fit(X *mat.Dense, y []float64) error {
	if f.NTrees <= 0 {
		return fmt.Errorf("fitting forest: trees must be positive, got %d", f.NTrees)
	}
	r, _ := X.Dims()
	if r == 0 || r != len(y) {
		return fmt.Errorf("fitting forest: %d rows but %d targets", r, len(y))
	}

	rng := rand.New(rand.NewPCG(f.Seed, f.Seed))
	samples := make([][]int, f.NTrees)
	for t := range samples {
		idx := make([]int, r)
		for i := range idx {
			idx[i] = rng.IntN(r)
		}
		samples[t] = idx
	}

	trees := make([]*DecisionTree, f.NTrees)
	var g errgroup.Group
	g.SetLimit(max(f.Workers, 1))
	for t := range trees {
		g.Go(func() error {
			tree := NewDecisionTree(f.Params)
			if err := tree.fitIndices(X, y, samples[t]); err != nil {
				return fmt.Errorf("tree %d: %w", t, err)
			}
			trees[t] = tree
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("fitting forest: %w", err)
	}
	f.Trees = trees
	return nil
}

// Predict returns the mean tree prediction per row.
func (f *RandomForest) Predict(X *mat.Dense) []float64 {
	r, _ := X.Dims()
	out := make([]float64, r)
	if len(f.Trees) == 0 {
		return out
	}
	for _, t := range f.Trees {
		floats.Add(out, t.Predict(X))
	}
	floats.Scale(1/float64(len(f.Trees)), out)
	return out
}

// Importances averages tree importances and renormalizes them to sum to 1.
func (f *RandomForest) Importances() []float64 {
	if len(f.Trees) == 0 {
		return nil
	}
	out := make([]float64, f.Trees[0].NFeatures)
	for _, t := range f.Trees {
		if len(t.Importance) == len(out) {
			floats.Add(out, t.Importance)
		}
	}
	if total := floats.Sum(out); total > 0 {
		floats.Scale(1/total, out)
	}
	return out
}
