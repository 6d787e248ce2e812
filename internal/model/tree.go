package model

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// TreeParams bounds tree growth.
type TreeParams struct {
	MaxDepth        int `json:"max_depth"`
	MinSamplesSplit int `json:"min_samples_split"`
	MinSamplesLeaf  int `json:"min_samples_leaf"`
}

// Node is one node of a fitted tree, stored flat. Leaves have Left == -1.
type Node struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t"`
	Left      int     `json:"l"`
	Right     int     `json:"r"`
	Value     float64 `json:"v"`
	Samples   int     `json:"n"`
}

// IsLeaf reports whether n has no children.
func (n Node) IsLeaf() bool { return n.Left < 0 }

// minGain is the smallest squared-error reduction accepted as a split.
const minGain = 1e-9

// DecisionTree is a CART regression tree minimizing squared error.
type DecisionTree struct {
	Params     TreeParams `json:"params"`
	NFeatures  int        `json:"n_features"`
	Nodes      []Node     `json:"nodes"`
	Importance []float64  `json:"importance"`
}

// NewDecisionTree returns an unfitted tree.
func NewDecisionTree(p TreeParams) *DecisionTree {
	return &DecisionTree{Params: p}
}

// Fit grows the tree on every row of X.
func (t *DecisionTree) Fit(X *mat.Dense, y []float64) error {
	r, _ := X.Dims()
	idx := make([]int, r)
	for i := range idx {
		idx[i] = i
	}
	return t.fitIndices(X, y, idx)
}

// fitIndices grows the tree on the rows listed in idx. idx may repeat rows,
// as bootstrap samples do.
func (t *DecisionTree) fitIndices(X *mat.Dense, y []float64, idx []int) error {
	r, c := X.Dims()
	if r != len(y) {
		return fmt.Errorf("fitting tree: %d rows but %d targets", r, len(y))
	}
	if len(idx) == 0 {
		return fmt.Errorf("fitting tree: no samples")
	}

	t.NFeatures = c
	t.Nodes = t.Nodes[:0]
	gains := make([]float64, c)

	b := &treeBuilder{tree: t, X: X, y: y, gains: gains}
	b.build(idx, 0)

	total := floats.Sum(gains)
	if total > 0 {
		floats.Scale(1/total, gains)
	}
	t.Importance = gains
	return nil
}

// Predict returns one prediction per row of X.
func (t *DecisionTree) Predict(X *mat.Dense) []float64 {
	r, _ := X.Dims()
	out := make([]float64, r)
	for i := 0; i < r; i++ {
		out[i] = t.PredictRow(X.RawRowView(i))
	}
	return out
}

// PredictRow walks the tree for a single encoded row.
func (t *DecisionTree) PredictRow(row []float64) float64 {
	if len(t.Nodes) == 0 {
		return 0
	}
	n := t.Nodes[0]
	for !n.IsLeaf() {
		if row[n.Feature] <= n.Threshold {
			n = t.Nodes[n.Left]
		} else {
			n = t.Nodes[n.Right]
		}
	}
	return n.Value
}

// Importances returns the normalized squared-error reduction per feature.
// All weights are zero when the tree is a single leaf.
func (t *DecisionTree) Importances() []float64 {
	return append([]float64(nil), t.Importance...)
}

// Depth returns the length of the longest root-to-leaf path.
func (t *DecisionTree) Depth() int {
	if len(t.Nodes) == 0 {
		return 0
	}
	var walk func(i int) int
	walk = func(i int) int {
		n := t.Nodes[i]
		if n.IsLeaf() {
			return 0
		}
		return 1 + max(walk(n.Left), walk(n.Right))
	}
	return walk(0)
}

type treeBuilder struct {
	tree  *DecisionTree
	X     *mat.Dense
	y     []float64
	gains []float64
}

type split struct {
	feature   int
	threshold float64
	gain      float64
}

func (b *treeBuilder) build(idx []int, depth int) int {
	sum, sumSq := 0.0, 0.0
	for _, i := range idx {
		sum += b.y[i]
		sumSq += b.y[i] * b.y[i]
	}
	n := float64(len(idx))
	sse := sumSq - sum*sum/n

	pos := len(b.tree.Nodes)
	b.tree.Nodes = append(b.tree.Nodes, Node{Feature: -1, Left: -1, Right: -1, Value: sum / n, Samples: len(idx)})

	p := b.tree.Params
	if depth >= p.MaxDepth || len(idx) < p.MinSamplesSplit || len(idx) < 2*p.MinSamplesLeaf || sse <= minGain {
		return pos
	}

	best, ok := b.bestSplit(idx, sum, sumSq, sse)
	if !ok {
		return pos
	}

	var left, right []int
	for _, i := range idx {
		if b.X.At(i, best.feature) <= best.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	b.gains[best.feature] += best.gain
	l := b.build(left, depth+1)
	r := b.build(right, depth+1)

	node := &b.tree.Nodes[pos]
	node.Feature = best.feature
	node.Threshold = best.threshold
	node.Left = l
	node.Right = r
	return pos
}

// bestSplit scans every feature for the threshold with the largest
// squared-error reduction. Earlier features and lower thresholds win ties.
func (b *treeBuilder) bestSplit(idx []int, sum, sumSq, sse float64) (split, bool) {
	_, c := b.X.Dims()
	minLeaf := max(b.tree.Params.MinSamplesLeaf, 1)

	type pair struct{ x, y float64 }
	pairs := make([]pair, len(idx))

	var best split
	found := false
	for f := 0; f < c; f++ {
		for k, i := range idx {
			pairs[k] = pair{x: b.X.At(i, f), y: b.y[i]}
		}
		sort.SliceStable(pairs, func(a, b int) bool { return pairs[a].x < pairs[b].x })
		if pairs[0].x == pairs[len(pairs)-1].x {
			continue
		}

		ls, lsq := 0.0, 0.0
		for k := 0; k < len(pairs)-1; k++ {
			ls += pairs[k].y
			lsq += pairs[k].y * pairs[k].y
			if pairs[k].x == pairs[k+1].x {
				continue
			}
			nl := k + 1
			nr := len(pairs) - nl
			if nl < minLeaf || nr < minLeaf {
				continue
			}
			rs, rsq := sum-ls, sumSq-lsq
			child := (lsq - ls*ls/float64(nl)) + (rsq - rs*rs/float64(nr))
			gain := sse - child
			if gain > minGain && (!found || gain > best.gain+minGain) {
				best = split{feature: f, threshold: (pairs[k].x + pairs[k+1].x) / 2, gain: gain}
				found = true
			}
		}
	}
	return best, found
}
