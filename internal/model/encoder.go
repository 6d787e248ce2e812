// Package model fits tree-based regressors over one-hot encoded
// categorical features.
package model

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// ErrNotFitted is returned when an encoder is used before Fit.
var ErrNotFitted = errors.New("encoder not fitted")

// OneHotEncoder maps categorical columns to indicator columns. The first
// category of each column, in sorted order, is dropped. Categories unseen
// during Fit encode as all zeros.
type OneHotEncoder struct {
	Columns    []string   `json:"columns"`
	Categories [][]string `json:"categories"`

	lookupOnce sync.Once
	lookup     []map[string]int
}

// NewOneHotEncoder returns an unfitted encoder for columns.
func NewOneHotEncoder(columns []string) *OneHotEncoder {
	return &OneHotEncoder{Columns: append([]string(nil), columns...)}
}

// Fit learns the sorted category set of every column. rows[i][j] is the
// value of column j in row i.
func (e *OneHotEncoder) Fit(rows [][]string) error {
	if len(rows) == 0 {
		return fmt.Errorf("fitting encoder: no rows")
	}
	cats := make([][]string, len(e.Columns))
	for j := range e.Columns {
		seen := map[string]bool{}
		for i, r := range rows {
			if len(r) != len(e.Columns) {
				return fmt.Errorf("fitting encoder: row %d has %d values, want %d", i, len(r), len(e.Columns))
			}
			if !seen[r[j]] {
				seen[r[j]] = true
				cats[j] = append(cats[j], r[j])
			}
		}
		sort.Strings(cats[j])
	}
	e.Categories = cats
	e.lookupOnce = sync.Once{}
	e.lookup = nil
	return nil
}

// Fitted reports whether Fit (or a load) has populated the categories.
func (e *OneHotEncoder) Fitted() bool {
	return e != nil && len(e.Categories) == len(e.Columns) && len(e.Columns) > 0
}

// Width is the number of encoded columns.
func (e *OneHotEncoder) Width() int {
	w := 0
	for _, c := range e.Categories {
		if len(c) > 1 {
			w += len(c) - 1
		}
	}
	return w
}

// FeatureNames returns "<column>_<category>" for every encoded column.
func (e *OneHotEncoder) FeatureNames() []string {
	names := make([]string, 0, e.Width())
	for j, col := range e.Columns {
		for _, c := range e.Categories[j][min(1, len(e.Categories[j])):] {
			names = append(names, col+"_"+c)
		}
	}
	return names
}

// Transform encodes rows into an n×Width matrix.
func (e *OneHotEncoder) Transform(rows [][]string) (*mat.Dense, error) {
	if !e.Fitted() {
		return nil, ErrNotFitted
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("transforming: no rows")
	}
	w := e.Width()
	if w == 0 {
		return nil, fmt.Errorf("transforming: every feature has a single category")
	}

	data := make([]float64, len(rows)*w)
	for i, r := range rows {
		if err := e.encodeInto(r, data[i*w:(i+1)*w]); err != nil {
			return nil, fmt.Errorf("transforming row %d: %w", i, err)
		}
	}
	return mat.NewDense(len(rows), w, data), nil
}

func (e *OneHotEncoder) encodeInto(row []string, dst []float64) error {
	if len(row) != len(e.Columns) {
		return fmt.Errorf("got %d values, want %d", len(row), len(e.Columns))
	}
	e.lookupOnce.Do(e.buildLookup)
	offset := 0
	for j := range e.Columns {
		width := max(len(e.Categories[j])-1, 0)
		if pos, ok := e.lookup[j][row[j]]; ok && pos > 0 {
			dst[offset+pos-1] = 1
		}
		offset += width
	}
	return nil
}

func (e *OneHotEncoder) buildLookup() {
	lookup := make([]map[string]int, len(e.Categories))
	for j, cats := range e.Categories {
		lookup[j] = make(map[string]int, len(cats))
		for pos, c := range cats {
			lookup[j][c] = pos
		}
	}
	e.lookup = lookup
}
