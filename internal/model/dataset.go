package model

import (
	"fmt"

	"github.com/alexanderramin/roaster/internal/domain"
)

// Dataset is the categorical design table and target vector for a set of
// feature records.
type Dataset struct {
	Features []string
	Target   string
	Rows     [][]string
	Y        []float64
}

// BuildDataset extracts the named categorical features and numeric target
// from records.
func BuildDataset(records []domain.FeatureRecord, features []string, target string) (*Dataset, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("building dataset: no features")
	}
	ds := &Dataset{
		Features: append([]string(nil), features...),
		Target:   target,
		Rows:     make([][]string, len(records)),
		Y:        make([]float64, len(records)),
	}
	for i, r := range records {
		row, err := featureRow(r, features)
		if err != nil {
			return nil, fmt.Errorf("building dataset: line %d: %w", r.Line, err)
		}
		y, ok := r.Target(target)
		if !ok {
			return nil, fmt.Errorf("building dataset: unknown target %q", target)
		}
		ds.Rows[i] = row
		ds.Y[i] = y
	}
	return ds, nil
}

// Subset returns the rows at idx in order.
func (d *Dataset) Subset(idx []int) ([][]string, []float64) {
	rows := make([][]string, len(idx))
	y := make([]float64, len(idx))
	for k, i := range idx {
		rows[k] = d.Rows[i]
		y[k] = d.Y[i]
	}
	return rows, y
}

func featureRow(r domain.FeatureRecord, features []string) ([]string, error) {
	row := make([]string, len(features))
	for j, f := range features {
		v, ok := r.Value(f)
		if !ok {
			return nil, fmt.Errorf("unknown feature %q", f)
		}
		row[j] = v
	}
	return row, nil
}
