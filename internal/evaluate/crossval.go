package evaluate

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/alexanderramin/roaster/internal/domain"
	"github.com/alexanderramin/roaster/internal/model"
)

// CVResult is the spread of per-fold R² scores.
type CVResult struct {
	Folds  int       `json:"folds"`
	Mean   float64   `json:"mean_r2"`
	Std    float64   `json:"std_r2"`
	Scores []float64 `json:"scores"`
}

// CrossValidate runs contiguous K-fold cross-validation, fitting a fresh
// regressor from build on every fold. X and y are only read.
func CrossValidate(build model.Builder, X *mat.Dense, y []float64, folds int) (CVResult, error) {
	if folds < 2 {
		return CVResult{}, fmt.Errorf("cross-validate: need at least 2 folds, got %d", folds)
	}
	n, _ := X.Dims()
	if n != len(y) {
		return CVResult{}, fmt.Errorf("cross-validate: %d rows but %d targets", n, len(y))
	}
	if n < folds {
		return CVResult{}, fmt.Errorf("cross-validate: %d rows for %d folds: %w", n, folds, domain.ErrInsufficientData)
	}
	if distinct(y) < 2 {
		return CVResult{}, fmt.Errorf("cross-validate: fewer than 2 distinct targets: %w", domain.ErrInsufficientData)
	}

	res := CVResult{Folds: folds, Scores: make([]float64, 0, folds)}
	start := 0
	for k := 0; k < folds; k++ {
		size := n / folds
		if k < n%folds {
			size++
		}
		end := start + size

		trainIdx := make([]int, 0, n-size)
		testIdx := make([]int, 0, size)
		for i := 0; i < n; i++ {
			if i >= start && i < end {
				testIdx = append(testIdx, i)
			} else {
				trainIdx = append(trainIdx, i)
			}
		}

		reg := build()
		if err := reg.Fit(rows(X, trainIdx), pick(y, trainIdx)); err != nil {
			return CVResult{}, fmt.Errorf("cross-validate fold %d: %w", k+1, err)
		}
		m, err := Evaluate(pick(y, testIdx), reg.Predict(rows(X, testIdx)))
		if err != nil {
			return CVResult{}, fmt.Errorf("cross-validate fold %d: %w", k+1, err)
		}
		res.Scores = append(res.Scores, m.R2)
		start = end
	}

	res.Mean, res.Std = stat.PopMeanStdDev(res.Scores, nil)
	return res, nil
}

func rows(X *mat.Dense, idx []int) *mat.Dense {
	_, c := X.Dims()
	out := mat.NewDense(len(idx), c, nil)
	for k, i := range idx {
		out.SetRow(k, X.RawRowView(i))
	}
	return out
}

func pick(y []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for k, i := range idx {
		out[k] = y[i]
	}
	return out
}
