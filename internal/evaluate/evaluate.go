// Package evaluate scores regression predictions.
package evaluate

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/alexanderramin/roaster/internal/config"
	"github.com/alexanderramin/roaster/internal/domain"
)

// Accuracy thresholds in minutes.
const (
	Within10 = 10
	Within30 = 30
	Within60 = 60
)

// Metrics summarizes predictions against actual values.
type Metrics struct {
	N        int     `json:"n"`
	MAE      float64 `json:"mae"`
	MSE      float64 `json:"mse"`
	RMSE     float64 `json:"rmse"`
	R2       float64 `json:"r2"`
	Within10 float64 `json:"accuracy_within_10min"`
	Within30 float64 `json:"accuracy_within_30min"`
	Within60 float64 `json:"accuracy_within_60min"`

	MeanActual    float64 `json:"mean_actual"`
	StdActual     float64 `json:"std_actual"`
	MeanPredicted float64 `json:"mean_predicted"`
	StdPredicted  float64 `json:"std_predicted"`
}

// Accuracy returns the fraction within the given threshold, for the
// thresholds Metrics tracks.
func (m Metrics) Accuracy(minutes int) (float64, bool) {
	switch minutes {
	case Within10:
		return m.Within10, true
	case Within30:
		return m.Within30, true
	case Within60:
		return m.Within60, true
	}
	return 0, false
}

// Evaluate compares yPred with yTrue. Both must be the same non-zero
// length and yTrue must hold at least two distinct values, otherwise R²
// is undefined.
func Evaluate(yTrue, yPred []float64) (Metrics, error) {
	if len(yTrue) != len(yPred) {
		return Metrics{}, fmt.Errorf("evaluate: %d actual values but %d predictions", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return Metrics{}, fmt.Errorf("evaluate: no values: %w", domain.ErrInsufficientData)
	}
	if distinct(yTrue) < 2 {
		return Metrics{}, fmt.Errorf("evaluate: fewer than 2 distinct actual values: %w", domain.ErrInsufficientData)
	}

	n := float64(len(yTrue))
	m := Metrics{N: len(yTrue)}
	m.MAE = floats.Distance(yTrue, yPred, 1) / n
	m.RMSE = floats.Distance(yTrue, yPred, 2) / math.Sqrt(n)
	m.MSE = m.RMSE * m.RMSE
	m.R2 = stat.RSquaredFrom(yPred, yTrue, nil)

	var c10, c30, c60 int
	for i := range yTrue {
		d := math.Abs(yTrue[i] - yPred[i])
		if d <= Within10 {
			c10++
		}
		if d <= Within30 {
			c30++
		}
		if d <= Within60 {
			c60++
		}
	}
	m.Within10 = float64(c10) / n
	m.Within30 = float64(c30) / n
	m.Within60 = float64(c60) / n

	m.MeanActual, m.StdActual = stat.PopMeanStdDev(yTrue, nil)
	m.MeanPredicted, m.StdPredicted = stat.PopMeanStdDev(yPred, nil)
	return m, nil
}

// Check returns a note for every threshold the metrics miss.
func Check(m Metrics, t config.ThresholdConfig) []string {
	var notes []string
	if m.R2 < t.MinR2 {
		notes = append(notes, fmt.Sprintf("R² %.3f is below the minimum of %.2f", m.R2, t.MinR2))
	}
	if t.MaxMAE > 0 && m.MAE > t.MaxMAE {
		notes = append(notes, fmt.Sprintf("MAE %.1f minutes is above the maximum of %.0f", m.MAE, t.MaxMAE))
	}
	return notes
}

func distinct(vals []float64) int {
	seen := make(map[float64]struct{}, 2)
	for _, v := range vals {
		seen[v] = struct{}{}
		if len(seen) > 1 {
			return len(seen)
		}
	}
	return len(seen)
}
