// Package eval computes goodness-of-fit metrics between a diagnostic
// trajectory source and the externally measured actual trajectory. It sits
// off the control path; nothing here feeds observation or reward.
package eval

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/greenlab/greenhouse-rl/env"
)

// Metrics of a single quantity: coefficient of determination and mean
// absolute error.
type Metrics struct {
	R2  float64
	MAE float64
}

func (m Metrics) String() string {
	return fmt.Sprintf("R² = %.4f, MAE = %.4f", m.R2, m.MAE)
}

// Calculate compares two equal-length numeric sequences. It fails
// explicitly on empty or mismatched inputs rather than producing NaN.
func Calculate(yTrue, yPred []float64) (Metrics, error) {
	if len(yTrue) == 0 || len(yTrue) != len(yPred) {
		return Metrics{}, &env.LengthMismatchError{
			Left:     "actual",
			Right:    "predicted",
			LeftLen:  len(yTrue),
			RightLen: len(yPred),
		}
	}
	mean := stat.Mean(yTrue, nil)
	ssRes := 0.0
	ssTot := 0.0
	mae := 0.0
	for i := range yTrue {
		diff := yTrue[i] - yPred[i]
		ssRes += diff * diff
		dev := yTrue[i] - mean
		ssTot += dev * dev
		mae += math.Abs(diff)
	}
	mae /= float64(len(yTrue))
	if ssTot == 0 {
		// constant truth: perfect fit iff the residuals vanish
		if ssRes == 0 {
			return Metrics{R2: 1, MAE: mae}, nil
		}
		return Metrics{}, fmt.Errorf("R² undefined for constant sequence with nonzero residual")
	}
	return Metrics{R2: 1 - ssRes/ssTot, MAE: mae}, nil
}

// Report holds per-quantity metrics for one diagnostic source.
type Report map[string]Metrics

// EvaluateSource compares a diagnostic source against the actual trajectory
// for every climate quantity. A length divergence between the sources is a
// reportable error.
func EvaluateSource(buffers *env.HistoryBuffers, source env.Source) (Report, error) {
	report := make(Report, len(env.ClimateQuantities))
	for _, quantity := range env.ClimateQuantities {
		pred, actual, err := buffers.Aligned(source, env.SourceActual, quantity)
		if err != nil {
			return nil, err
		}
		metrics, err := Calculate(actual, pred)
		if err != nil {
			return nil, fmt.Errorf("%s/%s: %w", source, quantity, err)
		}
		report[quantity] = metrics
	}
	return report, nil
}
