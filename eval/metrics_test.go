package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenlab/greenhouse-rl/env"
)

func TestCalculatePerfectFit(t *testing.T) {
	y := []float64{1.5, 2.0, 3.25, 7.0, 4.5}
	m, err := Calculate(y, y)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, m.R2, 1e-12)
	assert.InDelta(t, 0.0, m.MAE, 1e-12)
}

func TestCalculateKnownValues(t *testing.T) {
	yTrue := []float64{1, 2, 3, 4}
	yPred := []float64{1, 2, 3, 5}
	m, err := Calculate(yTrue, yPred)
	require.NoError(t, err)
	// ssRes = 1, ssTot = 5
	assert.InDelta(t, 1-1.0/5.0, m.R2, 1e-12)
	assert.InDelta(t, 0.25, m.MAE, 1e-12)
}

func TestCalculateLengthMismatch(t *testing.T) {
	var mismatch *env.LengthMismatchError

	_, err := Calculate([]float64{1, 2}, []float64{1, 2, 3})
	assert.ErrorAs(t, err, &mismatch)

	_, err = Calculate(nil, nil)
	assert.ErrorAs(t, err, &mismatch)
}

func TestCalculateConstantTruth(t *testing.T) {
	m, err := Calculate([]float64{2, 2, 2}, []float64{2, 2, 2})
	require.NoError(t, err)
	assert.Equal(t, 1.0, m.R2)

	_, err = Calculate([]float64{2, 2, 2}, []float64{2, 2, 3})
	assert.Error(t, err)
}

func TestEvaluateSource(t *testing.T) {
	buffers := env.NewHistoryBuffers()
	batch := func(base float64) map[string][]float64 {
		return map[string][]float64{
			env.QuantityPAR:  {base + 1, base + 2, base + 3, base + 4},
			env.QuantityTemp: {base + 5, base + 6, base + 7, base + 8},
			env.QuantityRH:   {base + 9, base + 10, base + 11, base + 12},
			env.QuantityCO2:  {base + 13, base + 14, base + 15, base + 16},
		}
	}
	require.NoError(t, buffers.AppendEpoch(env.SourceActual, batch(0)))
	require.NoError(t, buffers.AppendEpoch(env.SourcePredicted, batch(0)))

	report, err := EvaluateSource(buffers, env.SourcePredicted)
	require.NoError(t, err)
	for _, quantity := range env.ClimateQuantities {
		assert.InDelta(t, 1.0, report[quantity].R2, 1e-12, quantity)
		assert.InDelta(t, 0.0, report[quantity].MAE, 1e-12, quantity)
	}
}

func TestEvaluateSourceMismatch(t *testing.T) {
	buffers := env.NewHistoryBuffers()
	require.NoError(t, buffers.AppendEpoch(env.SourceActual, map[string][]float64{
		env.QuantityPAR:  {1, 2, 3, 4},
		env.QuantityTemp: {1, 2, 3, 4},
		env.QuantityRH:   {1, 2, 3, 4},
		env.QuantityCO2:  {1, 2, 3, 4},
	}))

	var mismatch *env.LengthMismatchError
	_, err := EvaluateSource(buffers, env.SourcePredicted)
	assert.ErrorAs(t, err, &mismatch)
}
