package predictor

import (
	"context"
	"encoding/json"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenlab/greenhouse-rl/env"
)

func writeArtifact(t *testing.T, dir, name string, v interface{}) {
	t.Helper()
	payload, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path.Join(dir, name), payload, 0644))
}

// identity-scaled model over two features: temp_in = 2*temp_out + 0.5*heater + 1
func writeTempModel(t *testing.T, dir string) {
	writeArtifact(t, dir, env.QuantityTemp+ModelSuffix, Model{
		Names:     []string{env.FeatureTempOut, env.FeatureHeater},
		Weights:   []float64{2, 0.5},
		Intercept: 1,
	})
	writeArtifact(t, dir, env.QuantityTemp+ScalerSuffix, Scaler{
		Mean:  []float64{0, 0},
		Scale: []float64{1, 1},
	})
}

func testWindow() *env.FeatureWindow {
	return &env.FeatureWindow{
		Time:        []float64{300, 600, 900, 1200},
		GlobalOut:   []float64{100, 100, 100, 100},
		TempOut:     []float64{10, 11, 12, 13},
		RHOut:       []float64{70, 70, 70, 70},
		CO2Out:      []float64{410, 410, 410, 410},
		Ventilation: []float64{1, 1, 1, 1},
		Toplights:   []float64{0, 0, 0, 0},
		Heater:      []float64{1, 1, 1, 1},
	}
}

func TestPredictLinearModel(t *testing.T) {
	dir := t.TempDir()
	writeTempModel(t, dir)

	p, err := Load(Config{ModelDir: dir, Quantities: []string{env.QuantityTemp}}, nil)
	require.NoError(t, err)

	out, err := p.Predict(context.Background(), env.QuantityTemp, testWindow())
	require.NoError(t, err)
	assert.Equal(t, []float64{21.5, 23.5, 25.5, 27.5}, out)
}

func TestPredictAppliesScaler(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, env.QuantityTemp+ModelSuffix, Model{
		Names:     []string{env.FeatureTempOut},
		Weights:   []float64{3},
		Intercept: 0,
	})
	writeArtifact(t, dir, env.QuantityTemp+ScalerSuffix, Scaler{
		Mean:  []float64{10},
		Scale: []float64{2},
	})

	p, err := Load(Config{ModelDir: dir, Quantities: []string{env.QuantityTemp}}, nil)
	require.NoError(t, err)

	out, err := p.Predict(context.Background(), env.QuantityTemp, testWindow())
	require.NoError(t, err)
	// ((temp_out - 10) / 2) * 3
	assert.Equal(t, []float64{0, 1.5, 3, 4.5}, out)
}

func TestPredictMissingFeatureColumn(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, env.QuantityTemp+ModelSuffix, Model{
		Names:     []string{"soil moisture"},
		Weights:   []float64{1},
		Intercept: 0,
	})
	writeArtifact(t, dir, env.QuantityTemp+ScalerSuffix, Scaler{
		Mean:  []float64{0},
		Scale: []float64{1},
	})

	p, err := Load(Config{ModelDir: dir, Quantities: []string{env.QuantityTemp}}, nil)
	require.NoError(t, err)

	_, err = p.Predict(context.Background(), env.QuantityTemp, testWindow())
	var failure *env.AdapterFailureError
	require.ErrorAs(t, err, &failure)
	assert.Contains(t, failure.Reason, "missing feature column")
}

func TestPredictUnknownQuantity(t *testing.T) {
	dir := t.TempDir()
	writeTempModel(t, dir)
	p, err := Load(Config{ModelDir: dir, Quantities: []string{env.QuantityTemp}}, nil)
	require.NoError(t, err)

	_, err = p.Predict(context.Background(), env.QuantityCO2, testWindow())
	var failure *env.AdapterFailureError
	assert.ErrorAs(t, err, &failure)
}

func TestLoadFailsOnMissingArtifact(t *testing.T) {
	_, err := Load(Config{ModelDir: t.TempDir(), Quantities: []string{env.QuantityTemp}}, nil)
	var failure *env.AdapterFailureError
	assert.ErrorAs(t, err, &failure)
}

func TestLoadFailsOnMismatchedScaler(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, env.QuantityTemp+ModelSuffix, Model{
		Names:     []string{env.FeatureTempOut, env.FeatureHeater},
		Weights:   []float64{1, 1},
		Intercept: 0,
	})
	writeArtifact(t, dir, env.QuantityTemp+ScalerSuffix, Scaler{
		Mean:  []float64{0},
		Scale: []float64{1},
	})

	_, err := Load(Config{ModelDir: dir, Quantities: []string{env.QuantityTemp}}, nil)
	var failure *env.AdapterFailureError
	assert.ErrorAs(t, err, &failure)
}

func TestLoadValidatesConfig(t *testing.T) {
	_, err := Load(Config{}, nil)
	var confErr *env.ConfigurationError
	assert.ErrorAs(t, err, &confErr)
}
