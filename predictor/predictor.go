// Package predictor wraps the trained statistical models that estimate the
// interior climate from exterior weather and the control signals. Output is
// diagnostic only; it is never substituted into the authoritative
// trajectory.
package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/greenlab/greenhouse-rl/env"
)

// Artifact file suffixes: one model and one paired feature scaler per
// target quantity.
const (
	ModelSuffix  = "_model.json"
	ScalerSuffix = "_scaler.json"
)

// Model is a persisted regression artifact: an ordered feature list, one
// weight per feature, and an intercept.
type Model struct {
	Names     []string  `json:"features"`
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

// Scaler is the paired feature standardization artifact.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

type loaded struct {
	model  Model
	scaler Scaler
}

// Config of the predictor adapter.
type Config struct {
	// ModelDir holds <quantity>_model.json and <quantity>_scaler.json per
	// target quantity.
	ModelDir string `mapstructure:"model_dir"`
	// Quantities to load; defaults to the four climate quantities.
	Quantities []string `mapstructure:"quantities"`
}

func (c *Config) Validate() error {
	if c.ModelDir == "" {
		return &env.ConfigurationError{Field: "predictor.model_dir", Reason: "required"}
	}
	return nil
}

// Predictor holds the models, loaded once per target quantity.
type Predictor struct {
	models map[string]loaded
	logger *zap.Logger
}

var _ env.Predictor = &Predictor{}

// Load reads every model/scaler pair up front so a missing or corrupt
// artifact fails at startup rather than mid-episode.
func Load(cfg Config, logger *zap.Logger) (*Predictor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	quantities := cfg.Quantities
	if len(quantities) == 0 {
		quantities = env.ClimateQuantities
	}
	p := &Predictor{
		models: make(map[string]loaded, len(quantities)),
		logger: logger,
	}
	for _, quantity := range quantities {
		model := Model{}
		if err := readArtifact(path.Join(cfg.ModelDir, quantity+ModelSuffix), &model); err != nil {
			return nil, err
		}
		scaler := Scaler{}
		if err := readArtifact(path.Join(cfg.ModelDir, quantity+ScalerSuffix), &scaler); err != nil {
			return nil, err
		}
		if len(model.Weights) != len(model.Names) {
			return nil, &env.AdapterFailureError{
				Adapter: "predictor",
				Reason:  fmt.Sprintf("model %s has %d weights for %d features", quantity, len(model.Weights), len(model.Names)),
			}
		}
		if len(scaler.Mean) != len(model.Names) || len(scaler.Scale) != len(model.Names) {
			return nil, &env.AdapterFailureError{
				Adapter: "predictor",
				Reason:  fmt.Sprintf("scaler %s does not match model feature count %d", quantity, len(model.Names)),
			}
		}
		p.models[quantity] = loaded{model: model, scaler: scaler}
		logger.Debug("predictor model loaded", zap.String("quantity", quantity), zap.Int("features", len(model.Names)))
	}
	return p, nil
}

func readArtifact(filePath string, out interface{}) error {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return &env.AdapterFailureError{Adapter: "predictor", Reason: "reading artifact " + filePath, Err: err}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &env.AdapterFailureError{Adapter: "predictor", Reason: "decoding artifact " + filePath, Err: err}
	}
	return nil
}

// Predict estimates one quantity for every sub-step of the feature window.
// A feature column the model needs but the window lacks is an explicit
// failure.
func (p *Predictor) Predict(ctx context.Context, quantity string, window *env.FeatureWindow) ([]float64, error) {
	entry, ok := p.models[quantity]
	if !ok {
		return nil, &env.AdapterFailureError{Adapter: "predictor", Reason: "no model for quantity " + quantity}
	}
	columns := make([][]float64, len(entry.model.Names))
	for i, name := range entry.model.Names {
		column, ok := window.Column(name)
		if !ok {
			return nil, &env.AdapterFailureError{Adapter: "predictor", Reason: "missing feature column " + name}
		}
		if len(column) != window.Len() {
			return nil, &env.AdapterFailureError{
				Adapter: "predictor",
				Reason:  fmt.Sprintf("feature column %s has %d values, window has %d", name, len(column), window.Len()),
			}
		}
		columns[i] = column
	}
	out := make([]float64, window.Len())
	row := make([]float64, len(entry.model.Names))
	for step := 0; step < window.Len(); step++ {
		for i := range columns {
			scale := entry.scaler.Scale[i]
			if scale == 0 {
				scale = 1
			}
			row[i] = (columns[i][step] - entry.scaler.Mean[i]) / scale
		}
		out[step] = floats.Dot(row, entry.model.Weights) + entry.model.Intercept
	}
	return out, nil
}
