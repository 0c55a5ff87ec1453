package env

import (
	"context"
	"fmt"
	"math"
)

// Record is one historical dataset row: exterior weather, measured interior
// climate, and the recorded control signals.
type Record struct {
	Time        float64
	GlobalOut   float64
	TempOut     float64
	RHOut       float64
	CO2Out      float64
	GlobalIn    float64
	TempIn      float64
	RHIn        float64
	CO2In       float64
	Ventilation float64
	Toplights   float64
	Heater      float64
}

// Trajectory is the refined interior-state sequence produced by the physics
// simulator, keyed by the exchange quantity names.
type Trajectory struct {
	Time         []float64 `json:"time"`
	CO2In        []float64 `json:"co2_in"`
	TempIn       []float64 `json:"temp_in"`
	RHIn         []float64 `json:"rh_in"`
	PARIn        []float64 `json:"par_in"`
	FruitLeaf    []float64 `json:"fruit_leaf"`
	FruitStem    []float64 `json:"fruit_stem"`
	FruitDW      []float64 `json:"fruit_dw"`
	FruitCBuf    []float64 `json:"fruit_cbuf"`
	FruitTCanSum []float64 `json:"fruit_tcansum"`
}

func (t *Trajectory) fields() map[string][]float64 {
	return map[string][]float64{
		QuantityTime:         t.Time,
		QuantityCO2:          t.CO2In,
		QuantityTemp:         t.TempIn,
		QuantityRH:           t.RHIn,
		QuantityPAR:          t.PARIn,
		QuantityFruitLeaf:    t.FruitLeaf,
		QuantityFruitStem:    t.FruitStem,
		QuantityFruitDW:      t.FruitDW,
		QuantityFruitCBuf:    t.FruitCBuf,
		QuantityFruitTCanSum: t.FruitTCanSum,
	}
}

// Validate checks that every quantity is present, of equal length, at least
// one epoch long, and finite throughout.
func (t *Trajectory) Validate() error {
	length := -1
	for quantity, values := range t.fields() {
		if length == -1 {
			length = len(values)
		}
		if len(values) != length {
			return fmt.Errorf("trajectory quantity %s has %d samples, others have %d", quantity, len(values), length)
		}
		for i, v := range values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("trajectory quantity %s sample %d is not finite", quantity, i)
			}
		}
	}
	if length < SubSteps {
		return fmt.Errorf("trajectory holds %d samples, want at least %d", length, SubSteps)
	}
	return nil
}

// LastEpoch returns the most recent SubSteps values of every quantity, the
// batch appended to the authoritative buffers after each simulator run.
func (t *Trajectory) LastEpoch() map[string][]float64 {
	batch := make(map[string][]float64, 10)
	for quantity, values := range t.fields() {
		tail := make([]float64, SubSteps)
		copy(tail, values[len(values)-SubSteps:])
		batch[quantity] = tail
	}
	return batch
}

// IndoorState is the prior interior state handed to the simulator, with
// humidity converted to vapor pressure [Pa] and CO2 to density [mg m^-3].
type IndoorState struct {
	Time          []float64 `json:"time"`
	TempIn        []float64 `json:"temp_in"`
	VaporPressure []float64 `json:"rh_in"`
	CO2Density    []float64 `json:"co2_in"`
}

// CropState is the prior crop-growth state handed to the simulator.
type CropState struct {
	Time         float64 `json:"time"`
	FruitLeaf    float64 `json:"fruit_leaf"`
	FruitStem    float64 `json:"fruit_stem"`
	FruitDW      float64 `json:"fruit_dw"`
	FruitCBuf    float64 `json:"fruit_cbuf"`
	FruitTCanSum float64 `json:"fruit_tcansum"`
}

// OutdoorState carries live exterior measurements in online mode.
type OutdoorState struct {
	Time      []float64 `json:"time"`
	GlobalOut []float64 `json:"global_out"`
	TempOut   []float64 `json:"temp_out"`
	RHOut     []float64 `json:"rh_out"`
	CO2Out    []float64 `json:"co2_out"`
}

// SimulationRequest is the exchange payload for one simulator invocation.
// Indoor, Crop and Outdoor are optional; the seeding run omits them.
type SimulationRequest struct {
	SeasonLength float64        `json:"season_length"`
	FirstDay     float64        `json:"first_day"`
	Controls     *ControlVector `json:"controls"`
	Indoor       *IndoorState   `json:"indoor,omitempty"`
	Crop         *CropState     `json:"crop,omitempty"`
	Outdoor      *OutdoorState  `json:"outdoor,omitempty"`
}

// Feature column names of the predictor contract.
const (
	FeatureTime        = "time"
	FeatureGlobalOut   = "global out"
	FeatureTempOut     = "temp out"
	FeatureRHOut       = "rh out"
	FeatureCO2Out      = "co2 out"
	FeatureVentilation = "ventilation"
	FeatureToplights   = "toplights"
	FeatureHeater      = "heater"
)

// FeatureWindow is one epoch of predictor inputs: exterior weather plus the
// control vector, one value per sub-step.
type FeatureWindow struct {
	Time        []float64
	GlobalOut   []float64
	TempOut     []float64
	RHOut       []float64
	CO2Out      []float64
	Ventilation []float64
	Toplights   []float64
	Heater      []float64
}

// NewFeatureWindow assembles a window from the dataset rows of the epoch and
// the control vector in effect.
func NewFeatureWindow(rows []Record, controls *ControlVector) *FeatureWindow {
	w := &FeatureWindow{}
	for _, row := range rows {
		w.Time = append(w.Time, row.Time)
		w.GlobalOut = append(w.GlobalOut, row.GlobalOut)
		w.TempOut = append(w.TempOut, row.TempOut)
		w.RHOut = append(w.RHOut, row.RHOut)
		w.CO2Out = append(w.CO2Out, row.CO2Out)
	}
	w.Ventilation = append(w.Ventilation, controls.Ventilation[:]...)
	w.Toplights = append(w.Toplights, controls.Toplights[:]...)
	w.Heater = append(w.Heater, controls.Heater[:]...)
	return w
}

// Column returns the feature column by name.
func (w *FeatureWindow) Column(name string) ([]float64, bool) {
	switch name {
	case FeatureTime:
		return w.Time, true
	case FeatureGlobalOut:
		return w.GlobalOut, true
	case FeatureTempOut:
		return w.TempOut, true
	case FeatureRHOut:
		return w.RHOut, true
	case FeatureCO2Out:
		return w.CO2Out, true
	case FeatureVentilation:
		return w.Ventilation, true
	case FeatureToplights:
		return w.Toplights, true
	case FeatureHeater:
		return w.Heater, true
	}
	return nil, false
}

// Len is the number of sub-steps in the window.
func (w *FeatureWindow) Len() int {
	return len(w.Time)
}

// Simulator is the physics-simulator exchange contract. Run blocks until
// the simulator returns, fails, or times out.
type Simulator interface {
	Run(ctx context.Context, req *SimulationRequest) (*Trajectory, error)
	Cleanup() error
}

// Predictor is the statistical-predictor contract: one climate quantity
// estimated per sub-step from a feature window.
type Predictor interface {
	Predict(ctx context.Context, quantity string, window *FeatureWindow) ([]float64, error)
}

// Cursor is sequential read access over the historical dataset. NextEpoch
// advances by exactly SubSteps rows; exhaustion is an error, never silent
// truncation.
type Cursor interface {
	NextEpoch(ctx context.Context) ([]Record, error)
	Skip(ctx context.Context, rows int) error
}

// Publisher pushes the control vector of each epoch to the device channel.
type Publisher interface {
	PublishControls(ctx context.Context, controls *ControlVector) error
}

// OutdoorSource supplies the latest live exterior measurements.
type OutdoorSource interface {
	LatestOutdoor() (*OutdoorState, bool)
}

// Reporter receives the full accumulated history at episode termination.
type Reporter interface {
	Export(ctx context.Context, history *EpisodeHistory) error
}

// EpisodeHistory is everything accumulated over an episode, handed to the
// reporter when the episode terminates.
type EpisodeHistory struct {
	Buffers     *HistoryBuffers
	Rewards     []float64
	Ventilation []float64
	Toplights   []float64
	Heater      []float64
}
