package env

import "fmt"

// Source tags the provenance of a history series.
type Source string

const (
	// SourceAuthoritative is the physics-simulator trajectory, the sole
	// source for observation and reward.
	SourceAuthoritative Source = "authoritative"
	// SourcePredicted is the statistical predictor output, diagnostic only.
	SourcePredicted Source = "predicted"
	// SourceActual is the externally measured trajectory, diagnostic only.
	SourceActual Source = "actual"
)

// Quantity names, matching the simulator exchange schema.
const (
	QuantityTime         = "time"
	QuantityCO2          = "co2_in"
	QuantityTemp         = "temp_in"
	QuantityRH           = "rh_in"
	QuantityPAR          = "par_in"
	QuantityFruitLeaf    = "fruit_leaf"
	QuantityFruitStem    = "fruit_stem"
	QuantityFruitDW      = "fruit_dw"
	QuantityFruitCBuf    = "fruit_cbuf"
	QuantityFruitTCanSum = "fruit_tcansum"
)

// ObservationQuantities is the fixed order of the 9-element observation.
var ObservationQuantities = []string{
	QuantityCO2,
	QuantityTemp,
	QuantityRH,
	QuantityPAR,
	QuantityFruitLeaf,
	QuantityFruitStem,
	QuantityFruitDW,
	QuantityFruitCBuf,
	QuantityFruitTCanSum,
}

// ClimateQuantities are the four interior climate variables shared by all
// three sources.
var ClimateQuantities = []string{
	QuantityPAR,
	QuantityTemp,
	QuantityRH,
	QuantityCO2,
}

// HistoryBuffers holds one append-only series per (source, quantity) pair.
// Series never shrink or reorder and grow by exactly SubSteps per epoch.
type HistoryBuffers struct {
	series map[Source]map[string][]float64
}

func NewHistoryBuffers() *HistoryBuffers {
	return &HistoryBuffers{
		series: make(map[Source]map[string][]float64),
	}
}

// AppendEpoch appends one epoch of sub-step values for every quantity in the
// batch. Every series of the batch must hold exactly SubSteps values, and
// all series under the source must have equal length afterwards. A rejected
// batch leaves the buffers untouched.
func (h *HistoryBuffers) AppendEpoch(source Source, batch map[string][]float64) error {
	for quantity, values := range batch {
		if len(values) != SubSteps {
			return fmt.Errorf("batch for %s/%s has %d values, want %d", source, quantity, len(values), SubSteps)
		}
	}
	bySource, ok := h.series[source]
	if !ok {
		bySource = make(map[string][]float64)
		h.series[source] = bySource
	}
	// equal growth per source is enforced here, in one place, before any
	// series is mutated: once the source holds data, a batch must cover
	// exactly the quantities already held
	if len(bySource) > 0 {
		length := h.Len(source)
		for quantity := range bySource {
			if _, ok := batch[quantity]; !ok {
				return &LengthMismatchError{
					Left:     string(source) + "/" + quantity,
					Right:    string(source),
					LeftLen:  length,
					RightLen: length + SubSteps,
				}
			}
		}
		for quantity := range batch {
			if _, ok := bySource[quantity]; !ok {
				return &LengthMismatchError{
					Left:     string(source) + "/" + quantity,
					Right:    string(source),
					LeftLen:  SubSteps,
					RightLen: length + SubSteps,
				}
			}
		}
	}
	for quantity, values := range batch {
		bySource[quantity] = append(bySource[quantity], values...)
	}
	return nil
}

// Len returns the common series length of a source, 0 when the source has no
// data yet.
func (h *HistoryBuffers) Len(source Source) int {
	bySource, ok := h.series[source]
	if !ok {
		return 0
	}
	for _, values := range bySource {
		return len(values)
	}
	return 0
}

// Series returns a copy of the full series for a (source, quantity) pair.
func (h *HistoryBuffers) Series(source Source, quantity string) []float64 {
	bySource, ok := h.series[source]
	if !ok {
		return nil
	}
	values, ok := bySource[quantity]
	if !ok {
		return nil
	}
	out := make([]float64, len(values))
	copy(out, values)
	return out
}

// Latest returns the most recent value of a (source, quantity) pair.
func (h *HistoryBuffers) Latest(source Source, quantity string) (float64, error) {
	values, err := h.LastN(source, quantity, 1)
	if err != nil {
		return 0, err
	}
	return values[0], nil
}

// LastN returns a copy of the n most recent sub-step values.
func (h *HistoryBuffers) LastN(source Source, quantity string, n int) ([]float64, error) {
	bySource, ok := h.series[source]
	if !ok {
		return nil, fmt.Errorf("no history for source %s", source)
	}
	values, ok := bySource[quantity]
	if !ok {
		return nil, fmt.Errorf("no history for %s/%s", source, quantity)
	}
	if len(values) < n {
		return nil, fmt.Errorf("history for %s/%s holds %d samples, want %d", source, quantity, len(values), n)
	}
	out := make([]float64, n)
	copy(out, values[len(values)-n:])
	return out, nil
}

// Aligned returns the full series of a quantity for two sources, failing
// with a LengthMismatchError when the sources diverge in length. A mismatch
// is a reportable error, never an assumption to suppress.
func (h *HistoryBuffers) Aligned(a, b Source, quantity string) ([]float64, []float64, error) {
	left := h.Series(a, quantity)
	right := h.Series(b, quantity)
	if len(left) == 0 || len(right) == 0 || len(left) != len(right) {
		return nil, nil, &LengthMismatchError{
			Left:     string(a) + "/" + quantity,
			Right:    string(b) + "/" + quantity,
			LeftLen:  len(left),
			RightLen: len(right),
		}
	}
	return left, right, nil
}
