package env

import (
	"fmt"

	"github.com/greenlab/greenhouse-rl/rl"
)

// SubSteps is the number of sub-steps within one epoch.
const SubSteps = 4

// The simulator expects sub-step timestamps from 5 to 20 minutes into the
// epoch. This spacing is a design constant of the exchange contract, not
// derived from configuration.
const (
	epochStartSeconds = 300.0
	epochEndSeconds   = 1200.0
)

// EpochTimestamps returns the four sub-step timestamps in seconds:
// [300, 600, 900, 1200].
func EpochTimestamps() [SubSteps]float64 {
	var ts [SubSteps]float64
	step := (epochEndSeconds - epochStartSeconds) / float64(SubSteps-1)
	for i := range ts {
		ts[i] = epochStartSeconds + float64(i)*step
	}
	return ts
}

// ControlVector holds one epoch of control signals: four timestamps and four
// repeated values for each actuator, all in [0,1]. Immutable once built.
type ControlVector struct {
	Time        [SubSteps]float64 `json:"time"`
	Ventilation [SubSteps]float64 `json:"ventilation"`
	Toplights   [SubSteps]float64 `json:"toplights"`
	Heater      [SubSteps]float64 `json:"heater"`
}

// First returns the first sub-step value of each actuator. All four values
// are identical by construction, so the first stands for the epoch.
func (c *ControlVector) First() (ventilation, toplights, heater float64) {
	return c.Ventilation[0], c.Toplights[0], c.Heater[0]
}

// ZeroControls is the all-off control vector used for the seeding run.
func ZeroControls() *ControlVector {
	return &ControlVector{Time: EpochTimestamps()}
}

// BuildAgentControls expands a 3-vector agent action into a control vector.
// Each component is thresholded at 0.5 to a binary decision and broadcast
// across all sub-steps.
func BuildAgentControls(action rl.Action) (*ControlVector, error) {
	if action == nil {
		return nil, &InvalidActionError{Reason: "nil action in agent mode"}
	}
	if len(action) != 3 {
		return nil, &InvalidActionError{Reason: fmt.Sprintf("want 3 components, got %d", len(action))}
	}
	for i, v := range action {
		if v < 0 || v > 1 {
			return nil, &InvalidActionError{Reason: fmt.Sprintf("component %d = %v outside [0,1]", i, v)}
		}
	}
	cv := &ControlVector{Time: EpochTimestamps()}
	for i := 0; i < SubSteps; i++ {
		cv.Ventilation[i] = threshold(action[0])
		cv.Toplights[i] = threshold(action[1])
		cv.Heater[i] = threshold(action[2])
	}
	return cv, nil
}

func threshold(v float64) float64 {
	if v >= 0.5 {
		return 1
	}
	return 0
}

// BuildRecordedControls takes one epoch of recorded dataset rows and copies
// their control values into a control vector.
func BuildRecordedControls(rows []Record) (*ControlVector, error) {
	if len(rows) != SubSteps {
		return nil, fmt.Errorf("recorded controls need %d rows, got %d", SubSteps, len(rows))
	}
	cv := &ControlVector{Time: EpochTimestamps()}
	for i, row := range rows {
		cv.Ventilation[i] = row.Ventilation
		cv.Toplights[i] = row.Toplights
		cv.Heater[i] = row.Heater
	}
	return cv, nil
}
