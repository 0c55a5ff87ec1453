package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenlab/greenhouse-rl/rl"
)

func TestEpochTimestamps(t *testing.T) {
	assert.Equal(t, [SubSteps]float64{300, 600, 900, 1200}, EpochTimestamps())
}

func TestBuildAgentControlsThresholds(t *testing.T) {
	cv, err := BuildAgentControls(rl.Action{0.4, 0.6, 1.0})
	require.NoError(t, err)
	for i := 0; i < SubSteps; i++ {
		assert.Equal(t, 0.0, cv.Ventilation[i])
		assert.Equal(t, 1.0, cv.Toplights[i])
		assert.Equal(t, 1.0, cv.Heater[i])
	}
	assert.Equal(t, [SubSteps]float64{300, 600, 900, 1200}, cv.Time)
}

func TestBuildAgentControlsBoundary(t *testing.T) {
	cv, err := BuildAgentControls(rl.Action{0.5, 0.49999, 0})
	require.NoError(t, err)
	assert.Equal(t, 1.0, cv.Ventilation[0])
	assert.Equal(t, 0.0, cv.Toplights[0])
	assert.Equal(t, 0.0, cv.Heater[0])
}

func TestBuildAgentControlsInvalid(t *testing.T) {
	cases := []rl.Action{
		nil,
		{0.1, 0.2},
		{0.1, 0.2, 0.3, 0.4},
		{-0.1, 0.2, 0.3},
		{0.1, 1.2, 0.3},
	}
	for _, action := range cases {
		_, err := BuildAgentControls(action)
		var invalid *InvalidActionError
		assert.ErrorAs(t, err, &invalid)
	}
}

func TestBuildRecordedControls(t *testing.T) {
	rows := []Record{
		{Ventilation: 0.25, Toplights: 1, Heater: 0},
		{Ventilation: 0.25, Toplights: 1, Heater: 0},
		{Ventilation: 0.5, Toplights: 0, Heater: 1},
		{Ventilation: 0.5, Toplights: 0, Heater: 1},
	}
	cv, err := BuildRecordedControls(rows)
	require.NoError(t, err)
	assert.Equal(t, [SubSteps]float64{0.25, 0.25, 0.5, 0.5}, cv.Ventilation)
	assert.Equal(t, [SubSteps]float64{1, 1, 0, 0}, cv.Toplights)
	assert.Equal(t, [SubSteps]float64{0, 0, 1, 1}, cv.Heater)

	_, err = BuildRecordedControls(rows[:2])
	assert.Error(t, err)
}

func TestFirstReturnsEpochControls(t *testing.T) {
	cv, err := BuildAgentControls(rl.Action{1, 0, 1})
	require.NoError(t, err)
	ventilation, toplights, heater := cv.First()
	assert.Equal(t, 1.0, ventilation)
	assert.Equal(t, 0.0, toplights)
	assert.Equal(t, 1.0, heater)
}
