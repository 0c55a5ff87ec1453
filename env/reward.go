package env

// RewardWeights parameterize the shaped reward: one growth weight and one
// energy-cost weight per actuator.
type RewardWeights struct {
	FruitGrowth float64 `mapstructure:"fruit_growth"`
	Ventilation float64 `mapstructure:"ventilation"`
	Toplights   float64 `mapstructure:"toplights"`
	Heater      float64 `mapstructure:"heater"`
}

// DefaultRewardWeights returns the calibrated coefficient setting.
func DefaultRewardWeights() RewardWeights {
	return RewardWeights{
		FruitGrowth: 1,
		Ventilation: 0.005,
		Toplights:   0.015,
		Heater:      0.001,
	}
}

// RewardEngine computes the shaped reward from the authoritative trajectory
// and the control vector of the epoch. Stateless given the buffers.
type RewardEngine struct {
	weights RewardWeights
}

func NewRewardEngine(weights RewardWeights) *RewardEngine {
	return &RewardEngine{weights: weights}
}

// Reward for epoch k:
//
//	r_k = w1*Δdw - (a1*ventilation + a2*toplights + a3*heater)
//
// where Δdw is the fruit dry weight delta over the two most recent
// authoritative sub-step samples and the control terms are the first of the
// four repeated sub-step values. Epoch 0 has no prior sample to difference
// against and is 0.0 by convention.
func (e *RewardEngine) Reward(epoch int, buffers *HistoryBuffers, controls *ControlVector) (float64, error) {
	if epoch == 0 {
		return 0.0, nil
	}
	dw, err := buffers.LastN(SourceAuthoritative, QuantityFruitDW, 2)
	if err != nil {
		return 0, err
	}
	deltaDW := dw[1] - dw[0]
	ventilation, toplights, heater := controls.First()
	cost := e.weights.Ventilation*ventilation + e.weights.Toplights*toplights + e.weights.Heater*heater
	return e.weights.FruitGrowth*deltaDW - cost, nil
}
