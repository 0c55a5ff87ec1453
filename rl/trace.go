package rl

// Trace of a single episode: one entry per step.
type Trace struct {
	observations []Observation
	actions      []Action
	rewards      []float64
	nextObs      []Observation
}

func NewTrace() *Trace {
	return &Trace{
		observations: make([]Observation, 0),
		actions:      make([]Action, 0),
		rewards:      make([]float64, 0),
		nextObs:      make([]Observation, 0),
	}
}

func (t *Trace) Append(obs Observation, action Action, reward float64, next Observation) {
	t.observations = append(t.observations, obs)
	t.actions = append(t.actions, action)
	t.rewards = append(t.rewards, reward)
	t.nextObs = append(t.nextObs, next)
}

func (t *Trace) Len() int {
	return len(t.observations)
}

func (t *Trace) Get(i int) (Observation, Action, float64, Observation, bool) {
	if i >= len(t.observations) {
		return nil, nil, 0, nil, false
	}
	return t.observations[i], t.actions[i], t.rewards[i], t.nextObs[i], true
}

// TotalReward of the episode.
func (t *Trace) TotalReward() float64 {
	total := 0.0
	for _, r := range t.rewards {
		total += r
	}
	return total
}

// Rewards returns a copy of the per-step rewards.
func (t *Trace) Rewards() []float64 {
	out := make([]float64, len(t.rewards))
	copy(out, t.rewards)
	return out
}
