package rl

import (
	"time"

	"golang.org/x/exp/rand"
)

// Policy decides the next control action from the current observation.
type Policy interface {
	NextAction(step int, obs Observation) Action
	Update(step int, obs Observation, action Action, result *StepResult)
}

// RandomPolicy samples each control channel uniformly in [0,1].
type RandomPolicy struct {
	dims int
	rand *rand.Rand
}

var _ Policy = &RandomPolicy{}

func NewRandomPolicy(dims int) *RandomPolicy {
	return &RandomPolicy{
		dims: dims,
		rand: rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}
}

func NewRandomPolicyWithSeed(dims int, seed uint64) *RandomPolicy {
	return &RandomPolicy{
		dims: dims,
		rand: rand.New(rand.NewSource(seed)),
	}
}

func (p *RandomPolicy) NextAction(step int, obs Observation) Action {
	action := make(Action, p.dims)
	for i := range action {
		action[i] = p.rand.Float64()
	}
	return action
}

func (p *RandomPolicy) Update(step int, obs Observation, action Action, result *StepResult) {
}

// ConstantPolicy always returns the same action. Useful as a baseline and
// for exercising a fixed control schedule.
type ConstantPolicy struct {
	action Action
}

var _ Policy = &ConstantPolicy{}

func NewConstantPolicy(action Action) *ConstantPolicy {
	return &ConstantPolicy{action: action}
}

func (p *ConstantPolicy) NextAction(step int, obs Observation) Action {
	out := make(Action, len(p.action))
	copy(out, p.action)
	return out
}

func (p *ConstantPolicy) Update(step int, obs Observation, action Action, result *StepResult) {
}
