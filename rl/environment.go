package rl

import "context"

// Observation is a fixed-length numeric state vector.
type Observation []float64

// Action is a fixed-length numeric control vector in [0,1]^n. A nil action
// is only legal for environments driven by a recorded dataset.
type Action []float64

// StepResult bundles everything an environment returns from a single step.
type StepResult struct {
	Observation Observation
	Reward      float64
	Terminated  bool
	Truncated   bool
	Info        map[string]interface{}
}

// Environment is the gym-style episode contract. Reset must be callable
// before the first Step. Step is blocking and must run to completion before
// another Step or Reset is issued.
type Environment interface {
	Reset(ctx context.Context) (Observation, map[string]interface{}, error)
	Step(ctx context.Context, action Action) (*StepResult, error)
}
