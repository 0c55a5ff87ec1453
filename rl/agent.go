package rl

import (
	"context"

	"go.uber.org/zap"
)

type AgentConfig struct {
	Episodes    int
	Horizon     int
	Policy      Policy
	Environment Environment
	Logger      *zap.Logger
}

// Agent drives an environment with a policy for a number of episodes and
// collects the resulting traces.
type Agent struct {
	config      *AgentConfig
	traces      []*Trace
	policy      Policy
	environment Environment
	logger      *zap.Logger
}

func NewAgent(config *AgentConfig) *Agent {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Agent{
		config:      config,
		traces:      make([]*Trace, config.Episodes),
		policy:      config.Policy,
		environment: config.Environment,
		logger:      logger,
	}
}

// Run the agent for the configured number of episodes and horizon.
func (a *Agent) Run(ctx context.Context) error {
	for i := 0; i < a.config.Episodes; i++ {
		trace, err := a.runEpisode(ctx, i)
		if err != nil {
			return err
		}
		a.traces[i] = trace
	}
	return nil
}

// run a single episode and return the resulting trace
func (a *Agent) runEpisode(ctx context.Context, episode int) (*Trace, error) {
	obs, _, err := a.environment.Reset(ctx)
	if err != nil {
		return nil, err
	}
	trace := NewTrace()

	for i := 0; i < a.config.Horizon; i++ {
		action := a.policy.NextAction(i, obs)
		result, err := a.environment.Step(ctx, action)
		if err != nil {
			return nil, err
		}
		a.policy.Update(i, obs, action, result)
		trace.Append(obs, action, result.Reward, result.Observation)
		obs = result.Observation
		if result.Terminated || result.Truncated {
			break
		}
	}
	a.logger.Info("episode finished",
		zap.Int("episode", episode),
		zap.Int("steps", trace.Len()),
		zap.Float64("total_reward", trace.TotalReward()),
	)
	return trace, nil
}

// Traces of the completed run.
func (a *Agent) Traces() []*Trace {
	return a.traces
}
