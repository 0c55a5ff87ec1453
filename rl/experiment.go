package rl

import (
	"context"

	"go.uber.org/zap"
)

// Experiment runs an agent configuration under a name and keeps the traces
// for later analysis.
type Experiment struct {
	config *AgentConfig
	name   string
	logger *zap.Logger
	Result []*Trace
}

func NewExperiment(name string, config *AgentConfig) *Experiment {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Experiment{
		config: config,
		name:   name,
		logger: logger,
		Result: make([]*Trace, 0),
	}
}

func (e *Experiment) Name() string {
	return e.name
}

func (e *Experiment) Run(ctx context.Context) error {
	e.logger.Info("running experiment", zap.String("name", e.name), zap.Int("episodes", e.config.Episodes))
	agent := NewAgent(e.config)
	if err := agent.Run(ctx); err != nil {
		return err
	}
	e.Result = agent.Traces()
	return nil
}

// DataSet is the output of an Analyzer over the traces of an experiment.
type DataSet interface{}

type Analyzer func([]*Trace) DataSet

type Comparator func([]string, []DataSet)

// Comparison runs several experiments and hands their analyzed results to a
// comparator.
type Comparison struct {
	Experiments []*Experiment
	analyzer    Analyzer
	comparator  Comparator
}

func NewComparison(analyzer Analyzer, comparator Comparator) *Comparison {
	return &Comparison{
		Experiments: make([]*Experiment, 0),
		analyzer:    analyzer,
		comparator:  comparator,
	}
}

func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

func (c *Comparison) Run(ctx context.Context) error {
	datasets := make([]DataSet, len(c.Experiments))
	names := make([]string, len(c.Experiments))
	for i, e := range c.Experiments {
		if err := e.Run(ctx); err != nil {
			return err
		}
		datasets[i] = c.analyzer(e.Result)
		names[i] = e.name
	}
	c.comparator(names, datasets)
	return nil
}

// TotalRewardAnalyzer returns the total reward of each episode in order.
func TotalRewardAnalyzer() Analyzer {
	return func(traces []*Trace) DataSet {
		totals := make([]float64, len(traces))
		for i, t := range traces {
			totals[i] = t.TotalReward()
		}
		return totals
	}
}
