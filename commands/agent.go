package commands

import (
	"os"
	"path"

	"github.com/spf13/cobra"

	"github.com/greenlab/greenhouse-rl/env"
	"github.com/greenlab/greenhouse-rl/report"
	"github.com/greenlab/greenhouse-rl/rl"
)

// Agent runs policy-driven episodes and compares a random exploration
// policy against an all-on baseline on total reward.
func Agent(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg.Env.ActionSource = env.ActionSourceAgent
	if err := os.MkdirAll(saveDir, os.ModePerm); err != nil {
		return err
	}

	c := rl.NewComparison(
		rl.TotalRewardAnalyzer(),
		report.TotalRewardPlotter(path.Join(saveDir, "total_reward.png")),
	)
	for _, experiment := range []struct {
		name   string
		policy rl.Policy
	}{
		{"Random", rl.NewRandomPolicy(3)},
		{"AllOn", rl.NewConstantPolicy(rl.Action{1, 1, 1})},
	} {
		environment, teardown, err := buildEnvironment(ctx)
		defer teardown()
		if err != nil {
			return err
		}
		c.AddExperiment(rl.NewExperiment(experiment.name, &rl.AgentConfig{
			Episodes:    episodes,
			Horizon:     episodeHorizon(),
			Policy:      experiment.policy,
			Environment: environment,
			Logger:      logger.Named(experiment.name),
		}))
	}
	return c.Run(ctx)
}

func AgentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "agent",
		Short: "Run policy-driven episodes and compare total reward",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Agent(cmd)
		},
	}
}
