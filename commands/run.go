package commands

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/greenlab/greenhouse-rl/env"
)

// Run replays the recorded dataset controls for the configured number of
// episodes. Each episode walks forward through the historical windows.
func Run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg.Env.ActionSource = env.ActionSourceDataset
	environment, teardown, err := buildEnvironment(ctx)
	defer teardown()
	if err != nil {
		return err
	}

	for episode := 0; episode < episodes; episode++ {
		if _, _, err := environment.Reset(ctx); err != nil {
			return err
		}
		total := 0.0
		for step := 0; step < episodeHorizon(); step++ {
			result, err := environment.Step(ctx, nil)
			if err != nil {
				var exhausted *env.DataExhaustedError
				if errors.As(err, &exhausted) {
					logger.Warn("dataset exhausted, stopping", zap.Int("episode", episode), zap.Error(err))
					return nil
				}
				return err
			}
			total += result.Reward
			if result.Terminated || result.Truncated {
				break
			}
		}
		logger.Info("replay episode finished",
			zap.Int("episode", episode),
			zap.Int("epochs", environment.Epoch()),
			zap.Float64("total_reward", total),
		)
	}
	return nil
}

func RunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Replay the recorded dataset controls through the simulator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd)
		},
	}
}
