// Package commands wires the configuration, logging and collaborators into
// the runnable subcommands of the controller.
package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/greenlab/greenhouse-rl/config"
	"github.com/greenlab/greenhouse-rl/logging"
)

var (
	configPath string
	episodes   int
	horizon    int
	saveDir    string

	cfg    config.Config
	logger *zap.Logger
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           "greenhouse-rl",
		Short:         "Greenhouse climate episode controller",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
			logger = logging.New(cfg.Logging)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				logger.Sync()
			}
		},
	}
	rootCommand.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the configuration file")
	rootCommand.PersistentFlags().IntVarP(&episodes, "episodes", "e", 1, "Number of episodes to run")
	rootCommand.PersistentFlags().IntVar(&horizon, "horizon", 0, "Horizon of each episode, 0 uses the configured max steps")
	rootCommand.PersistentFlags().StringVarP(&saveDir, "save", "s", "results", "Save the result data in the specified folder")
	rootCommand.AddCommand(RunCommand())
	rootCommand.AddCommand(AgentCommand())
	rootCommand.AddCommand(ImportCommand())
	return rootCommand
}
