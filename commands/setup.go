package commands

import (
	"context"
	"path"

	"go.uber.org/zap"

	"github.com/greenlab/greenhouse-rl/dataset"
	"github.com/greenlab/greenhouse-rl/env"
	"github.com/greenlab/greenhouse-rl/predictor"
	"github.com/greenlab/greenhouse-rl/report"
	"github.com/greenlab/greenhouse-rl/simulator"
	"github.com/greenlab/greenhouse-rl/telemetry"
)

// buildEnvironment wires every configured collaborator into an episode
// controller. The returned teardown closes whatever was opened, in reverse
// order, and is safe to call after a partial failure.
func buildEnvironment(ctx context.Context) (*env.CalibratorEnv, func(), error) {
	closers := make([]func(), 0)
	teardown := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	sim, err := simulator.New(cfg.Simulator, logger.Named("simulator"))
	if err != nil {
		return nil, teardown, err
	}

	cursor, err := dataset.Open(ctx, cfg.Dataset)
	if err != nil {
		return nil, teardown, err
	}
	closers = append(closers, func() { cursor.Close() })

	deps := env.Dependencies{
		Simulator: sim,
		Cursor:    cursor,
		Logger:    logger.Named("env"),
	}

	if cfg.Predictor.ModelDir != "" {
		pred, err := predictor.Load(cfg.Predictor, logger.Named("predictor"))
		if err != nil {
			return nil, teardown, err
		}
		deps.Predictor = pred
	} else {
		logger.Info("no predictor model dir configured, running without cross-validation")
	}

	if cfg.Env.Online {
		publisher, err := telemetry.NewPublisher(cfg.Telemetry, logger.Named("telemetry"))
		if err != nil {
			return nil, teardown, err
		}
		closers = append(closers, func() { publisher.Close() })
		deps.Publisher = publisher

		if cfg.Telemetry.ListenAddr != "" {
			outdoor := telemetry.NewOutdoorServer(cfg.Telemetry.ListenAddr, logger.Named("outdoor"))
			if err := outdoor.Start(); err != nil {
				return nil, teardown, err
			}
			closers = append(closers, func() { outdoor.Stop() })
			deps.Outdoor = outdoor
		}
	}

	reportDir := cfg.Report.Dir
	if reportDir == "" {
		reportDir = path.Join(saveDir, "report")
	}
	exporter, err := report.NewExporter(report.Config{Dir: reportDir}, logger.Named("report"))
	if err != nil {
		return nil, teardown, err
	}
	deps.Reporter = exporter

	environment, err := env.New(cfg.Env, deps)
	if err != nil {
		return nil, teardown, err
	}
	logger.Info("environment wired",
		zap.String("action_source", string(cfg.Env.ActionSource)),
		zap.Int("max_steps", cfg.Env.MaxSteps),
		zap.Bool("online", cfg.Env.Online),
	)
	return environment, teardown, nil
}

func episodeHorizon() int {
	if horizon > 0 {
		return horizon
	}
	return cfg.Env.MaxSteps
}
