// Package simulator wraps the external physics simulation run behind a
// narrow request/response contract. The controller never sees the exchange
// encoding: it hands over a SimulationRequest and gets a Trajectory back.
package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/greenlab/greenhouse-rl/env"
)

// Exchange file names inside the scratch directory. The simulator process
// reads the request and writes the trajectory.
const (
	RequestFile    = "request.json"
	TrajectoryFile = "trajectory.json"
)

const DefaultTimeout = 2 * time.Minute

// Config of the simulator adapter. Each concurrent episode needs its own
// ExchangeDir; the scratch state is process-local.
type Config struct {
	// Command is the external simulator executable.
	Command string `mapstructure:"command"`
	// Args are passed before the exchange directory, which is always the
	// last argument.
	Args []string `mapstructure:"args"`
	// ExchangeDir is the scratch directory for exchange files.
	ExchangeDir string `mapstructure:"exchange_dir"`
	// Timeout bounds a single simulator invocation.
	Timeout time.Duration `mapstructure:"timeout"`
}

func (c *Config) Validate() error {
	if c.Command == "" {
		return &env.ConfigurationError{Field: "simulator.command", Reason: "required"}
	}
	if c.ExchangeDir == "" {
		return &env.ConfigurationError{Field: "simulator.exchange_dir", Reason: "required"}
	}
	if c.Timeout <= 0 {
		return &env.ConfigurationError{Field: "simulator.timeout", Reason: "must be positive"}
	}
	return nil
}

// Adapter invokes the simulator as an out-of-process run with a bounded
// timeout. Deterministic given identical inputs and simulator state.
type Adapter struct {
	cfg    Config
	logger *zap.Logger
}

var _ env.Simulator = &Adapter{}

func New(cfg Config, logger *zap.Logger) (*Adapter, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{cfg: cfg, logger: logger}, nil
}

// Run writes the exchange request, blocks on the external process, and
// reads back the refined trajectory. Non-response within the timeout is an
// AdapterTimeoutError; a crash or malformed output is an
// AdapterFailureError.
func (a *Adapter) Run(ctx context.Context, req *env.SimulationRequest) (*env.Trajectory, error) {
	if err := os.MkdirAll(a.cfg.ExchangeDir, 0755); err != nil {
		return nil, &env.AdapterFailureError{Adapter: "simulator", Reason: "creating exchange dir", Err: err}
	}
	payload, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return nil, &env.AdapterFailureError{Adapter: "simulator", Reason: "encoding request", Err: err}
	}
	requestPath := path.Join(a.cfg.ExchangeDir, RequestFile)
	if err := os.WriteFile(requestPath, payload, 0644); err != nil {
		return nil, &env.AdapterFailureError{Adapter: "simulator", Reason: "writing request", Err: err}
	}
	// stale output must never be read back as a fresh trajectory
	trajectoryPath := path.Join(a.cfg.ExchangeDir, TrajectoryFile)
	if err := os.Remove(trajectoryPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, &env.AdapterFailureError{Adapter: "simulator", Reason: "clearing stale trajectory", Err: err}
	}

	runCtx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	args := append(append([]string{}, a.cfg.Args...), a.cfg.ExchangeDir)
	cmd := exec.CommandContext(runCtx, a.cfg.Command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	if runCtx.Err() == context.DeadlineExceeded {
		return nil, &env.AdapterTimeoutError{Adapter: "simulator", Timeout: a.cfg.Timeout}
	}
	if runErr != nil {
		reason := strings.TrimSpace(stderr.String())
		if reason == "" {
			reason = "process exited with error"
		}
		return nil, &env.AdapterFailureError{Adapter: "simulator", Reason: reason, Err: runErr}
	}
	a.logger.Debug("simulator run complete",
		zap.Duration("elapsed", elapsed),
		zap.Float64("first_day", req.FirstDay),
	)

	raw, err := os.ReadFile(trajectoryPath)
	if err != nil {
		return nil, &env.AdapterFailureError{Adapter: "simulator", Reason: "no trajectory produced", Err: err}
	}
	trajectory := &env.Trajectory{}
	if err := json.Unmarshal(raw, trajectory); err != nil {
		return nil, &env.AdapterFailureError{Adapter: "simulator", Reason: "malformed trajectory", Err: err}
	}
	return trajectory, nil
}

// Cleanup removes the exchange scratch files once the episode is torn down.
func (a *Adapter) Cleanup() error {
	var firstErr error
	for _, name := range []string{RequestFile, TrajectoryFile} {
		err := os.Remove(path.Join(a.cfg.ExchangeDir, name))
		if err != nil && !errors.Is(err, os.ErrNotExist) && firstErr == nil {
			firstErr = fmt.Errorf("removing %s: %w", name, err)
		}
	}
	return firstErr
}
