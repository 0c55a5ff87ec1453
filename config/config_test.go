package config

import (
	"os"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenlab/greenhouse-rl/env"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Env.MaxSteps)
	assert.Equal(t, env.ActionSourceDataset, cfg.Env.ActionSource)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	configPath := path.Join(dir, "config.yaml")
	content := `
env:
  max_steps: 12
  action_source: agent
simulator:
  command: /opt/greenlight/run.sh
  exchange_dir: /tmp/exchange
  timeout: 90s
dataset:
  path: /data/mgh.db
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Env.MaxSteps)
	assert.Equal(t, env.ActionSourceAgent, cfg.Env.ActionSource)
	assert.Equal(t, "/opt/greenlight/run.sh", cfg.Simulator.Command)
	assert.Equal(t, 90*time.Second, cfg.Simulator.Timeout)
	assert.Equal(t, "/data/mgh.db", cfg.Dataset.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// untouched sections keep their defaults
	assert.Equal(t, env.DefaultSeasonLength, cfg.Env.SeasonLength)
	assert.Equal(t, env.DefaultRewardWeights(), cfg.Env.Weights)
}

func TestEnvOverridesFileValues(t *testing.T) {
	dir := t.TempDir()
	configPath := path.Join(dir, "config.yaml")
	content := `
logging:
  level: debug
dataset:
  path: /data/mgh.db
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))
	t.Setenv("GREENHOUSE_LOGGING_LEVEL", "warn")

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "/data/mgh.db", cfg.Dataset.Path)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(path.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
