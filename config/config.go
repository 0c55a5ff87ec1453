// Package config aggregates the configuration of every component and loads
// it from file and environment through viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/greenlab/greenhouse-rl/dataset"
	"github.com/greenlab/greenhouse-rl/env"
	"github.com/greenlab/greenhouse-rl/logging"
	"github.com/greenlab/greenhouse-rl/predictor"
	"github.com/greenlab/greenhouse-rl/report"
	"github.com/greenlab/greenhouse-rl/simulator"
	"github.com/greenlab/greenhouse-rl/telemetry"
)

// Config is the full controller configuration.
type Config struct {
	Env       env.Config       `mapstructure:"env"`
	Simulator simulator.Config `mapstructure:"simulator"`
	Predictor predictor.Config `mapstructure:"predictor"`
	Dataset   dataset.Config   `mapstructure:"dataset"`
	Telemetry telemetry.Config `mapstructure:"telemetry"`
	Report    report.Config    `mapstructure:"report"`
	Logging   logging.Config   `mapstructure:"logging"`
}

func Default() Config {
	return Config{
		Env:     env.DefaultConfig(),
		Logging: logging.DefaultConfig(),
	}
}

// Load reads the configuration file at path, if given. GREENHOUSE_*
// environment variables override values for keys the file sets; keys absent
// from the file keep their defaults.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GREENHOUSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := Default()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}
