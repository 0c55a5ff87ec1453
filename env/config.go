package env

// ActionSource selects where the control values of each epoch come from.
// The two modes are never mixed within an episode.
type ActionSource string

const (
	// ActionSourceAgent thresholds a 3-vector agent action.
	ActionSourceAgent ActionSource = "agent"
	// ActionSourceDataset replays the recorded dataset controls; Step must
	// be called with a nil action.
	ActionSourceDataset ActionSource = "dataset"
)

// DefaultSeasonLength is one epoch as a fraction of a day:
// 1/72 * 24h * 60min = 20 minutes.
const DefaultSeasonLength = 1.0 / 72.0

// Config of the episode controller.
type Config struct {
	// MaxSteps is the epoch count at which the episode terminates.
	MaxSteps int `mapstructure:"max_steps"`
	// FirstDay is the day offset into the simulated season.
	FirstDay float64 `mapstructure:"first_day"`
	// SeasonLength is the epoch duration as a fraction of a day.
	SeasonLength float64 `mapstructure:"season_length"`
	// ActionSource selects agent-driven or dataset-driven control.
	ActionSource ActionSource `mapstructure:"action_source"`
	// Online enables telemetry publishing and live outdoor measurements.
	Online bool `mapstructure:"online"`
	// Weights of the reward shaping.
	Weights RewardWeights `mapstructure:"reward_weights"`
}

// DefaultConfig mirrors the reference episode setup: 4 epochs of 20 minutes,
// dataset-driven, offline.
func DefaultConfig() Config {
	return Config{
		MaxSteps:     4,
		FirstDay:     1,
		SeasonLength: DefaultSeasonLength,
		ActionSource: ActionSourceDataset,
		Weights:      DefaultRewardWeights(),
	}
}

// Validate raises configuration errors before any external call is made.
func (c *Config) Validate() error {
	if c.MaxSteps <= 0 {
		return &ConfigurationError{Field: "max_steps", Reason: "must be positive"}
	}
	if c.SeasonLength <= 0 {
		return &ConfigurationError{Field: "season_length", Reason: "must be positive"}
	}
	if c.FirstDay < 0 {
		return &ConfigurationError{Field: "first_day", Reason: "must not be negative"}
	}
	switch c.ActionSource {
	case ActionSourceAgent, ActionSourceDataset:
	default:
		return &ConfigurationError{Field: "action_source", Reason: "must be \"agent\" or \"dataset\""}
	}
	return nil
}
