// Package telemetry carries the live-measurement mode plumbing: publishing
// each epoch's control vector to the device channel and receiving exterior
// measurements from the IoT side. Only active when the controller runs
// online.
package telemetry

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/greenlab/greenhouse-rl/env"
)

// Config of the telemetry channel.
type Config struct {
	// Addr of the redis instance bridging to the device side.
	Addr string `mapstructure:"addr"`
	// Channel the control payloads are published on.
	Channel string `mapstructure:"channel"`
	// ListenAddr of the outdoor measurement intake server.
	ListenAddr string `mapstructure:"listen_addr"`
}

func (c *Config) Validate() error {
	if c.Addr == "" {
		return &env.ConfigurationError{Field: "telemetry.addr", Reason: "required"}
	}
	if c.Channel == "" {
		return &env.ConfigurationError{Field: "telemetry.channel", Reason: "required"}
	}
	return nil
}

// controlPayload is the JSON wire format consumed by the device controller.
type controlPayload struct {
	Time        []float64 `json:"time"`
	Ventilation []float64 `json:"ventilation"`
	Toplights   []float64 `json:"toplights"`
	Heater      []float64 `json:"heater"`
}

// Publisher pushes control vectors over redis pub/sub.
type Publisher struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

var _ env.Publisher = &Publisher{}

func NewPublisher(cfg Config, logger *zap.Logger) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr})
	return &Publisher{client: client, channel: cfg.Channel, logger: logger}, nil
}

// PublishControls sends one epoch of control signals to the device channel.
func (p *Publisher) PublishControls(ctx context.Context, controls *env.ControlVector) error {
	payload, err := json.Marshal(controlPayload{
		Time:        controls.Time[:],
		Ventilation: controls.Ventilation[:],
		Toplights:   controls.Toplights[:],
		Heater:      controls.Heater[:],
	})
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return &env.AdapterFailureError{Adapter: "telemetry", Reason: "publishing controls", Err: err}
	}
	p.logger.Debug("controls published", zap.String("channel", p.channel))
	return nil
}

func (p *Publisher) Close() error {
	return p.client.Close()
}
