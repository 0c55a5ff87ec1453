package env

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/greenlab/greenhouse-rl/rl"
	"github.com/greenlab/greenhouse-rl/units"
)

// indoorHandoffSteps is how many trailing sub-steps of interior state the
// simulator consumes as its starting condition.
const indoorHandoffSteps = 3

// Dependencies are the external collaborators of the episode controller.
// Simulator and Cursor are required; the rest degrade gracefully when nil.
type Dependencies struct {
	Simulator Simulator
	Predictor Predictor
	Cursor    Cursor
	Publisher Publisher
	Outdoor   OutdoorSource
	Reporter  Reporter
	Logger    *zap.Logger
}

// CalibratorEnv fuses the physics simulator with the statistical predictor
// over fixed-duration epochs and exposes the episode contract to an agent.
// Not safe for concurrent use; one Step or Reset at a time.
type CalibratorEnv struct {
	cfg    Config
	logger *zap.Logger

	simulator Simulator
	predictor Predictor
	cursor    Cursor
	publisher Publisher
	outdoor   OutdoorSource
	reporter  Reporter
	reward    *RewardEngine

	buffers *HistoryBuffers
	seed    *Trajectory

	epoch    int
	firstDay float64
	exported bool
	ready    bool

	rewards     []float64
	ventilation []float64
	toplights   []float64
	heater      []float64
}

var _ rl.Environment = &CalibratorEnv{}

// New validates the configuration and wires the collaborators. No external
// call happens until Reset.
func New(cfg Config, deps Dependencies) (*CalibratorEnv, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Simulator == nil {
		return nil, &ConfigurationError{Field: "simulator", Reason: "required"}
	}
	if deps.Cursor == nil {
		return nil, &ConfigurationError{Field: "cursor", Reason: "required"}
	}
	if cfg.Online && deps.Publisher == nil {
		return nil, &ConfigurationError{Field: "publisher", Reason: "required in online mode"}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalibratorEnv{
		cfg:       cfg,
		logger:    logger,
		simulator: deps.Simulator,
		predictor: deps.Predictor,
		cursor:    deps.Cursor,
		publisher: deps.Publisher,
		outdoor:   deps.Outdoor,
		reporter:  deps.Reporter,
		reward:    NewRewardEngine(cfg.Weights),
	}, nil
}

// Reset zeroes the epoch counter, clears the accumulated episode state, and
// advances the dataset cursor by one epoch so repeated resets walk through
// different historical windows. The first Reset seeds the authoritative
// state with a zero-control simulator run.
func (e *CalibratorEnv) Reset(ctx context.Context) (rl.Observation, map[string]interface{}, error) {
	if err := e.cursor.Skip(ctx, SubSteps); err != nil {
		return nil, nil, err
	}
	if e.seed == nil {
		trajectory, err := e.simulator.Run(ctx, &SimulationRequest{
			SeasonLength: e.cfg.SeasonLength,
			FirstDay:     e.cfg.FirstDay,
			Controls:     ZeroControls(),
			Outdoor:      e.latestOutdoor(),
		})
		if err != nil {
			return nil, nil, err
		}
		if err := trajectory.Validate(); err != nil {
			return nil, nil, &AdapterFailureError{Adapter: "simulator", Reason: "malformed seed trajectory", Err: err}
		}
		e.seed = trajectory
	}
	e.epoch = 0
	e.firstDay = e.cfg.FirstDay
	e.exported = false
	e.ready = true
	e.buffers = NewHistoryBuffers()
	e.rewards = nil
	e.ventilation = nil
	e.toplights = nil
	e.heater = nil

	obs, err := e.Observation()
	if err != nil {
		return nil, nil, err
	}
	return obs, map[string]interface{}{}, nil
}

// Step advances the episode by one epoch: build controls, run the predictor
// for diagnostics, hand the prior authoritative state to the simulator,
// fuse the refined trajectory into the buffers, and compute the reward.
func (e *CalibratorEnv) Step(ctx context.Context, action rl.Action) (*rl.StepResult, error) {
	if !e.ready {
		return nil, fmt.Errorf("step before reset")
	}
	if e.Done() {
		return nil, ErrEpisodeTerminal
	}
	// action validity is checked before any external call
	if err := e.validateAction(action); err != nil {
		return nil, err
	}

	e.epoch++

	rows, err := e.cursor.NextEpoch(ctx)
	if err != nil {
		return nil, err
	}
	if err := e.appendActual(rows); err != nil {
		return nil, err
	}

	controls, err := e.buildControls(action, rows)
	if err != nil {
		return nil, err
	}

	// the predictor runs for cross-validation only; its failure never
	// touches the authoritative path
	e.runPredictor(ctx, rows, controls)

	if e.cfg.Online && e.publisher != nil {
		if err := e.publisher.PublishControls(ctx, controls); err != nil {
			e.logger.Warn("control publish failed", zap.Int("epoch", e.epoch), zap.Error(err))
		}
	}

	e.firstDay += e.cfg.SeasonLength
	request := &SimulationRequest{
		SeasonLength: e.cfg.SeasonLength,
		FirstDay:     e.firstDay,
		Controls:     controls,
		Indoor:       e.priorIndoor(),
		Crop:         e.priorCrop(),
		Outdoor:      e.latestOutdoor(),
	}
	trajectory, err := e.simulator.Run(ctx, request)
	if err != nil {
		return nil, err
	}
	if err := trajectory.Validate(); err != nil {
		return nil, &AdapterFailureError{Adapter: "simulator", Reason: "malformed trajectory", Err: err}
	}
	if err := e.buffers.AppendEpoch(SourceAuthoritative, trajectory.LastEpoch()); err != nil {
		return nil, err
	}

	reward, err := e.reward.Reward(e.epoch, e.buffers, controls)
	if err != nil {
		return nil, err
	}
	// reward and controls are recorded per sub-step
	for i := 0; i < SubSteps; i++ {
		e.rewards = append(e.rewards, reward)
	}
	e.ventilation = append(e.ventilation, controls.Ventilation[:]...)
	e.toplights = append(e.toplights, controls.Toplights[:]...)
	e.heater = append(e.heater, controls.Heater[:]...)

	terminated := e.Done()
	if terminated {
		e.finish(ctx)
	}

	obs, err := e.Observation()
	if err != nil {
		return nil, err
	}
	return &rl.StepResult{
		Observation: obs,
		Reward:      reward,
		Terminated:  terminated,
		Truncated:   false,
		Info:        map[string]interface{}{"epoch": e.epoch},
	}, nil
}

// Observation returns the 9-element authoritative state vector in fixed
// order: CO2, temperature, humidity, PAR, and the four crop-growth
// variables plus the thermal-time sum, each as the most recent value.
func (e *CalibratorEnv) Observation() (rl.Observation, error) {
	obs := make(rl.Observation, 0, len(ObservationQuantities))
	if e.buffers != nil && e.buffers.Len(SourceAuthoritative) > 0 {
		for _, quantity := range ObservationQuantities {
			v, err := e.buffers.Latest(SourceAuthoritative, quantity)
			if err != nil {
				return nil, err
			}
			obs = append(obs, v)
		}
		return obs, nil
	}
	if e.seed == nil {
		return nil, fmt.Errorf("no authoritative state, Reset required")
	}
	batch := e.seed.LastEpoch()
	for _, quantity := range ObservationQuantities {
		values := batch[quantity]
		obs = append(obs, values[len(values)-1])
	}
	return obs, nil
}

// Done is true iff the epoch counter has reached the configured maximum.
// It never flips back to false within an episode.
func (e *CalibratorEnv) Done() bool {
	return e.epoch >= e.cfg.MaxSteps
}

// Epoch is the current epoch counter.
func (e *CalibratorEnv) Epoch() int {
	return e.epoch
}

// Rewards returns a copy of the accumulated per-sub-step reward sequence.
func (e *CalibratorEnv) Rewards() []float64 {
	out := make([]float64, len(e.rewards))
	copy(out, e.rewards)
	return out
}

// History is the accumulated episode state handed to the reporter.
func (e *CalibratorEnv) History() *EpisodeHistory {
	return &EpisodeHistory{
		Buffers:     e.buffers,
		Rewards:     e.Rewards(),
		Ventilation: append([]float64(nil), e.ventilation...),
		Toplights:   append([]float64(nil), e.toplights...),
		Heater:      append([]float64(nil), e.heater...),
	}
}

func (e *CalibratorEnv) validateAction(action rl.Action) error {
	switch e.cfg.ActionSource {
	case ActionSourceDataset:
		if action != nil {
			return &InvalidActionError{Reason: "action supplied in dataset mode"}
		}
	case ActionSourceAgent:
		if action == nil {
			return &InvalidActionError{Reason: "nil action in agent mode"}
		}
		if len(action) != 3 {
			return &InvalidActionError{Reason: fmt.Sprintf("want 3 components, got %d", len(action))}
		}
		for i, v := range action {
			if v < 0 || v > 1 {
				return &InvalidActionError{Reason: fmt.Sprintf("component %d = %v outside [0,1]", i, v)}
			}
		}
	}
	return nil
}

func (e *CalibratorEnv) buildControls(action rl.Action, rows []Record) (*ControlVector, error) {
	if e.cfg.ActionSource == ActionSourceAgent {
		return BuildAgentControls(action)
	}
	return BuildRecordedControls(rows)
}

func (e *CalibratorEnv) appendActual(rows []Record) error {
	batch := map[string][]float64{
		QuantityTime: {},
		QuantityCO2:  {},
		QuantityTemp: {},
		QuantityRH:   {},
		QuantityPAR:  {},
	}
	for _, row := range rows {
		batch[QuantityTime] = append(batch[QuantityTime], row.Time)
		batch[QuantityCO2] = append(batch[QuantityCO2], row.CO2In)
		batch[QuantityTemp] = append(batch[QuantityTemp], row.TempIn)
		batch[QuantityRH] = append(batch[QuantityRH], row.RHIn)
		batch[QuantityPAR] = append(batch[QuantityPAR], row.GlobalIn)
	}
	return e.buffers.AppendEpoch(SourceActual, batch)
}

// runPredictor appends one epoch of predicted climate values. Any failure
// is logged and the whole predicted batch for the epoch is skipped, keeping
// the equal-growth invariant within the predicted source.
func (e *CalibratorEnv) runPredictor(ctx context.Context, rows []Record, controls *ControlVector) {
	if e.predictor == nil {
		return
	}
	window := NewFeatureWindow(rows, controls)
	batch := map[string][]float64{}
	for _, row := range rows {
		batch[QuantityTime] = append(batch[QuantityTime], row.Time)
	}
	for _, quantity := range ClimateQuantities {
		values, err := e.predictor.Predict(ctx, quantity, window)
		if err != nil {
			e.logger.Warn("predictor failed, skipping predicted batch",
				zap.Int("epoch", e.epoch),
				zap.String("quantity", quantity),
				zap.Error(err),
			)
			return
		}
		batch[quantity] = values
	}
	if err := e.buffers.AppendEpoch(SourcePredicted, batch); err != nil {
		e.logger.Warn("predicted batch rejected", zap.Int("epoch", e.epoch), zap.Error(err))
	}
}

// priorIndoor converts the trailing authoritative sub-steps into the unit
// system the simulator expects.
func (e *CalibratorEnv) priorIndoor() *IndoorState {
	times, temps, rhs, co2s := e.trailing(indoorHandoffSteps)
	state := &IndoorState{}
	for i := range times {
		state.Time = append(state.Time, times[i])
		state.TempIn = append(state.TempIn, temps[i])
		state.VaporPressure = append(state.VaporPressure, units.RHToVaporPressure(temps[i], rhs[i]))
		state.CO2Density = append(state.CO2Density, units.CO2PPMToDensity(temps[i], co2s[i]))
	}
	return state
}

func (e *CalibratorEnv) trailing(n int) (times, temps, rhs, co2s []float64) {
	if e.buffers.Len(SourceAuthoritative) >= n {
		times, _ = e.buffers.LastN(SourceAuthoritative, QuantityTime, n)
		temps, _ = e.buffers.LastN(SourceAuthoritative, QuantityTemp, n)
		rhs, _ = e.buffers.LastN(SourceAuthoritative, QuantityRH, n)
		co2s, _ = e.buffers.LastN(SourceAuthoritative, QuantityCO2, n)
		return
	}
	batch := e.seed.LastEpoch()
	tail := func(values []float64) []float64 { return values[len(values)-n:] }
	return tail(batch[QuantityTime]), tail(batch[QuantityTemp]), tail(batch[QuantityRH]), tail(batch[QuantityCO2])
}

func (e *CalibratorEnv) priorCrop() *CropState {
	last := func(quantity string) float64 {
		if e.buffers.Len(SourceAuthoritative) > 0 {
			v, _ := e.buffers.Latest(SourceAuthoritative, quantity)
			return v
		}
		values := e.seed.LastEpoch()[quantity]
		return values[len(values)-1]
	}
	return &CropState{
		Time:         last(QuantityTime),
		FruitLeaf:    last(QuantityFruitLeaf),
		FruitStem:    last(QuantityFruitStem),
		FruitDW:      last(QuantityFruitDW),
		FruitCBuf:    last(QuantityFruitCBuf),
		FruitTCanSum: last(QuantityFruitTCanSum),
	}
}

func (e *CalibratorEnv) latestOutdoor() *OutdoorState {
	if !e.cfg.Online || e.outdoor == nil {
		return nil
	}
	state, ok := e.outdoor.LatestOutdoor()
	if !ok {
		return nil
	}
	return state
}

// finish runs once on the first transition to terminal: export the
// accumulated history and clear the exchange scratch state.
func (e *CalibratorEnv) finish(ctx context.Context) {
	if e.exported {
		return
	}
	e.exported = true
	if e.reporter != nil {
		if err := e.reporter.Export(ctx, e.History()); err != nil {
			e.logger.Error("history export failed", zap.Error(err))
		}
	}
	if err := e.simulator.Cleanup(); err != nil {
		e.logger.Warn("exchange cleanup failed", zap.Error(err))
	}
	e.logger.Info("episode terminated",
		zap.Int("epochs", e.epoch),
		zap.Int("substeps", e.buffers.Len(SourceAuthoritative)),
	)
}
