// Package report exports the accumulated episode history once an episode
// terminates: CSV dumps of every series, comparison charts of the three
// trajectory sources, and a goodness-of-fit summary.
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/greenlab/greenhouse-rl/env"
	"github.com/greenlab/greenhouse-rl/eval"
	"github.com/greenlab/greenhouse-rl/util"
)

// Config of the episode report.
type Config struct {
	// Dir the report files are written to.
	Dir string `mapstructure:"dir"`
}

func (c *Config) Validate() error {
	if c.Dir == "" {
		return &env.ConfigurationError{Field: "report.dir", Reason: "required"}
	}
	return nil
}

// Exporter writes the full episode history to disk.
type Exporter struct {
	dir    string
	logger *zap.Logger
}

var _ env.Reporter = &Exporter{}

func NewExporter(cfg Config, logger *zap.Logger) (*Exporter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{dir: cfg.Dir, logger: logger}, nil
}

var exportSources = []env.Source{
	env.SourceAuthoritative,
	env.SourcePredicted,
	env.SourceActual,
}

// Export writes the climate and crop series of every source, the control
// signals and rewards, the source-comparison charts, and the fit summary.
func (e *Exporter) Export(ctx context.Context, history *env.EpisodeHistory) error {
	if err := os.MkdirAll(e.dir, os.ModePerm); err != nil {
		return err
	}
	if err := e.writeSeries(history.Buffers); err != nil {
		return err
	}
	if err := e.writeControls(history); err != nil {
		return err
	}
	if err := e.writeRewards(history.Rewards); err != nil {
		return err
	}
	for _, quantity := range env.ClimateQuantities {
		e.plotQuantity(history.Buffers, quantity)
	}
	e.plotRewards(history.Rewards)
	e.writeSummary(history.Buffers)
	if err := e.appendEpisodeLog(history); err != nil {
		return err
	}
	e.logger.Info("episode report written", zap.String("dir", e.dir))
	return nil
}

// appendEpisodeLog adds one summary line per exported episode, accumulating
// across episodes of a run.
func (e *Exporter) appendEpisodeLog(history *env.EpisodeHistory) error {
	total := 0.0
	for _, r := range history.Rewards {
		total += r
	}
	epochs := len(history.Rewards) / env.SubSteps
	line := fmt.Sprintf("epochs=%d substeps=%d total_reward=%.6f",
		epochs, history.Buffers.Len(env.SourceAuthoritative), total)
	return util.AppendToFile(path.Join(e.dir, "episodes.log"), line)
}

// writeSeries dumps one CSV per source, a column per quantity.
func (e *Exporter) writeSeries(buffers *env.HistoryBuffers) error {
	quantities := append([]string{env.QuantityTime}, env.ObservationQuantities...)
	for _, source := range exportSources {
		if buffers.Len(source) == 0 {
			continue
		}
		columns := make(map[string][]float64, len(quantities))
		present := make([]string, 0, len(quantities))
		for _, quantity := range quantities {
			series := buffers.Series(source, quantity)
			if len(series) == 0 {
				continue
			}
			columns[quantity] = series
			present = append(present, quantity)
		}
		rows := buffers.Len(source)
		records := make([][]string, 0, rows+1)
		records = append(records, present)
		for i := 0; i < rows; i++ {
			row := make([]string, len(present))
			for j, quantity := range present {
				row[j] = strconv.FormatFloat(columns[quantity][i], 'g', -1, 64)
			}
			records = append(records, row)
		}
		if err := e.writeCSV(string(source)+".csv", records); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) writeControls(history *env.EpisodeHistory) error {
	records := [][]string{{"step", "ventilation", "toplights", "heater"}}
	for i := range history.Ventilation {
		records = append(records, []string{
			strconv.Itoa(i),
			strconv.FormatFloat(history.Ventilation[i], 'g', -1, 64),
			strconv.FormatFloat(history.Toplights[i], 'g', -1, 64),
			strconv.FormatFloat(history.Heater[i], 'g', -1, 64),
		})
	}
	return e.writeCSV("controls.csv", records)
}

func (e *Exporter) writeRewards(rewards []float64) error {
	records := [][]string{{"step", "reward"}}
	for i, r := range rewards {
		records = append(records, []string{
			strconv.Itoa(i),
			strconv.FormatFloat(r, 'g', -1, 64),
		})
	}
	return e.writeCSV("rewards.csv", records)
}

func (e *Exporter) writeCSV(name string, records [][]string) error {
	f, err := os.Create(path.Join(e.dir, name))
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// writeSummary evaluates the diagnostic sources against the measured
// trajectory. A source that never produced data is skipped, not an error.
func (e *Exporter) writeSummary(buffers *env.HistoryBuffers) {
	lines := make([]string, 0)
	for _, source := range []env.Source{env.SourceAuthoritative, env.SourcePredicted} {
		if buffers.Len(source) == 0 || buffers.Len(env.SourceActual) == 0 {
			continue
		}
		report, err := eval.EvaluateSource(buffers, source)
		if err != nil {
			e.logger.Warn("source evaluation failed", zap.String("source", string(source)), zap.Error(err))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s vs actual:", source))
		quantities := make([]string, 0, len(report))
		for quantity := range report {
			quantities = append(quantities, quantity)
		}
		sort.Strings(quantities)
		for _, quantity := range quantities {
			lines = append(lines, fmt.Sprintf("  %-10s %s", quantity, report[quantity]))
		}
	}
	if len(lines) == 0 {
		return
	}
	if err := util.WriteToFile(path.Join(e.dir, "evaluation.txt"), lines...); err != nil {
		e.logger.Warn("writing evaluation summary failed", zap.Error(err))
	}
}
