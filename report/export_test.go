package report

import (
	"context"
	"encoding/csv"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenlab/greenhouse-rl/env"
)

func buildHistory(t *testing.T, epochs int) *env.EpisodeHistory {
	t.Helper()
	buffers := env.NewHistoryBuffers()
	history := &env.EpisodeHistory{Buffers: buffers}
	for epoch := 0; epoch < epochs; epoch++ {
		for _, source := range exportSources {
			batch := make(map[string][]float64)
			batch[env.QuantityTime] = []float64{300, 600, 900, 1200}
			for _, quantity := range env.ObservationQuantities {
				values := make([]float64, env.SubSteps)
				for i := range values {
					values[i] = float64(epoch*env.SubSteps + i)
				}
				batch[quantity] = values
			}
			require.NoError(t, buffers.AppendEpoch(source, batch))
		}
		reward := 1.0 - 0.005*float64(epoch)
		for i := 0; i < env.SubSteps; i++ {
			history.Rewards = append(history.Rewards, reward)
		}
		history.Ventilation = append(history.Ventilation, float64(epoch%2))
		history.Toplights = append(history.Toplights, 1)
		history.Heater = append(history.Heater, 0)
	}
	return history
}

func TestExportWritesAllArtifacts(t *testing.T) {
	dir := t.TempDir()
	exporter, err := NewExporter(Config{Dir: path.Join(dir, "report")}, nil)
	require.NoError(t, err)

	history := buildHistory(t, 3)
	require.NoError(t, exporter.Export(context.Background(), history))

	for _, name := range []string{
		"authoritative.csv", "predicted.csv", "actual.csv",
		"controls.csv", "rewards.csv", "evaluation.txt",
		"temp_in.png", "rewards.png",
	} {
		_, err := os.Stat(path.Join(dir, "report", name))
		assert.NoError(t, err, name)
	}
}

func TestExportedSeriesShape(t *testing.T) {
	dir := t.TempDir()
	exporter, err := NewExporter(Config{Dir: dir}, nil)
	require.NoError(t, err)
	require.NoError(t, exporter.Export(context.Background(), buildHistory(t, 2)))

	f, err := os.Open(path.Join(dir, "authoritative.csv"))
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 1+2*env.SubSteps)
	assert.Len(t, records[0], 1+len(env.ObservationQuantities))
	assert.Equal(t, env.QuantityTime, records[0][0])
}

func TestEvaluationSummaryContent(t *testing.T) {
	dir := t.TempDir()
	exporter, err := NewExporter(Config{Dir: dir}, nil)
	require.NoError(t, err)
	require.NoError(t, exporter.Export(context.Background(), buildHistory(t, 2)))

	content, err := os.ReadFile(path.Join(dir, "evaluation.txt"))
	require.NoError(t, err)
	text := string(content)
	assert.True(t, strings.Contains(text, "authoritative vs actual:"))
	assert.True(t, strings.Contains(text, "predicted vs actual:"))
	assert.True(t, strings.Contains(text, "R² = 1.0000"))
}

func TestEpisodeLogAccumulatesAcrossExports(t *testing.T) {
	dir := t.TempDir()
	exporter, err := NewExporter(Config{Dir: dir}, nil)
	require.NoError(t, err)

	require.NoError(t, exporter.Export(context.Background(), buildHistory(t, 2)))
	require.NoError(t, exporter.Export(context.Background(), buildHistory(t, 3)))

	content, err := os.ReadFile(path.Join(dir, "episodes.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "epochs=2")
	assert.Contains(t, lines[1], "epochs=3")
	assert.Contains(t, lines[1], "total_reward=")
}

func TestNewExporterValidatesConfig(t *testing.T) {
	_, err := NewExporter(Config{}, nil)
	var confErr *env.ConfigurationError
	assert.ErrorAs(t, err, &confErr)
}
