package dataset

import (
	"context"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenlab/greenhouse-rl/env"
)

func openTestCursor(t *testing.T, rows int) *Cursor {
	t.Helper()
	ctx := context.Background()
	cursor, err := Open(ctx, Config{Path: path.Join(t.TempDir(), "mgh.db")})
	require.NoError(t, err)
	t.Cleanup(func() { cursor.Close() })
	require.NoError(t, cursor.Init(ctx))

	records := make([]env.Record, rows)
	for i := range records {
		records[i] = env.Record{
			Time:        float64(i * 300),
			GlobalOut:   100 + float64(i),
			TempOut:     15,
			RHOut:       70,
			CO2Out:      410,
			GlobalIn:    8,
			TempIn:      21,
			RHIn:        65,
			CO2In:       450,
			Ventilation: float64(i % 2),
			Toplights:   1,
			Heater:      0,
		}
	}
	require.NoError(t, cursor.Insert(ctx, records...))
	return cursor
}

func TestNextEpochReadsInOrder(t *testing.T) {
	cursor := openTestCursor(t, 12)
	ctx := context.Background()

	first, err := cursor.NextEpoch(ctx)
	require.NoError(t, err)
	require.Len(t, first, env.SubSteps)
	assert.Equal(t, 0.0, first[0].Time)
	assert.Equal(t, 900.0, first[3].Time)
	assert.Equal(t, 103.0, first[3].GlobalOut)

	second, err := cursor.NextEpoch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1200.0, second[0].Time)
}

func TestNextEpochExhaustion(t *testing.T) {
	cursor := openTestCursor(t, 6)
	ctx := context.Background()

	_, err := cursor.NextEpoch(ctx)
	require.NoError(t, err)

	_, err = cursor.NextEpoch(ctx)
	var exhausted *env.DataExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, env.SubSteps, exhausted.Requested)
	assert.Equal(t, 2, exhausted.Available)
}

func TestSkipAdvancesWindow(t *testing.T) {
	cursor := openTestCursor(t, 12)
	ctx := context.Background()

	require.NoError(t, cursor.Skip(ctx, env.SubSteps))
	rows, err := cursor.NextEpoch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1200.0, rows[0].Time)

	assert.Error(t, cursor.Skip(ctx, -1))
}

func TestRemaining(t *testing.T) {
	cursor := openTestCursor(t, 10)
	ctx := context.Background()

	remaining, err := cursor.Remaining(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, remaining)

	_, err = cursor.NextEpoch(ctx)
	require.NoError(t, err)
	remaining, err = cursor.Remaining(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, remaining)
}

func TestOpenValidatesConfig(t *testing.T) {
	_, err := Open(context.Background(), Config{})
	var confErr *env.ConfigurationError
	assert.ErrorAs(t, err, &confErr)
}
