// Package dataset provides sequential read access over the fixed-schema
// historical measurement table. The cursor advances by exactly one epoch of
// rows at a time; running out of rows is an error, never silent truncation.
package dataset

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/greenlab/greenhouse-rl/env"
)

const selectColumns = `time, global_out, temp_out, rh_out, co2_out,
	global_in, temp_in, rh_in, co2_in, ventilation, toplights, heater`

// Config of the historical dataset.
type Config struct {
	// Path to the SQLite database file.
	Path string `mapstructure:"path"`
}

func (c *Config) Validate() error {
	if c.Path == "" {
		return &env.ConfigurationError{Field: "dataset.path", Reason: "required"}
	}
	return nil
}

// Cursor walks the measurements table in insertion order.
type Cursor struct {
	db  *sql.DB
	pos int
}

var _ env.Cursor = &Cursor{}

// Open connects to the dataset and verifies it is reachable.
func Open(ctx context.Context, cfg Config) (*Cursor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset %s: %w", cfg.Path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging dataset %s: %w", cfg.Path, err)
	}
	return &Cursor{db: db}, nil
}

// Init creates the measurements schema. Used by import tooling and tests;
// an episode run expects the table to be populated already.
func (c *Cursor) Init(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS measurements (
			time REAL NOT NULL,
			global_out REAL NOT NULL,
			temp_out REAL NOT NULL,
			rh_out REAL NOT NULL,
			co2_out REAL NOT NULL,
			global_in REAL NOT NULL,
			temp_in REAL NOT NULL,
			rh_in REAL NOT NULL,
			co2_in REAL NOT NULL,
			ventilation REAL NOT NULL,
			toplights REAL NOT NULL,
			heater REAL NOT NULL
		)
	`)
	return err
}

// Insert appends records in order. Import tooling and tests only.
func (c *Cursor) Insert(ctx context.Context, records ...env.Record) error {
	for _, r := range records {
		_, err := c.db.ExecContext(ctx, `
			INSERT INTO measurements (`+selectColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, r.Time, r.GlobalOut, r.TempOut, r.RHOut, r.CO2Out,
			r.GlobalIn, r.TempIn, r.RHIn, r.CO2In,
			r.Ventilation, r.Toplights, r.Heater)
		if err != nil {
			return err
		}
	}
	return nil
}

// NextEpoch reads the next env.SubSteps rows and advances the cursor.
func (c *Cursor) NextEpoch(ctx context.Context) ([]env.Record, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT `+selectColumns+`
		FROM measurements
		ORDER BY rowid
		LIMIT ? OFFSET ?
	`, env.SubSteps, c.pos)
	if err != nil {
		return nil, fmt.Errorf("reading dataset epoch at row %d: %w", c.pos, err)
	}
	defer rows.Close()

	out := make([]env.Record, 0, env.SubSteps)
	for rows.Next() {
		var r env.Record
		err := rows.Scan(&r.Time, &r.GlobalOut, &r.TempOut, &r.RHOut, &r.CO2Out,
			&r.GlobalIn, &r.TempIn, &r.RHIn, &r.CO2In,
			&r.Ventilation, &r.Toplights, &r.Heater)
		if err != nil {
			return nil, fmt.Errorf("scanning dataset row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) < env.SubSteps {
		return nil, &env.DataExhaustedError{Requested: env.SubSteps, Available: len(out)}
	}
	c.pos += env.SubSteps
	return out, nil
}

// Skip advances the cursor without reading. Exhaustion surfaces on the next
// read.
func (c *Cursor) Skip(ctx context.Context, rows int) error {
	if rows < 0 {
		return fmt.Errorf("cannot skip %d rows", rows)
	}
	c.pos += rows
	return nil
}

// Remaining counts the rows left in front of the cursor.
func (c *Cursor) Remaining(ctx context.Context) (int, error) {
	var total int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM measurements`).Scan(&total); err != nil {
		return 0, err
	}
	remaining := total - c.pos
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func (c *Cursor) Close() error {
	return c.db.Close()
}
