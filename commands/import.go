package commands

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/greenlab/greenhouse-rl/dataset"
	"github.com/greenlab/greenhouse-rl/env"
)

// csvColumns is the expected column order of an import file, matching the
// measurements schema.
var csvColumns = []string{
	"time", "global_out", "temp_out", "rh_out", "co2_out",
	"global_in", "temp_in", "rh_in", "co2_in",
	"ventilation", "toplights", "heater",
}

// Import loads a CSV measurement export into the dataset the cursor reads
// from. Row order is preserved; the file must carry the schema header.
func Import(cmd *cobra.Command, csvPath string) error {
	ctx := cmd.Context()
	cursor, err := dataset.Open(ctx, cfg.Dataset)
	if err != nil {
		return err
	}
	defer cursor.Close()
	if err := cursor.Init(ctx); err != nil {
		return err
	}

	f, err := os.Open(csvPath)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("reading header of %s: %w", csvPath, err)
	}
	if len(header) != len(csvColumns) {
		return fmt.Errorf("%s has %d columns, want %d (%v)", csvPath, len(header), len(csvColumns), csvColumns)
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("reading %s: %w", csvPath, err)
	}
	records := make([]env.Record, 0, len(rows))
	for i, row := range rows {
		values := make([]float64, len(csvColumns))
		for j := range csvColumns {
			v, err := strconv.ParseFloat(row[j], 64)
			if err != nil {
				return fmt.Errorf("%s row %d column %s: %w", csvPath, i+2, csvColumns[j], err)
			}
			values[j] = v
		}
		records = append(records, env.Record{
			Time:        values[0],
			GlobalOut:   values[1],
			TempOut:     values[2],
			RHOut:       values[3],
			CO2Out:      values[4],
			GlobalIn:    values[5],
			TempIn:      values[6],
			RHIn:        values[7],
			CO2In:       values[8],
			Ventilation: values[9],
			Toplights:   values[10],
			Heater:      values[11],
		})
	}
	if err := cursor.Insert(ctx, records...); err != nil {
		return err
	}
	logger.Info("dataset imported",
		zap.String("from", csvPath),
		zap.String("to", cfg.Dataset.Path),
		zap.Int("rows", len(records)),
	)
	return nil
}

func ImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <measurements.csv>",
		Short: "Import a CSV measurement export into the historical dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return Import(cmd, args[0])
		},
	}
}
