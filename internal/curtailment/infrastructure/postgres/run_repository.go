package postgres

import (
	"context"
	"database/sql"
	"errors"

	curtailment "github.com/Saske77/eco-env-curtailment-analysis/internal/curtailment/domain"
)

// RunRepository persists analysis runs in the analysis_runs table.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository constructs a repository.
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Save inserts one finalized run.
func (r *RunRepository) Save(ctx context.Context, run *curtailment.RunRecord) error {
	if r == nil || r.db == nil {
		return errors.New("run repo: nil db")
	}
	if run == nil {
		return curtailment.ErrNilRun
	}
	if run.PlantID == "" {
		return curtailment.ErrEmptyPlantID
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO analysis_runs (
	id, plant_id, ran_at,
	curtailed_energy_mwh, missed_revenue, compensation, redispatch_cost,
	economic_impact, co2_tonnes,
	event_count, processed_event_count, duration_minutes,
	avg_energy_per_event_mwh, capacity_factor_loss_pct, avg_price_eur_mwh,
	parse_failures, invalid_ranges, filtered_out, zero_level_drops,
	duration_mismatches, missing_market_hours, missing_redispatch_hours,
	missing_carbon_hours
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
	$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23
)`,
		run.ID, run.PlantID, run.RanAt,
		run.Result.TotalCurtailedEnergyMWh, run.Result.TotalMissedRevenue,
		run.Result.TotalCompensation, run.Result.TotalRedispatchCost,
		run.Result.TotalEconomicImpact, run.Result.TotalCO2Tonnes,
		run.Result.EventCount, run.Result.ProcessedEventCount,
		run.Result.TotalDurationMinutes,
		run.Result.AverageEnergyPerEventMWh, run.Result.CapacityFactorLossPercent,
		run.Result.AveragePriceDuringCurtailment,
		run.Diagnostics.ParseFailures, run.Diagnostics.InvalidRanges,
		run.Diagnostics.FilteredOut, run.Diagnostics.ZeroLevelDrops,
		run.Diagnostics.DurationMismatches, run.Diagnostics.MissingMarketHours,
		run.Diagnostics.MissingRedispatchHours, run.Diagnostics.MissingCarbonHours,
	)
	return err
}

// Latest returns the most recent run for a plant.
func (r *RunRepository) Latest(ctx context.Context, plantID string) (*curtailment.RunRecord, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("run repo: nil db")
	}

	row := r.db.QueryRowContext(ctx, `
SELECT id, plant_id, ran_at,
	curtailed_energy_mwh, missed_revenue, compensation, redispatch_cost,
	economic_impact, co2_tonnes,
	event_count, processed_event_count, duration_minutes,
	avg_energy_per_event_mwh, capacity_factor_loss_pct, avg_price_eur_mwh,
	parse_failures, invalid_ranges, filtered_out, zero_level_drops,
	duration_mismatches, missing_market_hours, missing_redispatch_hours,
	missing_carbon_hours
FROM analysis_runs
WHERE plant_id = $1
ORDER BY ran_at DESC
LIMIT 1`, plantID)

	var run curtailment.RunRecord
	err := row.Scan(
		&run.ID, &run.PlantID, &run.RanAt,
		&run.Result.TotalCurtailedEnergyMWh, &run.Result.TotalMissedRevenue,
		&run.Result.TotalCompensation, &run.Result.TotalRedispatchCost,
		&run.Result.TotalEconomicImpact, &run.Result.TotalCO2Tonnes,
		&run.Result.EventCount, &run.Result.ProcessedEventCount,
		&run.Result.TotalDurationMinutes,
		&run.Result.AverageEnergyPerEventMWh, &run.Result.CapacityFactorLossPercent,
		&run.Result.AveragePriceDuringCurtailment,
		&run.Diagnostics.ParseFailures, &run.Diagnostics.InvalidRanges,
		&run.Diagnostics.FilteredOut, &run.Diagnostics.ZeroLevelDrops,
		&run.Diagnostics.DurationMismatches, &run.Diagnostics.MissingMarketHours,
		&run.Diagnostics.MissingRedispatchHours, &run.Diagnostics.MissingCarbonHours,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, curtailment.ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}

	run.Result.TotalDurationHours = run.Result.TotalDurationMinutes / 60
	run.Result.TotalDurationDays = run.Result.TotalDurationMinutes / 1440
	return &run, nil
}

// Schema is the DDL for the analysis_runs table, applied by EnsureSchema.
const Schema = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	id TEXT PRIMARY KEY,
	plant_id TEXT NOT NULL,
	ran_at TIMESTAMPTZ NOT NULL,
	curtailed_energy_mwh DOUBLE PRECISION NOT NULL,
	missed_revenue DOUBLE PRECISION NOT NULL,
	compensation DOUBLE PRECISION NOT NULL,
	redispatch_cost DOUBLE PRECISION NOT NULL,
	economic_impact DOUBLE PRECISION NOT NULL,
	co2_tonnes DOUBLE PRECISION NOT NULL,
	event_count INTEGER NOT NULL,
	processed_event_count INTEGER NOT NULL,
	duration_minutes DOUBLE PRECISION NOT NULL,
	avg_energy_per_event_mwh DOUBLE PRECISION NOT NULL,
	capacity_factor_loss_pct DOUBLE PRECISION NOT NULL,
	avg_price_eur_mwh DOUBLE PRECISION NOT NULL,
	parse_failures INTEGER NOT NULL,
	invalid_ranges INTEGER NOT NULL,
	filtered_out INTEGER NOT NULL,
	zero_level_drops INTEGER NOT NULL,
	duration_mismatches INTEGER NOT NULL,
	missing_market_hours INTEGER NOT NULL,
	missing_redispatch_hours INTEGER NOT NULL,
	missing_carbon_hours INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analysis_runs_plant_ran_at ON analysis_runs (plant_id, ran_at DESC);
`

// EnsureSchema creates the analysis_runs table when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("run repo: nil db")
	}
	_, err := db.ExecContext(ctx, Schema)
	return err
}
