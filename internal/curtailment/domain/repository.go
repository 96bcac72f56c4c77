package curtailment

import (
	"context"
	"time"
)

// RunDiagnostics are the data-quality counters of one run, persisted
// alongside the totals so a non-zero drop count is never hidden behind
// a clean-looking result.
type RunDiagnostics struct {
	ParseFailures      int
	InvalidRanges      int
	FilteredOut        int
	ZeroLevelDrops     int
	DurationMismatches int

	MissingMarketHours     int
	MissingRedispatchHours int
	MissingCarbonHours     int
}

// RunRecord captures one finalized analysis run.
type RunRecord struct {
	ID          string
	PlantID     string
	RanAt       time.Time
	Result      AggregateResult
	Diagnostics RunDiagnostics
}

// RunRepository persists finalized analysis runs.
type RunRepository interface {
	Save(ctx context.Context, run *RunRecord) error
	Latest(ctx context.Context, plantID string) (*RunRecord, error)
}
