package application

import (
	"log"
	"time"

	curtailment "github.com/Saske77/eco-env-curtailment-analysis/internal/curtailment/domain"
	marketdata "github.com/Saske77/eco-env-curtailment-analysis/internal/marketdata/domain"
)

// RunResult bundles the finalized totals with the run's data-quality
// counters, sufficient for the report assembler without further
// computation.
type RunResult struct {
	Config  curtailment.AnalysisConfig
	Result  curtailment.AggregateResult
	Stats   SanitizeStats
	Missing MissingData
}

// Diagnostics flattens the counters for persistence and rendering.
func (r *RunResult) Diagnostics() curtailment.RunDiagnostics {
	return curtailment.RunDiagnostics{
		ParseFailures:          r.Stats.ParseFailures,
		InvalidRanges:          r.Stats.InvalidRanges,
		FilteredOut:            r.Stats.FilteredOut,
		ZeroLevelDrops:         r.Stats.ZeroLevelDrops,
		DurationMismatches:     r.Stats.DurationMismatches,
		MissingMarketHours:     r.Missing.MarketHours,
		MissingRedispatchHours: r.Missing.RedispatchHours,
		MissingCarbonHours:     r.Missing.CarbonHours,
	}
}

// AllInputRejected distinguishes "all data was rejected" from a normal
// zero-impact run.
func (r *RunResult) AllInputRejected() bool {
	return r.Stats.Raw > 0 && r.Stats.Audited == 0
}

// AnalysisService runs the full sanitize -> apportion -> aggregate pass
// for one turbine configuration.
type AnalysisService struct {
	cfg       curtailment.AnalysisConfig
	sanitizer *EventSanitizer
	logger    *log.Logger
}

// NewAnalysisService constructs the service. The configuration is
// validated up front: all downstream math is scaled by it, so an
// invalid configuration must never reach computation. A nil predicate
// defaults to the configured plant filter.
func NewAnalysisService(cfg curtailment.AnalysisConfig, keep KeepFunc, logger *log.Logger) (*AnalysisService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if keep == nil {
		keep = FilterPlant(cfg.PlantID)
	}

	return &AnalysisService{
		cfg:       cfg,
		sanitizer: NewEventSanitizer(keep, logger),
		logger:    logger,
	}, nil
}

// Run executes one synchronous batch pass over the raw events and the
// three normalized series. Row-level defects are recovered locally;
// the run itself only fails on construction errors.
func (s *AnalysisService) Run(raw []RawEvent, loc *time.Location, market, redispatch, carbon *marketdata.HourlySeries) (*RunResult, error) {
	events, stats := s.sanitizer.Sanitize(raw, loc)

	engine, err := NewApportionmentEngine(s.cfg, market, redispatch, carbon)
	if err != nil {
		return nil, err
	}
	aggregator, err := NewAggregator(s.cfg)
	if err != nil {
		return nil, err
	}

	var missing MissingData
	for _, event := range events {
		contributions, _, eventMissing := engine.Apportion(event)
		aggregator.AddEvent(event, contributions)
		missing.Add(eventMissing)
	}

	run := &RunResult{
		Config:  s.cfg,
		Result:  aggregator.Finalize(stats.Audited),
		Stats:   stats,
		Missing: missing,
	}
	if s.logger != nil {
		s.logger.Printf("analysis done: %d events processed, %.2f MWh curtailed, %.2f EUR missed revenue",
			run.Result.ProcessedEventCount, run.Result.TotalCurtailedEnergyMWh, run.Result.TotalMissedRevenue)
		if run.AllInputRejected() {
			s.logger.Printf("warning: all %d raw events were rejected or filtered out", stats.Raw)
		}
	}
	return run, nil
}
