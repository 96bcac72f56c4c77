package interfaces

import (
	"fmt"
	"strings"

	"github.com/Saske77/eco-env-curtailment-analysis/internal/curtailment/application"
)

// BuildTextReport renders one run as the human-readable analysis
// report. Diagnostic counters are always printed next to the headline
// totals so a non-zero drop count is never hidden behind a clean
// result.
func BuildTextReport(run *application.RunResult) string {
	if run == nil {
		return ""
	}
	result := run.Result
	cfg := run.Config

	var b strings.Builder
	line := strings.Repeat("-", 50)

	b.WriteString("=== CURTAILMENT IMPACT ANALYSIS RESULTS ===\n")
	fmt.Fprintf(&b, "Plant: %s (capacity: %.1f MW)\n", cfg.PlantID, cfg.TurbineCapacityMW)
	fmt.Fprintf(&b, "Compensation rate: %.1f%%\n", cfg.CompensationRate*100)
	fmt.Fprintf(&b, "Analysis period: %d hours\n", cfg.HoursInPeriod)
	b.WriteString(line + "\n")

	fmt.Fprintf(&b, "Total curtailed energy (MWh): %.2f\n", result.TotalCurtailedEnergyMWh)
	fmt.Fprintf(&b, "Total missed revenue (EUR): %.2f\n", result.TotalMissedRevenue)
	fmt.Fprintf(&b, "Compensation paid (EUR): %.2f\n", result.TotalCompensation)
	fmt.Fprintf(&b, "Total redispatch cost (EUR): %.2f\n", result.TotalRedispatchCost)
	fmt.Fprintf(&b, "Total economic impact (EUR): %.2f\n", result.TotalEconomicImpact)
	fmt.Fprintf(&b, "Total CO2 emissions (tonnes): %.2f\n", result.TotalCO2Tonnes)
	fmt.Fprintf(&b, "Number of events: %d\n", result.EventCount)
	fmt.Fprintf(&b, "Processed events (with curtailment): %d\n", result.ProcessedEventCount)
	fmt.Fprintf(&b, "Total duration: %.0f minutes (%.1f hours, %.1f days)\n",
		result.TotalDurationMinutes, result.TotalDurationHours, result.TotalDurationDays)

	b.WriteString("\n=== KEY INSIGHTS ===\n")
	fmt.Fprintf(&b, "Average curtailed energy per event: %.2f MWh\n", result.AverageEnergyPerEventMWh)
	fmt.Fprintf(&b, "Capacity factor loss due to curtailment: %.2f%%\n", result.CapacityFactorLossPercent)
	fmt.Fprintf(&b, "Average electricity price during curtailment: %.2f EUR/MWh\n", result.AveragePriceDuringCurtailment)

	b.WriteString("\n=== DATA QUALITY ===\n")
	fmt.Fprintf(&b, "Raw rows: %d\n", run.Stats.Raw)
	fmt.Fprintf(&b, "Parse failures: %d\n", run.Stats.ParseFailures)
	fmt.Fprintf(&b, "Invalid time ranges: %d\n", run.Stats.InvalidRanges)
	fmt.Fprintf(&b, "Filtered out: %d\n", run.Stats.FilteredOut)
	fmt.Fprintf(&b, "Zero-level events dropped: %d\n", run.Stats.ZeroLevelDrops)
	fmt.Fprintf(&b, "Duration mismatches flagged: %d\n", run.Stats.DurationMismatches)
	fmt.Fprintf(&b, "Hours without market price: %d\n", run.Missing.MarketHours)
	fmt.Fprintf(&b, "Hours without redispatch price: %d\n", run.Missing.RedispatchHours)
	fmt.Fprintf(&b, "Hours without carbon intensity: %d\n", run.Missing.CarbonHours)

	if len(run.Stats.FlaggedSamples) > 0 {
		b.WriteString("\nFlagged events (stated vs computed duration):\n")
		for _, sample := range run.Stats.FlaggedSamples {
			fmt.Fprintf(&b, "  %s\n", sample)
		}
	}
	if run.AllInputRejected() {
		b.WriteString("\nWARNING: every raw event was rejected or filtered out; the zero totals above do not mean zero curtailment.\n")
	}
	return b.String()
}
