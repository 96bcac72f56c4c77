package curtailment

import (
	marketdata "github.com/Saske77/eco-env-curtailment-analysis/internal/marketdata/domain"
)

// EventContribution is the impact of one event slice inside one hour
// bucket. The sum of EnergyMWh over all slices of one event reproduces
// the event total exactly; each slice's overlap is bounded by both the
// event's remaining duration and the bucket width.
// Contributions are transient: produced by the apportionment engine and
// folded immediately into the aggregator's running totals.
type EventContribution struct {
	Hour           marketdata.HourKey
	OverlapMinutes float64
	EnergyMWh      float64
	MissedRevenue  float64
	Compensation   float64
	RedispatchCost float64
	CO2Tonnes      float64
}
