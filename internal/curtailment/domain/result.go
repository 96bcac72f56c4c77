package curtailment

// AggregateResult is the finalized outcome of one analysis run.
// Built incrementally by the aggregator, read-only once finalized.
// All money figures are EUR, energy is MWh, emissions are tonnes CO2.
type AggregateResult struct {
	TotalCurtailedEnergyMWh float64
	TotalMissedRevenue      float64
	TotalCompensation       float64
	TotalRedispatchCost     float64
	TotalEconomicImpact     float64
	TotalCO2Tonnes          float64

	// EventCount covers every event that survived parsing and
	// filtering, zero-level events included. ProcessedEventCount covers
	// only events that carried impact.
	EventCount          int
	ProcessedEventCount int

	TotalDurationMinutes float64
	TotalDurationHours   float64
	TotalDurationDays    float64

	AverageEnergyPerEventMWh  float64
	CapacityFactorLossPercent float64
	// AveragePriceDuringCurtailment is the energy-weighted average
	// market price over all curtailed energy; zero when no energy was
	// curtailed.
	AveragePriceDuringCurtailment float64
}
