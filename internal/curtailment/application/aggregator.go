package application

import (
	curtailment "github.com/Saske77/eco-env-curtailment-analysis/internal/curtailment/domain"
)

// Aggregator folds event contributions into running totals.
// Sums are plain and order-independent; the aggregator is the only
// mutable state of a run and has a single owner.
type Aggregator struct {
	cfg curtailment.AnalysisConfig

	energyMWh       float64
	missedRevenue   float64
	compensation    float64
	redispatchCost  float64
	co2Tonnes       float64
	durationMinutes float64
	processed       int
}

// NewAggregator constructs an aggregator for one run.
func NewAggregator(cfg curtailment.AnalysisConfig) (*Aggregator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Aggregator{cfg: cfg}, nil
}

// AddEvent folds one event's contributions into the totals.
func (a *Aggregator) AddEvent(event *curtailment.CurtailmentEvent, contributions []curtailment.EventContribution) {
	if event == nil {
		return
	}
	a.processed++
	a.durationMinutes += event.DurationMinutes()
	for _, c := range contributions {
		a.energyMWh += c.EnergyMWh
		a.missedRevenue += c.MissedRevenue
		a.compensation += c.Compensation
		a.redispatchCost += c.RedispatchCost
		a.co2Tonnes += c.CO2Tonnes
	}
}

// Finalize computes the derived insights and returns the result.
// auditedEvents is the raw event count including zero-level events,
// which never reach AddEvent.
func (a *Aggregator) Finalize(auditedEvents int) curtailment.AggregateResult {
	result := curtailment.AggregateResult{
		TotalCurtailedEnergyMWh: a.energyMWh,
		TotalMissedRevenue:      a.missedRevenue,
		TotalCompensation:       a.compensation,
		TotalRedispatchCost:     a.redispatchCost,
		TotalEconomicImpact:     a.compensation + a.redispatchCost,
		TotalCO2Tonnes:          a.co2Tonnes,
		EventCount:              auditedEvents,
		ProcessedEventCount:     a.processed,
		TotalDurationMinutes:    a.durationMinutes,
		TotalDurationHours:      a.durationMinutes / 60,
		TotalDurationDays:       a.durationMinutes / 1440,
	}

	result.CapacityFactorLossPercent = 100 * a.energyMWh /
		(a.cfg.TurbineCapacityMW * float64(a.cfg.HoursInPeriod))
	if a.processed > 0 {
		result.AverageEnergyPerEventMWh = a.energyMWh / float64(a.processed)
	}
	if a.energyMWh > 0 {
		result.AveragePriceDuringCurtailment = a.missedRevenue / a.energyMWh
	}
	return result
}
