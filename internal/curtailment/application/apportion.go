package application

import (
	"time"

	curtailment "github.com/Saske77/eco-env-curtailment-analysis/internal/curtailment/domain"
	marketdata "github.com/Saske77/eco-env-curtailment-analysis/internal/marketdata/domain"
)

// MissingData counts hour lookups that found no value, per series.
// A missing hour is a valid state: the slice contributes zero for that
// series instead of aborting or extrapolating.
type MissingData struct {
	MarketHours     int
	RedispatchHours int
	CarbonHours     int
}

// Add folds another counter set into this one.
func (m *MissingData) Add(other MissingData) {
	m.MarketHours += other.MarketHours
	m.RedispatchHours += other.RedispatchHours
	m.CarbonHours += other.CarbonHours
}

// ApportionmentEngine distributes an event's curtailed energy across
// the hourly buckets it overlaps and joins each bucket against the
// market, redispatch and carbon series. Pure computation over
// already-validated input.
type ApportionmentEngine struct {
	capacityMW       float64
	compensationRate float64

	market     *marketdata.HourlySeries
	redispatch *marketdata.HourlySeries
	carbon     *marketdata.HourlySeries
}

// NewApportionmentEngine constructs an engine. Nil series are treated
// as empty (every lookup misses).
func NewApportionmentEngine(cfg curtailment.AnalysisConfig, market, redispatch, carbon *marketdata.HourlySeries) (*ApportionmentEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if market == nil {
		market = marketdata.EmptyHourlySeries()
	}
	if redispatch == nil {
		redispatch = marketdata.EmptyHourlySeries()
	}
	if carbon == nil {
		carbon = marketdata.EmptyHourlySeries()
	}

	return &ApportionmentEngine{
		capacityMW:       cfg.TurbineCapacityMW,
		compensationRate: cfg.CompensationRate,
		market:           market,
		redispatch:       redispatch,
		carbon:           carbon,
	}, nil
}

// Apportion walks the event hour by hour and produces one contribution
// per overlapped bucket, plus the event's total curtailed energy.
// The slice energies sum to the total exactly: each slice carries
// energy x overlap/duration.
func (e *ApportionmentEngine) Apportion(event *curtailment.CurtailmentEvent) ([]curtailment.EventContribution, float64, MissingData) {
	var missing MissingData
	if event == nil {
		return nil, 0, missing
	}

	energy := event.CurtailedEnergyMWh(e.capacityMW)
	duration := event.DurationMinutes()
	end := event.End()

	var contributions []curtailment.EventContribution
	cursor := event.Start()
	for cursor.Before(end) {
		hourStart := time.Date(cursor.Year(), cursor.Month(), cursor.Day(), cursor.Hour(), 0, 0, 0, cursor.Location())
		segmentEnd := hourStart.Add(time.Hour)
		if segmentEnd.After(end) {
			segmentEnd = end
		}
		overlapMinutes := segmentEnd.Sub(cursor).Minutes()
		sliceEnergy := energy * overlapMinutes / duration

		key, err := marketdata.NewHourKey(hourStart)
		if err != nil {
			// Unreachable for validated events; skip the slice rather
			// than fabricate a bucket.
			cursor = segmentEnd
			continue
		}

		marketPrice, ok := e.market.Value(key)
		if !ok {
			missing.MarketHours++
		}
		redispatchPrice, ok := e.redispatch.Value(key)
		if !ok {
			missing.RedispatchHours++
		}
		carbonIntensity, ok := e.carbon.Value(key)
		if !ok {
			missing.CarbonHours++
		}

		missedRevenue := sliceEnergy * marketPrice
		contributions = append(contributions, curtailment.EventContribution{
			Hour:           key,
			OverlapMinutes: overlapMinutes,
			EnergyMWh:      sliceEnergy,
			MissedRevenue:  missedRevenue,
			Compensation:   missedRevenue * e.compensationRate,
			RedispatchCost: sliceEnergy * redispatchPrice,
			// MWh x g/kWh -> kg -> tonnes nets out to /1000.
			CO2Tonnes: sliceEnergy * carbonIntensity / 1000,
		})

		cursor = segmentEnd
	}

	return contributions, energy, missing
}
