package curtailment

// AnalysisConfig carries the knobs every downstream figure is scaled by.
// It is threaded explicitly into the sanitizer, engine and aggregator,
// never held as ambient state, so one process can analyze several
// turbines with different configurations.
type AnalysisConfig struct {
	// TurbineCapacityMW is the rated capacity of the analyzed turbine.
	TurbineCapacityMW float64
	// CompensationRate is the fraction of missed revenue paid back to
	// the operator as statutory compensation.
	CompensationRate float64
	// PlantID selects the curtailment rows belonging to one turbine.
	PlantID string
	// HoursInPeriod is the caller-supplied analysis period length
	// (8760 for a calendar year). Curtailment events are sparse and do
	// not bound the period, so it is never inferred from the data span.
	HoursInPeriod int
}

// Validate rejects configurations the run must not proceed with.
func (c AnalysisConfig) Validate() error {
	if c.TurbineCapacityMW <= 0 {
		return ErrInvalidCapacity
	}
	if c.CompensationRate < 0 || c.CompensationRate > 1 {
		return ErrInvalidCompensationRate
	}
	if c.HoursInPeriod <= 0 {
		return ErrInvalidPeriodHours
	}
	return nil
}
