package application

import (
	"math"
	"testing"
	"time"

	curtailment "github.com/Saske77/eco-env-curtailment-analysis/internal/curtailment/domain"
	marketdata "github.com/Saske77/eco-env-curtailment-analysis/internal/marketdata/domain"
)

func testConfig() curtailment.AnalysisConfig {
	return curtailment.AnalysisConfig{
		TurbineCapacityMW: 2.3,
		CompensationRate:  0.925,
		PlantID:           "plant-1",
		HoursInPeriod:     8760,
	}
}

func mustEvent(t *testing.T, start, end time.Time, levelPercent float64) *curtailment.CurtailmentEvent {
	t.Helper()
	event, err := curtailment.NewCurtailmentEvent("plant-1", start, end, 0, levelPercent)
	if err != nil {
		t.Fatalf("new event: %v", err)
	}
	return event
}

func hourKey(t *testing.T, ts time.Time) marketdata.HourKey {
	t.Helper()
	key, err := marketdata.NewHourKey(ts)
	if err != nil {
		t.Fatalf("new hour key: %v", err)
	}
	return key
}

func TestApportionSingleHourEvent(t *testing.T) {
	start := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
	event := mustEvent(t, start, start.Add(30*time.Minute), 50)

	market := marketdata.NewHourlySeries(map[marketdata.HourKey]float64{
		hourKey(t, start): 80,
	})
	engine, err := NewApportionmentEngine(testConfig(), market, nil, nil)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	contributions, energy, _ := engine.Apportion(event)
	if len(contributions) != 1 {
		t.Fatalf("expected 1 slice, got %d", len(contributions))
	}
	if math.Abs(energy-0.575) > 1e-9 {
		t.Fatalf("expected 0.575 MWh, got %.9f", energy)
	}
	slice := contributions[0]
	if math.Abs(slice.EnergyMWh-0.575) > 1e-9 {
		t.Fatalf("expected slice energy 0.575, got %.9f", slice.EnergyMWh)
	}
	if math.Abs(slice.OverlapMinutes-30) > 1e-9 {
		t.Fatalf("expected 30 overlap minutes, got %.9f", slice.OverlapMinutes)
	}
	if math.Abs(slice.MissedRevenue-0.575*80) > 1e-9 {
		t.Fatalf("expected missed revenue %.4f, got %.9f", 0.575*80, slice.MissedRevenue)
	}
	if math.Abs(slice.Compensation-0.575*80*0.925) > 1e-9 {
		t.Fatalf("expected compensation %.4f, got %.9f", 0.575*80*0.925, slice.Compensation)
	}
}

func TestApportionBoundaryStraddlingEvent(t *testing.T) {
	start := time.Date(2024, time.March, 5, 10, 45, 0, 0, time.UTC)
	event := mustEvent(t, start, start.Add(30*time.Minute), 100)

	engine, err := NewApportionmentEngine(testConfig(), nil, nil, nil)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	contributions, energy, _ := engine.Apportion(event)
	if len(contributions) != 2 {
		t.Fatalf("expected 2 slices, got %d", len(contributions))
	}
	if math.Abs(energy-1.15) > 1e-9 {
		t.Fatalf("expected 1.15 MWh total, got %.9f", energy)
	}
	for i, slice := range contributions {
		if math.Abs(slice.OverlapMinutes-15) > 1e-9 {
			t.Fatalf("slice %d: expected 15 overlap minutes, got %.9f", i, slice.OverlapMinutes)
		}
		if math.Abs(slice.EnergyMWh-0.575) > 1e-9 {
			t.Fatalf("slice %d: expected 0.575 MWh, got %.9f", i, slice.EnergyMWh)
		}
	}
	if contributions[0].Hour == contributions[1].Hour {
		t.Fatalf("expected distinct hour buckets, both were %s", contributions[0].Hour)
	}
}

func TestApportionEnergyConservation(t *testing.T) {
	start := time.Date(2024, time.November, 12, 9, 17, 0, 0, time.UTC)
	event := mustEvent(t, start, start.Add(4*time.Hour+25*time.Minute), 37)

	engine, err := NewApportionmentEngine(testConfig(), nil, nil, nil)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	contributions, energy, _ := engine.Apportion(event)
	var sum float64
	for _, slice := range contributions {
		sum += slice.EnergyMWh
	}
	if math.Abs(sum-energy) > 1e-9*math.Abs(energy) {
		t.Fatalf("energy not conserved: slices sum to %.12f, event total %.12f", sum, energy)
	}
	direct := event.CurtailedEnergyMWh(2.3)
	if math.Abs(energy-direct) > 1e-9 {
		t.Fatalf("expected total %.12f, got %.12f", direct, energy)
	}
}

func TestApportionMissingDataNeutrality(t *testing.T) {
	start := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
	event := mustEvent(t, start, start.Add(time.Hour), 100)
	key := hourKey(t, start)

	redispatch := marketdata.NewHourlySeries(map[marketdata.HourKey]float64{key: 50})
	carbon := marketdata.NewHourlySeries(map[marketdata.HourKey]float64{key: 400})
	engine, err := NewApportionmentEngine(testConfig(), nil, redispatch, carbon)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	contributions, _, missing := engine.Apportion(event)
	if len(contributions) != 1 {
		t.Fatalf("expected 1 slice, got %d", len(contributions))
	}
	slice := contributions[0]
	if slice.MissedRevenue != 0 || slice.Compensation != 0 {
		t.Fatalf("expected zero revenue/compensation with missing market data, got %.4f / %.4f",
			slice.MissedRevenue, slice.Compensation)
	}
	if math.Abs(slice.RedispatchCost-2.3*50) > 1e-9 {
		t.Fatalf("expected redispatch cost %.4f, got %.9f", 2.3*50.0, slice.RedispatchCost)
	}
	if math.Abs(slice.CO2Tonnes-2.3*400/1000) > 1e-9 {
		t.Fatalf("expected %.4f tonnes, got %.9f", 2.3*400/1000, slice.CO2Tonnes)
	}
	if missing.MarketHours != 1 || missing.RedispatchHours != 0 || missing.CarbonHours != 0 {
		t.Fatalf("unexpected missing counters: %+v", missing)
	}
}

func TestApportionInvalidConfigRejected(t *testing.T) {
	cfg := testConfig()
	cfg.TurbineCapacityMW = 0
	if _, err := NewApportionmentEngine(cfg, nil, nil, nil); err == nil {
		t.Fatal("expected error for non-positive capacity")
	}

	cfg = testConfig()
	cfg.CompensationRate = 1.5
	if _, err := NewApportionmentEngine(cfg, nil, nil, nil); err == nil {
		t.Fatal("expected error for compensation rate above 1")
	}

	cfg = testConfig()
	cfg.HoursInPeriod = 0
	if _, err := NewApportionmentEngine(cfg, nil, nil, nil); err == nil {
		t.Fatal("expected error for non-positive period hours")
	}
}
