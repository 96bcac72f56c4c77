package curtailment

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestNewCurtailmentEventValidation(t *testing.T) {
	start := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

	if _, err := NewCurtailmentEvent("", start, start.Add(time.Hour), 60, 50); !errors.Is(err, ErrEmptyPlantID) {
		t.Fatalf("expected ErrEmptyPlantID, got %v", err)
	}
	if _, err := NewCurtailmentEvent("plant-1", start, start, 0, 50); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for zero-length event, got %v", err)
	}
	if _, err := NewCurtailmentEvent("plant-1", start.Add(time.Hour), start, 0, 50); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for reversed event, got %v", err)
	}
	if _, err := NewCurtailmentEvent("plant-1", start, start.Add(time.Hour), 0, 101); !errors.Is(err, ErrInvalidLevel) {
		t.Fatalf("expected ErrInvalidLevel, got %v", err)
	}
}

func TestCurtailedEnergyFormula(t *testing.T) {
	start := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
	event, err := NewCurtailmentEvent("plant-1", start, start.Add(30*time.Minute), 30, 50)
	if err != nil {
		t.Fatalf("new event: %v", err)
	}

	// 0.5 h x 2.3 MW x 0.5 = 0.575 MWh.
	if got := event.CurtailedEnergyMWh(2.3); math.Abs(got-0.575) > 1e-9 {
		t.Fatalf("expected 0.575 MWh, got %.9f", got)
	}
}

func TestDurationMismatch(t *testing.T) {
	start := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

	event, err := NewCurtailmentEvent("plant-1", start, start.Add(time.Hour), 60.5, 50)
	if err != nil {
		t.Fatalf("new event: %v", err)
	}
	if event.DurationMismatch(1) {
		t.Fatal("half a minute off must stay within tolerance")
	}

	event, err = NewCurtailmentEvent("plant-1", start, start.Add(time.Hour), 45, 50)
	if err != nil {
		t.Fatalf("new event: %v", err)
	}
	if !event.DurationMismatch(1) {
		t.Fatal("expected mismatch for 45 stated vs 60 computed")
	}

	// Missing stated duration is not a mismatch.
	event, err = NewCurtailmentEvent("plant-1", start, start.Add(time.Hour), 0, 50)
	if err != nil {
		t.Fatalf("new event: %v", err)
	}
	if event.DurationMismatch(1) {
		t.Fatal("missing stated duration must not flag")
	}
}

func TestZeroLevelEventHasNoImpact(t *testing.T) {
	start := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
	event, err := NewCurtailmentEvent("plant-1", start, start.Add(time.Hour), 60, 0)
	if err != nil {
		t.Fatalf("zero-level event must be constructible for audit: %v", err)
	}
	if event.HasImpact() {
		t.Fatal("zero-level event must carry no impact")
	}
	if got := event.CurtailedEnergyMWh(2.3); got != 0 {
		t.Fatalf("expected zero energy, got %.9f", got)
	}
}

func TestAnalysisConfigValidate(t *testing.T) {
	valid := AnalysisConfig{TurbineCapacityMW: 2.3, CompensationRate: 0.925, PlantID: "plant-1", HoursInPeriod: 8760}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name string
		cfg  AnalysisConfig
		want error
	}{
		{"zero capacity", AnalysisConfig{CompensationRate: 0.9, HoursInPeriod: 8760}, ErrInvalidCapacity},
		{"negative rate", AnalysisConfig{TurbineCapacityMW: 2.3, CompensationRate: -0.1, HoursInPeriod: 8760}, ErrInvalidCompensationRate},
		{"rate above one", AnalysisConfig{TurbineCapacityMW: 2.3, CompensationRate: 1.01, HoursInPeriod: 8760}, ErrInvalidCompensationRate},
		{"zero hours", AnalysisConfig{TurbineCapacityMW: 2.3, CompensationRate: 0.9}, ErrInvalidPeriodHours},
	}
	for _, tc := range cases {
		if err := tc.cfg.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}
