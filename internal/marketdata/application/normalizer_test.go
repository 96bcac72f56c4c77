package application

import (
	"math"
	"testing"
	"time"

	marketdata "github.com/Saske77/eco-env-curtailment-analysis/internal/marketdata/domain"
)

func TestNormalizeDayFirstTimestampsAndDecimalComma(t *testing.T) {
	normalizer, err := NewSeriesNormalizer(time.UTC, nil)
	if err != nil {
		t.Fatalf("new normalizer: %v", err)
	}

	series, stats, err := normalizer.Normalize("market", []RawPoint{
		{Timestamp: "05.03.2024 10:00", Value: "81,47"},
		{Timestamp: "05.03.2024 11:00", Value: "95.2"},
	}, marketdata.ZoneLocal)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if stats.Parsed != 2 || stats.Dropped() != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	value, ok := series.Value(marketdata.HourKey("2024-03-05T10"))
	if !ok {
		t.Fatal("expected value for 10:00 hour")
	}
	if math.Abs(value-81.47) > 1e-9 {
		t.Fatalf("expected 81.47, got %.9f", value)
	}
}

func TestNormalizeDropsUnparsableRows(t *testing.T) {
	normalizer, err := NewSeriesNormalizer(time.UTC, nil)
	if err != nil {
		t.Fatalf("new normalizer: %v", err)
	}

	series, stats, err := normalizer.Normalize("market", []RawPoint{
		{Timestamp: "bogus", Value: "81,47"},
		{Timestamp: "05.03.2024 10:00", Value: "n/a"},
		{Timestamp: "05.03.2024 11:00", Value: "-"},
		{Timestamp: "05.03.2024 12:00", Value: "42"},
	}, marketdata.ZoneLocal)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if stats.BadTime != 1 || stats.BadValue != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if series.Len() != 1 {
		t.Fatalf("expected 1 usable hour, got %d", series.Len())
	}
}

func TestNormalizeLastWriteWins(t *testing.T) {
	normalizer, err := NewSeriesNormalizer(time.UTC, nil)
	if err != nil {
		t.Fatalf("new normalizer: %v", err)
	}

	series, stats, err := normalizer.Normalize("market", []RawPoint{
		{Timestamp: "05.03.2024 10:00", Value: "10"},
		{Timestamp: "05.03.2024 10:00", Value: "20"},
	}, marketdata.ZoneLocal)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if stats.Overwrites != 1 {
		t.Fatalf("expected 1 overwrite, got %d", stats.Overwrites)
	}
	value, _ := series.Value(marketdata.HourKey("2024-03-05T10"))
	if value != 20 {
		t.Fatalf("expected the later row to win, got %.2f", value)
	}
}

func TestNormalizeConvertsUTCToLocal(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	normalizer, err := NewSeriesNormalizer(berlin, nil)
	if err != nil {
		t.Fatalf("new normalizer: %v", err)
	}

	series, _, err := normalizer.Normalize("carbon", []RawPoint{
		// June: CEST, UTC+2.
		{Timestamp: "2024-06-01 10:00:00", Value: "380"},
		// January: CET, UTC+1.
		{Timestamp: "2024-01-15 10:00:00", Value: "420"},
	}, marketdata.ZoneUTC)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if _, ok := series.Value(marketdata.HourKey("2024-06-01T12")); !ok {
		t.Fatal("expected summer UTC hour shifted to 12:00 local")
	}
	if _, ok := series.Value(marketdata.HourKey("2024-01-15T11")); !ok {
		t.Fatal("expected winter UTC hour shifted to 11:00 local")
	}
}

func TestNormalizeRejectsUnknownZone(t *testing.T) {
	normalizer, err := NewSeriesNormalizer(time.UTC, nil)
	if err != nil {
		t.Fatalf("new normalizer: %v", err)
	}
	if _, _, err := normalizer.Normalize("x", nil, marketdata.Zone("BOGUS")); err == nil {
		t.Fatal("expected error for unknown zone")
	}
}
