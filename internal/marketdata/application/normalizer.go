package application

import (
	"log"
	"strconv"
	"strings"
	"time"

	marketdata "github.com/Saske77/eco-env-curtailment-analysis/internal/marketdata/domain"
)

// Source timestamp layouts. Market and redispatch files use the
// day-first civil layout; the carbon-mix export stamps hours in
// ISO order.
var timestampLayouts = []string{
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// RawPoint is one (timestamp, value) row as read from a source file,
// not yet parsed into domain types.
type RawPoint struct {
	Timestamp string
	Value     string
}

// NormalizeStats counts what happened to the rows of one series.
type NormalizeStats struct {
	Rows       int
	Parsed     int
	BadTime    int
	BadValue   int
	Overwrites int
}

// Dropped returns the number of rows that did not make it into the series.
func (s NormalizeStats) Dropped() int { return s.BadTime + s.BadValue }

// SeriesNormalizer converts raw (timestamp, value) rows into a
// canonical hourly lookup keyed in one local zone.
type SeriesNormalizer struct {
	local  *time.Location
	logger *log.Logger
}

// NewSeriesNormalizer constructs a normalizer for the given canonical zone.
func NewSeriesNormalizer(local *time.Location, logger *log.Logger) (*SeriesNormalizer, error) {
	if local == nil {
		return nil, marketdata.ErrNilLocation
	}
	return &SeriesNormalizer{local: local, logger: logger}, nil
}

// Normalize builds an hourly series from raw rows recorded in the given
// source zone. Unparsable rows are dropped and counted, never fatal.
// Duplicate hour keys are resolved last-write-wins: source files are
// chronologically ordered, so a later row supersedes an earlier one.
func (n *SeriesNormalizer) Normalize(name string, points []RawPoint, zone marketdata.Zone) (*marketdata.HourlySeries, NormalizeStats, error) {
	if !zone.IsValid() {
		return nil, NormalizeStats{}, marketdata.ErrUnknownZone
	}

	stats := NormalizeStats{Rows: len(points)}
	values := make(map[marketdata.HourKey]float64, len(points))

	for _, p := range points {
		ts, ok := n.parseTimestamp(p.Timestamp, zone)
		if !ok {
			stats.BadTime++
			continue
		}
		value, ok := parseNumber(p.Value)
		if !ok {
			stats.BadValue++
			continue
		}

		key, err := marketdata.NewHourKey(ts.In(n.local))
		if err != nil {
			stats.BadTime++
			continue
		}
		if _, exists := values[key]; exists {
			stats.Overwrites++
		}
		values[key] = value
		stats.Parsed++
	}

	series := marketdata.NewHourlySeries(values)
	if n.logger != nil {
		if min, max, mean, ok := series.Stats(); ok {
			n.logger.Printf("series %s: %d hours (dropped %d), range %.2f to %.2f, mean %.2f",
				name, series.Len(), stats.Dropped(), min, max, mean)
		} else {
			n.logger.Printf("series %s: no usable rows (%d dropped)", name, stats.Dropped())
		}
	}
	return series, stats, nil
}

func (n *SeriesNormalizer) parseTimestamp(raw string, zone marketdata.Zone) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	loc := n.local
	if zone == marketdata.ZoneUTC {
		loc = time.UTC
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// parseNumber accepts both dot and comma decimal separators; the
// market and redispatch exports use the comma.
func parseNumber(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "-" {
		return 0, false
	}
	raw = strings.ReplaceAll(raw, ",", ".")
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
