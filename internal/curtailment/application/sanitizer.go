package application

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	curtailment "github.com/Saske77/eco-env-curtailment-analysis/internal/curtailment/domain"
)

// Source timestamps use the same day-first civil layout as the price
// series, with or without seconds.
var eventTimestampLayouts = []string{
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

const (
	// durationToleranceMinutes is the slack allowed between stated and
	// computed duration before an event is flagged.
	durationToleranceMinutes = 1.0
	maxFlaggedSamples        = 5
)

// RawEvent is one curtailment row as delivered by the file loader:
// named fields, not yet parsed into domain types.
type RawEvent struct {
	PlantID               string
	Start                 string
	End                   string
	StatedDurationMinutes string
	// LevelPercent is the curtailment level (not the remaining
	// capacity); the loader converts source conventions before this
	// point.
	LevelPercent float64
}

// KeepFunc decides whether a parsed event belongs to this analysis.
type KeepFunc func(*curtailment.CurtailmentEvent) bool

// FilterPlant keeps events of a single plant. An empty plant id keeps
// everything.
func FilterPlant(plantID string) KeepFunc {
	return func(e *curtailment.CurtailmentEvent) bool {
		return plantID == "" || e.PlantID() == plantID
	}
}

// FilterPlantYear keeps events of one plant starting in one year.
func FilterPlantYear(plantID string, year int) KeepFunc {
	plant := FilterPlant(plantID)
	return func(e *curtailment.CurtailmentEvent) bool {
		return plant(e) && e.Start().Year() == year
	}
}

// SanitizeStats counts what happened to the raw event rows.
// Audited covers every event that survived parsing and filtering,
// zero-level events included; Kept covers only events with impact.
type SanitizeStats struct {
	Raw                int
	ParseFailures      int
	InvalidRanges      int
	FilteredOut        int
	ZeroLevelDrops     int
	DurationMismatches int
	Audited            int
	Kept               int
	// FlaggedSamples holds a short sample of duration-mismatch events
	// for the report.
	FlaggedSamples []string
}

// EventSanitizer validates and repairs raw curtailment rows.
type EventSanitizer struct {
	keep   KeepFunc
	logger *log.Logger
}

// NewEventSanitizer constructs a sanitizer. A nil predicate keeps all
// events.
func NewEventSanitizer(keep KeepFunc, logger *log.Logger) *EventSanitizer {
	if keep == nil {
		keep = func(*curtailment.CurtailmentEvent) bool { return true }
	}
	return &EventSanitizer{keep: keep, logger: logger}
}

// Sanitize turns raw rows into impactful events. Defective rows are
// dropped and counted, never fatal. Timestamps are interpreted in loc,
// the canonical analysis zone.
func (s *EventSanitizer) Sanitize(raw []RawEvent, loc *time.Location) ([]*curtailment.CurtailmentEvent, SanitizeStats) {
	stats := SanitizeStats{Raw: len(raw)}
	events := make([]*curtailment.CurtailmentEvent, 0, len(raw))

	for _, row := range raw {
		start, okStart := parseEventTimestamp(row.Start, loc)
		end, okEnd := parseEventTimestamp(row.End, loc)
		if !okStart || !okEnd {
			stats.ParseFailures++
			continue
		}
		if !end.After(start) {
			stats.InvalidRanges++
			continue
		}

		stated := parseStatedDuration(row.StatedDurationMinutes)
		event, err := curtailment.NewCurtailmentEvent(row.PlantID, start, end, stated, clampLevel(row.LevelPercent))
		if err != nil {
			stats.ParseFailures++
			continue
		}

		if !s.keep(event) {
			stats.FilteredOut++
			continue
		}
		stats.Audited++

		if event.DurationMismatch(durationToleranceMinutes) {
			stats.DurationMismatches++
			if len(stats.FlaggedSamples) < maxFlaggedSamples {
				stats.FlaggedSamples = append(stats.FlaggedSamples, fmt.Sprintf(
					"%s %s: stated %.0f min, computed %.0f min",
					event.PlantID(), event.Start().Format("02.01.2006 15:04"),
					event.StatedDurationMinutes(), event.DurationMinutes()))
			}
		}

		if !event.HasImpact() {
			stats.ZeroLevelDrops++
			continue
		}

		stats.Kept++
		events = append(events, event)
	}

	if s.logger != nil {
		s.logger.Printf("sanitized %d/%d events (%d parse failures, %d invalid ranges, %d filtered, %d zero-level, %d duration mismatches)",
			stats.Kept, stats.Raw, stats.ParseFailures, stats.InvalidRanges,
			stats.FilteredOut, stats.ZeroLevelDrops, stats.DurationMismatches)
	}
	return events, stats
}

func parseEventTimestamp(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range eventTimestampLayouts {
		if ts, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// parseStatedDuration returns 0 when the source omitted the duration or
// reported a non-positive value; the computed duration takes over then.
func parseStatedDuration(raw string) float64 {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value <= 0 {
		return 0
	}
	return value
}

func clampLevel(level float64) float64 {
	if level < 0 {
		return 0
	}
	if level > 100 {
		return 100
	}
	return level
}
