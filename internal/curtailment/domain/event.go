package curtailment

import "time"

// CurtailmentEvent is one sanitized curtailment interval for a plant.
// Invariants:
// 1) end is strictly after start.
// 2) levelPercent is within [0,100]; zero-level events carry no impact
//    and are excluded from impact computation by the sanitizer.
// The event is immutable once built and is consumed exactly once by
// the apportionment engine.
type CurtailmentEvent struct {
	plantID string
	start   time.Time
	end     time.Time

	statedDurationMinutes float64
	levelPercent          float64
}

// NewCurtailmentEvent creates a sanitized event.
// statedDurationMinutes is the duration as reported by the source; it
// may be zero or negative when the source omitted it, in which case the
// computed duration is the only one that exists.
func NewCurtailmentEvent(plantID string, start, end time.Time, statedDurationMinutes, levelPercent float64) (*CurtailmentEvent, error) {
	if plantID == "" {
		return nil, ErrEmptyPlantID
	}
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return nil, ErrInvalidRange
	}
	if levelPercent < 0 || levelPercent > 100 {
		return nil, ErrInvalidLevel
	}

	return &CurtailmentEvent{
		plantID:               plantID,
		start:                 start,
		end:                   end,
		statedDurationMinutes: statedDurationMinutes,
		levelPercent:          levelPercent,
	}, nil
}

// PlantID returns the plant identifier.
func (e *CurtailmentEvent) PlantID() string { return e.plantID }

// Start returns the event start in local civil time.
func (e *CurtailmentEvent) Start() time.Time { return e.start }

// End returns the event end in local civil time.
func (e *CurtailmentEvent) End() time.Time { return e.end }

// LevelPercent returns the curtailment level in percent.
func (e *CurtailmentEvent) LevelPercent() float64 { return e.levelPercent }

// StatedDurationMinutes returns the duration as reported by the source.
func (e *CurtailmentEvent) StatedDurationMinutes() float64 { return e.statedDurationMinutes }

// DurationMinutes returns the duration derived from the timestamps.
// This value is authoritative for all downstream math: it comes from
// the same timestamps used for bucket overlap.
func (e *CurtailmentEvent) DurationMinutes() float64 {
	return e.end.Sub(e.start).Minutes()
}

// HasImpact tells whether the event contributes to the totals.
func (e *CurtailmentEvent) HasImpact() bool { return e.levelPercent > 0 }

// DurationMismatch reports whether the stated duration disagrees with
// the computed one beyond the tolerance. A mismatch is a data-quality
// signal, not fatal; a missing stated duration is not a mismatch.
func (e *CurtailmentEvent) DurationMismatch(toleranceMinutes float64) bool {
	if e.statedDurationMinutes <= 0 {
		return false
	}
	diff := e.statedDurationMinutes - e.DurationMinutes()
	if diff < 0 {
		diff = -diff
	}
	return diff > toleranceMinutes
}

// CurtailedEnergyMWh is the single formula governing all downstream
// monetary and emission math: duration x capacity x level.
func (e *CurtailmentEvent) CurtailedEnergyMWh(capacityMW float64) float64 {
	return e.DurationMinutes() / 60 * capacityMW * e.levelPercent / 100
}
