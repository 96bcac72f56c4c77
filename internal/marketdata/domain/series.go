package marketdata

import "time"

// HourKey is the canonical lookup key for one civil hour.
// It is derived from the hour start in the canonical analysis zone, so
// keys built from different source zones compare equal when they mean
// the same local hour.
type HourKey string

const hourKeyLayout = "2006-01-02T15"

// NewHourKey builds the key for the hour containing t.
// The key is taken from t's own location; callers convert to the
// canonical zone first.
func NewHourKey(t time.Time) (HourKey, error) {
	if t.IsZero() {
		return "", ErrInvalidTimestamp
	}
	return HourKey(t.Format(hourKeyLayout)), nil
}

// String returns the raw key string.
func (k HourKey) String() string { return string(k) }

// Zone tags which civil-time zone a raw series is recorded in.
type Zone string

const (
	// ZoneLocal marks series stamped in local civil time (market, redispatch).
	ZoneLocal Zone = "LOCAL"
	// ZoneUTC marks series stamped in UTC (grid carbon intensity).
	ZoneUTC Zone = "UTC"
)

// IsValid checks if the zone is one of the supported tags.
func (z Zone) IsValid() bool {
	switch z {
	case ZoneLocal, ZoneUTC:
		return true
	default:
		return false
	}
}

// HourlySeries is an immutable hour-keyed lookup of numeric values.
// An absent key is a legal state and means "no data for this hour";
// lookups are exact-match, never interpolated.
type HourlySeries struct {
	values map[HourKey]float64
}

// NewHourlySeries builds a series from a key->value map. The map is
// copied so the series cannot be mutated through the argument.
func NewHourlySeries(values map[HourKey]float64) *HourlySeries {
	copied := make(map[HourKey]float64, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &HourlySeries{values: copied}
}

// EmptyHourlySeries builds a series with no data; every lookup misses.
func EmptyHourlySeries() *HourlySeries {
	return &HourlySeries{values: map[HourKey]float64{}}
}

// Value returns the value for the hour and whether it is present.
func (s *HourlySeries) Value(key HourKey) (float64, bool) {
	if s == nil {
		return 0, false
	}
	v, ok := s.values[key]
	return v, ok
}

// Len returns the number of hours carrying data.
func (s *HourlySeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Keys returns the hours carrying data, in map order.
func (s *HourlySeries) Keys() []HourKey {
	if s == nil {
		return nil
	}
	keys := make([]HourKey, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	return keys
}

// Stats returns min, max and mean over all present values.
// ok is false when the series is empty.
func (s *HourlySeries) Stats() (min, max, mean float64, ok bool) {
	if s == nil || len(s.values) == 0 {
		return 0, 0, 0, false
	}
	first := true
	var sum float64
	for _, v := range s.values {
		if first {
			min, max = v, v
			first = false
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	return min, max, sum / float64(len(s.values)), true
}
