package marketdata

import "errors"

var (
	// ErrInvalidTimestamp is returned when an hour key is built from a zero time.
	ErrInvalidTimestamp = errors.New("marketdata: invalid timestamp")
	// ErrUnknownZone is returned when a series zone tag is not recognized.
	ErrUnknownZone = errors.New("marketdata: unknown series zone")
	// ErrNilLocation is returned when a canonical location is missing.
	ErrNilLocation = errors.New("marketdata: nil location")
)
