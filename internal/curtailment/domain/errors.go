package curtailment

import "errors"

var (
	// ErrEmptyPlantID is returned when the plant identifier is empty.
	ErrEmptyPlantID = errors.New("curtailment: empty plant id")
	// ErrInvalidRange is returned when an event does not end after it starts.
	ErrInvalidRange = errors.New("curtailment: event end not after start")
	// ErrInvalidLevel is returned when the curtailment level is outside [0,100].
	ErrInvalidLevel = errors.New("curtailment: level outside [0,100]")
	// ErrInvalidCapacity is returned when the turbine capacity is not positive.
	ErrInvalidCapacity = errors.New("curtailment: turbine capacity must be positive")
	// ErrInvalidCompensationRate is returned when the rate is outside [0,1].
	ErrInvalidCompensationRate = errors.New("curtailment: compensation rate outside [0,1]")
	// ErrInvalidPeriodHours is returned when the analysis period is not positive.
	ErrInvalidPeriodHours = errors.New("curtailment: analysis period hours must be positive")
	// ErrNilRun is returned when saving a nil run record.
	ErrNilRun = errors.New("curtailment: nil run record")
	// ErrRunNotFound is returned when no run record exists for a plant.
	ErrRunNotFound = errors.New("curtailment: run not found")
)
