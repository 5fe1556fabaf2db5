package duty

import "errors"

var (
	// Punch errors
	ErrAlreadyPunchedIn   = errors.New("driver already has an open duty")
	ErrNotPunchedIn       = errors.New("driver has no open duty")
	ErrOdometerBackwards  = errors.New("end odometer is lower than start odometer")
	ErrDriverIDRequired   = errors.New("driver_id is required")
	ErrPunchPhotoRequired = errors.New("punch photo is required")

	// General errors
	ErrDutyNotFound = errors.New("duty record not found")
	ErrDutyClosed   = errors.New("duty is already closed")
)
