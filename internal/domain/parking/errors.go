package parking

import "errors"

var (
	ErrParkingEntryNotFound = errors.New("parking entry not found")
	ErrAlreadyReviewed      = errors.New("parking entry has already been reviewed")
	ErrDutyMismatch         = errors.New("parking entry does not belong to this duty")
	ErrCannotDeleteApproved = errors.New("approved driver claims cannot be deleted")
)
