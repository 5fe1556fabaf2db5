package salary

import "errors"

var (
	ErrInvalidPeriod  = errors.New("invalid salary period")
	ErrDriverNotFound = errors.New("driver not found")
)
