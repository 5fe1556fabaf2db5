package fuel

import "errors"

var (
	ErrFuelEntryNotFound = errors.New("fuel entry not found")
)
