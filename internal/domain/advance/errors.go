package advance

import "errors"

var (
	ErrAdvanceNotFound       = errors.New("advance not found")
	ErrRecoveryExceedsAmount = errors.New("recovered amount cannot exceed the advance amount")
	ErrAdvanceHasRecovery    = errors.New("advance with recoveries cannot be deleted")
)
