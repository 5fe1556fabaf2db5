package fastag

import "errors"

var (
	ErrRechargeNotFound        = errors.New("fastag recharge not found")
	ErrDuplicateTransactionRef = errors.New("transaction reference already recorded")
)
