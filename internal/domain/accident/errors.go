package accident

import "errors"

var (
	ErrAccidentLogNotFound = errors.New("accident log not found")
)
