package driver

import "errors"

var (
	ErrDriverNotFound     = errors.New("driver not found")
	ErrDriverMobileExists = errors.New("driver mobile already registered")
	ErrDriverInactive     = errors.New("driver is inactive")
	ErrLoginEmailExists   = errors.New("login email already registered")
)
