package company

import "time"

// Company is a fleet operator. Every other record is scoped to one.
type Company struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
