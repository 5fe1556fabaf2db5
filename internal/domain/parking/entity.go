package parking

import (
	"time"

	"github.com/shopspring/decimal"
)

type Source string

const (
	SourceDriver Source = "Driver"
	SourceAdmin  Source = "Admin"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

type ParkingEntry struct {
	ID              string
	CompanyID       string
	DriverID        string
	DutyID          *string
	EntryDate       time.Time
	Amount          decimal.Decimal
	Source          Source
	Location        *string
	Remark          *string
	ReceiptURL      *string
	Status          Status
	ReviewedBy      *string
	ReviewedAt      *time.Time
	RejectionReason *string
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Joined fields
	DriverName    *string
	VehicleNumber *string
}

// Reimbursable reports whether the entry is paid back with the salary.
func (p ParkingEntry) Reimbursable() bool {
	return p.Status == StatusApproved
}

// InitialStatus is the status a new entry starts in: admin entries are
// trusted, driver claims wait for review.
func InitialStatus(source Source) Status {
	if source == SourceAdmin {
		return StatusApproved
	}
	return StatusPending
}
