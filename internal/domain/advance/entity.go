package advance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Advance is cash handed to a driver ahead of salary.
type Advance struct {
	ID              string
	CompanyID       string
	DriverID        string
	Amount          decimal.Decimal
	AdvanceDate     time.Time
	Remark          *string
	RecoveredAmount decimal.Decimal
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Joined fields
	DriverName *string
}

// Outstanding is the part of the advance not yet recovered, never negative.
func (a Advance) Outstanding() decimal.Decimal {
	rest := a.Amount.Sub(a.RecoveredAmount)
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}

func (a Advance) FullyRecovered() bool {
	return a.Outstanding().IsZero()
}
