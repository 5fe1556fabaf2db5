package fuel

import (
	"time"

	"github.com/shopspring/decimal"
)

type FuelEntry struct {
	ID            string
	CompanyID     string
	VehicleNumber string
	DriverID      *string
	EntryDate     time.Time
	Litres        decimal.Decimal
	Amount        decimal.Decimal
	Odometer      *int
	FuelStation   *string
	ReceiptURL    *string
	Remark        *string
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Joined fields
	DriverName *string
}

// PricePerLitre is amount / litres rounded to paise, zero when litres is zero.
func (f FuelEntry) PricePerLitre() decimal.Decimal {
	if f.Litres.IsZero() {
		return decimal.Zero
	}
	return f.Amount.DivRound(f.Litres, 2)
}

// Totals summarises a filtered set of fuel entries.
type Totals struct {
	Count  int64
	Litres decimal.Decimal
	Amount decimal.Decimal
}
