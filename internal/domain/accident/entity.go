package accident

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccidentLog is an incident involving a fleet vehicle, optionally tied to
// the driver on duty at the time.
type AccidentLog struct {
	ID                 string
	CompanyID          string
	VehicleNumber      string
	DriverID           *string
	IncidentDate       time.Time
	Location           *string
	Description        string
	DamageCost         decimal.Decimal
	ThirdPartyInvolved bool
	PhotoURL           *string
	CreatedBy          string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// Joined fields
	DriverName *string
}

type Totals struct {
	Count      int64
	DamageCost decimal.Decimal
}
