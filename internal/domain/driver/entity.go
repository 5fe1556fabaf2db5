package driver

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnknownVehicle is shown when a driver has no vehicle assigned.
const UnknownVehicle = "unknown"

type Driver struct {
	ID            string
	CompanyID     string
	UserID        *string
	Name          string
	Mobile        string
	VehicleNumber *string
	DailyWage     decimal.Decimal
	IsFreelancer  bool
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (d Driver) VehicleLabel() string {
	if d.VehicleNumber == nil || *d.VehicleNumber == "" {
		return UnknownVehicle
	}
	return *d.VehicleNumber
}
