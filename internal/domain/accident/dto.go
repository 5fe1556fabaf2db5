package accident

import (
	"mime/multipart"

	"github.com/fleetcrm/fleet-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateAccidentLogRequest struct {
	VehicleNumber      string                `json:"vehicle_number" validate:"required,vehicle"`
	DriverID           *string               `json:"driver_id,omitempty"`
	Date               string                `json:"date" validate:"required,date"`
	Location           *string               `json:"location,omitempty" validate:"omitempty,max=255"`
	Description        string                `json:"description" validate:"required,max=1000"`
	DamageCost         decimal.Decimal       `json:"damage_cost"`
	ThirdPartyInvolved bool                  `json:"third_party_involved"`
	File               multipart.File        `json:"-"`
	FileHeader         *multipart.FileHeader `json:"-"`
}

func (r *CreateAccidentLogRequest) Validate() error {
	errs := validator.Struct(r)
	if r.DriverID != nil && !validator.IsValidUUID(*r.DriverID) {
		errs.Add("driver_id", "driver_id must be a valid UUID")
	}
	if r.DamageCost.IsNegative() {
		errs.Add("damage_cost", "damage_cost must not be negative")
	}
	validator.ValidateImage(&errs, "photo", r.FileHeader, false)
	r.VehicleNumber = validator.NormalizeVehicleNumber(r.VehicleNumber)
	return errs.Err()
}

type AccidentFilter struct {
	VehicleNumber *string `json:"vehicle_number,omitempty"`
	DriverID      *string `json:"driver_id,omitempty"`
	StartDate     *string `json:"start_date,omitempty"`
	EndDate       *string `json:"end_date,omitempty"`
	Page          int     `json:"page"`
	Limit         int     `json:"limit"`
}

func (f *AccidentFilter) Validate() error {
	var errs validator.ValidationErrors
	validator.ValidateDateRange(&errs, f.StartDate, f.EndDate)
	if f.DriverID != nil && !validator.IsValidUUID(*f.DriverID) {
		errs.Add("driver_id", "driver_id must be a valid UUID")
	}
	if f.VehicleNumber != nil {
		v := validator.NormalizeVehicleNumber(*f.VehicleNumber)
		f.VehicleNumber = &v
	}
	return errs.Err()
}

type AccidentLogResponse struct {
	ID                 string          `json:"id"`
	VehicleNumber      string          `json:"vehicle_number"`
	DriverID           *string         `json:"driver_id,omitempty"`
	DriverName         *string         `json:"driver_name,omitempty"`
	Date               string          `json:"date"`
	Location           *string         `json:"location,omitempty"`
	Description        string          `json:"description"`
	DamageCost         decimal.Decimal `json:"damage_cost"`
	ThirdPartyInvolved bool            `json:"third_party_involved"`
	PhotoURL           *string         `json:"photo_url,omitempty"`
	CreatedAt          string          `json:"created_at"`
}

type ListAccidentLogResponse struct {
	TotalCount      int64                 `json:"total_count"`
	Page            int                   `json:"page"`
	Limit           int                   `json:"limit"`
	TotalPages      int                   `json:"total_pages"`
	TotalDamageCost decimal.Decimal       `json:"total_damage_cost"`
	Logs            []AccidentLogResponse `json:"logs"`
}
