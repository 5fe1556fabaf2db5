package fuel

import (
	"mime/multipart"

	"github.com/fleetcrm/fleet-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateFuelEntryRequest struct {
	VehicleNumber string                `json:"vehicle_number" validate:"required,vehicle"`
	DriverID      *string               `json:"driver_id,omitempty"`
	Date          string                `json:"date" validate:"required,date"`
	Litres        decimal.Decimal       `json:"litres"`
	Amount        decimal.Decimal       `json:"amount"`
	Odometer      *int                  `json:"odometer,omitempty" validate:"omitempty,gte=0"`
	FuelStation   *string               `json:"fuel_station,omitempty" validate:"omitempty,max=255"`
	Remark        *string               `json:"remark,omitempty" validate:"omitempty,max=500"`
	File          multipart.File        `json:"-"`
	FileHeader    *multipart.FileHeader `json:"-"`
}

func (r *CreateFuelEntryRequest) Validate() error {
	errs := validator.Struct(r)
	if !validator.IsPositiveAmount(r.Litres) {
		errs.Add("litres", "litres must be greater than 0")
	}
	if !validator.IsPositiveAmount(r.Amount) {
		errs.Add("amount", "amount must be greater than 0")
	}
	validator.ValidateImage(&errs, "receipt", r.FileHeader, false)
	r.VehicleNumber = validator.NormalizeVehicleNumber(r.VehicleNumber)
	return errs.Err()
}

type FuelFilter struct {
	VehicleNumber *string `json:"vehicle_number,omitempty"`
	DriverID      *string `json:"driver_id,omitempty"`
	StartDate     *string `json:"start_date,omitempty"`
	EndDate       *string `json:"end_date,omitempty"`
	Page          int     `json:"page"`
	Limit         int     `json:"limit"`
}

func (f *FuelFilter) Validate() error {
	var errs validator.ValidationErrors
	validator.ValidateDateRange(&errs, f.StartDate, f.EndDate)
	if f.VehicleNumber != nil {
		v := validator.NormalizeVehicleNumber(*f.VehicleNumber)
		f.VehicleNumber = &v
	}
	return errs.Err()
}

type FuelEntryResponse struct {
	ID            string          `json:"id"`
	VehicleNumber string          `json:"vehicle_number"`
	DriverID      *string         `json:"driver_id,omitempty"`
	DriverName    *string         `json:"driver_name,omitempty"`
	Date          string          `json:"date"`
	Litres        decimal.Decimal `json:"litres"`
	Amount        decimal.Decimal `json:"amount"`
	PricePerLitre decimal.Decimal `json:"price_per_litre"`
	Odometer      *int            `json:"odometer,omitempty"`
	FuelStation   *string         `json:"fuel_station,omitempty"`
	ReceiptURL    *string         `json:"receipt_url,omitempty"`
	Remark        *string         `json:"remark,omitempty"`
	CreatedAt     string          `json:"created_at"`
}

type ListFuelEntryResponse struct {
	TotalCount  int64               `json:"total_count"`
	Page        int                 `json:"page"`
	Limit       int                 `json:"limit"`
	TotalPages  int                 `json:"total_pages"`
	TotalLitres decimal.Decimal     `json:"total_litres"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	Entries     []FuelEntryResponse `json:"entries"`
}
