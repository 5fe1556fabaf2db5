package advance

import (
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateAdvanceRequest struct {
	DriverID string          `json:"driver_id" validate:"required"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date" validate:"required,date"`
	Remark   *string         `json:"remark,omitempty" validate:"omitempty,max=500"`
}

func (r *CreateAdvanceRequest) Validate() error {
	errs := validator.Struct(r)
	if !validator.IsPositiveAmount(r.Amount) {
		errs.Add("amount", "amount must be greater than 0")
	}
	return errs.Err()
}

type RecordRecoveryRequest struct {
	ID     string          `json:"-"`
	Amount decimal.Decimal `json:"amount"`
}

func (r *RecordRecoveryRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsPositiveAmount(r.Amount) {
		errs.Add("amount", "amount must be greater than 0")
	}
	return errs.Err()
}

type AdvanceFilter struct {
	DriverID  *string `json:"driver_id,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	Page      int     `json:"page"`
	Limit     int     `json:"limit"`
}

func (f *AdvanceFilter) Validate() error {
	var errs validator.ValidationErrors
	validator.ValidateDateRange(&errs, f.StartDate, f.EndDate)
	return errs.Err()
}

type AdvanceResponse struct {
	ID              string          `json:"id"`
	DriverID        string          `json:"driver_id"`
	DriverName      *string         `json:"driver_name,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Date            string          `json:"date"`
	Remark          *string         `json:"remark,omitempty"`
	RecoveredAmount decimal.Decimal `json:"recovered_amount"`
	Outstanding     decimal.Decimal `json:"outstanding"`
	CreatedAt       string          `json:"created_at"`
}

type ListAdvanceResponse struct {
	TotalCount  int64             `json:"total_count"`
	Page        int               `json:"page"`
	Limit       int               `json:"limit"`
	TotalPages  int               `json:"total_pages"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	Advances    []AdvanceResponse `json:"advances"`
}
