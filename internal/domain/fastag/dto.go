package fastag

import (
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateRechargeRequest struct {
	VehicleNumber  string          `json:"vehicle_number" validate:"required,vehicle"`
	Date           string          `json:"date" validate:"required,date"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentMode    string          `json:"payment_mode" validate:"required,oneof=cash upi card bank_transfer"`
	TransactionRef *string         `json:"transaction_ref,omitempty" validate:"omitempty,max=100"`
	Remark         *string         `json:"remark,omitempty" validate:"omitempty,max=500"`
}

func (r *CreateRechargeRequest) Validate() error {
	errs := validator.Struct(r)
	if !validator.IsPositiveAmount(r.Amount) {
		errs.Add("amount", "amount must be greater than 0")
	}
	r.VehicleNumber = validator.NormalizeVehicleNumber(r.VehicleNumber)
	return errs.Err()
}

type RechargeFilter struct {
	VehicleNumber *string `json:"vehicle_number,omitempty"`
	StartDate     *string `json:"start_date,omitempty"`
	EndDate       *string `json:"end_date,omitempty"`
	Page          int     `json:"page"`
	Limit         int     `json:"limit"`
}

func (f *RechargeFilter) Validate() error {
	var errs validator.ValidationErrors
	validator.ValidateDateRange(&errs, f.StartDate, f.EndDate)
	if f.VehicleNumber != nil {
		v := validator.NormalizeVehicleNumber(*f.VehicleNumber)
		f.VehicleNumber = &v
	}
	return errs.Err()
}

type RechargeResponse struct {
	ID             string          `json:"id"`
	VehicleNumber  string          `json:"vehicle_number"`
	Date           string          `json:"date"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentMode    string          `json:"payment_mode"`
	TransactionRef *string         `json:"transaction_ref,omitempty"`
	Remark         *string         `json:"remark,omitempty"`
	CreatedAt      string          `json:"created_at"`
}

type ListRechargeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Recharges  []RechargeResponse `json:"recharges"`
}

type VehicleBalanceResponse struct {
	VehicleNumber    string          `json:"vehicle_number"`
	TotalRecharged   decimal.Decimal `json:"total_recharged"`
	RechargeCount    int             `json:"recharge_count"`
	LastRechargeDate *string         `json:"last_recharge_date,omitempty"`
}
