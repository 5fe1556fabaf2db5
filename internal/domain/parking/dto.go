package parking

import (
	"mime/multipart"

	"github.com/fleetcrm/fleet-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// CreateParkingRequest is an office entry; it is approved on creation.
type CreateParkingRequest struct {
	DriverID   string                `json:"driver_id" validate:"required"`
	DutyID     *string               `json:"duty_id,omitempty"`
	Date       string                `json:"date" validate:"required,date"`
	Amount     decimal.Decimal       `json:"amount"`
	Location   *string               `json:"location,omitempty" validate:"omitempty,max=255"`
	Remark     *string               `json:"remark,omitempty" validate:"omitempty,max=500"`
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *CreateParkingRequest) Validate() error {
	errs := validator.Struct(r)
	if !validator.IsPositiveAmount(r.Amount) {
		errs.Add("amount", "amount must be greater than 0")
	}
	validator.ValidateImage(&errs, "receipt", r.FileHeader, false)
	return errs.Err()
}

// ClaimParkingRequest is a driver submitted claim; it starts pending.
type ClaimParkingRequest struct {
	DutyID     *string               `json:"duty_id,omitempty"`
	Date       string                `json:"date" validate:"required,date"`
	Amount     decimal.Decimal       `json:"amount"`
	Location   *string               `json:"location,omitempty" validate:"omitempty,max=255"`
	Remark     *string               `json:"remark,omitempty" validate:"omitempty,max=500"`
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *ClaimParkingRequest) Validate() error {
	errs := validator.Struct(r)
	if !validator.IsPositiveAmount(r.Amount) {
		errs.Add("amount", "amount must be greater than 0")
	}
	validator.ValidateImage(&errs, "receipt", r.FileHeader, false)
	return errs.Err()
}

type ReviewAction string

const (
	ReviewApprove ReviewAction = "approve"
	ReviewReject  ReviewAction = "reject"
)

type ReviewParkingRequest struct {
	ID              string       `json:"-"`
	DutyID          *string      `json:"-"`
	Action          ReviewAction `json:"action"`
	RejectionReason *string      `json:"rejection_reason,omitempty"`
}

func (r *ReviewParkingRequest) Validate() error {
	var errs validator.ValidationErrors

	switch r.Action {
	case ReviewApprove:
	case ReviewReject:
		if r.RejectionReason == nil || validator.IsEmpty(*r.RejectionReason) {
			errs.Add("rejection_reason", "rejection_reason is required when rejecting")
		}
	default:
		errs.Add("action", "action must be 'approve' or 'reject'")
	}

	return errs.Err()
}

// TargetStatus is the status the entry moves to.
func (r *ReviewParkingRequest) TargetStatus() Status {
	if r.Action == ReviewApprove {
		return StatusApproved
	}
	return StatusRejected
}

type ParkingFilter struct {
	DriverID  *string `json:"driver_id,omitempty"`
	DutyID    *string `json:"duty_id,omitempty"`
	Status    *string `json:"status,omitempty"`
	Source    *string `json:"source,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	Page      int     `json:"page"`
	Limit     int     `json:"limit"`
}

func (f *ParkingFilter) Validate() error {
	var errs validator.ValidationErrors

	validator.ValidateDateRange(&errs, f.StartDate, f.EndDate)
	if f.Status != nil && !Status(*f.Status).IsValid() {
		errs.Add("status", "status must be one of: pending, approved, rejected")
	}
	if f.Source != nil && *f.Source != string(SourceDriver) && *f.Source != string(SourceAdmin) {
		errs.Add("source", "source must be 'Driver' or 'Admin'")
	}

	return errs.Err()
}

type ParkingResponse struct {
	ID              string          `json:"id"`
	DriverID        string          `json:"driver_id"`
	DriverName      *string         `json:"driver_name,omitempty"`
	VehicleNumber   string          `json:"vehicle_number"`
	DutyID          *string         `json:"duty_id,omitempty"`
	Date            string          `json:"date"`
	Amount          decimal.Decimal `json:"amount"`
	Source          string          `json:"source"`
	Location        *string         `json:"location,omitempty"`
	Remark          *string         `json:"remark,omitempty"`
	ReceiptURL      *string         `json:"receipt_url,omitempty"`
	Status          string          `json:"status"`
	ReviewedBy      *string         `json:"reviewed_by,omitempty"`
	ReviewedAt      *string         `json:"reviewed_at,omitempty"`
	RejectionReason *string         `json:"rejection_reason,omitempty"`
	CreatedAt       string          `json:"created_at"`
}

type ListParkingResponse struct {
	TotalCount  int64             `json:"total_count"`
	Page        int               `json:"page"`
	Limit       int               `json:"limit"`
	TotalPages  int               `json:"total_pages"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	Entries     []ParkingResponse `json:"entries"`
}
