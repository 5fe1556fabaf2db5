package driver

import (
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateDriverRequest struct {
	Name          string          `json:"name" validate:"required,max=255"`
	Mobile        string          `json:"mobile" validate:"required,mobile"`
	VehicleNumber *string         `json:"vehicle_number,omitempty" validate:"omitempty,vehicle"`
	DailyWage     decimal.Decimal `json:"daily_wage"`
	IsFreelancer  bool            `json:"is_freelancer"`

	// Optional login account for the driver portal
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8,max=255"`
}

func (r *CreateDriverRequest) Validate() error {
	errs := validator.Struct(r)

	if r.DailyWage.IsNegative() {
		errs.Add("daily_wage", "must be non-negative")
	}
	if r.Email != nil && r.Password == nil {
		errs.Add("password", "password is required when email is set")
	}
	if r.Password != nil && r.Email == nil {
		errs.Add("email", "email is required when password is set")
	}
	if r.VehicleNumber != nil {
		v := validator.NormalizeVehicleNumber(*r.VehicleNumber)
		r.VehicleNumber = &v
	}
	if m, ok := validator.NormalizeMobile(r.Mobile); ok {
		r.Mobile = m
	}

	return errs.Err()
}

type UpdateDriverRequest struct {
	ID            string           `json:"-"`
	Name          *string          `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Mobile        *string          `json:"mobile,omitempty" validate:"omitempty,mobile"`
	VehicleNumber *string          `json:"vehicle_number,omitempty" validate:"omitempty,vehicle"`
	DailyWage     *decimal.Decimal `json:"daily_wage,omitempty"`
	IsFreelancer  *bool            `json:"is_freelancer,omitempty"`
	IsActive      *bool            `json:"is_active,omitempty"`
}

func (r *UpdateDriverRequest) Validate() error {
	errs := validator.Struct(r)

	if r.DailyWage != nil && r.DailyWage.IsNegative() {
		errs.Add("daily_wage", "must be non-negative")
	}
	if r.Name == nil && r.Mobile == nil && r.VehicleNumber == nil && r.DailyWage == nil && r.IsFreelancer == nil && r.IsActive == nil {
		errs.Add("request", "at least one field must be provided")
	}
	if r.VehicleNumber != nil {
		v := validator.NormalizeVehicleNumber(*r.VehicleNumber)
		r.VehicleNumber = &v
	}
	if r.Mobile != nil {
		if m, ok := validator.NormalizeMobile(*r.Mobile); ok {
			r.Mobile = &m
		}
	}

	return errs.Err()
}

type DriverFilter struct {
	Search       *string `json:"search,omitempty"`
	IsFreelancer *bool   `json:"is_freelancer,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
	Page         int     `json:"page"`
	Limit        int     `json:"limit"`
}

type DriverResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Mobile        string          `json:"mobile"`
	VehicleNumber string          `json:"vehicle_number"`
	DailyWage     decimal.Decimal `json:"daily_wage"`
	IsFreelancer  bool            `json:"is_freelancer"`
	IsActive      bool            `json:"is_active"`
	HasLogin      bool            `json:"has_login"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
}

type ListDriverResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
	Drivers    []DriverResponse `json:"drivers"`
}
