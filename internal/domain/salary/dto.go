package salary

import (
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type SummaryRequest struct {
	Month  int           `json:"month"`
	Year   int           `json:"year"`
	Filter SummaryFilter `json:"-"`
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors
	validatePeriod(&errs, r.Month, r.Year)
	if r.Filter.Status != nil && *r.Filter.Status != "" &&
		*r.Filter.Status != StatusPayable && *r.Filter.Status != StatusExtraAdvance {
		errs.Add("status", "status must be 'Payable' or 'Extra Advance'")
	}
	return errs.Err()
}

func (r *SummaryRequest) Period() Period {
	return Period{Month: r.Month, Year: r.Year}
}

type DetailRequest struct {
	DriverID string `json:"-"`
	Month    int    `json:"month"`
	Year     int    `json:"year"`
}

func (r *DetailRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.DriverID) {
		errs.Add("driver_id", "driver_id is required")
	} else if !validator.IsValidUUID(r.DriverID) {
		errs.Add("driver_id", "driver_id must be a valid UUID")
	}
	validatePeriod(&errs, r.Month, r.Year)
	return errs.Err()
}

func (r *DetailRequest) Period() Period {
	return Period{Month: r.Month, Year: r.Year}
}

func validatePeriod(errs *validator.ValidationErrors, month, year int) {
	if month < 1 || month > 12 {
		errs.Add("month", "month must be between 1 and 12")
	}
	if year < 2000 || year > 2100 {
		errs.Add("year", "year must be between 2000 and 2100")
	}
}

type SummaryResponse struct {
	DriverID       string          `json:"driver_id"`
	DriverName     string          `json:"driver_name"`
	Mobile         string          `json:"mobile"`
	VehicleNumber  string          `json:"vehicle_number"`
	IsFreelancer   bool            `json:"is_freelancer"`
	DailyWage      decimal.Decimal `json:"daily_wage"`
	DutyDays       int             `json:"duty_days"`
	TotalWages     decimal.Decimal `json:"total_wages"`
	TotalBonuses   decimal.Decimal `json:"total_bonuses"`
	TotalParking   decimal.Decimal `json:"total_parking"`
	TotalEarned    decimal.Decimal `json:"total_earned"`
	TotalAdvances  decimal.Decimal `json:"total_advances"`
	PendingAdvance decimal.Decimal `json:"pending_advance"`
	NetPayable     decimal.Decimal `json:"net_payable"`
	NetPayableText string          `json:"net_payable_formatted"`
	Status         string          `json:"status"`
}

type TotalsResponse struct {
	Drivers        int             `json:"drivers"`
	DutyDays       int             `json:"duty_days"`
	TotalWages     decimal.Decimal `json:"total_wages"`
	TotalBonuses   decimal.Decimal `json:"total_bonuses"`
	TotalParking   decimal.Decimal `json:"total_parking"`
	TotalEarned    decimal.Decimal `json:"total_earned"`
	TotalAdvances  decimal.Decimal `json:"total_advances"`
	PendingAdvance decimal.Decimal `json:"pending_advance"`
	NetPayable     decimal.Decimal `json:"net_payable"`
	NetPayableText string          `json:"net_payable_formatted"`
	ExtraAdvance   int             `json:"extra_advance_count"`
}

type ListSummaryResponse struct {
	Month       int               `json:"month"`
	Year        int               `json:"year"`
	PeriodStart string            `json:"period_start"`
	PeriodEnd   string            `json:"period_end"`
	Summaries   []SummaryResponse `json:"summaries"`
	Totals      TotalsResponse    `json:"totals"`
}

type DayResponse struct {
	Date      string          `json:"date"`
	IsDuty    bool            `json:"is_duty"`
	Wage      decimal.Decimal `json:"wage"`
	Bonuses   decimal.Decimal `json:"bonuses"`
	Total     decimal.Decimal `json:"total"`
	TripTypes []string        `json:"trip_types"`
	DutyIDs   []string        `json:"duty_ids"`
	Remarks   []string        `json:"remarks,omitempty"`
}

type ParkingLine struct {
	ID       string          `json:"id"`
	Date     string          `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
	Source   string          `json:"source"`
	Status   string          `json:"status"`
	Location *string         `json:"location,omitempty"`
	Counted  bool            `json:"counted"`
}

type AdvanceLine struct {
	ID              string          `json:"id"`
	Date            string          `json:"date"`
	Amount          decimal.Decimal `json:"amount"`
	RecoveredAmount decimal.Decimal `json:"recovered_amount"`
	Outstanding     decimal.Decimal `json:"outstanding"`
	Remark          *string         `json:"remark,omitempty"`
}

type DetailResponse struct {
	Month    int             `json:"month"`
	Year     int             `json:"year"`
	Summary  SummaryResponse `json:"summary"`
	Days     []DayResponse   `json:"days"`
	Parking  []ParkingLine   `json:"parking"`
	Advances []AdvanceLine   `json:"advances"`
}
