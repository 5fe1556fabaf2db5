package duty

import (
	"mime/multipart"
	"strings"

	"github.com/fleetcrm/fleet-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type PunchInRequest struct {
	// DriverID is taken from the token for drivers; staff punching on
	// behalf of a driver must supply it.
	DriverID      string                `json:"driver_id"`
	StartOdometer *int                  `json:"start_odometer,omitempty"`
	Remarks       *string               `json:"remarks,omitempty"`
	File          multipart.File        `json:"-"`
	FileHeader    *multipart.FileHeader `json:"-"`
}

func (r *PunchInRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.StartOdometer != nil && *r.StartOdometer < 0 {
		errs.Add("start_odometer", "start_odometer must be non-negative")
	}
	validator.ValidateImage(&errs, "photo", r.FileHeader, true)

	return errs.Err()
}

type PunchOutRequest struct {
	DriverID            string                `json:"driver_id"`
	EndOdometer         *int                  `json:"end_odometer,omitempty"`
	OutsideTripOccurred bool                  `json:"outside_trip_occurred"`
	OutsideTripTypes    []string              `json:"outside_trip_types"`
	ParkingAmount       *decimal.Decimal      `json:"parking_amount,omitempty"`
	ParkingLocation     *string               `json:"parking_location,omitempty"`
	Remarks             *string               `json:"remarks,omitempty"`
	File                multipart.File        `json:"-"`
	FileHeader          *multipart.FileHeader `json:"-"`
}

func (r *PunchOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EndOdometer != nil && *r.EndOdometer < 0 {
		errs.Add("end_odometer", "end_odometer must be non-negative")
	}
	if _, err := ParseTripTypes(r.OutsideTripTypes); err != nil {
		errs.Add("outside_trip_types", err.Error())
	}
	if !r.OutsideTripOccurred && len(r.OutsideTripTypes) > 0 {
		errs.Add("outside_trip_types", "outside_trip_types requires outside_trip_occurred")
	}
	if r.ParkingAmount != nil && !validator.IsPositiveAmount(*r.ParkingAmount) {
		errs.Add("parking_amount", "parking_amount must be greater than 0")
	}
	validator.ValidateImage(&errs, "photo", r.FileHeader, true)

	return errs.Err()
}

// ParseTripTypes accepts either repeated values or a single comma separated
// value, as sent by multipart forms. Duplicates are dropped.
func ParseTripTypes(raw []string) ([]TripType, error) {
	var result []TripType
	seen := make(map[TripType]bool)
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			t := TripType(part)
			if !t.IsValid() {
				return nil, &invalidTripTypeError{value: part}
			}
			if !seen[t] {
				seen[t] = true
				result = append(result, t)
			}
		}
	}
	return result, nil
}

type invalidTripTypeError struct {
	value string
}

func (e *invalidTripTypeError) Error() string {
	return "invalid trip type '" + e.value + "': allowed are 'Same Day', 'Night Stay'"
}

type UpdateDutyRequest struct {
	ID                  string    `json:"-"`
	Type                *string   `json:"type,omitempty"`
	OutsideTripOccurred *bool     `json:"outside_trip_occurred,omitempty"`
	OutsideTripTypes    *[]string `json:"outside_trip_types,omitempty"`
	StartOdometer       *int      `json:"start_odometer,omitempty"`
	EndOdometer         *int      `json:"end_odometer,omitempty"`
	Remarks             *string   `json:"remarks,omitempty"`
}

func (r *UpdateDutyRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Type != nil && !DutyType(*r.Type).IsValid() {
		errs.Add("type", "type must be one of: Duty, Leave, Absent, Off")
	}
	if r.OutsideTripTypes != nil {
		if _, err := ParseTripTypes(*r.OutsideTripTypes); err != nil {
			errs.Add("outside_trip_types", err.Error())
		}
	}
	if r.StartOdometer != nil && *r.StartOdometer < 0 {
		errs.Add("start_odometer", "start_odometer must be non-negative")
	}
	if r.EndOdometer != nil && *r.EndOdometer < 0 {
		errs.Add("end_odometer", "end_odometer must be non-negative")
	}
	if r.Type == nil && r.OutsideTripOccurred == nil && r.OutsideTripTypes == nil &&
		r.StartOdometer == nil && r.EndOdometer == nil && r.Remarks == nil {
		errs.Add("request", "at least one field must be provided")
	}

	return errs.Err()
}

type DutyFilter struct {
	DriverID  *string `json:"driver_id,omitempty"`
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status    *string `json:"status,omitempty"`
	Type      *string `json:"type,omitempty"`
	Page      int     `json:"page"`
	Limit     int     `json:"limit"`
}

func (f *DutyFilter) Validate() error {
	var errs validator.ValidationErrors

	validator.ValidateDateRange(&errs, f.StartDate, f.EndDate)
	if f.Status != nil {
		s := Status(*f.Status)
		if s != StatusOpen && s != StatusClosed && s != StatusAutoClosed {
			errs.Add("status", "status must be one of: open, closed, auto_closed")
		}
	}
	if f.Type != nil && !DutyType(*f.Type).IsValid() {
		errs.Add("type", "type must be one of: Duty, Leave, Absent, Off")
	}

	return errs.Err()
}

type MyDutyFilter struct {
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	Page      int     `json:"page"`
	Limit     int     `json:"limit"`
}

func (f *MyDutyFilter) Validate() error {
	var errs validator.ValidationErrors
	validator.ValidateDateRange(&errs, f.StartDate, f.EndDate)
	return errs.Err()
}

type DutyResponse struct {
	ID                  string   `json:"id"`
	DriverID            string   `json:"driver_id"`
	DriverName          *string  `json:"driver_name,omitempty"`
	VehicleNumber       string   `json:"vehicle_number"`
	DutyDate            string   `json:"duty_date"`
	Type                string   `json:"type"`
	Status              string   `json:"status"`
	PunchIn             *string  `json:"punch_in,omitempty"`
	PunchOut            *string  `json:"punch_out,omitempty"`
	PunchInPhotoURL     *string  `json:"punch_in_photo_url,omitempty"`
	PunchOutPhotoURL    *string  `json:"punch_out_photo_url,omitempty"`
	StartOdometer       *int     `json:"start_odometer,omitempty"`
	EndOdometer         *int     `json:"end_odometer,omitempty"`
	DistanceKm          *int     `json:"distance_km,omitempty"`
	OutsideTripOccurred bool     `json:"outside_trip_occurred"`
	OutsideTripTypes    []string `json:"outside_trip_types"`
	Remarks             *string  `json:"remarks,omitempty"`
	ParkingEntryID      *string  `json:"parking_entry_id,omitempty"`
}

type ListDutyResponse struct {
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
	Duties     []DutyResponse `json:"duties"`
}
