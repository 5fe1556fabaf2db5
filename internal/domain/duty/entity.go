package duty

import (
	"time"
)

// DutyType classifies a day. Only DutyTypeDuty earns wage and bonuses.
type DutyType string

const (
	DutyTypeDuty   DutyType = "Duty"
	DutyTypeLeave  DutyType = "Leave"
	DutyTypeAbsent DutyType = "Absent"
	DutyTypeOff    DutyType = "Off"
)

func (t DutyType) IsValid() bool {
	switch t {
	case DutyTypeDuty, DutyTypeLeave, DutyTypeAbsent, DutyTypeOff:
		return true
	}
	return false
}

// TripType marks an outside trip that earns a bonus.
type TripType string

const (
	TripSameDay   TripType = "Same Day"
	TripNightStay TripType = "Night Stay"
)

func (t TripType) IsValid() bool {
	return t == TripSameDay || t == TripNightStay
}

type Status string

const (
	StatusOpen       Status = "open"
	StatusClosed     Status = "closed"
	StatusAutoClosed Status = "auto_closed"
)

type Duty struct {
	ID                  string
	CompanyID           string
	DriverID            string
	DutyDate            time.Time
	Type                DutyType
	PunchIn             *time.Time
	PunchOut            *time.Time
	PunchInPhotoURL     *string
	PunchOutPhotoURL    *string
	StartOdometer       *int
	EndOdometer         *int
	OutsideTripOccurred bool
	OutsideTripTypes    []TripType
	Remarks             *string
	Status              Status
	CreatedAt           time.Time
	UpdatedAt           time.Time

	// Joined fields
	DriverName    *string
	VehicleNumber *string
}

// HasTrip reports whether the trip type was flagged. Flags only count when
// an outside trip actually occurred.
func (d Duty) HasTrip(t TripType) bool {
	if !d.OutsideTripOccurred {
		return false
	}
	for _, tt := range d.OutsideTripTypes {
		if tt == t {
			return true
		}
	}
	return false
}

func (d Duty) IsOpen() bool {
	return d.Status == StatusOpen
}

// DistanceKm is the odometer delta, nil when either reading is missing or
// the readings are inconsistent.
func (d Duty) DistanceKm() *int {
	if d.StartOdometer == nil || d.EndOdometer == nil || *d.EndOdometer < *d.StartOdometer {
		return nil
	}
	km := *d.EndOdometer - *d.StartOdometer
	return &km
}
