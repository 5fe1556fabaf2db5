package salary

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPayable      = "Payable"
	StatusExtraAdvance = "Extra Advance"
)

// StatusLabel reads the sign of a net payable amount.
func StatusLabel(net decimal.Decimal) string {
	if net.IsNegative() {
		return StatusExtraAdvance
	}
	return StatusPayable
}

// Period is a calendar month. Dates are compared as UTC midnights, matching
// how DATE columns are scanned.
type Period struct {
	Month int
	Year  int
}

// Start is the first day of the month.
func (p Period) Start() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// End is the first day of the next month, exclusive.
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

// Contains reports whether the calendar date of t falls in the month.
func (p Period) Contains(t time.Time) bool {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(p.Start()) && d.Before(p.End())
}

func (p Period) DaysInMonth() int {
	return p.End().AddDate(0, 0, -1).Day()
}

// DayPay is the pay earned on one calendar date.
type DayPay struct {
	Date      time.Time
	IsDuty    bool
	Wage      decimal.Decimal
	Bonuses   decimal.Decimal
	Total     decimal.Decimal
	SameDay   bool
	NightStay bool
	DutyIDs   []string
	Remarks   []string
}

// Summary is the monthly reconciliation for one driver. It is derived on
// read and never stored.
type Summary struct {
	DriverID      string
	DriverName    string
	Mobile        string
	VehicleNumber string
	IsFreelancer  bool
	DailyWage     decimal.Decimal

	DutyDays       int
	TotalWages     decimal.Decimal
	TotalBonuses   decimal.Decimal
	TotalParking   decimal.Decimal
	TotalEarned    decimal.Decimal
	TotalAdvances  decimal.Decimal
	PendingAdvance decimal.Decimal
	NetPayable     decimal.Decimal
}

func (s Summary) Status() string {
	return StatusLabel(s.NetPayable)
}

// Totals is the company wide row under the summary table.
type Totals struct {
	Drivers        int
	DutyDays       int
	TotalWages     decimal.Decimal
	TotalBonuses   decimal.Decimal
	TotalParking   decimal.Decimal
	TotalEarned    decimal.Decimal
	TotalAdvances  decimal.Decimal
	PendingAdvance decimal.Decimal
	NetPayable     decimal.Decimal
	ExtraAdvance   int
}

func TotalsOf(summaries []Summary) Totals {
	t := Totals{Drivers: len(summaries)}
	for _, s := range summaries {
		t.DutyDays += s.DutyDays
		t.TotalWages = t.TotalWages.Add(s.TotalWages)
		t.TotalBonuses = t.TotalBonuses.Add(s.TotalBonuses)
		t.TotalParking = t.TotalParking.Add(s.TotalParking)
		t.TotalEarned = t.TotalEarned.Add(s.TotalEarned)
		t.TotalAdvances = t.TotalAdvances.Add(s.TotalAdvances)
		t.PendingAdvance = t.PendingAdvance.Add(s.PendingAdvance)
		t.NetPayable = t.NetPayable.Add(s.NetPayable)
		if s.NetPayable.IsNegative() {
			t.ExtraAdvance++
		}
	}
	return t
}
