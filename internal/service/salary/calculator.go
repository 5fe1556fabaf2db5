package salary

import (
	"sort"
	"time"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/advance"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/driver"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/duty"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/parking"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/salary"
	"github.com/shopspring/decimal"
)

// BonusRules are the per-day amounts credited for outside trips. Both
// bonuses apply when a day has both trip types.
type BonusRules struct {
	SameDay   decimal.Decimal
	NightStay decimal.Decimal
}

func DefaultBonusRules() BonusRules {
	return BonusRules{
		SameDay:   decimal.NewFromInt(100),
		NightStay: decimal.NewFromInt(500),
	}
}

// Calculator holds the pure payroll rules. It has no dependencies and no
// side effects.
type Calculator struct {
	rules BonusRules
}

func NewCalculator(rules BonusRules) *Calculator {
	return &Calculator{rules: rules}
}

// countsAsDuty is true for a Duty type record with a punch-in.
func countsAsDuty(d duty.Duty) bool {
	return d.Type == duty.DutyTypeDuty && d.PunchIn != nil
}

// DayPay prices a single duty record.
func (c *Calculator) DayPay(d duty.Duty, dailyWage decimal.Decimal) salary.DayPay {
	return c.priceDay(dateOnly(d.DutyDate), []duty.Duty{d}, dailyWage)
}

// priceDay prices every record of one calendar date. The wage is credited
// once and trip flags are merged across the date's duty records.
func (c *Calculator) priceDay(date time.Time, records []duty.Duty, dailyWage decimal.Decimal) salary.DayPay {
	day := salary.DayPay{
		Date:    date,
		Wage:    decimal.Zero,
		Bonuses: decimal.Zero,
		Total:   decimal.Zero,
		DutyIDs: []string{},
	}

	for _, d := range records {
		day.DutyIDs = append(day.DutyIDs, d.ID)
		if d.Remarks != nil && *d.Remarks != "" {
			day.Remarks = append(day.Remarks, *d.Remarks)
		}
		if !countsAsDuty(d) {
			continue
		}
		day.IsDuty = true
		day.SameDay = day.SameDay || d.HasTrip(duty.TripSameDay)
		day.NightStay = day.NightStay || d.HasTrip(duty.TripNightStay)
	}

	if !day.IsDuty {
		return day
	}

	day.Wage = dailyWage
	if day.SameDay {
		day.Bonuses = day.Bonuses.Add(c.rules.SameDay)
	}
	if day.NightStay {
		day.Bonuses = day.Bonuses.Add(c.rules.NightStay)
	}
	day.Total = day.Wage.Add(day.Bonuses)
	return day
}

// Days groups duty records by calendar date and prices each date, ordered
// by date. Dates without records are absent and earn nothing.
func (c *Calculator) Days(records []duty.Duty, dailyWage decimal.Decimal) []salary.DayPay {
	byDate := make(map[time.Time][]duty.Duty)
	for _, d := range records {
		date := dateOnly(d.DutyDate)
		byDate[date] = append(byDate[date], d)
	}

	dates := make([]time.Time, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	days := make([]salary.DayPay, 0, len(dates))
	for _, date := range dates {
		days = append(days, c.priceDay(date, byDate[date], dailyWage))
	}
	return days
}

// Summarize reconciles one driver for the period:
// net = (wages + bonuses + approved parking) - advances.
// Records dated outside the period are ignored.
func (c *Calculator) Summarize(
	drv driver.Driver,
	period salary.Period,
	duties []duty.Duty,
	parkingEntries []parking.ParkingEntry,
	advances []advance.Advance,
) salary.Summary {
	summary := salary.Summary{
		DriverID:       drv.ID,
		DriverName:     drv.Name,
		Mobile:         drv.Mobile,
		VehicleNumber:  drv.VehicleLabel(),
		IsFreelancer:   drv.IsFreelancer,
		DailyWage:      drv.DailyWage,
		TotalWages:     decimal.Zero,
		TotalBonuses:   decimal.Zero,
		TotalParking:   decimal.Zero,
		TotalAdvances:  decimal.Zero,
		PendingAdvance: decimal.Zero,
	}

	var inPeriod []duty.Duty
	for _, d := range duties {
		if d.DriverID == drv.ID && period.Contains(d.DutyDate) {
			inPeriod = append(inPeriod, d)
		}
	}
	for _, day := range c.Days(inPeriod, drv.DailyWage) {
		if day.IsDuty {
			summary.DutyDays++
		}
		summary.TotalWages = summary.TotalWages.Add(day.Wage)
		summary.TotalBonuses = summary.TotalBonuses.Add(day.Bonuses)
	}

	for _, p := range parkingEntries {
		if p.DriverID == drv.ID && p.Reimbursable() && period.Contains(p.EntryDate) {
			summary.TotalParking = summary.TotalParking.Add(p.Amount)
		}
	}

	for _, a := range advances {
		if a.DriverID == drv.ID && period.Contains(a.AdvanceDate) {
			summary.TotalAdvances = summary.TotalAdvances.Add(a.Amount)
			summary.PendingAdvance = summary.PendingAdvance.Add(a.Outstanding())
		}
	}

	summary.TotalEarned = summary.TotalWages.Add(summary.TotalBonuses).Add(summary.TotalParking)
	summary.NetPayable = summary.TotalEarned.Sub(summary.TotalAdvances)
	return summary
}

// AggregateCompany reconciles every driver, including drivers with no
// activity, ordered by driver name then id.
func (c *Calculator) AggregateCompany(
	drivers []driver.Driver,
	period salary.Period,
	duties []duty.Duty,
	parkingEntries []parking.ParkingEntry,
	advances []advance.Advance,
) []salary.Summary {
	dutiesByDriver := make(map[string][]duty.Duty)
	for _, d := range duties {
		dutiesByDriver[d.DriverID] = append(dutiesByDriver[d.DriverID], d)
	}
	parkingByDriver := make(map[string][]parking.ParkingEntry)
	for _, p := range parkingEntries {
		parkingByDriver[p.DriverID] = append(parkingByDriver[p.DriverID], p)
	}
	advancesByDriver := make(map[string][]advance.Advance)
	for _, a := range advances {
		advancesByDriver[a.DriverID] = append(advancesByDriver[a.DriverID], a)
	}

	summaries := make([]salary.Summary, 0, len(drivers))
	for _, drv := range drivers {
		summaries = append(summaries, c.Summarize(
			drv, period,
			dutiesByDriver[drv.ID],
			parkingByDriver[drv.ID],
			advancesByDriver[drv.ID],
		))
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].DriverName != summaries[j].DriverName {
			return summaries[i].DriverName < summaries[j].DriverName
		}
		return summaries[i].DriverID < summaries[j].DriverID
	})
	return summaries
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
