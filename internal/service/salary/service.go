package salary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/advance"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/auth"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/driver"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/duty"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/parking"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/salary"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/money"
	"golang.org/x/sync/errgroup"
)

type SalaryServiceImpl struct {
	driverRepo  driver.DriverRepository
	dutyRepo    duty.DutyRepository
	parkingRepo parking.ParkingRepository
	advanceRepo advance.AdvanceRepository
	calc        *Calculator
}

func NewSalaryService(
	driverRepo driver.DriverRepository,
	dutyRepo duty.DutyRepository,
	parkingRepo parking.ParkingRepository,
	advanceRepo advance.AdvanceRepository,
	calc *Calculator,
) salary.SalaryService {
	return &SalaryServiceImpl{
		driverRepo:  driverRepo,
		dutyRepo:    dutyRepo,
		parkingRepo: parkingRepo,
		advanceRepo: advanceRepo,
		calc:        calc,
	}
}

// periodData is everything dated inside a month, fetched concurrently.
type periodData struct {
	duties   []duty.Duty
	parking  []parking.ParkingEntry
	advances []advance.Advance
}

func (s *SalaryServiceImpl) loadPeriod(ctx context.Context, companyID string, driverID *string, period salary.Period) (periodData, error) {
	var data periodData
	start, end := period.Start(), period.End()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		duties, err := s.dutyRepo.ListByPeriod(gCtx, companyID, driverID, start, end)
		if err != nil {
			return fmt.Errorf("load duties: %w", err)
		}
		data.duties = duties
		return nil
	})

	g.Go(func() error {
		entries, err := s.parkingRepo.ListByPeriod(gCtx, companyID, driverID, start, end)
		if err != nil {
			return fmt.Errorf("load parking: %w", err)
		}
		data.parking = entries
		return nil
	})

	g.Go(func() error {
		advances, err := s.advanceRepo.ListByPeriod(gCtx, companyID, driverID, start, end)
		if err != nil {
			return fmt.Errorf("load advances: %w", err)
		}
		data.advances = advances
		return nil
	})

	if err := g.Wait(); err != nil {
		return periodData{}, err
	}
	return data, nil
}

func (s *SalaryServiceImpl) GetSalarySummary(ctx context.Context, req salary.SummaryRequest) (salary.ListSummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.ListSummaryResponse{}, err
	}

	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return salary.ListSummaryResponse{}, err
	}

	period := req.Period()

	var drivers []driver.Driver
	var data periodData

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.driverRepo.ListAll(gCtx, id.CompanyID)
		if err != nil {
			return fmt.Errorf("load drivers: %w", err)
		}
		drivers = list
		return nil
	})
	g.Go(func() error {
		loaded, err := s.loadPeriod(gCtx, id.CompanyID, nil, period)
		if err != nil {
			return err
		}
		data = loaded
		return nil
	})
	if err := g.Wait(); err != nil {
		return salary.ListSummaryResponse{}, err
	}

	summaries := s.calc.AggregateCompany(drivers, period, data.duties, data.parking, data.advances)
	summaries = salary.Filter(summaries, req.Filter)

	resp := salary.ListSummaryResponse{
		Month:       period.Month,
		Year:        period.Year,
		PeriodStart: period.Start().Format(time.DateOnly),
		PeriodEnd:   period.End().AddDate(0, 0, -1).Format(time.DateOnly),
		Summaries:   make([]salary.SummaryResponse, 0, len(summaries)),
		Totals:      toTotalsResponse(salary.TotalsOf(summaries)),
	}
	for _, sm := range summaries {
		resp.Summaries = append(resp.Summaries, toSummaryResponse(sm))
	}

	return resp, nil
}

func (s *SalaryServiceImpl) GetSalaryDetails(ctx context.Context, req salary.DetailRequest) (salary.DetailResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.DetailResponse{}, err
	}

	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return salary.DetailResponse{}, err
	}

	drv, err := s.driverRepo.GetByID(ctx, req.DriverID, id.CompanyID)
	if err != nil {
		if errors.Is(err, driver.ErrDriverNotFound) {
			return salary.DetailResponse{}, salary.ErrDriverNotFound
		}
		return salary.DetailResponse{}, err
	}

	period := req.Period()
	data, err := s.loadPeriod(ctx, id.CompanyID, &drv.ID, period)
	if err != nil {
		return salary.DetailResponse{}, err
	}

	summary := s.calc.Summarize(drv, period, data.duties, data.parking, data.advances)

	var inPeriod []duty.Duty
	for _, d := range data.duties {
		if d.DriverID == drv.ID && period.Contains(d.DutyDate) {
			inPeriod = append(inPeriod, d)
		}
	}

	resp := salary.DetailResponse{
		Month:    period.Month,
		Year:     period.Year,
		Summary:  toSummaryResponse(summary),
		Days:     []salary.DayResponse{},
		Parking:  []salary.ParkingLine{},
		Advances: []salary.AdvanceLine{},
	}

	for _, day := range s.calc.Days(inPeriod, drv.DailyWage) {
		resp.Days = append(resp.Days, toDayResponse(day))
	}

	for _, p := range data.parking {
		if p.DriverID != drv.ID || !period.Contains(p.EntryDate) {
			continue
		}
		resp.Parking = append(resp.Parking, salary.ParkingLine{
			ID:       p.ID,
			Date:     p.EntryDate.Format(time.DateOnly),
			Amount:   p.Amount,
			Source:   string(p.Source),
			Status:   string(p.Status),
			Location: p.Location,
			Counted:  p.Reimbursable(),
		})
	}

	for _, a := range data.advances {
		if a.DriverID != drv.ID || !period.Contains(a.AdvanceDate) {
			continue
		}
		resp.Advances = append(resp.Advances, salary.AdvanceLine{
			ID:              a.ID,
			Date:            a.AdvanceDate.Format(time.DateOnly),
			Amount:          a.Amount,
			RecoveredAmount: a.RecoveredAmount,
			Outstanding:     a.Outstanding(),
			Remark:          a.Remark,
		})
	}

	return resp, nil
}

func toSummaryResponse(s salary.Summary) salary.SummaryResponse {
	return salary.SummaryResponse{
		DriverID:       s.DriverID,
		DriverName:     s.DriverName,
		Mobile:         s.Mobile,
		VehicleNumber:  s.VehicleNumber,
		IsFreelancer:   s.IsFreelancer,
		DailyWage:      s.DailyWage,
		DutyDays:       s.DutyDays,
		TotalWages:     s.TotalWages,
		TotalBonuses:   s.TotalBonuses,
		TotalParking:   s.TotalParking,
		TotalEarned:    s.TotalEarned,
		TotalAdvances:  s.TotalAdvances,
		PendingAdvance: s.PendingAdvance,
		NetPayable:     s.NetPayable,
		NetPayableText: money.FormatINR(s.NetPayable),
		Status:         s.Status(),
	}
}

func toTotalsResponse(t salary.Totals) salary.TotalsResponse {
	return salary.TotalsResponse{
		Drivers:        t.Drivers,
		DutyDays:       t.DutyDays,
		TotalWages:     t.TotalWages,
		TotalBonuses:   t.TotalBonuses,
		TotalParking:   t.TotalParking,
		TotalEarned:    t.TotalEarned,
		TotalAdvances:  t.TotalAdvances,
		PendingAdvance: t.PendingAdvance,
		NetPayable:     t.NetPayable,
		NetPayableText: money.FormatINR(t.NetPayable),
		ExtraAdvance:   t.ExtraAdvance,
	}
}

func toDayResponse(d salary.DayPay) salary.DayResponse {
	trips := []string{}
	if d.SameDay {
		trips = append(trips, string(duty.TripSameDay))
	}
	if d.NightStay {
		trips = append(trips, string(duty.TripNightStay))
	}
	return salary.DayResponse{
		Date:      d.Date.Format(time.DateOnly),
		IsDuty:    d.IsDuty,
		Wage:      d.Wage,
		Bonuses:   d.Bonuses,
		Total:     d.Total,
		TripTypes: trips,
		DutyIDs:   d.DutyIDs,
		Remarks:   d.Remarks,
	}
}
