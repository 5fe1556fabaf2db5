package salary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/advance"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/auth"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/driver"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/duty"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/parking"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/salary"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCompanyID = "cmp-1"
	driverA       = "3b6f0a52-8f3c-4c1e-9a57-2d4f8e1b7c01"
	driverB       = "3b6f0a52-8f3c-4c1e-9a57-2d4f8e1b7c02"
)

type fakeDriverRepo struct {
	driver.DriverRepository
	drivers []driver.Driver
	err     error
}

func (f *fakeDriverRepo) ListAll(ctx context.Context, companyID string) ([]driver.Driver, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []driver.Driver
	for _, d := range f.drivers {
		if d.CompanyID == companyID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDriverRepo) GetByID(ctx context.Context, id, companyID string) (driver.Driver, error) {
	for _, d := range f.drivers {
		if d.ID == id && d.CompanyID == companyID {
			return d, nil
		}
	}
	return driver.Driver{}, driver.ErrDriverNotFound
}

type fakeDutyRepo struct {
	duty.DutyRepository
	duties []duty.Duty
	err    error
}

func (f *fakeDutyRepo) ListByPeriod(ctx context.Context, companyID string, driverID *string, start, end time.Time) ([]duty.Duty, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []duty.Duty
	for _, d := range f.duties {
		if driverID != nil && d.DriverID != *driverID {
			continue
		}
		if !d.DutyDate.Before(start) && d.DutyDate.Before(end) {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeParkingRepo struct {
	parking.ParkingRepository
	entries []parking.ParkingEntry
}

func (f *fakeParkingRepo) ListByPeriod(ctx context.Context, companyID string, driverID *string, start, end time.Time) ([]parking.ParkingEntry, error) {
	var out []parking.ParkingEntry
	for _, p := range f.entries {
		if driverID != nil && p.DriverID != *driverID {
			continue
		}
		if !p.EntryDate.Before(start) && p.EntryDate.Before(end) {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeAdvanceRepo struct {
	advance.AdvanceRepository
	advances []advance.Advance
}

func (f *fakeAdvanceRepo) ListByPeriod(ctx context.Context, companyID string, driverID *string, start, end time.Time) ([]advance.Advance, error) {
	var out []advance.Advance
	for _, a := range f.advances {
		if driverID != nil && a.DriverID != *driverID {
			continue
		}
		if !a.AdvanceDate.Before(start) && a.AdvanceDate.Before(end) {
			out = append(out, a)
		}
	}
	return out, nil
}

func adminCtx() context.Context {
	return auth.ContextWithIdentity(context.Background(), auth.Identity{
		UserID: "usr-admin", CompanyID: testCompanyID, Role: user.RoleAdmin,
	})
}


func punched(id, driverID string, date time.Time, trips ...duty.TripType) duty.Duty {
	in := date.Add(9 * time.Hour)
	return duty.Duty{
		ID: id, CompanyID: testCompanyID, DriverID: driverID, DutyDate: date,
		Type: duty.DutyTypeDuty, PunchIn: &in, Status: duty.StatusClosed,
		OutsideTripOccurred: len(trips) > 0, OutsideTripTypes: trips,
	}
}

func newTestService() (*SalaryServiceImpl, *fakeDriverRepo, *fakeDutyRepo, *fakeParkingRepo, *fakeAdvanceRepo) {
	drivers := &fakeDriverRepo{drivers: []driver.Driver{
		{ID: driverA, CompanyID: testCompanyID, Name: "Arjun", Mobile: "9876543210", DailyWage: decimal.NewFromInt(500), IsActive: true},
		{ID: driverB, CompanyID: testCompanyID, Name: "Bala", Mobile: "9123456780", DailyWage: decimal.NewFromInt(600), IsFreelancer: true, IsActive: true},
	}}
	duties := &fakeDutyRepo{}
	parkings := &fakeParkingRepo{}
	advances := &fakeAdvanceRepo{}
	svc := NewSalaryService(drivers, duties, parkings, advances, NewCalculator(DefaultBonusRules())).(*SalaryServiceImpl)
	return svc, drivers, duties, parkings, advances
}

func TestGetSalarySummary(t *testing.T) {
	svc, _, duties, parkings, advances := newTestService()
	duties.duties = []duty.Duty{
		punched("d1", driverA, day(1), duty.TripSameDay),
		punched("d2", driverA, day(2), duty.TripNightStay),
		punched("d3", driverB, day(3)),
		punched("d4", driverA, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)),
	}
	parkings.entries = []parking.ParkingEntry{
		{ID: "p1", DriverID: driverA, EntryDate: day(1), Amount: decimal.NewFromInt(50), Status: parking.StatusApproved},
		{ID: "p2", DriverID: driverA, EntryDate: day(2), Amount: decimal.NewFromInt(70), Status: parking.StatusPending},
	}
	advances.advances = []advance.Advance{
		{ID: "a1", DriverID: driverB, AdvanceDate: day(5), Amount: decimal.NewFromInt(1000)},
	}

	resp, err := svc.GetSalarySummary(adminCtx(), salary.SummaryRequest{Month: 5, Year: 2024})
	require.NoError(t, err)

	require.Len(t, resp.Summaries, 2)
	assert.Equal(t, "2024-05-01", resp.PeriodStart)
	assert.Equal(t, "2024-05-31", resp.PeriodEnd)

	a := resp.Summaries[0]
	assert.Equal(t, "Arjun", a.DriverName)
	assert.Equal(t, 2, a.DutyDays)
	// 2*500 + 100 + 500 + 50
	assert.True(t, a.NetPayable.Equal(decimal.NewFromInt(1650)), a.NetPayable.String())
	assert.Equal(t, salary.StatusPayable, a.Status)
	assert.Equal(t, "₹1,650.00", a.NetPayableText)

	b := resp.Summaries[1]
	assert.True(t, b.NetPayable.Equal(decimal.NewFromInt(-400)), b.NetPayable.String())
	assert.Equal(t, salary.StatusExtraAdvance, b.Status)
	assert.Equal(t, "-₹400.00", b.NetPayableText)

	assert.Equal(t, 2, resp.Totals.Drivers)
	assert.Equal(t, 1, resp.Totals.ExtraAdvance)
	assert.True(t, resp.Totals.NetPayable.Equal(decimal.NewFromInt(1250)))
}

func TestGetSalarySummary_Filter(t *testing.T) {
	svc, _, duties, _, advances := newTestService()
	duties.duties = []duty.Duty{punched("d1", driverA, day(1))}
	advances.advances = []advance.Advance{{ID: "a1", DriverID: driverB, AdvanceDate: day(5), Amount: decimal.NewFromInt(1000)}}

	status := salary.StatusExtraAdvance
	resp, err := svc.GetSalarySummary(adminCtx(), salary.SummaryRequest{
		Month: 5, Year: 2024, Filter: salary.SummaryFilter{Status: &status},
	})
	require.NoError(t, err)
	require.Len(t, resp.Summaries, 1)
	assert.Equal(t, driverB, resp.Summaries[0].DriverID)
	assert.Equal(t, 1, resp.Totals.Drivers)
}

func TestGetSalarySummary_Errors(t *testing.T) {
	svc, drivers, _, _, _ := newTestService()

	_, err := svc.GetSalarySummary(adminCtx(), salary.SummaryRequest{Month: 13, Year: 2024})
	assert.Error(t, err)

	_, err = svc.GetSalarySummary(context.Background(), salary.SummaryRequest{Month: 5, Year: 2024})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	drivers.err = errors.New("connection refused")
	_, err = svc.GetSalarySummary(adminCtx(), salary.SummaryRequest{Month: 5, Year: 2024})
	assert.ErrorContains(t, err, "connection refused")
}

func TestGetSalaryDetails(t *testing.T) {
	svc, _, duties, parkings, advances := newTestService()
	remark := "airport run"
	d1 := punched("d1", driverA, day(1), duty.TripSameDay, duty.TripNightStay)
	d1.Remarks = &remark
	duties.duties = []duty.Duty{
		d1,
		{ID: "d2", DriverID: driverA, DutyDate: day(2), Type: duty.DutyTypeLeave},
		punched("d3", driverB, day(1)),
	}
	parkings.entries = []parking.ParkingEntry{
		{ID: "p1", DriverID: driverA, EntryDate: day(1), Amount: decimal.NewFromInt(40), Status: parking.StatusApproved, Source: parking.SourceAdmin},
		{ID: "p2", DriverID: driverA, EntryDate: day(1), Amount: decimal.NewFromInt(60), Status: parking.StatusRejected, Source: parking.SourceDriver},
	}
	advances.advances = []advance.Advance{
		{ID: "a1", DriverID: driverA, AdvanceDate: day(3), Amount: decimal.NewFromInt(300), RecoveredAmount: decimal.NewFromInt(100)},
	}

	resp, err := svc.GetSalaryDetails(adminCtx(), salary.DetailRequest{DriverID: driverA, Month: 5, Year: 2024})
	require.NoError(t, err)

	require.Len(t, resp.Days, 2)
	assert.Equal(t, "2024-05-01", resp.Days[0].Date)
	assert.Equal(t, []string{"Same Day", "Night Stay"}, resp.Days[0].TripTypes)
	assert.True(t, resp.Days[0].Total.Equal(decimal.NewFromInt(1100)))
	assert.Equal(t, []string{"airport run"}, resp.Days[0].Remarks)
	assert.False(t, resp.Days[1].IsDuty)
	assert.True(t, resp.Days[1].Total.IsZero())

	require.Len(t, resp.Parking, 2)
	assert.True(t, resp.Parking[0].Counted)
	assert.False(t, resp.Parking[1].Counted)

	require.Len(t, resp.Advances, 1)
	assert.True(t, resp.Advances[0].Outstanding.Equal(decimal.NewFromInt(200)))

	// 500 + 100 + 500 + 40 - 300
	assert.True(t, resp.Summary.NetPayable.Equal(decimal.NewFromInt(840)), resp.Summary.NetPayable.String())
	assert.True(t, resp.Summary.PendingAdvance.Equal(decimal.NewFromInt(200)))
}

func TestGetSalaryDetails_DriverNotFound(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	_, err := svc.GetSalaryDetails(adminCtx(), salary.DetailRequest{DriverID: "6f1c9d3e-0000-4000-8000-000000000000", Month: 5, Year: 2024})
	assert.ErrorIs(t, err, salary.ErrDriverNotFound)

	otherCompany := auth.ContextWithIdentity(context.Background(), auth.Identity{
		UserID: "usr-x", CompanyID: "cmp-2", Role: user.RoleAdmin,
	})
	_, err = svc.GetSalaryDetails(otherCompany, salary.DetailRequest{DriverID: driverA, Month: 5, Year: 2024})
	assert.ErrorIs(t, err, salary.ErrDriverNotFound)
}
