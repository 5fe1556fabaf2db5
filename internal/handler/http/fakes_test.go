package http

import (
	"context"
	"io"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/accident"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/advance"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/auth"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/driver"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/duty"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/fastag"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/fuel"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/parking"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/salary"
	"github.com/fleetcrm/fleet-backend-go/internal/service/file"
)

// Each fake records the last request it saw and returns err when set.

type fakeAuthService struct {
	auth.AuthService
	err        error
	tokens     auth.TokenResponse
	lastLogin  auth.LoginRequest
	lastLogout auth.LogoutRequest
	lastChange auth.ChangePasswordRequest
	refreshed  string
}

func (f *fakeAuthService) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	f.lastLogin = req
	return f.tokens, f.err
}

func (f *fakeAuthService) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	f.refreshed = req.RefreshToken
	return auth.AccessTokenResponse{AccessToken: "new-access", AccessTokenExpiresIn: 3600}, f.err
}

func (f *fakeAuthService) Logout(ctx context.Context, req auth.LogoutRequest) error {
	f.lastLogout = req
	return f.err
}

func (f *fakeAuthService) ChangePassword(ctx context.Context, req auth.ChangePasswordRequest) error {
	f.lastChange = req
	return f.err
}

func (f *fakeAuthService) Me(ctx context.Context) (auth.MeResponse, error) {
	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return auth.MeResponse{}, err
	}
	return auth.MeResponse{UserID: id.UserID, Email: id.Email, Role: string(id.Role), CompanyID: id.CompanyID, DriverID: id.DriverID}, f.err
}

type fakeDriverService struct {
	err        error
	lastCreate driver.CreateDriverRequest
	lastUpdate driver.UpdateDriverRequest
	lastFilter driver.DriverFilter
	lastID     string
}

func (f *fakeDriverService) Create(ctx context.Context, req driver.CreateDriverRequest) (driver.DriverResponse, error) {
	f.lastCreate = req
	return driver.DriverResponse{ID: "drv-new", Name: req.Name, Mobile: req.Mobile}, f.err
}

func (f *fakeDriverService) GetByID(ctx context.Context, id string) (driver.DriverResponse, error) {
	f.lastID = id
	return driver.DriverResponse{ID: id}, f.err
}

func (f *fakeDriverService) List(ctx context.Context, filter driver.DriverFilter) (driver.ListDriverResponse, error) {
	f.lastFilter = filter
	return driver.ListDriverResponse{
		TotalCount: 1, Page: 1, Limit: 20, TotalPages: 1,
		Drivers: []driver.DriverResponse{{ID: "drv-1", Name: "Ravi"}},
	}, f.err
}

func (f *fakeDriverService) Update(ctx context.Context, req driver.UpdateDriverRequest) (driver.DriverResponse, error) {
	f.lastUpdate = req
	return driver.DriverResponse{ID: req.ID}, f.err
}

func (f *fakeDriverService) Deactivate(ctx context.Context, id string) error {
	f.lastID = id
	return f.err
}

type fakeDutyService struct {
	duty.DutyService
	err          error
	lastPunchIn  duty.PunchInRequest
	lastPunchOut duty.PunchOutRequest
	photo        []byte
	lastFilter   duty.DutyFilter
	lastMine     duty.MyDutyFilter
	lastUpdate   duty.UpdateDutyRequest
}

func (f *fakeDutyService) PunchIn(ctx context.Context, req duty.PunchInRequest) (duty.DutyResponse, error) {
	f.lastPunchIn = req
	if req.File != nil {
		f.photo, _ = io.ReadAll(req.File)
	}
	return duty.DutyResponse{ID: "dut-1", Status: string(duty.StatusOpen)}, f.err
}

func (f *fakeDutyService) PunchOut(ctx context.Context, req duty.PunchOutRequest) (duty.DutyResponse, error) {
	f.lastPunchOut = req
	return duty.DutyResponse{ID: "dut-1", Status: string(duty.StatusClosed), OutsideTripTypes: req.OutsideTripTypes}, f.err
}

func (f *fakeDutyService) GetCurrent(ctx context.Context) (duty.DutyResponse, error) {
	return duty.DutyResponse{ID: "dut-1", DriverID: testDriverID}, f.err
}

func (f *fakeDutyService) GetMyDuties(ctx context.Context, filter duty.MyDutyFilter) (duty.ListDutyResponse, error) {
	f.lastMine = filter
	return duty.ListDutyResponse{Page: 1, Limit: 20}, f.err
}

func (f *fakeDutyService) List(ctx context.Context, filter duty.DutyFilter) (duty.ListDutyResponse, error) {
	f.lastFilter = filter
	return duty.ListDutyResponse{TotalCount: 45, Page: 2, Limit: 20, TotalPages: 3}, f.err
}

func (f *fakeDutyService) Get(ctx context.Context, id string) (duty.DutyResponse, error) {
	return duty.DutyResponse{ID: id}, f.err
}

func (f *fakeDutyService) Update(ctx context.Context, req duty.UpdateDutyRequest) (duty.DutyResponse, error) {
	f.lastUpdate = req
	return duty.DutyResponse{ID: req.ID}, f.err
}

type fakeParkingService struct {
	err        error
	lastCreate parking.CreateParkingRequest
	lastClaim  parking.ClaimParkingRequest
	lastReview parking.ReviewParkingRequest
	lastFilter parking.ParkingFilter
	lastID     string
}

func (f *fakeParkingService) Create(ctx context.Context, req parking.CreateParkingRequest) (parking.ParkingResponse, error) {
	f.lastCreate = req
	return parking.ParkingResponse{ID: "prk-1", Status: string(parking.StatusApproved)}, f.err
}

func (f *fakeParkingService) Claim(ctx context.Context, req parking.ClaimParkingRequest) (parking.ParkingResponse, error) {
	f.lastClaim = req
	return parking.ParkingResponse{ID: "prk-2", Status: string(parking.StatusPending)}, f.err
}

func (f *fakeParkingService) List(ctx context.Context, filter parking.ParkingFilter) (parking.ListParkingResponse, error) {
	f.lastFilter = filter
	return parking.ListParkingResponse{Page: 1, Limit: 20}, f.err
}

func (f *fakeParkingService) GetMyClaims(ctx context.Context, filter parking.ParkingFilter) (parking.ListParkingResponse, error) {
	f.lastFilter = filter
	return parking.ListParkingResponse{Page: 1, Limit: 20}, f.err
}

func (f *fakeParkingService) Review(ctx context.Context, req parking.ReviewParkingRequest) (parking.ParkingResponse, error) {
	f.lastReview = req
	return parking.ParkingResponse{ID: req.ID, Status: string(req.TargetStatus())}, f.err
}

func (f *fakeParkingService) Delete(ctx context.Context, id string) error {
	f.lastID = id
	return f.err
}

type fakeAdvanceService struct {
	advance.AdvanceService
	err          error
	lastCreate   advance.CreateAdvanceRequest
	lastRecovery advance.RecordRecoveryRequest
	lastFilter   advance.AdvanceFilter
}

func (f *fakeAdvanceService) Create(ctx context.Context, req advance.CreateAdvanceRequest) (advance.AdvanceResponse, error) {
	f.lastCreate = req
	return advance.AdvanceResponse{ID: "adv-1", Amount: req.Amount}, f.err
}

func (f *fakeAdvanceService) List(ctx context.Context, filter advance.AdvanceFilter) (advance.ListAdvanceResponse, error) {
	f.lastFilter = filter
	return advance.ListAdvanceResponse{Page: 1, Limit: 20}, f.err
}

func (f *fakeAdvanceService) RecordRecovery(ctx context.Context, req advance.RecordRecoveryRequest) (advance.AdvanceResponse, error) {
	f.lastRecovery = req
	return advance.AdvanceResponse{ID: req.ID, RecoveredAmount: req.Amount}, f.err
}

type fakeSalaryService struct {
	err         error
	lastSummary salary.SummaryRequest
	lastDetail  salary.DetailRequest
}

func (f *fakeSalaryService) GetSalarySummary(ctx context.Context, req salary.SummaryRequest) (salary.ListSummaryResponse, error) {
	f.lastSummary = req
	return salary.ListSummaryResponse{Month: req.Month, Year: req.Year}, f.err
}

func (f *fakeSalaryService) GetSalaryDetails(ctx context.Context, req salary.DetailRequest) (salary.DetailResponse, error) {
	f.lastDetail = req
	return salary.DetailResponse{Month: req.Month, Year: req.Year, Summary: salary.SummaryResponse{DriverID: req.DriverID}}, f.err
}

type fakeFuelService struct {
	err        error
	lastCreate fuel.CreateFuelEntryRequest
	hadReceipt bool
	lastFilter fuel.FuelFilter
	lastID     string
}

func (f *fakeFuelService) Create(ctx context.Context, req fuel.CreateFuelEntryRequest) (fuel.FuelEntryResponse, error) {
	f.lastCreate = req
	f.hadReceipt = req.File != nil
	return fuel.FuelEntryResponse{ID: "ful-1", VehicleNumber: req.VehicleNumber}, f.err
}

func (f *fakeFuelService) List(ctx context.Context, filter fuel.FuelFilter) (fuel.ListFuelEntryResponse, error) {
	f.lastFilter = filter
	return fuel.ListFuelEntryResponse{Page: 1, Limit: 20}, f.err
}

func (f *fakeFuelService) Delete(ctx context.Context, id string) error {
	f.lastID = id
	return f.err
}

type fakeFastagService struct {
	err        error
	lastCreate fastag.CreateRechargeRequest
	lastFilter fastag.RechargeFilter
	balances   []fastag.VehicleBalanceResponse
}

func (f *fakeFastagService) Create(ctx context.Context, req fastag.CreateRechargeRequest) (fastag.RechargeResponse, error) {
	f.lastCreate = req
	return fastag.RechargeResponse{ID: "ftg-1", VehicleNumber: req.VehicleNumber}, f.err
}

func (f *fakeFastagService) List(ctx context.Context, filter fastag.RechargeFilter) (fastag.ListRechargeResponse, error) {
	f.lastFilter = filter
	return fastag.ListRechargeResponse{Page: 1, Limit: 20}, f.err
}

func (f *fakeFastagService) Delete(ctx context.Context, id string) error {
	return f.err
}

func (f *fakeFastagService) GetBalances(ctx context.Context, filter fastag.RechargeFilter) ([]fastag.VehicleBalanceResponse, error) {
	f.lastFilter = filter
	return f.balances, f.err
}

type fakeAccidentService struct {
	err        error
	lastCreate accident.CreateAccidentLogRequest
	photo      []byte
	lastFilter accident.AccidentFilter
	lastID     string
}

func (f *fakeAccidentService) Create(ctx context.Context, req accident.CreateAccidentLogRequest) (accident.AccidentLogResponse, error) {
	f.lastCreate = req
	if req.File != nil {
		f.photo, _ = io.ReadAll(req.File)
	}
	return accident.AccidentLogResponse{ID: "acc-1", VehicleNumber: req.VehicleNumber, Description: req.Description}, f.err
}

func (f *fakeAccidentService) List(ctx context.Context, filter accident.AccidentFilter) (accident.ListAccidentLogResponse, error) {
	f.lastFilter = filter
	return accident.ListAccidentLogResponse{TotalCount: 3, Page: 1, Limit: 20, TotalPages: 1}, f.err
}

func (f *fakeAccidentService) Delete(ctx context.Context, id string) error {
	f.lastID = id
	return f.err
}

type fakeFileService struct {
	file.FileService
	err        error
	lastFolder string
	lastOwner  string
}

func (f *fakeFileService) UploadReceipt(ctx context.Context, folder string, ownerID string, r io.Reader, filename string) (string, error) {
	f.lastFolder = folder
	f.lastOwner = ownerID
	if f.err != nil {
		return "", f.err
	}
	return folder + "/" + ownerID + "/receipt.jpg", nil
}

func (f *fakeFileService) URL(path *string) *string {
	if path == nil {
		return nil
	}
	u := "/uploads/" + *path
	return &u
}
