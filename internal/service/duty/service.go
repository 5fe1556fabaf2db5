package duty

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/auth"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/driver"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/duty"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/parking"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/user"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/pagination"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/validator"
	"github.com/fleetcrm/fleet-backend-go/internal/repository/postgresql"
	"github.com/fleetcrm/fleet-backend-go/internal/service/file"
)

// Options holds the duty rules taken from configuration.
type Options struct {
	// Location decides the calendar day a punch-in belongs to
	Location *time.Location

	// AutoCloseAfter is how long a duty may stay open before the cron closes it
	AutoCloseAfter time.Duration
}

type DutyServiceImpl struct {
	tx          postgresql.Transactor
	dutyRepo    duty.DutyRepository
	driverRepo  driver.DriverRepository
	parkingRepo parking.ParkingRepository
	fileService file.FileService
	opts        Options
	now         func() time.Time
}

func NewDutyService(
	tx postgresql.Transactor,
	dutyRepo duty.DutyRepository,
	driverRepo driver.DriverRepository,
	parkingRepo parking.ParkingRepository,
	fileService file.FileService,
	opts Options,
) duty.DutyService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &DutyServiceImpl{
		tx:          tx,
		dutyRepo:    dutyRepo,
		driverRepo:  driverRepo,
		parkingRepo: parkingRepo,
		fileService: fileService,
		opts:        opts,
		now:         time.Now,
	}
}

// resolveDriver picks the driver a punch is for. Drivers always act for
// themselves; office users must name the driver.
func (s *DutyServiceImpl) resolveDriver(ctx context.Context, id auth.Identity, requested string) (driver.Driver, error) {
	driverID := requested
	if id.IsDriver() {
		if id.DriverID == nil {
			return driver.Driver{}, user.ErrDriverAccessRequired
		}
		driverID = *id.DriverID
	}
	if driverID == "" {
		return driver.Driver{}, duty.ErrDriverIDRequired
	}

	drv, err := s.driverRepo.GetByID(ctx, driverID, id.CompanyID)
	if err != nil {
		return driver.Driver{}, err
	}
	if !drv.IsActive {
		return driver.Driver{}, driver.ErrDriverInactive
	}
	return drv, nil
}

// dutyDate is the local calendar day of t, stored as a UTC midnight.
func (s *DutyServiceImpl) dutyDate(t time.Time) time.Time {
	local := t.In(s.opts.Location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *DutyServiceImpl) PunchIn(ctx context.Context, req duty.PunchInRequest) (duty.DutyResponse, error) {
	if err := req.Validate(); err != nil {
		return duty.DutyResponse{}, err
	}

	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return duty.DutyResponse{}, err
	}

	drv, err := s.resolveDriver(ctx, id, req.DriverID)
	if err != nil {
		return duty.DutyResponse{}, err
	}

	_, err = s.dutyRepo.GetOpenByDriver(ctx, drv.ID, id.CompanyID)
	if err == nil {
		return duty.DutyResponse{}, duty.ErrAlreadyPunchedIn
	}
	if !errors.Is(err, duty.ErrDutyNotFound) {
		return duty.DutyResponse{}, err
	}

	now := s.now()
	date := s.dutyDate(now)

	photoPath, err := s.fileService.UploadPunchPhoto(ctx, drv.ID, date, file.PunchIn, req.File, req.FileHeader.Filename)
	if err != nil {
		return duty.DutyResponse{}, err
	}

	created, err := s.dutyRepo.Create(ctx, duty.Duty{
		CompanyID:        id.CompanyID,
		DriverID:         drv.ID,
		DutyDate:         date,
		Type:             duty.DutyTypeDuty,
		PunchIn:          &now,
		PunchInPhotoURL:  &photoPath,
		StartOdometer:    req.StartOdometer,
		OutsideTripTypes: []duty.TripType{},
		Remarks:          req.Remarks,
		Status:           duty.StatusOpen,
	})
	if err != nil {
		s.discardPhoto(ctx, photoPath)
		return duty.DutyResponse{}, err
	}

	created.DriverName = &drv.Name
	created.VehicleNumber = drv.VehicleNumber
	return s.toResponse(created, nil), nil
}

func (s *DutyServiceImpl) PunchOut(ctx context.Context, req duty.PunchOutRequest) (duty.DutyResponse, error) {
	if err := req.Validate(); err != nil {
		return duty.DutyResponse{}, err
	}

	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return duty.DutyResponse{}, err
	}

	drv, err := s.resolveDriver(ctx, id, req.DriverID)
	if err != nil {
		return duty.DutyResponse{}, err
	}

	open, err := s.dutyRepo.GetOpenByDriver(ctx, drv.ID, id.CompanyID)
	if err != nil {
		if errors.Is(err, duty.ErrDutyNotFound) {
			return duty.DutyResponse{}, duty.ErrNotPunchedIn
		}
		return duty.DutyResponse{}, err
	}

	if req.EndOdometer != nil && open.StartOdometer != nil && *req.EndOdometer < *open.StartOdometer {
		return duty.DutyResponse{}, duty.ErrOdometerBackwards
	}

	trips, err := parseTrips(req.OutsideTripTypes)
	if err != nil {
		return duty.DutyResponse{}, err
	}
	if trips == nil {
		trips = []duty.TripType{}
	}

	now := s.now()
	photoPath, err := s.fileService.UploadPunchPhoto(ctx, drv.ID, open.DutyDate, file.PunchOut, req.File, req.FileHeader.Filename)
	if err != nil {
		return duty.DutyResponse{}, err
	}

	open.PunchOut = &now
	open.PunchOutPhotoURL = &photoPath
	open.EndOdometer = req.EndOdometer
	open.OutsideTripOccurred = req.OutsideTripOccurred
	open.OutsideTripTypes = trips
	open.Status = duty.StatusClosed
	if req.Remarks != nil {
		open.Remarks = req.Remarks
	}

	var parkingID *string
	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.dutyRepo.Update(txCtx, open); err != nil {
			return fmt.Errorf("close duty: %w", err)
		}
		if req.ParkingAmount == nil {
			return nil
		}
		entry, err := s.parkingRepo.Create(txCtx, parking.ParkingEntry{
			CompanyID: id.CompanyID,
			DriverID:  drv.ID,
			DutyID:    &open.ID,
			EntryDate: open.DutyDate,
			Amount:    *req.ParkingAmount,
			Source:    parking.SourceDriver,
			Location:  req.ParkingLocation,
			Status:    parking.InitialStatus(parking.SourceDriver),
			CreatedBy: id.UserID,
		})
		if err != nil {
			return fmt.Errorf("record parking: %w", err)
		}
		parkingID = &entry.ID
		return nil
	})
	if err != nil {
		s.discardPhoto(ctx, photoPath)
		return duty.DutyResponse{}, err
	}

	open.DriverName = &drv.Name
	open.VehicleNumber = drv.VehicleNumber
	return s.toResponse(open, parkingID), nil
}

func (s *DutyServiceImpl) GetCurrent(ctx context.Context) (duty.DutyResponse, error) {
	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return duty.DutyResponse{}, err
	}
	if !id.IsDriver() || id.DriverID == nil {
		return duty.DutyResponse{}, user.ErrDriverAccessRequired
	}

	open, err := s.dutyRepo.GetOpenByDriver(ctx, *id.DriverID, id.CompanyID)
	if err != nil {
		return duty.DutyResponse{}, err
	}
	return s.toResponse(open, nil), nil
}

func (s *DutyServiceImpl) GetMyDuties(ctx context.Context, filter duty.MyDutyFilter) (duty.ListDutyResponse, error) {
	if err := filter.Validate(); err != nil {
		return duty.ListDutyResponse{}, err
	}

	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return duty.ListDutyResponse{}, err
	}
	if !id.IsDriver() || id.DriverID == nil {
		return duty.ListDutyResponse{}, user.ErrDriverAccessRequired
	}

	return s.list(ctx, id.CompanyID, duty.DutyFilter{
		DriverID:  id.DriverID,
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
		Page:      filter.Page,
		Limit:     filter.Limit,
	})
}

func (s *DutyServiceImpl) List(ctx context.Context, filter duty.DutyFilter) (duty.ListDutyResponse, error) {
	if err := filter.Validate(); err != nil {
		return duty.ListDutyResponse{}, err
	}

	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return duty.ListDutyResponse{}, err
	}

	return s.list(ctx, id.CompanyID, filter)
}

func (s *DutyServiceImpl) list(ctx context.Context, companyID string, filter duty.DutyFilter) (duty.ListDutyResponse, error) {
	filter.Page, filter.Limit = pagination.Normalize(filter.Page, filter.Limit)

	duties, total, err := s.dutyRepo.List(ctx, companyID, filter)
	if err != nil {
		return duty.ListDutyResponse{}, err
	}

	resp := duty.ListDutyResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: pagination.TotalPages(total, filter.Limit),
		Duties:     make([]duty.DutyResponse, 0, len(duties)),
	}
	for _, d := range duties {
		resp.Duties = append(resp.Duties, s.toResponse(d, nil))
	}
	return resp, nil
}

func (s *DutyServiceImpl) Get(ctx context.Context, dutyID string) (duty.DutyResponse, error) {
	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return duty.DutyResponse{}, err
	}

	d, err := s.dutyRepo.GetByID(ctx, dutyID, id.CompanyID)
	if err != nil {
		return duty.DutyResponse{}, err
	}
	return s.toResponse(d, nil), nil
}

func (s *DutyServiceImpl) Update(ctx context.Context, req duty.UpdateDutyRequest) (duty.DutyResponse, error) {
	if err := req.Validate(); err != nil {
		return duty.DutyResponse{}, err
	}

	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return duty.DutyResponse{}, err
	}

	d, err := s.dutyRepo.GetByID(ctx, req.ID, id.CompanyID)
	if err != nil {
		return duty.DutyResponse{}, err
	}

	if req.Type != nil {
		d.Type = duty.DutyType(*req.Type)
	}
	if req.OutsideTripOccurred != nil {
		d.OutsideTripOccurred = *req.OutsideTripOccurred
	}
	if req.OutsideTripTypes != nil {
		trips, err := parseTrips(*req.OutsideTripTypes)
		if err != nil {
			return duty.DutyResponse{}, err
		}
		if trips == nil {
			trips = []duty.TripType{}
		}
		d.OutsideTripTypes = trips
	}
	if req.StartOdometer != nil {
		d.StartOdometer = req.StartOdometer
	}
	if req.EndOdometer != nil {
		d.EndOdometer = req.EndOdometer
	}
	if req.Remarks != nil {
		d.Remarks = req.Remarks
	}

	if d.StartOdometer != nil && d.EndOdometer != nil && *d.EndOdometer < *d.StartOdometer {
		return duty.DutyResponse{}, duty.ErrOdometerBackwards
	}

	if err := s.dutyRepo.Update(ctx, d); err != nil {
		return duty.DutyResponse{}, err
	}

	slog.Info("duty corrected", "duty_id", d.ID, "driver_id", d.DriverID, "by", id.UserID)
	return s.toResponse(d, nil), nil
}

func (s *DutyServiceImpl) AutoCloseStale(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.opts.AutoCloseAfter)

	closed, err := s.dutyRepo.CloseStale(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("auto close duties: %w", err)
	}
	return closed, nil
}

func (s *DutyServiceImpl) discardPhoto(ctx context.Context, path string) {
	if err := s.fileService.DeleteFile(ctx, path); err != nil {
		slog.Warn("failed to remove orphaned punch photo", "path", path, "error", err)
	}
}

func (s *DutyServiceImpl) toResponse(d duty.Duty, parkingID *string) duty.DutyResponse {
	trips := make([]string, 0, len(d.OutsideTripTypes))
	for _, t := range d.OutsideTripTypes {
		trips = append(trips, string(t))
	}

	vehicle := driver.UnknownVehicle
	if d.VehicleNumber != nil && *d.VehicleNumber != "" {
		vehicle = *d.VehicleNumber
	}

	return duty.DutyResponse{
		ID:                  d.ID,
		DriverID:            d.DriverID,
		DriverName:          d.DriverName,
		VehicleNumber:       vehicle,
		DutyDate:            d.DutyDate.Format(time.DateOnly),
		Type:                string(d.Type),
		Status:              string(d.Status),
		PunchIn:             formatTime(d.PunchIn),
		PunchOut:            formatTime(d.PunchOut),
		PunchInPhotoURL:     s.fileService.URL(d.PunchInPhotoURL),
		PunchOutPhotoURL:    s.fileService.URL(d.PunchOutPhotoURL),
		StartOdometer:       d.StartOdometer,
		EndOdometer:         d.EndOdometer,
		DistanceKm:          d.DistanceKm(),
		OutsideTripOccurred: d.OutsideTripOccurred,
		OutsideTripTypes:    trips,
		Remarks:             d.Remarks,
		ParkingEntryID:      parkingID,
	}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

// parseTrips reports an unknown trip type as a field error on
// outside_trip_types.
func parseTrips(raw []string) ([]duty.TripType, error) {
	trips, err := duty.ParseTripTypes(raw)
	if err != nil {
		var errs validator.ValidationErrors
		errs.Add("outside_trip_types", err.Error())
		return nil, errs
	}
	return trips, nil
}
