package parking

import (
	"context"
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
	"github.com/fleetcrm/fleet-backend-go/internal/service/file"
	"golang.org/x/sync/errgroup"
)

type ParkingServiceImpl struct {
	parkingRepo parking.ParkingRepository
	driverRepo  driver.DriverRepository
	dutyRepo    duty.DutyRepository
	fileService file.FileService
}

func NewParkingService(
	parkingRepo parking.ParkingRepository,
	driverRepo driver.DriverRepository,
	dutyRepo duty.DutyRepository,
	fileService file.FileService,
) parking.ParkingService {
	return &ParkingServiceImpl{
		parkingRepo: parkingRepo,
		driverRepo:  driverRepo,
		dutyRepo:    dutyRepo,
		fileService: fileService,
	}
}

// Create records an office entry, approved on creation.
func (s *ParkingServiceImpl) Create(ctx context.Context, req parking.CreateParkingRequest) (parking.ParkingResponse, error) {
	if err := req.Validate(); err != nil {
		return parking.ParkingResponse{}, err
	}

	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return parking.ParkingResponse{}, err
	}

	drv, err := s.driverRepo.GetByID(ctx, req.DriverID, id.CompanyID)
	if err != nil {
		return parking.ParkingResponse{}, err
	}

	if req.DutyID != nil {
		if err := s.checkDuty(ctx, id.CompanyID, drv.ID, *req.DutyID); err != nil {
			return parking.ParkingResponse{}, err
		}
	}

	date, err := validator.ParseDate("date", req.Date)
	if err != nil {
		return parking.ParkingResponse{}, err
	}
	entry := parking.ParkingEntry{
		CompanyID: id.CompanyID,
		DriverID:  drv.ID,
		DutyID:    req.DutyID,
		EntryDate: date,
		Amount:    req.Amount,
		Source:    parking.SourceAdmin,
		Location:  req.Location,
		Remark:    req.Remark,
		Status:    parking.InitialStatus(parking.SourceAdmin),
		CreatedBy: id.UserID,
	}
	if entry.Status == parking.StatusApproved {
		now := time.Now()
		entry.ReviewedBy = &id.UserID
		entry.ReviewedAt = &now
	}

	return s.create(ctx, entry, drv, req.FileHeader != nil, func() (string, error) {
		return s.fileService.UploadReceipt(ctx, "parking", drv.ID, req.File, req.FileHeader.Filename)
	})
}

// Claim records a driver's own claim, pending review.
func (s *ParkingServiceImpl) Claim(ctx context.Context, req parking.ClaimParkingRequest) (parking.ParkingResponse, error) {
	if err := req.Validate(); err != nil {
		return parking.ParkingResponse{}, err
	}

	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return parking.ParkingResponse{}, err
	}
	if !id.IsDriver() || id.DriverID == nil {
		return parking.ParkingResponse{}, user.ErrDriverAccessRequired
	}

	drv, err := s.driverRepo.GetByID(ctx, *id.DriverID, id.CompanyID)
	if err != nil {
		return parking.ParkingResponse{}, err
	}

	if req.DutyID != nil {
		if err := s.checkDuty(ctx, id.CompanyID, drv.ID, *req.DutyID); err != nil {
			return parking.ParkingResponse{}, err
		}
	}

	date, err := validator.ParseDate("date", req.Date)
	if err != nil {
		return parking.ParkingResponse{}, err
	}
	entry := parking.ParkingEntry{
		CompanyID: id.CompanyID,
		DriverID:  drv.ID,
		DutyID:    req.DutyID,
		EntryDate: date,
		Amount:    req.Amount,
		Source:    parking.SourceDriver,
		Location:  req.Location,
		Remark:    req.Remark,
		Status:    parking.InitialStatus(parking.SourceDriver),
		CreatedBy: id.UserID,
	}

	return s.create(ctx, entry, drv, req.FileHeader != nil, func() (string, error) {
		return s.fileService.UploadReceipt(ctx, "parking", drv.ID, req.File, req.FileHeader.Filename)
	})
}

func (s *ParkingServiceImpl) create(ctx context.Context, entry parking.ParkingEntry, drv driver.Driver, hasReceipt bool, upload func() (string, error)) (parking.ParkingResponse, error) {
	if hasReceipt {
		receipt, err := upload()
		if err != nil {
			return parking.ParkingResponse{}, err
		}
		entry.ReceiptURL = &receipt
	}

	created, err := s.parkingRepo.Create(ctx, entry)
	if err != nil {
		if entry.ReceiptURL != nil {
			if delErr := s.fileService.DeleteFile(ctx, *entry.ReceiptURL); delErr != nil {
				slog.Warn("failed to remove orphaned receipt", "path", *entry.ReceiptURL, "error", delErr)
			}
		}
		return parking.ParkingResponse{}, err
	}

	created.DriverName = &drv.Name
	created.VehicleNumber = drv.VehicleNumber
	return s.toResponse(created), nil
}

// checkDuty ensures the duty exists and belongs to the driver.
func (s *ParkingServiceImpl) checkDuty(ctx context.Context, companyID, driverID, dutyID string) error {
	d, err := s.dutyRepo.GetByID(ctx, dutyID, companyID)
	if err != nil {
		return err
	}
	if d.DriverID != driverID {
		return parking.ErrDutyMismatch
	}
	return nil
}

func (s *ParkingServiceImpl) List(ctx context.Context, filter parking.ParkingFilter) (parking.ListParkingResponse, error) {
	if err := filter.Validate(); err != nil {
		return parking.ListParkingResponse{}, err
	}

	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return parking.ListParkingResponse{}, err
	}

	return s.list(ctx, id.CompanyID, filter)
}

func (s *ParkingServiceImpl) GetMyClaims(ctx context.Context, filter parking.ParkingFilter) (parking.ListParkingResponse, error) {
	if err := filter.Validate(); err != nil {
		return parking.ListParkingResponse{}, err
	}

	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return parking.ListParkingResponse{}, err
	}
	if !id.IsDriver() || id.DriverID == nil {
		return parking.ListParkingResponse{}, user.ErrDriverAccessRequired
	}

	filter.DriverID = id.DriverID
	return s.list(ctx, id.CompanyID, filter)
}

func (s *ParkingServiceImpl) list(ctx context.Context, companyID string, filter parking.ParkingFilter) (parking.ListParkingResponse, error) {
	filter.Page, filter.Limit = pagination.Normalize(filter.Page, filter.Limit)

	var entries []parking.ParkingEntry
	var total int64
	resp := parking.ListParkingResponse{Page: filter.Page, Limit: filter.Limit}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, total, err = s.parkingRepo.List(gCtx, companyID, filter)
		return err
	})
	g.Go(func() error {
		sum, err := s.parkingRepo.SumAmount(gCtx, companyID, filter)
		if err != nil {
			return err
		}
		resp.TotalAmount = sum
		return nil
	})
	if err := g.Wait(); err != nil {
		return parking.ListParkingResponse{}, err
	}

	resp.TotalCount = total
	resp.TotalPages = pagination.TotalPages(total, filter.Limit)
	resp.Entries = make([]parking.ParkingResponse, 0, len(entries))
	for _, e := range entries {
		resp.Entries = append(resp.Entries, s.toResponse(e))
	}
	return resp, nil
}

// Review approves or rejects a pending entry. When DutyID is set the entry
// must belong to that duty.
func (s *ParkingServiceImpl) Review(ctx context.Context, req parking.ReviewParkingRequest) (parking.ParkingResponse, error) {
	if err := req.Validate(); err != nil {
		return parking.ParkingResponse{}, err
	}

	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return parking.ParkingResponse{}, err
	}

	entry, err := s.parkingRepo.GetByID(ctx, req.ID, id.CompanyID)
	if err != nil {
		return parking.ParkingResponse{}, err
	}
	if req.DutyID != nil && (entry.DutyID == nil || *entry.DutyID != *req.DutyID) {
		return parking.ParkingResponse{}, parking.ErrDutyMismatch
	}
	if entry.Status != parking.StatusPending {
		return parking.ParkingResponse{}, parking.ErrAlreadyReviewed
	}

	var reason *string
	if req.Action == parking.ReviewReject {
		reason = req.RejectionReason
	}

	if err := s.parkingRepo.Review(ctx, id.CompanyID, entry.ID, req.TargetStatus(), id.UserID, reason); err != nil {
		return parking.ParkingResponse{}, fmt.Errorf("review parking entry: %w", err)
	}

	updated, err := s.parkingRepo.GetByID(ctx, entry.ID, id.CompanyID)
	if err != nil {
		return parking.ParkingResponse{}, err
	}

	slog.Info("parking entry reviewed", "parking_id", entry.ID, "status", updated.Status, "by", id.UserID)
	return s.toResponse(updated), nil
}

// Delete removes an entry. Approved driver claims are kept for the audit
// trail; reject them instead.
func (s *ParkingServiceImpl) Delete(ctx context.Context, parkingID string) error {
	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return err
	}

	entry, err := s.parkingRepo.GetByID(ctx, parkingID, id.CompanyID)
	if err != nil {
		return err
	}
	if entry.Source == parking.SourceDriver && entry.Status == parking.StatusApproved {
		return parking.ErrCannotDeleteApproved
	}

	if err := s.parkingRepo.Delete(ctx, entry.ID, id.CompanyID); err != nil {
		return err
	}

	if entry.ReceiptURL != nil {
		if err := s.fileService.DeleteFile(ctx, *entry.ReceiptURL); err != nil {
			slog.Warn("failed to remove receipt", "path", *entry.ReceiptURL, "error", err)
		}
	}
	return nil
}

func (s *ParkingServiceImpl) toResponse(e parking.ParkingEntry) parking.ParkingResponse {
	vehicle := driver.UnknownVehicle
	if e.VehicleNumber != nil && *e.VehicleNumber != "" {
		vehicle = *e.VehicleNumber
	}

	var reviewedAt *string
	if e.ReviewedAt != nil {
		s := e.ReviewedAt.Format(time.RFC3339)
		reviewedAt = &s
	}

	return parking.ParkingResponse{
		ID:              e.ID,
		DriverID:        e.DriverID,
		DriverName:      e.DriverName,
		VehicleNumber:   vehicle,
		DutyID:          e.DutyID,
		Date:            e.EntryDate.Format(time.DateOnly),
		Amount:          e.Amount,
		Source:          string(e.Source),
		Location:        e.Location,
		Remark:          e.Remark,
		ReceiptURL:      s.fileService.URL(e.ReceiptURL),
		Status:          string(e.Status),
		ReviewedBy:      e.ReviewedBy,
		ReviewedAt:      reviewedAt,
		RejectionReason: e.RejectionReason,
		CreatedAt:       e.CreatedAt.Format(time.RFC3339),
	}
}
