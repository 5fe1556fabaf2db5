package fuel

import (
	"context"
	"log/slog"
	"time"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/auth"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/driver"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/fuel"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/pagination"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/validator"
	"github.com/fleetcrm/fleet-backend-go/internal/service/file"
)

type FuelServiceImpl struct {
	fuelRepo    fuel.FuelRepository
	driverRepo  driver.DriverRepository
	fileService file.FileService
}

func NewFuelService(fuelRepo fuel.FuelRepository, driverRepo driver.DriverRepository, fileService file.FileService) fuel.FuelService {
	return &FuelServiceImpl{
		fuelRepo:    fuelRepo,
		driverRepo:  driverRepo,
		fileService: fileService,
	}
}

func (s *FuelServiceImpl) Create(ctx context.Context, req fuel.CreateFuelEntryRequest) (fuel.FuelEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return fuel.FuelEntryResponse{}, err
	}

	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return fuel.FuelEntryResponse{}, err
	}

	var driverName *string
	if req.DriverID != nil {
		drv, err := s.driverRepo.GetByID(ctx, *req.DriverID, id.CompanyID)
		if err != nil {
			return fuel.FuelEntryResponse{}, err
		}
		driverName = &drv.Name
	}

	date, err := validator.ParseDate("date", req.Date)
	if err != nil {
		return fuel.FuelEntryResponse{}, err
	}
	entry := fuel.FuelEntry{
		CompanyID:     id.CompanyID,
		VehicleNumber: req.VehicleNumber,
		DriverID:      req.DriverID,
		EntryDate:     date,
		Litres:        req.Litres,
		Amount:        req.Amount,
		Odometer:      req.Odometer,
		FuelStation:   req.FuelStation,
		Remark:        req.Remark,
		CreatedBy:     id.UserID,
	}

	if req.FileHeader != nil {
		receipt, err := s.fileService.UploadReceipt(ctx, "fuel", req.VehicleNumber, req.File, req.FileHeader.Filename)
		if err != nil {
			return fuel.FuelEntryResponse{}, err
		}
		entry.ReceiptURL = &receipt
	}

	created, err := s.fuelRepo.Create(ctx, entry)
	if err != nil {
		if entry.ReceiptURL != nil {
			if delErr := s.fileService.DeleteFile(ctx, *entry.ReceiptURL); delErr != nil {
				slog.Warn("failed to remove orphaned receipt", "path", *entry.ReceiptURL, "error", delErr)
			}
		}
		return fuel.FuelEntryResponse{}, err
	}

	created.DriverName = driverName
	return s.toResponse(created), nil
}

func (s *FuelServiceImpl) List(ctx context.Context, filter fuel.FuelFilter) (fuel.ListFuelEntryResponse, error) {
	if err := filter.Validate(); err != nil {
		return fuel.ListFuelEntryResponse{}, err
	}

	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return fuel.ListFuelEntryResponse{}, err
	}

	filter.Page, filter.Limit = pagination.Normalize(filter.Page, filter.Limit)

	entries, totals, err := s.fuelRepo.List(ctx, id.CompanyID, filter)
	if err != nil {
		return fuel.ListFuelEntryResponse{}, err
	}

	resp := fuel.ListFuelEntryResponse{
		TotalCount:  totals.Count,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  pagination.TotalPages(totals.Count, filter.Limit),
		TotalLitres: totals.Litres,
		TotalAmount: totals.Amount,
		Entries:     make([]fuel.FuelEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, s.toResponse(e))
	}
	return resp, nil
}

func (s *FuelServiceImpl) Delete(ctx context.Context, entryID string) error {
	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return err
	}

	entry, err := s.fuelRepo.GetByID(ctx, entryID, id.CompanyID)
	if err != nil {
		return err
	}

	if err := s.fuelRepo.Delete(ctx, entry.ID, id.CompanyID); err != nil {
		return err
	}

	if entry.ReceiptURL != nil {
		if err := s.fileService.DeleteFile(ctx, *entry.ReceiptURL); err != nil {
			slog.Warn("failed to remove receipt", "path", *entry.ReceiptURL, "error", err)
		}
	}
	return nil
}

func (s *FuelServiceImpl) toResponse(e fuel.FuelEntry) fuel.FuelEntryResponse {
	return fuel.FuelEntryResponse{
		ID:            e.ID,
		VehicleNumber: e.VehicleNumber,
		DriverID:      e.DriverID,
		DriverName:    e.DriverName,
		Date:          e.EntryDate.Format(time.DateOnly),
		Litres:        e.Litres,
		Amount:        e.Amount,
		PricePerLitre: e.PricePerLitre(),
		Odometer:      e.Odometer,
		FuelStation:   e.FuelStation,
		ReceiptURL:    s.fileService.URL(e.ReceiptURL),
		Remark:        e.Remark,
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
	}
}
