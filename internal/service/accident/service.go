package accident

import (
	"context"
	"log/slog"
	"time"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/accident"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/auth"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/driver"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/pagination"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/validator"
	"github.com/fleetcrm/fleet-backend-go/internal/service/file"
)

type AccidentServiceImpl struct {
	accidentRepo accident.AccidentRepository
	driverRepo   driver.DriverRepository
	fileService  file.FileService
}

func NewAccidentService(accidentRepo accident.AccidentRepository, driverRepo driver.DriverRepository, fileService file.FileService) accident.AccidentService {
	return &AccidentServiceImpl{
		accidentRepo: accidentRepo,
		driverRepo:   driverRepo,
		fileService:  fileService,
	}
}

func (s *AccidentServiceImpl) Create(ctx context.Context, req accident.CreateAccidentLogRequest) (accident.AccidentLogResponse, error) {
	if err := req.Validate(); err != nil {
		return accident.AccidentLogResponse{}, err
	}

	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return accident.AccidentLogResponse{}, err
	}

	var driverName *string
	if req.DriverID != nil {
		drv, err := s.driverRepo.GetByID(ctx, *req.DriverID, id.CompanyID)
		if err != nil {
			return accident.AccidentLogResponse{}, err
		}
		driverName = &drv.Name
	}

	date, err := validator.ParseDate("date", req.Date)
	if err != nil {
		return accident.AccidentLogResponse{}, err
	}

	log := accident.AccidentLog{
		CompanyID:          id.CompanyID,
		VehicleNumber:      req.VehicleNumber,
		DriverID:           req.DriverID,
		IncidentDate:       date,
		Location:           req.Location,
		Description:        req.Description,
		DamageCost:         req.DamageCost,
		ThirdPartyInvolved: req.ThirdPartyInvolved,
		CreatedBy:          id.UserID,
	}

	if req.FileHeader != nil {
		photo, err := s.fileService.UploadReceipt(ctx, "accident", req.VehicleNumber, req.File, req.FileHeader.Filename)
		if err != nil {
			return accident.AccidentLogResponse{}, err
		}
		log.PhotoURL = &photo
	}

	created, err := s.accidentRepo.Create(ctx, log)
	if err != nil {
		if log.PhotoURL != nil {
			if delErr := s.fileService.DeleteFile(ctx, *log.PhotoURL); delErr != nil {
				slog.Warn("failed to remove orphaned accident photo", "path", *log.PhotoURL, "error", delErr)
			}
		}
		return accident.AccidentLogResponse{}, err
	}

	created.DriverName = driverName
	return s.toResponse(created), nil
}

func (s *AccidentServiceImpl) List(ctx context.Context, filter accident.AccidentFilter) (accident.ListAccidentLogResponse, error) {
	if err := filter.Validate(); err != nil {
		return accident.ListAccidentLogResponse{}, err
	}

	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return accident.ListAccidentLogResponse{}, err
	}

	filter.Page, filter.Limit = pagination.Normalize(filter.Page, filter.Limit)

	logs, totals, err := s.accidentRepo.List(ctx, id.CompanyID, filter)
	if err != nil {
		return accident.ListAccidentLogResponse{}, err
	}

	resp := accident.ListAccidentLogResponse{
		TotalCount:      totals.Count,
		Page:            filter.Page,
		Limit:           filter.Limit,
		TotalPages:      pagination.TotalPages(totals.Count, filter.Limit),
		TotalDamageCost: totals.DamageCost,
		Logs:            make([]accident.AccidentLogResponse, 0, len(logs)),
	}
	for _, l := range logs {
		resp.Logs = append(resp.Logs, s.toResponse(l))
	}
	return resp, nil
}

func (s *AccidentServiceImpl) Delete(ctx context.Context, logID string) error {
	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return err
	}

	log, err := s.accidentRepo.GetByID(ctx, logID, id.CompanyID)
	if err != nil {
		return err
	}

	if err := s.accidentRepo.Delete(ctx, log.ID, id.CompanyID); err != nil {
		return err
	}

	if log.PhotoURL != nil {
		if err := s.fileService.DeleteFile(ctx, *log.PhotoURL); err != nil {
			slog.Warn("failed to remove accident photo", "path", *log.PhotoURL, "error", err)
		}
	}
	return nil
}

func (s *AccidentServiceImpl) toResponse(l accident.AccidentLog) accident.AccidentLogResponse {
	return accident.AccidentLogResponse{
		ID:                 l.ID,
		VehicleNumber:      l.VehicleNumber,
		DriverID:           l.DriverID,
		DriverName:         l.DriverName,
		Date:               l.IncidentDate.Format(time.DateOnly),
		Location:           l.Location,
		Description:        l.Description,
		DamageCost:         l.DamageCost,
		ThirdPartyInvolved: l.ThirdPartyInvolved,
		PhotoURL:           s.fileService.URL(l.PhotoURL),
		CreatedAt:          l.CreatedAt.Format(time.RFC3339),
	}
}
