package advance

import (
	"context"
	"log/slog"
	"time"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/advance"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/auth"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/driver"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/pagination"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

type AdvanceServiceImpl struct {
	advanceRepo advance.AdvanceRepository
	driverRepo  driver.DriverRepository
}

func NewAdvanceService(advanceRepo advance.AdvanceRepository, driverRepo driver.DriverRepository) advance.AdvanceService {
	return &AdvanceServiceImpl{
		advanceRepo: advanceRepo,
		driverRepo:  driverRepo,
	}
}

func (s *AdvanceServiceImpl) Create(ctx context.Context, req advance.CreateAdvanceRequest) (advance.AdvanceResponse, error) {
	if err := req.Validate(); err != nil {
		return advance.AdvanceResponse{}, err
	}

	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}

	drv, err := s.driverRepo.GetByID(ctx, req.DriverID, id.CompanyID)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}

	date, err := validator.ParseDate("date", req.Date)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}
	created, err := s.advanceRepo.Create(ctx, advance.Advance{
		CompanyID:   id.CompanyID,
		DriverID:    drv.ID,
		Amount:      req.Amount,
		AdvanceDate: date,
		Remark:      req.Remark,
		CreatedBy:   id.UserID,
	})
	if err != nil {
		return advance.AdvanceResponse{}, err
	}

	slog.Info("advance recorded", "advance_id", created.ID, "driver_id", drv.ID, "amount", created.Amount.String())
	created.DriverName = &drv.Name
	return toResponse(created), nil
}

func (s *AdvanceServiceImpl) Get(ctx context.Context, advanceID string) (advance.AdvanceResponse, error) {
	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}

	a, err := s.advanceRepo.GetByID(ctx, advanceID, id.CompanyID)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}
	return toResponse(a), nil
}

func (s *AdvanceServiceImpl) List(ctx context.Context, filter advance.AdvanceFilter) (advance.ListAdvanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return advance.ListAdvanceResponse{}, err
	}

	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return advance.ListAdvanceResponse{}, err
	}

	filter.Page, filter.Limit = pagination.Normalize(filter.Page, filter.Limit)
	resp := advance.ListAdvanceResponse{Page: filter.Page, Limit: filter.Limit}

	var advances []advance.Advance
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		advances, resp.TotalCount, err = s.advanceRepo.List(gCtx, id.CompanyID, filter)
		return err
	})
	g.Go(func() error {
		var err error
		resp.TotalAmount, err = s.advanceRepo.SumAmount(gCtx, id.CompanyID, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return advance.ListAdvanceResponse{}, err
	}

	resp.TotalPages = pagination.TotalPages(resp.TotalCount, filter.Limit)
	resp.Advances = make([]advance.AdvanceResponse, 0, len(advances))
	for _, a := range advances {
		resp.Advances = append(resp.Advances, toResponse(a))
	}
	return resp, nil
}

// RecordRecovery adds to the recovered amount, which may never pass the
// advance amount.
func (s *AdvanceServiceImpl) RecordRecovery(ctx context.Context, req advance.RecordRecoveryRequest) (advance.AdvanceResponse, error) {
	if err := req.Validate(); err != nil {
		return advance.AdvanceResponse{}, err
	}

	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}

	current, err := s.advanceRepo.GetByID(ctx, req.ID, id.CompanyID)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}
	if req.Amount.GreaterThan(current.Outstanding()) {
		return advance.AdvanceResponse{}, advance.ErrRecoveryExceedsAmount
	}

	updated, err := s.advanceRepo.AddRecovery(ctx, req.ID, id.CompanyID, req.Amount)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}
	return toResponse(updated), nil
}

// Delete removes an advance entered by mistake. Advances with recoveries
// are part of the payroll history and stay.
func (s *AdvanceServiceImpl) Delete(ctx context.Context, advanceID string) error {
	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return err
	}

	a, err := s.advanceRepo.GetByID(ctx, advanceID, id.CompanyID)
	if err != nil {
		return err
	}
	if a.RecoveredAmount.IsPositive() {
		return advance.ErrAdvanceHasRecovery
	}

	return s.advanceRepo.Delete(ctx, a.ID, id.CompanyID)
}

func toResponse(a advance.Advance) advance.AdvanceResponse {
	return advance.AdvanceResponse{
		ID:              a.ID,
		DriverID:        a.DriverID,
		DriverName:      a.DriverName,
		Amount:          a.Amount,
		Date:            a.AdvanceDate.Format(time.DateOnly),
		Remark:          a.Remark,
		RecoveredAmount: a.RecoveredAmount,
		Outstanding:     a.Outstanding(),
		CreatedAt:       a.CreatedAt.Format(time.RFC3339),
	}
}
