package fastag

import (
	"context"
	"time"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/auth"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/fastag"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/pagination"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/validator"
)

type FastagServiceImpl struct {
	fastagRepo fastag.FastagRepository
}

func NewFastagService(fastagRepo fastag.FastagRepository) fastag.FastagService {
	return &FastagServiceImpl{fastagRepo: fastagRepo}
}

func (s *FastagServiceImpl) Create(ctx context.Context, req fastag.CreateRechargeRequest) (fastag.RechargeResponse, error) {
	if err := req.Validate(); err != nil {
		return fastag.RechargeResponse{}, err
	}

	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return fastag.RechargeResponse{}, err
	}

	date, err := validator.ParseDate("date", req.Date)
	if err != nil {
		return fastag.RechargeResponse{}, err
	}
	created, err := s.fastagRepo.Create(ctx, fastag.Recharge{
		CompanyID:      id.CompanyID,
		VehicleNumber:  req.VehicleNumber,
		RechargeDate:   date,
		Amount:         req.Amount,
		PaymentMode:    fastag.PaymentMode(req.PaymentMode),
		TransactionRef: req.TransactionRef,
		Remark:         req.Remark,
		CreatedBy:      id.UserID,
	})
	if err != nil {
		return fastag.RechargeResponse{}, err
	}
	return toResponse(created), nil
}

func (s *FastagServiceImpl) List(ctx context.Context, filter fastag.RechargeFilter) (fastag.ListRechargeResponse, error) {
	if err := filter.Validate(); err != nil {
		return fastag.ListRechargeResponse{}, err
	}

	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return fastag.ListRechargeResponse{}, err
	}

	filter.Page, filter.Limit = pagination.Normalize(filter.Page, filter.Limit)

	recharges, total, err := s.fastagRepo.List(ctx, id.CompanyID, filter)
	if err != nil {
		return fastag.ListRechargeResponse{}, err
	}

	resp := fastag.ListRechargeResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: pagination.TotalPages(total, filter.Limit),
		Recharges:  make([]fastag.RechargeResponse, 0, len(recharges)),
	}
	for _, r := range recharges {
		resp.Recharges = append(resp.Recharges, toResponse(r))
	}
	return resp, nil
}

func (s *FastagServiceImpl) Delete(ctx context.Context, rechargeID string) error {
	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return err
	}

	if _, err := s.fastagRepo.GetByID(ctx, rechargeID, id.CompanyID); err != nil {
		return err
	}
	return s.fastagRepo.Delete(ctx, rechargeID, id.CompanyID)
}

// GetBalances totals recharges per vehicle over the optional date range.
func (s *FastagServiceImpl) GetBalances(ctx context.Context, filter fastag.RechargeFilter) ([]fastag.VehicleBalanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var start, end *time.Time
	if filter.StartDate != nil {
		t, err := validator.ParseDate("start_date", *filter.StartDate)
		if err != nil {
			return nil, err
		}
		start = &t
	}
	if filter.EndDate != nil {
		// inclusive end date
		t, err := validator.ParseDate("end_date", *filter.EndDate)
		if err != nil {
			return nil, err
		}
		t = t.AddDate(0, 0, 1)
		end = &t
	}

	balances, err := s.fastagRepo.Balances(ctx, id.CompanyID, start, end)
	if err != nil {
		return nil, err
	}

	resp := make([]fastag.VehicleBalanceResponse, 0, len(balances))
	for _, b := range balances {
		if filter.VehicleNumber != nil && b.VehicleNumber != *filter.VehicleNumber {
			continue
		}
		var last *string
		if b.LastRechargeDate != nil {
			s := b.LastRechargeDate.Format(time.DateOnly)
			last = &s
		}
		resp = append(resp, fastag.VehicleBalanceResponse{
			VehicleNumber:    b.VehicleNumber,
			TotalRecharged:   b.TotalRecharged,
			RechargeCount:    b.RechargeCount,
			LastRechargeDate: last,
		})
	}
	return resp, nil
}

func toResponse(r fastag.Recharge) fastag.RechargeResponse {
	return fastag.RechargeResponse{
		ID:             r.ID,
		VehicleNumber:  r.VehicleNumber,
		Date:           r.RechargeDate.Format(time.DateOnly),
		Amount:         r.Amount,
		PaymentMode:    string(r.PaymentMode),
		TransactionRef: r.TransactionRef,
		Remark:         r.Remark,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
	}
}
