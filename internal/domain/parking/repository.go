package parking

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ParkingRepository scopes every lookup by companyID.
type ParkingRepository interface {
	Create(ctx context.Context, entry ParkingEntry) (ParkingEntry, error)
	GetByID(ctx context.Context, id string, companyID string) (ParkingEntry, error)

	// List returns a page of entries, the total count and the amount summed over all matches
	List(ctx context.Context, companyID string, filter ParkingFilter) ([]ParkingEntry, int64, error)
	SumAmount(ctx context.Context, companyID string, filter ParkingFilter) (decimal.Decimal, error)

	// ListByPeriod returns entries dated in [start, end). driverID nil means every driver.
	ListByPeriod(ctx context.Context, companyID string, driverID *string, start, end time.Time) ([]ParkingEntry, error)

	// Review moves a pending entry to status. Returns ErrAlreadyReviewed when it is no longer pending.
	Review(ctx context.Context, companyID string, id string, status Status, reviewerID string, reason *string) error
	Delete(ctx context.Context, id string, companyID string) error
}
