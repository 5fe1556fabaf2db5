package advance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// AdvanceRepository scopes every lookup by companyID.
type AdvanceRepository interface {
	Create(ctx context.Context, a Advance) (Advance, error)
	GetByID(ctx context.Context, id string, companyID string) (Advance, error)
	List(ctx context.Context, companyID string, filter AdvanceFilter) ([]Advance, int64, error)
	SumAmount(ctx context.Context, companyID string, filter AdvanceFilter) (decimal.Decimal, error)

	// ListByPeriod returns advances dated in [start, end). driverID nil means every driver.
	ListByPeriod(ctx context.Context, companyID string, driverID *string, start, end time.Time) ([]Advance, error)

	// AddRecovery increments recovered_amount, returning ErrRecoveryExceedsAmount if it would pass amount
	AddRecovery(ctx context.Context, id string, companyID string, amount decimal.Decimal) (Advance, error)
	Delete(ctx context.Context, id string, companyID string) error
}
