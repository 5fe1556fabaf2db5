package fastag

import (
	"context"
	"time"
)

type FastagRepository interface {
	Create(ctx context.Context, r Recharge) (Recharge, error)
	GetByID(ctx context.Context, id string, companyID string) (Recharge, error)
	List(ctx context.Context, companyID string, filter RechargeFilter) ([]Recharge, int64, error)
	Delete(ctx context.Context, id string, companyID string) error

	// Balances sums recharges per vehicle; nil bounds are open.
	Balances(ctx context.Context, companyID string, start, end *time.Time) ([]VehicleBalance, error)
}
