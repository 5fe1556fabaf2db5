package fuel

import "context"

type FuelRepository interface {
	Create(ctx context.Context, entry FuelEntry) (FuelEntry, error)
	GetByID(ctx context.Context, id string, companyID string) (FuelEntry, error)
	List(ctx context.Context, companyID string, filter FuelFilter) ([]FuelEntry, Totals, error)
	Delete(ctx context.Context, id string, companyID string) error
}
