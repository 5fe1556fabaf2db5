package fuel

import "context"

type FuelService interface {
	Create(ctx context.Context, req CreateFuelEntryRequest) (FuelEntryResponse, error)
	List(ctx context.Context, filter FuelFilter) (ListFuelEntryResponse, error)
	Delete(ctx context.Context, id string) error
}
