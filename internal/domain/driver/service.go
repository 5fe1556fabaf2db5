package driver

import "context"

type DriverService interface {
	Create(ctx context.Context, req CreateDriverRequest) (DriverResponse, error)
	GetByID(ctx context.Context, id string) (DriverResponse, error)
	List(ctx context.Context, filter DriverFilter) (ListDriverResponse, error)
	Update(ctx context.Context, req UpdateDriverRequest) (DriverResponse, error)
	Deactivate(ctx context.Context, id string) error
}
