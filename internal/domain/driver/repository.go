package driver

import "context"

// DriverRepository scopes every lookup by companyID.
type DriverRepository interface {
	Create(ctx context.Context, d Driver) (Driver, error)
	GetByID(ctx context.Context, id string, companyID string) (Driver, error)
	GetByUserID(ctx context.Context, userID string) (Driver, error)
	List(ctx context.Context, companyID string, filter DriverFilter) ([]Driver, int64, error)
	ListAll(ctx context.Context, companyID string) ([]Driver, error)
	Update(ctx context.Context, companyID string, req UpdateDriverRequest) error
	SetActive(ctx context.Context, id string, companyID string, active bool) error
	ExistsByMobile(ctx context.Context, companyID string, mobile string, excludeID *string) (bool, error)
}
