package duty

import (
	"context"
	"time"
)

// DutyRepository scopes every lookup by companyID.
type DutyRepository interface {
	Create(ctx context.Context, d Duty) (Duty, error)
	GetByID(ctx context.Context, id string, companyID string) (Duty, error)

	// GetOpenByDriver returns the driver's currently open duty, ErrDutyNotFound if none
	GetOpenByDriver(ctx context.Context, driverID string, companyID string) (Duty, error)

	Update(ctx context.Context, d Duty) error
	List(ctx context.Context, companyID string, filter DutyFilter) ([]Duty, int64, error)

	// ListByPeriod returns duties with duty_date in [start, end). driverID nil means every driver.
	ListByPeriod(ctx context.Context, companyID string, driverID *string, start, end time.Time) ([]Duty, error)

	// CloseStale marks duties punched in before cutoff and still open as auto_closed.
	CloseStale(ctx context.Context, cutoff time.Time) (int64, error)
}
