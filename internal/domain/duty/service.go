package duty

import (
	"context"
)

type DutyService interface {
	// PunchIn opens a duty for the driver with a proof photo
	PunchIn(ctx context.Context, req PunchInRequest) (DutyResponse, error)

	// PunchOut closes the open duty, records trip flags and an optional parking claim
	PunchOut(ctx context.Context, req PunchOutRequest) (DutyResponse, error)

	// GetCurrent returns the authenticated driver's open duty
	GetCurrent(ctx context.Context) (DutyResponse, error)

	GetMyDuties(ctx context.Context, filter MyDutyFilter) (ListDutyResponse, error)
	List(ctx context.Context, filter DutyFilter) (ListDutyResponse, error)
	Get(ctx context.Context, id string) (DutyResponse, error)

	// Update corrects type, trip flags, odometer or remarks (admin/staff)
	Update(ctx context.Context, req UpdateDutyRequest) (DutyResponse, error)

	// AutoCloseStale closes duties left open longer than the configured window
	AutoCloseStale(ctx context.Context) (int64, error)
}
