package advance

import "context"

type AdvanceService interface {
	Create(ctx context.Context, req CreateAdvanceRequest) (AdvanceResponse, error)
	Get(ctx context.Context, id string) (AdvanceResponse, error)
	List(ctx context.Context, filter AdvanceFilter) (ListAdvanceResponse, error)
	RecordRecovery(ctx context.Context, req RecordRecoveryRequest) (AdvanceResponse, error)
	Delete(ctx context.Context, id string) error
}
