package fastag

import "context"

type FastagService interface {
	Create(ctx context.Context, req CreateRechargeRequest) (RechargeResponse, error)
	List(ctx context.Context, filter RechargeFilter) (ListRechargeResponse, error)
	Delete(ctx context.Context, id string) error
	GetBalances(ctx context.Context, filter RechargeFilter) ([]VehicleBalanceResponse, error)
}
