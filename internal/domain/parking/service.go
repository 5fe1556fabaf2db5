package parking

import "context"

type ParkingService interface {
	Create(ctx context.Context, req CreateParkingRequest) (ParkingResponse, error)
	Claim(ctx context.Context, req ClaimParkingRequest) (ParkingResponse, error)
	List(ctx context.Context, filter ParkingFilter) (ListParkingResponse, error)
	GetMyClaims(ctx context.Context, filter ParkingFilter) (ListParkingResponse, error)
	Review(ctx context.Context, req ReviewParkingRequest) (ParkingResponse, error)
	Delete(ctx context.Context, id string) error
}
