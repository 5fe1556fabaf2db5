package accident

import "context"

type AccidentService interface {
	Create(ctx context.Context, req CreateAccidentLogRequest) (AccidentLogResponse, error)
	List(ctx context.Context, filter AccidentFilter) (ListAccidentLogResponse, error)
	Delete(ctx context.Context, id string) error
}
