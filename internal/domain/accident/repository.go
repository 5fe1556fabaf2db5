package accident

import "context"

type AccidentRepository interface {
	Create(ctx context.Context, log AccidentLog) (AccidentLog, error)
	GetByID(ctx context.Context, id string, companyID string) (AccidentLog, error)
	List(ctx context.Context, companyID string, filter AccidentFilter) ([]AccidentLog, Totals, error)
	Delete(ctx context.Context, id string, companyID string) error
}
