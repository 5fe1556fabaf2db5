package company

import "context"

type CompanyRepository interface {
	Create(ctx context.Context, name string) (Company, error)
	GetByID(ctx context.Context, id string) (Company, error)
	Count(ctx context.Context) (int64, error)
}
