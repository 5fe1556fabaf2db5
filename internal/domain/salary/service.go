package salary

import "context"

type SalaryService interface {
	// GetSalarySummary reconciles every driver of the company for a month
	GetSalarySummary(ctx context.Context, req SummaryRequest) (ListSummaryResponse, error)

	// GetSalaryDetails returns the day by day breakdown for one driver
	GetSalaryDetails(ctx context.Context, req DetailRequest) (DetailResponse, error)
}
