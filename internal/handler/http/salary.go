package http

import (
	"net/http"
	"time"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/salary"
	"github.com/fleetcrm/fleet-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type SalaryHandler interface {
	GetSummary(w http.ResponseWriter, r *http.Request)
	GetDetails(w http.ResponseWriter, r *http.Request)
}

type salaryHandlerImpl struct {
	salaryService salary.SalaryService
	loc           *time.Location
	now           func() time.Time
}

// NewSalaryHandler builds the handler. Missing month/year default to the
// current month in loc.
func NewSalaryHandler(salaryService salary.SalaryService, loc *time.Location) SalaryHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &salaryHandlerImpl{
		salaryService: salaryService,
		loc:           loc,
		now:           time.Now,
	}
}

func (h *salaryHandlerImpl) period(r *http.Request) (month, year int) {
	now := h.now().In(h.loc)
	month, year = int(now.Month()), now.Year()
	if r.URL.Query().Has("month") {
		month = queryInt(r, "month")
	}
	if r.URL.Query().Has("year") {
		year = queryInt(r, "year")
	}
	return month, year
}

// GetSummary implements SalaryHandler.
func (h *salaryHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	req := salary.SummaryRequest{
		Filter: salary.SummaryFilter{
			DriverID:     queryString(r, "driver_id"),
			Status:       queryString(r, "status"),
			IsFreelancer: queryBool(r, "freelancer"),
			Search:       queryString(r, "search"),
		},
	}
	req.Month, req.Year = h.period(r)

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.salaryService.GetSalarySummary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetDetails implements SalaryHandler.
func (h *salaryHandlerImpl) GetDetails(w http.ResponseWriter, r *http.Request) {
	req := salary.DetailRequest{DriverID: chi.URLParam(r, "driverId")}
	req.Month, req.Year = h.period(r)

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.salaryService.GetSalaryDetails(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
