package http

import (
	"log/slog"
	"net/http"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/driver"
	"github.com/fleetcrm/fleet-backend-go/internal/handler/http/response"
)

type DriverHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Deactivate(w http.ResponseWriter, r *http.Request)
}

type driverHandlerImpl struct {
	driverService driver.DriverService
}

func NewDriverHandler(driverService driver.DriverService) DriverHandler {
	return &driverHandlerImpl{driverService: driverService}
}

// Create implements DriverHandler.
func (h *driverHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req driver.CreateDriverRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.driverService.Create(r.Context(), req)
	if err != nil {
		slog.Error("Create driver error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Driver created successfully", result)
}

// Get implements DriverHandler.
func (h *driverHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "id")
	if !ok {
		return
	}
	result, err := h.driverService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// List implements DriverHandler.
func (h *driverHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := driver.DriverFilter{
		Search:       queryString(r, "search"),
		IsFreelancer: queryBool(r, "freelancer"),
		IsActive:     queryBool(r, "active"),
	}
	filter.Page, filter.Limit = pageParams(r)

	result, err := h.driverService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Drivers, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}

// Update implements DriverHandler.
func (h *driverHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "id")
	if !ok {
		return
	}
	var req driver.UpdateDriverRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.driverService.Update(r.Context(), req)
	if err != nil {
		slog.Error("Update driver error", "driver_id", req.ID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Driver updated successfully", result)
}

// Deactivate implements DriverHandler. Drivers are never hard deleted since
// their duties and advances feed past salary reports.
func (h *driverHandlerImpl) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "id")
	if !ok {
		return
	}
	if err := h.driverService.Deactivate(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Driver deactivated successfully", nil)
}
