package http

import (
	"log/slog"
	"net/http"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/advance"
	"github.com/fleetcrm/fleet-backend-go/internal/handler/http/response"
)

type AdvanceHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	RecordRecovery(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type advanceHandlerImpl struct {
	advanceService advance.AdvanceService
}

func NewAdvanceHandler(advanceService advance.AdvanceService) AdvanceHandler {
	return &advanceHandlerImpl{advanceService: advanceService}
}

// Create implements AdvanceHandler.
func (h *advanceHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req advance.CreateAdvanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.advanceService.Create(r.Context(), req)
	if err != nil {
		slog.Error("Create advance error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Advance recorded successfully", result)
}

// Get implements AdvanceHandler.
func (h *advanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "id")
	if !ok {
		return
	}
	result, err := h.advanceService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// List implements AdvanceHandler.
func (h *advanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := advance.AdvanceFilter{
		DriverID:  queryString(r, "driver_id"),
		StartDate: queryString(r, "start_date"),
		EndDate:   queryString(r, "end_date"),
	}
	filter.Page, filter.Limit = pageParams(r)

	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.advanceService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}

// RecordRecovery implements AdvanceHandler.
func (h *advanceHandlerImpl) RecordRecovery(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "id")
	if !ok {
		return
	}
	var req advance.RecordRecoveryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.advanceService.RecordRecovery(r.Context(), req)
	if err != nil {
		slog.Error("Record recovery error", "advance_id", req.ID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Recovery recorded successfully", result)
}

// Delete implements AdvanceHandler.
func (h *advanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "id")
	if !ok {
		return
	}
	if err := h.advanceService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Advance deleted successfully", nil)
}
