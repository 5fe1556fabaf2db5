package http

import (
	"log/slog"
	"net/http"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/fastag"
	"github.com/fleetcrm/fleet-backend-go/internal/handler/http/response"
)

type FastagHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	GetBalances(w http.ResponseWriter, r *http.Request)
}

type fastagHandlerImpl struct {
	fastagService fastag.FastagService
}

func NewFastagHandler(fastagService fastag.FastagService) FastagHandler {
	return &fastagHandlerImpl{fastagService: fastagService}
}

func rechargeFilterFromQuery(r *http.Request) fastag.RechargeFilter {
	filter := fastag.RechargeFilter{
		VehicleNumber: queryString(r, "vehicle_number"),
		StartDate:     queryString(r, "start_date"),
		EndDate:       queryString(r, "end_date"),
	}
	filter.Page, filter.Limit = pageParams(r)
	return filter
}

// Create implements FastagHandler.
func (h *fastagHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req fastag.CreateRechargeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.fastagService.Create(r.Context(), req)
	if err != nil {
		slog.Error("Create fastag recharge error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Fastag recharge recorded successfully", result)
}

// List implements FastagHandler.
func (h *fastagHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := rechargeFilterFromQuery(r)
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.fastagService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Recharges, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}

// Delete implements FastagHandler.
func (h *fastagHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "id")
	if !ok {
		return
	}
	if err := h.fastagService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Fastag recharge deleted successfully", nil)
}

// GetBalances implements FastagHandler.
func (h *fastagHandlerImpl) GetBalances(w http.ResponseWriter, r *http.Request) {
	filter := rechargeFilterFromQuery(r)
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.fastagService.GetBalances(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
