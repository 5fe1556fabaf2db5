package http

import (
	"log/slog"
	"net/http"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/fuel"
	"github.com/fleetcrm/fleet-backend-go/internal/handler/http/response"
)

type FuelHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type fuelHandlerImpl struct {
	fuelService fuel.FuelService
}

func NewFuelHandler(fuelService fuel.FuelService) FuelHandler {
	return &fuelHandlerImpl{fuelService: fuelService}
}

// Create implements FuelHandler. Multipart: 'data' JSON plus optional 'receipt'.
func (h *fuelHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req fuel.CreateFuelEntryRequest

	if isMultipart(r) {
		upload, ok := decodeMultipart(w, r, &req, "receipt")
		if !ok {
			return
		}
		defer upload.Close()
		req.File, req.FileHeader = upload.File, upload.Header
	} else if !decodeJSON(w, r, &req) {
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.fuelService.Create(r.Context(), req)
	if err != nil {
		slog.Error("Create fuel entry error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Fuel entry recorded successfully", result)
}

// List implements FuelHandler.
func (h *fuelHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := fuel.FuelFilter{
		VehicleNumber: queryString(r, "vehicle_number"),
		DriverID:      queryString(r, "driver_id"),
		StartDate:     queryString(r, "start_date"),
		EndDate:       queryString(r, "end_date"),
	}
	filter.Page, filter.Limit = pageParams(r)

	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.fuelService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}

// Delete implements FuelHandler.
func (h *fuelHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "id")
	if !ok {
		return
	}
	if err := h.fuelService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Fuel entry deleted successfully", nil)
}
