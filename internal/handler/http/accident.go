package http

import (
	"log/slog"
	"net/http"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/accident"
	"github.com/fleetcrm/fleet-backend-go/internal/handler/http/response"
)

type AccidentHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type accidentHandlerImpl struct {
	accidentService accident.AccidentService
}

func NewAccidentHandler(accidentService accident.AccidentService) AccidentHandler {
	return &accidentHandlerImpl{accidentService: accidentService}
}

// Create implements AccidentHandler. Multipart: 'data' JSON plus optional 'photo'.
func (h *accidentHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req accident.CreateAccidentLogRequest

	if isMultipart(r) {
		upload, ok := decodeMultipart(w, r, &req, "photo")
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

	result, err := h.accidentService.Create(r.Context(), req)
	if err != nil {
		slog.Error("Create accident log error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Accident log recorded successfully", result)
}

func (h *accidentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := accident.AccidentFilter{
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

	result, err := h.accidentService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}

func (h *accidentHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "id")
	if !ok {
		return
	}
	if err := h.accidentService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Accident log deleted successfully", nil)
}
