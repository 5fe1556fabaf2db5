package http

import (
	"log/slog"
	"net/http"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/duty"
	"github.com/fleetcrm/fleet-backend-go/internal/handler/http/response"
)

type DutyHandler interface {
	PunchIn(w http.ResponseWriter, r *http.Request)
	PunchOut(w http.ResponseWriter, r *http.Request)
	GetCurrent(w http.ResponseWriter, r *http.Request)
	GetMyDuties(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
}

type dutyHandlerImpl struct {
	dutyService duty.DutyService
}

func NewDutyHandler(dutyService duty.DutyService) DutyHandler {
	return &dutyHandlerImpl{dutyService: dutyService}
}

// PunchIn implements DutyHandler. Expects multipart with a 'photo' part and
// an optional 'data' JSON field.
func (h *dutyHandlerImpl) PunchIn(w http.ResponseWriter, r *http.Request) {
	var req duty.PunchInRequest

	upload, ok := decodeMultipart(w, r, &req, "photo")
	if !ok {
		return
	}
	defer upload.Close()
	req.File, req.FileHeader = upload.File, upload.Header

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.dutyService.PunchIn(r.Context(), req)
	if err != nil {
		slog.Error("Punch in error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Punch in successful", result)
}

// PunchOut implements DutyHandler.
func (h *dutyHandlerImpl) PunchOut(w http.ResponseWriter, r *http.Request) {
	var req duty.PunchOutRequest

	upload, ok := decodeMultipart(w, r, &req, "photo")
	if !ok {
		return
	}
	defer upload.Close()
	req.File, req.FileHeader = upload.File, upload.Header

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.dutyService.PunchOut(r.Context(), req)
	if err != nil {
		slog.Error("Punch out error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Punch out successful", result)
}

// GetCurrent implements DutyHandler.
func (h *dutyHandlerImpl) GetCurrent(w http.ResponseWriter, r *http.Request) {
	result, err := h.dutyService.GetCurrent(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// GetMyDuties implements DutyHandler.
func (h *dutyHandlerImpl) GetMyDuties(w http.ResponseWriter, r *http.Request) {
	filter := duty.MyDutyFilter{
		StartDate: queryString(r, "start_date"),
		EndDate:   queryString(r, "end_date"),
	}
	filter.Page, filter.Limit = pageParams(r)

	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.dutyService.GetMyDuties(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Duties, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}

// List implements DutyHandler.
func (h *dutyHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := duty.DutyFilter{
		DriverID:  queryString(r, "driver_id"),
		StartDate: queryString(r, "start_date"),
		EndDate:   queryString(r, "end_date"),
		Status:    queryString(r, "status"),
		Type:      queryString(r, "type"),
	}
	filter.Page, filter.Limit = pageParams(r)

	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.dutyService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Duties, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}

// Get implements DutyHandler.
func (h *dutyHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "id")
	if !ok {
		return
	}
	result, err := h.dutyService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Update implements DutyHandler.
func (h *dutyHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "id")
	if !ok {
		return
	}
	var req duty.UpdateDutyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.dutyService.Update(r.Context(), req)
	if err != nil {
		slog.Error("Update duty error", "duty_id", req.ID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Duty updated successfully", result)
}
