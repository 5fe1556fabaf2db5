package http

import (
	"log/slog"
	"net/http"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/parking"
	"github.com/fleetcrm/fleet-backend-go/internal/handler/http/response"
)

type ParkingHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Claim(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetMyClaims(w http.ResponseWriter, r *http.Request)
	Review(w http.ResponseWriter, r *http.Request)
	ReviewDutyExpense(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type parkingHandlerImpl struct {
	parkingService parking.ParkingService
}

func NewParkingHandler(parkingService parking.ParkingService) ParkingHandler {
	return &parkingHandlerImpl{parkingService: parkingService}
}

// Create implements ParkingHandler. Accepts JSON, or multipart with a
// 'receipt' part.
func (h *parkingHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req parking.CreateParkingRequest

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

	result, err := h.parkingService.Create(r.Context(), req)
	if err != nil {
		slog.Error("Create parking error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Parking entry created successfully", result)
}

// Claim implements ParkingHandler.
func (h *parkingHandlerImpl) Claim(w http.ResponseWriter, r *http.Request) {
	var req parking.ClaimParkingRequest

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

	result, err := h.parkingService.Claim(r.Context(), req)
	if err != nil {
		slog.Error("Parking claim error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Parking claim submitted for review", result)
}

func parkingFilterFromQuery(r *http.Request) parking.ParkingFilter {
	filter := parking.ParkingFilter{
		DriverID:  queryString(r, "driver_id"),
		DutyID:    queryString(r, "duty_id"),
		Status:    queryString(r, "status"),
		Source:    queryString(r, "source"),
		StartDate: queryString(r, "start_date"),
		EndDate:   queryString(r, "end_date"),
	}
	filter.Page, filter.Limit = pageParams(r)
	return filter
}

// List implements ParkingHandler.
func (h *parkingHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := parkingFilterFromQuery(r)
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.parkingService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}

// GetMyClaims implements ParkingHandler.
func (h *parkingHandlerImpl) GetMyClaims(w http.ResponseWriter, r *http.Request) {
	filter := parkingFilterFromQuery(r)
	filter.DriverID = nil
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.parkingService.GetMyClaims(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}

// Review implements ParkingHandler.
func (h *parkingHandlerImpl) Review(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "id")
	if !ok {
		return
	}
	h.review(w, r, id, nil)
}

// ReviewDutyExpense reviews a parking claim through the duty it was filed
// with; the entry must belong to that duty.
func (h *parkingHandlerImpl) ReviewDutyExpense(w http.ResponseWriter, r *http.Request) {
	dutyID, ok := pathUUID(w, r, "id", "duty_id")
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "expenseId", "id")
	if !ok {
		return
	}
	h.review(w, r, id, &dutyID)
}

func (h *parkingHandlerImpl) review(w http.ResponseWriter, r *http.Request, id string, dutyID *string) {
	var req parking.ReviewParkingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id
	req.DutyID = dutyID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.parkingService.Review(r.Context(), req)
	if err != nil {
		slog.Error("Review parking error", "parking_id", id, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Parking entry "+result.Status, result)
}

// Delete implements ParkingHandler.
func (h *parkingHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "id")
	if !ok {
		return
	}
	if err := h.parkingService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Parking entry deleted successfully", nil)
}
