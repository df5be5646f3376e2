package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/master/location"
	"github.com/cmlabs-hris/hris-timepay-go/internal/handler/http/response"
)

type MasterHandler interface {
	ListLocations(w http.ResponseWriter, r *http.Request)
	CreateLocation(w http.ResponseWriter, r *http.Request)
	UpdateLocation(w http.ResponseWriter, r *http.Request)
}

type masterHandlerImpl struct {
	locationService location.LocationService
}

func NewMasterHandler(locationService location.LocationService) MasterHandler {
	return &masterHandlerImpl{locationService: locationService}
}

// ListLocations implements MasterHandler.
func (h *masterHandlerImpl) ListLocations(w http.ResponseWriter, r *http.Request) {
	results, err := h.locationService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// CreateLocation implements MasterHandler.
func (h *masterHandlerImpl) CreateLocation(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req location.CreateLocationRequest
	if !decodeJSON(w, r, &req, "CreateLocation") {
		return
	}

	result, err := h.locationService.Create(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Location created successfully", result)
}

// UpdateLocation implements MasterHandler.
func (h *masterHandlerImpl) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req location.UpdateLocationRequest
	if !decodeJSON(w, r, &req, "UpdateLocation") {
		return
	}
	req.ID = id

	result, err := h.locationService.Update(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Location updated successfully", result)
}
