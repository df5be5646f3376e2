package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/wfh"
	"github.com/cmlabs-hris/hris-timepay-go/internal/handler/http/response"
)

type WFHHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	MyRequests(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Act(w http.ResponseWriter, r *http.Request)
}

type wfhHandlerImpl struct {
	wfhService wfh.WFHService
}

func NewWFHHandler(wfhService wfh.WFHService) WFHHandler {
	return &wfhHandlerImpl{wfhService: wfhService}
}

// Submit implements WFHHandler.
func (h *wfhHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req wfh.CreateWFHRequest
	if !decodeJSON(w, r, &req, "SubmitWFH") {
		return
	}
	req.Actor = actor

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.wfhService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Work from home request submitted", result)
}

// MyRequests implements WFHHandler.
func (h *wfhHandlerImpl) MyRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	result, err := h.wfhService.MyRequests(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements WFHHandler.
func (h *wfhHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	q := newQuery(r)
	filter := wfh.WFHFilter{
		EmployeeID: q.id("employee_id"),
		Status:     q.status("status"),
	}
	if err := q.err(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.wfhService.List(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Act implements WFHHandler.
func (h *wfhHandlerImpl) Act(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req approval.ActionRequest
	if !decodeJSON(w, r, &req, "ActWFH") {
		return
	}
	req.RequestID = id
	req.Actor = actor

	result, err := h.wfhService.Act(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Work from home decision recorded", result)
}
