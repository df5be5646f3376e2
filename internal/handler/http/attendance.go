package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/regularization"
	"github.com/cmlabs-hris/hris-timepay-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)

	SubmitRegularization(w http.ResponseWriter, r *http.Request)
	ListRegularizations(w http.ResponseWriter, r *http.Request)
	ActRegularization(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService     attendance.AttendanceService
	regularizationService regularization.RegularizationService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, regularizationService regularization.RegularizationService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService:     attendanceService,
		regularizationService: regularizationService,
	}
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req attendance.CheckInRequest
	if !decodeJSON(w, r, &req, "CheckIn") {
		return
	}
	req.Actor = actor

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Check in successful", result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req attendance.CheckOutRequest
	if !decodeJSON(w, r, &req, "CheckOut") {
		return
	}
	req.Actor = actor

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.CheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Check out successful", result)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	q := newQuery(r)
	employeeID := q.id("employee_id")
	if err := q.err(); err != nil {
		response.HandleError(w, err)
		return
	}

	var target int64
	if employeeID != nil {
		target = *employeeID
	}

	record, err := h.attendanceService.Today(r.Context(), actor, target)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if record == nil {
		response.SuccessWithMessage(w, "No attendance recorded today", nil)
		return
	}

	response.Success(w, record)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	q := newQuery(r)
	filter := attendance.AttendanceFilter{
		EmployeeID:   q.id("employee_id"),
		EmployeeCode: q.str("employee_code"),
		EmployeeName: q.str("employee_name"),
		DateFrom:     q.str("date_from"),
		DateTo:       q.str("date_to"),
		Page:         q.intOr("page", 1),
		PageSize:     q.intOr("page_size", 20),
	}
	if err := q.err(); err != nil {
		response.HandleError(w, err)
		return
	}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.ListAttendance(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Attendances, response.NewMeta(result.Page, result.PageSize, result.TotalCount, result.TotalPages))
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	result, err := h.attendanceService.GetAttendance(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// SubmitRegularization implements AttendanceHandler.
func (h *attendanceHandlerImpl) SubmitRegularization(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req regularization.CreateRegularizationRequest
	if !decodeJSON(w, r, &req, "SubmitRegularization") {
		return
	}
	req.Actor = actor

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.regularizationService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Regularization request submitted", result)
}

// ListRegularizations implements AttendanceHandler.
// view=manager lists the caller's direct reports, view=hr the HR queue.
func (h *attendanceHandlerImpl) ListRegularizations(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	q := newQuery(r)
	filter := regularization.RegularizationFilter{
		EmployeeID: q.id("employee_id"),
		Status:     q.status("status"),
		Stage:      q.stage("stage"),
	}
	if view := q.str("view"); view != nil {
		switch *view {
		case "manager":
			filter.ManagerID = &actor.EmployeeID
		case "hr":
			if filter.Stage == nil {
				stage := approval.StageAwaitingHR
				filter.Stage = &stage
			}
		default:
			q.errs.Add("view", "view must be manager or hr")
		}
	}
	if err := q.err(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.regularizationService.List(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ActRegularization implements AttendanceHandler.
func (h *attendanceHandlerImpl) ActRegularization(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req approval.ActionRequest
	if !decodeJSON(w, r, &req, "ActRegularization") {
		return
	}
	req.RequestID = id
	req.Actor = actor

	result, err := h.regularizationService.Act(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Regularization decision recorded", result)
}
