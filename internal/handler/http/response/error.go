package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/master/location"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/regularization"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/wfh"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut),
		errors.Is(err, attendance.ErrNotCheckedIn),
		errors.Is(err, attendance.ErrOutsideGeoFence),
		errors.Is(err, attendance.ErrNoLocation):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrUnauthorized):
		Forbidden(w, err.Error())

	// Approval workflow
	case errors.Is(err, approval.ErrNotPending),
		errors.Is(err, approval.ErrStageMismatch):
		Conflict(w, err.Error())
	case errors.Is(err, approval.ErrNotApprover),
		errors.Is(err, approval.ErrSelfApproval):
		Forbidden(w, err.Error())
	case errors.Is(err, approval.ErrInvalidDecision),
		errors.Is(err, approval.ErrInvalidRole):
		BadRequest(w, err.Error(), nil)

	// Leave
	case errors.Is(err, leave.ErrInsufficientBalance),
		errors.Is(err, leave.ErrOverlappingLeave),
		errors.Is(err, leave.ErrExceedsMaxDays),
		errors.Is(err, leave.ErrLeaveTypeNotForGender):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")
	case errors.Is(err, leave.ErrBalanceNotFound):
		NotFound(w, "Leave balance not found")
	case errors.Is(err, leave.ErrNotRequestOwner):
		Forbidden(w, err.Error())

	// Regularization
	case errors.Is(err, regularization.ErrNoChange):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, regularization.ErrPendingExists):
		Conflict(w, err.Error())
	case errors.Is(err, regularization.ErrRegularizationNotFound):
		NotFound(w, "Regularization request not found")
	case errors.Is(err, regularization.ErrNotRecordOwner):
		Forbidden(w, err.Error())

	// WFH
	case errors.Is(err, wfh.ErrExceedsMaxDays),
		errors.Is(err, wfh.ErrOverlappingWFH):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, wfh.ErrWFHRequestNotFound):
		NotFound(w, "Work from home request not found")

	// Payroll
	case errors.Is(err, payroll.ErrAlreadyFinalized),
		errors.Is(err, payroll.ErrFinalizeBusy):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrNothingToFinalize),
		errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, err.Error(), nil)

	// Holiday
	case errors.Is(err, holiday.ErrHolidayExists):
		Conflict(w, err.Error())
	case errors.Is(err, holiday.ErrCountryNotMapped):
		NotFound(w, err.Error())
	case errors.Is(err, holiday.ErrInvalidCountryCode):
		BadRequest(w, err.Error(), nil)

	// Employee
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrLocationNotFound):
		NotFound(w, "Location not found")
	case errors.Is(err, employee.ErrManagerNotFound):
		NotFound(w, "Manager not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, employee.ErrSelfManager):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, employee.ErrUnauthorized):
		Forbidden(w, err.Error())

	// Master data
	case errors.Is(err, location.ErrLocationNameExists):
		Conflict(w, "Location name already exists")

	// Notification
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")

	// Access
	case errors.Is(err, user.ErrInsufficientPermissions),
		errors.Is(err, user.ErrActorMismatch):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrInvalidRole):
		BadRequest(w, err.Error(), nil)

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
