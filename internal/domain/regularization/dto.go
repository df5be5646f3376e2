package regularization

import (
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/validator"
)

// CreateRegularizationRequest carries requested times as local wall-clock
// timestamps ("2006-01-02T15:04:05") or RFC3339. Original times sent by the
// client are ignored and snapshotted from the record instead.
type CreateRegularizationRequest struct {
	EmployeeID         *int64  `json:"employee_id,omitempty"`
	AttendanceRecordID int64   `json:"attendance_record_id"`
	RequestedClockIn   *string `json:"requested_clock_in"`
	RequestedClockOut  *string `json:"requested_clock_out"`
	Reason             string  `json:"reason"`

	Actor user.Actor `json:"-"`
}

func (r *CreateRegularizationRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.AttendanceRecordID <= 0 {
		errs.Add("attendance_record_id", "attendance_record_id is required")
	}
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	}
	if len(r.Reason) > 1000 {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}
	if empty(r.RequestedClockIn) && empty(r.RequestedClockOut) {
		errs.Add("requested_clock_in", "at least one of requested_clock_in or requested_clock_out is required")
	}

	return errs.Err()
}

func (r *CreateRegularizationRequest) Target() int64 {
	if r.EmployeeID != nil {
		return *r.EmployeeID
	}
	return r.Actor.EmployeeID
}

// ParseTimes resolves requested times in loc.
func (r *CreateRegularizationRequest) ParseTimes(loc *time.Location) (in, out *time.Time, err error) {
	var errs validator.ValidationErrors

	if !empty(r.RequestedClockIn) {
		t, ok := validator.ParseLocalDateTime(*r.RequestedClockIn, loc)
		if !ok {
			errs.Add("requested_clock_in", "requested_clock_in must be a valid timestamp")
		} else {
			in = &t
		}
	}
	if !empty(r.RequestedClockOut) {
		t, ok := validator.ParseLocalDateTime(*r.RequestedClockOut, loc)
		if !ok {
			errs.Add("requested_clock_out", "requested_clock_out must be a valid timestamp")
		} else {
			out = &t
		}
	}

	return in, out, errs.Err()
}

func empty(s *string) bool {
	return s == nil || validator.IsEmpty(*s)
}

type RegularizationFilter struct {
	EmployeeID *int64
	Status     *approval.Status
	// ManagerID restricts to requests of the manager's direct reports
	ManagerID *int64
	Stage     *approval.Stage
}

type RegularizationResponse struct {
	ID                 int64           `json:"id"`
	EmployeeID         int64           `json:"employee_id"`
	EmployeeName       *string         `json:"employee_name,omitempty"`
	EmployeeCode       *string         `json:"employee_code,omitempty"`
	AttendanceRecordID int64           `json:"attendance_record_id"`
	AttendanceDate     string          `json:"attendance_date"`
	OriginalClockIn    *time.Time      `json:"original_clock_in"`
	OriginalClockOut   *time.Time      `json:"original_clock_out"`
	RequestedClockIn   *time.Time      `json:"requested_clock_in"`
	RequestedClockOut  *time.Time      `json:"requested_clock_out"`
	Reason             string          `json:"reason"`
	Status             approval.Status `json:"status"`
	Stage              approval.Stage  `json:"stage"`
	ManagerComment     *string         `json:"manager_comment"`
	HRComment          *string         `json:"hr_comment"`
	CreatedAt          time.Time       `json:"created_at"`
}

func ToResponse(r Regularization) RegularizationResponse {
	return RegularizationResponse{
		ID:                 r.ID,
		EmployeeID:         r.EmployeeID,
		EmployeeName:       r.EmployeeName,
		EmployeeCode:       r.EmployeeCode,
		AttendanceRecordID: r.AttendanceRecordID,
		AttendanceDate:     r.AttendanceDate.Format("2006-01-02"),
		OriginalClockIn:    r.OriginalClockIn,
		OriginalClockOut:   r.OriginalClockOut,
		RequestedClockIn:   r.RequestedClockIn,
		RequestedClockOut:  r.RequestedClockOut,
		Reason:             r.Reason,
		Status:             r.Status,
		Stage:              r.Stage,
		ManagerComment:     r.ManagerComment,
		HRComment:          r.HRComment,
		CreatedAt:          r.CreatedAt,
	}
}
