package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CheckInRequest struct {
	EmployeeID *int64   `json:"employee_id,omitempty" validate:"omitempty,gt=0"`
	Latitude   *float64 `json:"device_latitude" validate:"required,latitude"`
	Longitude  *float64 `json:"device_longitude" validate:"required,longitude"`

	Actor     user.Actor `json:"-"`
	Timestamp time.Time  `json:"-"`
}

func (r *CheckInRequest) Validate() error {
	return validator.Struct(r)
}

// Target returns the employee the check-in is for: the body id if given,
// otherwise the caller.
func (r *CheckInRequest) Target() int64 {
	if r.EmployeeID != nil {
		return *r.EmployeeID
	}
	return r.Actor.EmployeeID
}

type CheckOutRequest struct {
	EmployeeID *int64   `json:"employee_id,omitempty" validate:"omitempty,gt=0"`
	Latitude   *float64 `json:"device_latitude" validate:"required,latitude"`
	Longitude  *float64 `json:"device_longitude" validate:"required,longitude"`

	Actor     user.Actor `json:"-"`
	Timestamp time.Time  `json:"-"`
}

func (r *CheckOutRequest) Validate() error {
	return validator.Struct(r)
}

func (r *CheckOutRequest) Target() int64 {
	if r.EmployeeID != nil {
		return *r.EmployeeID
	}
	return r.Actor.EmployeeID
}

type AttendanceFilter struct {
	EmployeeID   *int64
	EmployeeCode *string
	EmployeeName *string
	DateFrom     *string
	DateTo       *string
	Page         int
	PageSize     int
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	var from, to time.Time
	if f.DateFrom != nil {
		d, ok := validator.IsValidDate(*f.DateFrom)
		if !ok {
			errs.Add("date_from", "date_from must be in YYYY-MM-DD format")
		}
		from = d
	}
	if f.DateTo != nil {
		d, ok := validator.IsValidDate(*f.DateTo)
		if !ok {
			errs.Add("date_to", "date_to must be in YYYY-MM-DD format")
		}
		to = d
	}
	if len(errs) == 0 && f.DateFrom != nil && f.DateTo != nil && to.Before(from) {
		errs.Add("date_to", "date_to must not be before date_from")
	}

	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 20
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}

	return errs.Err()
}

type AttendanceResponse struct {
	ID            int64         `json:"id"`
	EmployeeID    int64         `json:"employee_id"`
	EmployeeCode  *string       `json:"employee_code,omitempty"`
	EmployeeName  *string       `json:"employee_name,omitempty"`
	Date          string        `json:"attendance_date"`
	ClockIn       *time.Time    `json:"clock_in_time"`
	ClockOut      *time.Time    `json:"clock_out_time"`
	Status        Status        `json:"status"`
	AbsenceReason AbsenceReason `json:"absence_reason"`
	IsLate        bool          `json:"is_late"`
	LateMinutes   int           `json:"late_minutes"`
	WorkLocation  *WorkLocation `json:"work_location"`
	TotalHours    *float64      `json:"total_hours"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	PageSize    int                  `json:"page_size"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}

type MarkAbsentResult struct {
	Date       string `json:"date"`
	Employees  int    `json:"employees"`
	Marked     int    `json:"marked"`
	Excused    int    `json:"excused"`
	NonWorking bool   `json:"non_working"`
}

func ToResponse(r AttendanceRecord) AttendanceResponse {
	return AttendanceResponse{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		EmployeeCode:  r.EmployeeCode,
		EmployeeName:  r.EmployeeName,
		Date:          r.Date.Format("2006-01-02"),
		ClockIn:       r.ClockIn,
		ClockOut:      r.ClockOut,
		Status:        r.Status,
		AbsenceReason: r.AbsenceReason,
		IsLate:        r.IsLate,
		LateMinutes:   r.LateMinutes,
		WorkLocation:  r.WorkLocation,
		TotalHours:    r.TotalHours,
	}
}
