package wfh

import (
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/validator"
)

// CreateWFHRequest accepts the legacy single request_date as well as the
// start_date/end_date range.
type CreateWFHRequest struct {
	EmployeeID  *int64 `json:"employee_id,omitempty"`
	RequestDate string `json:"request_date"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Reason      string `json:"reason"`

	Actor user.Actor `json:"-"`

	start time.Time
	end   time.Time
}

func (r *CreateWFHRequest) Validate() error {
	var errs validator.ValidationErrors

	startStr, endStr := r.StartDate, r.EndDate
	if startStr == "" {
		startStr = r.RequestDate
	}
	if endStr == "" {
		endStr = startStr
	}

	start, okStart := validator.IsValidDate(startStr)
	if !okStart {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	end, okEnd := validator.IsValidDate(endStr)
	if !okEnd {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if okStart && okEnd && end.Before(start) {
		errs.Add("end_date", "end_date must not be before start_date")
	}
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	}

	r.start, r.end = start, end
	return errs.Err()
}

func (r *CreateWFHRequest) Range() (time.Time, time.Time) {
	return r.start, r.end
}

func (r *CreateWFHRequest) Target() int64 {
	if r.EmployeeID != nil {
		return *r.EmployeeID
	}
	return r.Actor.EmployeeID
}

type WFHFilter struct {
	EmployeeID *int64
	Status     *approval.Status
}

type WFHResponse struct {
	ID           int64           `json:"id"`
	EmployeeID   int64           `json:"employee_id"`
	EmployeeName *string         `json:"employee_name,omitempty"`
	EmployeeCode *string         `json:"employee_code,omitempty"`
	RequestDate  string          `json:"request_date"`
	StartDate    string          `json:"start_date"`
	EndDate      string          `json:"end_date"`
	Reason       string          `json:"reason"`
	Status       approval.Status `json:"status"`
	AdminComment *string         `json:"admin_comment"`
	ApprovedBy   *int64          `json:"approved_by"`
	CreatedAt    time.Time       `json:"created_at"`
}

func ToResponse(r WFHRequest) WFHResponse {
	return WFHResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		EmployeeCode: r.EmployeeCode,
		RequestDate:  r.RequestDate.Format("2006-01-02"),
		StartDate:    r.StartDate.Format("2006-01-02"),
		EndDate:      r.EndDate.Format("2006-01-02"),
		Reason:       r.Reason,
		Status:       r.Status,
		AdminComment: r.AdminComment,
		ApprovedBy:   r.ApprovedBy,
		CreatedAt:    r.CreatedAt,
	}
}
