package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// LEAVE REQUEST DTOs
// ========================================

type CreateLeaveRequest struct {
	EmployeeID                *int64  `json:"employee_id,omitempty"`
	LeaveTypeID               *int64  `json:"leave_type_id,omitempty"`
	LeaveTypeCode             *string `json:"leave_type_code,omitempty"`
	StartDate                 string  `json:"start_date"`
	EndDate                   string  `json:"end_date"`
	IsHalfDay                 bool    `json:"is_half_day"`
	HalfDaySession            *string `json:"half_day_session,omitempty"`
	Reason                    string  `json:"reason"`
	ContactDetailsDuringLeave *string `json:"contact_details_during_leave,omitempty"`

	Actor user.Actor `json:"-"`

	// Parsed by Validate
	start time.Time
	end   time.Time
}

func (r *CreateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.LeaveTypeID == nil && (r.LeaveTypeCode == nil || validator.IsEmpty(*r.LeaveTypeCode)) {
		errs.Add("leave_type_id", "leave_type_id is required")
	}
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	}
	if len(r.Reason) > 1000 {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}

	r.start, r.end = validateRange(&errs, r.StartDate, r.EndDate)
	validateHalfDay(&errs, r.IsHalfDay, r.HalfDaySession, r.start, r.end)

	return errs.Err()
}

func (r *CreateLeaveRequest) Range() (time.Time, time.Time) {
	return r.start, r.end
}

func (r *CreateLeaveRequest) Target() int64 {
	if r.EmployeeID != nil {
		return *r.EmployeeID
	}
	return r.Actor.EmployeeID
}

// UpdateLeaveRequest is an owner edit of a PENDING request.
type UpdateLeaveRequest struct {
	LeaveTypeID               *int64  `json:"leave_type_id,omitempty"`
	StartDate                 string  `json:"start_date"`
	EndDate                   string  `json:"end_date"`
	IsHalfDay                 bool    `json:"is_half_day"`
	HalfDaySession            *string `json:"half_day_session,omitempty"`
	Reason                    string  `json:"reason"`
	ContactDetailsDuringLeave *string `json:"contact_details_during_leave,omitempty"`

	ID    int64      `json:"-"`
	Actor user.Actor `json:"-"`

	start time.Time
	end   time.Time
}

func (r *UpdateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	}
	r.start, r.end = validateRange(&errs, r.StartDate, r.EndDate)
	validateHalfDay(&errs, r.IsHalfDay, r.HalfDaySession, r.start, r.end)

	return errs.Err()
}

func (r *UpdateLeaveRequest) Range() (time.Time, time.Time) {
	return r.start, r.end
}

func validateRange(errs *validator.ValidationErrors, startStr, endStr string) (time.Time, time.Time) {
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
	return start, end
}

func validateHalfDay(errs *validator.ValidationErrors, isHalfDay bool, session *string, start, end time.Time) {
	if !isHalfDay {
		return
	}
	if !start.Equal(end) {
		errs.Add("is_half_day", "half day leave must start and end on the same date")
	}
	if session == nil || (HalfDaySession(*session) != FirstHalf && HalfDaySession(*session) != SecondHalf) {
		errs.Add("half_day_session", "half_day_session must be FIRST_HALF or SECOND_HALF")
	}
}

type LeaveRequestFilter struct {
	EmployeeID *int64
	// ApproverID with View "manager" restricts to the approver's reports
	ApproverID *int64
	View       string
	Status     *approval.Status
	Stage      *approval.Stage
	Page       int
	PageSize   int
}

const (
	ViewManager = "manager"
	ViewHR      = "hr"
)

func (f *LeaveRequestFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.View != "" && f.View != ViewManager && f.View != ViewHR {
		errs.Add("view", "view must be manager or hr")
	}
	if f.View == ViewManager && f.ApproverID == nil {
		errs.Add("approver_id", "approver_id is required for the manager view")
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

type LeaveRequestResponse struct {
	ID                        int64           `json:"id"`
	EmployeeID                int64           `json:"employee_id"`
	EmployeeName              *string         `json:"employee_name,omitempty"`
	EmployeeCode              *string         `json:"employee_code,omitempty"`
	LeaveTypeID               int64           `json:"leave_type_id"`
	LeaveTypeCode             *string         `json:"leave_type_code,omitempty"`
	LeaveTypeName             *string         `json:"leave_type_name,omitempty"`
	StartDate                 string          `json:"start_date"`
	EndDate                   string          `json:"end_date"`
	IsHalfDay                 bool            `json:"is_half_day"`
	HalfDaySession            *HalfDaySession `json:"half_day_session"`
	TotalDays                 decimal.Decimal `json:"total_days"`
	Reason                    string          `json:"reason"`
	ContactDetailsDuringLeave *string         `json:"contact_details_during_leave"`
	Status                    approval.Status `json:"status"`
	Stage                     approval.Stage  `json:"stage"`
	ManagerComment            *string         `json:"manager_comment"`
	HRComment                 *string         `json:"hr_comment"`
	CreatedAt                 time.Time       `json:"created_at"`
	UpdatedAt                 time.Time       `json:"updated_at"`

	// Warning is set when a reservation drove the balance negative.
	Warning *string `json:"warning,omitempty"`
}

type ListLeaveRequestResponse struct {
	TotalCount int64                  `json:"total_count"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"page_size"`
	TotalPages int                    `json:"total_pages"`
	Requests   []LeaveRequestResponse `json:"requests"`
}

func ToRequestResponse(r LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:                        r.ID,
		EmployeeID:                r.EmployeeID,
		EmployeeName:              r.EmployeeName,
		EmployeeCode:              r.EmployeeCode,
		LeaveTypeID:               r.LeaveTypeID,
		StartDate:                 r.StartDate.Format("2006-01-02"),
		EndDate:                   r.EndDate.Format("2006-01-02"),
		IsHalfDay:                 r.IsHalfDay,
		HalfDaySession:            r.HalfDaySession,
		TotalDays:                 r.TotalDays,
		Reason:                    r.Reason,
		ContactDetailsDuringLeave: r.ContactDetailsDuringLeave,
		Status:                    r.Status,
		Stage:                     r.Stage,
		ManagerComment:            r.ManagerComment,
		HRComment:                 r.HRComment,
		CreatedAt:                 r.CreatedAt,
		UpdatedAt:                 r.UpdatedAt,
	}
	if r.LeaveType != nil {
		resp.LeaveTypeCode = &r.LeaveType.Code
		resp.LeaveTypeName = &r.LeaveType.Name
	}
	return resp
}

// ========================================
// LEAVE TYPE & BALANCE DTOs
// ========================================

type LeaveTypeResponse struct {
	ID                int64            `json:"id"`
	Code              string           `json:"code"`
	Name              string           `json:"name"`
	GenderRestriction *employee.Gender `json:"gender_restriction"`
	IsPaid            bool             `json:"is_paid"`
	TracksBalance     bool             `json:"tracks_balance"`
	MaxDaysPerRequest *decimal.Decimal `json:"max_days_per_request"`
}

func ToTypeResponse(t LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:                t.ID,
		Code:              t.Code,
		Name:              t.Name,
		GenderRestriction: t.GenderRestriction,
		IsPaid:            t.IsPaid,
		TracksBalance:     t.TracksBalance,
		MaxDaysPerRequest: t.MaxDaysPerRequest,
	}
}

type BalanceResponse struct {
	LeaveTypeID         int64           `json:"leave_type_id"`
	LeaveTypeCode       string          `json:"leave_type_code"`
	LeaveTypeName       string          `json:"leave_type_name"`
	Year                int             `json:"year"`
	OpeningBalanceDays  decimal.Decimal `json:"opening_balance_days"`
	CarryForwardDays    decimal.Decimal `json:"carry_forward_days"`
	AccruedDays         decimal.Decimal `json:"accrued_days"`
	UsedDays            decimal.Decimal `json:"used_days"`
	PendingApprovalDays decimal.Decimal `json:"pending_approval_days"`
	AvailableDays       decimal.Decimal `json:"available_days"`
}

type BalanceSummaryResponse struct {
	EmployeeID int64             `json:"employee_id"`
	Year       int               `json:"year"`
	Balances   []BalanceResponse `json:"balances"`
}

func ToBalanceResponse(b LeaveBalance, t LeaveType) BalanceResponse {
	return BalanceResponse{
		LeaveTypeID:         t.ID,
		LeaveTypeCode:       t.Code,
		LeaveTypeName:       t.Name,
		Year:                b.Year,
		OpeningBalanceDays:  b.OpeningBalanceDays,
		CarryForwardDays:    b.CarryForwardDays,
		AccruedDays:         b.AccruedDays,
		UsedDays:            b.UsedDays,
		PendingApprovalDays: b.PendingApprovalDays,
		AvailableDays:       b.Available(),
	}
}

// BalanceAdjustment upserts entitlement for one ledger row.
type BalanceAdjustment struct {
	EmployeeID         int64            `json:"-"`
	LeaveTypeID        int64            `json:"leave_type_id"`
	Year               int              `json:"year"`
	OpeningBalanceDays *decimal.Decimal `json:"opening_balance_days,omitempty"`
	CarryForwardDays   *decimal.Decimal `json:"carry_forward_days,omitempty"`
	AccruedDays        *decimal.Decimal `json:"accrued_days,omitempty"`
}

func (a *BalanceAdjustment) Validate() error {
	var errs validator.ValidationErrors

	if a.LeaveTypeID <= 0 {
		errs.Add("leave_type_id", "leave_type_id is required")
	}
	if a.Year < 1970 || a.Year > 9999 {
		errs.Add("year", "year is invalid")
	}
	if a.OpeningBalanceDays == nil && a.CarryForwardDays == nil && a.AccruedDays == nil {
		errs.Add("opening_balance_days", "at least one balance field must be provided")
	}
	for field, v := range map[string]*decimal.Decimal{
		"opening_balance_days": a.OpeningBalanceDays,
		"carry_forward_days":   a.CarryForwardDays,
		"accrued_days":         a.AccruedDays,
	} {
		if v != nil && v.IsNegative() {
			errs.Add(field, field+" must not be negative")
		}
	}

	return errs.Err()
}
