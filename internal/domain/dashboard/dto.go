package dashboard

import (
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/validator"
)

// RecentNotificationLimit is how many notifications the dashboard shows.
const RecentNotificationLimit = 5

type DashboardRequest struct {
	// EmployeeID defaults to the caller
	EmployeeID *int64
	// Month is "YYYY-MM"; empty means the current month
	Month string

	Actor user.Actor
}

func (r *DashboardRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Month != "" {
		if _, err := time.Parse("2006-01", r.Month); err != nil {
			errs.Add("month", "month must be in YYYY-MM format")
		}
	}
	if r.EmployeeID != nil && *r.EmployeeID <= 0 {
		errs.Add("employee_id", "employee_id must be positive")
	}
	return errs.Err()
}

// Target returns the employee the dashboard is for.
func (r *DashboardRequest) Target() int64 {
	if r.EmployeeID != nil {
		return *r.EmployeeID
	}
	return r.Actor.EmployeeID
}

// ========== COMBINED EMPLOYEE DASHBOARD ==========

type EmployeeDashboardResponse struct {
	Employee     employee.EmployeeResponse      `json:"employee"`
	Today        *attendance.AttendanceResponse `json:"today"`
	WorkStats    WorkStatsResponse              `json:"work_stats"`
	LeaveSummary LeaveSummaryResponse           `json:"leave_summary"`

	// Only present on the caller's own dashboard
	Notifications    *RecentNotificationsResponse `json:"notifications,omitempty"`
	PendingApprovals *PendingApprovalsResponse    `json:"pending_approvals,omitempty"`
}

// ========== WORK STATS (Top Cards) ==========

type WorkStatsResponse struct {
	WorkHours     string  `json:"work_hours"` // Format: "120h 54m"
	WorkMinutes   int64   `json:"work_minutes"`
	TotalDays     int64   `json:"total_days"`
	OnTimeCount   int64   `json:"on_time_count"`
	LateCount     int64   `json:"late_count"`
	AbsentCount   int64   `json:"absent_count"`
	OnTimePercent float64 `json:"on_time_percent"`
	LatePercent   float64 `json:"late_percent"`
	AbsentPercent float64 `json:"absent_percent"`
	Month         string  `json:"month"` // Format: "YYYY-MM"
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
}

// ========== LEAVE SUMMARY ==========

type LeaveSummaryResponse struct {
	Year             int              `json:"year"`
	LeaveQuotaDetail []LeaveQuotaItem `json:"leave_quota_detail"`
}

type LeaveQuotaItem struct {
	LeaveTypeID   int64   `json:"leave_type_id"`
	LeaveTypeCode string  `json:"leave_type_code"`
	LeaveTypeName string  `json:"leave_type_name"`
	TotalQuota    float64 `json:"total_quota"`
	Taken         float64 `json:"taken"`
	Pending       float64 `json:"pending"`
	Remaining     float64 `json:"remaining"`
}

func ToLeaveSummary(b leave.BalanceSummaryResponse) LeaveSummaryResponse {
	items := make([]LeaveQuotaItem, 0, len(b.Balances))
	for _, bal := range b.Balances {
		total := bal.OpeningBalanceDays.Add(bal.CarryForwardDays).Add(bal.AccruedDays)
		items = append(items, LeaveQuotaItem{
			LeaveTypeID:   bal.LeaveTypeID,
			LeaveTypeCode: bal.LeaveTypeCode,
			LeaveTypeName: bal.LeaveTypeName,
			TotalQuota:    total.InexactFloat64(),
			Taken:         bal.UsedDays.InexactFloat64(),
			Pending:       bal.PendingApprovalDays.InexactFloat64(),
			Remaining:     bal.AvailableDays.InexactFloat64(),
		})
	}
	return LeaveSummaryResponse{Year: b.Year, LeaveQuotaDetail: items}
}

// ========== NOTIFICATIONS ==========

type RecentNotificationsResponse struct {
	UnreadCount int                                 `json:"unread_count"`
	Items       []notification.NotificationResponse `json:"items"`
}

// ========== PENDING APPROVALS ==========

// PendingApprovalsResponse counts the requests waiting on the caller.
type PendingApprovalsResponse struct {
	Leave          int64 `json:"leave"`
	Regularization int64 `json:"regularization"`
	WFH            int64 `json:"wfh"`
	Total          int64 `json:"total"`
}
