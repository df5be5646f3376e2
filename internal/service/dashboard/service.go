package dashboard

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/regularization"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/wfh"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	employeeService       employee.EmployeeService
	attendanceService     attendance.AttendanceService
	leaveService          leave.LeaveService
	regularizationService regularization.RegularizationService
	wfhService            wfh.WFHService
	notificationService   notification.Service
	now                   func() time.Time
}

// NewDashboardService composes the dashboard from the domain services. A nil
// notification service leaves the notifications panel out.
func NewDashboardService(
	employeeService employee.EmployeeService,
	attendanceService attendance.AttendanceService,
	leaveService leave.LeaveService,
	regularizationService regularization.RegularizationService,
	wfhService wfh.WFHService,
	notificationService notification.Service,
) *DashboardServiceImpl {
	return &DashboardServiceImpl{
		employeeService:       employeeService,
		attendanceService:     attendanceService,
		leaveService:          leaveService,
		regularizationService: regularizationService,
		wfhService:            wfhService,
		notificationService:   notificationService,
		now:                   time.Now,
	}
}

// WithClock overrides the clock used to pick the default month.
func (s *DashboardServiceImpl) WithClock(now func() time.Time) *DashboardServiceImpl {
	s.now = now
	return s
}

// formatWorkHours formats minutes to "Xh Ym" format
func formatWorkHours(minutes int64) string {
	hours := minutes / 60
	mins := minutes % 60
	return fmt.Sprintf("%dh %dm", hours, mins)
}

// monthRange returns the first and last day of month ("YYYY-MM"), defaulting
// to the current month.
func (s *DashboardServiceImpl) monthRange(month string) (time.Time, time.Time) {
	now := s.now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if month != "" {
		if parsed, err := time.Parse("2006-01", month); err == nil {
			start = parsed
		}
	}
	return start, start.AddDate(0, 1, -1)
}

// GetEmployeeDashboard implements dashboard.DashboardService.
func (s *DashboardServiceImpl) GetEmployeeDashboard(ctx context.Context, req dashboard.DashboardRequest) (dashboard.EmployeeDashboardResponse, error) {
	if err := req.Validate(); err != nil {
		return dashboard.EmployeeDashboardResponse{}, err
	}

	actor := req.Actor
	employeeID := req.Target()
	own := employeeID == actor.EmployeeID
	start, end := s.monthRange(req.Month)

	// Authorization is left to each service; the employee lookup fails first
	// for callers that cannot see the target at all.
	emp, err := s.employeeService.GetEmployee(ctx, actor, employeeID)
	if err != nil {
		return dashboard.EmployeeDashboardResponse{}, err
	}

	var (
		today         *attendance.AttendanceResponse
		workStats     dashboard.WorkStatsResponse
		leaveSummary  dashboard.LeaveSummaryResponse
		notifications *dashboard.RecentNotificationsResponse
		pending       *dashboard.PendingApprovalsResponse
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Today's record
	g.Go(func() error {
		rec, err := s.attendanceService.Today(gCtx, actor, employeeID)
		if err != nil {
			return err
		}
		today = rec
		return nil
	})

	// 2. Work stats for the month
	g.Go(func() error {
		records, err := s.monthAttendance(gCtx, actor, employeeID, start, end)
		if err != nil {
			return err
		}
		workStats = buildWorkStats(records, start, end)
		return nil
	})

	// 3. Leave summary for the month's year
	g.Go(func() error {
		summary, err := s.leaveService.GetBalance(gCtx, actor, employeeID, start.Year())
		if err != nil {
			return err
		}
		leaveSummary = dashboard.ToLeaveSummary(summary)
		return nil
	})

	// 4. Recent notifications
	if own && s.notificationService != nil {
		g.Go(func() error {
			list, err := s.notificationService.List(gCtx, actor, notification.ListNotificationsRequest{
				Page:     1,
				PageSize: dashboard.RecentNotificationLimit,
			})
			if err != nil {
				return err
			}
			notifications = &dashboard.RecentNotificationsResponse{
				UnreadCount: list.UnreadCount,
				Items:       list.Notifications,
			}
			return nil
		})
	}

	// 5. Approval queues
	if own && (actor.Role == user.RoleManager || actor.Role.IsHR()) {
		g.Go(func() error {
			counts, err := s.pendingApprovals(gCtx, actor)
			if err != nil {
				return err
			}
			pending = &counts
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return dashboard.EmployeeDashboardResponse{}, err
	}

	return dashboard.EmployeeDashboardResponse{
		Employee:         emp,
		Today:            today,
		WorkStats:        workStats,
		LeaveSummary:     leaveSummary,
		Notifications:    notifications,
		PendingApprovals: pending,
	}, nil
}

func (s *DashboardServiceImpl) monthAttendance(ctx context.Context, actor user.Actor, employeeID int64, start, end time.Time) ([]attendance.AttendanceResponse, error) {
	from := start.Format("2006-01-02")
	to := end.Format("2006-01-02")

	var records []attendance.AttendanceResponse
	for page := 1; ; page++ {
		resp, err := s.attendanceService.ListAttendance(ctx, actor, attendance.AttendanceFilter{
			EmployeeID: &employeeID,
			DateFrom:   &from,
			DateTo:     &to,
			Page:       page,
			PageSize:   31,
		})
		if err != nil {
			return nil, err
		}
		records = append(records, resp.Attendances...)
		if page >= resp.TotalPages {
			return records, nil
		}
	}
}

func buildWorkStats(records []attendance.AttendanceResponse, start, end time.Time) dashboard.WorkStatsResponse {
	stats := dashboard.WorkStatsResponse{
		Month:     start.Format("2006-01"),
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
	}

	for _, r := range records {
		switch {
		case r.Status == attendance.StatusAbsent:
			stats.AbsentCount++
		case r.IsLate:
			stats.LateCount++
		default:
			stats.OnTimeCount++
		}
		if r.TotalHours != nil {
			stats.WorkMinutes += int64(math.Round(*r.TotalHours * 60))
		}
	}

	stats.TotalDays = stats.OnTimeCount + stats.LateCount + stats.AbsentCount
	if stats.TotalDays > 0 {
		total := float64(stats.TotalDays)
		stats.OnTimePercent = float64(stats.OnTimeCount) / total * 100
		stats.LatePercent = float64(stats.LateCount) / total * 100
		stats.AbsentPercent = float64(stats.AbsentCount) / total * 100
	}
	stats.WorkHours = formatWorkHours(stats.WorkMinutes)
	return stats
}

// pendingApprovals counts what waits on actor: their reports' first-stage
// requests and, for HR, the HR queues.
func (s *DashboardServiceImpl) pendingApprovals(ctx context.Context, actor user.Actor) (dashboard.PendingApprovalsResponse, error) {
	var counts dashboard.PendingApprovalsResponse
	pendingStatus := approval.StatusPending
	managerStage := approval.StageAwaitingManager
	hrStage := approval.StageAwaitingHR

	leaves, err := s.leaveService.ListRequests(ctx, actor, leave.LeaveRequestFilter{
		View:     leave.ViewManager,
		Status:   &pendingStatus,
		Stage:    &managerStage,
		PageSize: 1,
	})
	if err != nil {
		return counts, err
	}
	counts.Leave = leaves.TotalCount

	regs, err := s.regularizationService.List(ctx, actor, regularization.RegularizationFilter{
		ManagerID: &actor.EmployeeID,
		Status:    &pendingStatus,
		Stage:     &managerStage,
	})
	if err != nil {
		return counts, err
	}
	counts.Regularization = int64(len(regs))

	if actor.Role.IsHR() {
		hrLeaves, err := s.leaveService.ListRequests(ctx, actor, leave.LeaveRequestFilter{
			View:     leave.ViewHR,
			Status:   &pendingStatus,
			Stage:    &hrStage,
			PageSize: 1,
		})
		if err != nil {
			return counts, err
		}
		counts.Leave += hrLeaves.TotalCount

		hrRegs, err := s.regularizationService.List(ctx, actor, regularization.RegularizationFilter{
			Status: &pendingStatus,
			Stage:  &hrStage,
		})
		if err != nil {
			return counts, err
		}
		counts.Regularization += int64(len(hrRegs))

		wfhs, err := s.wfhService.List(ctx, actor, wfh.WFHFilter{Status: &pendingStatus})
		if err != nil {
			return counts, err
		}
		counts.WFH = int64(len(wfhs))
	}

	counts.Total = counts.Leave + counts.Regularization + counts.WFH
	return counts, nil
}
