package leave

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/database"
	approvalsvc "github.com/cmlabs-hris/hris-timepay-go/internal/service/approval"
)

type LeaveServiceImpl struct {
	tx            database.Transactor
	typeRepo      leave.LeaveTypeRepository
	balanceRepo   leave.LeaveBalanceRepository
	requestRepo   leave.LeaveRequestRepository
	employeeRepo  employee.EmployeeRepository
	workflow      *approvalsvc.Workflow[leave.LeaveRequest]
	allowNegative bool
	now           func() time.Time
}

func NewLeaveService(
	tx database.Transactor,
	typeRepo leave.LeaveTypeRepository,
	balanceRepo leave.LeaveBalanceRepository,
	requestRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
	allowNegative bool,
) *LeaveServiceImpl {
	s := &LeaveServiceImpl{
		tx:            tx,
		typeRepo:      typeRepo,
		balanceRepo:   balanceRepo,
		requestRepo:   requestRepo,
		employeeRepo:  employeeRepo,
		allowNegative: allowNegative,
		now:           time.Now,
	}
	s.workflow = approvalsvc.NewWorkflow[leave.LeaveRequest]("leave", approval.TwoStage, tx, requestRepo, s.settle)
	return s
}

var _ leave.LeaveService = (*LeaveServiceImpl)(nil)

// WithNotifier sends approval notices through n.
func (s *LeaveServiceImpl) WithNotifier(n notification.Notifier) *LeaveServiceImpl {
	s.workflow.WithNotifier(n)
	return s
}

// ListTypes implements leave.LeaveService.
func (s *LeaveServiceImpl) ListTypes(ctx context.Context) ([]leave.LeaveTypeResponse, error) {
	types, err := s.typeRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]leave.LeaveTypeResponse, 0, len(types))
	for _, t := range types {
		resp = append(resp, leave.ToTypeResponse(t))
	}
	return resp, nil
}

// GetBalance implements leave.LeaveService.
func (s *LeaveServiceImpl) GetBalance(ctx context.Context, actor user.Actor, employeeID int64, year int) (leave.BalanceSummaryResponse, error) {
	if employeeID == 0 {
		employeeID = actor.EmployeeID
	}
	if year == 0 {
		year = s.now().Year()
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return leave.BalanceSummaryResponse{}, err
	}
	if !actor.CanActFor(emp.ID) && !managedBy(emp.ManagerID, actor) {
		return leave.BalanceSummaryResponse{}, user.ErrInsufficientPermissions
	}

	types, err := s.typeRepo.List(ctx)
	if err != nil {
		return leave.BalanceSummaryResponse{}, err
	}
	rows, err := s.balanceRepo.ListByEmployee(ctx, emp.ID, year)
	if err != nil {
		return leave.BalanceSummaryResponse{}, err
	}
	byType := make(map[int64]leave.LeaveBalance, len(rows))
	for _, row := range rows {
		byType[row.LeaveTypeID] = row
	}

	summary := leave.BalanceSummaryResponse{
		EmployeeID: emp.ID,
		Year:       year,
		Balances:   make([]leave.BalanceResponse, 0, len(types)),
	}
	for _, t := range types {
		if !t.TracksBalance || !t.AppliesTo(emp.Gender) {
			continue
		}
		row, ok := byType[t.ID]
		if !ok {
			row = leave.LeaveBalance{EmployeeID: emp.ID, LeaveTypeID: t.ID, Year: year}
		}
		summary.Balances = append(summary.Balances, leave.ToBalanceResponse(row, t))
	}
	return summary, nil
}

// AdjustBalance implements leave.LeaveService.
func (s *LeaveServiceImpl) AdjustBalance(ctx context.Context, actor user.Actor, adj leave.BalanceAdjustment) (leave.BalanceResponse, error) {
	if !user.HasPermission(actor.Role, user.PermissionBalanceAdjust) {
		return leave.BalanceResponse{}, user.ErrInsufficientPermissions
	}
	if err := adj.Validate(); err != nil {
		return leave.BalanceResponse{}, err
	}

	leaveType, err := s.typeRepo.GetByID(ctx, adj.LeaveTypeID)
	if err != nil {
		return leave.BalanceResponse{}, err
	}

	row, err := s.balanceRepo.Adjust(ctx, adj)
	if err != nil {
		return leave.BalanceResponse{}, err
	}

	slog.Info("leave balance adjusted",
		"employee_id", adj.EmployeeID,
		"leave_type", leaveType.Code,
		"year", adj.Year,
		"adjusted_by", actor.EmployeeID,
	)
	return leave.ToBalanceResponse(row, leaveType), nil
}

func managedBy(managerID *int64, actor user.Actor) bool {
	return managerID != nil && *managerID == actor.EmployeeID
}
