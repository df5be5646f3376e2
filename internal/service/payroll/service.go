package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/lock"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/utils"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type PayrollServiceImpl struct {
	tx             database.Transactor
	payrollRepo    payroll.PayrollRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	leaveRepo      leave.LeaveRequestRepository
	calendar       holiday.Calendar
	locker         *lock.Locker
	lockTTL        time.Duration
	notifier       notification.Notifier
	now            func() time.Time
}

func NewPayrollService(
	tx database.Transactor,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	leaveRepo leave.LeaveRequestRepository,
	calendar holiday.Calendar,
	locker *lock.Locker,
	lockTTL time.Duration,
) *PayrollServiceImpl {
	return &PayrollServiceImpl{
		tx:             tx,
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		calendar:       calendar,
		locker:         locker,
		lockTTL:        lockTTL,
		now:            time.Now,
	}
}

func (s *PayrollServiceImpl) WithClock(now func() time.Time) *PayrollServiceImpl {
	s.now = now
	return s
}

// WithNotifier tells each employee when their payslip is finalized.
func (s *PayrollServiceImpl) WithNotifier(n notification.Notifier) *PayrollServiceImpl {
	s.notifier = n
	return s
}

var _ payroll.PayrollService = (*PayrollServiceImpl)(nil)

// Preview implements payroll.PayrollService.
func (s *PayrollServiceImpl) Preview(ctx context.Context, actor user.Actor, year, month int) (payroll.PreviewResponse, error) {
	if !user.HasPermission(actor.Role, user.PermissionPayrollPreview) {
		return payroll.PreviewResponse{}, user.ErrInsufficientPermissions
	}
	if err := payroll.ValidatePeriod(year, month); err != nil {
		return payroll.PreviewResponse{}, err
	}

	items, skipped, err := s.compute(ctx, year, time.Month(month))
	if err != nil {
		return payroll.PreviewResponse{}, err
	}

	resp := payroll.PreviewResponse{
		Year:           year,
		Month:          month,
		TotalEmployees: len(items),
		Items:          make([]payroll.ItemResponse, 0, len(items)),
		Skipped:        make([]payroll.SkippedResponse, 0, len(skipped)),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, payroll.ToItemResponse(it))
	}
	for _, sk := range skipped {
		resp.Skipped = append(resp.Skipped, payroll.SkippedResponse{
			EmployeeID:   sk.EmployeeID,
			EmployeeCode: sk.EmployeeCode,
			EmployeeName: sk.EmployeeName,
			Reason:       sk.Reason,
		})
	}
	return resp, nil
}

// Finalize implements payroll.PayrollService. The period lock serializes
// concurrent callers; the unique constraints reject anything that slips past
// an expired lock.
func (s *PayrollServiceImpl) Finalize(ctx context.Context, req payroll.FinalizeRequest) (payroll.FinalizeResponse, error) {
	if !user.HasPermission(req.Actor.Role, user.PermissionPayrollFinalize) {
		return payroll.FinalizeResponse{}, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return payroll.FinalizeResponse{}, err
	}
	first, _ := utils.MonthBounds(req.Year, time.Month(req.Month))
	if first.After(utils.DateOf(s.now())) {
		return payroll.FinalizeResponse{}, payroll.ErrInvalidPeriod
	}

	if s.locker != nil {
		held, err := s.locker.Acquire(ctx, fmt.Sprintf("payroll:%04d-%02d", req.Year, req.Month), s.lockTTL)
		if err != nil {
			if errors.Is(err, lock.ErrNotAcquired) {
				return payroll.FinalizeResponse{}, payroll.ErrFinalizeBusy
			}
			return payroll.FinalizeResponse{}, err
		}
		defer func() {
			if err := held.Release(context.WithoutCancel(ctx)); err != nil {
				slog.Warn("failed to release payroll lock", "year", req.Year, "month", req.Month, "error", err)
			}
		}()
	}

	items, _, err := s.compute(ctx, req.Year, time.Month(req.Month))
	if err != nil {
		return payroll.FinalizeResponse{}, err
	}
	if len(items) == 0 {
		return payroll.FinalizeResponse{}, payroll.ErrNothingToFinalize
	}

	run := payroll.Run{
		ID:          uuid.New(),
		Year:        req.Year,
		Month:       req.Month,
		Notes:       req.Notes,
		FinalizedBy: req.Actor.EmployeeID,
		RunDate:     s.now().UTC(),
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		created, err := s.payrollRepo.CreateRun(ctx, run)
		if err != nil {
			return err
		}
		run = created

		for i := range items {
			items[i].RunID = &run.ID
			items[i].RunDate = &run.RunDate
		}
		return s.payrollRepo.InsertItems(ctx, items)
	})
	if err != nil {
		return payroll.FinalizeResponse{}, err
	}

	slog.Info("payroll finalized",
		"run_id", run.ID,
		"year", run.Year,
		"month", run.Month,
		"employees", len(items),
		"finalized_by", run.FinalizedBy,
	)
	s.notifyPayslips(ctx, run, items)

	resp := payroll.FinalizeResponse{
		RunID:          run.ID,
		Year:           run.Year,
		Month:          run.Month,
		RunDate:        run.RunDate,
		TotalEmployees: len(items),
		Items:          make([]payroll.ItemResponse, 0, len(items)),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, payroll.ToItemResponse(it))
	}
	return resp, nil
}

func (s *PayrollServiceImpl) notifyPayslips(ctx context.Context, run payroll.Run, items []payroll.Item) {
	if s.notifier == nil {
		return
	}
	for _, it := range items {
		n := notification.ForPayslip(it.EmployeeID, run.Year, run.Month, run.ID.String())
		if err := s.notifier.QueueNotification(ctx, n); err != nil {
			slog.Warn("failed to queue payslip notification", "employee_id", it.EmployeeID, "error", err)
		}
	}
}

// Me implements payroll.PayrollService.
func (s *PayrollServiceImpl) Me(ctx context.Context, actor user.Actor, year, month *int) ([]payroll.ItemResponse, error) {
	items, err := s.payrollRepo.ListItemsByEmployee(ctx, actor.EmployeeID, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll items: %w", err)
	}
	resp := make([]payroll.ItemResponse, 0, len(items))
	for _, it := range items {
		resp = append(resp, payroll.ToItemResponse(it))
	}
	return resp, nil
}

// Runs implements payroll.PayrollService.
func (s *PayrollServiceImpl) Runs(ctx context.Context, actor user.Actor) ([]payroll.RunResponse, error) {
	if !user.HasPermission(actor.Role, user.PermissionPayrollPreview) {
		return nil, user.ErrInsufficientPermissions
	}
	runs, err := s.payrollRepo.ListRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll runs: %w", err)
	}
	resp := make([]payroll.RunResponse, 0, len(runs))
	for _, r := range runs {
		resp = append(resp, payroll.ToRunResponse(r))
	}
	return resp, nil
}

// monthData is everything loaded for one period.
type monthData struct {
	employees  []employee.Employee
	attendance map[int64]map[string]attendance.AttendanceRecord
	leaves     map[int64][]leave.LeaveRequest
	holidays   map[string]map[string]string
}

func (s *PayrollServiceImpl) compute(ctx context.Context, year int, month time.Month) ([]payroll.Item, []payroll.Skipped, error) {
	data, err := s.load(ctx, year, month)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	items := make([]payroll.Item, 0, len(data.employees))
	skipped := make([]payroll.Skipped, 0)
	for _, emp := range data.employees {
		item, sk := payroll.Calculate(year, month, payroll.MonthInput{
			Employee:   emp,
			Attendance: data.attendance[emp.ID],
			Leaves:     data.leaves[emp.ID],
			Holidays:   data.holidays[emp.CountryCode()],
			Today:      emp.LocalDate(now),
		})
		if sk != nil {
			skipped = append(skipped, *sk)
			continue
		}
		items = append(items, item)
	}
	return items, skipped, nil
}

func (s *PayrollServiceImpl) load(ctx context.Context, year int, month time.Month) (monthData, error) {
	first, last := utils.MonthBounds(year, month)
	data := monthData{
		attendance: make(map[int64]map[string]attendance.AttendanceRecord),
		leaves:     make(map[int64][]leave.LeaveRequest),
		holidays:   make(map[string]map[string]string),
	}

	var (
		records  []attendance.AttendanceRecord
		approved []leave.LeaveRequest
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		emps, err := s.employeeRepo.GetActive(gctx)
		if err != nil {
			return fmt.Errorf("failed to load employees: %w", err)
		}
		data.employees = emps
		return nil
	})
	g.Go(func() error {
		rows, err := s.attendanceRepo.ListBetween(gctx, first, last)
		if err != nil {
			return fmt.Errorf("failed to load attendance: %w", err)
		}
		records = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.leaveRepo.ListApprovedBetween(gctx, first, last)
		if err != nil {
			return fmt.Errorf("failed to load approved leave: %w", err)
		}
		approved = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return monthData{}, err
	}

	for _, rec := range records {
		byDay, ok := data.attendance[rec.EmployeeID]
		if !ok {
			byDay = make(map[string]attendance.AttendanceRecord)
			data.attendance[rec.EmployeeID] = byDay
		}
		byDay[rec.Date.Format(utils.DateLayout)] = rec
	}
	for _, lr := range approved {
		data.leaves[lr.EmployeeID] = append(data.leaves[lr.EmployeeID], lr)
	}

	countries := make([]string, 0)
	for _, emp := range data.employees {
		cc := emp.CountryCode()
		if _, seen := data.holidays[cc]; seen {
			continue
		}
		data.holidays[cc] = map[string]string{}
		if cc != "" {
			countries = append(countries, cc)
		}
	}

	results := make([][]holiday.Holiday, len(countries))
	hg, hctx := errgroup.WithContext(ctx)
	for i, cc := range countries {
		hg.Go(func() error {
			hs, err := s.calendar.Between(hctx, cc, first, last)
			if err != nil {
				return fmt.Errorf("failed to load holidays for %s: %w", cc, err)
			}
			results[i] = hs
			return nil
		})
	}
	if err := hg.Wait(); err != nil {
		return monthData{}, err
	}
	for i, cc := range countries {
		for _, h := range results[i] {
			data.holidays[cc][h.Date.Format(utils.DateLayout)] = h.Name
		}
	}

	return data, nil
}
