package regularization

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/regularization"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/utils"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/validator"
	approvalsvc "github.com/cmlabs-hris/hris-timepay-go/internal/service/approval"
)

type RegularizationServiceImpl struct {
	regularizationRepo regularization.RegularizationRepository
	attendanceRepo     attendance.AttendanceRepository
	employeeRepo       employee.EmployeeRepository
	corrector          attendance.Corrector
	workflow           *approvalsvc.Workflow[regularization.Regularization]
}

func NewRegularizationService(
	tx database.Transactor,
	regularizationRepo regularization.RegularizationRepository,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	corrector attendance.Corrector,
) *RegularizationServiceImpl {
	s := &RegularizationServiceImpl{
		regularizationRepo: regularizationRepo,
		attendanceRepo:     attendanceRepo,
		employeeRepo:       employeeRepo,
		corrector:          corrector,
	}
	s.workflow = approvalsvc.NewWorkflow[regularization.Regularization]("regularization", approval.TwoStage, tx, regularizationRepo, s.apply)
	return s
}

var _ regularization.RegularizationService = (*RegularizationServiceImpl)(nil)

// WithNotifier sends approval notices through n.
func (s *RegularizationServiceImpl) WithNotifier(n notification.Notifier) *RegularizationServiceImpl {
	s.workflow.WithNotifier(n)
	return s
}

// Submit implements regularization.RegularizationService.
func (s *RegularizationServiceImpl) Submit(ctx context.Context, req regularization.CreateRegularizationRequest) (regularization.RegularizationResponse, error) {
	if err := req.Validate(); err != nil {
		return regularization.RegularizationResponse{}, err
	}
	if !req.Actor.CanActFor(req.Target()) {
		return regularization.RegularizationResponse{}, user.ErrActorMismatch
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.Target())
	if err != nil {
		return regularization.RegularizationResponse{}, err
	}

	record, err := s.attendanceRepo.GetByID(ctx, req.AttendanceRecordID)
	if err != nil {
		return regularization.RegularizationResponse{}, err
	}
	if record.EmployeeID != emp.ID {
		return regularization.RegularizationResponse{}, regularization.ErrNotRecordOwner
	}

	in, out, err := req.ParseTimes(emp.TimeLocation())
	if err != nil {
		return regularization.RegularizationResponse{}, err
	}
	if err := checkDates(emp, record.Date, in, out); err != nil {
		return regularization.RegularizationResponse{}, err
	}

	reg := regularization.Regularization{
		EmployeeID:         emp.ID,
		AttendanceRecordID: record.ID,
		AttendanceDate:     record.Date,
		OriginalClockIn:    record.ClockIn,
		OriginalClockOut:   record.ClockOut,
		RequestedClockIn:   in,
		RequestedClockOut:  out,
		Reason:             req.Reason,
		Status:             approval.StatusPending,
		Stage:              approval.InitialStage(approval.TwoStage, emp.ManagerID),
	}
	if !reg.ChangesRecord() {
		return regularization.RegularizationResponse{}, regularization.ErrNoChange
	}
	if err := checkOrder(reg); err != nil {
		return regularization.RegularizationResponse{}, err
	}

	created, err := s.regularizationRepo.Create(ctx, reg)
	if err != nil {
		return regularization.RegularizationResponse{}, err
	}

	slog.Info("regularization submitted",
		"regularization_id", created.ID,
		"attendance_id", record.ID,
		"employee_id", emp.ID,
		"stage", created.Stage,
	)
	s.workflow.Submitted(ctx, created)
	return regularization.ToResponse(created), nil
}

// List implements regularization.RegularizationService.
func (s *RegularizationServiceImpl) List(ctx context.Context, actor user.Actor, filter regularization.RegularizationFilter) ([]regularization.RegularizationResponse, error) {
	if !actor.Role.IsHR() {
		switch {
		case filter.ManagerID != nil && *filter.ManagerID != actor.EmployeeID:
			return nil, user.ErrActorMismatch
		case filter.ManagerID == nil:
			filter.EmployeeID = &actor.EmployeeID
		}
	}

	regs, err := s.regularizationRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list regularizations: %w", err)
	}

	resp := make([]regularization.RegularizationResponse, 0, len(regs))
	for _, r := range regs {
		resp = append(resp, regularization.ToResponse(r))
	}
	return resp, nil
}

// Act implements regularization.RegularizationService.
func (s *RegularizationServiceImpl) Act(ctx context.Context, req approval.ActionRequest) (regularization.RegularizationResponse, error) {
	act, err := req.ToAction()
	if err != nil {
		return regularization.RegularizationResponse{}, err
	}

	acted, err := s.workflow.Act(ctx, req.RequestID, act)
	if err != nil {
		return regularization.RegularizationResponse{}, err
	}
	return regularization.ToResponse(acted), nil
}

// apply rewrites the attendance record once the correction is approved.
func (s *RegularizationServiceImpl) apply(ctx context.Context, reg regularization.Regularization, t approval.Transition) error {
	if !t.Approved() {
		return nil
	}
	_, err := s.corrector.ApplyRegularization(ctx, reg.AttendanceRecordID, reg.RequestedClockIn, reg.RequestedClockOut)
	return err
}

// checkDates keeps requested times on the record's local date. A clock-out
// may fall on the following day for shifts that run past midnight.
func checkDates(emp employee.Employee, date time.Time, in, out *time.Time) error {
	var errs validator.ValidationErrors
	if in != nil && !emp.LocalDate(*in).Equal(date) {
		errs.Add("requested_clock_in", "requested_clock_in must fall on "+date.Format(utils.DateLayout))
	}
	if out != nil {
		day := emp.LocalDate(*out)
		if !day.Equal(date) && !day.Equal(date.AddDate(0, 0, 1)) {
			errs.Add("requested_clock_out", "requested_clock_out must fall on "+date.Format(utils.DateLayout)+" or the day after")
		}
	}
	return errs.Err()
}

func checkOrder(reg regularization.Regularization) error {
	in, out := reg.RequestedClockIn, reg.RequestedClockOut
	if in == nil {
		in = reg.OriginalClockIn
	}
	if out == nil {
		out = reg.OriginalClockOut
	}
	if in != nil && out != nil && out.Before(*in) {
		return validator.ValidationErrors{{Field: "requested_clock_out", Message: "requested_clock_out must not precede the clock-in time"}}
	}
	return nil
}
