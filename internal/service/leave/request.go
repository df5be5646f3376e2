package leave

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
)

// Submit implements leave.LeaveService.
func (s *LeaveServiceImpl) Submit(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !req.Actor.CanActFor(req.Target()) {
		return leave.LeaveRequestResponse{}, user.ErrActorMismatch
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.Target())
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	leaveType, err := s.resolveType(ctx, req.LeaveTypeID, req.LeaveTypeCode)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	start, end := req.Range()
	request := leave.LeaveRequest{
		EmployeeID:                emp.ID,
		LeaveTypeID:               leaveType.ID,
		StartDate:                 start,
		EndDate:                   end,
		IsHalfDay:                 req.IsHalfDay,
		HalfDaySession:            session(req.IsHalfDay, req.HalfDaySession),
		TotalDays:                 leave.TotalDays(start, end, req.IsHalfDay),
		Reason:                    req.Reason,
		ContactDetailsDuringLeave: req.ContactDetailsDuringLeave,
		Status:                    approval.StatusPending,
		Stage:                     approval.InitialStage(approval.TwoStage, emp.ManagerID),
	}
	if err := checkEligible(emp, leaveType, request); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	var (
		created leave.LeaveRequest
		warning *string
	)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		overlap, err := s.requestRepo.HasOverlap(ctx, emp.ID, start, end, nil)
		if err != nil {
			return err
		}
		if overlap {
			return leave.ErrOverlappingLeave
		}

		warning, err = s.reserve(ctx, request, leaveType)
		if err != nil {
			return err
		}

		created, err = s.requestRepo.Create(ctx, request)
		return err
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("leave request submitted",
		"request_id", created.ID,
		"employee_id", emp.ID,
		"leave_type", leaveType.Code,
		"total_days", created.TotalDays.String(),
		"stage", created.Stage,
	)
	s.workflow.Submitted(ctx, created)

	resp := leave.ToRequestResponse(created)
	resp.Warning = warning
	return resp, nil
}

// Edit implements leave.LeaveService. The old reservation is released and
// the new one taken in the same transaction.
func (s *LeaveServiceImpl) Edit(ctx context.Context, req leave.UpdateLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	var (
		updated leave.LeaveRequest
		warning *string
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.requestRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if existing.EmployeeID != req.Actor.EmployeeID {
			return leave.ErrNotRequestOwner
		}
		if existing.Status != approval.StatusPending {
			return approval.ErrNotPending
		}

		emp, err := s.employeeRepo.GetByID(ctx, existing.EmployeeID)
		if err != nil {
			return err
		}

		oldType, err := s.typeRepo.GetByID(ctx, existing.LeaveTypeID)
		if err != nil {
			return err
		}
		newType := oldType
		if req.LeaveTypeID != nil && *req.LeaveTypeID != existing.LeaveTypeID {
			if newType, err = s.typeRepo.GetByID(ctx, *req.LeaveTypeID); err != nil {
				return err
			}
		}

		start, end := req.Range()
		edited := existing
		edited.LeaveTypeID = newType.ID
		edited.StartDate, edited.EndDate = start, end
		edited.IsHalfDay = req.IsHalfDay
		edited.HalfDaySession = session(req.IsHalfDay, req.HalfDaySession)
		edited.TotalDays = leave.TotalDays(start, end, req.IsHalfDay)
		edited.Reason = req.Reason
		edited.ContactDetailsDuringLeave = req.ContactDetailsDuringLeave
		edited.Stage = approval.InitialStage(approval.TwoStage, emp.ManagerID)
		if err := checkEligible(emp, newType, edited); err != nil {
			return err
		}

		overlap, err := s.requestRepo.HasOverlap(ctx, emp.ID, start, end, &existing.ID)
		if err != nil {
			return err
		}
		if overlap {
			return leave.ErrOverlappingLeave
		}

		if err := s.release(ctx, existing, oldType); err != nil {
			return err
		}
		if warning, err = s.reserve(ctx, edited, newType); err != nil {
			return err
		}

		if err := s.requestRepo.UpdatePending(ctx, edited); err != nil {
			return err
		}
		updated, err = s.requestRepo.GetByID(ctx, existing.ID)
		return err
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	s.workflow.Submitted(ctx, updated)

	resp := leave.ToRequestResponse(updated)
	resp.Warning = warning
	return resp, nil
}

// Cancel implements leave.LeaveService.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, actor user.Actor, id int64) (leave.LeaveRequestResponse, error) {
	var cancelled leave.LeaveRequest
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.requestRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing.EmployeeID != actor.EmployeeID {
			return leave.ErrNotRequestOwner
		}

		if err := s.requestRepo.Cancel(ctx, id); err != nil {
			return err
		}

		leaveType, err := s.typeRepo.GetByID(ctx, existing.LeaveTypeID)
		if err != nil {
			return err
		}
		if err := s.release(ctx, existing, leaveType); err != nil {
			return err
		}

		cancelled, err = s.requestRepo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("leave request cancelled", "request_id", id, "employee_id", actor.EmployeeID)
	return leave.ToRequestResponse(cancelled), nil
}

// Act implements leave.LeaveService.
func (s *LeaveServiceImpl) Act(ctx context.Context, req approval.ActionRequest) (leave.LeaveRequestResponse, error) {
	act, err := req.ToAction()
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	acted, err := s.workflow.Act(ctx, req.RequestID, act)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.ToRequestResponse(acted), nil
}

// GetRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) GetRequest(ctx context.Context, actor user.Actor, id int64) (leave.LeaveRequestResponse, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !actor.CanActFor(req.EmployeeID) && !managedBy(req.ManagerID, actor) {
		return leave.LeaveRequestResponse{}, user.ErrInsufficientPermissions
	}
	return leave.ToRequestResponse(req), nil
}

// ListRequests implements leave.LeaveService. Non-HR callers see their own
// requests or, with the manager view, their direct reports'.
func (s *LeaveServiceImpl) ListRequests(ctx context.Context, actor user.Actor, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if filter.View == leave.ViewManager && filter.ApproverID == nil {
		filter.ApproverID = &actor.EmployeeID
	}
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	if !actor.Role.IsHR() {
		switch filter.View {
		case leave.ViewManager:
			if *filter.ApproverID != actor.EmployeeID {
				return leave.ListLeaveRequestResponse{}, user.ErrActorMismatch
			}
		case leave.ViewHR:
			return leave.ListLeaveRequestResponse{}, user.ErrInsufficientPermissions
		default:
			filter.EmployeeID = &actor.EmployeeID
		}
	}
	if filter.View == leave.ViewHR && filter.Stage == nil {
		stage := approval.StageAwaitingHR
		filter.Stage = &stage
	}

	requests, total, err := s.requestRepo.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	resp := leave.ListLeaveRequestResponse{
		TotalCount: total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.PageSize))),
		Requests:   make([]leave.LeaveRequestResponse, 0, len(requests)),
	}
	for _, r := range requests {
		resp.Requests = append(resp.Requests, leave.ToRequestResponse(r))
	}
	return resp, nil
}

// settle is the ledger side effect of a workflow decision: a final approval
// commits the reservation, any rejection releases it.
func (s *LeaveServiceImpl) settle(ctx context.Context, req leave.LeaveRequest, t approval.Transition) error {
	if !t.Final() {
		return nil
	}
	leaveType, err := s.typeRepo.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		return err
	}
	if !leaveType.TracksBalance {
		return nil
	}
	if t.Approved() {
		return s.balanceRepo.Commit(ctx, req.EmployeeID, req.LeaveTypeID, req.Year(), req.TotalDays)
	}
	return s.balanceRepo.Release(ctx, req.EmployeeID, req.LeaveTypeID, req.Year(), req.TotalDays)
}

// reserve books req against the start-date year and returns a warning when
// a permitted negative balance results.
func (s *LeaveServiceImpl) reserve(ctx context.Context, req leave.LeaveRequest, leaveType leave.LeaveType) (*string, error) {
	if !leaveType.TracksBalance {
		return nil, nil
	}
	row, err := s.balanceRepo.Reserve(ctx, req.EmployeeID, leaveType.ID, req.Year(), req.TotalDays, s.allowNegative)
	if err != nil {
		return nil, err
	}
	if available := row.Available(); available.IsNegative() {
		msg := fmt.Sprintf("%s balance for %d is overdrawn: %s days available", leaveType.Code, req.Year(), available.StringFixed(1))
		slog.Warn("leave balance overdrawn", "employee_id", req.EmployeeID, "leave_type", leaveType.Code, "available", available.String())
		return &msg, nil
	}
	return nil, nil
}

func (s *LeaveServiceImpl) release(ctx context.Context, req leave.LeaveRequest, leaveType leave.LeaveType) error {
	if !leaveType.TracksBalance {
		return nil
	}
	return s.balanceRepo.Release(ctx, req.EmployeeID, leaveType.ID, req.Year(), req.TotalDays)
}

func (s *LeaveServiceImpl) resolveType(ctx context.Context, id *int64, code *string) (leave.LeaveType, error) {
	if id != nil {
		return s.typeRepo.GetByID(ctx, *id)
	}
	return s.typeRepo.GetByCode(ctx, *code)
}

func checkEligible(emp employee.Employee, leaveType leave.LeaveType, req leave.LeaveRequest) error {
	if !leaveType.AppliesTo(emp.Gender) {
		return leave.ErrLeaveTypeNotForGender
	}
	if leaveType.MaxDaysPerRequest != nil && req.TotalDays.GreaterThan(*leaveType.MaxDaysPerRequest) {
		return leave.ErrExceedsMaxDays
	}
	return nil
}

func session(isHalfDay bool, s *string) *leave.HalfDaySession {
	if !isHalfDay || s == nil {
		return nil
	}
	hs := leave.HalfDaySession(*s)
	return &hs
}
