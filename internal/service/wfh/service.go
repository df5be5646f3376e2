package wfh

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/wfh"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/database"
	approvalsvc "github.com/cmlabs-hris/hris-timepay-go/internal/service/approval"
)

type WFHServiceImpl struct {
	tx           database.Transactor
	wfhRepo      wfh.WFHRepository
	employeeRepo employee.EmployeeRepository
	workflow     *approvalsvc.Workflow[wfh.WFHRequest]
	maxDays      int
}

func NewWFHService(tx database.Transactor, wfhRepo wfh.WFHRepository, employeeRepo employee.EmployeeRepository, maxDays int) *WFHServiceImpl {
	return &WFHServiceImpl{
		tx:           tx,
		wfhRepo:      wfhRepo,
		employeeRepo: employeeRepo,
		// No side effect: an approved WFH is read by the tracker at check-in.
		workflow: approvalsvc.NewWorkflow[wfh.WFHRequest]("wfh", approval.SingleStage, tx, wfhRepo, nil),
		maxDays:  maxDays,
	}
}

var _ wfh.WFHService = (*WFHServiceImpl)(nil)

// WithNotifier sends decision notices through n.
func (s *WFHServiceImpl) WithNotifier(n notification.Notifier) *WFHServiceImpl {
	s.workflow.WithNotifier(n)
	return s
}

// Submit implements wfh.WFHService.
func (s *WFHServiceImpl) Submit(ctx context.Context, req wfh.CreateWFHRequest) (wfh.WFHResponse, error) {
	if err := req.Validate(); err != nil {
		return wfh.WFHResponse{}, err
	}
	if !req.Actor.CanActFor(req.Target()) {
		return wfh.WFHResponse{}, user.ErrActorMismatch
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.Target())
	if err != nil {
		return wfh.WFHResponse{}, err
	}

	start, end := req.Range()
	request := wfh.WFHRequest{
		EmployeeID:  emp.ID,
		RequestDate: start,
		StartDate:   start,
		EndDate:     end,
		Reason:      req.Reason,
		Status:      approval.StatusPending,
		Stage:       approval.InitialStage(approval.SingleStage, emp.ManagerID),
	}
	if request.Days() > s.maxDays {
		return wfh.WFHResponse{}, wfh.ErrExceedsMaxDays
	}

	var created wfh.WFHRequest
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		overlap, err := s.wfhRepo.HasOverlap(ctx, emp.ID, start, end)
		if err != nil {
			return err
		}
		if overlap {
			return wfh.ErrOverlappingWFH
		}
		created, err = s.wfhRepo.Create(ctx, request)
		return err
	})
	if err != nil {
		return wfh.WFHResponse{}, err
	}

	slog.Info("wfh request submitted", "request_id", created.ID, "employee_id", emp.ID, "days", created.Days())
	return wfh.ToResponse(created), nil
}

// MyRequests implements wfh.WFHService.
func (s *WFHServiceImpl) MyRequests(ctx context.Context, actor user.Actor) ([]wfh.WFHResponse, error) {
	return s.list(ctx, wfh.WFHFilter{EmployeeID: &actor.EmployeeID})
}

// List implements wfh.WFHService.
func (s *WFHServiceImpl) List(ctx context.Context, actor user.Actor, filter wfh.WFHFilter) ([]wfh.WFHResponse, error) {
	if !user.HasPermission(actor.Role, user.PermissionWFHApprove) {
		return nil, user.ErrInsufficientPermissions
	}
	return s.list(ctx, filter)
}

// Act implements wfh.WFHService.
func (s *WFHServiceImpl) Act(ctx context.Context, req approval.ActionRequest) (wfh.WFHResponse, error) {
	act, err := req.ToAction()
	if err != nil {
		return wfh.WFHResponse{}, err
	}
	acted, err := s.workflow.Act(ctx, req.RequestID, act)
	if err != nil {
		return wfh.WFHResponse{}, err
	}
	return wfh.ToResponse(acted), nil
}

func (s *WFHServiceImpl) list(ctx context.Context, filter wfh.WFHFilter) ([]wfh.WFHResponse, error) {
	requests, err := s.wfhRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list wfh requests: %w", err)
	}
	resp := make([]wfh.WFHResponse, 0, len(requests))
	for _, r := range requests {
		resp = append(resp, wfh.ToResponse(r))
	}
	return resp, nil
}
