package leave

import (
	"context"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
)

type LeaveService interface {
	ListTypes(ctx context.Context) ([]LeaveTypeResponse, error)

	// GetBalance summarises the ledger for one employee and year, hiding
	// types that do not apply to the employee's gender
	GetBalance(ctx context.Context, actor user.Actor, employeeID int64, year int) (BalanceSummaryResponse, error)
	AdjustBalance(ctx context.Context, actor user.Actor, adj BalanceAdjustment) (BalanceResponse, error)

	Submit(ctx context.Context, req CreateLeaveRequest) (LeaveRequestResponse, error)
	Edit(ctx context.Context, req UpdateLeaveRequest) (LeaveRequestResponse, error)
	Cancel(ctx context.Context, actor user.Actor, id int64) (LeaveRequestResponse, error)
	Act(ctx context.Context, req approval.ActionRequest) (LeaveRequestResponse, error)

	GetRequest(ctx context.Context, actor user.Actor, id int64) (LeaveRequestResponse, error)
	ListRequests(ctx context.Context, actor user.Actor, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
}
