package leave

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/approval"
	"github.com/shopspring/decimal"
)

type LeaveTypeRepository interface {
	GetByID(ctx context.Context, id int64) (LeaveType, error)
	GetByCode(ctx context.Context, code string) (LeaveType, error)
	List(ctx context.Context) ([]LeaveType, error)
}

// LeaveBalanceRepository is the ledger. Mutations run inside the caller's
// transaction and are conditional updates on the row.
type LeaveBalanceRepository interface {
	Get(ctx context.Context, employeeID, leaveTypeID int64, year int) (LeaveBalance, error)
	ListByEmployee(ctx context.Context, employeeID int64, year int) ([]LeaveBalance, error)

	// Reserve adds days to pending_approval_days. Unless allowNegative is
	// set, it fails with ErrInsufficientBalance when available < days.
	Reserve(ctx context.Context, employeeID, leaveTypeID int64, year int, days decimal.Decimal, allowNegative bool) (LeaveBalance, error)

	// Release returns days from pending_approval_days.
	Release(ctx context.Context, employeeID, leaveTypeID int64, year int, days decimal.Decimal) error

	// Commit moves days from pending_approval_days to used_days.
	Commit(ctx context.Context, employeeID, leaveTypeID int64, year int, days decimal.Decimal) error

	// Adjust upserts entitlement fields; nil fields are unchanged.
	Adjust(ctx context.Context, adj BalanceAdjustment) (LeaveBalance, error)
}

type LeaveRequestRepository interface {
	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id int64) (LeaveRequest, error)
	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, int64, error)

	// UpdatePending rewrites an owner's edit while the request is PENDING.
	UpdatePending(ctx context.Context, req LeaveRequest) error

	// ApplyTransition persists a workflow decision with a conditional update
	// on status PENDING and stage t.From. Returns approval.ErrNotPending when
	// no row matched.
	ApplyTransition(ctx context.Context, id int64, t approval.Transition) error

	// Cancel flips a PENDING request to CANCELLED.
	Cancel(ctx context.Context, id int64) error

	// HasOverlap reports a PENDING or APPROVED request of the employee
	// intersecting [start, end], ignoring excludeID.
	HasOverlap(ctx context.Context, employeeID int64, start, end time.Time, excludeID *int64) (bool, error)

	// ListApprovedBetween returns approved requests intersecting [from, to].
	ListApprovedBetween(ctx context.Context, from, to time.Time) ([]LeaveRequest, error)

	HasApprovedLeave(ctx context.Context, employeeID int64, day time.Time) (bool, error)
}
