package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

type LeaveTypes struct {
	rows map[int64]leave.LeaveType
}

func NewLeaveTypes(types ...leave.LeaveType) *LeaveTypes {
	lt := &LeaveTypes{rows: map[int64]leave.LeaveType{}}
	for _, t := range types {
		lt.rows[t.ID] = t
	}
	return lt
}

// StandardLeaveTypes mirrors the seeded catalogue.
func StandardLeaveTypes() *LeaveTypes {
	female, male := employee.Female, employee.Male
	wfhCap := decimal.NewFromInt(3)
	return NewLeaveTypes(
		leave.LeaveType{ID: 1, Code: "AL", Name: "Annual Leave", IsPaid: true, TracksBalance: true},
		leave.LeaveType{ID: 2, Code: "SL", Name: "Sick Leave", IsPaid: true, TracksBalance: true},
		leave.LeaveType{ID: 3, Code: "WFH", Name: "Work From Home", IsPaid: true, MaxDaysPerRequest: &wfhCap},
		leave.LeaveType{ID: 4, Code: "ML", Name: "Maternity Leave", GenderRestriction: &female, IsPaid: true, TracksBalance: true},
		leave.LeaveType{ID: 5, Code: "PL", Name: "Paternity Leave", GenderRestriction: &male, IsPaid: true, TracksBalance: true},
		leave.LeaveType{ID: 6, Code: "UL", Name: "Unpaid Leave"},
	)
}

func (l *LeaveTypes) GetByID(ctx context.Context, id int64) (leave.LeaveType, error) {
	t, ok := l.rows[id]
	if !ok {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return t, nil
}

func (l *LeaveTypes) GetByCode(ctx context.Context, code string) (leave.LeaveType, error) {
	for _, t := range l.rows {
		if strings.EqualFold(t.Code, code) {
			return t, nil
		}
	}
	return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
}

func (l *LeaveTypes) List(ctx context.Context) ([]leave.LeaveType, error) {
	out := make([]leave.LeaveType, 0, len(l.rows))
	for _, t := range l.rows {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type balanceKey struct {
	employeeID  int64
	leaveTypeID int64
	year        int
}

type Balances struct {
	mu     sync.Mutex
	rows   map[balanceKey]leave.LeaveBalance
	types  *LeaveTypes
	nextID int64
}

func NewBalances(types *LeaveTypes) *Balances {
	return &Balances{rows: map[balanceKey]leave.LeaveBalance{}, types: types}
}

// Seed opens a ledger row with an opening balance.
func (b *Balances) Seed(employeeID, leaveTypeID int64, year int, opening decimal.Decimal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	row := b.row(balanceKey{employeeID, leaveTypeID, year})
	row.OpeningBalanceDays = opening
	b.rows[balanceKey{employeeID, leaveTypeID, year}] = row
}

func (b *Balances) row(k balanceKey) leave.LeaveBalance {
	row, ok := b.rows[k]
	if !ok {
		b.nextID++
		row = leave.LeaveBalance{
			ID:          b.nextID,
			EmployeeID:  k.employeeID,
			LeaveTypeID: k.leaveTypeID,
			Year:        k.year,
		}
	}
	return row
}

func (b *Balances) Snapshot() func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	saved := cloneMap(b.rows)
	return func() {
		b.mu.Lock()
		b.rows = saved
		b.mu.Unlock()
	}
}

func (b *Balances) Get(ctx context.Context, employeeID, leaveTypeID int64, year int) (leave.LeaveBalance, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	row, ok := b.rows[balanceKey{employeeID, leaveTypeID, year}]
	if !ok {
		return leave.LeaveBalance{}, leave.ErrBalanceNotFound
	}
	return row, nil
}

func (b *Balances) ListByEmployee(ctx context.Context, employeeID int64, year int) ([]leave.LeaveBalance, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]leave.LeaveBalance, 0)
	for k, row := range b.rows {
		if k.employeeID != employeeID || k.year != year {
			continue
		}
		if b.types != nil {
			if t, err := b.types.GetByID(ctx, k.leaveTypeID); err == nil {
				row.LeaveType = &t
			}
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LeaveTypeID < out[j].LeaveTypeID })
	return out, nil
}

func (b *Balances) Reserve(ctx context.Context, employeeID, leaveTypeID int64, year int, days decimal.Decimal, allowNegative bool) (leave.LeaveBalance, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	k := balanceKey{employeeID, leaveTypeID, year}
	row := b.row(k)
	if !allowNegative && row.Available().LessThan(days) {
		return leave.LeaveBalance{}, leave.ErrInsufficientBalance
	}
	row.PendingApprovalDays = row.PendingApprovalDays.Add(days)
	row.UpdatedAt = time.Now()
	b.rows[k] = row
	return row, nil
}

func (b *Balances) Release(ctx context.Context, employeeID, leaveTypeID int64, year int, days decimal.Decimal) error {
	return b.move(employeeID, leaveTypeID, year, days, false)
}

func (b *Balances) Commit(ctx context.Context, employeeID, leaveTypeID int64, year int, days decimal.Decimal) error {
	return b.move(employeeID, leaveTypeID, year, days, true)
}

func (b *Balances) move(employeeID, leaveTypeID int64, year int, days decimal.Decimal, toUsed bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	k := balanceKey{employeeID, leaveTypeID, year}
	row, ok := b.rows[k]
	if !ok {
		return leave.ErrBalanceNotFound
	}
	row.PendingApprovalDays = decimal.Max(row.PendingApprovalDays.Sub(days), decimal.Zero)
	if toUsed {
		row.UsedDays = row.UsedDays.Add(days)
	}
	b.rows[k] = row
	return nil
}

func (b *Balances) Adjust(ctx context.Context, adj leave.BalanceAdjustment) (leave.LeaveBalance, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	k := balanceKey{adj.EmployeeID, adj.LeaveTypeID, adj.Year}
	row := b.row(k)
	if adj.OpeningBalanceDays != nil {
		row.OpeningBalanceDays = *adj.OpeningBalanceDays
	}
	if adj.CarryForwardDays != nil {
		row.CarryForwardDays = *adj.CarryForwardDays
	}
	if adj.AccruedDays != nil {
		row.AccruedDays = *adj.AccruedDays
	}
	b.rows[k] = row
	return row, nil
}

type LeaveRequests struct {
	mu        sync.Mutex
	rows      map[int64]leave.LeaveRequest
	nextID    int64
	employees *Employees
	types     *LeaveTypes
}

func NewLeaveRequests(employees *Employees, types *LeaveTypes) *LeaveRequests {
	return &LeaveRequests{rows: map[int64]leave.LeaveRequest{}, employees: employees, types: types}
}

// Put stores req as is, assigning an id when it has none.
func (l *LeaveRequests) Put(req leave.LeaveRequest) leave.LeaveRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	if req.ID == 0 {
		l.nextID++
		req.ID = l.nextID
	}
	l.rows[req.ID] = req
	return l.join(req)
}

func (l *LeaveRequests) join(req leave.LeaveRequest) leave.LeaveRequest {
	if l.employees != nil {
		if emp, err := l.employees.GetByID(context.Background(), req.EmployeeID); err == nil {
			name, code := emp.FullName(), emp.EmployeeCode
			req.EmployeeName, req.EmployeeCode, req.ManagerID = &name, &code, emp.ManagerID
		}
	}
	if l.types != nil {
		if t, err := l.types.GetByID(context.Background(), req.LeaveTypeID); err == nil {
			req.LeaveType = &t
		}
	}
	return req
}

func (l *LeaveRequests) Snapshot() func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	saved, next := cloneMap(l.rows), l.nextID
	return func() {
		l.mu.Lock()
		l.rows, l.nextID = saved, next
		l.mu.Unlock()
	}
}

func (l *LeaveRequests) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	req.ID = 0
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	return l.Put(req), nil
}

func (l *LeaveRequests) GetByID(ctx context.Context, id int64) (leave.LeaveRequest, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	req, ok := l.rows[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return l.join(req), nil
}

func (l *LeaveRequests) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]leave.LeaveRequest, 0)
	for _, req := range l.rows {
		req = l.join(req)
		if filter.EmployeeID != nil && req.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.View == leave.ViewManager && filter.ApproverID != nil && (req.ManagerID == nil || *req.ManagerID != *filter.ApproverID) {
			continue
		}
		if filter.Status != nil && req.Status != *filter.Status {
			continue
		}
		if filter.Stage != nil && req.Stage != *filter.Stage {
			continue
		}
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return paginate(out, filter.Page, filter.PageSize), int64(len(out)), nil
}

func (l *LeaveRequests) UpdatePending(ctx context.Context, req leave.LeaveRequest) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	existing, ok := l.rows[req.ID]
	if !ok || existing.Status != approval.StatusPending {
		return approval.ErrNotPending
	}
	existing.LeaveTypeID = req.LeaveTypeID
	existing.StartDate, existing.EndDate = req.StartDate, req.EndDate
	existing.IsHalfDay, existing.HalfDaySession = req.IsHalfDay, req.HalfDaySession
	existing.TotalDays = req.TotalDays
	existing.Reason = req.Reason
	existing.ContactDetailsDuringLeave = req.ContactDetailsDuringLeave
	existing.Stage = req.Stage
	existing.ManagerApproverID, existing.ManagerComment, existing.ManagerActedAt = nil, nil, nil
	existing.UpdatedAt = time.Now()
	l.rows[req.ID] = existing
	return nil
}

func (l *LeaveRequests) ApplyTransition(ctx context.Context, id int64, t approval.Transition) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	req, ok := l.rows[id]
	if !ok || req.Status != approval.StatusPending || req.Stage != t.From {
		return approval.ErrNotPending
	}
	req.Status, req.Stage = t.Status, t.To
	approverID, actedAt := t.ApproverID, t.ActedAt
	if t.Slot == approval.SlotManager {
		req.ManagerApproverID, req.ManagerComment, req.ManagerActedAt = &approverID, t.Comment, &actedAt
	} else {
		req.HRApproverID, req.HRComment, req.HRActedAt = &approverID, t.Comment, &actedAt
	}
	l.rows[id] = req
	return nil
}

func (l *LeaveRequests) Cancel(ctx context.Context, id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	req, ok := l.rows[id]
	if !ok || req.Status != approval.StatusPending {
		return approval.ErrNotPending
	}
	req.Status = approval.StatusCancelled
	l.rows[id] = req
	return nil
}

func (l *LeaveRequests) HasOverlap(ctx context.Context, employeeID int64, start, end time.Time, excludeID *int64) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, req := range l.rows {
		if req.EmployeeID != employeeID || (excludeID != nil && req.ID == *excludeID) {
			continue
		}
		if req.Status != approval.StatusPending && req.Status != approval.StatusApproved {
			continue
		}
		if within(req.StartDate, start, end) || within(start, req.StartDate, req.EndDate) {
			return true, nil
		}
	}
	return false, nil
}

func (l *LeaveRequests) ListApprovedBetween(ctx context.Context, from, to time.Time) ([]leave.LeaveRequest, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]leave.LeaveRequest, 0)
	for _, req := range l.rows {
		if req.Status != approval.StatusApproved {
			continue
		}
		if within(req.StartDate, from, to) || within(from, req.StartDate, req.EndDate) {
			out = append(out, l.join(req))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (l *LeaveRequests) HasApprovedLeave(ctx context.Context, employeeID int64, day time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, req := range l.rows {
		if req.EmployeeID == employeeID && req.Status == approval.StatusApproved && req.Covers(day) {
			return true, nil
		}
	}
	return false, nil
}
