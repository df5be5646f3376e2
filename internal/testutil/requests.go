package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/regularization"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/wfh"
)

type Regularizations struct {
	mu        sync.Mutex
	rows      map[int64]regularization.Regularization
	nextID    int64
	employees *Employees
}

func NewRegularizations(employees *Employees) *Regularizations {
	return &Regularizations{rows: map[int64]regularization.Regularization{}, employees: employees}
}

func (r *Regularizations) join(reg regularization.Regularization) regularization.Regularization {
	if r.employees == nil {
		return reg
	}
	if emp, err := r.employees.GetByID(context.Background(), reg.EmployeeID); err == nil {
		name, code := emp.FullName(), emp.EmployeeCode
		reg.EmployeeName, reg.EmployeeCode, reg.ManagerID = &name, &code, emp.ManagerID
	}
	return reg
}

func (r *Regularizations) Snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved, next := cloneMap(r.rows), r.nextID
	return func() {
		r.mu.Lock()
		r.rows, r.nextID = saved, next
		r.mu.Unlock()
	}
}

func (r *Regularizations) Create(ctx context.Context, reg regularization.Regularization) (regularization.Regularization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.AttendanceRecordID == reg.AttendanceRecordID && existing.Status == approval.StatusPending {
			return regularization.Regularization{}, regularization.ErrPendingExists
		}
	}
	r.nextID++
	reg.ID = r.nextID
	reg.CreatedAt = time.Now()
	reg.UpdatedAt = reg.CreatedAt
	r.rows[reg.ID] = reg
	return r.join(reg), nil
}

func (r *Regularizations) GetByID(ctx context.Context, id int64) (regularization.Regularization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.rows[id]
	if !ok {
		return regularization.Regularization{}, regularization.ErrRegularizationNotFound
	}
	return r.join(reg), nil
}

func (r *Regularizations) List(ctx context.Context, filter regularization.RegularizationFilter) ([]regularization.Regularization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]regularization.Regularization, 0)
	for _, reg := range r.rows {
		reg = r.join(reg)
		if filter.EmployeeID != nil && reg.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.ManagerID != nil && (reg.ManagerID == nil || *reg.ManagerID != *filter.ManagerID) {
			continue
		}
		if filter.Status != nil && reg.Status != *filter.Status {
			continue
		}
		if filter.Stage != nil && reg.Stage != *filter.Stage {
			continue
		}
		out = append(out, reg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *Regularizations) ApplyTransition(ctx context.Context, id int64, t approval.Transition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.rows[id]
	if !ok || reg.Status != approval.StatusPending || reg.Stage != t.From {
		return approval.ErrNotPending
	}
	reg.Status, reg.Stage = t.Status, t.To
	approverID, actedAt := t.ApproverID, t.ActedAt
	if t.Slot == approval.SlotManager {
		reg.ManagerApproverID, reg.ManagerComment, reg.ManagerActedAt = &approverID, t.Comment, &actedAt
	} else {
		reg.HRApproverID, reg.HRComment, reg.HRActedAt = &approverID, t.Comment, &actedAt
	}
	r.rows[id] = reg
	return nil
}

type WFH struct {
	mu        sync.Mutex
	rows      map[int64]wfh.WFHRequest
	nextID    int64
	employees *Employees
}

func NewWFH(employees *Employees) *WFH {
	return &WFH{rows: map[int64]wfh.WFHRequest{}, employees: employees}
}

// Put stores req as is, assigning an id when it has none.
func (w *WFH) Put(req wfh.WFHRequest) wfh.WFHRequest {
	w.mu.Lock()
	defer w.mu.Unlock()
	if req.ID == 0 {
		w.nextID++
		req.ID = w.nextID
	}
	w.rows[req.ID] = req
	return req
}

func (w *WFH) join(req wfh.WFHRequest) wfh.WFHRequest {
	if w.employees == nil {
		return req
	}
	if emp, err := w.employees.GetByID(context.Background(), req.EmployeeID); err == nil {
		name, code := emp.FullName(), emp.EmployeeCode
		req.EmployeeName, req.EmployeeCode = &name, &code
	}
	return req
}

func (w *WFH) Snapshot() func() {
	w.mu.Lock()
	defer w.mu.Unlock()
	saved, next := cloneMap(w.rows), w.nextID
	return func() {
		w.mu.Lock()
		w.rows, w.nextID = saved, next
		w.mu.Unlock()
	}
}

func (w *WFH) Create(ctx context.Context, req wfh.WFHRequest) (wfh.WFHRequest, error) {
	req.ID = 0
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	return w.join(w.Put(req)), nil
}

func (w *WFH) GetByID(ctx context.Context, id int64) (wfh.WFHRequest, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	req, ok := w.rows[id]
	if !ok {
		return wfh.WFHRequest{}, wfh.ErrWFHRequestNotFound
	}
	return w.join(req), nil
}

func (w *WFH) List(ctx context.Context, filter wfh.WFHFilter) ([]wfh.WFHRequest, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]wfh.WFHRequest, 0)
	for _, req := range w.rows {
		if filter.EmployeeID != nil && req.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && req.Status != *filter.Status {
			continue
		}
		out = append(out, w.join(req))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (w *WFH) ApplyTransition(ctx context.Context, id int64, t approval.Transition) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	req, ok := w.rows[id]
	if !ok || req.Status != approval.StatusPending || req.Stage != t.From {
		return approval.ErrNotPending
	}
	approverID, actedAt := t.ApproverID, t.ActedAt
	req.Status, req.Stage = t.Status, t.To
	req.ApprovedBy, req.AdminComment, req.ActedAt = &approverID, t.Comment, &actedAt
	w.rows[id] = req
	return nil
}

func (w *WFH) HasOverlap(ctx context.Context, employeeID int64, start, end time.Time) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, req := range w.rows {
		if req.EmployeeID != employeeID {
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

func (w *WFH) HasApprovedWFH(ctx context.Context, employeeID int64, day time.Time) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, req := range w.rows {
		if req.EmployeeID == employeeID && req.Status == approval.StatusApproved && within(day, req.StartDate, req.EndDate) {
			return true, nil
		}
	}
	return false, nil
}
