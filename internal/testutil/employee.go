package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/master/location"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
)

type Employees struct {
	mu     sync.Mutex
	rows   map[int64]employee.Employee
	nextID int64
}

func NewEmployees(emps ...employee.Employee) *Employees {
	e := &Employees{rows: map[int64]employee.Employee{}}
	for _, emp := range emps {
		e.Put(emp)
	}
	return e
}

// Put stores emp as is, assigning an id when it has none.
func (e *Employees) Put(emp employee.Employee) employee.Employee {
	e.mu.Lock()
	defer e.mu.Unlock()
	if emp.ID == 0 {
		e.nextID++
		emp.ID = e.nextID
	}
	if emp.ID > e.nextID {
		e.nextID = emp.ID
	}
	if emp.EmploymentStatus == "" {
		emp.EmploymentStatus = employee.EmploymentStatusActive
	}
	if emp.Role == "" {
		emp.Role = user.RoleEmployee
	}
	if emp.ShiftStart == "" {
		emp.ShiftStart = "09:00"
	}
	if emp.ShiftEnd == "" {
		emp.ShiftEnd = "18:00"
	}
	e.rows[emp.ID] = emp
	return emp
}

func (e *Employees) Snapshot() func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	saved := cloneMap(e.rows)
	return func() {
		e.mu.Lock()
		e.rows = saved
		e.mu.Unlock()
	}
}

func (e *Employees) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	emp, ok := e.rows[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (e *Employees) GetActive(ctx context.Context) ([]employee.Employee, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]employee.Employee, 0)
	for _, emp := range e.rows {
		if emp.IsActive() {
			out = append(out, emp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (e *Employees) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	search := strings.ToLower(filter.Search)
	out := make([]employee.Employee, 0)
	for _, emp := range e.rows {
		if search != "" && !strings.Contains(strings.ToLower(emp.FirstName+" "+emp.LastName+" "+emp.EmployeeCode+" "+emp.Email), search) {
			continue
		}
		if filter.EmploymentStatus != nil && emp.EmploymentStatus != *filter.EmploymentStatus {
			continue
		}
		if filter.ManagerID != nil && (emp.ManagerID == nil || *emp.ManagerID != *filter.ManagerID) {
			continue
		}
		out = append(out, emp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, filter.Page, filter.PageSize), int64(len(out)), nil
}

func (e *Employees) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	newEmployee.ID = 0
	newEmployee.CreatedAt = time.Now()
	newEmployee.UpdatedAt = newEmployee.CreatedAt
	return e.Put(newEmployee), nil
}

func (e *Employees) Update(ctx context.Context, id int64, req employee.UpdateEmployeeRequest) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	emp, ok := e.rows[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	if req.FirstName != nil {
		emp.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		emp.LastName = *req.LastName
	}
	if req.Email != nil {
		emp.Email = *req.Email
	}
	if req.Gender != nil {
		emp.Gender = employee.Gender(*req.Gender)
	}
	if req.Role != nil {
		emp.Role = user.Role(*req.Role)
	}
	if req.ManagerID != nil {
		emp.ManagerID = req.ManagerID
	}
	if req.EmploymentStatus != nil {
		emp.EmploymentStatus = employee.EmploymentStatus(*req.EmploymentStatus)
	}
	if req.LocationID != nil {
		emp.LocationID = req.LocationID
	}
	if req.ShiftStart != nil {
		emp.ShiftStart = *req.ShiftStart
	}
	if req.ShiftEnd != nil {
		emp.ShiftEnd = *req.ShiftEnd
	}
	if req.MonthlySalary != nil {
		emp.MonthlySalary = req.MonthlySalary
	}
	if req.Allowances != nil {
		emp.Allowances = *req.Allowances
	}
	emp.UpdatedAt = time.Now()
	e.rows[id] = emp
	return nil
}

func (e *Employees) ExistsByCodeOrEmail(ctx context.Context, employeeCode, email string, excludeID *int64) (bool, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var codeTaken, emailTaken bool
	for id, emp := range e.rows {
		if excludeID != nil && id == *excludeID {
			continue
		}
		if employeeCode != "" && emp.EmployeeCode == employeeCode {
			codeTaken = true
		}
		if email != "" && strings.EqualFold(emp.Email, email) {
			emailTaken = true
		}
	}
	return codeTaken, emailTaken, nil
}

type Locations struct {
	mu     sync.Mutex
	rows   map[int64]employee.Location
	nextID int64
}

func NewLocations(locs ...employee.Location) *Locations {
	l := &Locations{rows: map[int64]employee.Location{}}
	for _, loc := range locs {
		l.rows[loc.ID] = loc
		if loc.ID > l.nextID {
			l.nextID = loc.ID
		}
	}
	return l
}

func (l *Locations) GetByID(ctx context.Context, id int64) (employee.Location, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	loc, ok := l.rows[id]
	if !ok {
		return employee.Location{}, location.ErrLocationNotFound
	}
	return loc, nil
}

func (l *Locations) List(ctx context.Context) ([]employee.Location, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]employee.Location, 0, len(l.rows))
	for _, loc := range l.rows {
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (l *Locations) Create(ctx context.Context, loc employee.Location) (employee.Location, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.nameTaken(loc.Name, 0) {
		return employee.Location{}, location.ErrLocationNameExists
	}
	l.nextID++
	loc.ID = l.nextID
	l.rows[loc.ID] = loc
	return loc, nil
}

func (l *Locations) Update(ctx context.Context, loc employee.Location) (employee.Location, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.rows[loc.ID]; !ok {
		return employee.Location{}, location.ErrLocationNotFound
	}
	if l.nameTaken(loc.Name, loc.ID) {
		return employee.Location{}, location.ErrLocationNameExists
	}
	l.rows[loc.ID] = loc
	return loc, nil
}

func (l *Locations) nameTaken(name string, except int64) bool {
	for id, loc := range l.rows {
		if id != except && loc.Name == name {
			return true
		}
	}
	return false
}
