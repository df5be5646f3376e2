package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/attendance"
)

type Attendance struct {
	mu        sync.Mutex
	rows      map[int64]attendance.AttendanceRecord
	nextID    int64
	employees *Employees
}

// NewAttendance returns an empty store. employees, when set, fills the
// employee code and name joins.
func NewAttendance(employees *Employees) *Attendance {
	return &Attendance{rows: map[int64]attendance.AttendanceRecord{}, employees: employees}
}

// Put stores rec as is, assigning an id when it has none.
func (a *Attendance) Put(rec attendance.AttendanceRecord) attendance.AttendanceRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.put(rec)
}

func (a *Attendance) put(rec attendance.AttendanceRecord) attendance.AttendanceRecord {
	if rec.ID == 0 {
		a.nextID++
		rec.ID = a.nextID
	}
	if rec.ID > a.nextID {
		a.nextID = rec.ID
	}
	if rec.AbsenceReason == "" {
		rec.AbsenceReason = attendance.AbsenceNone
	}
	a.rows[rec.ID] = rec
	return rec
}

// All returns every record ordered by id.
func (a *Attendance) All() []attendance.AttendanceRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sorted(func(attendance.AttendanceRecord) bool { return true })
}

func (a *Attendance) sorted(keep func(attendance.AttendanceRecord) bool) []attendance.AttendanceRecord {
	out := make([]attendance.AttendanceRecord, 0)
	for _, rec := range a.rows {
		if keep(rec) {
			out = append(out, a.join(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (a *Attendance) join(rec attendance.AttendanceRecord) attendance.AttendanceRecord {
	if a.employees == nil {
		return rec
	}
	if emp, err := a.employees.GetByID(context.Background(), rec.EmployeeID); err == nil {
		code, name := emp.EmployeeCode, emp.FullName()
		rec.EmployeeCode, rec.EmployeeName = &code, &name
	}
	return rec
}

func (a *Attendance) find(employeeID int64, date time.Time) (attendance.AttendanceRecord, bool) {
	for _, rec := range a.rows {
		if rec.EmployeeID == employeeID && sameDate(rec.Date, date) {
			return rec, true
		}
	}
	return attendance.AttendanceRecord{}, false
}

func (a *Attendance) Snapshot() func() {
	a.mu.Lock()
	defer a.mu.Unlock()
	saved, next := cloneMap(a.rows), a.nextID
	return func() {
		a.mu.Lock()
		a.rows, a.nextID = saved, next
		a.mu.Unlock()
	}
}

func (a *Attendance) CheckIn(ctx context.Context, record attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if existing, ok := a.find(record.EmployeeID, record.Date); ok {
		if existing.CheckedIn() {
			return attendance.AttendanceRecord{}, attendance.ErrAlreadyCheckedIn
		}
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
	} else {
		record.ID = 0
		record.CreatedAt = time.Now()
	}
	record.UpdatedAt = time.Now()
	return a.put(record), nil
}

func (a *Attendance) CheckOut(ctx context.Context, record attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	existing, ok := a.rows[record.ID]
	if !ok || !existing.CheckedIn() || existing.CheckedOut() {
		return attendance.AttendanceRecord{}, attendance.ErrAlreadyCheckedOut
	}
	existing.ClockOut = record.ClockOut
	existing.TotalHours = record.TotalHours
	existing.CheckOutLatitude = record.CheckOutLatitude
	existing.CheckOutLongitude = record.CheckOutLongitude
	existing.UpdatedAt = time.Now()
	return a.put(existing), nil
}

func (a *Attendance) GetByID(ctx context.Context, id int64) (attendance.AttendanceRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	rec, ok := a.rows[id]
	if !ok {
		return attendance.AttendanceRecord{}, attendance.ErrAttendanceNotFound
	}
	return a.join(rec), nil
}

func (a *Attendance) GetByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) (attendance.AttendanceRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	rec, ok := a.find(employeeID, date)
	if !ok {
		return attendance.AttendanceRecord{}, attendance.ErrAttendanceNotFound
	}
	return rec, nil
}

func (a *Attendance) CountLate(ctx context.Context, employeeID int64, from, to time.Time, excludeID *int64) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, rec := range a.rows {
		if rec.EmployeeID != employeeID || !rec.IsLate || !within(rec.Date, from, to) {
			continue
		}
		if excludeID != nil && rec.ID == *excludeID {
			continue
		}
		n++
	}
	return n, nil
}

func (a *Attendance) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceRecord, int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := a.sorted(func(rec attendance.AttendanceRecord) bool {
		if filter.EmployeeID != nil && rec.EmployeeID != *filter.EmployeeID {
			return false
		}
		day := rec.Date.Format("2006-01-02")
		if filter.DateFrom != nil && day < *filter.DateFrom {
			return false
		}
		if filter.DateTo != nil && day > *filter.DateTo {
			return false
		}
		return true
	})
	if filter.EmployeeName != nil {
		kept := out[:0]
		for _, rec := range out {
			if rec.EmployeeName != nil && strings.Contains(strings.ToLower(*rec.EmployeeName), strings.ToLower(*filter.EmployeeName)) {
				kept = append(kept, rec)
			}
		}
		out = kept
	}
	return paginate(out, filter.Page, filter.PageSize), int64(len(out)), nil
}

func (a *Attendance) ListBetween(ctx context.Context, from, to time.Time) ([]attendance.AttendanceRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sorted(func(rec attendance.AttendanceRecord) bool { return within(rec.Date, from, to) }), nil
}

func (a *Attendance) UpdateEvaluation(ctx context.Context, record attendance.AttendanceRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	existing, ok := a.rows[record.ID]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	existing.ClockIn = record.ClockIn
	existing.ClockOut = record.ClockOut
	existing.Status = record.Status
	existing.AbsenceReason = record.AbsenceReason
	existing.IsLate = record.IsLate
	existing.LateMinutes = record.LateMinutes
	existing.TotalHours = record.TotalHours
	existing.UpdatedAt = time.Now()
	a.put(existing)
	return nil
}

func (a *Attendance) InsertAbsent(ctx context.Context, employeeID int64, date time.Time, reason attendance.AbsenceReason) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.find(employeeID, date); ok {
		return false, nil
	}
	a.put(attendance.AttendanceRecord{
		EmployeeID:    employeeID,
		Date:          date,
		Status:        attendance.StatusAbsent,
		AbsenceReason: reason,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	})
	return true, nil
}
