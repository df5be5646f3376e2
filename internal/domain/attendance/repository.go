package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// CheckIn upserts the day's record, setting the clock-in only when none
	// exists yet. Returns ErrAlreadyCheckedIn otherwise.
	CheckIn(ctx context.Context, record AttendanceRecord) (AttendanceRecord, error)

	// CheckOut stamps the clock-out only when none exists yet. Returns
	// ErrAlreadyCheckedOut otherwise.
	CheckOut(ctx context.Context, record AttendanceRecord) (AttendanceRecord, error)

	GetByID(ctx context.Context, id int64) (AttendanceRecord, error)

	// GetByEmployeeAndDate returns ErrAttendanceNotFound if no row exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) (AttendanceRecord, error)

	// CountLate counts late records of an employee in [from, to], excluding
	// excludeID when set.
	CountLate(ctx context.Context, employeeID int64, from, to time.Time, excludeID *int64) (int, error)

	List(ctx context.Context, filter AttendanceFilter) ([]AttendanceRecord, int64, error)

	// ListBetween returns every record in [from, to] for payroll.
	ListBetween(ctx context.Context, from, to time.Time) ([]AttendanceRecord, error)

	// UpdateEvaluation overwrites clock times and derived fields.
	UpdateEvaluation(ctx context.Context, record AttendanceRecord) error

	// InsertAbsent creates an ABSENT row unless one already exists for the
	// date. Reports whether a row was inserted.
	InsertAbsent(ctx context.Context, employeeID int64, date time.Time, reason AbsenceReason) (bool, error)
}

// RemoteWorkLookup reports approved work-from-home coverage for a day.
type RemoteWorkLookup interface {
	HasApprovedWFH(ctx context.Context, employeeID int64, day time.Time) (bool, error)
}

// LeaveLookup reports approved leave coverage for a day.
type LeaveLookup interface {
	HasApprovedLeave(ctx context.Context, employeeID int64, day time.Time) (bool, error)
}
