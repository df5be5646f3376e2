package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusAbsent  Status = "ABSENT"
)

// AbsenceReason separates punitive absence from a missing check-in.
type AbsenceReason string

const (
	AbsenceNone           AbsenceReason = "NONE"
	AbsenceNoCheckIn      AbsenceReason = "NO_CHECK_IN"
	AbsenceLateEscalation AbsenceReason = "LATE_ESCALATION"
)

type WorkLocation string

const (
	WorkLocationOnSite WorkLocation = "ON_SITE"
	WorkLocationRemote WorkLocation = "REMOTE"
)

type AttendanceRecord struct {
	ID                int64
	EmployeeID        int64
	Date              time.Time
	ClockIn           *time.Time
	ClockOut          *time.Time
	Status            Status
	AbsenceReason     AbsenceReason
	IsLate            bool
	LateMinutes       int
	WorkLocation      *WorkLocation
	TotalHours        *float64
	CheckInLatitude   *float64
	CheckInLongitude  *float64
	CheckOutLatitude  *float64
	CheckOutLongitude *float64
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Join
	EmployeeCode *string
	EmployeeName *string
}

func (r AttendanceRecord) CheckedIn() bool {
	return r.ClockIn != nil
}

func (r AttendanceRecord) CheckedOut() bool {
	return r.ClockOut != nil
}
