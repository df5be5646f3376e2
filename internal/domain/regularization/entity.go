package regularization

import (
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/approval"
)

// Regularization is an attendance correction request.
type Regularization struct {
	ID                 int64
	EmployeeID         int64
	AttendanceRecordID int64
	AttendanceDate     time.Time
	OriginalClockIn    *time.Time
	OriginalClockOut   *time.Time
	RequestedClockIn   *time.Time
	RequestedClockOut  *time.Time
	Reason             string
	Status             approval.Status
	Stage              approval.Stage
	ManagerApproverID  *int64
	ManagerComment     *string
	ManagerActedAt     *time.Time
	HRApproverID       *int64
	HRComment          *string
	HRActedAt          *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// Join
	EmployeeName *string
	EmployeeCode *string
	ManagerID    *int64
}

func (r Regularization) Subject() approval.Subject {
	return approval.Subject{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		ManagerID:  r.ManagerID,
		Status:     r.Status,
		Stage:      r.Stage,
	}
}

// ChangesRecord reports whether at least one requested time differs from
// the snapshot of the record.
func (r Regularization) ChangesRecord() bool {
	return differs(r.RequestedClockIn, r.OriginalClockIn) || differs(r.RequestedClockOut, r.OriginalClockOut)
}

func differs(requested, original *time.Time) bool {
	if requested == nil {
		return false
	}
	return original == nil || !requested.Equal(*original)
}
