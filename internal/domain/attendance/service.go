package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)

	// Today returns the caller's record for today in their location timezone
	Today(ctx context.Context, actor user.Actor, employeeID int64) (*AttendanceResponse, error)

	ListAttendance(ctx context.Context, actor user.Actor, filter AttendanceFilter) (ListAttendanceResponse, error)
	GetAttendance(ctx context.Context, actor user.Actor, id int64) (AttendanceResponse, error)

	// MarkAbsent inserts NO_CHECK_IN absences for a working date
	MarkAbsent(ctx context.Context, date time.Time) (MarkAbsentResult, error)
}

// Corrector is the narrow surface the approval workflow uses to apply an
// approved regularization. It must run inside the caller's transaction.
type Corrector interface {
	ApplyRegularization(ctx context.Context, recordID int64, clockIn, clockOut *time.Time) (AttendanceRecord, error)
}
