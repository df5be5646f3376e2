package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

// LeaveType entity
type LeaveType struct {
	ID                int64
	Code              string
	Name              string
	GenderRestriction *employee.Gender
	IsPaid            bool
	TracksBalance     bool
	MaxDaysPerRequest *decimal.Decimal
	CreatedAt         time.Time
}

// AppliesTo reports whether an employee of gender g may take this type.
func (t LeaveType) AppliesTo(g employee.Gender) bool {
	return t.GenderRestriction == nil || *t.GenderRestriction == g
}

// LeaveBalance is one ledger row per (employee, leave type, year).
type LeaveBalance struct {
	ID                  int64
	EmployeeID          int64
	LeaveTypeID         int64
	Year                int
	OpeningBalanceDays  decimal.Decimal
	CarryForwardDays    decimal.Decimal
	AccruedDays         decimal.Decimal
	UsedDays            decimal.Decimal
	PendingApprovalDays decimal.Decimal
	UpdatedAt           time.Time

	// Join
	LeaveType *LeaveType
}

func (b LeaveBalance) Entitlement() decimal.Decimal {
	return b.OpeningBalanceDays.Add(b.CarryForwardDays).Add(b.AccruedDays)
}

// Available is the only formula for remaining balance: entitlement minus
// used and pending days.
func (b LeaveBalance) Available() decimal.Decimal {
	return b.Entitlement().Sub(b.UsedDays).Sub(b.PendingApprovalDays)
}

type HalfDaySession string

const (
	FirstHalf  HalfDaySession = "FIRST_HALF"
	SecondHalf HalfDaySession = "SECOND_HALF"
)

type LeaveRequest struct {
	ID                        int64
	EmployeeID                int64
	LeaveTypeID               int64
	StartDate                 time.Time
	EndDate                   time.Time
	IsHalfDay                 bool
	HalfDaySession            *HalfDaySession
	TotalDays                 decimal.Decimal
	Reason                    string
	ContactDetailsDuringLeave *string
	Status                    approval.Status
	Stage                     approval.Stage
	ManagerApproverID         *int64
	ManagerComment            *string
	ManagerActedAt            *time.Time
	HRApproverID              *int64
	HRComment                 *string
	HRActedAt                 *time.Time
	CreatedAt                 time.Time
	UpdatedAt                 time.Time

	// Join
	EmployeeName *string
	EmployeeCode *string
	ManagerID    *int64
	LeaveType    *LeaveType
}

// Year is the ledger year a request reserves against.
func (r LeaveRequest) Year() int {
	return r.StartDate.Year()
}

// Covers reports whether day falls inside the request's inclusive range.
func (r LeaveRequest) Covers(day time.Time) bool {
	d := day.Format("2006-01-02")
	return d >= r.StartDate.Format("2006-01-02") && d <= r.EndDate.Format("2006-01-02")
}

func (r LeaveRequest) Subject() approval.Subject {
	return approval.Subject{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		ManagerID:  r.ManagerID,
		Status:     r.Status,
		Stage:      r.Stage,
	}
}

var half = decimal.NewFromFloat(0.5)

// TotalDays counts inclusive calendar days, or 0.5 for a half day.
func TotalDays(start, end time.Time, isHalfDay bool) decimal.Decimal {
	if isHalfDay {
		return half
	}
	days := int64(end.Sub(start).Hours()/24) + 1
	if days < 0 {
		days = 0
	}
	return decimal.NewFromInt(days)
}
