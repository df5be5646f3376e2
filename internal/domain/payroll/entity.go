package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DayType classifies one calendar day of a payroll month.
type DayType string

const (
	DayPresent        DayType = "PRESENT"
	DayAbsent         DayType = "ABSENT"
	DayAbsentNoRecord DayType = "ABSENT_NO_RECORD"
	DayPaidLeave      DayType = "PAID_LEAVE"
	DayUnpaidLeave    DayType = "UNPAID_LEAVE"
	DayHoliday        DayType = "HOLIDAY"
	DayWeekend        DayType = "WEEKEND"
	DayUpcoming       DayType = "UPCOMING"
)

// DayDetail is stored in meta_json for auditability.
type DayDetail struct {
	Date             string  `json:"date"`
	Type             DayType `json:"type"`
	AttendanceStatus *string `json:"attendance_status,omitempty"`
	LeaveCode        *string `json:"leave_code,omitempty"`
	LeaveName        *string `json:"leave_name,omitempty"`
	HolidayName      *string `json:"holiday_name,omitempty"`
	HalfDay          bool    `json:"half_day,omitempty"`
}

type Meta struct {
	Details []DayDetail `json:"details"`
}

// Item is the computed (preview) or persisted (finalized) pay of one
// employee for one month.
type Item struct {
	ID                    int64
	RunID                 *uuid.UUID
	EmployeeID            int64
	EmployeeCode          string
	EmployeeName          string
	Year                  int
	Month                 int
	MonthlySalary         decimal.Decimal
	GrossSalary           decimal.Decimal
	TotalWorkingDays      int
	UnpaidLeaveDays       decimal.Decimal
	AbsentDays            decimal.Decimal
	TotalUnpaidDays       decimal.Decimal
	DailyRate             decimal.Decimal
	UnpaidDeductionAmount decimal.Decimal
	NetSalary             decimal.Decimal
	Meta                  Meta
	RunDate               *time.Time
}

// Run is a finalized payroll period.
type Run struct {
	ID          uuid.UUID
	Year        int
	Month       int
	Notes       *string
	FinalizedBy int64
	RunDate     time.Time

	// Aggregates
	TotalEmployees int
	TotalNet       decimal.Decimal
}

// SkipReason explains why an employee produced no item.
type SkipReason string

const (
	SkipNoSalary      SkipReason = "NO_MONTHLY_SALARY"
	SkipNoWorkingDays SkipReason = "NO_WORKING_DAYS"
)

type Skipped struct {
	EmployeeID   int64
	EmployeeCode string
	EmployeeName string
	Reason       SkipReason
}
