package payroll

import (
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/utils"
	"github.com/shopspring/decimal"
)

var halfDay = decimal.NewFromFloat(0.5)

// MonthInput is everything the calculator needs for one employee.
type MonthInput struct {
	Employee employee.Employee
	// Attendance keyed by "2006-01-02"
	Attendance map[string]attendance.AttendanceRecord
	// Leaves are the employee's approved requests intersecting the month,
	// with LeaveType joined.
	Leaves []leave.LeaveRequest
	// Holidays keyed by "2006-01-02" for the employee's country
	Holidays map[string]string
	// Today is the current date in the employee's zone. Working days after
	// it are UPCOMING.
	Today time.Time
}

// Calculate classifies every day of the month and derives pay. It returns
// a Skipped entry instead of an item when the employee cannot be paid.
func Calculate(year int, month time.Month, in MonthInput) (Item, *Skipped) {
	emp := in.Employee
	if !emp.HasSalary() {
		return Item{}, skip(emp, SkipNoSalary)
	}

	first, last := utils.MonthBounds(year, month)
	today := utils.DateOf(in.Today)

	item := Item{
		EmployeeID:      emp.ID,
		EmployeeCode:    emp.EmployeeCode,
		EmployeeName:    emp.FullName(),
		Year:            year,
		Month:           int(month),
		MonthlySalary:   *emp.MonthlySalary,
		GrossSalary:     *emp.MonthlySalary,
		UnpaidLeaveDays: decimal.Zero,
		AbsentDays:      decimal.Zero,
	}
	details := make([]DayDetail, 0, last.Day())

	utils.EachDay(first, last, func(d time.Time) {
		key := d.Format(utils.DateLayout)
		detail := DayDetail{Date: key}

		if utils.IsWeekend(d) {
			detail.Type = DayWeekend
			details = append(details, detail)
			return
		}
		if name, ok := in.Holidays[key]; ok {
			n := name
			detail.Type = DayHoliday
			detail.HolidayName = &n
			details = append(details, detail)
			return
		}

		item.TotalWorkingDays++
		rec, hasRecord := in.Attendance[key]
		if hasRecord {
			status := string(rec.Status)
			detail.AttendanceStatus = &status
		}

		lr, onLeave := leaveOn(in.Leaves, d)
		if onLeave {
			detail.HalfDay = lr.IsHalfDay
			if lr.LeaveType != nil {
				code, name := lr.LeaveType.Code, lr.LeaveType.Name
				detail.LeaveCode = &code
				detail.LeaveName = &name
			}
		}
		// future days carry their leave labels but are never deducted
		if d.After(today) {
			detail.Type = DayUpcoming
			details = append(details, detail)
			return
		}

		if onLeave {
			if lr.LeaveType != nil && !lr.LeaveType.IsPaid {
				detail.Type = DayUnpaidLeave
				if lr.IsHalfDay {
					item.UnpaidLeaveDays = item.UnpaidLeaveDays.Add(halfDay)
				} else {
					item.UnpaidLeaveDays = item.UnpaidLeaveDays.Add(decimal.NewFromInt(1))
				}
			} else {
				detail.Type = DayPaidLeave
			}
			details = append(details, detail)
			return
		}

		switch {
		case d.Equal(today) && !hasRecord:
			detail.Type = DayUpcoming
		case !hasRecord:
			detail.Type = DayAbsentNoRecord
			item.AbsentDays = item.AbsentDays.Add(decimal.NewFromInt(1))
		case rec.Status == attendance.StatusAbsent:
			detail.Type = DayAbsent
			item.AbsentDays = item.AbsentDays.Add(decimal.NewFromInt(1))
		default:
			detail.Type = DayPresent
		}
		details = append(details, detail)
	})

	if item.TotalWorkingDays == 0 {
		return Item{}, skip(emp, SkipNoWorkingDays)
	}

	item.TotalUnpaidDays = item.UnpaidLeaveDays.Add(item.AbsentDays)
	item.DailyRate, item.UnpaidDeductionAmount, item.NetSalary = Pay(item.MonthlySalary, item.TotalWorkingDays, item.TotalUnpaidDays)
	item.Meta = Meta{Details: details}

	return item, nil
}

// Pay applies the rounding policy: the daily rate and the deduction are each
// rounded to 2 decimals, half away from zero.
func Pay(salary decimal.Decimal, workingDays int, unpaidDays decimal.Decimal) (dailyRate, deduction, net decimal.Decimal) {
	dailyRate = salary.DivRound(decimal.NewFromInt(int64(workingDays)), 2)
	deduction = dailyRate.Mul(unpaidDays).Round(2)
	net = salary.Sub(deduction)
	return dailyRate, deduction, net
}

func leaveOn(leaves []leave.LeaveRequest, d time.Time) (leave.LeaveRequest, bool) {
	for _, lr := range leaves {
		if lr.Covers(d) {
			return lr, true
		}
	}
	return leave.LeaveRequest{}, false
}

func skip(emp employee.Employee, reason SkipReason) *Skipped {
	return &Skipped{
		EmployeeID:   emp.ID,
		EmployeeCode: emp.EmployeeCode,
		EmployeeName: emp.FullName(),
		Reason:       reason,
	}
}
