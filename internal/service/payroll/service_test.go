package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/lock"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/utils"
	holidaysvc "github.com/cmlabs-hris/hris-timepay-go/internal/service/holiday"
	"github.com/cmlabs-hris/hris-timepay-go/internal/testutil"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	payrollOfficer = user.Actor{EmployeeID: 99, Role: user.RolePayroll}
	staff          = user.Actor{EmployeeID: 1, Role: user.RoleEmployee}
)

type fixture struct {
	svc     *PayrollServiceImpl
	store   *testutil.Payroll
	records *testutil.Attendance
	locker  *lock.Locker
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func money(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

// newFixture seeds January 2024: 22 working days in Indonesia once New
// Year's Day is removed.
func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	office := &employee.Location{ID: 10, CountryCode: "ID", Timezone: "UTC"}
	salary1, salary3 := money("3000"), money("2200")
	emps := testutil.NewEmployees(
		employee.Employee{ID: 1, EmployeeCode: "E001", FirstName: "ayu", MonthlySalary: &salary1, Location: office},
		employee.Employee{ID: 2, EmployeeCode: "E002", FirstName: "budi", Location: office},
		employee.Employee{ID: 3, EmployeeCode: "E003", FirstName: "citra", MonthlySalary: &salary3, Location: office},
	)

	records := testutil.NewAttendance(emps)
	utils.EachDay(day(1), day(31), func(d time.Time) {
		if utils.IsWeekend(d) || d.Day() == 1 || !d.Before(utils.DateOf(now)) {
			return
		}
		for _, id := range []int64{1, 3} {
			if id == 1 && (d.Day() == 8 || d.Day() == 9) {
				continue
			}
			in := d.Add(9 * time.Hour)
			records.Put(attendance.AttendanceRecord{EmployeeID: id, Date: d, ClockIn: &in, Status: attendance.StatusPresent})
		}
	})
	records.Put(attendance.AttendanceRecord{EmployeeID: 1, Date: day(9), Status: attendance.StatusAbsent, AbsenceReason: attendance.AbsenceNoCheckIn})

	types := testutil.StandardLeaveTypes()
	leaves := testutil.NewLeaveRequests(emps, types)
	second := leave.SecondHalf
	leaves.Put(leave.LeaveRequest{EmployeeID: 3, LeaveTypeID: 1, StartDate: day(10), EndDate: day(12), TotalDays: money("3"), Status: approval.StatusApproved})
	leaves.Put(leave.LeaveRequest{EmployeeID: 3, LeaveTypeID: 6, StartDate: day(15), EndDate: day(15), IsHalfDay: true, HalfDaySession: &second, TotalDays: money("0.5"), Status: approval.StatusApproved})
	leaves.Put(leave.LeaveRequest{EmployeeID: 1, LeaveTypeID: 6, StartDate: day(22), EndDate: day(22), TotalDays: money("1"), Status: approval.StatusRejected})

	hols := testutil.NewHolidays(holiday.Holiday{CountryCode: "ID", Date: day(1), Name: "New Year"})

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	locker := lock.NewLocker(client, "lock")

	store := testutil.NewPayroll()
	svc := NewPayrollService(
		testutil.NewTx(store),
		store,
		emps,
		records,
		leaves,
		holidaysvc.NewHolidayService(hols, emps, nil),
		locker,
		time.Minute,
	).WithClock(func() time.Time { return now })

	return &fixture{svc: svc, store: store, records: records, locker: locker}
}

func itemFor(t *testing.T, items []payroll.ItemResponse, employeeID int64) payroll.ItemResponse {
	t.Helper()
	for _, it := range items {
		if it.EmployeeID == employeeID {
			return it
		}
	}
	t.Fatalf("no item for employee %d", employeeID)
	return payroll.ItemResponse{}
}

func detailOn(it payroll.ItemResponse, date string) payroll.DayDetail {
	for _, d := range it.Details {
		if d.Date == date {
			return d
		}
	}
	return payroll.DayDetail{}
}

func TestPreview_ClosedMonth(t *testing.T) {
	f := newFixture(t, time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC))

	resp, err := f.svc.Preview(context.Background(), payrollOfficer, 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalEmployees)
	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, payroll.SkipNoSalary, resp.Skipped[0].Reason)
	assert.Equal(t, "E002", resp.Skipped[0].EmployeeCode)

	ayu := itemFor(t, resp.Items, 1)
	assert.Equal(t, 22, ayu.TotalWorkingDays)
	assert.True(t, ayu.AbsentDays.Equal(money("2")))
	assert.True(t, ayu.DailyRate.Equal(money("136.36")))
	assert.True(t, ayu.UnpaidDeductionAmount.Equal(money("272.72")))
	assert.True(t, ayu.NetSalary.Equal(money("2727.28")))
	assert.Equal(t, payroll.DayHoliday, detailOn(ayu, "2024-01-01").Type)
	assert.Equal(t, payroll.DayWeekend, detailOn(ayu, "2024-01-06").Type)
	assert.Equal(t, payroll.DayAbsentNoRecord, detailOn(ayu, "2024-01-08").Type)
	assert.Equal(t, payroll.DayAbsent, detailOn(ayu, "2024-01-09").Type)
	assert.Equal(t, payroll.DayPresent, detailOn(ayu, "2024-01-22").Type, "rejected leave is ignored")
	assert.Contains(t, ayu.MetaJSON, `"details"`)

	citra := itemFor(t, resp.Items, 3)
	assert.True(t, citra.UnpaidLeaveDays.Equal(money("0.5")))
	assert.True(t, citra.AbsentDays.IsZero())
	assert.True(t, citra.DailyRate.Equal(money("100")))
	assert.True(t, citra.NetSalary.Equal(money("2150")))
	assert.Equal(t, payroll.DayPaidLeave, detailOn(citra, "2024-01-11").Type)
	unpaid := detailOn(citra, "2024-01-15")
	assert.Equal(t, payroll.DayUnpaidLeave, unpaid.Type)
	assert.True(t, unpaid.HalfDay)
	assert.Equal(t, "UL", *unpaid.LeaveCode)

	assert.Empty(t, f.store.Items(), "preview persists nothing")
}

func TestPreview_CurrentMonthUpcoming(t *testing.T) {
	f := newFixture(t, time.Date(2024, 1, 17, 12, 0, 0, 0, time.UTC))

	resp, err := f.svc.Preview(context.Background(), payrollOfficer, 2024, 1)
	require.NoError(t, err)

	ayu := itemFor(t, resp.Items, 1)
	assert.True(t, ayu.AbsentDays.Equal(money("2")))
	assert.Equal(t, payroll.DayUpcoming, detailOn(ayu, "2024-01-17").Type)
	assert.Equal(t, payroll.DayUpcoming, detailOn(ayu, "2024-01-31").Type)
	assert.Equal(t, payroll.DayPresent, detailOn(ayu, "2024-01-16").Type)

	citra := itemFor(t, resp.Items, 3)
	assert.True(t, citra.UnpaidLeaveDays.Equal(money("0.5")), "past unpaid leave still counts")
}

func TestPreview_Rules(t *testing.T) {
	f := newFixture(t, time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := f.svc.Preview(ctx, staff, 2024, 1)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	_, err = f.svc.Preview(ctx, payrollOfficer, 2024, 13)
	assert.Error(t, err)

	resp, err := f.svc.Preview(ctx, payrollOfficer, 2023, 6)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalEmployees, "no attendance means every working day is absent")
}

func TestFinalize_Once(t *testing.T) {
	f := newFixture(t, time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC))
	rec := &testutil.Recorder{}
	f.svc.WithNotifier(rec)
	ctx := context.Background()
	notes := "January close"

	resp, err := f.svc.Finalize(ctx, payroll.FinalizeRequest{Year: 2024, Month: 1, Notes: &notes, Actor: payrollOfficer})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalEmployees)
	assert.NotEqual(t, uuid.Nil, resp.RunID)
	require.Len(t, f.store.Items(), 2)
	for _, it := range f.store.Items() {
		require.NotNil(t, it.RunID)
		assert.Equal(t, resp.RunID, *it.RunID)
	}

	_, err = f.svc.Finalize(ctx, payroll.FinalizeRequest{Year: 2024, Month: 1, Actor: payrollOfficer})
	assert.ErrorIs(t, err, payroll.ErrAlreadyFinalized)
	assert.Len(t, f.store.Items(), 2)

	sent := rec.Requests()
	require.Len(t, sent, 2, "one payslip notice per finalized item, none for the rejected repeat")
	assert.Equal(t, resp.RunID.String(), sent[0].Data["run_id"])

	runs, err := f.svc.Runs(ctx, payrollOfficer)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 2, runs[0].TotalEmployees)
	assert.True(t, runs[0].TotalNet.Equal(money("4877.28")))
	assert.Equal(t, "January close", *runs[0].Notes)

	year, month := 2024, 1
	mine, err := f.svc.Me(ctx, staff, &year, &month)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.True(t, mine[0].NetSalary.Equal(money("2727.28")))
	assert.NotEmpty(t, mine[0].Details)
}

func TestFinalize_LockBusy(t *testing.T) {
	f := newFixture(t, time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	held, err := f.locker.Acquire(ctx, "payroll:2024-01", time.Minute)
	require.NoError(t, err)

	_, err = f.svc.Finalize(ctx, payroll.FinalizeRequest{Year: 2024, Month: 1, Actor: payrollOfficer})
	assert.ErrorIs(t, err, payroll.ErrFinalizeBusy)
	assert.Empty(t, f.store.Items())

	require.NoError(t, held.Release(ctx))
	_, err = f.svc.Finalize(ctx, payroll.FinalizeRequest{Year: 2024, Month: 1, Actor: payrollOfficer})
	require.NoError(t, err)
}

func TestFinalize_Rejections(t *testing.T) {
	f := newFixture(t, time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := f.svc.Finalize(ctx, payroll.FinalizeRequest{Year: 2024, Month: 1, Actor: staff})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	_, err = f.svc.Finalize(ctx, payroll.FinalizeRequest{Year: 2024, Month: 3, Actor: payrollOfficer})
	assert.ErrorIs(t, err, payroll.ErrInvalidPeriod)

	_, err = f.svc.Runs(ctx, staff)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}
