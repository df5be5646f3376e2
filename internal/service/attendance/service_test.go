package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/wfh"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/validator"
	holidaysvc "github.com/cmlabs-hris/hris-timepay-go/internal/service/holiday"
	"github.com/cmlabs-hris/hris-timepay-go/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	officeLat = -6.2000
	officeLon = 106.8166
	farLat    = -6.3000
)

type fixture struct {
	svc        *AttendanceServiceImpl
	employees  *testutil.Employees
	attendance *testutil.Attendance
	holidays   *testutil.Holidays
	wfh        *testutil.WFH
	leaves     *testutil.LeaveRequests
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	office := &employee.Location{ID: 10, Name: "HQ", CountryCode: "ID", Timezone: "UTC", Latitude: officeLat, Longitude: officeLon, RadiusMeters: 100}
	emps := testutil.NewEmployees(
		employee.Employee{ID: 1, EmployeeCode: "E001", FirstName: "ayu", LastName: "lestari", Location: office},
		employee.Employee{ID: 2, EmployeeCode: "E002", FirstName: "budi", Location: office},
		employee.Employee{ID: 3, EmployeeCode: "E003", FirstName: "citra"},
	)
	att := testutil.NewAttendance(emps)
	hols := testutil.NewHolidays(holiday.Holiday{CountryCode: "ID", Date: day(2024, 1, 11), Name: "Isra Miraj"})
	wfhRepo := testutil.NewWFH(emps)
	leaves := testutil.NewLeaveRequests(emps, testutil.StandardLeaveTypes())

	svc := NewAttendanceService(
		testutil.NewTx(att),
		att,
		emps,
		holidaysvc.NewHolidayService(hols, emps, nil),
		wfhRepo,
		leaves,
		attendance.Policy{GraceMinutes: 10, LateAbsenceThreshold: 3, DefaultRadiusMeters: 200},
	)
	return &fixture{svc: svc, employees: emps, attendance: att, holidays: hols, wfh: wfhRepo, leaves: leaves}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func clock(d time.Time, h, m int) time.Time {
	return d.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func f64(v float64) *float64 { return &v }

func checkIn(actorID int64, ts time.Time, lat float64) attendance.CheckInRequest {
	return attendance.CheckInRequest{
		Latitude:  f64(lat),
		Longitude: f64(officeLon),
		Actor:     user.Actor{EmployeeID: actorID, Role: user.RoleEmployee},
		Timestamp: ts,
	}
}

func checkOut(actorID int64, ts time.Time) attendance.CheckOutRequest {
	return attendance.CheckOutRequest{
		Latitude:  f64(officeLat),
		Longitude: f64(officeLon),
		Actor:     user.Actor{EmployeeID: actorID, Role: user.RoleEmployee},
		Timestamp: ts,
	}
}

func TestCheckIn_GracePeriod(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wed := day(2024, 1, 10)

	resp, err := f.svc.CheckIn(ctx, checkIn(1, clock(wed, 9, 5), officeLat))
	require.NoError(t, err)
	assert.False(t, resp.IsLate)
	assert.Equal(t, attendance.StatusPresent, resp.Status)
	assert.Equal(t, attendance.WorkLocationOnSite, *resp.WorkLocation)
	assert.Equal(t, "2024-01-10", resp.Date)

	resp, err = f.svc.CheckIn(ctx, checkIn(2, clock(wed, 9, 15), officeLat))
	require.NoError(t, err)
	assert.True(t, resp.IsLate)
	assert.Equal(t, 15, resp.LateMinutes)
	assert.Equal(t, attendance.StatusPresent, resp.Status)
}

func TestCheckIn_FourthLateEscalates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, d := range []int{2, 3, 4} {
		in := clock(day(2024, 1, d), 9, 30)
		f.attendance.Put(attendance.AttendanceRecord{EmployeeID: 1, Date: day(2024, 1, d), ClockIn: &in, Status: attendance.StatusPresent, IsLate: true, LateMinutes: 30})
	}
	// December lateness does not count towards January
	dec := clock(day(2023, 12, 29), 9, 30)
	f.attendance.Put(attendance.AttendanceRecord{EmployeeID: 2, Date: day(2023, 12, 29), ClockIn: &dec, IsLate: true})

	resp, err := f.svc.CheckIn(ctx, checkIn(1, clock(day(2024, 1, 10), 9, 15), officeLat))
	require.NoError(t, err)
	assert.True(t, resp.IsLate)
	assert.Equal(t, attendance.StatusAbsent, resp.Status)
	assert.Equal(t, attendance.AbsenceLateEscalation, resp.AbsenceReason)

	resp, err = f.svc.CheckIn(ctx, checkIn(2, clock(day(2024, 1, 10), 9, 15), officeLat))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, resp.Status)
}

func TestCheckIn_HolidayIsNeverLate(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.CheckIn(context.Background(), checkIn(1, clock(day(2024, 1, 11), 11, 0), officeLat))
	require.NoError(t, err)
	assert.False(t, resp.IsLate)
	assert.Zero(t, resp.LateMinutes)
}

func TestCheckIn_GeoFence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wed := day(2024, 1, 10)

	_, err := f.svc.CheckIn(ctx, checkIn(1, clock(wed, 9, 0), farLat))
	assert.ErrorIs(t, err, attendance.ErrOutsideGeoFence)
	assert.Empty(t, f.attendance.All())

	f.wfh.Put(wfh.WFHRequest{EmployeeID: 1, StartDate: wed, EndDate: wed, Status: approval.StatusApproved, Stage: approval.StageAwaitingHR})
	resp, err := f.svc.CheckIn(ctx, checkIn(1, clock(wed, 9, 0), farLat))
	require.NoError(t, err)
	assert.Equal(t, attendance.WorkLocationRemote, *resp.WorkLocation)
}

func TestCheckIn_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wed := day(2024, 1, 10)

	_, err := f.svc.CheckIn(ctx, checkIn(1, clock(wed, 8, 55), officeLat))
	require.NoError(t, err)

	_, err = f.svc.CheckIn(ctx, checkIn(1, clock(wed, 9, 1), officeLat))
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	_, err = f.svc.CheckIn(ctx, checkIn(3, clock(wed, 9, 0), officeLat))
	assert.ErrorIs(t, err, attendance.ErrNoLocation)

	other := checkIn(1, clock(wed, 9, 0), officeLat)
	other.EmployeeID = ptr(int64(2))
	_, err = f.svc.CheckIn(ctx, other)
	assert.ErrorIs(t, err, user.ErrActorMismatch)

	var verrs validator.ValidationErrors
	bad := checkIn(2, clock(wed, 9, 0), officeLat)
	bad.Latitude = nil
	_, err = f.svc.CheckIn(ctx, bad)
	assert.ErrorAs(t, err, &verrs)
}

func TestCheckIn_HROnBehalf(t *testing.T) {
	f := newFixture(t)
	req := checkIn(99, clock(day(2024, 1, 10), 9, 0), officeLat)
	req.Actor.Role = user.RoleHR
	req.EmployeeID = ptr(int64(2))

	resp, err := f.svc.CheckIn(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.EmployeeID)
}

func TestCheckOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wed := day(2024, 1, 10)

	_, err := f.svc.CheckOut(ctx, checkOut(1, clock(wed, 17, 0)))
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)

	_, err = f.svc.CheckIn(ctx, checkIn(1, clock(wed, 9, 0), officeLat))
	require.NoError(t, err)

	resp, err := f.svc.CheckOut(ctx, checkOut(1, clock(wed, 17, 30)))
	require.NoError(t, err)
	require.NotNil(t, resp.TotalHours)
	assert.Equal(t, 8.5, *resp.TotalHours)

	_, err = f.svc.CheckOut(ctx, checkOut(1, clock(wed, 18, 0)))
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestCheckOut_AbsentRowIsNotCheckedIn(t *testing.T) {
	f := newFixture(t)
	wed := day(2024, 1, 10)
	f.attendance.Put(attendance.AttendanceRecord{EmployeeID: 1, Date: wed, Status: attendance.StatusAbsent, AbsenceReason: attendance.AbsenceNoCheckIn})

	_, err := f.svc.CheckOut(context.Background(), checkOut(1, clock(wed, 17, 0)))
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestToday(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wed := day(2024, 1, 10)
	f.svc.WithClock(func() time.Time { return clock(wed, 12, 0) })

	got, err := f.svc.Today(ctx, user.Actor{EmployeeID: 1, Role: user.RoleEmployee}, 0)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = f.svc.CheckIn(ctx, checkIn(1, clock(wed, 9, 0), officeLat))
	require.NoError(t, err)

	got, err = f.svc.Today(ctx, user.Actor{EmployeeID: 1, Role: user.RoleEmployee}, 0)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.EmployeeID)

	_, err = f.svc.Today(ctx, user.Actor{EmployeeID: 2, Role: user.RoleEmployee}, 1)
	assert.ErrorIs(t, err, attendance.ErrUnauthorized)
}

func TestListAttendance_ScopesSelfService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, id := range []int64{1, 2} {
		_, err := f.svc.CheckIn(ctx, checkIn(id, clock(day(2024, 1, 10), 9, 0), officeLat))
		require.NoError(t, err)
	}

	own, err := f.svc.ListAttendance(ctx, user.Actor{EmployeeID: 2, Role: user.RoleEmployee}, attendance.AttendanceFilter{})
	require.NoError(t, err)
	require.Len(t, own.Attendances, 1)
	assert.Equal(t, int64(2), own.Attendances[0].EmployeeID)

	all, err := f.svc.ListAttendance(ctx, user.Actor{EmployeeID: 7, Role: user.RoleHR}, attendance.AttendanceFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.TotalCount)
	assert.Equal(t, 1, all.TotalPages)
	assert.Equal(t, 20, all.PageSize)
}

func TestGetAttendance_Visibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	resp, err := f.svc.CheckIn(ctx, checkIn(1, clock(day(2024, 1, 10), 9, 0), officeLat))
	require.NoError(t, err)

	got, err := f.svc.GetAttendance(ctx, user.Actor{EmployeeID: 1, Role: user.RoleEmployee}, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "E001", *got.EmployeeCode)

	_, err = f.svc.GetAttendance(ctx, user.Actor{EmployeeID: 2, Role: user.RoleEmployee}, resp.ID)
	assert.ErrorIs(t, err, attendance.ErrUnauthorized)

	_, err = f.svc.GetAttendance(ctx, user.Actor{EmployeeID: 1, Role: user.RoleEmployee}, 404)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestApplyRegularization_Recomputes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wed := day(2024, 1, 10)
	resp, err := f.svc.CheckIn(ctx, checkIn(1, clock(wed, 9, 40), officeLat))
	require.NoError(t, err)
	require.True(t, resp.IsLate)

	in, out := clock(wed, 9, 0), clock(wed, 18, 0)
	rec, err := f.svc.ApplyRegularization(ctx, resp.ID, &in, &out)
	require.NoError(t, err)
	assert.False(t, rec.IsLate)
	assert.Zero(t, rec.LateMinutes)
	assert.Equal(t, 9.0, *rec.TotalHours)

	stored, err := f.attendance.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsLate)
	assert.Equal(t, attendance.StatusPresent, stored.Status)
}

func TestApplyRegularization_ExcludesItselfFromLateCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, d := range []int{2, 3} {
		in := clock(day(2024, 1, d), 9, 30)
		f.attendance.Put(attendance.AttendanceRecord{EmployeeID: 1, Date: day(2024, 1, d), ClockIn: &in, IsLate: true})
	}
	in := clock(day(2024, 1, 4), 9, 30)
	target := f.attendance.Put(attendance.AttendanceRecord{EmployeeID: 1, Date: day(2024, 1, 4), ClockIn: &in, IsLate: true, Status: attendance.StatusPresent})

	later := clock(day(2024, 1, 4), 9, 45)
	rec, err := f.svc.ApplyRegularization(ctx, target.ID, &later, nil)
	require.NoError(t, err)
	assert.True(t, rec.IsLate)
	assert.Equal(t, attendance.StatusPresent, rec.Status, "two prior lates stay below the threshold")
	assert.Nil(t, rec.TotalHours)
}

func TestApplyRegularization_OutBeforeIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wed := day(2024, 1, 10)
	resp, err := f.svc.CheckIn(ctx, checkIn(1, clock(wed, 9, 0), officeLat))
	require.NoError(t, err)

	out := clock(wed, 8, 0)
	_, err = f.svc.ApplyRegularization(ctx, resp.ID, nil, &out)
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestMarkAbsent(t *testing.T) {
	f := newFixture(t)
	rec := &testutil.Recorder{}
	f.svc.WithNotifier(rec)
	ctx := context.Background()
	wed := day(2024, 1, 10)

	_, err := f.svc.CheckIn(ctx, checkIn(1, clock(wed, 9, 0), officeLat))
	require.NoError(t, err)
	f.leaves.Put(leave.LeaveRequest{EmployeeID: 2, LeaveTypeID: 1, StartDate: wed, EndDate: wed, Status: approval.StatusApproved, Stage: approval.StageAwaitingHR})

	res, err := f.svc.MarkAbsent(ctx, wed)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Employees)
	assert.Equal(t, 1, res.Excused)
	assert.Equal(t, 1, res.Marked)

	record, err := f.attendance.GetByEmployeeAndDate(ctx, 3, wed)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusAbsent, record.Status)
	assert.Equal(t, attendance.AbsenceNoCheckIn, record.AbsenceReason)

	again, err := f.svc.MarkAbsent(ctx, wed)
	require.NoError(t, err)
	assert.Zero(t, again.Marked)
	assert.Len(t, f.attendance.All(), 2)

	sent := rec.Requests()
	require.Len(t, sent, 1, "only newly marked employees are told")
	assert.Equal(t, int64(3), sent[0].RecipientID)
	assert.Equal(t, "2024-01-10", sent[0].Data["date"])
}

func TestMarkAbsent_NonWorkingDays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.MarkAbsent(ctx, day(2024, 1, 13))
	require.NoError(t, err)
	assert.True(t, res.NonWorking)
	assert.Zero(t, res.Marked)

	res, err = f.svc.MarkAbsent(ctx, day(2024, 1, 11))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Excused, "holiday excuses employees in the holiday country")
	assert.Equal(t, 1, res.Marked, "employees without a location follow no holiday calendar")
}

func ptr[T any](v T) *T { return &v }
