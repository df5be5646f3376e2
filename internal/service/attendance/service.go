package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/utils"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	tx             database.Transactor
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	calendar       holiday.Calendar
	remoteWork     attendance.RemoteWorkLookup
	leaves         attendance.LeaveLookup
	policy         attendance.Policy
	notifier       notification.Notifier
	now            func() time.Time
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	calendar holiday.Calendar,
	remoteWork attendance.RemoteWorkLookup,
	leaves attendance.LeaveLookup,
	policy attendance.Policy,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		tx:             tx,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		calendar:       calendar,
		remoteWork:     remoteWork,
		leaves:         leaves,
		policy:         policy,
		now:            time.Now,
	}
}

// WithClock replaces the wall clock. Tests use it to pin "now"; the absence
// job passes its target date explicitly instead.
func (s *AttendanceServiceImpl) WithClock(now func() time.Time) *AttendanceServiceImpl {
	s.now = now
	return s
}

// WithNotifier warns employees the absence sweep marks absent.
func (s *AttendanceServiceImpl) WithNotifier(n notification.Notifier) *AttendanceServiceImpl {
	s.notifier = n
	return s
}

var (
	_ attendance.AttendanceService = (*AttendanceServiceImpl)(nil)
	_ attendance.Corrector         = (*AttendanceServiceImpl)(nil)
)

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := s.resolveEmployee(ctx, req.Actor, req.Target())
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	ts := req.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}
	day := emp.LocalDate(ts)

	workLocation, err := s.resolveWorkLocation(ctx, emp, day, *req.Latitude, *req.Longitude)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	working, err := s.isWorkingDay(ctx, emp, day)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var saved attendance.AttendanceRecord
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		from, to := utils.MonthBounds(day.Year(), day.Month())
		priorLates, err := s.attendanceRepo.CountLate(ctx, emp.ID, from, to, nil)
		if err != nil {
			return err
		}

		ev := s.policy.Evaluate(emp.ShiftStartOn(ts), ts, working, priorLates)
		record := attendance.AttendanceRecord{
			EmployeeID:       emp.ID,
			Date:             day,
			ClockIn:          &ts,
			Status:           ev.Status,
			AbsenceReason:    ev.AbsenceReason,
			IsLate:           ev.IsLate,
			LateMinutes:      ev.LateMinutes,
			WorkLocation:     &workLocation,
			CheckInLatitude:  req.Latitude,
			CheckInLongitude: req.Longitude,
		}

		saved, err = s.attendanceRepo.CheckIn(ctx, record)
		if err != nil {
			return err
		}

		if ev.AbsenceReason == attendance.AbsenceLateEscalation {
			slog.Warn("late check-in escalated to absence",
				"employee_id", emp.ID,
				"date", day.Format(utils.DateLayout),
				"late_minutes", ev.LateMinutes,
				"prior_lates", priorLates,
			)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return attendance.ToResponse(saved), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := s.resolveEmployee(ctx, req.Actor, req.Target())
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	ts := req.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}
	day := emp.LocalDate(ts)

	record, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, emp.ID, day)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
		}
		return attendance.AttendanceResponse{}, err
	}
	if !record.CheckedIn() {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}
	if record.CheckedOut() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	if _, err := s.resolveWorkLocation(ctx, emp, day, *req.Latitude, *req.Longitude); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if ts.Before(*record.ClockIn) {
		return attendance.AttendanceResponse{}, validator.ValidationErrors{{Field: "timestamp", Message: "check-out must not precede check-in"}}
	}

	hours := attendance.TotalHours(*record.ClockIn, ts)
	record.ClockOut = &ts
	record.TotalHours = &hours
	record.CheckOutLatitude = req.Latitude
	record.CheckOutLongitude = req.Longitude

	saved, err := s.attendanceRepo.CheckOut(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return attendance.ToResponse(saved), nil
}

// Today implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Today(ctx context.Context, actor user.Actor, employeeID int64) (*attendance.AttendanceResponse, error) {
	if employeeID == 0 {
		employeeID = actor.EmployeeID
	}
	if !actor.CanActFor(employeeID) && !user.HasPermission(actor.Role, user.PermissionAttendanceViewAll) {
		return nil, attendance.ErrUnauthorized
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	record, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, emp.ID, emp.LocalDate(s.now()))
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return nil, nil
		}
		return nil, err
	}

	resp := attendance.ToResponse(record)
	return &resp, nil
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, actor user.Actor, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	// Self-service callers only ever see their own records
	if !user.HasPermission(actor.Role, user.PermissionAttendanceViewAll) {
		filter.EmployeeID = &actor.EmployeeID
	}

	records, total, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	resp := attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		PageSize:    filter.PageSize,
		TotalPages:  int(math.Ceil(float64(total) / float64(filter.PageSize))),
		Attendances: make([]attendance.AttendanceResponse, 0, len(records)),
	}
	for _, r := range records {
		resp.Attendances = append(resp.Attendances, attendance.ToResponse(r))
	}
	return resp, nil
}

// GetAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, actor user.Actor, id int64) (attendance.AttendanceResponse, error) {
	record, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !actor.CanActFor(record.EmployeeID) && !user.HasPermission(actor.Role, user.PermissionAttendanceViewAll) {
		return attendance.AttendanceResponse{}, attendance.ErrUnauthorized
	}
	return attendance.ToResponse(record), nil
}

// ApplyRegularization implements attendance.Corrector.
func (s *AttendanceServiceImpl) ApplyRegularization(ctx context.Context, recordID int64, clockIn, clockOut *time.Time) (attendance.AttendanceRecord, error) {
	record, err := s.attendanceRepo.GetByID(ctx, recordID)
	if err != nil {
		return attendance.AttendanceRecord{}, err
	}
	emp, err := s.employeeRepo.GetByID(ctx, record.EmployeeID)
	if err != nil {
		return attendance.AttendanceRecord{}, err
	}

	if clockIn != nil {
		record.ClockIn = clockIn
	}
	if clockOut != nil {
		record.ClockOut = clockOut
	}
	if record.ClockIn != nil && record.ClockOut != nil && record.ClockOut.Before(*record.ClockIn) {
		return attendance.AttendanceRecord{}, validator.ValidationErrors{{Field: "requested_clock_out", Message: "clock-out must not precede clock-in"}}
	}

	if record.ClockIn != nil {
		working, err := s.isWorkingDay(ctx, emp, record.Date)
		if err != nil {
			return attendance.AttendanceRecord{}, err
		}
		from, to := utils.MonthBounds(record.Date.Year(), record.Date.Month())
		priorLates, err := s.attendanceRepo.CountLate(ctx, emp.ID, from, to, &record.ID)
		if err != nil {
			return attendance.AttendanceRecord{}, err
		}

		ev := s.policy.Evaluate(emp.ShiftStartOn(*record.ClockIn), *record.ClockIn, working, priorLates)
		record.IsLate = ev.IsLate
		record.LateMinutes = ev.LateMinutes
		record.Status = ev.Status
		record.AbsenceReason = ev.AbsenceReason
	}

	record.TotalHours = nil
	if record.ClockIn != nil && record.ClockOut != nil {
		hours := attendance.TotalHours(*record.ClockIn, *record.ClockOut)
		record.TotalHours = &hours
	}

	if err := s.attendanceRepo.UpdateEvaluation(ctx, record); err != nil {
		return attendance.AttendanceRecord{}, err
	}

	slog.Info("attendance regularized",
		"attendance_id", record.ID,
		"employee_id", record.EmployeeID,
		"status", record.Status,
		"is_late", record.IsLate,
	)
	return record, nil
}

// MarkAbsent implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkAbsent(ctx context.Context, date time.Time) (attendance.MarkAbsentResult, error) {
	day := utils.DateOf(date)
	result := attendance.MarkAbsentResult{Date: day.Format(utils.DateLayout)}

	if utils.IsWeekend(day) {
		result.NonWorking = true
		return result, nil
	}

	employees, err := s.employeeRepo.GetActive(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to load active employees: %w", err)
	}
	result.Employees = len(employees)

	for _, emp := range employees {
		if emp.DateOfJoining != nil && emp.DateOfJoining.After(day) {
			continue
		}

		excused, err := s.isExcused(ctx, emp, day)
		if err != nil {
			return result, err
		}
		if excused {
			result.Excused++
			continue
		}

		inserted, err := s.attendanceRepo.InsertAbsent(ctx, emp.ID, day, attendance.AbsenceNoCheckIn)
		if err != nil {
			return result, err
		}
		if inserted {
			result.Marked++
			s.notifyAbsent(ctx, emp.ID, result.Date)
		}
	}

	slog.Info("absence marking finished",
		"date", result.Date,
		"employees", result.Employees,
		"marked", result.Marked,
		"excused", result.Excused,
	)
	return result, nil
}

func (s *AttendanceServiceImpl) notifyAbsent(ctx context.Context, employeeID int64, date string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.QueueNotification(ctx, notification.ForAbsence(employeeID, date)); err != nil {
		slog.Warn("failed to queue absence notification", "employee_id", employeeID, "error", err)
	}
}

// isExcused covers holidays in the employee's country and approved leave
// or WFH.
func (s *AttendanceServiceImpl) isExcused(ctx context.Context, emp employee.Employee, day time.Time) (bool, error) {
	isHoliday, err := s.calendar.IsHoliday(ctx, emp.CountryCode(), day)
	if err != nil || isHoliday {
		return isHoliday, err
	}
	onLeave, err := s.leaves.HasApprovedLeave(ctx, emp.ID, day)
	if err != nil || onLeave {
		return onLeave, err
	}
	return s.remoteWork.HasApprovedWFH(ctx, emp.ID, day)
}

func (s *AttendanceServiceImpl) resolveEmployee(ctx context.Context, actor user.Actor, employeeID int64) (employee.Employee, error) {
	if !actor.CanActFor(employeeID) {
		return employee.Employee{}, user.ErrActorMismatch
	}
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return employee.Employee{}, err
	}
	if emp.Location == nil {
		return employee.Employee{}, attendance.ErrNoLocation
	}
	return emp, nil
}

// resolveWorkLocation applies the geo-fence; outside it an approved WFH
// for the day makes the check remote.
func (s *AttendanceServiceImpl) resolveWorkLocation(ctx context.Context, emp employee.Employee, day time.Time, lat, lon float64) (attendance.WorkLocation, error) {
	loc := emp.Location
	if utils.WithinRadius(lat, lon, loc.Latitude, loc.Longitude, s.policy.Radius(loc.RadiusMeters)) {
		return attendance.WorkLocationOnSite, nil
	}

	remote, err := s.remoteWork.HasApprovedWFH(ctx, emp.ID, day)
	if err != nil {
		return "", fmt.Errorf("failed to check wfh approval: %w", err)
	}
	if !remote {
		return "", attendance.ErrOutsideGeoFence
	}
	return attendance.WorkLocationRemote, nil
}

func (s *AttendanceServiceImpl) isWorkingDay(ctx context.Context, emp employee.Employee, day time.Time) (bool, error) {
	if utils.IsWeekend(day) {
		return false, nil
	}
	isHoliday, err := s.calendar.IsHoliday(ctx, emp.CountryCode(), day)
	if err != nil {
		return false, err
	}
	return !isHoliday, nil
}
