package app

import (
	"log/slog"
	"os"
	"strings"

	"github.com/cmlabs-hris/hris-timepay-go/internal/config"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/master/location"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/cache"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/lock"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-timepay-go/internal/repository/postgresql"
	attendancesvc "github.com/cmlabs-hris/hris-timepay-go/internal/service/attendance"
	dashboardsvc "github.com/cmlabs-hris/hris-timepay-go/internal/service/dashboard"
	employeesvc "github.com/cmlabs-hris/hris-timepay-go/internal/service/employee"
	holidaysvc "github.com/cmlabs-hris/hris-timepay-go/internal/service/holiday"
	leavesvc "github.com/cmlabs-hris/hris-timepay-go/internal/service/leave"
	mastersvc "github.com/cmlabs-hris/hris-timepay-go/internal/service/master"
	notificationsvc "github.com/cmlabs-hris/hris-timepay-go/internal/service/notification"
	payrollsvc "github.com/cmlabs-hris/hris-timepay-go/internal/service/payroll"
	regularizationsvc "github.com/cmlabs-hris/hris-timepay-go/internal/service/regularization"
	wfhsvc "github.com/cmlabs-hris/hris-timepay-go/internal/service/wfh"
	"github.com/redis/go-redis/v9"
)

// NewLogger returns a JSON logger in production and a text logger elsewhere.
func NewLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.App.LogLevel)}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Services holds every domain service, wired over PostgreSQL and, when a
// client is given, Redis.
type Services struct {
	Attendance     *attendancesvc.AttendanceServiceImpl
	Regularization *regularizationsvc.RegularizationServiceImpl
	Leave          *leavesvc.LeaveServiceImpl
	WFH            *wfhsvc.WFHServiceImpl
	Payroll        *payrollsvc.PayrollServiceImpl
	Holiday        holiday.HolidayService
	Employee       employee.EmployeeService
	Location       location.LocationService
	Notification   *notificationsvc.NotificationServiceImpl
	Dashboard      *dashboardsvc.DashboardServiceImpl
}

// Close drains queued notifications.
func (s *Services) Close() {
	s.Notification.Stop()
}

// NewServices builds the service graph. A nil redis client disables the
// holiday cache and the payroll finalize lock. Notifications reach open
// streams only through hub; a nil hub still persists them.
func NewServices(cfg *config.Config, db *database.DB, rdb *redis.Client, hub *sse.Hub) *Services {
	tx := postgresql.NewTransactor(db)

	employeeRepo := postgresql.NewEmployeeRepository(db)
	locationRepo := postgresql.NewLocationRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	regularizationRepo := postgresql.NewRegularizationRepository(db)
	wfhRepo := postgresql.NewWFHRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	var (
		holidayCache *cache.JSONCache
		locker       *lock.Locker
	)
	if rdb != nil {
		holidayCache = cache.NewJSONCache(rdb, "holidays", cfg.Policy.HolidayCacheTTL)
		locker = lock.NewLocker(rdb, "lock")
	}

	holidayService := holidaysvc.NewHolidayService(holidayRepo, employeeRepo, holidayCache)

	notificationService := notificationsvc.NewNotificationService(notificationRepo, hub, notificationsvc.Config{
		BatchSize:     cfg.Notifications.BatchSize,
		FlushInterval: cfg.Notifications.FlushInterval,
		WorkerCount:   cfg.Notifications.Workers,
		QueueSize:     cfg.Notifications.QueueSize,
	})

	attendanceService := attendancesvc.NewAttendanceService(
		tx,
		attendanceRepo,
		employeeRepo,
		holidayService,
		wfhRepo,
		leaveRequestRepo,
		attendance.Policy{
			GraceMinutes:         cfg.Policy.LateGraceMinutes,
			LateAbsenceThreshold: cfg.Policy.LateAbsenceThreshold,
			DefaultRadiusMeters:  cfg.Policy.GeofenceRadiusMeters,
		},
	).WithNotifier(notificationService)

	regularizationService := regularizationsvc.NewRegularizationService(tx, regularizationRepo, attendanceRepo, employeeRepo, attendanceService).
		WithNotifier(notificationService)
	leaveService := leavesvc.NewLeaveService(tx, leaveTypeRepo, leaveBalanceRepo, leaveRequestRepo, employeeRepo, cfg.Policy.LeaveAllowNegativeBalance).
		WithNotifier(notificationService)
	wfhService := wfhsvc.NewWFHService(tx, wfhRepo, employeeRepo, cfg.Policy.WFHMaxDays).
		WithNotifier(notificationService)
	employeeService := employeesvc.NewEmployeeService(employeeRepo, locationRepo)
	locationService := mastersvc.NewLocationService(locationRepo)

	payrollService := payrollsvc.NewPayrollService(
		tx,
		payrollRepo,
		employeeRepo,
		attendanceRepo,
		leaveRequestRepo,
		holidayService,
		locker,
		cfg.Policy.PayrollFinalizeLockTTL,
	).WithNotifier(notificationService)

	return &Services{
		Attendance:     attendanceService,
		Regularization: regularizationService,
		Leave:          leaveService,
		WFH:            wfhService,
		Payroll:        payrollService,
		Holiday:        holidayService,
		Employee:       employeeService,
		Location:       locationService,
		Notification:   notificationService,
		Dashboard: dashboardsvc.NewDashboardService(
			employeeService,
			attendanceService,
			leaveService,
			regularizationService,
			wfhService,
			notificationService,
		),
	}
}
