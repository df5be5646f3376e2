package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/jwt"
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
	"github.com/cmlabs-hris/hris-timepay-go/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret-key-for-jwt"
	officeLat  = -6.2000
	officeLon  = 106.8166
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta *struct {
		TotalItems int64 `json:"total_items"`
	} `json:"meta"`
}

type server struct {
	t      *testing.T
	router http.Handler
	jwt    jwt.Service
	tokens map[int64]string
	notifs *testutil.Notifications
}

// newServer wires the real services over in-memory stores: 1 is a manager,
// 2 an employee reporting to 1, 3 HR and 4 payroll.
func newServer(t *testing.T) *server {
	t.Helper()
	office := &employee.Location{ID: 10, Name: "HQ", CountryCode: "ID", Timezone: "UTC", Latitude: officeLat, Longitude: officeLon, RadiusMeters: 100}
	mgr := int64(1)
	salary := decimal.NewFromInt(3000)
	emps := testutil.NewEmployees(
		employee.Employee{ID: 1, EmployeeCode: "E001", FirstName: "made", Gender: employee.Male, Role: user.RoleManager, Location: office},
		employee.Employee{ID: 2, EmployeeCode: "E002", FirstName: "sari", Gender: employee.Female, Role: user.RoleEmployee, ManagerID: &mgr, Location: office, MonthlySalary: &salary},
		employee.Employee{ID: 3, EmployeeCode: "E003", FirstName: "hana", Gender: employee.Female, Role: user.RoleHR, Location: office},
		employee.Employee{ID: 4, EmployeeCode: "E004", FirstName: "putu", Gender: employee.Male, Role: user.RolePayroll, Location: office},
	)
	locations := testutil.NewLocations(*office)
	records := testutil.NewAttendance(emps)
	hols := testutil.NewHolidays()
	types := testutil.StandardLeaveTypes()
	balances := testutil.NewBalances(types)
	balances.Seed(2, 1, 2024, decimal.NewFromInt(12))
	leaves := testutil.NewLeaveRequests(emps, types)
	regs := testutil.NewRegularizations(emps)
	wfhRepo := testutil.NewWFH(emps)
	payrollRepo := testutil.NewPayroll()

	notifs := testutil.NewNotifications()
	notifService := notificationsvc.NewNotificationService(notifs, nil, notificationsvc.Config{
		BatchSize:     10,
		FlushInterval: 10 * time.Millisecond,
		WorkerCount:   1,
	})
	t.Cleanup(notifService.Stop)

	holidays := holidaysvc.NewHolidayService(hols, emps, nil)
	attendanceService := attendancesvc.NewAttendanceService(
		testutil.NewTx(records),
		records,
		emps,
		holidays,
		wfhRepo,
		leaves,
		attendance.Policy{GraceMinutes: 10, LateAbsenceThreshold: 3, DefaultRadiusMeters: 200},
	).WithNotifier(notifService)
	regularizationService := regularizationsvc.NewRegularizationService(testutil.NewTx(regs, records), regs, records, emps, attendanceService).
		WithNotifier(notifService)
	leaveService := leavesvc.NewLeaveService(testutil.NewTx(balances, leaves), types, balances, leaves, emps, false).
		WithNotifier(notifService)
	wfhService := wfhsvc.NewWFHService(testutil.NewTx(wfhRepo), wfhRepo, emps, 3).WithNotifier(notifService)
	employeeService := employeesvc.NewEmployeeService(emps, locations)

	jwtService := jwt.NewJWTService(testSecret, time.Hour)
	router := NewRouter(RouterConfig{
		Env:         "test",
		FrontendURL: "http://localhost:3000",
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		JWTService:  jwtService,
		Attendance:  NewAttendanceHandler(attendanceService, regularizationService),
		Leave:       NewLeaveHandler(leaveService),
		WFH:         NewWFHHandler(wfhService),
		Payroll: NewPayrollHandler(
			payrollsvc.NewPayrollService(testutil.NewTx(payrollRepo), payrollRepo, emps, records, leaves, holidays, nil, time.Minute).
				WithNotifier(notifService),
		),
		Holiday:      NewHolidayHandler(holidays),
		Employee:     NewEmployeeHandler(employeeService),
		Master:       NewMasterHandler(mastersvc.NewLocationService(locations)),
		Notification: NewNotificationHandler(notifService),
		Dashboard: NewDashboardHandler(
			dashboardsvc.NewDashboardService(employeeService, attendanceService, leaveService, regularizationService, wfhService, notifService),
		),
	})

	return &server{t: t, router: router, jwt: jwtService, tokens: map[int64]string{}, notifs: notifs}
}

func (s *server) token(id int64, role user.Role) string {
	s.t.Helper()
	if tok, ok := s.tokens[id]; ok {
		return tok
	}
	tok, _, err := s.jwt.GenerateAccessToken(id, "", role)
	require.NoError(s.t, err)
	s.tokens[id] = tok
	return tok
}

func (s *server) do(method, path string, role user.Role, id int64, body interface{}) (int, envelope) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id != 0 {
		req.Header.Set("Authorization", "Bearer "+s.token(id, role))
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestPing(t *testing.T) {
	s := newServer(t)
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestAuthRequired(t *testing.T) {
	s := newServer(t)

	code, env := s.do(http.MethodGet, "/api/attendance/today", "", 0, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/attendance/today", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCheckInFlow(t *testing.T) {
	s := newServer(t)
	body := map[string]float64{"device_latitude": officeLat, "device_longitude": officeLon}

	code, env := s.do(http.MethodPost, "/api/attendance/check-in", user.RoleEmployee, 2, body)
	require.Equal(t, http.StatusCreated, code, env.Message)
	rec := decode[attendance.AttendanceResponse](t, env)
	assert.Equal(t, int64(2), rec.EmployeeID)
	require.NotNil(t, rec.WorkLocation)
	assert.Equal(t, attendance.WorkLocationOnSite, *rec.WorkLocation)

	code, env = s.do(http.MethodPost, "/api/attendance/check-in", user.RoleEmployee, 2, body)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, attendance.ErrAlreadyCheckedIn.Error(), env.Error.Message)

	code, env = s.do(http.MethodGet, "/api/attendance/today", user.RoleEmployee, 2, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, rec.ID, decode[attendance.AttendanceResponse](t, env).ID)

	code, _ = s.do(http.MethodPost, "/api/attendance/check-out", user.RoleEmployee, 2, body)
	assert.Equal(t, http.StatusOK, code)
}

func TestCheckInRejections(t *testing.T) {
	s := newServer(t)

	code, env := s.do(http.MethodPost, "/api/attendance/check-in", user.RoleEmployee, 2, map[string]float64{"device_longitude": officeLon})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Details, "device_latitude")

	code, env = s.do(http.MethodPost, "/api/attendance/check-in", user.RoleEmployee, 2, map[string]float64{"device_latitude": -6.3, "device_longitude": officeLon})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, attendance.ErrOutsideGeoFence.Error(), env.Error.Message)

	code, _ = s.do(http.MethodPost, "/api/attendance/check-in", user.RoleEmployee, 2, map[string]interface{}{"employee_id": 1, "device_latitude": officeLat, "device_longitude": officeLon})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(http.MethodGet, "/api/attendance/999", user.RoleHR, 3, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(http.MethodGet, "/api/attendance/abc", user.RoleHR, 3, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestLeaveApprovalOverHTTP(t *testing.T) {
	s := newServer(t)

	code, env := s.do(http.MethodPost, "/api/leaves/requests", user.RoleEmployee, 2, map[string]interface{}{
		"leave_type_code": "AL",
		"start_date":      "2024-01-10",
		"end_date":        "2024-01-12",
		"reason":          "family trip",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	created := decode[struct {
		ID        int64  `json:"id"`
		TotalDays string `json:"total_days"`
		Stage     string `json:"stage"`
	}](t, env)
	assert.Equal(t, "3", created.TotalDays)
	assert.Equal(t, "AWAITING_MANAGER", created.Stage)

	actPath := "/api/leaves/requests/" + jsonID(created.ID) + "/action"

	code, _ = s.do(http.MethodPut, actPath, user.RoleHR, 3, map[string]string{"role": "HR", "action": "APPROVE"})
	assert.Equal(t, http.StatusConflict, code, "HR cannot act before the manager")

	code, _ = s.do(http.MethodPut, actPath, user.RoleEmployee, 2, map[string]string{"role": "MANAGER", "action": "APPROVE"})
	assert.Equal(t, http.StatusForbidden, code)

	code, env = s.do(http.MethodPut, actPath, user.RoleManager, 1, map[string]string{"role": "MANAGER", "action": "APPROVE", "comment": "ok"})
	require.Equal(t, http.StatusOK, code, env.Message)

	code, env = s.do(http.MethodPut, actPath, user.RoleHR, 3, map[string]string{"role": "HR", "action": "APPROVE"})
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Equal(t, "APPROVED", decode[struct {
		Status string `json:"status"`
	}](t, env).Status)

	code, _ = s.do(http.MethodPut, actPath, user.RoleHR, 3, map[string]string{"role": "HR", "action": "REJECT"})
	assert.Equal(t, http.StatusConflict, code)

	code, env = s.do(http.MethodGet, "/api/leaves/balance/2?year=2024", user.RoleEmployee, 2, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"used_days":"3"`)

	code, env = s.do(http.MethodGet, "/api/leaves/requests?view=manager", user.RoleManager, 1, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), env.Meta.TotalItems)
}

func TestLeaveRejectsInsufficientBalance(t *testing.T) {
	s := newServer(t)

	code, env := s.do(http.MethodPost, "/api/leaves/requests", user.RoleEmployee, 2, map[string]interface{}{
		"leave_type_id": 1,
		"start_date":    "2024-02-01",
		"end_date":      "2024-02-29",
		"reason":        "long break",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "BAD_REQUEST", env.Error.Code)
}

func TestPermissionGates(t *testing.T) {
	s := newServer(t)

	code, _ := s.do(http.MethodGet, "/api/payroll/preview?year=2024&month=1", user.RoleEmployee, 2, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env := s.do(http.MethodGet, "/api/payroll/preview?year=2024&month=1", user.RolePayroll, 4, nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Contains(t, string(env.Data), `"total_employees":1`)

	code, env = s.do(http.MethodGet, "/api/payroll/preview?year=2024", user.RolePayroll, 4, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Error.Details, "month")

	code, _ = s.do(http.MethodGet, "/api/employees", user.RoleEmployee, 2, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(http.MethodGet, "/api/employees", user.RoleHR, 3, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(http.MethodPost, "/api/holidays", user.RoleManager, 1, map[string]string{"country_code": "ID", "holiday_date": "2024-08-17", "name": "Independence Day"})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(http.MethodPost, "/api/holidays", user.RoleHR, 3, map[string]string{"country_code": "id", "holiday_date": "2024-08-17", "name": "Independence Day"})
	assert.Equal(t, http.StatusCreated, code)

	code, env = s.do(http.MethodGet, "/api/holidays?country_code=ID&year=2024", user.RoleEmployee, 2, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "Independence Day")
}

func TestWFHOverHTTP(t *testing.T) {
	s := newServer(t)

	code, env := s.do(http.MethodPost, "/api/wfh/request", user.RoleEmployee, 2, map[string]string{
		"start_date": "2024-03-04",
		"end_date":   "2024-03-07",
		"reason":     "renovation",
	})
	assert.Equal(t, http.StatusBadRequest, code, "four days exceeds the cap")
	assert.Equal(t, "BAD_REQUEST", env.Error.Code)

	code, env = s.do(http.MethodPost, "/api/wfh/request", user.RoleEmployee, 2, map[string]string{
		"request_date": "2024-03-04",
		"reason":       "renovation",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	id := decode[struct {
		ID int64 `json:"id"`
	}](t, env).ID

	code, _ = s.do(http.MethodGet, "/api/wfh", user.RoleEmployee, 2, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = s.do(http.MethodPut, "/api/wfh/"+jsonID(id)+"/action", user.RoleHR, 3, map[string]interface{}{"status": "APPROVED", "approved_by": 3, "admin_comment": "fine"})
	require.Equal(t, http.StatusOK, code, env.Message)

	code, _ = s.do(http.MethodPut, "/api/wfh/"+jsonID(id)+"/action", user.RoleHR, 3, map[string]interface{}{"status": "APPROVED", "approved_by": 4})
	assert.Equal(t, http.StatusForbidden, code, "approved_by must match the caller")
}

func jsonID(id int64) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}
