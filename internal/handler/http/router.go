package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timepay-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	Env              string
	Version          string
	FrontendURL      string
	RateLimitPerMin  int
	CheckInPerMinute int
	// Logger overrides the default ECS JSON request logger.
	Logger *slog.Logger

	JWTService jwt.Service

	Attendance AttendanceHandler
	Leave      LeaveHandler
	WFH        WFHHandler
	Payroll    PayrollHandler
	Holiday    HolidayHandler
	Employee   EmployeeHandler
	Master     MasterHandler

	Notification NotificationHandler
	Dashboard    DashboardHandler
}

func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			ReplaceAttr: logFormat.ReplaceAttr,
		})).With(
			slog.String("app", "hris-timepay"),
			slog.String("version", cfg.Version),
			slog.String("env", cfg.Env),
		)
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(middleware.SecureHeaders(cfg.Env == "production"))
	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("pong"))
	})

	r.Route("/api", func(r chi.Router) {
		if cfg.RateLimitPerMin > 0 {
			r.Use(middleware.RateLimit(cfg.RateLimitPerMin))
		}

		// EventSource cannot send headers, so the stream also reads ?jwt=.
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(cfg.JWTService.JWTAuth(), jwtauth.TokenFromHeader, jwtauth.TokenFromQuery))
			r.Use(middleware.AuthRequired)
			r.Get("/notifications/stream", cfg.Notification.Stream)
		})

		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(cfg.JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/attendance", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					if cfg.CheckInPerMinute > 0 {
						r.Use(middleware.RateLimitByActor(cfg.CheckInPerMinute))
					}
					r.Post("/check-in", cfg.Attendance.CheckIn)
					r.Post("/check-out", cfg.Attendance.CheckOut)
				})
				r.Get("/", cfg.Attendance.List)
				r.Get("/today", cfg.Attendance.Today)

				r.Post("/regularization", cfg.Attendance.SubmitRegularization)
				r.Get("/regularizations", cfg.Attendance.ListRegularizations)
				r.Put("/regularization/{id}/action", cfg.Attendance.ActRegularization)

				r.Get("/{id}", cfg.Attendance.Get)
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Get("/types", cfg.Leave.ListTypes)

				r.Get("/balance/{employee_id}", cfg.Leave.GetBalance)
				r.With(middleware.RequirePermission(user.PermissionBalanceAdjust)).
					Put("/balance/{employee_id}", cfg.Leave.AdjustBalance)

				r.Route("/requests", func(r chi.Router) {
					r.Post("/", cfg.Leave.Submit)
					r.Get("/", cfg.Leave.ListRequests)
					r.Get("/{id}", cfg.Leave.GetRequest)
					r.Put("/{id}", cfg.Leave.Edit)
					r.Put("/{id}/action", cfg.Leave.Act)
					r.Put("/{id}/cancel", cfg.Leave.Cancel)
				})
			})

			r.Route("/wfh", func(r chi.Router) {
				r.Post("/request", cfg.WFH.Submit)
				r.Get("/my-requests", cfg.WFH.MyRequests)
				r.Get("/", cfg.WFH.List)
				r.Put("/{id}/action", cfg.WFH.Act)
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/me", cfg.Payroll.Me)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollPreview))
					r.Get("/preview", cfg.Payroll.Preview)
					r.Get("/runs", cfg.Payroll.Runs)
				})
				r.With(middleware.RequirePermission(user.PermissionPayrollFinalize)).
					Post("/finalize", cfg.Payroll.Finalize)
			})

			r.Route("/holidays", func(r chi.Router) {
				r.Get("/", cfg.Holiday.List)
				r.Get("/default-country/{employee_id}", cfg.Holiday.DefaultCountry)
				r.With(middleware.RequirePermission(user.PermissionHolidayManage)).
					Post("/", cfg.Holiday.Create)
			})

			r.Route("/employees", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionEmployeeViewAll)).
					Get("/", cfg.Employee.ListEmployees)
				r.Get("/{id}", cfg.Employee.GetEmployee)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionEmployeeManage))
					r.Post("/", cfg.Employee.CreateEmployee)
					r.Put("/{id}", cfg.Employee.UpdateEmployee)
				})
			})

			r.Route("/master/locations", func(r chi.Router) {
				r.Get("/", cfg.Master.ListLocations)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionMasterManage))
					r.Post("/", cfg.Master.CreateLocation)
					r.Put("/{id}", cfg.Master.UpdateLocation)
				})
			})

			r.Get("/notifications", cfg.Notification.List)
			r.Get("/notifications/unread-count", cfg.Notification.UnreadCount)
			r.Put("/notifications/read", cfg.Notification.MarkAsRead)
			r.Put("/notifications/read-all", cfg.Notification.MarkAllAsRead)

			r.Get("/dashboard/employee", cfg.Dashboard.Employee)
		})
	})

	return r
}
