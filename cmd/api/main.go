package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/app"
	"github.com/cmlabs-hris/hris-timepay-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-timepay-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/cache"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/sse"
	"github.com/redis/go-redis/v9"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("api exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := app.NewLogger(cfg)
	slog.SetDefault(logger)

	dsn := cfg.DatabaseURL()
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, dsn); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("Database migrations applied")
	}

	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	// Redis backs the holiday cache and the payroll finalize lock. The API
	// still serves without it.
	var rdb *redis.Client
	rdb, err = cache.New(ctx, cache.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		logger.Warn("Redis unavailable, running without cache and finalize lock", "error", err)
		rdb = nil
	} else {
		defer func() {
			if err := rdb.Close(); err != nil {
				logger.Warn("redis close", "error", err)
			}
		}()
	}

	services := app.NewServices(cfg, db, rdb, sse.NewHub())
	defer services.Close()

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Env:              cfg.App.Env,
		Version:          version,
		FrontendURL:      cfg.App.FrontendURL,
		RateLimitPerMin:  cfg.App.RateLimitPerMin,
		CheckInPerMinute: cfg.App.CheckInPerMinute,
		Logger:           logger,
		JWTService:       jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration),
		Attendance:       appHTTP.NewAttendanceHandler(services.Attendance, services.Regularization),
		Leave:            appHTTP.NewLeaveHandler(services.Leave),
		WFH:              appHTTP.NewWFHHandler(services.WFH),
		Payroll:          appHTTP.NewPayrollHandler(services.Payroll),
		Holiday:          appHTTP.NewHolidayHandler(services.Holiday),
		Employee:         appHTTP.NewEmployeeHandler(services.Employee),
		Master:           appHTTP.NewMasterHandler(services.Location),
		Notification:     appHTTP.NewNotificationHandler(services.Notification),
		Dashboard:        appHTTP.NewDashboardHandler(services.Dashboard),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
	}

	go func() {
		logger.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
