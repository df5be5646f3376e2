package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/app"
	"github.com/cmlabs-hris/hris-timepay-go/internal/config"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/utils"
	"github.com/hibiken/asynq"
)

func main() {
	backfill := flag.String("backfill", "", "enqueue the absence sweep for one date (YYYY-MM-DD) and exit")
	flag.Parse()

	if err := run(*backfill); err != nil {
		slog.Error("worker exited", "error", err)
		os.Exit(1)
	}
}

func run(backfill string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.SetDefault(app.NewLogger(cfg))

	redisOpts := asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}

	if backfill != "" {
		date, err := time.Parse(utils.DateLayout, backfill)
		if err != nil {
			return fmt.Errorf("backfill date: %w", err)
		}
		client := cron.NewClient(redisOpts)
		defer client.Close()

		info, err := client.EnqueueMarkAbsent(ctx, date)
		if err != nil {
			return fmt.Errorf("enqueue backfill: %w", err)
		}
		slog.Info("Backfill enqueued", "task_id", info.ID, "date", backfill)
		return nil
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	// No hub: absences marked here are stored and show up on the next list.
	services := app.NewServices(cfg, db, nil, nil)
	defer services.Close()
	jobs := cron.NewAttendanceJobs(services.Attendance)

	sweep, err := cron.NewMarkAbsentTask(nil)
	if err != nil {
		return fmt.Errorf("build mark absent task: %w", err)
	}

	worker, err := cron.NewWorker(cron.WorkerConfig{
		RedisOpts:   redisOpts,
		Concurrency: cfg.Jobs.Concurrency,
		Handlers: []cron.TaskHandler{
			{Type: cron.TaskMarkAbsent, Handler: jobs.HandleMarkAbsent},
		},
		Schedules: []cron.Schedule{
			{Spec: cfg.Jobs.AbsenceMarkCron, Task: sweep, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		return fmt.Errorf("init worker: %w", err)
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("worker run: %w", err)
	}
	return nil
}
