package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hris-timepay-go/internal/app"
	"github.com/cmlabs-hris/hris-timepay-go/internal/config"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/database"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: migrate [up|status|down]")
	}
	flag.Parse()

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(app.NewLogger(cfg))

	ctx := context.Background()
	dsn := cfg.DatabaseURL()

	switch command {
	case "up":
		err = database.Migrate(ctx, dsn)
	case "status":
		err = database.MigrationStatus(ctx, dsn)
	case "down":
		err = database.Rollback(ctx, dsn)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		slog.Error("migrate "+command, "error", err)
		os.Exit(1)
	}
	slog.Info("Migration command finished", "command", command)
}
