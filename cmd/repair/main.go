package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cmlabs-hris/biometric-sync/internal/config"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/repair"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/database"
	"github.com/cmlabs-hris/biometric-sync/internal/repository/postgresql"
	repairService "github.com/cmlabs-hris/biometric-sync/internal/service/repair"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup completes before exit.
func run() int {
	mode := flag.String("mode", "clear-window", "repair job to run: clear-window or reconcile")
	from := flag.String("from", "", "first date of the window, YYYY-MM-DD (clear-window)")
	to := flag.String("to", "", "last date of the window, YYYY-MM-DD (clear-window)")
	since := flag.String("since", "", "RFC3339 timestamp to reconcile from (reconcile)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{MaxConns: 2})
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		return 1
	}
	defer db.Close()

	svc := repairService.NewRepairService(
		postgresql.NewTransactor(db),
		postgresql.NewAdvisoryLocker(db),
		postgresql.NewCheckinRepository(db),
		postgresql.NewAttendanceRepository(db),
		postgresql.NewCommentRepository(db),
		nil,
	)

	var results []repair.ItemResult
	switch *mode {
	case "clear-window":
		req := repair.ClearSkippedWindowRequest{From: *from, To: *to}
		if err := req.Validate(); err != nil {
			slog.Error("Invalid window", "error", err)
			return 2
		}
		results, err = svc.ClearSkippedWindow(ctx, req.FromDate, req.ToDate)
	case "reconcile":
		req := repair.ReconcileSkippedRequest{Since: *since}
		if err := req.Validate(); err != nil {
			slog.Error("Invalid since", "error", err)
			return 2
		}
		results, err = svc.ReconcileSkippedCheckins(ctx, req.SinceTime)
	default:
		slog.Error("Unknown mode", "mode", *mode)
		return 2
	}
	if err != nil {
		slog.Error("Repair failed", "mode", *mode, "error", err)
		return 1
	}

	summary := repair.Summarize(results)
	for _, item := range summary.Items {
		if item.Outcome == repair.OutcomeFailed {
			slog.Warn("Repair item failed", "checkin_id", item.CheckinID, "error", item.Err)
		}
	}
	slog.Info("Repair finished",
		"mode", *mode,
		"total", summary.Total,
		"repaired", summary.Repaired,
		"skipped", summary.Skipped,
		"failed", summary.Failed)
	if summary.Failed > 0 {
		return 1
	}
	return 0
}
