package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/biometric-sync/internal/domain/attendance"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/repair"
)

type AttendanceJobsConfig struct {
	SyncInterval   time.Duration
	SyncTimeout    time.Duration
	RepairInterval time.Duration
	RepairLookback time.Duration
}

type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	repairService     repair.RepairService
	cfg               AttendanceJobsConfig
	now               func() time.Time
}

func NewAttendanceJobs(
	attendanceService attendance.AttendanceService,
	repairService repair.RepairService,
	cfg AttendanceJobsConfig,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceService: attendanceService,
		repairService:     repairService,
		cfg:               cfg,
		now:               time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("process_auto_attendance", j.cfg.SyncInterval, j.cfg.SyncTimeout, j.ProcessAutoAttendance)
	if j.cfg.RepairInterval > 0 {
		scheduler.AddJob("reconcile_skipped_checkins", j.cfg.RepairInterval, j.cfg.SyncTimeout, j.ReconcileSkippedCheckins)
	}
}

// ProcessAutoAttendance runs one device sync cycle for every auto attendance shift type
func (j *AttendanceJobs) ProcessAutoAttendance(ctx context.Context) error {
	slog.Info("Cron: Starting auto attendance cycle")

	reports, err := j.attendanceService.ProcessAllShiftTypes(ctx)
	if err != nil {
		return fmt.Errorf("failed to process auto attendance: %w", err)
	}

	created, absent := 0, 0
	for _, r := range reports {
		created += r.Created
		absent += r.AbsentMarked
	}

	slog.Info("Cron: Auto attendance cycle finished",
		"shift_types", len(reports),
		"created", created,
		"absent_marked", absent)
	return nil
}

// ReconcileSkippedCheckins re-scans check-ins skipped within the lookback window
func (j *AttendanceJobs) ReconcileSkippedCheckins(ctx context.Context) error {
	since := j.now().UTC().Add(-j.cfg.RepairLookback)
	slog.Info("Cron: Starting skipped checkin reconciliation", "since", since)

	results, err := j.repairService.ReconcileSkippedCheckins(ctx, since)
	if err != nil {
		return fmt.Errorf("failed to reconcile skipped checkins: %w", err)
	}

	summary := repair.Summarize(results)
	slog.Info("Cron: Skipped checkin reconciliation finished",
		"total", summary.Total,
		"repaired", summary.Repaired,
		"failed", summary.Failed)
	return nil
}
