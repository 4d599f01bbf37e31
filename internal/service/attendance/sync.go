package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/biometric-sync/internal/domain/attendance"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/checkin"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/device"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/shift"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/database"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/utils"
	"github.com/google/uuid"
)

// CheckinGroup holds the check-ins of one employee for one shift occurrence.
type CheckinGroup struct {
	EmployeeID       string
	ShiftActualStart time.Time
	Logs             []checkin.CheckIn
}

// Date is the attendance date of the group.
func (g CheckinGroup) Date() time.Time {
	return utils.DateOf(g.ShiftActualStart)
}

// GroupCheckins sorts logs by employee and time and groups them by employee
// and shift actual start. Groups keep the order of their first log.
func GroupCheckins(logs []checkin.CheckIn) []CheckinGroup {
	sorted := make([]checkin.CheckIn, len(logs))
	copy(sorted, logs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].EmployeeID != sorted[j].EmployeeID {
			return sorted[i].EmployeeID < sorted[j].EmployeeID
		}
		return sorted[i].Time.Before(sorted[j].Time)
	})

	type groupKey struct {
		employeeID  string
		actualStart int64
	}

	var groups []CheckinGroup
	index := make(map[groupKey]int)
	for _, log := range sorted {
		start := log.Time
		if log.ShiftActualStart != nil {
			start = *log.ShiftActualStart
		}

		key := groupKey{employeeID: log.EmployeeID, actualStart: start.UnixNano()}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, CheckinGroup{EmployeeID: log.EmployeeID, ShiftActualStart: start})
		}
		groups[i].Logs = append(groups[i].Logs, log)
	}

	return groups
}

// ProcessAutoAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ProcessAutoAttendance(ctx context.Context, shiftTypeID string) (attendance.SyncReport, error) {
	st, err := a.shiftTypeRepo.GetByID(ctx, shiftTypeID)
	if err != nil {
		return attendance.SyncReport{}, err
	}

	report, err := a.runShiftType(ctx, st)
	a.metrics.ObserveSyncRun(err)
	return report, err
}

// ProcessAllShiftTypes implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ProcessAllShiftTypes(ctx context.Context) ([]attendance.SyncReport, error) {
	shiftTypes, err := a.shiftTypeRepo.ListAutoAttendanceEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift types: %w", err)
	}

	var (
		reports []attendance.SyncReport
		errs    []error
	)
	for _, st := range shiftTypes {
		if err := ctx.Err(); err != nil {
			return reports, err
		}

		report, err := a.runShiftType(ctx, st)
		a.metrics.ObserveSyncRun(err)
		if err != nil {
			slog.Error("Auto attendance failed", "shift_type_id", st.ID, "shift_type", st.Name, "error", err)
			errs = append(errs, fmt.Errorf("shift type %s: %w", st.Name, err))
			continue
		}
		reports = append(reports, report)
	}

	return reports, errors.Join(errs...)
}

// runShiftType processes one shift type while holding the attendance run
// lock, so scheduled, manual and repair runs never interleave.
func (a *AttendanceServiceImpl) runShiftType(ctx context.Context, st shift.ShiftType) (attendance.SyncReport, error) {
	var report attendance.SyncReport
	err := a.locker.WithLock(ctx, database.AttendanceRunLock, func(ctx context.Context) error {
		var err error
		report, err = a.processShiftType(ctx, st)
		return err
	})
	return report, err
}

func (a *AttendanceServiceImpl) processShiftType(ctx context.Context, st shift.ShiftType) (attendance.SyncReport, error) {
	report := attendance.SyncReport{
		RunID:       uuid.NewString(),
		ShiftTypeID: st.ID,
		Enabled:     st.EnableAutoAttendance,
		StartedAt:   a.now().UTC(),
	}
	if !st.EnableAutoAttendance {
		report.FinishedAt = report.StartedAt
		return report, nil
	}

	devices, err := a.deviceRepo.List(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list devices: %w", err)
	}

	for _, d := range devices {
		if !d.Ready() {
			report.DevicesSkipped++
			continue
		}
		if err := a.processDevice(ctx, st, d, &report); err != nil {
			return report, fmt.Errorf("device %s: %w", d.ID, err)
		}
		report.DevicesProcessed++
	}

	if err := a.markAbsentForShift(ctx, st, &report); err != nil {
		return report, err
	}

	report.FinishedAt = a.now().UTC()
	slog.Info("Auto attendance processed",
		"run_id", report.RunID,
		"shift_type_id", st.ID,
		"devices", report.DevicesProcessed,
		"groups", report.Groups,
		"created", report.Created,
		"skipped", report.Skipped,
		"duplicate_skipped", report.DuplicateSkipped,
		"absent_marked", report.AbsentMarked,
	)
	return report, nil
}

func (a *AttendanceServiceImpl) processDevice(ctx context.Context, st shift.ShiftType, d device.Device, report *attendance.SyncReport) error {
	logs, err := a.checkinRepo.ListUnprocessed(ctx, checkin.UnprocessedFilter{
		ShiftTypeID:          st.ID,
		DeviceID:             d.ID,
		TimeFrom:             *d.ProcessAttendanceAfter,
		ShiftActualEndBefore: *d.LastSyncOfCheckin,
	})
	if err != nil {
		return fmt.Errorf("failed to list checkins: %w", err)
	}

	for _, group := range GroupCheckins(logs) {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.Groups++

		result, err := Classify(st, group.Logs)
		if err != nil {
			return fmt.Errorf("failed to classify checkins of employee %s: %w", group.EmployeeID, err)
		}

		marked, err := a.MarkAttendanceAndLinkLogs(ctx, group.Logs, result, group.Date(), st.ID)
		if err != nil {
			return fmt.Errorf("failed to mark attendance of employee %s: %w", group.EmployeeID, err)
		}

		switch {
		case result.Status == attendance.StatusSkip:
			report.Skipped++
		case marked == nil:
			report.DuplicateSkipped++
		default:
			report.Created++
		}
	}

	return nil
}
