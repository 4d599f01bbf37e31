package repair

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/biometric-sync/internal/domain/attendance"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/checkin"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/comment"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/repair"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/database"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/metrics"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/utils"
)

const (
	jobClearSkippedWindow = "clear_skipped_window"
	jobReconcileSkipped   = "reconcile_skipped_checkins"
)

type RepairServiceImpl struct {
	tx             database.Transactor
	locker         database.Locker
	checkinRepo    checkin.CheckinRepository
	attendanceRepo attendance.AttendanceRepository
	commentRepo    comment.CommentRepository
	metrics        *metrics.Metrics
}

// ClearSkippedWindow implements repair.RepairService.
func (r *RepairServiceImpl) ClearSkippedWindow(ctx context.Context, from time.Time, to time.Time) ([]repair.ItemResult, error) {
	var results []repair.ItemResult
	err := r.locker.WithLock(ctx, database.AttendanceRunLock, func(ctx context.Context) error {
		var err error
		results, err = r.clearSkippedWindow(ctx, from, to)
		return err
	})
	return results, err
}

func (r *RepairServiceImpl) clearSkippedWindow(ctx context.Context, from time.Time, to time.Time) ([]repair.ItemResult, error) {
	from = utils.DateOf(from)
	until := utils.DateOf(to).AddDate(0, 0, 1)
	if until.Before(from) {
		return nil, fmt.Errorf("window end %s is before start %s", utils.DateKey(to), utils.DateKey(from))
	}

	logs, err := r.checkinRepo.ListSkipped(ctx, checkin.SkippedFilter{From: from, To: &until})
	if err != nil {
		return nil, fmt.Errorf("failed to list skipped checkins: %w", err)
	}

	results := make([]repair.ItemResult, 0, len(logs))
	for _, log := range logs {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		item := repair.ItemResult{CheckinID: log.ID, Outcome: repair.OutcomeRepaired}
		err := r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			if err := r.checkinRepo.ClearSkipped(ctx, log.ID); err != nil {
				return err
			}

			att, err := r.attendanceRepo.GetSubmittedByEmployeeAndDate(ctx, log.EmployeeID, utils.DateOf(log.Time))
			if err != nil {
				return err
			}
			if att == nil {
				item.Message = "skip flag cleared"
				return nil
			}

			if err := r.attendanceRepo.Cancel(ctx, att.ID); err != nil {
				return fmt.Errorf("cancel attendance %s: %w", att.ID, err)
			}
			if err := r.attendanceRepo.Delete(ctx, att.ID); err != nil {
				return fmt.Errorf("delete attendance %s: %w", att.ID, err)
			}

			item.AttendanceID = &att.ID
			item.Message = fmt.Sprintf("skip flag cleared, attendance %s cancelled and deleted", att.ID)
			return nil
		})
		if err != nil {
			item = failed(log.ID, err)
		}

		results = append(results, r.record(jobClearSkippedWindow, item))
	}

	return results, nil
}

// ReconcileSkippedCheckins implements repair.RepairService.
func (r *RepairServiceImpl) ReconcileSkippedCheckins(ctx context.Context, since time.Time) ([]repair.ItemResult, error) {
	var results []repair.ItemResult
	err := r.locker.WithLock(ctx, database.AttendanceRunLock, func(ctx context.Context) error {
		var err error
		results, err = r.reconcileSkippedCheckins(ctx, since)
		return err
	})
	return results, err
}

func (r *RepairServiceImpl) reconcileSkippedCheckins(ctx context.Context, since time.Time) ([]repair.ItemResult, error) {
	logs, err := r.checkinRepo.ListSkipped(ctx, checkin.SkippedFilter{From: since})
	if err != nil {
		return nil, fmt.Errorf("failed to list skipped checkins: %w", err)
	}

	results := make([]repair.ItemResult, 0, len(logs))
	for _, log := range logs {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		item, err := r.reconcileCheckin(ctx, log)
		if err != nil {
			item = failed(log.ID, err)
		}

		results = append(results, r.record(jobReconcileSkipped, item))
	}

	return results, nil
}

func (r *RepairServiceImpl) reconcileCheckin(ctx context.Context, log checkin.CheckIn) (repair.ItemResult, error) {
	item := repair.ItemResult{CheckinID: log.ID}

	att, err := r.attendanceRepo.GetSubmittedByEmployeeAndDate(ctx, log.EmployeeID, attendanceDate(log))
	if err != nil {
		return item, err
	}
	if att == nil || att.Status == attendance.StatusAbsent {
		item.Outcome = repair.OutcomeSkipped
		item.Message = "no submitted attendance to reconcile with"
		return item, nil
	}

	err = r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := r.attendanceRepo.Cancel(ctx, att.ID); err != nil {
			return fmt.Errorf("cancel attendance %s: %w", att.ID, err)
		}

		content := fmt.Sprintf("Attendance %s cancelled for reprocessing", att.ID)
		if att.DeviceID != nil && *att.DeviceID != log.DeviceID {
			if err := r.checkinRepo.UpdateDeviceID(ctx, log.ID, *att.DeviceID); err != nil {
				return err
			}
			content = fmt.Sprintf("Device ID changed from %s to %s (attendance %s cancelled)", log.DeviceID, *att.DeviceID, att.ID)
		}

		if err := r.checkinRepo.ClearSkipped(ctx, log.ID); err != nil {
			return err
		}

		_, err := r.commentRepo.Create(ctx, comment.Comment{
			ReferenceType: comment.ReferenceCheckin,
			ReferenceID:   log.ID,
			Content:       content,
		})
		item.Message = content
		return err
	})
	if err != nil {
		return item, err
	}

	item.Outcome = repair.OutcomeRepaired
	item.AttendanceID = &att.ID
	return item, nil
}

func (r *RepairServiceImpl) record(job string, item repair.ItemResult) repair.ItemResult {
	r.metrics.ObserveRepair(job, string(item.Outcome))
	if item.Outcome == repair.OutcomeFailed {
		slog.Warn("Repair item failed", "job", job, "checkin_id", item.CheckinID, "error", item.Err)
	}
	return item
}

func failed(checkinID string, err error) repair.ItemResult {
	return repair.ItemResult{
		CheckinID: checkinID,
		Outcome:   repair.OutcomeFailed,
		Message:   err.Error(),
		Err:       err,
	}
}

// attendanceDate is the date the check-in counts towards: the day its shift
// occurrence starts, or the log date without a resolved shift.
func attendanceDate(log checkin.CheckIn) time.Time {
	if log.ShiftActualStart != nil {
		return utils.DateOf(*log.ShiftActualStart)
	}
	return utils.DateOf(log.Time)
}

func NewRepairService(
	tx database.Transactor,
	locker database.Locker,
	checkinRepo checkin.CheckinRepository,
	attendanceRepo attendance.AttendanceRepository,
	commentRepo comment.CommentRepository,
	m *metrics.Metrics,
) repair.RepairService {
	return &RepairServiceImpl{
		tx:             tx,
		locker:         locker,
		checkinRepo:    checkinRepo,
		attendanceRepo: attendanceRepo,
		commentRepo:    commentRepo,
		metrics:        m,
	}
}
