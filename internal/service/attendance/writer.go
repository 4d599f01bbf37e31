package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/biometric-sync/internal/domain/attendance"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/checkin"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/comment"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/utils"
)

const (
	absentThresholdComment = "Employee was marked Absent for not meeting the working hours threshold."
	duplicateSkipComment   = "Auto Attendance skipped due to duplicate attendance record: %s"
)

// MarkAttendanceAndLinkLogs implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) MarkAttendanceAndLinkLogs(
	ctx context.Context,
	logs []checkin.CheckIn,
	result attendance.Classification,
	date time.Time,
	shiftTypeID string,
) (*attendance.Attendance, error) {
	if len(logs) == 0 {
		return nil, attendance.ErrEmptyCheckinGroup
	}

	ids := make([]string, len(logs))
	for i, log := range logs {
		ids[i] = log.ID
	}

	switch result.Status {
	case attendance.StatusSkip:
		if err := a.checkinRepo.MarkSkipped(ctx, ids); err != nil {
			return nil, fmt.Errorf("failed to skip checkins: %w", err)
		}
		a.metrics.ObserveSkipped("unclassifiable", len(ids))
		return nil, nil
	case attendance.StatusPresent, attendance.StatusAbsent, attendance.StatusHalfDay:
	default:
		return nil, fmt.Errorf("%w: %q", attendance.ErrInvalidAttendanceStatus, result.Status)
	}

	employeeID := logs[0].EmployeeID
	deviceID := logs[0].DeviceID
	date = utils.DateOf(date)

	var marked *attendance.Attendance
	err := a.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		marked = nil
		linkIDs := ids
		classification := result

		duplicate, err := a.attendanceRepo.GetActiveByEmployeeAndDate(ctx, employeeID, date)
		if err != nil {
			return fmt.Errorf("failed to look up existing attendance: %w", err)
		}

		if duplicate != nil {
			previous, err := a.checkinRepo.ListByAttendance(ctx, duplicate.ID)
			if err != nil {
				return fmt.Errorf("failed to list checkins of attendance %s: %w", duplicate.ID, err)
			}

			cancelErr := a.tx.WithinTransaction(ctx, func(ctx context.Context) error {
				return a.attendanceRepo.Cancel(ctx, duplicate.ID)
			})
			if cancelErr != nil {
				slog.Warn("Duplicate attendance could not be cancelled, skipping checkins",
					"attendance_id", duplicate.ID,
					"employee_id", employeeID,
					"date", date.Format("2006-01-02"),
					"error", cancelErr,
				)
				return a.skipForDuplicate(ctx, ids, duplicate.ID)
			}

			// The replaced record's check-ins move to the new record so they
			// do not return to the unprocessed pool.
			if len(previous) > 0 {
				classification, err = a.reclassifyWith(ctx, shiftTypeID, logs, previous, result)
				if err != nil {
					return err
				}
				linkIDs = make([]string, 0, len(ids)+len(previous))
				linkIDs = append(linkIDs, ids...)
				for _, log := range previous {
					linkIDs = append(linkIDs, log.ID)
				}
			}
		}

		emp, err := a.employeeRepo.GetByID(ctx, employeeID)
		if err != nil {
			return fmt.Errorf("failed to get employee %s: %w", employeeID, err)
		}

		created, err := a.attendanceRepo.Create(ctx, attendance.Attendance{
			EmployeeID:   employeeID,
			CompanyID:    emp.CompanyID,
			Date:         date,
			Status:       classification.Status,
			WorkingHours: classification.WorkingHours,
			LateEntry:    classification.LateEntry,
			EarlyExit:    classification.EarlyExit,
			InTime:       classification.InTime,
			OutTime:      classification.OutTime,
			ShiftTypeID:  &shiftTypeID,
			DeviceID:     &deviceID,
		})
		if err != nil {
			return fmt.Errorf("failed to create attendance: %w", err)
		}

		if err := a.attendanceRepo.Submit(ctx, created.ID); err != nil {
			return fmt.Errorf("failed to submit attendance: %w", err)
		}
		created.DocStatus = attendance.DocStatusSubmitted

		if classification.Status == attendance.StatusAbsent {
			if _, err := a.commentRepo.Create(ctx, comment.Comment{
				ReferenceType: comment.ReferenceAttendance,
				ReferenceID:   created.ID,
				Content:       absentThresholdComment,
			}); err != nil {
				return fmt.Errorf("failed to comment on absent attendance: %w", err)
			}
		}

		if err := a.checkinRepo.LinkAttendance(ctx, linkIDs, created.ID); err != nil {
			return fmt.Errorf("failed to link checkins: %w", err)
		}

		marked = &created
		return nil
	})
	if errors.Is(err, attendance.ErrDuplicateAttendance) {
		// Another writer marked the day between the lookup and the insert.
		// Everything above was rolled back; treat it like a duplicate that
		// cannot be cancelled.
		marked = nil
		err = a.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			current, err := a.attendanceRepo.GetActiveByEmployeeAndDate(ctx, employeeID, date)
			if err != nil {
				return fmt.Errorf("failed to look up existing attendance: %w", err)
			}
			currentID := ""
			if current != nil {
				currentID = current.ID
			}
			slog.Warn("Attendance was marked concurrently, skipping checkins",
				"attendance_id", currentID,
				"employee_id", employeeID,
				"date", date.Format("2006-01-02"),
			)
			return a.skipForDuplicate(ctx, ids, currentID)
		})
	}
	if err != nil {
		return nil, err
	}

	if marked != nil {
		a.metrics.ObserveAttendance(string(marked.Status))
	} else {
		a.metrics.ObserveSkipped("duplicate", len(ids))
	}
	return marked, nil
}

// reclassifyWith classifies the group together with the check-ins of the
// attendance it replaces. The group's own result stands when the merged
// logs cannot be classified.
func (a *AttendanceServiceImpl) reclassifyWith(
	ctx context.Context,
	shiftTypeID string,
	logs []checkin.CheckIn,
	previous []checkin.CheckIn,
	fallback attendance.Classification,
) (attendance.Classification, error) {
	st, err := a.shiftTypeRepo.GetByID(ctx, shiftTypeID)
	if err != nil {
		return attendance.Classification{}, fmt.Errorf("failed to get shift type %s: %w", shiftTypeID, err)
	}

	merged := make([]checkin.CheckIn, 0, len(logs)+len(previous))
	merged = append(merged, logs...)
	merged = append(merged, previous...)

	result, err := Classify(st, merged)
	if err != nil || result.Status == attendance.StatusSkip {
		return fallback, nil
	}
	return result, nil
}

func (a *AttendanceServiceImpl) skipForDuplicate(ctx context.Context, ids []string, duplicateID string) error {
	if err := a.checkinRepo.MarkSkipped(ctx, ids); err != nil {
		return fmt.Errorf("failed to skip checkins: %w", err)
	}

	content := fmt.Sprintf(duplicateSkipComment, duplicateID)
	for _, id := range ids {
		if _, err := a.commentRepo.Create(ctx, comment.Comment{
			ReferenceType: comment.ReferenceCheckin,
			ReferenceID:   id,
			Content:       content,
		}); err != nil {
			return fmt.Errorf("failed to comment on checkin %s: %w", id, err)
		}
	}
	return nil
}
