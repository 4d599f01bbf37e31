package repair

import (
	"context"
	"time"
)

// RepairService reconciles check-ins and attendance marked wrongly by earlier runs
type RepairService interface {
	// ClearSkippedWindow clears skip_auto_attendance on check-ins between from and
	// to (whole days, inclusive) and cancels and deletes the attendance marked
	// for the same employee and date.
	ClearSkippedWindow(ctx context.Context, from time.Time, to time.Time) ([]ItemResult, error)

	// ReconcileSkippedCheckins re-scans check-ins skipped since the given time and
	// folds them into the device of any submitted non-absent attendance.
	ReconcileSkippedCheckins(ctx context.Context, since time.Time) ([]ItemResult, error)
}
