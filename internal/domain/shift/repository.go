package shift

import (
	"context"
	"time"
)

type ShiftTypeRepository interface {
	GetByID(ctx context.Context, id string) (ShiftType, error)

	// ListAutoAttendanceEnabled returns shift types with enable_auto_attendance set
	ListAutoAttendanceEnabled(ctx context.Context) ([]ShiftType, error)

	// UpdateLastSync advances last_sync_of_checkin; it never moves it backwards
	UpdateLastSync(ctx context.Context, id string, lastSync time.Time) error
}
