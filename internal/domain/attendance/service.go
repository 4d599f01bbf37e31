package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/biometric-sync/internal/domain/checkin"
)

// AttendanceService derives attendance from biometric check-ins
type AttendanceService interface {
	// ProcessAutoAttendance runs one device sync cycle for a shift type
	ProcessAutoAttendance(ctx context.Context, shiftTypeID string) (SyncReport, error)

	// ProcessAllShiftTypes runs a sync cycle for every shift type with auto attendance enabled
	ProcessAllShiftTypes(ctx context.Context) ([]SyncReport, error)

	// MarkAttendanceAndLinkLogs writes the attendance for a classified group of check-ins.
	// Returns nil attendance when the group was skipped.
	MarkAttendanceAndLinkLogs(ctx context.Context, logs []checkin.CheckIn, result Classification, date time.Time, shiftTypeID string) (*Attendance, error)

	// GetAttendance retrieves a single attendance with its linked check-ins
	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)
}
