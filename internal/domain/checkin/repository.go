package checkin

import (
	"context"
	"time"
)

// UnprocessedFilter selects check-ins still waiting for auto attendance on
// one device and one shift type.
type UnprocessedFilter struct {
	ShiftTypeID          string
	DeviceID             string
	TimeFrom             time.Time
	ShiftActualEndBefore time.Time
}

// SkippedFilter selects check-ins flagged skip_auto_attendance. To is exclusive.
type SkippedFilter struct {
	From time.Time
	To   *time.Time
}

type CheckinRepository interface {
	Create(ctx context.Context, c CheckIn) (CheckIn, error)
	GetByID(ctx context.Context, id string) (CheckIn, error)

	// ListUnprocessed returns non-skipped, unlinked check-ins ordered by employee and time.
	ListUnprocessed(ctx context.Context, filter UnprocessedFilter) ([]CheckIn, error)

	// ListSkipped returns skipped check-ins ordered by time.
	ListSkipped(ctx context.Context, filter SkippedFilter) ([]CheckIn, error)

	// ListByAttendance returns check-ins linked to an attendance.
	ListByAttendance(ctx context.Context, attendanceID string) ([]CheckIn, error)

	MarkSkipped(ctx context.Context, ids []string) error
	ClearSkipped(ctx context.Context, id string) error
	LinkAttendance(ctx context.Context, ids []string, attendanceID string) error
	UpdateDeviceID(ctx context.Context, id string, deviceID string) error
}
