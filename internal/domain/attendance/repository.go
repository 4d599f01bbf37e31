package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access and lifecycle methods for attendance records.
type AttendanceRepository interface {
	// Create inserts a draft attendance
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	GetByID(ctx context.Context, id string) (Attendance, error)

	// Submit moves a draft attendance to submitted
	Submit(ctx context.Context, id string) error

	// Cancel moves a submitted attendance to cancelled and unlinks its check-ins.
	// Fails with ErrCannotCancelDraft or ErrAttendanceReferenced when not allowed.
	Cancel(ctx context.Context, id string) error

	// Delete removes a draft or cancelled attendance
	Delete(ctx context.Context, id string) error

	// GetActiveByEmployeeAndDate returns the non-cancelled attendance for the date, or nil
	GetActiveByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// GetSubmittedByEmployeeAndDate returns the submitted attendance for the date, or nil
	GetSubmittedByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// ListMarkedDates returns dates in [from, to] that already carry a non-cancelled attendance
	ListMarkedDates(ctx context.Context, employeeID string, from time.Time, to time.Time) ([]time.Time, error)
}
