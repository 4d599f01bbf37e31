package attendance

import "errors"

// Attendance domain errors
var (
	ErrAttendanceNotFound      = errors.New("attendance record not found")
	ErrDuplicateAttendance     = errors.New("attendance already marked for this employee and date")
	ErrInvalidAttendanceStatus = errors.New("invalid attendance status")
	ErrEmptyCheckinGroup       = errors.New("cannot classify an empty checkin group")

	// Lifecycle errors
	ErrCannotCancelDraft     = errors.New("cannot cancel an attendance that was never submitted")
	ErrAlreadyCancelled      = errors.New("attendance is already cancelled")
	ErrAttendanceReferenced  = errors.New("attendance is referenced by another document")
	ErrCannotDeleteSubmitted = errors.New("submitted attendance must be cancelled before deletion")
	ErrAttendanceNotDraft    = errors.New("only draft attendance can be submitted")
)
