package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/biometric-sync/internal/domain/attendance"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/auth"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/checkin"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/device"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/employee"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/shift"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/user"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")

	// Lookup errors
	case errors.Is(err, shift.ErrShiftTypeNotFound):
		NotFound(w, "Shift type not found")
	case errors.Is(err, device.ErrDeviceNotFound):
		NotFound(w, "Biometric device not found")
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance not found")
	case errors.Is(err, checkin.ErrCheckinNotFound):
		NotFound(w, "Checkin not found")

	// Attendance lifecycle errors
	case errors.Is(err, device.ErrDeviceDisabled):
		Conflict(w, "Biometric device is disabled")
	case errors.Is(err, attendance.ErrDuplicateAttendance):
		Conflict(w, "Attendance already marked for this employee and date")
	case errors.Is(err, attendance.ErrCannotCancelDraft),
		errors.Is(err, attendance.ErrAlreadyCancelled),
		errors.Is(err, attendance.ErrAttendanceReferenced),
		errors.Is(err, attendance.ErrCannotDeleteSubmitted),
		errors.Is(err, attendance.ErrAttendanceNotDraft):
		Conflict(w, err.Error())

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
