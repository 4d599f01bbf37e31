package http

import (
	"net/http"

	"github.com/cmlabs-hris/biometric-sync/internal/domain/attendance"
	"github.com/cmlabs-hris/biometric-sync/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	ProcessAutoAttendance(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// ProcessAutoAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) ProcessAutoAttendance(w http.ResponseWriter, r *http.Request) {
	shiftTypeID := chi.URLParam(r, "id")
	if shiftTypeID == "" {
		response.BadRequest(w, "Shift type ID is required", nil)
		return
	}

	report, err := h.attendanceService.ProcessAutoAttendance(r.Context(), shiftTypeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if !report.Enabled {
		response.SuccessWithMessage(w, "Auto attendance is not enabled for this shift type", report)
		return
	}

	response.SuccessWithMessage(w, "Auto attendance processed", report)
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Attendance ID is required", nil)
		return
	}

	result, err := h.attendanceService.GetAttendance(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
