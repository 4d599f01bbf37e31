package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/biometric-sync/internal/domain/attendance"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/checkin"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/comment"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/device"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/employee"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/holiday"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/shift"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/user"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/database"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/metrics"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/utils"
	"github.com/go-chi/jwtauth/v5"
)

type AttendanceServiceImpl struct {
	tx             database.Transactor
	locker         database.Locker
	attendanceRepo attendance.AttendanceRepository
	checkinRepo    checkin.CheckinRepository
	deviceRepo     device.DeviceRepository
	shiftTypeRepo  shift.ShiftTypeRepository
	employeeRepo   employee.EmployeeRepository
	holidayRepo    holiday.HolidayRepository
	commentRepo    comment.CommentRepository
	metrics        *metrics.Metrics
	now            func() time.Time
}

// GetAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return attendance.AttendanceResponse{}, fmt.Errorf("company_id claim is missing or invalid: %w", user.ErrInsufficientPermissions)
	}

	att, err := a.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	// records of other companies are reported as missing
	if att.CompanyID != companyID {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
	}

	logs, err := a.checkinRepo.ListByAttendance(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to list linked checkins: %w", err)
	}

	resp := mapAttendanceToResponse(att)
	for _, log := range logs {
		resp.CheckinIDs = append(resp.CheckinIDs, log.ID)
	}
	return resp, nil
}

func mapAttendanceToResponse(att attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:           att.ID,
		EmployeeID:   att.EmployeeID,
		Date:         att.Date.Format("2006-01-02"),
		Status:       string(att.Status),
		WorkingHours: att.WorkingHours,
		LateEntry:    att.LateEntry,
		EarlyExit:    att.EarlyExit,
		InTime:       utils.TimePtrToString(att.InTime),
		OutTime:      utils.TimePtrToString(att.OutTime),
		ShiftTypeID:  att.ShiftTypeID,
		DeviceID:     att.DeviceID,
		DocStatus:    int(att.DocStatus),
	}
}

func NewAttendanceService(
	tx database.Transactor,
	locker database.Locker,
	attendanceRepo attendance.AttendanceRepository,
	checkinRepo checkin.CheckinRepository,
	deviceRepo device.DeviceRepository,
	shiftTypeRepo shift.ShiftTypeRepository,
	employeeRepo employee.EmployeeRepository,
	holidayRepo holiday.HolidayRepository,
	commentRepo comment.CommentRepository,
	m *metrics.Metrics,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:             tx,
		locker:         locker,
		attendanceRepo: attendanceRepo,
		checkinRepo:    checkinRepo,
		deviceRepo:     deviceRepo,
		shiftTypeRepo:  shiftTypeRepo,
		employeeRepo:   employeeRepo,
		holidayRepo:    holidayRepo,
		commentRepo:    commentRepo,
		metrics:        m,
		now:            time.Now,
	}
}
