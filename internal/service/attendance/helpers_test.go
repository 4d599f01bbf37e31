package attendance

import (
	"time"

	"github.com/cmlabs-hris/biometric-sync/internal/domain/checkin"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/shift"
	"github.com/cmlabs-hris/biometric-sync/internal/repository/memory"
)

var fixedNow = time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

func newTestService(store *memory.Store) *AttendanceServiceImpl {
	svc := NewAttendanceService(
		store,
		store,
		store.Attendances(),
		store.Checkins(),
		store.Devices(),
		store.ShiftTypes(),
		store.Employees(),
		store.Holidays(),
		store.Comments(),
		nil,
	).(*AttendanceServiceImpl)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func dayShift() shift.ShiftType {
	return shift.ShiftType{
		ID:                             "shift-day",
		Name:                           "Day",
		StartTime:                      9 * time.Hour,
		EndTime:                        18 * time.Hour,
		EnableAutoAttendance:           true,
		DetermineCheckInAndCheckOut:    shift.ModeAlternating,
		WorkingHoursCalculationBasedOn: shift.HoursFirstInLastOut,
		BeginCheckInBeforeShiftStart:   60,
		AllowCheckOutAfterShiftEnd:     60,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(date time.Time, hour, minute int) time.Time {
	return date.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// logFor builds a check-in carrying the window of the shift occurrence on date.
func logFor(st shift.ShiftType, employeeID, deviceID string, date time.Time, t time.Time, logType checkin.LogType) checkin.CheckIn {
	w := st.WindowOn(date)
	shiftTypeID := st.ID
	return checkin.CheckIn{
		EmployeeID:       employeeID,
		DeviceID:         deviceID,
		LogType:          logType,
		Time:             t,
		ShiftTypeID:      &shiftTypeID,
		ShiftStart:       &w.Start,
		ShiftEnd:         &w.End,
		ShiftActualStart: &w.ActualStart,
		ShiftActualEnd:   &w.ActualEnd,
	}
}
