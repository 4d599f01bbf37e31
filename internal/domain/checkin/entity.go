package checkin

import (
	"time"
)

type LogType string

const (
	LogTypeIn  LogType = "IN"
	LogTypeOut LogType = "OUT"
)

// CheckIn is a single biometric scan as reported by a device.
type CheckIn struct {
	ID                 string
	EmployeeID         string
	DeviceID           string
	LogType            LogType
	Time               time.Time
	ShiftTypeID        *string
	ShiftStart         *time.Time
	ShiftEnd           *time.Time
	ShiftActualStart   *time.Time
	ShiftActualEnd     *time.Time
	SkipAutoAttendance bool
	AttendanceID       *string
	CreatedAt          time.Time
}
