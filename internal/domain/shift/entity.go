package shift

import (
	"time"
)

// CheckInMode decides how IN and OUT are read from a group of check-ins.
type CheckInMode string

const (
	// ModeAlternating treats the first log as IN and the last as OUT.
	ModeAlternating CheckInMode = "alternating"
	// ModeLogType uses the log type reported by the device.
	ModeLogType CheckInMode = "log_type"
)

// WorkingHoursMode decides how working hours are summed.
type WorkingHoursMode string

const (
	HoursFirstInLastOut WorkingHoursMode = "first_checkin_last_checkout"
	HoursEveryValidPair WorkingHoursMode = "every_valid_pair"
)

type ShiftType struct {
	ID   string
	Name string

	// Offsets from midnight
	StartTime time.Duration
	EndTime   time.Duration

	EnableAutoAttendance           bool
	ProcessAttendanceAfter         *time.Time
	LastSyncOfCheckin              *time.Time
	DetermineCheckInAndCheckOut    CheckInMode
	WorkingHoursCalculationBasedOn WorkingHoursMode

	// Minutes
	BeginCheckInBeforeShiftStart int
	AllowCheckOutAfterShiftEnd   int
	EnableLateEntryMarking       bool
	LateEntryGracePeriod         int
	EnableEarlyExitMarking       bool
	EarlyExitGracePeriod         int

	// Hours, zero disables the threshold
	WorkingHoursThresholdForAbsent  float64
	WorkingHoursThresholdForHalfDay float64

	HolidayListID *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Window is one occurrence of a shift on a given date.
type Window struct {
	Start       time.Time
	End         time.Time
	ActualStart time.Time
	ActualEnd   time.Time
}

// WindowOn returns the shift occurrence starting on date. Shifts whose end is
// not after their start run past midnight.
func (s ShiftType) WindowOn(date time.Time) Window {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	start := day.Add(s.StartTime)
	end := day.Add(s.EndTime)
	if s.EndTime <= s.StartTime {
		end = end.Add(24 * time.Hour)
	}

	return Window{
		Start:       start,
		End:         end,
		ActualStart: start.Add(-time.Duration(s.BeginCheckInBeforeShiftStart) * time.Minute),
		ActualEnd:   end.Add(time.Duration(s.AllowCheckOutAfterShiftEnd) * time.Minute),
	}
}

// Contains reports whether t falls within the actual window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.ActualStart) && !t.After(w.ActualEnd)
}

// Assignment pins an employee to a shift type for a date range.
type Assignment struct {
	ID          string
	EmployeeID  string
	ShiftTypeID string
	StartDate   time.Time
	EndDate     *time.Time
}
