package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
	StatusHalfDay Status = "Half Day"
	StatusOnLeave Status = "On Leave"

	// StatusSkip is a classification outcome only. It is never stored on an
	// attendance record.
	StatusSkip Status = "Skip"
)

// DocStatus is the lifecycle state of an attendance document.
type DocStatus int

const (
	DocStatusDraft     DocStatus = 0
	DocStatusSubmitted DocStatus = 1
	DocStatusCancelled DocStatus = 2
)

type Attendance struct {
	ID           string
	EmployeeID   string
	CompanyID    string
	Date         time.Time
	Status       Status
	WorkingHours float64
	LateEntry    bool
	EarlyExit    bool
	InTime       *time.Time
	OutTime      *time.Time
	ShiftTypeID  *string
	DeviceID     *string
	DocStatus    DocStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Classification is the outcome of evaluating one employee's check-ins for
// one shift occurrence.
type Classification struct {
	Status       Status
	WorkingHours float64
	LateEntry    bool
	EarlyExit    bool
	InTime       *time.Time
	OutTime      *time.Time
}
