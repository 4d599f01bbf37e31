package attendance

import (
	"time"
)

// SyncReport summarises one auto attendance cycle for a shift type.
type SyncReport struct {
	RunID            string    `json:"run_id"`
	ShiftTypeID      string    `json:"shift_type_id"`
	Enabled          bool      `json:"enabled"`
	DevicesProcessed int       `json:"devices_processed"`
	DevicesSkipped   int       `json:"devices_skipped"`
	Groups           int       `json:"groups"`
	Created          int       `json:"created"`
	Skipped          int       `json:"skipped"`
	DuplicateSkipped int       `json:"duplicate_skipped"`
	AbsentMarked     int       `json:"absent_marked"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at"`
}

type AttendanceResponse struct {
	ID           string   `json:"id"`
	EmployeeID   string   `json:"employee_id"`
	Date         string   `json:"date"`
	Status       string   `json:"status"`
	WorkingHours float64  `json:"working_hours"`
	LateEntry    bool     `json:"late_entry"`
	EarlyExit    bool     `json:"early_exit"`
	InTime       *string  `json:"in_time,omitempty"`
	OutTime      *string  `json:"out_time,omitempty"`
	ShiftTypeID  *string  `json:"shift_type_id,omitempty"`
	DeviceID     *string  `json:"device_id,omitempty"`
	DocStatus    int      `json:"docstatus"`
	CheckinIDs   []string `json:"checkin_ids,omitempty"`
}
