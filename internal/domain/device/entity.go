package device

import "time"

// Device is a biometric machine registered for attendance processing.
type Device struct {
	ID                     string
	Name                   string
	Enabled                bool
	LastSyncOfCheckin      *time.Time
	ProcessAttendanceAfter *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// Ready reports whether the device has both processing boundaries set.
func (d Device) Ready() bool {
	return d.Enabled && d.LastSyncOfCheckin != nil && d.ProcessAttendanceAfter != nil
}
