package checkin

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/biometric-sync/internal/pkg/validator"
)

// ========================================
// CHECKIN INGEST DTOs
// ========================================

type RecordLog struct {
	EmployeeID string `json:"employee_id"`
	LogType    string `json:"log_type"`
	Time       string `json:"time"` // RFC3339

	ParsedTime time.Time `json:"-"`
}

type RecordCheckinsRequest struct {
	DeviceID string      `json:"-"`
	Logs     []RecordLog `json:"logs"`
}

func (r *RecordCheckinsRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.DeviceID) {
		errs = append(errs, validator.ValidationError{
			Field:   "device_id",
			Message: "device_id is required",
		})
	}

	if len(r.Logs) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "logs",
			Message: "at least one log is required",
		})
	}

	for i := range r.Logs {
		log := &r.Logs[i]
		prefix := fmt.Sprintf("logs[%d]", i)

		if validator.IsEmpty(log.EmployeeID) {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + ".employee_id",
				Message: "employee_id is required",
			})
		}

		if log.LogType != "" && !validator.IsInSlice(log.LogType, []string{string(LogTypeIn), string(LogTypeOut)}) {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + ".log_type",
				Message: "log_type must be IN, OUT or empty",
			})
		}

		t, ok := validator.IsValidDateTime(log.Time)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + ".time",
				Message: "time must be an RFC3339 timestamp",
			})
			continue
		}
		log.ParsedTime = t.UTC()
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RecordCheckinsResponse struct {
	DeviceID          string  `json:"device_id"`
	Recorded          int     `json:"recorded"`
	WithoutShift      int     `json:"without_shift"`
	LastSyncOfCheckin *string `json:"last_sync_of_checkin,omitempty"`
}
