package employee

import (
	"time"
)

type Employee struct {
	ID                 string
	CompanyID          string
	EmployeeCode       string
	FullName           string
	EmploymentStatus   EmploymentStatus
	DefaultShiftTypeID *string
	HolidayListID      *string
	HireDate           *time.Time
	ResignationDate    *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive   EmploymentStatus = "active"
	EmploymentStatusInactive EmploymentStatus = "inactive"
)

// JoiningDate falls back to the record creation date when no hire date is set.
func (e Employee) JoiningDate() time.Time {
	if e.HireDate != nil {
		return *e.HireDate
	}
	return e.CreatedAt
}
