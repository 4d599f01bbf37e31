package employee

import (
	"context"
	"time"
)

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)

	// ListAssignedToShift returns active employees with a shift assignment for
	// shiftTypeID still running on or after from. With includeDefault, employees
	// whose default shift is shiftTypeID are added.
	ListAssignedToShift(ctx context.Context, shiftTypeID string, from time.Time, includeDefault bool) ([]Employee, error)

	// GetShiftTypeIDOn returns the shift type the employee works on date:
	// the submitted assignment covering the date, else the default shift, else nil.
	GetShiftTypeIDOn(ctx context.Context, employeeID string, date time.Time) (*string, error)
}
