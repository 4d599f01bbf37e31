package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/biometric-sync/internal/domain/employee"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

const employeeColumns = `
	e.id, e.company_id, e.employee_code, e.full_name, e.employment_status,
	e.default_shift_type_id, e.holiday_list_id, e.hire_date, e.resignation_date,
	e.created_at, e.updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	var status string
	err := row.Scan(
		&emp.ID, &emp.CompanyID, &emp.EmployeeCode, &emp.FullName, &status,
		&emp.DefaultShiftTypeID, &emp.HolidayListID, &emp.HireDate, &emp.ResignationDate,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	emp.EmploymentStatus = employee.EmploymentStatus(status)
	return emp, err
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees e WHERE e.id = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee with id %s: %w", id, err)
	}

	return emp, nil
}

// ListAssignedToShift implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListAssignedToShift(ctx context.Context, shiftTypeID string, from time.Time, includeDefault bool) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees e
		WHERE e.employment_status = $1
		  AND (
			EXISTS (
				SELECT 1 FROM shift_assignments sa
				WHERE sa.employee_id = e.id
				  AND sa.shift_type_id = $2
				  AND sa.docstatus = 1
				  AND (sa.end_date IS NULL OR sa.end_date >= $3)
			)
			OR ($4 AND e.default_shift_type_id = $2)
		  )
		ORDER BY e.id
	`

	rows, err := q.Query(ctx, query, string(employee.EmploymentStatusActive), shiftTypeID, from, includeDefault)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees assigned to shift type %s: %w", shiftTypeID, err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employees: %w", err)
	}

	return employees, nil
}

// GetShiftTypeIDOn implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetShiftTypeIDOn(ctx context.Context, employeeID string, date time.Time) (*string, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT COALESCE(
			(
				SELECT sa.shift_type_id FROM shift_assignments sa
				WHERE sa.employee_id = e.id
				  AND sa.docstatus = 1
				  AND sa.start_date <= $2
				  AND (sa.end_date IS NULL OR sa.end_date >= $2)
				ORDER BY sa.start_date DESC
				LIMIT 1
			),
			e.default_shift_type_id
		)
		FROM employees e
		WHERE e.id = $1
	`

	var shiftTypeID *string
	err := q.QueryRow(ctx, query, employeeID, date).Scan(&shiftTypeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to resolve shift type for employee %s: %w", employeeID, err)
	}

	return shiftTypeID, nil
}
