package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/biometric-sync/internal/domain/attendance"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type attendanceRepository struct {
	db *database.DB
}

const attendanceColumns = `
	id, employee_id, company_id, attendance_date, status, working_hours,
	late_entry, early_exit, in_time, out_time, shift_type_id, device_id,
	docstatus, created_at, updated_at`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	var status string
	var docStatus int16
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.CompanyID, &att.Date, &status, &att.WorkingHours,
		&att.LateEntry, &att.EarlyExit, &att.InTime, &att.OutTime, &att.ShiftTypeID, &att.DeviceID,
		&docStatus, &att.CreatedAt, &att.UpdatedAt,
	)
	att.Status = attendance.Status(status)
	att.DocStatus = attendance.DocStatus(docStatus)
	return att, err
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			employee_id, company_id, attendance_date, status, working_hours,
			late_entry, early_exit, in_time, out_time, shift_type_id, device_id, docstatus
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newAttendance.EmployeeID,
		newAttendance.CompanyID,
		newAttendance.Date,
		string(newAttendance.Status),
		newAttendance.WorkingHours,
		newAttendance.LateEntry,
		newAttendance.EarlyExit,
		newAttendance.InTime,
		newAttendance.OutTime,
		newAttendance.ShiftTypeID,
		newAttendance.DeviceID,
		int16(attendance.DocStatusDraft),
	).Scan(&newAttendance.ID, &newAttendance.CreatedAt, &newAttendance.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return attendance.Attendance{}, attendance.ErrDuplicateAttendance
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	newAttendance.DocStatus = attendance.DocStatusDraft
	return newAttendance, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE id = $1`

	att, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by ID: %w", err)
	}

	return att, nil
}

// Submit implements attendance.AttendanceRepository.
func (a *attendanceRepository) Submit(ctx context.Context, id string) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET docstatus = $1, updated_at = NOW()
		WHERE id = $2 AND docstatus = $3
	`

	tag, err := q.Exec(ctx, query, int16(attendance.DocStatusSubmitted), id, int16(attendance.DocStatusDraft))
	if err != nil {
		return fmt.Errorf("failed to submit attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := a.GetByID(ctx, id); err != nil {
			return err
		}
		return attendance.ErrAttendanceNotDraft
	}

	return nil
}

// Cancel implements attendance.AttendanceRepository.
func (a *attendanceRepository) Cancel(ctx context.Context, id string) error {
	q := GetQuerier(ctx, a.db)

	att, err := a.GetByID(ctx, id)
	if err != nil {
		return err
	}

	switch att.DocStatus {
	case attendance.DocStatusDraft:
		return attendance.ErrCannotCancelDraft
	case attendance.DocStatusCancelled:
		return attendance.ErrAlreadyCancelled
	}

	var referenced bool
	err = q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM attendance_references WHERE attendance_id = $1)`, id).Scan(&referenced)
	if err != nil {
		return fmt.Errorf("failed to check attendance references: %w", err)
	}
	if referenced {
		return attendance.ErrAttendanceReferenced
	}

	if _, err := q.Exec(ctx, `UPDATE attendances SET docstatus = $1, updated_at = NOW() WHERE id = $2`,
		int16(attendance.DocStatusCancelled), id); err != nil {
		return fmt.Errorf("failed to cancel attendance: %w", err)
	}

	if _, err := q.Exec(ctx, `
		UPDATE employee_checkins
		SET attendance_id = NULL, skip_auto_attendance = false
		WHERE attendance_id = $1
	`, id); err != nil {
		return fmt.Errorf("failed to unlink checkins from attendance: %w", err)
	}

	return nil
}

// Delete implements attendance.AttendanceRepository.
func (a *attendanceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, a.db)

	att, err := a.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if att.DocStatus == attendance.DocStatusSubmitted {
		return attendance.ErrCannotDeleteSubmitted
	}

	if _, err := q.Exec(ctx, `UPDATE employee_checkins SET attendance_id = NULL WHERE attendance_id = $1`, id); err != nil {
		return fmt.Errorf("failed to unlink checkins from attendance: %w", err)
	}

	commandTag, err := q.Exec(ctx, `DELETE FROM attendances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

func (a *attendanceRepository) getOneByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, where string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1
		  AND attendance_date = $2
		  AND ` + where + `
		ORDER BY created_at DESC
		LIMIT 1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No attendance found
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	return &att, nil
}

// GetActiveByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetActiveByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	return a.getOneByEmployeeAndDate(ctx, employeeID, date, "docstatus <> 2")
}

// GetSubmittedByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetSubmittedByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	return a.getOneByEmployeeAndDate(ctx, employeeID, date, "docstatus = 1")
}

// ListMarkedDates implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListMarkedDates(ctx context.Context, employeeID string, from time.Time, to time.Time) ([]time.Time, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT DISTINCT attendance_date
		FROM attendances
		WHERE employee_id = $1
		  AND attendance_date BETWEEN $2 AND $3
		  AND docstatus <> 2
		ORDER BY attendance_date
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query marked dates: %w", err)
	}

	dates, err := pgx.CollectRows(rows, pgx.RowTo[time.Time])
	if err != nil {
		return nil, fmt.Errorf("failed to scan marked dates: %w", err)
	}

	return dates, nil
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}
