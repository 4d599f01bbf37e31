package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/biometric-sync/internal/domain/checkin"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type checkinRepository struct {
	db *database.DB
}

const checkinColumns = `
	id, employee_id, device_id, log_type, time, shift_type_id,
	shift_start, shift_end, shift_actual_start, shift_actual_end,
	skip_auto_attendance, attendance_id, created_at`

func scanCheckin(row pgx.Row) (checkin.CheckIn, error) {
	var c checkin.CheckIn
	var logType string
	err := row.Scan(
		&c.ID, &c.EmployeeID, &c.DeviceID, &logType, &c.Time, &c.ShiftTypeID,
		&c.ShiftStart, &c.ShiftEnd, &c.ShiftActualStart, &c.ShiftActualEnd,
		&c.SkipAutoAttendance, &c.AttendanceID, &c.CreatedAt,
	)
	c.LogType = checkin.LogType(logType)
	return c, err
}

func collectCheckins(rows pgx.Rows) ([]checkin.CheckIn, error) {
	defer rows.Close()

	var checkins []checkin.CheckIn
	for rows.Next() {
		c, err := scanCheckin(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan checkin: %w", err)
		}
		checkins = append(checkins, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate checkins: %w", err)
	}

	return checkins, nil
}

// Create implements checkin.CheckinRepository.
func (r *checkinRepository) Create(ctx context.Context, c checkin.CheckIn) (checkin.CheckIn, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employee_checkins (
			employee_id, device_id, log_type, time, shift_type_id,
			shift_start, shift_end, shift_actual_start, shift_actual_end,
			skip_auto_attendance
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		c.EmployeeID,
		c.DeviceID,
		string(c.LogType),
		c.Time,
		c.ShiftTypeID,
		c.ShiftStart,
		c.ShiftEnd,
		c.ShiftActualStart,
		c.ShiftActualEnd,
		c.SkipAutoAttendance,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return checkin.CheckIn{}, fmt.Errorf("failed to create checkin: %w", err)
	}

	return c, nil
}

// GetByID implements checkin.CheckinRepository.
func (r *checkinRepository) GetByID(ctx context.Context, id string) (checkin.CheckIn, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + checkinColumns + ` FROM employee_checkins WHERE id = $1`

	c, err := scanCheckin(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return checkin.CheckIn{}, checkin.ErrCheckinNotFound
		}
		return checkin.CheckIn{}, fmt.Errorf("failed to get checkin by ID: %w", err)
	}

	return c, nil
}

// ListUnprocessed implements checkin.CheckinRepository.
func (r *checkinRepository) ListUnprocessed(ctx context.Context, filter checkin.UnprocessedFilter) ([]checkin.CheckIn, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + checkinColumns + `
		FROM employee_checkins
		WHERE skip_auto_attendance = false
		  AND attendance_id IS NULL
		  AND time >= $1
		  AND shift_actual_end < $2
		  AND shift_type_id = $3
		  AND device_id = $4
		ORDER BY employee_id, time
	`

	rows, err := q.Query(ctx, query, filter.TimeFrom, filter.ShiftActualEndBefore, filter.ShiftTypeID, filter.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query unprocessed checkins: %w", err)
	}

	return collectCheckins(rows)
}

// ListSkipped implements checkin.CheckinRepository.
func (r *checkinRepository) ListSkipped(ctx context.Context, filter checkin.SkippedFilter) ([]checkin.CheckIn, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "skip_auto_attendance = true AND time >= $1"
	args := []interface{}{filter.From}

	if filter.To != nil {
		baseWhere += " AND time < $2"
		args = append(args, *filter.To)
	}

	query := `SELECT ` + checkinColumns + ` FROM employee_checkins WHERE ` + baseWhere + ` ORDER BY time, id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query skipped checkins: %w", err)
	}

	return collectCheckins(rows)
}

// ListByAttendance implements checkin.CheckinRepository.
func (r *checkinRepository) ListByAttendance(ctx context.Context, attendanceID string) ([]checkin.CheckIn, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + checkinColumns + ` FROM employee_checkins WHERE attendance_id = $1 ORDER BY time`

	rows, err := q.Query(ctx, query, attendanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query checkins by attendance: %w", err)
	}

	return collectCheckins(rows)
}

// MarkSkipped implements checkin.CheckinRepository.
func (r *checkinRepository) MarkSkipped(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return checkin.ErrNoCheckinIDs
	}
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `UPDATE employee_checkins SET skip_auto_attendance = true WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("failed to mark checkins skipped: %w", err)
	}

	return nil
}

// ClearSkipped implements checkin.CheckinRepository.
func (r *checkinRepository) ClearSkipped(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE employee_checkins SET skip_auto_attendance = false WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to clear checkin skip flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return checkin.ErrCheckinNotFound
	}

	return nil
}

// LinkAttendance implements checkin.CheckinRepository.
func (r *checkinRepository) LinkAttendance(ctx context.Context, ids []string, attendanceID string) error {
	if len(ids) == 0 {
		return checkin.ErrNoCheckinIDs
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE employee_checkins SET attendance_id = $1 WHERE id = ANY($2)`, attendanceID, ids)
	if err != nil {
		return fmt.Errorf("failed to link checkins to attendance: %w", err)
	}
	if int(tag.RowsAffected()) != len(ids) {
		return fmt.Errorf("linked %d of %d checkins (%s): %w",
			tag.RowsAffected(), len(ids), strings.Join(ids, ","), checkin.ErrCheckinNotFound)
	}

	return nil
}

// UpdateDeviceID implements checkin.CheckinRepository.
func (r *checkinRepository) UpdateDeviceID(ctx context.Context, id string, deviceID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE employee_checkins SET device_id = $1 WHERE id = $2`, deviceID, id)
	if err != nil {
		return fmt.Errorf("failed to update checkin device: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return checkin.ErrCheckinNotFound
	}

	return nil
}

func NewCheckinRepository(db *database.DB) checkin.CheckinRepository {
	return &checkinRepository{db: db}
}
