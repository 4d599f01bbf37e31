package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/biometric-sync/internal/domain/shift"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type shiftTypeRepositoryImpl struct {
	db *database.DB
}

func NewShiftTypeRepository(db *database.DB) shift.ShiftTypeRepository {
	return &shiftTypeRepositoryImpl{db: db}
}

const shiftTypeColumns = `
	id, name, start_time, end_time, enable_auto_attendance, process_attendance_after,
	last_sync_of_checkin, determine_check_in_and_check_out, working_hours_calculation_based_on,
	begin_check_in_before_shift_start, allow_check_out_after_shift_end,
	enable_late_entry_marking, late_entry_grace_period,
	enable_early_exit_marking, early_exit_grace_period,
	working_hours_threshold_for_absent, working_hours_threshold_for_half_day,
	holiday_list_id, created_at, updated_at`

func scanShiftType(row pgx.Row) (shift.ShiftType, error) {
	var st shift.ShiftType
	var startTime, endTime pgtype.Time
	var checkInMode, hoursMode string

	err := row.Scan(
		&st.ID, &st.Name, &startTime, &endTime, &st.EnableAutoAttendance, &st.ProcessAttendanceAfter,
		&st.LastSyncOfCheckin, &checkInMode, &hoursMode,
		&st.BeginCheckInBeforeShiftStart, &st.AllowCheckOutAfterShiftEnd,
		&st.EnableLateEntryMarking, &st.LateEntryGracePeriod,
		&st.EnableEarlyExitMarking, &st.EarlyExitGracePeriod,
		&st.WorkingHoursThresholdForAbsent, &st.WorkingHoursThresholdForHalfDay,
		&st.HolidayListID, &st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		return shift.ShiftType{}, err
	}

	// TIME columns carry microseconds since midnight
	st.StartTime = time.Duration(startTime.Microseconds) * time.Microsecond
	st.EndTime = time.Duration(endTime.Microseconds) * time.Microsecond
	st.DetermineCheckInAndCheckOut = shift.CheckInMode(checkInMode)
	st.WorkingHoursCalculationBasedOn = shift.WorkingHoursMode(hoursMode)

	return st, nil
}

// GetByID implements shift.ShiftTypeRepository.
func (r *shiftTypeRepositoryImpl) GetByID(ctx context.Context, id string) (shift.ShiftType, error) {
	q := GetQuerier(ctx, r.db)

	st, err := scanShiftType(q.QueryRow(ctx, `SELECT `+shiftTypeColumns+` FROM shift_types WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ShiftType{}, shift.ErrShiftTypeNotFound
		}
		return shift.ShiftType{}, fmt.Errorf("failed to get shift type %s: %w", id, err)
	}

	return st, nil
}

// ListAutoAttendanceEnabled implements shift.ShiftTypeRepository.
func (r *shiftTypeRepositoryImpl) ListAutoAttendanceEnabled(ctx context.Context) ([]shift.ShiftType, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+shiftTypeColumns+` FROM shift_types WHERE enable_auto_attendance = true ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift types: %w", err)
	}
	defer rows.Close()

	var shiftTypes []shift.ShiftType
	for rows.Next() {
		st, err := scanShiftType(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift type: %w", err)
		}
		shiftTypes = append(shiftTypes, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shift types: %w", err)
	}

	return shiftTypes, nil
}

// UpdateLastSync implements shift.ShiftTypeRepository.
func (r *shiftTypeRepositoryImpl) UpdateLastSync(ctx context.Context, id string, lastSync time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_types
		SET last_sync_of_checkin = GREATEST(COALESCE(last_sync_of_checkin, $1), $1),
			updated_at = NOW()
		WHERE id = $2
	`

	tag, err := q.Exec(ctx, query, lastSync, id)
	if err != nil {
		return fmt.Errorf("failed to update last sync of shift type %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftTypeNotFound
	}

	return nil
}
