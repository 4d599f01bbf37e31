package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/biometric-sync/internal/domain/attendance"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/checkin"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/device"
	"github.com/cmlabs-hris/biometric-sync/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPresent(employeeID string, day time.Time) attendance.Attendance {
	in := day.Add(9 * time.Hour)
	out := day.Add(18 * time.Hour)
	return attendance.Attendance{
		EmployeeID:   employeeID,
		CompanyID:    "company-1",
		Date:         day,
		Status:       attendance.StatusPresent,
		WorkingHours: 9,
		InTime:       &in,
		OutTime:      &out,
	}
}

func TestAttendanceRepository_Lifecycle(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)

	employeeID := setup.createEmployee(t, "EMP-001", nil)
	day := date(2024, 3, 4)

	created, err := repo.Create(ctx, newPresent(employeeID, day))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, attendance.DocStatusDraft, created.DocStatus)

	t.Run("draft cannot be cancelled", func(t *testing.T) {
		err := repo.Cancel(ctx, created.ID)
		assert.ErrorIs(t, err, attendance.ErrCannotCancelDraft)
	})

	t.Run("second active record is rejected", func(t *testing.T) {
		_, err := repo.Create(ctx, newPresent(employeeID, day))
		assert.ErrorIs(t, err, attendance.ErrDuplicateAttendance)
	})

	require.NoError(t, repo.Submit(ctx, created.ID))
	assert.ErrorIs(t, repo.Submit(ctx, created.ID), attendance.ErrAttendanceNotDraft)

	submitted, err := repo.GetSubmittedByEmployeeAndDate(ctx, employeeID, day)
	require.NoError(t, err)
	require.NotNil(t, submitted)
	assert.Equal(t, created.ID, submitted.ID)
	assert.InDelta(t, 9.0, submitted.WorkingHours, 0.0001)

	assert.ErrorIs(t, repo.Delete(ctx, created.ID), attendance.ErrCannotDeleteSubmitted)

	require.NoError(t, repo.Cancel(ctx, created.ID))
	assert.ErrorIs(t, repo.Cancel(ctx, created.ID), attendance.ErrAlreadyCancelled)

	active, err := repo.GetActiveByEmployeeAndDate(ctx, employeeID, day)
	require.NoError(t, err)
	assert.Nil(t, active)

	// a cancelled record frees the date
	_, err = repo.Create(ctx, newPresent(employeeID, day))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestAttendanceRepository_CancelReferenced(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)

	employeeID := setup.createEmployee(t, "EMP-002", nil)
	created, err := repo.Create(ctx, newPresent(employeeID, date(2024, 3, 5)))
	require.NoError(t, err)
	require.NoError(t, repo.Submit(ctx, created.ID))

	_, err = setup.DB.Exec(ctx, `
		INSERT INTO attendance_references (attendance_id, reference_type, reference_id)
		VALUES ($1, 'salary_slip', 'SAL-0001')
	`, created.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, repo.Cancel(ctx, created.ID), attendance.ErrAttendanceReferenced)
}

func TestCheckinRepository_LinkAndCancel(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	checkins := postgresql.NewCheckinRepository(setup.DB)
	attendances := postgresql.NewAttendanceRepository(setup.DB)
	tx := postgresql.NewTransactor(setup.DB)

	shiftTypeID := setup.createShiftType(t, "Day")
	employeeID := setup.createEmployee(t, "EMP-003", &shiftTypeID)
	day := date(2024, 3, 6)
	actualStart := day.Add(8 * time.Hour)
	actualEnd := day.Add(19 * time.Hour)

	var ids []string
	for _, at := range []time.Duration{9 * time.Hour, 18 * time.Hour} {
		c, err := checkins.Create(ctx, checkin.CheckIn{
			EmployeeID:       employeeID,
			DeviceID:         "DEV-1",
			Time:             day.Add(at),
			ShiftTypeID:      &shiftTypeID,
			ShiftActualStart: &actualStart,
			ShiftActualEnd:   &actualEnd,
		})
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}

	unprocessed, err := checkins.ListUnprocessed(ctx, checkin.UnprocessedFilter{
		ShiftTypeID:          shiftTypeID,
		DeviceID:             "DEV-1",
		TimeFrom:             day,
		ShiftActualEndBefore: day.Add(24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Len(t, unprocessed, 2)

	var attendanceID string
	err = tx.WithinTransaction(ctx, func(ctx context.Context) error {
		att, err := attendances.Create(ctx, newPresent(employeeID, day))
		if err != nil {
			return err
		}
		if err := attendances.Submit(ctx, att.ID); err != nil {
			return err
		}
		attendanceID = att.ID
		return checkins.LinkAttendance(ctx, ids, att.ID)
	})
	require.NoError(t, err)

	linked, err := checkins.ListByAttendance(ctx, attendanceID)
	require.NoError(t, err)
	assert.Len(t, linked, 2)

	require.NoError(t, attendances.Cancel(ctx, attendanceID))

	linked, err = checkins.ListByAttendance(ctx, attendanceID)
	require.NoError(t, err)
	assert.Empty(t, linked)

	require.NoError(t, checkins.MarkSkipped(ctx, ids))
	skipped, err := checkins.ListSkipped(ctx, checkin.SkippedFilter{From: day})
	require.NoError(t, err)
	assert.Len(t, skipped, 2)

	require.NoError(t, checkins.ClearSkipped(ctx, ids[0]))
	skipped, err = checkins.ListSkipped(ctx, checkin.SkippedFilter{From: day})
	require.NoError(t, err)
	assert.Len(t, skipped, 1)
}

func TestTransaction_SavepointRollback(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	attendances := postgresql.NewAttendanceRepository(setup.DB)
	tx := postgresql.NewTransactor(setup.DB)

	employeeID := setup.createEmployee(t, "EMP-004", nil)
	day := date(2024, 3, 7)

	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		draft, err := attendances.Create(ctx, newPresent(employeeID, day))
		if err != nil {
			return err
		}

		// the nested failure is rolled back to its savepoint only
		nestedErr := tx.WithinTransaction(ctx, func(ctx context.Context) error {
			return attendances.Cancel(ctx, draft.ID)
		})
		assert.ErrorIs(t, nestedErr, attendance.ErrCannotCancelDraft)

		return attendances.Submit(ctx, draft.ID)
	})
	require.NoError(t, err)

	active, err := attendances.GetActiveByEmployeeAndDate(ctx, employeeID, day)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, attendance.DocStatusSubmitted, active.DocStatus)
}

func TestEmployeeRepository_GetShiftTypeIDOn(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	employees := postgresql.NewEmployeeRepository(setup.DB)

	dayShift := setup.createShiftType(t, "Day")
	nightShift := setup.createShiftType(t, "Night")
	employeeID := setup.createEmployee(t, "EMP-005", &dayShift)

	_, err := setup.DB.Exec(ctx, `
		INSERT INTO shift_assignments (employee_id, shift_type_id, start_date, end_date)
		VALUES ($1, $2, '2024-03-10', '2024-03-12')
	`, employeeID, nightShift)
	require.NoError(t, err)

	got, err := employees.GetShiftTypeIDOn(ctx, employeeID, date(2024, 3, 11))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, nightShift, *got)

	got, err = employees.GetShiftTypeIDOn(ctx, employeeID, date(2024, 3, 13))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, dayShift, *got)

	assigned, err := employees.ListAssignedToShift(ctx, nightShift, date(2024, 3, 1), true)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, employeeID, assigned[0].ID)
}

func TestDeviceRepository_UpdateLastSyncNeverMovesBack(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	devices := postgresql.NewDeviceRepository(setup.DB)

	lastSync := time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)
	setup.createDevice(t, "DEV-9", lastSync)

	require.NoError(t, devices.UpdateLastSync(ctx, "DEV-9", lastSync.Add(-time.Hour)))
	d, err := devices.GetByID(ctx, "DEV-9")
	require.NoError(t, err)
	assert.True(t, d.LastSyncOfCheckin.Equal(lastSync))

	require.NoError(t, devices.UpdateLastSync(ctx, "DEV-9", lastSync.Add(time.Hour)))
	d, err = devices.GetByID(ctx, "DEV-9")
	require.NoError(t, err)
	assert.True(t, d.LastSyncOfCheckin.Equal(lastSync.Add(time.Hour)))

	assert.ErrorIs(t, devices.UpdateLastSync(ctx, "missing", lastSync), device.ErrDeviceNotFound)
}
