package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/biometric-sync/internal/domain/device"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type deviceRepositoryImpl struct {
	db *database.DB
}

func NewDeviceRepository(db *database.DB) device.DeviceRepository {
	return &deviceRepositoryImpl{db: db}
}

const deviceColumns = `id, name, enabled, last_sync_of_checkin, process_attendance_after, created_at, updated_at`

func scanDevice(row pgx.Row) (device.Device, error) {
	var d device.Device
	err := row.Scan(&d.ID, &d.Name, &d.Enabled, &d.LastSyncOfCheckin, &d.ProcessAttendanceAfter, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

// List implements device.DeviceRepository.
func (r *deviceRepositoryImpl) List(ctx context.Context) ([]device.Device, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+deviceColumns+` FROM biometric_devices ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query devices: %w", err)
	}
	defer rows.Close()

	var devices []device.Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating devices: %w", err)
	}

	return devices, nil
}

// GetByID implements device.DeviceRepository.
func (r *deviceRepositoryImpl) GetByID(ctx context.Context, id string) (device.Device, error) {
	q := GetQuerier(ctx, r.db)

	d, err := scanDevice(q.QueryRow(ctx, `SELECT `+deviceColumns+` FROM biometric_devices WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return device.Device{}, device.ErrDeviceNotFound
		}
		return device.Device{}, fmt.Errorf("failed to get device %s: %w", id, err)
	}

	return d, nil
}

// UpdateLastSync implements device.DeviceRepository.
func (r *deviceRepositoryImpl) UpdateLastSync(ctx context.Context, id string, lastSync time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE biometric_devices
		SET last_sync_of_checkin = GREATEST(COALESCE(last_sync_of_checkin, $1), $1),
			updated_at = NOW()
		WHERE id = $2
	`

	tag, err := q.Exec(ctx, query, lastSync, id)
	if err != nil {
		return fmt.Errorf("failed to update last sync of device %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return device.ErrDeviceNotFound
	}

	return nil
}
