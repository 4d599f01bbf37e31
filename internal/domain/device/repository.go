package device

import (
	"context"
	"time"
)

type DeviceRepository interface {
	List(ctx context.Context) ([]Device, error)
	GetByID(ctx context.Context, id string) (Device, error)

	// UpdateLastSync advances last_sync_of_checkin; it never moves it backwards
	UpdateLastSync(ctx context.Context, id string, lastSync time.Time) error
}
