package checkin

import (
	"context"
)

// CheckinService handles check-in logs pushed by biometric devices
type CheckinService interface {
	// RecordCheckins stores device logs with their resolved shift window
	// and advances the device's last sync timestamp.
	RecordCheckins(ctx context.Context, req RecordCheckinsRequest) (RecordCheckinsResponse, error)
}
