package postgresql

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/biometric-sync/internal/pkg/database"
)

type advisoryLocker struct {
	db *database.DB
}

// WithLock implements database.Locker with a session advisory lock held on a
// dedicated pool connection while fn runs.
func (l *advisoryLocker) WithLock(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	conn, err := l.db.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire lock connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock(hashtext($1))`, name); err != nil {
		return fmt.Errorf("acquire advisory lock %q: %w", name, err)
	}
	defer func() {
		if _, err := conn.Exec(context.WithoutCancel(ctx), `SELECT pg_advisory_unlock(hashtext($1))`, name); err != nil {
			slog.Error("Failed to release advisory lock", "name", name, "error", err)
		}
	}()

	return fn(ctx)
}

func NewAdvisoryLocker(db *database.DB) database.Locker {
	return &advisoryLocker{db: db}
}
