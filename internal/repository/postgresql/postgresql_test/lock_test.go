package postgresql_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/biometric-sync/internal/pkg/database"
	"github.com/cmlabs-hris/biometric-sync/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvisoryLocker_SerializesRuns(t *testing.T) {
	setup := NewTestDatabase(t)
	locker := postgresql.NewAdvisoryLocker(setup.DB)

	var (
		holders atomic.Int32
		peak    atomic.Int32
		wg      sync.WaitGroup
	)
	errs := make([]error, 3)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = locker.WithLock(context.Background(), database.AttendanceRunLock, func(ctx context.Context) error {
				n := holders.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(50 * time.Millisecond)
				holders.Add(-1)
				return nil
			})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), peak.Load())
}
