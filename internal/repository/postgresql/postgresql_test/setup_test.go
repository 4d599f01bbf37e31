package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/biometric-sync/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup holds a migrated test database
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the schema.
// Tests are skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 4})
	require.NoError(t, err)

	_, err = database.Migrate(ctx, db)
	require.NoError(t, err)

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.TruncateAllTables(ctx))
	t.Cleanup(setup.Close)

	return setup
}

// TruncateAllTables removes all rows from the service tables
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"comments",
		"employee_checkins",
		"attendance_references",
		"attendances",
		"biometric_devices",
		"shift_assignments",
		"employees",
		"holidays",
		"shift_types",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}

func (s *TestDatabaseSetup) createShiftType(t *testing.T, name string) string {
	t.Helper()
	var id string
	err := s.DB.QueryRow(context.Background(), `
		INSERT INTO shift_types (name, start_time, end_time, enable_auto_attendance, process_attendance_after)
		VALUES ($1, '09:00', '18:00', true, '2024-01-01')
		RETURNING id
	`, name).Scan(&id)
	require.NoError(t, err)
	return id
}

func (s *TestDatabaseSetup) createEmployee(t *testing.T, code string, defaultShiftTypeID *string) string {
	t.Helper()
	var id string
	err := s.DB.QueryRow(context.Background(), `
		INSERT INTO employees (company_id, employee_code, full_name, default_shift_type_id, hire_date)
		VALUES ('company-1', $1, $1, $2, '2024-01-01')
		RETURNING id
	`, code, defaultShiftTypeID).Scan(&id)
	require.NoError(t, err)
	return id
}

func (s *TestDatabaseSetup) createDevice(t *testing.T, id string, lastSync time.Time) {
	t.Helper()
	_, err := s.DB.Exec(context.Background(), `
		INSERT INTO biometric_devices (id, name, last_sync_of_checkin, process_attendance_after)
		VALUES ($1, $1, $2, '2024-01-01T00:00:00Z')
	`, id, lastSync)
	require.NoError(t, err)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
