package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
)

type Scheme struct {
	Index       int
	Description string
	Query       string
}

var scheme = []Scheme{
	{
		Index:       1,
		Description: "Create table: shift_types",
		Query: `
		CREATE TABLE IF NOT EXISTS shift_types (
			id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
			name TEXT NOT NULL UNIQUE,
			start_time TIME NOT NULL,
			end_time TIME NOT NULL,
			enable_auto_attendance BOOLEAN NOT NULL DEFAULT false,
			process_attendance_after DATE,
			last_sync_of_checkin TIMESTAMPTZ,
			determine_check_in_and_check_out TEXT NOT NULL DEFAULT 'alternating'
				CHECK (determine_check_in_and_check_out IN ('alternating', 'log_type')),
			working_hours_calculation_based_on TEXT NOT NULL DEFAULT 'first_checkin_last_checkout'
				CHECK (working_hours_calculation_based_on IN ('first_checkin_last_checkout', 'every_valid_pair')),
			begin_check_in_before_shift_start INT NOT NULL DEFAULT 60,
			allow_check_out_after_shift_end INT NOT NULL DEFAULT 60,
			enable_late_entry_marking BOOLEAN NOT NULL DEFAULT false,
			late_entry_grace_period INT NOT NULL DEFAULT 0,
			enable_early_exit_marking BOOLEAN NOT NULL DEFAULT false,
			early_exit_grace_period INT NOT NULL DEFAULT 0,
			working_hours_threshold_for_absent NUMERIC(6,2) NOT NULL DEFAULT 0,
			working_hours_threshold_for_half_day NUMERIC(6,2) NOT NULL DEFAULT 0,
			holiday_list_id TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
	},
	{
		Index:       2,
		Description: "Create table: holidays",
		Query: `
		CREATE TABLE IF NOT EXISTS holidays (
			holiday_list_id TEXT NOT NULL,
			holiday_date DATE NOT NULL,
			description TEXT,
			PRIMARY KEY (holiday_list_id, holiday_date)
		);`,
	},
	{
		Index:       3,
		Description: "Create table: employees",
		Query: `
		CREATE TABLE IF NOT EXISTS employees (
			id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
			company_id TEXT NOT NULL,
			employee_code TEXT NOT NULL,
			full_name TEXT NOT NULL,
			employment_status TEXT NOT NULL DEFAULT 'active',
			default_shift_type_id TEXT REFERENCES shift_types(id),
			holiday_list_id TEXT,
			hire_date DATE,
			resignation_date DATE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (company_id, employee_code)
		);`,
	},
	{
		Index:       4,
		Description: "Create table: shift_assignments",
		Query: `
		CREATE TABLE IF NOT EXISTS shift_assignments (
			id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
			employee_id TEXT NOT NULL REFERENCES employees(id),
			shift_type_id TEXT NOT NULL REFERENCES shift_types(id),
			start_date DATE NOT NULL,
			end_date DATE,
			docstatus SMALLINT NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_shift_assignments_employee ON shift_assignments (employee_id, start_date);`,
	},
	{
		Index:       5,
		Description: "Create table: biometric_devices",
		Query: `
		CREATE TABLE IF NOT EXISTS biometric_devices (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			enabled BOOLEAN NOT NULL DEFAULT true,
			last_sync_of_checkin TIMESTAMPTZ,
			process_attendance_after TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
	},
	{
		Index:       6,
		Description: "Create table: attendances",
		Query: `
		CREATE TABLE IF NOT EXISTS attendances (
			id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
			employee_id TEXT NOT NULL REFERENCES employees(id),
			company_id TEXT NOT NULL,
			attendance_date DATE NOT NULL,
			status TEXT NOT NULL CHECK (status IN ('Present', 'Absent', 'Half Day', 'On Leave')),
			working_hours NUMERIC(8,4) NOT NULL DEFAULT 0,
			late_entry BOOLEAN NOT NULL DEFAULT false,
			early_exit BOOLEAN NOT NULL DEFAULT false,
			in_time TIMESTAMPTZ,
			out_time TIMESTAMPTZ,
			shift_type_id TEXT REFERENCES shift_types(id),
			device_id TEXT,
			docstatus SMALLINT NOT NULL DEFAULT 0 CHECK (docstatus IN (0, 1, 2)),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE UNIQUE INDEX IF NOT EXISTS uq_attendances_employee_date_active
			ON attendances (employee_id, attendance_date) WHERE docstatus <> 2;`,
	},
	{
		Index:       7,
		Description: "Create table: attendance_references",
		Query: `
		CREATE TABLE IF NOT EXISTS attendance_references (
			attendance_id TEXT NOT NULL REFERENCES attendances(id) ON DELETE CASCADE,
			reference_type TEXT NOT NULL,
			reference_id TEXT NOT NULL,
			PRIMARY KEY (attendance_id, reference_type, reference_id)
		);`,
	},
	{
		Index:       8,
		Description: "Create table: employee_checkins",
		Query: `
		CREATE TABLE IF NOT EXISTS employee_checkins (
			id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
			employee_id TEXT NOT NULL REFERENCES employees(id),
			device_id TEXT NOT NULL,
			log_type TEXT NOT NULL DEFAULT '',
			time TIMESTAMPTZ NOT NULL,
			shift_type_id TEXT REFERENCES shift_types(id),
			shift_start TIMESTAMPTZ,
			shift_end TIMESTAMPTZ,
			shift_actual_start TIMESTAMPTZ,
			shift_actual_end TIMESTAMPTZ,
			skip_auto_attendance BOOLEAN NOT NULL DEFAULT false,
			attendance_id TEXT REFERENCES attendances(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_checkins_unprocessed
			ON employee_checkins (shift_type_id, device_id, employee_id, time)
			WHERE skip_auto_attendance = false AND attendance_id IS NULL;
		CREATE INDEX IF NOT EXISTS idx_checkins_skipped
			ON employee_checkins (time) WHERE skip_auto_attendance = true;`,
	},
	{
		Index:       9,
		Description: "Create table: comments",
		Query: `
		CREATE TABLE IF NOT EXISTS comments (
			id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
			reference_type TEXT NOT NULL,
			reference_id TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_comments_reference ON comments (reference_type, reference_id);`,
	},
}

// Migrate applies every scheme entry newer than the recorded version. Each
// entry runs in its own transaction together with the version bump.
func Migrate(ctx context.Context, db *DB) (int, error) {
	if _, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (version INT NOT NULL);
		INSERT INTO schema_migrations (version)
		SELECT 0 WHERE NOT EXISTS (SELECT 1 FROM schema_migrations);
	`); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}

	var version int
	if err := db.QueryRow(ctx, `SELECT version FROM schema_migrations`).Scan(&version); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}

	applied := 0
	for _, s := range scheme {
		if s.Index <= version {
			continue
		}

		err := pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, s.Query); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `UPDATE schema_migrations SET version = $1`, s.Index)
			return err
		})
		if err != nil {
			return applied, fmt.Errorf("migrate version %d (%s): %w", s.Index, s.Description, err)
		}

		slog.Info("Migration applied", "version", s.Index, "description", s.Description)
		applied++
	}

	return applied, nil
}
