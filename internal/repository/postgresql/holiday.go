package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/biometric-sync/internal/domain/holiday"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

// ListDates implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) ListDates(ctx context.Context, holidayListID string, from time.Time, to time.Time) ([]time.Time, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT holiday_date FROM holidays
		WHERE holiday_list_id = $1 AND holiday_date BETWEEN $2 AND $3
		ORDER BY holiday_date
	`

	rows, err := q.Query(ctx, query, holidayListID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays: %w", err)
	}

	dates, err := pgx.CollectRows(rows, pgx.RowTo[time.Time])
	if err != nil {
		return nil, fmt.Errorf("failed to scan holidays: %w", err)
	}

	return dates, nil
}
