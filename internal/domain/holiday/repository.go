package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	// ListDates returns holiday dates of a holiday list within [from, to]
	ListDates(ctx context.Context, holidayListID string, from time.Time, to time.Time) ([]time.Time, error)
}
