package shift

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShiftType_WindowOn_DayShift(t *testing.T) {
	st := ShiftType{
		StartTime:                    9 * time.Hour,
		EndTime:                      18 * time.Hour,
		BeginCheckInBeforeShiftStart: 60,
		AllowCheckOutAfterShiftEnd:   120,
	}

	w := st.WindowOn(time.Date(2024, 3, 4, 15, 30, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2024, 3, 4, 18, 0, 0, 0, time.UTC), w.End)
	assert.Equal(t, time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC), w.ActualStart)
	assert.Equal(t, time.Date(2024, 3, 4, 20, 0, 0, 0, time.UTC), w.ActualEnd)
}

func TestShiftType_WindowOn_Overnight(t *testing.T) {
	st := ShiftType{
		StartTime: 22 * time.Hour,
		EndTime:   6 * time.Hour,
	}

	w := st.WindowOn(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2024, 3, 4, 22, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2024, 3, 5, 6, 0, 0, 0, time.UTC), w.End)
	assert.True(t, w.Contains(time.Date(2024, 3, 5, 2, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2024, 3, 5, 6, 0, 1, 0, time.UTC)))
}
