package checkin

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/biometric-sync/internal/domain/checkin"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/device"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/employee"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/shift"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/utils"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/validator"
	"github.com/cmlabs-hris/biometric-sync/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixture(t *testing.T) (*memory.Store, checkin.CheckinService) {
	t.Helper()

	store := memory.NewStore()
	store.AddShiftType(shift.ShiftType{
		ID:                           "shift-day",
		Name:                         "Day",
		StartTime:                    9 * time.Hour,
		EndTime:                      18 * time.Hour,
		BeginCheckInBeforeShiftStart: 60,
		AllowCheckOutAfterShiftEnd:   60,
	})
	store.AddShiftType(shift.ShiftType{
		ID:                           "shift-night",
		Name:                         "Night",
		StartTime:                    22 * time.Hour,
		EndTime:                      6 * time.Hour,
		BeginCheckInBeforeShiftStart: 60,
		AllowCheckOutAfterShiftEnd:   60,
	})
	store.AddDevice(device.Device{ID: "DEV-1", Name: "Front door", Enabled: true})
	store.AddDevice(device.Device{ID: "DEV-OFF", Name: "Retired", Enabled: false})
	store.AddEmployee(employee.Employee{ID: "emp-day", CompanyID: "company-1", DefaultShiftTypeID: utils.StrPtr("shift-day")})
	store.AddEmployee(employee.Employee{ID: "emp-night", CompanyID: "company-1", DefaultShiftTypeID: utils.StrPtr("shift-night")})
	store.AddEmployee(employee.Employee{ID: "emp-free", CompanyID: "company-1"})

	svc := NewCheckinService(store, store.Checkins(), store.Devices(), store.Employees(), store.ShiftTypes(), nil)
	return store, svc
}

func TestRecordCheckins_ResolvesShiftWindows(t *testing.T) {
	store, svc := newFixture(t)

	resp, err := svc.RecordCheckins(context.Background(), checkin.RecordCheckinsRequest{
		DeviceID: "DEV-1",
		Logs: []checkin.RecordLog{
			{EmployeeID: "emp-day", LogType: "IN", Time: "2024-03-04T08:55:00Z"},
			{EmployeeID: "emp-night", Time: "2024-03-05T05:30:00Z"},
			{EmployeeID: "emp-day", LogType: "OUT", Time: "2024-03-04T18:10:00+00:00"},
			{EmployeeID: "emp-free", Time: "2024-03-04T12:00:00Z"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "DEV-1", resp.DeviceID)
	assert.Equal(t, 4, resp.Recorded)
	assert.Equal(t, 1, resp.WithoutShift)
	require.NotNil(t, resp.LastSyncOfCheckin)
	assert.Equal(t, "2024-03-05T05:30:00Z", *resp.LastSyncOfCheckin)

	byEmployee := make(map[string][]checkin.CheckIn)
	for _, c := range store.AllCheckins() {
		byEmployee[c.EmployeeID] = append(byEmployee[c.EmployeeID], c)
	}

	require.Len(t, byEmployee["emp-day"], 2)
	for _, c := range byEmployee["emp-day"] {
		require.NotNil(t, c.ShiftTypeID)
		assert.Equal(t, "shift-day", *c.ShiftTypeID)
		assert.True(t, c.ShiftActualStart.Equal(time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)))
		assert.True(t, c.ShiftActualEnd.Equal(time.Date(2024, 3, 4, 19, 0, 0, 0, time.UTC)))
	}
	assert.Equal(t, checkin.LogTypeIn, byEmployee["emp-day"][0].LogType)

	// the morning log belongs to the shift that started the evening before
	night := byEmployee["emp-night"][0]
	require.NotNil(t, night.ShiftStart)
	assert.True(t, night.ShiftStart.Equal(time.Date(2024, 3, 4, 22, 0, 0, 0, time.UTC)))

	assert.Nil(t, byEmployee["emp-free"][0].ShiftTypeID)

	assert.True(t, store.ShiftType("shift-day").LastSyncOfCheckin.Equal(time.Date(2024, 3, 4, 18, 10, 0, 0, time.UTC)))
	assert.True(t, store.ShiftType("shift-night").LastSyncOfCheckin.Equal(time.Date(2024, 3, 5, 5, 30, 0, 0, time.UTC)))
}

func TestRecordCheckins_LastSyncNeverMovesBack(t *testing.T) {
	store, svc := newFixture(t)
	ctx := context.Background()

	_, err := svc.RecordCheckins(ctx, checkin.RecordCheckinsRequest{
		DeviceID: "DEV-1",
		Logs:     []checkin.RecordLog{{EmployeeID: "emp-day", Time: "2024-03-04T18:00:00Z"}},
	})
	require.NoError(t, err)

	resp, err := svc.RecordCheckins(ctx, checkin.RecordCheckinsRequest{
		DeviceID: "DEV-1",
		Logs:     []checkin.RecordLog{{EmployeeID: "emp-day", Time: "2024-03-04T09:00:00Z"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-03-04T18:00:00Z", *resp.LastSyncOfCheckin)
	assert.True(t, store.Device("DEV-1").LastSyncOfCheckin.Equal(time.Date(2024, 3, 4, 18, 0, 0, 0, time.UTC)))
}

func TestRecordCheckins_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     checkin.RecordCheckinsRequest
		wantErr error
	}{
		{
			name:    "unknown device",
			req:     checkin.RecordCheckinsRequest{DeviceID: "DEV-X", Logs: []checkin.RecordLog{{EmployeeID: "emp-day", Time: "2024-03-04T09:00:00Z"}}},
			wantErr: device.ErrDeviceNotFound,
		},
		{
			name:    "disabled device",
			req:     checkin.RecordCheckinsRequest{DeviceID: "DEV-OFF", Logs: []checkin.RecordLog{{EmployeeID: "emp-day", Time: "2024-03-04T09:00:00Z"}}},
			wantErr: device.ErrDeviceDisabled,
		},
		{
			name:    "unknown employee",
			req:     checkin.RecordCheckinsRequest{DeviceID: "DEV-1", Logs: []checkin.RecordLog{{EmployeeID: "ghost", Time: "2024-03-04T09:00:00Z"}}},
			wantErr: employee.ErrEmployeeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, svc := newFixture(t)

			_, err := svc.RecordCheckins(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, store.AllCheckins())
		})
	}
}

func TestRecordCheckins_ValidationFailsAsAWhole(t *testing.T) {
	store, svc := newFixture(t)

	_, err := svc.RecordCheckins(context.Background(), checkin.RecordCheckinsRequest{
		DeviceID: "DEV-1",
		Logs: []checkin.RecordLog{
			{EmployeeID: "emp-day", Time: "2024-03-04T09:00:00Z"},
			{EmployeeID: "emp-day", LogType: "BREAK", Time: "yesterday"},
		},
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
	assert.Empty(t, store.AllCheckins())
}
