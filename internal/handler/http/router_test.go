package http_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/biometric-sync/internal/domain/attendance"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/device"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/employee"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/shift"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/user"
	appHTTP "github.com/cmlabs-hris/biometric-sync/internal/handler/http"
	"github.com/cmlabs-hris/biometric-sync/internal/handler/http/response"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/jwt"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/metrics"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/utils"
	"github.com/cmlabs-hris/biometric-sync/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/biometric-sync/internal/service/attendance"
	checkinService "github.com/cmlabs-hris/biometric-sync/internal/service/checkin"
	repairService "github.com/cmlabs-hris/biometric-sync/internal/service/repair"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routerFixture struct {
	store  *memory.Store
	jwt    jwt.Service
	router http.Handler
}

func newRouterFixture(t *testing.T) *routerFixture {
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
	store.AddDevice(device.Device{ID: "DEV-1", Name: "Front door", Enabled: true})
	store.AddEmployee(employee.Employee{ID: "emp-1", CompanyID: "company-1", DefaultShiftTypeID: utils.StrPtr("shift-day")})

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	attendanceSvc := attendanceService.NewAttendanceService(
		store, store, store.Attendances(), store.Checkins(), store.Devices(), store.ShiftTypes(),
		store.Employees(), store.Holidays(), store.Comments(), m,
	)
	checkinSvc := checkinService.NewCheckinService(store, store.Checkins(), store.Devices(), store.Employees(), store.ShiftTypes(), m)
	repairSvc := repairService.NewRepairService(store, store, store.Checkins(), store.Attendances(), store.Comments(), m)

	jwtSvc := jwt.NewJWTService("router-test-secret", "1h")
	router := appHTTP.NewRouter(
		jwtSvc,
		reg,
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewCheckinHandler(checkinSvc),
		appHTTP.NewRepairHandler(repairSvc),
		appHTTP.RouterOptions{
			AppName:        "biometric-sync-test",
			Version:        "test",
			Env:            "test",
			AllowedOrigins: []string{"http://localhost:3000"},
			LogLevel:       slog.LevelError,
		},
	)

	return &routerFixture{store: store, jwt: jwtSvc, router: router}
}

func (f *routerFixture) token(t *testing.T, subject string, role user.Role) string {
	t.Helper()
	token, _, err := f.jwt.GenerateAccessToken(subject, utils.StrPtr("company-1"), role)
	require.NoError(t, err)
	return token
}

func (f *routerFixture) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var resp response.Response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestRouter_RequiresToken(t *testing.T) {
	f := newRouterFixture(t)

	rec, resp := f.do(t, http.MethodPost, "/api/v1/shift-types/shift-day/process-auto-attendance", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, resp.Success)
}

func TestRouter_PermissionDenied(t *testing.T) {
	f := newRouterFixture(t)

	rec, resp := f.do(t, http.MethodPost, "/api/v1/shift-types/shift-day/process-auto-attendance", f.token(t, "DEV-1", user.RoleDevice), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Message, string(user.PermissionAttendanceProcess))
}

func TestRouter_ProcessAutoAttendance(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, "hr-1", user.RoleManager)

	t.Run("disabled shift", func(t *testing.T) {
		rec, resp := f.do(t, http.MethodPost, "/api/v1/shift-types/shift-day/process-auto-attendance", token, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, resp.Success)
		assert.Equal(t, "Auto attendance is not enabled for this shift type", resp.Message)
	})

	t.Run("unknown shift", func(t *testing.T) {
		rec, resp := f.do(t, http.MethodPost, "/api/v1/shift-types/missing/process-auto-attendance", token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.False(t, resp.Success)
	})
}

func TestRouter_RecordCheckins(t *testing.T) {
	f := newRouterFixture(t)
	body := map[string]any{
		"logs": []map[string]string{
			{"employee_id": "emp-1", "log_type": "IN", "time": "2024-03-04T09:00:00Z"},
			{"employee_id": "emp-1", "log_type": "OUT", "time": "2024-03-04T18:00:00Z"},
		},
	}

	t.Run("device writes its own logs", func(t *testing.T) {
		rec, resp := f.do(t, http.MethodPost, "/api/v1/devices/DEV-1/checkins", f.token(t, "DEV-1", user.RoleDevice), body)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.True(t, resp.Success)
		assert.Len(t, f.store.AllCheckins(), 2)
	})

	t.Run("device token for another device", func(t *testing.T) {
		rec, _ := f.do(t, http.MethodPost, "/api/v1/devices/DEV-1/checkins", f.token(t, "DEV-2", user.RoleDevice), body)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("invalid batch", func(t *testing.T) {
		rec, resp := f.do(t, http.MethodPost, "/api/v1/devices/DEV-1/checkins", f.token(t, "owner-1", user.RoleOwner),
			map[string]any{"logs": []map[string]string{{"employee_id": "emp-1", "time": "yesterday"}}})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.NotNil(t, resp.Error)
		assert.Contains(t, resp.Error.Details, "logs[0].time")
	})
}

func TestRouter_GetAttendance(t *testing.T) {
	f := newRouterFixture(t)
	a := f.store.PutAttendance(attendance.Attendance{
		EmployeeID: "emp-1",
		CompanyID:  "company-1",
		Date:       time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Status:     attendance.StatusPresent,
		DocStatus:  attendance.DocStatusSubmitted,
	})
	token := f.token(t, "emp-1", user.RoleEmployee)

	rec, resp := f.do(t, http.MethodGet, "/api/v1/attendances/"+a.ID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, a.ID, data["id"])

	rec, _ = f.do(t, http.MethodGet, "/api/v1/attendances/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_GetAttendanceOfAnotherCompany(t *testing.T) {
	f := newRouterFixture(t)
	f.store.AddEmployee(employee.Employee{ID: "emp-other", CompanyID: "company-2"})
	other := f.store.PutAttendance(attendance.Attendance{
		EmployeeID: "emp-other",
		CompanyID:  "company-2",
		Date:       time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Status:     attendance.StatusPresent,
		DocStatus:  attendance.DocStatusSubmitted,
	})

	for _, role := range []user.Role{user.RoleEmployee, user.RoleManager} {
		rec, resp := f.do(t, http.MethodGet, "/api/v1/attendances/"+other.ID, f.token(t, "user-1", role), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, role)
		assert.False(t, resp.Success)
		assert.Nil(t, resp.Data)
	}
}

func TestRouter_Repair(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, "hr-1", user.RoleManager)

	rec, resp := f.do(t, http.MethodPost, "/api/v1/repair/skipped-window", token, map[string]string{"from": "2024-03-05", "to": "2024-03-01"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.False(t, resp.Success)

	rec, resp = f.do(t, http.MethodPost, "/api/v1/repair/reconcile", token, map[string]string{"since": "2024-03-01T00:00:00Z"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Skipped checkins reconciled", resp.Message)

	rec, _ = f.do(t, http.MethodPost, "/api/v1/repair/reconcile", f.token(t, "emp-1", user.RoleEmployee), map[string]string{"since": "2024-03-01T00:00:00Z"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_Metrics(t *testing.T) {
	f := newRouterFixture(t)
	f.do(t, http.MethodPost, "/api/v1/devices/DEV-1/checkins", f.token(t, "DEV-1", user.RoleDevice), map[string]any{
		"logs": []map[string]string{{"employee_id": "emp-1", "time": "2024-03-04T09:00:00Z"}},
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "biometric_sync_checkins_recorded_total 1")
}
