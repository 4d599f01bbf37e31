package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/biometric-sync/internal/domain/attendance"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/device"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSuccessWithMessage_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	SuccessWithMessage(rec, "Auto attendance processed", map[string]int{"created": 2})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Auto attendance processed", body["message"])
	assert.NotContains(t, body, "meta")
	assert.NotContains(t, body, "error")
}

func TestHandleError_StatusCodes(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", validator.ValidationErrors{{Field: "from", Message: "required"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"not found", fmt.Errorf("lookup: %w", attendance.ErrAttendanceNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"disabled device", device.ErrDeviceDisabled, http.StatusConflict, "CONFLICT"},
		{"referenced", attendance.ErrAttendanceReferenced, http.StatusConflict, "CONFLICT"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, c.err)

			assert.Equal(t, c.status, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, false, body["success"])
			detail, ok := body["error"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, c.code, detail["code"])
		})
	}
}
