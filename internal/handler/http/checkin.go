package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/biometric-sync/internal/domain/checkin"
	"github.com/cmlabs-hris/biometric-sync/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type CheckinHandler interface {
	Record(w http.ResponseWriter, r *http.Request)
}

type checkinHandlerImpl struct {
	checkinService checkin.CheckinService
}

func NewCheckinHandler(checkinService checkin.CheckinService) CheckinHandler {
	return &checkinHandlerImpl{
		checkinService: checkinService,
	}
}

// Record implements CheckinHandler.
func (h *checkinHandlerImpl) Record(w http.ResponseWriter, r *http.Request) {
	var req checkin.RecordCheckinsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode checkin batch", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.DeviceID = chi.URLParam(r, "id")

	result, err := h.checkinService.RecordCheckins(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checkins recorded", result)
}
