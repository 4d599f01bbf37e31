package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/biometric-sync/internal/domain/repair"
	"github.com/cmlabs-hris/biometric-sync/internal/handler/http/response"
)

type RepairHandler interface {
	ClearSkippedWindow(w http.ResponseWriter, r *http.Request)
	Reconcile(w http.ResponseWriter, r *http.Request)
}

type repairHandlerImpl struct {
	repairService repair.RepairService
}

func NewRepairHandler(repairService repair.RepairService) RepairHandler {
	return &repairHandlerImpl{
		repairService: repairService,
	}
}

// ClearSkippedWindow implements RepairHandler.
func (h *repairHandlerImpl) ClearSkippedWindow(w http.ResponseWriter, r *http.Request) {
	var req repair.ClearSkippedWindowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	results, err := h.repairService.ClearSkippedWindow(r.Context(), req.FromDate, req.ToDate)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Skipped checkins cleared", repair.Summarize(results))
}

// Reconcile implements RepairHandler.
func (h *repairHandlerImpl) Reconcile(w http.ResponseWriter, r *http.Request) {
	var req repair.ReconcileSkippedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	results, err := h.repairService.ReconcileSkippedCheckins(r.Context(), req.SinceTime)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Skipped checkins reconciled", repair.Summarize(results))
}
