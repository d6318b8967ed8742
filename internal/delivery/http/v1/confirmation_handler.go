package v1

import (
	"net/http"

	"orderdesk-backend/internal/domain"
	"orderdesk-backend/internal/usecase"
	"orderdesk-backend/pkg/utils"
)

type ConfirmationHandler struct {
	confirmUC *usecase.ConfirmationUsecase
}

func NewConfirmationHandler(uc *usecase.ConfirmationUsecase) *ConfirmationHandler {
	return &ConfirmationHandler{confirmUC: uc}
}

type stepResponse struct {
	Action   string              `json:"action"`
	RecordID string              `json:"recordId"`
	Step     domain.WorkflowStep `json:"step"`
}

// GET /api/v1/admin/confirmations/{action}/{id}
func (h *ConfirmationHandler) Get(w http.ResponseWriter, r *http.Request) {
	action, id := r.PathValue("action"), r.PathValue("id")
	utils.WriteJSON(w, http.StatusOK, stepResponse{Action: action, RecordID: id, Step: h.confirmUC.Step(r.Context(), action, id)})
}

// POST /api/v1/admin/confirmations/{action}/{id} {"event":"confirm","code":""}
func (h *ConfirmationHandler) Advance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Event string `json:"event"`
		Code  string `json:"code"`
	}
	if !decode(w, r, &req) {
		return
	}
	ev, err := domain.ParseWorkflowEvent(req.Event)
	if err != nil {
		writeError(w, r, err)
		return
	}

	action, id := r.PathValue("action"), r.PathValue("id")
	step, err := h.confirmUC.Advance(r.Context(), action, id, ev, req.Code)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, stepResponse{Action: action, RecordID: id, Step: step})
}
