package v1

import (
	"net/http"

	"orderdesk-backend/internal/usecase"
	"orderdesk-backend/pkg/utils"
)

type AdminStatsHandler struct {
	statsUC *usecase.StatsUsecase
}

func NewAdminStatsHandler(uc *usecase.StatsUsecase) *AdminStatsHandler {
	return &AdminStatsHandler{statsUC: uc}
}

// GET /api/v1/admin/stats/summary?from=2026-03-01&to=2026-03-31
func (h *AdminStatsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := parseBound(q.Get("from"), false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	to, err := parseBound(q.Get("to"), true)
	if err != nil {
		writeError(w, r, err)
		return
	}

	summary, err := h.statsUC.Summary(r.Context(), from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "private, max-age=60")
	utils.WriteJSON(w, http.StatusOK, summary)
}
