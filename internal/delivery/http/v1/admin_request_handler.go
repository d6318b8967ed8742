package v1

import (
	"net/http"

	"orderdesk-backend/internal/domain"
	"orderdesk-backend/internal/usecase"
	"orderdesk-backend/pkg/utils"
)

// AdminRequestHandler serves one request tab, returns or exchanges.
type AdminRequestHandler struct {
	kind      domain.RequestKind
	tab       domain.Tab
	requestUC *usecase.RequestUsecase
	queryUC   *usecase.QueryUsecase
}

func NewAdminReturnHandler(requestUC *usecase.RequestUsecase, queryUC *usecase.QueryUsecase) *AdminRequestHandler {
	return &AdminRequestHandler{kind: domain.RequestKindReturn, tab: domain.TabReturns, requestUC: requestUC, queryUC: queryUC}
}

func NewAdminExchangeHandler(requestUC *usecase.RequestUsecase, queryUC *usecase.QueryUsecase) *AdminRequestHandler {
	return &AdminRequestHandler{kind: domain.RequestKindExchange, tab: domain.TabExchanges, requestUC: requestUC, queryUC: queryUC}
}

// Tab is the collection this handler serves, used to build its routes.
func (h *AdminRequestHandler) Tab() domain.Tab { return h.tab }

// GET /api/v1/admin/{returns|exchanges}
func (h *AdminRequestHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r, h.tab)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.queryUC.Query(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		string(h.tab): res.Requests,
		"total":       res.Total,
	})
}

// POST /api/v1/admin/{returns|exchanges}
func (h *AdminRequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID      string `json:"id"`
		OrderID string `json:"orderId"`
		Reason  string `json:"reason"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.OrderID == "" {
		writeBadRequest(w, "orderId is required")
		return
	}

	in := usecase.RequestIntake{ID: req.ID, OrderID: req.OrderID, Reason: req.Reason}
	var (
		created *domain.ServiceRequest
		err     error
	)
	if h.kind == domain.RequestKindReturn {
		created, err = h.requestUC.CreateReturn(r.Context(), in)
	} else {
		created, err = h.requestUC.CreateExchange(r.Context(), in)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeRecord(w, http.StatusCreated, created)
}

// GET /api/v1/admin/{returns|exchanges}/{id}
func (h *AdminRequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	req, err := h.requestUC.GetRequest(r.Context(), h.kind, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeRecord(w, http.StatusOK, req)
}

// POST /api/v1/admin/{returns|exchanges}/{id}/decision
func (h *AdminRequestHandler) Decide(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Decision    string `json:"decision"`
		Explanation string `json:"explanation"`
	}
	if !decode(w, r, &req) {
		return
	}
	ctx, err := mutationContext(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id := r.PathValue("id")
	var decided *domain.ServiceRequest
	if h.kind == domain.RequestKindReturn {
		decided, err = h.requestUC.DecideReturn(ctx, id, req.Decision, req.Explanation)
	} else {
		decided, err = h.requestUC.DecideExchange(ctx, id, req.Decision, req.Explanation)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeRecord(w, http.StatusOK, decided)
}
