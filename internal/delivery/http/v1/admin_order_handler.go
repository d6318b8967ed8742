package v1

import (
	"net/http"

	"orderdesk-backend/internal/domain"
	"orderdesk-backend/internal/usecase"
	"orderdesk-backend/pkg/utils"
)

// ActionReject is the confirmation action that guards order rejection.
const ActionReject = "reject"

type AdminOrderHandler struct {
	orderUC   *usecase.OrderUsecase
	queryUC   *usecase.QueryUsecase
	confirmUC *usecase.ConfirmationUsecase
}

func NewAdminOrderHandler(orderUC *usecase.OrderUsecase, queryUC *usecase.QueryUsecase, confirmUC *usecase.ConfirmationUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{orderUC: orderUC, queryUC: queryUC, confirmUC: confirmUC}
}

// GET /api/v1/admin/orders?status=&type=&from=&to=
func (h *AdminOrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r, domain.TabOrders)
	if err != nil {
		writeError(w, r, err)
		return
	}
	orders, err := h.queryUC.ListOrders(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"total":  len(orders),
	})
}

type createOrderRequest struct {
	ID            string            `json:"id"`
	OrderType     string            `json:"orderType"`
	PaymentStatus string            `json:"paymentStatus"`
	Items         []domain.LineItem `json:"items"`
}

// POST /api/v1/admin/orders
func (h *AdminOrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if !decode(w, r, &req) {
		return
	}
	typ, err := domain.ParseOrderType(req.OrderType)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pay, err := domain.ParsePaymentStatus(utils.FirstNonEmpty(req.PaymentStatus, string(domain.PaymentStatusPending)))
	if err != nil {
		writeError(w, r, err)
		return
	}

	order, err := h.orderUC.CreateOrder(r.Context(), usecase.OrderIntake{
		ID:            req.ID,
		OrderType:     typ,
		PaymentStatus: pay,
		Items:         req.Items,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeRecord(w, http.StatusCreated, order)
}

// GET /api/v1/admin/orders/{id}
func (h *AdminOrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderUC.GetOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeRecord(w, http.StatusOK, order)
}

// POST /api/v1/admin/orders/{id}/accept
func (h *AdminOrderHandler) AcceptOrder(w http.ResponseWriter, r *http.Request) {
	ctx, err := mutationContext(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.orderUC.AcceptOrder(ctx, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeRecord(w, http.StatusOK, order)
}

// POST /api/v1/admin/orders/{id}/reject
//
// Needs a completed "reject" confirmation for the order, see Confirmations.
// The confirmation is used up only when the rejection goes through.
func (h *AdminOrderHandler) RejectOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Note string `json:"note"`
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
	confirmed := h.confirmUC.Step(ctx, ActionReject, id) == domain.StepDoneOn
	order, err := h.orderUC.RejectOrder(ctx, id, req.Note, confirmed)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.confirmUC.Consume(ctx, ActionReject, id)
	writeRecord(w, http.StatusOK, order)
}

// PATCH /api/v1/admin/orders/{id}/status
func (h *AdminOrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
		Note   string `json:"note"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Status == "" {
		writeBadRequest(w, "status is required")
		return
	}
	ctx, err := mutationContext(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	order, err := h.orderUC.ChangeOrderStatus(ctx, r.PathValue("id"), req.Status, req.Note)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeRecord(w, http.StatusOK, order)
}

// POST /api/v1/admin/orders/{id}/out-for-delivery
func (h *AdminOrderHandler) MarkOutForDelivery(w http.ResponseWriter, r *http.Request) {
	ctx, err := mutationContext(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.orderUC.MarkOutForDelivery(ctx, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeRecord(w, http.StatusOK, order)
}
