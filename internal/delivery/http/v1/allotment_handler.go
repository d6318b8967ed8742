package v1

import (
	"context"
	"net/http"

	"orderdesk-backend/internal/domain"
	"orderdesk-backend/internal/usecase"
	"orderdesk-backend/pkg/utils"
)

// AllotmentHandler serves the vendor and courier endpoints of all three tabs.
type AllotmentHandler struct {
	allotmentUC *usecase.AllotmentUsecase
}

func NewAllotmentHandler(uc *usecase.AllotmentUsecase) *AllotmentHandler {
	return &AllotmentHandler{allotmentUC: uc}
}

type allotBody struct {
	Allot *bool `json:"allot"`
}

func (b allotBody) value(w http.ResponseWriter) (bool, bool) {
	if b.Allot == nil {
		writeBadRequest(w, "allot is required")
		return false, false
	}
	return *b.Allot, true
}

// GET /api/v1/admin/vendors
func (h *AllotmentHandler) ListVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.allotmentUC.ListVendors(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, vendors)
}

// PUT /api/v1/admin/{tab}/{id}/vendor-allotment
func (h *AllotmentHandler) SetVendorAllotment(tab domain.Tab) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body allotBody
		if !decode(w, r, &body) {
			return
		}
		allot, ok := body.value(w)
		if !ok {
			return
		}
		h.run(w, r, tab, func(ctx context.Context, ref domain.RecordRef) (domain.Record, error) {
			return h.allotmentUC.SetVendorAllotment(ctx, ref, allot)
		})
	}
}

// PUT /api/v1/admin/{tab}/{id}/vendor-selection
func (h *AllotmentHandler) SelectVendor(tab domain.Tab) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			VendorName string `json:"vendorName"`
		}
		if !decode(w, r, &body) {
			return
		}
		h.run(w, r, tab, func(ctx context.Context, ref domain.RecordRef) (domain.Record, error) {
			return h.allotmentUC.SelectVendor(ctx, ref, body.VendorName)
		})
	}
}

// POST /api/v1/admin/{tab}/{id}/vendor-confirmation
func (h *AllotmentHandler) ConfirmVendor(tab domain.Tab) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.run(w, r, tab, h.allotmentUC.ConfirmVendor)
	}
}

// PUT /api/v1/admin/{tab}/{id}/courier-allotment
func (h *AllotmentHandler) SetCourierAllotment(tab domain.Tab) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body allotBody
		if !decode(w, r, &body) {
			return
		}
		allot, ok := body.value(w)
		if !ok {
			return
		}
		h.run(w, r, tab, func(ctx context.Context, ref domain.RecordRef) (domain.Record, error) {
			return h.allotmentUC.SetCourierAllotment(ctx, ref, allot)
		})
	}
}

func (h *AllotmentHandler) run(w http.ResponseWriter, r *http.Request, tab domain.Tab, op func(context.Context, domain.RecordRef) (domain.Record, error)) {
	ctx, err := mutationContext(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := op(ctx, domain.RecordRef{Tab: tab, ID: r.PathValue("id")})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeRecord(w, http.StatusOK, rec)
}
