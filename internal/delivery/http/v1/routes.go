package v1

import (
	"net/http"

	"orderdesk-backend/internal/delivery/http/middleware"
	"orderdesk-backend/internal/domain"
)

// Handlers groups everything the admin API serves.
type Handlers struct {
	Orders        *AdminOrderHandler
	Returns       *AdminRequestHandler
	Exchanges     *AdminRequestHandler
	Allotment     *AllotmentHandler
	Confirmations *ConfirmationHandler
	Config        *ConfigHandler
	Stats         *AdminStatsHandler
}

// RegisterRoutes mounts the admin API. Every route requires an admin token.
func RegisterRoutes(mux *http.ServeMux, h Handlers) {
	adminMiddleware := func(next http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(middleware.AdminMiddleware(next))
	}

	// Orders
	mux.Handle("GET /api/v1/admin/orders", adminMiddleware(h.Orders.ListOrders))
	mux.Handle("POST /api/v1/admin/orders", adminMiddleware(h.Orders.CreateOrder))
	mux.Handle("GET /api/v1/admin/orders/{id}", adminMiddleware(h.Orders.GetOrder))
	mux.Handle("POST /api/v1/admin/orders/{id}/accept", adminMiddleware(h.Orders.AcceptOrder))
	mux.Handle("POST /api/v1/admin/orders/{id}/reject", adminMiddleware(h.Orders.RejectOrder))
	mux.Handle("PATCH /api/v1/admin/orders/{id}/status", adminMiddleware(h.Orders.UpdateStatus))
	mux.Handle("POST /api/v1/admin/orders/{id}/out-for-delivery", adminMiddleware(h.Orders.MarkOutForDelivery))

	// Returns & Exchanges
	for _, rh := range []*AdminRequestHandler{h.Returns, h.Exchanges} {
		base := "/api/v1/admin/" + string(rh.Tab())
		mux.Handle("GET "+base, adminMiddleware(rh.List))
		mux.Handle("POST "+base, adminMiddleware(rh.Create))
		mux.Handle("GET "+base+"/{id}", adminMiddleware(rh.Get))
		mux.Handle("POST "+base+"/{id}/decision", adminMiddleware(rh.Decide))
	}

	// Allotment, per tab. Literal tab segments keep these clear of the
	// confirmation routes below.
	for _, tab := range domain.Tabs {
		base := "/api/v1/admin/" + string(tab) + "/{id}"
		mux.Handle("PUT "+base+"/vendor-allotment", adminMiddleware(h.Allotment.SetVendorAllotment(tab)))
		mux.Handle("PUT "+base+"/vendor-selection", adminMiddleware(h.Allotment.SelectVendor(tab)))
		mux.Handle("POST "+base+"/vendor-confirmation", adminMiddleware(h.Allotment.ConfirmVendor(tab)))
		mux.Handle("PUT "+base+"/courier-allotment", adminMiddleware(h.Allotment.SetCourierAllotment(tab)))
	}
	mux.Handle("GET /api/v1/admin/vendors", adminMiddleware(h.Allotment.ListVendors))

	// Confirmations
	mux.Handle("GET /api/v1/admin/confirmations/{action}/{id}", adminMiddleware(h.Confirmations.Get))
	mux.Handle("POST /api/v1/admin/confirmations/{action}/{id}", adminMiddleware(h.Confirmations.Advance))

	// Config
	mux.Handle("GET /api/v1/admin/config/enums", adminMiddleware(h.Config.GetEnums))

	// Stats
	mux.Handle("GET /api/v1/admin/stats/summary", adminMiddleware(h.Stats.GetSummary))
}
