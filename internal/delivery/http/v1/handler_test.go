package v1

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"orderdesk-backend/internal/domain"
	"orderdesk-backend/internal/infrastructure/cache"
	"orderdesk-backend/internal/infrastructure/courier"
	"orderdesk-backend/internal/infrastructure/vendors"
	"orderdesk-backend/internal/repository/memory"
	"orderdesk-backend/internal/usecase"
	"orderdesk-backend/pkg/utils"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

type apiFixture struct {
	mux   *http.ServeMux
	token string
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	repo := memory.NewStore()
	memCache := cache.NewMemoryCache(time.Minute, time.Minute)
	opts := []usecase.Option{usecase.WithClock(func() time.Time { return testNow })}

	orderUC := usecase.NewOrderUsecase(repo, opts...)
	requestUC := usecase.NewRequestUsecase(repo, opts...)
	allotUC := usecase.NewAllotmentUsecase(repo, vendors.NewStaticRegistry([]string{"ven 1", "ven 2"}), courier.NewLocalProvider("TRK"), opts...)
	queryUC := usecase.NewQueryUsecase(repo, nil)
	confirmUC := usecase.NewConfirmationUsecase(memCache, nil, false, time.Minute)

	mux := http.NewServeMux()
	RegisterRoutes(mux, Handlers{
		Orders:        NewAdminOrderHandler(orderUC, queryUC, confirmUC),
		Returns:       NewAdminReturnHandler(requestUC, queryUC),
		Exchanges:     NewAdminExchangeHandler(requestUC, queryUC),
		Allotment:     NewAllotmentHandler(allotUC),
		Confirmations: NewConfirmationHandler(confirmUC),
		Config:        NewConfigHandler(memCache),
		Stats:         NewAdminStatsHandler(usecase.NewStatsUsecase(repo, memCache)),
	})

	utils.SetSecret("handler-test-secret")
	tok, err := utils.GenerateJWT("admin-1", "ops@example.com", domain.RoleAdmin, time.Hour)
	require.NoError(t, err)
	return &apiFixture{mux: mux, token: tok}
}

func (a *apiFixture) do(t *testing.T, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+a.token)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	a.mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (a *apiFixture) createOrder(t *testing.T, id, typ string) {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/v1/admin/orders", map[string]interface{}{
		"id":            id,
		"orderType":     typ,
		"paymentStatus": "paid",
		"items":         []map[string]interface{}{{"sku": "TEE-1", "quantity": 2, "unitPrice": 12.5}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestAPI_RequiresAdmin(t *testing.T) {
	a := newAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil)
	rec := httptest.NewRecorder()
	a.mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_OrderLifecycle(t *testing.T) {
	a := newAPI(t)
	a.createOrder(t, "O1", "Prepaid")

	rec := a.do(t, http.MethodGet, "/api/v1/admin/orders/O1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `"1"`, rec.Header().Get("ETag"))
	order := decodeBody[domain.Order](t, rec)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, "Order Placed", order.DeliveryStatus)

	rec = a.do(t, http.MethodPost, "/api/v1/admin/orders/O1/accept", nil, "If-Match", `"1"`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, `"2"`, rec.Header().Get("ETag"))

	// vendor, courier, then ship
	rec = a.do(t, http.MethodPut, "/api/v1/admin/orders/O1/vendor-allotment", map[string]bool{"allot": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = a.do(t, http.MethodPost, "/api/v1/admin/orders/O1/vendor-confirmation", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, string(domain.KindInvalidSelection), decodeBody[utils.ErrorBody](t, rec).Kind)
	rec = a.do(t, http.MethodPut, "/api/v1/admin/orders/O1/vendor-selection", map[string]string{"vendorName": "ven 1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = a.do(t, http.MethodPost, "/api/v1/admin/orders/O1/vendor-confirmation", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = a.do(t, http.MethodPut, "/api/v1/admin/orders/O1/courier-allotment", map[string]bool{"allot": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	order = decodeBody[domain.Order](t, rec)
	assert.True(t, strings.HasPrefix(order.Courier.TrackingID, "TRK-"))
	assert.Equal(t, "Shipped", order.DeliveryStatus)

	rec = a.do(t, http.MethodPatch, "/api/v1/admin/orders/O1/status", map[string]string{"status": "Allotted To Vendor"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = a.do(t, http.MethodPatch, "/api/v1/admin/orders/O1/status", map[string]string{"status": "shipped", "note": "picked up"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = a.do(t, http.MethodPost, "/api/v1/admin/orders/O1/out-for-delivery", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Out for Delivery", decodeBody[domain.Order](t, rec).DeliveryStatus)

	rec = a.do(t, http.MethodGet, "/api/v1/admin/orders?status=shipped", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[struct {
		Orders []domain.Order `json:"orders"`
		Total  int            `json:"total"`
	}](t, rec)
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, "O1", list.Orders[0].ID)
}

func TestAPI_ErrorMapping(t *testing.T) {
	a := newAPI(t)
	a.createOrder(t, "O1", "cod")
	require.Equal(t, http.StatusOK, a.do(t, http.MethodPost, "/api/v1/admin/orders/O1/accept", nil).Code)

	tests := []struct {
		name    string
		method  string
		path    string
		body    interface{}
		headers []string
		status  int
		kind    domain.ErrorKind
	}{
		{"unknown order", http.MethodGet, "/api/v1/admin/orders/nope", nil, nil, http.StatusNotFound, domain.KindNotFound},
		{"accept twice", http.MethodPost, "/api/v1/admin/orders/O1/accept", nil, nil, http.StatusUnprocessableEntity, domain.KindIllegalTransition},
		{"stale version", http.MethodPatch, "/api/v1/admin/orders/O1/status", map[string]string{"status": "cancelled"}, []string{"If-Match", `"1"`}, http.StatusConflict, domain.KindConflict},
		{"bad If-Match", http.MethodPost, "/api/v1/admin/orders/O1/out-for-delivery", nil, []string{"If-Match", "abc"}, http.StatusBadRequest, domain.KindValidation},
		{"courier before vendor", http.MethodPut, "/api/v1/admin/orders/O1/courier-allotment", map[string]bool{"allot": true}, nil, http.StatusUnprocessableEntity, domain.KindVendorNotAllotted},
		{"missing allot", http.MethodPut, "/api/v1/admin/orders/O1/vendor-allotment", map[string]string{}, nil, http.StatusBadRequest, domain.KindValidation},
		{"confirm before opening selection", http.MethodPost, "/api/v1/admin/orders/O1/vendor-confirmation", nil, nil, http.StatusUnprocessableEntity, domain.KindIllegalTransition},
		{"inverted range", http.MethodGet, "/api/v1/admin/orders?from=2026-03-15&to=2026-03-01", nil, nil, http.StatusBadRequest, domain.KindValidation},
		{"bad date", http.MethodGet, "/api/v1/admin/orders?from=yesterday", nil, nil, http.StatusBadRequest, domain.KindValidation},
		{"status of the wrong tab", http.MethodGet, "/api/v1/admin/returns?status=shipped", nil, nil, http.StatusBadRequest, domain.KindValidation},
		{"unknown field", http.MethodPatch, "/api/v1/admin/orders/O1/status", map[string]string{"state": "x"}, nil, http.StatusBadRequest, domain.KindValidation},
		{"unknown order type", http.MethodPost, "/api/v1/admin/orders", map[string]string{"orderType": "barter"}, nil, http.StatusBadRequest, domain.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(t, tt.method, tt.path, tt.body, tt.headers...)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			body := decodeBody[utils.ErrorBody](t, rec)
			assert.Equal(t, string(tt.kind), body.Kind)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestAPI_RejectNeedsConfirmation(t *testing.T) {
	a := newAPI(t)
	a.createOrder(t, "O1", "cod")

	rec := a.do(t, http.MethodPost, "/api/v1/admin/orders/O1/reject", map[string]string{"note": "fraud"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for _, ev := range []string{"start_on", "confirm"} {
		rec = a.do(t, http.MethodPost, "/api/v1/admin/confirmations/reject/O1", map[string]string{"event": ev})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	assert.Equal(t, domain.StepDoneOn, decodeBody[stepResponse](t, rec).Step)

	other, err := utils.GenerateJWT("admin-2", "other@example.com", domain.RoleAdmin, time.Hour)
	require.NoError(t, err)
	rec = a.do(t, http.MethodPost, "/api/v1/admin/orders/O1/reject", map[string]string{"note": "fraud"}, "Authorization", "Bearer "+other)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "another admin cannot use this confirmation")

	rec = a.do(t, http.MethodPost, "/api/v1/admin/orders/O1/reject", map[string]string{"note": "fraud"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	order := decodeBody[domain.Order](t, rec)
	assert.Equal(t, domain.OrderStatusRejected, order.Status)
	assert.Equal(t, "Cancelled", order.DeliveryStatus)

	rec = a.do(t, http.MethodGet, "/api/v1/admin/confirmations/reject/O1", nil)
	assert.Equal(t, domain.StepIdle, decodeBody[stepResponse](t, rec).Step, "confirmation is used up")

	rec = a.do(t, http.MethodPost, "/api/v1/admin/confirmations/reject/O1", map[string]string{"event": "jump"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = a.do(t, http.MethodPost, "/api/v1/admin/confirmations/reject/O1", map[string]string{"event": "verify"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAPI_Returns(t *testing.T) {
	a := newAPI(t)
	a.createOrder(t, "O1", "partial_paid")

	rec := a.do(t, http.MethodPost, "/api/v1/admin/returns", map[string]string{"id": "R1", "orderId": "O1", "reason": "Wrong Size"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = a.do(t, http.MethodPost, "/api/v1/admin/returns", map[string]string{"orderId": "missing", "reason": "damaged"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/v1/admin/returns/R1/decision", map[string]string{"decision": "rejected"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, string(domain.KindExplanationRequired), decodeBody[utils.ErrorBody](t, rec).Kind)

	rec = a.do(t, http.MethodPost, "/api/v1/admin/returns/R1/decision", map[string]string{"decision": "accepted"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	req := decodeBody[domain.ServiceRequest](t, rec)
	assert.Equal(t, domain.DecisionAccepted, req.DecisionStatus)
	assert.Equal(t, "Return Approved", req.DeliveryStatus)

	rec = a.do(t, http.MethodPut, "/api/v1/admin/returns/R1/vendor-allotment", map[string]bool{"allot": true})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(t, http.MethodGet, "/api/v1/admin/returns?status=accepted&type=partial_paid", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"returns":[{`)

	rec = a.do(t, http.MethodGet, "/api/v1/admin/exchanges", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"exchanges":[]`)
}

func TestAPI_DateOnlyUpperBoundCoversTheDay(t *testing.T) {
	a := newAPI(t)
	a.createOrder(t, "O1", "cod")

	rec := a.do(t, http.MethodGet, "/api/v1/admin/orders?from=2026-03-14&to=2026-03-14", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)

	rec = a.do(t, http.MethodGet, "/api/v1/admin/orders?to=2026-03-13", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"orders":[]`)
}

func TestAPI_VendorsAndEnums(t *testing.T) {
	a := newAPI(t)

	rec := a.do(t, http.MethodGet, "/api/v1/admin/vendors", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []domain.Vendor{{ID: "ven_1", Name: "ven 1"}, {ID: "ven_2", Name: "ven 2"}}, decodeBody[[]domain.Vendor](t, rec))

	for i := 0; i < 2; i++ {
		rec = a.do(t, http.MethodGet, "/api/v1/admin/config/enums", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `{"value":"allotted_to_vendor","label":"Allotted To Vendor"}`)
		assert.Contains(t, rec.Body.String(), `{"value":"cod","label":"COD"}`)
	}
}

func TestAPI_StatsSummary(t *testing.T) {
	a := newAPI(t)
	a.createOrder(t, "O1", "prepaid")
	a.createOrder(t, "O2", "cod")
	rec := a.do(t, http.MethodPost, "/api/v1/admin/orders/O2/accept", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(t, http.MethodGet, "/api/v1/admin/stats/summary?from=2026-03-14&to=2026-03-14", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	summary := decodeBody[usecase.StatsSummary](t, rec)
	orders := summary.Tabs[domain.TabOrders]
	require.NotNil(t, orders)
	assert.Equal(t, 2, orders.Total)
	assert.Equal(t, map[string]int{"pending": 1, "processing": 1}, orders.ByStatus)
	assert.Equal(t, 0, summary.Tabs[domain.TabReturns].Total)

	rec = a.do(t, http.MethodGet, "/api/v1/admin/stats/summary?from=2026-03-15&to=2026-03-01", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseBound(t *testing.T) {
	from, err := parseBound("2026-03-14", false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), from)

	to, err := parseBound("2026-03-14", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 14, 23, 59, 59, 999999999, time.UTC), to)

	exact, err := parseBound("2026-03-14T08:30:00Z", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 14, 8, 30, 0, 0, time.UTC), exact)

	zero, err := parseBound(" ", false)
	require.NoError(t, err)
	assert.True(t, zero.IsZero())
}
