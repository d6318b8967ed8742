package usecase

import (
	"context"
	"testing"
	"time"

	"orderdesk-backend/internal/domain"
	"orderdesk-backend/internal/mocks"
	"orderdesk-backend/internal/repository/memory"
	"orderdesk-backend/pkg/metrics"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

type fixture struct {
	repo     *memory.Store
	tracking *mocks.MockTrackingProvider
	vendors  *mocks.MockVendorRegistry
	notifier *mocks.MockNotifier
	metrics  *metrics.Recorder

	orders    *OrderUsecase
	requests  *RequestUsecase
	allotment *AllotmentUsecase
	query     *QueryUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:     memory.NewStore(),
		tracking: new(mocks.MockTrackingProvider),
		vendors:  new(mocks.MockVendorRegistry),
		notifier: new(mocks.MockNotifier),
		metrics:  metrics.New(),
	}
	f.notifier.On("Notify", mock.Anything, mock.Anything).Return().Maybe()

	opts := []Option{
		WithNotifier(f.notifier),
		WithMetrics(f.metrics),
		WithClock(func() time.Time { return testNow }),
	}
	f.orders = NewOrderUsecase(f.repo, opts...)
	f.requests = NewRequestUsecase(f.repo, opts...)
	f.allotment = NewAllotmentUsecase(f.repo, f.vendors, f.tracking, opts...)
	f.query = NewQueryUsecase(f.repo, f.metrics)
	return f
}

func adminCtx() context.Context {
	return context.WithValue(context.Background(), domain.AdminContextKey, &domain.Admin{ID: "admin-1", Role: domain.RoleAdmin})
}

// seedOrder stores a pending order created at the given time.
func (f *fixture) seedOrder(t *testing.T, id string, typ domain.OrderType, createdAt time.Time) *domain.Order {
	t.Helper()
	o := domain.NewOrder(id, typ, domain.PaymentStatusPaid, []domain.LineItem{{SKU: "SKU-" + id, Quantity: 1, UnitPrice: 25}}, createdAt)
	require.NoError(t, f.repo.CreateOrder(context.Background(), o))
	return o
}

func (f *fixture) seedRequest(t *testing.T, kind domain.RequestKind, id, orderID string, createdAt time.Time) *domain.ServiceRequest {
	t.Helper()
	o, err := f.repo.GetOrder(context.Background(), orderID)
	require.NoError(t, err)
	r := domain.NewServiceRequest(id, kind, o, domain.ReasonWrongSize, createdAt)
	require.NoError(t, f.repo.CreateRequest(context.Background(), r))
	return r
}

func orderRef(id string) domain.RecordRef {
	return domain.RecordRef{Tab: domain.TabOrders, ID: id}
}

// allotVendor runs the full open, select, confirm sequence.
func (f *fixture) allotVendor(t *testing.T, ref domain.RecordRef, name string) {
	t.Helper()
	ctx := adminCtx()
	_, err := f.allotment.SetVendorAllotment(ctx, ref, true)
	require.NoError(t, err)
	_, err = f.allotment.SelectVendor(ctx, ref, name)
	require.NoError(t, err)
	_, err = f.allotment.ConfirmVendor(ctx, ref)
	require.NoError(t, err)
}

func eventOfType(eventType string) interface{} {
	return mock.MatchedBy(func(e domain.Event) bool { return e.Type == eventType })
}
