package mocks

import (
	"context"

	"orderdesk-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockRecordRepository struct {
	mock.Mock
}

type MockTrackingProvider struct {
	mock.Mock
}

type MockVendorRegistry struct {
	mock.Mock
}

type MockNotifier struct {
	mock.Mock
}

type MockVerifier struct {
	mock.Mock
}

var (
	_ domain.RecordRepository = (*MockRecordRepository)(nil)
	_ domain.TrackingProvider = (*MockTrackingProvider)(nil)
	_ domain.VendorRegistry   = (*MockVendorRegistry)(nil)
	_ domain.Notifier         = (*MockNotifier)(nil)
	_ domain.Verifier         = (*MockVerifier)(nil)
)

func (m *MockRecordRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockRecordRepository) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockRecordRepository) SaveOrder(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockRecordRepository) ListOrders(ctx context.Context, match domain.OrderPredicate) ([]domain.Order, error) {
	args := m.Called(ctx, match)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockRecordRepository) CreateRequest(ctx context.Context, req *domain.ServiceRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockRecordRepository) GetRequest(ctx context.Context, kind domain.RequestKind, id string) (*domain.ServiceRequest, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServiceRequest), args.Error(1)
}

func (m *MockRecordRepository) SaveRequest(ctx context.Context, req *domain.ServiceRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockRecordRepository) ListRequests(ctx context.Context, kind domain.RequestKind, match domain.RequestPredicate) ([]domain.ServiceRequest, error) {
	args := m.Called(ctx, kind, match)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ServiceRequest), args.Error(1)
}

func (m *MockTrackingProvider) TrackingID(ctx context.Context, ref domain.RecordRef) (string, error) {
	args := m.Called(ctx, ref)
	return args.String(0), args.Error(1)
}

func (m *MockVendorRegistry) ListVendors(ctx context.Context) ([]domain.Vendor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Vendor), args.Error(1)
}

func (m *MockNotifier) Notify(ctx context.Context, event domain.Event) {
	m.Called(ctx, event)
}

func (m *MockVerifier) Verify(ctx context.Context, adminID, code string) (bool, error) {
	args := m.Called(ctx, adminID, code)
	return args.Bool(0), args.Error(1)
}
