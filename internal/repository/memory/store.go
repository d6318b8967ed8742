// Package memory is the in-process record store. The sqlite store wraps it and
// snapshots its state after every write.
package memory

import (
	"context"
	"sync"

	"orderdesk-backend/internal/domain"
)

var _ domain.RecordRepository = (*Store)(nil)

// Snapshot is the full store state, collections in insertion order.
type Snapshot struct {
	Orders    []domain.Order          `json:"orders"`
	Returns   []domain.ServiceRequest `json:"returns"`
	Exchanges []domain.ServiceRequest `json:"exchanges"`
}

type requestBucket struct {
	byID  map[string]*domain.ServiceRequest
	order []string
}

func newRequestBucket() *requestBucket {
	return &requestBucket{byID: map[string]*domain.ServiceRequest{}}
}

type Store struct {
	mu         sync.RWMutex
	orders     map[string]*domain.Order
	orderIDs   []string
	requests   map[domain.RequestKind]*requestBucket
	afterWrite func() error
}

func NewStore() *Store {
	return &Store{
		orders: map[string]*domain.Order{},
		requests: map[domain.RequestKind]*requestBucket{
			domain.RequestKindReturn:   newRequestBucket(),
			domain.RequestKindExchange: newRequestBucket(),
		},
	}
}

// OnWrite registers fn to run, under the write lock, after every successful
// create or save. An error from fn is returned to the writer and the write is
// undone, including the caller's version bump.
func (s *Store) OnWrite(fn func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.afterWrite = fn
}

func (s *Store) written() error {
	if s.afterWrite == nil {
		return nil
	}
	return s.afterWrite()
}

// --- Orders ---

func (s *Store) CreateOrder(ctx context.Context, order *domain.Order) error {
	if err := order.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.orders[order.ID]; exists {
		return domain.Errorf(domain.KindValidation, "order %s already exists", order.ID)
	}
	prevVersion := order.Version
	order.Version = 1
	s.orders[order.ID] = order.Clone()
	s.orderIDs = append(s.orderIDs, order.ID)
	if err := s.written(); err != nil {
		delete(s.orders, order.ID)
		s.orderIDs = s.orderIDs[:len(s.orderIDs)-1]
		order.Version = prevVersion
		return err
	}
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, domain.Errorf(domain.KindNotFound, "order %s not found", id)
	}
	return o.Clone(), nil
}

func (s *Store) SaveOrder(ctx context.Context, order *domain.Order) error {
	if err := order.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.orders[order.ID]
	if !ok {
		return domain.Errorf(domain.KindNotFound, "order %s not found", order.ID)
	}
	if stored.Version != order.Version {
		return domain.Errorf(domain.KindConflict, "order %s was modified concurrently (version %d, have %d)", order.ID, stored.Version, order.Version)
	}
	order.Version++
	s.orders[order.ID] = order.Clone()
	if err := s.written(); err != nil {
		s.orders[order.ID] = stored
		order.Version--
		return err
	}
	return nil
}

func (s *Store) ListOrders(ctx context.Context, match domain.OrderPredicate) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Order, 0, len(s.orderIDs))
	for _, id := range s.orderIDs {
		o := s.orders[id]
		if match == nil || match(o) {
			out = append(out, *o.Clone())
		}
	}
	return out, nil
}

// --- Returns & Exchanges ---

func (s *Store) bucket(kind domain.RequestKind) (*requestBucket, error) {
	b, ok := s.requests[kind]
	if !ok {
		return nil, domain.Errorf(domain.KindValidation, "unknown request kind %q", kind)
	}
	return b, nil
}

func (s *Store) CreateRequest(ctx context.Context, req *domain.ServiceRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucket(req.Kind)
	if err != nil {
		return err
	}
	if _, exists := b.byID[req.ID]; exists {
		return domain.Errorf(domain.KindValidation, "%s %s already exists", req.Kind, req.ID)
	}
	prevVersion := req.Version
	req.Version = 1
	b.byID[req.ID] = req.Clone()
	b.order = append(b.order, req.ID)
	if err := s.written(); err != nil {
		delete(b.byID, req.ID)
		b.order = b.order[:len(b.order)-1]
		req.Version = prevVersion
		return err
	}
	return nil
}

func (s *Store) GetRequest(ctx context.Context, kind domain.RequestKind, id string) (*domain.ServiceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, err := s.bucket(kind)
	if err != nil {
		return nil, err
	}
	r, ok := b.byID[id]
	if !ok {
		return nil, domain.Errorf(domain.KindNotFound, "%s %s not found", kind, id)
	}
	return r.Clone(), nil
}

func (s *Store) SaveRequest(ctx context.Context, req *domain.ServiceRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucket(req.Kind)
	if err != nil {
		return err
	}
	stored, ok := b.byID[req.ID]
	if !ok {
		return domain.Errorf(domain.KindNotFound, "%s %s not found", req.Kind, req.ID)
	}
	if stored.Version != req.Version {
		return domain.Errorf(domain.KindConflict, "%s %s was modified concurrently (version %d, have %d)", req.Kind, req.ID, stored.Version, req.Version)
	}
	req.Version++
	b.byID[req.ID] = req.Clone()
	if err := s.written(); err != nil {
		b.byID[req.ID] = stored
		req.Version--
		return err
	}
	return nil
}

func (s *Store) ListRequests(ctx context.Context, kind domain.RequestKind, match domain.RequestPredicate) ([]domain.ServiceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, err := s.bucket(kind)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ServiceRequest, 0, len(b.order))
	for _, id := range b.order {
		r := b.byID[id]
		if match == nil || match(r) {
			out = append(out, *r.Clone())
		}
	}
	return out, nil
}

// --- Snapshots ---

// ExportState copies the whole store.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ExportLocked()
}

// ExportLocked is ExportState for OnWrite hooks, which already hold the lock.
func (s *Store) ExportLocked() Snapshot {
	snap := Snapshot{
		Orders:    make([]domain.Order, 0, len(s.orderIDs)),
		Returns:   s.exportBucket(domain.RequestKindReturn),
		Exchanges: s.exportBucket(domain.RequestKindExchange),
	}
	for _, id := range s.orderIDs {
		snap.Orders = append(snap.Orders, *s.orders[id].Clone())
	}
	return snap
}

func (s *Store) exportBucket(kind domain.RequestKind) []domain.ServiceRequest {
	b := s.requests[kind]
	out := make([]domain.ServiceRequest, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, *b.byID[id].Clone())
	}
	return out
}

// ImportState replaces the store contents with snap.
func (s *Store) ImportState(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = make(map[string]*domain.Order, len(snap.Orders))
	s.orderIDs = s.orderIDs[:0]
	for i := range snap.Orders {
		o := snap.Orders[i].Clone()
		s.orders[o.ID] = o
		s.orderIDs = append(s.orderIDs, o.ID)
	}
	s.requests[domain.RequestKindReturn] = importBucket(snap.Returns)
	s.requests[domain.RequestKindExchange] = importBucket(snap.Exchanges)
}

func importBucket(items []domain.ServiceRequest) *requestBucket {
	b := newRequestBucket()
	for i := range items {
		r := items[i].Clone()
		b.byID[r.ID] = r
		b.order = append(b.order, r.ID)
	}
	return b
}
