package domain

import (
	"context"
	"time"
)

// --- Interfaces ---

type OrderPredicate func(*Order) bool

type RequestPredicate func(*ServiceRequest) bool

// RecordRepository holds the three collections. Reads return copies. Saves
// compare the record's Version with the stored one and bump it on success;
// a mismatch fails with KindConflict. Lists keep insertion order.
type RecordRepository interface {
	CreateOrder(ctx context.Context, order *Order) error
	GetOrder(ctx context.Context, id string) (*Order, error)
	SaveOrder(ctx context.Context, order *Order) error
	ListOrders(ctx context.Context, match OrderPredicate) ([]Order, error)

	CreateRequest(ctx context.Context, req *ServiceRequest) error
	GetRequest(ctx context.Context, kind RequestKind, id string) (*ServiceRequest, error)
	SaveRequest(ctx context.Context, req *ServiceRequest) error
	ListRequests(ctx context.Context, kind RequestKind, match RequestPredicate) ([]ServiceRequest, error)
}

type Vendor struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// VendorRegistry lists the vendors an admin can pick from.
type VendorRegistry interface {
	ListVendors(ctx context.Context) ([]Vendor, error)
}

// TrackingProvider hands out a tracking id when a courier is allotted.
type TrackingProvider interface {
	TrackingID(ctx context.Context, ref RecordRef) (string, error)
}

// Notification event types
const (
	EventOrderDelivered   = "order.delivered"
	EventOrderCancelled   = "order.cancelled"
	EventOrderRejected    = "order.rejected"
	EventReturnAccepted   = "return.accepted"
	EventReturnRejected   = "return.rejected"
	EventExchangeAccepted = "exchange.accepted"
	EventExchangeRejected = "exchange.rejected"
)

type Event struct {
	Type       string    `json:"type"`
	Ref        RecordRef `json:"ref"`
	Status     string    `json:"status"`
	Note       string    `json:"note,omitempty"`
	Actor      string    `json:"actor,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Notifier is fire-and-forget: Notify must not block on delivery.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

// Verifier checks a second-factor code for an admin.
type Verifier interface {
	Verify(ctx context.Context, adminID, code string) (bool, error)
}
