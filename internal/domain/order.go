package domain

import (
	"slices"
	"time"
)

// --- Order Entities ---

type LineItem struct {
	SKU       string  `json:"sku"`
	Name      string  `json:"name,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// StatusChange is one entry of a record's audit trail.
type StatusChange struct {
	From  string    `json:"from"`
	To    string    `json:"to"`
	Note  string    `json:"note,omitempty"`
	Actor string    `json:"actor,omitempty"`
	At    time.Time `json:"at"`
}

type Order struct {
	ID            string        `json:"id"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	Status        OrderStatus   `json:"status"`
	OrderType     OrderType     `json:"orderType"`
	Items         []LineItem    `json:"items"`
	Allotment
	TransitStep    TransitStep    `json:"transitStep,omitempty"`
	DeliveryStatus string         `json:"deliveryStatus"`
	History        []StatusChange `json:"history"`
	CreatedAt      time.Time      `json:"createdAt"`
	LastUpdated    time.Time      `json:"lastUpdated"`
	Version        int64          `json:"version"`
}

// NewOrder builds an order as checkout hands it over: pending, nothing allotted.
func NewOrder(id string, orderType OrderType, payment PaymentStatus, items []LineItem, now time.Time) *Order {
	o := &Order{
		ID:            id,
		PaymentStatus: payment,
		Status:        OrderStatusPending,
		OrderType:     orderType,
		Items:         items,
		Allotment:     NewAllotment(),
		History:       []StatusChange{},
		CreatedAt:     now,
	}
	if o.Items == nil {
		o.Items = []LineItem{}
	}
	o.Touch(now)
	return o
}

// Clone returns a deep copy so stored records are never shared with callers.
func (o *Order) Clone() *Order {
	c := *o
	c.Items = slices.Clone(o.Items)
	c.History = slices.Clone(o.History)
	if c.Items == nil {
		c.Items = []LineItem{}
	}
	if c.History == nil {
		c.History = []StatusChange{}
	}
	return &c
}

func (o *Order) Ref() RecordRef { return RecordRef{Tab: TabOrders, ID: o.ID} }

func (o *Order) RecordVersion() int64 { return o.Version }

func (o *Order) StatusLabel() string { return string(o.Status) }

func (o *Order) TypeOf() OrderType { return o.OrderType }

func (o *Order) CreatedOn() time.Time { return o.CreatedAt }

// Touch stamps the mutation time and re-derives the delivery status.
func (o *Order) Touch(now time.Time) {
	o.LastUpdated = now
	o.DeliveryStatus = OrderDeliveryStatus(o.Status, o.Courier.State, o.TransitStep)
}

// AllotmentGuard rejects allotment changes once the order has shipped or ended.
func (o *Order) AllotmentGuard() error {
	switch o.Status {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusAllottedToVendor:
		return nil
	}
	return Errorf(KindIllegalTransition, "order %s is %s; allotment can no longer change", o.ID, o.Status)
}

func (o *Order) Validate() error {
	if o.ID == "" {
		return Errorf(KindValidation, "order id is required")
	}
	if !slices.Contains(OrderStatuses, o.Status) {
		return Errorf(KindValidation, "unknown order status %q", o.Status)
	}
	if !slices.Contains(OrderTypes, o.OrderType) {
		return Errorf(KindValidation, "unknown order type %q", o.OrderType)
	}
	if !slices.Contains(PaymentStatuses, o.PaymentStatus) {
		return Errorf(KindValidation, "unknown payment status %q", o.PaymentStatus)
	}
	return o.Allotment.Validate()
}
