package domain

import (
	"strings"
	"time"
)

// Transition is one legal change of an order's fulfillment status.
type Transition struct {
	From OrderStatus
	To   OrderStatus
	// ConfirmedRejectOnly marks the edge that only RejectOrder may take.
	ConfirmedRejectOnly bool
}

// orderTransitions is the authoritative order state machine.
var orderTransitions = []Transition{
	{From: OrderStatusPending, To: OrderStatusProcessing},
	{From: OrderStatusPending, To: OrderStatusRejected, ConfirmedRejectOnly: true},
	{From: OrderStatusProcessing, To: OrderStatusAllottedToVendor},
	{From: OrderStatusAllottedToVendor, To: OrderStatusShipped},
	{From: OrderStatusShipped, To: OrderStatusDelivered},
	{From: OrderStatusShipped, To: OrderStatusCancelled},
}

type transitionKey struct {
	From OrderStatus
	To   OrderStatus
}

var transitionMap = func() map[transitionKey]Transition {
	m := make(map[transitionKey]Transition, len(orderTransitions))
	for _, t := range orderTransitions {
		m[transitionKey{t.From, t.To}] = t
	}
	return m
}()

// NextOrderStatuses lists the statuses reachable from s.
func NextOrderStatuses(s OrderStatus) []OrderStatus {
	nexts := []OrderStatus{}
	for _, t := range orderTransitions {
		if t.From == s {
			nexts = append(nexts, t.To)
		}
	}
	return nexts
}

// OrderTransitions returns the full state machine for documentation endpoints.
func OrderTransitions() []Transition {
	return append([]Transition(nil), orderTransitions...)
}

func describeNext(s OrderStatus) string {
	nexts := NextOrderStatuses(s)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	names := make([]string, len(nexts))
	for i, n := range nexts {
		names[i] = string(n)
	}
	return strings.Join(names, ", ")
}

// Accept moves a pending order into processing.
func (o *Order) Accept(actor string, now time.Time) error {
	if o.Status != OrderStatusPending {
		return o.illegal(OrderStatusProcessing)
	}
	return o.transition(OrderStatusProcessing, "accepted", actor, now)
}

// Reject ends a pending order. The caller must already hold the admin's
// explicit confirmation.
func (o *Order) Reject(note, actor string, now time.Time) error {
	if o.Status != OrderStatusPending {
		return o.illegal(OrderStatusRejected)
	}
	return o.transition(OrderStatusRejected, note, actor, now)
}

// ChangeStatus is the administrative forward move along the state machine.
func (o *Order) ChangeStatus(to OrderStatus, note, actor string, now time.Time) error {
	t, ok := transitionMap[transitionKey{o.Status, to}]
	if !ok || o.Status.IsTerminal() {
		return o.illegal(to)
	}
	if t.ConfirmedRejectOnly {
		return Errorf(KindIllegalTransition, "order %s can only be rejected through the confirmed reject action", o.ID)
	}
	switch to {
	case OrderStatusAllottedToVendor:
		if o.Vendor.State != VendorAllotted {
			return Errorf(KindVendorNotAllotted, "order %s has no allotted vendor", o.ID)
		}
	case OrderStatusShipped:
		if o.Courier.State != CourierAllotted {
			return Errorf(KindIllegalTransition, "order %s cannot ship before a courier is allotted", o.ID)
		}
	}
	return o.transition(to, note, actor, now)
}

// MarkOutForDelivery advances the shipped sub-step.
func (o *Order) MarkOutForDelivery(actor string, now time.Time) error {
	if o.Status != OrderStatusShipped || o.TransitStep != TransitInTransit {
		return Errorf(KindIllegalTransition, "order %s is %s and cannot be marked out for delivery", o.ID, o.DeliveryStatus)
	}
	o.TransitStep = TransitOutForDelivery
	o.History = append(o.History, StatusChange{
		From:  string(TransitInTransit),
		To:    string(TransitOutForDelivery),
		Actor: actor,
		At:    now,
	})
	o.Touch(now)
	return nil
}

func (o *Order) transition(to OrderStatus, note, actor string, now time.Time) error {
	if _, ok := transitionMap[transitionKey{o.Status, to}]; !ok {
		return o.illegal(to)
	}
	from := o.Status
	o.Status = to
	if to == OrderStatusShipped {
		o.TransitStep = TransitInTransit
	}
	o.History = append(o.History, StatusChange{
		From:  string(from),
		To:    string(to),
		Note:  strings.TrimSpace(note),
		Actor: actor,
		At:    now,
	})
	o.Touch(now)
	return nil
}

func (o *Order) illegal(to OrderStatus) error {
	return Errorf(KindIllegalTransition,
		"invalid transition: %s -> %s is not allowed for order %s. Valid transitions from %s are: %s",
		o.Status, to, o.ID, o.Status, describeNext(o.Status))
}
