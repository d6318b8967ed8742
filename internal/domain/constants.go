package domain

import (
	"strings"

	"orderdesk-backend/pkg/utils"
)

// Order Statuses
type OrderStatus string

const (
	OrderStatusPending          OrderStatus = "pending"
	OrderStatusProcessing       OrderStatus = "processing"
	OrderStatusAllottedToVendor OrderStatus = "allotted_to_vendor"
	OrderStatusShipped          OrderStatus = "shipped"
	OrderStatusDelivered        OrderStatus = "delivered"
	OrderStatusCancelled        OrderStatus = "cancelled"
	OrderStatusRejected         OrderStatus = "rejected"
)

// "accepted" is what the accept action was called in the console; it means processing.
const orderStatusAccepted = "accepted"

// IsTerminal reports whether no further transition may leave s.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusDelivered, OrderStatusCancelled, OrderStatusRejected:
		return true
	}
	return false
}

// ParseOrderStatus accepts stored values and console labels ("Allotted To Vendor").
func ParseOrderStatus(s string) (OrderStatus, error) {
	key := utils.NormalizeEnum(s)
	if key == orderStatusAccepted {
		return OrderStatusProcessing, nil
	}
	for _, st := range OrderStatuses {
		if string(st) == key {
			return st, nil
		}
	}
	return "", Errorf(KindValidation, "unknown order status %q", s)
}

// Payment Statuses
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPending PaymentStatus = "pending"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(utils.NormalizeEnum(s)) {
	case PaymentStatusPaid:
		return PaymentStatusPaid, nil
	case PaymentStatusPending:
		return PaymentStatusPending, nil
	}
	return "", Errorf(KindValidation, "unknown payment status %q", s)
}

// Order Types
type OrderType string

const (
	OrderTypePrepaid     OrderType = "prepaid"
	OrderTypeCOD         OrderType = "cod"
	OrderTypePartialPaid OrderType = "partial_paid"
)

func ParseOrderType(s string) (OrderType, error) {
	key := utils.NormalizeEnum(s)
	for _, t := range OrderTypes {
		if string(t) == key {
			return t, nil
		}
	}
	return "", Errorf(KindValidation, "unknown order type %q", s)
}

// Decision Statuses (returns and exchanges)
type DecisionStatus string

const (
	DecisionPending  DecisionStatus = "pending"
	DecisionAccepted DecisionStatus = "accepted"
	DecisionRejected DecisionStatus = "rejected"
)

func ParseDecisionStatus(s string) (DecisionStatus, error) {
	key := utils.NormalizeEnum(s)
	if key == "approved" {
		return DecisionAccepted, nil
	}
	for _, d := range DecisionStatuses {
		if string(d) == key {
			return d, nil
		}
	}
	return "", Errorf(KindValidation, "unknown decision status %q", s)
}

// Return/Exchange reason catalogue
type Reason string

const (
	ReasonDamaged        Reason = "damaged"
	ReasonWrongItem      Reason = "wrong_item"
	ReasonWrongSize      Reason = "wrong_size"
	ReasonQualityIssue   Reason = "quality_issue"
	ReasonNotAsDescribed Reason = "not_as_described"
	ReasonChangedMind    Reason = "changed_mind"
	ReasonOther          Reason = "other"
)

func ParseReason(s string) (Reason, error) {
	key := utils.NormalizeEnum(s)
	for _, r := range Reasons {
		if string(r) == key {
			return r, nil
		}
	}
	return "", Errorf(KindValidation, "reason %q is not in the catalogue", s)
}

// Tabs select which collection a query or allotment targets.
type Tab string

const (
	TabOrders    Tab = "orders"
	TabReturns   Tab = "returns"
	TabExchanges Tab = "exchanges"
)

func ParseTab(s string) (Tab, error) {
	switch Tab(utils.NormalizeEnum(s)) {
	case TabOrders:
		return TabOrders, nil
	case TabReturns:
		return TabReturns, nil
	case TabExchanges:
		return TabExchanges, nil
	}
	return "", Errorf(KindValidation, "unknown tab %q", s)
}

// RequestKind returns the request kind stored in the tab, false for orders.
func (t Tab) RequestKind() (RequestKind, bool) {
	switch t {
	case TabReturns:
		return RequestKindReturn, true
	case TabExchanges:
		return RequestKindExchange, true
	}
	return "", false
}

// List Exports for API
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusAllottedToVendor,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusRejected,
}

var PaymentStatuses = []PaymentStatus{
	PaymentStatusPaid,
	PaymentStatusPending,
}

var OrderTypes = []OrderType{
	OrderTypePrepaid,
	OrderTypeCOD,
	OrderTypePartialPaid,
}

var DecisionStatuses = []DecisionStatus{
	DecisionPending,
	DecisionAccepted,
	DecisionRejected,
}

var Reasons = []Reason{
	ReasonDamaged,
	ReasonWrongItem,
	ReasonWrongSize,
	ReasonQualityIssue,
	ReasonNotAsDescribed,
	ReasonChangedMind,
	ReasonOther,
}

var Tabs = []Tab{
	TabOrders,
	TabReturns,
	TabExchanges,
}

var labelOverrides = map[string]string{
	"cod": "COD",
}

// Label renders a stored enum key for the console: "allotted_to_vendor" ->
// "Allotted To Vendor".
func Label(key string) string {
	if l, ok := labelOverrides[key]; ok {
		return l
	}
	words := strings.Split(key, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
