package domain

import (
	"slices"
	"strings"
	"time"
)

// RequestKind separates returns from exchanges. They share one shape but are
// stored and queried as separate collections.
type RequestKind string

const (
	RequestKindReturn   RequestKind = "return"
	RequestKindExchange RequestKind = "exchange"
)

func (k RequestKind) Tab() Tab {
	if k == RequestKindExchange {
		return TabExchanges
	}
	return TabReturns
}

func (k RequestKind) Valid() bool {
	return k == RequestKindReturn || k == RequestKindExchange
}

// ServiceRequest is a customer's return or exchange of an order.
type ServiceRequest struct {
	ID             string         `json:"id"`
	Kind           RequestKind    `json:"kind"`
	OrderID        string         `json:"orderId"`
	OrderType      OrderType      `json:"orderType"`
	Reason         Reason         `json:"reason"`
	DecisionStatus DecisionStatus `json:"decisionStatus"`
	Explanation    string         `json:"explanation,omitempty"`
	Allotment
	DeliveryStatus string         `json:"deliveryStatus"`
	History        []StatusChange `json:"history"`
	CreatedAt      time.Time      `json:"createdAt"`
	DecidedAt      *time.Time     `json:"decidedAt,omitempty"`
	LastUpdated    time.Time      `json:"lastUpdated"`
	Version        int64          `json:"version"`
}

func NewServiceRequest(id string, kind RequestKind, order *Order, reason Reason, now time.Time) *ServiceRequest {
	r := &ServiceRequest{
		ID:             id,
		Kind:           kind,
		OrderID:        order.ID,
		OrderType:      order.OrderType,
		Reason:         reason,
		DecisionStatus: DecisionPending,
		Allotment:      NewAllotment(),
		History:        []StatusChange{},
		CreatedAt:      now,
	}
	r.Touch(now)
	return r
}

func (r *ServiceRequest) Clone() *ServiceRequest {
	c := *r
	c.History = slices.Clone(r.History)
	if c.History == nil {
		c.History = []StatusChange{}
	}
	if r.DecidedAt != nil {
		at := *r.DecidedAt
		c.DecidedAt = &at
	}
	return &c
}

func (r *ServiceRequest) Ref() RecordRef { return RecordRef{Tab: r.Kind.Tab(), ID: r.ID} }

func (r *ServiceRequest) RecordVersion() int64 { return r.Version }

func (r *ServiceRequest) StatusLabel() string { return string(r.DecisionStatus) }

func (r *ServiceRequest) TypeOf() OrderType { return r.OrderType }

func (r *ServiceRequest) CreatedOn() time.Time { return r.CreatedAt }

func (r *ServiceRequest) Touch(now time.Time) {
	r.LastUpdated = now
	r.DeliveryStatus = RequestDeliveryStatus(r.Kind, r.DecisionStatus)
}

// AllotmentGuard: only accepted requests are fulfilled.
func (r *ServiceRequest) AllotmentGuard() error {
	if r.DecisionStatus != DecisionAccepted {
		return Errorf(KindIllegalTransition, "%s %s is %s; only accepted requests can be allotted", r.Kind, r.ID, r.DecisionStatus)
	}
	return nil
}

// Decide settles a pending request. A rejection needs an explanation.
func (r *ServiceRequest) Decide(decision DecisionStatus, explanation, actor string, now time.Time) error {
	if decision != DecisionAccepted && decision != DecisionRejected {
		return Errorf(KindValidation, "decision must be %s or %s, got %q", DecisionAccepted, DecisionRejected, decision)
	}
	if r.DecisionStatus != DecisionPending {
		return Errorf(KindIllegalTransition, "%s %s was already %s", r.Kind, r.ID, r.DecisionStatus)
	}
	explanation = strings.TrimSpace(explanation)
	if decision == DecisionRejected && explanation == "" {
		return Errorf(KindExplanationRequired, "an explanation is required to reject %s %s", r.Kind, r.ID)
	}

	r.DecisionStatus = decision
	r.Explanation = explanation
	decidedAt := now
	r.DecidedAt = &decidedAt
	if decision == DecisionAccepted {
		r.Allotment = NewAllotment()
	}
	r.History = append(r.History, StatusChange{
		From:  string(DecisionPending),
		To:    string(decision),
		Note:  explanation,
		Actor: actor,
		At:    now,
	})
	r.Touch(now)
	return nil
}

func (r *ServiceRequest) Validate() error {
	if r.ID == "" {
		return Errorf(KindValidation, "%s id is required", r.Kind)
	}
	if !r.Kind.Valid() {
		return Errorf(KindValidation, "unknown request kind %q", r.Kind)
	}
	if r.OrderID == "" {
		return Errorf(KindValidation, "%s %s must reference an order", r.Kind, r.ID)
	}
	if !slices.Contains(Reasons, r.Reason) {
		return Errorf(KindValidation, "reason %q is not in the catalogue", r.Reason)
	}
	if r.DecisionStatus == DecisionRejected && strings.TrimSpace(r.Explanation) == "" {
		return Errorf(KindExplanationRequired, "rejected %s %s has no explanation", r.Kind, r.ID)
	}
	return r.Allotment.Validate()
}
