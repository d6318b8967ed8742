package usecase

import (
	"context"
	"strings"

	"orderdesk-backend/internal/domain"
	"orderdesk-backend/pkg/logger"

	"github.com/google/uuid"
)

// OrderIntake is an order handed over by checkout.
type OrderIntake struct {
	ID            string
	OrderType     domain.OrderType
	PaymentStatus domain.PaymentStatus
	Items         []domain.LineItem
}

type OrderUsecase struct {
	workflow
}

func NewOrderUsecase(repo domain.RecordRepository, opts ...Option) *OrderUsecase {
	return &OrderUsecase{workflow: newWorkflow(repo, opts)}
}

func (u *OrderUsecase) CreateOrder(ctx context.Context, in OrderIntake) (*domain.Order, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}
	order := domain.NewOrder(id, in.OrderType, in.PaymentStatus, in.Items, u.now())
	err := order.Validate()
	if err == nil {
		err = u.repo.CreateOrder(ctx, order)
	}
	if err == nil {
		logger.WithContext(ctx).Info().Str("order_id", id).Str("order_type", string(in.OrderType)).Msg("Order Received")
	}
	if err := u.finish(ctx, "create_order", order.Ref(), err); err != nil {
		return nil, err
	}
	return order, nil
}

func (u *OrderUsecase) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return u.repo.GetOrder(ctx, id)
}

// AcceptOrder moves a pending order into processing.
func (u *OrderUsecase) AcceptOrder(ctx context.Context, id string) (*domain.Order, error) {
	return u.transition(ctx, "accept_order", id, func(o *domain.Order) error {
		return o.Accept(domain.ActorID(ctx), u.now())
	})
}

// RejectOrder ends a pending order. confirmed reports whether the admin has
// completed the confirmation step; without it nothing changes.
func (u *OrderUsecase) RejectOrder(ctx context.Context, id, note string, confirmed bool) (*domain.Order, error) {
	return u.transition(ctx, "reject_order", id, func(o *domain.Order) error {
		if o.Status == domain.OrderStatusPending && !confirmed {
			return domain.Errorf(domain.KindValidation, "rejecting order %s requires explicit confirmation", id)
		}
		return o.Reject(note, domain.ActorID(ctx), u.now())
	})
}

// ChangeOrderStatus applies an administrative status change. The status is
// parsed here so console labels and the "accepted" synonym are accepted.
func (u *OrderUsecase) ChangeOrderStatus(ctx context.Context, id, newStatus, note string) (*domain.Order, error) {
	to, err := domain.ParseOrderStatus(newStatus)
	if err != nil {
		return nil, u.finish(ctx, "change_order_status", domain.RecordRef{Tab: domain.TabOrders, ID: id}, err)
	}
	return u.transition(ctx, "change_order_status", id, func(o *domain.Order) error {
		return o.ChangeStatus(to, note, domain.ActorID(ctx), u.now())
	})
}

// MarkOutForDelivery advances a shipped order from in transit to out for delivery.
func (u *OrderUsecase) MarkOutForDelivery(ctx context.Context, id string) (*domain.Order, error) {
	return u.transition(ctx, "mark_out_for_delivery", id, func(o *domain.Order) error {
		return o.MarkOutForDelivery(domain.ActorID(ctx), u.now())
	})
}

func (u *OrderUsecase) transition(ctx context.Context, op, id string, apply func(*domain.Order) error) (*domain.Order, error) {
	ref := domain.RecordRef{Tab: domain.TabOrders, ID: id}
	var from domain.OrderStatus
	rec, err := u.mutate(ctx, ref, func(rec domain.Record) error {
		o := rec.(*domain.Order)
		from = o.Status
		return apply(o)
	})
	if err := u.finish(ctx, op, ref, err); err != nil {
		return nil, err
	}
	order := rec.(*domain.Order)
	if order.Status != from {
		logger.Transition(ctx, ref.String(), string(from), string(order.Status), domain.ActorID(ctx))
	}
	if event, ok := terminalEvents[order.Status]; ok && order.Status != from {
		u.notify(ctx, event, ref, string(order.Status), lastNote(order.History))
	}
	return order, nil
}

var terminalEvents = map[domain.OrderStatus]string{
	domain.OrderStatusDelivered: domain.EventOrderDelivered,
	domain.OrderStatusCancelled: domain.EventOrderCancelled,
	domain.OrderStatusRejected:  domain.EventOrderRejected,
}

func lastNote(history []domain.StatusChange) string {
	if len(history) == 0 {
		return ""
	}
	return history[len(history)-1].Note
}
