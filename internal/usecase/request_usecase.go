package usecase

import (
	"context"
	"strings"

	"orderdesk-backend/internal/domain"
	"orderdesk-backend/pkg/logger"

	"github.com/google/uuid"
)

// RequestIntake is a return or exchange opened by a customer.
type RequestIntake struct {
	ID      string
	OrderID string
	Reason  string
}

// RequestUsecase runs the return and exchange decision workflow.
type RequestUsecase struct {
	workflow
}

func NewRequestUsecase(repo domain.RecordRepository, opts ...Option) *RequestUsecase {
	return &RequestUsecase{workflow: newWorkflow(repo, opts)}
}

func (u *RequestUsecase) CreateReturn(ctx context.Context, in RequestIntake) (*domain.ServiceRequest, error) {
	return u.create(ctx, domain.RequestKindReturn, in)
}

func (u *RequestUsecase) CreateExchange(ctx context.Context, in RequestIntake) (*domain.ServiceRequest, error) {
	return u.create(ctx, domain.RequestKindExchange, in)
}

func (u *RequestUsecase) create(ctx context.Context, kind domain.RequestKind, in RequestIntake) (*domain.ServiceRequest, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}
	ref := domain.RecordRef{Tab: kind.Tab(), ID: id}
	op := "create_" + string(kind)

	reason, err := domain.ParseReason(in.Reason)
	if err != nil {
		return nil, u.finish(ctx, op, ref, err)
	}
	order, err := u.repo.GetOrder(ctx, in.OrderID)
	if err != nil {
		return nil, u.finish(ctx, op, ref, err)
	}
	req := domain.NewServiceRequest(id, kind, order, reason, u.now())
	if err := u.finish(ctx, op, ref, u.repo.CreateRequest(ctx, req)); err != nil {
		return nil, err
	}
	logger.WithContext(ctx).Info().Str("record", ref.String()).Str("order_id", order.ID).Str("reason", string(reason)).Msg("Request Received")
	return req, nil
}

func (u *RequestUsecase) GetRequest(ctx context.Context, kind domain.RequestKind, id string) (*domain.ServiceRequest, error) {
	if !kind.Valid() {
		return nil, domain.Errorf(domain.KindValidation, "unknown request kind %q", kind)
	}
	return u.repo.GetRequest(ctx, kind, id)
}

func (u *RequestUsecase) DecideReturn(ctx context.Context, id, decision, explanation string) (*domain.ServiceRequest, error) {
	return u.decide(ctx, domain.RequestKindReturn, id, decision, explanation)
}

func (u *RequestUsecase) DecideExchange(ctx context.Context, id, decision, explanation string) (*domain.ServiceRequest, error) {
	return u.decide(ctx, domain.RequestKindExchange, id, decision, explanation)
}

func (u *RequestUsecase) decide(ctx context.Context, kind domain.RequestKind, id, decision, explanation string) (*domain.ServiceRequest, error) {
	ref := domain.RecordRef{Tab: kind.Tab(), ID: id}
	op := "decide_" + string(kind)

	d, err := domain.ParseDecisionStatus(decision)
	if err != nil {
		return nil, u.finish(ctx, op, ref, err)
	}
	rec, err := u.mutate(ctx, ref, func(rec domain.Record) error {
		return rec.(*domain.ServiceRequest).Decide(d, explanation, domain.ActorID(ctx), u.now())
	})
	if err := u.finish(ctx, op, ref, err); err != nil {
		return nil, err
	}
	req := rec.(*domain.ServiceRequest)
	logger.Transition(ctx, ref.String(), string(domain.DecisionPending), string(req.DecisionStatus), domain.ActorID(ctx))
	u.notify(ctx, decisionEvent(kind, req.DecisionStatus), ref, string(req.DecisionStatus), req.Explanation)
	return req, nil
}

func decisionEvent(kind domain.RequestKind, d domain.DecisionStatus) string {
	switch {
	case kind == domain.RequestKindReturn && d == domain.DecisionAccepted:
		return domain.EventReturnAccepted
	case kind == domain.RequestKindReturn:
		return domain.EventReturnRejected
	case d == domain.DecisionAccepted:
		return domain.EventExchangeAccepted
	default:
		return domain.EventExchangeRejected
	}
}
