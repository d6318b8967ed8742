package usecase

import (
	"context"
	"time"

	"orderdesk-backend/internal/domain"
	"orderdesk-backend/pkg/logger"
	"orderdesk-backend/pkg/metrics"
)

// Option configures the collaborators shared by the workflow usecases.
type Option func(*workflow)

// WithNotifier sets where terminal transitions and decisions are announced.
func WithNotifier(n domain.Notifier) Option {
	return func(w *workflow) {
		if n != nil {
			w.notifier = n
		}
	}
}

func WithMetrics(r *metrics.Recorder) Option {
	return func(w *workflow) { w.metrics = r }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(w *workflow) { w.now = now }
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, domain.Event) {}

// workflow holds what every mutating usecase needs besides the repository.
type workflow struct {
	repo     domain.RecordRepository
	notifier domain.Notifier
	metrics  *metrics.Recorder
	now      func() time.Time
}

func newWorkflow(repo domain.RecordRepository, opts []Option) workflow {
	w := workflow{
		repo:     repo,
		notifier: noopNotifier{},
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&w)
	}
	return w
}

// finish records the outcome of one operation and passes err through.
func (w *workflow) finish(ctx context.Context, op string, ref domain.RecordRef, err error) error {
	switch {
	case err == nil:
		w.metrics.ObserveOperation(op, metrics.ResultOK)
	case domain.KindOf(err) != "" && domain.KindOf(err) != domain.KindUnavailable:
		w.metrics.ObserveOperation(op, metrics.ResultRejected)
		logger.Rejected(ctx, op, ref.String(), err)
	default:
		w.metrics.ObserveOperation(op, metrics.ResultError)
		logger.WithContext(ctx).Error().Err(err).Str("operation", op).Str("record", ref.String()).Msg("Operation Failed")
	}
	return err
}

func (w *workflow) notify(ctx context.Context, eventType string, ref domain.RecordRef, status, note string) {
	w.notifier.Notify(ctx, domain.Event{
		Type:       eventType,
		Ref:        ref,
		Status:     status,
		Note:       note,
		Actor:      domain.ActorID(ctx),
		OccurredAt: w.now(),
	})
}

// loadRecord fetches the order or request ref points at.
func (w *workflow) loadRecord(ctx context.Context, ref domain.RecordRef) (domain.Record, error) {
	if ref.Tab == domain.TabOrders {
		return w.repo.GetOrder(ctx, ref.ID)
	}
	kind, ok := ref.Tab.RequestKind()
	if !ok {
		return nil, domain.Errorf(domain.KindValidation, "unknown tab %q", ref.Tab)
	}
	return w.repo.GetRequest(ctx, kind, ref.ID)
}

func (w *workflow) saveRecord(ctx context.Context, rec domain.Record) error {
	switch r := rec.(type) {
	case *domain.Order:
		return w.repo.SaveOrder(ctx, r)
	case *domain.ServiceRequest:
		return w.repo.SaveRequest(ctx, r)
	}
	return domain.Errorf(domain.KindValidation, "unsupported record type %T", rec)
}

// mutate loads ref, applies fn, and saves the result. Nothing is saved when
// fn fails, so a rejected operation leaves the stored record untouched.
func (w *workflow) mutate(ctx context.Context, ref domain.RecordRef, fn func(domain.Record) error) (domain.Record, error) {
	rec, err := w.loadRecord(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckExpectedVersion(ctx, rec); err != nil {
		return nil, err
	}
	if err := fn(rec); err != nil {
		return nil, err
	}
	if err := w.saveRecord(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}
