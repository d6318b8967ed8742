package notify

import (
	"context"
	"sync"
	"time"

	"orderdesk-backend/internal/domain"
	"orderdesk-backend/pkg/logger"
	"orderdesk-backend/pkg/metrics"
)

// Delivery outcomes recorded per event.
const (
	OutcomeSent    = "sent"
	OutcomeFailed  = "failed"
	OutcomeDropped = "dropped"
)

// Sink delivers one event to its destination.
type Sink interface {
	Deliver(ctx context.Context, event domain.Event) error
}

type queued struct {
	event     domain.Event
	requestID string
}

// Dispatcher is the domain.Notifier used by the workflow. Notify only
// enqueues. A single worker delivers in order, and when the queue is full
// the event is dropped and counted rather than blocking the caller.
type Dispatcher struct {
	sink    Sink
	metrics *metrics.Recorder
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan queued
	done   chan struct{}
}

var _ domain.Notifier = (*Dispatcher)(nil)

func NewDispatcher(sink Sink, buffer int, rec *metrics.Recorder) *Dispatcher {
	if buffer < 1 {
		buffer = 1
	}
	d := &Dispatcher{
		sink:    sink,
		metrics: rec,
		timeout: 10 * time.Second,
		queue:   make(chan queued, buffer),
		done:    make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Dispatcher) Notify(ctx context.Context, event domain.Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.metrics.ObserveNotification(event.Type, OutcomeDropped)
		return
	}

	item := queued{event: event, requestID: logger.RequestID(ctx)}
	select {
	case d.queue <- item:
	default:
		d.metrics.ObserveNotification(event.Type, OutcomeDropped)
		logger.WithContext(ctx).Warn().Str("event", event.Type).Str("record", event.Ref.String()).Msg("Notification Queue Full")
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for item := range d.queue {
		d.deliver(item)
	}
}

func (d *Dispatcher) deliver(item queued) {
	l := logger.WithRequestID(item.requestID)
	ctx, cancel := context.WithTimeout(logger.NewContext(context.Background(), &l), d.timeout)
	defer cancel()

	if err := d.sink.Deliver(ctx, item.event); err != nil {
		d.metrics.ObserveNotification(item.event.Type, OutcomeFailed)
		l.Error().Err(err).Str("event", item.event.Type).Str("record", item.event.Ref.String()).Msg("Notification Delivery Failed")
		return
	}
	d.metrics.ObserveNotification(item.event.Type, OutcomeSent)
}

// Close stops accepting events and waits for the queue to drain or ctx to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
