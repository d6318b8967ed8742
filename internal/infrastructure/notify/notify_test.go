package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"orderdesk-backend/internal/domain"
	"orderdesk-backend/pkg/logger"
	"orderdesk-backend/pkg/metrics"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	events []domain.Event
	fail   map[string]bool
	gate   chan struct{}
}

func (s *recordingSink) Deliver(ctx context.Context, event domain.Event) error {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail[event.Type] {
		return errors.New("broker unreachable")
	}
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) delivered() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.events))
	for i, e := range s.events {
		out[i] = e.Ref.ID
	}
	return out
}

func event(typ, id string) domain.Event {
	return domain.Event{Type: typ, Ref: domain.RecordRef{Tab: domain.TabOrders, ID: id}, OccurredAt: time.Now()}
}

func TestDispatcher_DeliversInOrder(t *testing.T) {
	sink := &recordingSink{fail: map[string]bool{domain.EventOrderRejected: true}}
	rec := metrics.New()
	d := NewDispatcher(sink, 8, rec)

	d.Notify(context.Background(), event(domain.EventOrderDelivered, "O1"))
	d.Notify(context.Background(), event(domain.EventOrderRejected, "O2"))
	d.Notify(context.Background(), event(domain.EventOrderCancelled, "O3"))
	require.NoError(t, d.Close(context.Background()))

	assert.Equal(t, []string{"O1", "O3"}, sink.delivered())
	n := rec.Notifications()
	assert.Equal(t, 1.0, testutil.ToFloat64(n.WithLabelValues(domain.EventOrderDelivered, OutcomeSent)))
	assert.Equal(t, 1.0, testutil.ToFloat64(n.WithLabelValues(domain.EventOrderRejected, OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(n.WithLabelValues(domain.EventOrderCancelled, OutcomeSent)))
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	sink := &recordingSink{gate: make(chan struct{})}
	rec := metrics.New()
	d := NewDispatcher(sink, 1, rec)

	// The worker takes the first event and blocks on the gate. The second
	// fills the buffer, so the third cannot be queued.
	d.Notify(context.Background(), event(domain.EventOrderDelivered, "O1"))
	assert.Eventually(t, func() bool { return len(d.queue) == 0 }, time.Second, time.Millisecond)
	d.Notify(context.Background(), event(domain.EventOrderDelivered, "O2"))

	done := make(chan struct{})
	go func() {
		d.Notify(context.Background(), event(domain.EventOrderDelivered, "O3"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a full queue")
	}

	close(sink.gate)
	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, []string{"O1", "O2"}, sink.delivered())
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.Notifications().WithLabelValues(domain.EventOrderDelivered, OutcomeDropped)))
}

func TestDispatcher_AfterClose(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink, 4, nil)
	require.NoError(t, d.Close(context.Background()))
	require.NoError(t, d.Close(context.Background()))

	d.Notify(context.Background(), event(domain.EventOrderDelivered, "O1"))
	assert.Empty(t, sink.delivered())
}

type fakeChannel struct {
	declared  []string
	published []amqp.Publishing
	keys      []string
	closed    bool
	failWith  error
}

func (c *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	if c.failWith != nil {
		return c.failWith
	}
	c.declared = append(c.declared, name+":"+kind)
	return nil
}

func (c *fakeChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	c.keys = append(c.keys, exchange+"/"+key)
	c.published = append(c.published, msg)
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func TestPublisher_Deliver(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewChannelPublisher(ch, "orderdesk.events")
	require.NoError(t, err)
	assert.Equal(t, []string{"orderdesk.events:topic"}, ch.declared)

	ctx := logger.ContextWithRequestID(context.Background(), "req-9")
	ev := event(domain.EventReturnAccepted, "R1")
	ev.Ref.Tab = domain.TabReturns
	require.NoError(t, p.Deliver(ctx, ev))

	require.Len(t, ch.published, 1)
	assert.Equal(t, []string{"orderdesk.events/return.accepted"}, ch.keys)
	assert.Equal(t, "application/json", ch.published[0].ContentType)
	assert.Equal(t, amqp.Persistent, ch.published[0].DeliveryMode)

	var msg Message
	require.NoError(t, json.Unmarshal(ch.published[0].Body, &msg))
	assert.Equal(t, "return.accepted", msg.Pattern)
	assert.Equal(t, "req-9", msg.ID)
	assert.Equal(t, "R1", msg.Data.Ref.ID)

	p.Close()
	assert.True(t, ch.closed)
}

func TestPublisher_DeclareFailure(t *testing.T) {
	ch := &fakeChannel{failWith: errors.New("access refused")}
	_, err := NewChannelPublisher(ch, "x")
	assert.Error(t, err)
	assert.True(t, ch.closed)
}
