package notify

import (
	"context"
	"fmt"
	"sync"

	"orderdesk-backend/internal/domain"
	"orderdesk-backend/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/streadway/amqp"
)

// Channel is the part of *amqp.Channel the publisher needs.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Message is the envelope consumers receive. Pattern doubles as the
// routing key, e.g. "order.delivered".
type Message struct {
	Pattern string       `json:"pattern"`
	Data    domain.Event `json:"data"`
	ID      string       `json:"id,omitempty"`
}

// Publisher publishes events to a durable topic exchange.
type Publisher struct {
	conn     *amqp.Connection
	exchange string

	mu      sync.Mutex
	channel Channel
}

var _ Sink = (*Publisher)(nil)

func NewPublisher(amqpURL, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	p, err := NewChannelPublisher(channel, exchange)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

// NewChannelPublisher declares the exchange on an already open channel.
func NewChannelPublisher(channel Channel, exchange string) (*Publisher, error) {
	if err := channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	return &Publisher{channel: channel, exchange: exchange}, nil
}

func (p *Publisher) Deliver(ctx context.Context, event domain.Event) error {
	body, err := json.Marshal(Message{
		Pattern: event.Type,
		Data:    event,
		ID:      logger.RequestID(ctx),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	logger.WithContext(ctx).Debug().Str("pattern", event.Type).Str("exchange", p.exchange).Msg("Publishing Event")

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.channel.Publish(
		p.exchange,
		event.Type,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (p *Publisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
