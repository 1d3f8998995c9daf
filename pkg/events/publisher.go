// Package events publishes domain events to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher sends an encoded event to a durable queue.
type Publisher interface {
	Publish(ctx context.Context, queue string, body []byte) error
	Close() error
}

type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type dialFunc func(url string) (channel, func() error, error)

func dialAMQP(url string) (channel, func() error, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	return ch, conn.Close, nil
}

// AMQPPublisher keeps one lazily opened channel and reopens it after a failed publish.
type AMQPPublisher struct {
	url    string
	dial   dialFunc
	logger *zap.Logger

	mu        sync.Mutex
	ch        channel
	closeConn func() error
	declared  map[string]bool
}

// NewAMQPPublisher builds a publisher for the broker at url. No connection is made until the first Publish.
func NewAMQPPublisher(url string, logger *zap.Logger) *AMQPPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AMQPPublisher{url: url, dial: dialAMQP, logger: logger, declared: make(map[string]bool)}
}

// Publish declares queue (durable, idempotent) and sends body as a persistent JSON message
// on the default exchange.
func (p *AMQPPublisher) Publish(ctx context.Context, queue string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil {
		ch, closeConn, err := p.dial(p.url)
		if err != nil {
			return err
		}
		p.ch, p.closeConn = ch, closeConn
		p.declared = make(map[string]bool)
	}

	if !p.declared[queue] {
		if _, err := p.ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			p.resetLocked()
			return fmt.Errorf("declare queue %s: %w", queue, err)
		}
		p.declared[queue] = true
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := p.ch.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
		p.resetLocked()
		return fmt.Errorf("publish to %s: %w", queue, err)
	}
	return nil
}

// Close releases the channel and connection if open.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
	return nil
}

func (p *AMQPPublisher) resetLocked() {
	if p.ch != nil {
		if err := p.ch.Close(); err != nil {
			p.logger.Debug("close amqp channel", zap.Error(err))
		}
	}
	if p.closeConn != nil {
		if err := p.closeConn(); err != nil {
			p.logger.Debug("close amqp connection", zap.Error(err))
		}
	}
	p.ch, p.closeConn = nil, nil
}

// NopPublisher drops every event. Used when ENABLE_EVENTS is off.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, []byte) error { return nil }

func (NopPublisher) Close() error { return nil }

// LayoutSaved is emitted after a seating layout is persisted.
type LayoutSaved struct {
	LayoutID      string         `json:"layoutId"`
	Rooms         []string       `json:"rooms"`
	Classes       []string       `json:"classes"`
	TotalStudents int            `json:"totalStudents"`
	SeatedCount   int            `json:"seatedCount"`
	Unseated      map[string]int `json:"unseated"`
	CreatedBy     string         `json:"createdBy,omitempty"`
	OccurredAt    time.Time      `json:"occurredAt"`
}

// Encode marshals the event body.
func (e LayoutSaved) Encode() ([]byte, error) {
	return json.Marshal(e)
}
