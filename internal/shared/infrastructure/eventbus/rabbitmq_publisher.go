package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ExchangeName is the topic exchange carrying perfboard domain events.
// Consumers bind queues with patterns such as performance.task.*.
const ExchangeName = "perfboard.domain.events"

const appID = "perfboard"

// ErrNotConfirmed is returned when the broker nacks a publish.
var ErrNotConfirmed = errors.New("rabbitmq: publish not confirmed")

// amqpChannel is the part of *amqp.Channel the publisher uses.
type amqpChannel interface {
	PublishWithDeferredConfirmWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) (*amqp.DeferredConfirmation, error)
	IsClosed() bool
	Close() error
}

// RabbitMQPublisher publishes to ExchangeName in confirm mode, so Publish
// returns only after the broker has taken responsibility for the event.
type RabbitMQPublisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel amqpChannel
	logger  *slog.Logger
	now     func() time.Time
}

// NewRabbitMQPublisher dials url, declares the durable topic exchange and
// enables publisher confirms.
func NewRabbitMQPublisher(url string, logger *slog.Logger) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(ExchangeName, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", ExchangeName, err)
	}
	if err := ch.Confirm(false); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("enable publisher confirms: %w", err)
	}

	p := newRabbitMQPublisher(ch, logger)
	p.conn = conn
	p.logger.Info("rabbitmq publisher connected", "exchange", ExchangeName)
	return p, nil
}

func newRabbitMQPublisher(ch amqpChannel, logger *slog.Logger) *RabbitMQPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &RabbitMQPublisher{channel: ch, logger: logger, now: time.Now}
}

// publishing builds the AMQP message for an event payload.
func (p *RabbitMQPublisher) publishing(routingKey string, payload []byte) amqp.Publishing {
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		AppId:        appID,
		Type:         routingKey,
		Timestamp:    p.now().UTC(),
		Body:         payload,
	}
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil || p.channel.IsClosed() {
		return ErrPublisherClosed
	}

	confirm, err := p.channel.PublishWithDeferredConfirmWithContext(ctx, ExchangeName, routingKey, false, false, p.publishing(routingKey, payload))
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	// confirm is nil when the channel is not in confirm mode.
	if confirm != nil {
		acked, err := confirm.WaitContext(ctx)
		if err != nil {
			return fmt.Errorf("await confirm for %s: %w", routingKey, err)
		}
		if !acked {
			return fmt.Errorf("%w: %s", ErrNotConfirmed, routingKey)
		}
	}

	p.logger.Debug("event published", "routing_key", routingKey, "bytes", len(payload))
	return nil
}

// Ping fails once the broker connection has dropped.
func (p *RabbitMQPublisher) Ping(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel == nil || p.channel.IsClosed() {
		return ErrPublisherClosed
	}
	if p.conn != nil && p.conn.IsClosed() {
		return ErrPublisherClosed
	}
	return nil
}

func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.channel != nil && !p.channel.IsClosed() {
		errs = append(errs, p.channel.Close())
	}
	if p.conn != nil && !p.conn.IsClosed() {
		errs = append(errs, p.conn.Close())
	}
	p.channel, p.conn = nil, nil
	return errors.Join(errs...)
}
