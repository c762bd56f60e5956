package eventbus

import (
	"context"
)

// Publisher defines the interface for publishing events to a message broker.
type Publisher interface {
	// Publish sends a message to the event bus.
	Publish(ctx context.Context, routingKey string, payload []byte) error

	// Close closes the publisher connection.
	Close() error
}

// Pinger is implemented by publishers that can check their broker connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping checks the broker behind p. Publishers without a connection to check
// are always reachable.
func Ping(ctx context.Context, p Publisher) error {
	if pinger, ok := p.(Pinger); ok {
		return pinger.Ping(ctx)
	}
	return nil
}

// Broker names a publisher backend.
type Broker string

const (
	BrokerRabbitMQ Broker = "rabbitmq"
	BrokerRedis    Broker = "redis"
	BrokerNoop     Broker = "noop"
)

// ParseBroker maps a configuration value onto a Broker. Unknown values
// fall back to BrokerNoop.
func ParseBroker(value string) Broker {
	switch Broker(value) {
	case BrokerRabbitMQ, BrokerRedis:
		return Broker(value)
	default:
		return BrokerNoop
	}
}
