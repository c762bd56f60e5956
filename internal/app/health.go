package app

import (
	"context"

	"github.com/felixgeelhaar/perfboard/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/perfboard/pkg/observability"
)

// HealthRegistry builds the readiness checks of a running container: the
// database, the configured event broker once a publisher is attached, and
// outbox relay lag once the processor runs.
func (c *Container) HealthRegistry() *observability.HealthRegistry {
	registry := observability.NewHealthRegistry()
	if c.DBConn != nil {
		registry.Register("database", observability.DatabaseHealthChecker(c.DBConn.Ping))
	}

	if c.EventPublisher != nil {
		publisher := c.EventPublisher
		ping := func(ctx context.Context) error { return eventbus.Ping(ctx, publisher) }
		switch eventbus.ParseBroker(c.Config.EventBroker) {
		case eventbus.BrokerRabbitMQ:
			registry.Register("rabbitmq", observability.RabbitMQHealthChecker(ping))
		case eventbus.BrokerRedis:
			registry.Register("redis", observability.RedisHealthChecker(ping))
		}
	}

	if c.OutboxProcessor != nil {
		processor := c.OutboxProcessor
		registry.Register("outbox", observability.OutboxLagChecker(func() float64 {
			return processor.GetStats().LagSeconds
		}, c.Config.OutboxMaxLag))
	}

	return registry
}
