package eventbus

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// NoopPublisher drops events after logging them at debug level. Local
// mode relays to it when EVENT_BROKER is unset.
type NoopPublisher struct {
	logger  *slog.Logger
	dropped atomic.Uint64
}

func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopPublisher{logger: logger.With("broker", BrokerNoop)}
}

func (p *NoopPublisher) Publish(_ context.Context, routingKey string, payload []byte) error {
	n := p.dropped.Add(1)
	p.logger.Debug("event dropped", "routing_key", routingKey, "bytes", len(payload), "dropped_total", n)
	return nil
}

// Dropped counts the events Publish has discarded.
func (p *NoopPublisher) Dropped() uint64 { return p.dropped.Load() }

func (p *NoopPublisher) Ping(context.Context) error { return nil }

func (p *NoopPublisher) Close() error { return nil }
