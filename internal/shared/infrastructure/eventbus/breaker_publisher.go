package eventbus

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/perfboard/pkg/observability"
	"github.com/sony/gobreaker/v2"
)

// BreakerConfig configures the publisher circuit breaker.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32
	// Timeout is how long the breaker stays open before a trial publish.
	Timeout time.Duration
	// MaxRequests is the number of trial publishes allowed while half-open.
	MaxRequests uint32
}

// DefaultBreakerConfig returns the settings used by the worker.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 5,
		Timeout:          30 * time.Second,
		MaxRequests:      1,
	}
}

// BreakerPublisher guards a Publisher with a circuit breaker so that an
// unreachable broker fails fast instead of stalling every outbox batch.
type BreakerPublisher struct {
	next    Publisher
	breaker *gobreaker.CircuitBreaker[any]
	logger  *slog.Logger
	metrics observability.Metrics
}

// NewBreakerPublisher wraps next with a circuit breaker.
func NewBreakerPublisher(next Publisher, cfg BreakerConfig, logger *slog.Logger, metrics observability.Metrics) *BreakerPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = DefaultBreakerConfig().FailureThreshold
	}

	p := &BreakerPublisher{next: next, logger: logger, metrics: metrics}
	p.breaker = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "event-publisher",
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			p.logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
			p.metrics.Gauge(observability.MetricBreakerState, float64(to), observability.T("breaker", name))
		},
	})
	return p
}

// Publish forwards to the wrapped publisher unless the breaker is open.
func (p *BreakerPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	_, err := p.breaker.Execute(func() (any, error) {
		return nil, p.next.Publish(ctx, routingKey, payload)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrBrokerUnavailable
	}
	if err == nil {
		p.metrics.Counter(observability.MetricEventsPublished, 1, observability.T("routing_key", routingKey))
	}
	return err
}

// State returns the breaker state name (closed, half-open, open).
func (p *BreakerPublisher) State() string {
	return p.breaker.State().String()
}

// Ping checks the wrapped publisher's broker without going through the breaker.
func (p *BreakerPublisher) Ping(ctx context.Context) error {
	return Ping(ctx, p.next)
}

// Close closes the wrapped publisher.
func (p *BreakerPublisher) Close() error {
	return p.next.Close()
}
