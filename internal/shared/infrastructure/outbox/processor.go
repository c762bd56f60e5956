package outbox

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/perfboard/internal/shared/domain"
	"github.com/felixgeelhaar/perfboard/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/perfboard/pkg/observability"
)

// ProcessorConfig tunes the relay loop. The worker fills it from OUTBOX_*
// settings.
type ProcessorConfig struct {
	PollInterval     time.Duration
	BatchSize        int
	MaxRetries       int
	RetryBackoffBase time.Duration
	RetryBackoffMax  time.Duration
}

func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		PollInterval:     100 * time.Millisecond,
		BatchSize:        100,
		MaxRetries:       5,
		RetryBackoffBase: time.Second,
		RetryBackoffMax:  time.Minute,
	}
}

// Backoff is the delay before retry number attempt (1-based): base doubled
// per earlier attempt, capped at max. Non-positive base and max fall back to
// one second and one minute.
func Backoff(base, max time.Duration, attempt int) time.Duration {
	if base <= 0 {
		base = time.Second
	}
	if max <= 0 {
		max = time.Minute
	}
	if attempt < 1 {
		attempt = 1
	}
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d <= 0 || d >= max {
			return max
		}
	}
	return min(d, max)
}

// Stats is a snapshot of relay progress since the processor was created.
type Stats struct {
	IsRunning       bool       `json:"running"`
	PublishedCount  uint64     `json:"published"`
	FailedCount     uint64     `json:"failed"`
	DeadCount       uint64     `json:"dead"`
	LagSeconds      float64    `json:"lag_seconds"`
	LastError       string     `json:"last_error,omitempty"`
	LastErrorAt     *time.Time `json:"last_error_at,omitempty"`
	LastProcessedAt *time.Time `json:"last_processed_at,omitempty"`
	OldestMessageAt *time.Time `json:"oldest_message_at,omitempty"`
}

type outcome int

const (
	published outcome = iota
	retrying
	deadLettered
)

// Processor relays outbox messages to the event broker. Delivery is at
// least once: a message is marked published only after the broker accepted
// it.
type Processor struct {
	repo      Repository
	publisher eventbus.Publisher
	config    ProcessorConfig
	logger    *slog.Logger
	metrics   observability.Metrics
	now       func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	statsMu sync.Mutex
	stats   Stats
}

func NewProcessor(repo Repository, publisher eventbus.Publisher, config ProcessorConfig, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		repo:      repo,
		publisher: publisher,
		config:    config,
		logger:    logger.With("component", "outbox"),
		metrics:   observability.NoopMetrics{},
		now:       time.Now,
	}
}

func (p *Processor) WithMetrics(metrics observability.Metrics) *Processor {
	if metrics != nil {
		p.metrics = metrics
	}
	return p
}

// Start launches the polling loop. It returns immediately and is a no-op
// while the loop is already running. The loop ends when ctx is done or Stop
// is called.
func (p *Processor) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return nil
	}

	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.loop(loopCtx, p.done)

	p.logger.Info("outbox processor started",
		"poll_interval", p.config.PollInterval,
		"batch_size", p.config.BatchSize,
		"max_retries", p.config.MaxRetries,
	)
	return nil
}

// Stop ends the polling loop and waits for the in-flight batch. Calling it
// again, or before Start, does nothing.
func (p *Processor) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	p.logger.Info("outbox processor stopped")
}

func (p *Processor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

func (p *Processor) loop(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	interval := p.config.PollInterval
	if interval <= 0 {
		interval = DefaultProcessorConfig().PollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.ProcessOnce(ctx); err != nil && ctx.Err() == nil {
				p.logger.Error("outbox batch failed", "error", err)
			}
		}
	}
}

// ProcessOnce relays one batch synchronously. Only a failure to read the
// outbox is returned; per-message publish errors are recorded on the
// message.
func (p *Processor) ProcessOnce(ctx context.Context) error {
	batchSize := p.config.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultProcessorConfig().BatchSize
	}

	msgs, err := p.repo.GetUnpublished(ctx, batchSize)
	if err != nil {
		p.noteError(err)
		return err
	}
	p.observeBatch(msgs)

	for _, msg := range msgs {
		switch p.deliver(ctx, msg) {
		case published:
			p.metrics.Counter(observability.MetricOutboxPublished, 1, observability.T("routing_key", msg.RoutingKey))
			p.bump(func(s *Stats) { s.PublishedCount++ })
		case retrying:
			p.metrics.Counter(observability.MetricOutboxFailed, 1)
			p.bump(func(s *Stats) { s.FailedCount++ })
		case deadLettered:
			p.metrics.Counter(observability.MetricOutboxDeadLettered, 1)
			p.bump(func(s *Stats) { s.DeadCount++ })
		}
	}
	return nil
}

// deliver publishes one message and records the result in the outbox.
func (p *Processor) deliver(ctx context.Context, msg *Message) outcome {
	log := p.logger.With(append([]any{"outbox_id", msg.ID, "routing_key", msg.RoutingKey, "event_id", msg.EventID}, traceAttrs(msg)...)...)

	pubErr := p.publisher.Publish(ctx, msg.RoutingKey, msg.Payload)
	if pubErr == nil {
		if err := p.repo.MarkPublished(ctx, msg.ID); err != nil {
			// The broker has the event; the next batch will send it again.
			log.Error("mark published failed", "error", err)
			p.noteError(err)
			return retrying
		}
		return published
	}

	p.noteError(pubErr)
	attempt := msg.Attempt()
	if msg.Exhausted(p.config.MaxRetries) {
		log.Warn("dead-lettering event", "attempt", attempt, "error", pubErr)
		if err := p.repo.MarkDead(ctx, msg.ID, pubErr.Error()); err != nil {
			log.Error("mark dead failed", "error", err)
		}
		return deadLettered
	}

	next := p.now().Add(Backoff(p.config.RetryBackoffBase, p.config.RetryBackoffMax, attempt))
	log.Warn("publish failed, will retry", "attempt", attempt, "next_retry_at", next, "error", pubErr)
	if err := p.repo.MarkFailed(ctx, msg.ID, pubErr.Error(), next); err != nil {
		log.Error("mark failed failed", "error", err)
	}
	return retrying
}

// traceAttrs pulls correlation data out of the stored event metadata.
func traceAttrs(msg *Message) []any {
	if len(msg.Metadata) == 0 {
		return nil
	}
	var md domain.EventMetadata
	if err := json.Unmarshal(msg.Metadata, &md); err != nil {
		return nil
	}
	return []any{
		observability.CorrelationIDKey, md.CorrelationID.String(),
		"causation_id", md.CausationID.String(),
		observability.ActorIDKey, md.ActorID,
	}
}

func (p *Processor) GetStats() Stats {
	p.statsMu.Lock()
	s := p.stats
	p.statsMu.Unlock()
	s.IsRunning = p.IsRunning()
	return s
}

func (p *Processor) bump(f func(*Stats)) {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	f(&p.stats)
}

func (p *Processor) noteError(err error) {
	now := p.now()
	p.bump(func(s *Stats) {
		s.LastError = err.Error()
		s.LastErrorAt = &now
	})
}

// observeBatch updates lag from the oldest message in the batch. An empty
// batch means the relay has caught up.
func (p *Processor) observeBatch(msgs []*Message) {
	now := p.now()
	var oldest *time.Time
	for _, m := range msgs {
		if oldest == nil || m.CreatedAt.Before(*oldest) {
			t := m.CreatedAt
			oldest = &t
		}
	}
	lag := 0.0
	if oldest != nil {
		lag = now.Sub(*oldest).Seconds()
	}
	p.metrics.Gauge(observability.MetricOutboxLagSeconds, lag)
	p.bump(func(s *Stats) {
		s.LastProcessedAt = &now
		s.OldestMessageAt = oldest
		s.LagSeconds = lag
	})
}
