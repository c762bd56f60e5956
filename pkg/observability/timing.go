package observability

import (
	"context"
	"log/slog"
	"time"
)

// Timer measures one named operation such as a ranking run or an outbox
// batch.
type Timer struct {
	operation string
	start     time.Time
	metrics   Metrics
	logger    *slog.Logger
	tags      []Tag
}

// StartTimer starts timing operation. Without WithMetrics or WithLogger the
// timer only measures.
func StartTimer(operation string) *Timer {
	return &Timer{operation: operation, start: time.Now(), metrics: NoopMetrics{}}
}

func (t *Timer) WithMetrics(m Metrics) *Timer {
	if m != nil {
		t.metrics = m
	}
	return t
}

func (t *Timer) WithLogger(l *slog.Logger) *Timer {
	t.logger = l
	return t
}

func (t *Timer) WithTags(tags ...Tag) *Timer {
	t.tags = append(t.tags, tags...)
	return t
}

func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Stop records the duration and outcome of the operation. A non-nil err
// also bumps the error counter and is logged at error level.
func (t *Timer) Stop(ctx context.Context, err error) time.Duration {
	d := t.Elapsed()
	tags := append(append([]Tag(nil), t.tags...), T("operation", t.operation))

	t.metrics.Timing(MetricOperationDuration, d, tags...)
	t.metrics.Counter(MetricOperationTotal, 1, tags...)
	if err != nil {
		t.metrics.Counter(MetricOperationErrors, 1, tags...)
	}

	if t.logger != nil {
		if err != nil {
			t.logger.ErrorContext(ctx, "operation failed", "operation", t.operation, "duration_ms", d.Milliseconds(), "error", err)
		} else {
			t.logger.DebugContext(ctx, "operation completed", "operation", t.operation, "duration_ms", d.Milliseconds())
		}
	}
	return d
}

// Track runs fn under a timer named operation.
func Track[T any](ctx context.Context, metrics Metrics, logger *slog.Logger, operation string, fn func() (T, error)) (T, error) {
	timer := StartTimer(operation).WithMetrics(metrics).WithLogger(logger)
	v, err := fn()
	timer.Stop(ctx, err)
	return v, err
}
