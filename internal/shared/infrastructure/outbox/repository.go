package outbox

import (
	"context"
	"time"
)

// Repository is the transactional outbox. Command handlers append messages
// inside their unit of work and the Processor drains them.
type Repository interface {
	Save(ctx context.Context, msg *Message) error
	// SaveBatch joins the transaction in ctx when there is one.
	SaveBatch(ctx context.Context, msgs []*Message) error

	// GetUnpublished returns messages due for delivery, oldest first.
	// Dead-lettered messages and those waiting out a retry backoff are
	// skipped.
	GetUnpublished(ctx context.Context, limit int) ([]*Message, error)
	MarkPublished(ctx context.Context, id int64) error
	// MarkFailed increments the retry count and schedules the next attempt.
	MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error
	MarkDead(ctx context.Context, id int64, reason string) error

	Backlog(ctx context.Context) (Backlog, error)
	// DeleteOld removes messages published more than olderThanDays ago.
	DeleteOld(ctx context.Context, olderThanDays int) (int64, error)
}

// Backlog counts undelivered messages by state.
type Backlog struct {
	// Pending have never been attempted.
	Pending int64 `json:"pending"`
	// Retrying failed at least once and are still eligible.
	Retrying int64 `json:"retrying"`
	Dead     int64 `json:"dead"`
}
