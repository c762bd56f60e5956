package outbox

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrDuplicateEvent mirrors the unique event_id constraint of the outbox table.
var ErrDuplicateEvent = errors.New("outbox: duplicate event id")

// InMemoryRepository keeps the outbox in process memory. It follows the
// SQL repository's rules so the relay can be exercised without a database.
type InMemoryRepository struct {
	mu       sync.Mutex
	messages []*Message
	byEvent  map[string]*Message
	lastID   int64
	now      func() time.Time
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byEvent: make(map[string]*Message),
		now:     time.Now,
	}
}

func (r *InMemoryRepository) Save(ctx context.Context, msg *Message) error {
	return r.SaveBatch(ctx, []*Message{msg})
}

// SaveBatch stores every message or none of them.
func (r *InMemoryRepository) SaveBatch(_ context.Context, msgs []*Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool, len(msgs))
	for _, msg := range msgs {
		key := msg.EventID.String()
		if _, exists := r.byEvent[key]; exists || seen[key] {
			return fmt.Errorf("%w: %s", ErrDuplicateEvent, key)
		}
		seen[key] = true
	}

	for _, msg := range msgs {
		r.lastID++
		msg.ID = r.lastID
		if msg.CreatedAt.IsZero() {
			msg.CreatedAt = r.now()
		}
		r.messages = append(r.messages, msg)
		r.byEvent[msg.EventID.String()] = msg
	}
	return nil
}

// Messages returns every stored message in insertion order.
func (r *InMemoryRepository) Messages() []*Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Message(nil), r.messages...)
}

// GetUnpublished returns up to limit due messages, oldest first.
func (r *InMemoryRepository) GetUnpublished(_ context.Context, limit int) ([]*Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var due []*Message
	for _, msg := range r.messages {
		if len(due) == limit {
			break
		}
		if msg.Due(now) {
			due = append(due, msg)
		}
	}
	return due, nil
}

// update applies fn to message id. Unknown ids are ignored, as an UPDATE
// matching no rows would be.
func (r *InMemoryRepository) update(id int64, fn func(*Message)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, msg := range r.messages {
		if msg.ID == id {
			fn(msg)
			return
		}
	}
}

func (r *InMemoryRepository) MarkPublished(_ context.Context, id int64) error {
	at := r.now()
	r.update(id, func(m *Message) {
		m.PublishedAt = &at
		m.DeadLetteredAt = nil
	})
	return nil
}

func (r *InMemoryRepository) MarkFailed(_ context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	r.update(id, func(m *Message) {
		m.RetryCount++
		m.LastError = &errMsg
		m.NextRetryAt = &nextRetryAt
	})
	return nil
}

func (r *InMemoryRepository) MarkDead(_ context.Context, id int64, reason string) error {
	at := r.now()
	r.update(id, func(m *Message) {
		m.DeadLetteredAt = &at
		m.DeadLetterReason = &reason
	})
	return nil
}

func (r *InMemoryRepository) Backlog(context.Context) (Backlog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var b Backlog
	for _, msg := range r.messages {
		switch msg.State() {
		case StatePending:
			b.Pending++
		case StateRetrying:
			b.Retrying++
		case StateDead:
			b.Dead++
		}
	}
	return b, nil
}

// DeleteOld drops published messages older than the retention window.
// Dead-lettered messages are kept for inspection.
func (r *InMemoryRepository) DeleteOld(_ context.Context, olderThanDays int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().AddDate(0, 0, -olderThanDays)
	kept := r.messages[:0]
	var deleted int64
	for _, msg := range r.messages {
		if msg.State() == StatePublished && msg.PublishedAt.Before(cutoff) {
			delete(r.byEvent, msg.EventID.String())
			deleted++
			continue
		}
		kept = append(kept, msg)
	}
	r.messages = kept
	return deleted, nil
}
