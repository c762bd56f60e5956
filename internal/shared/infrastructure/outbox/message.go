package outbox

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/perfboard/internal/shared/domain"
	"github.com/google/uuid"
)

// State is where a message sits in the relay lifecycle.
type State string

const (
	StatePending   State = "pending"
	StateRetrying  State = "retrying"
	StatePublished State = "published"
	StateDead      State = "dead"
)

// Message is one domain event stored in the outbox table, with the
// bookkeeping the relay needs to deliver it at least once.
type Message struct {
	ID               int64
	EventID          uuid.UUID
	AggregateType    string
	AggregateID      string
	EventType        string
	RoutingKey       string
	Payload          json.RawMessage
	Metadata         json.RawMessage
	CreatedAt        time.Time
	PublishedAt      *time.Time
	NextRetryAt      *time.Time
	RetryCount       int
	LastError        *string
	DeadLetteredAt   *time.Time
	DeadLetterReason *string
}

// NewMessage serializes event and its metadata into an unsaved message.
func NewMessage(event domain.DomainEvent) (*Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload for %s: %w", event.RoutingKey(), event.AggregateID(), err)
	}
	metadata, err := json.Marshal(event.Metadata())
	if err != nil {
		return nil, fmt.Errorf("encode %s metadata: %w", event.RoutingKey(), err)
	}

	key := event.RoutingKey()
	return &Message{
		EventID:       event.EventID(),
		AggregateType: event.AggregateType(),
		AggregateID:   event.AggregateID(),
		EventType:     key,
		RoutingKey:    key,
		Payload:       payload,
		Metadata:      metadata,
		CreatedAt:     event.OccurredAt(),
	}, nil
}

// NewMessages converts events in order, failing on the first one that
// cannot be encoded.
func NewMessages(events []domain.DomainEvent) ([]*Message, error) {
	msgs := make([]*Message, len(events))
	for i, event := range events {
		msg, err := NewMessage(event)
		if err != nil {
			return nil, err
		}
		msgs[i] = msg
	}
	return msgs, nil
}

func (m *Message) State() State {
	switch {
	case m.DeadLetteredAt != nil:
		return StateDead
	case m.PublishedAt != nil:
		return StatePublished
	case m.RetryCount > 0:
		return StateRetrying
	default:
		return StatePending
	}
}

func (m *Message) IsPublished() bool    { return m.State() == StatePublished }
func (m *Message) IsDeadLettered() bool { return m.State() == StateDead }

// Due reports whether the relay should try the message at now.
func (m *Message) Due(now time.Time) bool {
	switch m.State() {
	case StatePending:
		return true
	case StateRetrying:
		return m.NextRetryAt == nil || !m.NextRetryAt.After(now)
	}
	return false
}

// Attempt is the number of the delivery attempt about to be made.
func (m *Message) Attempt() int { return m.RetryCount + 1 }

// Exhausted reports whether a failure of the current attempt should
// dead-letter the message.
func (m *Message) Exhausted(maxRetries int) bool {
	return maxRetries <= 0 || m.Attempt() >= maxRetries
}
