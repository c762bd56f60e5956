package application

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/perfboard/internal/shared/domain"
	"github.com/felixgeelhaar/perfboard/pkg/observability"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCommandMetadata(t *testing.T) {
	t.Run("reuses the request correlation ID", func(t *testing.T) {
		id := uuid.New()
		ctx := observability.WithCorrelationID(context.Background(), id.String())

		md := CommandMetadata(ctx, "MGR001")

		assert.Equal(t, id, md.CorrelationID)
		assert.Equal(t, "MGR001", md.ActorID)
		assert.NotEqual(t, uuid.Nil, md.CausationID)
	})

	t.Run("generates a correlation ID when ctx has none", func(t *testing.T) {
		md := CommandMetadata(context.Background(), "ADMIN001")

		assert.NotEqual(t, uuid.Nil, md.CorrelationID)
	})

	t.Run("ignores correlation IDs that are not UUIDs", func(t *testing.T) {
		ctx := observability.WithCorrelationID(context.Background(), "req-42")

		md := CommandMetadata(ctx, "ADMIN001")

		assert.NotEqual(t, uuid.Nil, md.CorrelationID)
	})

	t.Run("falls back to the actor in ctx", func(t *testing.T) {
		ctx := observability.WithActorID(context.Background(), "EMP002")

		assert.Equal(t, "EMP002", CommandMetadata(ctx, "").ActorID)
	})

	t.Run("each command is its own cause", func(t *testing.T) {
		ctx := observability.WithCorrelationID(context.Background(), uuid.NewString())

		a := CommandMetadata(ctx, "MGR001")
		b := CommandMetadata(ctx, "MGR001")

		assert.Equal(t, a.CorrelationID, b.CorrelationID)
		assert.NotEqual(t, a.CausationID, b.CausationID)
	})
}

type stampable struct {
	domain.BaseEvent
}

// frozenEvent has no SetMetadata method.
type frozenEvent struct{}

func (frozenEvent) EventID() uuid.UUID             { return uuid.Nil }
func (frozenEvent) AggregateID() string            { return "TSK-900" }
func (frozenEvent) AggregateType() string          { return "Task" }
func (frozenEvent) RoutingKey() string             { return "performance.task.assigned" }
func (frozenEvent) OccurredAt() time.Time          { return time.Time{} }
func (frozenEvent) Metadata() domain.EventMetadata { return domain.EventMetadata{} }

func TestStampEvents(t *testing.T) {
	created := &stampable{BaseEvent: domain.NewBaseEvent("TSK-101", "Task", "performance.task.created")}
	assigned := &stampable{BaseEvent: domain.NewBaseEvent("TSK-101", "Task", "performance.task.assigned")}
	md := CommandMetadata(context.Background(), "MGR001")

	n := StampEvents([]domain.DomainEvent{created, frozenEvent{}, assigned}, md)

	assert.Equal(t, 2, n)
	assert.Equal(t, md, created.Metadata())
	assert.Equal(t, md, assigned.Metadata())
	assert.Zero(t, StampEvents(nil, md))
}
