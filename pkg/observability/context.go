package observability

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey int

const (
	correlationKey ctxKey = iota
	actorKey
)

// Attribute keys shared by log records and metric tags.
const (
	CorrelationIDKey = "correlation_id"
	ActorIDKey       = "actor_id"
)

// WithCorrelationID tags ctx with a correlation ID that ties together the
// log lines of one CLI command or MCP call. An empty id gets a fresh UUID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, correlationKey, id)
}

// CorrelationIDFromContext returns the correlation ID, or "" when none is set.
func CorrelationIDFromContext(ctx context.Context) string {
	return stringValue(ctx, correlationKey)
}

// WithActorID records the user on whose behalf the request runs.
func WithActorID(ctx context.Context, actorID string) context.Context {
	if actorID == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKey, actorID)
}

// ActorIDFromContext returns the acting user ID, or "" when none is set.
func ActorIDFromContext(ctx context.Context) string {
	return stringValue(ctx, actorKey)
}

func stringValue(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}
