package application

import (
	"context"

	"github.com/felixgeelhaar/perfboard/internal/shared/domain"
	"github.com/felixgeelhaar/perfboard/pkg/observability"
	"github.com/google/uuid"
)

type metadataSetter interface {
	SetMetadata(metadata domain.EventMetadata)
}

// CommandMetadata builds the metadata shared by every event one command
// raises. The correlation ID comes from ctx when it holds a UUID, so events
// trace back to the CLI invocation or MCP request that issued the command.
// Each call is a distinct cause.
func CommandMetadata(ctx context.Context, actorID string) domain.EventMetadata {
	correlationID, err := uuid.Parse(observability.CorrelationIDFromContext(ctx))
	if err != nil {
		correlationID = uuid.New()
	}
	if actorID == "" {
		actorID = observability.ActorIDFromContext(ctx)
	}
	return domain.EventMetadata{
		CorrelationID: correlationID,
		CausationID:   uuid.New(),
		ActorID:       actorID,
	}
}

// StampEvents sets metadata on the events that accept it and reports how
// many were stamped.
func StampEvents(events []domain.DomainEvent, metadata domain.EventMetadata) int {
	stamped := 0
	for _, event := range events {
		if setter, ok := event.(metadataSetter); ok {
			setter.SetMetadata(metadata)
			stamped++
		}
	}
	return stamped
}
