package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/perfboard/internal/performance/domain"
	sharedApplication "github.com/felixgeelhaar/perfboard/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/perfboard/internal/shared/domain"
	"github.com/felixgeelhaar/perfboard/internal/shared/infrastructure/outbox"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateCommand checks the struct tags of cmd and reports every failing
// field in a single ErrValidation error.
func validateCommand(cmd any) error {
	err := validate.Struct(cmd)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(fields, ", "))
}

// loadActor resolves the user issuing a command. Unknown and inactive
// actors are refused.
func loadActor(ctx context.Context, users domain.UserRepository, actorID string) (*domain.User, error) {
	actor, err := users.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: unknown actor %s", domain.ErrForbidden, actorID)
		}
		return nil, err
	}
	if !actor.Active {
		return nil, fmt.Errorf("%w: actor %s is inactive", domain.ErrForbidden, actorID)
	}
	return actor, nil
}

// publishEvents stamps the aggregate's events with command metadata and
// writes them to the outbox in the caller's transaction.
func publishEvents(ctx context.Context, repo outbox.Repository, agg sharedDomain.AggregateRoot, actorID string) error {
	events := agg.DomainEvents()
	sharedApplication.StampEvents(events, sharedApplication.CommandMetadata(ctx, actorID))

	msgs, err := outbox.NewMessages(events)
	if err != nil {
		return err
	}
	if err := repo.SaveBatch(ctx, msgs); err != nil {
		return err
	}
	agg.ClearDomainEvents()
	return nil
}
