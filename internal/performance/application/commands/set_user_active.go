package commands

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/perfboard/internal/performance/domain"
	sharedApplication "github.com/felixgeelhaar/perfboard/internal/shared/application"
	"github.com/felixgeelhaar/perfboard/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/perfboard/pkg/observability"
)

// SetUserActiveCommand activates or deactivates a user.
type SetUserActiveCommand struct {
	ActorID string `validate:"required"`
	UserID  string `validate:"required"`
	Active  bool
}

// SetUserActiveHandler handles the SetUserActiveCommand.
type SetUserActiveHandler struct {
	userRepo   domain.UserRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	metrics    observability.Metrics
}

// NewSetUserActiveHandler creates a new SetUserActiveHandler.
func NewSetUserActiveHandler(userRepo domain.UserRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *SetUserActiveHandler {
	return &SetUserActiveHandler{
		userRepo:   userRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		metrics:    observability.NoopMetrics{},
	}
}

// WithMetrics sets the metrics collector.
func (h *SetUserActiveHandler) WithMetrics(metrics observability.Metrics) *SetUserActiveHandler {
	h.metrics = metrics
	return h
}

// Handle executes the SetUserActiveCommand. Setting the current value again
// is a no-op and emits nothing.
func (h *SetUserActiveHandler) Handle(ctx context.Context, cmd SetUserActiveCommand) error {
	if err := validateCommand(cmd); err != nil {
		return err
	}

	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		actor, err := loadActor(txCtx, h.userRepo, cmd.ActorID)
		if err != nil {
			return err
		}
		if !actor.Role.CanManageUsers() {
			return fmt.Errorf("%w: %s cannot change user activation", domain.ErrForbidden, actor.Role)
		}

		u, err := h.userRepo.FindByID(txCtx, cmd.UserID)
		if err != nil {
			return err
		}
		if !u.SetActive(cmd.Active) {
			return nil
		}
		if err := h.userRepo.Save(txCtx, u); err != nil {
			return err
		}
		if err := publishEvents(txCtx, h.outboxRepo, u, actor.ID); err != nil {
			return err
		}
		h.metrics.Counter(observability.MetricUsersActivationChanged, 1)
		return nil
	})
}
