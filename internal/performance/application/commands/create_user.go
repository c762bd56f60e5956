package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/perfboard/internal/performance/domain"
	sharedApplication "github.com/felixgeelhaar/perfboard/internal/shared/application"
	"github.com/felixgeelhaar/perfboard/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/perfboard/pkg/observability"
)

// CreateUserCommand contains the data needed to add a user.
type CreateUserCommand struct {
	ActorID    string `validate:"required"`
	ID         string `validate:"required,max=32"`
	Name       string `validate:"required,max=120"`
	Role       string `validate:"required"`
	Department string `validate:"max=120"`
	ManagerID  string `validate:"max=32"`
}

// CreateUserResult contains the result of creating a user.
type CreateUserResult struct {
	UserID string
}

// CreateUserHandler handles the CreateUserCommand.
type CreateUserHandler struct {
	userRepo   domain.UserRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	metrics    observability.Metrics
}

// NewCreateUserHandler creates a new CreateUserHandler.
func NewCreateUserHandler(userRepo domain.UserRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *CreateUserHandler {
	return &CreateUserHandler{
		userRepo:   userRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		metrics:    observability.NoopMetrics{},
	}
}

// WithMetrics sets the metrics collector.
func (h *CreateUserHandler) WithMetrics(metrics observability.Metrics) *CreateUserHandler {
	h.metrics = metrics
	return h
}

// Handle executes the CreateUserCommand. Only Admin and CFO may add users.
func (h *CreateUserHandler) Handle(ctx context.Context, cmd CreateUserCommand) (*CreateUserResult, error) {
	if err := validateCommand(cmd); err != nil {
		return nil, err
	}
	role, err := domain.ParseRole(cmd.Role)
	if err != nil {
		return nil, err
	}

	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*CreateUserResult, error) {
		actor, err := loadActor(txCtx, h.userRepo, cmd.ActorID)
		if err != nil {
			return nil, err
		}
		if !actor.Role.CanManageUsers() {
			return nil, fmt.Errorf("%w: %s cannot create users", domain.ErrForbidden, actor.Role)
		}

		if _, err := h.userRepo.FindByID(txCtx, cmd.ID); err == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrUserExists, cmd.ID)
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}

		if cmd.ManagerID != "" {
			if _, err := h.userRepo.FindByID(txCtx, cmd.ManagerID); err != nil {
				return nil, fmt.Errorf("manager %s: %w", cmd.ManagerID, err)
			}
		}

		u, err := domain.NewUser(cmd.ID, cmd.Name, role, cmd.Department, cmd.ManagerID)
		if err != nil {
			return nil, err
		}
		if err := h.userRepo.Create(txCtx, u); err != nil {
			return nil, err
		}
		if err := publishEvents(txCtx, h.outboxRepo, u, actor.ID); err != nil {
			return nil, err
		}

		h.metrics.Counter(observability.MetricUsersCreated, 1, observability.T("role", u.Role.String()))
		return &CreateUserResult{UserID: u.ID}, nil
	})
}
