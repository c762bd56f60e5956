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

// CreateTaskCommand contains the data needed to assign a new task.
type CreateTaskCommand struct {
	ActorID      string `validate:"required"`
	ID           string `validate:"max=32"`
	Title        string `validate:"required,max=200"`
	Description  string `validate:"max=2000"`
	EmployeeID   string `validate:"required"`
	ManagerID    string // defaults to the actor
	AssignedBy   string // defaults to the actor
	Department   string `validate:"required"`
	Severity     string `validate:"required"`
	AssignedDate string
	DueDate      string
}

// CreateTaskResult contains the result of creating a task.
type CreateTaskResult struct {
	TaskID string
}

// CreateTaskHandler handles the CreateTaskCommand.
type CreateTaskHandler struct {
	userRepo   domain.UserRepository
	taskRepo   domain.TaskRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	metrics    observability.Metrics
}

// NewCreateTaskHandler creates a new CreateTaskHandler.
func NewCreateTaskHandler(userRepo domain.UserRepository, taskRepo domain.TaskRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *CreateTaskHandler {
	return &CreateTaskHandler{
		userRepo:   userRepo,
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		metrics:    observability.NoopMetrics{},
	}
}

// WithMetrics sets the metrics collector.
func (h *CreateTaskHandler) WithMetrics(metrics observability.Metrics) *CreateTaskHandler {
	h.metrics = metrics
	return h
}

// Handle executes the CreateTaskCommand.
func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (*CreateTaskResult, error) {
	if err := validateCommand(cmd); err != nil {
		return nil, err
	}
	severity, err := domain.ParseSeverity(cmd.Severity)
	if err != nil {
		return nil, err
	}

	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*CreateTaskResult, error) {
		actor, err := loadActor(txCtx, h.userRepo, cmd.ActorID)
		if err != nil {
			return nil, err
		}
		if !actor.Role.CanAssignTasks() {
			return nil, fmt.Errorf("%w: %s cannot assign tasks", domain.ErrForbidden, actor.Role)
		}

		if _, err := h.userRepo.FindByID(txCtx, cmd.EmployeeID); err != nil {
			return nil, fmt.Errorf("assignee %s: %w", cmd.EmployeeID, err)
		}

		t, err := domain.NewTask(domain.NewTaskParams{
			ID:           cmd.ID,
			Title:        cmd.Title,
			Description:  cmd.Description,
			EmployeeID:   cmd.EmployeeID,
			ManagerID:    orDefault(cmd.ManagerID, actor.ID),
			AssignedBy:   orDefault(cmd.AssignedBy, actor.ID),
			Department:   cmd.Department,
			Severity:     severity,
			AssignedDate: cmd.AssignedDate,
			DueDate:      cmd.DueDate,
		})
		if err != nil {
			return nil, err
		}

		if _, err := h.taskRepo.FindByID(txCtx, t.ID); err == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrTaskExists, t.ID)
		} else if !errors.Is(err, domain.ErrTaskNotFound) {
			return nil, err
		}

		if err := h.taskRepo.Create(txCtx, t); err != nil {
			return nil, err
		}
		if err := publishEvents(txCtx, h.outboxRepo, t, actor.ID); err != nil {
			return nil, err
		}

		h.metrics.Counter(observability.MetricTasksCreated, 1, observability.T("severity", t.Severity.String()))
		return &CreateTaskResult{TaskID: t.ID}, nil
	})
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
