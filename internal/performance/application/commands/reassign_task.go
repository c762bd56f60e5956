package commands

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/perfboard/internal/performance/domain"
	sharedApplication "github.com/felixgeelhaar/perfboard/internal/shared/application"
	"github.com/felixgeelhaar/perfboard/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/perfboard/pkg/observability"
)

// ReassignTaskCommand hands a task to another employee.
type ReassignTaskCommand struct {
	ActorID    string `validate:"required"`
	TaskID     string `validate:"required"`
	EmployeeID string `validate:"required"`
	NewDueDate string
	Reason     string `validate:"max=500"`
}

// ReassignTaskResult describes the task after reassignment.
type ReassignTaskResult struct {
	TaskID     string
	EmployeeID string
	Status     domain.Status
	DueDate    string
}

// ReassignTaskHandler handles the ReassignTaskCommand.
type ReassignTaskHandler struct {
	userRepo   domain.UserRepository
	taskRepo   domain.TaskRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	metrics    observability.Metrics
}

// NewReassignTaskHandler creates a new ReassignTaskHandler.
func NewReassignTaskHandler(userRepo domain.UserRepository, taskRepo domain.TaskRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *ReassignTaskHandler {
	return &ReassignTaskHandler{
		userRepo:   userRepo,
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		metrics:    observability.NoopMetrics{},
	}
}

// WithMetrics sets the metrics collector.
func (h *ReassignTaskHandler) WithMetrics(metrics observability.Metrics) *ReassignTaskHandler {
	h.metrics = metrics
	return h
}

// Handle executes the ReassignTaskCommand.
func (h *ReassignTaskHandler) Handle(ctx context.Context, cmd ReassignTaskCommand) (*ReassignTaskResult, error) {
	if err := validateCommand(cmd); err != nil {
		return nil, err
	}

	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*ReassignTaskResult, error) {
		actor, err := loadActor(txCtx, h.userRepo, cmd.ActorID)
		if err != nil {
			return nil, err
		}
		if !actor.Role.CanAssignTasks() {
			return nil, fmt.Errorf("%w: %s cannot reassign tasks", domain.ErrForbidden, actor.Role)
		}

		t, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return nil, err
		}
		if _, err := h.userRepo.FindByID(txCtx, cmd.EmployeeID); err != nil {
			return nil, fmt.Errorf("new assignee %s: %w", cmd.EmployeeID, err)
		}

		if err := t.Reassign(cmd.EmployeeID, actor.ID, cmd.NewDueDate, cmd.Reason); err != nil {
			return nil, err
		}
		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return nil, err
		}
		if err := publishEvents(txCtx, h.outboxRepo, t, actor.ID); err != nil {
			return nil, err
		}

		h.metrics.Counter(observability.MetricTasksReassigned, 1)
		return &ReassignTaskResult{
			TaskID:     t.ID,
			EmployeeID: t.EmployeeID,
			Status:     t.Status,
			DueDate:    t.DueDate,
		}, nil
	})
}
