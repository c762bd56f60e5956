package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/perfboard/internal/performance/domain"
	sharedApplication "github.com/felixgeelhaar/perfboard/internal/shared/application"
	"github.com/felixgeelhaar/perfboard/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/perfboard/pkg/observability"
)

// UpdateTaskStatusCommand moves a task to a new status.
type UpdateTaskStatusCommand struct {
	ActorID string `validate:"required"`
	TaskID  string `validate:"required"`
	Status  string `validate:"required"`
}

// UpdateTaskStatusResult describes the task after the transition.
type UpdateTaskStatusResult struct {
	TaskID        string
	Status        domain.Status
	ReworkCount   int
	CompletedDate string
}

// UpdateTaskStatusHandler handles the UpdateTaskStatusCommand.
type UpdateTaskStatusHandler struct {
	userRepo   domain.UserRepository
	taskRepo   domain.TaskRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	metrics    observability.Metrics
	now        func() time.Time
}

// NewUpdateTaskStatusHandler creates a new UpdateTaskStatusHandler.
func NewUpdateTaskStatusHandler(userRepo domain.UserRepository, taskRepo domain.TaskRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *UpdateTaskStatusHandler {
	return &UpdateTaskStatusHandler{
		userRepo:   userRepo,
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		metrics:    observability.NoopMetrics{},
		now:        time.Now,
	}
}

// WithMetrics sets the metrics collector.
func (h *UpdateTaskStatusHandler) WithMetrics(metrics observability.Metrics) *UpdateTaskStatusHandler {
	h.metrics = metrics
	return h
}

// Handle executes the UpdateTaskStatusCommand.
func (h *UpdateTaskStatusHandler) Handle(ctx context.Context, cmd UpdateTaskStatusCommand) (*UpdateTaskStatusResult, error) {
	if err := validateCommand(cmd); err != nil {
		return nil, err
	}
	status, err := domain.ParseStatus(cmd.Status)
	if err != nil {
		return nil, err
	}

	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*UpdateTaskStatusResult, error) {
		actor, err := loadActor(txCtx, h.userRepo, cmd.ActorID)
		if err != nil {
			return nil, err
		}

		t, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return nil, err
		}

		t.ChangeStatus(status, h.now())
		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return nil, err
		}
		if err := publishEvents(txCtx, h.outboxRepo, t, actor.ID); err != nil {
			return nil, err
		}

		h.metrics.Counter(observability.MetricTasksStatusChanged, 1, observability.T("status", t.Status.String()))
		return &UpdateTaskStatusResult{
			TaskID:        t.ID,
			Status:        t.Status,
			ReworkCount:   t.ReworkCount,
			CompletedDate: t.CompletedDate,
		}, nil
	})
}
