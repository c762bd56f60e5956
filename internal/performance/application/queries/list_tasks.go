package queries

import (
	"context"

	"github.com/felixgeelhaar/perfboard/internal/performance/domain"
)

// ListTasksQuery contains the parameters for listing tasks.
type ListTasksQuery struct {
	ViewerID string
	Status   string // optional filter
}

// ListTasksHandler handles the ListTasksQuery.
type ListTasksHandler struct {
	userRepo domain.UserRepository
	taskRepo domain.TaskRepository
}

// NewListTasksHandler creates a new ListTasksHandler.
func NewListTasksHandler(userRepo domain.UserRepository, taskRepo domain.TaskRepository) *ListTasksHandler {
	return &ListTasksHandler{userRepo: userRepo, taskRepo: taskRepo}
}

// Handle returns the tasks the viewer may see. Employees see their own
// tasks, managers see their team's tasks and their own, Admin and CFO see
// everything.
func (h *ListTasksHandler) Handle(ctx context.Context, query ListTasksQuery) ([]TaskDTO, error) {
	var status domain.Status
	if query.Status != "" {
		s, err := domain.ParseStatus(query.Status)
		if err != nil {
			return nil, err
		}
		status = s
	}

	viewer, err := h.userRepo.FindByID(ctx, query.ViewerID)
	if err != nil {
		return nil, err
	}

	var tasks []*domain.Task
	switch {
	case viewer.Role.SeesEverything():
		tasks, err = h.taskRepo.FindAll(ctx)
	case viewer.Role == domain.RoleManager:
		tasks, err = h.taskRepo.FindByManagerOrEmployee(ctx, viewer.ID)
	default:
		tasks, err = h.taskRepo.FindByEmployees(ctx, []string{viewer.ID})
	}
	if err != nil {
		return nil, err
	}

	visible := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.VisibleTo(viewer) {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		visible = append(visible, t)
	}
	domain.SortTasksByDueDate(visible)

	return toTaskDTOs(visible), nil
}
