package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/perfboard/internal/performance/application/commands"
	"github.com/felixgeelhaar/perfboard/internal/performance/application/queries"
)

type taskCreateInput struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title" jsonschema:"required"`
	Description string `json:"description,omitempty"`
	EmployeeID  string `json:"employee_id" jsonschema:"required"`
	ManagerID   string `json:"manager_id,omitempty"`
	Department  string `json:"department" jsonschema:"required"`
	Severity    string `json:"severity,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
}

type taskListInput struct {
	ViewerID string `json:"viewer_id,omitempty"`
	Status   string `json:"status,omitempty"`
}

type taskStatusInput struct {
	TaskID string `json:"task_id" jsonschema:"required"`
	Status string `json:"status" jsonschema:"required"`
}

type taskReassignInput struct {
	TaskID     string `json:"task_id" jsonschema:"required"`
	EmployeeID string `json:"employee_id" jsonschema:"required"`
	DueDate    string `json:"due_date,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

func (t tools) createTask(ctx context.Context, input taskCreateInput) (*commands.CreateTaskResult, error) {
	if err := requireDatabase(t.app.CreateTaskHandler != nil, "task creation"); err != nil {
		return nil, err
	}
	if input.Title == "" {
		return nil, errors.New("title is required")
	}
	severity := input.Severity
	if severity == "" {
		severity = "Medium"
	}
	return t.app.CreateTaskHandler.Handle(ctx, commands.CreateTaskCommand{
		ActorID:     t.app.Actor(),
		ID:          input.ID,
		Title:       input.Title,
		Description: input.Description,
		EmployeeID:  input.EmployeeID,
		ManagerID:   input.ManagerID,
		Department:  input.Department,
		Severity:    severity,
		DueDate:     input.DueDate,
	})
}

func (t tools) listTasks(ctx context.Context, input taskListInput) ([]queries.TaskDTO, error) {
	if err := requireDatabase(t.app.ListTasksHandler != nil, "task listing"); err != nil {
		return nil, err
	}
	return t.app.ListTasksHandler.Handle(ctx, queries.ListTasksQuery{
		ViewerID: t.actorOr(input.ViewerID),
		Status:   input.Status,
	})
}

func (t tools) updateTaskStatus(ctx context.Context, input taskStatusInput) (*commands.UpdateTaskStatusResult, error) {
	if err := requireDatabase(t.app.UpdateTaskStatusHandler != nil, "task update"); err != nil {
		return nil, err
	}
	return t.app.UpdateTaskStatusHandler.Handle(ctx, commands.UpdateTaskStatusCommand{
		ActorID: t.app.Actor(),
		TaskID:  input.TaskID,
		Status:  input.Status,
	})
}

func (t tools) reassignTask(ctx context.Context, input taskReassignInput) (*commands.ReassignTaskResult, error) {
	if err := requireDatabase(t.app.ReassignTaskHandler != nil, "task reassignment"); err != nil {
		return nil, err
	}
	return t.app.ReassignTaskHandler.Handle(ctx, commands.ReassignTaskCommand{
		ActorID:    t.app.Actor(),
		TaskID:     input.TaskID,
		EmployeeID: input.EmployeeID,
		NewDueDate: input.DueDate,
		Reason:     input.Reason,
	})
}

func registerTaskTools(srv *mcp.Server, deps ToolDependencies) error {
	t := tools{app: deps.App}

	srv.Tool("task.create").
		Description("Assign a new task to an employee").
		Handler(t.createTask)

	srv.Tool("task.list").
		Description("List tasks visible to a user, ordered by due date").
		Handler(t.listTasks)

	srv.Tool("task.update_status").
		Description("Move a task to a new status (REWORK counts against quality)").
		Handler(t.updateTaskStatus)

	srv.Tool("task.reassign").
		Description("Hand a task to another employee").
		Handler(t.reassignTask)

	return nil
}
