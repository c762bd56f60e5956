package domain

import (
	shared "github.com/felixgeelhaar/perfboard/internal/shared/domain"
)

const (
	AggregateTypeUser = "User"
	AggregateTypeTask = "Task"

	RoutingKeyUserCreated           = "performance.user.created"
	RoutingKeyUserActivationChanged = "performance.user.activation_changed"
	RoutingKeyTaskAssigned          = "performance.task.assigned"
	RoutingKeyTaskStatusChanged     = "performance.task.status_changed"
	RoutingKeyTaskReassigned        = "performance.task.reassigned"
)

// UserCreated is emitted when a user joins the organisation.
type UserCreated struct {
	shared.BaseEvent
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Department string `json:"department"`
	ManagerID  string `json:"manager_id,omitempty"`
}

// NewUserCreated creates a UserCreated event.
func NewUserCreated(u *User) *UserCreated {
	return &UserCreated{
		BaseEvent:  shared.NewBaseEvent(u.ID, AggregateTypeUser, RoutingKeyUserCreated),
		UserID:     u.ID,
		Name:       u.Name,
		Role:       u.Role.String(),
		Department: u.Department,
		ManagerID:  u.ManagerID,
	}
}

// UserActivationChanged is emitted when a user is activated or deactivated.
type UserActivationChanged struct {
	shared.BaseEvent
	UserID string `json:"user_id"`
	Active bool   `json:"active"`
}

// NewUserActivationChanged creates a UserActivationChanged event.
func NewUserActivationChanged(userID string, active bool) *UserActivationChanged {
	return &UserActivationChanged{
		BaseEvent: shared.NewBaseEvent(userID, AggregateTypeUser, RoutingKeyUserActivationChanged),
		UserID:    userID,
		Active:    active,
	}
}

// TaskAssigned is emitted when a task is created for an employee.
type TaskAssigned struct {
	shared.BaseEvent
	TaskID     string `json:"task_id"`
	EmployeeID string `json:"employee_id"`
	ManagerID  string `json:"manager_id,omitempty"`
	AssignedBy string `json:"assigned_by,omitempty"`
	Severity   string `json:"severity"`
	DueDate    string `json:"due_date,omitempty"`
}

// NewTaskAssigned creates a TaskAssigned event.
func NewTaskAssigned(t *Task) *TaskAssigned {
	return &TaskAssigned{
		BaseEvent:  shared.NewBaseEvent(t.ID, AggregateTypeTask, RoutingKeyTaskAssigned),
		TaskID:     t.ID,
		EmployeeID: t.EmployeeID,
		ManagerID:  t.ManagerID,
		AssignedBy: t.AssignedBy,
		Severity:   t.Severity.String(),
		DueDate:    t.DueDate,
	}
}

// TaskStatusChanged is emitted on every status transition.
type TaskStatusChanged struct {
	shared.BaseEvent
	TaskID        string `json:"task_id"`
	From          string `json:"from"`
	To            string `json:"to"`
	ReworkCount   int    `json:"rework_count"`
	CompletedDate string `json:"completed_date,omitempty"`
}

// NewTaskStatusChanged creates a TaskStatusChanged event.
func NewTaskStatusChanged(t *Task, from Status) *TaskStatusChanged {
	return &TaskStatusChanged{
		BaseEvent:     shared.NewBaseEvent(t.ID, AggregateTypeTask, RoutingKeyTaskStatusChanged),
		TaskID:        t.ID,
		From:          from.String(),
		To:            t.Status.String(),
		ReworkCount:   t.ReworkCount,
		CompletedDate: t.CompletedDate,
	}
}

// TaskReassigned is emitted when a task moves to another employee.
type TaskReassigned struct {
	shared.BaseEvent
	TaskID         string `json:"task_id"`
	FromEmployeeID string `json:"from_employee_id"`
	ToEmployeeID   string `json:"to_employee_id"`
	AssignedBy     string `json:"assigned_by"`
	DueDate        string `json:"due_date,omitempty"`
	Reason         string `json:"reason,omitempty"`
}

// NewTaskReassigned creates a TaskReassigned event.
func NewTaskReassigned(t *Task, fromEmployeeID, reason string) *TaskReassigned {
	return &TaskReassigned{
		BaseEvent:      shared.NewBaseEvent(t.ID, AggregateTypeTask, RoutingKeyTaskReassigned),
		TaskID:         t.ID,
		FromEmployeeID: fromEmployeeID,
		ToEmployeeID:   t.EmployeeID,
		AssignedBy:     t.AssignedBy,
		DueDate:        t.DueDate,
		Reason:         reason,
	}
}
