package domain

import "context"

// UserFilter narrows FindAll. Zero values match everything.
type UserFilter struct {
	Role       Role
	Department string
	ActiveOnly bool
}

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	// Create inserts a new user. It returns ErrUserExists on a duplicate ID.
	Create(ctx context.Context, user *User) error
	// Save updates an existing user.
	Save(ctx context.Context, user *User) error
	// FindByID returns ErrUserNotFound when no user has the ID.
	FindByID(ctx context.Context, id string) (*User, error)
	// FindAll returns users ordered by role then name.
	FindAll(ctx context.Context, filter UserFilter) ([]*User, error)
}

// TaskRepository defines the interface for task persistence. Lists are
// ordered by due date with undated tasks last, then by ID.
type TaskRepository interface {
	// Create inserts a new task. It returns ErrTaskExists on a duplicate ID.
	Create(ctx context.Context, task *Task) error
	// Save updates an existing task.
	Save(ctx context.Context, task *Task) error
	// FindByID returns ErrTaskNotFound when no task has the ID.
	FindByID(ctx context.Context, id string) (*Task, error)
	FindAll(ctx context.Context) ([]*Task, error)
	// FindByEmployees returns the tasks owned by any of the employees.
	FindByEmployees(ctx context.Context, employeeIDs []string) ([]*Task, error)
	// FindByManagerOrEmployee returns tasks the user manages or owns.
	FindByManagerOrEmployee(ctx context.Context, userID string) ([]*Task, error)
}
