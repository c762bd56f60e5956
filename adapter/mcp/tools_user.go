package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/perfboard/internal/performance/application/commands"
	"github.com/felixgeelhaar/perfboard/internal/performance/application/queries"
)

type userCreateInput struct {
	ID         string `json:"id" jsonschema:"required"`
	Name       string `json:"name" jsonschema:"required"`
	Role       string `json:"role" jsonschema:"required"`
	Department string `json:"department,omitempty"`
	ManagerID  string `json:"manager_id,omitempty"`
}

type userListInput struct {
	Role       string `json:"role,omitempty"`
	Department string `json:"department,omitempty"`
	ActiveOnly bool   `json:"active_only,omitempty"`
}

type userActiveInput struct {
	UserID string `json:"user_id" jsonschema:"required"`
	Active bool   `json:"active"`
}

func (t tools) createUser(ctx context.Context, input userCreateInput) (*commands.CreateUserResult, error) {
	if err := requireDatabase(t.app.CreateUserHandler != nil, "user creation"); err != nil {
		return nil, err
	}
	return t.app.CreateUserHandler.Handle(ctx, commands.CreateUserCommand{
		ActorID:    t.app.Actor(),
		ID:         input.ID,
		Name:       input.Name,
		Role:       input.Role,
		Department: input.Department,
		ManagerID:  input.ManagerID,
	})
}

func (t tools) listUsers(ctx context.Context, input userListInput) ([]queries.UserDTO, error) {
	if err := requireDatabase(t.app.ListUsersHandler != nil, "user listing"); err != nil {
		return nil, err
	}
	return t.app.ListUsersHandler.Handle(ctx, queries.ListUsersQuery{
		Role:       input.Role,
		Department: input.Department,
		ActiveOnly: input.ActiveOnly,
	})
}

func (t tools) setUserActive(ctx context.Context, input userActiveInput) (map[string]any, error) {
	if err := requireDatabase(t.app.SetUserActiveHandler != nil, "user update"); err != nil {
		return nil, err
	}
	if err := t.app.SetUserActiveHandler.Handle(ctx, commands.SetUserActiveCommand{
		ActorID: t.app.Actor(),
		UserID:  input.UserID,
		Active:  input.Active,
	}); err != nil {
		return nil, err
	}
	return map[string]any{"user_id": input.UserID, "active": input.Active}, nil
}

func registerUserTools(srv *mcp.Server, deps ToolDependencies) error {
	t := tools{app: deps.App}

	srv.Tool("user.create").
		Description("Add a user to the directory (Admin or CFO only)").
		Handler(t.createUser)

	srv.Tool("user.list").
		Description("List users ordered by role then name").
		Handler(t.listUsers)

	srv.Tool("user.set_active").
		Description("Activate or deactivate a user (Admin or CFO only)").
		Handler(t.setUserActive)

	return nil
}
