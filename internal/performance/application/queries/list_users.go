package queries

import (
	"context"

	"github.com/felixgeelhaar/perfboard/internal/performance/domain"
)

// ListUsersQuery contains the parameters for listing users.
type ListUsersQuery struct {
	Role       string // optional, any case
	Department string
	ActiveOnly bool
}

// ListUsersHandler handles the ListUsersQuery.
type ListUsersHandler struct {
	userRepo domain.UserRepository
}

// NewListUsersHandler creates a new ListUsersHandler.
func NewListUsersHandler(userRepo domain.UserRepository) *ListUsersHandler {
	return &ListUsersHandler{userRepo: userRepo}
}

// Handle executes the ListUsersQuery. Users come back ordered by role then name.
func (h *ListUsersHandler) Handle(ctx context.Context, query ListUsersQuery) ([]UserDTO, error) {
	filter := domain.UserFilter{
		Department: query.Department,
		ActiveOnly: query.ActiveOnly,
	}
	if query.Role != "" {
		role, err := domain.ParseRole(query.Role)
		if err != nil {
			return nil, err
		}
		filter.Role = role
	}

	users, err := h.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	domain.SortUsers(users)
	return toUserDTOs(users), nil
}
