package domain

import (
	"sort"
	"strings"
	"time"

	shared "github.com/felixgeelhaar/perfboard/internal/shared/domain"
)

// User is a member of the organisation. ManagerID is empty for
// top-level roles.
type User struct {
	shared.BaseAggregateRoot
	ID         string
	Name       string
	Role       Role
	Department string
	ManagerID  string
	Active     bool
	CreatedAt  time.Time
}

// NewUser creates an active user and records UserCreated.
func NewUser(id, name string, role Role, department, managerID string) (*User, error) {
	if role.Order() == len(Roles) {
		return nil, ErrInvalidRole
	}
	u := &User{
		ID:         strings.TrimSpace(id),
		Name:       strings.TrimSpace(name),
		Role:       role,
		Department: strings.TrimSpace(department),
		ManagerID:  strings.TrimSpace(managerID),
		Active:     true,
		CreatedAt:  time.Now().UTC(),
	}
	u.AddDomainEvent(NewUserCreated(u))
	return u, nil
}

// SetActive changes the activation flag. It reports whether anything changed
// and only records an event when it did.
func (u *User) SetActive(active bool) bool {
	if u.Active == active {
		return false
	}
	u.Active = active
	u.AddDomainEvent(NewUserActivationChanged(u.ID, active))
	return true
}

// IsEmployee reports whether the user is scored with the employee formula.
func (u *User) IsEmployee() bool { return u.Role == RoleEmployee }

// IsManager reports whether the user is scored with the manager formula.
func (u *User) IsManager() bool { return u.Role == RoleManager }

// SortUsers orders users by role then name, then ID.
func SortUsers(users []*User) {
	sort.SliceStable(users, func(i, j int) bool {
		a, b := users[i], users[j]
		if a.Role.Order() != b.Role.Order() {
			return a.Role.Order() < b.Role.Order()
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
}

// FilterUsers returns the users matching keep, in order.
func FilterUsers(users []*User, keep func(*User) bool) []*User {
	out := make([]*User, 0, len(users))
	for _, u := range users {
		if keep(u) {
			out = append(out, u)
		}
	}
	return out
}

// DirectReports returns the IDs of employees whose manager is managerID.
func DirectReports(managerID string, employees []*User) []string {
	var ids []string
	for _, e := range employees {
		if e.ManagerID != "" && e.ManagerID == managerID {
			ids = append(ids, e.ID)
		}
	}
	return ids
}
