package domain

import (
	"fmt"
	"strings"
)

// Role is the organisational role of a user.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleCFO      Role = "CFO"
	RoleManager  Role = "Manager"
	RoleEmployee Role = "Employee"
)

// Roles lists the roles in listing order.
var Roles = []Role{RoleAdmin, RoleCFO, RoleManager, RoleEmployee}

// ParseRole parses a role case-insensitively.
func ParseRole(s string) (Role, error) {
	for _, role := range Roles {
		if strings.EqualFold(strings.TrimSpace(s), string(role)) {
			return role, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

func (r Role) String() string { return string(r) }

// Order is the position of the role in Roles, or len(Roles) when unknown.
func (r Role) Order() int {
	for i, role := range Roles {
		if role == r {
			return i
		}
	}
	return len(Roles)
}

// SeesEverything reports whether the role has organisation-wide visibility.
func (r Role) SeesEverything() bool {
	return r == RoleAdmin || r == RoleCFO
}

// CanManageUsers reports whether the role may create or (de)activate users.
func (r Role) CanManageUsers() bool {
	return r.SeesEverything()
}

// CanAssignTasks reports whether the role may create or reassign tasks.
func (r Role) CanAssignTasks() bool {
	return r == RoleManager || r.SeesEverything()
}
