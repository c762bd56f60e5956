package queries

import (
	"context"

	"github.com/felixgeelhaar/perfboard/internal/performance/domain"
	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) Save(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) FindAll(ctx context.Context, filter domain.UserFilter) ([]*domain.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

type mockTaskRepo struct {
	mock.Mock
}

func (m *mockTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTaskRepo) Save(ctx context.Context, t *domain.Task) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTaskRepo) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *mockTaskRepo) FindAll(ctx context.Context) ([]*domain.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Task), args.Error(1)
}

func (m *mockTaskRepo) FindByEmployees(ctx context.Context, employeeIDs []string) ([]*domain.Task, error) {
	args := m.Called(ctx, employeeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Task), args.Error(1)
}

func (m *mockTaskRepo) FindByManagerOrEmployee(ctx context.Context, userID string) ([]*domain.Task, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Task), args.Error(1)
}

// Fixture: MGR001 leads EMP001 and EMP002 in Engineering, MGR002 leads
// EMP003 in Sales.
//
//	EMP001  2 approved on time, no rework          -> 88.00
//	EMP002  1 approved late with rework, 1 review  -> 21.50
//	EMP003  1 in progress                          ->  0.00
//	MGR001                                         -> 75.50
//	MGR002                                         -> 14.25
func fixtureUsers() []*domain.User {
	return []*domain.User{
		{ID: "ADMIN001", Name: "Sarah Connor", Role: domain.RoleAdmin, Department: "Administration", Active: true},
		{ID: "MGR001", Name: "John Smith", Role: domain.RoleManager, Department: "Engineering", Active: true},
		{ID: "MGR002", Name: "Lisa Ray", Role: domain.RoleManager, Department: "Sales", Active: true},
		{ID: "EMP001", Name: "Alice", Role: domain.RoleEmployee, Department: "Engineering", ManagerID: "MGR001", Active: true},
		{ID: "EMP002", Name: "Bob", Role: domain.RoleEmployee, Department: "Engineering", ManagerID: "MGR001", Active: true},
		{ID: "EMP003", Name: "Carol", Role: domain.RoleEmployee, Department: "Sales", ManagerID: "MGR002", Active: true},
	}
}

func fixtureTasks() []*domain.Task {
	return []*domain.Task{
		{ID: "TSK-1", EmployeeID: "EMP001", ManagerID: "MGR001", Status: domain.StatusApproved, DueDate: "2023-10-05", CompletedDate: "2023-10-04"},
		{ID: "TSK-2", EmployeeID: "EMP001", ManagerID: "MGR001", Status: domain.StatusApproved, DueDate: "2023-10-05", CompletedDate: "2023-10-04"},
		{ID: "TSK-3", EmployeeID: "EMP002", ManagerID: "MGR001", Status: domain.StatusApproved, ReworkCount: 1, DueDate: "2023-10-05", CompletedDate: "2023-10-06"},
		{ID: "TSK-4", EmployeeID: "EMP002", ManagerID: "MGR001", Status: domain.StatusSubmitted},
		{ID: "TSK-5", EmployeeID: "EMP003", ManagerID: "MGR002", Status: domain.StatusInProgress, DueDate: "2023-10-10"},
	}
}

func usersWithRole(role domain.Role) []*domain.User {
	return domain.FilterUsers(fixtureUsers(), func(u *domain.User) bool { return u.Role == role })
}

func userByID(id string) *domain.User {
	for _, u := range fixtureUsers() {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func subjectIDs(ranked []RankedDTO) []string {
	ids := make([]string, len(ranked))
	for i, r := range ranked {
		ids[i] = r.ID
	}
	return ids
}
