package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/perfboard/internal/performance/domain"
	"github.com/felixgeelhaar/perfboard/internal/performance/infrastructure/persistence"
	"github.com/felixgeelhaar/perfboard/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/perfboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRepositories(t *testing.T) {
	runRepositorySuite(t, testutil.NewSQLite(t))
}

func TestPostgresRepositories(t *testing.T) {
	runRepositorySuite(t, testutil.NewPostgres(t))
}

func runRepositorySuite(t *testing.T, conn database.Connection) {
	users := persistence.NewSQLUserRepository(conn)
	tasks := persistence.NewSQLTaskRepository(conn)
	seedUsers(t, users)

	t.Run("users", func(t *testing.T) { testUsers(t, users) })
	t.Run("tasks", func(t *testing.T) { testTasks(t, tasks) })
	t.Run("transaction rollback", func(t *testing.T) { testRollback(t, conn, users) })
}

func seedUsers(t *testing.T, repo *persistence.SQLUserRepository) {
	ctx := context.Background()
	created := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	for _, u := range []*domain.User{
		{ID: "ADMIN001", Name: "Sarah Connor", Role: domain.RoleAdmin, Department: "Administration", Active: true, CreatedAt: created},
		{ID: "MGR001", Name: "John Smith", Role: domain.RoleManager, Department: "Engineering", ManagerID: "CFO001", Active: true, CreatedAt: created},
		{ID: "EMP001", Name: "Neo Anderson", Role: domain.RoleEmployee, Department: "Engineering", ManagerID: "MGR001", Active: true, CreatedAt: created},
		{ID: "EMP002", Name: "Trinity Matrix", Role: domain.RoleEmployee, Department: "Engineering", ManagerID: "MGR001", Active: false, CreatedAt: created},
		{ID: "EMP004", Name: "Jordan Belfort", Role: domain.RoleEmployee, Department: "Sales", ManagerID: "MGR002", Active: true, CreatedAt: created},
	} {
		require.NoError(t, repo.Create(ctx, u))
	}
}

func testUsers(t *testing.T, repo *persistence.SQLUserRepository) {
	ctx := context.Background()

	u, err := repo.FindByID(ctx, "EMP001")
	require.NoError(t, err)
	assert.Equal(t, "Neo Anderson", u.Name)
	assert.Equal(t, domain.RoleEmployee, u.Role)
	assert.Equal(t, "MGR001", u.ManagerID)
	assert.True(t, u.Active)
	assert.True(t, u.CreatedAt.Equal(time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)))

	admin, err := repo.FindByID(ctx, "ADMIN001")
	require.NoError(t, err)
	assert.Empty(t, admin.ManagerID)

	_, err = repo.FindByID(ctx, "NOPE")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	err = repo.Create(ctx, &domain.User{ID: "EMP001", Name: "Dup", Role: domain.RoleEmployee})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	all, err := repo.FindAll(ctx, domain.UserFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 5)

	employees, err := repo.FindAll(ctx, domain.UserFilter{Role: domain.RoleEmployee, ActiveOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"EMP001", "EMP004"}, userIDs(employees))

	sales, err := repo.FindAll(ctx, domain.UserFilter{Department: "Sales"})
	require.NoError(t, err)
	assert.Equal(t, []string{"EMP004"}, userIDs(sales))

	u.SetActive(false)
	u.Department = "Research"
	require.NoError(t, repo.Save(ctx, u))
	reloaded, err := repo.FindByID(ctx, "EMP001")
	require.NoError(t, err)
	assert.False(t, reloaded.Active)
	assert.Equal(t, "Research", reloaded.Department)

	err = repo.Save(ctx, &domain.User{ID: "GHOST", Role: domain.RoleEmployee})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func testTasks(t *testing.T, repo *persistence.SQLTaskRepository) {
	ctx := context.Background()
	for _, task := range []*domain.Task{
		{ID: "TSK-101", Title: "Fix Login Bug", EmployeeID: "EMP001", ManagerID: "MGR001", AssignedBy: "MGR001", Department: "Engineering",
			Severity: domain.SeverityHigh, Status: domain.StatusApproved, AssignedDate: "2023-10-01", DueDate: "2023-10-05", CompletedDate: "2023-10-04"},
		{ID: "TSK-103", Title: "Database Schema", EmployeeID: "EMP002", ManagerID: "MGR001", AssignedBy: "MGR001", Department: "Engineering",
			Severity: domain.SeverityHigh, Status: domain.StatusApproved, ReworkCount: 2, DueDate: "2023-10-10", CompletedDate: "2023-10-12"},
		{ID: "TSK-104", Title: "Q3 Sales Report", EmployeeID: "EMP004", ManagerID: "MGR002", Department: "Sales",
			Severity: domain.SeverityHigh, Status: domain.StatusNew},
		{ID: "TSK-117", Title: "Q1 Strategy", EmployeeID: "MGR001", ManagerID: "CFO001", Department: "Engineering",
			Severity: domain.SeverityHigh, Status: domain.StatusInProgress, DueDate: "2026-02-20"},
	} {
		require.NoError(t, repo.Create(ctx, task))
	}

	task, err := repo.FindByID(ctx, "TSK-101")
	require.NoError(t, err)
	assert.Equal(t, "Fix Login Bug", task.Title)
	assert.Equal(t, domain.SeverityHigh, task.Severity)
	assert.Equal(t, domain.StatusApproved, task.Status)
	assert.Equal(t, "2023-10-04", task.CompletedDate)
	assert.Equal(t, "MGR001", task.AssignedBy)

	unassigned, err := repo.FindByID(ctx, "TSK-104")
	require.NoError(t, err)
	assert.Empty(t, unassigned.AssignedBy)
	assert.Empty(t, unassigned.DueDate)

	_, err = repo.FindByID(ctx, "TSK-999")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	err = repo.Create(ctx, &domain.Task{ID: "TSK-101", Title: "Dup", EmployeeID: "EMP001", Severity: domain.SeverityLow, Status: domain.StatusNew})
	assert.ErrorIs(t, err, domain.ErrTaskExists)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"TSK-101", "TSK-103", "TSK-104", "TSK-117"}, taskIDs(all))

	team, err := repo.FindByEmployees(ctx, []string{"EMP001", "EMP002"})
	require.NoError(t, err)
	assert.Equal(t, []string{"TSK-101", "TSK-103"}, taskIDs(team))

	none, err := repo.FindByEmployees(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	managed, err := repo.FindByManagerOrEmployee(ctx, "MGR001")
	require.NoError(t, err)
	assert.Equal(t, []string{"TSK-101", "TSK-103", "TSK-117"}, taskIDs(managed))

	task.ChangeStatus(domain.StatusRework, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Save(ctx, task))
	reloaded, err := repo.FindByID(ctx, "TSK-101")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRework, reloaded.Status)
	assert.Equal(t, 1, reloaded.ReworkCount)
	assert.Empty(t, reloaded.CompletedDate)

	err = repo.Save(ctx, &domain.Task{ID: "TSK-000", Severity: domain.SeverityLow, Status: domain.StatusNew})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func testRollback(t *testing.T, conn database.Connection, repo *persistence.SQLUserRepository) {
	ctx := context.Background()
	uow := database.NewUnitOfWork(conn)

	txCtx, err := uow.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.Create(txCtx, &domain.User{ID: "EMP099", Name: "Temp", Role: domain.RoleEmployee, Active: true}))
	require.NoError(t, uow.Rollback(txCtx))

	_, err = repo.FindByID(ctx, "EMP099")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func userIDs(users []*domain.User) []string {
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids
}

func taskIDs(tasks []*domain.Task) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}
