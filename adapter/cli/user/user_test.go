package user

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/perfboard/adapter/cli/clitest"
	"github.com/felixgeelhaar/perfboard/internal/performance/application/queries"
	"github.com/felixgeelhaar/perfboard/internal/performance/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags() {
	name, role, department, manager = "", "Employee", "", ""
	filterRole, filterDepartment, activeOnly = "", "", false
}

func TestCreateCmd_AddsEmployee(t *testing.T) {
	app := clitest.NewApp(t, true)
	resetFlags()
	defer resetFlags()

	name = "Ada Byron"
	department = "Engineering"
	manager = "MGR001"

	out, err := clitest.Run(t, createCmd, "EMP030")
	require.NoError(t, err)
	assert.Contains(t, out, "User created: EMP030")

	users, err := app.ListUsersHandler.Handle(context.Background(), queries.ListUsersQuery{Department: "Engineering", Role: "employee"})
	require.NoError(t, err)
	assert.Len(t, users, 4)
}

func TestCreateCmd_DuplicateID(t *testing.T) {
	clitest.NewApp(t, true)
	resetFlags()
	defer resetFlags()

	name = "Second Neo"
	_, err := clitest.Run(t, createCmd, "EMP001")
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestListCmd_FiltersByRole(t *testing.T) {
	clitest.NewApp(t, true)
	resetFlags()
	defer resetFlags()

	filterRole = "Manager"
	out, err := clitest.Run(t, listCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Users (8):")
	assert.Contains(t, out, "MGR008")
	assert.NotContains(t, out, "EMP001")
}

func TestDeactivateCmd_ThenActivate(t *testing.T) {
	app := clitest.NewApp(t, true)
	resetFlags()
	defer resetFlags()

	out, err := clitest.Run(t, deactivateCmd, "EMP005")
	require.NoError(t, err)
	assert.Contains(t, out, "User EMP005 deactivated")

	active, err := app.ListUsersHandler.Handle(context.Background(), queries.ListUsersQuery{Department: "Sales", ActiveOnly: true})
	require.NoError(t, err)
	for _, u := range active {
		assert.NotEqual(t, "EMP005", u.ID)
	}

	out, err = clitest.Run(t, activateCmd, "EMP005")
	require.NoError(t, err)
	assert.Contains(t, out, "User EMP005 activated")
}

func TestDeactivateCmd_ManagerForbidden(t *testing.T) {
	app := clitest.NewApp(t, true)
	app.SetActorID("MGR001")

	_, err := clitest.Run(t, deactivateCmd, "EMP001")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
