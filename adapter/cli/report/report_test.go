package report

import (
	"testing"

	"github.com/felixgeelhaar/perfboard/adapter/cli"
	"github.com/felixgeelhaar/perfboard/adapter/cli/clitest"
	"github.com/felixgeelhaar/perfboard/internal/performance/application/queries"
	"github.com/felixgeelhaar/perfboard/internal/performance/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrgCmd_PrintsSections(t *testing.T) {
	clitest.NewApp(t, true)
	topEmployees = 3
	defer func() { topEmployees = queries.DefaultTopEmployees }()

	out, err := clitest.Run(t, orgCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Tasks: 37  ")
	assert.Contains(t, out, "Top employees (3):")
	assert.Contains(t, out, "Managers (8):")
}

func TestOrgCmd_EmptyDatabase(t *testing.T) {
	clitest.NewApp(t, false)

	out, err := clitest.Run(t, orgCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Tasks: 0  Completed: 0  Pending: 0  Completion: 0%")
	assert.Contains(t, out, "No subjects found.")
}

func TestDepartmentsCmd_ListsEveryDepartment(t *testing.T) {
	clitest.NewApp(t, true)

	out, err := clitest.Run(t, departmentsCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Engineering")
	assert.Contains(t, out, "Sales")
	assert.Contains(t, out, "Leaders:")
}

func TestTeamCmd_DefaultsToActor(t *testing.T) {
	app := clitest.NewApp(t, true)
	app.SetActorID("MGR001")

	out, err := clitest.Run(t, teamCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Team of John Smith (MGR001)")
	assert.Contains(t, out, "Team size: 3  Tasks: 12")
	assert.Contains(t, out, "Team (3):")
}

func TestTeamCmd_JSON(t *testing.T) {
	clitest.NewApp(t, true)
	cli.SetJSONOutput(true)
	defer cli.SetJSONOutput(false)

	out, err := clitest.Run(t, teamCmd, "MGR002")
	require.NoError(t, err)
	assert.Contains(t, out, `"team_size": 2`)
}

func TestTeamCmd_UnknownManager(t *testing.T) {
	clitest.NewApp(t, true)

	_, err := clitest.Run(t, teamCmd, "MGR404")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
