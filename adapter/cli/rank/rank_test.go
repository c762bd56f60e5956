package rank

import (
	"encoding/json"
	"testing"

	"github.com/felixgeelhaar/perfboard/adapter/cli"
	"github.com/felixgeelhaar/perfboard/adapter/cli/clitest"
	"github.com/felixgeelhaar/perfboard/internal/performance/application/queries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags() {
	department, activeOnly, limit = "", false, 0
	managersActiveOnly, managersLimit = false, 0
}

func TestEmployeesCmd_RanksAllEmployees(t *testing.T) {
	clitest.NewApp(t, true)
	resetFlags()

	out, err := clitest.Run(t, employeesCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Employee rankings (17):")
	assert.Contains(t, out, "Top performer:")
}

func TestEmployeesCmd_DepartmentAndLimit(t *testing.T) {
	clitest.NewApp(t, true)
	resetFlags()
	defer resetFlags()
	cli.SetJSONOutput(true)
	defer cli.SetJSONOutput(false)

	department = "Engineering"
	limit = 2

	out, err := clitest.Run(t, employeesCmd)
	require.NoError(t, err)

	var result queries.RankingsDTO
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Subjects, 2)
	assert.Equal(t, 1, result.Subjects[0].Rank)
	assert.Equal(t, 2, result.Subjects[1].Rank)
	assert.GreaterOrEqual(t, result.Subjects[0].Score, result.Subjects[1].Score)
	for _, s := range result.Subjects {
		assert.Equal(t, "Engineering", s.Department)
	}
}

func TestManagersCmd_RanksManagers(t *testing.T) {
	clitest.NewApp(t, true)
	resetFlags()

	out, err := clitest.Run(t, managersCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Manager rankings (8):")
	assert.Contains(t, out, "MGR001")
}

func TestManagersCmd_EmptyDirectory(t *testing.T) {
	clitest.NewApp(t, false)
	resetFlags()

	out, err := clitest.Run(t, managersCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "No subjects found.")
	assert.NotContains(t, out, "Top performer")
}
