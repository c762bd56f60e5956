package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/perfboard/adapter/cli"
	"github.com/felixgeelhaar/perfboard/adapter/cli/clitest"
	"github.com/felixgeelhaar/perfboard/internal/performance/domain"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subcommand(t *testing.T, name string) *cobra.Command {
	t.Helper()
	cmd, _, err := cli.Root().Find([]string{name})
	require.NoError(t, err)
	require.Equal(t, name, cmd.Name())
	return cmd
}

func TestScoreCmd_Employee(t *testing.T) {
	clitest.NewApp(t, true)

	out, err := clitest.Run(t, subcommand(t, "score"), "EMP001")
	require.NoError(t, err)
	assert.Contains(t, out, "Neo Anderson (EMP001)")
	assert.Contains(t, out, "(employee formula)")
	assert.Contains(t, out, "productivity:")
}

func TestScoreCmd_Manager(t *testing.T) {
	clitest.NewApp(t, true)

	out, err := clitest.Run(t, subcommand(t, "score"), "MGR001")
	require.NoError(t, err)
	assert.Contains(t, out, "(manager formula)")
	assert.Contains(t, out, "3 members, 12 tasks")
	assert.Contains(t, out, "95.00")
}

func TestScoreCmd_AdminIsNotScorable(t *testing.T) {
	clitest.NewApp(t, true)

	_, err := clitest.Run(t, subcommand(t, "score"), "ADMIN001")
	assert.ErrorIs(t, err, domain.ErrNotScorable)
}

func TestSeedCmd_IsIdempotent(t *testing.T) {
	clitest.NewApp(t, false)
	cmd := subcommand(t, "seed")

	out, err := clitest.Run(t, cmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded users: 27 created, 0 skipped")
	assert.Contains(t, out, "Seeded tasks: 37 created, 0 skipped")

	out, err = clitest.Run(t, cmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded users: 0 created, 27 skipped")
}

func TestSeedCmd_FromFile(t *testing.T) {
	clitest.NewApp(t, false)
	cmd := subcommand(t, "seed")

	path := filepath.Join(t.TempDir(), "org.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"users": [
			{"id": "MGR100", "name": "Team Lead", "role": "Manager", "department": "Ops"},
			{"id": "EMP100", "name": "Operator", "role": "Employee", "department": "Ops", "manager_id": "MGR100"}
		],
		"tasks": [
			{"id": "TSK-1000", "title": "Rotate keys", "employee_id": "EMP100", "manager_id": "MGR100",
			 "department": "Ops", "severity": "High", "status": "NEW", "due_date": "2024-01-10"}
		]
	}`), 0o600))
	require.NoError(t, cmd.Flags().Set("file", path))
	defer func() { _ = cmd.Flags().Set("file", "") }()

	out, err := clitest.Run(t, cmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded users: 2 created")
	assert.Contains(t, out, "Seeded tasks: 1 created")
}

func TestMigrateCmd_SQLite(t *testing.T) {
	clitest.NewApp(t, false)
	cmd := subcommand(t, "migrate")

	out, err := clitest.Run(t, cmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Migrations applied (sqlite, up)")

	_, err = clitest.Run(t, cmd, "down")
	assert.Error(t, err)
}

func TestHealthCmd(t *testing.T) {
	clitest.NewApp(t, false)

	out, err := clitest.Run(t, subcommand(t, "health"))
	require.NoError(t, err)
	assert.Contains(t, out, "database")
	assert.Contains(t, out, "ok")
}

func TestHealthCmd_WithoutApp(t *testing.T) {
	cli.SetApp(nil)

	_, err := clitest.Run(t, subcommand(t, "health"))
	assert.Error(t, err)
}

func TestActorFlagOverridesConfig(t *testing.T) {
	app := clitest.NewApp(t, false)
	assert.Equal(t, clitest.AdminID, app.Actor())

	require.NoError(t, cli.Root().PersistentFlags().Set("actor", "MGR001"))
	defer func() { _ = cli.Root().PersistentFlags().Set("actor", "") }()
	assert.Equal(t, "MGR001", app.Actor())
}

func TestVersionCmd(t *testing.T) {
	out, err := clitest.Run(t, subcommand(t, "version"))
	require.NoError(t, err)
	assert.Contains(t, out, "perfboard ")
	assert.Contains(t, out, "commit:")
}

func TestVersionCmd_JSON(t *testing.T) {
	cli.SetJSONOutput(true)
	defer cli.SetJSONOutput(false)

	out, err := clitest.Run(t, subcommand(t, "version"))
	require.NoError(t, err)
	assert.Contains(t, out, `"go_version"`)
	assert.Contains(t, out, `"version"`)
}
