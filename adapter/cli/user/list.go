package user

import (
	"fmt"

	"github.com/felixgeelhaar/perfboard/adapter/cli"
	"github.com/felixgeelhaar/perfboard/internal/performance/application/queries"
	"github.com/spf13/cobra"
)

var (
	filterRole       string
	filterDepartment string
	activeOnly       bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Long: `List users ordered by role and then name.

Examples:
  perfboard user list
  perfboard user list --role Manager
  perfboard user list -d Sales --active`,
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListUsersHandler == nil {
			return cli.ErrNotInitialized
		}

		users, err := app.ListUsersHandler.Handle(cmd.Context(), queries.ListUsersQuery{
			Role:       filterRole,
			Department: filterDepartment,
			ActiveOnly: activeOnly,
		})
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.PrintJSON(out, users)
		}
		cli.PrintUsers(out, users)
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&filterRole, "role", "r", "", "only this role")
	listCmd.Flags().StringVarP(&filterDepartment, "department", "d", "", "only this department")
	listCmd.Flags().BoolVar(&activeOnly, "active", false, "skip deactivated users")
}
