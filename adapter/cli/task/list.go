package task

import (
	"fmt"

	"github.com/felixgeelhaar/perfboard/adapter/cli"
	"github.com/felixgeelhaar/perfboard/internal/performance/application/queries"
	"github.com/spf13/cobra"
)

var status string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks visible to the acting user",
	Long: `List tasks ordered by due date. Employees see their own tasks, managers
see the tasks they manage or are assigned, and admins and the CFO see
everything.

Examples:
  perfboard task list
  perfboard task list --status SUBMITTED
  perfboard --actor EMP001 task list`,
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListTasksHandler == nil {
			return cli.ErrNotInitialized
		}

		tasks, err := app.ListTasksHandler.Handle(cmd.Context(), queries.ListTasksQuery{
			ViewerID: app.Actor(),
			Status:   status,
		})
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.PrintJSON(out, tasks)
		}
		cli.PrintTasks(out, tasks)
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&status, "status", "", "only tasks in this status")
}
