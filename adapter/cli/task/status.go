package task

import (
	"fmt"

	"github.com/felixgeelhaar/perfboard/adapter/cli"
	"github.com/felixgeelhaar/perfboard/internal/performance/application/commands"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [task-id] [status]",
	Short: "Move a task to a new status",
	Long: `Change a task's status. Sending a task to REWORK counts against its
quality score. APPROVED and Completed stamp today's date as the completion
date; any other status clears it.

Statuses: NEW, IN_PROGRESS, SUBMITTED, APPROVED, REWORK, CANCELLED,
"Completed", "In Review".

Examples:
  perfboard task status TSK-101 SUBMITTED
  perfboard task status TSK-101 APPROVED`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.UpdateTaskStatusHandler == nil {
			return cli.ErrNotInitialized
		}

		result, err := app.UpdateTaskStatusHandler.Handle(cmd.Context(), commands.UpdateTaskStatusCommand{
			ActorID: app.Actor(),
			TaskID:  args[0],
			Status:  args[1],
		})
		if err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.PrintJSON(out, result)
		}
		fmt.Fprintf(out, "Task %s is now %s\n", result.TaskID, result.Status)
		if result.ReworkCount > 0 {
			fmt.Fprintf(out, "  rework: %d\n", result.ReworkCount)
		}
		if result.CompletedDate != "" {
			fmt.Fprintf(out, "  completed: %s\n", result.CompletedDate)
		}
		return nil
	},
}
