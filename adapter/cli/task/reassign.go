package task

import (
	"fmt"

	"github.com/felixgeelhaar/perfboard/adapter/cli"
	"github.com/felixgeelhaar/perfboard/internal/performance/application/commands"
	"github.com/spf13/cobra"
)

var (
	newDueDate string
	reason     string
)

var reassignCmd = &cobra.Command{
	Use:   "reassign [task-id] [employee-id]",
	Short: "Hand a task to another employee",
	Long: `Reassign a task. A submission that was not reviewed yet goes back to
IN_PROGRESS for the new assignee.

Examples:
  perfboard task reassign TSK-101 EMP002
  perfboard task reassign TSK-101 EMP002 --due 2024-06-01 --reason "workload"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ReassignTaskHandler == nil {
			return cli.ErrNotInitialized
		}

		result, err := app.ReassignTaskHandler.Handle(cmd.Context(), commands.ReassignTaskCommand{
			ActorID:    app.Actor(),
			TaskID:     args[0],
			EmployeeID: args[1],
			NewDueDate: newDueDate,
			Reason:     reason,
		})
		if err != nil {
			return fmt.Errorf("failed to reassign task: %w", err)
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.PrintJSON(out, result)
		}
		fmt.Fprintf(out, "Task %s reassigned to %s (%s)\n", result.TaskID, result.EmployeeID, result.Status)
		if result.DueDate != "" {
			fmt.Fprintf(out, "  due: %s\n", result.DueDate)
		}
		return nil
	},
}

func init() {
	reassignCmd.Flags().StringVar(&newDueDate, "due", "", "new due date (YYYY-MM-DD)")
	reassignCmd.Flags().StringVar(&reason, "reason", "", "why the task moved")
}
