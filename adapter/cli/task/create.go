package task

import (
	"fmt"

	"github.com/felixgeelhaar/perfboard/adapter/cli"
	"github.com/felixgeelhaar/perfboard/internal/performance/application/commands"
	"github.com/spf13/cobra"
)

var (
	taskID      string
	assignee    string
	manager     string
	department  string
	severity    string
	description string
	assignedOn  string
	dueDate     string
)

var createCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Assign a new task",
	Long: `Create a task and assign it to an employee. Only managers, admins and
the CFO can assign work. The acting user becomes the task's manager and
assigner unless --manager is given.

Examples:
  perfboard task create "Fix login bug" -e EMP001 -d Engineering -s High --due 2024-05-01
  perfboard task create "Quarterly deck" -e EMP004 -d Sales -s Medium --id TSK-900`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CreateTaskHandler == nil {
			return cli.ErrNotInitialized
		}

		result, err := app.CreateTaskHandler.Handle(cmd.Context(), commands.CreateTaskCommand{
			ActorID:      app.Actor(),
			ID:           taskID,
			Title:        args[0],
			Description:  description,
			EmployeeID:   assignee,
			ManagerID:    manager,
			Department:   department,
			Severity:     severity,
			AssignedDate: assignedOn,
			DueDate:      dueDate,
		})
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.PrintJSON(out, result)
		}
		fmt.Fprintf(out, "Task created: %s\n", result.TaskID)
		fmt.Fprintf(out, "  title: %s\n", args[0])
		fmt.Fprintf(out, "  assignee: %s\n", assignee)
		if dueDate != "" {
			fmt.Fprintf(out, "  due: %s\n", dueDate)
		}
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&taskID, "id", "", "task ID (generated when empty)")
	createCmd.Flags().StringVarP(&assignee, "employee", "e", "", "assignee user ID")
	createCmd.Flags().StringVar(&manager, "manager", "", "responsible manager (defaults to the acting user)")
	createCmd.Flags().StringVarP(&department, "department", "d", "", "department")
	createCmd.Flags().StringVarP(&severity, "severity", "s", "Medium", "severity (High, Medium, Low)")
	createCmd.Flags().StringVar(&description, "description", "", "task description")
	createCmd.Flags().StringVar(&assignedOn, "assigned", "", "assignment date (YYYY-MM-DD)")
	createCmd.Flags().StringVar(&dueDate, "due", "", "due date (YYYY-MM-DD)")
	_ = createCmd.MarkFlagRequired("employee")
	_ = createCmd.MarkFlagRequired("department")
}
