package user

import (
	"fmt"

	"github.com/felixgeelhaar/perfboard/adapter/cli"
	"github.com/felixgeelhaar/perfboard/internal/performance/application/commands"
	"github.com/spf13/cobra"
)

var (
	name       string
	role       string
	department string
	manager    string
)

var createCmd = &cobra.Command{
	Use:   "create [user-id]",
	Short: "Add a user",
	Long: `Add a user to the directory. New users are active.

Examples:
  perfboard user create EMP030 --name "Ada Byron" --role Employee -d Engineering --manager MGR001
  perfboard user create MGR009 --name "Grace Hopper" --role Manager -d Research --manager CFO001`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CreateUserHandler == nil {
			return cli.ErrNotInitialized
		}

		result, err := app.CreateUserHandler.Handle(cmd.Context(), commands.CreateUserCommand{
			ActorID:    app.Actor(),
			ID:         args[0],
			Name:       name,
			Role:       role,
			Department: department,
			ManagerID:  manager,
		})
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.PrintJSON(out, result)
		}
		fmt.Fprintf(out, "User created: %s\n", result.UserID)
		fmt.Fprintf(out, "  name: %s\n", name)
		fmt.Fprintf(out, "  role: %s\n", role)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&name, "name", "", "display name")
	createCmd.Flags().StringVarP(&role, "role", "r", "Employee", "role (Admin, CFO, Manager, Employee)")
	createCmd.Flags().StringVarP(&department, "department", "d", "", "department")
	createCmd.Flags().StringVarP(&manager, "manager", "m", "", "manager user ID")
	_ = createCmd.MarkFlagRequired("name")
}
