package rank

import (
	"fmt"

	"github.com/felixgeelhaar/perfboard/adapter/cli"
	"github.com/felixgeelhaar/perfboard/internal/performance/application/queries"
	"github.com/spf13/cobra"
)

var (
	department string
	activeOnly bool
	limit      int
)

var employeesCmd = &cobra.Command{
	Use:   "employees",
	Short: "Rank employees",
	Long: `Rank employees by their weighted score of completion, quality,
timeliness and productivity.

Examples:
  perfboard rank employees
  perfboard rank employees --department Engineering
  perfboard rank employees --active --limit 5`,
	Aliases: []string{"emp"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.EmployeeRankingsHandler == nil {
			return cli.ErrNotInitialized
		}

		result, err := app.EmployeeRankingsHandler.Handle(cmd.Context(), queries.GetEmployeeRankingsQuery{
			Department: department,
			ActiveOnly: activeOnly,
			Limit:      limit,
		})
		if err != nil {
			return fmt.Errorf("failed to rank employees: %w", err)
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.PrintJSON(out, result)
		}
		cli.PrintRanking(out, "Employee rankings", result.Subjects)
		cli.PrintTopPerformer(out, result.TopPerformer)
		return nil
	},
}

func init() {
	employeesCmd.Flags().StringVarP(&department, "department", "d", "", "only rank this department")
	employeesCmd.Flags().BoolVar(&activeOnly, "active", false, "skip deactivated users")
	employeesCmd.Flags().IntVarP(&limit, "limit", "n", 0, "show only the top N")
}
