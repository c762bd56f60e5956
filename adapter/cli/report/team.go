package report

import (
	"fmt"

	"github.com/felixgeelhaar/perfboard/adapter/cli"
	"github.com/felixgeelhaar/perfboard/internal/performance/application/queries"
	"github.com/spf13/cobra"
)

var teamCmd = &cobra.Command{
	Use:   "team [manager-id]",
	Short: "Dashboard for one manager's team",
	Long: `Team size, task totals, rework and the ranked team of a manager.
Defaults to the acting user.

Examples:
  perfboard report team MGR001
  perfboard --actor MGR002 report team`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.TeamDashboardHandler == nil {
			return cli.ErrNotInitialized
		}

		managerID := app.Actor()
		if len(args) == 1 {
			managerID = args[0]
		}

		dash, err := app.TeamDashboardHandler.Handle(cmd.Context(), queries.GetTeamDashboardQuery{ManagerID: managerID})
		if err != nil {
			return fmt.Errorf("failed to build team dashboard: %w", err)
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.PrintJSON(out, dash)
		}
		fmt.Fprintf(out, "Team of %s (%s)\n", dash.Manager.Name, dash.Manager.ID)
		cli.PrintRule(out)
		fmt.Fprintf(out, "Team size: %d  Tasks: %d  Completion: %d%%  Rework: %d\n",
			dash.TeamSize, dash.TotalTasks, dash.CompletionRate, dash.TotalRework)
		fmt.Fprintf(out, "Manager score: %.2f\n\n", dash.ManagerScore)
		cli.PrintRanking(out, "Team", dash.Team)
		cli.PrintTopPerformer(out, dash.TopPerformer)
		return nil
	},
}
