package rank

import (
	"fmt"

	"github.com/felixgeelhaar/perfboard/adapter/cli"
	"github.com/felixgeelhaar/perfboard/internal/performance/application/queries"
	"github.com/spf13/cobra"
)

var (
	managersActiveOnly bool
	managersLimit      int
)

var managersCmd = &cobra.Command{
	Use:   "managers",
	Short: "Rank managers",
	Long: `Rank managers by how their direct reports perform: team completion,
low rework, approval efficiency and team stability.

Examples:
  perfboard rank managers
  perfboard rank managers --json`,
	Aliases: []string{"mgr"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ManagerRankingsHandler == nil {
			return cli.ErrNotInitialized
		}

		result, err := app.ManagerRankingsHandler.Handle(cmd.Context(), queries.GetManagerRankingsQuery{
			ActiveOnly: managersActiveOnly,
			Limit:      managersLimit,
		})
		if err != nil {
			return fmt.Errorf("failed to rank managers: %w", err)
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.PrintJSON(out, result)
		}
		cli.PrintRanking(out, "Manager rankings", result.Subjects)
		cli.PrintTopPerformer(out, result.TopPerformer)
		return nil
	},
}

func init() {
	managersCmd.Flags().BoolVar(&managersActiveOnly, "active", false, "skip deactivated users")
	managersCmd.Flags().IntVarP(&managersLimit, "limit", "n", 0, "show only the top N")
}
