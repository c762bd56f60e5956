package report

import (
	"fmt"
	"io"

	"github.com/felixgeelhaar/perfboard/adapter/cli"
	"github.com/felixgeelhaar/perfboard/internal/performance/application/queries"
	"github.com/spf13/cobra"
)

var topEmployees int

var orgCmd = &cobra.Command{
	Use:   "org",
	Short: "Organisation-wide performance report",
	Long: `Overall completion, the best employees and the manager ranking.

Examples:
  perfboard report org
  perfboard report org --top 5 --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := orgReport(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.PrintJSON(out, report)
		}
		printStats(out, report)
		fmt.Fprintln(out)
		cli.PrintRanking(out, "Top employees", report.TopEmployees)
		fmt.Fprintln(out)
		cli.PrintRanking(out, "Managers", report.Managers)
		return nil
	},
}

func orgReport(cmd *cobra.Command) (*queries.OrgReportDTO, error) {
	app := cli.GetApp()
	if app == nil || app.OrgReportHandler == nil {
		return nil, cli.ErrNotInitialized
	}
	report, err := app.OrgReportHandler.Handle(cmd.Context(), queries.GetOrgReportQuery{TopEmployees: topEmployees})
	if err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}
	return report, nil
}

func printStats(w io.Writer, r *queries.OrgReportDTO) {
	fmt.Fprintln(w, "Organisation")
	cli.PrintRule(w)
	fmt.Fprintf(w, "Tasks: %d  Completed: %d  Pending: %d  Completion: %d%%\n",
		r.Stats.Total, r.Stats.Completed, r.Stats.Pending, r.Stats.Overall)
}

func init() {
	orgCmd.Flags().IntVar(&topEmployees, "top", queries.DefaultTopEmployees, "how many top employees to list")
}
