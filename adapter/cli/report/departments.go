package report

import (
	"fmt"

	"github.com/felixgeelhaar/perfboard/adapter/cli"
	"github.com/spf13/cobra"
)

var departmentsCmd = &cobra.Command{
	Use:   "departments",
	Short: "Per-department completion, workload and leaders",
	Long: `Completion index and workload for every department, plus the best
ranked employee in each.`,
	Aliases: []string{"dept"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := orgReport(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.PrintJSON(out, map[string]any{
				"completion": report.DepartmentCompletion,
				"workload":   report.DepartmentWorkload,
				"leaders":    report.DepartmentLeaders,
			})
		}

		fmt.Fprintf(out, "Departments (%d):\n", len(report.DepartmentCompletion))
		cli.PrintRule(out)
		fmt.Fprintf(out, "%-30s %6s %9s %7s %6s\n", "DEPARTMENT", "TASKS", "COMPLETED", "PENDING", "INDEX")
		pending := make(map[string]int, len(report.DepartmentWorkload))
		for _, w := range report.DepartmentWorkload {
			pending[w.Department] = w.Pending
		}
		for _, d := range report.DepartmentCompletion {
			fmt.Fprintf(out, "%-30s %6d %9d %7d %5d%%\n", d.Department, d.Total, d.Completed, pending[d.Department], d.Index)
		}

		if len(report.DepartmentLeaders) > 0 {
			fmt.Fprintln(out, "\nLeaders:")
			for _, l := range report.DepartmentLeaders {
				fmt.Fprintf(out, "  %-30s %s (%s) %.2f\n", l.Department, l.Top.Name, l.Top.ID, l.Top.Score)
			}
		}
		return nil
	},
}
