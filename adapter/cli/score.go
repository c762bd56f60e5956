package cli

import (
	"fmt"
	"io"

	"github.com/felixgeelhaar/perfboard/internal/performance/application/queries"
	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score [user-id]",
	Short: "Explain the performance score of one user",
	Long: `Show the score of an employee or manager and every rate that went into it.

Employees are scored on their own tasks. Managers are scored on the tasks of
their direct reports.

Examples:
  perfboard score EMP001
  perfboard score MGR001 --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.SubjectScoreHandler == nil {
			return ErrNotInitialized
		}

		result, err := app.SubjectScoreHandler.Handle(cmd.Context(), queries.GetSubjectScoreQuery{SubjectID: args[0]})
		if err != nil {
			return fmt.Errorf("failed to score %s: %w", args[0], err)
		}

		if JSONOutput() {
			return PrintJSON(cmd.OutOrStdout(), result)
		}
		printSubjectScore(cmd.OutOrStdout(), result)
		return nil
	},
}

func printSubjectScore(w io.Writer, s *queries.SubjectScoreDTO) {
	fmt.Fprintf(w, "%s (%s), %s, %s\n", s.Subject.Name, s.Subject.ID, s.Subject.Role, s.Subject.Department)
	PrintRule(w)
	fmt.Fprintf(w, "Score: %.2f (%s formula)\n", s.Score, s.Formula)

	if e := s.Employee; e != nil {
		fmt.Fprintf(w, "  tasks:        %d total, %d completed\n", e.Total, e.Completed)
		fmt.Fprintf(w, "  completion:   %.2f%%\n", e.CompletionRate)
		fmt.Fprintf(w, "  quality:      %.2f%% (%d first time right)\n", e.QualityRate, e.FirstTimeRight)
		fmt.Fprintf(w, "  timeliness:   %.2f%% (%d on time)\n", e.TimelinessRate, e.OnTime)
		fmt.Fprintf(w, "  productivity: %.2f\n", e.Productivity)
		fmt.Fprintf(w, "\n%s\n", e.Explanation)
	}
	if m := s.Manager; m != nil {
		fmt.Fprintf(w, "  team:         %d members, %d tasks, %d completed\n", m.TeamSize, m.TeamTotal, m.TeamCompleted)
		fmt.Fprintf(w, "  completion:   %.2f%%\n", m.CompletionRate)
		fmt.Fprintf(w, "  low rework:   %.2f%% (%d without rework)\n", m.LowReworkRate, m.NoRework)
		fmt.Fprintf(w, "  approvals:    %.2f%% (%d in review)\n", m.ApprovalEfficiency, m.InReview)
		fmt.Fprintf(w, "  stability:    %.2f\n", m.TeamStability)
		fmt.Fprintf(w, "\n%s\n", m.Explanation)
	}
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}
