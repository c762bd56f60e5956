package rank

import (
	"github.com/spf13/cobra"
)

// Cmd is the rank command group
var Cmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank employees or managers by performance score",
	Long: `Score every subject from the current task snapshot and list them
from best to worst. Ties keep directory order.`,
}

func init() {
	Cmd.AddCommand(employeesCmd)
	Cmd.AddCommand(managersCmd)
}
