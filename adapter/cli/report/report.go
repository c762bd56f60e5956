package report

import (
	"github.com/spf13/cobra"
)

// Cmd is the report command group
var Cmd = &cobra.Command{
	Use:   "report",
	Short: "Organisation, department and team reports",
}

func init() {
	Cmd.AddCommand(orgCmd)
	Cmd.AddCommand(departmentsCmd)
	Cmd.AddCommand(teamCmd)
}
