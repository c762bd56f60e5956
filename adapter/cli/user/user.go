package user

import (
	"github.com/spf13/cobra"
)

// Cmd is the user command group
var Cmd = &cobra.Command{
	Use:   "user",
	Short: "Manage the organisation directory",
	Long:  `Create, list, activate and deactivate users. Changes require an Admin or the CFO.`,
}

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(activateCmd)
	Cmd.AddCommand(deactivateCmd)
}
