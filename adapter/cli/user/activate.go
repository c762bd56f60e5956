package user

import (
	"fmt"

	"github.com/felixgeelhaar/perfboard/adapter/cli"
	"github.com/felixgeelhaar/perfboard/internal/performance/application/commands"
	"github.com/spf13/cobra"
)

var activateCmd = &cobra.Command{
	Use:   "activate [user-id]",
	Short: "Reactivate a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setActive(cmd, args[0], true)
	},
}

var deactivateCmd = &cobra.Command{
	Use:   "deactivate [user-id]",
	Short: "Deactivate a user",
	Long: `Deactivate a user. Deactivated users keep their task history but are
skipped by rankings run with --active and cannot act.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setActive(cmd, args[0], false)
	},
}

func setActive(cmd *cobra.Command, userID string, active bool) error {
	app := cli.GetApp()
	if app == nil || app.SetUserActiveHandler == nil {
		return cli.ErrNotInitialized
	}

	err := app.SetUserActiveHandler.Handle(cmd.Context(), commands.SetUserActiveCommand{
		ActorID: app.Actor(),
		UserID:  userID,
		Active:  active,
	})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	state := "deactivated"
	if active {
		state = "activated"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "User %s %s\n", userID, state)
	return nil
}
