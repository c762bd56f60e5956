package cli

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/perfboard/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/perfboard/internal/shared/infrastructure/migrations"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down]",
	Short: "Apply or revert the database schema",
	Long: `Run the embedded schema migrations against the configured database.

PostgreSQL supports both directions. SQLite databases are migrated up
automatically in local mode and only support "up".`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(migrations.Up), string(migrations.Down)},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.DB == nil || app.Config == nil {
			return ErrNotInitialized
		}

		direction := migrations.Up
		if len(args) == 1 {
			direction = migrations.Direction(args[0])
		}

		switch app.DB.Driver() {
		case database.DriverPostgres:
			if err := migrations.RunPostgresMigrations(app.Config.DatabaseURL, direction); err != nil {
				return err
			}
		case database.DriverSQLite:
			if direction != migrations.Up {
				return errors.New("sqlite migrations only run up")
			}
			if err := migrations.Run(cmd.Context(), app.DB); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported database driver: %s", app.DB.Driver())
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Migrations applied (%s, %s)\n", app.DB.Driver(), direction)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
