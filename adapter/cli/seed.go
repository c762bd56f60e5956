package cli

import (
	"fmt"
	"os"

	"github.com/felixgeelhaar/perfboard/internal/performance/infrastructure/seed"
	"github.com/spf13/cobra"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo organisation",
	Long: `Load users and tasks into the database. Records whose IDs already exist
are skipped, so seeding twice is safe.

Examples:
  perfboard seed                      # built-in demo organisation
  perfboard seed --file org.json      # custom dataset`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.SeedLoader == nil {
			return ErrNotInitialized
		}

		var (
			ds  *seed.Dataset
			err error
		)
		if seedFile != "" {
			data, readErr := os.ReadFile(seedFile)
			if readErr != nil {
				return fmt.Errorf("failed to read seed file: %w", readErr)
			}
			ds, err = seed.Parse(data)
		} else {
			ds, err = seed.Demo()
		}
		if err != nil {
			return err
		}

		result, err := app.SeedLoader.Load(cmd.Context(), ds)
		if err != nil {
			return fmt.Errorf("failed to seed: %w", err)
		}

		if JSONOutput() {
			return PrintJSON(cmd.OutOrStdout(), result)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded users: %d created, %d skipped\n", result.UsersCreated, result.UsersSkipped)
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded tasks: %d created, %d skipped\n", result.TasksCreated, result.TasksSkipped)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "JSON dataset to load instead of the demo organisation")
	rootCmd.AddCommand(seedCmd)
}
