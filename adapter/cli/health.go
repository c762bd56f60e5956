package cli

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/perfboard/pkg/observability"
	"github.com/spf13/cobra"
)

// CheckHealth runs the CLI wiring checks: the application is initialized and
// its database answers a ping.
func CheckHealth(ctx context.Context, a *App) observability.OverallHealth {
	registry := observability.NewHealthRegistry()
	registry.Register("app", func(context.Context) observability.HealthCheckResult {
		if a == nil {
			return observability.HealthCheckResult{
				Status:  observability.HealthStatusUnhealthy,
				Message: ErrNotInitialized.Error(),
			}
		}
		return observability.HealthCheckResult{Status: observability.HealthStatusHealthy}
	})
	if a != nil && a.DB != nil {
		registry.Register("database", observability.DatabaseHealthChecker(a.DB.Ping))
	}
	return registry.GetOverallHealth(ctx)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check CLI wiring health",
	RunE: func(cmd *cobra.Command, args []string) error {
		health := CheckHealth(cmd.Context(), GetApp())
		if JSONOutput() {
			return PrintJSON(cmd.OutOrStdout(), health)
		}
		for name, result := range health.Checks {
			fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s %s\n", name, result.Status, result.Message)
		}
		if health.Status == observability.HealthStatusUnhealthy {
			return fmt.Errorf("unhealthy")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
