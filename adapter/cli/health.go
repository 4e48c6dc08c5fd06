package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calendraio/calendra/internal/scheduling/infrastructure/cache"
	"github.com/calendraio/calendra/internal/shared/infrastructure/eventbus"
	"github.com/calendraio/calendra/pkg/observability"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check connectivity of the scheduler's infrastructure",
	Long: `Pings the run-history database and, when enabled, the Redis result
cache and RabbitMQ event bus, then prints a JSON health summary. Exits
non-zero if any required component is unhealthy.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("application is not initialized")
		}

		registry := observability.NewHealthRegistry()
		registry.Register("database", observability.DatabaseHealthChecker(func(ctx context.Context) error {
			return app.dbConn.Ping(ctx)
		}))
		if redisCache, ok := app.cache.(*cache.FinalTasksCache); ok {
			registry.Register("redis", observability.RedisHealthChecker(redisCache.Ping))
		}
		if rmq, ok := app.events.(*eventbus.RabbitMQPublisher); ok {
			registry.Register("rabbitmq", observability.RabbitMQHealthChecker(rmq.Healthy))
		}

		overall := registry.GetOverallHealth(cmd.Context())
		raw, err := overall.ToJSON()
		if err != nil {
			return fmt.Errorf("failed to render health summary: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(raw))

		if overall.Status == observability.HealthStatusUnhealthy {
			return fmt.Errorf("unhealthy")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
