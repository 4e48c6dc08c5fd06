package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/calendraio/calendra/internal/scheduling/application/services"
	"github.com/calendraio/calendra/internal/scheduling/infrastructure/cache"
	"github.com/calendraio/calendra/internal/scheduling/infrastructure/events"
	"github.com/calendraio/calendra/internal/scheduling/infrastructure/persistence"
	"github.com/calendraio/calendra/internal/shared/infrastructure/database"
	_ "github.com/calendraio/calendra/internal/shared/infrastructure/database/sqlite"
	"github.com/calendraio/calendra/internal/shared/infrastructure/eventbus"
	"github.com/calendraio/calendra/pkg/config"
	"github.com/calendraio/calendra/pkg/observability"
)

// App is calendra's minimal DI container: one service (SchedulerService)
// plus whatever infrastructure it needed, built once in main and handed to
// every cobra command via GetApp.
type App struct {
	Scheduler *services.SchedulerService

	dbConn database.Connection
	cache  cache.Cache
	events eventbus.Publisher
}

// NewApp wires the scheduling service's infrastructure according to cfg:
// SQLite run history always on, Redis cache and RabbitMQ events only when
// configured. Local mode disables both by default.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics observability.Metrics) (*App, error) {
	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: cfg.SQLitePath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open run history database: %w", err)
	}

	runRepo, err := persistence.NewSQLiteRunRepository(ctx, conn)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize run history repository: %w", err)
	}

	var finalCache cache.Cache = cache.NoopFinalTasksCache{}
	if cfg.CacheEnabled {
		redisCache, err := cache.NewFinalTasksCache(cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			logger.Warn("invalid Redis URL, result cache disabled", "error", err)
		} else {
			finalCache = redisCache
		}
	}

	var bus eventbus.Publisher = eventbus.NewNoopPublisher(logger)
	if cfg.EventsEnabled {
		rmq, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			logger.Warn("failed to connect to RabbitMQ, falling back to noop publisher", "error", err)
		} else {
			bus = rmq
		}
	}

	bcfg := services.DefaultBreakerConfig()
	bcfg.Enabled = cfg.CircuitBreakerOn

	scheduler := services.NewSchedulerService(finalCache, runRepo, events.NewPublisher(bus), metrics, logger, bcfg)

	return &App{
		Scheduler: scheduler,
		dbConn:    conn,
		cache:     finalCache,
		events:    bus,
	}, nil
}

// Close releases every infrastructure handle the App opened.
func (a *App) Close() error {
	if a.events != nil {
		_ = a.events.Close()
	}
	if a.cache != nil {
		_ = a.cache.Close()
	}
	if a.dbConn != nil {
		return a.dbConn.Close()
	}
	return nil
}

// app is the global CLI application instance. Package-level GetApp/SetApp
// lets cobra command RunE funcs (which cobra itself constructs) reach it
// without a constructor-injection framework.
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
