package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/perfboard/internal/performance/application/commands"
	"github.com/felixgeelhaar/perfboard/internal/performance/application/queries"
	"github.com/felixgeelhaar/perfboard/internal/performance/application/services"
	"github.com/felixgeelhaar/perfboard/internal/performance/domain"
	"github.com/felixgeelhaar/perfboard/internal/performance/infrastructure/seed"
	sharedApplication "github.com/felixgeelhaar/perfboard/internal/shared/application"
	"github.com/felixgeelhaar/perfboard/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/perfboard/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/perfboard/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/perfboard/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/perfboard/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/perfboard/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/perfboard/pkg/config"
	"github.com/felixgeelhaar/perfboard/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics observability.Metrics

	// Database
	DBConn   database.Connection
	DBDriver database.Driver

	// Repositories
	UserRepo   domain.UserRepository
	TaskRepo   domain.TaskRepository
	OutboxRepo outbox.Repository

	// Unit of Work
	UnitOfWork sharedApplication.UnitOfWork

	// Engines
	Scoring *services.ScoringEngine
	Ranking *services.RankingEngine
	Reports *services.ReportBuilder

	// User handlers
	CreateUserHandler    *commands.CreateUserHandler
	SetUserActiveHandler *commands.SetUserActiveHandler
	ListUsersHandler     *queries.ListUsersHandler

	// Task handlers
	CreateTaskHandler       *commands.CreateTaskHandler
	UpdateTaskStatusHandler *commands.UpdateTaskStatusHandler
	ReassignTaskHandler     *commands.ReassignTaskHandler
	ListTasksHandler        *queries.ListTasksHandler

	// Performance handlers
	EmployeeRankingsHandler *queries.GetEmployeeRankingsHandler
	ManagerRankingsHandler  *queries.GetManagerRankingsHandler
	SubjectScoreHandler     *queries.GetSubjectScoreHandler
	OrgReportHandler        *queries.GetOrgReportHandler
	TeamDashboardHandler    *queries.GetTeamDashboardHandler

	SeedLoader *seed.Loader

	// Set by StartOutboxProcessor.
	EventPublisher  eventbus.Publisher
	OutboxProcessor *outbox.Processor
}

// DatabaseConfig maps the application configuration onto a connection config.
func DatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		Driver:     database.Driver(cfg.DatabaseDriver),
		URL:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
	}
}

// NewContainer connects to the configured database and wires every handler.
// In local mode the SQLite schema is migrated on startup; server deployments
// run `perfboard migrate` instead.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	conn, err := database.NewConnection(ctx, DatabaseConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info("connected to database", "driver", conn.Driver())

	if cfg.LocalMode || conn.Driver() == database.DriverSQLite {
		if err := migrations.Run(ctx, conn); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	c, err := NewContainerWithConnection(cfg, conn, logger, observability.NoopMetrics{})
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return c, nil
}

// NewContainerWithConnection wires every handler on top of an open connection.
func NewContainerWithConnection(cfg *config.Config, conn database.Connection, logger *slog.Logger, metrics observability.Metrics) (*Container, error) {
	factory, err := NewRepositoryFactory(conn)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config:     cfg,
		Logger:     logger,
		Metrics:    metrics,
		DBConn:     conn,
		DBDriver:   factory.Driver(),
		UserRepo:   factory.UserRepository(),
		TaskRepo:   factory.TaskRepository(),
		OutboxRepo: factory.OutboxRepository(),
		UnitOfWork: factory.UnitOfWork(),
	}

	c.Scoring = services.NewScoringEngine(services.DefaultScoringConfig())
	c.Ranking = services.NewRankingEngine(c.Scoring)
	c.Reports = services.NewReportBuilder(c.Scoring, c.Ranking)

	c.CreateUserHandler = commands.NewCreateUserHandler(c.UserRepo, c.OutboxRepo, c.UnitOfWork).WithMetrics(metrics)
	c.SetUserActiveHandler = commands.NewSetUserActiveHandler(c.UserRepo, c.OutboxRepo, c.UnitOfWork).WithMetrics(metrics)
	c.ListUsersHandler = queries.NewListUsersHandler(c.UserRepo)

	c.CreateTaskHandler = commands.NewCreateTaskHandler(c.UserRepo, c.TaskRepo, c.OutboxRepo, c.UnitOfWork).WithMetrics(metrics)
	c.UpdateTaskStatusHandler = commands.NewUpdateTaskStatusHandler(c.UserRepo, c.TaskRepo, c.OutboxRepo, c.UnitOfWork).WithMetrics(metrics)
	c.ReassignTaskHandler = commands.NewReassignTaskHandler(c.UserRepo, c.TaskRepo, c.OutboxRepo, c.UnitOfWork).WithMetrics(metrics)
	c.ListTasksHandler = queries.NewListTasksHandler(c.UserRepo, c.TaskRepo)

	c.EmployeeRankingsHandler = queries.NewGetEmployeeRankingsHandler(c.UserRepo, c.TaskRepo, c.Ranking).
		WithMetrics(metrics).
		WithLogger(logger)
	c.ManagerRankingsHandler = queries.NewGetManagerRankingsHandler(c.UserRepo, c.TaskRepo, c.Ranking).WithMetrics(metrics)
	c.SubjectScoreHandler = queries.NewGetSubjectScoreHandler(c.UserRepo, c.TaskRepo, c.Scoring).WithMetrics(metrics)
	c.OrgReportHandler = queries.NewGetOrgReportHandler(c.UserRepo, c.TaskRepo, c.Ranking, c.Reports).WithMetrics(metrics)
	c.TeamDashboardHandler = queries.NewGetTeamDashboardHandler(c.UserRepo, c.TaskRepo, c.Reports).WithMetrics(metrics)

	c.SeedLoader = seed.NewLoader(c.UserRepo, c.TaskRepo, c.UnitOfWork, logger)

	return c, nil
}

// NewPublisher builds the event publisher for the configured broker and
// wraps it in a circuit breaker when enabled.
func NewPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics observability.Metrics) (eventbus.Publisher, error) {
	var (
		publisher eventbus.Publisher
		err       error
	)
	switch eventbus.ParseBroker(cfg.EventBroker) {
	case eventbus.BrokerRabbitMQ:
		publisher, err = eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
	case eventbus.BrokerRedis:
		publisher, err = eventbus.NewRedisPublisher(ctx, cfg.RedisURL, cfg.RedisChannelPrefix, logger)
	default:
		publisher = eventbus.NewNoopPublisher(logger)
	}
	if err != nil {
		if !cfg.IsDevelopment() {
			return nil, fmt.Errorf("failed to connect to %s: %w", cfg.EventBroker, err)
		}
		logger.Warn("event broker not available, using noop publisher", "broker", cfg.EventBroker, "error", err)
		publisher = eventbus.NewNoopPublisher(logger)
	}

	if cfg.PublisherBreakerEnabled {
		breakerCfg := eventbus.DefaultBreakerConfig()
		if cfg.PublisherBreakerFailures > 0 {
			breakerCfg.FailureThreshold = uint32(cfg.PublisherBreakerFailures)
		}
		if cfg.PublisherBreakerTimeout > 0 {
			breakerCfg.Timeout = cfg.PublisherBreakerTimeout
		}
		publisher = eventbus.NewBreakerPublisher(publisher, breakerCfg, logger, metrics)
	}
	return publisher, nil
}

// ProcessorConfig maps the application configuration onto the outbox relay.
func ProcessorConfig(cfg *config.Config) outbox.ProcessorConfig {
	pc := outbox.DefaultProcessorConfig()
	if cfg.OutboxPollInterval > 0 {
		pc.PollInterval = cfg.OutboxPollInterval
	}
	if cfg.OutboxBatchSize > 0 {
		pc.BatchSize = cfg.OutboxBatchSize
	}
	if cfg.OutboxMaxRetries > 0 {
		pc.MaxRetries = cfg.OutboxMaxRetries
	}
	if cfg.OutboxRetryBackoffBase > 0 {
		pc.RetryBackoffBase = cfg.OutboxRetryBackoffBase
	}
	if cfg.OutboxRetryBackoffMax > 0 {
		pc.RetryBackoffMax = cfg.OutboxRetryBackoffMax
	}
	return pc
}

// StartOutboxProcessor starts relaying outbox messages through publisher.
func (c *Container) StartOutboxProcessor(ctx context.Context, publisher eventbus.Publisher) error {
	c.EventPublisher = publisher
	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, publisher, ProcessorConfig(c.Config), c.Logger).
		WithMetrics(c.Metrics)
	return c.OutboxProcessor.Start(ctx)
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.OutboxProcessor != nil {
		c.OutboxProcessor.Stop()
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "error", err)
		} else {
			c.Logger.Info("database connection closed", "driver", c.DBDriver)
		}
	}
}
