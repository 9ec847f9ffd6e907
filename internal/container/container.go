package container

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"waitstat/adapters/postgres"
	"waitstat/adapters/stats/engine"
	"waitstat/internal"
	"waitstat/internal/api"
	"waitstat/internal/config"
	"waitstat/internal/migration"
	"waitstat/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure, nil when no database is configured
	DB *sqlx.DB

	// Repositories (data access layer)
	ReportRepo ports.ReportRepository

	Engine *engine.StatsEngine
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	return &Container{
		Config: cfg,
		Logger: logger,
		Engine: engine.NewStatsEngine(engine.WithLogger(logger)),
	}, nil
}

// InitWithDatabase migrates the schema and initializes repositories
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}

	c.DB = db
	c.ReportRepo = postgres.NewReportRepository(db)
	c.Logger.Info("container initialized with database connection")
	return nil
}

// Server builds the HTTP API over the container's engine and repository
func (c *Container) Server() *api.Server {
	return api.NewServer(c.Engine, c.ReportRepo, c.Logger)
}

// Shutdown releases the database connection
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB == nil {
		return nil
	}
	c.Logger.Info("closing database connection")
	return c.DB.Close()
}
