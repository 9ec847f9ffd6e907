package main

import (
	"context"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"waitstat/internal/config"
	"waitstat/internal/errors"
	"waitstat/internal/migration"
)

// openDatabase connects and pings. migrate also brings the schema up to date.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, migrate bool) (*sqlx.DB, error) {
	if !cfg.Enabled() {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if migrate {
		if err := migration.NewRunner().Run(ctx, db); err != nil {
			db.Close()
			return nil, errors.Wrap(err, "database migration failed")
		}
	}
	return db, nil
}
