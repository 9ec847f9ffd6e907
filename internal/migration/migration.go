package migration

import (
	"context"

	"github.com/jmoiron/sqlx"

	"waitstat/internal"
	"waitstat/internal/errors"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// step is one idempotent schema change
type step struct {
	name string
	sql  string
	// optional steps log a warning instead of failing the run
	optional bool
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
	steps   []step
	logger  *internal.Logger
}

var _ Migrator = (*MigrationRunner)(nil)

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
		steps:   schema(),
		logger:  internal.DefaultLogger.With("migration"),
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	for _, s := range r.steps {
		if _, err := db.ExecContext(ctx, s.sql); err != nil {
			if s.optional {
				r.logger.Warn("failed to %s: %v", s.name, err)
				continue
			}
			return errors.DatabaseError("failed to "+s.name, err)
		}
		r.logger.Debug("%s", s.name)
	}
	r.logger.Info("schema at version %s", r.version)
	return nil
}

func schema() []step {
	return []step{
		{
			name: "create comparison_reports table",
			sql: `
		CREATE TABLE IF NOT EXISTS comparison_reports (
			id UUID PRIMARY KEY,
			fingerprint CHAR(64) NOT NULL,
			label_a VARCHAR(255) NOT NULL,
			label_b VARCHAR(255) NOT NULL,
			payload JSONB NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`,
		},
		{
			name:     "create fingerprint index",
			sql:      "CREATE INDEX IF NOT EXISTS idx_reports_fingerprint ON comparison_reports(fingerprint)",
			optional: true,
		},
		{
			name:     "create created_at index",
			sql:      "CREATE INDEX IF NOT EXISTS idx_reports_created_at ON comparison_reports(created_at DESC)",
			optional: true,
		},
		{
			name:     "create label index",
			sql:      "CREATE INDEX IF NOT EXISTS idx_reports_labels ON comparison_reports(label_a, label_b)",
			optional: true,
		},
	}
}
