package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"waitstat/domain/core"
	apperrors "waitstat/internal/errors"
	"waitstat/ports"
)

// DefaultListLimit caps ListReports when the caller passes no limit
const DefaultListLimit = 50

// ReportRepositoryImpl implements ReportRepository for PostgreSQL
type ReportRepositoryImpl struct {
	db *sqlx.DB
}

// NewReportRepository creates a new PostgreSQL report repository
func NewReportRepository(db *sqlx.DB) ports.ReportRepository {
	return &ReportRepositoryImpl{db: db}
}

// reportRow scans the payload into a plain byte slice so the driver
// buffer is copied
type reportRow struct {
	ID          string    `db:"id"`
	Fingerprint string    `db:"fingerprint"`
	LabelA      string    `db:"label_a"`
	LabelB      string    `db:"label_b"`
	Payload     []byte    `db:"payload"`
	CreatedAt   time.Time `db:"created_at"`
}

// SaveReport inserts a report. Saving the same ID twice replaces the payload.
func (r *ReportRepositoryImpl) SaveReport(ctx context.Context, report ports.StoredReport) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO comparison_reports (id, fingerprint, label_a, label_b, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			fingerprint = EXCLUDED.fingerprint,
			label_a = EXCLUDED.label_a,
			label_b = EXCLUDED.label_b,
			payload = EXCLUDED.payload`,
		report.ID.String(),
		report.Fingerprint.String(),
		report.LabelA.String(),
		report.LabelB.String(),
		[]byte(report.Payload),
		report.CreatedAt,
	)
	if err != nil {
		return apperrors.DatabaseError(fmt.Sprintf("failed to save report %s", report.ID), err)
	}
	return nil
}

// GetReport loads one report by ID
func (r *ReportRepositoryImpl) GetReport(ctx context.Context, id core.ReportID) (*ports.StoredReport, error) {
	var row reportRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, fingerprint, label_a, label_b, payload, created_at
		FROM comparison_reports
		WHERE id = $1`, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("report", id.String())
		}
		return nil, apperrors.DatabaseError(fmt.Sprintf("failed to get report %s", id), err)
	}

	return &ports.StoredReport{
		ID:          core.ReportID(row.ID),
		Fingerprint: core.Hash(row.Fingerprint),
		LabelA:      core.GroupLabel(row.LabelA),
		LabelB:      core.GroupLabel(row.LabelB),
		Payload:     row.Payload,
		CreatedAt:   row.CreatedAt,
	}, nil
}

// ListReports returns the newest reports first
func (r *ReportRepositoryImpl) ListReports(ctx context.Context, limit int) ([]ports.ReportSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	var summaries []ports.ReportSummary
	err := r.db.SelectContext(ctx, &summaries, `
		SELECT id, fingerprint, label_a, label_b, created_at
		FROM comparison_reports
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, apperrors.DatabaseError("failed to list reports", err)
	}
	return summaries, nil
}

// FindByFingerprint returns every report computed from identical inputs
func (r *ReportRepositoryImpl) FindByFingerprint(ctx context.Context, fingerprint core.Hash) ([]ports.ReportSummary, error) {
	var summaries []ports.ReportSummary
	err := r.db.SelectContext(ctx, &summaries, `
		SELECT id, fingerprint, label_a, label_b, created_at
		FROM comparison_reports
		WHERE fingerprint = $1
		ORDER BY created_at DESC`, fingerprint.String())
	if err != nil {
		return nil, apperrors.DatabaseError("failed to find reports by fingerprint", err)
	}
	return summaries, nil
}
