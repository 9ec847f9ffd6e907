package ports

import (
	"context"
	"encoding/json"
	"time"

	"waitstat/domain/core"
)

// StoredReport is a persisted comparison report. Payload holds the full
// report JSON; the other fields are indexed copies.
type StoredReport struct {
	ID          core.ReportID   `db:"id" json:"id"`
	Fingerprint core.Hash       `db:"fingerprint" json:"fingerprint"`
	LabelA      core.GroupLabel `db:"label_a" json:"label_a"`
	LabelB      core.GroupLabel `db:"label_b" json:"label_b"`
	Payload     json.RawMessage `db:"payload" json:"payload"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// ReportSummary is a report listing entry without the payload
type ReportSummary struct {
	ID          core.ReportID   `db:"id" json:"id"`
	Fingerprint core.Hash       `db:"fingerprint" json:"fingerprint"`
	LabelA      core.GroupLabel `db:"label_a" json:"label_a"`
	LabelB      core.GroupLabel `db:"label_b" json:"label_b"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// ReportRepository persists comparison reports
type ReportRepository interface {
	SaveReport(ctx context.Context, report StoredReport) error
	GetReport(ctx context.Context, id core.ReportID) (*StoredReport, error)
	ListReports(ctx context.Context, limit int) ([]ReportSummary, error)
	FindByFingerprint(ctx context.Context, fingerprint core.Hash) ([]ReportSummary, error)
}
