// Package engine orchestrates a full two-group comparison: descriptives,
// confidence intervals at every requested level, the SLA table, the
// hypothesis test battery, effect sizes and the derived conclusions.
package engine

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"waitstat/domain/core"
	"waitstat/internal"
)

// StatsEngine runs comparisons. It holds no per-call state and is safe for
// concurrent use.
type StatsEngine struct {
	logger *internal.Logger
	now    func() time.Time
}

// Option configures a StatsEngine
type Option func(*StatsEngine)

// WithLogger sets the logger used for skip warnings and summaries
func WithLogger(l *internal.Logger) Option {
	return func(e *StatsEngine) { e.logger = l.With("engine") }
}

// WithClock overrides the report timestamp source
func WithClock(now func() time.Time) Option {
	return func(e *StatsEngine) { e.now = now }
}

// NewStatsEngine creates a new statistical engine
func NewStatsEngine(opts ...Option) *StatsEngine {
	e := &StatsEngine{
		logger: internal.DefaultLogger.With("engine"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compare runs every computation for the two groups. Invalid input fails
// fast; a computation that fails on degenerate data is recorded in
// ComparisonReport.Skipped and the rest of the report is still produced.
// Sections run concurrently; cancelling ctx aborts the comparison.
func (e *StatsEngine) Compare(ctx context.Context, in ComparisonInput) (*ComparisonReport, error) {
	start := time.Now()

	in = in.WithDefaults()
	if err := in.Validate(); err != nil {
		comparisonsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	report := &ComparisonReport{
		ID:          core.NewReportID(),
		Fingerprint: in.fingerprint(),
		CreatedAt:   e.now().UTC(),
		Alpha:       in.Alpha,
		GroupA:      GroupSummary{Label: in.LabelA, Survey: in.SurveyA},
		GroupB:      GroupSummary{Label: in.LabelB, Survey: in.SurveyB},
		Intervals:   make([]LevelBlock, len(in.Levels)),
	}
	rn := &run{in: in, report: report, logger: e.logger}

	g, gctx := errgroup.WithContext(ctx)
	for _, section := range rn.sections() {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			section(gctx)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		comparisonsTotal.WithLabelValues("cancelled").Inc()
		return nil, err
	}

	report.sortSkipped()
	report.Conclusions = deriveConclusions(report)

	elapsed := time.Since(start)
	report.SetRuntime(elapsed)
	comparisonDuration.Observe(elapsed.Seconds())
	comparisonsTotal.WithLabelValues("ok").Inc()

	e.logger.Info("comparison %s (%s vs %s): %d skipped, %dms",
		report.ID, in.LabelA, in.LabelB, len(report.Skipped), report.RuntimeMs)
	return report, nil
}
