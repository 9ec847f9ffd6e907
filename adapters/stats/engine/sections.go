package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"waitstat/adapters/stats/descriptive"
	"waitstat/adapters/stats/effect"
	"waitstat/adapters/stats/hypothesis"
	"waitstat/adapters/stats/intervals"
	"waitstat/adapters/stats/sla"
	"waitstat/internal"
)

// run is the state of one Compare call. Each section writes only its own
// report fields; skips go through the mutex.
type run struct {
	in     ComparisonInput
	report *ComparisonReport
	logger *internal.Logger

	mu sync.Mutex
}

func (rn *run) skip(computation string, err error) {
	rn.mu.Lock()
	rn.report.RecordSkip(computation, err)
	rn.mu.Unlock()

	skippedTotal.WithLabelValues(metricName(computation)).Inc()
	rn.logger.Warn("skipping %s: %v", computation, err)
}

// keep returns &v, or records the skip and returns nil
func keep[T any](rn *run, computation string, v T, err error) *T {
	if err != nil {
		rn.skip(computation, err)
		return nil
	}
	return &v
}

// sections lists the independent units of work of a comparison
func (rn *run) sections() []func(context.Context) {
	return []func(context.Context){
		rn.descriptives,
		rn.confidenceIntervals,
		rn.thresholds,
		rn.normality,
		rn.variances,
		rn.locations,
		rn.proportions,
		rn.effects,
	}
}

func (rn *run) descriptives(ctx context.Context) {
	a, err := descriptive.Describe(rn.in.A)
	rn.report.GroupA.Descriptive = keep(rn, "descriptive_a", a, err)
	b, err := descriptive.Describe(rn.in.B)
	rn.report.GroupB.Descriptive = keep(rn, "descriptive_b", b, err)
}

func (rn *run) confidenceIntervals(ctx context.Context) {
	in := rn.in
	for i, c := range in.Levels {
		if ctx.Err() != nil {
			return
		}
		name := func(what string) string { return fmt.Sprintf("%s@%g", what, c) }
		block := LevelBlock{Confidence: c}

		ci, err := intervals.Mean(in.A, c)
		block.MeanA = keep(rn, name("mean_ci_a"), ci, err)
		ci, err = intervals.Mean(in.B, c)
		block.MeanB = keep(rn, name("mean_ci_b"), ci, err)
		ci, err = intervals.MeanDifference(in.A, in.B, c)
		block.MeanDifference = keep(rn, name("mean_difference_ci"), ci, err)

		ci, err = intervals.Variance(in.A, c)
		block.VarianceA = keep(rn, name("variance_ci_a"), ci, err)
		ci, err = intervals.Variance(in.B, c)
		block.VarianceB = keep(rn, name("variance_ci_b"), ci, err)
		ci, err = intervals.VarianceRatio(in.A, in.B, c)
		block.VarianceRatio = keep(rn, name("variance_ratio_ci"), ci, err)

		ci, err = intervals.Proportion(in.SurveyA, c)
		block.ProportionA = keep(rn, name("proportion_ci_a"), ci, err)
		ci, err = intervals.Proportion(in.SurveyB, c)
		block.ProportionB = keep(rn, name("proportion_ci_b"), ci, err)
		ci, err = intervals.ProportionDifference(in.SurveyA, in.SurveyB, c)
		block.ProportionDifference = keep(rn, name("proportion_difference_ci"), ci, err)

		rn.report.Intervals[i] = block
	}
}

func (rn *run) thresholds(ctx context.Context) {
	a, err := sla.Compliance(rn.in.A, rn.in.Thresholds)
	if err != nil {
		rn.skip("sla", err)
		return
	}
	b, err := sla.Compliance(rn.in.B, rn.in.Thresholds)
	if err != nil {
		rn.skip("sla", err)
		return
	}

	rows := make([]SLARow, len(a))
	for i := range a {
		rows[i] = SLARow{
			Threshold:  a[i].Threshold,
			A:          a[i],
			B:          b[i],
			Difference: a[i].Fraction - b[i].Fraction,
		}
	}
	rn.report.SLA = rows
}

func (rn *run) normality(ctx context.Context) {
	t := &rn.report.Tests
	res, err := hypothesis.ShapiroWilk(rn.in.A)
	t.ShapiroA = keep(rn, "shapiro_wilk_a", res, err)
	res, err = hypothesis.ShapiroWilk(rn.in.B)
	t.ShapiroB = keep(rn, "shapiro_wilk_b", res, err)
	res, err = hypothesis.DAgostinoPearson(rn.in.A)
	t.DAgostinoA = keep(rn, "dagostino_pearson_a", res, err)
	res, err = hypothesis.DAgostinoPearson(rn.in.B)
	t.DAgostinoB = keep(rn, "dagostino_pearson_b", res, err)
}

func (rn *run) variances(ctx context.Context) {
	t := &rn.report.Tests
	res, err := hypothesis.Levene(rn.in.A, rn.in.B, rn.in.LeveneCenter)
	t.Levene = keep(rn, "levene", res, err)
	f, err := hypothesis.FTest(rn.in.A, rn.in.B)
	t.FTest = keep(rn, "f_test", f, err)
}

func (rn *run) locations(ctx context.Context) {
	t := &rn.report.Tests
	res, err := hypothesis.WelchT(rn.in.A, rn.in.B)
	t.WelchT = keep(rn, "welch_t", res, err)
	res, err = hypothesis.StudentT(rn.in.A, rn.in.B)
	t.StudentT = keep(rn, "student_t", res, err)
	res, err = hypothesis.MannWhitneyU(rn.in.A, rn.in.B)
	t.MannWhitneyU = keep(rn, "mann_whitney_u", res, err)
}

func (rn *run) proportions(ctx context.Context) {
	t := &rn.report.Tests
	res, err := hypothesis.ProportionZ(rn.in.SurveyA, rn.in.SurveyB)
	t.ProportionZ = keep(rn, "proportion_z", res, err)
	res, err = hypothesis.ChiSquareIndependence(rn.in.SurveyA, rn.in.SurveyB, false)
	t.ChiSquare = keep(rn, "chi_square", res, err)
	res, err = hypothesis.ChiSquareIndependence(rn.in.SurveyA, rn.in.SurveyB, true)
	t.ChiSquareYates = keep(rn, "chi_square_yates", res, err)
}

func (rn *run) effects(ctx context.Context) {
	d, err := effect.CohensD(rn.in.A, rn.in.B)
	rn.report.Effects.CohensD = keep(rn, "cohens_d", d, err)
	h, err := effect.CohensHCounts(rn.in.SurveyA, rn.in.SurveyB)
	rn.report.Effects.CohensH = keep(rn, "cohens_h", h, err)
}

// metricName drops the confidence suffix so label cardinality stays bounded
func metricName(computation string) string {
	name, _, _ := strings.Cut(computation, "@")
	return name
}
