// Package report renders a comparison report as Markdown or a standalone
// HTML page.
package report

import (
	"fmt"
	"math"
	"strings"

	"waitstat/adapters/stats/engine"
	domain "waitstat/domain/stats"
)

// Markdown renders the report as GitHub-flavored Markdown
func Markdown(r *engine.ComparisonReport) string {
	var b strings.Builder
	w := &writer{b: &b, r: r}

	w.line("# Wait time comparison: %s vs %s", r.GroupA.Label, r.GroupB.Label)
	w.line("")
	w.line("Report `%s` · %s · α = %s", r.ID, r.CreatedAt.UTC().Format("2006-01-02 15:04:05 UTC"), num(r.Alpha, 2))
	w.line("")

	w.descriptives()
	w.intervals()
	w.sla()
	w.tests()
	w.effects()
	w.conclusions()
	w.skipped()

	return b.String()
}

type writer struct {
	b *strings.Builder
	r *engine.ComparisonReport
}

func (w *writer) line(format string, args ...interface{}) {
	fmt.Fprintf(w.b, format, args...)
	w.b.WriteByte('\n')
}

func (w *writer) header(cols ...string) {
	w.line("| %s |", strings.Join(cols, " | "))
	seps := make([]string, len(cols))
	for i := range seps {
		seps[i] = "---"
	}
	w.line("| %s |", strings.Join(seps, " | "))
}

func (w *writer) row(cells ...string) {
	w.line("| %s |", strings.Join(cells, " | "))
}

func (w *writer) descriptives() {
	a, b := w.r.GroupA.Descriptive, w.r.GroupB.Descriptive
	if a == nil || b == nil {
		return
	}
	w.line("## Descriptive statistics")
	w.line("")
	w.header("Statistic", string(w.r.GroupA.Label), string(w.r.GroupB.Label))
	stats := []struct {
		name string
		get  func(*domain.Descriptive) float64
	}{
		{"Mean", func(d *domain.Descriptive) float64 { return d.Mean }},
		{"Median", func(d *domain.Descriptive) float64 { return d.Median }},
		{"Std. deviation", func(d *domain.Descriptive) float64 { return d.StdDev }},
		{"Variance", func(d *domain.Descriptive) float64 { return d.Variance }},
		{"P25", func(d *domain.Descriptive) float64 { return d.P25 }},
		{"P75", func(d *domain.Descriptive) float64 { return d.P75 }},
		{"P90", func(d *domain.Descriptive) float64 { return d.P90 }},
		{"P95", func(d *domain.Descriptive) float64 { return d.P95 }},
		{"IQR", func(d *domain.Descriptive) float64 { return d.IQR }},
		{"Min", func(d *domain.Descriptive) float64 { return d.Min }},
		{"Max", func(d *domain.Descriptive) float64 { return d.Max }},
	}
	w.row("n", fmt.Sprint(a.Count), fmt.Sprint(b.Count))
	for _, s := range stats {
		w.row(s.name, num(s.get(a), 2), num(s.get(b), 2))
	}
	w.row("CV", pct(a.CV), pct(b.CV))
	w.line("")
}

func (w *writer) intervals() {
	if len(w.r.Intervals) == 0 {
		return
	}
	w.line("## Confidence intervals")
	w.line("")
	w.header("Level", "Parameter", "Estimate", "Lower", "Upper")
	la, lb := w.r.GroupA.Label, w.r.GroupB.Label
	for _, blk := range w.r.Intervals {
		level := pct(blk.Confidence)
		rows := []struct {
			name string
			ci   *domain.ConfidenceInterval
		}{
			{fmt.Sprintf("Mean %s", la), blk.MeanA},
			{fmt.Sprintf("Mean %s", lb), blk.MeanB},
			{fmt.Sprintf("Mean %s − %s", la, lb), blk.MeanDifference},
			{fmt.Sprintf("Variance %s", la), blk.VarianceA},
			{fmt.Sprintf("Variance %s", lb), blk.VarianceB},
			{fmt.Sprintf("Variance ratio %s/%s", la, lb), blk.VarianceRatio},
			{fmt.Sprintf("Approval %s", la), blk.ProportionA},
			{fmt.Sprintf("Approval %s", lb), blk.ProportionB},
			{fmt.Sprintf("Approval %s − %s", la, lb), blk.ProportionDifference},
		}
		for _, r := range rows {
			if r.ci == nil {
				continue
			}
			w.row(level, r.name, num(r.ci.Estimate, 3), num(r.ci.Lower, 3), num(r.ci.Upper, 3))
		}
	}
	w.line("")
}

func (w *writer) sla() {
	if len(w.r.SLA) == 0 {
		return
	}
	w.line("## Wait time thresholds")
	w.line("")
	w.header("Threshold (min)", "≤ threshold "+string(w.r.GroupA.Label), "≤ threshold "+string(w.r.GroupB.Label), "Difference")
	for _, row := range w.r.SLA {
		w.row(num(row.Threshold, 1), pct(row.A.Fraction), pct(row.B.Fraction), signedPoints(row.Difference))
	}
	w.line("")
}

func (w *writer) tests() {
	t := w.r.Tests
	la, lb := w.r.GroupA.Label, w.r.GroupB.Label
	rows := []struct {
		name string
		res  *domain.TestResult
	}{
		{fmt.Sprintf("Shapiro-Wilk (%s)", la), t.ShapiroA},
		{fmt.Sprintf("Shapiro-Wilk (%s)", lb), t.ShapiroB},
		{fmt.Sprintf("D'Agostino-Pearson (%s)", la), t.DAgostinoA},
		{fmt.Sprintf("D'Agostino-Pearson (%s)", lb), t.DAgostinoB},
		{"Levene", t.Levene},
		{"Welch t", t.WelchT},
		{"Student t", t.StudentT},
		{"Mann-Whitney U", t.MannWhitneyU},
		{"F (variances)", ftest(t)},
		{"Two-proportion z", t.ProportionZ},
		{"χ² independence", t.ChiSquare},
		{"χ² independence (Yates)", t.ChiSquareYates},
	}

	w.line("## Hypothesis tests")
	w.line("")
	w.header("Test", "Statistic", "df", "p-value", fmt.Sprintf("Significant at %s", num(w.r.Alpha, 2)))
	for _, r := range rows {
		if r.res == nil {
			continue
		}
		w.row(r.name, num(r.res.Statistic, 4), df(r.res), pvalue(r.res.PValue), yesNo(r.res.Significant(w.r.Alpha)))
	}
	w.line("")
}

func ftest(t engine.TestSuite) *domain.TestResult {
	if t.FTest == nil {
		return nil
	}
	return &t.FTest.TestResult
}

func (w *writer) effects() {
	e := w.r.Effects
	if e.CohensD == nil && e.CohensH == nil {
		return
	}
	w.line("## Effect sizes")
	w.line("")
	w.header("Measure", "Value", "Magnitude")
	if e.CohensD != nil {
		w.row("Cohen's d (wait time)", num(e.CohensD.Value, 3), string(e.CohensD.Magnitude))
	}
	if e.CohensH != nil {
		w.row("Cohen's h (approval)", num(e.CohensH.Value, 3), string(e.CohensH.Magnitude))
	}
	w.line("")
}

func (w *writer) conclusions() {
	c := w.r.Conclusions
	la, lb := w.r.GroupA.Label, w.r.GroupB.Label
	w.line("## Conclusions")
	w.line("")
	if c.BothNormal != nil {
		w.line("- Both groups normal (Shapiro-Wilk): **%s**", yesNo(*c.BothNormal))
	}
	if c.EqualVariances != nil {
		w.line("- Equal variances (Levene): **%s**, recommended test: %s", yesNo(*c.EqualVariances), c.RecommendedTest)
	}
	if m := c.MeanDifference; m != nil {
		w.line("- Mean wait differs: **%s** (%s − %s = %s min, p = %s)", yesNo(m.Significant), la, lb, signed(m.Estimate, 2), pvalue(m.PValue))
	}
	if v := c.VarianceDifference; v != nil {
		w.line("- Variability differs: **%s** (more variable: %s, p = %s)", yesNo(v.Significant), w.sideLabel(v.Larger), pvalue(v.PValue))
	}
	if p := c.ProportionDifference; p != nil {
		w.line("- Approval differs: **%s** (%s − %s = %s, p = %s)", yesNo(p.Significant), la, lb, signedPoints(p.Estimate), pvalue(p.PValue))
	}
	w.line("")
}

func (w *writer) skipped() {
	if len(w.r.Skipped) == 0 {
		return
	}
	w.line("## Skipped computations")
	w.line("")
	for _, s := range w.r.Skipped {
		w.line("- `%s`: %s", s.Computation, s.Reason)
	}
	w.line("")
}

func (w *writer) sideLabel(s domain.Side) string {
	switch s {
	case domain.SideFirst:
		return string(w.r.GroupA.Label)
	case domain.SideSecond:
		return string(w.r.GroupB.Label)
	default:
		return "neither"
	}
}

func num(v float64, prec int) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.*f", prec, v)
}

func signed(v float64, prec int) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%+.*f", prec, v)
}

func pct(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", v*100)
}

// signedPoints formats a proportion difference in percentage points
func signedPoints(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%+.1f pp", v*100)
}

func pvalue(p float64) string {
	switch {
	case math.IsNaN(p):
		return "n/a"
	case p < 0.0001:
		return "< 0.0001"
	default:
		return fmt.Sprintf("%.4f", p)
	}
}

func df(r *domain.TestResult) string {
	switch {
	case r.DF2 > 0:
		return fmt.Sprintf("%s, %s", trimFloat(r.DF), trimFloat(r.DF2))
	case r.DF > 0:
		return trimFloat(r.DF)
	default:
		return "-"
	}
}

func trimFloat(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
