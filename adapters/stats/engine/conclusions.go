package engine

import (
	domain "waitstat/domain/stats"
)

// Conclusions are the summary readouts derived from the report at Alpha.
// The numeric results stay authoritative; these are convenience flags.
type Conclusions struct {
	Alpha float64 `json:"alpha"`

	// BothNormal is set when both Shapiro-Wilk tests ran: p > alpha for both groups
	BothNormal *bool `json:"both_normal,omitempty"`
	// EqualVariances is Levene p > alpha; RecommendedTest follows from it
	EqualVariances  *bool           `json:"equal_variances,omitempty"`
	RecommendedTest domain.TestName `json:"recommended_test,omitempty"`

	MeanDifference       *Readout `json:"mean_difference,omitempty"`
	VarianceDifference   *Readout `json:"variance_difference,omitempty"`
	ProportionDifference *Readout `json:"proportion_difference,omitempty"`
}

// Readout is one significance decision with its signed A-B estimate
type Readout struct {
	Test        domain.TestName `json:"test"`
	PValue      float64         `json:"p_value"`
	Significant bool            `json:"significant"`
	Estimate    float64         `json:"estimate"`
	Larger      domain.Side     `json:"larger,omitempty"`
}

func deriveConclusions(r *ComparisonReport) Conclusions {
	c := Conclusions{Alpha: r.Alpha}
	t := r.Tests

	if t.ShapiroA != nil && t.ShapiroB != nil {
		normal := t.ShapiroA.PValue > r.Alpha && t.ShapiroB.PValue > r.Alpha
		c.BothNormal = &normal
	}

	if t.Levene != nil {
		equal := t.Levene.PValue > r.Alpha
		c.EqualVariances = &equal
		c.RecommendedTest = domain.TestWelchT
		if equal {
			c.RecommendedTest = domain.TestStudentT
		}
	}

	da, db := r.GroupA.Descriptive, r.GroupB.Descriptive
	if t.WelchT != nil && da != nil && db != nil {
		c.MeanDifference = readout(*t.WelchT, r.Alpha, da.Mean-db.Mean)
	}

	if t.FTest != nil && da != nil && db != nil {
		ro := readout(t.FTest.TestResult, r.Alpha, da.Variance-db.Variance)
		ro.Larger = t.FTest.LargerVariance
		c.VarianceDifference = ro
	}

	if t.ProportionZ != nil {
		c.ProportionDifference = readout(*t.ProportionZ, r.Alpha, r.GroupA.Survey.Proportion()-r.GroupB.Survey.Proportion())
	}

	return c
}

func readout(res domain.TestResult, alpha, estimate float64) *Readout {
	ro := &Readout{
		Test:        res.Name,
		PValue:      res.PValue,
		Significant: res.Significant(alpha),
		Estimate:    estimate,
	}
	switch {
	case estimate > 0:
		ro.Larger = domain.SideFirst
	case estimate < 0:
		ro.Larger = domain.SideSecond
	}
	return ro
}
