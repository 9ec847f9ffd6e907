package stats

import (
	"encoding/json"
	"math"
	"sort"

	"waitstat/domain/core"
)

// ============================================================================
// INPUTS
// ============================================================================

// Sample is one group's continuous measurements. Engine routines never
// mutate a Sample; anything that needs order statistics sorts a copy.
type Sample []float64

// Len returns the number of observations
func (s Sample) Len() int { return len(s) }

// Sorted returns an ascending copy of the sample
func (s Sample) Sorted() Sample {
	out := make(Sample, len(s))
	copy(out, s)
	sort.Float64s(out)
	return out
}

// CountPair is a binomial outcome for one group
// INVARIANTS: 0 <= Successes <= Total, Total > 0
type CountPair struct {
	Successes int `json:"successes" yaml:"successes" validate:"gte=0,ltefield=Total"`
	Total     int `json:"total" yaml:"total" validate:"gt=0"`
}

// Validate checks the count invariants
func (c CountPair) Validate() error {
	if c.Total <= 0 {
		return core.NewProportionError("total must be positive")
	}
	if c.Successes < 0 || c.Successes > c.Total {
		return core.NewProportionError("successes must lie in [0, total]")
	}
	return nil
}

// Side identifies one of the two compared groups by position
type Side string

const (
	SideFirst  Side = "first"
	SideSecond Side = "second"
)

// Proportion returns Successes/Total
func (c CountPair) Proportion() float64 {
	return float64(c.Successes) / float64(c.Total)
}

// ============================================================================
// CONFIDENCE INTERVALS
// ============================================================================

// IntervalKind identifies the sampling model behind an interval
type IntervalKind string

const (
	IntervalMean                 IntervalKind = "mean_t"
	IntervalMeanDifference       IntervalKind = "mean_difference_welch"
	IntervalVariance             IntervalKind = "variance_chi_square"
	IntervalVarianceRatio        IntervalKind = "variance_ratio_f"
	IntervalProportion           IntervalKind = "proportion_wald"
	IntervalProportionDifference IntervalKind = "proportion_difference_wald"
)

// Symmetric reports whether intervals of this kind are estimate ± margin
func (k IntervalKind) Symmetric() bool {
	switch k {
	case IntervalVariance, IntervalVarianceRatio:
		return false
	default:
		return true
	}
}

// ConfidenceInterval is the result of any interval calculator.
// INVARIANTS:
// - Lower <= Estimate <= Upper
// - Margin >= 0; for asymmetric kinds Margin and StdError are zero and the
//   bounds come from independent quantiles
type ConfidenceInterval struct {
	Kind       IntervalKind `json:"kind"`
	Confidence float64      `json:"confidence"`
	DF         float64      `json:"df,omitempty"`  // t/chi-square df, or numerator df for F
	DF2        float64      `json:"df2,omitempty"` // denominator df for F
	Estimate   float64      `json:"estimate"`
	StdError   float64      `json:"std_error,omitempty"`
	Margin     float64      `json:"margin,omitempty"`
	Lower      float64      `json:"lower"`
	Upper      float64      `json:"upper"`
}

// Symmetric reports whether the interval is estimate ± margin
func (ci ConfidenceInterval) Symmetric() bool { return ci.Kind.Symmetric() }

// Width returns Upper - Lower
func (ci ConfidenceInterval) Width() float64 { return ci.Upper - ci.Lower }

// Contains reports whether v lies inside the closed interval
func (ci ConfidenceInterval) Contains(v float64) bool {
	return ci.Lower <= v && v <= ci.Upper
}

// ============================================================================
// HYPOTHESIS TESTS
// ============================================================================

// TestName identifies a hypothesis test
type TestName string

const (
	TestShapiroWilk      TestName = "shapiro_wilk"
	TestDAgostinoPearson TestName = "dagostino_pearson"
	TestLevene           TestName = "levene"
	TestWelchT           TestName = "welch_t"
	TestStudentT         TestName = "student_t"
	TestMannWhitneyU     TestName = "mann_whitney_u"
	TestFVariance        TestName = "f_variance"
	TestProportionZ      TestName = "proportion_z"
	TestChiSquare        TestName = "chi_square_independence"
	TestChiSquareYates   TestName = "chi_square_independence_yates"
)

// TestResult is the authoritative output of a hypothesis test
type TestResult struct {
	Name      TestName `json:"name"`
	Statistic float64  `json:"statistic"`
	PValue    float64  `json:"p_value"`       // 0.0 to 1.0
	DF        float64  `json:"df,omitempty"`  // 0 when the reference distribution has none
	DF2       float64  `json:"df2,omitempty"` // denominator df for F-based tests
}

// Significant reports p < alpha
func (r TestResult) Significant(alpha float64) bool {
	return r.PValue < alpha
}

// ClampProbability forces a tail probability into [0,1]
func ClampProbability(p float64) float64 {
	if math.IsNaN(p) {
		return p
	}
	return math.Max(0, math.Min(1, p))
}

// ============================================================================
// EFFECT SIZES
// ============================================================================

// EffectKind identifies the standardized effect measure
type EffectKind string

const (
	EffectCohensD EffectKind = "cohens_d"
	EffectCohensH EffectKind = "cohens_h"
)

// Magnitude is the categorical label of an effect size
type Magnitude string

const (
	MagnitudeNegligible    Magnitude = "negligible"
	MagnitudeSmallToMedium Magnitude = "small-to-medium"
	MagnitudeMediumToLarge Magnitude = "medium-to-large"
	MagnitudeLarge         Magnitude = "large"
)

// EffectSize is a standardized effect with its magnitude label
type EffectSize struct {
	Kind      EffectKind `json:"kind"`
	Value     float64    `json:"value"`
	Magnitude Magnitude  `json:"magnitude"`
}

// ============================================================================
// DESCRIPTIVES AND THRESHOLDS
// ============================================================================

// Descriptive holds per-group summary statistics.
// StdDev and Variance use the n-1 divisor; percentiles interpolate linearly
// between order statistics.
type Descriptive struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	StdDev   float64 `json:"std_dev"`
	Variance float64 `json:"variance"`
	CV       float64 `json:"cv"` // StdDev/Mean, NaN when Mean is 0; null in JSON
	P25      float64 `json:"p25"`
	P75      float64 `json:"p75"`
	P90      float64 `json:"p90"`
	P95      float64 `json:"p95"`
	IQR      float64 `json:"iqr"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// MarshalJSON writes a NaN CV as null
func (d Descriptive) MarshalJSON() ([]byte, error) {
	type plain Descriptive
	out := struct {
		plain
		CV *float64 `json:"cv"`
	}{plain: plain(d)}
	if !math.IsNaN(d.CV) {
		out.CV = &d.CV
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a null CV back as NaN
func (d *Descriptive) UnmarshalJSON(data []byte) error {
	type plain Descriptive
	var in struct {
		plain
		CV *float64 `json:"cv"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*d = Descriptive(in.plain)
	d.CV = math.NaN()
	if in.CV != nil {
		d.CV = *in.CV
	}
	return nil
}

// SLAPoint is the share of observations at or below one cutoff
type SLAPoint struct {
	Threshold float64 `json:"threshold"`
	Within    int     `json:"within"`
	Count     int     `json:"count"`
	Fraction  float64 `json:"fraction"` // Within/Count, in [0,1]
}
