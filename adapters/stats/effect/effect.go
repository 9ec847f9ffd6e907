// Package effect computes standardized effect sizes and their magnitude labels.
package effect

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"waitstat/domain/core"
	domain "waitstat/domain/stats"
)

// magnitudeTable maps |effect| to a label; each bound is the exclusive
// upper edge of its bucket. Cohen's d and h share the table.
var magnitudeTable = []struct {
	below float64
	label domain.Magnitude
}{
	{0.2, domain.MagnitudeNegligible},
	{0.5, domain.MagnitudeSmallToMedium},
	{0.8, domain.MagnitudeMediumToLarge},
}

// Classify returns the magnitude label of an effect size value
func Classify(value float64) domain.Magnitude {
	v := math.Abs(value)
	for _, row := range magnitudeTable {
		if v < row.below {
			return row.label
		}
	}
	return domain.MagnitudeLarge
}

// CohensD is (mean(a) - mean(b)) divided by the pooled standard deviation
// sqrt(((n1-1)s1² + (n2-1)s2²) / (n1+n2-2))
func CohensD(a, b domain.Sample) (domain.EffectSize, error) {
	if len(a) < 2 || len(b) < 2 {
		return domain.EffectSize{}, core.NewInsufficientDataError("cohen's d", min(len(a), len(b)), 2)
	}

	m1, v1 := stat.MeanVariance(a, nil)
	m2, v2 := stat.MeanVariance(b, nil)
	n1, n2 := float64(len(a)), float64(len(b))

	pooled := math.Sqrt(((n1-1)*v1 + (n2-1)*v2) / (n1 + n2 - 2))
	if pooled == 0 {
		return domain.EffectSize{}, core.NewDivisionByZeroError("pooled standard deviation")
	}

	d := (m1 - m2) / pooled
	return domain.EffectSize{Kind: domain.EffectCohensD, Value: d, Magnitude: Classify(d)}, nil
}

// CohensH is 2·(asin√p1 - asin√p2) for proportions in [0,1]
func CohensH(p1, p2 float64) (domain.EffectSize, error) {
	for _, p := range []float64{p1, p2} {
		if !(p >= 0 && p <= 1) {
			return domain.EffectSize{}, core.NewProportionError("proportion must lie in [0, 1]")
		}
	}

	h := 2 * (math.Asin(math.Sqrt(p1)) - math.Asin(math.Sqrt(p2)))
	return domain.EffectSize{Kind: domain.EffectCohensH, Value: h, Magnitude: Classify(h)}, nil
}

// CohensHCounts computes Cohen's h from two count pairs
func CohensHCounts(a, b domain.CountPair) (domain.EffectSize, error) {
	if err := a.Validate(); err != nil {
		return domain.EffectSize{}, err
	}
	if err := b.Validate(); err != nil {
		return domain.EffectSize{}, err
	}
	return CohensH(a.Proportion(), b.Proportion())
}
