// Package intervals computes confidence intervals for one- and two-group
// parameters: means (t), mean differences (Welch), variances (chi-square),
// variance ratios (F) and proportions (Wald).
//
// Every calculator rejects a confidence level outside (0,1) instead of
// clamping it. Variance and variance-ratio intervals are asymmetric: their
// bounds come from two independent quantiles and carry no margin.
package intervals

import (
	"fmt"
	"math"

	"waitstat/adapters/stats/descriptive"
	"waitstat/adapters/stats/distributions"
	"waitstat/domain/core"
	domain "waitstat/domain/stats"
)

// DefaultConfidence is the level used when the caller has no preference
const DefaultConfidence = 0.95

// ValidateConfidence checks that c lies strictly inside (0,1)
func ValidateConfidence(c float64) error {
	if !(c > 0 && c < 1) {
		return core.NewConfidenceLevelError(c)
	}
	return nil
}

// Mean computes the Student-t interval for one group's mean (df = n-1)
func Mean(sample domain.Sample, confidence float64) (domain.ConfidenceInterval, error) {
	if err := ValidateConfidence(confidence); err != nil {
		return domain.ConfidenceInterval{}, err
	}
	mean, variance, n, err := descriptive.MeanVariance(sample)
	if err != nil {
		return domain.ConfidenceInterval{}, err
	}

	df := float64(n - 1)
	se := math.Sqrt(variance) / math.Sqrt(float64(n))
	margin := distributions.TCritical(confidence, df) * se

	return symmetric(domain.IntervalMean, confidence, df, mean, se, margin), nil
}

// MeanDifference computes the Welch interval for mean(a) - mean(b).
// Equal variances are not assumed and the Welch-Satterthwaite df is used
// unrounded in the critical value lookup.
func MeanDifference(a, b domain.Sample, confidence float64) (domain.ConfidenceInterval, error) {
	if err := ValidateConfidence(confidence); err != nil {
		return domain.ConfidenceInterval{}, err
	}
	m1, v1, n1, err := descriptive.MeanVariance(a)
	if err != nil {
		return domain.ConfidenceInterval{}, err
	}
	m2, v2, n2, err := descriptive.MeanVariance(b)
	if err != nil {
		return domain.ConfidenceInterval{}, err
	}

	se := math.Sqrt(v1/float64(n1) + v2/float64(n2))
	if se == 0 {
		return domain.ConfidenceInterval{}, core.NewDivisionByZeroError("standard error of the mean difference")
	}
	df := welchDF(v1, v2, n1, n2)
	margin := distributions.TCritical(confidence, df) * se

	return symmetric(domain.IntervalMeanDifference, confidence, df, m1-m2, se, margin), nil
}

// WelchSatterthwaite returns the Welch-Satterthwaite degrees of freedom for
// two samples. The result lies in [min(n1,n2)-1, n1+n2-2].
func WelchSatterthwaite(a, b domain.Sample) (float64, error) {
	_, v1, n1, err := descriptive.MeanVariance(a)
	if err != nil {
		return 0, err
	}
	_, v2, n2, err := descriptive.MeanVariance(b)
	if err != nil {
		return 0, err
	}
	if v1 == 0 && v2 == 0 {
		return 0, core.NewDivisionByZeroError("pooled variance")
	}
	return welchDF(v1, v2, n1, n2), nil
}

func welchDF(v1, v2 float64, n1, n2 int) float64 {
	q1 := v1 / float64(n1)
	q2 := v2 / float64(n2)
	return (q1 + q2) * (q1 + q2) / (q1*q1/float64(n1-1) + q2*q2/float64(n2-1))
}

// Variance computes the chi-square interval for one group's variance:
// lower = (n-1)s²/χ²_{1-α/2}, upper = (n-1)s²/χ²_{α/2}
func Variance(sample domain.Sample, confidence float64) (domain.ConfidenceInterval, error) {
	if err := ValidateConfidence(confidence); err != nil {
		return domain.ConfidenceInterval{}, err
	}
	_, variance, n, err := descriptive.MeanVariance(sample)
	if err != nil {
		return domain.ConfidenceInterval{}, err
	}

	alpha := 1 - confidence
	df := float64(n - 1)
	chiUpper := distributions.ChiSquareQuantile(1-alpha/2, df)
	chiLower := distributions.ChiSquareQuantile(alpha/2, df)

	ci := domain.ConfidenceInterval{
		Kind:       domain.IntervalVariance,
		Confidence: confidence,
		DF:         df,
		Estimate:   variance,
		Lower:      df * variance / chiUpper,
		Upper:      df * variance / chiLower,
	}
	return finiteBounds("variance interval", ci)
}

// VarianceRatio computes the F interval for var(a)/var(b) with
// df = (n1-1, n2-1): lower = ratio/F_{1-α/2}, upper = ratio/F_{α/2}
func VarianceRatio(a, b domain.Sample, confidence float64) (domain.ConfidenceInterval, error) {
	if err := ValidateConfidence(confidence); err != nil {
		return domain.ConfidenceInterval{}, err
	}
	_, v1, n1, err := descriptive.MeanVariance(a)
	if err != nil {
		return domain.ConfidenceInterval{}, err
	}
	_, v2, n2, err := descriptive.MeanVariance(b)
	if err != nil {
		return domain.ConfidenceInterval{}, err
	}
	if v2 == 0 {
		return domain.ConfidenceInterval{}, core.NewDivisionByZeroError("variance of the second group")
	}

	alpha := 1 - confidence
	df1, df2 := float64(n1-1), float64(n2-1)
	ratio := v1 / v2
	fUpper := distributions.FQuantile(1-alpha/2, df1, df2)
	fLower := distributions.FQuantile(alpha/2, df1, df2)

	ci := domain.ConfidenceInterval{
		Kind:       domain.IntervalVarianceRatio,
		Confidence: confidence,
		DF:         df1,
		DF2:        df2,
		Estimate:   ratio,
		Lower:      ratio / fUpper,
		Upper:      ratio / fLower,
	}
	return finiteBounds("variance ratio interval", ci)
}

// finiteBounds rejects an asymmetric interval whose tail quantile collapsed
// to zero or infinity at an extreme confidence level
func finiteBounds(what string, ci domain.ConfidenceInterval) (domain.ConfidenceInterval, error) {
	for _, b := range []float64{ci.Lower, ci.Upper} {
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return domain.ConfidenceInterval{}, core.NewDegenerateDataError(what,
				fmt.Sprintf("confidence %v is too close to 1 for df %v", ci.Confidence, ci.DF))
		}
	}
	return ci, nil
}

// Proportion computes the Wald interval for one group's proportion.
// No continuity correction is applied.
func Proportion(pair domain.CountPair, confidence float64) (domain.ConfidenceInterval, error) {
	if err := ValidateConfidence(confidence); err != nil {
		return domain.ConfidenceInterval{}, err
	}
	if err := validateCounts(pair); err != nil {
		return domain.ConfidenceInterval{}, err
	}

	p := pair.Proportion()
	se := math.Sqrt(p * (1 - p) / float64(pair.Total))
	margin := distributions.ZCritical(confidence) * se

	return symmetric(domain.IntervalProportion, confidence, 0, p, se, margin), nil
}

// ProportionDifference computes the Wald interval for p(a) - p(b) with the
// unpooled standard error
func ProportionDifference(a, b domain.CountPair, confidence float64) (domain.ConfidenceInterval, error) {
	if err := ValidateConfidence(confidence); err != nil {
		return domain.ConfidenceInterval{}, err
	}
	if err := validateCounts(a); err != nil {
		return domain.ConfidenceInterval{}, err
	}
	if err := validateCounts(b); err != nil {
		return domain.ConfidenceInterval{}, err
	}

	p1, p2 := a.Proportion(), b.Proportion()
	se := math.Sqrt(p1*(1-p1)/float64(a.Total) + p2*(1-p2)/float64(b.Total))
	margin := distributions.ZCritical(confidence) * se

	return symmetric(domain.IntervalProportionDifference, confidence, 0, p1-p2, se, margin), nil
}

func validateCounts(pair domain.CountPair) error {
	if err := pair.Validate(); err != nil {
		return err
	}
	if pair.Total < 2 {
		return core.NewInsufficientDataError("proportion interval", pair.Total, 2)
	}
	return nil
}

func symmetric(kind domain.IntervalKind, confidence, df, estimate, se, margin float64) domain.ConfidenceInterval {
	return domain.ConfidenceInterval{
		Kind:       kind,
		Confidence: confidence,
		DF:         df,
		Estimate:   estimate,
		StdError:   se,
		Margin:     margin,
		Lower:      estimate - margin,
		Upper:      estimate + margin,
	}
}
