// Package hypothesis implements the two-group hypothesis test suite:
// normality (Shapiro-Wilk, D'Agostino-Pearson), variance homogeneity
// (Levene, F), location (Welch, Student, Mann-Whitney U) and proportions
// (pooled Z, chi-square independence).
//
// Every test is a pure function of its inputs and returns a
// domain.TestResult whose p-value lies in [0,1]. Degenerate input fails
// with core.ErrInsufficientData.
package hypothesis

import (
	"gonum.org/v1/gonum/stat"

	"waitstat/domain/core"
	domain "waitstat/domain/stats"
)

// meanVar returns the mean, the n-1 variance and n, failing below two observations
func meanVar(what string, sample domain.Sample) (float64, float64, float64, error) {
	if len(sample) < 2 {
		return 0, 0, 0, core.NewInsufficientDataError(what, len(sample), 2)
	}
	mean, variance := stat.MeanVariance(sample, nil)
	return mean, variance, float64(len(sample)), nil
}

// checkCounts enforces 0 <= successes <= total and total > 0
func checkCounts(pairs ...domain.CountPair) error {
	for _, p := range pairs {
		if p.Total <= 0 || p.Successes < 0 || p.Successes > p.Total {
			return core.NewInvalidCountError(p.Successes, p.Total)
		}
	}
	return nil
}

// poly evaluates c[0] + c[1]x + c[2]x² + ... by Horner's rule
func poly(c []float64, x float64) float64 {
	r := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		r = r*x + c[i]
	}
	return r
}
