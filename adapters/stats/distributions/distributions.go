// Package distributions provides the reference distributions used by the
// inference engine: Student-t, chi-square, F and the standard normal.
// Every caller goes through here so critical values and tail areas are
// computed one way across the codebase.
package distributions

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// TCritical returns the two-sided Student-t critical value t_{1-alpha/2, df}.
// df may be fractional (Welch-Satterthwaite).
func TCritical(confidence, df float64) float64 {
	alpha := 1 - confidence
	return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.Quantile(1 - alpha/2)
}

// TTwoSidedPValue computes the two-sided p-value of a t statistic
func TTwoSidedPValue(t, df float64) float64 {
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return clamp(2 * tDist.Survival(math.Abs(t)))
}

// ChiSquareQuantile returns the p-quantile of chi-square with df degrees of freedom.
// With one df it is the square of a normal quantile, which stays positive for
// lower-tail p where the gamma inversion underflows to zero.
func ChiSquareQuantile(p, df float64) float64 {
	if df == 1 && p > 0 && p < 1 {
		var z float64
		if p < 0.5 {
			z = distuv.UnitNormal.Quantile(0.5 + p/2)
		} else {
			z = -distuv.UnitNormal.Quantile((1 - p) / 2)
		}
		return z * z
	}
	return distuv.ChiSquared{K: df}.Quantile(p)
}

// ChiSquareSurvival computes the upper tail P(X > x)
func ChiSquareSurvival(x, df float64) float64 {
	return clamp(distuv.ChiSquared{K: df}.Survival(x))
}

// FQuantile returns the p-quantile of F(d1, d2)
func FQuantile(p, d1, d2 float64) float64 {
	return distuv.F{D1: d1, D2: d2}.Quantile(p)
}

// FCDF computes P(F <= f) for F(d1, d2)
func FCDF(f, d1, d2 float64) float64 {
	if f <= 0 {
		return 0
	}
	return clamp(distuv.F{D1: d1, D2: d2}.CDF(f))
}

// FSurvival computes P(F > f) for F(d1, d2) through the beta relation
// X ~ Beta(d2/2, d1/2), avoiding the cancellation of 1-CDF in the tail
func FSurvival(f, d1, d2 float64) float64 {
	if f <= 0 {
		return 1
	}
	return clamp(distuv.Beta{Alpha: d2 / 2, Beta: d1 / 2}.CDF(d2 / (d2 + d1*f)))
}

// ZCritical returns the two-sided standard normal critical value z_{1-alpha/2}
func ZCritical(confidence float64) float64 {
	alpha := 1 - confidence
	return distuv.UnitNormal.Quantile(1 - alpha/2)
}

// NormalQuantile computes quantile function for standard normal (inverse CDF)
func NormalQuantile(p float64) float64 {
	return distuv.UnitNormal.Quantile(p)
}

// NormalCDF computes cumulative distribution function for standard normal
func NormalCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// NormalSurvival computes the upper tail of the standard normal
func NormalSurvival(x float64) float64 {
	return distuv.UnitNormal.Survival(x)
}

// NormalTwoSidedPValue computes the two-sided p-value of a z statistic
func NormalTwoSidedPValue(z float64) float64 {
	return clamp(2 * distuv.UnitNormal.Survival(math.Abs(z)))
}

func clamp(p float64) float64 {
	if math.IsNaN(p) {
		return p
	}
	return math.Max(0, math.Min(1, p))
}
