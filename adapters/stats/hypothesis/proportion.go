package hypothesis

import (
	"math"

	"waitstat/adapters/stats/distributions"
	"waitstat/domain/core"
	domain "waitstat/domain/stats"
)

// ProportionZ is the two-proportion Z-test with the pooled standard error
// se = sqrt(p(1-p)(1/n1+1/n2)), p = (x1+x2)/(n1+n2). Two-sided.
func ProportionZ(a, b domain.CountPair) (domain.TestResult, error) {
	if err := checkCounts(a, b); err != nil {
		return domain.TestResult{}, err
	}

	n1, n2 := float64(a.Total), float64(b.Total)
	pooled := float64(a.Successes+b.Successes) / (n1 + n2)
	se := math.Sqrt(pooled * (1 - pooled) * (1/n1 + 1/n2))
	if se == 0 {
		return domain.TestResult{}, core.NewDegenerateDataError("proportion z-test", "pooled proportion is 0 or 1")
	}

	z := (a.Proportion() - b.Proportion()) / se
	return domain.TestResult{
		Name:      domain.TestProportionZ,
		Statistic: z,
		PValue:    distributions.NormalTwoSidedPValue(z),
	}, nil
}

// ChiSquareIndependence runs Pearson's chi-square test on the 2x2 table
// [[x1, n1-x1], [x2, n2-x2]] with df = 1. Without correction the statistic
// equals the square of the ProportionZ statistic. With yates set, each
// observed cell moves toward its expected count by min(0.5, |E-O|).
func ChiSquareIndependence(a, b domain.CountPair, yates bool) (domain.TestResult, error) {
	if err := checkCounts(a, b); err != nil {
		return domain.TestResult{}, err
	}

	observed := [2][2]float64{
		{float64(a.Successes), float64(a.Total - a.Successes)},
		{float64(b.Successes), float64(b.Total - b.Successes)},
	}
	rows := [2]float64{float64(a.Total), float64(b.Total)}
	cols := [2]float64{observed[0][0] + observed[1][0], observed[0][1] + observed[1][1]}
	total := rows[0] + rows[1]

	chi2 := 0.0
	for i := range observed {
		for j := range observed[i] {
			expected := rows[i] * cols[j] / total
			if expected == 0 {
				return domain.TestResult{}, core.NewDegenerateDataError("chi-square test", "zero expected frequency")
			}
			o := observed[i][j]
			if yates {
				d := expected - o
				o += math.Copysign(math.Min(0.5, math.Abs(d)), d)
			}
			chi2 += (o - expected) * (o - expected) / expected
		}
	}

	name := domain.TestChiSquare
	if yates {
		name = domain.TestChiSquareYates
	}
	return domain.TestResult{
		Name:      name,
		Statistic: chi2,
		PValue:    distributions.ChiSquareSurvival(chi2, 1),
		DF:        1,
	}, nil
}
