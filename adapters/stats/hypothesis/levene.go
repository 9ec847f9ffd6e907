package hypothesis

import (
	"math"

	"github.com/montanaflynn/stats"

	"waitstat/adapters/stats/distributions"
	"waitstat/domain/core"
	domain "waitstat/domain/stats"
)

// Center selects the location each group is centered on before taking
// absolute deviations in Levene's test
type Center string

const (
	// CenterMedian is the Brown-Forsythe variant, robust to skewed data
	CenterMedian Center = "median"
	CenterMean   Center = "mean"
)

// Levene tests equality of the two group variances. The statistic is the
// one-way ANOVA F over absolute deviations from each group's center, with
// df (1, N-2). A p-value above alpha leaves the equal-variance assumption
// tenable (Student t); otherwise prefer Welch.
func Levene(a, b domain.Sample, center Center) (domain.TestResult, error) {
	if len(a) < 2 || len(b) < 2 {
		return domain.TestResult{}, core.NewInsufficientDataError("levene", min(len(a), len(b)), 2)
	}

	za, err := absDeviations(a, center)
	if err != nil {
		return domain.TestResult{}, err
	}
	zb, err := absDeviations(b, center)
	if err != nil {
		return domain.TestResult{}, err
	}

	n1, n2 := float64(len(za)), float64(len(zb))
	total := n1 + n2
	meanA, meanB := sum(za)/n1, sum(zb)/n2
	grand := (sum(za) + sum(zb)) / total

	between := n1*(meanA-grand)*(meanA-grand) + n2*(meanB-grand)*(meanB-grand)
	within := sumSquares(za, meanA) + sumSquares(zb, meanB)
	if within == 0 {
		return domain.TestResult{}, core.NewDegenerateDataError("levene", "no spread in absolute deviations")
	}

	df2 := total - 2
	w := df2 * between / within

	return domain.TestResult{
		Name:      domain.TestLevene,
		Statistic: w,
		PValue:    distributions.FSurvival(w, 1, df2),
		DF:        1,
		DF2:       df2,
	}, nil
}

func absDeviations(sample domain.Sample, center Center) ([]float64, error) {
	var (
		c   float64
		err error
	)
	switch center {
	case CenterMean:
		c, err = stats.Mean(stats.Float64Data(sample))
	default:
		c, err = stats.Median(stats.Float64Data(sample))
	}
	if err != nil {
		return nil, core.NewDegenerateDataError("levene", err.Error())
	}

	z := make([]float64, len(sample))
	for i, v := range sample {
		z[i] = math.Abs(v - c)
	}
	return z, nil
}

func sum(xs []float64) float64 {
	s := 0.0
	for _, v := range xs {
		s += v
	}
	return s
}

func sumSquares(xs []float64, mean float64) float64 {
	s := 0.0
	for _, v := range xs {
		d := v - mean
		s += d * d
	}
	return s
}
