package hypothesis

import (
	"math"
	"sort"

	"waitstat/adapters/stats/distributions"
	"waitstat/domain/core"
	domain "waitstat/domain/stats"
)

// WelchT tests equality of means without assuming equal variances.
// df follows Welch-Satterthwaite and is not rounded.
func WelchT(a, b domain.Sample) (domain.TestResult, error) {
	m1, v1, n1, err := meanVar("welch t-test", a)
	if err != nil {
		return domain.TestResult{}, err
	}
	m2, v2, n2, err := meanVar("welch t-test", b)
	if err != nil {
		return domain.TestResult{}, err
	}

	q1, q2 := v1/n1, v2/n2
	se := math.Sqrt(q1 + q2)
	if se == 0 {
		return domain.TestResult{}, core.NewDegenerateDataError("welch t-test", "both groups have zero variance")
	}

	t := (m1 - m2) / se
	df := (q1 + q2) * (q1 + q2) / (q1*q1/(n1-1) + q2*q2/(n2-1))

	return domain.TestResult{
		Name:      domain.TestWelchT,
		Statistic: t,
		PValue:    distributions.TTwoSidedPValue(t, df),
		DF:        df,
	}, nil
}

// StudentT tests equality of means under the equal-variance assumption,
// using the pooled variance and df = n1+n2-2.
func StudentT(a, b domain.Sample) (domain.TestResult, error) {
	m1, v1, n1, err := meanVar("student t-test", a)
	if err != nil {
		return domain.TestResult{}, err
	}
	m2, v2, n2, err := meanVar("student t-test", b)
	if err != nil {
		return domain.TestResult{}, err
	}

	df := n1 + n2 - 2
	pooled := ((n1-1)*v1 + (n2-1)*v2) / df
	se := math.Sqrt(pooled * (1/n1 + 1/n2))
	if se == 0 {
		return domain.TestResult{}, core.NewDegenerateDataError("student t-test", "pooled variance is zero")
	}

	t := (m1 - m2) / se
	return domain.TestResult{
		Name:      domain.TestStudentT,
		Statistic: t,
		PValue:    distributions.TTwoSidedPValue(t, df),
		DF:        df,
	}, nil
}

// MannWhitneyU is the rank-sum test for a location shift between the
// groups. Ties get average ranks. The reported statistic is U of the first
// sample; the two-sided p-value uses the tie-corrected normal approximation
// with a 0.5 continuity correction.
func MannWhitneyU(a, b domain.Sample) (domain.TestResult, error) {
	n1, n2 := len(a), len(b)
	if n1 < 2 || n2 < 2 {
		return domain.TestResult{}, core.NewInsufficientDataError("mann-whitney u", min(n1, n2), 2)
	}

	ranks, tieTerm := rankAverage(a, b)
	r1 := 0.0
	for _, r := range ranks[:n1] {
		r1 += r
	}

	f1, f2 := float64(n1), float64(n2)
	n := f1 + f2
	u1 := r1 - f1*(f1+1)/2
	u2 := f1*f2 - u1
	u := math.Max(u1, u2)

	sigma := math.Sqrt(f1 * f2 / 12 * ((n + 1) - tieTerm/(n*(n-1))))
	if sigma == 0 {
		return domain.TestResult{}, core.NewDegenerateDataError("mann-whitney u", "all observations are tied")
	}

	z := (u - f1*f2/2 - 0.5) / sigma
	return domain.TestResult{
		Name:      domain.TestMannWhitneyU,
		Statistic: u1,
		PValue:    domain.ClampProbability(2 * distributions.NormalSurvival(z)),
	}, nil
}

// rankAverage ranks the concatenation of a and b (1-based, ties averaged)
// and returns the ranks in input order with the tie term sum(t³-t)
func rankAverage(a, b domain.Sample) ([]float64, float64) {
	values := make([]float64, 0, len(a)+len(b))
	values = append(values, a...)
	values = append(values, b...)

	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return values[order[i]] < values[order[j]] })

	ranks := make([]float64, len(values))
	tieTerm := 0.0
	for i := 0; i < len(order); {
		j := i
		for j+1 < len(order) && values[order[j+1]] == values[order[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[order[k]] = avg
		}
		t := float64(j - i + 1)
		tieTerm += t*t*t - t
		i = j + 1
	}
	return ranks, tieTerm
}
