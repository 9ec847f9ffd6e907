package hypothesis

import (
	"waitstat/adapters/stats/distributions"
	"waitstat/domain/core"
	domain "waitstat/domain/stats"
)

// FTestResult is the F-test outcome with the readout of which group
// supplied the numerator
type FTestResult struct {
	domain.TestResult
	LargerVariance domain.Side `json:"larger_variance"`
}

// FTest compares the two variances. The statistic is the larger sample
// variance over the smaller, so F >= 1, and DF is the numerator df of the
// group with the larger variance. p = 2·(1 - CDF(F)), clipped to [0,1].
func FTest(a, b domain.Sample) (FTestResult, error) {
	_, v1, n1, err := meanVar("f-test", a)
	if err != nil {
		return FTestResult{}, err
	}
	_, v2, n2, err := meanVar("f-test", b)
	if err != nil {
		return FTestResult{}, err
	}
	if v1 == 0 || v2 == 0 {
		return FTestResult{}, core.NewDegenerateDataError("f-test", "a group has zero variance")
	}

	f, df1, df2, side := v1/v2, n1-1, n2-1, domain.SideFirst
	if v2 > v1 {
		f, df1, df2, side = v2/v1, n2-1, n1-1, domain.SideSecond
	}

	return FTestResult{
		TestResult: domain.TestResult{
			Name:      domain.TestFVariance,
			Statistic: f,
			PValue:    domain.ClampProbability(2 * distributions.FSurvival(f, df1, df2)),
			DF:        df1,
			DF2:       df2,
		},
		LargerVariance: side,
	}, nil
}
