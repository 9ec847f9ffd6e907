package hypothesis

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"waitstat/domain/core"
	domain "waitstat/domain/stats"
)

var (
	groupA = domain.Sample{4, 5, 6, 5, 4, 6, 5, 5, 6, 4}
	groupB = domain.Sample{3, 6, 8, 5, 7, 4, 9, 6, 5, 7, 8, 4}

	// roughly normal, n = 20
	normalish = domain.Sample{2.1, 3.4, 1.9, 5.6, 4.4, 3.3, 2.8, 6.1, 3.9, 4.0, 2.2, 5.0, 3.1, 4.7, 2.9, 3.6, 4.1, 5.3, 2.5, 3.8}
	// heavy right tail
	skewed = domain.Sample{1, 1, 1, 1, 2, 2, 2, 3, 3, 4, 5, 8, 13, 21}

	surveyA = domain.CountPair{Successes: 132, Total: 150}
	surveyB = domain.CountPair{Successes: 120, Total: 150}
)

func TestShapiroWilk(t *testing.T) {
	tests := []struct {
		name   string
		sample domain.Sample
		w, p   float64
	}{
		{"three points", domain.Sample{1, 2, 4}, 0.9642857142857142, 0.6368868450289692},
		{"five points with outlier", domain.Sample{1, 2, 3, 4, 10}, 0.8357883164209969, 0.15361258376551662},
		{"group A", groupA, 0.8318429640196325, 0.0352147140162825},
		{"group B", groupB, 0.9650165348525674, 0.852287034575967},
		{"normal-looking", normalish, 0.9742687746755072, 0.8411621069250442},
		{"skewed", skewed, 0.6962685696222936, 0.000338104512747265},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := ShapiroWilk(tc.sample)
			require.NoError(t, err)
			assert.Equal(t, domain.TestShapiroWilk, res.Name)
			assert.InDelta(t, tc.w, res.Statistic, 1e-6)
			assert.InDelta(t, tc.p, res.PValue, 1e-5)
		})
	}
}

func TestShapiroWilk_DoesNotMutate(t *testing.T) {
	sample := domain.Sample{5, 1, 4, 2, 3}
	_, err := ShapiroWilk(sample)
	require.NoError(t, err)
	assert.Equal(t, domain.Sample{5, 1, 4, 2, 3}, sample)
}

func TestShapiroWilk_Degenerate(t *testing.T) {
	_, err := ShapiroWilk(domain.Sample{1, 2})
	assert.True(t, errors.Is(err, core.ErrInsufficientData))

	_, err = ShapiroWilk(domain.Sample{3, 3, 3, 3})
	assert.True(t, errors.Is(err, core.ErrInsufficientData))

	_, err = ShapiroWilk(make(domain.Sample, 5001))
	assert.True(t, errors.Is(err, core.ErrInsufficientData))
}

func TestDAgostinoPearson(t *testing.T) {
	tests := []struct {
		name   string
		sample domain.Sample
		k2, p  float64
	}{
		{"symmetric group A", groupA, 1.5355904896717438, 0.4640350249327425},
		{"symmetric group B", groupB, 0.7351122309810355, 0.6924244699796392},
		{"normal-looking", normalish, 0.7729901017833531, 0.6794340879592156},
		{"skewed", skewed, 16.740044275250973, 0.00023171042416271994},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := DAgostinoPearson(tc.sample)
			require.NoError(t, err)
			assert.Equal(t, 2.0, res.DF)
			assert.InDelta(t, tc.k2, res.Statistic, 1e-9)
			assert.InDelta(t, tc.p, res.PValue, 1e-9)
			assert.InDelta(t, math.Exp(-res.Statistic/2), res.PValue, 1e-9)
		})
	}
}

func TestDAgostinoPearson_Degenerate(t *testing.T) {
	_, err := DAgostinoPearson(domain.Sample{1, 2, 3, 4, 5, 6, 7})
	assert.True(t, errors.Is(err, core.ErrInsufficientData))

	_, err = DAgostinoPearson(domain.Sample{2, 2, 2, 2, 2, 2, 2, 2})
	assert.True(t, errors.Is(err, core.ErrInsufficientData))
}

func TestLevene(t *testing.T) {
	res, err := Levene(groupA, groupB, CenterMedian)
	require.NoError(t, err)

	assert.Equal(t, domain.TestLevene, res.Name)
	assert.Equal(t, 1.0, res.DF)
	assert.Equal(t, 20.0, res.DF2)
	assert.InDelta(t, 6.5943012211668925, res.Statistic, 1e-9)
	assert.InDelta(t, 0.018354331441932152, res.PValue, 1e-8)
	assert.True(t, res.Significant(0.05), "recommends Welch")

	// both groups are symmetric so mean and median centering agree
	byMean, err := Levene(groupA, groupB, CenterMean)
	require.NoError(t, err)
	assert.InDelta(t, res.Statistic, byMean.Statistic, 1e-12)
}

func TestLevene_Degenerate(t *testing.T) {
	_, err := Levene(domain.Sample{1}, groupB, CenterMedian)
	assert.True(t, errors.Is(err, core.ErrInsufficientData))

	_, err = Levene(domain.Sample{1, 1, 1}, domain.Sample{2, 2}, CenterMedian)
	assert.True(t, errors.Is(err, core.ErrInsufficientData))
}

func TestLocationTests(t *testing.T) {
	welch, err := WelchT(groupA, groupB)
	require.NoError(t, err)
	assert.InDelta(t, -1.679438245519263, welch.Statistic, 1e-9)
	assert.InDelta(t, 15.658309165906015, welch.DF, 1e-9)
	assert.InDelta(t, 0.11290534951884644, welch.PValue, 1e-7)

	student, err := StudentT(groupA, groupB)
	require.NoError(t, err)
	assert.InDelta(t, -1.574591643244434, student.Statistic, 1e-9)
	assert.Equal(t, 20.0, student.DF)
	assert.InDelta(t, 0.13103744214654678, student.PValue, 1e-7)

	mwu, err := MannWhitneyU(groupA, groupB)
	require.NoError(t, err)
	assert.Equal(t, 40.0, mwu.Statistic)
	assert.InDelta(t, 0.1886141989145687, mwu.PValue, 1e-9)

	// U of the first sample flips, the p-value does not
	swapped, err := MannWhitneyU(groupB, groupA)
	require.NoError(t, err)
	assert.Equal(t, 80.0, swapped.Statistic)
	assert.InDelta(t, mwu.PValue, swapped.PValue, 1e-12)
}

func TestLocationTests_Degenerate(t *testing.T) {
	flat := domain.Sample{5, 5, 5}

	_, err := WelchT(flat, flat)
	assert.True(t, errors.Is(err, core.ErrInsufficientData))

	_, err = StudentT(flat, domain.Sample{5, 5})
	assert.True(t, errors.Is(err, core.ErrInsufficientData))

	_, err = MannWhitneyU(flat, flat)
	assert.True(t, errors.Is(err, core.ErrInsufficientData))

	_, err = WelchT(domain.Sample{1}, groupA)
	assert.True(t, errors.Is(err, core.ErrInsufficientData))
}

func TestRankAverage_Ties(t *testing.T) {
	ranks, tie := rankAverage(domain.Sample{1, 2, 2}, domain.Sample{2, 3})
	assert.Equal(t, []float64{1, 3, 3, 3, 5}, ranks)
	assert.Equal(t, 24.0, tie)
}

func TestFTest(t *testing.T) {
	res, err := FTest(groupA, groupB)
	require.NoError(t, err)

	assert.Equal(t, domain.SideSecond, res.LargerVariance)
	assert.InDelta(t, 5.1818181818181825, res.Statistic, 1e-12)
	assert.Equal(t, 11.0, res.DF)
	assert.Equal(t, 9.0, res.DF2)
	assert.InDelta(t, 0.019948405014828287, res.PValue, 1e-8)

	swapped, err := FTest(groupB, groupA)
	require.NoError(t, err)
	assert.Equal(t, domain.SideFirst, swapped.LargerVariance)
	assert.Equal(t, res.Statistic, swapped.Statistic)
	assert.Equal(t, res.PValue, swapped.PValue)

	_, err = FTest(groupA, domain.Sample{7, 7, 7})
	assert.True(t, errors.Is(err, core.ErrInsufficientData))
}

func TestProportionZ_SurveyScenario(t *testing.T) {
	res, err := ProportionZ(surveyA, surveyB)
	require.NoError(t, err)

	assert.InDelta(t, 1.889822365046135, res.Statistic, 1e-9)
	assert.InDelta(t, 0.05878172135535908, res.PValue, 1e-9)
	assert.False(t, res.Significant(0.05))
}

func TestChiSquareIndependence(t *testing.T) {
	plain, err := ChiSquareIndependence(surveyA, surveyB, false)
	require.NoError(t, err)
	assert.Equal(t, domain.TestChiSquare, plain.Name)
	assert.Equal(t, 1.0, plain.DF)
	assert.InDelta(t, 3.571428571428571, plain.Statistic, 1e-9)
	assert.InDelta(t, 0.05878172135535886, plain.PValue, 1e-9)

	yates, err := ChiSquareIndependence(surveyA, surveyB, true)
	require.NoError(t, err)
	assert.Equal(t, domain.TestChiSquareYates, yates.Name)
	assert.InDelta(t, 3.0009920634920637, yates.Statistic, 1e-9)
	assert.InDelta(t, 0.0832135479608761, yates.PValue, 1e-8)
	assert.Less(t, yates.Statistic, plain.Statistic)
}

func TestProportionTests_InvalidCounts(t *testing.T) {
	bad := []domain.CountPair{
		{Successes: 151, Total: 150},
		{Successes: -1, Total: 150},
		{Successes: 0, Total: 0},
	}
	for _, pair := range bad {
		_, err := ProportionZ(pair, surveyB)
		assert.True(t, errors.Is(err, core.ErrInsufficientData), "%+v", pair)
		assert.True(t, errors.Is(err, core.ErrInvalidProportion), "%+v", pair)

		_, err = ChiSquareIndependence(surveyA, pair, true)
		assert.True(t, errors.Is(err, core.ErrInsufficientData), "%+v", pair)
	}

	// everyone approved in both groups
	_, err := ProportionZ(domain.CountPair{Successes: 10, Total: 10}, domain.CountPair{Successes: 5, Total: 5})
	assert.True(t, errors.Is(err, core.ErrInsufficientData))
	_, err = ChiSquareIndependence(domain.CountPair{Successes: 10, Total: 10}, domain.CountPair{Successes: 5, Total: 5}, false)
	assert.True(t, errors.Is(err, core.ErrInsufficientData))
}

func TestProperty_ChiSquareIsZSquared(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n1 := rapid.IntRange(2, 5000).Draw(rt, "n1")
		n2 := rapid.IntRange(2, 5000).Draw(rt, "n2")
		// keep the pooled proportion away from 0 and 1
		x1 := rapid.IntRange(1, n1-1).Draw(rt, "x1")
		x2 := rapid.IntRange(0, n2).Draw(rt, "x2")
		a := domain.CountPair{Successes: x1, Total: n1}
		b := domain.CountPair{Successes: x2, Total: n2}

		z, err := ProportionZ(a, b)
		require.NoError(rt, err)
		chi, err := ChiSquareIndependence(a, b, false)
		require.NoError(rt, err)

		if z.Statistic == 0 {
			assert.InDelta(rt, 0, chi.Statistic, 1e-12)
			return
		}
		assert.InEpsilon(rt, z.Statistic*z.Statistic, chi.Statistic, 1e-6)
		assert.InDelta(rt, z.PValue, chi.PValue, 1e-6)
	})
}

func TestProperty_PValuesAreProbabilities(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		gen := rapid.SliceOfN(rapid.Float64Range(0, 100), 8, 60)
		a := append(domain.Sample{0, 1}, gen.Draw(rt, "a")...)
		b := append(domain.Sample{2, 4}, gen.Draw(rt, "b")...)

		results := make([]domain.TestResult, 0, 6)
		for _, fn := range []func(domain.Sample, domain.Sample) (domain.TestResult, error){WelchT, StudentT, MannWhitneyU} {
			res, err := fn(a, b)
			require.NoError(rt, err)
			results = append(results, res)
		}
		f, err := FTest(a, b)
		require.NoError(rt, err)
		assert.GreaterOrEqual(rt, f.Statistic, 1.0)
		results = append(results, f.TestResult)

		if lev, err := Levene(a, b, CenterMedian); err == nil {
			results = append(results, lev)
		}
		if sw, err := ShapiroWilk(a); err == nil {
			results = append(results, sw)
		}

		for _, r := range results {
			assert.GreaterOrEqual(rt, r.PValue, 0.0, r.Name)
			assert.LessOrEqual(rt, r.PValue, 1.0, r.Name)
		}
	})
}
