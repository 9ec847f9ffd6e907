package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waitstat/adapters/stats/hypothesis"
	"waitstat/adapters/stats/intervals"
	"waitstat/domain/core"
	domain "waitstat/domain/stats"
	"waitstat/internal"
)

func referenceInput() ComparisonInput {
	return ComparisonInput{
		LabelA:  "A",
		LabelB:  "B",
		A:       domain.Sample{4, 5, 6, 5, 4, 6, 5, 5, 6, 4},
		B:       domain.Sample{3, 6, 8, 5, 7, 4, 9, 6, 5, 7, 8, 4},
		SurveyA: domain.CountPair{Successes: 132, Total: 150},
		SurveyB: domain.CountPair{Successes: 120, Total: 150},
	}
}

func quietEngine() *StatsEngine {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return NewStatsEngine(
		WithLogger(internal.NewLoggerTo(io.Discard, internal.LogLevelError)),
		WithClock(func() time.Time { return fixed }),
	)
}

func TestCompare_ReferenceData(t *testing.T) {
	report, err := quietEngine().Compare(context.Background(), referenceInput())
	require.NoError(t, err)

	assert.Empty(t, report.Skipped)
	assert.False(t, report.ID.String() == "")
	assert.Equal(t, DefaultAlpha, report.Alpha)
	require.NotNil(t, report.GroupA.Descriptive)
	assert.InDelta(t, 5.0, report.GroupA.Descriptive.Mean, 1e-12)
	assert.InDelta(t, 6.0, report.GroupB.Descriptive.Mean, 1e-12)

	require.Len(t, report.Intervals, len(DefaultLevels))
	block, ok := report.Interval(0.95)
	require.True(t, ok)
	want, err := intervals.MeanDifference(referenceInput().A, referenceInput().B, 0.95)
	require.NoError(t, err)
	assert.Equal(t, want, *block.MeanDifference)
	assert.InDelta(t, 4.415913532131916, block.MeanA.Lower, 1e-6)

	require.Len(t, report.SLA, 3)
	assert.Equal(t, 5.0, report.SLA[0].Threshold)
	assert.Equal(t, 0.7, report.SLA[0].A.Fraction)
	assert.InDelta(t, 0.7-5.0/12.0, report.SLA[0].Difference, 1e-12)

	tests := report.Tests
	require.NotNil(t, tests.ProportionZ)
	require.NotNil(t, tests.ChiSquare)
	require.NotNil(t, tests.ChiSquareYates)
	assert.InEpsilon(t, tests.ProportionZ.Statistic*tests.ProportionZ.Statistic, tests.ChiSquare.Statistic, 1e-6)
	assert.Equal(t, domain.SideSecond, tests.FTest.LargerVariance)

	require.NotNil(t, report.Effects.CohensD)
	assert.Equal(t, domain.MagnitudeMediumToLarge, report.Effects.CohensD.Magnitude)
	assert.Equal(t, domain.MagnitudeSmallToMedium, report.Effects.CohensH.Magnitude)
}

func TestCompare_Conclusions(t *testing.T) {
	report, err := quietEngine().Compare(context.Background(), referenceInput())
	require.NoError(t, err)
	c := report.Conclusions

	// group A fails Shapiro-Wilk at 0.05
	require.NotNil(t, c.BothNormal)
	assert.False(t, *c.BothNormal)

	require.NotNil(t, c.EqualVariances)
	assert.False(t, *c.EqualVariances)
	assert.Equal(t, domain.TestWelchT, c.RecommendedTest)

	require.NotNil(t, c.MeanDifference)
	assert.False(t, c.MeanDifference.Significant)
	assert.InDelta(t, -1.0, c.MeanDifference.Estimate, 1e-12)
	assert.Equal(t, domain.SideSecond, c.MeanDifference.Larger)

	require.NotNil(t, c.VarianceDifference)
	assert.True(t, c.VarianceDifference.Significant)
	assert.Equal(t, domain.SideSecond, c.VarianceDifference.Larger)

	require.NotNil(t, c.ProportionDifference)
	assert.False(t, c.ProportionDifference.Significant)
	assert.InDelta(t, 0.08, c.ProportionDifference.Estimate, 1e-12)
	assert.Equal(t, domain.SideFirst, c.ProportionDifference.Larger)
}

func TestCompare_SkipsDegenerateComputations(t *testing.T) {
	var logs bytes.Buffer
	eng := NewStatsEngine(WithLogger(internal.NewLoggerTo(&logs, internal.LogLevelWarn)))

	in := referenceInput()
	in.A = domain.Sample{5, 5, 5}

	report, err := eng.Compare(context.Background(), in)
	require.NoError(t, err)

	names := make([]string, 0, len(report.Skipped))
	for _, s := range report.Skipped {
		names = append(names, s.Computation)
	}
	assert.Equal(t, []string{"dagostino_pearson_a", "f_test", "shapiro_wilk_a"}, names)
	assert.Nil(t, report.Tests.ShapiroA)
	assert.Nil(t, report.Tests.FTest)
	assert.NotNil(t, report.Tests.WelchT)
	assert.Nil(t, report.Conclusions.BothNormal)
	assert.Nil(t, report.Conclusions.VarianceDifference)
	assert.Contains(t, logs.String(), "[WARN] engine: skipping f_test")
}

func TestCompare_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ComparisonInput)
		want   error
	}{
		{"group too small", func(in *ComparisonInput) { in.B = domain.Sample{1} }, core.ErrInsufficientData},
		{"same labels", func(in *ComparisonInput) { in.LabelB = in.LabelA }, core.ErrInsufficientData},
		{"bad survey", func(in *ComparisonInput) { in.SurveyA.Successes = 151 }, core.ErrInvalidProportion},
		{"bad level", func(in *ComparisonInput) { in.Levels = []float64{0.95, 1} }, core.ErrInvalidConfidenceLevel},
		{"bad alpha", func(in *ComparisonInput) { in.Alpha = 1.5 }, core.ErrInvalidConfidenceLevel},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := referenceInput()
			tc.mutate(&in)
			_, err := quietEngine().Compare(context.Background(), in)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestCompare_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := quietEngine().Compare(ctx, referenceInput())
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestCompare_DeterministicFingerprint(t *testing.T) {
	eng := quietEngine()
	first, err := eng.Compare(context.Background(), referenceInput())
	require.NoError(t, err)
	second, err := eng.Compare(context.Background(), referenceInput())
	require.NoError(t, err)

	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Tests, second.Tests)

	in := referenceInput()
	in.Levels = []float64{0.95}
	third, err := eng.Compare(context.Background(), in)
	require.NoError(t, err)
	assert.NotEqual(t, first.Fingerprint, third.Fingerprint)
}

func TestCompare_FingerprintCoversLeveneCenter(t *testing.T) {
	eng := quietEngine()
	in := referenceInput()
	// skewed so the mean and median centres disagree
	in.B = domain.Sample{3, 4, 4, 5, 5, 6, 6, 7, 8, 9, 12, 15}
	in.LeveneCenter = hypothesis.CenterMedian
	median, err := eng.Compare(context.Background(), in)
	require.NoError(t, err)

	in.LeveneCenter = hypothesis.CenterMean
	mean, err := eng.Compare(context.Background(), in)
	require.NoError(t, err)

	require.NotNil(t, median.Tests.Levene)
	require.NotNil(t, mean.Tests.Levene)
	assert.NotEqual(t, median.Tests.Levene.Statistic, mean.Tests.Levene.Statistic)
	assert.NotEqual(t, median.Fingerprint, mean.Fingerprint)

	// the default centre hashes the same as naming it explicitly
	in.LeveneCenter = ""
	implicit, err := eng.Compare(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, median.Fingerprint, implicit.Fingerprint)
}

func TestCompare_JSONRoundTrip(t *testing.T) {
	in := referenceInput()
	in.LeveneCenter = hypothesis.CenterMean
	report, err := quietEngine().Compare(context.Background(), in)
	require.NoError(t, err)

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded ComparisonReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.ID, decoded.ID)
	assert.Equal(t, report.Tests.FTest.LargerVariance, decoded.Tests.FTest.LargerVariance)
	assert.Equal(t, *report.Conclusions.MeanDifference, *decoded.Conclusions.MeanDifference)
}

func TestInputDefaults(t *testing.T) {
	in := ComparisonInput{}.WithDefaults()
	assert.Equal(t, DefaultLabelA, in.LabelA)
	assert.Equal(t, DefaultLevels, in.Levels)
	assert.Equal(t, DefaultThresholds, in.Thresholds)
	assert.Equal(t, hypothesis.CenterMedian, in.LeveneCenter)

	// defaults are copies
	in.Levels[0] = 0.5
	assert.Equal(t, 0.90, DefaultLevels[0])
}

func TestReportStoredRoundTrip(t *testing.T) {
	in := referenceInput()
	in.A = domain.Sample{-2, -1, 1, 2, -1.5, 1.5, -0.5, 0.5}
	report, err := quietEngine().Compare(context.Background(), in)
	require.NoError(t, err)
	require.True(t, math.IsNaN(report.GroupA.Descriptive.CV))

	stored, err := report.Stored()
	require.NoError(t, err)
	assert.Equal(t, report.ID, stored.ID)
	assert.Equal(t, report.Fingerprint, stored.Fingerprint)
	assert.Equal(t, core.GroupLabel("B"), stored.LabelB)

	decoded, err := DecodeReport(&stored)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(decoded.GroupA.Descriptive.CV))
	assert.Equal(t, report.GroupB.Descriptive.CV, decoded.GroupB.Descriptive.CV)
	assert.Len(t, decoded.Intervals, len(report.Intervals))
}
