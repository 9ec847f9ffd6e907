package descriptive

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waitstat/domain/core"
	domain "waitstat/domain/stats"
)

func TestDescribe_ReferenceGroup(t *testing.T) {
	sample := domain.Sample{4, 5, 6, 5, 4, 6, 5, 5, 6, 4}

	d, err := Describe(sample)
	require.NoError(t, err)

	assert.Equal(t, 10, d.Count)
	assert.InDelta(t, 5.0, d.Mean, 1e-12)
	assert.InDelta(t, 5.0, d.Median, 1e-12)
	assert.InDelta(t, 2.0/3.0, d.Variance, 1e-12)
	assert.InDelta(t, 0.816496580927726, d.StdDev, 1e-12)
	assert.InDelta(t, 0.1632993161855452, d.CV, 1e-12)
	assert.InDelta(t, 4.25, d.P25, 1e-12)
	assert.InDelta(t, 5.75, d.P75, 1e-12)
	assert.InDelta(t, 1.5, d.IQR, 1e-12)
	assert.InDelta(t, 6.0, d.P90, 1e-12)
	assert.InDelta(t, 6.0, d.P95, 1e-12)
	assert.Equal(t, 4.0, d.Min)
	assert.Equal(t, 6.0, d.Max)
}

func TestDescribe_DoesNotMutateInput(t *testing.T) {
	sample := domain.Sample{9, 1, 7, 3}
	_, err := Describe(sample)
	require.NoError(t, err)
	assert.Equal(t, domain.Sample{9, 1, 7, 3}, sample)
}

func TestDescribe_InsufficientData(t *testing.T) {
	for _, s := range []domain.Sample{nil, {}, {3.2}} {
		_, err := Describe(s)
		assert.True(t, errors.Is(err, core.ErrInsufficientData), "len=%d", len(s))
	}
}

func TestDescribe_ZeroMeanCV(t *testing.T) {
	d, err := Describe(domain.Sample{-1, 1})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(d.CV))
}

func TestPercentile_LinearInterpolation(t *testing.T) {
	sample := domain.Sample{7, 3, 5, 4, 6}

	tests := []struct {
		q        float64
		expected float64
	}{
		{0, 3},
		{25, 4},
		{50, 5},
		{90, 6.6},
		{95, 6.8},
		{100, 7},
	}

	for _, tc := range tests {
		got, err := Percentile(sample, tc.q)
		require.NoError(t, err)
		assert.InDelta(t, tc.expected, got, 1e-12, "q=%v", tc.q)
	}

	_, err := Percentile(sample, 101)
	assert.Error(t, err)
	_, err = Percentile(nil, 50)
	assert.True(t, errors.Is(err, core.ErrInsufficientData))
}

func TestMeanVariance(t *testing.T) {
	mean, variance, n, err := MeanVariance(domain.Sample{2, 4, 4, 4, 5, 5, 7, 9})
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.InDelta(t, 5.0, mean, 1e-12)
	assert.InDelta(t, 32.0/7.0, variance, 1e-12)

	_, _, _, err = MeanVariance(domain.Sample{1})
	assert.True(t, errors.Is(err, core.ErrInsufficientData))
}
