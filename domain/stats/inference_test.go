package stats

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waitstat/domain/core"
)

func TestDescriptiveJSONNaNCV(t *testing.T) {
	d := Descriptive{Count: 3, Mean: 0, StdDev: 1, CV: math.NaN()}

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"cv":null`)

	var back Descriptive
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, math.IsNaN(back.CV))
	assert.Equal(t, 3, back.Count)
}

func TestDescriptiveJSONFiniteCV(t *testing.T) {
	d := Descriptive{Count: 10, Mean: 5, StdDev: 0.5, CV: 0.1, P95: 6}

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"cv":0.1`)

	var back Descriptive
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, d, back)
}

func TestCountPairValidate(t *testing.T) {
	assert.NoError(t, CountPair{Successes: 0, Total: 1}.Validate())
	assert.NoError(t, CountPair{Successes: 5, Total: 5}.Validate())
	assert.ErrorIs(t, CountPair{Successes: 1, Total: 0}.Validate(), core.ErrInvalidProportion)
	assert.ErrorIs(t, CountPair{Successes: -1, Total: 3}.Validate(), core.ErrInvalidProportion)
	assert.ErrorIs(t, CountPair{Successes: 4, Total: 3}.Validate(), core.ErrInvalidProportion)
	assert.InDelta(t, 0.88, CountPair{Successes: 132, Total: 150}.Proportion(), 1e-12)
}

func TestConfidenceIntervalHelpers(t *testing.T) {
	ci := ConfidenceInterval{Kind: IntervalVariance, Estimate: 2, Lower: 1, Upper: 4}
	assert.False(t, ci.Symmetric())
	assert.Equal(t, 3.0, ci.Width())
	assert.True(t, ci.Contains(1))
	assert.False(t, ci.Contains(4.5))
	assert.True(t, ConfidenceInterval{Kind: IntervalMean}.Symmetric())
}

func TestSampleSortedCopies(t *testing.T) {
	s := Sample{3, 1, 2}
	assert.Equal(t, Sample{1, 2, 3}, s.Sorted())
	assert.Equal(t, Sample{3, 1, 2}, s)
}
