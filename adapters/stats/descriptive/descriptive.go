// Package descriptive computes per-group summary statistics.
package descriptive

import (
	"math"

	"github.com/montanaflynn/stats"

	"waitstat/domain/core"
	domain "waitstat/domain/stats"
)

// Describe computes the summary statistics of one group.
// The sample is never mutated.
func Describe(sample domain.Sample) (domain.Descriptive, error) {
	n := len(sample)
	if n < 2 {
		return domain.Descriptive{}, core.NewInsufficientDataError("standard deviation", n, 2)
	}

	data := stats.Float64Data(sample)

	mean, err := stats.Mean(data)
	if err != nil {
		return domain.Descriptive{}, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return domain.Descriptive{}, err
	}
	variance, err := stats.SampleVariance(data)
	if err != nil {
		return domain.Descriptive{}, err
	}
	min, err := stats.Min(data)
	if err != nil {
		return domain.Descriptive{}, err
	}
	max, err := stats.Max(data)
	if err != nil {
		return domain.Descriptive{}, err
	}

	sorted := sample.Sorted()
	sd := math.Sqrt(variance)

	cv := math.NaN()
	if mean != 0 {
		cv = sd / mean
	}

	p25 := percentileSorted(sorted, 25)
	p75 := percentileSorted(sorted, 75)

	return domain.Descriptive{
		Count:    n,
		Mean:     mean,
		Median:   median,
		StdDev:   sd,
		Variance: variance,
		CV:       cv,
		P25:      p25,
		P75:      p75,
		P90:      percentileSorted(sorted, 90),
		P95:      percentileSorted(sorted, 95),
		IQR:      p75 - p25,
		Min:      min,
		Max:      max,
	}, nil
}

// Percentile returns the q-th percentile (0..100) by linear interpolation
// between order statistics: h = (n-1)*q/100, x[floor h] + frac(h)*(x[floor h+1]-x[floor h]).
func Percentile(sample domain.Sample, q float64) (float64, error) {
	if len(sample) == 0 {
		return 0, core.NewInsufficientDataError("percentile", 0, 1)
	}
	if q < 0 || q > 100 || math.IsNaN(q) {
		return 0, core.NewDegenerateDataError("percentile", "q must lie in [0, 100]")
	}
	return percentileSorted(sample.Sorted(), q), nil
}

func percentileSorted(sorted domain.Sample, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * q / 100
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// SampleVariance returns the n-1 variance of a sample with at least two values
func SampleVariance(sample domain.Sample) (float64, error) {
	if len(sample) < 2 {
		return 0, core.NewInsufficientDataError("variance", len(sample), 2)
	}
	return stats.SampleVariance(stats.Float64Data(sample))
}

// Mean returns the arithmetic mean of a non-empty sample
func Mean(sample domain.Sample) (float64, error) {
	if len(sample) == 0 {
		return 0, core.NewInsufficientDataError("mean", 0, 1)
	}
	return stats.Mean(stats.Float64Data(sample))
}

// MeanVariance returns mean, n-1 variance and count in one call
func MeanVariance(sample domain.Sample) (mean, variance float64, n int, err error) {
	n = len(sample)
	if n < 2 {
		return 0, 0, n, core.NewInsufficientDataError("variance", n, 2)
	}
	if mean, err = Mean(sample); err != nil {
		return 0, 0, n, err
	}
	if variance, err = SampleVariance(sample); err != nil {
		return 0, 0, n, err
	}
	return mean, variance, n, nil
}
