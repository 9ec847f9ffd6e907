// Package sla computes the threshold (service level) metric: the share of
// observations at or below an operational cutoff.
package sla

import (
	"waitstat/domain/core"
	domain "waitstat/domain/stats"
)

// Fraction returns the share of observations <= threshold
func Fraction(sample domain.Sample, threshold float64) (domain.SLAPoint, error) {
	if len(sample) == 0 {
		return domain.SLAPoint{}, core.NewInsufficientDataError("sla fraction", 0, 1)
	}

	within := 0
	for _, v := range sample {
		if v <= threshold {
			within++
		}
	}
	return domain.SLAPoint{
		Threshold: threshold,
		Within:    within,
		Count:     len(sample),
		Fraction:  float64(within) / float64(len(sample)),
	}, nil
}

// Compliance evaluates every threshold, preserving input order
func Compliance(sample domain.Sample, thresholds []float64) ([]domain.SLAPoint, error) {
	if len(sample) == 0 {
		return nil, core.NewInsufficientDataError("sla compliance", 0, 1)
	}

	points := make([]domain.SLAPoint, 0, len(thresholds))
	for _, th := range thresholds {
		p, err := Fraction(sample, th)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}
