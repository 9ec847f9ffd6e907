package engine

import (
	"fmt"
	"math"

	"waitstat/adapters/stats/hypothesis"
	"waitstat/adapters/stats/intervals"
	"waitstat/domain/core"
	domain "waitstat/domain/stats"
)

// Defaults applied to zero-valued ComparisonInput fields
var (
	DefaultLevels     = []float64{0.90, 0.95, 0.99}
	DefaultThresholds = []float64{5, 8, 10}
)

const (
	DefaultAlpha  = 0.05
	DefaultLabelA = core.GroupLabel("A")
	DefaultLabelB = core.GroupLabel("B")
)

// ComparisonInput carries everything a comparison needs. Survey counts are
// explicit parameters; the engine embeds no fixed counts.
type ComparisonInput struct {
	LabelA       core.GroupLabel   `json:"label_a"`
	LabelB       core.GroupLabel   `json:"label_b"`
	A            domain.Sample     `json:"a"`
	B            domain.Sample     `json:"b"`
	SurveyA      domain.CountPair  `json:"survey_a"`
	SurveyB      domain.CountPair  `json:"survey_b"`
	Levels       []float64         `json:"levels,omitempty"`
	Thresholds   []float64         `json:"thresholds,omitempty"`
	Alpha        float64           `json:"alpha,omitempty"`
	LeveneCenter hypothesis.Center `json:"levene_center,omitempty"`
}

// WithDefaults fills unset optional fields
func (in ComparisonInput) WithDefaults() ComparisonInput {
	if in.LabelA == "" {
		in.LabelA = DefaultLabelA
	}
	if in.LabelB == "" {
		in.LabelB = DefaultLabelB
	}
	if len(in.Levels) == 0 {
		in.Levels = append([]float64(nil), DefaultLevels...)
	}
	if len(in.Thresholds) == 0 {
		in.Thresholds = append([]float64(nil), DefaultThresholds...)
	}
	if in.Alpha == 0 {
		in.Alpha = DefaultAlpha
	}
	if in.LeveneCenter == "" {
		in.LeveneCenter = hypothesis.CenterMedian
	}
	return in
}

// Validate rejects input no section could use. Per-computation degeneracy
// (zero variance, tiny n for a given test) is not checked here; those
// computations are skipped individually.
func (in ComparisonInput) Validate() error {
	if in.LabelA == in.LabelB {
		return core.NewDegenerateDataError("group labels", "both groups are labeled "+in.LabelA.String())
	}
	if len(in.A) < 2 {
		return core.NewInsufficientDataError("group "+in.LabelA.String(), len(in.A), 2)
	}
	if len(in.B) < 2 {
		return core.NewInsufficientDataError("group "+in.LabelB.String(), len(in.B), 2)
	}
	if err := checkFinite(in.LabelA, in.A); err != nil {
		return err
	}
	if err := checkFinite(in.LabelB, in.B); err != nil {
		return err
	}
	if err := in.SurveyA.Validate(); err != nil {
		return err
	}
	if err := in.SurveyB.Validate(); err != nil {
		return err
	}
	for _, c := range in.Levels {
		if err := intervals.ValidateConfidence(c); err != nil {
			return err
		}
	}
	if !(in.Alpha > 0 && in.Alpha < 1) {
		return core.NewConfidenceLevelError(1 - in.Alpha)
	}
	for _, th := range in.Thresholds {
		if math.IsNaN(th) {
			return core.NewDegenerateDataError("sla threshold", "NaN")
		}
	}
	return nil
}

func checkFinite(label core.GroupLabel, sample domain.Sample) error {
	for i, v := range sample {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return core.NewDegenerateDataError("group "+label.String(), fmt.Sprintf("non-finite value at index %d", i))
		}
	}
	return nil
}

// fingerprint hashes the normalized input
func (in ComparisonInput) fingerprint() core.Hash {
	params := make([]float64, 0, len(in.Levels)+len(in.Thresholds)+1)
	params = append(params, in.Levels...)
	params = append(params, in.Thresholds...)
	params = append(params, in.Alpha)
	return core.InputFingerprint(
		[][]float64{in.A, in.B},
		[][2]int{{in.SurveyA.Successes, in.SurveyA.Total}, {in.SurveyB.Successes, in.SurveyB.Total}},
		params,
		"levene_center="+string(in.LeveneCenter),
	)
}
