package api

import (
	"github.com/go-playground/validator/v10"

	"waitstat/adapters/stats/engine"
	"waitstat/adapters/stats/hypothesis"
	"waitstat/domain/core"
	domain "waitstat/domain/stats"
)

var validate = validator.New()

// CompareRequest is the body of POST /v1/compare. Omitted optional fields
// take the engine defaults.
type CompareRequest struct {
	LabelA       string           `json:"label_a" validate:"omitempty,max=255"`
	LabelB       string           `json:"label_b" validate:"omitempty,max=255"`
	A            []float64        `json:"a" validate:"required,min=2"`
	B            []float64        `json:"b" validate:"required,min=2"`
	SurveyA      domain.CountPair `json:"survey_a"`
	SurveyB      domain.CountPair `json:"survey_b"`
	Levels       []float64        `json:"levels" validate:"omitempty,dive,gt=0,lt=1"`
	Thresholds   []float64        `json:"thresholds" validate:"omitempty"`
	Alpha        float64          `json:"alpha" validate:"omitempty,gt=0,lt=1"`
	LeveneCenter string           `json:"levene_center" validate:"omitempty,oneof=median mean"`
}

// Validate checks the struct tags, including the survey count bounds
func (r *CompareRequest) Validate() error {
	return validate.Struct(r)
}

// Input converts the request into an engine input
func (r *CompareRequest) Input() engine.ComparisonInput {
	return engine.ComparisonInput{
		LabelA:       core.GroupLabel(r.LabelA),
		LabelB:       core.GroupLabel(r.LabelB),
		A:            domain.Sample(r.A),
		B:            domain.Sample(r.B),
		SurveyA:      r.SurveyA,
		SurveyB:      r.SurveyB,
		Levels:       r.Levels,
		Thresholds:   r.Thresholds,
		Alpha:        r.Alpha,
		LeveneCenter: hypothesis.Center(r.LeveneCenter),
	}
}
