package ports

import (
	"context"

	"waitstat/domain/core"
	domain "waitstat/domain/stats"
)

// GroupedSamples is the continuous measurement of the two compared groups
type GroupedSamples struct {
	LabelA  core.GroupLabel
	LabelB  core.GroupLabel
	A       domain.Sample
	B       domain.Sample
	Ignored int // rows whose label matched neither group
}

// GroupSource supplies the two labeled samples of a comparison
type GroupSource interface {
	ReadGroups(ctx context.Context, labelA, labelB core.GroupLabel) (*GroupedSamples, error)
}

// SurveySource supplies the approval counts of both groups
type SurveySource interface {
	ReadSurvey(ctx context.Context, labelA, labelB core.GroupLabel) (a, b domain.CountPair, err error)
}
