package excel

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/tidwall/gjson"

	"waitstat/domain/core"
	domain "waitstat/domain/stats"
	"waitstat/internal/errors"
	"waitstat/ports"
)

// SurveyReader reads approval counts from a JSON document of the form
// {"A": {"approvals": 132, "total": 150}, "B": {...}}
type SurveyReader struct {
	filePath string
}

var _ ports.SurveySource = (*SurveyReader)(nil)

// NewSurveyReader creates a survey reader for a JSON file
func NewSurveyReader(filePath string) *SurveyReader {
	return &SurveyReader{filePath: filePath}
}

// ReadSurvey returns the counts for both labels
func (r *SurveyReader) ReadSurvey(ctx context.Context, labelA, labelB core.GroupLabel) (domain.CountPair, domain.CountPair, error) {
	data, err := os.ReadFile(r.filePath)
	if err != nil {
		return domain.CountPair{}, domain.CountPair{}, errors.Wrap(err, "failed to read survey file")
	}
	return ParseSurvey(data, labelA, labelB)
}

// ParseSurvey extracts the counts of both labels from survey JSON
func ParseSurvey(data []byte, labelA, labelB core.GroupLabel) (domain.CountPair, domain.CountPair, error) {
	if !gjson.ValidBytes(data) {
		return domain.CountPair{}, domain.CountPair{}, errors.InvalidInput("survey is not valid JSON")
	}
	root := gjson.ParseBytes(data)

	a, err := surveyEntry(root, labelA)
	if err != nil {
		return domain.CountPair{}, domain.CountPair{}, err
	}
	b, err := surveyEntry(root, labelB)
	if err != nil {
		return domain.CountPair{}, domain.CountPair{}, err
	}
	return a, b, nil
}

// surveyEntry looks the label up by exact key, so labels containing path
// characters are safe
func surveyEntry(root gjson.Result, label core.GroupLabel) (domain.CountPair, error) {
	var entry gjson.Result
	root.ForEach(func(key, value gjson.Result) bool {
		if key.String() == label.String() {
			entry = value
			return false
		}
		return true
	})
	if !entry.Exists() {
		return domain.CountPair{}, errors.InvalidInput(fmt.Sprintf("survey has no entry for group %s", label))
	}

	approvals, err := countField(entry, "approvals", label)
	if err != nil {
		return domain.CountPair{}, err
	}
	total, err := countField(entry, "total", label)
	if err != nil {
		return domain.CountPair{}, err
	}

	pair := domain.CountPair{Successes: approvals, Total: total}
	if err := pair.Validate(); err != nil {
		return domain.CountPair{}, errors.Wrapf(err, "survey group %s", label)
	}
	return pair, nil
}

func countField(entry gjson.Result, field string, label core.GroupLabel) (int, error) {
	v := entry.Get(field)
	if v.Type != gjson.Number || v.Num != math.Trunc(v.Num) {
		return 0, errors.InvalidInput(fmt.Sprintf("survey group %s: %s must be an integer", label, field))
	}
	return int(v.Int()), nil
}
