package engine

import (
	"encoding/json"
	"sort"
	"time"

	"waitstat/adapters/stats/hypothesis"
	"waitstat/domain/core"
	domain "waitstat/domain/stats"
	"waitstat/internal/errors"
	"waitstat/ports"
)

// ComparisonReport captures the complete result of one two-group comparison.
// Optional sections are nil when their computation was skipped; the reason
// is in Skipped.
type ComparisonReport struct {
	ID          core.ReportID `json:"id"`
	Fingerprint core.Hash     `json:"fingerprint"`
	CreatedAt   time.Time     `json:"created_at"`
	RuntimeMs   int64         `json:"runtime_ms"`
	Alpha       float64       `json:"alpha"`
	GroupA      GroupSummary  `json:"group_a"`
	GroupB      GroupSummary  `json:"group_b"`
	Intervals   []LevelBlock  `json:"intervals"`
	SLA         []SLARow      `json:"sla"`
	Tests       TestSuite     `json:"tests"`
	Effects     Effects       `json:"effects"`
	Conclusions Conclusions   `json:"conclusions"`
	Skipped     []Skip        `json:"skipped,omitempty"`
}

// GroupSummary holds one group's inputs and descriptives
type GroupSummary struct {
	Label       core.GroupLabel     `json:"label"`
	Survey      domain.CountPair    `json:"survey"`
	Descriptive *domain.Descriptive `json:"descriptive,omitempty"`
}

// LevelBlock groups every interval computed at one confidence level
type LevelBlock struct {
	Confidence           float64                    `json:"confidence"`
	MeanA                *domain.ConfidenceInterval `json:"mean_a,omitempty"`
	MeanB                *domain.ConfidenceInterval `json:"mean_b,omitempty"`
	MeanDifference       *domain.ConfidenceInterval `json:"mean_difference,omitempty"`
	VarianceA            *domain.ConfidenceInterval `json:"variance_a,omitempty"`
	VarianceB            *domain.ConfidenceInterval `json:"variance_b,omitempty"`
	VarianceRatio        *domain.ConfidenceInterval `json:"variance_ratio,omitempty"`
	ProportionA          *domain.ConfidenceInterval `json:"proportion_a,omitempty"`
	ProportionB          *domain.ConfidenceInterval `json:"proportion_b,omitempty"`
	ProportionDifference *domain.ConfidenceInterval `json:"proportion_difference,omitempty"`
}

// SLARow is one threshold evaluated for both groups
type SLARow struct {
	Threshold  float64         `json:"threshold"`
	A          domain.SLAPoint `json:"a"`
	B          domain.SLAPoint `json:"b"`
	Difference float64         `json:"difference"` // A - B fraction
}

// TestSuite holds every hypothesis test result
type TestSuite struct {
	ShapiroA       *domain.TestResult      `json:"shapiro_a,omitempty"`
	ShapiroB       *domain.TestResult      `json:"shapiro_b,omitempty"`
	DAgostinoA     *domain.TestResult      `json:"dagostino_a,omitempty"`
	DAgostinoB     *domain.TestResult      `json:"dagostino_b,omitempty"`
	Levene         *domain.TestResult      `json:"levene,omitempty"`
	WelchT         *domain.TestResult      `json:"welch_t,omitempty"`
	StudentT       *domain.TestResult      `json:"student_t,omitempty"`
	MannWhitneyU   *domain.TestResult      `json:"mann_whitney_u,omitempty"`
	FTest          *hypothesis.FTestResult `json:"f_test,omitempty"`
	ProportionZ    *domain.TestResult      `json:"proportion_z,omitempty"`
	ChiSquare      *domain.TestResult      `json:"chi_square,omitempty"`
	ChiSquareYates *domain.TestResult      `json:"chi_square_yates,omitempty"`
}

// Effects holds the standardized effect sizes
type Effects struct {
	CohensD *domain.EffectSize `json:"cohens_d,omitempty"`
	CohensH *domain.EffectSize `json:"cohens_h,omitempty"`
}

// Skip records a computation that failed on degenerate input
type Skip struct {
	Computation string `json:"computation"`
	Reason      string `json:"reason"`
}

// RecordSkip records a skipped computation
func (r *ComparisonReport) RecordSkip(computation string, err error) {
	r.Skipped = append(r.Skipped, Skip{Computation: computation, Reason: err.Error()})
}

// SetRuntime sets the execution time
func (r *ComparisonReport) SetRuntime(d time.Duration) {
	r.RuntimeMs = d.Milliseconds()
}

// sortSkipped orders skips by computation name so reports are deterministic
func (r *ComparisonReport) sortSkipped() {
	sort.Slice(r.Skipped, func(i, j int) bool {
		return r.Skipped[i].Computation < r.Skipped[j].Computation
	})
}

// Interval returns the block for a confidence level, if computed
func (r *ComparisonReport) Interval(confidence float64) (LevelBlock, bool) {
	for _, b := range r.Intervals {
		if b.Confidence == confidence {
			return b, true
		}
	}
	return LevelBlock{}, false
}

// Stored converts the report into its persisted form
func (r *ComparisonReport) Stored() (ports.StoredReport, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return ports.StoredReport{}, errors.Wrap(err, "failed to encode report")
	}
	return ports.StoredReport{
		ID:          r.ID,
		Fingerprint: r.Fingerprint,
		LabelA:      r.GroupA.Label,
		LabelB:      r.GroupB.Label,
		Payload:     payload,
		CreatedAt:   r.CreatedAt,
	}, nil
}

// DecodeReport restores a report from its persisted form
func DecodeReport(s *ports.StoredReport) (*ComparisonReport, error) {
	var r ComparisonReport
	if err := json.Unmarshal(s.Payload, &r); err != nil {
		return nil, errors.Wrapf(err, "failed to decode report %s", s.ID)
	}
	return &r, nil
}
