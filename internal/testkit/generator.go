// Package testkit generates synthetic two-group wait-time datasets in the
// layout the data readers expect.
package testkit

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"math/rand"
	"strconv"

	"waitstat/domain/core"
	domain "waitstat/domain/stats"
)

// GroupProfile describes one synthetic group
type GroupProfile struct {
	Label        core.GroupLabel `json:"label"`
	Count        int             `json:"count"`
	MeanMinutes  float64         `json:"mean_minutes"`
	StdDev       float64         `json:"std_dev"`
	Skewed       bool            `json:"skewed"` // log-normal instead of normal
	ApprovalRate float64         `json:"approval_rate"`
	Respondents  int             `json:"respondents"`
}

// GeneratorConfig configures the wait-time generator
type GeneratorConfig struct {
	A    GroupProfile `json:"a"`
	B    GroupProfile `json:"b"`
	Seed int64        `json:"seed"`
}

// DefaultGeneratorConfig mirrors the reference ride-hailing comparison:
// A is faster and steadier, B slower and more variable
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		A:    GroupProfile{Label: "A", Count: 200, MeanMinutes: 5, StdDev: 1, ApprovalRate: 0.88, Respondents: 150},
		B:    GroupProfile{Label: "B", Count: 200, MeanMinutes: 6, StdDev: 1.8, ApprovalRate: 0.80, Respondents: 150},
		Seed: 42,
	}
}

// Dataset is one generated comparison
type Dataset struct {
	LabelA  core.GroupLabel
	LabelB  core.GroupLabel
	A       domain.Sample
	B       domain.Sample
	SurveyA domain.CountPair
	SurveyB domain.CountPair
}

// Generator produces deterministic datasets for a seed
type Generator struct {
	config GeneratorConfig
	rng    *rand.Rand
}

// NewGenerator creates a new wait-time generator
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate draws both groups and their survey counts
func (g *Generator) Generate() Dataset {
	return Dataset{
		LabelA:  g.config.A.Label,
		LabelB:  g.config.B.Label,
		A:       g.sample(g.config.A),
		B:       g.sample(g.config.B),
		SurveyA: g.survey(g.config.A),
		SurveyB: g.survey(g.config.B),
	}
}

// sample draws waits rounded to 0.1 minute; waits are never negative
func (g *Generator) sample(p GroupProfile) domain.Sample {
	out := make(domain.Sample, p.Count)
	for i := range out {
		var v float64
		if p.Skewed {
			// log-normal with the requested mean and standard deviation
			s2 := math.Log(1 + (p.StdDev*p.StdDev)/(p.MeanMinutes*p.MeanMinutes))
			mu := math.Log(p.MeanMinutes) - s2/2
			v = math.Exp(mu + math.Sqrt(s2)*g.rng.NormFloat64())
		} else {
			v = p.MeanMinutes + p.StdDev*g.rng.NormFloat64()
		}
		out[i] = math.Max(0, math.Round(v*10)/10)
	}
	return out
}

func (g *Generator) survey(p GroupProfile) domain.CountPair {
	approvals := 0
	for i := 0; i < p.Respondents; i++ {
		if g.rng.Float64() < p.ApprovalRate {
			approvals++
		}
	}
	return domain.CountPair{Successes: approvals, Total: p.Respondents}
}

// WriteCSV writes the waits as a two-column table with a header row
func (d Dataset) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"app", "wait_min"}); err != nil {
		return err
	}
	write := func(label core.GroupLabel, sample domain.Sample) error {
		for _, v := range sample {
			if err := cw.Write([]string{label.String(), strconv.FormatFloat(v, 'f', -1, 64)}); err != nil {
				return err
			}
		}
		return nil
	}
	if err := write(d.LabelA, d.A); err != nil {
		return err
	}
	if err := write(d.LabelB, d.B); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

type surveyEntry struct {
	Approvals int `json:"approvals"`
	Total     int `json:"total"`
}

// WriteSurveyJSON writes the survey counts keyed by group label
func (d Dataset) WriteSurveyJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]surveyEntry{
		d.LabelA.String(): {Approvals: d.SurveyA.Successes, Total: d.SurveyA.Total},
		d.LabelB.String(): {Approvals: d.SurveyB.Successes, Total: d.SurveyB.Total},
	})
}
