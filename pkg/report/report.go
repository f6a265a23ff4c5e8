// Package report composes the outputs of a validation run and its
// analyzers into one exportable document.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/KlikkAI/verdict/pkg/analyzer/benchmark"
	"github.com/KlikkAI/verdict/pkg/analyzer/recommend"
	"github.com/KlikkAI/verdict/pkg/analyzer/regression"
	"github.com/KlikkAI/verdict/pkg/analyzer/trend"
	"github.com/KlikkAI/verdict/pkg/history"
	"github.com/KlikkAI/verdict/pkg/pipeline"
)

// Summary is the at-a-glance block at the head of a report.
type Summary struct {
	Status            pipeline.Status `json:"status" yaml:"status"`
	ComponentsPassed  int             `json:"componentsPassed" yaml:"componentsPassed"`
	ComponentsFailing int             `json:"componentsFailing" yaml:"componentsFailing"`
	ComponentsSkipped int             `json:"componentsSkipped" yaml:"componentsSkipped"`
	Warnings          int             `json:"warnings" yaml:"warnings"`
	CriticalErrors    int             `json:"criticalErrors" yaml:"criticalErrors"`
	Regressions       int             `json:"regressions" yaml:"regressions"`
	DegradingTrends   int             `json:"degradingTrends" yaml:"degradingTrends"`
	TopRecommendation string          `json:"topRecommendation,omitempty" yaml:"topRecommendation,omitempty"`
}

// Report is the full composed document for one validation run.
type Report struct {
	GeneratedAt     time.Time                  `json:"generatedAt" yaml:"generatedAt"`
	Summary         Summary                    `json:"summary" yaml:"summary"`
	Validation      *pipeline.ValidationResult `json:"validation,omitempty" yaml:"validation,omitempty"`
	Trends          []trend.Trend              `json:"trends,omitempty" yaml:"trends,omitempty"`
	Regressions     []regression.Regression    `json:"regressions,omitempty" yaml:"regressions,omitempty"`
	Benchmark       *benchmark.Result          `json:"benchmark,omitempty" yaml:"benchmark,omitempty"`
	Statistics      []history.Stats            `json:"statistics,omitempty" yaml:"statistics,omitempty"`
	Recommendations []recommend.Recommendation `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`
}

// Builder accumulates report sections. All setters are optional; Build
// derives the summary from whatever was provided.
type Builder struct {
	report Report
	clock  func() time.Time
}

// NewBuilder creates an empty report builder.
func NewBuilder() *Builder {
	return &Builder{clock: func() time.Time { return time.Now().UTC() }}
}

// WithClock overrides the timestamp source, primarily for tests.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.clock = now
	return b
}

// WithValidation attaches the pipeline run result. Its recommendations
// become the report's unless overridden by WithRecommendations.
func (b *Builder) WithValidation(v *pipeline.ValidationResult) *Builder {
	b.report.Validation = v
	if v != nil && b.report.Recommendations == nil {
		b.report.Recommendations = v.Recommendations
	}
	return b
}

// WithTrends attaches trend analysis output.
func (b *Builder) WithTrends(trends []trend.Trend) *Builder {
	b.report.Trends = trends
	return b
}

// WithRegressions attaches regression detection output.
func (b *Builder) WithRegressions(regs []regression.Regression) *Builder {
	b.report.Regressions = regs
	return b
}

// WithBenchmark attaches a benchmark scoring result.
func (b *Builder) WithBenchmark(r *benchmark.Result) *Builder {
	b.report.Benchmark = r
	return b
}

// WithStatistics attaches per-metric window statistics.
func (b *Builder) WithStatistics(stats []history.Stats) *Builder {
	b.report.Statistics = stats
	return b
}

// WithRecommendations overrides the report's recommendations.
func (b *Builder) WithRecommendations(recs []recommend.Recommendation) *Builder {
	b.report.Recommendations = recs
	return b
}

// Build finalizes the report and derives its summary.
func (b *Builder) Build() *Report {
	r := b.report
	r.GeneratedAt = b.clock()
	r.Summary = summarize(&r)
	return &r
}

func summarize(r *Report) Summary {
	s := Summary{Status: pipeline.StatusSuccess}

	if v := r.Validation; v != nil {
		s.Status = v.Status
		for _, pr := range v.Phases {
			for _, cr := range pr.Components {
				switch cr.Status {
				case pipeline.ComponentPassed:
					s.ComponentsPassed++
				case pipeline.ComponentFailing, pipeline.ComponentErrored:
					s.ComponentsFailing++
				case pipeline.ComponentSkipped:
					s.ComponentsSkipped++
				}
			}
		}
		for _, e := range v.Errors {
			switch e.Severity {
			case pipeline.SeverityCritical:
				s.CriticalErrors++
			case pipeline.SeverityWarning:
				s.Warnings++
			}
		}
	}

	s.Regressions = len(r.Regressions)
	for _, t := range r.Trends {
		if t.Direction == trend.Degrading {
			s.DegradingTrends++
		}
	}
	if len(r.Recommendations) > 0 {
		s.TopRecommendation = r.Recommendations[0].Title
	}
	return s
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report as JSON: %w", err)
	}
	return nil
}

// WriteYAML writes the report as YAML.
func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report as YAML: %w", err)
	}
	return enc.Close()
}
