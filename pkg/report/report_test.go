package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/KlikkAI/verdict/pkg/analyzer/recommend"
	"github.com/KlikkAI/verdict/pkg/analyzer/regression"
	"github.com/KlikkAI/verdict/pkg/analyzer/trend"
	"github.com/KlikkAI/verdict/pkg/metrics"
	"github.com/KlikkAI/verdict/pkg/pipeline"
)

func sampleValidation() *pipeline.ValidationResult {
	return &pipeline.ValidationResult{
		RunID:     "run-1",
		Timestamp: time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
		Status:    pipeline.StatusWarning,
		Phases: []pipeline.PhaseResult{
			{Phase: pipeline.PhaseSystem, Components: []pipeline.ComponentResult{
				{Name: "unit-tests", Status: pipeline.ComponentPassed},
				{Name: "api-checks", Status: pipeline.ComponentFailing},
				{Name: "e2e-scenarios", Status: pipeline.ComponentSkipped},
				{Name: "build", Status: pipeline.ComponentErrored},
			}},
		},
		Errors: []pipeline.RunError{
			{Severity: pipeline.SeverityWarning, Message: "build check failed"},
		},
		Recommendations: []recommend.Recommendation{
			{Priority: recommend.PriorityHigh, Title: "Fix the build"},
		},
	}
}

func TestBuildSummary(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	r := NewBuilder().
		WithClock(func() time.Time { return now }).
		WithValidation(sampleValidation()).
		WithTrends([]trend.Trend{
			{Metric: metrics.BuildTime, Direction: trend.Degrading},
			{Metric: metrics.TestCoverage, Direction: trend.Improving},
			{Metric: metrics.MemoryUsage, Direction: trend.Stable},
		}).
		WithRegressions([]regression.Regression{
			{Metric: metrics.BuildTime, Severity: regression.Major},
		}).
		Build()

	assert.Equal(t, now, r.GeneratedAt)

	s := r.Summary
	assert.Equal(t, pipeline.StatusWarning, s.Status)
	assert.Equal(t, 1, s.ComponentsPassed)
	assert.Equal(t, 2, s.ComponentsFailing, "errored components count as failing")
	assert.Equal(t, 1, s.ComponentsSkipped)
	assert.Equal(t, 1, s.Warnings)
	assert.Equal(t, 0, s.CriticalErrors)
	assert.Equal(t, 1, s.Regressions)
	assert.Equal(t, 1, s.DegradingTrends)
	assert.Equal(t, "Fix the build", s.TopRecommendation)
}

func TestBuildEmpty(t *testing.T) {
	r := NewBuilder().Build()

	assert.Equal(t, pipeline.StatusSuccess, r.Summary.Status)
	assert.Zero(t, r.Summary.ComponentsPassed)
	assert.Empty(t, r.Summary.TopRecommendation)
	assert.Nil(t, r.Validation)
}

func TestValidationRecommendationsInherited(t *testing.T) {
	r := NewBuilder().WithValidation(sampleValidation()).Build()
	require.Len(t, r.Recommendations, 1)
	assert.Equal(t, "Fix the build", r.Recommendations[0].Title)
}

func TestWithRecommendationsOverrides(t *testing.T) {
	override := []recommend.Recommendation{{Title: "Different advice"}}

	r := NewBuilder().
		WithRecommendations(override).
		WithValidation(sampleValidation()).
		Build()

	require.Len(t, r.Recommendations, 1)
	assert.Equal(t, "Different advice", r.Recommendations[0].Title)
	assert.Equal(t, "Different advice", r.Summary.TopRecommendation)
}

func TestWriteJSONRoundTrip(t *testing.T) {
	r := NewBuilder().WithValidation(sampleValidation()).Build()

	var buf strings.Builder
	require.NoError(t, r.WriteJSON(&buf))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(buf.String()), &decoded))

	summary, ok := decoded["summary"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "warning", summary["status"])
	assert.Equal(t, float64(1), summary["componentsPassed"])
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	r := NewBuilder().WithValidation(sampleValidation()).Build()

	var buf strings.Builder
	require.NoError(t, r.WriteYAML(&buf))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(buf.String()), &decoded))

	summary, ok := decoded["summary"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "warning", summary["status"])
	assert.Equal(t, 1, summary["componentsPassed"])
}
