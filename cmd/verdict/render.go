package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KlikkAI/verdict/internal/output"
	"github.com/KlikkAI/verdict/pkg/analyzer/benchmark"
	"github.com/KlikkAI/verdict/pkg/analyzer/recommend"
	"github.com/KlikkAI/verdict/pkg/analyzer/regression"
	"github.com/KlikkAI/verdict/pkg/analyzer/trend"
	"github.com/KlikkAI/verdict/pkg/history"
	"github.com/KlikkAI/verdict/pkg/metrics"
	"github.com/KlikkAI/verdict/pkg/pipeline"
)

func renderValidation(result *pipeline.ValidationResult) *output.Document {
	doc := &output.Document{
		Title: fmt.Sprintf("Validation %s", result.RunID),
		Data:  result,
	}

	var rows [][]string
	for _, pr := range result.Phases {
		for _, cr := range pr.Components {
			rows = append(rows, []string{
				string(pr.Phase),
				cr.Name,
				output.StatusColor(string(cr.Status), string(cr.Status)),
				cr.Summary,
			})
		}
	}
	doc.Sections = append(doc.Sections, output.NewTable(
		"Components",
		[]string{"Phase", "Component", "Status", "Summary"},
		rows,
		nil,
		nil,
	))

	if len(result.Errors) > 0 {
		var errRows [][]string
		for _, e := range result.Errors {
			errRows = append(errRows, []string{
				output.StatusColor(string(e.Severity), string(e.Severity)),
				string(e.Phase),
				e.Component,
				e.Message,
			})
		}
		doc.Sections = append(doc.Sections, output.NewTable(
			"Errors",
			[]string{"Severity", "Phase", "Component", "Message"},
			errRows,
			nil,
			nil,
		))
	}

	if len(result.Recommendations) > 0 {
		doc.Sections = append(doc.Sections, renderRecommendations(result.Recommendations))
	}

	status := &output.Section{
		Title: "Outcome",
		Content: fmt.Sprintf("status: %s\nnext steps:\n  - %s",
			output.StatusColor(string(result.Status), string(result.Status)),
			strings.Join(result.NextSteps, "\n  - ")),
	}
	doc.Sections = append(doc.Sections, status)
	return doc
}

func renderTrends(trends []trend.Trend) *output.Table {
	rows := make([][]string, len(trends))
	for i, t := range trends {
		rows[i] = []string{
			t.Metric.String(),
			output.StatusColor(string(t.Direction), string(t.Direction)),
			fmt.Sprintf("%+.3f/day", t.ChangePerDay),
			fmt.Sprintf("%.2f", t.Confidence),
			string(t.Significance),
			strconv.Itoa(t.SampleCount),
		}
	}
	return output.NewTable(
		"Metric Trends",
		[]string{"Metric", "Direction", "Rate", "Confidence", "Significance", "Samples"},
		rows,
		nil,
		trends,
	)
}

func renderRegressions(regs []regression.Regression) *output.Table {
	rows := make([][]string, len(regs))
	for i, r := range regs {
		rows[i] = []string{
			r.Metric.String(),
			output.StatusColor(r.Severity.String(), r.Severity.String()),
			fmt.Sprintf("%.2f", r.BaselineValue),
			fmt.Sprintf("%.2f", r.RecentValue),
			fmt.Sprintf("%+.1f%%", r.ChangePct),
		}
	}
	return output.NewTable(
		"Regressions",
		[]string{"Metric", "Severity", "Baseline", "Recent", "Change"},
		rows,
		nil,
		regs,
	)
}

func renderStats(stats []history.Stats) *output.Table {
	rows := make([][]string, len(stats))
	for i, s := range stats {
		rows[i] = []string{
			s.Metric.String(),
			strconv.Itoa(s.Count),
			fmt.Sprintf("%.2f", s.Min),
			fmt.Sprintf("%.2f", s.Max),
			fmt.Sprintf("%.2f", s.Mean),
			fmt.Sprintf("%.2f", s.Median),
			fmt.Sprintf("%.2f", s.P95),
			fmt.Sprintf("%.2f", s.StdDev),
		}
	}
	return output.NewTable(
		"Metric Statistics",
		[]string{"Metric", "Count", "Min", "Max", "Mean", "Median", "P95", "StdDev"},
		rows,
		nil,
		stats,
	)
}

func renderBenchmark(result *benchmark.Result) *output.Document {
	var rows [][]string
	for _, m := range metrics.All() {
		if _, ok := result.Scores[m]; !ok {
			continue
		}
		rows = append(rows, []string{
			m.String(),
			fmt.Sprintf("%.2f", result.Results[m]),
			fmt.Sprintf("%.1f", result.Scores[m]),
		})
	}

	passed := "failed"
	if result.Passed {
		passed = "passed"
	}
	return &output.Document{
		Title: fmt.Sprintf("Benchmark %s", result.ConfigName),
		Data:  result,
		Sections: []output.Renderable{
			output.NewTable("Scores", []string{"Metric", "Value", "Score"}, rows, nil, nil),
			&output.Section{
				Title: "Overall",
				Content: fmt.Sprintf("score: %.1f  grade: %s  targets: %s  id: %s",
					result.Overall, result.Grade, passed, result.ID),
			},
		},
	}
}

func renderComparison(cmp *benchmark.Comparison) *output.Document {
	row := func(c benchmark.MetricChange) []string {
		return []string{
			c.Metric.String(),
			fmt.Sprintf("%.2f", c.Baseline),
			fmt.Sprintf("%.2f", c.Current),
			fmt.Sprintf("%+.1f%%", c.ChangePct),
		}
	}
	headers := []string{"Metric", "Baseline", "Current", "Change"}

	doc := &output.Document{
		Title: fmt.Sprintf("Benchmark comparison (%s)", cmp.ConfigName),
		Data:  cmp,
	}
	if len(cmp.Improvements) > 0 {
		rows := make([][]string, len(cmp.Improvements))
		for i, c := range cmp.Improvements {
			rows[i] = row(c)
		}
		doc.Sections = append(doc.Sections, output.NewTable("Improvements", headers, rows, nil, nil))
	}
	if len(cmp.Regressions) > 0 {
		rows := make([][]string, len(cmp.Regressions))
		for i, c := range cmp.Regressions {
			rows[i] = row(c)
		}
		doc.Sections = append(doc.Sections, output.NewTable("Regressions", headers, rows, nil, nil))
	}
	doc.Sections = append(doc.Sections, &output.Section{
		Title:   "Summary",
		Content: fmt.Sprintf("%s\nscore delta: %+.1f", cmp.Summary, cmp.ScoreDelta),
	})
	return doc
}

func renderRecommendations(recs []recommend.Recommendation) *output.Table {
	rows := make([][]string, len(recs))
	for i, r := range recs {
		rows[i] = []string{
			output.StatusColor(r.Priority.String(), r.Priority.String()),
			string(r.Category),
			r.Title,
			r.Effort.String(),
		}
	}
	return output.NewTable(
		"Recommendations",
		[]string{"Priority", "Category", "Title", "Effort"},
		rows,
		nil,
		recs,
	)
}
