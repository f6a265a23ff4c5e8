package pipeline

import (
	"fmt"

	"github.com/KlikkAI/verdict/pkg/checker"
	"github.com/KlikkAI/verdict/pkg/metrics"
)

// componentFn validates one section of the normalized bundle. Checks are
// read-only; a returned error marks the section unmeasured for the rest of
// the run.
type componentFn func(*checker.Normalized) (ComponentResult, error)

type component struct {
	name    string
	section checker.Section
	check   componentFn

	// remediation is the declared repair guidance surfaced when this
	// component's check fails mid-run.
	remediation []string
}

// phasePlan is the fixed execution order. Phases run sequentially; the
// components inside a phase run concurrently.
var phasePlan = []struct {
	phase      Phase
	components []component
}{
	{PhaseSystem, []component{
		{"unit-tests", checker.SectionTests, checkTests, []string{
			"Re-run the test suite to produce a fresh report",
			"Check the runner for truncated or inconsistent counts",
		}},
		{"api-checks", checker.SectionAPI, checkAPI, []string{
			"Re-run the API checks against a clean environment",
			"Verify the checker emitted a complete report",
		}},
		{"e2e-scenarios", checker.SectionE2E, checkE2E, []string{
			"Replay the E2E scenarios and regenerate the report",
			"Check the harness for partial output",
		}},
		{"build", checker.SectionBuild, checkBuild, []string{
			"Re-run the build with a clean cache",
			"Inspect the build report for truncated task counts",
		}},
	}},
	{PhasePerformance, []component{
		{"build-metrics", checker.SectionBuild, checkBuildMetrics, []string{
			"Verify cache and parallelism figures are reported as percentages",
			"Regenerate the build metrics",
		}},
		{"bundle-analysis", checker.SectionBundle, checkBundle, []string{
			"Re-run the bundle analyzer",
			"Check that chunk sizes are reported in KB",
		}},
		{"memory-profile", checker.SectionMemory, checkMemory, []string{
			"Capture a fresh memory profile",
			"Verify peak and average figures come from the same run",
		}},
		{"dev-experience", checker.SectionDevExperience, checkDevExperience, []string{
			"Re-run the editor responsiveness probes",
			"Check the probe output for negative timings",
		}},
	}},
	{PhaseArchitecture, []component{
		{"dependency-graph", checker.SectionDependencies, checkDependencies, []string{
			"Re-run the dependency scanner",
			"Verify the health score is on the 0-100 scale",
		}},
		{"code-organization", checker.SectionCodeOrganization, checkCodeOrganization, []string{
			"Re-run the organization scanner",
			"Verify the score is on the 0-100 scale",
		}},
		{"type-safety", checker.SectionTypeSafety, checkTypeSafety, []string{
			"Re-run the type-safety scan",
			"Check the scanner output for negative counts",
		}},
	}},
}

// remediationSteps returns the declared repair guidance for a component.
func remediationSteps(name string) []string {
	for _, plan := range phasePlan {
		for _, comp := range plan.components {
			if comp.name == name {
				return comp.remediation
			}
		}
	}
	return nil
}

func skipped(c component) ComponentResult {
	return ComponentResult{
		Name:    c.name,
		Section: c.section,
		Status:  ComponentSkipped,
		Summary: "section not measured",
	}
}

func checkTests(n *checker.Normalized) (ComponentResult, error) {
	r := ComponentResult{Name: "unit-tests", Section: checker.SectionTests}
	t := n.Tests
	if t.Total < 0 || t.Passed < 0 || t.Failed < 0 || t.Skipped < 0 {
		return r, fmt.Errorf("negative test counts: total=%d passed=%d failed=%d skipped=%d",
			t.Total, t.Passed, t.Failed, t.Skipped)
	}
	if t.Passed+t.Failed+t.Skipped > t.Total {
		return r, fmt.Errorf("test counts exceed total: %d+%d+%d > %d",
			t.Passed, t.Failed, t.Skipped, t.Total)
	}
	if t.Failed > 0 {
		r.Status = ComponentFailing
		r.Summary = fmt.Sprintf("%d of %d tests failed", t.Failed, t.Total)
		return r, nil
	}
	r.Status = ComponentPassed
	r.Summary = fmt.Sprintf("%d tests passed, %.1f%% coverage", t.Passed, t.CoveragePct)
	return r, nil
}

func checkAPI(n *checker.Normalized) (ComponentResult, error) {
	return checkRun("api-checks", checker.SectionAPI, n.API)
}

func checkE2E(n *checker.Normalized) (ComponentResult, error) {
	return checkRun("e2e-scenarios", checker.SectionE2E, n.E2E)
}

func checkRun(name string, section checker.Section, c checker.CheckReport) (ComponentResult, error) {
	r := ComponentResult{Name: name, Section: section}
	if c.Total < 0 || c.Passed < 0 || c.Failed < 0 {
		return r, fmt.Errorf("negative check counts: total=%d passed=%d failed=%d",
			c.Total, c.Passed, c.Failed)
	}
	if c.Passed+c.Failed > c.Total {
		return r, fmt.Errorf("check counts exceed total: %d+%d > %d", c.Passed, c.Failed, c.Total)
	}
	if c.Failed > 0 {
		r.Status = ComponentFailing
		r.Summary = fmt.Sprintf("%d of %d checks failed", c.Failed, c.Total)
		return r, nil
	}
	r.Status = ComponentPassed
	r.Summary = fmt.Sprintf("%d checks passed", c.Passed)
	return r, nil
}

func checkBuild(n *checker.Normalized) (ComponentResult, error) {
	r := ComponentResult{Name: "build", Section: checker.SectionBuild}
	b := n.Build
	if b.DurationSeconds < 0 {
		return r, fmt.Errorf("negative build duration: %g", b.DurationSeconds)
	}
	if b.TasksFailed > b.TasksTotal {
		return r, fmt.Errorf("failed tasks exceed total: %d > %d", b.TasksFailed, b.TasksTotal)
	}
	if !b.Succeeded || b.TasksFailed > 0 {
		r.Status = ComponentFailing
		r.Summary = fmt.Sprintf("build failed, %d of %d tasks", b.TasksFailed, b.TasksTotal)
		return r, nil
	}
	r.Status = ComponentPassed
	r.Summary = fmt.Sprintf("built %d tasks in %.1fs", b.TasksTotal, b.DurationSeconds)
	return r, nil
}

func checkBuildMetrics(n *checker.Normalized) (ComponentResult, error) {
	r := ComponentResult{Name: "build-metrics", Section: checker.SectionBuild}
	b := n.Build
	if b.CacheHitRatePct < 0 || b.CacheHitRatePct > 100 {
		return r, fmt.Errorf("cache hit rate out of range: %g", b.CacheHitRatePct)
	}
	if b.ParallelEfficiencyPct < 0 || b.ParallelEfficiencyPct > 100 {
		return r, fmt.Errorf("parallel efficiency out of range: %g", b.ParallelEfficiencyPct)
	}
	r.Status = ComponentPassed
	r.Summary = fmt.Sprintf("cache %.0f%%, parallel %.0f%%", b.CacheHitRatePct, b.ParallelEfficiencyPct)
	return r, nil
}

func checkBundle(n *checker.Normalized) (ComponentResult, error) {
	r := ComponentResult{Name: "bundle-analysis", Section: checker.SectionBundle}
	b := n.Bundle
	if b.TotalSizeKB < 0 || b.InitialChunkKB < 0 {
		return r, fmt.Errorf("negative bundle size: total=%g initial=%g", b.TotalSizeKB, b.InitialChunkKB)
	}
	if b.InitialChunkKB > b.TotalSizeKB {
		return r, fmt.Errorf("initial chunk exceeds total: %g > %g", b.InitialChunkKB, b.TotalSizeKB)
	}
	r.Status = ComponentPassed
	r.Summary = fmt.Sprintf("bundle %.0fKB, initial chunk %.0fKB", b.TotalSizeKB, b.InitialChunkKB)
	return r, nil
}

func checkMemory(n *checker.Normalized) (ComponentResult, error) {
	r := ComponentResult{Name: "memory-profile", Section: checker.SectionMemory}
	m := n.Memory
	if m.PeakMB < 0 || m.AverageMB < 0 {
		return r, fmt.Errorf("negative memory figures: peak=%g average=%g", m.PeakMB, m.AverageMB)
	}
	if m.AverageMB > m.PeakMB {
		return r, fmt.Errorf("average memory exceeds peak: %g > %g", m.AverageMB, m.PeakMB)
	}
	if len(m.SuspectedLeaks) > 0 {
		r.Status = ComponentFailing
		r.Summary = fmt.Sprintf("%d suspected leaks, peak %.0fMB", len(m.SuspectedLeaks), m.PeakMB)
		return r, nil
	}
	r.Status = ComponentPassed
	r.Summary = fmt.Sprintf("peak %.0fMB, average %.0fMB", m.PeakMB, m.AverageMB)
	return r, nil
}

func checkDevExperience(n *checker.Normalized) (ComponentResult, error) {
	r := ComponentResult{Name: "dev-experience", Section: checker.SectionDevExperience}
	d := n.DevExperience
	if d.CompileTimeSeconds < 0 || d.AutocompleteLatencyMS < 0 || d.IndexingTimeSeconds < 0 {
		return r, fmt.Errorf("negative timings: compile=%g autocomplete=%g indexing=%g",
			d.CompileTimeSeconds, d.AutocompleteLatencyMS, d.IndexingTimeSeconds)
	}
	r.Status = ComponentPassed
	r.Summary = fmt.Sprintf("compile %.1fs, autocomplete %.0fms", d.CompileTimeSeconds, d.AutocompleteLatencyMS)
	return r, nil
}

func checkDependencies(n *checker.Normalized) (ComponentResult, error) {
	r := ComponentResult{Name: "dependency-graph", Section: checker.SectionDependencies}
	d := n.Dependencies
	if d.HealthScore < 0 || d.HealthScore > 100 {
		return r, fmt.Errorf("health score out of range: %g", d.HealthScore)
	}
	if len(d.CircularDependencies) > 0 {
		r.Status = ComponentFailing
		r.Summary = fmt.Sprintf("%d circular dependencies, health %.0f", len(d.CircularDependencies), d.HealthScore)
		return r, nil
	}
	r.Status = ComponentPassed
	r.Summary = fmt.Sprintf("health %.0f, %d outdated dependencies", d.HealthScore, d.OutdatedCount)
	return r, nil
}

func checkCodeOrganization(n *checker.Normalized) (ComponentResult, error) {
	r := ComponentResult{Name: "code-organization", Section: checker.SectionCodeOrganization}
	c := n.CodeOrganization
	if c.Score < 0 || c.Score > 100 {
		return r, fmt.Errorf("organization score out of range: %g", c.Score)
	}
	r.Status = ComponentPassed
	r.Summary = fmt.Sprintf("score %.0f, %d misplaced files", c.Score, len(c.MisplacedFiles))
	return r, nil
}

func checkTypeSafety(n *checker.Normalized) (ComponentResult, error) {
	r := ComponentResult{Name: "type-safety", Section: checker.SectionTypeSafety}
	t := n.TypeSafety
	if t.AnyUsageCount < 0 || t.TypeErrorCount < 0 || t.UntypedExports < 0 {
		return r, fmt.Errorf("negative type-safety counts: any=%d errors=%d untyped=%d",
			t.AnyUsageCount, t.TypeErrorCount, t.UntypedExports)
	}
	if t.TypeErrorCount > 0 {
		r.Status = ComponentFailing
		r.Summary = fmt.Sprintf("%d type errors", t.TypeErrorCount)
		return r, nil
	}
	r.Status = ComponentPassed
	r.Summary = fmt.Sprintf("strict=%t, %d untyped usages", t.StrictModeEnabled, t.AnyUsageCount)
	return r, nil
}

// buildSnapshot projects the measured sections onto the metric snapshot.
// Unmeasured sections leave their metrics at zero.
func buildSnapshot(n *checker.Normalized, meta metrics.Meta) metrics.Snapshot {
	s := metrics.Snapshot{Meta: meta}
	if n.Has(checker.SectionBuild) {
		s.BuildTime = n.Build.DurationSeconds
		s.CacheHitRate = n.Build.CacheHitRatePct
		s.ParallelEfficiency = n.Build.ParallelEfficiencyPct
	}
	if n.Has(checker.SectionBundle) {
		s.BundleSize = n.Bundle.TotalSizeKB
	}
	if n.Has(checker.SectionTests) {
		s.TestCoverage = n.Tests.CoveragePct
	}
	if n.Has(checker.SectionMemory) {
		s.MemoryUsage = n.Memory.PeakMB
	}
	if n.Has(checker.SectionDependencies) {
		s.ArchitectureHealth = n.Dependencies.HealthScore
	}
	if n.Has(checker.SectionDevExperience) {
		s.CompileTime = n.DevExperience.CompileTimeSeconds
		s.AutocompleteLatency = n.DevExperience.AutocompleteLatencyMS
	}
	return s.Sanitized()
}
