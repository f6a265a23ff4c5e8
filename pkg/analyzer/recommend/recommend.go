package recommend

import (
	"fmt"

	"github.com/KlikkAI/verdict/pkg/checker"
)

// Thresholds control when checks fire. "Good" marks the start of
// concerning territory, "poor" the point where a finding escalates.
type Thresholds struct {
	BuildTimeGoodSeconds float64
	BuildTimePoorSeconds float64
	CacheHitRateMinPct   float64
	ParallelEffMinPct    float64
	BundleGoodKB         float64
	BundlePoorKB         float64
	MemoryGoodMB         float64
	MemoryPoorMB         float64
	CoverageMinPct       float64
	CoverageCriticalPct  float64
	CompileGoodSeconds   float64
	CompilePoorSeconds   float64
	AutocompleteGoodMS   float64
	AutocompletePoorMS   float64
	HealthScoreMinimum   float64
	OrganizationMinimum  float64
	AnyUsageMaximum      int
}

// DefaultThresholds returns the fixed threshold table used when no
// overrides are configured.
func DefaultThresholds() Thresholds {
	return Thresholds{
		BuildTimeGoodSeconds: 120,
		BuildTimePoorSeconds: 300,
		CacheHitRateMinPct:   70,
		ParallelEffMinPct:    60,
		BundleGoodKB:         5120,
		BundlePoorKB:         10240,
		MemoryGoodMB:         2048,
		MemoryPoorMB:         4096,
		CoverageMinPct:       80,
		CoverageCriticalPct:  60,
		CompileGoodSeconds:   60,
		CompilePoorSeconds:   120,
		AutocompleteGoodMS:   500,
		AutocompletePoorMS:   1000,
		HealthScoreMinimum:   70,
		OrganizationMinimum:  70,
		AnyUsageMaximum:      50,
	}
}

// Engine runs the full set of category checks. Every check is independent
// and side-effect-free; the engine only aggregates and orders their output.
type Engine struct {
	thresholds Thresholds
}

// Option configures the Engine.
type Option func(*Engine)

// WithThresholds overrides the default threshold table.
func WithThresholds(t Thresholds) Option {
	return func(e *Engine) {
		e.thresholds = t
	}
}

// New creates a recommendation engine.
func New(opts ...Option) *Engine {
	e := &Engine{thresholds: DefaultThresholds()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type check func(*checker.Normalized) []Recommendation

// Generate scans all measured categories and returns recommendations
// ordered by priority descending, then effort ascending. Unmeasured
// sections produce no findings.
func (e *Engine) Generate(n *checker.Normalized) []Recommendation {
	checks := []check{
		e.checkBuild,
		e.checkBundle,
		e.checkMemory,
		e.checkDevExperience,
		e.checkTests,
		e.checkAPIandE2E,
		e.checkDependencies,
		e.checkCodeOrganization,
		e.checkTypeSafety,
	}

	var recs []Recommendation
	for _, c := range checks {
		recs = append(recs, c(n)...)
	}
	Sort(recs)
	return recs
}

func (e *Engine) checkBuild(n *checker.Normalized) []Recommendation {
	if !n.Has(checker.SectionBuild) {
		return nil
	}
	var recs []Recommendation
	b := n.Build

	switch {
	case b.DurationSeconds > e.thresholds.BuildTimePoorSeconds:
		recs = append(recs, Recommendation{
			Category:    CategoryBuild,
			Priority:    PriorityCritical,
			Title:       "Build time far exceeds acceptable bounds",
			Description: fmt.Sprintf("Full builds take %.0fs, past the %.0fs limit.", b.DurationSeconds, e.thresholds.BuildTimePoorSeconds),
			Impact:      "Every developer and CI run pays this cost; slow feedback compounds across the team.",
			Effort:      EffortMedium,
			Steps: []string{
				"Profile the build to identify the slowest tasks",
				"Enable or repair remote caching",
				"Split oversized packages so tasks can run in parallel",
			},
		})
	case b.DurationSeconds > e.thresholds.BuildTimeGoodSeconds:
		recs = append(recs, Recommendation{
			Category:    CategoryBuild,
			Priority:    PriorityMedium,
			Title:       "Build time trending past target",
			Description: fmt.Sprintf("Full builds take %.0fs against a %.0fs target.", b.DurationSeconds, e.thresholds.BuildTimeGoodSeconds),
			Impact:      "Feedback loops are noticeably slower than they should be.",
			Effort:      EffortLow,
			Steps: []string{
				"Review recently added build steps",
				"Check cache hit rates for frequently rebuilt packages",
			},
		})
	}

	if b.CacheHitRatePct < e.thresholds.CacheHitRateMinPct {
		recs = append(recs, Recommendation{
			Category:    CategoryBuild,
			Priority:    PriorityHigh,
			Title:       "Build cache hit rate is low",
			Description: fmt.Sprintf("Cache hit rate is %.0f%%, below the %.0f%% minimum.", b.CacheHitRatePct, e.thresholds.CacheHitRateMinPct),
			Impact:      "Work is being rebuilt that could be served from cache.",
			Effort:      EffortLow,
			Steps: []string{
				"Audit cache keys for per-run variance (timestamps, absolute paths)",
				"Verify the remote cache is reachable from CI runners",
			},
		})
	}

	if b.ParallelEfficiencyPct < e.thresholds.ParallelEffMinPct {
		recs = append(recs, Recommendation{
			Category:    CategoryBuild,
			Priority:    PriorityMedium,
			Title:       "Task graph parallelism is underused",
			Description: fmt.Sprintf("Parallel efficiency is %.0f%%, below the %.0f%% minimum.", b.ParallelEfficiencyPct, e.thresholds.ParallelEffMinPct),
			Impact:      "Builds take longer than the critical path requires.",
			Effort:      EffortMedium,
			Steps: []string{
				"Find serial chains in the task graph",
				"Break up tasks that serialize large portions of the build",
			},
		})
	}

	if b.TasksFailed > 0 {
		recs = append(recs, Recommendation{
			Category:    CategoryBuild,
			Priority:    PriorityCritical,
			Title:       "Build tasks are failing",
			Description: fmt.Sprintf("%d of %d build tasks failed.", b.TasksFailed, b.TasksTotal),
			Impact:      "The monorepo cannot produce complete artifacts.",
			Effort:      EffortMedium,
			Steps:       []string{"Inspect the failing task logs", "Fix or quarantine the failing tasks"},
			Packages:    b.FailedTasks,
		})
	}
	return recs
}

func (e *Engine) checkBundle(n *checker.Normalized) []Recommendation {
	if !n.Has(checker.SectionBundle) {
		return nil
	}
	b := n.Bundle

	var packages []string
	for _, p := range b.LargestPackages {
		packages = append(packages, p.Name)
	}

	switch {
	case b.TotalSizeKB > e.thresholds.BundlePoorKB:
		return []Recommendation{{
			Category:    CategoryPerformance,
			Priority:    PriorityCritical,
			Title:       "Bundle size far exceeds budget",
			Description: fmt.Sprintf("Total bundle is %.0fKB against a %.0fKB hard limit.", b.TotalSizeKB, e.thresholds.BundlePoorKB),
			Impact:      "Page loads and deploys are significantly slower for every user.",
			Effort:      EffortHigh,
			Steps: []string{
				"Diff the bundle analysis against the last passing run",
				"Code-split the largest entry points",
				"Replace or lazy-load the heaviest dependencies",
			},
			Packages: packages,
		}}
	case b.TotalSizeKB > e.thresholds.BundleGoodKB:
		return []Recommendation{{
			Category:    CategoryPerformance,
			Priority:    PriorityMedium,
			Title:       "Bundle size over target",
			Description: fmt.Sprintf("Total bundle is %.0fKB against a %.0fKB target.", b.TotalSizeKB, e.thresholds.BundleGoodKB),
			Impact:      "Load times are drifting upward.",
			Effort:      EffortMedium,
			Steps: []string{
				"Review the largest packages in the bundle report",
				"Confirm tree-shaking still removes unused exports",
			},
			Packages: packages,
		}}
	}
	return nil
}

func (e *Engine) checkMemory(n *checker.Normalized) []Recommendation {
	if !n.Has(checker.SectionMemory) {
		return nil
	}
	m := n.Memory

	var recs []Recommendation
	switch {
	case m.PeakMB > e.thresholds.MemoryPoorMB:
		recs = append(recs, Recommendation{
			Category:    CategoryPerformance,
			Priority:    PriorityHigh,
			Title:       "Peak memory usage is excessive",
			Description: fmt.Sprintf("Peak memory reached %.0fMB against a %.0fMB limit.", m.PeakMB, e.thresholds.MemoryPoorMB),
			Impact:      "Runs risk OOM kills on standard CI runners.",
			Effort:      EffortMedium,
			Steps: []string{
				"Capture a heap profile at peak",
				"Stream large inputs instead of materializing them",
			},
		})
	case m.PeakMB > e.thresholds.MemoryGoodMB:
		recs = append(recs, Recommendation{
			Category:    CategoryPerformance,
			Priority:    PriorityMedium,
			Title:       "Peak memory usage over target",
			Description: fmt.Sprintf("Peak memory reached %.0fMB against a %.0fMB target.", m.PeakMB, e.thresholds.MemoryGoodMB),
			Impact:      "Headroom on CI runners is shrinking.",
			Effort:      EffortLow,
			Steps:       []string{"Compare heap profiles against the last passing run"},
		})
	}

	if len(m.SuspectedLeaks) > 0 {
		recs = append(recs, Recommendation{
			Category:    CategoryPerformance,
			Priority:    PriorityHigh,
			Title:       "Suspected memory leaks detected",
			Description: fmt.Sprintf("%d allocation sites show unbounded growth.", len(m.SuspectedLeaks)),
			Impact:      "Long-running processes will degrade or crash.",
			Effort:      EffortMedium,
			Steps:       []string{"Review the suspected leak sites", "Add retention tests around the offending caches"},
			Packages:    m.SuspectedLeaks,
		})
	}
	return recs
}

func (e *Engine) checkDevExperience(n *checker.Normalized) []Recommendation {
	if !n.Has(checker.SectionDevExperience) {
		return nil
	}
	d := n.DevExperience

	var recs []Recommendation
	switch {
	case d.CompileTimeSeconds > e.thresholds.CompilePoorSeconds:
		recs = append(recs, Recommendation{
			Category:    CategoryDevExperience,
			Priority:    PriorityHigh,
			Title:       "Type checking is very slow",
			Description: fmt.Sprintf("Full compilation takes %.0fs against a %.0fs limit.", d.CompileTimeSeconds, e.thresholds.CompilePoorSeconds),
			Impact:      "Editor feedback and CI type checks drag on every change.",
			Effort:      EffortMedium,
			Steps: []string{
				"Enable incremental compilation and project references",
				"Profile the compiler to find expensive files",
			},
		})
	case d.CompileTimeSeconds > e.thresholds.CompileGoodSeconds:
		recs = append(recs, Recommendation{
			Category:    CategoryDevExperience,
			Priority:    PriorityMedium,
			Title:       "Type checking slower than target",
			Description: fmt.Sprintf("Full compilation takes %.0fs against a %.0fs target.", d.CompileTimeSeconds, e.thresholds.CompileGoodSeconds),
			Impact:      "Feedback loops are noticeably slower than they should be.",
			Effort:      EffortLow,
			Steps:       []string{"Review recently added heavy type-level constructs"},
		})
	}

	switch {
	case d.AutocompleteLatencyMS > e.thresholds.AutocompletePoorMS:
		recs = append(recs, Recommendation{
			Category:    CategoryDevExperience,
			Priority:    PriorityHigh,
			Title:       "Autocomplete latency is disruptive",
			Description: fmt.Sprintf("Autocomplete responds in %.0fms against a %.0fms limit.", d.AutocompleteLatencyMS, e.thresholds.AutocompletePoorMS),
			Impact:      "Editing flow is interrupted constantly across the team.",
			Effort:      EffortMedium,
			Steps: []string{
				"Reduce the language server working set via project references",
				"Identify files that stall the language server",
			},
		})
	case d.AutocompleteLatencyMS > e.thresholds.AutocompleteGoodMS:
		recs = append(recs, Recommendation{
			Category:    CategoryDevExperience,
			Priority:    PriorityLow,
			Title:       "Autocomplete latency over target",
			Description: fmt.Sprintf("Autocomplete responds in %.0fms against a %.0fms target.", d.AutocompleteLatencyMS, e.thresholds.AutocompleteGoodMS),
			Impact:      "Editor responsiveness is drifting.",
			Effort:      EffortLow,
			Steps:       []string{"Track latency across the next few runs to confirm the trend"},
		})
	}
	return recs
}

func (e *Engine) checkTests(n *checker.Normalized) []Recommendation {
	if !n.Has(checker.SectionTests) {
		return nil
	}
	t := n.Tests

	var recs []Recommendation
	if t.Failed > 0 {
		recs = append(recs, Recommendation{
			Category:    CategoryBuild,
			Priority:    PriorityCritical,
			Title:       "Unit tests are failing",
			Description: fmt.Sprintf("%d of %d tests failed.", t.Failed, t.Total),
			Impact:      "The validation run cannot vouch for correctness.",
			Effort:      EffortMedium,
			Steps:       []string{"Fix or quarantine the failing suites", "Block merges until green"},
			Packages:    t.FailedSuites,
		})
	}

	switch {
	case t.CoveragePct < e.thresholds.CoverageCriticalPct:
		recs = append(recs, Recommendation{
			Category:    CategoryBuild,
			Priority:    PriorityHigh,
			Title:       "Test coverage is critically low",
			Description: fmt.Sprintf("Coverage is %.0f%%, below the %.0f%% floor.", t.CoveragePct, e.thresholds.CoverageCriticalPct),
			Impact:      "Large portions of the codebase change without any safety net.",
			Effort:      EffortHigh,
			Steps: []string{
				"Identify the least-covered packages",
				"Require tests for new code in those packages",
			},
		})
	case t.CoveragePct < e.thresholds.CoverageMinPct:
		recs = append(recs, Recommendation{
			Category:    CategoryBuild,
			Priority:    PriorityMedium,
			Title:       "Test coverage below target",
			Description: fmt.Sprintf("Coverage is %.0f%%, below the %.0f%% target.", t.CoveragePct, e.thresholds.CoverageMinPct),
			Impact:      "Regression risk grows with every untested change.",
			Effort:      EffortMedium,
			Steps:       []string{"Add coverage gates on the least-covered packages"},
		})
	}
	return recs
}

func (e *Engine) checkAPIandE2E(n *checker.Normalized) []Recommendation {
	var recs []Recommendation
	if n.Has(checker.SectionAPI) && n.API.Failed > 0 {
		recs = append(recs, Recommendation{
			Category:    CategoryBuild,
			Priority:    PriorityCritical,
			Title:       "API checks are failing",
			Description: fmt.Sprintf("%d of %d API checks failed.", n.API.Failed, n.API.Total),
			Impact:      "Service contracts consumed by other teams may be broken.",
			Effort:      EffortMedium,
			Steps:       []string{"Inspect the failing endpoints", "Verify recent contract changes were intentional"},
			Packages:    n.API.Failures,
		})
	}
	if n.Has(checker.SectionE2E) && n.E2E.Failed > 0 {
		recs = append(recs, Recommendation{
			Category:    CategoryBuild,
			Priority:    PriorityHigh,
			Title:       "End-to-end scenarios are failing",
			Description: fmt.Sprintf("%d of %d E2E scenarios failed.", n.E2E.Failed, n.E2E.Total),
			Impact:      "User-visible flows may be broken in production.",
			Effort:      EffortMedium,
			Steps:       []string{"Replay the failing scenarios locally", "Check for environment-specific flakiness"},
			Packages:    n.E2E.Failures,
		})
	}
	return recs
}

func (e *Engine) checkDependencies(n *checker.Normalized) []Recommendation {
	if !n.Has(checker.SectionDependencies) {
		return nil
	}
	d := n.Dependencies

	var recs []Recommendation
	if len(d.CircularDependencies) > 0 {
		recs = append(recs, Recommendation{
			Category:    CategoryArchitecture,
			Priority:    PriorityHigh,
			Title:       "Circular dependencies between packages",
			Description: fmt.Sprintf("%d dependency cycles were detected.", len(d.CircularDependencies)),
			Impact:      "Cycles block incremental builds and make packages impossible to extract.",
			Effort:      EffortHigh,
			Steps: []string{
				"Break each cycle by extracting the shared pieces",
				"Add a lint rule preventing new cycles",
			},
			Packages: d.CircularDependencies,
		})
	}
	if d.HealthScore < e.thresholds.HealthScoreMinimum {
		recs = append(recs, Recommendation{
			Category:    CategoryArchitecture,
			Priority:    PriorityMedium,
			Title:       "Architecture health score below target",
			Description: fmt.Sprintf("Health score is %.0f against a %.0f target.", d.HealthScore, e.thresholds.HealthScoreMinimum),
			Impact:      "Structural debt is accumulating faster than it is paid down.",
			Effort:      EffortMedium,
			Steps:       []string{"Review boundary violations flagged by the dependency scanner"},
			Packages:    d.BoundaryViolations,
		})
	}
	return recs
}

func (e *Engine) checkCodeOrganization(n *checker.Normalized) []Recommendation {
	if !n.Has(checker.SectionCodeOrganization) {
		return nil
	}
	c := n.CodeOrganization
	if c.Score >= e.thresholds.OrganizationMinimum && len(c.MisplacedFiles) == 0 {
		return nil
	}
	return []Recommendation{{
		Category:    CategoryArchitecture,
		Priority:    PriorityLow,
		Title:       "Code organization drifting from conventions",
		Description: fmt.Sprintf("Organization score is %.0f; %d files are misplaced.", c.Score, len(c.MisplacedFiles)),
		Impact:      "Navigation and ownership get harder as placement erodes.",
		Effort:      EffortLow,
		Steps:       []string{"Move the flagged files to their conventional locations"},
		Packages:    append(append([]string(nil), c.MisplacedFiles...), c.OversizedPackages...),
	}}
}

func (e *Engine) checkTypeSafety(n *checker.Normalized) []Recommendation {
	if !n.Has(checker.SectionTypeSafety) {
		return nil
	}
	t := n.TypeSafety

	var recs []Recommendation
	if t.TypeErrorCount > 0 {
		recs = append(recs, Recommendation{
			Category:    CategoryDevExperience,
			Priority:    PriorityCritical,
			Title:       "Type errors present in the codebase",
			Description: fmt.Sprintf("%d type errors were reported.", t.TypeErrorCount),
			Impact:      "Type checking no longer guards the affected packages.",
			Effort:      EffortMedium,
			Steps:       []string{"Fix the reported type errors", "Fail CI on any new type error"},
		})
	}
	if !t.StrictModeEnabled {
		recs = append(recs, Recommendation{
			Category:    CategoryDevExperience,
			Priority:    PriorityMedium,
			Title:       "Strict type checking is disabled",
			Description: "The compiler runs without strict mode.",
			Impact:      "Entire classes of bugs pass type checking silently.",
			Effort:      EffortHigh,
			Steps:       []string{"Enable strict mode package by package", "Burn down the resulting error list incrementally"},
		})
	}
	if t.AnyUsageCount > e.thresholds.AnyUsageMaximum {
		recs = append(recs, Recommendation{
			Category:    CategoryDevExperience,
			Priority:    PriorityLow,
			Title:       "Untyped escape hatches are spreading",
			Description: fmt.Sprintf("%d uses of untyped escape hatches exceed the %d allowance.", t.AnyUsageCount, e.thresholds.AnyUsageMaximum),
			Impact:      "Type coverage erodes gradually as untyped code spreads.",
			Effort:      EffortLow,
			Steps:       []string{"Lint against new untyped usages", "Type the most-imported untyped modules first"},
		})
	}
	return recs
}
