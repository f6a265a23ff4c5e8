package regression

import "github.com/KlikkAI/verdict/pkg/metrics"

// Candidate causes and remediation steps, templated per metric. These are
// starting points for investigation, not diagnoses.

var causeTemplates = map[metrics.Metric][]string{
	metrics.BuildTime: {
		"New or updated dependencies increased install/compile work",
		"Build cache invalidation or misconfiguration",
		"Recently added build steps or plugins",
	},
	metrics.BundleSize: {
		"Large dependency added to a production bundle",
		"Tree-shaking or code-splitting regression",
		"Assets accidentally included in the bundle",
	},
	metrics.TestCoverage: {
		"New code landed without accompanying tests",
		"Tests deleted or skipped",
		"Coverage instrumentation excluded new packages",
	},
	metrics.MemoryUsage: {
		"Memory leak in recently changed code",
		"Larger data sets processed in-memory",
		"Caching layer holding more entries than intended",
	},
	metrics.CacheHitRate: {
		"Cache keys changed, invalidating prior entries",
		"Inputs vary per run (timestamps, absolute paths) and defeat caching",
		"Cache storage evicting entries too aggressively",
	},
	metrics.ParallelEfficiency: {
		"New serial bottleneck in the task graph",
		"Task dependency changes reduced available parallelism",
		"Resource contention (CPU/IO) between parallel tasks",
	},
	metrics.ArchitectureHealth: {
		"New circular dependencies between packages",
		"Module boundaries crossed by recent changes",
		"Growing unused or misplaced exports",
	},
	metrics.CompileTime: {
		"Type complexity increased (large unions, deep generics)",
		"Project references or incremental compilation disabled",
		"New compiler plugins or transforms",
	},
	metrics.AutocompleteLatency: {
		"Language server working set grew substantially",
		"Type complexity slowing editor tooling",
		"Editor plugin or indexing changes",
	},
}

var remediationTemplates = map[metrics.Metric][]string{
	metrics.BuildTime: {
		"Review dependency changes since the baseline window",
		"Verify build cache configuration and hit rates",
		"Profile the build to find the slowest new step",
	},
	metrics.BundleSize: {
		"Run a bundle analysis and diff against the baseline",
		"Lazy-load or split the largest new chunks",
		"Replace heavyweight dependencies with lighter alternatives",
	},
	metrics.TestCoverage: {
		"Identify untested code added since the baseline",
		"Re-enable skipped suites and restore deleted tests",
		"Add coverage gates to the affected packages",
	},
	metrics.MemoryUsage: {
		"Capture heap profiles before and after the change window",
		"Audit caches and long-lived references in changed code",
		"Stream or batch large data sets instead of loading whole",
	},
	metrics.CacheHitRate: {
		"Inspect cache keys for run-to-run variance",
		"Pin tool versions so cache keys stay stable",
		"Increase cache retention if eviction is premature",
	},
	metrics.ParallelEfficiency: {
		"Inspect the task graph for new serial chains",
		"Split oversized tasks so the scheduler can overlap them",
		"Check runner resource limits against task demands",
	},
	metrics.ArchitectureHealth: {
		"Break newly introduced dependency cycles",
		"Restore module boundaries violated by recent changes",
		"Remove or relocate misplaced exports",
	},
	metrics.CompileTime: {
		"Profile compilation to find expensive files or types",
		"Enable incremental compilation and project references",
		"Simplify the heaviest type-level constructs",
	},
	metrics.AutocompleteLatency: {
		"Reduce the language server's working set via project references",
		"Profile editor tooling against the slowest files",
		"Disable recently added editor plugins to isolate the cause",
	},
}

func causesFor(m metrics.Metric) []string {
	return append([]string(nil), causeTemplates[m]...)
}

func remediationFor(m metrics.Metric) []string {
	return append([]string(nil), remediationTemplates[m]...)
}
