package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KlikkAI/verdict/pkg/checker"
)

// healthyBundle builds a fully-measured bundle where every category sits
// comfortably inside its thresholds.
func healthyBundle() *checker.Bundle {
	return &checker.Bundle{
		Tests:         &checker.TestReport{Total: 200, Passed: 200, CoveragePct: 85},
		API:           &checker.CheckReport{Total: 40, Passed: 40},
		E2E:           &checker.CheckReport{Total: 12, Passed: 12},
		Build:         &checker.BuildReport{Succeeded: true, DurationSeconds: 90, CacheHitRatePct: 85, ParallelEfficiencyPct: 75, TasksTotal: 50},
		Bundle:        &checker.BundleReport{TotalSizeKB: 3000},
		Memory:        &checker.MemoryReport{PeakMB: 1500, AverageMB: 900},
		DevExperience: &checker.DevExperienceReport{CompileTimeSeconds: 40, AutocompleteLatencyMS: 300},
		Dependencies:  &checker.DependencyReport{HealthScore: 85},
		CodeOrganization: &checker.CodeOrganizationReport{
			Score: 90,
		},
		TypeSafety: &checker.TypeSafetyReport{StrictModeEnabled: true, AnyUsageCount: 10},
	}
}

func TestGenerateHealthyRepoNoFindings(t *testing.T) {
	recs := New().Generate(healthyBundle().Normalize())
	assert.Empty(t, recs)
}

func TestGenerateSkipsUnmeasuredSections(t *testing.T) {
	// Zero values everywhere would trip nearly every check if sections
	// were not gated on measurement.
	recs := New().Generate((&checker.Bundle{}).Normalize())
	assert.Empty(t, recs)
}

func TestGenerateOrdering(t *testing.T) {
	b := healthyBundle()
	// Low: organization drift. Critical: failing tests. High: low cache hits.
	b.CodeOrganization.Score = 50
	b.Tests.Failed = 3
	b.Tests.Passed = 197
	b.Build.CacheHitRatePct = 40

	recs := New().Generate(b.Normalize())
	require.Len(t, recs, 3)

	assert.Equal(t, PriorityCritical, recs[0].Priority)
	assert.Equal(t, PriorityHigh, recs[1].Priority)
	assert.Equal(t, PriorityLow, recs[2].Priority)
}

func TestGenerateEffortBreaksPriorityTies(t *testing.T) {
	b := healthyBundle()
	// Two medium findings: slow build (low effort) fires alongside
	// coverage below target (medium effort).
	b.Build.DurationSeconds = 150
	b.Tests.CoveragePct = 75

	recs := New().Generate(b.Normalize())
	require.Len(t, recs, 2)
	assert.Equal(t, recs[0].Priority, recs[1].Priority)
	assert.Equal(t, EffortLow, recs[0].Effort)
	assert.Equal(t, EffortMedium, recs[1].Effort)
}

func TestBuildEscalation(t *testing.T) {
	tests := []struct {
		name     string
		duration float64
		want     Priority
	}{
		{"over target", 150, PriorityMedium},
		{"past limit", 400, PriorityCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := healthyBundle()
			b.Build.DurationSeconds = tt.duration

			recs := New().Generate(b.Normalize())
			require.Len(t, recs, 1)
			assert.Equal(t, CategoryBuild, recs[0].Category)
			assert.Equal(t, tt.want, recs[0].Priority)
		})
	}
}

func TestFailingTasksCarryPackages(t *testing.T) {
	b := healthyBundle()
	b.Build.TasksFailed = 2
	b.Build.FailedTasks = []string{"pkg-a:build", "pkg-b:build"}

	recs := New().Generate(b.Normalize())
	require.Len(t, recs, 1)
	assert.Equal(t, PriorityCritical, recs[0].Priority)
	assert.Equal(t, []string{"pkg-a:build", "pkg-b:build"}, recs[0].Packages)
}

func TestBundleEscalation(t *testing.T) {
	b := healthyBundle()
	b.Bundle.TotalSizeKB = 12000
	b.Bundle.LargestPackages = []checker.PackageSize{{Name: "web", SizeKB: 6000}}

	recs := New().Generate(b.Normalize())
	require.Len(t, recs, 1)
	assert.Equal(t, CategoryPerformance, recs[0].Category)
	assert.Equal(t, PriorityCritical, recs[0].Priority)
	assert.Contains(t, recs[0].Packages, "web")
}

func TestMemoryLeaksFlagged(t *testing.T) {
	b := healthyBundle()
	b.Memory.SuspectedLeaks = []string{"cache/intern"}

	recs := New().Generate(b.Normalize())
	require.Len(t, recs, 1)
	assert.Equal(t, PriorityHigh, recs[0].Priority)
	assert.Contains(t, recs[0].Packages, "cache/intern")
}

func TestCoverageEscalation(t *testing.T) {
	tests := []struct {
		name     string
		coverage float64
		want     Priority
	}{
		{"below target", 75, PriorityMedium},
		{"below floor", 50, PriorityHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := healthyBundle()
			b.Tests.CoveragePct = tt.coverage

			recs := New().Generate(b.Normalize())
			require.Len(t, recs, 1)
			assert.Equal(t, tt.want, recs[0].Priority)
		})
	}
}

func TestCircularDependenciesFlagged(t *testing.T) {
	b := healthyBundle()
	b.Dependencies.CircularDependencies = []string{"a -> b -> a"}

	recs := New().Generate(b.Normalize())
	require.Len(t, recs, 1)
	assert.Equal(t, CategoryArchitecture, recs[0].Category)
	assert.Equal(t, PriorityHigh, recs[0].Priority)
}

func TestTypeSafetyChecks(t *testing.T) {
	b := healthyBundle()
	b.TypeSafety.TypeErrorCount = 4
	b.TypeSafety.StrictModeEnabled = false
	b.TypeSafety.AnyUsageCount = 80

	recs := New().Generate(b.Normalize())
	require.Len(t, recs, 3)
	assert.Equal(t, PriorityCritical, recs[0].Priority)
	assert.Equal(t, PriorityMedium, recs[1].Priority)
	assert.Equal(t, PriorityLow, recs[2].Priority)
	for _, r := range recs {
		assert.Equal(t, CategoryDevExperience, r.Category)
	}
}

func TestWithThresholds(t *testing.T) {
	custom := DefaultThresholds()
	custom.BuildTimeGoodSeconds = 200
	custom.BuildTimePoorSeconds = 600

	b := healthyBundle()
	b.Build.DurationSeconds = 150

	recs := New(WithThresholds(custom)).Generate(b.Normalize())
	assert.Empty(t, recs)
}

func TestSortStable(t *testing.T) {
	recs := []Recommendation{
		{Title: "first-high", Priority: PriorityHigh, Effort: EffortMedium},
		{Title: "low", Priority: PriorityLow, Effort: EffortLow},
		{Title: "second-high", Priority: PriorityHigh, Effort: EffortMedium},
		{Title: "critical", Priority: PriorityCritical, Effort: EffortHigh},
	}
	Sort(recs)

	titles := make([]string, len(recs))
	for i, r := range recs {
		titles[i] = r.Title
	}
	assert.Equal(t, []string{"critical", "first-high", "second-high", "low"}, titles)
}
