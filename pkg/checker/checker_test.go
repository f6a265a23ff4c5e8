package checker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTracksPresence(t *testing.T) {
	b := &Bundle{
		Tests: &TestReport{Total: 10, Passed: 10, CoveragePct: 90},
		Build: &BuildReport{Succeeded: true, DurationSeconds: 45},
	}

	n := b.Normalize()

	assert.True(t, n.Has(SectionTests))
	assert.True(t, n.Has(SectionBuild))
	assert.False(t, n.Has(SectionBundle))
	assert.False(t, n.Has(SectionTypeSafety))

	assert.Equal(t, 10, n.Tests.Total)
	assert.Equal(t, 45.0, n.Build.DurationSeconds)
	// Unmeasured sections carry neutral defaults
	assert.Zero(t, n.Bundle.TotalSizeKB)
	assert.Zero(t, n.Memory.PeakMB)
}

func TestNormalizeEmptyBundle(t *testing.T) {
	n := (&Bundle{}).Normalize()

	missing := n.Missing()
	assert.Len(t, missing, 10)
	for _, s := range missing {
		assert.False(t, n.Has(s))
	}
}

func TestMarkMissing(t *testing.T) {
	b := &Bundle{Tests: &TestReport{Total: 10, Passed: 10}}
	n := b.Normalize()
	require.True(t, n.Has(SectionTests))

	n.MarkMissing(SectionTests)

	assert.False(t, n.Has(SectionTests))
	assert.Contains(t, n.Missing(), SectionTests)
}

func TestMissingDeclarationOrder(t *testing.T) {
	b := &Bundle{
		API:    &CheckReport{Total: 1, Passed: 1},
		Memory: &MemoryReport{PeakMB: 100},
	}

	missing := b.Normalize().Missing()
	assert.Equal(t, []Section{
		SectionTests, SectionE2E, SectionBuild, SectionBundle,
		SectionDevExperience, SectionDependencies,
		SectionCodeOrganization, SectionTypeSafety,
	}, missing)
}

func TestLoadBundle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "measurements.json")
	data := `{
		"tests": {"total": 120, "passed": 118, "failed": 2, "coveragePct": 82.5, "failedSuites": ["auth"]},
		"build": {"succeeded": true, "durationSeconds": 95.2, "cacheHitRatePct": 78, "tasksTotal": 40},
		"typeSafety": {"strictModeEnabled": true, "anyUsageCount": 12}
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	b, err := LoadBundle(path)
	require.NoError(t, err)

	require.NotNil(t, b.Tests)
	assert.Equal(t, 2, b.Tests.Failed)
	assert.Equal(t, []string{"auth"}, b.Tests.FailedSuites)
	assert.InDelta(t, 95.2, b.Build.DurationSeconds, 0.001)
	assert.True(t, b.TypeSafety.StrictModeEnabled)
	assert.Nil(t, b.Bundle)
	assert.Nil(t, b.E2E)
}

func TestLoadBundleMissingFile(t *testing.T) {
	_, err := LoadBundle(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadBundleInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o644))

	_, err := LoadBundle(path)
	assert.Error(t, err)
}
