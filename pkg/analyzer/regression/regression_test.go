package regression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KlikkAI/verdict/pkg/metrics"
)

var ref = time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

// windowed builds two points in the baseline window and two in the recent
// window, all carrying the given metric values.
func windowed(m metrics.Metric, baselineValue, recentValue float64) []metrics.Snapshot {
	mk := func(daysAgo int, hours int, v float64) metrics.Snapshot {
		s := metrics.Snapshot{Timestamp: ref.AddDate(0, 0, -daysAgo).Add(time.Duration(hours) * time.Hour)}
		s.SetValue(m, v)
		return s
	}
	return []metrics.Snapshot{
		mk(6, 0, baselineValue),
		mk(4, 0, baselineValue),
		mk(1, 0, recentValue),
		mk(0, -1, recentValue),
	}
}

func TestDetectNoRegression(t *testing.T) {
	d := New(WithReference(ref))

	// 5% increase on buildTime is under its 10% threshold
	regs := d.Detect(windowed(metrics.BuildTime, 100, 105))
	assert.Empty(t, regs)
}

func TestDetectImprovementNotFlagged(t *testing.T) {
	d := New(WithReference(ref))

	// Build time halving is a large change in the good direction
	regs := d.Detect(windowed(metrics.BuildTime, 100, 50))
	assert.Empty(t, regs)
}

func TestDetectCriticalDoubling(t *testing.T) {
	d := New(WithReference(ref))

	// 30s -> 60s with threshold 10%: +100% change, 10x threshold
	regs := d.Detect(windowed(metrics.BuildTime, 30, 60))
	require.Len(t, regs, 1)

	r := regs[0]
	assert.Equal(t, metrics.BuildTime, r.Metric)
	assert.Equal(t, Critical, r.Severity)
	assert.InDelta(t, 100.0, r.ChangePct, 0.001)
	assert.Equal(t, 30.0, r.BaselineValue)
	assert.Equal(t, 60.0, r.RecentValue)
	assert.NotEmpty(t, r.Causes)
	assert.NotEmpty(t, r.Remediation)
}

func TestSeverityBoundaries(t *testing.T) {
	d := New(WithReference(ref))

	tests := []struct {
		name   string
		recent float64 // baseline fixed at 100, buildTime threshold is 10%
		want   Severity
	}{
		{"just over threshold", 111, Minor},
		{"just under 2x", 119, Minor},
		{"exactly 2x", 120, Major},
		{"between 2x and 3x", 125, Major},
		{"exactly 3x", 130, Critical},
		{"far past 3x", 200, Critical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			regs := d.Detect(windowed(metrics.BuildTime, 100, tt.recent))
			require.Len(t, regs, 1)
			assert.Equal(t, tt.want, regs[0].Severity)
		})
	}
}

func TestExactThresholdNotFlagged(t *testing.T) {
	d := New(WithReference(ref))

	// Exactly 10% is not strictly greater than the threshold
	regs := d.Detect(windowed(metrics.BuildTime, 100, 110))
	assert.Empty(t, regs)
}

func TestHigherIsBetterDirection(t *testing.T) {
	d := New(WithReference(ref))

	// Coverage dropping 80 -> 60 is -25% against a 5% threshold: critical
	regs := d.Detect(windowed(metrics.TestCoverage, 80, 60))
	require.Len(t, regs, 1)
	assert.Equal(t, Critical, regs[0].Severity)
	assert.Negative(t, regs[0].ChangePct)

	// Coverage rising is never a regression
	regs = d.Detect(windowed(metrics.TestCoverage, 60, 80))
	assert.Empty(t, regs)
}

func TestZeroBaselineSkipped(t *testing.T) {
	d := New(WithReference(ref))

	regs := d.Detect(windowed(metrics.BuildTime, 0, 100))
	assert.Empty(t, regs)
}

func TestTooFewPointsPerWindow(t *testing.T) {
	d := New(WithReference(ref))

	snaps := windowed(metrics.BuildTime, 30, 60)
	// Strip the recent window down to one point
	assert.Empty(t, d.Detect(snaps[:3]))
	assert.Empty(t, d.Detect(nil))
}

func TestDetectSortsBySeverity(t *testing.T) {
	d := New(WithReference(ref))

	mk := func(daysAgo int, hours int, build, coverage float64) metrics.Snapshot {
		return metrics.Snapshot{
			Timestamp:    ref.AddDate(0, 0, -daysAgo).Add(time.Duration(hours) * time.Hour),
			BuildTime:    build,
			TestCoverage: coverage,
		}
	}
	snaps := []metrics.Snapshot{
		// Baseline: build 100, coverage 80
		mk(6, 0, 100, 80),
		mk(4, 0, 100, 80),
		// Recent: build +25% (major), coverage -50% (critical)
		mk(1, 0, 125, 40),
		mk(0, -1, 125, 40),
	}

	regs := d.Detect(snaps)
	require.Len(t, regs, 2)
	assert.Equal(t, metrics.TestCoverage, regs[0].Metric)
	assert.Equal(t, Critical, regs[0].Severity)
	assert.Equal(t, metrics.BuildTime, regs[1].Metric)
	assert.Equal(t, Major, regs[1].Severity)
}

func TestWithThresholdOverride(t *testing.T) {
	d := New(WithReference(ref), WithThreshold(metrics.BuildTime, 50))

	// +30% stays under the raised 50% threshold
	regs := d.Detect(windowed(metrics.BuildTime, 100, 130))
	assert.Empty(t, regs)
}
