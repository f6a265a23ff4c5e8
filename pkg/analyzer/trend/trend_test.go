package trend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KlikkAI/verdict/pkg/metrics"
)

func dailySnapshots(ref time.Time, m metrics.Metric, values []float64) []metrics.Snapshot {
	snaps := make([]metrics.Snapshot, len(values))
	for i, v := range values {
		s := metrics.Snapshot{Timestamp: ref.AddDate(0, 0, -(len(values) - 1 - i))}
		s.SetValue(m, v)
		snaps[i] = s
	}
	return snaps
}

func findTrend(trends []Trend, m metrics.Metric) *Trend {
	for i := range trends {
		if trends[i].Metric == m {
			return &trends[i]
		}
	}
	return nil
}

func TestAnalyzeTooFewPoints(t *testing.T) {
	ref := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	a := New(WithReference(ref))

	assert.Nil(t, a.Analyze(nil))
	assert.Nil(t, a.Analyze(dailySnapshots(ref, metrics.BuildTime, []float64{100})))
}

func TestAnalyzeImprovingBuildTime(t *testing.T) {
	ref := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	a := New(WithReference(ref))

	// Build times dropping 2s per day
	trends := a.Analyze(dailySnapshots(ref, metrics.BuildTime, []float64{50, 48, 46, 44, 42}))
	tr := findTrend(trends, metrics.BuildTime)
	require.NotNil(t, tr)

	assert.Equal(t, Improving, tr.Direction)
	assert.Negative(t, tr.ChangePerDay)
	assert.InDelta(t, -2.0, tr.ChangePerDay, 0.01)
	assert.InDelta(t, 1.0, tr.Confidence, 0.001)
	assert.Equal(t, 5, tr.SampleCount)
}

func TestAnalyzeDegradingBuildTime(t *testing.T) {
	ref := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	a := New(WithReference(ref))

	trends := a.Analyze(dailySnapshots(ref, metrics.BuildTime, []float64{42, 44, 46, 48, 50}))
	tr := findTrend(trends, metrics.BuildTime)
	require.NotNil(t, tr)

	assert.Equal(t, Degrading, tr.Direction)
	assert.Positive(t, tr.ChangePerDay)
}

func TestAnalyzeHigherIsBetterPolarity(t *testing.T) {
	ref := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	a := New(WithReference(ref))

	// Coverage climbing is an improvement
	trends := a.Analyze(dailySnapshots(ref, metrics.TestCoverage, []float64{70, 75, 80, 85, 90}))
	tr := findTrend(trends, metrics.TestCoverage)
	require.NotNil(t, tr)

	assert.Equal(t, Improving, tr.Direction)
	assert.Positive(t, tr.ChangePerDay)
}

func TestAnalyzeStableWithinBand(t *testing.T) {
	ref := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	a := New(WithReference(ref))

	// Daily change far below 1% of the mean
	trends := a.Analyze(dailySnapshots(ref, metrics.BuildTime, []float64{1000, 1000.5, 1000.2, 1000.8, 1000.4}))
	tr := findTrend(trends, metrics.BuildTime)
	require.NotNil(t, tr)

	assert.Equal(t, Stable, tr.Direction)
}

func TestAnalyzeMonotoneSlopeSign(t *testing.T) {
	ref := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	a := New(WithReference(ref))

	increasing := a.Analyze(dailySnapshots(ref, metrics.MemoryUsage, []float64{100, 120, 150, 170, 220}))
	tr := findTrend(increasing, metrics.MemoryUsage)
	require.NotNil(t, tr)
	assert.Positive(t, tr.ChangePerDay)

	decreasing := a.Analyze(dailySnapshots(ref, metrics.MemoryUsage, []float64{220, 170, 150, 120, 100}))
	tr = findTrend(decreasing, metrics.MemoryUsage)
	require.NotNil(t, tr)
	assert.Negative(t, tr.ChangePerDay)
}

func TestAnalyzeWindowFiltering(t *testing.T) {
	ref := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	a := New(WithReference(ref), WithWindow(7))

	// Two points inside the window, three far outside it
	snaps := []metrics.Snapshot{
		{Timestamp: ref.AddDate(0, 0, -60), BuildTime: 500},
		{Timestamp: ref.AddDate(0, 0, -50), BuildTime: 400},
		{Timestamp: ref.AddDate(0, 0, -40), BuildTime: 300},
		{Timestamp: ref.AddDate(0, 0, -2), BuildTime: 50},
		{Timestamp: ref.AddDate(0, 0, -1), BuildTime: 48},
	}

	trends := a.Analyze(snaps)
	tr := findTrend(trends, metrics.BuildTime)
	require.NotNil(t, tr)
	assert.Equal(t, 2, tr.SampleCount)
}

func TestAnalyzeSignificance(t *testing.T) {
	ref := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	a := New(WithReference(ref))

	// Perfect linear fit with a steep slope relative to the mean
	trends := a.Analyze(dailySnapshots(ref, metrics.BuildTime, []float64{100, 90, 80, 70, 60}))
	tr := findTrend(trends, metrics.BuildTime)
	require.NotNil(t, tr)
	assert.Equal(t, SignificanceHigh, tr.Significance)

	// Noisy data with a shallow slope stays low
	noisy := a.Analyze(dailySnapshots(ref, metrics.BuildTime, []float64{100, 101, 99.8, 100.5, 99.9}))
	tr = findTrend(noisy, metrics.BuildTime)
	require.NotNil(t, tr)
	assert.Equal(t, SignificanceLow, tr.Significance)
}

func TestAnalyzeEachMetricIndependent(t *testing.T) {
	ref := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	a := New(WithReference(ref))

	// Only BuildTime varies; constant metrics still produce stable entries
	snaps := dailySnapshots(ref, metrics.BuildTime, []float64{50, 48, 46, 44, 42})
	trends := a.Analyze(snaps)

	require.NotEmpty(t, trends)
	for _, tr := range trends {
		if tr.Metric == metrics.BuildTime {
			assert.Equal(t, Improving, tr.Direction)
		} else {
			assert.Equal(t, Stable, tr.Direction)
		}
	}
}
