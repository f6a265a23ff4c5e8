// Package trend fits per-metric linear trends over a window of snapshots
// and classifies their direction and significance.
package trend

import (
	"math"
	"time"

	"github.com/sourcegraph/conc"
	"gonum.org/v1/gonum/stat"

	"github.com/KlikkAI/verdict/pkg/metrics"
)

// Direction classifies the movement of a metric over the window.
type Direction string

const (
	Improving Direction = "improving"
	Degrading Direction = "degrading"
	Stable    Direction = "stable"
)

// Significance qualifies how much weight a trend deserves.
type Significance string

const (
	SignificanceHigh   Significance = "high"
	SignificanceMedium Significance = "medium"
	SignificanceLow    Significance = "low"
)

// Trend is the fitted model for one metric. Trends are derived on demand
// and never persisted.
type Trend struct {
	Metric       metrics.Metric `json:"metric"`
	Direction    Direction      `json:"direction"`
	ChangePerDay float64        `json:"changePerDay"`
	Confidence   float64        `json:"confidence"`
	SampleCount  int            `json:"sampleCount"`
	Significance Significance   `json:"significance"`
	WindowMean   float64        `json:"windowMean"`
}

const secondsPerDay = 86400

// Analyzer fits ordinary least-squares trends per metric.
type Analyzer struct {
	windowDays   int
	stabilityPct float64
	reference    time.Time
}

// Option configures the Analyzer.
type Option func(*Analyzer)

// WithWindow sets the analysis window in days. Zero means all history.
func WithWindow(days int) Option {
	return func(a *Analyzer) {
		a.windowDays = days
	}
}

// WithStabilityPct sets the stability band as a percentage of the window
// mean. A daily change below this band classifies as stable.
func WithStabilityPct(pct float64) Option {
	return func(a *Analyzer) {
		if pct > 0 {
			a.stabilityPct = pct
		}
	}
}

// WithReference pins the window's right edge, primarily for tests.
func WithReference(t time.Time) Option {
	return func(a *Analyzer) {
		a.reference = t
	}
}

// New creates a trend analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		windowDays:   30,
		stabilityPct: 1.0,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze fits a trend for every tracked metric over the window. Metrics
// with fewer than two qualifying points, or with a degenerate fit, produce
// no entry. Each metric is evaluated independently; one failure never
// blocks the others.
func (a *Analyzer) Analyze(snapshots []metrics.Snapshot) []Trend {
	window := a.filterWindow(snapshots)
	if len(window) < 2 {
		return nil
	}

	all := metrics.All()
	results := make([]*Trend, len(all))

	var wg conc.WaitGroup
	for i, m := range all {
		wg.Go(func() {
			results[i] = a.analyzeMetric(m, window)
		})
	}
	wg.Wait()

	trends := make([]Trend, 0, len(all))
	for _, t := range results {
		if t != nil {
			trends = append(trends, *t)
		}
	}
	return trends
}

func (a *Analyzer) filterWindow(snapshots []metrics.Snapshot) []metrics.Snapshot {
	if a.windowDays <= 0 {
		return snapshots
	}
	ref := a.reference
	if ref.IsZero() {
		ref = time.Now().UTC()
	}
	cutoff := ref.AddDate(0, 0, -a.windowDays)

	var out []metrics.Snapshot
	for _, s := range snapshots {
		if !s.Timestamp.Before(cutoff) {
			out = append(out, s)
		}
	}
	return out
}

func (a *Analyzer) analyzeMetric(m metrics.Metric, window []metrics.Snapshot) *Trend {
	xs := make([]float64, len(window))
	ys := make([]float64, len(window))
	for i, s := range window {
		xs[i] = float64(s.Timestamp.Unix())
		ys[i] = s.Value(m)
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(slope) || math.IsInf(slope, 0) {
		return nil
	}
	changePerDay := slope * secondsPerDay

	confidence := 0.0
	if r2 := stat.RSquared(xs, ys, nil, intercept, slope); !math.IsNaN(r2) {
		confidence = clamp01(r2)
	}

	mean := stat.Mean(ys, nil)
	threshold := math.Abs(mean) * a.stabilityPct / 100

	t := &Trend{
		Metric:       m,
		ChangePerDay: changePerDay,
		Confidence:   confidence,
		SampleCount:  len(window),
		WindowMean:   mean,
	}
	t.Direction = classifyDirection(m.Polarity(), changePerDay, threshold)
	t.Significance = classifySignificance(confidence, changePerDay, threshold)
	return t
}

func classifyDirection(p metrics.Polarity, changePerDay, threshold float64) Direction {
	if changePerDay == 0 || math.Abs(changePerDay) < threshold {
		return Stable
	}
	if p.Improved(0, changePerDay) {
		return Improving
	}
	return Degrading
}

func classifySignificance(confidence, changePerDay, threshold float64) Significance {
	abs := math.Abs(changePerDay)
	switch {
	case confidence > 0.8 && abs > 2*threshold:
		return SignificanceHigh
	case confidence > 0.5 && abs > threshold:
		return SignificanceMedium
	default:
		return SignificanceLow
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
