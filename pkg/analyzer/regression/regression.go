// Package regression compares a recent window of snapshots against an
// older baseline window per metric and flags statistically meaningful
// degradations.
package regression

import (
	"math"
	"sort"
	"time"

	"github.com/sourcegraph/conc"
	"gonum.org/v1/gonum/stat"

	"github.com/KlikkAI/verdict/pkg/metrics"
)

// Severity classifies how far past its threshold a regression landed.
type Severity int

const (
	Minor Severity = iota
	Major
	Critical
)

// String implements fmt.Stringer.
func (s Severity) String() string {
	switch s {
	case Critical:
		return "critical"
	case Major:
		return "major"
	default:
		return "minor"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Regression is one flagged degradation. Derived on demand, never persisted.
type Regression struct {
	Metric        metrics.Metric `json:"metric"`
	BaselineValue float64        `json:"baselineValue"`
	RecentValue   float64        `json:"recentValue"`
	ChangePct     float64        `json:"regressionPercentage"`
	Severity      Severity       `json:"severity"`
	DetectedAt    time.Time      `json:"detectedAt"`
	Causes        []string       `json:"possibleCauses"`
	Remediation   []string       `json:"remediation"`
}

// Detector compares window means per metric.
type Detector struct {
	baselineDays int
	recentDays   int
	thresholds   map[metrics.Metric]float64
	reference    time.Time
}

// Option configures the Detector.
type Option func(*Detector)

// WithBaselineDays sets the baseline window length (excluding the recent
// window).
func WithBaselineDays(days int) Option {
	return func(d *Detector) {
		if days > 0 {
			d.baselineDays = days
		}
	}
}

// WithRecentDays sets the recent window length.
func WithRecentDays(days int) Option {
	return func(d *Detector) {
		if days > 0 {
			d.recentDays = days
		}
	}
}

// WithThreshold overrides the regression threshold percentage for one
// metric.
func WithThreshold(m metrics.Metric, pct float64) Option {
	return func(d *Detector) {
		d.thresholds[m] = pct
	}
}

// WithReference pins the windows' right edge, primarily for tests.
func WithReference(t time.Time) Option {
	return func(d *Detector) {
		d.reference = t
	}
}

// New creates a detector with per-metric thresholds seeded from the
// metric metadata table.
func New(opts ...Option) *Detector {
	d := &Detector{
		baselineDays: 7,
		recentDays:   2,
		thresholds:   make(map[metrics.Metric]float64),
	}
	for _, m := range metrics.All() {
		d.thresholds[m] = m.Info().RegressionThreshold
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect evaluates every tracked metric and returns flagged regressions
// sorted by severity, worst first. Metrics with fewer than two points in
// either window, or a zero baseline mean, are skipped.
func (d *Detector) Detect(snapshots []metrics.Snapshot) []Regression {
	ref := d.reference
	if ref.IsZero() {
		ref = time.Now().UTC()
	}
	recentStart := ref.AddDate(0, 0, -d.recentDays)
	baselineStart := recentStart.AddDate(0, 0, -d.baselineDays)

	var baseline, recent []metrics.Snapshot
	for _, s := range snapshots {
		switch {
		case s.Timestamp.After(recentStart) && !s.Timestamp.After(ref):
			recent = append(recent, s)
		case s.Timestamp.After(baselineStart) && !s.Timestamp.After(recentStart):
			baseline = append(baseline, s)
		}
	}
	if len(baseline) < 2 || len(recent) < 2 {
		return nil
	}

	all := metrics.All()
	results := make([]*Regression, len(all))

	var wg conc.WaitGroup
	for i, m := range all {
		wg.Go(func() {
			results[i] = d.detectMetric(m, baseline, recent, ref)
		})
	}
	wg.Wait()

	var regressions []Regression
	for _, r := range results {
		if r != nil {
			regressions = append(regressions, *r)
		}
	}

	sort.SliceStable(regressions, func(i, j int) bool {
		if regressions[i].Severity != regressions[j].Severity {
			return regressions[i].Severity > regressions[j].Severity
		}
		return math.Abs(regressions[i].ChangePct) > math.Abs(regressions[j].ChangePct)
	})
	return regressions
}

func (d *Detector) detectMetric(m metrics.Metric, baseline, recent []metrics.Snapshot, ref time.Time) *Regression {
	baselineMean := windowMean(m, baseline)
	recentMean := windowMean(m, recent)

	// A zero baseline has no meaningful ratio.
	if baselineMean == 0 {
		return nil
	}

	changePct := (recentMean - baselineMean) / baselineMean * 100
	threshold := d.thresholds[m]
	if threshold <= 0 || !m.Polarity().BadChange(changePct) || math.Abs(changePct) <= threshold {
		return nil
	}

	return &Regression{
		Metric:        m,
		BaselineValue: baselineMean,
		RecentValue:   recentMean,
		ChangePct:     changePct,
		Severity:      classifySeverity(math.Abs(changePct), threshold),
		DetectedAt:    ref,
		Causes:        causesFor(m),
		Remediation:   remediationFor(m),
	}
}

// Boundary semantics: exactly 2x the threshold is major, exactly 3x is
// critical.
func classifySeverity(absChangePct, threshold float64) Severity {
	switch {
	case absChangePct >= 3*threshold:
		return Critical
	case absChangePct >= 2*threshold:
		return Major
	default:
		return Minor
	}
}

func windowMean(m metrics.Metric, snapshots []metrics.Snapshot) float64 {
	values := make([]float64, 0, len(snapshots))
	for _, s := range snapshots {
		v := s.Value(m)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}
