// Package metrics defines the metric identifiers and snapshot model shared
// by every stage of the validation pipeline.
package metrics

import (
	"fmt"
)

// Metric identifies one of the tracked pipeline metrics.
type Metric int

const (
	BuildTime Metric = iota
	BundleSize
	TestCoverage
	MemoryUsage
	CacheHitRate
	ParallelEfficiency
	ArchitectureHealth
	CompileTime
	AutocompleteLatency
)

// Polarity indicates which direction of change is an improvement.
type Polarity int

const (
	LowerIsBetter Polarity = iota
	HigherIsBetter
)

// Info describes a metric's presentation and analysis parameters.
type Info struct {
	// Key is the stable identifier used in CSV columns, JSON documents,
	// and benchmark configs.
	Key string

	// Display is the human-readable name.
	Display string

	// Unit is the measurement unit (seconds, KB, percent, ...).
	Unit string

	// Polarity determines whether increases are improvements or regressions.
	Polarity Polarity

	// RegressionThreshold is the percentage change (baseline vs recent)
	// above which a regression is flagged.
	RegressionThreshold float64
}

// The single source of truth for metric metadata. Trend, regression, and
// benchmark logic all read polarity from here so the tables cannot drift.
var infoTable = map[Metric]Info{
	BuildTime:           {Key: "buildTime", Display: "Build Time", Unit: "s", Polarity: LowerIsBetter, RegressionThreshold: 10},
	BundleSize:          {Key: "bundleSize", Display: "Bundle Size", Unit: "KB", Polarity: LowerIsBetter, RegressionThreshold: 5},
	TestCoverage:        {Key: "testCoverage", Display: "Test Coverage", Unit: "%", Polarity: HigherIsBetter, RegressionThreshold: 5},
	MemoryUsage:         {Key: "memoryUsage", Display: "Memory Usage", Unit: "MB", Polarity: LowerIsBetter, RegressionThreshold: 15},
	CacheHitRate:        {Key: "cacheHitRate", Display: "Cache Hit Rate", Unit: "%", Polarity: HigherIsBetter, RegressionThreshold: 10},
	ParallelEfficiency:  {Key: "parallelEfficiency", Display: "Parallel Efficiency", Unit: "%", Polarity: HigherIsBetter, RegressionThreshold: 10},
	ArchitectureHealth:  {Key: "architectureHealthScore", Display: "Architecture Health", Unit: "score", Polarity: HigherIsBetter, RegressionThreshold: 5},
	CompileTime:         {Key: "typeScriptCompilationTime", Display: "Compilation Time", Unit: "s", Polarity: LowerIsBetter, RegressionThreshold: 10},
	AutocompleteLatency: {Key: "autocompleteSpeed", Display: "Autocomplete Latency", Unit: "ms", Polarity: LowerIsBetter, RegressionThreshold: 20},
}

// All returns every tracked metric in stable order.
func All() []Metric {
	return []Metric{
		BuildTime,
		BundleSize,
		TestCoverage,
		MemoryUsage,
		CacheHitRate,
		ParallelEfficiency,
		ArchitectureHealth,
		CompileTime,
		AutocompleteLatency,
	}
}

// Info returns the metadata for the metric.
func (m Metric) Info() Info {
	return infoTable[m]
}

// Key returns the stable identifier for the metric.
func (m Metric) Key() string {
	return infoTable[m].Key
}

// Display returns the human-readable name for the metric.
func (m Metric) Display() string {
	return infoTable[m].Display
}

// Polarity returns the metric's improvement direction.
func (m Metric) Polarity() Polarity {
	return infoTable[m].Polarity
}

// String implements fmt.Stringer.
func (m Metric) String() string {
	if info, ok := infoTable[m]; ok {
		return info.Key
	}
	return fmt.Sprintf("metric(%d)", int(m))
}

// MarshalText implements encoding.TextMarshaler so metrics serialize as
// their stable keys, including as JSON map keys.
func (m Metric) MarshalText() ([]byte, error) {
	info, ok := infoTable[m]
	if !ok {
		return nil, fmt.Errorf("unknown metric %d", int(m))
	}
	return []byte(info.Key), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Metric) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Parse converts a stable key back to a Metric.
func Parse(key string) (Metric, error) {
	for metric, info := range infoTable {
		if info.Key == key {
			return metric, nil
		}
	}
	return 0, fmt.Errorf("unknown metric %q", key)
}

// Improved reports whether moving from old to new is an improvement under
// the metric's polarity.
func (p Polarity) Improved(old, new float64) bool {
	if p == LowerIsBetter {
		return new < old
	}
	return new > old
}

// BadChange reports whether a percentage change (positive means the value
// went up) moves in the direction that is bad for this polarity.
func (p Polarity) BadChange(changePct float64) bool {
	if p == LowerIsBetter {
		return changePct > 0
	}
	return changePct < 0
}
