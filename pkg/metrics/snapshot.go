package metrics

import (
	"fmt"
	"math"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Meta holds the free-form context recorded with a snapshot.
type Meta struct {
	Commit      string `json:"gitCommit,omitempty"`
	Branch      string `json:"branch,omitempty"`
	Version     string `json:"version,omitempty"`
	Environment string `json:"environment,omitempty"`
	TriggeredBy string `json:"triggeredBy,omitempty"`
}

// Snapshot captures one validation run's measurements. Snapshots are
// immutable once appended to history; numeric fields are always
// non-negative, with missing source data mapped to zero so downstream
// statistics never see holes.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`

	BuildTime           float64 `json:"buildTime"`
	BundleSize          float64 `json:"bundleSize"`
	TestCoverage        float64 `json:"testCoverage"`
	MemoryUsage         float64 `json:"memoryUsage"`
	CacheHitRate        float64 `json:"cacheHitRate"`
	ParallelEfficiency  float64 `json:"parallelEfficiency"`
	ArchitectureHealth  float64 `json:"architectureHealthScore"`
	CompileTime         float64 `json:"typeScriptCompilationTime"`
	AutocompleteLatency float64 `json:"autocompleteSpeed"`

	Meta Meta `json:"meta"`
}

// Value returns the snapshot's value for the given metric.
func (s *Snapshot) Value(m Metric) float64 {
	switch m {
	case BuildTime:
		return s.BuildTime
	case BundleSize:
		return s.BundleSize
	case TestCoverage:
		return s.TestCoverage
	case MemoryUsage:
		return s.MemoryUsage
	case CacheHitRate:
		return s.CacheHitRate
	case ParallelEfficiency:
		return s.ParallelEfficiency
	case ArchitectureHealth:
		return s.ArchitectureHealth
	case CompileTime:
		return s.CompileTime
	case AutocompleteLatency:
		return s.AutocompleteLatency
	default:
		return 0
	}
}

// SetValue sets the snapshot's value for the given metric.
func (s *Snapshot) SetValue(m Metric, v float64) {
	switch m {
	case BuildTime:
		s.BuildTime = v
	case BundleSize:
		s.BundleSize = v
	case TestCoverage:
		s.TestCoverage = v
	case MemoryUsage:
		s.MemoryUsage = v
	case CacheHitRate:
		s.CacheHitRate = v
	case ParallelEfficiency:
		s.ParallelEfficiency = v
	case ArchitectureHealth:
		s.ArchitectureHealth = v
	case CompileTime:
		s.CompileTime = v
	case AutocompleteLatency:
		s.AutocompleteLatency = v
	}
}

// Sanitized returns a copy with every numeric field clamped to a finite,
// non-negative value. NaN and negative inputs map to zero.
func (s Snapshot) Sanitized() Snapshot {
	for _, m := range All() {
		v := s.Value(m)
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			s.SetValue(m, 0)
		}
	}
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now().UTC()
	}
	return s
}

// Fingerprint returns a stable hash of the snapshot's timestamp, values,
// and metadata. Appending the same fingerprint twice is a no-op.
func (s *Snapshot) Fingerprint() uint64 {
	h := xxhash.New()
	fmt.Fprintf(h, "%d", s.Timestamp.UnixNano())
	for _, m := range All() {
		fmt.Fprintf(h, "|%s=%g", m.Key(), s.Value(m))
	}
	fmt.Fprintf(h, "|%s|%s|%s|%s|%s",
		s.Meta.Commit, s.Meta.Branch, s.Meta.Version, s.Meta.Environment, s.Meta.TriggeredBy)
	return h.Sum64()
}
