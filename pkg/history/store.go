// Package history maintains a bounded, append-only time series of metric
// snapshots and derives window statistics from it.
package history

import (
	"math"
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/KlikkAI/verdict/pkg/metrics"
	"github.com/KlikkAI/verdict/pkg/stats"
)

// DefaultMaxPoints bounds history when no explicit limit is configured.
const DefaultMaxPoints = 1000

// Store is the shared, bounded snapshot history. Reads take a shared lock;
// appends are serialized (single-writer discipline). Insertion order defines
// chronological order: callers append in non-decreasing timestamp order.
type Store struct {
	mu        sync.RWMutex
	maxPoints int
	backend   Backend
	snapshots []metrics.Snapshot
}

// Option configures the Store.
type Option func(*Store)

// WithMaxPoints bounds the number of retained snapshots.
func WithMaxPoints(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxPoints = n
		}
	}
}

// WithBackend sets the persistence backend.
func WithBackend(b Backend) Option {
	return func(s *Store) {
		s.backend = b
	}
}

// New creates a store and loads any persisted history from its backend.
func New(opts ...Option) (*Store, error) {
	s := &Store{
		maxPoints: DefaultMaxPoints,
		backend:   NewMemoryBackend(),
	}
	for _, opt := range opts {
		opt(s)
	}

	loaded, err := s.backend.Load()
	if err != nil {
		return nil, storageErr("load", err)
	}
	s.snapshots = loaded
	s.evictLocked()
	return s, nil
}

// Append records a snapshot, evicting the oldest entries once the
// configured bound is exceeded. Re-appending an identical snapshot is a
// no-op. Persistence failure surfaces as a *StorageError.
func (s *Store) Append(snapshot metrics.Snapshot) error {
	snapshot = snapshot.Sanitized()

	s.mu.Lock()
	defer s.mu.Unlock()

	if n := len(s.snapshots); n > 0 {
		last := &s.snapshots[n-1]
		if last.Timestamp.Equal(snapshot.Timestamp) && last.Fingerprint() == snapshot.Fingerprint() {
			return nil
		}
	}

	s.snapshots = append(s.snapshots, snapshot)
	s.evictLocked()

	if err := s.backend.Save(s.snapshots); err != nil {
		return storageErr("save", err)
	}
	return nil
}

func (s *Store) evictLocked() {
	if excess := len(s.snapshots) - s.maxPoints; excess > 0 {
		s.snapshots = append([]metrics.Snapshot(nil), s.snapshots[excess:]...)
	}
}

// Query returns snapshots with start <= timestamp <= end in chronological
// order. A nil bound is unbounded on that side.
func (s *Store) Query(start, end *time.Time) []metrics.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []metrics.Snapshot
	for _, snap := range s.snapshots {
		if start != nil && snap.Timestamp.Before(*start) {
			continue
		}
		if end != nil && snap.Timestamp.After(*end) {
			continue
		}
		out = append(out, snap)
	}
	return out
}

// All returns the full history in chronological order.
func (s *Store) All() []metrics.Snapshot {
	return s.Query(nil, nil)
}

// Len returns the number of retained snapshots.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots)
}

// Clear empties the history. Idempotent.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots = nil
	if err := s.backend.Reset(); err != nil {
		return storageErr("reset", err)
	}
	return nil
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// Stats summarizes one metric over a window. Callers must check Count
// before using the other fields: an empty window yields all zeros.
type Stats struct {
	Metric metrics.Metric `json:"metric"`
	Count  int            `json:"count"`
	Min    float64        `json:"min"`
	Max    float64        `json:"max"`
	Mean   float64        `json:"average"`
	Median float64        `json:"median"`
	P95    float64        `json:"p95"`
	StdDev float64        `json:"standardDeviation"`
}

// Statistics computes min, max, mean, median, 95th percentile, and
// population standard deviation for a metric over the last windowDays
// days. windowDays <= 0 means the full history.
func (s *Store) Statistics(metric metrics.Metric, windowDays int) Stats {
	var start *time.Time
	if windowDays > 0 {
		cutoff := time.Now().UTC().AddDate(0, 0, -windowDays)
		start = &cutoff
	}
	snapshots := s.Query(start, nil)

	result := Stats{Metric: metric}
	if len(snapshots) == 0 {
		return result
	}

	values := make([]float64, len(snapshots))
	for i := range snapshots {
		values[i] = snapshots[i].Value(metric)
	}

	result.Count = len(values)
	result.Min = values[0]
	result.Max = values[0]
	for _, v := range values[1:] {
		result.Min = math.Min(result.Min, v)
		result.Max = math.Max(result.Max, v)
	}
	result.Mean = stat.Mean(values, nil)
	result.Median = stats.Median(values)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	result.P95 = stats.Percentile(sorted, 95)
	// Population variance: second moment about the mean.
	result.StdDev = math.Sqrt(stat.MomentAbout(2, values, result.Mean, nil))
	return result
}
