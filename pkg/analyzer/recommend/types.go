// Package recommend turns metric category data into prioritized,
// actionable recommendations.
package recommend

import "sort"

// Category groups recommendations by the area they affect.
type Category string

const (
	CategoryPerformance   Category = "performance"
	CategoryBuild         Category = "build"
	CategoryArchitecture  Category = "architecture"
	CategoryDevExperience Category = "developer-experience"
)

// Priority orders recommendations by urgency.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

// String implements fmt.Stringer.
func (p Priority) String() string {
	switch p {
	case PriorityCritical:
		return "critical"
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	default:
		return "low"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Effort estimates the cost of acting on a recommendation.
type Effort int

const (
	EffortLow Effort = iota
	EffortMedium
	EffortHigh
)

// String implements fmt.Stringer.
func (e Effort) String() string {
	switch e {
	case EffortHigh:
		return "high"
	case EffortMedium:
		return "medium"
	default:
		return "low"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (e Effort) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// Recommendation is one actionable finding. Generated fresh per run and
// never mutated afterward.
type Recommendation struct {
	Category    Category `json:"category"`
	Priority    Priority `json:"priority"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Impact      string   `json:"impact"`
	Effort      Effort   `json:"effort"`
	Steps       []string `json:"steps"`
	Packages    []string `json:"affectedPackages,omitempty"`
}

// Sort orders recommendations by priority descending, then effort
// ascending so cheaper fixes surface first within equal priority. This
// ordering is a contract consumed by report renderers.
func Sort(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Priority != recs[j].Priority {
			return recs[i].Priority > recs[j].Priority
		}
		return recs[i].Effort < recs[j].Effort
	})
}
