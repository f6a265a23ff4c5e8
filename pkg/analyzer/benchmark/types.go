// Package benchmark scores metric snapshots against named threshold
// configurations and compares persisted results.
package benchmark

import (
	"time"

	"github.com/KlikkAI/verdict/pkg/metrics"
)

// Tier holds the three scoring thresholds for one metric. For
// lower-is-better metrics excellent <= good <= poor; mirrored for
// higher-is-better metrics.
type Tier struct {
	Excellent float64 `json:"excellent"`
	Good      float64 `json:"good"`
	Poor      float64 `json:"poor"`
}

// Config is a named, versioned benchmark definition. Configs are stored
// independently of run history and referenced by name when scoring.
type Config struct {
	Name        string                     `json:"name"`
	Description string                     `json:"description,omitempty"`
	Version     string                     `json:"version,omitempty"`
	Metrics     []metrics.Metric           `json:"metrics"`
	Targets     map[metrics.Metric]float64 `json:"targets"`
	Thresholds  map[metrics.Metric]Tier    `json:"thresholds"`
	CreatedAt   time.Time                  `json:"createdAt"`
	UpdatedAt   time.Time                  `json:"updatedAt"`
}

// Grade letters with their score cutoffs.
const (
	GradeA = "A" // >= 90
	GradeB = "B" // >= 80
	GradeC = "C" // >= 70
	GradeD = "D" // >= 60
	GradeF = "F"
)

// Result is one scoring of one snapshot against one config. Results and
// Scores contain exactly the metrics listed in the config. Immutable once
// saved.
type Result struct {
	ID         string                     `json:"id"`
	ConfigName string                     `json:"configName"`
	Timestamp  time.Time                  `json:"timestamp"`
	Results    map[metrics.Metric]float64 `json:"results"`
	Scores     map[metrics.Metric]float64 `json:"scores"`
	Overall    float64                    `json:"overallScore"`
	Grade      string                     `json:"grade"`
	Passed     bool                       `json:"passed"`
	Meta       metrics.Meta               `json:"meta"`
}

// MetricChange describes one metric's movement between two results.
type MetricChange struct {
	Metric    metrics.Metric `json:"metric"`
	Baseline  float64        `json:"baseline"`
	Current   float64        `json:"current"`
	ChangePct float64        `json:"changePct"`
}

// Comparison reports how a current result moved relative to a baseline
// result produced with the same config.
type Comparison struct {
	BaselineID   string         `json:"baselineId"`
	CurrentID    string         `json:"currentId"`
	ConfigName   string         `json:"configName"`
	ScoreDelta   float64        `json:"scoreDelta"`
	Improvements []MetricChange `json:"improvements"`
	Regressions  []MetricChange `json:"regressions"`
	Summary      string         `json:"summary"`
}
