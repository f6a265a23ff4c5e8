// Package pipeline orchestrates validation runs: three fixed phases of
// failure-isolated component checks over a measurement bundle, followed by
// snapshot persistence and recommendation derivation.
package pipeline

import (
	"fmt"
	"time"

	"github.com/KlikkAI/verdict/pkg/analyzer/recommend"
	"github.com/KlikkAI/verdict/pkg/checker"
	"github.com/KlikkAI/verdict/pkg/metrics"
)

// Phase names one of the three fixed validation phases.
type Phase string

const (
	PhaseSystem       Phase = "system"
	PhasePerformance  Phase = "performance"
	PhaseArchitecture Phase = "architecture"
)

// Status is the overall outcome of a run.
type Status string

const (
	StatusSuccess Status = "success"
	StatusWarning Status = "warning"
	StatusFailure Status = "failure"
)

// Severity classifies a recorded run error.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// RunError is one problem recorded during a run. Warnings come from
// isolated component failures; criticals from result assembly or storage.
type RunError struct {
	Severity  Severity `json:"severity"`
	Phase     Phase    `json:"phase,omitempty"`
	Component string   `json:"component,omitempty"`
	Message   string   `json:"message"`
}

// ComponentError wraps a failure inside one component check. It is
// recorded and substituted, never propagated out of Run.
type ComponentError struct {
	Phase     Phase
	Component string
	Err       error
}

func (e *ComponentError) Error() string {
	return fmt.Sprintf("%s/%s: %v", e.Phase, e.Component, e.Err)
}

func (e *ComponentError) Unwrap() error {
	return e.Err
}

// ComponentStatus is the outcome of a single component check.
type ComponentStatus string

const (
	ComponentPassed  ComponentStatus = "passed"
	ComponentFailing ComponentStatus = "failing"
	ComponentSkipped ComponentStatus = "skipped"
	ComponentErrored ComponentStatus = "errored"
)

// ComponentResult records one component's verdict within a phase.
type ComponentResult struct {
	Name    string          `json:"name"`
	Section checker.Section `json:"section"`
	Status  ComponentStatus `json:"status"`
	Summary string          `json:"summary,omitempty"`
}

// PhaseResult aggregates the component results of one phase.
type PhaseResult struct {
	Phase      Phase             `json:"phase"`
	Components []ComponentResult `json:"components"`
	Duration   time.Duration     `json:"durationNs"`
}

// ValidationResult is the complete, never-partial outcome of one run.
type ValidationResult struct {
	RunID           string                     `json:"runId"`
	Timestamp       time.Time                  `json:"timestamp"`
	Duration        time.Duration              `json:"durationNs"`
	Status          Status                     `json:"status"`
	Phases          []PhaseResult              `json:"phases"`
	Errors          []RunError                 `json:"errors"`
	MissingSections []checker.Section          `json:"missingSections,omitempty"`
	Snapshot        metrics.Snapshot           `json:"snapshot"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
	NextSteps       []string                   `json:"nextSteps"`
}

// Observer receives advisory lifecycle notifications during a run. All
// callbacks are synchronous and single-threaded; implementations must not
// block. A failed run is delivered through RunCompleted with the terminal
// status, not a separate callback.
type Observer interface {
	RunStarted(runID string)
	PhaseStarted(phase Phase)
	ComponentStarted(phase Phase, name string)
	ComponentCompleted(phase Phase, result ComponentResult, err error)
	PhaseCompleted(phase Phase, result PhaseResult)
	RunCompleted(result *ValidationResult)
}
