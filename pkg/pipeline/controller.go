package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"

	"github.com/KlikkAI/verdict/pkg/analyzer/recommend"
	"github.com/KlikkAI/verdict/pkg/checker"
	"github.com/KlikkAI/verdict/pkg/history"
	"github.com/KlikkAI/verdict/pkg/metrics"
)

// ErrAlreadyRunning is returned when Run is invoked while another run on
// the same controller is still in flight.
var ErrAlreadyRunning = errors.New("pipeline: validation run already in progress")

// Controller executes validation runs. A controller is safe for concurrent
// use, but only one run may be in flight at a time.
type Controller struct {
	store     *history.Store
	engine    *recommend.Engine
	observers []Observer
	clock     func() time.Time

	running atomic.Bool
}

// Option configures the Controller.
type Option func(*Controller)

// WithStore sets the history store snapshots are appended to. Without a
// store, runs skip persistence.
func WithStore(s *history.Store) Option {
	return func(c *Controller) {
		c.store = s
	}
}

// WithRecommendEngine sets the engine used to derive recommendations.
func WithRecommendEngine(e *recommend.Engine) Option {
	return func(c *Controller) {
		c.engine = e
	}
}

// WithObserver registers a lifecycle observer. Observers are advisory;
// their panics are swallowed.
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		c.observers = append(c.observers, o)
	}
}

// WithClock overrides the time source, primarily for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.clock = now
	}
}

// New creates a controller.
func New(opts ...Option) *Controller {
	c := &Controller{
		engine: recommend.New(),
		clock:  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes the full validation pipeline over a measurement bundle.
// Component failures are isolated: the failing component's section reverts
// to defaults, a warning is recorded, and the run continues. Only result
// assembly and storage failures are critical. The returned result is
// always complete, whatever the status.
func (c *Controller) Run(ctx context.Context, bundle *checker.Bundle, meta metrics.Meta) (*ValidationResult, error) {
	if !c.running.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRunning
	}
	defer c.running.Store(false)

	start := c.clock()
	result := &ValidationResult{
		RunID:     uuid.NewString(),
		Timestamp: start,
	}

	if bundle == nil {
		bundle = &checker.Bundle{}
	}
	normalized := bundle.Normalize()

	c.notify(func(o Observer) { o.RunStarted(result.RunID) })

	for _, plan := range phasePlan {
		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, RunError{
				Severity: SeverityCritical,
				Phase:    plan.phase,
				Message:  fmt.Sprintf("run cancelled: %v", err),
			})
			break
		}
		pr := c.runPhase(plan.phase, plan.components, normalized, result)
		result.Phases = append(result.Phases, pr)
	}

	result.Snapshot = buildSnapshot(normalized, meta)
	result.Snapshot.Timestamp = start

	if c.store != nil {
		if err := c.store.Append(result.Snapshot); err != nil {
			result.Errors = append(result.Errors, RunError{
				Severity: SeverityCritical,
				Message:  fmt.Sprintf("failed to persist snapshot: %v", err),
			})
		}
	}

	result.MissingSections = normalized.Missing()
	result.Recommendations = append(c.engine.Generate(normalized), errorRecommendations(result.Errors)...)
	recommend.Sort(result.Recommendations)
	result.Status = deriveStatus(result.Errors)
	result.NextSteps = nextSteps(result)
	result.Duration = c.clock().Sub(start)

	c.notify(func(o Observer) { o.RunCompleted(result) })
	return result, nil
}

func (c *Controller) runPhase(phase Phase, components []component, n *checker.Normalized, result *ValidationResult) PhaseResult {
	c.notify(func(o Observer) { o.PhaseStarted(phase) })
	phaseStart := c.clock()

	outcomes := make([]ComponentResult, len(components))
	failures := make([]error, len(components))

	// Started notifications stay on the caller's goroutine so observers
	// never see concurrent callbacks.
	for _, comp := range components {
		c.notify(func(o Observer) { o.ComponentStarted(phase, comp.name) })
	}

	var wg conc.WaitGroup
	for i, comp := range components {
		wg.Go(func() {
			outcomes[i], failures[i] = runComponent(phase, comp, n)
		})
	}
	wg.Wait()

	pr := PhaseResult{Phase: phase}
	for i, comp := range components {
		if err := failures[i]; err != nil {
			n.MarkMissing(comp.section)
			result.Errors = append(result.Errors, RunError{
				Severity:  SeverityWarning,
				Phase:     phase,
				Component: comp.name,
				Message:   err.Error(),
			})
			outcomes[i] = ComponentResult{
				Name:    comp.name,
				Section: comp.section,
				Status:  ComponentErrored,
				Summary: "check failed, section reverted to defaults",
			}
		}
		cr := outcomes[i]
		pr.Components = append(pr.Components, cr)
		c.notify(func(o Observer) { o.ComponentCompleted(phase, cr, failures[i]) })
	}
	pr.Duration = c.clock().Sub(phaseStart)

	c.notify(func(o Observer) { o.PhaseCompleted(phase, pr) })
	return pr
}

// runComponent isolates a single check: unmeasured sections skip, panics
// and returned errors become a *ComponentError.
func runComponent(phase Phase, comp component, n *checker.Normalized) (result ComponentResult, err error) {
	if !n.Has(comp.section) {
		return skipped(comp), nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = &ComponentError{Phase: phase, Component: comp.name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	result, cerr := comp.check(n)
	if cerr != nil {
		return result, &ComponentError{Phase: phase, Component: comp.name, Err: cerr}
	}
	return result, nil
}

func (c *Controller) notify(fn func(Observer)) {
	for _, o := range c.observers {
		func() {
			defer func() { _ = recover() }()
			fn(o)
		}()
	}
}

// errorRecommendations maps each recorded run error to a finding so a
// degraded run still tells the operator what to repair.
func errorRecommendations(errs []RunError) []recommend.Recommendation {
	recs := make([]recommend.Recommendation, 0, len(errs))
	for _, e := range errs {
		rec := recommend.Recommendation{
			Category:    phaseCategory(e.Phase),
			Priority:    recommend.PriorityHigh,
			Title:       "Resolve the run failure",
			Description: e.Message,
			Impact:      "The run could not complete or record its results reliably.",
			Effort:      recommend.EffortLow,
			Steps:       []string{"Inspect the recorded error and re-run validation"},
		}
		if e.Severity == SeverityCritical {
			rec.Priority = recommend.PriorityCritical
		}
		if e.Component != "" {
			rec.Title = fmt.Sprintf("Repair the %s check", e.Component)
			rec.Impact = "Its section fell back to neutral defaults for this run."
			if steps := remediationSteps(e.Component); len(steps) > 0 {
				rec.Steps = steps
			}
		}
		recs = append(recs, rec)
	}
	return recs
}

func phaseCategory(p Phase) recommend.Category {
	switch p {
	case PhasePerformance:
		return recommend.CategoryPerformance
	case PhaseArchitecture:
		return recommend.CategoryArchitecture
	default:
		return recommend.CategoryBuild
	}
}

func deriveStatus(errs []RunError) Status {
	status := StatusSuccess
	for _, e := range errs {
		if e.Severity == SeverityCritical {
			return StatusFailure
		}
		status = StatusWarning
	}
	return status
}

func nextSteps(result *ValidationResult) []string {
	var steps []string

	switch result.Status {
	case StatusFailure:
		steps = append(steps, "Resolve the critical errors and re-run validation")
	case StatusWarning:
		steps = append(steps, "Investigate the warnings; affected sections used neutral defaults")
	}

	for _, pr := range result.Phases {
		for _, cr := range pr.Components {
			if cr.Status == ComponentFailing {
				steps = append(steps, fmt.Sprintf("Fix %s: %s", cr.Name, cr.Summary))
			}
		}
	}

	if len(result.MissingSections) > 0 {
		names := make([]string, len(result.MissingSections))
		for i, s := range result.MissingSections {
			names[i] = string(s)
		}
		steps = append(steps, fmt.Sprintf("Provide measurements for: %s", strings.Join(names, ", ")))
	}

	if len(result.Recommendations) > 0 {
		steps = append(steps, fmt.Sprintf("Start with the top recommendation: %s", result.Recommendations[0].Title))
	}

	if len(steps) == 0 {
		steps = append(steps, "All checks passed; commit the results")
	}
	return steps
}
