package benchmark

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/KlikkAI/verdict/pkg/metrics"
)

// Engine scores snapshots against benchmark configs and compares persisted
// results through its registry.
type Engine struct {
	registry Registry
}

// NewEngine creates an engine backed by the given registry.
func NewEngine(registry Registry) *Engine {
	return &Engine{registry: registry}
}

// Score evaluates a snapshot against the named config and appends the
// result to the config's history.
func (e *Engine) Score(snapshot metrics.Snapshot, configName string) (*Result, error) {
	cfg, err := e.registry.Config(configName)
	if err != nil {
		return nil, err
	}

	result := Evaluate(snapshot, cfg)
	if err := e.registry.SaveResult(result); err != nil {
		return nil, fmt.Errorf("failed to save benchmark result: %w", err)
	}
	return result, nil
}

// Evaluate scores a snapshot against a config without persisting anything.
// Results and Scores carry exactly the config's tracked metrics.
func Evaluate(snapshot metrics.Snapshot, cfg *Config) *Result {
	snapshot = snapshot.Sanitized()

	result := &Result{
		ID:         uuid.NewString(),
		ConfigName: cfg.Name,
		Timestamp:  time.Now().UTC(),
		Results:    make(map[metrics.Metric]float64, len(cfg.Metrics)),
		Scores:     make(map[metrics.Metric]float64, len(cfg.Metrics)),
		Passed:     true,
		Meta:       snapshot.Meta,
	}

	total := 0.0
	for _, m := range cfg.Metrics {
		value := snapshot.Value(m)
		result.Results[m] = value

		var score float64 = neutralScore
		if tier, ok := cfg.Thresholds[m]; ok {
			score = scoreAgainstTier(value, tier, m.Polarity())
		}
		result.Scores[m] = score
		total += score

		if target, ok := cfg.Targets[m]; ok && !meetsTarget(value, target, m.Polarity()) {
			result.Passed = false
		}
	}

	if len(cfg.Metrics) > 0 {
		result.Overall = total / float64(len(cfg.Metrics))
	}
	result.Grade = GradeFor(result.Overall)
	return result
}

// neutralScore is assigned when a metric has no configured thresholds.
const neutralScore = 50

// scoreAgainstTier maps a raw value onto 0-100. Values at the excellent
// threshold score exactly 100 and values at the poor threshold exactly 60;
// beyond poor the score decays linearly toward 0.
func scoreAgainstTier(value float64, tier Tier, p metrics.Polarity) float64 {
	if p == metrics.LowerIsBetter {
		switch {
		case value <= tier.Excellent:
			return 100
		case value <= tier.Good:
			return 80
		case value <= tier.Poor:
			return 60
		default:
			if tier.Poor <= 0 {
				return 0
			}
			return math.Max(0, 60-((value-tier.Poor)/tier.Poor)*30)
		}
	}

	switch {
	case value >= tier.Excellent:
		return 100
	case value >= tier.Good:
		return 80
	case value >= tier.Poor:
		return 60
	default:
		if tier.Poor <= 0 {
			return 0
		}
		return math.Max(0, 60-((tier.Poor-value)/tier.Poor)*30)
	}
}

func meetsTarget(value, target float64, p metrics.Polarity) bool {
	if p == metrics.LowerIsBetter {
		return value <= target
	}
	return value >= target
}

// GradeFor maps an overall score to its letter grade.
func GradeFor(score float64) string {
	switch {
	case score >= 90:
		return GradeA
	case score >= 80:
		return GradeB
	case score >= 70:
		return GradeC
	case score >= 60:
		return GradeD
	default:
		return GradeF
	}
}

// Compare loads two persisted results and reports per-metric movement.
// Only metrics whose raw value moved by more than one percent are listed.
func (e *Engine) Compare(baselineID, currentID string) (*Comparison, error) {
	baseline, err := e.registry.Result(baselineID)
	if err != nil {
		return nil, err
	}
	current, err := e.registry.Result(currentID)
	if err != nil {
		return nil, err
	}
	if baseline.ConfigName != current.ConfigName {
		return nil, &ConfigMismatchError{Baseline: baseline.ConfigName, Current: current.ConfigName}
	}

	cmp := &Comparison{
		BaselineID: baseline.ID,
		CurrentID:  current.ID,
		ConfigName: baseline.ConfigName,
		ScoreDelta: current.Overall - baseline.Overall,
	}

	for m, baseValue := range baseline.Results {
		curValue, ok := current.Results[m]
		if !ok || baseValue == 0 {
			continue
		}
		changePct := (curValue - baseValue) / baseValue * 100
		if math.Abs(changePct) <= 1 {
			continue
		}

		change := MetricChange{Metric: m, Baseline: baseValue, Current: curValue, ChangePct: changePct}
		if m.Polarity().Improved(baseValue, curValue) {
			cmp.Improvements = append(cmp.Improvements, change)
		} else {
			cmp.Regressions = append(cmp.Regressions, change)
		}
	}

	byMagnitude := func(changes []MetricChange) {
		sort.Slice(changes, func(i, j int) bool {
			return math.Abs(changes[i].ChangePct) > math.Abs(changes[j].ChangePct)
		})
	}
	byMagnitude(cmp.Improvements)
	byMagnitude(cmp.Regressions)

	cmp.Summary = summarize(cmp)
	return cmp, nil
}

func summarize(cmp *Comparison) string {
	summary := fmt.Sprintf("Overall score moved %+.1f points.", cmp.ScoreDelta)
	if len(cmp.Improvements) > 0 {
		best := cmp.Improvements[0]
		summary += fmt.Sprintf(" Biggest improvement: %s (%+.1f%%).", best.Metric.Display(), best.ChangePct)
	}
	if len(cmp.Regressions) > 0 {
		worst := cmp.Regressions[0]
		summary += fmt.Sprintf(" Biggest regression: %s (%+.1f%%).", worst.Metric.Display(), worst.ChangePct)
	}
	if len(cmp.Improvements) == 0 && len(cmp.Regressions) == 0 {
		summary += " No metric moved more than one percent."
	}
	return summary
}
