// Package progress renders run progress on stderr.
package progress

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/KlikkAI/verdict/pkg/pipeline"
)

// Tracker wraps a progress bar for multi-step operations.
type Tracker struct {
	bar   *progressbar.ProgressBar
	label string
}

// NewSpinner creates a spinner for operations with unknown total count.
func NewSpinner(label string) *Tracker {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	return &Tracker{bar: bar, label: label}
}

// NewTracker creates a progress bar with the given label and total count.
func NewTracker(label string, total int) *Tracker {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(label),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &Tracker{bar: bar, label: label}
}

// Tick increments the progress by 1. Safe for concurrent use.
func (t *Tracker) Tick() {
	t.bar.Add(1)
}

// FinishSuccess clears the bar completely (no output).
func (t *Tracker) FinishSuccess() {
	t.bar.Finish()
	t.bar.Clear()
}

// FinishError clears the bar and prints an error message to stderr.
func (t *Tracker) FinishError(err error) {
	t.bar.Finish()
	t.bar.Clear()
	fmt.Fprintf(os.Stderr, "  %s error: %v\n", t.label, err)
}

// RunObserver renders pipeline lifecycle events as a per-phase spinner.
// It implements pipeline.Observer.
type RunObserver struct {
	verbose bool
	current *Tracker
}

// NewRunObserver creates an observer. Verbose mode prints each component
// outcome instead of only phase transitions.
func NewRunObserver(verbose bool) *RunObserver {
	return &RunObserver{verbose: verbose}
}

func (o *RunObserver) RunStarted(runID string) {
	if o.verbose {
		fmt.Fprintf(os.Stderr, "run %s started\n", runID)
	}
}

func (o *RunObserver) PhaseStarted(phase pipeline.Phase) {
	o.current = NewSpinner(fmt.Sprintf("phase %s", phase))
}

func (o *RunObserver) ComponentStarted(phase pipeline.Phase, name string) {
	if o.verbose {
		fmt.Fprintf(os.Stderr, "  %s/%s...\n", phase, name)
	}
}

func (o *RunObserver) ComponentCompleted(phase pipeline.Phase, result pipeline.ComponentResult, err error) {
	if o.current != nil {
		o.current.Tick()
	}
	if o.verbose {
		fmt.Fprintf(os.Stderr, "  %s/%s: %s\n", phase, result.Name, result.Status)
	}
}

func (o *RunObserver) PhaseCompleted(phase pipeline.Phase, result pipeline.PhaseResult) {
	if o.current != nil {
		o.current.FinishSuccess()
		o.current = nil
	}
}

func (o *RunObserver) RunCompleted(result *pipeline.ValidationResult) {
	if o.verbose {
		fmt.Fprintf(os.Stderr, "run %s completed: %s\n", result.RunID, result.Status)
	}
}
