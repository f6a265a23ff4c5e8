package benchmark

import "fmt"

// NotFoundError indicates a referenced config or result does not exist.
// This is a caller-input error and is never retried.
type NotFoundError struct {
	Kind string // "config" or "result"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("benchmark %s %q not found", e.Kind, e.Name)
}

// ConfigMismatchError indicates two results were produced with different
// configs and cannot be compared.
type ConfigMismatchError struct {
	Baseline string
	Current  string
}

func (e *ConfigMismatchError) Error() string {
	return fmt.Sprintf("cannot compare results from different configs: %q vs %q", e.Baseline, e.Current)
}
