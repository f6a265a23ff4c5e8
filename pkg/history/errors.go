package history

import "fmt"

// StorageError indicates the backing medium for metric history is
// unavailable. Losing metric history is a data-integrity concern, so
// storage failures always propagate and are never silently swallowed.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("history storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
