package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrCorrupt is returned when the directory or data file is inconsistent.
	ErrCorrupt = errors.New("storage: data corruption detected")

	// ErrClosed is returned when an operation is attempted on a closed storage.
	ErrClosed = errors.New("storage: closed")

	// ErrEmptyRecord is returned when a record encodes to zero bytes.
	ErrEmptyRecord = errors.New("storage: empty record")

	// ErrFull is returned when no block position fits in the directory format.
	ErrFull = errors.New("storage: block address space exhausted")
)

// CorruptionError describes where corruption was detected.
type CorruptionError struct {
	Name   string
	Reason string
	Err    error
}

func (e *CorruptionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("storage %s: corrupt: %s: %v", e.Name, e.Reason, e.Err)
	}
	return fmt.Sprintf("storage %s: corrupt: %s", e.Name, e.Reason)
}

func (e *CorruptionError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrCorrupt, e.Err}
	}
	return []error{ErrCorrupt}
}
