package disk

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is returned when the store directory is unusable.
	ErrConfiguration = errors.New("disk: invalid configuration")

	// ErrChecksumMismatch is returned when a restored file does not match its manifest.
	ErrChecksumMismatch = errors.New("disk: checksum mismatch")
)

// ConfigurationError reports why a store directory was rejected.
type ConfigurationError struct {
	Dir    string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("disk: directory %q %s: %v", e.Dir, e.Reason, e.Err)
	}
	return fmt.Sprintf("disk: directory %q %s", e.Dir, e.Reason)
}

func (e *ConfigurationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrConfiguration, e.Err}
	}
	return []error{ErrConfiguration}
}
