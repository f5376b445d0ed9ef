package property

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEncoding is returned when a property blob cannot be decoded.
	ErrInvalidEncoding = errors.New("property: invalid encoding")

	// ErrUnsupportedType is returned when a Go value has no property kind.
	ErrUnsupportedType = errors.New("property: unsupported value type")

	// ErrHeterogeneousList is returned when list items do not share one kind.
	ErrHeterogeneousList = errors.New("property: heterogeneous list")
)

// HeterogeneousListError reports the first list item whose kind differs
// from the first item.
type HeterogeneousListError struct {
	Index int
	Want  Kind
	Got   Kind
}

func (e *HeterogeneousListError) Error() string {
	return fmt.Sprintf("property: list item %d is %s, want %s", e.Index, e.Got, e.Want)
}

func (e *HeterogeneousListError) Unwrap() error {
	return ErrHeterogeneousList
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidEncoding, fmt.Sprintf(format, args...))
}
