package palette

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the palette resource cannot be located.
	ErrNotFound = errors.New("palette resource not found")

	// ErrUndecodable is returned when the palette resource is not valid UTF-8 text.
	ErrUndecodable = errors.New("palette resource is not valid text")

	// ErrMalformedRow is returned when a row lacks a tab-separated hex field.
	ErrMalformedRow = errors.New("color name and hex must be separated by a tab")

	// ErrInvalidCount is returned by Neighbors for a non-positive count.
	ErrInvalidCount = errors.New("count should be greater than 0")

	// ErrInvalidHex is returned by ParseHex for anything but 6 hex digits.
	ErrInvalidHex = errors.New("invalid hex color")

	// ErrInvalidColor is returned by ParseColor for components outside [0,1].
	ErrInvalidColor = errors.New("invalid color")
)

// RowError reports a malformed row in a palette resource.
type RowError struct {
	Line int    // 1-based line number
	Text string // raw row text
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, ErrMalformedRow, e.Text)
}

func (e *RowError) Unwrap() error { return ErrMalformedRow }
