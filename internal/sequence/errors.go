package sequence

import (
	"errors"
	"fmt"
)

// Errors returned by sequence operations.
var (
	// ErrIndexOutOfRange indicates a character index or range is outside
	// [0, Length()).
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrEmptyPadding indicates SetLengthPad was asked to grow with a pad
	// that has no characters.
	ErrEmptyPadding = errors.New("padding is empty")

	// ErrPaddingStalled indicates appending the pad no longer adds
	// characters, as with a lone combining mark under the grapheme unit.
	ErrPaddingStalled = errors.New("padding does not extend the sequence")
)

// RangeError describes a rejected character index or span.
type RangeError struct {
	Op     string // operation name
	Index  int    // offending index
	Length int    // sequence length at the time of the call

	// Span is set when both ends are valid indices but the end precedes
	// the start. Index is then the end.
	Span *Span
}

// Error implements the error interface.
func (e *RangeError) Error() string {
	if e.Span != nil {
		return fmt.Sprintf("sequence %s: span %s ends before it starts", e.Op, e.Span)
	}
	return fmt.Sprintf("sequence %s: index %d out of range [0, %d)", e.Op, e.Index, e.Length)
}

// Unwrap returns ErrIndexOutOfRange.
func (e *RangeError) Unwrap() error {
	return ErrIndexOutOfRange
}

func rangeError(op string, index, length int) error {
	return &RangeError{Op: op, Index: index, Length: length}
}
