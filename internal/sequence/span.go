package sequence

import "fmt"

// Span is a character range with an inclusive end: [Start, End].
type Span struct {
	Start int // first character
	End   int // last character, included
}

// NewSpan creates a Span from start and end.
func NewSpan(start, end int) Span {
	return Span{Start: start, End: end}
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	return fmt.Sprintf("[%d:%d]", s.Start, s.End)
}

// Count returns the number of characters covered. A span whose end lies
// before its start covers nothing.
func (s Span) Count() int {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start + 1
}

// Contains reports whether index lies within the span.
func (s Span) Contains(index int) bool {
	return index >= s.Start && index <= s.End
}

// check validates the span against a sequence of length n. Both ends must
// lie in [0, n) and End may not precede Start.
func (s Span) check(op string, n int) error {
	all := Span{Start: 0, End: n - 1}
	if !all.Contains(s.Start) {
		return rangeError(op, s.Start, n)
	}
	if !all.Contains(s.End) {
		return rangeError(op, s.End, n)
	}
	if s.End < s.Start {
		inverted := s
		return &RangeError{Op: op, Index: s.End, Length: n, Span: &inverted}
	}
	return nil
}
