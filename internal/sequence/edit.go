package sequence

import (
	"bytes"

	"github.com/dshills/strseq/internal/codec"
)

// Append transcodes v and adds it to the end of the sequence.
func (s *Sequence) Append(v Value) error {
	b, err := s.convert(v)
	if err != nil {
		return err
	}
	s.data = append(s.data, b...)
	return nil
}

// Insert transcodes v and inserts it before the character at offset.
// Offset must lie in [0, Length()); use Append to add at the end.
func (s *Sequence) Insert(offset int, v Value) error {
	n, err := s.Length()
	if err != nil {
		return err
	}
	if offset < 0 || offset >= n {
		return rangeError("insert", offset, n)
	}

	b, err := s.convert(v)
	if err != nil {
		return err
	}
	out, err := s.splice(offset, offset-1, b)
	if err != nil {
		return err
	}
	s.data = out
	return nil
}

// Replace replaces characters [start, end], end included, with v.
func (s *Sequence) Replace(start, end int, v Value) error {
	n, err := s.Length()
	if err != nil {
		return err
	}
	sp := NewSpan(start, end)
	if err := sp.check("replace", n); err != nil {
		return err
	}

	b, err := s.convert(v)
	if err != nil {
		return err
	}
	out, err := s.splice(sp.Start, sp.End, b)
	if err != nil {
		return err
	}
	s.data = out
	return nil
}

// Delete removes characters [start, end], end included.
func (s *Sequence) Delete(start, end int) error {
	return s.remove("delete", NewSpan(start, end))
}

// DeleteCharAt removes the character at index.
func (s *Sequence) DeleteCharAt(index int) error {
	return s.remove("deleteCharAt", NewSpan(index, index))
}

func (s *Sequence) remove(op string, sp Span) error {
	n, err := s.Length()
	if err != nil {
		return err
	}
	if err := sp.check(op, n); err != nil {
		return err
	}
	out, err := s.splice(sp.Start, sp.End, nil)
	if err != nil {
		return err
	}
	s.data = out
	return nil
}

// Reverse reverses the order of the characters. Bytes within a character
// keep their order.
func (s *Sequence) Reverse() error {
	chars, err := s.codec.Chars(s.data, s.encoding)
	if err != nil {
		return err
	}
	out := make([]byte, 0, len(s.data))
	for i := len(chars) - 1; i >= 0; i-- {
		out = append(out, chars[i].Raw...)
	}
	s.data = out
	return nil
}

// SetLength truncates the sequence to n characters, or grows it with the
// configured padding.
func (s *Sequence) SetLength(n int) error {
	return s.SetLengthPad(n, Text(s.padding))
}

// maxPadStall is how many consecutive pad copies may leave the length
// unchanged before SetLengthPad gives up. Regional indicators pair up, so a
// single copy can merge into the previous character.
const maxPadStall = 2

// SetLengthPad truncates the sequence to exactly n characters. When n is
// larger than Length, whole copies of pad are appended until the length
// reaches at least n, so a multi-character pad may overshoot. Under the
// grapheme unit a copy can merge into the preceding character; if copies
// stop adding characters the call fails with ErrPaddingStalled.
func (s *Sequence) SetLengthPad(n int, pad Value) error {
	cur, err := s.Length()
	if err != nil {
		return err
	}
	if n < 0 {
		return rangeError("setLength", n, cur)
	}
	if n == cur {
		return nil
	}

	if n < cur {
		out, err := s.slice(0, n)
		if err != nil {
			return err
		}
		s.data = out
		return nil
	}

	b, err := s.convert(pad)
	if err != nil {
		return err
	}
	unit, err := s.codec.Length(b, s.encoding)
	if err != nil {
		return err
	}
	if unit == 0 {
		return ErrEmptyPadding
	}

	// Each copy normally adds unit characters; top up one copy at a time
	// when a copy merged with its neighbour.
	out := append(bytes.Clone(s.data), bytes.Repeat(b, (n-cur+unit-1)/unit)...)
	length, err := s.codec.Length(out, s.encoding)
	if err != nil {
		return err
	}
	for stalled := 0; length < n; {
		out = append(out, b...)
		next, err := s.codec.Length(out, s.encoding)
		if err != nil {
			return err
		}
		if next > length {
			length, stalled = next, 0
			continue
		}
		if stalled++; stalled >= maxPadStall {
			return ErrPaddingStalled
		}
	}
	s.data = out
	return nil
}

// Trim removes the characters in cutset from both ends. An empty cutset
// means codec.Whitespace.
func (s *Sequence) Trim(cutset string) error {
	return s.trim(cutset, codec.Both)
}

// TrimLeft removes the characters in cutset from the start.
func (s *Sequence) TrimLeft(cutset string) error {
	return s.trim(cutset, codec.Left)
}

// TrimRight removes the characters in cutset from the end.
func (s *Sequence) TrimRight(cutset string) error {
	return s.trim(cutset, codec.Right)
}

func (s *Sequence) trim(cutset string, side codec.Side) error {
	out, err := s.codec.Trim(s.data, s.encoding, cutset, side)
	if err != nil {
		return err
	}
	s.data = out
	return nil
}
