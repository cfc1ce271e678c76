package sequence

import (
	"bytes"

	"github.com/dshills/strseq/internal/codec"
)

// NotFound is returned by the index operations when the value does not occur.
const NotFound = -1

// CharAt returns the character at index, decoded into UTF-8.
func (s *Sequence) CharAt(index int) (string, error) {
	raw, err := s.charAt("charAt", index)
	if err != nil {
		return "", err
	}
	out, err := s.codec.Transcode(raw, s.encoding, codec.DefaultEncoding)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// CharAtRaw returns the bytes of the character at index, in the sequence
// encoding.
func (s *Sequence) CharAtRaw(index int) ([]byte, error) {
	return s.charAt("charAtRaw", index)
}

func (s *Sequence) charAt(op string, index int) ([]byte, error) {
	n, err := s.Length()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= n {
		return nil, rangeError(op, index, n)
	}
	return s.slice(index, 1)
}

// IndexOf returns the index of the first occurrence of v, or NotFound.
// An empty value is found at 0.
func (s *Sequence) IndexOf(v Value) (int, error) {
	return s.index("indexOf", v, 0, false)
}

// IndexFrom returns the index of the first occurrence of v at or after
// offset, or NotFound. Offset must lie in [0, Length()).
func (s *Sequence) IndexFrom(v Value, offset int) (int, error) {
	return s.index("indexOf", v, offset, true)
}

// LastIndexOf returns the index of the last occurrence of v, or NotFound.
// An empty value is found at Length().
func (s *Sequence) LastIndexOf(v Value) (int, error) {
	return s.lastIndex("lastIndexOf", v, 0, false)
}

// LastIndexFrom returns the index of the last occurrence of v starting at or
// before offset, or NotFound. Offset must lie in [0, Length()).
func (s *Sequence) LastIndexFrom(v Value, offset int) (int, error) {
	return s.lastIndex("lastIndexOf", v, offset, true)
}

// Contains reports whether v occurs in the sequence.
func (s *Sequence) Contains(v Value) (bool, error) {
	i, err := s.IndexOf(v)
	if err != nil {
		return false, err
	}
	return i != NotFound, nil
}

// StartsWith reports whether the sequence begins with v. Every sequence
// starts with the empty value.
func (s *Sequence) StartsWith(v Value) (bool, error) {
	return s.hasAffix(v, true)
}

// EndsWith reports whether the sequence ends with v. Every sequence ends
// with the empty value.
func (s *Sequence) EndsWith(v Value) (bool, error) {
	return s.hasAffix(v, false)
}

func (s *Sequence) hasAffix(v Value, prefix bool) (bool, error) {
	needle, err := s.convert(v)
	if err != nil {
		return false, err
	}
	k, err := s.codec.Length(needle, s.encoding)
	if err != nil {
		return false, err
	}
	if k == 0 {
		return true, nil
	}
	n, err := s.Length()
	if err != nil {
		return false, err
	}
	if k > n {
		return false, nil
	}

	var part *Sequence
	if prefix {
		part, err = s.SubstringRange(0, k-1)
	} else {
		part, err = s.Substring(n - k)
	}
	if err != nil {
		return false, err
	}
	return bytes.Equal(part.data, needle), nil
}

// Substring returns a new sequence holding the characters from start to the
// end.
func (s *Sequence) Substring(start int) (*Sequence, error) {
	n, err := s.Length()
	if err != nil {
		return nil, err
	}
	if start < 0 || start >= n {
		return nil, rangeError("substring", start, n)
	}
	out, err := s.slice(start, -1)
	if err != nil {
		return nil, err
	}
	return s.derive(out), nil
}

// SubstringRange returns a new sequence holding characters [start, end],
// end included.
func (s *Sequence) SubstringRange(start, end int) (*Sequence, error) {
	n, err := s.Length()
	if err != nil {
		return nil, err
	}
	sp := NewSpan(start, end)
	if err := sp.check("substring", n); err != nil {
		return nil, err
	}
	out, err := s.slice(sp.Start, sp.Count())
	if err != nil {
		return nil, err
	}
	return s.derive(out), nil
}

// search splits the sequence and the converted needle into characters.
func (s *Sequence) search(v Value) (hay, needle []codec.Char, err error) {
	nb, err := s.convert(v)
	if err != nil {
		return nil, nil, err
	}
	hay, err = s.codec.Chars(s.data, s.encoding)
	if err != nil {
		return nil, nil, err
	}
	needle, err = s.codec.Chars(nb, s.encoding)
	if err != nil {
		return nil, nil, err
	}
	return hay, needle, nil
}

func (s *Sequence) index(op string, v Value, offset int, bounded bool) (int, error) {
	hay, needle, err := s.search(v)
	if err != nil {
		return NotFound, err
	}
	if bounded && (offset < 0 || offset >= len(hay)) {
		return NotFound, rangeError(op, offset, len(hay))
	}
	for i := offset; i+len(needle) <= len(hay); i++ {
		if matchAt(hay, needle, i) {
			return i, nil
		}
	}
	return NotFound, nil
}

func (s *Sequence) lastIndex(op string, v Value, offset int, bounded bool) (int, error) {
	hay, needle, err := s.search(v)
	if err != nil {
		return NotFound, err
	}
	if !bounded {
		offset = len(hay)
	} else if offset < 0 || offset >= len(hay) {
		return NotFound, rangeError(op, offset, len(hay))
	}
	for i := min(offset, len(hay)-len(needle)); i >= 0; i-- {
		if matchAt(hay, needle, i) {
			return i, nil
		}
	}
	return NotFound, nil
}

func matchAt(hay, needle []codec.Char, i int) bool {
	for k, c := range needle {
		if !bytes.Equal(hay[i+k].Raw, c.Raw) {
			return false
		}
	}
	return true
}
