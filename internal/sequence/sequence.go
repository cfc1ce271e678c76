package sequence

import (
	"bytes"
	"unicode/utf8"

	"github.com/dshills/strseq/internal/codec"
)

// Sequence is a mutable run of characters stored as raw bytes in a named
// encoding. The bytes are the only state; nothing decoded is cached.
type Sequence struct {
	data     []byte
	encoding string
	padding  string
	codec    codec.Codec
}

// New creates a sequence holding initial, transcoded into the sequence
// encoding (UTF-8 unless WithEncoding says otherwise). A nil initial value
// creates an empty sequence.
func New(initial Value, opts ...Option) (*Sequence, error) {
	s := &Sequence{
		data:     []byte{},
		encoding: codec.DefaultEncoding,
		padding:  DefaultPadding,
		codec:    codec.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if initial != nil {
		b, err := s.convert(initial)
		if err != nil {
			return nil, err
		}
		s.data = b
	}
	return s, nil
}

// MustNew is like New but panics on error.
func MustNew(initial Value, opts ...Option) *Sequence {
	s, err := New(initial, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// derive returns a sequence holding data with the receiver's settings.
func (s *Sequence) derive(data []byte) *Sequence {
	return &Sequence{
		data:     data,
		encoding: s.encoding,
		padding:  s.padding,
		codec:    s.codec,
	}
}

// Clone returns an independent copy of the sequence.
func (s *Sequence) Clone() *Sequence {
	return s.derive(bytes.Clone(s.data))
}

// Codec returns the codec answering character questions for s.
func (s *Sequence) Codec() codec.Codec {
	return s.codec
}

// Encoding returns the encoding tag.
func (s *Sequence) Encoding() string {
	return s.encoding
}

// SetEncoding retags the sequence without touching its bytes. The bytes are
// reinterpreted under the new name.
func (s *Sequence) SetEncoding(name string) *Sequence {
	s.encoding = name
	return s
}

// ChangeEncoding transcodes the bytes into name and retags the sequence.
func (s *Sequence) ChangeEncoding(name string) error {
	out, err := s.codec.Transcode(s.data, s.encoding, name)
	if err != nil {
		return err
	}
	s.data = out
	s.encoding = name
	return nil
}

// Bytes returns a copy of the raw bytes.
func (s *Sequence) Bytes() []byte {
	return bytes.Clone(s.data)
}

// String returns the raw bytes as a string. The result is in the sequence
// encoding, not necessarily UTF-8; use Text for display.
func (s *Sequence) String() string {
	return string(s.data)
}

// Text returns the content decoded into UTF-8.
func (s *Sequence) Text() (string, error) {
	out, err := s.codec.Transcode(s.data, s.encoding, codec.DefaultEncoding)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(out) {
		return "", &codec.Error{Op: "text", Encoding: s.encoding, Err: codec.ErrMalformed}
	}
	return string(out), nil
}

// ByteCount returns the storage size in bytes.
func (s *Sequence) ByteCount() int {
	return len(s.data)
}

// Length returns the number of characters. The bytes are decoded on every
// call.
func (s *Sequence) Length() (int, error) {
	return s.codec.Length(s.data, s.encoding)
}

// convert transcodes v into the sequence encoding. Values without an
// encoding have it detected first.
func (s *Sequence) convert(v Value) ([]byte, error) {
	raw := v.Bytes()
	from := v.Encoding()
	if from == "" {
		if len(raw) == 0 {
			return []byte{}, nil
		}
		detected, err := s.codec.Detect(raw)
		if err != nil {
			return nil, err
		}
		from = detected
	}
	return s.codec.Transcode(raw, from, s.encoding)
}

// slice returns count characters from start; a negative count runs to the end.
func (s *Sequence) slice(start, count int) ([]byte, error) {
	return s.codec.Slice(s.data, s.encoding, start, count)
}

// splice builds head + mid + tail, where head is the characters before start
// and tail the characters after end (inclusive).
func (s *Sequence) splice(start, end int, mid []byte) ([]byte, error) {
	head, err := s.slice(0, start)
	if err != nil {
		return nil, err
	}
	tail, err := s.slice(end+1, -1)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(head)+len(mid)+len(tail))
	out = append(out, head...)
	out = append(out, mid...)
	return append(out, tail...), nil
}
