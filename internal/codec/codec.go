package codec

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	gdenc "github.com/gdamore/encoding"
	"github.com/rivo/uniseg"
	"golang.org/x/text/encoding"
)

// Whitespace is the trim set used when no characters are given.
const Whitespace = " \t\n\r\x00\x0B"

// Unit selects what counts as one character.
type Unit uint8

const (
	// CodePoint counts Unicode code points.
	CodePoint Unit = iota
	// Grapheme counts extended grapheme clusters.
	Grapheme
)

// String returns the configuration spelling of the unit.
func (u Unit) String() string {
	switch u {
	case CodePoint:
		return "codepoint"
	case Grapheme:
		return "grapheme"
	default:
		return "unknown"
	}
}

// ParseUnit parses a unit name. The empty string selects CodePoint.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "codepoint", "code-point", "rune":
		return CodePoint, nil
	case "grapheme", "cluster":
		return Grapheme, nil
	default:
		return CodePoint, fmt.Errorf("unknown character unit %q", s)
	}
}

// Side selects which ends Trim works on.
type Side uint8

const (
	Both  Side = iota // both ends
	Left              // leading characters only
	Right             // trailing characters only
)

// Char is one character of an encoded buffer.
type Char struct {
	// Raw holds the character's bytes in the buffer encoding.
	Raw []byte
	// Text holds the character as UTF-8.
	Text string
}

// Codec is the text-codec collaborator of a sequence. All character
// positions are zero-based character indices.
type Codec interface {
	// Detect guesses the encoding of raw.
	Detect(raw []byte) (string, error)

	// Transcode converts raw from one encoding into another.
	Transcode(raw []byte, from, to string) ([]byte, error)

	// Length returns the number of characters in raw.
	Length(raw []byte, enc string) (int, error)

	// Slice returns count characters starting at start, in enc.
	// A negative count means "to the end".
	Slice(raw []byte, enc string, start, count int) ([]byte, error)

	// Chars splits raw into its characters.
	Chars(raw []byte, enc string) ([]Char, error)

	// Trim removes characters found in cutset from the given side(s).
	Trim(raw []byte, enc string, cutset string, side Side) ([]byte, error)

	// Equal reports whether two encoding names denote the same encoding.
	Equal(a, b string) bool
}

// DefaultDetectOrder returns the default detection candidates.
func DefaultDetectOrder() []string {
	return []string{"ASCII", "UTF-8"}
}

// XText implements Codec on top of golang.org/x/text encodings.
type XText struct {
	unit  Unit
	order []string
}

// Option configures an XText codec.
type Option func(*XText)

// WithUnit sets what counts as one character.
func WithUnit(u Unit) Option {
	return func(c *XText) {
		c.unit = u
	}
}

// WithDetectOrder sets the detection candidates, tried in order.
func WithDetectOrder(names ...string) Option {
	return func(c *XText) {
		if len(names) > 0 {
			c.order = append([]string(nil), names...)
		}
	}
}

// New creates a codec.
func New(opts ...Option) *XText {
	c := &XText{
		unit:  CodePoint,
		order: DefaultDetectOrder(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultCodec = New()

// Default returns the shared code point codec with the default detection order.
func Default() *XText {
	return defaultCodec
}

// Unit returns the character unit.
func (c *XText) Unit() Unit {
	return c.unit
}

// DetectOrder returns a copy of the detection candidates.
func (c *XText) DetectOrder() []string {
	return append([]string(nil), c.order...)
}

// Equal reports whether two encoding names denote the same encoding.
func (c *XText) Equal(a, b string) bool {
	return Equal(a, b)
}

// Transcode converts raw from one encoding into another. Equal names skip
// the conversion and return a copy of raw.
func (c *XText) Transcode(raw []byte, from, to string) ([]byte, error) {
	if Equal(from, to) {
		return bytes.Clone(raw), nil
	}
	fail := func(err error) error {
		return &Error{Op: "transcode", Encoding: from, Target: to, Err: err}
	}

	src, _, err := resolve(from)
	if err != nil {
		return nil, fail(err)
	}
	dst, _, err := resolve(to)
	if err != nil {
		return nil, fail(err)
	}

	text, err := decode(src, raw)
	if err != nil {
		return nil, fail(err)
	}
	out, err := encode(dst, text)
	if err != nil {
		return nil, fail(err)
	}
	return out, nil
}

// Length returns the number of characters in raw.
func (c *XText) Length(raw []byte, enc string) (int, error) {
	_, text, err := c.decodeAs("length", raw, enc)
	if err != nil {
		return 0, err
	}
	if c.unit == Grapheme {
		return uniseg.GraphemeClusterCount(text), nil
	}
	return utf8.RuneCountInString(text), nil
}

// Slice returns count characters starting at start. Out-of-range values are
// clamped; a negative count extends to the end.
func (c *XText) Slice(raw []byte, enc string, start, count int) ([]byte, error) {
	e, text, err := c.decodeAs("slice", raw, enc)
	if err != nil {
		return nil, err
	}
	units := c.split(text)
	lo, hi := clamp(len(units), start, count)
	if lo == 0 && hi == len(units) {
		return bytes.Clone(raw), nil
	}
	out, err := encode(e, strings.Join(units[lo:hi], ""))
	if err != nil {
		return nil, newError("slice", enc, err)
	}
	return out, nil
}

// Chars splits raw into characters. Stateful encodings are rejected with
// ErrUnsupported because their characters have no standalone byte form.
func (c *XText) Chars(raw []byte, enc string) ([]Char, error) {
	e, text, err := c.decodeAs("chars", raw, enc)
	if err != nil {
		return nil, err
	}
	if stateful(e) {
		return nil, newError("chars", enc, ErrUnsupported)
	}

	units := c.split(text)
	chars := make([]Char, len(units))
	if e == gdenc.UTF8 {
		for i, u := range units {
			chars[i] = Char{Raw: []byte(u), Text: u}
		}
		return chars, nil
	}

	off := 0
	for i, u := range units {
		b, err := encode(e, u)
		if err != nil || off+len(b) > len(raw) || !bytes.Equal(raw[off:off+len(b)], b) {
			return nil, newError("chars", enc, ErrMalformed)
		}
		chars[i] = Char{Raw: b, Text: u}
		off += len(b)
	}
	if off != len(raw) {
		return nil, newError("chars", enc, ErrMalformed)
	}
	return chars, nil
}

// Trim removes the characters of cutset from the given side(s) of raw. An
// empty cutset means Whitespace. A character is removed only if every code
// point in it belongs to cutset.
func (c *XText) Trim(raw []byte, enc string, cutset string, side Side) ([]byte, error) {
	if cutset == "" {
		cutset = Whitespace
	}
	e, text, err := c.decodeAs("trim", raw, enc)
	if err != nil {
		return nil, err
	}

	units := c.split(text)
	lo, hi := 0, len(units)
	if side != Right {
		for lo < hi && inSet(units[lo], cutset) {
			lo++
		}
	}
	if side != Left {
		for hi > lo && inSet(units[hi-1], cutset) {
			hi--
		}
	}
	if lo == 0 && hi == len(units) {
		return bytes.Clone(raw), nil
	}

	out, err := encode(e, strings.Join(units[lo:hi], ""))
	if err != nil {
		return nil, newError("trim", enc, err)
	}
	return out, nil
}

func (c *XText) decodeAs(op string, raw []byte, enc string) (encoding.Encoding, string, error) {
	e, _, err := resolve(enc)
	if err != nil {
		return nil, "", newError(op, enc, err)
	}
	text, err := decode(e, raw)
	if err != nil {
		return nil, "", newError(op, enc, err)
	}
	return e, text, nil
}

// split cuts valid UTF-8 text into character units.
func (c *XText) split(text string) []string {
	if c.unit == Grapheme {
		var units []string
		g := uniseg.NewGraphemes(text)
		for g.Next() {
			units = append(units, g.Str())
		}
		return units
	}

	units := make([]string, 0, utf8.RuneCountInString(text))
	for len(text) > 0 {
		_, size := utf8.DecodeRuneInString(text)
		units = append(units, text[:size])
		text = text[size:]
	}
	return units
}

// decode converts raw into UTF-8 and requires the conversion to be lossless.
func decode(e encoding.Encoding, raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	text, err := e.NewDecoder().Bytes(raw)
	if err != nil {
		return "", ErrMalformed
	}
	back, err := e.NewEncoder().Bytes(text)
	if err != nil || !bytes.Equal(back, raw) {
		return "", ErrMalformed
	}
	return string(text), nil
}

// encode converts UTF-8 text into e and requires the conversion to be lossless.
func encode(e encoding.Encoding, text string) ([]byte, error) {
	if text == "" {
		return []byte{}, nil
	}
	out, err := e.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, ErrUnrepresentable
	}
	back, err := e.NewDecoder().Bytes(out)
	if err != nil || string(back) != text {
		return nil, ErrUnrepresentable
	}
	return out, nil
}

func clamp(n, start, count int) (int, int) {
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	end := n
	if count >= 0 && start+count < n {
		end = start + count
	}
	return start, end
}

func inSet(unit, cutset string) bool {
	if unit == "" {
		return false
	}
	for _, r := range unit {
		if !strings.ContainsRune(cutset, r) {
			return false
		}
	}
	return true
}
