package codec

import (
	"bytes"
	"errors"
	"testing"
)

var latin1Cafe = []byte{0x43, 0x61, 0x66, 0xE9}

func TestParseUnit(t *testing.T) {
	tests := []struct {
		in      string
		want    Unit
		wantErr bool
	}{
		{"", CodePoint, false},
		{"codepoint", CodePoint, false},
		{"Rune", CodePoint, false},
		{"grapheme", Grapheme, false},
		{" cluster ", Grapheme, false},
		{"byte", CodePoint, true},
	}

	for _, tt := range tests {
		got, err := ParseUnit(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseUnit(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseUnit(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTranscodeToLatin1(t *testing.T) {
	c := New()

	out, err := c.Transcode([]byte("Café"), "UTF-8", "ISO-8859-1")
	if err != nil {
		t.Fatalf("transcode failed: %v", err)
	}
	if !bytes.Equal(out, latin1Cafe) {
		t.Errorf("expected % x, got % x", latin1Cafe, out)
	}

	back, err := c.Transcode(out, "ISO-8859-1", "UTF-8")
	if err != nil {
		t.Fatalf("transcode back failed: %v", err)
	}
	if string(back) != "Café" {
		t.Errorf("expected Café, got %q", back)
	}
}

func TestTranscodeSameEncodingCopies(t *testing.T) {
	c := New()
	raw := []byte{0xFF, 0xFE}

	out, err := c.Transcode(raw, "utf8", "UTF-8")
	if err != nil {
		t.Fatalf("same-encoding transcode must not validate: %v", err)
	}
	if !bytes.Equal(out, raw) {
		t.Errorf("expected % x, got % x", raw, out)
	}

	out[0] = 0
	if raw[0] != 0xFF {
		t.Error("transcode must return a copy")
	}
}

func TestTranscodeUnrepresentable(t *testing.T) {
	c := New()

	_, err := c.Transcode([]byte("é"), "UTF-8", "ASCII")
	if !errors.Is(err, ErrUnrepresentable) {
		t.Fatalf("expected ErrUnrepresentable, got %v", err)
	}

	var cerr *Error
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if cerr.Op != "transcode" || cerr.Encoding != "UTF-8" || cerr.Target != "ASCII" {
		t.Errorf("unexpected error fields: %+v", cerr)
	}
}

func TestTranscodeMalformed(t *testing.T) {
	c := New()

	_, err := c.Transcode([]byte{'a', 0xFF}, "UTF-8", "UTF-16")
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestTranscodeUnknownEncoding(t *testing.T) {
	c := New()

	_, err := c.Transcode([]byte("x"), "UTF-8", "no-such-charset")
	if !errors.Is(err, ErrUnknownEncoding) {
		t.Fatalf("expected ErrUnknownEncoding, got %v", err)
	}
}

func TestTranscodeEBCDIC(t *testing.T) {
	c := New()

	out, err := c.Transcode([]byte("A"), "UTF-8", "EBCDIC")
	if err != nil {
		t.Fatalf("transcode failed: %v", err)
	}
	if !bytes.Equal(out, []byte{0xC1}) {
		t.Errorf("expected c1, got % x", out)
	}
}

func TestLength(t *testing.T) {
	c := New()

	utf16, err := c.Transcode([]byte("héllo"), "UTF-8", "UTF-16LE")
	if err != nil {
		t.Fatalf("transcode failed: %v", err)
	}

	tests := []struct {
		name string
		raw  []byte
		enc  string
		want int
	}{
		{"empty", nil, "UTF-8", 0},
		{"ascii", []byte("hello"), "ASCII", 5},
		{"utf8 multibyte", []byte("héllo"), "UTF-8", 5},
		{"latin1", latin1Cafe, "ISO-8859-1", 4},
		{"utf16le", utf16, "UTF-16LE", 5},
		{"emoji", []byte("a😀b"), "UTF-8", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Length(tt.raw, tt.enc)
			if err != nil {
				t.Fatalf("length failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestLengthGrapheme(t *testing.T) {
	raw := []byte("e\u0301t\u00e9")

	n, err := New().Length(raw, "UTF-8")
	if err != nil {
		t.Fatalf("length failed: %v", err)
	}
	if n != 4 {
		t.Errorf("code points: expected 4, got %d", n)
	}

	n, err = New(WithUnit(Grapheme)).Length(raw, "UTF-8")
	if err != nil {
		t.Fatalf("length failed: %v", err)
	}
	if n != 3 {
		t.Errorf("graphemes: expected 3, got %d", n)
	}
}

func TestLengthMalformed(t *testing.T) {
	_, err := New().Length([]byte{0xC3}, "UTF-8")
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestSlice(t *testing.T) {
	c := New()

	tests := []struct {
		start, count int
		want         string
	}{
		{1, 3, "éll"},
		{0, 1, "h"},
		{4, 1, "o"},
		{2, -1, "llo"},
		{3, 10, "lo"},
		{9, 2, ""},
	}

	for _, tt := range tests {
		got, err := c.Slice([]byte("héllo"), "UTF-8", tt.start, tt.count)
		if err != nil {
			t.Fatalf("slice(%d, %d) failed: %v", tt.start, tt.count, err)
		}
		if string(got) != tt.want {
			t.Errorf("slice(%d, %d): expected %q, got %q", tt.start, tt.count, tt.want, got)
		}
	}
}

func TestSliceLatin1(t *testing.T) {
	got, err := New().Slice(latin1Cafe, "ISO-8859-1", 3, 1)
	if err != nil {
		t.Fatalf("slice failed: %v", err)
	}
	if !bytes.Equal(got, []byte{0xE9}) {
		t.Errorf("expected e9, got % x", got)
	}
}

func TestChars(t *testing.T) {
	c := New()

	chars, err := c.Chars(latin1Cafe, "latin1")
	if err != nil {
		t.Fatalf("chars failed: %v", err)
	}
	if len(chars) != 4 {
		t.Fatalf("expected 4 chars, got %d", len(chars))
	}
	if chars[3].Text != "é" || !bytes.Equal(chars[3].Raw, []byte{0xE9}) {
		t.Errorf("unexpected last char: %+v", chars[3])
	}

	chars, err = c.Chars([]byte("aé"), "UTF-8")
	if err != nil {
		t.Fatalf("chars failed: %v", err)
	}
	if len(chars) != 2 || string(chars[1].Raw) != "é" {
		t.Errorf("unexpected chars: %+v", chars)
	}
}

func TestCharsStatefulUnsupported(t *testing.T) {
	_, err := New().Chars([]byte("abc"), "ISO-2022-JP")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestTrim(t *testing.T) {
	c := New()

	tests := []struct {
		name   string
		in     string
		cutset string
		side   Side
		want   string
	}{
		{"both whitespace", " \t héllo\n", "", Both, "héllo"},
		{"left only", "  héllo  ", "", Left, "héllo  "},
		{"right only", "  héllo  ", "", Right, "  héllo"},
		{"custom set", "xxhéyllox", "xy", Both, "héyllo"},
		{"multibyte cutset", "ééaéé", "é", Both, "a"},
		{"everything", "   ", "", Both, ""},
		{"nothing", "abc", "", Both, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Trim([]byte(tt.in), "UTF-8", tt.cutset, tt.side)
			if err != nil {
				t.Fatalf("trim failed: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestTrimUTF16(t *testing.T) {
	c := New()

	raw, err := c.Transcode([]byte("  hi  "), "UTF-8", "UTF-16BE")
	if err != nil {
		t.Fatalf("transcode failed: %v", err)
	}

	out, err := c.Trim(raw, "UTF-16BE", "", Both)
	if err != nil {
		t.Fatalf("trim failed: %v", err)
	}
	if !bytes.Equal(out, []byte{0, 'h', 0, 'i'}) {
		t.Errorf("expected 00 68 00 69, got % x", out)
	}
}
