package sequence

import (
	"bytes"
	"errors"
	"testing"

	"github.com/dshills/strseq/internal/codec"
)

func TestAppend(t *testing.T) {
	s := MustNew(Text("Caf"), WithEncoding("ISO-8859-1"))

	if err := s.Append(Text("é")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	want := []byte{0x43, 0x61, 0x66, 0xE9}
	if !bytes.Equal(s.Bytes(), want) {
		t.Errorf("expected % x, got % x", want, s.Bytes())
	}

	utf16 := MustNew(Text("!"), WithEncoding("UTF-16LE"))
	if err := s.Append(utf16); err != nil {
		t.Fatalf("Append sequence failed: %v", err)
	}
	if got := mustText(t, s); got != "Café!" {
		t.Errorf("expected Café!, got %q", got)
	}
}

func TestAppendUnrepresentable(t *testing.T) {
	s := MustNew(Text("abc"), WithEncoding("ASCII"))

	if err := s.Append(Text("ü")); err == nil {
		t.Fatal("expected error")
	}
	if s.String() != "abc" {
		t.Errorf("sequence changed: %q", s.String())
	}
}

func TestInsert(t *testing.T) {
	tests := []struct {
		offset int
		want   string
	}{
		{0, "Xhéllo"},
		{1, "hXéllo"},
		{2, "héXllo"},
		{4, "héllXo"},
	}

	for _, tt := range tests {
		s := MustNew(Text("héllo"), WithEncoding("UTF-16BE"))
		if err := s.Insert(tt.offset, Text("X")); err != nil {
			t.Fatalf("Insert(%d) failed: %v", tt.offset, err)
		}
		if got := mustText(t, s); got != tt.want {
			t.Errorf("Insert(%d): expected %q, got %q", tt.offset, tt.want, got)
		}
	}
}

func TestInsertAtEndRejected(t *testing.T) {
	s := MustNew(Text("hello"))
	n := mustLength(t, s)

	err := s.Insert(n, Text("!"))
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("Insert(Length()): expected ErrIndexOutOfRange, got %v", err)
	}
	if s.String() != "hello" {
		t.Errorf("sequence changed: %q", s.String())
	}

	if err := s.Append(Text("!")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if s.String() != "hello!" {
		t.Errorf("expected hello!, got %q", s.String())
	}
}

func TestInsertEmptySequence(t *testing.T) {
	s := MustNew(nil)
	if err := s.Insert(0, Text("x")); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestReplace(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		value      string
		want       string
	}{
		{"middle", 1, 3, "EY", "hEYo"},
		{"single", 1, 1, "e", "hello"},
		{"whole", 0, 4, "bye", "bye"},
		{"with nothing", 0, 0, "", "éllo"},
		{"grow", 4, 4, "o wörld", "héllo wörld"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := MustNew(Text("héllo"), WithEncoding("windows-1252"))
			if err := s.Replace(tt.start, tt.end, Text(tt.value)); err != nil {
				t.Fatalf("Replace failed: %v", err)
			}
			if got := mustText(t, s); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestReplaceOutOfRange(t *testing.T) {
	s := MustNew(Text("hello"))

	for _, sp := range []Span{{-1, 1}, {1, 5}, {3, 1}, {5, 5}} {
		if err := s.Replace(sp.Start, sp.End, Text("x")); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Replace%v: expected ErrIndexOutOfRange, got %v", sp, err)
		}
	}
	if s.String() != "hello" {
		t.Errorf("sequence changed: %q", s.String())
	}
}

func TestDelete(t *testing.T) {
	s := MustNew(Text("hello"))
	if err := s.Delete(1, 3); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if s.String() != "ho" {
		t.Errorf("expected ho, got %q", s.String())
	}

	s = MustNew(Text("añb€c"), WithEncoding("UTF-16LE"))
	if err := s.Delete(1, 3); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got := mustText(t, s); got != "ac" {
		t.Errorf("expected ac, got %q", got)
	}
}

func TestDeleteOutOfRange(t *testing.T) {
	s := MustNew(Text("hello"))

	err := s.Delete(2, 5)
	var rerr *RangeError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *RangeError, got %v", err)
	}
	if rerr.Index != 5 || rerr.Op != "delete" {
		t.Errorf("unexpected error fields: %+v", rerr)
	}
	if s.String() != "hello" {
		t.Errorf("sequence changed: %q", s.String())
	}
}

func TestDeleteCharAt(t *testing.T) {
	s := MustNew(Text("héllo"))

	if err := s.DeleteCharAt(1); err != nil {
		t.Fatalf("DeleteCharAt failed: %v", err)
	}
	if s.String() != "hllo" {
		t.Errorf("expected hllo, got %q", s.String())
	}
	if err := s.DeleteCharAt(4); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestReverse(t *testing.T) {
	s := MustNew(Text("hello"))
	if err := s.Reverse(); err != nil {
		t.Fatalf("Reverse failed: %v", err)
	}
	if s.String() != "olleh" {
		t.Errorf("expected olleh, got %q", s.String())
	}
}

func TestReverseTwice(t *testing.T) {
	for _, enc := range []string{"UTF-8", "UTF-16LE", "UTF-32BE", "ISO-8859-1", "Shift_JIS"} {
		t.Run(enc, func(t *testing.T) {
			text := "héllo"
			if enc == "Shift_JIS" {
				text = "こんにちはabc"
			}
			s := MustNew(Text(text), WithEncoding(enc))
			orig := s.Bytes()

			if err := s.Reverse(); err != nil {
				t.Fatalf("Reverse failed: %v", err)
			}
			if bytes.Equal(s.Bytes(), orig) {
				t.Error("first reverse did not change the bytes")
			}
			if err := s.Reverse(); err != nil {
				t.Fatalf("second Reverse failed: %v", err)
			}
			if !bytes.Equal(s.Bytes(), orig) {
				t.Errorf("expected % x, got % x", orig, s.Bytes())
			}
		})
	}
}

func TestReverseMultibyte(t *testing.T) {
	s := MustNew(Text("añ😀"), WithEncoding("UTF-16LE"))
	if err := s.Reverse(); err != nil {
		t.Fatalf("Reverse failed: %v", err)
	}
	if got := mustText(t, s); got != "😀ña" {
		t.Errorf("expected 😀ña, got %q", got)
	}
}

func TestSetLength(t *testing.T) {
	tests := []struct {
		name string
		n    int
		pad  Value
		want string
	}{
		{"truncate", 3, nil, "hel"},
		{"same", 5, nil, "hello"},
		{"zero", 0, nil, ""},
		{"default pad", 7, nil, "hello  "},
		{"single pad", 7, Text("x"), "helloxx"},
		{"multi pad rounds up", 7, Text("xyz"), "helloxyz"},
		{"multi pad exact", 8, Text("xyz"), "helloxyz"},
		{"multi pad one more", 9, Text("xyz"), "helloxyzxyz"},
		{"empty pad when truncating", 2, Text(""), "he"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := MustNew(Text("hello"))
			var err error
			if tt.pad == nil {
				err = s.SetLength(tt.n)
			} else {
				err = s.SetLengthPad(tt.n, tt.pad)
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, s.String())
			}
		})
	}
}

func TestSetLengthPadRounding(t *testing.T) {
	for n := 6; n <= 12; n++ {
		s := MustNew(Text("hello"))
		if err := s.SetLengthPad(n, Text("ab")); err != nil {
			t.Fatalf("SetLengthPad(%d) failed: %v", n, err)
		}
		want := 5 + 2*((n-5+1)/2)
		if got := mustLength(t, s); got != want {
			t.Errorf("SetLengthPad(%d): expected length %d, got %d", n, want, got)
		}
		if s.String()[:5] != "hello" {
			t.Errorf("SetLengthPad(%d): original content changed: %q", n, s.String())
		}
	}
}

func TestSetLengthPrefix(t *testing.T) {
	orig := "añb€c😀"
	for n := 0; n <= 6; n++ {
		s := MustNew(Text(orig), WithEncoding("UTF-32LE"))
		if err := s.SetLength(n); err != nil {
			t.Fatalf("SetLength(%d) failed: %v", n, err)
		}
		if got := mustLength(t, s); got != n {
			t.Errorf("SetLength(%d): expected length %d, got %d", n, n, got)
		}
		want := string([]rune(orig)[:n])
		if got := mustText(t, s); got != want {
			t.Errorf("SetLength(%d): expected %q, got %q", n, want, got)
		}
	}
}

func TestSetLengthErrors(t *testing.T) {
	s := MustNew(Text("hello"))

	if err := s.SetLength(-1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("SetLength(-1): expected ErrIndexOutOfRange, got %v", err)
	}
	if err := s.SetLengthPad(8, Text("")); !errors.Is(err, ErrEmptyPadding) {
		t.Errorf("empty pad: expected ErrEmptyPadding, got %v", err)
	}
	if s.String() != "hello" {
		t.Errorf("sequence changed: %q", s.String())
	}
}

func TestSetLengthPadTranscoded(t *testing.T) {
	s := MustNew(Text("ab"), WithEncoding("UTF-16BE"))
	if err := s.SetLengthPad(4, Text("é")); err != nil {
		t.Fatalf("SetLengthPad failed: %v", err)
	}
	want := []byte{0, 'a', 0, 'b', 0, 0xE9, 0, 0xE9}
	if !bytes.Equal(s.Bytes(), want) {
		t.Errorf("expected % x, got % x", want, s.Bytes())
	}
}

func TestTrim(t *testing.T) {
	tests := []struct {
		name string
		fn   func(*Sequence) error
		want string
	}{
		{"both", func(s *Sequence) error { return s.Trim("") }, "héllo"},
		{"left", func(s *Sequence) error { return s.TrimLeft("") }, "héllo \x00"},
		{"right", func(s *Sequence) error { return s.TrimRight("") }, " \t héllo"},
		{"cutset", func(s *Sequence) error { return s.Trim(" \t\x00h") }, "éllo"},
		{"multibyte cutset", func(s *Sequence) error { return s.Trim(" \t\x00hé") }, "llo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := MustNew(Text(" \t héllo \x00"), WithEncoding("UTF-16LE"))
			if err := tt.fn(s); err != nil {
				t.Fatalf("trim failed: %v", err)
			}
			if got := mustText(t, s); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestTrimLatin1(t *testing.T) {
	s := MustNew(Text("ééhéé"), WithEncoding("ISO-8859-1"))
	if err := s.Trim("é"); err != nil {
		t.Fatalf("Trim failed: %v", err)
	}
	if s.String() != "h" {
		t.Errorf("expected h, got %q", s.String())
	}
}

// graphemeEncodings are the storage encodings the grapheme tests run under.
var graphemeEncodings = []string{"UTF-8", "UTF-16LE"}

func newGrapheme(t *testing.T, text, enc string) *Sequence {
	t.Helper()
	s, err := New(Text(text), WithEncoding(enc), WithCodec(codec.New(codec.WithUnit(codec.Grapheme))))
	if err != nil {
		t.Fatalf("New(%q, %s) failed: %v", text, enc, err)
	}
	return s
}

func TestSetLengthPadGrapheme(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		n       int
		pad     string
		want    string
		wantErr error
	}{
		{"combining pad never grows", "a", 4, "\u0301", "a", ErrPaddingStalled},
		{"regional indicators pair up", "\U0001F1FA", 3, "\U0001F1F8", "\U0001F1FA\U0001F1F8\U0001F1F8\U0001F1F8\U0001F1F8", nil},
		{"cluster pad", "ab", 4, "e\u0301", "abe\u0301e\u0301", nil},
		{"plain pad after cluster", "e\u0301", 3, ".", "e\u0301..", nil},
		{"truncate keeps clusters", "e\u0301e\u0301x", 2, ".", "e\u0301e\u0301", nil},
	}

	for _, enc := range graphemeEncodings {
		for _, tt := range tests {
			t.Run(enc+"/"+tt.name, func(t *testing.T) {
				s := newGrapheme(t, tt.initial, enc)
				err := s.SetLengthPad(tt.n, Text(tt.pad))
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				if got := mustText(t, s); got != tt.want {
					t.Errorf("expected %q, got %q", tt.want, got)
				}
				if err == nil {
					if got := mustLength(t, s); got < tt.n {
						t.Errorf("length %d below requested %d", got, tt.n)
					}
				}
			})
		}
	}
}

func TestEditGrapheme(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		edit    func(*Sequence) error
		want    string
		length  int
	}{
		{"insert before cluster", "ae\u0301b", func(s *Sequence) error { return s.Insert(1, Text("x")) }, "axe\u0301b", 4},
		{"insert combining mark", "aeb", func(s *Sequence) error { return s.Insert(1, Text("\u0301")) }, "a\u0301eb", 3},
		{"replace cluster", "ae\u0301b", func(s *Sequence) error { return s.Replace(1, 1, Text("o")) }, "aob", 3},
		{"delete cluster", "ae\u0301b", func(s *Sequence) error { return s.Delete(1, 2) }, "a", 1},
		{"delete char at cluster", "ae\u0301b", func(s *Sequence) error { return s.DeleteCharAt(1) }, "ab", 2},
		{"append combining mark", "ab", func(s *Sequence) error { return s.Append(Text("\u0301")) }, "ab\u0301", 2},
		{"reverse keeps clusters", "ae\u0301\U0001F1FA\U0001F1F8", func(s *Sequence) error { return s.Reverse() }, "\U0001F1FA\U0001F1F8e\u0301a", 3},
		{"trim whole clusters", "e\u0301xe\u0301", func(s *Sequence) error { return s.Trim("e\u0301") }, "x", 1},
		{"trim skips partial clusters", "e\u0301xe\u0301", func(s *Sequence) error { return s.Trim("e") }, "e\u0301xe\u0301", 3},
	}

	for _, enc := range graphemeEncodings {
		for _, tt := range tests {
			t.Run(enc+"/"+tt.name, func(t *testing.T) {
				s := newGrapheme(t, tt.initial, enc)
				if err := tt.edit(s); err != nil {
					t.Fatalf("edit failed: %v", err)
				}
				if got := mustText(t, s); got != tt.want {
					t.Errorf("expected %q, got %q", tt.want, got)
				}
				if got := mustLength(t, s); got != tt.length {
					t.Errorf("expected length %d, got %d", tt.length, got)
				}
			})
		}
	}
}
