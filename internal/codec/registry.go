package codec

import (
	"sort"
	"strings"

	gdenc "github.com/gdamore/encoding"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// DefaultEncoding is the encoding assumed when none is given.
const DefaultEncoding = "UTF-8"

type builtinEncoding struct {
	name string
	enc  encoding.Encoding
}

var (
	utf8Builtin    = builtinEncoding{"UTF-8", gdenc.UTF8}
	asciiBuiltin   = builtinEncoding{"ASCII", gdenc.ASCII}
	ebcdicBuiltin  = builtinEncoding{"EBCDIC", gdenc.EBCDIC}
	utf16BEBuiltin = builtinEncoding{"UTF-16BE", unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)}
	utf16LEBuiltin = builtinEncoding{"UTF-16LE", unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)}
	utf32BEBuiltin = builtinEncoding{"UTF-32BE", utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM)}
	utf32LEBuiltin = builtinEncoding{"UTF-32LE", utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM)}
)

// builtins are consulted before the IANA and WHATWG indexes. Keys are
// lower-case.
var builtins = map[string]builtinEncoding{
	"utf-8":          utf8Builtin,
	"utf8":           utf8Builtin,
	"ascii":          asciiBuiltin,
	"us-ascii":       asciiBuiltin,
	"ansi_x3.4-1968": asciiBuiltin,
	"ebcdic":         ebcdicBuiltin,
	"utf-16":         utf16BEBuiltin,
	"utf16":          utf16BEBuiltin,
	"utf-16be":       utf16BEBuiltin,
	"utf-16le":       utf16LEBuiltin,
	"utf-32":         utf32BEBuiltin,
	"utf32":          utf32BEBuiltin,
	"utf-32be":       utf32BEBuiltin,
	"utf-32le":       utf32LEBuiltin,
}

// families lists the encodings reported by Encodings in addition to the
// builtin table.
var families = [][]encoding.Encoding{
	charmap.All,
	japanese.All,
	korean.All,
	simplifiedchinese.All,
	traditionalchinese.All,
	unicode.All,
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Lookup resolves an encoding name.
func Lookup(name string) (encoding.Encoding, error) {
	enc, _, err := resolve(name)
	if err != nil {
		return nil, newError("lookup", name, err)
	}
	return enc, nil
}

// Canonical returns the canonical spelling of an encoding name.
func Canonical(name string) (string, error) {
	_, canonical, err := resolve(name)
	if err != nil {
		return "", newError("lookup", name, err)
	}
	return canonical, nil
}

// Equal reports whether two names denote the same encoding. Names that
// cannot be resolved are compared case-insensitively.
func Equal(a, b string) bool {
	ca, errA := Canonical(a)
	cb, errB := Canonical(b)
	if errA != nil || errB != nil {
		return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
	}
	return ca == cb
}

// resolve returns a package sentinel on failure.
func resolve(name string) (encoding.Encoding, string, error) {
	key := normalizeName(name)
	if key == "" {
		return nil, "", ErrUnknownEncoding
	}
	if b, ok := builtins[key]; ok {
		return b.enc, b.name, nil
	}

	enc, err := ianaindex.IANA.Encoding(key)
	if err == nil && enc == nil {
		// Registered with IANA but not implemented.
		return nil, "", ErrUnsupported
	}
	if err != nil {
		enc, err = htmlindex.Get(key)
		if err != nil {
			return nil, "", ErrUnknownEncoding
		}
	}
	return enc, nameOf(enc, name), nil
}

// nameOf prefers the MIME name, then the IANA name, then the WHATWG name.
func nameOf(enc encoding.Encoding, fallback string) string {
	if n, err := ianaindex.MIME.Name(enc); err == nil && n != "" {
		return n
	}
	if n, err := ianaindex.IANA.Name(enc); err == nil && n != "" {
		return n
	}
	if n, err := htmlindex.Name(enc); err == nil && n != "" {
		return n
	}
	return strings.ToUpper(strings.TrimSpace(fallback))
}

// stateful reports whether an encoding uses shift sequences, which makes a
// per-character byte split impossible.
func stateful(enc encoding.Encoding) bool {
	return enc == japanese.ISO2022JP || enc == simplifiedchinese.HZGB2312
}

// Encodings returns the canonical names of all supported encodings, sorted.
func Encodings() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(n string) {
		if n == "" || seen[n] {
			return
		}
		seen[n] = true
		names = append(names, n)
	}

	for _, b := range builtins {
		add(b.name)
	}
	for _, family := range families {
		for _, enc := range family {
			if n, err := ianaindex.MIME.Name(enc); err == nil {
				add(n)
				continue
			}
			if n, err := ianaindex.IANA.Name(enc); err == nil {
				add(n)
			}
		}
	}

	sort.Strings(names)
	return names
}
