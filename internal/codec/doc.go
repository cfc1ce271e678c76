// Package codec is the text-codec collaborator used by encoded string
// sequences.
//
// A Codec answers every character-level question about a byte buffer whose
// encoding is named explicitly: how many characters it holds, which bytes
// make up a range of characters, how to trim it, and how to convert it into
// another encoding. Callers never assume a fixed in-memory representation;
// they hand the codec raw bytes plus an encoding name.
//
// # Encodings
//
// Names are resolved case-insensitively, first against a small builtin table
// (UTF-8, ASCII, EBCDIC, UTF-16 and UTF-32 variants), then against the IANA
// registry and finally against the WHATWG labels:
//
//	enc, err := codec.Lookup("sjis") // Shift_JIS via the WHATWG labels
//	names := codec.Encodings()       // every supported canonical name
//
// UTF-16 and UTF-32 without an explicit byte order are big-endian and never
// write or strip a byte order mark, so a character-for-character split of the
// bytes is always possible.
//
// # Strictness
//
// Decoding and encoding are both checked for loss. Bytes that do not survive
// a decode/encode round trip are malformed (ErrMalformed); text that does not
// survive an encode/decode round trip is not representable in the target
// (ErrUnrepresentable). Substituting encoders are therefore never silent.
//
// # Characters
//
// A character is a Unicode code point by default. WithUnit(Grapheme) switches
// to extended grapheme clusters:
//
//	c := codec.New(codec.WithUnit(codec.Grapheme))
//	n, _ := c.Length([]byte("é"), "UTF-8") // 1
//
// # Detection
//
// Detect tries the configured candidates in order (ASCII then UTF-8 by
// default) and falls back to the HTML sniffing heuristic of
// golang.org/x/net/html/charset.
package codec
