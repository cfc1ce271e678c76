// Package sequence provides Sequence, a mutable string builder over raw bytes
// in an explicit character encoding.
//
// A Sequence stores bytes and the name of the encoding they are in. Every
// character question (length, position, slicing, trimming) is answered by a
// codec.Codec, so the package never assumes an in-memory text representation.
//
// # Indices
//
// All indices are zero-based character indices, never byte offsets. Range
// operations take an inclusive end:
//
//	s := sequence.MustNew(sequence.Text("hello"))
//	sub, _ := s.SubstringRange(1, 3) // "ell"
//	s.Delete(1, 3)                   // "ho"
//
// Insert accepts offsets in [0, Length()); Append is the only way to grow a
// sequence at its end.
//
// # Encodings
//
// Values passed to Append, Insert, Replace and the search operations are
// transcoded into the sequence encoding first. A *Sequence argument is read
// in its own encoding; a Text argument has its encoding detected by the codec;
// a Raw argument declares it explicitly:
//
//	s := sequence.MustNew(nil, sequence.WithEncoding("ISO-8859-1"))
//	s.Append(sequence.Text("Café"))  // stored as 43 61 66 E9
//	s.ChangeEncoding("UTF-16LE")     // transcoded in place
//	s.SetEncoding("UTF-16BE")        // retagged, bytes untouched
//
// # Errors
//
// Index errors are *RangeError values matching ErrIndexOutOfRange; a span
// whose end precedes its start carries the Span. Padding failures are
// ErrEmptyPadding and ErrPaddingStalled. Codec failures are *codec.Error values returned unchanged. A failed mutation
// leaves the sequence as it was.
//
// # Chaining
//
// Mutators return errors, so chained edits go through Edit:
//
//	err := s.Edit().Append(sequence.Text("!")).Reverse().Trim("").Err()
//
// The first failing step stops the chain.
//
// A Sequence is not safe for concurrent use.
package sequence
