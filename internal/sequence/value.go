package sequence

// Value is text handed to a sequence operation.
type Value interface {
	// Bytes returns the raw bytes of the value.
	Bytes() []byte
	// Encoding returns the encoding of Bytes, or "" when it must be detected.
	Encoding() string
}

// Text is a Go string whose encoding is detected by the codec.
type Text string

// Bytes returns the string bytes.
func (t Text) Bytes() []byte { return []byte(t) }

// Encoding returns "".
func (t Text) Encoding() string { return "" }

// Raw is a byte slice with a declared encoding.
type Raw struct {
	Data []byte
	Enc  string
}

// Bytes returns the data.
func (r Raw) Bytes() []byte { return r.Data }

// Encoding returns the declared encoding.
func (r Raw) Encoding() string { return r.Enc }
