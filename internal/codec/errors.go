package codec

import (
	"errors"
	"fmt"
)

// Errors returned by codec operations.
var (
	// ErrUnknownEncoding indicates the encoding name is not recognized.
	ErrUnknownEncoding = errors.New("unknown encoding")

	// ErrUnsupported indicates the encoding is recognized but cannot be used
	// for the requested operation.
	ErrUnsupported = errors.New("unsupported encoding")

	// ErrMalformed indicates the bytes are not valid in the claimed encoding.
	ErrMalformed = errors.New("malformed input")

	// ErrUnrepresentable indicates the text cannot be represented in the
	// target encoding.
	ErrUnrepresentable = errors.New("text not representable in target encoding")
)

// Error describes a failed codec operation.
type Error struct {
	// Op is the codec operation that failed (e.g. "transcode").
	Op string
	// Encoding is the source encoding name.
	Encoding string
	// Target is the target encoding name, for conversions.
	Target string
	// Err is the underlying error, usually one of the package sentinels.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("codec %s %s -> %s: %v", e.Op, e.Encoding, e.Target, e.Err)
	}
	return fmt.Sprintf("codec %s %s: %v", e.Op, e.Encoding, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op, enc string, err error) *Error {
	return &Error{Op: op, Encoding: enc, Err: err}
}
