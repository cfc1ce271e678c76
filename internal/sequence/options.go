package sequence

import (
	"github.com/dshills/strseq/internal/codec"
	"github.com/dshills/strseq/internal/config"
)

// DefaultPadding is the pad used by SetLength.
const DefaultPadding = " "

// Option configures a Sequence during creation.
type Option func(*Sequence)

// WithEncoding sets the sequence encoding. Empty names are ignored.
func WithEncoding(name string) Option {
	return func(s *Sequence) {
		if name != "" {
			s.encoding = name
		}
	}
}

// WithCodec sets the codec used for every character operation.
func WithCodec(c codec.Codec) Option {
	return func(s *Sequence) {
		if c != nil {
			s.codec = c
		}
	}
}

// WithPadding sets the pad SetLength grows with.
func WithPadding(pad string) Option {
	return func(s *Sequence) {
		if pad != "" {
			s.padding = pad
		}
	}
}

// FromConfig returns the options described by a [sequence] configuration
// section: encoding, character unit, detection order and padding.
func FromConfig(cfg config.Sequence) ([]Option, error) {
	unit, err := codec.ParseUnit(cfg.Unit)
	if err != nil {
		return nil, err
	}

	copts := []codec.Option{codec.WithUnit(unit)}
	if len(cfg.DetectOrder) > 0 {
		copts = append(copts, codec.WithDetectOrder(cfg.DetectOrder...))
	}

	return []Option{
		WithEncoding(cfg.Encoding),
		WithCodec(codec.New(copts...)),
		WithPadding(cfg.Padding),
	}, nil
}
