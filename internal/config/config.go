package config

import (
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/strseq/internal/codec"
	"github.com/dshills/strseq/internal/config/layer"
	"github.com/dshills/strseq/internal/config/loader"
	"github.com/dshills/strseq/internal/logging"
)

// maxIncludeDepth bounds @include nesting in configuration files.
const maxIncludeDepth = 8

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Escape modes for raw output.
const (
	EscapeAuto   = "auto"
	EscapeAlways = "always"
	EscapeNever  = "never"
)

// Config is the complete strseq configuration.
type Config struct {
	Sequence Sequence `toml:"sequence"`
	Output   Output   `toml:"output"`
	Logging  Logging  `toml:"logging"`
}

// Sequence configures new sequences.
type Sequence struct {
	// Encoding is the encoding of new sequences.
	Encoding string `toml:"encoding"`
	// Unit selects what counts as a character: "codepoint" or "grapheme".
	Unit string `toml:"unit"`
	// DetectOrder lists the encodings tried when detecting input.
	DetectOrder []string `toml:"detectOrder"`
	// Padding is the pad SetLength grows with.
	Padding string `toml:"padding"`
}

// Output configures how results are written.
type Output struct {
	Format string `toml:"format"`
	Pretty bool   `toml:"pretty"`
	Escape string `toml:"escape"`
}

// Logging configures the logger.
type Logging struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Sequence: Sequence{
			Encoding:    codec.DefaultEncoding,
			Unit:        codec.CodePoint.String(),
			DetectOrder: codec.DefaultDetectOrder(),
			Padding:     " ",
		},
		Output: Output{
			Format: FormatText,
			Pretty: true,
			Escape: EscapeAuto,
		},
		Logging: Logging{
			Level: "warn",
		},
	}
}

type loadOptions struct {
	fs          loader.FileSystem
	envPrefix   string
	useEnv      bool
	requireFile bool
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

// WithFileSystem reads configuration files from fsys.
func WithFileSystem(fsys loader.FileSystem) LoadOption {
	return func(o *loadOptions) {
		o.fs = fsys
	}
}

// WithEnvPrefix changes the environment variable prefix.
func WithEnvPrefix(prefix string) LoadOption {
	return func(o *loadOptions) {
		o.envPrefix = prefix
	}
}

// WithoutEnv skips the environment layer.
func WithoutEnv() LoadOption {
	return func(o *loadOptions) {
		o.useEnv = false
	}
}

// RequireFile makes a missing configuration file an error.
func RequireFile() LoadOption {
	return func(o *loadOptions) {
		o.requireFile = true
	}
}

// Load builds a configuration from the defaults, the TOML file at path and
// the environment. An empty path skips the file layer; a missing file is
// skipped unless RequireFile is given. Load does not validate.
func Load(path string, opts ...LoadOption) (*Config, error) {
	m, err := LoadLayers(path, opts...)
	if err != nil {
		return nil, err
	}
	return Decode(m)
}

// LoadLayers reads every configuration source into its own layer so callers
// can add higher-priority layers (such as command-line flags) before
// decoding, or report where each setting came from.
func LoadLayers(path string, opts ...LoadOption) (*layer.Manager, error) {
	o := loadOptions{
		fs:        loader.DefaultFS(),
		envPrefix: loader.DefaultEnvPrefix,
		useEnv:    true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	defaults, err := toMap(Default())
	if err != nil {
		return nil, err
	}
	m := layer.NewManager()
	m.AddLayer(layer.NewLayer(layer.SourceDefaults, defaults))

	if path != "" {
		tl := loader.NewTOMLLoaderWithFS(o.fs, path)
		if o.requireFile && !tl.Exists() {
			return nil, fmt.Errorf("%s: %w", path, ErrFileNotFound)
		}
		file, err := tl.LoadWithIncludes(path, maxIncludeDepth)
		if err != nil {
			return nil, err
		}
		if file != nil {
			fl := layer.NewLayer(layer.SourceFile, file)
			fl.Path = path
			m.AddLayer(fl)
		}
	}

	if o.useEnv {
		env, err := loader.NewEnvLoader(o.envPrefix).Load()
		if err != nil {
			return nil, err
		}
		if len(env) > 0 {
			m.AddLayer(layer.NewLayer(layer.SourceEnv, env))
		}
	}
	return m, nil
}

// Decode merges the layers of m into a Config.
func Decode(m *layer.Manager) (*Config, error) {
	source := "<merged>"
	if fl := m.Layer(layer.SourceFile.String()); fl != nil {
		source = fl.Path
	}
	return fromMap(source, m.Merge())
}

// Parse decodes a TOML document on top of the defaults.
func Parse(data []byte) (*Config, error) {
	doc, err := loader.Parse("<input>", data)
	if err != nil {
		return nil, err
	}
	merged, err := toMap(Default())
	if err != nil {
		return nil, err
	}
	return fromMap("<input>", loader.DeepMerge(merged, doc))
}

func toMap(cfg *Config) (map[string]any, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return loader.Parse("<defaults>", data)
}

func fromMap(source string, m map[string]any) (*Config, error) {
	data, err := toml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding merged config: %w", err)
	}
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, &loader.ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return cfg, nil
}

// Validate checks every setting and returns all problems joined. Each
// problem is a *ValidationError.
func (c *Config) Validate() error {
	var errs []error
	add := func(path, msg string, value any, code ValidationErrorCode) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value, Code: code})
	}

	if c.Sequence.Encoding == "" {
		add("sequence.encoding", "encoding is required", c.Sequence.Encoding, ErrCodeRequiredMissing)
	} else if _, err := codec.Canonical(c.Sequence.Encoding); err != nil {
		add("sequence.encoding", err.Error(), c.Sequence.Encoding, ErrCodeUnknownEncoding)
	}
	if _, err := codec.ParseUnit(c.Sequence.Unit); err != nil {
		add("sequence.unit", err.Error(), c.Sequence.Unit, ErrCodeInvalidEnum)
	}
	for _, name := range c.Sequence.DetectOrder {
		if _, err := codec.Canonical(name); err != nil {
			add("sequence.detectOrder", err.Error(), name, ErrCodeUnknownEncoding)
		}
	}

	switch c.Output.Format {
	case FormatText, FormatJSON:
	default:
		add("output.format", "must be text or json", c.Output.Format, ErrCodeInvalidEnum)
	}
	switch c.Output.Escape {
	case EscapeAuto, EscapeAlways, EscapeNever:
	default:
		add("output.escape", "must be auto, always or never", c.Output.Escape, ErrCodeInvalidEnum)
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		add("logging.level", err.Error(), c.Logging.Level, ErrCodeInvalidEnum)
	}

	return errors.Join(errs...)
}
