// Package main is the entry point for the strseq command.
//
// strseq loads a string into an encoding-aware sequence, applies operations
// to it and prints the result:
//
//	strseq -t "hello" append:!! reverse length
//	strseq -e UTF-16LE -o json -s ops.json < input.txt
//	strseq -l edit.lua -f ISO-8859-1 < latin1.txt
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/spf13/pflag"
	"github.com/tidwall/match"
	"golang.org/x/term"

	"github.com/dshills/strseq/internal/codec"
	"github.com/dshills/strseq/internal/config"
	"github.com/dshills/strseq/internal/config/layer"
	"github.com/dshills/strseq/internal/logging"
	"github.com/dshills/strseq/internal/report"
	"github.com/dshills/strseq/internal/script"
	"github.com/dshills/strseq/internal/sequence"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errHelp is returned by parseFlags after printing usage.
var errHelp = errors.New("help requested")

// options holds the parsed command line.
type options struct {
	configPath    string
	text          string
	hasText       bool
	from          string
	encoding      string
	unit          string
	scriptPath    string
	luaPath       string
	output        string
	escape        string
	logLevel      string
	listEncodings string
	showVersion   bool
	showConfig    bool
	ops           []string

	changed map[string]bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, errHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if opts.showVersion {
		fmt.Fprintf(stdout, "strseq %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}
	if opts.changed["list-encodings"] {
		listEncodings(stdout, opts.listEncodings)
		return 0
	}

	layers, err := loadLayers(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if opts.showConfig {
		showConfig(stdout, layers)
		return 0
	}
	cfg, err := loadConfig(layers)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	level, _ := logging.ParseLevel(cfg.Logging.Level)
	logger := logging.New(logging.Config{Level: level, Output: stderr, Prefix: "strseq"})

	if err := execute(opts, cfg, stdin, stdout, logger); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := pflag.NewFlagSet("strseq", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	fs.StringVarP(&opts.text, "text", "t", "", "Initial text (default: read stdin)")
	fs.StringVarP(&opts.from, "from", "f", "", "Encoding of the input (default: detect)")
	fs.StringVarP(&opts.encoding, "encoding", "e", "", "Sequence encoding (default: from config)")
	fs.StringVarP(&opts.unit, "unit", "u", "", "Character unit (codepoint, grapheme)")
	fs.StringVarP(&opts.scriptPath, "script", "s", "", "JSON operation list to apply")
	fs.StringVarP(&opts.luaPath, "lua", "l", "", "Lua script to run")
	fs.StringVarP(&opts.output, "output", "o", "", "Output format (text, json)")
	fs.StringVar(&opts.escape, "escape", "", "Escape raw output (auto, always, never)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.listEncodings, "list-encodings", "", "List supported encodings matching an optional glob and exit")
	fs.Lookup("list-encodings").NoOptDefVal = "*"
	fs.BoolVar(&opts.showConfig, "show-config", false, "Print the effective configuration and its sources")
	fs.BoolVarP(&opts.showVersion, "version", "v", false, "Show version information")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "strseq - encoding-aware string sequences\n\n")
		fmt.Fprintf(stderr, "Usage: strseq [options] [op ...]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nOperations (name:arg:arg, the last argument takes the rest):\n")
		fmt.Fprintf(stderr, "  %s\n", strings.Join(script.Names(), " "))
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  strseq -t hello reverse length           Reverse and report the length\n")
		fmt.Fprintf(stderr, "  strseq -e UTF-16LE -o json < in.txt      Transcode stdin and report\n")
		fmt.Fprintf(stderr, "  strseq --list-encodings='utf*'           List Unicode encodings\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return opts, errHelp
		}
		return opts, err
	}

	opts.changed = make(map[string]bool)
	fs.Visit(func(f *pflag.Flag) {
		opts.changed[f.Name] = true
	})
	opts.hasText = opts.changed["text"]
	opts.ops = fs.Args()
	return opts, nil
}

// flagSettings maps command-line flags to configuration paths.
var flagSettings = []struct {
	flag string
	path string
}{
	{"encoding", "sequence.encoding"},
	{"unit", "sequence.unit"},
	{"output", "output.format"},
	{"escape", "output.escape"},
	{"log-level", "logging.level"},
}

// loadLayers stacks the command line over the configuration file and
// environment.
func loadLayers(opts options) (*layer.Manager, error) {
	var loadOpts []config.LoadOption
	if opts.configPath != "" {
		loadOpts = append(loadOpts, config.RequireFile())
	}
	m, err := config.LoadLayers(opts.configPath, loadOpts...)
	if err != nil {
		return nil, err
	}

	values := map[string]string{
		"encoding":  opts.encoding,
		"unit":      opts.unit,
		"output":    opts.output,
		"escape":    opts.escape,
		"log-level": opts.logLevel,
	}
	args := make(map[string]any)
	for _, fs := range flagSettings {
		if opts.changed[fs.flag] {
			layer.SetByPath(args, fs.path, values[fs.flag])
		}
	}
	if len(args) > 0 {
		m.AddLayer(layer.NewLayer(layer.SourceArgs, args))
	}
	return m, nil
}

func loadConfig(m *layer.Manager) (*config.Config, error) {
	cfg, err := config.Decode(m)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// showConfig prints every effective setting with the layer providing it.
func showConfig(w io.Writer, m *layer.Manager) {
	flat := layer.Flatten(m.Merge())
	paths := make([]string, 0, len(flat))
	for p := range flat {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		fmt.Fprintf(w, "%s = %v (%s)\n", p, flat[p], m.WhichLayer(p))
	}
}

func execute(opts options, cfg *config.Config, stdin io.Reader, stdout io.Writer, logger *logging.Logger) error {
	seqOpts, err := sequence.FromConfig(cfg.Sequence)
	if err != nil {
		return err
	}

	input, err := readInput(opts, stdin)
	if err != nil {
		return err
	}
	seq, err := sequence.New(input, seqOpts...)
	if err != nil {
		return fmt.Errorf("loading input: %w", err)
	}
	logger.Debug("loaded %d bytes as %s", seq.ByteCount(), seq.Encoding())

	var ops []script.Op
	if opts.scriptPath != "" {
		data, err := os.ReadFile(opts.scriptPath)
		if err != nil {
			return fmt.Errorf("reading script: %w", err)
		}
		fileOps, err := script.ParseJSON(data)
		if err != nil {
			return fmt.Errorf("%s: %w", opts.scriptPath, err)
		}
		ops = append(ops, fileOps...)
	}
	for _, arg := range opts.ops {
		op, err := script.ParseArg(arg)
		if err != nil {
			return err
		}
		ops = append(ops, op)
	}

	seq, results, err := script.Apply(seq, ops, logger)
	if err != nil {
		return err
	}

	if opts.luaPath != "" {
		code, err := os.ReadFile(opts.luaPath)
		if err != nil {
			return fmt.Errorf("reading lua script: %w", err)
		}
		seq, err = script.NewLuaRunner(logger, script.WithOutput(stdout)).Run(seq, string(code))
		if err != nil {
			return err
		}
	}

	return writeOutput(stdout, cfg.Output, seq, results)
}

// readInput returns the initial value from --text or stdin. Without --from
// the encoding is detected.
func readInput(opts options, stdin io.Reader) (sequence.Value, error) {
	if opts.hasText {
		if opts.from == "" {
			return sequence.Text(opts.text), nil
		}
		return sequence.Raw{Data: []byte(opts.text), Enc: opts.from}, nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return sequence.Raw{Data: data, Enc: opts.from}, nil
}

func writeOutput(w io.Writer, out config.Output, seq *sequence.Sequence, results []script.Result) error {
	if out.Format == config.FormatJSON {
		doc, err := report.Build(seq, results, report.Options{Pretty: out.Pretty})
		if err != nil {
			return err
		}
		if len(doc) == 0 || doc[len(doc)-1] != '\n' {
			doc = append(doc, '\n')
		}
		_, err = w.Write(doc)
		return err
	}

	for _, r := range results {
		if _, err := fmt.Fprintf(w, "%s: %v\n", r.Op, r.Value); err != nil {
			return err
		}
	}

	raw := seq.Bytes()
	if shouldEscape(out.Escape, w, raw) {
		raw = []byte(escapeBytes(raw))
	}
	if _, err := w.Write(raw); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// shouldEscape reports whether raw must be escaped before writing to w. In
// auto mode only invalid UTF-8 headed for a terminal is escaped.
func shouldEscape(mode string, w io.Writer, raw []byte) bool {
	switch mode {
	case config.EscapeAlways:
		return true
	case config.EscapeNever:
		return false
	}
	return isTerminal(w) && !utf8.Valid(raw)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// escapeBytes keeps printable ASCII and writes every other byte as \xNN.
func escapeBytes(raw []byte) string {
	var sb strings.Builder
	for _, b := range raw {
		switch {
		case b == '\\':
			sb.WriteString(`\\`)
		case b >= 0x20 && b < 0x7F:
			sb.WriteByte(b)
		default:
			fmt.Fprintf(&sb, `\x%02x`, b)
		}
	}
	return sb.String()
}

func listEncodings(w io.Writer, pattern string) {
	pattern = strings.ToLower(pattern)
	for _, name := range codec.Encodings() {
		if match.Match(strings.ToLower(name), pattern) {
			fmt.Fprintln(w, name)
		}
	}
}
