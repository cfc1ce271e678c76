package script

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/dshills/strseq/internal/logging"
	"github.com/dshills/strseq/internal/sequence"
)

// Errors returned by the script runners.
var (
	// ErrInvalidScript indicates a script document or argument is malformed.
	ErrInvalidScript = errors.New("invalid script")

	// ErrUnknownOp indicates an operation name is not recognized.
	ErrUnknownOp = errors.New("unknown operation")
)

// Op is one operation applied to the working sequence.
type Op struct {
	Name string
	Args []string
}

// String returns the command-line form of the operation.
func (o Op) String() string {
	return strings.Join(append([]string{o.Name}, o.Args...), ":")
}

// Result is the value produced by a query operation.
type Result struct {
	Op    string
	Value any
}

type runFunc func(seq *sequence.Sequence, args []string, log *logging.Logger) (*sequence.Sequence, any, error)

type opSpec struct {
	name    string
	minArgs int
	maxArgs int
	query   bool
	run     runFunc
}

var registry = map[string]opSpec{}

func register(spec opSpec) {
	registry[normalize(spec.name)] = spec
}

func normalize(name string) string {
	return strings.NewReplacer("_", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(name)))
}

func lookup(name string) (opSpec, error) {
	spec, ok := registry[normalize(name)]
	if !ok {
		return opSpec{}, fmt.Errorf("%w %q", ErrUnknownOp, name)
	}
	return spec, nil
}

// Names returns the canonical operation names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, spec := range registry {
		names = append(names, spec.name)
	}
	sort.Strings(names)
	return names
}

// ParseArg parses the command-line form name:arg1:arg2. The last argument
// the operation accepts takes the rest of the string, so text may contain
// colons.
func ParseArg(s string) (Op, error) {
	name, rest, hasArgs := strings.Cut(s, ":")
	spec, err := lookup(name)
	if err != nil {
		return Op{}, err
	}

	op := Op{Name: spec.name}
	if hasArgs && spec.maxArgs > 0 {
		op.Args = strings.SplitN(rest, ":", spec.maxArgs)
	} else if hasArgs {
		return Op{}, fmt.Errorf("%w: %s takes no arguments", ErrInvalidScript, spec.name)
	}
	if len(op.Args) < spec.minArgs {
		return Op{}, fmt.Errorf("%w: %s needs %d argument(s), got %d", ErrInvalidScript, spec.name, spec.minArgs, len(op.Args))
	}
	return op, nil
}

// ParseJSON parses a JSON operation list. The document is either an array
// or an object with an "ops" array. Each entry is an object
// {"op": name, "args": [...]} or a string in command-line form.
func ParseJSON(data []byte) ([]Op, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrInvalidScript)
	}
	root := gjson.ParseBytes(data)
	if root.IsObject() {
		root = root.Get("ops")
	}
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: expected an array of operations", ErrInvalidScript)
	}

	var ops []Op
	var perr error
	root.ForEach(func(key, item gjson.Result) bool {
		op, err := parseJSONOp(item)
		if err != nil {
			perr = fmt.Errorf("operation %d: %w", key.Int()+1, err)
			return false
		}
		ops = append(ops, op)
		return true
	})
	if perr != nil {
		return nil, perr
	}
	return ops, nil
}

func parseJSONOp(item gjson.Result) (Op, error) {
	if item.Type == gjson.String {
		return ParseArg(item.String())
	}
	if !item.IsObject() {
		return Op{}, fmt.Errorf("%w: expected object or string, got %s", ErrInvalidScript, item.Type)
	}

	name := item.Get("op")
	if name.Type != gjson.String {
		return Op{}, fmt.Errorf("%w: missing \"op\"", ErrInvalidScript)
	}
	spec, err := lookup(name.String())
	if err != nil {
		return Op{}, err
	}

	op := Op{Name: spec.name}
	for _, arg := range item.Get("args").Array() {
		op.Args = append(op.Args, arg.String())
	}
	if n := len(op.Args); n < spec.minArgs || n > spec.maxArgs {
		return Op{}, fmt.Errorf("%w: %s takes %d to %d arguments, got %d", ErrInvalidScript, spec.name, spec.minArgs, spec.maxArgs, n)
	}
	return op, nil
}

// Apply runs ops against seq in order and collects query results. The
// returned sequence differs from seq when a substring operation replaced
// the working sequence. Apply stops at the first failing operation.
func Apply(seq *sequence.Sequence, ops []Op, logger *logging.Logger) (*sequence.Sequence, []Result, error) {
	if logger == nil {
		logger = logging.Null()
	}
	log := logger.WithComponent("script")

	var results []Result
	for i, op := range ops {
		spec, err := lookup(op.Name)
		if err != nil {
			return seq, results, fmt.Errorf("op %d: %w", i+1, err)
		}
		if n := len(op.Args); n < spec.minArgs || n > spec.maxArgs {
			return seq, results, fmt.Errorf("op %d (%s): %w: wrong number of arguments", i+1, spec.name, ErrInvalidScript)
		}

		next, value, err := spec.run(seq, op.Args, log)
		if err != nil {
			return seq, results, fmt.Errorf("op %d (%s): %w", i+1, spec.name, err)
		}
		if next != nil {
			seq = next
		}
		if spec.query {
			results = append(results, Result{Op: op.String(), Value: value})
		}
		log.WithField("op", spec.name).Debug("applied %s (%d bytes)", op, seq.ByteCount())
	}
	return seq, results, nil
}

func intArg(args []string, i int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(args[i]))
	if err != nil {
		return 0, fmt.Errorf("%w: argument %d: %q is not an integer", ErrInvalidScript, i+1, args[i])
	}
	return n, nil
}

func optArg(args []string, i int) (string, bool) {
	if i < len(args) {
		return args[i], true
	}
	return "", false
}

// mutate adapts a mutator that only needs the sequence.
func mutate(fn func(seq *sequence.Sequence, args []string) error) runFunc {
	return func(seq *sequence.Sequence, args []string, _ *logging.Logger) (*sequence.Sequence, any, error) {
		return nil, nil, fn(seq, args)
	}
}

// inspect adapts a read-only operation.
func inspect(fn func(seq *sequence.Sequence, args []string) (any, error)) runFunc {
	return func(seq *sequence.Sequence, args []string, _ *logging.Logger) (*sequence.Sequence, any, error) {
		v, err := fn(seq, args)
		return nil, v, err
	}
}

func init() {
	register(opSpec{name: "append", minArgs: 1, maxArgs: 1, run: mutate(func(s *sequence.Sequence, a []string) error {
		return s.Append(sequence.Text(a[0]))
	})})
	register(opSpec{name: "insert", minArgs: 2, maxArgs: 2, run: mutate(func(s *sequence.Sequence, a []string) error {
		off, err := intArg(a, 0)
		if err != nil {
			return err
		}
		return s.Insert(off, sequence.Text(a[1]))
	})})
	register(opSpec{name: "replace", minArgs: 3, maxArgs: 3, run: mutate(func(s *sequence.Sequence, a []string) error {
		start, end, err := spanArgs(a)
		if err != nil {
			return err
		}
		return s.Replace(start, end, sequence.Text(a[2]))
	})})
	register(opSpec{name: "delete", minArgs: 2, maxArgs: 2, run: mutate(func(s *sequence.Sequence, a []string) error {
		start, end, err := spanArgs(a)
		if err != nil {
			return err
		}
		return s.Delete(start, end)
	})})
	register(opSpec{name: "deleteCharAt", minArgs: 1, maxArgs: 1, run: mutate(func(s *sequence.Sequence, a []string) error {
		i, err := intArg(a, 0)
		if err != nil {
			return err
		}
		return s.DeleteCharAt(i)
	})})
	register(opSpec{name: "reverse", run: mutate(func(s *sequence.Sequence, _ []string) error {
		return s.Reverse()
	})})
	register(opSpec{name: "setLength", minArgs: 1, maxArgs: 2, run: mutate(func(s *sequence.Sequence, a []string) error {
		n, err := intArg(a, 0)
		if err != nil {
			return err
		}
		if pad, ok := optArg(a, 1); ok {
			return s.SetLengthPad(n, sequence.Text(pad))
		}
		return s.SetLength(n)
	})})
	register(opSpec{name: "trim", maxArgs: 1, run: mutate(func(s *sequence.Sequence, a []string) error {
		cutset, _ := optArg(a, 0)
		return s.Trim(cutset)
	})})
	register(opSpec{name: "trimLeft", maxArgs: 1, run: mutate(func(s *sequence.Sequence, a []string) error {
		cutset, _ := optArg(a, 0)
		return s.TrimLeft(cutset)
	})})
	register(opSpec{name: "trimRight", maxArgs: 1, run: mutate(func(s *sequence.Sequence, a []string) error {
		cutset, _ := optArg(a, 0)
		return s.TrimRight(cutset)
	})})
	register(opSpec{name: "setEncoding", minArgs: 1, maxArgs: 1, run: func(s *sequence.Sequence, a []string, log *logging.Logger) (*sequence.Sequence, any, error) {
		log.Warn("retagging %d bytes from %s to %s without transcoding", s.ByteCount(), s.Encoding(), a[0])
		s.SetEncoding(a[0])
		return nil, nil, nil
	}})
	register(opSpec{name: "changeEncoding", minArgs: 1, maxArgs: 1, run: mutate(func(s *sequence.Sequence, a []string) error {
		return s.ChangeEncoding(a[0])
	})})
	register(opSpec{name: "substring", minArgs: 1, maxArgs: 2, run: func(s *sequence.Sequence, a []string, _ *logging.Logger) (*sequence.Sequence, any, error) {
		start, err := intArg(a, 0)
		if err != nil {
			return nil, nil, err
		}
		if len(a) == 1 {
			sub, err := s.Substring(start)
			return sub, nil, err
		}
		end, err := intArg(a, 1)
		if err != nil {
			return nil, nil, err
		}
		sub, err := s.SubstringRange(start, end)
		return sub, nil, err
	}})

	register(opSpec{name: "length", query: true, run: inspect(func(s *sequence.Sequence, _ []string) (any, error) {
		return s.Length()
	})})
	register(opSpec{name: "byteCount", query: true, run: inspect(func(s *sequence.Sequence, _ []string) (any, error) {
		return s.ByteCount(), nil
	})})
	register(opSpec{name: "charAt", minArgs: 1, maxArgs: 1, query: true, run: inspect(func(s *sequence.Sequence, a []string) (any, error) {
		i, err := intArg(a, 0)
		if err != nil {
			return nil, err
		}
		return s.CharAt(i)
	})})
	register(opSpec{name: "indexOf", minArgs: 1, maxArgs: 2, query: true, run: inspect(func(s *sequence.Sequence, a []string) (any, error) {
		return searchOp(a, s.IndexOf, s.IndexFrom)
	})})
	register(opSpec{name: "lastIndexOf", minArgs: 1, maxArgs: 2, query: true, run: inspect(func(s *sequence.Sequence, a []string) (any, error) {
		return searchOp(a, s.LastIndexOf, s.LastIndexFrom)
	})})
	register(opSpec{name: "contains", minArgs: 1, maxArgs: 1, query: true, run: inspect(func(s *sequence.Sequence, a []string) (any, error) {
		return s.Contains(sequence.Text(a[0]))
	})})
	register(opSpec{name: "startsWith", minArgs: 1, maxArgs: 1, query: true, run: inspect(func(s *sequence.Sequence, a []string) (any, error) {
		return s.StartsWith(sequence.Text(a[0]))
	})})
	register(opSpec{name: "endsWith", minArgs: 1, maxArgs: 1, query: true, run: inspect(func(s *sequence.Sequence, a []string) (any, error) {
		return s.EndsWith(sequence.Text(a[0]))
	})})
	register(opSpec{name: "encoding", query: true, run: inspect(func(s *sequence.Sequence, _ []string) (any, error) {
		return s.Encoding(), nil
	})})
	register(opSpec{name: "text", query: true, run: inspect(func(s *sequence.Sequence, _ []string) (any, error) {
		return s.Text()
	})})
}

func spanArgs(a []string) (int, int, error) {
	start, err := intArg(a, 0)
	if err != nil {
		return 0, 0, err
	}
	end, err := intArg(a, 1)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// searchOp runs an index query. The text comes first so that the optional
// offset can follow it; ParseArg therefore splits "indexOf:a:b" as text "a"
// and offset "b".
func searchOp(a []string, plain func(sequence.Value) (int, error), from func(sequence.Value, int) (int, error)) (any, error) {
	v := sequence.Text(a[0])
	if len(a) == 1 {
		return plain(v)
	}
	off, err := intArg(a, 1)
	if err != nil {
		return nil, err
	}
	return from(v, off)
}
