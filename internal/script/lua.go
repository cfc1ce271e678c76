package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/strseq/internal/logging"
	"github.com/dshills/strseq/internal/sequence"
)

// DefaultLuaTimeout bounds a single Lua script run.
const DefaultLuaTimeout = 5 * time.Second

// seqTypeName is the registry key of the seq userdata metatable.
const seqTypeName = "strseq.seq"

var (
	// ErrLuaTimeout is returned when a Lua script runs past its deadline.
	ErrLuaTimeout = errors.New("lua script timed out")

	// ErrNoSequence is returned when a script leaves the global seq without
	// a sequence.
	ErrNoSequence = errors.New("global seq is not a sequence")
)

// LuaRunner executes Lua scripts against a working sequence.
type LuaRunner struct {
	logger  *logging.Logger
	output  io.Writer
	timeout time.Duration
}

// LuaOption configures a LuaRunner.
type LuaOption func(*LuaRunner)

// WithOutput sends print output to w. Without it, print logs at info level.
func WithOutput(w io.Writer) LuaOption {
	return func(r *LuaRunner) {
		r.output = w
	}
}

// WithTimeout sets the run deadline.
func WithTimeout(d time.Duration) LuaOption {
	return func(r *LuaRunner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewLuaRunner creates a runner. A nil logger discards log output.
func NewLuaRunner(logger *logging.Logger, opts ...LuaOption) *LuaRunner {
	if logger == nil {
		logger = logging.Null()
	}
	r := &LuaRunner{
		logger:  logger.WithComponent("lua"),
		timeout: DefaultLuaTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunLua runs code with a default runner.
func RunLua(seq *sequence.Sequence, code string, logger *logging.Logger) (*sequence.Sequence, error) {
	return NewLuaRunner(logger).Run(seq, code)
}

// Run executes code with the global seq bound to seq and returns the value
// of seq afterwards, which the script may have replaced.
func (r *LuaRunner) Run(seq *sequence.Sequence, code string) (*sequence.Sequence, error) {
	L := r.newState(seq)
	defer L.Close()

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	L.SetContext(ctx)

	L.SetGlobal("seq", r.wrap(L, seq))
	if err := doString(L, code); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrLuaTimeout, err)
		}
		return nil, fmt.Errorf("lua: %w", err)
	}

	ud, ok := L.GetGlobal("seq").(*lua.LUserData)
	if !ok {
		return nil, ErrNoSequence
	}
	out, ok := ud.Value.(*sequence.Sequence)
	if !ok {
		return nil, ErrNoSequence
	}
	return out, nil
}

func doString(L *lua.LState, code string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("lua panic: %v", rec)
		}
	}()
	return L.DoString(code)
}

// newState creates a state with only the base, table, string and math
// libraries and no way to load code from disk.
func (r *LuaRunner) newState(seq *sequence.Sequence) *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	L.SetTop(0)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
	L.SetGlobal("print", L.NewFunction(r.print))

	mt := L.NewTypeMetatable(seqTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), r.methods()))
	L.SetField(mt, "__tostring", L.NewFunction(seqToString))

	mod := L.NewTable()
	L.SetField(mod, "new", L.NewFunction(func(L *lua.LState) int {
		text := L.CheckString(1)
		enc := L.OptString(2, seq.Encoding())
		s, err := sequence.New(sequence.Text(text), sequence.WithEncoding(enc), sequence.WithCodec(seq.Codec()))
		if err != nil {
			L.RaiseError("new: %v", err)
			return 0
		}
		L.Push(r.wrap(L, s))
		return 1
	}))
	L.SetGlobal("strseq", mod)
	return L
}

func (r *LuaRunner) wrap(L *lua.LState, s *sequence.Sequence) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = s
	L.SetMetatable(ud, L.GetTypeMetatable(seqTypeName))
	return ud
}

// print joins its arguments with tabs like the standard print.
func (r *LuaRunner) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, n)
	for i := 1; i <= n; i++ {
		parts[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	line := strings.Join(parts, "\t")
	if r.output != nil {
		fmt.Fprintln(r.output, line)
	} else {
		r.logger.Info("%s", line)
	}
	return 0
}

func checkSeq(L *lua.LState) *sequence.Sequence {
	ud := L.CheckUserData(1)
	if s, ok := ud.Value.(*sequence.Sequence); ok {
		return s
	}
	L.ArgError(1, "seq expected")
	return nil
}

func seqToString(L *lua.LState) int {
	s := checkSeq(L)
	text, err := s.Text()
	if err != nil {
		text = s.String()
	}
	L.Push(lua.LString(text))
	return 1
}

// mutator wraps a sequence mutator as a method returning self.
func mutator(name string, fn func(L *lua.LState, s *sequence.Sequence) error) lua.LGFunction {
	return func(L *lua.LState) int {
		s := checkSeq(L)
		if err := fn(L, s); err != nil {
			L.RaiseError("%s: %v", name, err)
			return 0
		}
		L.Push(L.Get(1))
		return 1
	}
}

func raise(L *lua.LState, name string, err error) int {
	L.RaiseError("%s: %v", name, err)
	return 0
}

func (r *LuaRunner) methods() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"append": mutator("append", func(L *lua.LState, s *sequence.Sequence) error {
			return s.Append(sequence.Text(L.CheckString(2)))
		}),
		"insert": mutator("insert", func(L *lua.LState, s *sequence.Sequence) error {
			return s.Insert(L.CheckInt(2), sequence.Text(L.CheckString(3)))
		}),
		"replace": mutator("replace", func(L *lua.LState, s *sequence.Sequence) error {
			return s.Replace(L.CheckInt(2), L.CheckInt(3), sequence.Text(L.CheckString(4)))
		}),
		"delete": mutator("delete", func(L *lua.LState, s *sequence.Sequence) error {
			return s.Delete(L.CheckInt(2), L.CheckInt(3))
		}),
		"delete_char_at": mutator("delete_char_at", func(L *lua.LState, s *sequence.Sequence) error {
			return s.DeleteCharAt(L.CheckInt(2))
		}),
		"reverse": mutator("reverse", func(_ *lua.LState, s *sequence.Sequence) error {
			return s.Reverse()
		}),
		"set_length": mutator("set_length", func(L *lua.LState, s *sequence.Sequence) error {
			n := L.CheckInt(2)
			if L.GetTop() >= 3 {
				return s.SetLengthPad(n, sequence.Text(L.CheckString(3)))
			}
			return s.SetLength(n)
		}),
		"trim": mutator("trim", func(L *lua.LState, s *sequence.Sequence) error {
			return s.Trim(L.OptString(2, ""))
		}),
		"trim_left": mutator("trim_left", func(L *lua.LState, s *sequence.Sequence) error {
			return s.TrimLeft(L.OptString(2, ""))
		}),
		"trim_right": mutator("trim_right", func(L *lua.LState, s *sequence.Sequence) error {
			return s.TrimRight(L.OptString(2, ""))
		}),
		"set_encoding": mutator("set_encoding", func(L *lua.LState, s *sequence.Sequence) error {
			name := L.CheckString(2)
			r.logger.Warn("retagging %d bytes from %s to %s without transcoding", s.ByteCount(), s.Encoding(), name)
			s.SetEncoding(name)
			return nil
		}),
		"change_encoding": mutator("change_encoding", func(L *lua.LState, s *sequence.Sequence) error {
			return s.ChangeEncoding(L.CheckString(2))
		}),

		"substring": func(L *lua.LState) int {
			s := checkSeq(L)
			var sub *sequence.Sequence
			var err error
			if L.GetTop() >= 3 {
				sub, err = s.SubstringRange(L.CheckInt(2), L.CheckInt(3))
			} else {
				sub, err = s.Substring(L.CheckInt(2))
			}
			if err != nil {
				return raise(L, "substring", err)
			}
			L.Push(r.wrap(L, sub))
			return 1
		},
		"char_at": func(L *lua.LState) int {
			c, err := checkSeq(L).CharAt(L.CheckInt(2))
			if err != nil {
				return raise(L, "char_at", err)
			}
			L.Push(lua.LString(c))
			return 1
		},
		"index_of": func(L *lua.LState) int {
			s := checkSeq(L)
			v := sequence.Text(L.CheckString(2))
			var i int
			var err error
			if L.GetTop() >= 3 {
				i, err = s.IndexFrom(v, L.CheckInt(3))
			} else {
				i, err = s.IndexOf(v)
			}
			if err != nil {
				return raise(L, "index_of", err)
			}
			L.Push(lua.LNumber(i))
			return 1
		},
		"last_index_of": func(L *lua.LState) int {
			s := checkSeq(L)
			v := sequence.Text(L.CheckString(2))
			var i int
			var err error
			if L.GetTop() >= 3 {
				i, err = s.LastIndexFrom(v, L.CheckInt(3))
			} else {
				i, err = s.LastIndexOf(v)
			}
			if err != nil {
				return raise(L, "last_index_of", err)
			}
			L.Push(lua.LNumber(i))
			return 1
		},
		"contains":    predicate("contains", (*sequence.Sequence).Contains),
		"starts_with": predicate("starts_with", (*sequence.Sequence).StartsWith),
		"ends_with":   predicate("ends_with", (*sequence.Sequence).EndsWith),
		"length": func(L *lua.LState) int {
			n, err := checkSeq(L).Length()
			if err != nil {
				return raise(L, "length", err)
			}
			L.Push(lua.LNumber(n))
			return 1
		},
		"byte_count": func(L *lua.LState) int {
			L.Push(lua.LNumber(checkSeq(L).ByteCount()))
			return 1
		},
		"encoding": func(L *lua.LState) int {
			L.Push(lua.LString(checkSeq(L).Encoding()))
			return 1
		},
		"text": func(L *lua.LState) int {
			text, err := checkSeq(L).Text()
			if err != nil {
				return raise(L, "text", err)
			}
			L.Push(lua.LString(text))
			return 1
		},
	}
}

func predicate(name string, fn func(*sequence.Sequence, sequence.Value) (bool, error)) lua.LGFunction {
	return func(L *lua.LState) int {
		s := checkSeq(L)
		ok, err := fn(s, sequence.Text(L.CheckString(2)))
		if err != nil {
			return raise(L, name, err)
		}
		L.Push(lua.LBool(ok))
		return 1
	}
}
