package loader

import (
	"errors"
	"io/fs"
	"testing"
	"time"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) Open(name string) (fs.File, error) {
	return nil, fs.ErrNotExist
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/strseq.toml", `
[sequence]
encoding = "ISO-8859-1"
detectOrder = ["ASCII", "UTF-8"]

[output]
pretty = true
`)

	loader := NewTOMLLoaderWithFS(memfs, "/strseq.toml")
	if !loader.Exists() {
		t.Fatal("expected file to exist")
	}
	config, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	seq, ok := config["sequence"].(map[string]any)
	if !ok {
		t.Fatal("expected sequence to be a map")
	}
	if seq["encoding"] != "ISO-8859-1" {
		t.Errorf("encoding = %v, want ISO-8859-1", seq["encoding"])
	}
	order, ok := seq["detectOrder"].([]any)
	if !ok || len(order) != 2 || order[1] != "UTF-8" {
		t.Errorf("detectOrder = %v", seq["detectOrder"])
	}

	output, ok := config["output"].(map[string]any)
	if !ok || output["pretty"] != true {
		t.Errorf("output.pretty = %v, want true", config["output"])
	}
}

func TestTOMLLoader_LoadNonExistent(t *testing.T) {
	loader := NewTOMLLoaderWithFS(NewMemFS(), "/missing.toml")
	if loader.Exists() {
		t.Error("expected file to be missing")
	}

	config, err := loader.Load()
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if config != nil {
		t.Errorf("expected nil config, got %v", config)
	}
}

func TestTOMLLoader_LoadInvalid(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "[sequence]\nencoding = \n")

	_, err := NewTOMLLoaderWithFS(memfs, "/bad.toml").Load()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if perr.Path != "/bad.toml" {
		t.Errorf("Path = %q, want /bad.toml", perr.Path)
	}
	if perr.Line == 0 {
		t.Error("expected a line number")
	}
}

func TestTOMLLoader_LoadWithIncludes(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/etc/strseq.toml", `
"@include" = ["base.toml"]

[sequence]
encoding = "UTF-16LE"
`)
	memfs.AddFile("/etc/base.toml", `
[sequence]
encoding = "UTF-8"
unit = "grapheme"

[logging]
level = "debug"
`)

	loader := NewTOMLLoaderWithFS(memfs, "/etc/strseq.toml")
	config, err := loader.LoadWithIncludes(loader.Path(), 4)
	if err != nil {
		t.Fatalf("LoadWithIncludes failed: %v", err)
	}

	if _, ok := config[IncludeKey]; ok {
		t.Error("include key should be removed")
	}
	if v, _ := getByPath(config, "sequence.encoding"); v != "UTF-16LE" {
		t.Errorf("sequence.encoding = %v, want UTF-16LE (main file wins)", v)
	}
	if v, _ := getByPath(config, "sequence.unit"); v != "grapheme" {
		t.Errorf("sequence.unit = %v, want grapheme (from include)", v)
	}
	if v, _ := getByPath(config, "logging.level"); v != "debug" {
		t.Errorf("logging.level = %v, want debug", v)
	}
}

func TestTOMLLoader_LoadWithIncludes_DepthExceeded(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/a.toml", `"@include" = "b.toml"`)
	memfs.AddFile("/b.toml", `"@include" = ["c.toml"]`)
	memfs.AddFile("/c.toml", `value = 1`)

	loader := NewTOMLLoaderWithFS(memfs, "/a.toml")

	_, err := loader.LoadWithIncludes("/a.toml", 2)
	if !errors.Is(err, ErrIncludeDepthExceeded) {
		t.Fatalf("expected ErrIncludeDepthExceeded, got %v", err)
	}

	config, err := loader.LoadWithIncludes("/a.toml", 3)
	if err != nil {
		t.Fatalf("expected success with depth 3, got: %v", err)
	}
	if config["value"] != int64(1) {
		t.Errorf("value = %v, want 1", config["value"])
	}
}

func TestTOMLLoader_LoadWithIncludes_BadType(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/a.toml", `"@include" = 3`)

	_, err := NewTOMLLoaderWithFS(memfs, "/a.toml").LoadWithIncludes("/a.toml", 2)
	if err == nil {
		t.Fatal("expected error for non-string include")
	}
}

func TestDeepMerge(t *testing.T) {
	tests := []struct {
		name string
		dst  map[string]any
		src  map[string]any
		want map[string]any
	}{
		{
			name: "nil dst",
			dst:  nil,
			src:  map[string]any{"a": 1},
			want: map[string]any{"a": 1},
		},
		{
			name: "nil src",
			dst:  map[string]any{"a": 1},
			src:  nil,
			want: map[string]any{"a": 1},
		},
		{
			name: "override scalar",
			dst:  map[string]any{"a": 1, "b": 2},
			src:  map[string]any{"b": 3},
			want: map[string]any{"a": 1, "b": 3},
		},
		{
			name: "nested merge",
			dst: map[string]any{
				"sequence": map[string]any{"encoding": "UTF-8", "unit": "codepoint"},
			},
			src: map[string]any{
				"sequence": map[string]any{"encoding": "ASCII"},
			},
			want: map[string]any{
				"sequence": map[string]any{"encoding": "ASCII", "unit": "codepoint"},
			},
		},
		{
			name: "map replaces scalar",
			dst:  map[string]any{"a": 1},
			src:  map[string]any{"a": map[string]any{"b": 2}},
			want: map[string]any{"a": map[string]any{"b": 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeepMerge(tt.dst, tt.src)
			if !mapsEqual(got, tt.want) {
				t.Errorf("DeepMerge() = %v, want %v", got, tt.want)
			}
		})
	}
}

func mapsEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			return false
		}
		am, aIsMap := av.(map[string]any)
		bm, bIsMap := bv.(map[string]any)
		if aIsMap != bIsMap {
			return false
		}
		if aIsMap {
			if !mapsEqual(am, bm) {
				return false
			}
			continue
		}
		if av != bv {
			return false
		}
	}
	return true
}
