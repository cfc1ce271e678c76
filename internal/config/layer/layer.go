// Package layer stacks configuration sources by priority.
//
// Each source (built-in defaults, the configuration file, the environment,
// command-line flags) contributes one Layer holding a nested map. Merging
// applies layers from lowest to highest priority, so a later source
// overrides an earlier one setting by setting. The manager also reports
// which layer a setting came from.
package layer

import "sort"

// Source indicates where a layer came from.
type Source uint8

const (
	// SourceDefaults is the built-in configuration.
	SourceDefaults Source = iota
	// SourceFile is a TOML configuration file.
	SourceFile
	// SourceEnv is the process environment.
	SourceEnv
	// SourceArgs is the command line.
	SourceArgs
)

// String returns the name of the source.
func (s Source) String() string {
	switch s {
	case SourceDefaults:
		return "defaults"
	case SourceFile:
		return "file"
	case SourceEnv:
		return "environment"
	case SourceArgs:
		return "arguments"
	default:
		return "unknown"
	}
}

// Priority returns the merge priority of the source. Higher wins.
func (s Source) Priority() int {
	return int(s) * 100
}

// Layer is one configuration source.
type Layer struct {
	// Name identifies the layer.
	Name string

	// Source is where the data came from.
	Source Source

	// Priority determines merge order.
	Priority int

	// Path is the file the layer was read from, if any.
	Path string

	// Data holds the settings as a nested map.
	Data map[string]any
}

// NewLayer creates a layer named after its source.
func NewLayer(source Source, data map[string]any) *Layer {
	if data == nil {
		data = make(map[string]any)
	}
	return &Layer{
		Name:     source.String(),
		Source:   source,
		Priority: source.Priority(),
		Data:     data,
	}
}

// Paths returns the dotted paths of every leaf setting in the layer, sorted.
func (l *Layer) Paths() []string {
	flat := Flatten(l.Data)
	paths := make([]string, 0, len(flat))
	for p := range flat {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
