package loader

import (
	"os"
	"strings"

	"github.com/tidwall/gjson"
)

// DefaultEnvPrefix is the prefix of strseq environment variables.
const DefaultEnvPrefix = "STRSEQ_"

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	prefix  string            // variable prefix, e.g. "STRSEQ_"
	mapping map[string]string // variable -> config path
	lists   map[string]bool   // config paths holding string lists
	lookup  func() []string   // environment source, os.Environ by default
}

// NewEnvLoader creates an environment loader with the default mapping.
// The prefix should include the trailing underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return NewEnvLoaderWithMapping(prefix, defaultEnvMapping(prefix))
}

// NewEnvLoaderWithMapping creates a loader with custom variable mappings.
func NewEnvLoaderWithMapping(prefix string, mapping map[string]string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: mapping,
		lists:   map[string]bool{"sequence.detectOrder": true},
		lookup:  os.Environ,
	}
}

func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "ENCODING":      "sequence.encoding",
		prefix + "UNIT":          "sequence.unit",
		prefix + "DETECT_ORDER":  "sequence.detectOrder",
		prefix + "PADDING":       "sequence.padding",
		prefix + "LOG_LEVEL":     "logging.level",
		prefix + "OUTPUT_FORMAT": "output.format",
	}
}

// AddMapping adds or replaces a variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// Load reads the prefixed environment variables. Mapped variables go to
// their configured path; others are converted with envToPath. Empty values
// are kept.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, kv := range l.lookup() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		path, mapped := l.mapping[name]
		if !mapped {
			path = l.envToPath(name)
		}
		if path == "" {
			continue
		}
		setByPath(config, path, l.parseValue(path, value))
	}

	return config, nil
}

// envToPath converts STRSEQ_OUTPUT_PRETTY to output.pretty and
// STRSEQ_SEQUENCE_DETECT_ORDER to sequence.detectOrder.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.TrimPrefix(env, l.prefix)
	parts := strings.Split(name, "_")
	if len(parts) < 2 || parts[0] == "" {
		return ""
	}

	setting := strings.ToLower(parts[1])
	for _, part := range parts[2:] {
		if part != "" {
			setting += strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
		}
	}
	return strings.ToLower(parts[0]) + "." + setting
}

// parseValue converts booleans and JSON arrays. List settings also accept
// comma-separated values. Everything else stays a string.
func (l *EnvLoader) parseValue(path, s string) any {
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}

	if strings.HasPrefix(s, "[") && gjson.Valid(s) {
		return gjson.Parse(s).Value()
	}
	if l.lists[path] {
		var items []any
		for _, item := range strings.Split(s, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return items
	}
	return s
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}
