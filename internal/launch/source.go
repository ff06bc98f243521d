package launch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Source produces the launch configuration for a session. Each source
// resolves relative paths against the workspace root.
type Source interface {
	Load(ctx context.Context, workspaceRoot string) (*Config, error)
}

// LaunchJSONSource picks one configuration out of a VS Code style
// launch.json ({"configurations": [...]}) by name. An empty Name selects
// the first configuration.
type LaunchJSONSource struct {
	File string
	Name string
	// Set holds key=value edits applied to the selected configuration
	// before it is decoded. Keys use sjson path syntax.
	Set []string
}

func (s LaunchJSONSource) Load(ctx context.Context, workspaceRoot string) (*Config, error) {
	path := s.File
	if path == "" {
		path = DefaultLaunchFile
	}
	if !filepath.IsAbs(path) {
		path = filepath.Clean(filepath.Join(workspaceRoot, path))
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read launch file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b = StripJSONComments(b)
	if !gjson.ValidBytes(b) {
		return nil, fmt.Errorf("%w: %s is not valid JSON", ErrInvalidConfig, path)
	}

	configs := gjson.GetBytes(b, "configurations")
	if !configs.IsArray() || len(configs.Array()) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoConfigurations, path)
	}
	var raw string
	for _, c := range configs.Array() {
		if s.Name == "" || c.Get("name").String() == s.Name {
			raw = c.Raw
			break
		}
	}
	if raw == "" {
		return nil, fmt.Errorf("%w: %q in %s", ErrNotFound, s.Name, path)
	}
	return decodeWithEdits([]byte(raw), s.Set, workspaceRoot)
}

// FileSource reads a single configuration object from a JSON file.
type FileSource struct {
	File string
	Set  []string
}

func (s FileSource) Load(ctx context.Context, workspaceRoot string) (*Config, error) {
	path := s.File
	if !filepath.IsAbs(path) {
		path = filepath.Clean(filepath.Join(workspaceRoot, path))
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read launch configuration: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return decodeWithEdits(StripJSONComments(b), s.Set, workspaceRoot)
}

// DefaultLaunchFile is where VS Code keeps a workspace's launch configurations.
var DefaultLaunchFile = filepath.Join(".vscode", "launch.json")

// Open picks a Source for file. A file holding a "configurations" array is
// read as a launch.json; anything else as a single configuration. It returns
// the absolute path of the file too.
func Open(workspaceRoot, file, name string, set []string) (Source, string, error) {
	if file == "" {
		file = DefaultLaunchFile
	}
	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Clean(filepath.Join(workspaceRoot, path))
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("open launch configuration: %w", err)
	}
	if gjson.GetBytes(StripJSONComments(b), "configurations").Exists() {
		return LaunchJSONSource{File: path, Name: name, Set: set}, path, nil
	}
	if name != "" {
		return nil, "", fmt.Errorf("%w: %q: %s holds a single configuration", ErrNotFound, name, path)
	}
	return FileSource{File: path, Set: set}, path, nil
}

func decodeWithEdits(raw []byte, set []string, workspaceRoot string) (*Config, error) {
	raw, err := ApplyOverrides(raw, set)
	if err != nil {
		return nil, err
	}
	return Decode(raw, Vars{WorkspaceFolder: workspaceRoot})
}

// ApplyOverrides applies "key=value" edits to a raw configuration object.
// Values that are JSON objects, arrays, quoted strings, booleans or null are
// set verbatim; anything else is set as a plain string.
func ApplyOverrides(raw []byte, set []string) ([]byte, error) {
	for _, kv := range set {
		key, value, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", ErrBadOverride, kv)
		}
		var err error
		if isRawJSON(value) {
			raw, err = sjson.SetRawBytes(raw, key, []byte(value))
		} else {
			raw, err = sjson.SetBytes(raw, key, value)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrBadOverride, kv, err)
		}
	}
	return raw, nil
}

func isRawJSON(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" || !gjson.Valid(v) {
		return false
	}
	switch v[0] {
	case '{', '[', '"':
		return true
	}
	return v == "true" || v == "false" || v == "null"
}

// Vars are the values available to ${...} substitution.
type Vars struct {
	WorkspaceFolder string
}

// Decode parses one configuration object, normalizes legacy type names,
// applies defaults, expands ${...} variables and validates the result.
func Decode(raw []byte, vars Vars) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	cfg.normalize()
	cfg.expand(vars)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var reVariable = regexp.MustCompile(`\$\{([^}]+)\}`)

func (c *Config) expand(vars Vars) {
	// ${cwd} refers to the configured cwd, so resolve it first.
	c.Cwd = expandString(c.Cwd, vars, "")
	sub := func(s string) string { return expandString(s, vars, c.Cwd) }

	c.RemoteRoot = sub(c.RemoteRoot)
	c.LocalRoot = sub(c.LocalRoot)
	c.WebRoot = sub(c.WebRoot)
	c.File = sub(c.File)
	for i := range c.PathMapping {
		c.PathMapping[i].Value = sub(c.PathMapping[i].Value)
	}
	for i := range c.SourceMapPathOverrides {
		c.SourceMapPathOverrides[i].Value = sub(c.SourceMapPathOverrides[i].Value)
	}
	for i := range c.ResolveSourceMapLocations {
		c.ResolveSourceMapLocations[i] = sub(c.ResolveSourceMapLocations[i])
	}
}

func expandString(s string, vars Vars, cwd string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return reVariable.ReplaceAllStringFunc(s, func(m string) string {
		name := m[2 : len(m)-1]
		switch {
		case name == "workspaceFolder" || name == "workspaceRoot":
			if vars.WorkspaceFolder != "" {
				return vars.WorkspaceFolder
			}
		case name == "cwd":
			if cwd != "" {
				return cwd
			}
			if wd, err := os.Getwd(); err == nil {
				return wd
			}
		case strings.HasPrefix(name, "env:"):
			return os.Getenv(strings.TrimPrefix(name, "env:"))
		}
		return m
	})
}

// StripJSONComments removes // and /* */ comments and trailing commas so
// launch files written for VS Code decode as plain JSON.
func StripJSONComments(src []byte) []byte {
	out := make([]byte, 0, len(src))
	inString := false
	for i := 0; i < len(src); i++ {
		ch := src[i]
		if inString {
			out = append(out, ch)
			if ch == '\\' && i+1 < len(src) {
				i++
				out = append(out, src[i])
			} else if ch == '"' {
				inString = false
			}
			continue
		}
		switch {
		case ch == '"':
			inString = true
			out = append(out, ch)
		case ch == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
			if i < len(src) {
				out = append(out, '\n')
			}
		case ch == '/' && i+1 < len(src) && src[i+1] == '*':
			i += 2
			for i+1 < len(src) && !(src[i] == '*' && src[i+1] == '/') {
				i++
			}
			i++
		case ch == '}' || ch == ']':
			out = trimTrailingComma(out)
			out = append(out, ch)
		default:
			out = append(out, ch)
		}
	}
	return out
}

func trimTrailingComma(b []byte) []byte {
	j := len(b) - 1
	for j >= 0 && (b[j] == ' ' || b[j] == '\t' || b[j] == '\n' || b[j] == '\r') {
		j--
	}
	if j >= 0 && b[j] == ',' {
		return append(b[:j], b[j+1:]...)
	}
	return b
}
