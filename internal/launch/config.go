package launch

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// DebugType is the discriminant of a launch configuration.
type DebugType string

const (
	Node          DebugType = "pwa-node"
	Terminal      DebugType = "node-terminal"
	ExtensionHost DebugType = "pwa-extensionHost"
	Chrome        DebugType = "pwa-chrome"
	Edge          DebugType = "pwa-msedge"
)

// legacyTypes maps the older, unprefixed type names onto their current form.
var legacyTypes = map[string]DebugType{
	"node":          Node,
	"extensionHost": ExtensionHost,
	"chrome":        Chrome,
	"msedge":        Edge,
}

// IsNodeLike reports whether targets of this type address scripts by filesystem path.
func (t DebugType) IsNodeLike() bool {
	switch t {
	case Node, Terminal, ExtensionHost:
		return true
	default:
		return false
	}
}

// IsBrowser reports whether t is one of the browser target types.
func (t DebugType) IsBrowser() bool {
	return t == Chrome || t == Edge
}

// Known reports whether t is part of the closed set of debug types.
func (t DebugType) Known() bool {
	return t.IsNodeLike() || t.IsBrowser()
}

// Pair is one entry of an ordered string-to-string object such as
// pathMapping or sourceMapPathOverrides.
type Pair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Pairs keeps JSON object members in the order they were declared.
type Pairs []Pair

// UnmarshalJSON walks the object with gjson so declaration order survives;
// encoding/json would hand us a map.
func (p *Pairs) UnmarshalJSON(data []byte) error {
	res := gjson.ParseBytes(data)
	if res.Type == gjson.Null {
		*p = nil
		return nil
	}
	if !res.IsObject() {
		return fmt.Errorf("%w: expected object, got %s", ErrInvalidConfig, res.Type)
	}
	out := Pairs{}
	var err error
	res.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.String {
			err = fmt.Errorf("%w: value for %q must be a string", ErrInvalidConfig, key.String())
			return false
		}
		out = append(out, Pair{Key: key.String(), Value: value.String()})
		return true
	})
	if err != nil {
		return err
	}
	*p = out
	return nil
}

// Get returns the value of the first pair with the given key.
func (p Pairs) Get(key string) (string, bool) {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Config is a single launch configuration. It is a discriminated union:
// Type decides which of the remaining fields are meaningful.
type Config struct {
	Type    DebugType `json:"type"`
	Request string    `json:"request"`
	Name    string    `json:"name"`

	// Node-like fields
	Cwd        string `json:"cwd"`
	RemoteRoot string `json:"remoteRoot"`
	LocalRoot  string `json:"localRoot"`

	// Browser fields
	WebRoot     string `json:"webRoot"`
	PathMapping Pairs  `json:"pathMapping"`
	URL         string `json:"url"`
	File        string `json:"file"`
	// InspectURI is only set for WebAssembly (Blazor) hosts.
	InspectURI       string `json:"inspectUri"`
	RemoteFilePrefix string `json:"__remoteFilePrefix"`

	// Shared
	SourceMapPathOverrides    Pairs    `json:"sourceMapPathOverrides"`
	ResolveSourceMapLocations []string `json:"resolveSourceMapLocations"`
}

// Validate checks the invariants the resolver factory depends on.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil configuration", ErrInvalidConfig)
	}
	if !c.Type.Known() {
		return fmt.Errorf("%w: %q", ErrUnknownType, c.Type)
	}
	for _, kv := range c.PathMapping {
		if kv.Key == "" {
			return fmt.Errorf("%w: empty pathMapping key", ErrInvalidConfig)
		}
	}
	return nil
}

// normalize rewrites legacy type names and fills per-type defaults.
func (c *Config) normalize() {
	if t, ok := legacyTypes[strings.TrimSpace(string(c.Type))]; ok {
		c.Type = t
	}
	if c.Request == "" {
		c.Request = "launch"
	}
	switch {
	case c.Type.IsNodeLike():
		if c.Cwd == "" {
			c.Cwd = "${workspaceFolder}"
		}
	case c.Type.IsBrowser():
		if c.WebRoot == "" {
			c.WebRoot = "${workspaceFolder}"
		}
	}
}
