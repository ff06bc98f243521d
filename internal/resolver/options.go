package resolver

import (
	"fmt"

	"github.com/philjestin/pathresolver/internal/launch"
)

// Options is the variant-specific configuration a resolver is built from.
// It is a sealed union of NodeOptions and BrowserOptions.
type Options interface {
	isOptions()
}

// NodeOptions configure a NodeResolver. Node targets address scripts by
// filesystem path, so there is no base URL.
type NodeOptions struct {
	ResolveSourceMapLocations []string     `json:"resolveSourceMapLocations"`
	BasePath                  string       `json:"basePath"`
	SourceMapOverrides        launch.Pairs `json:"sourceMapOverrides"`
	RemoteRoot                string       `json:"remoteRoot,omitempty"`
	LocalRoot                 string       `json:"localRoot,omitempty"`
}

// BrowserOptions configure Browser and Blazor resolvers. They never carry
// remote/local roots: browser targets only use URL-to-path mapping.
type BrowserOptions struct {
	ResolveSourceMapLocations []string     `json:"resolveSourceMapLocations"`
	BaseURL                   string       `json:"baseUrl,omitempty"`
	PathMapping               PathMapping  `json:"pathMapping"`
	SourceMapOverrides        launch.Pairs `json:"sourceMapOverrides"`
	ClientID                  string       `json:"clientID,omitempty"`
	RemoteFilePrefix          string       `json:"remoteFilePrefix,omitempty"`
}

func (NodeOptions) isOptions()    {}
func (BrowserOptions) isOptions() {}

// Build assembles the options for variant v from cfg. clientID identifies
// the front-end that initialized the session.
func Build(v Variant, cfg *launch.Config, clientID string) Options {
	switch v {
	case VariantNode:
		return NodeOptions{
			ResolveSourceMapLocations: cloneStrings(cfg.ResolveSourceMapLocations),
			BasePath:                  cfg.Cwd,
			SourceMapOverrides:        clonePairs(cfg.SourceMapPathOverrides),
			RemoteRoot:                cfg.RemoteRoot,
			LocalRoot:                 cfg.LocalRoot,
		}
	case VariantBrowser, VariantBlazor:
		return BrowserOptions{
			ResolveSourceMapLocations: cloneStrings(cfg.ResolveSourceMapLocations),
			BaseURL:                   launch.BaseURL(cfg),
			PathMapping:               NewPathMapping(cfg.WebRoot, cfg.PathMapping),
			SourceMapOverrides:        clonePairs(cfg.SourceMapPathOverrides),
			ClientID:                  clientID,
			RemoteFilePrefix:          cfg.RemoteFilePrefix,
		}
	}
	panic(fmt.Sprintf("resolver: no options for variant %d", int(v)))
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func clonePairs(in launch.Pairs) launch.Pairs {
	if in == nil {
		return nil
	}
	return append(launch.Pairs(nil), in...)
}
