package resolver

import (
	"fmt"

	"github.com/philjestin/pathresolver/internal/launch"
)

// Variant is the closed set of resolver kinds.
type Variant int

const (
	VariantNode Variant = iota + 1
	VariantBrowser
	VariantBlazor
)

func (v Variant) String() string {
	switch v {
	case VariantNode:
		return "node"
	case VariantBrowser:
		return "browser"
	case VariantBlazor:
		return "blazor"
	default:
		return "unknown"
	}
}

func (v Variant) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// Classify picks the resolver variant for a configuration:
//
//  1. node-like types (pwa-node, node-terminal, pwa-extensionHost) -> Node
//  2. otherwise a non-empty inspectUri -> Blazor
//  3. otherwise -> Browser
//
// Configurations are validated when loaded, so an unknown type here is a
// programming error and panics.
func Classify(cfg *launch.Config) Variant {
	switch {
	case cfg.Type.IsNodeLike():
		return VariantNode
	case cfg.Type.IsBrowser() && cfg.InspectURI != "":
		return VariantBlazor
	case cfg.Type.IsBrowser():
		return VariantBrowser
	}
	panic(fmt.Sprintf("resolver: unclassifiable launch type %q", cfg.Type))
}
