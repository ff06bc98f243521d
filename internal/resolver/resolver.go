// Package resolver translates between locations reported by a debug target
// and files in the local workspace.
//
// A Factory classifies a launch configuration into one of three variants
// (Node, Browser, Blazor), builds that variant's options and constructs the
// matching Resolver. Resolvers are immutable once built and safe for
// concurrent use; a configuration change is handled by building a new one.
package resolver

import "context"

// Resolver maps between target addresses (URLs, remote paths, script ids)
// and local file paths. Lookups never fail with an error: an unmapped input
// is reported through the boolean result.
type Resolver interface {
	// ToLocalSource maps a URL or target path to a local file path.
	ToLocalSource(ctx context.Context, urlOrPath string) (string, bool)
	// ToRemote maps a local file path to the address the target uses for it.
	ToRemote(ctx context.Context, localPath string) string
	// IsEligibleForSourceMap reports whether source maps may be consulted for
	// a compiled file at localPath.
	IsEligibleForSourceMap(ctx context.Context, localPath string) bool
	Variant() Variant
}

// FsUtils is the filesystem collaborator. Both calls may block.
type FsUtils interface {
	Exists(ctx context.Context, path string) bool
	NormalizeCase(ctx context.Context, path string) string
	CaseSensitive() bool
}

// Offset locates generated code inside an authored file.
type Offset struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// VirtualScript is an authored file backing a compiled virtual script.
type VirtualScript struct {
	Path   string `json:"path"`
	Offset Offset `json:"offset"`
}

// VirtualFileMapper maps compiled virtual script ids (single-file components,
// WebAssembly module scripts) back to their authored files.
type VirtualFileMapper interface {
	MapVirtualScript(ctx context.Context, id string) (VirtualScript, bool)
}
