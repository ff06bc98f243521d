package resolver

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// urlMapper is the URL <-> path half shared by the Browser and Blazor
// resolvers.
type urlMapper struct {
	base
	opts BrowserOptions
	vfs  VirtualFileMapper
}

func newURLMapper(vfs VirtualFileMapper, fs FsUtils, opts BrowserOptions, v Variant, log logrus.FieldLogger) urlMapper {
	return urlMapper{
		base: newBase(fs, log, v, opts.SourceMapOverrides, opts.ResolveSourceMapLocations),
		opts: opts,
		vfs:  vfs,
	}
}

func (m urlMapper) Options() BrowserOptions { return m.opts }

// componentScript resolves the compiled script of a single-file component
// through the virtual file mapper.
func (m urlMapper) componentScript(ctx context.Context, id string) (string, bool) {
	if m.vfs == nil || !isVirtualComponentScript(id) {
		return "", false
	}
	vs, ok := m.vfs.MapVirtualScript(ctx, id)
	return vs.Path, ok
}

// mapURL maps an already rewritten input through the path mapping.
func (m urlMapper) mapURL(ctx context.Context, input string) (string, bool) {
	if isFileURL(input) {
		if p, ok := fileURLToPath(input); ok {
			return m.fs.NormalizeCase(ctx, p), true
		}
		return m.unresolved(input)
	}
	if m.isLocalFile(ctx, input) {
		return input, true
	}

	target := input
	if hasScheme(input) {
		if !m.sameOrigin(input) {
			return m.unresolved(input)
		}
	} else if !strings.HasPrefix(input, "/") {
		return m.unresolved(input)
	}

	full, urlPath, ok := splitURL(target)
	if !ok {
		return m.unresolved(input)
	}
	_, dir, rest, ok := m.opts.PathMapping.Lookup(full, urlPath)
	if !ok {
		return m.unresolved(input)
	}
	return m.fs.NormalizeCase(ctx, joinLocal(dir, rest)), true
}

// sameOrigin reports whether an absolute URL can be mapped: it must share
// the base URL's origin, or use http(s) when there is no base URL. Path
// mapping keys that carry a scheme are always candidates.
func (m urlMapper) sameOrigin(u string) bool {
	for _, kv := range m.opts.PathMapping.Entries() {
		if hasScheme(kv.Key) && hasPrefixFold(u, kv.Key) {
			return true
		}
	}
	if m.opts.BaseURL != "" {
		return hasPrefixFold(u, m.opts.BaseURL)
	}
	return hasPrefixFold(u, "http://") || hasPrefixFold(u, "https://")
}

// isLocalFile treats a slash-rooted input as a local path when it already
// lies inside a mapped directory and exists on disk, which keeps lookups
// idempotent for inputs that were resolved before.
func (m urlMapper) isLocalFile(ctx context.Context, input string) bool {
	if !filepath.IsAbs(input) {
		return false
	}
	if _, _, ok := m.opts.PathMapping.Reverse(input, !m.fs.CaseSensitive()); !ok {
		return false
	}
	return m.fs.Exists(ctx, input)
}

// toURL maps a local path back through the path mapping. Paths outside
// every mapped directory become file URLs.
func (m urlMapper) toURL(localPath string) string {
	p := localPath
	if isFileURL(p) {
		return p
	}
	key, rest, ok := m.opts.PathMapping.Reverse(p, !m.fs.CaseSensitive())
	if !ok {
		return pathToFileURL(p)
	}
	u := joinURLPath(key, rest)
	if m.opts.BaseURL != "" && !hasScheme(key) {
		return strings.TrimSuffix(m.opts.BaseURL, "/") + u
	}
	return u
}

// BrowserResolver maps scripts served to a browser page.
type BrowserResolver struct {
	urlMapper
}

func NewBrowserResolver(vfs VirtualFileMapper, fs FsUtils, opts BrowserOptions, log logrus.FieldLogger) *BrowserResolver {
	return &BrowserResolver{urlMapper: newURLMapper(vfs, fs, opts, VariantBrowser, log)}
}

func (r *BrowserResolver) Variant() Variant { return VariantBrowser }

func (r *BrowserResolver) ToLocalSource(ctx context.Context, urlOrPath string) (string, bool) {
	p, changed := r.rewrite(urlOrPath)
	if changed && isLocalPath(p) {
		return r.fs.NormalizeCase(ctx, p), true
	}
	if local, ok := r.componentScript(ctx, p); ok {
		return local, true
	}
	return r.mapURL(ctx, p)
}

func (r *BrowserResolver) ToRemote(_ context.Context, localPath string) string {
	p, _ := r.rewrite(localPath)
	return r.toURL(p)
}

// isVirtualComponentScript matches the compiled script of a single-file
// component, e.g. webpack:///src/App.vue?4a1b.
func isVirtualComponentScript(id string) bool {
	p, query, ok := strings.Cut(id, "?")
	return ok && query != "" && strings.HasSuffix(strings.ToLower(p), ".vue")
}
