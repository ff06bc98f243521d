package resolver

import (
	"context"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// NodeResolver maps scripts of Node-like targets. They report filesystem
// paths, possibly rooted at a different directory on a remote host.
type NodeResolver struct {
	base
	opts NodeOptions
}

func NewNodeResolver(fs FsUtils, opts NodeOptions, log logrus.FieldLogger) *NodeResolver {
	return &NodeResolver{
		base: newBase(fs, log, VariantNode, opts.SourceMapOverrides, opts.ResolveSourceMapLocations),
		opts: opts,
	}
}

func (r *NodeResolver) Variant() Variant { return VariantNode }

func (r *NodeResolver) Options() NodeOptions { return r.opts }

func (r *NodeResolver) rebasing() bool { return r.opts.RemoteRoot != "" && r.opts.LocalRoot != "" }

// remoteCaseInsensitive reports whether the remote root should be compared
// without case, which is the case for Windows hosts.
func (r *NodeResolver) remoteCaseInsensitive() bool { return isWindowsPath(r.opts.RemoteRoot) }

func (r *NodeResolver) ToLocalSource(ctx context.Context, urlOrPath string) (string, bool) {
	p, _ := r.rewrite(urlOrPath)
	if isFileURL(p) {
		fp, ok := fileURLToPath(p)
		if !ok {
			return r.unresolved(urlOrPath)
		}
		p = fp
	}

	if r.rebasing() {
		if rest, ok := cutPathPrefix(p, r.opts.RemoteRoot, r.remoteCaseInsensitive()); ok {
			return r.fs.NormalizeCase(ctx, joinLocal(r.opts.LocalRoot, rest)), true
		}
	}

	switch {
	case filepath.IsAbs(p):
		return p, true
	case hasScheme(p) || isWindowsPath(p):
		// node:internal/..., webpack://..., or a Windows path we cannot rebase.
		return r.unresolved(urlOrPath)
	case p != "" && r.opts.BasePath != "":
		cand := filepath.Join(r.opts.BasePath, filepath.FromSlash(p))
		if r.fs.Exists(ctx, cand) {
			return cand, true
		}
	}
	return r.unresolved(urlOrPath)
}

func (r *NodeResolver) ToRemote(ctx context.Context, localPath string) string {
	p, _ := r.rewrite(localPath)
	if isFileURL(p) {
		if fp, ok := fileURLToPath(p); ok {
			p = fp
		}
	}
	if r.rebasing() {
		if rest, ok := cutPathPrefix(p, r.opts.LocalRoot, !r.fs.CaseSensitive()); ok {
			return joinRemote(r.opts.RemoteRoot, rest)
		}
	}
	return p
}
