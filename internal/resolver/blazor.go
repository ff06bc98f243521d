package resolver

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	dotnetScheme = "dotnet://"

	// clientVisualStudio compares remote file paths without case: Visual
	// Studio hosts Blazor on Windows.
	clientVisualStudio = "visualstudio"
)

// managedSourceExts are the files a WebAssembly host reports by remote path.
var managedSourceExts = map[string]bool{".cs": true, ".razor": true, ".cshtml": true}

// BlazorResolver is a BrowserResolver for WebAssembly hosts. Besides page
// scripts it sees dotnet:// ids naming managed sources inside an assembly.
type BlazorResolver struct {
	urlMapper
}

func NewBlazorResolver(vfs VirtualFileMapper, fs FsUtils, opts BrowserOptions, log logrus.FieldLogger) *BlazorResolver {
	return &BlazorResolver{urlMapper: newURLMapper(vfs, fs, opts, VariantBlazor, log)}
}

func (r *BlazorResolver) Variant() Variant { return VariantBlazor }

func (r *BlazorResolver) ToLocalSource(ctx context.Context, urlOrPath string) (string, bool) {
	p, changed := r.rewrite(urlOrPath)
	if changed && isLocalPath(p) {
		return r.fs.NormalizeCase(ctx, p), true
	}
	if local, ok := r.componentScript(ctx, p); ok {
		return local, true
	}
	if hasPrefixFold(p, dotnetScheme) {
		if r.vfs != nil {
			if vs, ok := r.vfs.MapVirtualScript(ctx, p); ok {
				return vs.Path, true
			}
		}
		if local, ok := r.managedToLocal(ctx, p); ok {
			return local, true
		}
	} else if local, ok := r.remoteToLocal(ctx, p); ok {
		// managed sources as reported by ToRemote
		return local, true
	}
	return r.mapURL(ctx, p)
}

func (r *BlazorResolver) ToRemote(ctx context.Context, localPath string) string {
	p, _ := r.rewrite(localPath)
	if remote, ok := r.localToManaged(p); ok {
		return remote
	}
	return r.toURL(p)
}

func (r *BlazorResolver) caseInsensitive() bool {
	return r.opts.ClientID == clientVisualStudio || isWindowsPath(r.opts.RemoteFilePrefix)
}

// managedToLocal resolves dotnet://<assembly>/<remote path>. With a remote
// file prefix the path is re-rooted under the web root; otherwise it is
// used as is when it exists locally.
func (r *BlazorResolver) managedToLocal(ctx context.Context, id string) (string, bool) {
	_, remote, ok := strings.Cut(id[len(dotnetScheme):], "/")
	if !ok || remote == "" {
		return "", false
	}
	if u, err := url.PathUnescape(remote); err == nil {
		remote = u
	}
	if !isWindowsPath(remote) {
		remote = "/" + strings.TrimPrefix(remote, "/")
	}

	if r.opts.RemoteFilePrefix != "" {
		return r.underPrefix(ctx, remote)
	}
	local := filepath.FromSlash(remote)
	if filepath.IsAbs(local) && r.fs.Exists(ctx, local) {
		return r.fs.NormalizeCase(ctx, local), true
	}
	return "", false
}

// remoteToLocal resolves a bare remote path of a managed source, the form
// ToRemote produces for remote-prefixed hosts.
func (r *BlazorResolver) remoteToLocal(ctx context.Context, remote string) (string, bool) {
	if r.opts.RemoteFilePrefix == "" || !managedSourceExts[strings.ToLower(filepath.Ext(remote))] {
		return "", false
	}
	if !isWindowsPath(remote) && !strings.HasPrefix(remote, "/") {
		return "", false
	}
	return r.underPrefix(ctx, remote)
}

// underPrefix re-roots a remote path under RemoteFilePrefix onto the web root.
func (r *BlazorResolver) underPrefix(ctx context.Context, remote string) (string, bool) {
	root, ok := r.opts.PathMapping.Get("/")
	if !ok || root == "" {
		return "", false
	}
	rest, ok := cutPathPrefix(remote, r.opts.RemoteFilePrefix, r.caseInsensitive())
	if !ok {
		return "", false
	}
	return r.fs.NormalizeCase(ctx, joinLocal(root, rest)), true
}

// localToManaged is the inverse of managedToLocal for remote-prefixed hosts.
func (r *BlazorResolver) localToManaged(localPath string) (string, bool) {
	prefix := r.opts.RemoteFilePrefix
	if prefix == "" || !managedSourceExts[strings.ToLower(filepath.Ext(localPath))] {
		return "", false
	}
	root, ok := r.opts.PathMapping.Get("/")
	if !ok || root == "" {
		return "", false
	}
	rest, ok := cutPathPrefix(localPath, root, !r.fs.CaseSensitive())
	if !ok {
		return "", false
	}
	return joinRemote(prefix, rest), true
}
