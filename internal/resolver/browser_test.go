package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/philjestin/pathresolver/internal/launch"
)

func newBrowser(t *testing.T, fs FsUtils, vfs VirtualFileMapper, cfg *launch.Config) *BrowserResolver {
	t.Helper()
	log, _ := nullLogger()
	cfg.Type = launch.Chrome
	return NewBrowserResolver(vfs, fs, Build(VariantBrowser, cfg, "vscode").(BrowserOptions), log)
}

func TestBrowserResolver_Example(t *testing.T) {
	ctx := context.Background()
	r := newBrowser(t, newFakeFS(), nil, &launch.Config{
		WebRoot:     "/ws",
		PathMapping: launch.Pairs{{Key: "/assets", Value: "/ws/public"}},
	})

	assert.Equal(t, launch.Pairs{{Key: "/", Value: "/ws"}, {Key: "/assets", Value: "/ws/public"}}, r.Options().PathMapping.Entries())

	got, ok := r.ToLocalSource(ctx, "/assets/app.js")
	assert.True(t, ok)
	assert.Equal(t, "/ws/public/app.js", got)

	got, ok = r.ToLocalSource(ctx, "/other.js")
	assert.True(t, ok)
	assert.Equal(t, "/ws/other.js", got)
}

func TestBrowserResolver_RoundTrip(t *testing.T) {
	ctx := context.Background()
	r := newBrowser(t, newFakeFS(), nil, &launch.Config{
		WebRoot:     "/ws",
		PathMapping: launch.Pairs{{Key: "/assets", Value: "/ws/public"}},
	})

	for _, u := range []string{"/assets/app.js", "/other.js", "/deep/dir/file%20name.js", "/"} {
		local, ok := r.ToLocalSource(ctx, u)
		assert.True(t, ok, u)
		assert.Equal(t, u, r.ToRemote(ctx, local), u)
	}
	for _, p := range []string{"/ws/public/app.js", "/ws/src/main.js"} {
		back, ok := r.ToLocalSource(ctx, r.ToRemote(ctx, p))
		assert.True(t, ok, p)
		assert.Equal(t, p, back)
	}
}

func TestBrowserResolver_BaseURL(t *testing.T) {
	ctx := context.Background()
	r := newBrowser(t, newFakeFS(), nil, &launch.Config{
		URL:         "http://localhost:8080/index.html",
		WebRoot:     "/ws",
		PathMapping: launch.Pairs{{Key: "/assets", Value: "/ws/public"}},
	})

	local, ok := r.ToLocalSource(ctx, "http://localhost:8080/assets/app.js?v=3#top")
	assert.True(t, ok)
	assert.Equal(t, "/ws/public/app.js", local)
	assert.Equal(t, "http://localhost:8080/assets/app.js", r.ToRemote(ctx, local))

	// other origins are not part of the workspace
	_, ok = r.ToLocalSource(ctx, "https://cdn.example.com/assets/app.js")
	assert.False(t, ok)
}

func TestBrowserResolver_NoBaseURLMapsAnyHTTPOrigin(t *testing.T) {
	r := newBrowser(t, newFakeFS(), nil, &launch.Config{WebRoot: "/ws"})
	got, ok := r.ToLocalSource(context.Background(), "https://example.com/js/app.js")
	assert.True(t, ok)
	assert.Equal(t, "/ws/js/app.js", got)
}

func TestBrowserResolver_UnmappedLocalBecomesFileURL(t *testing.T) {
	r := newBrowser(t, newFakeFS(), nil, &launch.Config{WebRoot: "/ws"})
	assert.Equal(t, "file:///elsewhere/x.js", r.ToRemote(context.Background(), "/elsewhere/x.js"))

	got, ok := r.ToLocalSource(context.Background(), "file:///elsewhere/x.js")
	assert.True(t, ok)
	assert.Equal(t, "/elsewhere/x.js", got)
}

func TestBrowserResolver_ExistingLocalPathIsIdempotent(t *testing.T) {
	ctx := context.Background()
	r := newBrowser(t, newFakeFS("/ws/src/main.js"), nil, &launch.Config{WebRoot: "/ws"})

	got, ok := r.ToLocalSource(ctx, "/ws/src/main.js")
	assert.True(t, ok)
	assert.Equal(t, "/ws/src/main.js", got)
}

func TestBrowserResolver_Unresolved(t *testing.T) {
	ctx := context.Background()
	r := newBrowser(t, newFakeFS(), nil, &launch.Config{WebRoot: "/ws"})
	for _, in := range []string{"webpack:///src/a.ts", "relative/path.js", "chrome-extension://abc/x.js"} {
		_, ok := r.ToLocalSource(ctx, in)
		assert.False(t, ok, in)
	}
}

func TestBrowserResolver_VirtualComponentScripts(t *testing.T) {
	ctx := context.Background()
	vfs := fakeVFS{"webpack:///src/App.vue?4a1b": {Path: "/ws/src/App.vue", Offset: Offset{Line: 12}}}
	r := newBrowser(t, newFakeFS(), vfs, &launch.Config{
		WebRoot:                "/ws",
		SourceMapPathOverrides: launch.Pairs{{Key: "webpack:///./*", Value: "/ws/*"}},
	})

	got, ok := r.ToLocalSource(ctx, "webpack:///src/App.vue?4a1b")
	assert.True(t, ok)
	assert.Equal(t, "/ws/src/App.vue", got)

	// a miss falls back to generic mapping, which cannot place webpack:// ids
	_, ok = r.ToLocalSource(ctx, "webpack:///src/Other.vue?ffff")
	assert.False(t, ok)

	// authored .vue sources go through overrides, not the mapper
	got, ok = r.ToLocalSource(ctx, "webpack:///./src/App.vue")
	assert.True(t, ok)
	assert.Equal(t, "/ws/src/App.vue", got)
}

func TestIsVirtualComponentScript(t *testing.T) {
	assert.True(t, isVirtualComponentScript("webpack:///src/App.vue?4a1b"))
	assert.True(t, isVirtualComponentScript("webpack:///src/App.VUE?x"))
	assert.False(t, isVirtualComponentScript("webpack:///src/App.vue"))
	assert.False(t, isVirtualComponentScript("webpack:///src/App.vue?"))
	assert.False(t, isVirtualComponentScript("webpack:///src/app.js?x"))
}

func TestBrowserResolver_LocalPathIdempotentOnlyWhenPresent(t *testing.T) {
	ctx := context.Background()
	r := newBrowser(t, newFakeFS("/ws/src/a.js"), nil, &launch.Config{WebRoot: "/ws"})

	got, ok := r.ToLocalSource(ctx, "/ws/src/a.js")
	assert.True(t, ok)
	assert.Equal(t, "/ws/src/a.js", got)

	// a missing file is read as a URL path under the web root
	got, ok = r.ToLocalSource(ctx, "/ws/src/b.js")
	assert.True(t, ok)
	assert.Equal(t, "/ws/ws/src/b.js", got)
}
