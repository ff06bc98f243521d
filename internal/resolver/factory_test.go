package resolver

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-dap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philjestin/pathresolver/internal/launch"
)

func newTestFactory(clientID string) *Factory {
	log, _ := nullLogger()
	return NewFactory(dap.InitializeRequestArguments{ClientID: clientID, AdapterID: "pwa-chrome"}, log, fakeVFS{}, newFakeFS())
}

func TestFactory_CreatesVariant(t *testing.T) {
	f := newTestFactory("vscode")

	cases := []struct {
		cfg  launch.Config
		want Variant
	}{
		{launch.Config{Type: launch.Node, Cwd: "/ws"}, VariantNode},
		{launch.Config{Type: launch.Terminal, Cwd: "/ws"}, VariantNode},
		{launch.Config{Type: launch.Chrome, WebRoot: "/ws"}, VariantBrowser},
		{launch.Config{Type: launch.Edge, WebRoot: "/ws", InspectURI: "ws://x/proxy"}, VariantBlazor},
	}
	for _, c := range cases {
		r := f.Create(&c.cfg)
		assert.Equal(t, c.want, r.Variant(), "%s", c.cfg.Type)
	}
}

func TestFactory_PassesClientID(t *testing.T) {
	r := newTestFactory("visualstudio").Create(&launch.Config{Type: launch.Chrome, WebRoot: "/ws", InspectURI: "ws://x"})
	blazor, ok := r.(*BlazorResolver)
	require.True(t, ok)
	assert.Equal(t, "visualstudio", blazor.Options().ClientID)
}

func TestFactory_NodeIgnoresBrowserFields(t *testing.T) {
	r := newTestFactory("vscode").Create(&launch.Config{
		Type:        launch.Node,
		Cwd:         "/ws",
		WebRoot:     "/ws/public",
		PathMapping: launch.Pairs{{Key: "/x", Value: "/y"}},
		RemoteRoot:  "/app",
		LocalRoot:   "/ws",
	})
	node, ok := r.(*NodeResolver)
	require.True(t, ok)
	assert.Equal(t, NodeOptions{BasePath: "/ws", RemoteRoot: "/app", LocalRoot: "/ws"}, node.Options())
}

func TestFactory_ConfigMutationAfterCreate(t *testing.T) {
	cfg := &launch.Config{
		Type:                   launch.Chrome,
		WebRoot:                "/ws",
		SourceMapPathOverrides: launch.Pairs{{Key: "webpack:///*", Value: "/ws/*"}},
	}
	r := newTestFactory("vscode").Create(cfg)
	cfg.SourceMapPathOverrides[0].Value = "/elsewhere/*"
	cfg.WebRoot = "/other"

	got, ok := r.ToLocalSource(context.Background(), "webpack:///src/a.js")
	assert.True(t, ok)
	assert.Equal(t, "/ws/src/a.js", got)
}

func TestFactory_ConcurrentLookups(t *testing.T) {
	r := newTestFactory("vscode").Create(&launch.Config{
		Type:        launch.Chrome,
		URL:         "http://localhost:3000",
		WebRoot:     "/ws",
		PathMapping: launch.Pairs{{Key: "/assets", Value: "/ws/public"}},
	})
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			url := fmt.Sprintf("http://localhost:3000/assets/chunk-%d.js", i)
			local, ok := r.ToLocalSource(ctx, url)
			if !ok {
				errs <- fmt.Errorf("%s: unresolved", url)
				return
			}
			if back := r.ToRemote(ctx, local); back != url {
				errs <- fmt.Errorf("%s: round trip gave %s", url, back)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
