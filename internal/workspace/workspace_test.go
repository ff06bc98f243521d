package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-dap"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philjestin/pathresolver/internal/fsutil"
	"github.com/philjestin/pathresolver/internal/launch"
	"github.com/philjestin/pathresolver/internal/resolver"
)

func write(t *testing.T, path string, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newResolver(cfg *launch.Config) resolver.Resolver {
	log, _ := test.NewNullLogger()
	return resolver.NewFactory(dap.InitializeRequestArguments{}, log, nil, fsutil.New()).Create(cfg)
}

func TestMapAll_Browser(t *testing.T) {
	dir := t.TempDir()
	app := write(t, filepath.Join(dir, "public", "app.js"), "")
	main := write(t, filepath.Join(dir, "src", "main.ts"), "")
	write(t, filepath.Join(dir, "src", "styles.css"), "")
	write(t, filepath.Join(dir, "node_modules", "lib", "index.js"), "")
	write(t, filepath.Join(dir, ".cache", "x.js"), "")

	r := newResolver(&launch.Config{
		Type:                      launch.Chrome,
		URL:                       "http://localhost:8080/",
		WebRoot:                   dir,
		PathMapping:               launch.Pairs{{Key: "/assets", Value: filepath.Join(dir, "public")}},
		ResolveSourceMapLocations: []string{filepath.ToSlash(dir) + "/src/**"},
	})

	got, err := MapAll(context.Background(), dir, r)
	require.NoError(t, err)

	want := []Entry{
		{Path: app, Remote: "http://localhost:8080/assets/app.js", Eligible: false, RoundTrip: true},
		{Path: main, Remote: "http://localhost:8080/src/main.ts", Eligible: true, RoundTrip: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("MapAll mismatch (-want +got):\n%s", diff)
	}
}

func TestMapAll_NodeRemoteRoot(t *testing.T) {
	dir := t.TempDir()
	idx := write(t, filepath.Join(dir, "index.js"), "")

	r := newResolver(&launch.Config{Type: launch.Node, Cwd: dir, RemoteRoot: "/app", LocalRoot: dir})
	got, err := MapAll(context.Background(), dir, r)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Entry{Path: idx, Remote: "/app/index.js", Eligible: true, RoundTrip: true}, got[0])
}

func TestMapAll_Canceled(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "a.js"), "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := MapAll(ctx, dir, newResolver(&launch.Config{Type: launch.Node, Cwd: dir}))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSkip(t *testing.T) {
	for _, name := range []string{".git", "node_modules", "dist", "build", "obj", "bin"} {
		assert.True(t, Skip(name), name)
	}
	assert.False(t, Skip("src"))
}
