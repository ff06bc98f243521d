package vfs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

const appVue = `<template>
  <div id="app"></div>
</template>

<script>
export default { name: "App" }
</script>
`

func newMapper(root string) *Mapper {
	log, _ := test.NewNullLogger()
	return New(root, log)
}

func TestMapVirtualScript_Vue(t *testing.T) {
	dir := t.TempDir()
	app := write(t, filepath.Join(dir, "src", "App.vue"), appVue)
	write(t, filepath.Join(dir, "node_modules", "lib", "src", "App.vue"), appVue)

	m := newMapper(dir)
	vs, ok := m.MapVirtualScript(context.Background(), "webpack:///src/App.vue?4a1b")
	require.True(t, ok)
	assert.Equal(t, app, vs.Path)
	assert.Equal(t, resolver.Offset{Line: 4, Column: 8}, vs.Offset)
	assert.Equal(t, 1, m.Len())
}

func TestMapVirtualScript_LongestSuffixWins(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "Button.vue"), appVue)
	nested := write(t, filepath.Join(dir, "src", "components", "Button.vue"), appVue)
	other := write(t, filepath.Join(dir, "src", "legacy", "Button.vue"), appVue)

	m := newMapper(dir)
	ctx := context.Background()

	vs, ok := m.MapVirtualScript(ctx, "webpack:///./src/components/Button.vue?abc")
	require.True(t, ok)
	assert.Equal(t, nested, vs.Path)

	vs, ok = m.MapVirtualScript(ctx, "webpack:///legacy/button.vue?abc")
	require.True(t, ok)
	assert.Equal(t, other, vs.Path)

	// no directory agrees: the shallowest candidate
	vs, ok = m.MapVirtualScript(ctx, "webpack:///elsewhere/Button.vue?abc")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "Button.vue"), vs.Path)
}

func TestMapVirtualScript_Dotnet(t *testing.T) {
	dir := t.TempDir()
	index := write(t, filepath.Join(dir, "Pages", "Index.razor"), "<h1>Hello</h1>\n@code { }\n")

	m := newMapper(dir)
	vs, ok := m.MapVirtualScript(context.Background(), `dotnet://App.dll/C:\build\App\Pages\Index.razor`)
	require.True(t, ok)
	assert.Equal(t, index, vs.Path)
	assert.Equal(t, resolver.Offset{}, vs.Offset)
}

func TestMapVirtualScript_Misses(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "src", "App.vue"), appVue)
	m := newMapper(dir)
	ctx := context.Background()

	for _, id := range []string{"webpack:///src/main.js", "webpack:///src/Missing.vue?1", "dotnet://App.dll", ""} {
		_, ok := m.MapVirtualScript(ctx, id)
		assert.False(t, ok, id)
	}
}

func TestIDPath(t *testing.T) {
	cases := map[string]string{
		"webpack:///src/App.vue?4a1b":           "src/App.vue",
		"webpack:///./src/App.vue":              "src/App.vue",
		"/src/App.vue#x":                        "src/App.vue",
		"dotnet://App.dll/Pages/Index.razor":    "Pages/Index.razor",
		`dotnet://App.dll/C:\src\Pages\X.razor`: "src/Pages/X.razor",
		"dotnet://App.dll":                      "",
	}
	for in, want := range cases {
		assert.Equal(t, want, idPath(in), in)
	}
}

func TestScriptOffset(t *testing.T) {
	ctx := context.Background()

	off, ok, err := ScriptOffset(ctx, []byte(appVue))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, resolver.Offset{Line: 4, Column: 8}, off)

	_, ok, err = ScriptOffset(ctx, []byte("<template><p>no script</p></template>\n"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIndexSkipsWorkspaceJunk(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "Pages", "Index.razor"), "<h1/>\n")
	for _, junk := range []string{".git", "node_modules", "dist", "build", "bin", "obj"} {
		write(t, filepath.Join(dir, junk, "Pages", "Index.razor"), "<h1/>\n")
	}
	assert.Equal(t, 1, newMapper(dir).Len())
}
