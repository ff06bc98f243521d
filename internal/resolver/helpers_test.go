package resolver

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type fakeFS struct {
	files       map[string]bool
	insensitive bool
}

func newFakeFS(files ...string) *fakeFS {
	f := &fakeFS{files: map[string]bool{}}
	for _, p := range files {
		f.files[p] = true
	}
	return f
}

func (f *fakeFS) Exists(_ context.Context, p string) bool         { return f.files[p] }
func (f *fakeFS) NormalizeCase(_ context.Context, p string) string { return p }
func (f *fakeFS) CaseSensitive() bool                              { return !f.insensitive }

type fakeVFS map[string]VirtualScript

func (m fakeVFS) MapVirtualScript(_ context.Context, id string) (VirtualScript, bool) {
	vs, ok := m[id]
	return vs, ok
}

func nullLogger() (*logrus.Logger, *test.Hook) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.TraceLevel)
	return log, hook
}
