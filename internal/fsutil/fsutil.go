// Package fsutil provides the filesystem checks that resolvers make on
// individual lookups.
package fsutil

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Local answers existence and case questions against the local disk.
type Local struct {
	caseSensitive bool
}

// New returns a Local whose case sensitivity follows the host platform.
func New() *Local {
	return &Local{caseSensitive: runtime.GOOS != "windows" && runtime.GOOS != "darwin"}
}

// NewWithCase returns a Local with explicit case sensitivity.
func NewWithCase(caseSensitive bool) *Local {
	return &Local{caseSensitive: caseSensitive}
}

func (l *Local) CaseSensitive() bool { return l.caseSensitive }

// Exists reports whether path names an existing file or directory.
func (l *Local) Exists(ctx context.Context, path string) bool {
	if path == "" || ctx.Err() != nil {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// NormalizeCase returns path with each component spelled the way it is on
// disk. On case-sensitive filesystems, and for paths that do not exist,
// path is returned unchanged.
func (l *Local) NormalizeCase(ctx context.Context, path string) string {
	if l.caseSensitive || path == "" || !filepath.IsAbs(path) {
		return path
	}
	clean := filepath.Clean(path)
	vol := filepath.VolumeName(clean)
	parts := strings.Split(strings.TrimPrefix(clean[len(vol):], string(filepath.Separator)), string(filepath.Separator))

	cur := vol + string(filepath.Separator)
	for _, part := range parts {
		if part == "" {
			continue
		}
		if ctx.Err() != nil {
			return path
		}
		entries, err := os.ReadDir(cur)
		if err != nil {
			return path
		}
		found := ""
		for _, e := range entries {
			if e.Name() == part {
				found = part
				break
			}
			if found == "" && strings.EqualFold(e.Name(), part) {
				found = e.Name()
			}
		}
		if found == "" {
			return path
		}
		cur = filepath.Join(cur, found)
	}
	return cur
}
