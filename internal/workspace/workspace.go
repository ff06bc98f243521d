// Package workspace reports how every source file in a workspace maps to the
// debug target.
package workspace

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/philjestin/pathresolver/internal/resolver"
)

// Entry is the mapping of one local file.
type Entry struct {
	Path     string `json:"path"`
	Remote   string `json:"remote"`
	Eligible bool   `json:"eligible"`
	// RoundTrip is true when the remote address maps back to Path.
	RoundTrip bool `json:"roundTrip"`
}

var sourceExts = map[string]bool{
	".js": true, ".mjs": true, ".cjs": true, ".jsx": true,
	".ts": true, ".mts": true, ".cts": true, ".tsx": true,
	".vue": true, ".svelte": true,
	".razor": true, ".cshtml": true, ".cs": true,
}

func isSource(path string) bool {
	return sourceExts[strings.ToLower(filepath.Ext(path))]
}

// Skip reports whether a directory is never part of the mapped sources.
func Skip(name string) bool {
	return strings.HasPrefix(name, ".") || name == "node_modules" || name == "dist" || name == "build" || name == "bin" || name == "obj"
}

// MapAll walks root and maps every source file through r concurrently.
// Entries are sorted by path. A canceled ctx returns what was mapped so far
// along with ctx.Err().
func MapAll(ctx context.Context, root string, r resolver.Resolver) ([]Entry, error) {
	files := make(chan string, 1024)
	results := make(chan Entry, 1024)

	// Producer
	go func() {
		defer close(files)
		filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if ctx.Err() != nil {
				return filepath.SkipAll
			}
			if d.IsDir() {
				if path != root && Skip(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if isSource(path) {
				select {
				case files <- path:
				case <-ctx.Done():
					return filepath.SkipAll
				}
			}
			return nil
		})
	}()

	// workers
	var wg sync.WaitGroup
	workers := runtime.NumCPU()
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for path := range files {
				results <- mapOne(ctx, r, path)
			}
		}()
	}

	// Closer
	go func() {
		wg.Wait()
		close(results)
	}()

	var out []Entry
	for e := range results {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, ctx.Err()
}

func mapOne(ctx context.Context, r resolver.Resolver, path string) Entry {
	e := Entry{Path: path, Remote: r.ToRemote(ctx, path), Eligible: r.IsEligibleForSourceMap(ctx, path)}
	if back, ok := r.ToLocalSource(ctx, e.Remote); ok {
		e.RoundTrip = back == path
	}
	return e
}
