// Package vfs maps compiled virtual scripts back to the component files they
// were generated from. Single-file components are reported by bundlers as
// ids like webpack:///src/App.vue?4a1b, and WebAssembly hosts report managed
// sources as dotnet://App.dll/Pages/Index.razor. Neither names a real file,
// so the Mapper indexes component files under the workspace and matches ids
// to them by path suffix.
package vfs

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/philjestin/pathresolver/internal/resolver"
	"github.com/philjestin/pathresolver/internal/workspace"
)

// componentExts are the authored file types that compile to virtual scripts.
var componentExts = map[string]bool{".vue": true, ".razor": true, ".cshtml": true, ".cs": true}

// Mapper implements resolver.VirtualFileMapper over a workspace directory.
// The index is built on first use and is safe for concurrent lookups.
type Mapper struct {
	root string
	log  logrus.FieldLogger

	once   sync.Once
	byName map[string][]string // lower-cased base name -> slash paths relative to root

	offsets sync.Map // absolute path -> resolver.Offset
}

var _ resolver.VirtualFileMapper = (*Mapper)(nil)

func New(root string, log logrus.FieldLogger) *Mapper {
	return &Mapper{root: root, log: log.WithField("component", "vfs")}
}

// Len reports how many component files are indexed.
func (m *Mapper) Len() int {
	m.once.Do(m.index)
	n := 0
	for _, paths := range m.byName {
		n += len(paths)
	}
	return n
}

func (m *Mapper) MapVirtualScript(ctx context.Context, id string) (resolver.VirtualScript, bool) {
	rel := idPath(id)
	if rel == "" || !componentExts[strings.ToLower(filepath.Ext(rel))] {
		return resolver.VirtualScript{}, false
	}
	m.once.Do(m.index)
	if ctx.Err() != nil {
		return resolver.VirtualScript{}, false
	}

	match := m.lookup(rel)
	if match == "" {
		m.log.WithField("id", id).Debug("no component file for virtual script")
		return resolver.VirtualScript{}, false
	}
	abs := filepath.Join(m.root, filepath.FromSlash(match))
	return resolver.VirtualScript{Path: abs, Offset: m.offset(ctx, abs)}, true
}

// lookup returns the indexed file sharing the longest path suffix with rel.
// Ties go to the shallowest file.
func (m *Mapper) lookup(rel string) string {
	segs := strings.Split(strings.ToLower(rel), "/")
	cands := m.byName[segs[len(segs)-1]]
	if len(cands) == 0 {
		return ""
	}
	best, bestLen := "", 0
	for _, c := range cands {
		n := commonSuffix(strings.Split(strings.ToLower(c), "/"), segs)
		if n > bestLen || (n == bestLen && depth(c) < depth(best)) {
			best, bestLen = c, n
		}
	}
	return best
}

func (m *Mapper) offset(ctx context.Context, abs string) resolver.Offset {
	if v, ok := m.offsets.Load(abs); ok {
		return v.(resolver.Offset)
	}
	var off resolver.Offset
	if strings.EqualFold(filepath.Ext(abs), ".vue") {
		data, err := os.ReadFile(abs)
		if err != nil {
			m.log.WithError(err).WithField("path", abs).Warn("read component")
		} else if o, ok, err := ScriptOffset(ctx, data); err != nil {
			m.log.WithError(err).WithField("path", abs).Warn("parse component")
		} else if ok {
			off = o
		}
	}
	m.offsets.Store(abs, off)
	return off
}

func (m *Mapper) index() {
	m.byName = map[string][]string{}
	if m.root == "" {
		return
	}
	filepath.WalkDir(m.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != m.root && workspace.Skip(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !componentExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		rel, err := filepath.Rel(m.root, path)
		if err != nil {
			return nil
		}
		key := strings.ToLower(d.Name())
		m.byName[key] = append(m.byName[key], filepath.ToSlash(rel))
		return nil
	})
	files := 0
	for _, paths := range m.byName {
		sort.Strings(paths)
		files += len(paths)
	}
	m.log.WithFields(logrus.Fields{"root": m.root, "files": files}).Debug("indexed component files")
}

// idPath strips the scheme, query and any leading "./" from a virtual script
// id. For dotnet:// ids the assembly name is dropped too.
func idPath(id string) string {
	s, _, _ := strings.Cut(id, "?")
	s, _, _ = strings.Cut(s, "#")
	dotnet := false
	if i := strings.Index(s, "://"); i > 0 {
		dotnet = strings.EqualFold(s[:i], "dotnet")
		s = s[i+3:]
	}
	s = strings.ReplaceAll(s, `\`, "/")
	if dotnet {
		if _, rest, ok := strings.Cut(s, "/"); ok {
			s = rest
		} else {
			return ""
		}
	}
	// C:/src/app/x.razor
	if len(s) > 2 && s[1] == ':' && s[2] == '/' {
		s = s[3:]
	}
	for {
		switch {
		case strings.HasPrefix(s, "./"):
			s = s[2:]
		case strings.HasPrefix(s, "/"):
			s = s[1:]
		default:
			return s
		}
	}
}

func commonSuffix(a, b []string) int {
	n := 0
	for i, j := len(a)-1, len(b)-1; i >= 0 && j >= 0 && a[i] == b[j]; i, j = i-1, j-1 {
		n++
	}
	return n
}

func depth(p string) int { return strings.Count(p, "/") }
