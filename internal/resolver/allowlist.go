package resolver

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"
)

// allowList decides source map eligibility from resolveSourceMapLocations.
// A path is eligible when it matches any positive glob and no "!" glob. A
// nil allowList (no patterns configured) allows everything.
type allowList struct {
	include         []string
	exclude         []string
	caseInsensitive bool
}

func newAllowList(patterns []string, caseInsensitive bool, log logrus.FieldLogger) *allowList {
	if len(patterns) == 0 {
		return nil
	}
	a := &allowList{caseInsensitive: caseInsensitive}
	for _, p := range patterns {
		negated := strings.HasPrefix(p, "!")
		p = a.normalize(strings.TrimPrefix(p, "!"))
		if !doublestar.ValidatePattern(p) {
			log.WithField("pattern", p).Warn("ignoring invalid resolveSourceMapLocations glob")
			continue
		}
		if negated {
			a.exclude = append(a.exclude, p)
		} else {
			a.include = append(a.include, p)
		}
	}
	if len(a.include) == 0 {
		a.include = []string{"**"}
	}
	return a
}

func (a *allowList) normalize(s string) string {
	s = filepath.ToSlash(s)
	if a.caseInsensitive {
		s = strings.ToLower(s)
	}
	return s
}

func (a *allowList) allows(path string) bool {
	if a == nil {
		return true
	}
	if isFileURL(path) {
		if p, ok := fileURLToPath(path); ok {
			path = p
		}
	}
	path = a.normalize(path)
	for _, p := range a.exclude {
		if ok, _ := doublestar.Match(p, path); ok {
			return false
		}
	}
	for _, p := range a.include {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}
