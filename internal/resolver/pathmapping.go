package resolver

import (
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/philjestin/pathresolver/internal/launch"
)

// PathMapping maps URL path prefixes to local directories. It always has a
// "/" entry. Entries keep the order they were declared in, which breaks ties
// between equally long matches.
type PathMapping struct {
	m *linkedhashmap.Map
}

// NewPathMapping starts from "/" -> webRoot and overlays the user entries.
// A user entry for an existing key replaces its value but keeps its position.
func NewPathMapping(webRoot string, user launch.Pairs) PathMapping {
	m := linkedhashmap.New()
	m.Put("/", webRoot)
	for _, kv := range user {
		m.Put(kv.Key, kv.Value)
	}
	return PathMapping{m: m}
}

func (p PathMapping) Len() int {
	if p.m == nil {
		return 0
	}
	return p.m.Size()
}

// Get returns the directory mapped for an exact key.
func (p PathMapping) Get(key string) (string, bool) {
	if p.m == nil {
		return "", false
	}
	v, ok := p.m.Get(key)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// Entries returns a copy of the table in declaration order.
func (p PathMapping) Entries() launch.Pairs {
	out := make(launch.Pairs, 0, p.Len())
	p.each(func(key, dir string) {
		out = append(out, launch.Pair{Key: key, Value: dir})
	})
	return out
}

func (p PathMapping) each(fn func(key, dir string)) {
	if p.m == nil {
		return
	}
	it := p.m.Iterator()
	for it.Next() {
		fn(it.Key().(string), it.Value().(string))
	}
}

// Lookup finds the entry whose key is the longest prefix of the URL. Keys
// that carry a scheme are compared with fullURL, all others with urlPath.
// rest is the remainder after the key, without a leading slash.
func (p PathMapping) Lookup(fullURL, urlPath string) (key, dir, rest string, ok bool) {
	best := -1
	p.each(func(k, d string) {
		if d == "" || len(k) <= best {
			return
		}
		target := urlPath
		if hasScheme(k) {
			target = fullURL
		}
		if r, matched := cutURLPrefix(target, k); matched {
			key, dir, rest, ok = k, d, r, true
			best = len(k)
		}
	})
	return key, dir, rest, ok
}

// Reverse finds the entry whose directory is the longest prefix of
// localPath. rest is slash-separated.
func (p PathMapping) Reverse(localPath string, caseInsensitive bool) (key, rest string, ok bool) {
	best := -1
	p.each(func(k, d string) {
		if d == "" || len(d) <= best {
			return
		}
		if r, matched := cutPathPrefix(localPath, d, caseInsensitive); matched {
			key, rest, ok = k, r, true
			best = len(d)
		}
	})
	return key, rest, ok
}

// MarshalJSON writes the table as an object in declaration order.
func (p PathMapping) MarshalJSON() ([]byte, error) {
	if p.m == nil {
		return []byte("{}"), nil
	}
	return p.m.ToJSON()
}

// Equal reports whether both tables hold the same entries in the same order.
func (p PathMapping) Equal(o PathMapping) bool {
	a, b := p.Entries(), o.Entries()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// cutURLPrefix matches prefix against target on a path-segment boundary.
func cutURLPrefix(target, prefix string) (string, bool) {
	if prefix == "" || !strings.HasPrefix(target, prefix) {
		return "", false
	}
	rest := target[len(prefix):]
	if rest != "" && !strings.HasSuffix(prefix, "/") && rest[0] != '/' {
		return "", false
	}
	return strings.TrimPrefix(rest, "/"), true
}
