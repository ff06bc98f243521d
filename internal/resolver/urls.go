package resolver

import (
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

// Two or more characters before the colon, so Windows drive letters ("C:")
// are not mistaken for schemes.
var reScheme = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]+:`)

var reDrive = regexp.MustCompile(`^/?[a-zA-Z]:[\\/]`)

func hasScheme(s string) bool { return reScheme.MatchString(s) }

func isFileURL(s string) bool {
	return len(s) >= 7 && strings.EqualFold(s[:7], "file://")
}

// fileURLToPath converts a file:// URL to a local path.
func fileURLToPath(s string) (string, bool) {
	u, err := url.Parse(s)
	if err != nil || u.Path == "" {
		return "", false
	}
	p := u.Path
	if reDrive.MatchString(p) && p[0] == '/' {
		p = p[1:]
	}
	return filepath.FromSlash(p), true
}

// pathToFileURL converts an absolute local path to a file:// URL.
func pathToFileURL(p string) string {
	p = filepath.ToSlash(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}

// isWindowsPath reports whether p looks like a Windows absolute path.
func isWindowsPath(p string) bool {
	return reDrive.MatchString(p) && p[0] != '/' || strings.HasPrefix(p, `\\`)
}

// isLocalPath reports whether p is an absolute path on this machine rather
// than a URL path. Only override results are trusted to be local this way.
func isLocalPath(p string) bool {
	return filepath.IsAbs(p) && !hasScheme(p)
}

func isSep(c byte) bool { return c == '/' || c == '\\' }

// cutPathPrefix reports whether prefix is a leading directory of p (or p
// itself) and returns the remainder in slash form without a leading
// separator. Either separator style is accepted on both sides.
func cutPathPrefix(p, prefix string, caseInsensitive bool) (string, bool) {
	if prefix == "" || len(p) < len(prefix) {
		return "", false
	}
	head := p[:len(prefix)]
	if caseInsensitive {
		if !strings.EqualFold(toSlash(head), toSlash(prefix)) {
			return "", false
		}
	} else if toSlash(head) != toSlash(prefix) {
		return "", false
	}
	rest := p[len(prefix):]
	if rest != "" && !isSep(prefix[len(prefix)-1]) && !isSep(rest[0]) {
		return "", false
	}
	return strings.TrimLeft(toSlash(rest), "/"), true
}

func toSlash(p string) string { return strings.ReplaceAll(p, `\`, "/") }

// joinLocal appends a slash-separated remainder to a local directory.
func joinLocal(dir, rest string) string {
	if rest == "" {
		return filepath.Clean(dir)
	}
	return filepath.Join(dir, filepath.FromSlash(rest))
}

// joinRemote appends a slash-separated remainder to a target-side root,
// using the root's own separator style.
func joinRemote(root, rest string) string {
	if rest == "" {
		return root
	}
	sep := "/"
	if isWindowsPath(root) && !strings.Contains(root, "/") {
		sep = `\`
		rest = strings.ReplaceAll(rest, "/", `\`)
	}
	if strings.HasSuffix(root, sep) {
		return root + rest
	}
	return root + sep + rest
}

// joinURLPath appends an unescaped remainder to a path-mapping key and
// escapes the result.
func joinURLPath(key, rest string) string {
	p := key
	if rest != "" {
		p = strings.TrimSuffix(key, "/") + "/" + rest
	}
	if hasScheme(key) {
		u, err := url.Parse(key)
		if err == nil {
			u.Path = strings.TrimSuffix(u.Path, "/") + "/" + rest
			if rest == "" {
				u.Path = strings.TrimSuffix(u.Path, "/")
				if u.Path == "" {
					u.Path = "/"
				}
			}
			return u.String()
		}
		return p
	}
	return (&url.URL{Path: p}).EscapedPath()
}

// splitURL returns the unescaped path of a URL-ish input along with the input
// itself minus any query or fragment.
func splitURL(s string) (full, path string, ok bool) {
	u, err := url.Parse(s)
	if err != nil {
		return "", "", false
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.RawFragment = ""
	full = u.String()
	path = u.Path
	if path == "" {
		path = "/"
	}
	return full, path, true
}
