package launch

import (
	"net/url"
	"strings"
)

// BaseURL derives the origin that a browser target serves its scripts from.
// The path, query and fragment of the configured url are dropped. Targets
// without a url (or with a data: or unparsable one) have no base URL and
// BaseURL returns "".
func BaseURL(c *Config) string {
	if c == nil || strings.TrimSpace(c.URL) == "" {
		return ""
	}
	u, err := url.Parse(strings.TrimSpace(c.URL))
	if err != nil || u.Scheme == "" || strings.EqualFold(u.Scheme, "data") {
		return ""
	}
	if u.Host == "" && !strings.EqualFold(u.Scheme, "file") {
		return ""
	}
	base := url.URL{Scheme: strings.ToLower(u.Scheme), Host: u.Host, Path: "/"}
	return base.String()
}
