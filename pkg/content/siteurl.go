package content

import "strings"

// DefaultSiteURL is used when no public URL is configured.
const DefaultSiteURL = "http://localhost:3000"

// FullURL joins a site base URL and a path. The path gains a leading slash
// if it lacks one; a trailing slash on base is dropped.
func FullURL(base, path string) string {
	if base == "" {
		base = DefaultSiteURL
	}
	base = strings.TrimSuffix(base, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
