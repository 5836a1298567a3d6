package resolver

import "strings"

// URI scheme prefixes
const (
	SchemeChrome   = "chrome://"
	SchemeResource = "resource://"
)

// Chrome URI sections
const (
	SectionContent = "content"
	SectionLocale  = "locale"
)

// chromeURI is a parsed chrome://package/section/path... reference
type chromeURI struct {
	Package string
	Section string
	Path    []string
}

func parseChromeURI(uri string) chromeURI {
	parts := strings.Split(strings.TrimPrefix(uri, SchemeChrome), "/")
	c := chromeURI{Package: parts[0]}
	if len(parts) > 1 {
		c.Section = parts[1]
	}
	if len(parts) > 2 {
		c.Path = parts[2:]
	}
	return c
}

// parseResourceURI returns the alias of a resource://alias/... reference
func parseResourceURI(uri string) string {
	alias, _, _ := strings.Cut(strings.TrimPrefix(uri, SchemeResource), "/")
	return alias
}

// basename returns the last slash-separated segment of uri
func basename(uri string) string {
	trimmed := strings.TrimRight(uri, "/")
	if i := strings.LastIndexByte(trimmed, '/'); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
