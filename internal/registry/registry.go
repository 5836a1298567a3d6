// Package registry builds the package registry for a source tree.
//
// A registry is assembled by walking the tree for jar.mn manifests (plus the
// .properties and .xhtml files used for last-resort lookups) and collecting
// the content, locale and resource declarations of every manifest. Entry order
// within a package follows traversal order and decides fallback priority.
package registry

import "encoding/json"

// Top-level registry keys, as exposed to bare-key lookups
const (
	KeyContent  = "content"
	KeyLocale   = "locale"
	KeyResource = "resource"
	KeyPaths    = "paths"
)

// Entry is one declaration line from a manifest
type Entry struct {
	// Dir is the directory the declaration is relative to, relative to the tree root
	Dir string `json:"dir"`
	// URI is the declared location, possibly containing placeholder tokens
	URI string `json:"uri"`
	// Flags are the trailing manifest flags, if any
	Flags []string `json:"flags,omitempty"`
}

// Packages maps a package name (or resource alias) to its ordered entries
type Packages map[string][]Entry

func (p Packages) add(name string, e Entry) {
	p[name] = append(p[name], e)
}

// Paths holds the files collected by the tree scanner, in traversal order
type Paths struct {
	Manifests  []string `json:"jar"`
	Properties []string `json:"properties"`
	XHTML      []string `json:"xhtml"`
}

// Registry is the aggregated result of scanning and parsing a tree.
type Registry struct {
	Content  Packages `json:"content"`
	Locale   Packages `json:"locale"`
	Resource Packages `json:"resource"`
	Paths    Paths    `json:"paths"`
}

// New returns an empty registry
func New() *Registry {
	return &Registry{
		Content:  Packages{},
		Locale:   Packages{},
		Resource: Packages{},
		Paths: Paths{
			Manifests:  []string{},
			Properties: []string{},
			XHTML:      []string{},
		},
	}
}

// Lookup returns the top-level sub-structure named key.
func (r *Registry) Lookup(key string) (any, bool) {
	switch key {
	case KeyContent:
		return r.Content, true
	case KeyLocale:
		return r.Locale, true
	case KeyResource:
		return r.Resource, true
	case KeyPaths:
		return r.Paths, true
	default:
		return nil, false
	}
}

// Encode serializes the registry for caching
func (r *Registry) Encode() ([]byte, error) {
	return json.Marshal(r)
}

// Decode parses a cached registry
func Decode(data []byte) (*Registry, error) {
	reg := New()
	if err := json.Unmarshal(data, reg); err != nil {
		return nil, err
	}
	reg.normalize()
	return reg, nil
}

// normalize replaces nil maps and slices left by sparse JSON
func (r *Registry) normalize() {
	if r.Content == nil {
		r.Content = Packages{}
	}
	if r.Locale == nil {
		r.Locale = Packages{}
	}
	if r.Resource == nil {
		r.Resource = Packages{}
	}
	if r.Paths.Manifests == nil {
		r.Paths.Manifests = []string{}
	}
	if r.Paths.Properties == nil {
		r.Paths.Properties = []string{}
	}
	if r.Paths.XHTML == nil {
		r.Paths.XHTML = []string{}
	}
}
