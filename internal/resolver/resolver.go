package resolver

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/conduit-lang/chromeuri/internal/registry"
)

const (
	// contentRootURI declares a content package rooted at the manifest
	// directory itself rather than its content/ subdirectory.
	contentRootURI = "%content/"
	localePrefix   = "%locale/"
)

// Resolver resolves URIs against registries produced by a Builder.
type Resolver struct {
	builder *registry.Builder
	logger  *zap.Logger
}

// New creates a resolver
func New(builder *registry.Builder, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{builder: builder, logger: logger}
}

// Resolve maps uri to files under root. chrome:// URIs produce a KindPaths
// result (possibly empty); resource:// and bare keys produce KindRaw.
func (r *Resolver) Resolve(ctx context.Context, root, uri string) (*Result, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid root %s: %w", root, err)
	}

	reg, err := r.builder.Load(ctx, absRoot)
	if err != nil {
		return nil, err
	}

	if !strings.HasPrefix(uri, SchemeChrome) {
		return lookupRaw(reg, uri), nil
	}

	res := &resolution{
		ctx:   ctx,
		root:  absRoot,
		reg:   reg,
		found: newPathSet(),
		probe: newSubdirProbe(),
	}

	c := parseChromeURI(uri)
	switch c.Section {
	case SectionContent:
		err = res.content(c)
	case SectionLocale:
		err = res.locale(c)
	}
	if err != nil {
		return nil, err
	}

	if res.found.len() == 0 {
		res.bySuffix(uri)
	}

	r.logger.Debug("resolved uri",
		zap.String("uri", uri),
		zap.String("root", absRoot),
		zap.Int("matches", res.found.len()),
	)
	return PathsResult(res.found.paths), nil
}

// lookupRaw answers resource:// and bare-key URIs without touching the disk.
// An unknown bare key yields the whole registry.
func lookupRaw(reg *registry.Registry, uri string) *Result {
	if strings.HasPrefix(uri, SchemeResource) {
		entries, ok := reg.Resource[parseResourceURI(uri)]
		if !ok {
			return RawResult(nil)
		}
		return RawResult(entries)
	}
	if v, ok := reg.Lookup(uri); ok {
		return RawResult(v)
	}
	return RawResult(reg)
}

// Registry returns the registry for root, building it if no cached copy exists
func (r *Resolver) Registry(ctx context.Context, root string) (*registry.Registry, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid root %s: %w", root, err)
	}
	return r.builder.Load(ctx, absRoot)
}

// ClearCache removes every cached registry and returns the number removed
func (r *Resolver) ClearCache(ctx context.Context) (int, error) {
	return r.builder.ClearCache(ctx)
}

// resolution is the state of one chrome:// lookup. Its subdirectory probe
// cache never outlives the call.
type resolution struct {
	ctx   context.Context
	root  string
	reg   *registry.Registry
	found *pathSet
	probe *subdirProbe
}

// try adds path to the result if it exists
func (res *resolution) try(path string) (bool, error) {
	if err := res.ctx.Err(); err != nil {
		return false, err
	}
	ok, err := exists(path)
	if err != nil {
		return false, err
	}
	if ok {
		res.found.add(path)
	}
	return ok, nil
}

func (res *resolution) content(c chromeURI) error {
	entries, ok := res.reg.Content[c.Package]
	if !ok {
		return unknownPackage(c.Package, SectionContent, res.reg.Content)
	}

	for _, entry := range entries {
		sub := SectionContent
		if entry.URI == contentRootURI {
			sub = ""
		}
		path := join(res.root, entry.Dir, sub, c.Path)

		ok, err := res.try(path)
		if err != nil {
			return err
		}
		if ok {
			continue
		}

		// Declared and requested paths sometimes overlap by a segment. This
		// also collapses legitimately repeated directory names.
		if _, err := res.try(dedupeSegments(res.root, path)); err != nil {
			return err
		}
	}
	return nil
}

func (res *resolution) locale(c chromeURI) error {
	entries, ok := res.reg.Locale[c.Package]
	if !ok {
		return unknownPackage(c.Package, SectionLocale, res.reg.Locale)
	}

	for _, entry := range entries {
		localeRoot := filepath.Join(res.root, filepath.FromSlash(entry.Dir), registry.FallbackLocale)
		suffix := stripLocalePrefix(entry.URI)

		subdirs, err := res.probe.subdirs(localeRoot)
		if err != nil {
			return err
		}

		for _, id := range append([]string{""}, subdirs...) {
			ok, err := res.try(join(localeRoot, id, suffix, c.Path))
			if err != nil {
				return err
			}
			if ok {
				continue
			}
			if _, err := res.try(join(localeRoot, id, "", c.Path)); err != nil {
				return err
			}
		}
	}
	return nil
}

// bySuffix adds every scanned .properties or .xhtml file sharing the URI's
// basename.
func (res *resolution) bySuffix(uri string) {
	var candidates []string
	switch {
	case strings.HasSuffix(uri, ".properties"):
		candidates = res.reg.Paths.Properties
	case strings.HasSuffix(uri, ".xhtml"):
		candidates = res.reg.Paths.XHTML
	default:
		return
	}

	name := basename(uri)
	for _, path := range candidates {
		if filepath.Base(path) == name {
			res.found.add(path)
		}
	}
}

// stripLocalePrefix removes a leading "%locale/" and an optional
// "@AB_CD@/" that follows it.
func stripLocalePrefix(uri string) string {
	rest, ok := strings.CutPrefix(uri, localePrefix)
	if !ok {
		return uri
	}
	return strings.TrimPrefix(rest, registry.PlaceholderLocale+"/")
}

// dedupeSegments rebuilds path relative to root keeping only the first
// occurrence of each segment.
func dedupeSegments(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}

	seen := make(map[string]struct{})
	segments := []string{root}
	for _, seg := range strings.Split(filepath.ToSlash(rel), "/") {
		if _, ok := seen[seg]; ok {
			continue
		}
		seen[seg] = struct{}{}
		segments = append(segments, seg)
	}
	return filepath.Join(segments...)
}

// join builds base/dir/sub/rest... with slash-separated inputs
func join(base, dir, sub string, rest []string) string {
	parts := make([]string, 0, len(rest)+3)
	parts = append(parts, base, filepath.FromSlash(dir), filepath.FromSlash(sub))
	parts = append(parts, rest...)
	return filepath.Join(parts...)
}
