package registry

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/conduit-lang/chromeuri/internal/cache"
)

// Builder produces registries, consulting a cache store before walking a tree.
type Builder struct {
	store   cache.Store
	scanner Scanner
	logger  *zap.Logger
}

// Option configures a Builder
type Option func(*Builder)

// WithScanner replaces the filesystem scanner
func WithScanner(s Scanner) Option {
	return func(b *Builder) { b.scanner = s }
}

// WithLogger sets the logger used for build and cache diagnostics
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder creates a builder backed by store. A nil store disables caching.
func NewBuilder(store cache.Store, opts ...Option) *Builder {
	if store == nil {
		store = cache.NopStore{}
	}
	b := &Builder{
		store:   store,
		scanner: NewFSScanner(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Load returns the registry for root, from the cache when present. A cache
// miss triggers a full build whose result is written back best-effort.
func (b *Builder) Load(ctx context.Context, root string) (*Registry, error) {
	reg, ok, err := b.Cached(ctx, root)
	if err != nil {
		return nil, err
	}
	if ok {
		return reg, nil
	}

	reg, err = b.Build(ctx, root)
	if err != nil {
		return nil, err
	}

	b.save(ctx, root, reg)
	return reg, nil
}

// Cached reads the registry cached for root. ok is false on a cold cache;
// unreadable or corrupt records are returned as errors.
func (b *Builder) Cached(ctx context.Context, root string) (reg *Registry, ok bool, err error) {
	data, err := b.store.Get(ctx, root)
	if err != nil {
		if cache.IsCacheMiss(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	reg, err = Decode(data)
	if err != nil {
		return nil, false, fmt.Errorf("corrupt cache record for %s: %w", root, err)
	}
	return reg, true, nil
}

// Build scans root and parses every manifest found, ignoring the cache.
func (b *Builder) Build(ctx context.Context, root string) (*Registry, error) {
	start := time.Now()

	paths, err := b.scanner.Scan(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	reg := New()
	reg.Paths = paths

	for _, manifest := range paths.Manifests {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		dir, err := relDir(root, manifest)
		if err != nil {
			return nil, err
		}
		if err := ParseManifest(manifest, dir, reg); err != nil {
			return nil, err
		}
	}

	b.logger.Debug("built registry",
		zap.String("root", root),
		zap.Int("manifests", len(paths.Manifests)),
		zap.Int("content", len(reg.Content)),
		zap.Int("locale", len(reg.Locale)),
		zap.Int("resource", len(reg.Resource)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return reg, nil
}

func (b *Builder) save(ctx context.Context, root string, reg *Registry) {
	data, err := reg.Encode()
	if err == nil {
		err = b.store.Set(ctx, root, data)
	}
	if err != nil {
		b.logger.Warn("failed to write registry cache", zap.String("root", root), zap.Error(err))
	}
}

// ClearCache removes every cached registry
func (b *Builder) ClearCache(ctx context.Context) (int, error) {
	return b.store.Clear(ctx)
}

// relDir returns the directory of manifest relative to root, "" for root itself.
func relDir(root, manifest string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	dir, err := filepath.Rel(absRoot, filepath.Dir(manifest))
	if err != nil {
		return "", fmt.Errorf("manifest %s is outside %s: %w", manifest, root, err)
	}
	if dir == "." {
		return "", nil
	}
	return filepath.ToSlash(dir), nil
}
