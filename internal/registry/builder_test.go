package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/conduit-lang/chromeuri/internal/cache"
)

type countingScanner struct {
	inner Scanner
	calls int
}

func (c *countingScanner) Scan(ctx context.Context, root string) (Paths, error) {
	c.calls++
	return c.inner.Scan(ctx, root)
}

type failingStore struct {
	cache.Store
	getErr error
	setErr error
}

func (f failingStore) Get(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.Store.Get(ctx, key)
}

func (f failingStore) Set(ctx context.Context, key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Store.Set(ctx, key, value)
}

func sampleTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"jar.mn": "% resource app ./\n",
		"browser/base/jar.mn": `browser.jar:
% content browser %content/browser/
relativesrcdir browser/locales:
% locale browser @AB_CD@ %locale/browser/
`,
		"toolkit/jar.mn": "% content global %content/global/\n",
		"browser/locales/en-US/browser.properties": "",
	})
	return root
}

func TestBuilder_Build(t *testing.T) {
	root := sampleTree(t)

	reg, err := NewBuilder(nil).Build(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []Entry{{Dir: "", URI: "./"}}, reg.Resource["app"])
	assert.Equal(t, []Entry{{Dir: "browser/base", URI: "%content/browser/"}}, reg.Content["browser"])
	assert.Equal(t, []Entry{{Dir: "browser/locales", URI: "%locale/browser/"}}, reg.Locale["browser"])
	assert.Equal(t, "toolkit", reg.Content["global"][0].Dir)
	assert.Len(t, reg.Paths.Manifests, 3)
	assert.Len(t, reg.Paths.Properties, 1)
}

func TestBuilder_DirectiveScopedToManifest(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a/jar.mn": "relativesrcdir elsewhere:\n% content a content/\n",
		"b/jar.mn": "% content b content/\n",
	})

	reg, err := NewBuilder(nil).Build(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, "elsewhere", reg.Content["a"][0].Dir)
	assert.Equal(t, "b", reg.Content["b"][0].Dir)
}

func TestBuilder_BuildFailsOnUnsupportedLocale(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"ok/jar.mn":  "% content ok content/\n",
		"bad/jar.mn": "% locale pkg fr-FR uri/\n",
	})

	store := cache.NewMemoryStore()
	_, err := NewBuilder(store).Load(context.Background(), root)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedLocale))
	assert.Contains(t, err.Error(), filepath.Join(root, "bad", "jar.mn"))

	// Nothing is cached for a failed build
	assert.Zero(t, store.Len())
}

func TestBuilder_LoadUsesCache(t *testing.T) {
	ctx := context.Background()
	root := sampleTree(t)
	store := cache.NewMemoryStore()
	scanner := &countingScanner{inner: NewFSScanner()}
	b := NewBuilder(store, WithScanner(scanner))

	first, err := b.Load(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, 1, scanner.calls)

	require.NoError(t, os.RemoveAll(filepath.Join(root, "browser")))

	second, err := b.Load(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, 1, scanner.calls)
	assert.Equal(t, first, second)
}

func TestBuilder_ClearCacheForcesRescan(t *testing.T) {
	ctx := context.Background()
	rootA := sampleTree(t)
	rootB := sampleTree(t)
	scanner := &countingScanner{inner: NewFSScanner()}
	b := NewBuilder(cache.NewFileStore(t.TempDir()), WithScanner(scanner))

	_, err := b.Load(ctx, rootA)
	require.NoError(t, err)
	_, err = b.Load(ctx, rootB)
	require.NoError(t, err)
	_, err = b.Load(ctx, rootA)
	require.NoError(t, err)
	assert.Equal(t, 2, scanner.calls)

	n, err := b.ClearCache(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = b.Load(ctx, rootA)
	require.NoError(t, err)
	assert.Equal(t, 3, scanner.calls)
}

func TestBuilder_CorruptCacheIsFatal(t *testing.T) {
	ctx := context.Background()
	root := sampleTree(t)
	store := cache.NewMemoryStore()
	require.NoError(t, store.Set(ctx, root, []byte("{not json")))

	scanner := &countingScanner{inner: NewFSScanner()}
	_, err := NewBuilder(store, WithScanner(scanner)).Load(ctx, root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt cache record")
	assert.Zero(t, scanner.calls)
}

func TestBuilder_CacheReadErrorIsFatal(t *testing.T) {
	store := failingStore{Store: cache.NewMemoryStore(), getErr: errors.New("permission denied")}

	_, err := NewBuilder(store).Load(context.Background(), sampleTree(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestBuilder_CacheWriteFailureIsWarning(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	store := failingStore{Store: cache.NewMemoryStore(), setErr: errors.New("disk full")}
	root := sampleTree(t)

	reg, err := NewBuilder(store, WithLogger(zap.New(core))).Load(context.Background(), root)
	require.NoError(t, err)
	assert.Contains(t, reg.Content, "browser")

	entries := logs.FilterMessage("failed to write registry cache").All()
	require.Len(t, entries, 1)
	assert.Equal(t, root, entries[0].ContextMap()["root"])
}

func TestBuilder_Cached(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	b := NewBuilder(store)

	_, ok, err := b.Cached(ctx, "/nowhere")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "/nowhere", []byte(`{"content":{"p":[{"dir":"d","uri":"u"}]}}`)))
	reg, ok, err := b.Cached(ctx, "/nowhere")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []Entry{{Dir: "d", URI: "u"}}, reg.Content["p"])
	assert.NotNil(t, reg.Locale)
	assert.NotNil(t, reg.Paths.XHTML)
}
