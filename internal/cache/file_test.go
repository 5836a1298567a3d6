package cache

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_GetMissingIsMiss(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "never-created"))

	_, err := store.Get(context.Background(), "/src/tree")
	require.Error(t, err)
	assert.True(t, IsCacheMiss(err))
}

func TestFileStore_SetAndGet(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "cache")
	store := NewFileStore(dir)

	require.NoError(t, store.Set(ctx, "/src/tree", []byte(`{"content":{}}`)))

	got, err := store.Get(ctx, "/src/tree")
	require.NoError(t, err)
	assert.Equal(t, `{"content":{}}`, string(got))

	// One file per key, named by the derived key, no temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, Key("/src/tree"), entries[0].Name())
}

func TestFileStore_SetReplaces(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir())

	require.NoError(t, store.Set(ctx, "k", []byte("first")))
	require.NoError(t, store.Set(ctx, "k", []byte("second")))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))
}

func TestFileStore_ReadErrorIsNotMiss(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewFileStore(dir)

	// A directory where the record should be makes the read fail
	require.NoError(t, os.Mkdir(filepath.Join(dir, Key("k")), 0o755))

	_, err := store.Get(ctx, "k")
	require.Error(t, err)
	assert.False(t, IsCacheMiss(err))
}

func TestFileStore_SetFailsWhenDirIsFile(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	store := NewFileStore(filepath.Join(blocker, "cache"))
	assert.Error(t, store.Set(context.Background(), "k", []byte("v")))
}

func TestFileStore_Clear(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir())

	for _, root := range []string{"/a", "/b", "/c"} {
		require.NoError(t, store.Set(ctx, root, []byte("{}")))
	}

	n, err := store.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = store.Get(ctx, "/a")
	assert.True(t, IsCacheMiss(err))

	n, err = store.Clear(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFileStore_ClearRemovesOrphanedVersions(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewFileStore(dir)

	require.NoError(t, store.Set(ctx, "/a", []byte("{}")))
	orphan := filepath.Join(dir, KeyForVersion(StructureVersion-1, "/a"))
	require.NoError(t, os.WriteFile(orphan, []byte("{}"), 0o644))

	n, err := store.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestFileStore_ClearOnlyRemovesRecords(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewFileStore(dir)

	require.NoError(t, store.Set(ctx, "/a", []byte("{}")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("keep"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "shared"), 0o755))
	// A directory with a record-shaped name is not a record either
	require.NoError(t, os.Mkdir(filepath.Join(dir, Key("/b")), 0o755))
	stale := filepath.Join(dir, tmpPrefix+"0b0e8f4c-interrupted")
	require.NoError(t, os.WriteFile(stale, []byte("{"), 0o644))

	n, err := store.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.FileExists(t, filepath.Join(dir, "notes.txt"))
	assert.FileExists(t, filepath.Join(dir, "README"))
	assert.DirExists(t, filepath.Join(dir, "shared"))
	assert.DirExists(t, filepath.Join(dir, Key("/b")))
	assert.NoFileExists(t, stale)
	assert.NoFileExists(t, filepath.Join(dir, Key("/a")))
}

func TestFileStore_ClearMissingDir(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing"))

	n, err := store.Clear(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFileStore_ReadPermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}

	ctx := context.Background()
	dir := t.TempDir()
	store := NewFileStore(dir)
	require.NoError(t, store.Set(ctx, "k", []byte("{}")))
	require.NoError(t, os.Chmod(filepath.Join(dir, Key("k")), 0o000))

	_, err := store.Get(ctx, "k")
	require.Error(t, err)
	assert.False(t, IsCacheMiss(err))
}
