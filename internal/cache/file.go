package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const tmpPrefix = ".tmp-"

// FileStore keeps one file per record inside Dir.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store rooted at dir. The directory is
// created lazily on the first Set.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the storage directory
func (f *FileStore) Dir() string {
	return f.dir
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, Key(key))
}

// Get reads the record for key
func (f *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrCacheMiss{Key: key}
		}
		return nil, fmt.Errorf("failed to read cache record: %w", err)
	}

	return data, nil
}

// Set replaces the record for key. The value is written to a temporary file
// in the same directory and renamed over the record, so readers never observe
// a partially written file.
func (f *FileStore) Set(ctx context.Context, key string, value []byte) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp := filepath.Join(f.dir, tmpPrefix+uuid.NewString())
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write cache record: %w", err)
	}

	if err := os.Rename(tmp, f.path(key)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace cache record: %w", err)
	}

	return nil
}

// Clear removes every record file in the storage directory, including
// records written under older structure versions. Other files and
// directories are left alone. A missing directory is an empty cache.
func (f *FileStore) Clear(ctx context.Context) (int, error) {
	if err := checkContext(ctx); err != nil {
		return 0, err
	}

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to list cache directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		name := entry.Name()
		switch {
		case isRecordName(name):
			if err := os.Remove(filepath.Join(f.dir, name)); err != nil {
				return removed, fmt.Errorf("failed to remove cache record %s: %w", name, err)
			}
			removed++
		case strings.HasPrefix(name, tmpPrefix):
			// Interrupted writes; not records
			_ = os.Remove(filepath.Join(f.dir, name))
		}
	}

	return removed, nil
}

// Close is a no-op for file stores
func (f *FileStore) Close() error {
	return nil
}
